package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eupolar/eupolar-server/internal/domain"
)

// LifeChartService builds a user's life chart timeline and keeps the single stored copy
// current. Reads go through the cache first.
type LifeChartService struct {
	logger  *logrus.Logger
	builder *TimelineBuilder
	store   domain.LifeChartStore
	cache   domain.LifeChartCache
	now     func() time.Time
}

// NewLifeChartService creates a new life chart service. cache may be nil.
func NewLifeChartService(
	logger *logrus.Logger,
	builder *TimelineBuilder,
	store domain.LifeChartStore,
	cache domain.LifeChartCache,
) *LifeChartService {
	return &LifeChartService{
		logger:  logger,
		builder: builder,
		store:   store,
		cache:   cache,
		now:     time.Now,
	}
}

// Submit rebuilds the timeline from the form and replaces the user's stored chart.
func (s *LifeChartService) Submit(ctx context.Context, userID string, values domain.FormValues) (*domain.LifeChart, error) {
	if userID == "" {
		return nil, domain.ErrMissingUser
	}
	if values == nil {
		values = domain.FormValues{}
	}

	now := s.now().UTC()
	chart := &domain.LifeChart{
		UserID: userID,
		Data: domain.LifeChartData{
			Form:        values,
			Timeline:    s.builder.BuildFromValues(values),
			GeneratedAt: now.Format(time.RFC3339),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.SaveLifeChart(ctx, chart); err != nil {
		return nil, fmt.Errorf("failed to save life chart: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, chart); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to refresh life chart cache")
			// A stale entry must not outlive the write.
			_ = s.cache.Invalidate(ctx, userID)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"points":  len(chart.Data.Timeline),
	}).Info("Life chart saved")

	return chart, nil
}

// Get returns the user's chart or a wrapped domain.ErrNotFound.
func (s *LifeChartService) Get(ctx context.Context, userID string) (*domain.LifeChart, error) {
	if userID == "" {
		return nil, domain.ErrMissingUser
	}

	if s.cache != nil {
		chart, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Debug("Life chart cache read failed")
		} else if ok {
			return chart, nil
		}
	}

	chart, err := s.store.GetLifeChart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load life chart: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, chart); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Debug("Life chart cache fill failed")
		}
	}

	return chart, nil
}
