package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/eupolar/eupolar-server/internal/domain"
)

// DefaultHistoryPageSize is used when no page size is configured.
const DefaultHistoryPageSize = 50

// QuestionnaireService scores questionnaire submissions and appends them to the user's log
type QuestionnaireService struct {
	logger   *logrus.Logger
	engine   *ScoringEngine
	store    domain.ResponseStore
	policy   string
	pageSize int
	now      func() time.Time
}

// NewQuestionnaireService creates a new questionnaire service
func NewQuestionnaireService(
	logger *logrus.Logger,
	engine *ScoringEngine,
	store domain.ResponseStore,
	cfg domain.ScoringConfig,
) *QuestionnaireService {
	policy := cfg.UnknownInstrumentPolicy
	if policy == "" {
		policy = domain.UnknownInstrumentReject
	}
	pageSize := cfg.HistoryPageSize
	if pageSize <= 0 {
		pageSize = DefaultHistoryPageSize
	}

	return &QuestionnaireService{
		logger:   logger,
		engine:   engine,
		store:    store,
		policy:   policy,
		pageSize: pageSize,
		now:      time.Now,
	}
}

// Instruments lists the instrument definitions a client can submit against.
func (s *QuestionnaireService) Instruments() []domain.Instrument {
	return s.engine.Instruments()
}

// Submit validates, scores and records one questionnaire submission.
func (s *QuestionnaireService) Submit(ctx context.Context, userID string, instrument domain.InstrumentID, answers domain.FormValues) (*domain.QuestionnaireResponse, error) {
	if userID == "" {
		return nil, domain.ErrMissingUser
	}

	score, err := s.score(instrument, answers)
	if err != nil {
		return nil, err
	}

	serialized, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize answers: %w", err)
	}

	response := &domain.QuestionnaireResponse{
		ID:             uuid.NewString(),
		UserID:         userID,
		InstrumentType: instrument,
		RawAnswers:     answers,
		Responses:      string(serialized),
		Score:          score,
		CompletedAt:    s.now().UTC(),
	}

	if err := s.store.AppendResponse(ctx, response); err != nil {
		return nil, fmt.Errorf("failed to store questionnaire response: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":     userID,
		"instrument":  instrument,
		"score":       score,
		"response_id": response.ID,
	}).Info("Questionnaire scored")

	return response, nil
}

// Preview scores a submission and returns the per-slot breakdown without recording it.
// The unknown-instrument policy does not apply: there is nothing to preview.
func (s *QuestionnaireService) Preview(instrument domain.InstrumentID, answers domain.FormValues) (*ScoreBreakdown, error) {
	if err := s.engine.ValidateAnswers(instrument, answers); err != nil {
		return nil, err
	}
	return s.engine.Breakdown(instrument, answers)
}

// score pre-validates and scores, applying the unknown-instrument policy.
func (s *QuestionnaireService) score(instrument domain.InstrumentID, answers domain.FormValues) (int, error) {
	err := s.engine.ValidateAnswers(instrument, answers)
	if errors.Is(err, domain.ErrUnknownInstrument) && s.policy == domain.UnknownInstrumentLegacyZero {
		s.logger.WithField("instrument", instrument).Warn("Unknown instrument recorded with score 0")
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return s.engine.Score(instrument, answers)
}

// History returns the user's responses newest first. A non-positive limit uses the
// configured page size.
func (s *QuestionnaireService) History(ctx context.Context, userID string, limit, offset int) ([]*domain.QuestionnaireResponse, error) {
	if userID == "" {
		return nil, domain.ErrMissingUser
	}
	if limit <= 0 || limit > s.pageSize {
		limit = s.pageSize
	}
	if offset < 0 {
		offset = 0
	}

	responses, err := s.store.ListResponses(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list questionnaire responses: %w", err)
	}
	return responses, nil
}
