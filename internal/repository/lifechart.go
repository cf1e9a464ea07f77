package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/eupolar/eupolar-server/internal/domain"
)

// LifeChartRepository keeps one life chart per user
type LifeChartRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewLifeChartRepository creates a new life chart repository
func NewLifeChartRepository(db *pgxpool.Pool, logger *logrus.Logger) *LifeChartRepository {
	return &LifeChartRepository{
		db:  db,
		log: logger,
	}
}

// SaveLifeChart replaces the user's chart. The original creation time survives the upsert.
func (r *LifeChartRepository) SaveLifeChart(ctx context.Context, chart *domain.LifeChart) error {
	query := `
		INSERT INTO life_charts (user_id, data, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at`

	// data is JSONB; pgx marshals the struct
	err := r.db.QueryRow(ctx, query, chart.UserID, chart.Data, chart.UpdatedAt).Scan(&chart.CreatedAt)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"user_id": chart.UserID,
			"error":   err,
		}).Error("Failed to save life chart")
		return fmt.Errorf("saving life chart: %w", err)
	}
	chart.CreatedAt = chart.CreatedAt.UTC()

	return nil
}

// GetLifeChart loads the user's chart
func (r *LifeChartRepository) GetLifeChart(ctx context.Context, userID string) (*domain.LifeChart, error) {
	query := `
		SELECT user_id, data, created_at, updated_at
		FROM life_charts
		WHERE user_id = $1`

	var chart domain.LifeChart
	err := r.db.QueryRow(ctx, query, userID).Scan(&chart.UserID, &chart.Data, &chart.CreatedAt, &chart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("life chart not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("getting life chart: %w", err)
	}
	chart.CreatedAt = chart.CreatedAt.UTC()
	chart.UpdatedAt = chart.UpdatedAt.UTC()

	return &chart, nil
}
