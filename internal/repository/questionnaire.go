package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/eupolar/eupolar-server/internal/domain"
)

// QuestionnaireRepository is the insert-only log of scored questionnaire responses
type QuestionnaireRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewQuestionnaireRepository creates a new questionnaire repository
func NewQuestionnaireRepository(db *pgxpool.Pool, logger *logrus.Logger) *QuestionnaireRepository {
	return &QuestionnaireRepository{
		db:  db,
		log: logger,
	}
}

// AppendResponse inserts a scored response. Responses are never updated.
func (r *QuestionnaireRepository) AppendResponse(ctx context.Context, response *domain.QuestionnaireResponse) error {
	id, err := uuid.Parse(response.ID)
	if err != nil {
		id = uuid.New()
		response.ID = id.String()
	}

	query := `
		INSERT INTO questionnaire_responses (
			id, user_id, questionnaire_type, responses, score, completed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)`

	_, err = r.db.Exec(ctx, query,
		id,
		response.UserID,
		string(response.InstrumentType),
		response.Responses,
		response.Score,
		response.CompletedAt,
	)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"response_id": response.ID,
			"instrument":  response.InstrumentType,
			"error":       err,
		}).Error("Failed to append questionnaire response")
		return fmt.Errorf("appending questionnaire response: %w", err)
	}

	return nil
}

// ListResponses returns a page of the user's responses, newest first
func (r *QuestionnaireRepository) ListResponses(ctx context.Context, userID string, limit, offset int) ([]*domain.QuestionnaireResponse, error) {
	query := `
		SELECT id, user_id, questionnaire_type, responses, score, completed_at
		FROM questionnaire_responses
		WHERE user_id = $1
		ORDER BY completed_at DESC, id
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying questionnaire responses: %w", err)
	}

	responses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.QuestionnaireResponse, error) {
		var (
			response   domain.QuestionnaireResponse
			id         uuid.UUID
			instrument string
		)
		if err := row.Scan(&id, &response.UserID, &instrument, &response.Responses, &response.Score, &response.CompletedAt); err != nil {
			return nil, err
		}
		response.ID = id.String()
		response.InstrumentType = domain.InstrumentID(instrument)
		response.CompletedAt = response.CompletedAt.UTC()
		return &response, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning questionnaire responses: %w", err)
	}

	return responses, nil
}
