package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/eupolar/eupolar-server/internal/domain"
)

const dateLayout = "2006-01-02"

// JournalRepository stores daily mood entries and mood diary pages
type JournalRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewJournalRepository creates a new journal repository
func NewJournalRepository(db *pgxpool.Pool, logger *logrus.Logger) *JournalRepository {
	return &JournalRepository{
		db:  db,
		log: logger,
	}
}

// AddMoodEntry inserts a mood entry and fills in its ID
func (r *JournalRepository) AddMoodEntry(ctx context.Context, entry *domain.MoodEntry) error {
	date, err := time.Parse(dateLayout, entry.Date)
	if err != nil {
		return fmt.Errorf("parsing entry date: %w", err)
	}

	query := `
		INSERT INTO mood_entries (
			user_id, entry_date, mood_level, sleep_hours, medications, notes, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		RETURNING id`

	err = r.db.QueryRow(ctx, query,
		entry.UserID,
		date,
		entry.MoodLevel,
		entry.SleepHours,
		entry.Medications,
		entry.Notes,
		entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"user_id": entry.UserID,
			"error":   err,
		}).Error("Failed to add mood entry")
		return fmt.Errorf("adding mood entry: %w", err)
	}

	return nil
}

// ListMoodEntries returns the user's latest mood entries by date, newest first
func (r *JournalRepository) ListMoodEntries(ctx context.Context, userID string, limit int) ([]*domain.MoodEntry, error) {
	query := `
		SELECT id, user_id, entry_date, mood_level, sleep_hours, medications, notes, created_at
		FROM mood_entries
		WHERE user_id = $1
		ORDER BY entry_date DESC, id DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying mood entries: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.MoodEntry, error) {
		var (
			entry domain.MoodEntry
			date  time.Time
		)
		err := row.Scan(&entry.ID, &entry.UserID, &date, &entry.MoodLevel, &entry.SleepHours,
			&entry.Medications, &entry.Notes, &entry.CreatedAt)
		if err != nil {
			return nil, err
		}
		entry.Date = date.Format(dateLayout)
		entry.CreatedAt = entry.CreatedAt.UTC()
		return &entry, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning mood entries: %w", err)
	}

	return entries, nil
}

// AddDiaryEntry inserts a diary page and fills in its ID
func (r *JournalRepository) AddDiaryEntry(ctx context.Context, entry *domain.DiaryEntry) error {
	date, err := time.Parse(dateLayout, entry.Date)
	if err != nil {
		return fmt.Errorf("parsing entry date: %w", err)
	}

	query := `
		INSERT INTO diary_entries (
			user_id, entry_date, mood_morning, mood_afternoon, mood_evening,
			energy_level, anxiety_level, irritability_level, activities, thoughts, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		RETURNING id`

	err = r.db.QueryRow(ctx, query,
		entry.UserID,
		date,
		entry.MoodMorning,
		entry.MoodAfternoon,
		entry.MoodEvening,
		entry.EnergyLevel,
		entry.AnxietyLevel,
		entry.IrritabilityLevel,
		entry.Activities,
		entry.Thoughts,
		entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"user_id": entry.UserID,
			"error":   err,
		}).Error("Failed to add diary entry")
		return fmt.Errorf("adding diary entry: %w", err)
	}

	return nil
}

// ListDiaryEntries returns the user's latest diary pages by date, newest first
func (r *JournalRepository) ListDiaryEntries(ctx context.Context, userID string, limit int) ([]*domain.DiaryEntry, error) {
	query := `
		SELECT id, user_id, entry_date, mood_morning, mood_afternoon, mood_evening,
			   energy_level, anxiety_level, irritability_level, activities, thoughts, created_at
		FROM diary_entries
		WHERE user_id = $1
		ORDER BY entry_date DESC, id DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying diary entries: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.DiaryEntry, error) {
		var (
			entry domain.DiaryEntry
			date  time.Time
		)
		err := row.Scan(&entry.ID, &entry.UserID, &date,
			&entry.MoodMorning, &entry.MoodAfternoon, &entry.MoodEvening,
			&entry.EnergyLevel, &entry.AnxietyLevel, &entry.IrritabilityLevel,
			&entry.Activities, &entry.Thoughts, &entry.CreatedAt)
		if err != nil {
			return nil, err
		}
		entry.Date = date.Format(dateLayout)
		entry.CreatedAt = entry.CreatedAt.UTC()
		return &entry, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning diary entries: %w", err)
	}

	return entries, nil
}
