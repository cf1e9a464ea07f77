package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/eupolar/eupolar-server/internal/domain"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements domain.Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

var _ domain.Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// busy_timeout applies per connection, so it goes in the DSN
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// NewSQLiteStoreWithDB wraps an already opened database whose schema exists.
func NewSQLiteStoreWithDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Path returns the database file path, empty for wrapped databases.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// createSchema creates the database tables and indexes.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS questionnaire_responses (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		questionnaire_type TEXT NOT NULL,
		responses TEXT NOT NULL,
		score INTEGER NOT NULL,
		completed_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS life_charts (
		user_id TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS mood_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		entry_date TEXT NOT NULL,
		mood_level INTEGER NOT NULL,
		sleep_hours REAL,
		medications TEXT DEFAULT '',
		notes TEXT DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS diary_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		entry_date TEXT NOT NULL,
		mood_morning INTEGER,
		mood_afternoon INTEGER,
		mood_evening INTEGER,
		energy_level INTEGER,
		anxiety_level INTEGER,
		irritability_level INTEGER,
		activities TEXT DEFAULT '',
		thoughts TEXT DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_responses_user ON questionnaire_responses(user_id, completed_at);
	CREATE INDEX IF NOT EXISTS idx_mood_entries_user ON mood_entries(user_id, entry_date);
	CREATE INDEX IF NOT EXISTS idx_diary_entries_user ON diary_entries(user_id, entry_date);
	`

	_, err := db.Exec(schema)
	return err
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// AppendResponse stores a scored questionnaire response.
func (s *SQLiteStore) AppendResponse(ctx context.Context, response *domain.QuestionnaireResponse) error {
	if response.ID == "" {
		response.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO questionnaire_responses (
			id, user_id, questionnaire_type, responses, score, completed_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`,
		response.ID,
		response.UserID,
		string(response.InstrumentType),
		response.Responses,
		response.Score,
		response.CompletedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert response: %w", err)
	}
	return nil
}

func scanResponse(s scanner) (*domain.QuestionnaireResponse, error) {
	r := &domain.QuestionnaireResponse{}
	var instrument string
	if err := s.Scan(&r.ID, &r.UserID, &instrument, &r.Responses, &r.Score, &r.CompletedAt); err != nil {
		return nil, err
	}
	r.InstrumentType = domain.InstrumentID(instrument)
	r.CompletedAt = r.CompletedAt.UTC()
	return r, nil
}

// ListResponses returns a user's responses with pagination, newest first.
func (s *SQLiteStore) ListResponses(ctx context.Context, userID string, limit, offset int) ([]*domain.QuestionnaireResponse, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, questionnaire_type, responses, score, completed_at
		FROM questionnaire_responses
		WHERE user_id = ?
		ORDER BY completed_at DESC, id
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	var result []*domain.QuestionnaireResponse
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// SaveLifeChart stores the user's chart, replacing any previous one.
func (s *SQLiteStore) SaveLifeChart(ctx context.Context, chart *domain.LifeChart) error {
	data, err := json.Marshal(chart.Data)
	if err != nil {
		return fmt.Errorf("failed to encode life chart: %w", err)
	}

	updated := chart.UpdatedAt.UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO life_charts (user_id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, chart.UserID, string(data), updated, updated)
	if err != nil {
		return fmt.Errorf("failed to save life chart: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT created_at FROM life_charts WHERE user_id = ?", chart.UserID,
	).Scan(&chart.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to read life chart creation time: %w", err)
	}
	chart.CreatedAt = chart.CreatedAt.UTC()
	return nil
}

// GetLifeChart returns the user's chart or a wrapped domain.ErrNotFound.
func (s *SQLiteStore) GetLifeChart(ctx context.Context, userID string) (*domain.LifeChart, error) {
	chart := &domain.LifeChart{}
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, data, created_at, updated_at
		FROM life_charts
		WHERE user_id = ?
	`, userID).Scan(&chart.UserID, &data, &chart.CreatedAt, &chart.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("life chart for %s: %w", userID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan life chart: %w", err)
	}

	if err := json.Unmarshal([]byte(data), &chart.Data); err != nil {
		return nil, fmt.Errorf("failed to decode life chart: %w", err)
	}
	chart.CreatedAt = chart.CreatedAt.UTC()
	chart.UpdatedAt = chart.UpdatedAt.UTC()
	return chart, nil
}

// AddMoodEntry stores a daily mood entry and assigns its ID.
func (s *SQLiteStore) AddMoodEntry(ctx context.Context, entry *domain.MoodEntry) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO mood_entries (
			user_id, entry_date, mood_level, sleep_hours, medications, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		entry.UserID,
		entry.Date,
		entry.MoodLevel,
		entry.SleepHours,
		entry.Medications,
		entry.Notes,
		entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert mood entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get insert ID: %w", err)
	}
	entry.ID = id
	return nil
}

func scanMoodEntry(s scanner) (*domain.MoodEntry, error) {
	e := &domain.MoodEntry{}
	var sleep sql.NullFloat64
	err := s.Scan(&e.ID, &e.UserID, &e.Date, &e.MoodLevel, &sleep, &e.Medications, &e.Notes, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	if sleep.Valid {
		e.SleepHours = &sleep.Float64
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}

// ListMoodEntries returns the user's latest mood entries, newest date first.
func (s *SQLiteStore) ListMoodEntries(ctx context.Context, userID string, limit int) ([]*domain.MoodEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, entry_date, mood_level, sleep_hours, medications, notes, created_at
		FROM mood_entries
		WHERE user_id = ?
		ORDER BY entry_date DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query mood entries: %w", err)
	}
	defer rows.Close()

	var result []*domain.MoodEntry
	for rows.Next() {
		e, err := scanMoodEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mood entry: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// AddDiaryEntry stores a mood diary page and assigns its ID.
func (s *SQLiteStore) AddDiaryEntry(ctx context.Context, entry *domain.DiaryEntry) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO diary_entries (
			user_id, entry_date, mood_morning, mood_afternoon, mood_evening,
			energy_level, anxiety_level, irritability_level, activities, thoughts, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.UserID,
		entry.Date,
		entry.MoodMorning,
		entry.MoodAfternoon,
		entry.MoodEvening,
		entry.EnergyLevel,
		entry.AnxietyLevel,
		entry.IrritabilityLevel,
		entry.Activities,
		entry.Thoughts,
		entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert diary entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get insert ID: %w", err)
	}
	entry.ID = id
	return nil
}

func scanDiaryEntry(s scanner) (*domain.DiaryEntry, error) {
	e := &domain.DiaryEntry{}
	var levels [6]sql.NullInt64
	err := s.Scan(&e.ID, &e.UserID, &e.Date,
		&levels[0], &levels[1], &levels[2], &levels[3], &levels[4], &levels[5],
		&e.Activities, &e.Thoughts, &e.CreatedAt)
	if err != nil {
		return nil, err
	}

	dst := []**int{&e.MoodMorning, &e.MoodAfternoon, &e.MoodEvening, &e.EnergyLevel, &e.AnxietyLevel, &e.IrritabilityLevel}
	for i, l := range levels {
		if l.Valid {
			v := int(l.Int64)
			*dst[i] = &v
		}
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}

// ListDiaryEntries returns the user's latest diary pages, newest date first.
func (s *SQLiteStore) ListDiaryEntries(ctx context.Context, userID string, limit int) ([]*domain.DiaryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, entry_date, mood_morning, mood_afternoon, mood_evening,
			energy_level, anxiety_level, irritability_level, activities, thoughts, created_at
		FROM diary_entries
		WHERE user_id = ?
		ORDER BY entry_date DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query diary entries: %w", err)
	}
	defer rows.Close()

	var result []*domain.DiaryEntry
	for rows.Next() {
		e, err := scanDiaryEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan diary entry: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// Count returns the number of stored records per table for one user.
func (s *SQLiteStore) Count(ctx context.Context, userID string) (map[string]int64, error) {
	counts := make(map[string]int64, 4)
	for _, table := range []string{"questionnaire_responses", "life_charts", "mood_entries", "diary_entries"} {
		var n int64
		// table names come from the fixed list above
		query := "SELECT COUNT(*) FROM " + table + " WHERE user_id = ?"
		if err := s.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
