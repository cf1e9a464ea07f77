package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/eupolar/eupolar-server/internal/domain"
)

// maxExportLimit is the maximum number of records per table to export at once.
const maxExportLimit = 1000000

// ExportJSON writes all of one user's records to writer.
func (s *SQLiteStore) ExportJSON(ctx context.Context, userID string, writer io.Writer) error {
	export, err := s.export(ctx, userID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

func (s *SQLiteStore) export(ctx context.Context, userID string) (*UserExport, error) {
	responses, err := s.ListResponses(ctx, userID, maxExportLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	moods, err := s.ListMoodEntries(ctx, userID, maxExportLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list mood entries: %w", err)
	}
	diary, err := s.ListDiaryEntries(ctx, userID, maxExportLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list diary entries: %w", err)
	}

	chart, err := s.GetLifeChart(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to get life chart: %w", err)
	}

	return &UserExport{
		Version:      ExportVersion,
		ExportedAt:   time.Now().UTC(),
		UserID:       userID,
		Responses:    nonNil(responses),
		LifeChart:    chart,
		MoodEntries:  nonNil(moods),
		DiaryEntries: nonNil(diary),
	}, nil
}

// ExportToFile writes the user's export into dir and returns the file path.
func (s *SQLiteStore) ExportToFile(ctx context.Context, userID, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	name := fmt.Sprintf("eupolar-export-%s.json", time.Now().UTC().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}

	if err := s.ExportJSON(ctx, userID, f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}
	return path, nil
}

// ImportJSON reads an export and stores every record that is not already present.
// Records are attributed to the export's user.
func (s *SQLiteStore) ImportJSON(ctx context.Context, reader io.Reader) (ImportResult, error) {
	var result ImportResult

	var export UserExport
	if err := json.NewDecoder(reader).Decode(&export); err != nil {
		return result, fmt.Errorf("failed to decode JSON: %w", err)
	}
	if export.Version != ExportVersion {
		return result, fmt.Errorf("unsupported export version %q", export.Version)
	}
	if export.UserID == "" {
		return result, domain.ErrMissingUser
	}

	for _, r := range export.Responses {
		r.UserID = export.UserID
		res, err := s.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO questionnaire_responses (
				id, user_id, questionnaire_type, responses, score, completed_at
			) VALUES (?, ?, ?, ?, ?, ?)
		`, r.ID, r.UserID, string(r.InstrumentType), r.Responses, r.Score, r.CompletedAt.UTC())
		if err != nil {
			return result, fmt.Errorf("failed to import response: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			result.Skipped++
			continue
		}
		result.Imported++
	}

	if export.LifeChart != nil {
		_, err := s.GetLifeChart(ctx, export.UserID)
		switch {
		case err == nil:
			result.Skipped++
		case errors.Is(err, domain.ErrNotFound):
			export.LifeChart.UserID = export.UserID
			if err := s.SaveLifeChart(ctx, export.LifeChart); err != nil {
				return result, fmt.Errorf("failed to import life chart: %w", err)
			}
			result.Imported++
		default:
			return result, fmt.Errorf("failed to check existing: %w", err)
		}
	}

	for _, e := range export.MoodEntries {
		e.UserID = export.UserID
		found, err := s.exists(ctx, "mood_entries", e.UserID, e.Date, e.CreatedAt)
		if err != nil {
			return result, err
		}
		if found {
			result.Skipped++
			continue
		}
		if err := s.AddMoodEntry(ctx, e); err != nil {
			return result, fmt.Errorf("failed to import mood entry: %w", err)
		}
		result.Imported++
	}

	for _, e := range export.DiaryEntries {
		e.UserID = export.UserID
		found, err := s.exists(ctx, "diary_entries", e.UserID, e.Date, e.CreatedAt)
		if err != nil {
			return result, err
		}
		if found {
			result.Skipped++
			continue
		}
		if err := s.AddDiaryEntry(ctx, e); err != nil {
			return result, fmt.Errorf("failed to import diary entry: %w", err)
		}
		result.Imported++
	}

	return result, nil
}

// exists reports whether a journal row with the same user, date and creation time is stored.
func (s *SQLiteStore) exists(ctx context.Context, table, userID, date string, createdAt time.Time) (bool, error) {
	var n int
	query := "SELECT COUNT(*) FROM " + table + " WHERE user_id = ? AND entry_date = ? AND created_at = ?"
	if err := s.db.QueryRowContext(ctx, query, userID, date, createdAt.UTC()).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check existing: %w", err)
	}
	return n > 0, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
