// Package journal is the single-file SQLite store used by the standalone MCP binary.
// It keeps questionnaire responses, the life chart and the daily journal for every user
// and can export one user's records to JSON and import them back.
package journal

import (
	"time"

	"github.com/eupolar/eupolar-server/internal/domain"
)

// ExportVersion is written into every export and checked on import.
const ExportVersion = "1.0"

// UserExport is the JSON export format for one user's records.
type UserExport struct {
	Version      string                          `json:"version"`
	ExportedAt   time.Time                       `json:"exported_at"`
	UserID       string                          `json:"user_id"`
	Responses    []*domain.QuestionnaireResponse `json:"responses"`
	LifeChart    *domain.LifeChart               `json:"life_chart,omitempty"`
	MoodEntries  []*domain.MoodEntry             `json:"mood_entries"`
	DiaryEntries []*domain.DiaryEntry            `json:"diary_entries"`
}

// ImportResult counts the records an import wrote and the ones it left alone
// because they already existed.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}
