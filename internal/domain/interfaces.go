package domain

import (
	"context"
)

// ResponseStore is an insert-only, per-user log of scored questionnaire submissions.
type ResponseStore interface {
	AppendResponse(ctx context.Context, response *QuestionnaireResponse) error
	// ListResponses returns a user's responses newest first.
	ListResponses(ctx context.Context, userID string, limit, offset int) ([]*QuestionnaireResponse, error)
}

// LifeChartStore keeps at most one life chart per user. SaveLifeChart is an upsert.
type LifeChartStore interface {
	SaveLifeChart(ctx context.Context, chart *LifeChart) error
	// GetLifeChart returns ErrNotFound (wrapped) when the user has no chart.
	GetLifeChart(ctx context.Context, userID string) (*LifeChart, error)
}

// JournalStore persists daily mood entries and mood diary pages.
type JournalStore interface {
	AddMoodEntry(ctx context.Context, entry *MoodEntry) error
	ListMoodEntries(ctx context.Context, userID string, limit int) ([]*MoodEntry, error)
	AddDiaryEntry(ctx context.Context, entry *DiaryEntry) error
	ListDiaryEntries(ctx context.Context, userID string, limit int) ([]*DiaryEntry, error)
}

// Store is the full storage collaborator handed to request handlers.
type Store interface {
	ResponseStore
	LifeChartStore
	JournalStore
	Close() error
}

// LifeChartCache is a read cache in front of LifeChartStore.
type LifeChartCache interface {
	Get(ctx context.Context, userID string) (*LifeChart, bool, error)
	Set(ctx context.Context, chart *LifeChart) error
	Invalidate(ctx context.Context, userID string) error
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetDatabaseConfig() *DatabaseConfig
	GetServerConfig() *ServerConfig
	Reload() error
	Validate() error
	GetDatabaseConnectionString() string
	GetDatabaseURL() string
	GetRedisConnectionString() string
	IsProduction() bool
	IsDevelopment() bool
}
