package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eupolar/eupolar-server/internal/domain"
)

// JournalPageSize is how many recent mood entries or diary pages a listing returns.
const JournalPageSize = 30

const dateLayout = "2006-01-02"

// Mood level bounds for daily entries and diary pages.
const (
	MinMoodLevel = 1
	MaxMoodLevel = 10
)

// JournalService records daily mood entries and mood diary pages.
type JournalService struct {
	logger *logrus.Logger
	store  domain.JournalStore
	now    func() time.Time
}

// NewJournalService creates a new journal service
func NewJournalService(logger *logrus.Logger, store domain.JournalStore) *JournalService {
	return &JournalService{logger: logger, store: store, now: time.Now}
}

// AddMoodEntry parses and stores one daily mood entry.
func (s *JournalService) AddMoodEntry(ctx context.Context, userID string, values domain.FormValues) (*domain.MoodEntry, error) {
	if userID == "" {
		return nil, domain.ErrMissingUser
	}

	date, err := s.entryDate(values)
	if err != nil {
		return nil, err
	}

	mood, err := requiredLevel(values, "mood_level")
	if err != nil {
		return nil, err
	}

	entry := &domain.MoodEntry{
		UserID:      userID,
		Date:        date,
		MoodLevel:   mood,
		Medications: stringValue(values, "medications"),
		Notes:       stringValue(values, "notes"),
		CreatedAt:   s.now().UTC(),
	}

	if raw := values["sleep_hours"]; !isBlank(raw) {
		hours, reason := toFloat(raw)
		if reason != "" || hours < 0 || hours > 24 {
			return nil, domain.NewValidationError("sleep_hours", "must be between 0 and 24", raw)
		}
		entry.SleepHours = &hours
	}

	if err := s.store.AddMoodEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to store mood entry: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "date": date}).Debug("Mood entry recorded")
	return entry, nil
}

// ListMoodEntries returns the user's most recent mood entries, newest first.
func (s *JournalService) ListMoodEntries(ctx context.Context, userID string) ([]*domain.MoodEntry, error) {
	if userID == "" {
		return nil, domain.ErrMissingUser
	}
	entries, err := s.store.ListMoodEntries(ctx, userID, JournalPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list mood entries: %w", err)
	}
	return entries, nil
}

// AddDiaryEntry parses and stores one mood diary page. All levels are optional.
func (s *JournalService) AddDiaryEntry(ctx context.Context, userID string, values domain.FormValues) (*domain.DiaryEntry, error) {
	if userID == "" {
		return nil, domain.ErrMissingUser
	}

	date, err := s.entryDate(values)
	if err != nil {
		return nil, err
	}

	entry := &domain.DiaryEntry{
		UserID:     userID,
		Date:       date,
		Activities: stringValue(values, "activities"),
		Thoughts:   stringValue(values, "thoughts"),
		CreatedAt:  s.now().UTC(),
	}

	levels := []struct {
		field string
		dst   **int
	}{
		{"mood_morning", &entry.MoodMorning},
		{"mood_afternoon", &entry.MoodAfternoon},
		{"mood_evening", &entry.MoodEvening},
		{"energy_level", &entry.EnergyLevel},
		{"anxiety_level", &entry.AnxietyLevel},
		{"irritability_level", &entry.IrritabilityLevel},
	}
	for _, l := range levels {
		level, err := optionalLevel(values, l.field)
		if err != nil {
			return nil, err
		}
		*l.dst = level
	}

	if err := s.store.AddDiaryEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to store diary entry: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "date": date}).Debug("Diary entry recorded")
	return entry, nil
}

// ListDiaryEntries returns the user's most recent diary pages, newest first.
func (s *JournalService) ListDiaryEntries(ctx context.Context, userID string) ([]*domain.DiaryEntry, error) {
	if userID == "" {
		return nil, domain.ErrMissingUser
	}
	entries, err := s.store.ListDiaryEntries(ctx, userID, JournalPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list diary entries: %w", err)
	}
	return entries, nil
}

// entryDate reads the entry date, defaulting to today.
func (s *JournalService) entryDate(values domain.FormValues) (string, error) {
	date := stringValue(values, "date")
	if date == "" {
		return s.now().UTC().Format(dateLayout), nil
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", domain.NewValidationError("date", "must be a date in YYYY-MM-DD format", date)
	}
	return date, nil
}

func requiredLevel(values domain.FormValues, field string) (int, error) {
	level, err := optionalLevel(values, field)
	if err != nil {
		return 0, err
	}
	if level == nil {
		return 0, domain.NewValidationError(field, "is required", nil)
	}
	return *level, nil
}

// optionalLevel reads a 1-10 level; absent and empty values are nil.
func optionalLevel(values domain.FormValues, field string) (*int, error) {
	raw := values[field]
	if isBlank(raw) {
		return nil, nil
	}

	v, reason := toNumber(raw)
	if reason != "" {
		return nil, domain.NewValidationError(field, reason, raw)
	}
	if v < MinMoodLevel || v > MaxMoodLevel {
		return nil, domain.NewValidationError(field,
			fmt.Sprintf("must be between %d and %d", MinMoodLevel, MaxMoodLevel), raw)
	}
	level := int(v)
	return &level, nil
}
