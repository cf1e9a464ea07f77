package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eupolar/eupolar-server/internal/domain"
)

func newMockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteStoreWithDB(db), mock
}

var errDisk = errors.New("disk I/O error")

func TestSQLiteStore_FailurePaths(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	t.Run("append response", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec("INSERT INTO questionnaire_responses").WillReturnError(errDisk)

		err := store.AppendResponse(ctx, &domain.QuestionnaireResponse{UserID: "u", CompletedAt: now})
		assert.ErrorIs(t, err, errDisk)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("list responses", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("FROM questionnaire_responses").WillReturnError(errDisk)

		_, err := store.ListResponses(ctx, "u", 10, 0)
		assert.ErrorIs(t, err, errDisk)
	})

	t.Run("list responses scan", func(t *testing.T) {
		store, mock := newMockStore(t)
		rows := sqlmock.NewRows([]string{"id", "user_id", "questionnaire_type", "responses", "score", "completed_at"}).
			AddRow("id-1", "u", "mood-assessment", "{}", "not-a-number", now)
		mock.ExpectQuery("FROM questionnaire_responses").WillReturnRows(rows)

		_, err := store.ListResponses(ctx, "u", 10, 0)
		assert.Error(t, err)
	})

	t.Run("save life chart", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec("INSERT INTO life_charts").WillReturnError(errDisk)

		err := store.SaveLifeChart(ctx, &domain.LifeChart{UserID: "u", UpdatedAt: now})
		assert.ErrorIs(t, err, errDisk)
	})

	t.Run("get life chart corrupt data", func(t *testing.T) {
		store, mock := newMockStore(t)
		rows := sqlmock.NewRows([]string{"user_id", "data", "created_at", "updated_at"}).
			AddRow("u", "{not json", now, now)
		mock.ExpectQuery("FROM life_charts").WithArgs("u").WillReturnRows(rows)

		_, err := store.GetLifeChart(ctx, "u")
		require.Error(t, err)
		assert.False(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("get life chart database error", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("FROM life_charts").WillReturnError(errDisk)

		_, err := store.GetLifeChart(ctx, "u")
		assert.ErrorIs(t, err, errDisk)
	})

	t.Run("add mood entry", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec("INSERT INTO mood_entries").WillReturnResult(sqlmock.NewErrorResult(errDisk))

		err := store.AddMoodEntry(ctx, &domain.MoodEntry{UserID: "u", Date: "2026-03-14", MoodLevel: 5, CreatedAt: now})
		assert.ErrorIs(t, err, errDisk)
	})

	t.Run("add diary entry", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec("INSERT INTO diary_entries").WillReturnResult(sqlmock.NewResult(42, 1))

		entry := &domain.DiaryEntry{UserID: "u", Date: "2026-03-14", CreatedAt: now}
		require.NoError(t, store.AddDiaryEntry(ctx, entry))
		assert.Equal(t, int64(42), entry.ID)
	})

	t.Run("list diary entries", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("FROM diary_entries").WillReturnError(errDisk)

		_, err := store.ListDiaryEntries(ctx, "u", 30)
		assert.ErrorIs(t, err, errDisk)
	})

	t.Run("count", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("SELECT COUNT").WillReturnError(errDisk)

		_, err := store.Count(ctx, "u")
		assert.ErrorIs(t, err, errDisk)
	})
}
