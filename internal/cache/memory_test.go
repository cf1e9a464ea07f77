package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eupolar/eupolar-server/internal/domain"
)

func testChart(userID string, age int) *domain.LifeChart {
	return &domain.LifeChart{
		UserID: userID,
		Data: domain.LifeChartData{
			Timeline: []domain.EpisodePoint{
				{Age: 0, Kind: domain.Euthymic},
				{Age: age, Kind: domain.Euthymic, Label: "today"},
			},
			GeneratedAt: "2026-03-14T09:30:00Z",
		},
		UpdatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10, time.Hour)

	_, ok, err := c.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, testChart("user-1", 30)))
	got, ok, err := c.Get(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 30, got.Data.Timeline[1].Age)

	// the cached value is a copy
	got.UserID = "changed"
	again, _, _ := c.Get(ctx, "user-1")
	assert.Equal(t, "user-1", again.UserID)

	require.NoError(t, c.Set(ctx, testChart("user-1", 31)))
	got, _, _ = c.Get(ctx, "user-1")
	assert.Equal(t, 31, got.Data.Timeline[1].Age)

	require.NoError(t, c.Invalidate(ctx, "user-1"))
	_, ok, _ = c.Get(ctx, "user-1")
	assert.False(t, ok)
}

func TestMemoryCache_Eviction(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2, time.Hour)

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Set(ctx, testChart(fmt.Sprintf("user-%d", i), 30)))
	}

	assert.Equal(t, 2, c.Len())
	_, ok, _ := c.Get(ctx, "user-0")
	assert.False(t, ok, "least recently used chart is evicted")
	_, ok, _ = c.Get(ctx, "user-2")
	assert.True(t, ok)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10, 20*time.Millisecond)

	require.NoError(t, c.Set(ctx, testChart("user-1", 30)))
	assert.Eventually(t, func() bool {
		_, ok, _ := c.Get(ctx, "user-1")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestNewMemoryCache_DefaultSize(t *testing.T) {
	c := NewMemoryCache(0, 0)
	require.NoError(t, c.Set(context.Background(), testChart("user-1", 30)))
	assert.Equal(t, 1, c.Len())
}
