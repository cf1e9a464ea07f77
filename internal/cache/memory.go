// Package cache holds read caches for life charts. The in-process MemoryCache serves the
// standalone binary; RedisCache is shared by server replicas.
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/eupolar/eupolar-server/internal/domain"
)

// MemoryCache is a size- and TTL-bounded LRU of life charts keyed by user.
type MemoryCache struct {
	lru *expirable.LRU[string, domain.LifeChart]
}

var _ domain.LifeChartCache = (*MemoryCache)(nil)

// NewMemoryCache creates a cache holding at most size charts, each for at most ttl.
// A zero ttl disables expiry.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 1000
	}
	return &MemoryCache{lru: expirable.NewLRU[string, domain.LifeChart](size, nil, ttl)}
}

// Get returns a copy of the cached chart.
func (c *MemoryCache) Get(_ context.Context, userID string) (*domain.LifeChart, bool, error) {
	chart, ok := c.lru.Get(userID)
	if !ok {
		return nil, false, nil
	}
	return &chart, true, nil
}

func (c *MemoryCache) Set(_ context.Context, chart *domain.LifeChart) error {
	c.lru.Add(chart.UserID, *chart)
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, userID string) error {
	c.lru.Remove(userID)
	return nil
}

// Len returns the number of cached charts, including expired ones not yet purged.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}
