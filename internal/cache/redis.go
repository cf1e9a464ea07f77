package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/eupolar/eupolar-server/internal/domain"
)

const lifeChartKeyPrefix = "eupolar:lifechart:"

// Breaker defaults: trip after 5 consecutive failures, probe again after 30s.
const (
	breakerFailureThreshold = 5
	breakerTimeout          = 30 * time.Second
)

// RedisCache stores life charts as JSON in Redis. All calls go through a circuit
// breaker so an unavailable Redis fails fast and callers fall back to the store.
type RedisCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker
	logger  *logrus.Logger
}

var _ domain.LifeChartCache = (*RedisCache)(nil)

// NewRedisCache connects to the configured Redis and verifies the connection.
func NewRedisCache(logger *logrus.Logger, config domain.CacheConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if config.PoolSize > 0 {
		opts.PoolSize = config.PoolSize
	}
	if config.PoolTimeout > 0 {
		opts.PoolTimeout = config.PoolTimeout
	}
	opts.MaxRetries = config.MaxRetries

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCacheWithClient(logger, client, config.DefaultTTL), nil
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(logger *logrus.Logger, client *redis.Client, ttl time.Duration) *RedisCache {
	settings := gobreaker.Settings{
		Name:    "LifeChartRedis",
		Timeout: breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"circuit_breaker": name,
				"from_state":      from,
				"to_state":        to,
			}).Warn("Circuit breaker state changed")
		},
	}

	return &RedisCache{
		client:  client,
		ttl:     ttl,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

func lifeChartKey(userID string) string {
	return lifeChartKeyPrefix + userID
}

// Get returns the cached chart. A corrupt entry is deleted and reported as a miss.
func (c *RedisCache) Get(ctx context.Context, userID string) (*domain.LifeChart, bool, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		val, err := c.client.Get(ctx, lifeChartKey(userID)).Result()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return val, err
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to read life chart cache: %w", err)
	}
	if result == nil {
		return nil, false, nil
	}

	var chart domain.LifeChart
	if err := json.Unmarshal([]byte(result.(string)), &chart); err != nil {
		c.logger.WithFields(logrus.Fields{"user_id": userID, "error": err}).Warn("Dropping corrupt life chart cache entry")
		c.client.Del(ctx, lifeChartKey(userID))
		return nil, false, nil
	}
	return &chart, true, nil
}

func (c *RedisCache) Set(ctx context.Context, chart *domain.LifeChart) error {
	data, err := json.Marshal(chart)
	if err != nil {
		return fmt.Errorf("failed to encode life chart: %w", err)
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, c.client.Set(ctx, lifeChartKey(chart.UserID), data, c.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to write life chart cache: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, userID string) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.client.Del(ctx, lifeChartKey(userID)).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate life chart cache: %w", err)
	}
	return nil
}

// Ping checks Redis directly, bypassing the breaker.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// State reports the circuit breaker state.
func (c *RedisCache) State() gobreaker.State {
	return c.breaker.State()
}

// Close closes the Redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
