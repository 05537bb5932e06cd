package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKey = "practicehub:leaderboard"

// RedisSource serves rankings from a Redis cache, refreshing from an inner
// source when the cached copy is missing or expired. Cache failures degrade
// to the inner source rather than erroring.
type RedisSource struct {
	client *redis.Client
	inner  DataSource
	ttl    time.Duration
}

// NewRedisSource connects to Redis and wraps inner with a read-through cache.
func NewRedisSource(url string, inner DataSource, ttl time.Duration) (*RedisSource, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if ttl <= 0 {
		ttl = time.Minute
	}

	return &RedisSource{client: client, inner: inner, ttl: ttl}, nil
}

func (s *RedisSource) Name() string { return "redis" }

// Top returns the cached rankings, refreshing from the inner source on a
// miss.
func (s *RedisSource) Top(ctx context.Context, limit int) ([]Entry, error) {
	cached, err := s.client.Get(ctx, cacheKey).Result()
	if err == nil {
		var entries []Entry
		if err := json.Unmarshal([]byte(cached), &entries); err == nil {
			if len(entries) > limit {
				entries = entries[:limit]
			}
			return entries, nil
		}
		// Unreadable cache entry, fall through to a refresh.
		slog.Warn("discarding corrupt leaderboard cache entry")
	} else if err != redis.Nil {
		slog.Warn("leaderboard cache read failed", "error", err)
	}

	entries, err := s.inner.Top(ctx, limit)
	if err != nil {
		return nil, err
	}

	if body, err := json.Marshal(entries); err == nil {
		if err := s.client.Set(ctx, cacheKey, body, s.ttl).Err(); err != nil {
			slog.Warn("leaderboard cache write failed", "error", err)
		}
	}

	return entries, nil
}

// Invalidate drops the cached rankings so the next read refreshes.
func (s *RedisSource) Invalidate(ctx context.Context) error {
	return s.client.Del(ctx, cacheKey).Err()
}

// Close releases the Redis connection.
func (s *RedisSource) Close() error {
	return s.client.Close()
}
