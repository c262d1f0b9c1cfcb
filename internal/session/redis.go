package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the token in Redis under a single key.
type RedisStore struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewRedisStore returns a Redis-backed Store. An empty key falls back to
// DefaultTokenKey; ttl <= 0 stores the token without expiry.
func NewRedisStore(rdb *redis.Client, key string, ttl time.Duration) *RedisStore {
	if key == "" {
		key = DefaultTokenKey
	}
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{rdb: rdb, key: key, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context) (string, error) {
	v, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("session: redis get: %w", err)
	}
	if v == "" {
		return "", ErrNoToken
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyToken
	}
	if err := s.rdb.Set(ctx, s.key, token, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}
