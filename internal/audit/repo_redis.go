package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the list events are pushed onto.
const DefaultRedisKey = "audit:session"

// DefaultCapacity bounds how many events a repository retains.
const DefaultCapacity = 1000

// RedisRepo keeps the most recent events in a capped Redis list, newest first.
type RedisRepo struct {
	rdb *redis.Client
	key string
	cap int64
}

func NewRedisRepo(rdb *redis.Client, key string, capacity int64) *RedisRepo {
	if key == "" {
		key = DefaultRedisKey
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RedisRepo{rdb: rdb, key: key, cap: capacity}
}

func (r *RedisRepo) Append(ctx context.Context, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("audit: encode event: %w", err)
	}
	pipe := r.rdb.TxPipeline()
	pipe.LPush(ctx, r.key, b)
	pipe.LTrim(ctx, r.key, 0, r.cap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("audit: redis append: %w", err)
	}
	return nil
}
