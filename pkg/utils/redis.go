package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig controls the client behind the session token store and the
// audit journal. Traffic is a single-key GET per outgoing backend call, a
// SET/DEL on login/logout and a two-command transaction per audit event, so
// the defaults favour short timeouts and a small pool: a slow Redis should
// degrade a request to "no token" quickly rather than hold it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	DialTimeout time.Duration
	// OpTimeout bounds each read and write.
	OpTimeout time.Duration

	PoolSize        int
	ConnMaxIdleTime time.Duration

	PingTimeout time.Duration
}

func (c RedisConfig) withDefaults() RedisConfig {
	out := c
	if out.DialTimeout <= 0 {
		out.DialTimeout = 2 * time.Second
	}
	if out.OpTimeout <= 0 {
		out.OpTimeout = 500 * time.Millisecond
	}
	if out.PoolSize <= 0 {
		out.PoolSize = 4
	}
	if out.ConnMaxIdleTime <= 0 {
		out.ConnMaxIdleTime = 5 * time.Minute
	}
	if out.PingTimeout <= 0 {
		out.PingTimeout = out.DialTimeout
	}
	return out
}

// OpenRedis initializes a Redis client and validates connectivity via PING.
// The caller owns the returned client and must Close it.
func OpenRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	cfg = cfg.withDefaults()
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Addr,
		Password:        cfg.Password,
		DB:              cfg.DB,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.OpTimeout,
		WriteTimeout:    cfg.OpTimeout,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    1,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}
