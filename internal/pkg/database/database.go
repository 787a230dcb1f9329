// Package database opens the Postgres pool and the Redis client with startup
// retries, and applies the embedded schema migrations.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
)

// RetryConfig bounds the startup connection attempts.
type RetryConfig struct {
	// Base is the first backoff interval. Zero means 250ms.
	Base time.Duration
	// MaxAttempts counts retries after the first try. Zero means 5.
	MaxAttempts uint64
	// PingTimeout bounds each ping. Zero means 5s.
	PingTimeout time.Duration
}

func (r RetryConfig) backoff() retry.Backoff {
	base := r.Base
	if base <= 0 {
		base = 250 * time.Millisecond
	}
	attempts := r.MaxAttempts
	if attempts == 0 {
		attempts = 5
	}

	b := retry.NewExponential(base)
	b = retry.WithCappedDuration(5*time.Second, b)
	return retry.WithMaxRetries(attempts, b)
}

func (r RetryConfig) pingTimeout() time.Duration {
	if r.PingTimeout <= 0 {
		return 5 * time.Second
	}
	return r.PingTimeout
}

// PostgresConfig tunes the pgx pool. Zero values keep pgx defaults.
type PostgresConfig struct {
	URL               string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	Retry             RetryConfig
}

// ConnectPostgres builds a pool and pings it until it answers or the retry
// budget runs out.
func ConnectPostgres(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("database: parse url: %w", err)
	}

	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.HealthCheckPeriod > 0 {
		pc.HealthCheckPeriod = cfg.HealthCheckPeriod
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("database: create pool: %w", err)
	}

	err = retry.Do(ctx, cfg.Retry.backoff(), func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.Retry.pingTimeout())
		defer cancel()

		if err := pool.Ping(pingCtx); err != nil {
			slog.WarnContext(ctx, "postgres not ready, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("database: ping postgres: %w", err)
	}

	return pool, nil
}

// ConnectRedis parses url and pings the server with the same retry policy.
func ConnectRedis(ctx context.Context, url string, rc RetryConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("database: parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	err = retry.Do(ctx, rc.backoff(), func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, rc.pingTimeout())
		defer cancel()

		if err := client.Ping(pingCtx).Err(); err != nil {
			slog.WarnContext(ctx, "redis not ready, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("database: ping redis: %w", err)
	}

	return client, nil
}
