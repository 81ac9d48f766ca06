// Package redis backs the rate limiter and the submission guard with Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"civic-writer-api/internal/config"
)

var tracer = otel.Tracer("redis")

// Client wraps go-redis with tracing and key prefixing.
type Client struct {
	rdb    *redis.Client
	config *config.RedisConfig
}

// NewClient connects and pings once before returning.
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Client{
		rdb:    rdb,
		config: cfg,
	}, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// Key prefixes a key with the configured namespace.
func (c *Client) Key(parts ...string) string {
	return buildKey(c.config.KeyPrefix, parts...)
}

func buildKey(prefix string, parts ...string) string {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	key := strings.Join(parts, ":")
	if prefix == "" {
		return key
	}
	return prefix + ":" + key
}

// HealthCheck is used by the readiness probe.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "redis.HealthCheck")
	defer span.End()

	result, err := c.rdb.Ping(ctx).Result()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("health check failed: %w", err)
	}
	if result != "PONG" {
		return fmt.Errorf("unexpected ping response: %s", result)
	}
	return nil
}

// IsNil reports whether err is redis.Nil.
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}
