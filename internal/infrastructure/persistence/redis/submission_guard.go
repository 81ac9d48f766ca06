package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired hold taken over by another request is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SubmissionGuard holds one outstanding generation per key across replicas.
type SubmissionGuard struct {
	client *Client
}

func NewSubmissionGuard(client *Client) *SubmissionGuard {
	return &SubmissionGuard{client: client}
}

func (g *SubmissionGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	ctx, span := tracer.Start(ctx, "guard.Acquire")
	span.SetAttributes(
		attribute.String("guard.key", key),
		attribute.Int64("guard.ttl_ms", ttl.Milliseconds()),
	)
	defer span.End()

	token := uuid.NewString()
	ok, err := g.client.rdb.SetNX(ctx, g.client.Key("guard", key), token, ttl).Result()
	if err != nil {
		span.RecordError(err)
		return "", false, err
	}
	span.SetAttributes(attribute.Bool("guard.acquired", ok))
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (g *SubmissionGuard) Release(ctx context.Context, key, token string) error {
	ctx, span := tracer.Start(ctx, "guard.Release")
	span.SetAttributes(attribute.String("guard.key", key))
	defer span.End()

	if token == "" {
		return nil
	}
	err := releaseScript.Run(ctx, g.client.rdb, []string{g.client.Key("guard", key)}, token).Err()
	if err != nil && !IsNil(err) {
		span.RecordError(err)
		return err
	}
	return nil
}
