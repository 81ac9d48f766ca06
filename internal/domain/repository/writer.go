// Package repository defines the ports the writer flows depend on.
package repository

import (
	"context"
	"time"
)

// TemplateSource resolves a named template resource to its full text.
type TemplateSource interface {
	Load(ctx context.Context, name string) (string, error)
}

// SubmissionGuard holds at most one outstanding generation per key.
type SubmissionGuard interface {
	// Acquire reports false when the key is already held. On success it
	// returns the token identifying this hold. The hold expires after ttl
	// even if Release is never called.
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	// Release drops the hold only while it is still owned by token; a hold
	// that expired and was taken by another caller is left alone.
	Release(ctx context.Context, key, token string) error
}
