package local

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type hold struct {
	token   string
	expires time.Time
}

// SubmissionGuard holds one outstanding generation per key within this
// process. Holds expire after their ttl.
type SubmissionGuard struct {
	mu    sync.Mutex
	holds map[string]hold
	now   func() time.Time
}

func NewSubmissionGuard() *SubmissionGuard {
	return &SubmissionGuard{
		holds: make(map[string]hold),
		now:   time.Now,
	}
}

func (g *SubmissionGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if h, ok := g.holds[key]; ok && (ttl <= 0 || now.Before(h.expires)) {
		return "", false, nil
	}
	token := uuid.NewString()
	g.holds[key] = hold{token: token, expires: now.Add(ttl)}
	return token, true, nil
}

// Release is a no-op once the hold has passed to another token.
func (g *SubmissionGuard) Release(ctx context.Context, key, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if h, ok := g.holds[key]; ok && h.token == token {
		delete(g.holds, key)
	}
	return nil
}
