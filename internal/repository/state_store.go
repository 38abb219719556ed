package repository

import (
	"context"
	"time"
)

// StateStore abstracts ephemeral key-value state: refresh-token revocation
// markers and the one-time confirmation tokens behind destructive admin
// actions. Implementations: Redis (production) or in-memory (local dev,
// single instance).
type StateStore interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	// GetDel atomically reads and removes a key, so a confirmation token
	// can be consumed exactly once. Returns nil when the key is absent.
	GetDel(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
