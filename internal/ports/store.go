package ports

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by KVStore.Get when the key is absent or expired.
var ErrNotFound = errors.New("not found")

// KVStore is durable string storage with per-key expiry.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes all keys in a single operation. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
