// Package cache stores derived values keyed by string with a time-to-live.
// Redis backs it in deployed environments; Memory serves local runs and tests.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get decodes the cached value into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Incr atomically adds one to the integer at key, starting from zero,
	// and returns the new value. Counters never expire.
	Incr(ctx context.Context, key string) (int64, error)
}
