// Package cache holds the widget data cache backends. Both fail safe: a
// backend error behaves like a miss so the dashboard falls through to the
// upstream API.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
