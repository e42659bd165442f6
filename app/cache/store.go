package cache

import (
	"context"
	"time"
)

// Store keeps opaque values under string keys with a time-to-live.
// Get returns (nil, nil) when the key is missing or expired. A non-positive
// ttl stores the value without expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Redis)(nil)
	_ Store = (*SQLite)(nil)
)
