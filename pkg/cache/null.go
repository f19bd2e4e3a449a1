package cache

import (
	"context"
	"time"
)

// NullCache discards every write and misses every read. It stands in for a
// real backend when caching is disabled, so callers never branch on nil.
type NullCache struct{}

var _ Cache = (*NullCache)(nil)

// NewNullCache returns a cache that stores nothing.
func NewNullCache() *NullCache { return &NullCache{} }

// Get reports a miss for every key.
func (*NullCache) Get(_ context.Context, _ string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the value.
func (*NullCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return nil
}

// Delete is a no-op.
func (*NullCache) Delete(_ context.Context, _ string) error { return nil }

// Close is a no-op.
func (*NullCache) Close() error { return nil }
