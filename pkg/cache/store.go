package cache

import (
	"context"
	"errors"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")

	errNilEntry = errors.New("cache entry cannot be nil")
)

// Store is a payload cache. Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the live entry for key, or ErrCacheMiss.
	Get(ctx context.Context, key Key) (*Entry, error)

	// Set stores entry under key until entry.Expires.
	// Entries that are already expired are not stored.
	Set(ctx context.Context, key Key, entry *Entry) error
}

// Counter is implemented by stores that can report their live entry count.
type Counter interface {
	Len() int
}
