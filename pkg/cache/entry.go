package cache

import (
	"time"
)

// Entry represents a cached upstream payload.
type Entry struct {
	// Data is the parsed response body
	Data map[string]any `json:"data"`

	// CachedAt is when the payload was fetched and stored
	CachedAt time.Time `json:"cached_at"`

	// Expires is when the entry stops being served
	Expires time.Time `json:"expires"`
}

// NewEntry wraps a parsed payload into an entry that expires after ttl.
func NewEntry(data map[string]any, ttl time.Duration) *Entry {
	now := time.Now()
	return &Entry{
		Data:     data,
		CachedAt: now,
		Expires:  now.Add(ttl),
	}
}

// IsExpired returns true if the cache entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// Age returns how long ago the entry was cached.
func (e *Entry) Age() time.Duration {
	return time.Since(e.CachedAt)
}
