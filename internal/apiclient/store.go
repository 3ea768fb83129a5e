package apiclient

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache miss")

// Entry is a cached response body and the time it was stored.
type Entry struct {
	Data     []byte    `json:"data"`
	StoredAt time.Time `json:"stored_at"`
}

// Fresh reports whether the entry is younger than d at now.
func (e Entry) Fresh(now time.Time, d time.Duration) bool {
	return now.Sub(e.StoredAt) < d
}

// Store holds cache entries. Entries are never evicted by size; staleness is
// decided by the reader.
type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	Set(ctx context.Context, key string, e Entry, ttl time.Duration) error
	// DeleteMatching removes every key containing substr.
	DeleteMatching(ctx context.Context, substr string) (int, error)
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}
