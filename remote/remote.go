// Package remote defines the distributed cache tier: a shared,
// network-accessible byte store with TTLs, pipelined batches, incremental
// pattern scans and a set-if-absent lock primitive.
//
// Implementations own the key namespace (prefixing) and the companion
// ":meta" entries that carry the compression flag. The orchestrator treats
// every error from this package as "distributed tier unavailable" and
// degrades; nothing here should panic or block beyond its configured
// timeouts.
package remote

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned once Close has been called.
var ErrClosed = errors.New("remote: store closed")

// Entry is a stored payload plus its compression flag. The flag travels in a
// companion "<key>:meta" entry so foreign readers of the raw value can still
// recognize it.
type Entry struct {
	Payload    []byte
	Compressed bool
}

// Store is the distributed tier contract. All methods may suspend on I/O and
// are bounded by the client's own command timeout and retry policy.
type Store interface {
	// Get returns (entry, true, nil) on hit; (Entry{}, false, nil) on miss.
	Get(ctx context.Context, key string) (Entry, bool, error)

	// Set stores entry under key with ttl, writing the value and its meta
	// companion in one round trip.
	Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error

	// GetMany fetches keys in a single pipelined batch; misses are simply
	// absent from the result.
	GetMany(ctx context.Context, keys []string) (map[string]Entry, error)

	// SetMany stores all items in a single pipelined batch with one ttl.
	SetMany(ctx context.Context, items map[string]Entry, ttl time.Duration) error

	// Del removes key and its meta companion.
	Del(ctx context.Context, key string) error

	// DelPattern scans the keyspace incrementally for pattern (glob,
	// unprefixed), deletes all matches in one pipelined batch and returns
	// the unprefixed names of the deleted value keys.
	DelPattern(ctx context.Context, pattern string) ([]string, error)

	// SetNX sets key to value with ttl only if key is absent. Used as the
	// advisory compute lock.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Close tears down the connection. Idempotent.
	Close() error
}
