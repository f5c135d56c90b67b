package fancache

import (
	"context"
	"time"

	c "github.com/unkn0wn-root/fancache/codec"
	"github.com/unkn0wn-root/fancache/local"
	"github.com/unkn0wn-root/fancache/remote"
)

// Background accepts detached work whose failure must never reach the
// request path. tasks.Runner is the provided implementation.
type Background interface {
	Submit(name string, fn func(ctx context.Context) error) bool
}

// ComputeFunc loads the authoritative value on a cache miss. ok=false means
// "no such value" - the result is returned to the caller but never cached.
// Errors from a ComputeFunc are business errors and propagate verbatim.
type ComputeFunc[V any] func(ctx context.Context) (v V, ok bool, err error)

// Cache is the high-level two-tier cache API. V is the caller's value type;
// serialization is handled by a pluggable Codec[V].
//
// None of the operations except Fetch ever return an error: cache
// infrastructure failures are logged and degrade to misses (reads) or a
// false success flag (writes).
type Cache[V any] interface {
	// Get returns the cached value for key, checking the local tier first.
	// A remote hit repopulates the local tier.
	Get(ctx context.Context, key string) (v V, ok bool)

	// Set writes the value to both tiers. The local tier always succeeds and
	// uses its own fixed TTL; the returned flag reflects the remote write
	// only.
	Set(ctx context.Context, key string, value V, ttl time.Duration) bool

	// GetMany resolves keys against the local tier, then fetches the misses
	// in a single pipelined batch. Entries that fail to decode are absent
	// from the result.
	GetMany(ctx context.Context, keys []string) map[string]V

	// SetMany writes all items to the local tier and issues one pipelined
	// batch to the remote tier.
	SetMany(ctx context.Context, items map[string]V, ttl time.Duration) bool

	// Del removes key from both tiers.
	Del(ctx context.Context, key string) bool

	// DelPattern scans the remote keyspace for pattern (glob, unprefixed),
	// deletes the matches in one pipelined batch and drops them from the
	// local tier. Returns the number of keys deleted remotely.
	DelPattern(ctx context.Context, pattern string) int

	// Fetch is the cache-aside read path: Get, and on miss compute under an
	// advisory lock and write through. See ComputeFunc for error semantics.
	Fetch(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc[V]) (V, bool, error)

	// ClearLocal empties the process-local tier.
	ClearLocal()

	// Close clears the local tier and releases the remote client. Idempotent.
	Close(ctx context.Context) error
}

// Options tune the cache. Remote and Codec are required; everything else has
// defaults.
type Options[V any] struct {
	// Required
	Remote remote.Store
	Codec  c.Codec[V]

	Local      local.Tier    // nil => local.NewBounded with defaults
	Logger     Logger        // nil => NopLogger
	DefaultTTL time.Duration // remote TTL when the caller passes 0; 0 => 10m
	LockTTL    time.Duration // advisory lock lifetime; 0 => 5s
	LockWait   time.Duration // wait before the post-lock retry read; 0 => 100ms

	// CompressMin is the minimum encoded size in bytes that triggers gzip
	// on the remote write path. 0 => 1024; negative disables compression.
	CompressMin int

	// Background, when set, runs self-heal deletes of corrupt remote entries
	// off the request path. Nil means they run inline.
	Background Background
}

// New builds a Cache from opts.
func New[V any](opts Options[V]) (Cache[V], error) {
	return newCache[V](opts)
}
