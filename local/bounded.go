package local

import (
	"sync"
	"time"
)

const (
	// DefaultMaxSize bounds the number of entries the tier holds.
	DefaultMaxSize = 1000
	// DefaultTTL is the fixed lifetime of every entry, independent of the
	// TTL the caller hands to the distributed tier.
	DefaultTTL = 30 * time.Second
)

// BoundedConfig tunes a Bounded tier. Zero values take the defaults above.
type BoundedConfig struct {
	MaxSize int
	TTL     time.Duration
}

type boundedEntry struct {
	payload   []byte
	expiresAt time.Time
}

// Bounded is the default Tier: a mutex-guarded map capped at MaxSize
// entries. When full at insert time the oldest-inserted entry is evicted
// (insertion order, not access order). Replacing an existing key keeps its
// original position in the eviction queue.
type Bounded struct {
	mu      sync.Mutex
	entries map[string]boundedEntry
	queue   []string // insertion order; front is the eviction candidate

	max int
	ttl time.Duration
	now func() time.Time // swapped out in tests
}

var _ Tier = (*Bounded)(nil)

func NewBounded(cfg BoundedConfig) *Bounded {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Bounded{
		entries: make(map[string]boundedEntry, cfg.MaxSize),
		max:     cfg.MaxSize,
		ttl:     cfg.TTL,
		now:     time.Now,
	}
}

func (b *Bounded) Get(key string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[key]
	if !ok {
		return nil, false
	}
	if b.now().After(e.expiresAt) {
		b.remove(key)
		return nil, false
	}
	return e.payload, true
}

func (b *Bounded) Set(key string, payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.entries[key]; !exists {
		if len(b.entries) >= b.max {
			b.evictOldest()
		}
		b.queue = append(b.queue, key)
	}
	b.entries[key] = boundedEntry{
		payload:   payload,
		expiresAt: b.now().Add(b.ttl),
	}
}

func (b *Bounded) Del(key string) {
	b.mu.Lock()
	b.remove(key)
	b.mu.Unlock()
}

func (b *Bounded) Clear() {
	b.mu.Lock()
	b.entries = make(map[string]boundedEntry, b.max)
	b.queue = b.queue[:0]
	b.mu.Unlock()
}

// Len reports the current entry count, expired entries included until a read
// or eviction removes them.
func (b *Bounded) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

func (b *Bounded) Close() error { return nil }

// remove deletes key from the map and the queue. Callers hold the lock.
func (b *Bounded) remove(key string) {
	if _, ok := b.entries[key]; !ok {
		return
	}
	delete(b.entries, key)
	for i, k := range b.queue {
		if k == key {
			b.queue = append(b.queue[:i], b.queue[i+1:]...)
			break
		}
	}
}

func (b *Bounded) evictOldest() {
	if len(b.queue) == 0 {
		return
	}
	oldest := b.queue[0]
	b.queue = b.queue[1:]
	delete(b.entries, oldest)
}
