// Package ristretto adapts dgraph-io/ristretto to the local.Tier contract
// for deployments that want admission control under heavy key churn. Writes
// are best-effort: ristretto may reject an entry under pressure, which the
// tier contract already allows (a rejected Set is just a future miss).
package ristretto

import (
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/fancache/local"
)

type Tier struct {
	c   *rc.Cache
	ttl time.Duration
}

var _ local.Tier = (*Tier)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64 // total byte budget; entry cost is len(payload)
	BufferItems int64
	TTL         time.Duration // fixed entry lifetime; 0 => local.DefaultTTL
}

func New(cfg Config) (*Tier, error) {
	if cfg.NumCounters <= 0 {
		cfg.NumCounters = 10 * local.DefaultMaxSize
	}
	if cfg.MaxCost <= 0 {
		cfg.MaxCost = 64 << 20
	}
	if cfg.BufferItems <= 0 {
		cfg.BufferItems = 64
	}
	if cfg.TTL <= 0 {
		cfg.TTL = local.DefaultTTL
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
	})
	if err != nil {
		return nil, err
	}
	return &Tier{c: c, ttl: cfg.TTL}, nil
}

func (t *Tier) Get(key string) ([]byte, bool) {
	v, ok := t.c.Get(key)
	if !ok {
		return nil, false
	}
	b, _ := v.([]byte)
	if b == nil {
		// drop unexpected entry shape
		t.c.Del(key)
		return nil, false
	}
	return b, true
}

func (t *Tier) Set(key string, payload []byte) {
	t.c.SetWithTTL(key, payload, int64(len(payload)), t.ttl)
}

func (t *Tier) Del(key string) {
	t.c.Del(key)
}

func (t *Tier) Clear() {
	t.c.Clear()
}

func (t *Tier) Close() error {
	t.c.Wait()
	t.c.Close()
	return nil
}
