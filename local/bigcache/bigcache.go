// Package bigcache adapts allegro/bigcache to the local.Tier contract for
// deployments that want a byte-size bound instead of an entry-count bound.
// Entry lifetime is BigCache's global LifeWindow, which matches the tier's
// fixed-TTL contract.
package bigcache

import (
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/unkn0wn-root/fancache/local"
)

type Tier struct {
	c *bc.BigCache
}

var _ local.Tier = (*Tier)(nil)

type Config struct {
	TTL                time.Duration // entry lifetime; maps to LifeWindow
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(cfg Config) (*Tier, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = local.DefaultTTL
	}
	conf := bc.DefaultConfig(cfg.TTL)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	return &Tier{c: c}, nil
}

func (t *Tier) Get(key string) ([]byte, bool) {
	b, err := t.c.Get(key)
	if err != nil {
		// ErrEntryNotFound or internal fault; the tier contract is
		// miss-never-fail either way
		return nil, false
	}
	return b, true
}

func (t *Tier) Set(key string, payload []byte) {
	_ = t.c.Set(key, payload)
}

func (t *Tier) Del(key string) {
	_ = t.c.Delete(key)
}

func (t *Tier) Clear() {
	_ = t.c.Reset()
}

func (t *Tier) Close() error {
	return t.c.Close()
}
