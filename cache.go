package fancache

import (
	"context"
	"fmt"
	"time"

	"github.com/unkn0wn-root/fancache/compress"
	"github.com/unkn0wn-root/fancache/local"
	"github.com/unkn0wn-root/fancache/remote"

	c "github.com/unkn0wn-root/fancache/codec"
)

const lockPrefix = "lock:"

type cache[V any] struct {
	remote remote.Store
	local  local.Tier
	codec  c.Codec[V]
	comp   compress.Codec
	log    Logger
	bg     Background

	defaultTTL time.Duration
	lockTTL    time.Duration
	lockWait   time.Duration
}

func newCache[V any](opts Options[V]) (*cache[V], error) {
	if opts.Remote == nil {
		return nil, fmt.Errorf("fancache: remote store is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("fancache: codec is required")
	}

	cc := &cache[V]{
		remote: opts.Remote,
		codec:  opts.Codec,
		bg:     opts.Background,
	}

	// defaults
	cc.log = coalesce[Logger](opts.Logger, NopLogger{})
	cc.defaultTTL = coalesce[time.Duration](opts.DefaultTTL, 10*time.Minute)
	cc.lockTTL = coalesce[time.Duration](opts.LockTTL, 5*time.Second)
	cc.lockWait = coalesce[time.Duration](opts.LockWait, 100*time.Millisecond)
	cc.comp = compress.Codec{MinSize: opts.CompressMin, Disabled: opts.CompressMin < 0}

	if opts.Local != nil {
		cc.local = opts.Local
	} else {
		cc.local = local.NewBounded(local.BoundedConfig{})
	}
	return cc, nil
}

func (c *cache[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V

	if raw, ok := c.local.Get(key); ok {
		v, err := c.codec.Decode(raw)
		if err != nil {
			// local tier holds what we encoded ourselves; a decode failure
			// means the entry is garbage, drop it
			c.local.Del(key)
			c.log.Warn("local decode failed", Fields{"key": key, "err": err})
			return zero, false
		}
		return v, true
	}

	ent, ok, err := c.remote.Get(ctx, key)
	if err != nil {
		c.log.Warn("remote get degraded to miss", Fields{"key": key, "err": err})
		return zero, false
	}
	if !ok {
		return zero, false
	}

	payload, err := c.comp.Decode(ent.Payload, ent.Compressed)
	if err != nil {
		c.selfHeal(ctx, key, "decompress", err)
		return zero, false
	}
	v, err := c.codec.Decode(payload)
	if err != nil {
		c.selfHeal(ctx, key, "decode", err)
		return zero, false
	}

	c.local.Set(key, payload)
	return v, true
}

func (c *cache[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) bool {
	payload, err := c.codec.Encode(value)
	if err != nil {
		c.log.Error("encode failed", Fields{"key": key, "err": err})
		return false
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	// local write is unconditional and uses the tier's own fixed TTL
	c.local.Set(key, payload)

	out, compressed := c.comp.Encode(payload)
	ent := remote.Entry{Payload: out, Compressed: compressed}
	if err := c.remote.Set(ctx, key, ent, ttl); err != nil {
		c.log.Warn("remote set failed", Fields{"key": key, "err": err})
		return false
	}
	return true
}

func (c *cache[V]) GetMany(ctx context.Context, keys []string) map[string]V {
	out := make(map[string]V, len(keys))
	if len(keys) == 0 {
		return out
	}

	var misses []string
	for _, k := range keys {
		raw, ok := c.local.Get(k)
		if !ok {
			misses = append(misses, k)
			continue
		}
		v, err := c.codec.Decode(raw)
		if err != nil {
			c.local.Del(k)
			misses = append(misses, k)
			continue
		}
		out[k] = v
	}
	if len(misses) == 0 {
		return out
	}

	ents, err := c.remote.GetMany(ctx, misses)
	if err != nil {
		c.log.Warn("remote mget degraded", Fields{"keys": len(misses), "err": err})
		return out
	}
	for k, ent := range ents {
		payload, err := c.comp.Decode(ent.Payload, ent.Compressed)
		if err != nil {
			c.log.Warn("mget decompress skipped entry", Fields{"key": k, "err": err})
			continue
		}
		v, err := c.codec.Decode(payload)
		if err != nil {
			c.log.Warn("mget decode skipped entry", Fields{"key": k, "err": err})
			continue
		}
		out[k] = v
		c.local.Set(k, payload)
	}
	return out
}

func (c *cache[V]) SetMany(ctx context.Context, items map[string]V, ttl time.Duration) bool {
	if len(items) == 0 {
		return true
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	ents := make(map[string]remote.Entry, len(items))
	for k, v := range items {
		payload, err := c.codec.Encode(v)
		if err != nil {
			c.log.Error("mset encode failed", Fields{"key": k, "err": err})
			return false
		}
		c.local.Set(k, payload)
		out, compressed := c.comp.Encode(payload)
		ents[k] = remote.Entry{Payload: out, Compressed: compressed}
	}

	if err := c.remote.SetMany(ctx, ents, ttl); err != nil {
		c.log.Warn("remote mset failed", Fields{"keys": len(items), "err": err})
		return false
	}
	return true
}

func (c *cache[V]) Del(ctx context.Context, key string) bool {
	c.local.Del(key)
	if err := c.remote.Del(ctx, key); err != nil {
		c.log.Warn("remote del failed", Fields{"key": key, "err": err})
		return false
	}
	return true
}

func (c *cache[V]) DelPattern(ctx context.Context, pattern string) int {
	deleted, err := c.remote.DelPattern(ctx, pattern)
	if err != nil {
		c.log.Warn("remote pattern del failed", Fields{"pattern": pattern, "err": err})
	}
	for _, k := range deleted {
		c.local.Del(k)
	}
	return len(deleted)
}

func (c *cache[V]) Fetch(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc[V]) (V, bool, error) {
	var zero V
	if compute == nil {
		return zero, false, fmt.Errorf("fancache: compute func is required")
	}

	if v, ok := c.Get(ctx, key); ok {
		return v, true, nil
	}

	lockKey := lockPrefix + key
	acquired, err := c.remote.SetNX(ctx, lockKey, []byte("1"), c.lockTTL)
	lockable := err == nil
	if err != nil {
		// remote tier unavailable: no lock to fight over, compute directly
		c.log.Warn("lock attempt degraded", Fields{"key": key, "err": err})
	}

	if lockable && !acquired {
		// another worker is computing; wait once, retry the read, then
		// compute anyway - a second compute is a bounded cost, blocking
		// forever is not
		select {
		case <-time.After(c.lockWait):
		case <-ctx.Done():
		}
		if v, ok := c.Get(ctx, key); ok {
			return v, true, nil
		}
	}

	if lockable {
		defer func() {
			if err := c.remote.Del(ctx, lockKey); err != nil {
				// lock self-expires via TTL
				c.log.Debug("lock release failed", Fields{"key": key, "err": err})
			}
		}()
	}

	v, ok, err := compute(ctx)
	if err != nil {
		return zero, false, err
	}
	if ok {
		// caller gets v regardless of the write-back outcome
		c.Set(ctx, key, v, ttl)
	}
	return v, ok, nil
}

func (c *cache[V]) ClearLocal() { c.local.Clear() }

func (c *cache[V]) Close(ctx context.Context) error {
	c.local.Clear()
	if err := c.local.Close(); err != nil {
		c.log.Warn("local tier close", Fields{"err": err})
	}
	return c.remote.Close()
}

// selfHeal drops a remote entry that failed to decompress or decode so the
// next read recomputes instead of tripping over it again.
func (c *cache[V]) selfHeal(ctx context.Context, key, op string, cause error) {
	c.log.Warn("corrupt remote entry treated as miss", Fields{"key": key, "op": op, "err": cause})
	del := func(ctx context.Context) error {
		return c.remote.Del(ctx, key)
	}
	if c.bg != nil {
		c.bg.Submit("selfheal:"+key, del)
		return
	}
	if err := del(ctx); err != nil {
		c.log.Debug("self-heal delete failed", Fields{"key": key, "err": err})
	}
}
