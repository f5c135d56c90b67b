package remote

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// conn manages a single lazily-created handle shared by all callers in the
// process. Concurrent callers needing the handle await the same in-flight
// dial instead of racing to create duplicates; a failed dial clears the
// attempt so the next caller retries. Once established, the handle is
// read-only shared state until close.
type conn[T any] struct {
	dial func() (T, error)
	stop func(T) error

	sf singleflight.Group
	mu sync.RWMutex

	handle T
	ready  bool
	closed bool
}

func newConn[T any](dial func() (T, error), stop func(T) error) *conn[T] {
	return &conn[T]{dial: dial, stop: stop}
}

func (c *conn[T]) get() (T, error) {
	c.mu.RLock()
	if c.ready {
		h := c.handle
		c.mu.RUnlock()
		return h, nil
	}
	closed := c.closed
	c.mu.RUnlock()

	var zero T
	if closed {
		return zero, ErrClosed
	}

	v, err, _ := c.sf.Do("dial", func() (any, error) {
		// a winner from a previous flight may have stored the handle
		// between our read-lock check and this call
		c.mu.RLock()
		ready, h := c.ready, c.handle
		c.mu.RUnlock()
		if ready {
			return h, nil
		}

		nh, err := c.dial()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			if c.stop != nil {
				_ = c.stop(nh)
			}
			return nil, ErrClosed
		}
		c.handle = nh
		c.ready = true
		c.mu.Unlock()
		return nh, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// close tears the handle down. Safe to call repeatedly; only the first call
// with an established handle runs stop.
func (c *conn[T]) close() error {
	c.mu.Lock()
	wasReady := c.ready
	h := c.handle
	var zero T
	c.handle = zero
	c.ready = false
	c.closed = true
	c.mu.Unlock()

	if wasReady && c.stop != nil {
		return c.stop(h)
	}
	return nil
}
