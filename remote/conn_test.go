package remote

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type handle struct{ id int32 }

// TestConnSharesInFlightDial races callers against a slow dial and verifies
// exactly one handshake happens and everyone gets the same handle.
func TestConnSharesInFlightDial(t *testing.T) {
	var dials int32
	c := newConn(func() (*handle, error) {
		n := atomic.AddInt32(&dials, 1)
		time.Sleep(50 * time.Millisecond)
		return &handle{id: n}, nil
	}, nil)

	const callers = 16
	results := make([]*handle, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			h, err := c.get()
			if err != nil {
				t.Errorf("get: %v", err)
				return
			}
			results[i] = h
		}(i)
	}
	wg.Wait()

	if n := atomic.LoadInt32(&dials); n != 1 {
		t.Fatalf("expected a single dial, observed %d", n)
	}
	for i := 1; i < callers; i++ {
		if results[i] != results[0] {
			t.Fatalf("caller %d got a different handle", i)
		}
	}
}

// TestConnFailureClearsAttempt: a failed dial surfaces to the awaiting batch
// and the next call retries fresh.
func TestConnFailureClearsAttempt(t *testing.T) {
	var dials int32
	fail := errors.New("handshake timeout")
	c := newConn(func() (*handle, error) {
		if atomic.AddInt32(&dials, 1) == 1 {
			return nil, fail
		}
		return &handle{id: 2}, nil
	}, nil)

	if _, err := c.get(); !errors.Is(err, fail) {
		t.Fatalf("first get should surface the dial error, got %v", err)
	}

	h, err := c.get()
	if err != nil || h == nil || h.id != 2 {
		t.Fatalf("retry should dial again: h=%v err=%v", h, err)
	}
	if atomic.LoadInt32(&dials) != 2 {
		t.Fatalf("expected retry-on-next-use, dials=%d", dials)
	}
}

func TestConnHandleCachedAfterSuccess(t *testing.T) {
	var dials int32
	c := newConn(func() (*handle, error) {
		atomic.AddInt32(&dials, 1)
		return &handle{id: 1}, nil
	}, nil)

	for i := 0; i < 5; i++ {
		if _, err := c.get(); err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
	}
	if atomic.LoadInt32(&dials) != 1 {
		t.Fatalf("ready handle must be reused, dials=%d", dials)
	}
}

func TestConnCloseIsIdempotent(t *testing.T) {
	var stops int32
	c := newConn(
		func() (*handle, error) { return &handle{id: 1}, nil },
		func(*handle) error { atomic.AddInt32(&stops, 1); return nil },
	)

	if _, err := c.get(); err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := c.close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if atomic.LoadInt32(&stops) != 1 {
		t.Fatalf("stop ran %d times, want 1", stops)
	}

	if _, err := c.get(); !errors.Is(err, ErrClosed) {
		t.Fatalf("get after close: %v", err)
	}
}

func TestConnCloseWithoutDial(t *testing.T) {
	var stops int32
	c := newConn(
		func() (*handle, error) { return &handle{id: 1}, nil },
		func(*handle) error { atomic.AddInt32(&stops, 1); return nil },
	)
	if err := c.close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if atomic.LoadInt32(&stops) != 0 {
		t.Fatalf("stop must not run without an established handle")
	}
}
