package tasks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/unkn0wn-root/fancache"
)

type captureLogger struct {
	mu     sync.Mutex
	errors []string
	warns  []string
}

func (l *captureLogger) Debug(string, fancache.Fields) {}
func (l *captureLogger) Info(string, fancache.Fields)  {}
func (l *captureLogger) Warn(msg string, _ fancache.Fields) {
	l.mu.Lock()
	l.warns = append(l.warns, msg)
	l.mu.Unlock()
}
func (l *captureLogger) Error(msg string, _ fancache.Fields) {
	l.mu.Lock()
	l.errors = append(l.errors, msg)
	l.mu.Unlock()
}

func TestRunnerRunsSubmittedTasks(t *testing.T) {
	r := New(Config{Workers: 2})

	var ran int32
	for i := 0; i < 10; i++ {
		if !r.Submit("touch", func(context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		}) {
			t.Fatalf("Submit %d rejected", i)
		}
	}
	r.Close() // drains before returning

	if atomic.LoadInt32(&ran) != 10 {
		t.Fatalf("ran %d tasks, want 10", ran)
	}
}

func TestRunnerLogsFailures(t *testing.T) {
	log := &captureLogger{}
	r := New(Config{Logger: log})

	r.Submit("flaky", func(context.Context) error {
		return errors.New("write failed")
	})
	r.Close()

	log.mu.Lock()
	defer log.mu.Unlock()
	if len(log.errors) != 1 {
		t.Fatalf("expected one logged failure, got %d", len(log.errors))
	}
}

// TestRunnerDropsWhenFull: a saturated queue sheds load instead of blocking
// the submitter.
func TestRunnerDropsWhenFull(t *testing.T) {
	log := &captureLogger{}
	r := New(Config{Workers: 1, QueueLen: 1, Logger: log})

	release := make(chan struct{})
	started := make(chan struct{})
	r.Submit("blocker", func(context.Context) error {
		close(started)
		<-release
		return nil
	})
	<-started // worker is busy

	if !r.Submit("queued", func(context.Context) error { return nil }) {
		t.Fatalf("queue slot should accept one task")
	}
	if r.Submit("dropped", func(context.Context) error { return nil }) {
		t.Fatalf("full queue must drop, not block")
	}

	close(release)
	r.Close()

	log.mu.Lock()
	defer log.mu.Unlock()
	if len(log.warns) != 1 {
		t.Fatalf("expected one drop warning, got %d", len(log.warns))
	}
}

func TestRunnerTaskTimeout(t *testing.T) {
	r := New(Config{TaskTimeout: 20 * time.Millisecond})

	done := make(chan error, 1)
	r.Submit("slow", func(ctx context.Context) error {
		<-ctx.Done()
		done <- ctx.Err()
		return ctx.Err()
	})
	r.Close()

	select {
	case err := <-done:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline, got %v", err)
		}
	default:
		t.Fatalf("task never observed its deadline")
	}
}

func TestRunnerCloseIsIdempotent(t *testing.T) {
	r := New(Config{})
	r.Close()
	r.Close()
}
