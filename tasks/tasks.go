// Package tasks runs fire-and-forget side effects off the request path:
// self-heal deletes, last-active touches, anything whose failure must never
// surface to the request that spawned it. Submissions carry their own
// context and error logging; cancelling the request does not cancel the
// task.
package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/unkn0wn-root/fancache"
)

var _ fancache.Background = (*Runner)(nil)

type task struct {
	name string
	fn   func(ctx context.Context) error
}

// Runner is a bounded-queue worker pool. When the queue is full, Submit
// drops the task and logs - backpressure must never reach the request path.
type Runner struct {
	q       chan task
	log     fancache.Logger
	timeout time.Duration
	wg      sync.WaitGroup
	once    sync.Once
}

type Config struct {
	Workers     int             // 0 => 1
	QueueLen    int             // 0 => 1024
	TaskTimeout time.Duration   // per-task bound; 0 => 5s
	Logger      fancache.Logger // nil => silent
}

func New(cfg Config) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueLen <= 0 {
		cfg.QueueLen = 1024
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = fancache.NopLogger{}
	}

	r := &Runner{
		q:       make(chan task, cfg.QueueLen),
		log:     cfg.Logger,
		timeout: cfg.TaskTimeout,
	}
	r.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go func() {
			defer r.wg.Done()
			for t := range r.q {
				r.run(t)
			}
		}()
	}
	return r
}

// Submit enqueues fn. Returns false when the queue is full and the task was
// dropped.
func (r *Runner) Submit(name string, fn func(ctx context.Context) error) bool {
	select {
	case r.q <- task{name: name, fn: fn}:
		return true
	default:
		r.log.Warn("task dropped, queue full", fancache.Fields{"task": name})
		return false
	}
}

// Close drains the queue and stops the workers. Idempotent.
func (r *Runner) Close() {
	r.once.Do(func() {
		close(r.q)
		r.wg.Wait()
	})
}

func (r *Runner) run(t task) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := t.fn(ctx); err != nil {
		r.log.Error("background task failed", fancache.Fields{"task": t.name, "err": err})
	}
}
