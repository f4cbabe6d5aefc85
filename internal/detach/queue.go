// Package detach runs fire-and-forget calls off the caller's path, one at a
// time and in submission order.
package detach

import (
	"context"
	"sync"
	"time"
)

// Queue executes submitted calls serially on a background goroutine. Calls
// get a context derived from the queue's base context, never the caller's,
// so they outlive the action that issued them.
type Queue struct {
	base    context.Context
	timeout time.Duration

	mu      sync.Mutex
	idle    *sync.Cond
	pending []func(context.Context)
	running bool
	closed  bool
}

// New creates a queue. timeout bounds each call; zero means no bound.
func New(base context.Context, timeout time.Duration) *Queue {
	if base == nil {
		base = context.Background()
	}
	q := &Queue{base: base, timeout: timeout}
	q.idle = sync.NewCond(&q.mu)
	return q
}

// Go enqueues fn and returns immediately. It reports false when the queue
// is closed and fn was dropped.
func (q *Queue) Go(fn func(ctx context.Context)) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.pending = append(q.pending, fn)
	if !q.running {
		q.running = true
		go q.run()
	}
	return true
}

func (q *Queue) run() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.running = false
			q.idle.Broadcast()
			q.mu.Unlock()
			return
		}
		fn := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		ctx, cancel := q.base, context.CancelFunc(func() {})
		if q.timeout > 0 {
			ctx, cancel = context.WithTimeout(q.base, q.timeout)
		}
		fn(ctx)
		cancel()
	}
}

// Wait blocks until every call submitted so far has finished.
func (q *Queue) Wait() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.running || len(q.pending) > 0 {
		q.idle.Wait()
	}
}

// Close stops accepting calls and waits for the pending ones.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.Wait()
}
