// Package dispatch provides a bounded worker pool with single-flight
// admission per key: at most one task per key runs at a time, and total
// concurrency is capped by a semaphore.
package dispatch

import (
	"context"
	"errors"
	"sync"
)

// ErrInFlight is returned when a task for the same key is already running.
var ErrInFlight = errors.New("task already in flight for key")

// Pool runs tasks with bounded concurrency and single-flight per key. A
// second submission for a busy key is rejected immediately rather than
// queued, so one slow downstream call can never pile up work behind a key.
type Pool struct {
	sem chan struct{}

	mu       sync.Mutex
	inflight map[string]struct{}

	wg sync.WaitGroup
}

// NewPool creates a pool running at most maxConcurrent tasks at once.
func NewPool(maxConcurrent int) *Pool {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Pool{
		sem:      make(chan struct{}, maxConcurrent),
		inflight: make(map[string]struct{}),
	}
}

// Do runs fn synchronously under the pool's admission rules. It returns
// ErrInFlight when the key is busy, or the context's error if the pool is
// saturated until the context ends; otherwise it returns fn's error.
func (p *Pool) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	p.mu.Lock()
	if _, busy := p.inflight[key]; busy {
		p.mu.Unlock()
		return ErrInFlight
	}
	p.inflight[key] = struct{}{}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.inflight, key)
		p.mu.Unlock()
	}()

	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-p.sem }()

	p.wg.Add(1)
	defer p.wg.Done()

	return fn(ctx)
}

// InFlight reports whether a task for key is currently running.
func (p *Pool) InFlight(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, busy := p.inflight[key]
	return busy
}

// Wait blocks until all running tasks complete.
func (p *Pool) Wait() {
	p.wg.Wait()
}
