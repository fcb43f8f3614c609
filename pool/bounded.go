// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package pool

import (
	"sync"

	"golang.org/x/sync/semaphore"
)

// Bounded is a fixed-size worker pool with a bounded work queue. It is
// an alternative to Elastic for callers who want deterministic
// backpressure instead of pool growth: when every worker is busy and
// the queue is full, Submit fails with a SchedulingError wrapping
// ErrSaturated.
//
// Construct one with NewBounded; the zero value is not usable.
type Bounded struct {
	queue   chan func()
	permits *semaphore.Weighted // in-flight + queued work

	mu   sync.RWMutex
	done bool
	wg   sync.WaitGroup
}

// NewBounded constructs a bounded pool with the given number of worker
// goroutines and queue capacity, and starts the workers. Both workers
// and queueSize must be at least 1, except queueSize may be 0 to
// disable queueing entirely (work is only accepted while a worker is
// free to take it promptly).
func NewBounded(workers, queueSize int) *Bounded {
	if workers < 1 {
		panic("httpq/pool: workers must be at least 1")
	}
	if queueSize < 0 {
		panic("httpq/pool: queue size may not be negative")
	}
	p := &Bounded{
		queue:   make(chan func(), queueSize),
		permits: semaphore.NewWeighted(int64(workers + queueSize)),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Submit schedules run for execution, failing fast with a
// SchedulingError wrapping ErrSaturated when the pool is at capacity,
// or wrapping ErrTerminated after Shutdown. It never blocks waiting
// for capacity.
func (p *Bounded) Submit(run func()) error {
	if run == nil {
		panic("httpq/pool: nil work")
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.done {
		return &SchedulingError{Err: ErrTerminated}
	}
	if !p.permits.TryAcquire(1) {
		return &SchedulingError{Err: ErrSaturated}
	}
	// The permit guarantees queue space or a worker about to receive,
	// so this send completes promptly.
	p.queue <- run
	return nil
}

// Shutdown stops the pool after draining work already accepted, and
// blocks until the workers have exited. It is idempotent.
func (p *Bounded) Shutdown() {
	p.mu.Lock()
	if !p.done {
		p.done = true
		close(p.queue)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Bounded) worker() {
	defer p.wg.Done()
	for run := range p.queue {
		run()
		p.permits.Release(1)
	}
}
