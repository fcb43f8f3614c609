// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package pool

import (
	"sync"
	"time"
)

// DefaultIdleTimeout is how long an idle Elastic worker lingers,
// waiting for more work, before exiting.
const DefaultIdleTimeout = 30 * time.Second

// Elastic is an unbounded, dynamically sized worker pool. It grows by
// one goroutine whenever work arrives and no worker is idle, and
// shrinks as workers exceed their idle timeout without receiving work.
// Submissions are therefore never queued behind a fixed worker count:
// a burst of work simply grows the pool.
//
// Elastic is the default pool used by a client. Construct one with
// NewElastic; the zero value is not usable.
type Elastic struct {
	idleTimeout time.Duration

	mu   sync.Mutex
	idle int // parked workers not yet claimed by a submitter
	done bool

	work chan func()
	quit chan struct{}
	wg   sync.WaitGroup
}

// NewElastic constructs an elastic worker pool whose idle workers
// linger for idleTimeout before exiting. An idleTimeout of zero or
// less selects DefaultIdleTimeout.
func NewElastic(idleTimeout time.Duration) *Elastic {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Elastic{
		idleTimeout: idleTimeout,
		work:        make(chan func()),
		quit:        make(chan struct{}),
	}
}

// Submit schedules run on an idle worker, starting a new worker if
// none is idle. It never blocks waiting for capacity. After Shutdown,
// Submit fails with a SchedulingError wrapping ErrTerminated.
func (p *Elastic) Submit(run func()) error {
	if run == nil {
		panic("httpq/pool: nil work")
	}

	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return &SchedulingError{Err: ErrTerminated}
	}
	if p.idle > 0 {
		// Claim a parked worker. The claim converts one idle unit
		// into one pending handoff, so a parked worker is guaranteed
		// to be receiving on p.work until the handoff completes.
		p.idle--
		p.mu.Unlock()
		select {
		case p.work <- run:
			return nil
		case <-p.quit:
			return &SchedulingError{Err: ErrTerminated}
		}
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go p.worker(run)
	return nil
}

// Shutdown stops the pool. Parked workers exit immediately; workers
// busy with accepted work finish it first. Shutdown blocks until all
// workers have exited, and is idempotent.
func (p *Elastic) Shutdown() {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		p.wg.Wait()
		return
	}
	p.done = true
	close(p.quit)
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Elastic) worker(run func()) {
	defer p.wg.Done()
	for {
		run()

		p.mu.Lock()
		if p.done {
			p.mu.Unlock()
			return
		}
		p.idle++
		p.mu.Unlock()

		var ok bool
		run, ok = p.park()
		if !ok {
			return
		}
	}
}

// park waits for the next piece of work, or for retirement. The worker
// retires when the pool shuts down, or when it times out idle and can
// give back an unclaimed idle unit.
func (p *Elastic) park() (func(), bool) {
	idleTimer := time.NewTimer(p.idleTimeout)
	defer idleTimer.Stop()
	for {
		select {
		case run := <-p.work:
			return run, true
		case <-p.quit:
			return nil, false
		case <-idleTimer.C:
			p.mu.Lock()
			if p.idle > 0 {
				p.idle--
				p.mu.Unlock()
				return nil, false
			}
			// A submitter already claimed this worker's idle unit;
			// the handoff is in flight, so keep receiving.
			p.mu.Unlock()
			idleTimer.Reset(p.idleTimeout)
		}
	}
}
