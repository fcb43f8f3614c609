// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package pool

import (
	"errors"
)

// A Pool schedules units of work for execution on worker goroutines.
//
// Implementations of Pool must be safe for concurrent use by multiple
// goroutines, and Submit must never block the caller waiting for a
// worker: a pool either accepts the work and returns immediately, or
// rejects it with a SchedulingError.
type Pool interface {
	// Submit schedules run for execution on a worker goroutine. It
	// returns nil if the work was accepted, and a *SchedulingError
	// otherwise. Accepted work is executed exactly once.
	Submit(run func()) error

	// Shutdown stops the pool. Work accepted before Shutdown is
	// allowed to finish; Submit calls made after Shutdown fail with a
	// SchedulingError wrapping ErrTerminated. Shutdown is idempotent
	// and waits for the workers to wind down before returning.
	Shutdown()
}

var (
	// ErrTerminated is the cause reported by a SchedulingError when
	// work is submitted to a pool that has been shut down.
	ErrTerminated = errors.New("httpq/pool: pool terminated")

	// ErrSaturated is the cause reported by a SchedulingError when a
	// bounded pool has no queue capacity left for more work.
	ErrSaturated = errors.New("httpq/pool: pool saturated")

	// ErrThrottled is the cause reported by a SchedulingError when a
	// rate-limited pool rejects work because the submission rate has
	// been exceeded.
	ErrThrottled = errors.New("httpq/pool: submission rate exceeded")
)

// A SchedulingError reports that a pool could not accept submitted
// work. It is always returned synchronously from Submit, never
// delivered through a response handler.
type SchedulingError struct {
	// Err is the underlying cause: ErrTerminated, ErrSaturated, or
	// ErrThrottled.
	Err error
}

func (e *SchedulingError) Error() string {
	return "httpq/pool: cannot schedule work: " + e.Err.Error()
}

func (e *SchedulingError) Unwrap() error {
	return e.Err
}
