// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package pool provides the worker pools that execute asynchronous
// HTTP request tasks.
//
// The Pool interface has two implementations. Elastic, the default,
// grows a worker goroutine per concurrent submission and shrinks as
// workers sit idle, so submissions never queue behind a fixed worker
// count. Bounded trades that elasticity for deterministic
// backpressure: a fixed worker count and queue capacity, with
// saturation reported synchronously to the submitter. Either can be
// wrapped with Throttled to cap the submission rate.
//
// All rejection paths report a *SchedulingError whose cause is one of
// ErrTerminated, ErrSaturated, or ErrThrottled, so callers can branch
// with errors.Is:
//
//	if err := p.Submit(run); errors.Is(err, pool.ErrSaturated) {
//		// shed load
//	}
//
// A custom Pool implementation may be installed on a client, provided
// it honors the same contract: Submit never blocks, accepted work runs
// exactly once, and rejection is synchronous.
package pool
