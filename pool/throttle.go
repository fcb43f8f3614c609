// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package pool

import (
	"golang.org/x/time/rate"
)

// Throttled wraps a pool with a submission rate limit. Submissions
// above the limit fail fast with a SchedulingError wrapping
// ErrThrottled; they are never delayed, preserving the non-blocking
// Submit contract.
//
// Use a throttled pool to keep a chatty caller from flooding a remote
// service, for example:
//
//	p := pool.Throttled(pool.NewElastic(0), rate.NewLimiter(rate.Limit(100), 10))
func Throttled(p Pool, l *rate.Limiter) Pool {
	if p == nil {
		panic("httpq/pool: nil pool")
	}
	if l == nil {
		panic("httpq/pool: nil limiter")
	}
	return &throttled{pool: p, limiter: l}
}

type throttled struct {
	pool    Pool
	limiter *rate.Limiter
}

func (p *throttled) Submit(run func()) error {
	if !p.limiter.Allow() {
		return &SchedulingError{Err: ErrThrottled}
	}
	return p.pool.Submit(run)
}

func (p *throttled) Shutdown() {
	p.pool.Shutdown()
}
