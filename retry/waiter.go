// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math/rand"
	"sync"
	"time"
)

// A Waiter specifies how long to wait before retrying a failed HTTP
// request attempt.
//
// Implementations of Waiter must be safe for concurrent use by
// multiple goroutines.
//
// A task will not call the Waiter on a retry policy if the policy
// Decider returned false.
type Waiter interface {
	Wait(a Attempt) time.Duration
}

// DefaultWaiter is the default retry wait policy. It uses a jittered
// exponential backoff formula with a base wait of 50 milliseconds and
// a maximum wait of 1 second.
var DefaultWaiter = NewExpWaiter(50*time.Millisecond, 1*time.Second, time.Now())

// NewFixedWaiter constructs a Waiter that always returns the given
// duration.
//
// Use NewFixedWaiter to obtain a constant retry backoff.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(Attempt) time.Duration {
	return time.Duration(w)
}

// NewExpWaiter constructs a Waiter implementing exponential backoff
// with optional jitter.
//
// The backoff ceiling for attempt n is base doubled n times, saturating
// at max, so base must be positive and max must be at least base. With
// jitter, the wait is drawn uniformly from [0, ceiling), the "Full
// Jitter" approach described in:
// https://aws.amazon.com/blogs/architecture/exponential-backoff-and-jitter.
//
// Pass nil for jitter to wait the full ceiling every time. Otherwise
// jitter may be a random number generator seed (a time.Time, int, or
// int64) or a random number generator itself (a rand.Source or
// *rand.Rand).
func NewExpWaiter(base, max time.Duration, jitter interface{}) Waiter {
	if base < 1 {
		panic("httpq/retry: base must be positive")
	}
	if max < base {
		panic("httpq/retry: max must be at least base")
	}
	return &expWaiter{
		base:   base,
		max:    max,
		jitter: newJitter(jitter),
	}
}

type expWaiter struct {
	base   time.Duration
	max    time.Duration
	mu     sync.Mutex // serializes jitter, which is not concurrency-safe
	jitter *rand.Rand // nil means no jitter: Wait returns the ceiling
}

func (w *expWaiter) Wait(a Attempt) time.Duration {
	c := w.ceiling(a.N)
	if w.jitter == nil || c <= 0 {
		return c
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return time.Duration(w.jitter.Int63n(int64(c)))
}

// ceiling doubles base n times, saturating at max.
func (w *expWaiter) ceiling(n int) time.Duration {
	c := w.base
	for ; n > 0 && c < w.max; n-- {
		c <<= 1
		if c <= 0 {
			// Doubling overflowed time.Duration.
			return w.max
		}
	}
	if c > w.max {
		c = w.max
	}
	return c
}

func newJitter(jitter interface{}) *rand.Rand {
	switch j := jitter.(type) {
	case nil:
		return nil
	case *rand.Rand:
		if j == nil {
			panic("httpq/retry: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		return rand.New(j)
	case time.Time:
		return rand.New(rand.NewSource(j.UnixNano()))
	case int:
		return rand.New(rand.NewSource(int64(j)))
	case int64:
		return rand.New(rand.NewSource(j))
	default:
		panic("httpq/retry: invalid jitter type")
	}
}
