// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"
)

// An Attempt summarizes the state of an asynchronous task after one
// HTTP request attempt, for consumption by retry deciders and waiters.
type Attempt struct {
	// N is the zero-based number of the attempt: zero for the initial
	// attempt, one for the first retry, and so on.
	N int

	// StatusCode is the HTTP status code received in the attempt, or
	// zero if the attempt ended in a transport error before a status
	// line was received.
	StatusCode int

	// Err is the transport or body-read error which ended the attempt,
	// or nil if the attempt produced a complete response.
	Err error

	// Start is the time the task started executing, before the initial
	// attempt. It is the same value for every attempt of one task.
	Start time.Time
}

// Duration returns the time elapsed since the task started executing.
func (a Attempt) Duration() time.Duration {
	return time.Since(a.Start)
}

// A Policy controls if and how a task retries failed HTTP request
// attempts. After every failed attempt, the policy decides whether a
// retry should be done and, if so, how long the wait period should be
// before retrying.
//
// Implementations of Policy must be safe for concurrent use by
// multiple goroutines.
//
// A Policy is composed of the Decider and Waiter interfaces. While you
// can implement Policy yourself, it may be more convenient to construct
// your policy with the NewPolicy constructor using existing Decider and
// Waiter implementations.
type Policy interface {
	Decider
	Waiter
}

// DefaultPolicy is a general-purpose retry policy suitable for common
// use cases. It is a composition of DefaultDecider for retry decisions
// and DefaultWaiter for wait time calculations.
var DefaultPolicy Policy = policy{DefaultDecider, DefaultWaiter}

// Never is a policy that never retries. It is the policy a client uses
// when none is configured, preserving the one-attempt-per-task
// behavior most callers expect from an asynchronous client.
var Never Policy = policy{Times(0), DefaultWaiter}

type policy struct {
	decider Decider
	waiter  Waiter
}

// NewPolicy composes a Decider and a Waiter into a retry Policy.
func NewPolicy(d Decider, w Waiter) Policy {
	return policy{decider: d, waiter: w}
}

func (p policy) Decide(a Attempt) bool {
	return p.decider.Decide(a)
}

func (p policy) Wait(a Attempt) time.Duration {
	return p.waiter.Wait(a)
}
