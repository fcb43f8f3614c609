// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry defines the interfaces and built-in implementations
// used to decide whether an asynchronous task should retry a failed
// HTTP request attempt (Decider), and how long it should wait before
// retrying (Waiter).
//
// A client does not retry unless a retry policy is installed on it.
// When one is, the executing task fires the handler's OnRetry callback
// before each retry attempt, and the wait period between attempts is
// abandoned immediately if the task is cancelled.
//
// Construct a policy from the built-in pieces:
//
//	decider := retry.Times(3).And(retry.StatusCode(503).Or(retry.TransientErr))
//	waiter := retry.NewExpWaiter(250*time.Millisecond, 5*time.Second, time.Now())
//	policy := retry.NewPolicy(decider, waiter)
//
// or use retry.DefaultPolicy, which retries transient transport errors
// and common throttling/gateway status codes up to five times with
// jittered exponential backoff.
package retry
