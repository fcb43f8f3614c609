// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package fault classifies transport errors from HTTP request
// execution into a small taxonomy of kinds: cancellation, timeout,
// connection refusal, connection reset, or unknown. This is handy for
// writing retry policies, for distinguishing a cancelled task from a
// failed one, and for other purposes such as bucketing error metrics.
//
// Package fault is extremely lightweight, as it depends only on the
// standard library packages "context", "errors", and "syscall", so it
// doesn't bring any significant dependencies when imported as a
// standalone package.
package fault
