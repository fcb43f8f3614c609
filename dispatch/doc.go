// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package dispatch controls which goroutine delivers response handler
// callbacks.
//
// By default a client delivers callbacks directly on the worker
// goroutine that executed the request (dispatch.Direct). Callers whose
// handlers mutate goroutine-confined state, such as anything standing
// in for a UI thread, should install a Serial dispatcher on the client
// so every callback is delivered in FIFO order on one goroutine:
//
//	d := dispatch.NewSerial()
//	defer d.Close()
//	client := httpq.NewClient(httpq.WithDispatcher(d))
package dispatch
