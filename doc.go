// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package httpq provides an asynchronous HTTP client which executes
requests on a background worker pool and reports their lifecycle to a
handler through callbacks.

Create a Client, then submit requests with the verb methods. Each
submission returns immediately with a Handle; the outcome arrives at
the Handler.

	client := httpq.New()
	defer client.Shutdown()

	h, err := client.Get(owner, "https://www.example.com", nil,
		&httpq.HandlerFuncs{
			Success: func(status int, header http.Header, body []byte) {
				log.Printf("got %d: %d bytes", status, len(body))
			},
			Failure: func(status int, header http.Header, body []byte, err error) {
				log.Printf("failed: %v", err)
			},
		})

Every submitted request receives OnStart, then exactly one of
OnSuccess, OnFailure, or OnCancel, then OnFinish. OnProgress and
OnRetry may arrive between OnStart and the terminal callback. See
Handler for the full contract.

The owner argument to each verb groups requests for bulk cancellation.
Pass any comparable value that identifies the requesting component, and
cancel everything it has outstanding in one call:

	client.CancelRequests(owner, true)

Requests cancelled before a worker picks them up never touch the
network; they still receive OnCancel and OnFinish.

For control over retry decisions and timing, build a policy from
components in package retry:

	client := httpq.New(httpq.WithRetryPolicy(retry.DefaultPolicy))

For control over worker concurrency, provide a pool from package pool:

	client := httpq.New(httpq.WithPool(pool.NewBounded(8, 64)))

By default callbacks run directly on worker goroutines. To serialize
them onto a single goroutine, as UI event loops usually require, use a
dispatcher from package dispatch:

	d := dispatch.NewSerial()
	defer d.Close()
	client := httpq.New(httpq.WithDispatcher(d))

For control over how requests travel to the server, implement Transport
or configure the default NetTransport.
*/
package httpq
