// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpq

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gogama/httpq/dispatch"
	"github.com/gogama/httpq/fault"
	"github.com/gogama/httpq/request"
	"github.com/gogama/httpq/retry"
)

// progressChunk is the read granularity for response bodies, and
// therefore the granularity of OnProgress callbacks.
const progressChunk = 8 * 1024

// A task executes one prepared request on a worker goroutine and
// drives the handler callback contract. Everything a task needs is
// captured at submission time, so later mutation of the client's
// session configuration cannot retroactively affect it.
type task struct {
	transport   Transport
	req         *request.Request
	handler     Handler
	handle      *Handle
	dispatcher  dispatch.Dispatcher
	retryPolicy retry.Policy
	timeout     time.Duration
	logger      *slog.Logger
}

// run executes the task. It runs exactly once, converts every outcome
// into exactly one terminal callback, and never lets a handler panic
// escape to the worker.
func (t *task) run() {
	if !t.handle.begin() {
		// Cancelled before reaching this worker. The transport is
		// never invoked.
		t.dispatch("OnCancel", t.handler.OnCancel)
		t.dispatch("OnFinish", t.handler.OnFinish)
		t.handle.finalize(Cancelled)
		return
	}

	t.dispatch("OnStart", t.handler.OnStart)

	start := time.Now()
	var terminal State
	for n := 0; ; n++ {
		status, header, body, err := t.attempt()

		if t.cancelled(err) {
			t.dispatch("OnCancel", t.handler.OnCancel)
			terminal = Cancelled
			break
		}

		// The retry policy sees every attempt outcome: a retryable
		// status code is grounds to retry even though the transport
		// reported no error.
		a := retry.Attempt{N: n, StatusCode: status, Err: err, Start: start}
		if t.retryPolicy != nil && t.retryPolicy.Decide(a) {
			if !t.await(t.retryPolicy.Wait(a)) {
				// Wait aborted. Usually a cancellation; a caller
				// context hitting its deadline mid-wait fails with
				// the context's error instead.
				if err == nil {
					err = t.handle.ctx.Err()
				}
				if t.cancelled(err) {
					t.dispatch("OnCancel", t.handler.OnCancel)
					terminal = Cancelled
				} else {
					t.dispatch("OnFailure", func() { t.handler.OnFailure(status, header, body, err) })
					terminal = Failed
				}
				break
			}
			next := n + 1
			t.dispatch("OnRetry", func() { t.handler.OnRetry(next) })
			continue
		}

		if err == nil {
			t.dispatch("OnSuccess", func() { t.handler.OnSuccess(status, header, body) })
			terminal = Completed
			break
		}

		t.dispatch("OnFailure", func() { t.handler.OnFailure(status, header, body, err) })
		terminal = Failed
		break
	}

	t.dispatch("OnFinish", t.handler.OnFinish)
	t.handle.finalize(terminal)
}

// attempt makes one transport round trip and buffers the (decoded)
// response body. On a body read error, the partial status, header, and
// body read so far are returned along with the error.
func (t *task) attempt() (status int, header http.Header, body []byte, err error) {
	ctx := t.handle.ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	resp, err := t.transport.RoundTrip(ctx, t.req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	status = resp.StatusCode
	header = resp.Header
	body, err = t.readBody(resp)
	return status, header, body, err
}

// readBody consumes the response body, reporting progress chunk by
// chunk and transparently decompressing gzip content. Handlers must
// never see compressed bytes; that is part of the callback contract,
// not an optimization.
func (t *task) readBody(resp *request.Response) ([]byte, error) {
	src := io.Reader(resp.Body)
	total := resp.ContentLength
	if strings.EqualFold(resp.ContentEncoding(), "gzip") {
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = zr.Close()
		}()
		src = zr
		// The decoded length of a compressed body is unknown until
		// the stream ends.
		total = -1
	}

	var buf bytes.Buffer
	chunk := make([]byte, progressChunk)
	var read int64
	for {
		n, err := src.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			read += int64(n)
			r := read
			t.dispatch("OnProgress", func() { t.handler.OnProgress(r, total) })
		}
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return buf.Bytes(), err
		}
	}
}

// cancelled reports whether the task should resolve to OnCancel:
// either an interrupt was requested on the handle, or err (when
// non-nil) classifies as a cancellation, which also covers the
// caller's request context being cancelled.
func (t *task) cancelled(err error) bool {
	if t.handle.interrupted() {
		return true
	}
	if err != nil && fault.Classify(err) == fault.Canceled {
		return true
	}
	return t.req.Context().Err() == context.Canceled
}

// await sleeps for the retry wait period. It returns false if the task
// was cancelled while waiting, in which case a retry must not be made.
func (t *task) await(d time.Duration) bool {
	if d <= 0 {
		return t.handle.ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-t.handle.ctx.Done():
		return false
	}
}

// dispatch delivers one handler callback through the configured
// dispatcher, converting a panicking handler into a log line so the
// remainder of the callback sequence, OnFinish included, still runs.
func (t *task) dispatch(name string, fn func()) {
	t.dispatcher.Dispatch(func() {
		defer func() {
			if r := recover(); r != nil {
				t.logger.Error("httpq: response handler panicked",
					"callback", name,
					"handle", t.handle.ID(),
					"url", t.req.URL.String(),
					"panic", r)
			}
		}()
		fn()
	})
}
