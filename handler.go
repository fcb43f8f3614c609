// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpq

import (
	"net/http"
)

// A Handler receives the lifecycle callbacks for one asynchronous
// request task. The caller supplies the Handler; the executing task
// invokes it.
//
// For every task, the callback sequence is:
//
//	OnStart
//	(OnProgress and OnRetry, zero or more times, in any interleaving)
//	exactly one of OnSuccess, OnFailure, or OnCancel
//	OnFinish
//
// with one exception: a task cancelled before it starts executing
// skips OnStart and delivers only OnCancel followed by OnFinish.
// OnFinish always runs, whatever the outcome.
//
// Callbacks are delivered through the client's dispatch.Dispatcher.
// With the default Direct dispatcher they run on the worker goroutine
// executing the request, so a Handler shared between tasks must be
// safe for concurrent use, and a Handler mutating goroutine-confined
// state needs a Serial dispatcher installed on the client.
//
// Embed BaseHandler to implement only the callbacks you care about.
type Handler interface {
	// OnStart is invoked once, before the first transport attempt.
	OnStart()

	// OnSuccess is invoked when a transport attempt produced a
	// complete response. The body has already been read, buffered, and
	// decoded: if the server gzip-compressed it, the bytes here are
	// the decompressed content.
	OnSuccess(statusCode int, header http.Header, body []byte)

	// OnFailure is invoked when the task gives up: the last attempt
	// ended in a transport error, or the response body could not be
	// fully read. The statusCode, header, and body arguments carry
	// whatever partial response was available, which may be 0, nil,
	// and nil.
	OnFailure(statusCode int, header http.Header, body []byte, err error)

	// OnProgress reports response body consumption. read is the number
	// of body bytes consumed so far; total is the expected total, or
	// -1 if unknown (always -1 for compressed bodies, whose decoded
	// size cannot be known in advance).
	OnProgress(read, total int64)

	// OnRetry is invoked before retry attempt n (one-based), after the
	// retry policy accepted the previous failure and the wait period
	// elapsed.
	OnRetry(n int)

	// OnCancel is invoked instead of OnSuccess/OnFailure when the task
	// was cancelled, whether before it started executing or while it
	// was blocked in the transport.
	OnCancel()

	// OnFinish is invoked last, exactly once, regardless of outcome.
	OnFinish()
}

// BaseHandler is a Handler whose callbacks all do nothing. Embed it to
// implement only the callbacks of interest:
//
//	type printHandler struct {
//		httpq.BaseHandler
//	}
//
//	func (printHandler) OnSuccess(status int, _ http.Header, body []byte) {
//		fmt.Println(status, len(body))
//	}
type BaseHandler struct{}

func (BaseHandler) OnStart()                                       {}
func (BaseHandler) OnSuccess(int, http.Header, []byte)             {}
func (BaseHandler) OnFailure(int, http.Header, []byte, error)      {}
func (BaseHandler) OnProgress(int64, int64)                        {}
func (BaseHandler) OnRetry(int)                                    {}
func (BaseHandler) OnCancel()                                      {}
func (BaseHandler) OnFinish()                                      {}

// HandlerFuncs adapts ordinary functions to the Handler interface.
// Any nil field is a no-op. It is convenient for one-off handlers:
//
//	h := &httpq.HandlerFuncs{
//		Success: func(status int, _ http.Header, body []byte) {
//			results <- body
//		},
//	}
type HandlerFuncs struct {
	Start    func()
	Success  func(statusCode int, header http.Header, body []byte)
	Failure  func(statusCode int, header http.Header, body []byte, err error)
	Progress func(read, total int64)
	Retry    func(n int)
	Cancel   func()
	Finish   func()
}

func (h *HandlerFuncs) OnStart() {
	if h.Start != nil {
		h.Start()
	}
}

func (h *HandlerFuncs) OnSuccess(statusCode int, header http.Header, body []byte) {
	if h.Success != nil {
		h.Success(statusCode, header, body)
	}
}

func (h *HandlerFuncs) OnFailure(statusCode int, header http.Header, body []byte, err error) {
	if h.Failure != nil {
		h.Failure(statusCode, header, body, err)
	}
}

func (h *HandlerFuncs) OnProgress(read, total int64) {
	if h.Progress != nil {
		h.Progress(read, total)
	}
}

func (h *HandlerFuncs) OnRetry(n int) {
	if h.Retry != nil {
		h.Retry(n)
	}
}

func (h *HandlerFuncs) OnCancel() {
	if h.Cancel != nil {
		h.Cancel()
	}
}

func (h *HandlerFuncs) OnFinish() {
	if h.Finish != nil {
		h.Finish()
	}
}
