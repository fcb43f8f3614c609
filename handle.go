// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpq

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// A Handle is a cancellable, observable reference to one submitted
// request task. The client returns a Handle synchronously from every
// submission; the task itself resolves asynchronously.
//
// A Handle is safe for concurrent use by multiple goroutines. It holds
// no reference to the owner it may have been tracked under, and
// outliving it costs one small struct: once terminal, a handle is
// inert.
type Handle struct {
	id uuid.UUID

	state     atomic.Int32
	interrupt atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	// onTerminal, when set, runs exactly once on the terminal
	// transition, before done is closed. The client uses it to drop
	// the handle from the owner registry.
	onTerminal func(h *Handle)
}

func newHandle(ctx context.Context) *Handle {
	hctx, cancel := context.WithCancel(ctx)
	return &Handle{
		id:     uuid.New(),
		ctx:    hctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// ID returns the unique identifier of the handle.
func (h *Handle) ID() uuid.UUID {
	return h.id
}

// State returns the current lifecycle state of the task.
func (h *Handle) State() State {
	return State(h.state.Load())
}

// Done returns a channel that is closed when the task reaches a
// terminal state. With the default Direct dispatcher the OnFinish
// callback has returned by then; with an asynchronous dispatcher its
// delivery is enqueued but may still be in flight.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Cancel requests cancellation of the task. It returns true if the
// request was accepted, and false if it had no effect.
//
// Cancelling a Pending task is always accepted and guarantees the task
// never invokes the transport; the handler observes OnCancel followed
// by OnFinish. Cancelling a Running task is accepted only when
// interrupt is true, in which case the in-flight transport call is
// interrupted on a best-effort basis; the task may still complete
// normally if the response had already arrived. Cancelling a terminal
// task has no effect.
//
// Cancel never waits for the task to actually stop.
func (h *Handle) Cancel(interrupt bool) bool {
	for {
		s := State(h.state.Load())
		switch s {
		case Pending:
			if h.state.CompareAndSwap(int32(Pending), int32(Cancelled)) {
				h.cancel()
				return true
			}
		case Running:
			if !interrupt {
				return false
			}
			h.interrupt.Store(true)
			h.cancel()
			return true
		default:
			return false
		}
	}
}

// interrupted reports whether Cancel(true) was called while the task
// was running.
func (h *Handle) interrupted() bool {
	return h.interrupt.Load()
}

// begin moves the handle from Pending to Running. It returns false if
// the handle left Pending some other way, which can only mean a
// pre-start cancellation.
func (h *Handle) begin() bool {
	return h.state.CompareAndSwap(int32(Pending), int32(Running))
}

// finalize records the terminal state, runs the terminal hook, and
// closes the done channel. The executing task calls it exactly once.
// For a task cancelled before it began, the state is already Cancelled
// and only the hook and channel work remain.
func (h *Handle) finalize(to State) {
	if !h.state.CompareAndSwap(int32(Running), int32(to)) {
		if !(to == Cancelled && State(h.state.Load()) == Cancelled) {
			panic("httpq: impossible terminal transition from " + h.State().Name())
		}
	}
	h.cancel()
	if h.onTerminal != nil {
		h.onTerminal(h)
	}
	close(h.done)
}
