// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"sync"
)

// A Dispatcher delivers response handler callbacks on behalf of an
// executing task. Which goroutine the callback runs on is entirely the
// dispatcher's choice, making callback-delivery confinement an
// explicit configuration point on the client instead of an implicit
// environmental assumption.
//
// Implementations must preserve per-task callback order: two callbacks
// dispatched in sequence by one task must be delivered in the same
// sequence.
type Dispatcher interface {
	Dispatch(fn func())
}

// Direct is the default dispatcher. It runs each callback inline on
// the goroutine that dispatched it, which for a task means the worker
// goroutine executing the request. Handlers that touch state confined
// to another goroutine must re-dispatch themselves, or the client
// should be configured with a Serial dispatcher instead.
var Direct Dispatcher = direct{}

type direct struct{}

func (direct) Dispatch(fn func()) {
	fn()
}

// Serial delivers callbacks one at a time, in FIFO order, on a single
// long-lived goroutine. It stands in for the "deliver on the UI
// thread" discipline of GUI environments: handlers observing callbacks
// from a Serial dispatcher never race each other, even when they serve
// many concurrent tasks.
//
// Dispatch never blocks the calling goroutine; the backlog is
// unbounded. Construct a Serial with NewSerial and release its
// goroutine with Close.
type Serial struct {
	mu      sync.Mutex
	wake    *sync.Cond
	backlog []func()
	closed  bool
	done    chan struct{}
}

// NewSerial constructs a Serial dispatcher and starts its delivery
// goroutine.
func NewSerial() *Serial {
	s := &Serial{
		done: make(chan struct{}),
	}
	s.wake = sync.NewCond(&s.mu)
	go s.deliver()
	return s
}

// Dispatch enqueues fn for delivery. If the dispatcher has been
// closed, fn runs inline on the calling goroutine instead, so tasks
// finishing around client shutdown still complete their callback
// contract.
func (s *Serial) Dispatch(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		fn()
		return
	}
	s.backlog = append(s.backlog, fn)
	s.mu.Unlock()
	s.wake.Signal()
}

// Close drains the backlog, stops the delivery goroutine, and waits
// for it to exit. It is idempotent. After Close, Dispatch degrades to
// inline delivery.
func (s *Serial) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.wake.Signal()
	<-s.done
}

func (s *Serial) deliver() {
	defer close(s.done)
	for {
		s.mu.Lock()
		for len(s.backlog) == 0 && !s.closed {
			s.wake.Wait()
		}
		if len(s.backlog) == 0 && s.closed {
			s.mu.Unlock()
			return
		}
		fn := s.backlog[0]
		s.backlog = s.backlog[1:]
		s.mu.Unlock()

		fn()
	}
}
