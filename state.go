// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpq

// A State identifies where a submitted task is in its lifecycle, as
// reported by Handle.State.
//
// Tasks move strictly forward: Pending → Running → one of the three
// terminal states. A task cancelled before it reaches a worker skips
// Running and goes straight from Pending to Cancelled.
type State int32

const (
	// Pending identifies a task accepted by the pool but not yet
	// started on a worker goroutine.
	Pending State = iota
	// Running identifies a task currently executing: somewhere between
	// OnStart and its terminal callback.
	Running
	// Completed identifies a task that delivered OnSuccess.
	Completed
	// Failed identifies a task that delivered OnFailure.
	Failed
	// Cancelled identifies a task that delivered OnCancel, whether it
	// was cancelled before starting or interrupted mid-flight.
	Cancelled

	// stateSentinel provides the total number of states typed as a
	// State.
	stateSentinel

	// numStates provides the total number of states as an int.
	numStates = int(stateSentinel)
)

var stateNames = []string{
	"Pending",
	"Running",
	"Completed",
	"Failed",
	"Cancelled",
}

// States returns a slice containing all states a task handle can
// report, in lifecycle order.
func States() []State {
	return []State{
		Pending,
		Running,
		Completed,
		Failed,
		Cancelled,
	}
}

// Terminal reports whether the state is one of Completed, Failed, or
// Cancelled. A handle in a terminal state never changes state again.
func (s State) Terminal() bool {
	switch s {
	case Completed, Failed, Cancelled:
		return true
	default:
		return false
	}
}

// Name returns the name of the state.
func (s State) Name() string {
	return stateNames[int(s)]
}

// String returns the name of the state.
func (s State) String() string {
	return s.Name()
}
