// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fault

import (
	"context"
	"errors"
	"syscall"
)

// A Kind is the classification of a transport error, as reported by
// function Classify.
//
// Apart from Unknown and Canceled, every kind describes a failure that
// is transient from the perspective of completing an HTTP request
// attempt successfully, or in other words a failure where a retry has
// some prospect of success.
type Kind int

const (
	// Unknown indicates an error that does not fall into any of the
	// other kinds. Retrying after an Unknown error is unlikely to
	// succeed.
	Unknown Kind = iota
	// Canceled indicates the attempt was abandoned because its context
	// was canceled, typically because the caller cancelled the task or
	// a batch of tasks. A Canceled error is not a failure of the
	// remote service and is never worth retrying.
	//
	// Function Classify returns Canceled if the error or any of its
	// wrapped causes is context.Canceled.
	Canceled
	// Timeout indicates a client-side timeout. The server may be going
	// through a temporary period of slowness, or the client may
	// succeed on a future attempt waiting longer.
	//
	// Function Classify returns Timeout if the error or any of its
	// wrapped causes has a Timeout() function that reports true, or is
	// context.DeadlineExceeded.
	Timeout
	// ConnRefused indicates the remote host refused the connection,
	// and corresponds to the POSIX error code ECONNREFUSED.
	//
	// Although connection refusal may be a permanent condition, it is
	// classified as transient because it can happen while the service
	// on the remote host is starting or restarting and not yet
	// listening on the port.
	ConnRefused
	// ConnReset indicates the remote host returned an RST packet on a
	// previously active TCP connection, and corresponds to the POSIX
	// error code ECONNRESET.
	//
	// Connection reset is not uncommon if a service on the remote host
	// comes down while still responding to a request, or where the
	// remote host is a load balancer, so it tends to indicate a high
	// probability of success on retry.
	ConnReset

	kindSentinel

	numKinds = int(kindSentinel)
)

var kindNames = []string{
	"Unknown",
	"Canceled",
	"Timeout",
	"ConnRefused",
	"ConnReset",
}

// Name returns the name of the kind.
func (k Kind) Name() string {
	return kindNames[int(k)]
}

// String returns the name of the kind.
func (k Kind) String() string {
	return k.Name()
}

// Transient reports whether the kind describes a failure worth
// retrying.
func (k Kind) Transient() bool {
	switch k {
	case Timeout, ConnRefused, ConnReset:
		return true
	default:
		return false
	}
}

// Kinds returns a slice containing every kind Classify can report.
func Kinds() []Kind {
	ks := make([]Kind, numKinds)
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}

// Classify returns the kind of the given transport error. A nil error
// produces Unknown.
//
// In assessing the error, Classify looks at wrapped cause errors
// contained within err, not just err itself. Cancellation wins over
// timeout: an error that is context.Canceled is reported as Canceled
// even if it also carries a Timeout() method.
//
// Classify never checks whether an error has a Temporary() function
// that returns true, as the semantics of Temporary() aren't entirely
// clear.
func Classify(err error) Kind {
	if err == nil {
		return Unknown
	}

	if errors.Is(err, context.Canceled) {
		return Canceled
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ECONNRESET {
			return ConnReset
		} else if errno == syscall.ECONNREFUSED {
			return ConnRefused
		}
	}

	return Unknown
}

type hasTimeout interface {
	Timeout() bool
}
