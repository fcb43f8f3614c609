// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fault

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, Unknown, Classify(nil))
	assert.Equal(t, Unknown, Classify(errors.New("foo")))
	assert.Equal(t, Unknown, Classify(wrapper{}))
	assert.Equal(t, Unknown, Classify(wrapper{errors.New("bar")}))
	assert.Equal(t, Canceled, Classify(context.Canceled))
	assert.Equal(t, Canceled, Classify(wrapper{context.Canceled}))
	assert.Equal(t, Canceled, Classify(&url.Error{Err: context.Canceled}))
	assert.Equal(t, Timeout, Classify(context.DeadlineExceeded))
	assert.Equal(t, Timeout, Classify(syscall.ETIMEDOUT))
	assert.Equal(t, Timeout, Classify(timeout{}))
	assert.Equal(t, Timeout, Classify(&url.Error{Err: syscall.ETIMEDOUT}))
	assert.Equal(t, Timeout, Classify(wrapper{&url.Error{Err: timeout{}}}))
	assert.Equal(t, Timeout, Classify(timeoutWrapper{true, syscall.ECONNRESET}))
	assert.Equal(t, ConnReset, Classify(syscall.ECONNRESET))
	assert.Equal(t, ConnReset, Classify(wrapper{syscall.ECONNRESET}))
	assert.Equal(t, ConnReset, Classify(timeoutWrapper{false, syscall.ECONNRESET}))
	assert.Equal(t, ConnRefused, Classify(syscall.ECONNREFUSED))
	assert.Equal(t, ConnRefused, Classify(&url.Error{Err: wrapper{timeoutWrapper{false, syscall.ECONNREFUSED}}}))
}

func TestCancellationWinsOverTimeout(t *testing.T) {
	// A cancelled attempt often surfaces as an error that claims to be
	// a timeout as well. The caller's intent matters more.
	err := timeoutWrapper{true, context.Canceled}
	assert.Equal(t, Canceled, Classify(err))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "Unknown", Unknown.String())
	assert.Equal(t, "Canceled", Canceled.Name())
	assert.Equal(t, "Timeout", Timeout.String())
	assert.Equal(t, "ConnRefused", ConnRefused.String())
	assert.Equal(t, "ConnReset", ConnReset.String())
	assert.Len(t, Kinds(), numKinds)
	for i, k := range Kinds() {
		assert.Equal(t, Kind(i), k)
	}
}

func TestTransient(t *testing.T) {
	assert.False(t, Unknown.Transient())
	assert.False(t, Canceled.Transient())
	assert.True(t, Timeout.Transient())
	assert.True(t, ConnRefused.Transient())
	assert.True(t, ConnReset.Transient())
}

type timeout struct{}

func (err timeout) Error() string {
	return "timeout"
}

func (timeout) Timeout() bool {
	return true
}

type wrapper struct {
	wrappedError error
}

func (err wrapper) Error() string {
	return fmt.Sprintf("wrapper - wraps %v", err.wrappedError)
}

func (err wrapper) Unwrap() error {
	return err.wrappedError
}

type timeoutWrapper struct {
	timeout      bool
	wrappedError error
}

func (err timeoutWrapper) Error() string {
	return fmt.Sprintf("timeoutWrapper - timeout %t, wraps %v", err.timeout, err.wrappedError)
}

func (err timeoutWrapper) Timeout() bool {
	return err.timeout
}

func (err timeoutWrapper) Unwrap() error {
	return err.wrappedError
}
