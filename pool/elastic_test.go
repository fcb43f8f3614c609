// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package pool

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElastic(t *testing.T) {
	t.Run("runs work", testElasticRunsWork)
	t.Run("concurrent burst", testElasticConcurrentBurst)
	t.Run("reuses idle worker", testElasticReusesIdleWorker)
	t.Run("shrinks when idle", testElasticShrinks)
	t.Run("submit after shutdown", testElasticSubmitAfterShutdown)
	t.Run("shutdown idempotent", testElasticShutdownIdempotent)
	t.Run("nil work panics", testElasticNilWork)
}

func testElasticRunsWork(t *testing.T) {
	t.Parallel()
	p := NewElastic(0)
	defer p.Shutdown()

	done := make(chan struct{})
	require.NoError(t, p.Submit(func() { close(done) }))
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("submitted work never ran")
	}
}

func testElasticConcurrentBurst(t *testing.T) {
	t.Parallel()
	p := NewElastic(time.Minute)
	defer p.Shutdown()

	// Submit n blocking tasks: since the pool grows by one worker per
	// submission without an idle worker, all n must run concurrently.
	const n = 32
	var started sync.WaitGroup
	started.Add(n)
	release := make(chan struct{})
	for i := 0; i < n; i++ {
		require.NoError(t, p.Submit(func() {
			started.Done()
			<-release
		}))
	}

	allStarted := make(chan struct{})
	go func() {
		started.Wait()
		close(allStarted)
	}()
	select {
	case <-allStarted:
	case <-time.After(5 * time.Second):
		t.Fatal("burst of submissions did not all run concurrently")
	}
	close(release)
}

func testElasticReusesIdleWorker(t *testing.T) {
	t.Parallel()
	p := NewElastic(time.Minute)
	defer p.Shutdown()

	for i := 0; i < 10; i++ {
		done := make(chan struct{})
		require.NoError(t, p.Submit(func() { close(done) }))
		<-done
	}

	// Sequential submissions hand off to the single parked worker
	// instead of growing the pool.
	p.mu.Lock()
	idle := p.idle
	p.mu.Unlock()
	assert.Equal(t, 1, idle)
}

func testElasticShrinks(t *testing.T) {
	t.Parallel()
	p := NewElastic(20 * time.Millisecond)
	defer p.Shutdown()

	done := make(chan struct{})
	require.NoError(t, p.Submit(func() { close(done) }))
	<-done

	assert.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.idle == 0
	}, 5*time.Second, 10*time.Millisecond, "idle worker never retired")
}

func testElasticSubmitAfterShutdown(t *testing.T) {
	t.Parallel()
	p := NewElastic(0)
	p.Shutdown()

	err := p.Submit(func() { t.Error("work ran after shutdown") })
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTerminated))
	var schedErr *SchedulingError
	require.True(t, errors.As(err, &schedErr))
	assert.Equal(t, ErrTerminated, schedErr.Err)
}

func testElasticShutdownIdempotent(t *testing.T) {
	t.Parallel()
	p := NewElastic(0)
	done := make(chan struct{})
	require.NoError(t, p.Submit(func() { close(done) }))
	<-done
	p.Shutdown()
	p.Shutdown()
}

func testElasticNilWork(t *testing.T) {
	t.Parallel()
	p := NewElastic(0)
	defer p.Shutdown()
	assert.PanicsWithValue(t, "httpq/pool: nil work", func() {
		_ = p.Submit(nil)
	})
}

func TestElasticShutdownWaitsForAcceptedWork(t *testing.T) {
	t.Parallel()
	p := NewElastic(0)

	var ran bool
	started := make(chan struct{})
	require.NoError(t, p.Submit(func() {
		close(started)
		time.Sleep(50 * time.Millisecond)
		ran = true
	}))
	<-started
	p.Shutdown()
	assert.True(t, ran, "Shutdown returned before accepted work finished")
}
