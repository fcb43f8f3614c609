// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpq

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandle(t *testing.T) {
	h := newHandle(context.Background())

	assert.NotEqual(t, uuid.Nil, h.ID())
	assert.Equal(t, Pending, h.State())
	assert.NoError(t, h.ctx.Err())
	select {
	case <-h.Done():
		t.Fatal("done channel closed on a pending handle")
	default:
	}
}

func TestHandle_ID_Unique(t *testing.T) {
	a := newHandle(context.Background())
	b := newHandle(context.Background())

	assert.NotEqual(t, a.ID(), b.ID())
}

func TestHandle_Cancel(t *testing.T) {
	t.Run("pending", func(t *testing.T) {
		h := newHandle(context.Background())

		assert.True(t, h.Cancel(false))
		assert.Equal(t, Cancelled, h.State())
		assert.Error(t, h.ctx.Err())
		assert.False(t, h.Cancel(false), "second cancel must report no effect")
		assert.False(t, h.begin(), "a cancelled task must not begin")
	})
	t.Run("running without interrupt", func(t *testing.T) {
		h := newHandle(context.Background())
		require.True(t, h.begin())

		assert.False(t, h.Cancel(false))
		assert.Equal(t, Running, h.State())
		assert.False(t, h.interrupted())
		assert.NoError(t, h.ctx.Err())
	})
	t.Run("running with interrupt", func(t *testing.T) {
		h := newHandle(context.Background())
		require.True(t, h.begin())

		assert.True(t, h.Cancel(true))
		assert.Equal(t, Running, h.State())
		assert.True(t, h.interrupted())
		assert.Error(t, h.ctx.Err())
	})
	t.Run("terminal", func(t *testing.T) {
		h := newHandle(context.Background())
		require.True(t, h.begin())
		h.finalize(Completed)

		assert.False(t, h.Cancel(false))
		assert.False(t, h.Cancel(true))
		assert.Equal(t, Completed, h.State())
	})
}

func TestHandle_Finalize(t *testing.T) {
	t.Run("from running", func(t *testing.T) {
		for _, to := range []State{Completed, Failed, Cancelled} {
			t.Run(to.Name(), func(t *testing.T) {
				h := newHandle(context.Background())
				var hooked int
				h.onTerminal = func(g *Handle) {
					hooked++
					assert.Same(t, h, g)
				}
				require.True(t, h.begin())

				h.finalize(to)

				assert.Equal(t, to, h.State())
				assert.Equal(t, 1, hooked)
				select {
				case <-h.Done():
				default:
					t.Fatal("done channel not closed after finalize")
				}
			})
		}
	})
	t.Run("after pre-start cancel", func(t *testing.T) {
		h := newHandle(context.Background())
		var hooked int
		h.onTerminal = func(*Handle) { hooked++ }
		require.True(t, h.Cancel(false))
		require.False(t, h.begin())

		h.finalize(Cancelled)

		assert.Equal(t, Cancelled, h.State())
		assert.Equal(t, 1, hooked)
		select {
		case <-h.Done():
		default:
			t.Fatal("done channel not closed after finalize")
		}
	})
	t.Run("impossible transition", func(t *testing.T) {
		h := newHandle(context.Background())

		assert.PanicsWithValue(t, "httpq: impossible terminal transition from Pending", func() {
			h.finalize(Completed)
		})
	})
}

func TestHandle_ContextDerivation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	h := newHandle(parent)

	require.NoError(t, h.ctx.Err())
	cancel()
	assert.Error(t, h.ctx.Err())
}
