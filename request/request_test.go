// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("empty method means GET", func(t *testing.T) {
		r, err := New("", "http://example.com", nil)
		require.NoError(t, err)
		assert.Equal(t, "GET", r.Method)
	})
	t.Run("invalid method", func(t *testing.T) {
		_, err := New("GET IT", "http://example.com", nil)
		assert.EqualError(t, err, `httpq/request: invalid method "GET IT"`)
	})
	t.Run("invalid URL", func(t *testing.T) {
		_, err := New("GET", "://nope", nil)
		assert.Error(t, err)
	})
	t.Run("empty port stripped", func(t *testing.T) {
		r, err := New("GET", "http://example.com:/x", nil)
		require.NoError(t, err)
		assert.Equal(t, "example.com", r.URL.Host)
		assert.Equal(t, "example.com", r.Host)
	})
	t.Run("body variants", func(t *testing.T) {
		r, err := New("POST", "http://example.com", "foo")
		require.NoError(t, err)
		assert.Equal(t, []byte("foo"), r.Body)

		r, err = New("POST", "http://example.com", strings.NewReader("bar"))
		require.NoError(t, err)
		assert.Equal(t, []byte("bar"), r.Body)

		_, err = New("POST", "http://example.com", 123)
		assert.Error(t, err)
	})
}

func TestNewWithContext(t *testing.T) {
	t.Run("nil context", func(t *testing.T) {
		_, err := NewWithContext(nil, "GET", "http://example.com", nil) //nolint:staticcheck
		assert.EqualError(t, err, "httpq/request: nil context")
	})
	t.Run("context carried", func(t *testing.T) {
		type key struct{}
		ctx := context.WithValue(context.Background(), key{}, "v")
		r, err := NewWithContext(ctx, "GET", "http://example.com", nil)
		require.NoError(t, err)
		assert.Equal(t, "v", r.Context().Value(key{}))
	})
	t.Run("default context", func(t *testing.T) {
		r := &Request{}
		assert.Equal(t, context.Background(), r.Context())
	})
}

func TestWithContext(t *testing.T) {
	r, err := New("GET", "http://example.com", nil)
	require.NoError(t, err)
	t.Run("nil panics", func(t *testing.T) {
		assert.PanicsWithValue(t, "httpq/request: nil context", func() {
			r.WithContext(nil) //nolint:staticcheck
		})
	})
	t.Run("shallow copy", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		r2 := r.WithContext(ctx)
		assert.NotSame(t, r, r2)
		assert.Same(t, r.URL, r2.URL)
		assert.Same(t, ctx, r2.Context())
	})
}

func TestAddCookie(t *testing.T) {
	r, err := New("GET", "http://example.com", nil)
	require.NoError(t, err)
	r.AddCookie(&http.Cookie{Name: "a", Value: "1"})
	assert.Equal(t, "a=1", r.Header.Get("Cookie"))
	r.AddCookie(&http.Cookie{Name: "b", Value: "2"})
	assert.Equal(t, "a=1; b=2", r.Header.Get("Cookie"))
}

func TestSetBasicAuth(t *testing.T) {
	r, err := New("GET", "http://example.com", nil)
	require.NoError(t, err)
	r.SetBasicAuth("user", "pass")
	expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("user:pass"))
	assert.Equal(t, expected, r.Header.Get("Authorization"))
}

func TestToHTTP(t *testing.T) {
	t.Run("no body", func(t *testing.T) {
		r, err := New("GET", "http://example.com/a", nil)
		require.NoError(t, err)
		hr, err := r.ToHTTP(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "GET", hr.Method)
		assert.Equal(t, "http://example.com/a", hr.URL.String())
		assert.Nil(t, hr.Body)
	})
	t.Run("body and headers", func(t *testing.T) {
		r, err := New("POST", "http://example.com/a", "payload")
		require.NoError(t, err)
		r.Header.Set("X-Test", "1")
		hr, err := r.ToHTTP(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(7), hr.ContentLength)
		assert.Equal(t, "1", hr.Header.Get("X-Test"))
		require.NotNil(t, hr.GetBody)
		// Header is cloned so mutating the attempt does not leak back
		// into the prepared request.
		hr.Header.Set("X-Test", "2")
		assert.Equal(t, "1", r.Header.Get("X-Test"))
	})
	t.Run("context attached", func(t *testing.T) {
		r, err := New("GET", "http://example.com", nil)
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		hr, err := r.ToHTTP(ctx)
		require.NoError(t, err)
		assert.Same(t, ctx, hr.Context())
	})
}

func TestBodyBytes(t *testing.T) {
	b, err := BodyBytes(nil)
	assert.NoError(t, err)
	assert.Nil(t, b)

	in := []byte{1, 2, 3}
	b, err = BodyBytes(in)
	assert.NoError(t, err)
	assert.Equal(t, in, b)

	b, err = BodyBytes("str")
	assert.NoError(t, err)
	assert.Equal(t, []byte("str"), b)

	b, err = BodyBytes(strings.NewReader("rdr"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("rdr"), b)

	_, err = BodyBytes(3.14)
	assert.EqualError(t, err, badBodyTypeMsg)
}
