// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpq

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogama/httpq/request"
)

func TestNetTransport_RoundTrip(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		var gotMethod, gotAccept, gotFoo string
		s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotAccept = r.Header.Get("Accept-Encoding")
			gotFoo = r.Header.Get("X-Foo")
			w.Header().Set("X-Bar", "baz")
			w.WriteHeader(201)
			_, _ = w.Write([]byte("hello"))
		}))
		defer s.Close()
		tr := NewNetTransport()
		req, err := request.New(http.MethodGet, s.URL, nil)
		require.NoError(t, err)
		req.Header.Set("X-Foo", "quux")

		resp, err := tr.RoundTrip(context.Background(), req)

		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.MethodGet, gotMethod)
		assert.Equal(t, "gzip", gotAccept, "transport must offer gzip when the request does not")
		assert.Equal(t, "quux", gotFoo)
		assert.Equal(t, 201, resp.StatusCode)
		assert.Equal(t, "baz", resp.Header.Get("X-Bar"))
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(body))
	})
	t.Run("accept encoding preserved", func(t *testing.T) {
		var gotAccept string
		s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAccept = r.Header.Get("Accept-Encoding")
		}))
		defer s.Close()
		tr := NewNetTransport()
		req, err := request.New(http.MethodGet, s.URL, nil)
		require.NoError(t, err)
		req.Header.Set("Accept-Encoding", "identity")

		resp, err := tr.RoundTrip(context.Background(), req)

		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, "identity", gotAccept)
	})
	t.Run("body undecoded", func(t *testing.T) {
		s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = w.Write(gzipBytes(t, "inflate me"))
		}))
		defer s.Close()
		tr := NewNetTransport()
		req, err := request.New(http.MethodGet, s.URL, nil)
		require.NoError(t, err)

		resp, err := tr.RoundTrip(context.Background(), req)

		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, "gzip", resp.ContentEncoding())
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, gzipBytes(t, "inflate me"), raw, "transport must not decode the body itself")
	})
	t.Run("context cancellation", func(t *testing.T) {
		block := make(chan struct{})
		s := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			<-block
		}))
		defer s.Close()
		defer close(block)
		tr := NewNetTransport()
		req, err := request.New(http.MethodGet, s.URL, nil)
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = tr.RoundTrip(ctx, req)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNetTransport_ZeroValue(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer s.Close()
	tr := &NetTransport{}
	req, err := request.New(http.MethodGet, s.URL, nil)
	require.NoError(t, err)

	resp, err := tr.RoundTrip(context.Background(), req)

	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
	tr.CloseIdleConnections()
}

func TestNetTransport_SetCookieJar(t *testing.T) {
	n := 0
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch n {
		case 0:
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc123"})
		default:
			c, err := r.Cookie("session")
			if assert.NoError(t, err) {
				assert.Equal(t, "abc123", c.Value)
			}
		}
		n++
	}))
	defer s.Close()
	tr := NewNetTransport()
	tr.SetCookieJar(NewCookieJar())

	for i := 0; i < 2; i++ {
		req, err := request.New(http.MethodGet, s.URL, nil)
		require.NoError(t, err)
		resp, err := tr.RoundTrip(context.Background(), req)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	assert.Equal(t, 2, n)
}

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
