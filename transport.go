// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpq

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"sync"

	"golang.org/x/net/publicsuffix"

	"github.com/gogama/httpq/request"
)

// NetTransport is the default Transport. It executes requests with a
// standard net/http client, with automatic response decompression
// disabled so that the executing task keeps sole responsibility for
// decoding the body.
//
// The zero value uses a private http.Client with default transport
// settings; set Client to customize connection pooling, TLS, proxies,
// or redirect policy.
type NetTransport struct {
	// Client specifies the underlying HTTP client. If Client is nil, a
	// lazily constructed client with DisableCompression set is used.
	Client *http.Client

	once     sync.Once
	fallback *http.Client
}

// NewNetTransport constructs a NetTransport with a dedicated
// http.Client configured for use with httpq.
func NewNetTransport() *NetTransport {
	return &NetTransport{Client: newHTTPClient()}
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:              http.ProxyFromEnvironment,
			ForceAttemptHTTP2:  true,
			MaxIdleConns:       100,
			DisableCompression: true,
		},
	}
}

// RoundTrip executes the prepared request and returns the raw
// response. The body stream is returned exactly as received; callers
// needing decoded bytes go through a client, whose task buffers and
// decodes the stream.
//
// If the request carries no Accept-Encoding header, RoundTrip offers
// gzip, matching the behavior the standard client exhibits when
// automatic decompression is on.
func (t *NetTransport) RoundTrip(ctx context.Context, r *request.Request) (*request.Response, error) {
	hr, err := r.ToHTTP(ctx)
	if err != nil {
		return nil, err
	}
	if hr.Header.Get("Accept-Encoding") == "" {
		hr.Header.Set("Accept-Encoding", "gzip")
	}
	resp, err := t.client().Do(hr)
	if err != nil {
		return nil, err
	}
	return &request.Response{
		StatusCode:    resp.StatusCode,
		Header:        resp.Header,
		Body:          resp.Body,
		ContentLength: resp.ContentLength,
	}, nil
}

// SetCookieJar installs a cookie jar on the underlying HTTP client.
func (t *NetTransport) SetCookieJar(jar http.CookieJar) {
	t.client().Jar = jar
}

// CloseIdleConnections closes idle keep-alive connections held by the
// underlying HTTP client.
func (t *NetTransport) CloseIdleConnections() {
	t.client().CloseIdleConnections()
}

func (t *NetTransport) client() *http.Client {
	if t.Client != nil {
		return t.Client
	}
	t.once.Do(func() {
		t.fallback = newHTTPClient()
	})
	return t.fallback
}

// NewCookieJar constructs an in-memory cookie jar with public suffix
// list support, suitable for Client.SetCookieJar.
func NewCookieJar() http.CookieJar {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		// cookiejar.New only fails on invalid options, and these are
		// known good.
		panic("httpq: " + err.Error())
	}
	return jar
}
