// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpq

import (
	"context"
	"net/http"

	"github.com/gogama/httpq/request"
)

// A Transport executes one fully prepared request synchronously and
// returns the raw response, or an error if the request could not be
// completed. The client never interprets response bytes itself; the
// transport owns all connection-level concerns (pooling, TLS, proxies,
// caching).
//
// Implementations must be safe for concurrent use by multiple
// goroutines, and must honor cancellation of ctx by abandoning the
// in-flight call and returning an error that wraps ctx.Err(). The
// default implementation, NetTransport, delegates both duties to the
// standard net/http client.
//
// A Transport must return the response body stream unconsumed and
// undecoded: if the server applied a Content-Encoding, the task, not
// the transport, decodes it.
type Transport interface {
	RoundTrip(ctx context.Context, r *request.Request) (*request.Response, error)
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
//
// If the underlying implementation supports it, CloseIdleConnections
// closes connections which were previously connected from previous
// requests but are now sitting idle in a "keep-alive" state. It does
// not interrupt any connections currently in use.
type IdleCloser interface {
	CloseIdleConnections()
}

// CacheClearer is the interface that wraps the basic ClearCache
// method, for transports that maintain a response cache.
type CacheClearer interface {
	ClearCache()
}

// CookieJarSetter is the interface that wraps the basic SetCookieJar
// method, for transports that can persist cookies between requests.
type CookieJarSetter interface {
	SetCookieJar(jar http.CookieJar)
}
