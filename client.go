// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpq

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gogama/httpq/dispatch"
	"github.com/gogama/httpq/pool"
	"github.com/gogama/httpq/request"
	"github.com/gogama/httpq/retry"
)

// DefaultTimeout is the attempt timeout a Client uses when none has
// been configured.
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent is the User-Agent header value a Client sends when
// none has been configured and the request does not carry its own.
const DefaultUserAgent = "httpq/1.0 (+https://github.com/gogama/httpq)"

const (
	nilTransportMsg  = "httpq: nil transport"
	nilPoolMsg       = "httpq: nil pool"
	nilDispatcherMsg = "httpq: nil dispatcher"
	nilLoggerMsg     = "httpq: nil logger"
	nilRequestMsg    = "httpq: nil request"
	nilHandlerMsg    = "httpq: nil handler"
)

// A Client submits HTTP requests for asynchronous execution on a
// worker pool and delivers the outcome of each request to a Handler.
//
// Use New to construct a Client. The zero value is not usable.
//
// All methods on Client are safe for concurrent use by multiple
// goroutines. Session configuration (default headers, timeout, user
// agent, credentials, retry policy) is snapshotted when a request is
// submitted, so changing it afterward affects future submissions only,
// never requests already in flight.
type Client struct {
	registry *ownerRegistry

	mu          sync.Mutex
	transport   Transport
	pool        pool.Pool
	ownPool     bool
	dispatcher  dispatch.Dispatcher
	retryPolicy retry.Policy
	timeout     time.Duration
	userAgent   string
	header      http.Header
	auth        string
	logger      *slog.Logger
}

// An Option configures a Client at construction time.
type Option func(c *Client)

// WithTransport directs the client to execute round trips on t instead
// of the default net/http based transport.
func WithTransport(t Transport) Option {
	if t == nil {
		panic(nilTransportMsg)
	}
	return func(c *Client) {
		c.transport = t
	}
}

// WithPool directs the client to submit request tasks to p instead of
// an elastic pool of its own. The client does not shut down a pool
// provided this way; the caller owns its lifecycle.
func WithPool(p pool.Pool) Option {
	if p == nil {
		panic(nilPoolMsg)
	}
	return func(c *Client) {
		c.pool = p
		c.ownPool = false
	}
}

// WithDispatcher directs the client to deliver handler callbacks
// through d instead of invoking them directly on worker goroutines.
func WithDispatcher(d dispatch.Dispatcher) Option {
	if d == nil {
		panic(nilDispatcherMsg)
	}
	return func(c *Client) {
		c.dispatcher = d
	}
}

// WithRetryPolicy sets the retry policy applied to every request
// submitted to the client.
func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Client) {
		c.retryPolicy = p
	}
}

// WithTimeout sets the client-level timeout applied to each request
// attempt. A non-positive d disables the attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header value sent with requests
// that do not specify their own.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the structured logger the client uses to report
// internal events such as panicking handlers.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic(nilLoggerMsg)
	}
	return func(c *Client) {
		c.logger = l
	}
}

// New constructs a Client, applying any options given.
func New(opts ...Option) *Client {
	c := &Client{
		registry:   newOwnerRegistry(),
		dispatcher: dispatch.Direct,
		timeout:    DefaultTimeout,
		userAgent:  DefaultUserAgent,
		header:     make(http.Header),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = NewNetTransport()
	}
	if c.pool == nil {
		// An elastic pool spawns no goroutines until first use, so an
		// idle Client costs nothing.
		c.pool = pool.NewElastic(0)
		c.ownPool = true
	}
	return c
}

// Do submits req for asynchronous execution under owner and returns a
// Handle for observing and cancelling it. The handler receives the
// lifecycle callbacks for the request.
//
// A non-nil owner groups the request for bulk cancellation with
// CancelRequests; a nil owner leaves the request untracked.
//
// Do returns an error, of type *pool.SchedulingError, only if the
// worker pool refuses the request, in which case no handler callback is
// ever invoked. Otherwise the handler is guaranteed exactly one of
// OnSuccess, OnFailure, or OnCancel, followed by OnFinish.
func (c *Client) Do(owner any, req *request.Request, h Handler) (*Handle, error) {
	if req == nil {
		panic(nilRequestMsg)
	}
	if h == nil {
		panic(nilHandlerMsg)
	}

	t, p := c.prepare(req, h)
	t.handle.onTerminal = func(h *Handle) {
		c.registry.remove(owner, h.ID())
	}

	// Track before submitting so a terminal transition on a fast
	// worker always finds the registry entry to remove.
	c.registry.track(owner, t.handle)
	if err := p.Submit(t.run); err != nil {
		c.registry.remove(owner, t.handle.ID())
		return nil, err
	}
	return t.handle, nil
}

// prepare snapshots the session configuration into a task for req,
// returning the task and the pool to submit it to. Request-specific
// headers win over session defaults; header names compare
// case-insensitively.
func (c *Client) prepare(req *request.Request, h Handler) (*task, pool.Pool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if req.Header == nil {
		req.Header = make(http.Header)
	}
	// Re-key any header the caller wrote into the map directly under a
	// non-canonical name, so it suppresses the session default below.
	for name, values := range req.Header {
		if canon := http.CanonicalHeaderKey(name); canon != name {
			req.Header[canon] = append(req.Header[canon], values...)
			delete(req.Header, name)
		}
	}
	for name, values := range c.header {
		if _, ok := req.Header[name]; !ok {
			req.Header[name] = append([]string(nil), values...)
		}
	}
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.auth != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", c.auth)
	}

	return &task{
		transport:   c.transport,
		req:         req,
		handler:     h,
		handle:      newHandle(req.Context()),
		dispatcher:  c.dispatcher,
		retryPolicy: c.retryPolicy,
		timeout:     c.timeout,
		logger:      c.logger,
	}, c.pool
}

// Get submits a GET request for url, with p (which may be nil) encoded
// into the query string.
func (c *Client) Get(owner any, url string, p *request.Params, h Handler) (*Handle, error) {
	req, err := request.New(http.MethodGet, request.URLWithQuery(url, p), nil)
	if err != nil {
		return nil, err
	}
	return c.Do(owner, req, h)
}

// GetHeader is Get with request-specific headers: each header in
// header is applied to the request, where it wins over any session
// default of the same, case-insensitively compared, name.
func (c *Client) GetHeader(owner any, url string, header http.Header, p *request.Params, h Handler) (*Handle, error) {
	req, err := request.New(http.MethodGet, request.URLWithQuery(url, p), nil)
	if err != nil {
		return nil, err
	}
	applyHeader(req, header)
	return c.Do(owner, req, h)
}

// Head submits a HEAD request for url, with p (which may be nil)
// encoded into the query string.
func (c *Client) Head(owner any, url string, p *request.Params, h Handler) (*Handle, error) {
	req, err := request.New(http.MethodHead, request.URLWithQuery(url, p), nil)
	if err != nil {
		return nil, err
	}
	return c.Do(owner, req, h)
}

// Post submits a POST request for url carrying body with the given
// content type. Body may be a string, []byte, io.Reader, or nil.
func (c *Client) Post(owner any, url string, body interface{}, contentType string, h Handler) (*Handle, error) {
	return c.entity(owner, http.MethodPost, url, body, contentType, h)
}

// PostParams submits a POST request for url carrying p as a URL-encoded
// form body.
func (c *Client) PostParams(owner any, url string, p *request.Params, h Handler) (*Handle, error) {
	body, contentType := p.Entity()
	return c.entity(owner, http.MethodPost, url, body, contentType, h)
}

// Put submits a PUT request for url carrying body with the given
// content type. Body may be a string, []byte, io.Reader, or nil.
func (c *Client) Put(owner any, url string, body interface{}, contentType string, h Handler) (*Handle, error) {
	return c.entity(owner, http.MethodPut, url, body, contentType, h)
}

// PutParams submits a PUT request for url carrying p as a URL-encoded
// form body.
func (c *Client) PutParams(owner any, url string, p *request.Params, h Handler) (*Handle, error) {
	body, contentType := p.Entity()
	return c.entity(owner, http.MethodPut, url, body, contentType, h)
}

// PostForm submits p as a URL-encoded form body. It is another name
// for PostParams, for callers who think in terms of form submission.
func (c *Client) PostForm(owner any, url string, p *request.Params, h Handler) (*Handle, error) {
	return c.PostParams(owner, url, p, h)
}

// Delete submits a DELETE request for url.
func (c *Client) Delete(owner any, url string, h Handler) (*Handle, error) {
	req, err := request.New(http.MethodDelete, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(owner, req, h)
}

// DeleteHeader is Delete with request-specific headers, applied the
// same way as in GetHeader.
func (c *Client) DeleteHeader(owner any, url string, header http.Header, h Handler) (*Handle, error) {
	req, err := request.New(http.MethodDelete, url, nil)
	if err != nil {
		return nil, err
	}
	applyHeader(req, header)
	return c.Do(owner, req, h)
}

// applyHeader copies header values onto the request under canonical
// names.
func applyHeader(req *request.Request, header http.Header) {
	for name, values := range header {
		req.Header[http.CanonicalHeaderKey(name)] = append([]string(nil), values...)
	}
}

func (c *Client) entity(owner any, method, url string, body interface{}, contentType string, h Handler) (*Handle, error) {
	req, err := request.New(method, url, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.Do(owner, req, h)
}

// CancelRequests cancels every outstanding request tracked under
// owner. Requests that have not started never touch the transport and
// receive OnCancel followed by OnFinish. If interrupt is true,
// requests already executing are interrupted as well; otherwise they
// run to their natural conclusion.
func (c *Client) CancelRequests(owner any, interrupt bool) {
	c.registry.cancelAll(owner, interrupt)
}

// Outstanding reports the number of requests tracked under owner that
// have not yet reached a terminal state.
func (c *Client) Outstanding(owner any) int {
	return c.registry.outstanding(owner)
}

// AddHeader adds a session default header sent with every request that
// does not carry a header of the same, case-insensitively compared,
// name.
func (c *Client) AddHeader(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.header.Add(name, value)
}

// RemoveHeader removes the session default header with the given name,
// compared case-insensitively.
func (c *Client) RemoveHeader(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.header.Del(name)
}

// SetTimeout changes the attempt timeout for future submissions. A
// non-positive d disables the attempt timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = d
}

// SetUserAgent changes the default User-Agent for future submissions.
// An empty ua stops the client from setting the header at all.
func (c *Client) SetUserAgent(ua string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userAgent = ua
}

// SetBasicAuth installs HTTP Basic credentials sent with every future
// submission that does not carry its own Authorization header.
func (c *Client) SetBasicAuth(username, password string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.auth = request.BasicAuth(username, password)
}

// ClearBasicAuth removes credentials installed with SetBasicAuth.
func (c *Client) ClearBasicAuth() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.auth = ""
}

// SetRetryPolicy changes the retry policy for future submissions. A
// nil p disables retry.
func (c *Client) SetRetryPolicy(p retry.Policy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retryPolicy = p
}

// SetPool replaces the worker pool used for future submissions.
// Requests already accepted by the previous pool are unaffected.
//
// A previous pool the client created itself is shut down, so SetPool
// waits for its accepted work to finish. A pool the caller supplied,
// whether through WithPool or an earlier SetPool, is left running; its
// lifecycle belongs to the caller.
func (c *Client) SetPool(p pool.Pool) {
	if p == nil {
		panic(nilPoolMsg)
	}
	c.mu.Lock()
	old, own := c.pool, c.ownPool
	c.pool, c.ownPool = p, false
	c.mu.Unlock()
	if own {
		old.Shutdown()
	}
}

// SetDispatcher changes the callback dispatcher for future
// submissions.
func (c *Client) SetDispatcher(d dispatch.Dispatcher) {
	if d == nil {
		panic(nilDispatcherMsg)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatcher = d
}

// SetCookieJar installs jar on the transport, if the transport manages
// cookies. It reports whether the transport accepted the jar.
func (c *Client) SetCookieJar(jar http.CookieJar) bool {
	c.mu.Lock()
	t := c.transport
	c.mu.Unlock()
	if s, ok := t.(CookieJarSetter); ok {
		s.SetCookieJar(jar)
		return true
	}
	return false
}

// ClearCache clears the transport's cache, if it keeps one.
func (c *Client) ClearCache() {
	c.mu.Lock()
	t := c.transport
	c.mu.Unlock()
	if cc, ok := t.(CacheClearer); ok {
		cc.ClearCache()
	}
}

// CloseIdleConnections closes the transport's idle connections, if it
// keeps any.
func (c *Client) CloseIdleConnections() {
	c.mu.Lock()
	t := c.transport
	c.mu.Unlock()
	if ic, ok := t.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

// Shutdown stops the client's worker pool, waiting for in-flight
// requests to finish, and closes the transport's idle connections. It
// only shuts down a pool the client created itself; a pool provided
// with WithPool belongs to the caller.
//
// After Shutdown, Do and the verb methods return a scheduling error
// for every submission.
func (c *Client) Shutdown() {
	c.mu.Lock()
	p, own := c.pool, c.ownPool
	c.mu.Unlock()
	if own {
		p.Shutdown()
	}
	c.CloseIdleConnections()
}
