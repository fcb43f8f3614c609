// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Request (a fully prepared HTTP
request), Params (an ordered request parameter collection), and
Response (the raw result of one transport round trip).

A Request describes everything needed to execute one logical HTTP
request asynchronously. For those familiar with the Go standard HTTP
library, net/http, a Request looks like a stripped-down http.Request
structure with all server-side fields removed, and the body fields
replaced with a simple []byte, because asynchronous execution (and any
retries within it) requires a pre-buffered request body. Fields are
named and typed consistently with http.Request wherever possible.

Create a prepared request directly when you need full control over
headers or the body:

	r, err := request.New("POST", "https://example.com/upload", body)
	...
	r.Header.Set("X-Audit-Token", token)
	handle, err := client.Do(owner, r, handler)

A request may be assigned a context to bound its whole asynchronous
execution, including retry waits:

	r, err := request.NewWithContext(ctx, "GET", "https://example.com", nil)
	...

Params carries caller-supplied request parameters and encodes them
either into a URL query string (for GET and DELETE) or into a form
entity body (for POST and PUT). It preserves insertion order, so the
encoded output is deterministic:

	p := request.NewParams().Add("q", "1").Add("r", "2")
	request.URLWithQuery("http://x/a", p) // "http://x/a?q=1&r=2"

Response is produced by a Transport and consumed by the executing
task; application code normally never touches it, because by the time
a response handler runs, the task has already buffered and decoded the
body into the []byte the handler receives.
*/
package request
