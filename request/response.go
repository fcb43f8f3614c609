// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"io"
	"net/http"
)

// A Response is the raw result of one transport round trip, before the
// executing task has buffered and decoded the body.
//
// Body carries the wire bytes exactly as the transport received them.
// If the server applied a content encoding such as gzip, Body is still
// encoded here; decoding it before handing bytes to a response handler
// is the executing task's responsibility, never the handler's.
type Response struct {
	// StatusCode is the HTTP status code of the response, such as 200.
	StatusCode int

	// Header contains the response header fields.
	Header http.Header

	// Body is the raw response body stream. The executing task reads
	// it to the end and closes it exactly once.
	Body io.ReadCloser

	// ContentLength records the length of the associated content as
	// reported by the transport. The value -1 indicates that the
	// length is unknown.
	ContentLength int64
}

// ContentEncoding returns the value of the Content-Encoding response
// header, or the empty string if the header is absent.
func (r *Response) ContentEncoding() string {
	return r.Header.Get("Content-Encoding")
}
