// Copyright 2023 The httpq Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	urlpkg "net/url"
	"strings"
)

// FormContentType is the content type reported by Params.Entity.
const FormContentType = "application/x-www-form-urlencoded"

// Params is an ordered collection of request parameters. Unlike
// url.Values, Params preserves insertion order, so the query string or
// form entity it encodes to is deterministic and mirrors the order in
// which the caller added the parameters.
//
// The zero value is an empty, ready to use, parameter collection. A
// nil *Params behaves like an empty collection for the encoding
// methods, which keeps optional-parameter call sites simple.
//
// Params is not safe for concurrent mutation. Build it, hand it to a
// client method, and leave it alone.
type Params struct {
	pairs []pair
}

type pair struct {
	key   string
	value string
}

// NewParams returns an empty parameter collection. It is equivalent to
// new(Params) and exists for symmetry with the other constructors in
// this package.
func NewParams() *Params {
	return &Params{}
}

// Add appends a key/value pair, keeping any pairs previously added
// under the same key.
func (p *Params) Add(key, value string) *Params {
	p.pairs = append(p.pairs, pair{key: key, value: value})
	return p
}

// Set replaces the first pair stored under key with the given value
// and removes any further pairs under the same key. If no pair exists
// under key, Set behaves like Add.
func (p *Params) Set(key, value string) *Params {
	found := false
	out := p.pairs[:0]
	for _, kv := range p.pairs {
		if kv.key == key {
			if !found {
				kv.value = value
				found = true
			} else {
				continue
			}
		}
		out = append(out, kv)
	}
	p.pairs = out
	if !found {
		p.pairs = append(p.pairs, pair{key: key, value: value})
	}
	return p
}

// Get returns the first value stored under key, or the empty string if
// no pair exists under key.
func (p *Params) Get(key string) string {
	if p == nil {
		return ""
	}
	for _, kv := range p.pairs {
		if kv.key == key {
			return kv.value
		}
	}
	return ""
}

// Len returns the number of stored pairs.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.pairs)
}

// QueryString encodes the parameters as a URL query string in
// insertion order, without a leading "?". It is a pure function of the
// stored pairs. An empty or nil collection encodes to "".
func (p *Params) QueryString() string {
	if p == nil || len(p.pairs) == 0 {
		return ""
	}
	var b strings.Builder
	for i, kv := range p.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(urlpkg.QueryEscape(kv.key))
		b.WriteByte('=')
		b.WriteString(urlpkg.QueryEscape(kv.value))
	}
	return b.String()
}

// Entity encodes the parameters as a request body entity, returning
// the body bytes and the content type to send them under. The encoding
// is application/x-www-form-urlencoded, in insertion order.
func (p *Params) Entity() ([]byte, string) {
	qs := p.QueryString()
	if qs == "" {
		return nil, FormContentType
	}
	return []byte(qs), FormContentType
}

// URLWithQuery appends the encoded parameters to url as a query
// string, joining with "?" if url has no query component yet and "&"
// otherwise. A nil or empty Params returns url unchanged.
//
// The composition is purely textual; url is not parsed or validated.
func URLWithQuery(url string, p *Params) string {
	qs := p.QueryString()
	if qs == "" {
		return url
	}
	if strings.IndexByte(url, '?') == -1 {
		return url + "?" + qs
	}
	return url + "&" + qs
}
