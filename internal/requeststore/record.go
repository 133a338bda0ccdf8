package requeststore

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Identity correlates the start and the completion of a request. It is the
// call site plus the URL, not a true handle: two identical requests in flight
// from the same line are told apart only by insertion order.
type Identity struct {
	File string
	Line int
	URL  string
}

// Request describes an outgoing request. The store never interprets it.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte
}

// Response describes a received response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Record is one request and, once it completes, its outcome.
type Record struct {
	ID          Identity
	Request     Request
	Response    *Response
	Error       string
	RequestedAt time.Time
	CompletedAt time.Time // zero while pending
}

// Pending reports whether the request has not completed yet.
func (r Record) Pending() bool {
	return r.CompletedAt.IsZero()
}

// Failed reports whether the request completed with an error or a status
// outside 2xx.
func (r Record) Failed() bool {
	if r.Pending() {
		return false
	}
	if r.Error != "" {
		return true
	}
	return r.Response == nil || r.Response.StatusCode < 200 || r.Response.StatusCode >= 300
}

// Duration is the time between start and completion, or zero while pending.
func (r Record) Duration() time.Duration {
	if r.Pending() {
		return 0
	}
	return r.CompletedAt.Sub(r.RequestedAt)
}

// Verb returns "WS" for websocket URLs and the upper-case method otherwise.
func (r Record) Verb() string {
	if u := r.Request.URL; u != nil && (u.Scheme == "ws" || u.Scheme == "wss") {
		return "WS"
	}
	if r.Request.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(r.Request.Method)
}

// Path returns the URL path without its leading slash.
func (r Record) Path() string {
	if r.Request.URL == nil {
		return ""
	}
	return strings.TrimPrefix(r.Request.URL.Path, "/")
}

// FilterText is what list filtering matches against: the path and the method.
func (r Record) FilterText() string {
	return r.Path() + " " + r.Verb()
}
