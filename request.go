package debugview

import (
	"net/http"
	"net/url"

	"github.com/five82/debugview/internal/requeststore"
)

// RequestID identifies a captured request by the call site that began it and
// its URL. It is not a unique handle: two identical requests in flight from
// the same line resolve most recent first.
type RequestID = requeststore.Identity

// BeginRequest records req as pending and returns its identity. body is the
// request payload; req.Body is never read.
func (i *Inspector) BeginRequest(req *http.Request, body []byte) RequestID {
	src := caller(2)
	id := RequestID{File: src.File, Line: src.Line}
	if req == nil {
		return id
	}

	var u *url.URL
	if req.URL != nil {
		clone := *req.URL
		u = &clone
		id.URL = u.String()
	}
	i.requests.Begin(id, requeststore.Request{
		Method: req.Method,
		URL:    u,
		Header: req.Header.Clone(),
		Body:   append([]byte(nil), body...),
	}, i.now())
	return id
}

// CompleteRequest records the outcome of the most recent request with
// identity id, whether or not it already completed. resp may be nil when err
// is set; body is the response payload. A completion with no matching
// request is ignored.
func (i *Inspector) CompleteRequest(id RequestID, resp *http.Response, body []byte, err error) {
	var record *requeststore.Response
	if resp != nil {
		record = &requeststore.Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header.Clone(),
			Body:       append([]byte(nil), body...),
		}
	}
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	i.requests.Complete(id, record, errMsg, i.now())
}
