package capture

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/five82/debugview/internal/requeststore"
)

// RequestRecorder receives request lifecycle events.
type RequestRecorder interface {
	Begin(id requeststore.Identity, req requeststore.Request, requestedAt time.Time)
	Complete(id requeststore.Identity, resp *requeststore.Response, errMsg string, completedAt time.Time)
}

// maxBodyBytes caps how much of each body is copied into a record.
const maxBodyBytes = 4 << 20

// Transport records every request it carries. The call site used for the
// record's identity is the first stack frame outside net/http and this
// package. RoundTrip returns as soon as headers arrive; the record stays
// pending until the caller reads the body to the end or closes it.
type Transport struct {
	Base     http.RoundTripper // nil means http.DefaultTransport
	Recorder RequestRecorder
	Now      func() time.Time
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.Recorder == nil {
		return base.RoundTrip(req)
	}
	now := t.Now
	if now == nil {
		now = time.Now
	}

	file, line := callSite()
	id := requeststore.Identity{File: file, Line: line, URL: req.URL.String()}

	reqBody, err := peekRequestBody(req)
	if err != nil {
		return nil, fmt.Errorf("capture request body: %w", err)
	}
	t.Recorder.Begin(id, requeststore.Request{
		Method: req.Method,
		URL:    cloneURL(req.URL),
		Header: req.Header.Clone(),
		Body:   reqBody,
	}, now())

	resp, err := base.RoundTrip(req)
	if err != nil {
		t.Recorder.Complete(id, nil, err.Error(), now())
		return nil, err
	}

	header := resp.Header.Clone()
	complete := func(body []byte, readErr error) {
		errMsg := ""
		if readErr != nil {
			errMsg = fmt.Sprintf("read response body: %v", readErr)
		}
		t.Recorder.Complete(id, &requeststore.Response{
			StatusCode: resp.StatusCode,
			Header:     header,
			Body:       body,
		}, errMsg, now())
	}

	// Upgraded connections hand the caller a read-write body; leave it alone.
	if resp.StatusCode == http.StatusSwitchingProtocols || resp.Body == nil || resp.Body == http.NoBody {
		complete(nil, nil)
		return resp, nil
	}
	resp.Body = &recordingBody{rc: resp.Body, done: complete}
	return resp, nil
}

func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	dup := *u
	if u.User != nil {
		user := *u.User
		dup.User = &user
	}
	return &dup
}

// peekRequestBody copies the request body without consuming it.
func peekRequestBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	if req.GetBody != nil {
		rc, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(io.LimitReader(rc, maxBodyBytes))
	}
	data, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, err
	}
	req.Body = io.NopCloser(bytes.NewReader(data))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return truncate(data), nil
}

// recordingBody copies up to maxBodyBytes of a response body as the caller
// reads it. The record is completed once, on EOF, a read error or Close.
type recordingBody struct {
	rc   io.ReadCloser
	done func(body []byte, err error)

	mu       sync.Mutex
	buf      bytes.Buffer
	finished bool
}

func (b *recordingBody) Read(p []byte) (int, error) {
	n, err := b.rc.Read(p)
	b.mu.Lock()
	if room := maxBodyBytes - b.buf.Len(); room > 0 && n > 0 {
		b.buf.Write(p[:min(n, room)])
	}
	b.mu.Unlock()
	switch {
	case err == io.EOF:
		b.finish(nil)
	case err != nil:
		b.finish(err)
	}
	return n, err
}

func (b *recordingBody) Close() error {
	err := b.rc.Close()
	b.finish(nil)
	return err
}

func (b *recordingBody) finish(err error) {
	b.mu.Lock()
	if b.finished {
		b.mu.Unlock()
		return
	}
	b.finished = true
	var body []byte
	if b.buf.Len() > 0 {
		body = bytes.Clone(b.buf.Bytes())
	}
	b.mu.Unlock()
	b.done(body, err)
}

func truncate(data []byte) []byte {
	if len(data) > maxBodyBytes {
		return data[:maxBodyBytes]
	}
	return data
}

var selfPackage = packageOf(currentFunction())

// callSite returns the file and line of the code that issued the request.
func callSite() (string, int) {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !skipFrame(frame.Function) {
			return frame.File, frame.Line
		}
		if !more {
			return "", 0
		}
	}
}

func skipFrame(function string) bool {
	switch {
	case function == "":
		return true
	case strings.HasPrefix(function, selfPackage+"."):
		return true
	case strings.HasPrefix(function, "net/http."), strings.HasPrefix(function, "runtime."):
		return true
	}
	return false
}

func currentFunction() string {
	pc, _, _, _ := runtime.Caller(0)
	return runtime.FuncForPC(pc).Name()
}

func packageOf(function string) string {
	slash := strings.LastIndex(function, "/")
	dot := strings.Index(function[slash+1:], ".")
	if dot < 0 {
		return function
	}
	return function[:slash+1+dot]
}
