package debugview

import (
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestInspector(t *testing.T, opts Options) *Inspector {
	t.Helper()
	insp := New(opts)
	t.Cleanup(insp.Close)
	return insp
}

func TestLogRecordsCallSite(t *testing.T) {
	insp := newTestInspector(t, Options{})
	insp.Info("hello", 42)
	insp.Flush()

	entries := insp.Logs().Snapshot()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Tag != TagInfo {
		t.Fatalf("Tag = %q, want %q", e.Tag, TagInfo)
	}
	if got := e.Text(); got != "hello 42" {
		t.Fatalf("Text = %q, want %q", got, "hello 42")
	}
	if got := filepath.Base(e.Source.File); got != "debugview_test.go" {
		t.Fatalf("Source.File = %q, want debugview_test.go", got)
	}
	if got := e.Source.Function; got != "debugview.TestLogRecordsCallSite" {
		t.Fatalf("Source.Function = %q", got)
	}
	if e.Source.Line == 0 {
		t.Fatal("Source.Line not set")
	}
}

func TestLogVariants(t *testing.T) {
	insp := newTestInspector(t, Options{})
	insp.Debug("d")
	insp.Warning("w")
	insp.Error("e")
	insp.LogComment("CUSTOM", "retrying", "c")
	insp.Log(TagNotice, "n")
	insp.Flush()

	entries := insp.Logs().Snapshot()
	want := []string{TagDebug, TagWarning, TagError, "CUSTOM", TagNotice}
	if len(entries) != len(want) {
		t.Fatalf("entries = %d, want %d", len(entries), len(want))
	}
	for i, tag := range want {
		if entries[i].Tag != tag {
			t.Fatalf("entry %d Tag = %q, want %q", i, entries[i].Tag, tag)
		}
	}
	if got := entries[3].Comment; got != "retrying" {
		t.Fatalf("Comment = %q, want retrying", got)
	}
}

func TestBeginCompleteRequest(t *testing.T) {
	t0 := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	insp := newTestInspector(t, Options{Now: func() time.Time { return t0 }})

	req, err := http.NewRequest(http.MethodPost, "https://x.test/y?q=1", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	id := insp.BeginRequest(req, []byte(`{"a":1}`))
	if id.URL != "https://x.test/y?q=1" {
		t.Fatalf("id.URL = %q", id.URL)
	}
	insp.Flush()
	if recs := insp.Requests().Snapshot(); len(recs) != 1 || !recs[0].Pending() {
		t.Fatalf("records after begin = %+v", recs)
	}

	insp.CompleteRequest(id, &http.Response{StatusCode: 200, Header: http.Header{"X": {"1"}}}, []byte(`{}`), nil)
	insp.Flush()

	recs := insp.Requests().Snapshot()
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	r := recs[0]
	if r.Pending() || r.Failed() {
		t.Fatalf("record pending=%v failed=%v", r.Pending(), r.Failed())
	}
	if r.Error != "" {
		t.Fatalf("Error = %q, want empty", r.Error)
	}
	if !r.CompletedAt.Equal(t0) {
		t.Fatalf("CompletedAt = %v, want %v", r.CompletedAt, t0)
	}
	if string(r.Request.Body) != `{"a":1}` || r.Response.StatusCode != 200 {
		t.Fatalf("record = %+v", r)
	}
}

func TestCompleteRequestWithError(t *testing.T) {
	insp := newTestInspector(t, Options{})
	req, _ := http.NewRequest(http.MethodGet, "https://x.test/down", nil)
	id := insp.BeginRequest(req, nil)
	insp.CompleteRequest(id, nil, nil, errors.New("connection refused"))
	insp.Flush()

	r := insp.Requests().Snapshot()[0]
	if !r.Failed() || r.Error != "connection refused" || r.Response != nil {
		t.Fatalf("record = %+v", r)
	}
}

func TestCompleteUnknownRequestIsIgnored(t *testing.T) {
	insp := newTestInspector(t, Options{})
	insp.CompleteRequest(RequestID{File: "x.go", Line: 1, URL: "https://x.test"}, nil, nil, nil)
	insp.Flush()
	if n := len(insp.Requests().Snapshot()); n != 0 {
		t.Fatalf("records = %d, want 0", n)
	}
}

func TestCompleteRequestMatchesMostRecent(t *testing.T) {
	insp := newTestInspector(t, Options{})
	var ids []RequestID
	for _, path := range []string{"first", "second"} {
		req, _ := http.NewRequest(http.MethodGet, "https://x.test/same", nil)
		req.Header.Set("X-Call", path)
		ids = append(ids, insp.BeginRequest(req, nil))
	}
	if ids[0] != ids[1] {
		t.Fatalf("identities differ: %+v %+v", ids[0], ids[1])
	}

	insp.CompleteRequest(ids[0], &http.Response{StatusCode: 200}, nil, nil)
	insp.CompleteRequest(ids[0], &http.Response{StatusCode: 500}, nil, nil)
	insp.Flush()

	recs := insp.Requests().Snapshot()
	if len(recs) != 2 {
		t.Fatalf("records = %d, want 2", len(recs))
	}
	if got := recs[0].Request.Header.Get("X-Call"); got != "second" {
		t.Fatalf("front record = %q, want second", got)
	}
	if recs[0].Response == nil || recs[0].Response.StatusCode != 500 {
		t.Fatalf("front response = %+v, want the later completion", recs[0].Response)
	}
	if !recs[1].Pending() {
		t.Fatalf("older record = %+v, want still pending", recs[1])
	}
}

func TestTransportCapturesRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	insp := newTestInspector(t, Options{})
	client := &http.Client{Transport: insp.Transport(nil)}
	resp, err := client.Get(srv.URL + "/ping")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != `{"ok":true}` {
		t.Fatalf("body = %q, host must still see the response", body)
	}

	insp.Flush()
	recs := insp.Requests().Snapshot()
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	r := recs[0]
	if r.Response == nil || r.Response.StatusCode != http.StatusOK {
		t.Fatalf("response = %+v", r.Response)
	}
	if string(r.Response.Body) != `{"ok":true}` {
		t.Fatalf("captured body = %q", r.Response.Body)
	}
	if got := filepath.Base(r.ID.File); got != "debugview_test.go" {
		t.Fatalf("call site = %q, want debugview_test.go", got)
	}
}

func TestWriterCapturesStandardLogger(t *testing.T) {
	insp := newTestInspector(t, Options{})
	logger := log.New(insp.Writer(""), "", log.Lshortfile)
	logger.Print("cache miss")
	insp.Flush()

	entries := insp.Logs().Snapshot()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Tag != TagDebug || e.Text() != "cache miss" {
		t.Fatalf("entry = %q %q", e.Tag, e.Text())
	}
	if e.Source.File != "debugview_test.go" {
		t.Fatalf("Source.File = %q", e.Source.File)
	}
}

func TestSlogHandler(t *testing.T) {
	insp := newTestInspector(t, Options{})
	logger := slog.New(insp.SlogHandler(slog.LevelInfo))
	logger.Debug("dropped")
	logger.Warn("careful", "attempt", 2)
	insp.Flush()

	entries := insp.Logs().Snapshot()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Tag != TagWarning {
		t.Fatalf("Tag = %q, want WARNING", entries[0].Tag)
	}
	if !strings.HasPrefix(entries[0].Text(), "careful") || !strings.Contains(entries[0].Text(), `"attempt": 2`) {
		t.Fatalf("Text = %q", entries[0].Text())
	}
}

func TestPublishState(t *testing.T) {
	insp := newTestInspector(t, Options{})
	insp.PublishState(map[string]any{"user": "ada"})
	snap := insp.State().Snapshot()
	if !snap.HasValue {
		t.Fatal("state not published")
	}
	if v, ok := snap.Value.Field("user"); !ok || v.Str() != "ada" {
		t.Fatalf("user = %v, %v", v, ok)
	}
}

func TestFeatureGate(t *testing.T) {
	list := []Feature{{Key: "beta", Title: "Beta", Enabled: true}}

	on := newTestInspector(t, Options{Features: list, FeaturesEnabled: true})
	if !on.IsEnabled("beta") {
		t.Fatal("beta should be on")
	}
	if on.IsEnabled("missing") {
		t.Fatal("unknown feature should be off")
	}

	off := newTestInspector(t, Options{Features: list})
	if off.IsEnabled("beta") {
		t.Fatal("gate off should report every feature as off")
	}
}

func TestShortFunction(t *testing.T) {
	cases := map[string]string{
		"main.main":                       "main.main",
		"github.com/five82/debugview.New": "debugview.New",
		"github.com/x/y/pkg.(*T).Do":      "pkg.(*T).Do",
		"github.com/x/y/pkg.Run.func1":    "pkg.Run.func1",
	}
	for in, want := range cases {
		if got := shortFunction(in); got != want {
			t.Fatalf("shortFunction(%q) = %q, want %q", in, got, want)
		}
	}
}
