package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Target is one endpoint to check. URL may be absolute or relative to the
// client's current environment.
type Target struct {
	Method string `toml:"method" json:"method"`
	URL    string `toml:"url" json:"url"`
}

// Result is the outcome of probing one target.
type Result struct {
	Target   Target        `json:"target"`
	URL      string        `json:"url"`
	Status   int           `json:"status"`
	Duration time.Duration `json:"duration_ns"`
	Body     any           `json:"body,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// OK reports whether the probe got a non-error status.
func (r Result) OK() bool {
	return r.Error == "" && r.Status > 0 && r.Status < 400
}

// Prober checks a set of targets.
type Prober interface {
	ProbeAll(ctx context.Context, targets []Target) ([]Result, error)
}

// Ensure Client implements Prober at compile time.
var _ Prober = (*Client)(nil)

// Client probes endpoints of the currently selected environment.
type Client struct {
	mu      sync.RWMutex
	baseURL *url.URL

	http      *http.Client
	userAgent string
}

const (
	defaultBase      = "127.0.0.1:8080"
	defaultUserAgent = "debugview/0.1"
	requestTimeout   = 5 * time.Second
	maxBodyBytes     = 1 << 20
)

// NewClient builds a Client for base. rt carries the requests; nil uses
// http.DefaultTransport.
func NewClient(base string, rt http.RoundTripper) (*Client, error) {
	u, err := parseBaseURL(base)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: u,
		http: &http.Client{
			Timeout:   requestTimeout,
			Transport: rt,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Base returns the current environment URL.
func (c *Client) Base() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL.String()
}

// SetBase switches to another environment.
func (c *Client) SetBase(base string) error {
	u, err := parseBaseURL(base)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.baseURL = u
	c.mu.Unlock()
	return nil
}

// Probe requests one target. Transport and status failures are reported in
// the error and in Result.Error.
func (c *Client) Probe(ctx context.Context, target Target) (Result, error) {
	if c == nil {
		return Result{}, fmt.Errorf("client is nil")
	}
	method := strings.ToUpper(strings.TrimSpace(target.Method))
	if method == "" {
		method = http.MethodGet
	}
	rel, err := url.Parse(strings.TrimSpace(target.URL))
	if err != nil {
		return Result{Target: target, Error: err.Error()}, fmt.Errorf("parse target %q: %w", target.URL, err)
	}

	started := time.Now()
	res, err := c.doURL(ctx, method, rel)
	res.Target = target
	res.Duration = time.Since(started)
	if err != nil {
		res.Error = err.Error()
	}
	return res, err
}

// ProbeAll requests every target in order. It returns the results together
// with the first error seen, so callers can count a round as failed while
// still showing partial data.
func (c *Client) ProbeAll(ctx context.Context, targets []Target) ([]Result, error) {
	results := make([]Result, 0, len(targets))
	var firstErr error
	for _, target := range targets {
		res, err := c.Probe(ctx, target)
		results = append(results, res)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return results, firstErr
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL) (Result, error) {
	c.mu.RLock()
	reqURL := c.baseURL.ResolveReference(rel)
	c.mu.RUnlock()

	res := Result{URL: reqURL.String()}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return res, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return res, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	res.Status = resp.StatusCode
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return res, fmt.Errorf("read response: %w", err)
	}
	var body any
	if json.Unmarshal(data, &body) == nil {
		res.Body = body
	} else if len(data) > 0 {
		res.Body = string(data)
	}

	if resp.StatusCode >= 400 {
		return res, fmt.Errorf("probe %s returned status %d", rel.String(), resp.StatusCode)
	}
	return res, nil
}

func parseBaseURL(base string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = defaultBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", base, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
