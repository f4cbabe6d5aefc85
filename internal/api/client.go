package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"synapse-digest/internal/metrics"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// ErrRequestFailed matches every non-2xx response and transport failure.
var ErrRequestFailed = errors.New("request failed")

// RequestFailedError carries what is known about a failed call. Status is 0
// when no response arrived.
type RequestFailedError struct {
	Method string
	Path   string
	Status int
	Body   string
	Err    error
}

func (e *RequestFailedError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s failed: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s failed: status=%d body=%s", e.Method, e.Path, e.Status, e.Body)
}

func (e *RequestFailedError) Is(target error) bool { return target == ErrRequestFailed }

func (e *RequestFailedError) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status of a failed request, or 0.
func StatusOf(err error) int {
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf.Status
	}
	return 0
}

// maxErrorBody bounds the response snippet kept on errors.
const maxErrorBody = 512

// Options tune a Client. The zero value is usable.
type Options struct {
	Timeout    time.Duration
	RateLimit  float64 // requests per second, 0 disables throttling
	Burst      int
	HTTPClient *http.Client
	Metrics    metrics.Recorder
}

// Client is a minimal JSON client for the SynapseDigest API.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	metrics metrics.Recorder
}

// New creates a client. baseURL should be like "http://127.0.0.1:8000/api/v1"
// (no trailing slash).
func New(baseURL string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	var lim *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	rec := opts.Metrics
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		limiter: lim,
		metrics: rec,
	}
}

// Do issues one request. path is relative to the base URL and may carry a
// query string. The bearer header is only sent when token is non-empty. A
// JSON body of null leaves out untouched.
func (c *Client) Do(ctx context.Context, method, path, token string, body, out any) error {
	if c == nil {
		return errors.New("nil api client")
	}
	fail := func(status int, snippet string, err error) error {
		return &RequestFailedError{Method: method, Path: path, Status: status, Body: snippet, Err: err}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail(0, "", err)
		}
	}

	var rdr io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fail(0, "", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordRequestFailure(method)
		slog.Debug("api: transport error", "method", method, "path", path, "error", err)
		return fail(0, "", err)
	}
	defer resp.Body.Close()
	c.metrics.RecordRequest(method, resp.StatusCode, time.Since(start))
	slog.Debug("api: response", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fail(resp.StatusCode, strings.TrimSpace(string(b)), nil)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(resp.StatusCode, "", err)
	}
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fail(resp.StatusCode, "", fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// withQuery appends q to path, skipping empty values.
func withQuery(path string, q url.Values) string {
	for k, vs := range q {
		if len(vs) == 0 || vs[0] == "" {
			delete(q, k)
		}
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
