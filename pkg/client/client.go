package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader is set on every outbound request for log correlation
const RequestIDHeader = "X-Request-ID"

// Observer receives one callback per completed request. Status is 0 when the
// request failed before a response arrived.
type Observer interface {
	ObserveRequest(operation string, status int, duration time.Duration)
}

// Client is a typed client for the call analytics REST backend.
//
// Authentication relies on the session cookie the backend sets at login; the
// client keeps it in a cookie jar and sends it with every request. A Client is
// safe for concurrent use and imposes no ordering between in-flight calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    http.Header
	logger     zerolog.Logger
	observer   Observer
	timeout    time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient uses a copy of hc as the underlying http.Client. The copy
// gets a cookie jar if hc has none; hc itself is never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		copied := *hc
		c.httpClient = &copied
	}
}

// WithTimeout sets a whole-request timeout. Zero keeps the transport default (none).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithObserver registers a per-request observer (e.g. metrics)
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// WithHeader adds a header sent on every request. Per-call headers still win.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// NewClient creates a client for the backend at baseURL (e.g. "http://localhost:8000")
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		headers:    make(http.Header),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		c.httpClient.Timeout = c.timeout
	}
	if c.httpClient.Jar == nil {
		// cookiejar.New only fails on a broken PublicSuffixList, and we pass none
		jar, _ := cookiejar.New(nil)
		c.httpClient.Jar = jar
	}
	c.logger = c.logger.With().Str("component", "api_client").Logger()
	return c
}

// BaseURL returns the configured backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one backend call
type request struct {
	operation string
	method    string
	path      string
	body      any
}

// do runs the shared request/response cycle. out may be nil, in which case the
// response body is discarded.
func (c *Client) do(ctx context.Context, r request, out any) error {
	url := c.baseURL + r.path

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", r.operation, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, url, body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", r.operation, err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	for k, v := range c.headers {
		req.Header[k] = v
	}
	for k, v := range headerFromContext(ctx) {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(r.operation, 0, start)
		c.logger.Debug().Err(err).
			Str("request_id", requestID).
			Str("method", r.method).
			Str("path", r.path).
			Msg("request failed")
		return fmt.Errorf("%s %s: %w", r.method, url, err)
	}
	defer resp.Body.Close()

	c.observe(r.operation, resp.StatusCode, start)
	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", r.operation, err)
	}
	return nil
}

type headerKey struct{}

// ContextWithHeader attaches per-call headers to ctx. They are applied last, so
// they override the defaults (including Content-Type) on key collision.
func ContextWithHeader(ctx context.Context, h http.Header) context.Context {
	merged := headerFromContext(ctx).Clone()
	if merged == nil {
		merged = make(http.Header)
	}
	for k, v := range h {
		merged[http.CanonicalHeaderKey(k)] = v
	}
	return context.WithValue(ctx, headerKey{}, merged)
}

func headerFromContext(ctx context.Context) http.Header {
	h, _ := ctx.Value(headerKey{}).(http.Header)
	return h
}

func (c *Client) observe(operation string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveRequest(operation, status, time.Since(start))
	}
}
