// Package httpclient is the JSON-over-HTTP client every harness call goes
// through. It never retries and never interprets status codes on its own:
// callers decide whether a non-2xx answer is an error via CheckStatus.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
)

const defaultTimeout = 30 * time.Second

// Client sends JSON requests and buffers the response.
type Client struct {
	http      *http.Client
	timeout   time.Duration
	logger    *slog.Logger
	userAgent string
}

// Option configures a Client.
type Option func(c *Client)

// WithHTTPClient replaces the underlying client, e.g. httptest's.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout. A client passed through
// WithHTTPClient is copied, never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger used for request logs.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent sets the User-Agent sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New constructs a Client.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: defaultTimeout},
		logger:    slog.Default(),
		userAgent: "mocha-harness/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 && c.timeout != c.http.Timeout {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// Response is a fully read HTTP response.
type Response struct {
	Method string
	URL    string
	Status int
	Header http.Header
	Body   []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode %s %s response: %w", r.Method, r.URL, err)
	}
	return nil
}

// Do sends body as JSON (nil sends no body) with the given headers. Only
// transport and encoding failures are returned as errors.
func (c *Client) Do(ctx context.Context, method, url string, header http.Header, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, url, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, url, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get(newcore.HeaderRequestID) == "" {
		req.Header.Set(newcore.HeaderRequestID, uuid.NewString())
	}
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, url, err)
	}

	c.logger.DebugContext(ctx, "http call",
		"method", method,
		"url", url,
		"status", resp.StatusCode,
		"request_id", req.Header.Get(newcore.HeaderRequestID),
		"duration", time.Since(start),
	)

	return &Response{
		Method: method,
		URL:    url,
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   data,
	}, nil
}

// Post is Do with POST.
func (c *Client) Post(ctx context.Context, url string, header http.Header, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, url, header, body)
}

// Put is Do with PUT.
func (c *Client) Put(ctx context.Context, url string, header http.Header, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, url, header, body)
}

// Get is Do with GET and no body.
func (c *Client) Get(ctx context.Context, url string, header http.Header) (*Response, error) {
	return c.Do(ctx, http.MethodGet, url, header, nil)
}
