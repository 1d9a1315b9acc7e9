// Package backend is the typed client of the catalog/special-prices REST
// backend. It owns the HTTP transport, the response envelope, and the error
// normalization that keeps every failure in one shape.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// DefaultTimeout matches the backend contract: a request committed to the
// network runs to completion or times out after this long.
const DefaultTimeout = 10 * time.Second

// Client performs JSON requests against the backend. It is explicitly
// constructed and injected; there is no package-level shared instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption customises a Client at construction time.
type ClientOption func(*Client)

// WithTimeout overrides the fixed request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// WithTransport replaces the underlying round tripper. The app wires an
// otelhttp transport through here; tests inject recording transports.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) { c.http.Transport = rt }
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a GET and decodes the response body into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete performs a DELETE. body and out may be nil; the delete-product
// endpoint is the one DELETE that carries a JSON body.
func (c *Client) Delete(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodDelete, path, body, out)
}

// Ping reports whether the backend answers at all. Readiness checks use it.
func (c *Client) Ping(ctx context.Context) error {
	return c.Get(ctx, "/products", nil)
}

// do performs one request and decodes the response into out when out is
// non-nil. Non-2xx responses and transport failures are normalized into
// *Error; no other error shape escapes.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return Normalize(errors.Wrap(err, "encode request"))
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return Normalize(errors.Wrap(err, "build request"))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Normalize(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return normalizeResponse(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return Normalize(errors.Wrap(err, "decode response"))
	}
	return nil
}

// normalizeResponse turns a non-2xx response into *Error, preferring the
// structured {message} body when one is present.
func normalizeResponse(resp *http.Response) *Error {
	e := &Error{Message: fallbackMessage, Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return e
	}
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		e.Message = payload.Message
	}
	return e
}
