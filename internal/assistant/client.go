// Package assistant talks to the conversational assistant under test.
package assistant

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint is used when no endpoint is configured.
const DefaultEndpoint = "http://localhost:8080/assistant"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// maxBodyBytes caps how much of a response body is kept.
const maxBodyBytes = 4 << 20

// Reply is the raw answer to one query.
type Reply struct {
	StatusCode int
	Body       string
}

// Client posts queries to the assistant endpoint as plain text.
type Client struct {
	endpoint string
	client   *http.Client
	headers  map[string]string
}

// Option customises a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

// WithHeaders adds static headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for key, value := range headers {
			c.headers[key] = value
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// New constructs a client for endpoint.
func New(endpoint string, opts ...Option) *Client {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: DefaultTimeout},
		headers:  map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Ask posts query and returns whatever the assistant answered. Non-2xx
// statuses are not errors; only transport failures are.
func (c *Client) Ask(ctx context.Context, query string) (Reply, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(query))
	if err != nil {
		return Reply{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return Reply{}, fmt.Errorf("post query: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Reply{StatusCode: resp.StatusCode}, fmt.Errorf("read response: %w", err)
	}
	return Reply{StatusCode: resp.StatusCode, Body: string(body)}, nil
}
