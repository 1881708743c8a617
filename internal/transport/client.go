// Package transport provides HTTP client functionality for the wiki API.
// It owns the api.php request conventions: form-encoded parameters, a
// bounded timeout, and translation of transport failures into typed errors.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/huijiwiki/wikimap/pkg/errors"
)

// DefaultTimeout bounds every API request. There is no retry at this layer.
const DefaultTimeout = 10 * time.Second

// Client performs form-encoded requests against a single api.php endpoint.
type Client struct {
	http     *http.Client
	endpoint string
}

// New creates a transport client for the given api.php endpoint. A zero
// timeout uses DefaultTimeout.
func New(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:     &http.Client{Timeout: timeout},
		endpoint: endpoint,
	}
}

// Endpoint returns the configured api.php endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Get performs a GET request with the given query parameters and returns
// the raw response body.
func (c *Client) Get(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.WrapNetwork("create request", c.endpoint, err)
	}
	return c.do(req)
}

// PostForm performs a POST request with a form-encoded body and returns the
// raw response body.
func (c *Client) PostForm(ctx context.Context, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.WrapNetwork("create request", c.endpoint, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// do executes the request and maps transport failures onto the error
// taxonomy. The response body is fully read so the connection can be reused.
func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, errors.NewTimeoutError(req.Method+" "+c.endpoint, c.http.Timeout.String(), err)
		}
		if req.Context().Err() != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrCanceled, err)
		}
		return nil, errors.WrapNetwork("request", c.endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapNetwork("read response", c.endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewNetworkError("request", c.endpoint,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	return body, nil
}

// isTimeout reports whether a client error was a deadline expiry rather
// than some other transport failure.
func isTimeout(err error) bool {
	if urlErr, ok := err.(*url.Error); ok && urlErr.Timeout() {
		return true
	}
	return false
}
