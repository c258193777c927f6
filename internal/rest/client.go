// Package rest provides the thin bearer-token HTTP layer shared by the
// Jira and Confluence clients.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound marks upstream 404 responses so callers can tell a missing
// resource apart from a transport failure with errors.Is.
var ErrNotFound = errors.New("not found")

// StatusError is returned for any non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// Is makes errors.Is(err, ErrNotFound) true for 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client issues authenticated requests against a single service base URL.
type Client struct {
	base  *url.URL
	token string
	http  *http.Client
}

// New creates a client for the given base URL and personal access token.
func New(baseURL, token string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must be http(s)", baseURL)
	}
	return &Client{
		base:  u,
		token: token,
		http:  &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Get issues a GET against a path relative to the base URL and returns the
// response body. path is taken unescaped; it is assigned to URL.Path so
// escaping happens exactly once when the request URL is serialized. Callers
// must not pre-escape segments.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return c.GetURL(ctx, u.String())
}

// GetJSON issues a GET and decodes the JSON response body into v.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, v any) error {
	body, err := c.Get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}
	return nil
}

// GetURL issues a GET against an absolute URL, still carrying this client's
// bearer token. Jira attachment download URLs are absolute, so they bypass
// the base-URL joining.
func (c *Client) GetURL(ctx context.Context, absURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, absURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", absURL, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", absURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        absURL,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", absURL, err)
	}
	return body, nil
}
