package cuotasapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/XavierBriggs/oddsboard/pkg/contracts"
	"github.com/XavierBriggs/oddsboard/pkg/models"
)

const (
	// Path is the odds resource served by the collector backend
	Path = "/api/cuotas"

	userAgent      = "oddsboard/1.0"
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 512
)

// Client implements the SnapshotSource interface for the /api/cuotas endpoint
type Client struct {
	url        string
	httpClient *http.Client
	timeout    *time.Duration
}

// Ensure Client implements SnapshotSource
var _ contracts.SnapshotSource = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The client passed in is
// never modified; WithTimeout applies to a copy of it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = &timeout
	}
}

// NewClient creates a client for the given base URL (e.g. "http://localhost:5000").
// A base URL that already ends in /api/cuotas is used as is.
func NewClient(baseURL string, opts ...Option) *Client {
	u := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(u, Path) {
		u += Path
	}

	c := &Client{
		url: u,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout != nil {
		hc := *c.httpClient
		hc.Timeout = *c.timeout
		c.httpClient = &hc
	}
	return c
}

// URL returns the full endpoint URL
func (c *Client) URL() string {
	return c.url
}

// Describe implements SnapshotSource
func (c *Client) Describe() string {
	return c.url
}

// FetchSnapshot performs a single GET of the odds resource
func (c *Client) FetchSnapshot(ctx context.Context) (models.Snapshot, error) {
	body, err := c.doRequest(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot failed: %w", err)
	}

	snap, err := models.ParseSnapshot(body)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot response: %w", err)
	}

	return snap, nil
}

// doRequest performs a single HTTP request
func (c *Client) doRequest(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(body)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    msg,
		}
	}

	return body, nil
}

// HTTPError represents a non-2xx response
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}
