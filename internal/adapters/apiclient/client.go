package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ThanhNhiet/KLTN2025-Nhom043-SoLienLacDienTu-sub004/internal/domain"
)

// maxBodyBytes caps how much of a response body is read into memory.
const maxBodyBytes = 8 << 20

// ErrMissingBaseURL is returned by Get when the client was built without a base URL.
var ErrMissingBaseURL = errors.New("api base url is not configured")

// Config holds the backend location and request timeout.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying http.Client. Config.Timeout is ignored when this option is used.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTokenSource attaches a bearer token to every request.
func WithTokenSource(ts domain.TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger logs each outbound request.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// Client is the backend HTTP client. It resolves request targets against the base URL,
// injects the bearer token and turns non-2xx answers into *StatusError.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     domain.TokenSource
	logger     *slog.Logger
}

var _ domain.APIClient = (*Client)(nil)

// New returns a Client for cfg. Without WithHTTPClient a client with cfg.Timeout is used.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: DefaultHTTPClient(cfg.Timeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger != nil {
		hc := *c.httpClient
		hc.Transport = NewLoggingTransport(c.logger, hc.Transport)
		c.httpClient = &hc
	}
	return c
}

// DefaultHTTPClient returns an http.Client with the given timeout, falling back to 10s.
func DefaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// Get performs GET base+target and returns the raw body of a 2xx answer.
func (c *Client) Get(ctx context.Context, target string) (*domain.APIResponse, error) {
	if c.baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL.Redacted(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL.Redacted(), Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return &domain.APIResponse{StatusCode: resp.StatusCode, Data: body}, nil
}
