// Package remote issues JSON requests to the society backend and classifies
// failures into NetworkError and RequestError.
package remote

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

	"github.com/google/go-querystring/query"
)

// DefaultTimeout applies when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// maxErrorBody bounds how much of a failure body is read for its message.
const maxErrorBody = 64 << 10

// TokenFunc returns the bearer token to attach to a request, or "".
type TokenFunc func(ctx context.Context) string

// Client talks to the backend API rooted at a base URL.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	token   TokenFunc
}

// Options configures NewClient.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Logger  *slog.Logger
	// Transport defaults to http.DefaultTransport.
	Transport http.RoundTripper
	Token     TokenFunc
}

// NewClient validates the base URL and wraps the transport with request logging.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("remote: base url is required")
	}
	u, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("remote: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("remote: base url %q must be absolute", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: u,
		http: &http.Client{
			Timeout:   timeout,
			Transport: newLoggingTransport(opts.Transport, logger, u.Host),
		},
		token: opts.Token,
	}, nil
}

// Get fetches path with params encoded as query parameters (go-querystring
// `url` tags; nil for none) and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, params any, out any) error {
	u, err := c.resolve(path, params)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("remote: build request: %w", err)
	}
	return c.do(req, out)
}

// Post sends body as JSON to path and decodes the JSON response into out.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	u, err := c.resolve(path, nil)
	if err != nil {
		return err
	}
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("remote: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) resolve(path string, params any) (string, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if params != nil {
		v, err := query.Values(params)
		if err != nil {
			return "", fmt.Errorf("remote: encode query: %w", err)
		}
		u.RawQuery = v.Encode()
	}
	return u.String(), nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.token != nil {
		if tok := c.token(req.Context()); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Method: req.Method, URL: req.URL.Redacted(), Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return &RequestError{
			Method:  req.Method,
			URL:     req.URL.Redacted(),
			Status:  res.StatusCode,
			Message: errorMessage(body),
		}
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &RequestError{
			Method:  req.Method,
			URL:     req.URL.Redacted(),
			Status:  res.StatusCode,
			Message: "invalid response body",
		}
	}
	return nil
}

// errorMessage pulls a human-readable message out of a failure body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
