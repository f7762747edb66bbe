package gateway

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
)

// ErrRequestFailed marks transport-level failures: connection refused, DNS,
// timeout. There is no HTTP status to report in these cases.
var ErrRequestFailed = errors.New("request failed")

// TokenSource yields the current bearer token, or "" when no session exists.
// It is consulted on every request so a login or logout takes effect on the
// next call without any propagation.
type TokenSource interface {
	Token() string
}

// APIError is a non-2xx response translated into a single error value. The
// gateway is the only place this translation happens; callers surface
// Message as-is.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Client is the single outbound HTTP client: one base URL, default headers,
// bearer injection and a fixed timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        *slog.Logger
}

const requestTimeout = 10 * time.Second

func New(baseURL string, tokens TokenSource, log *slog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("gateway: base URL is empty")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		tokens: tokens,
		log:    log,
	}, nil
}

// Do issues one request and returns the raw response body. body is JSON
// encoded when non-nil. Non-2xx responses come back as *APIError; transport
// failures wrap ErrRequestFailed.
func (c *Client) Do(ctx context.Context, method, path string, body any, params url.Values) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, translateStatus(resp.StatusCode, raw)
	}

	return raw, nil
}

func (c *Client) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, path, nil, params)
}

func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, path, body, nil)
}

func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPut, path, body, nil)
}

func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// translateStatus prefers the server-supplied message and falls back to a
// synthesized "Error <status>: <text>" string.
func translateStatus(status int, raw []byte) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return &APIError{Status: status, Message: body.Message}
	}
	return &APIError{Status: status, Message: fmt.Sprintf("Error %d: %s", status, http.StatusText(status))}
}

// StaticToken adapts a fixed string to TokenSource, mostly for tests.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }
