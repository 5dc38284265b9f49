// Package api is the client of the restaurant backend REST API.
//
// Every list endpoint answers GET requests with the envelope
// {"items": [...], "total": n, "totalPages": n, "page": n}. List decodes it into a
// listctl.Result and Fetcher adapts it to a listctl.FetchFunc.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rshade/bistro/internal/logging"
)

// Client defaults.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "bistro"

	// maxErrorBody bounds how much of a failed response is kept in StatusError.
	maxErrorBody = 4 << 10
)

// Header names sent with every request.
const (
	HeaderRequestID = "X-Request-ID"
	HeaderAccept    = "Accept"
	HeaderAuth      = "Authorization"
	HeaderUA        = "User-Agent"
)

// ErrMalformedResponse wraps response bodies that are not the expected JSON document.
var ErrMalformedResponse = errors.New("malformed response")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("backend returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// ClientConfig holds the settings of a Client.
type ClientConfig struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	UserAgent string
}

// Client talks to one backend. It is safe for concurrent use.
type Client struct {
	BaseURL    string
	Token      string
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient creates a client from cfg.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &Client{
		BaseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		Token:      cfg.Token,
		UserAgent:  ua,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// get issues GET {BaseURL}/{path}?{params} and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u, err := url.Parse(c.BaseURL + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("building url for %s: %w", path, err)
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	requestID := logging.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = logging.NewID()
	}
	req.Header.Set(HeaderAccept, "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if c.UserAgent != "" {
		req.Header.Set(HeaderUA, c.UserAgent)
	}
	if c.Token != "" {
		req.Header.Set(HeaderAuth, "Bearer "+c.Token)
	}

	log := logging.FromContext(ctx)
	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Debug().Ctx(ctx).Str("component", "api").Str("url", u.String()).Err(err).Msg("request failed")
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	log.Debug().Ctx(ctx).
		Str("component", "api").
		Str("url", u.String()).
		Int("status", resp.StatusCode).
		Dur("duration_ms", time.Since(start)).
		Msg("request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response of %s: %w", path, err)
	}
	return body, nil
}
