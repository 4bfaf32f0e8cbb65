package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// ErrUnauthorized is returned when the backend rejects the bearer token. By
// the time the caller sees it, the session has already been discarded and the
// console redirected to sign-in.
var ErrUnauthorized = errors.New("credentials rejected by backend")

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("resource not found")

// ErrConflict is returned for 409 responses (e.g. duplicate watchlist CUSIP).
var ErrConflict = errors.New("resource conflict")

// ClientOptions groups dependencies for NewClient.
type ClientOptions struct {
	// BaseURL is the API root, e.g. "http://localhost:8080/api".
	BaseURL string
	// State supplies the bearer token and absorbs forced logout on 401.
	State *AuthState
	// Navigate is the top-level navigation hook used for the forced
	// redirect to sign-in.
	Navigate    func(route string)
	SignInRoute string
	// HTTPClient is optional; the default carries a cookie jar backed by
	// the public suffix list and a 30s timeout.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client is the shared REST transport for all resource clients. Every request
// carries the current bearer token; a 401 response triggers the hard logout
// path: session discarded, navigation forced to sign-in, in-progress work
// abandoned.
type Client struct {
	base        string
	http        *http.Client
	state       *AuthState
	navigate    func(route string)
	signInRoute string
	logger      *slog.Logger
}

// NewClient constructs the shared REST transport.
func NewClient(opts ClientOptions) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		httpClient = &http.Client{Timeout: 30 * time.Second, Jar: jar}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		base:        strings.TrimSuffix(opts.BaseURL, "/"),
		http:        httpClient,
		state:       opts.State,
		navigate:    opts.Navigate,
		signInRoute: opts.SignInRoute,
		logger:      logger,
	}
}

// requestParams groups the variable parts of a REST call.
type requestParams struct {
	Method string
	Path   string     // joined onto the base URL
	Query  url.Values // optional
	Body   any        // JSON-encoded when non-nil
	Out    any        // JSON-decoded into when non-nil and 2xx
}

func (c *Client) do(ctx context.Context, p requestParams) error {
	var body io.Reader
	if p.Body != nil {
		b, err := json.Marshal(p.Body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	u := c.base + p.Path
	if len(p.Query) > 0 {
		u += "?" + p.Query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, p.Method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if p.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.state.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", p.Method, p.Path, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.forceLogout()
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", p.Method, p.Path, ErrNotFound)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%s %s: %w", p.Method, p.Path, ErrConflict)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%s %s: %s", p.Method, p.Path, apiErrorMessage(resp.Body, resp.Status))
	}

	if p.Out != nil {
		if err := json.NewDecoder(resp.Body).Decode(p.Out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// forceLogout implements the expired-session policy: the session is discarded
// and the console hard-redirects to sign-in. Unsaved work on protected
// screens is lost by design.
func (c *Client) forceLogout() {
	if err := c.state.Logout(); err != nil {
		c.logger.Warn("logout after 401 failed", "error", err)
	}
	if c.navigate != nil {
		c.navigate(c.signInRoute)
	}
}

// apiErrorMessage extracts the server's error envelope, falling back to the
// HTTP status line.
func apiErrorMessage(body io.Reader, status string) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return status
}
