// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/mesdesk/internal/security"
	"github.com/jeranaias/mesdesk/internal/session"
)

// Configuration constants for the API client.
const (
	// DefaultBaseURL is the address of a locally running MES API.
	DefaultBaseURL = "http://127.0.0.1:8080"

	// DefaultTimeout bounds a whole request, including reading the body.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent on every request unless overridden.
	DefaultUserAgent = "mesdesk/1.0"

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// RequestIDHeader carries a per-request correlation id.
	RequestIDHeader = "X-Request-ID"
)

// sharedTransport pools connections for every Client that does not bring
// its own http.Client or TLS config.
var sharedTransport = security.NewHTTPTransport(security.ClientTLSConfig())

// =============================================================================
// CLIENT
// =============================================================================

// Client builds and executes requests against the MES API.
//
// Raw requests carry no credentials. Authenticated requests take their
// Authorization header from the session store.
type Client struct {
	baseURL    string
	store      *session.Store
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a client for baseURL that authenticates from store.
// An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, store *session.Store) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if store == nil {
		store = session.NewStore()
	}
	return &Client{
		baseURL: strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		store:   store,
		httpClient: &http.Client{
			Transport: sharedTransport,
			Timeout:   DefaultTimeout,
		},
		userAgent: DefaultUserAgent,
	}
}

// WithTimeout sets the request timeout. Zero or negative values are ignored.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client. Tests use it to point
// at httptest servers.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithTLSConfig gives the client its own transport with the given TLS
// settings. A config that disables verification or allows weak ciphers is
// rejected and the current transport kept.
func (c *Client) WithTLSConfig(config *tls.Config) *Client {
	if err := security.ValidateTLSConfig(config); err != nil {
		log.Printf("auth: ignoring TLS config: %v", err)
		return c
	}
	c.httpClient.Transport = security.NewHTTPTransport(config)
	return c
}

// WithUserAgent sets the User-Agent header.
func (c *Client) WithUserAgent(ua string) *Client {
	if ua != "" {
		c.userAgent = ua
	}
	return c
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Store returns the session store the client authenticates from.
func (c *Client) Store() *session.Store {
	return c.store
}

// Timeout returns the configured request timeout.
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// =============================================================================
// REQUEST BUILDERS
// =============================================================================

// NewRawRequest builds a request without an Authorization header. It is used
// for login and health checks, which must never carry a stale token.
//
// body may be nil, a []byte or json.RawMessage sent as-is, an io.Reader, or
// any other value, which is encoded as JSON.
func (c *Client) NewRawRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	reader, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

// Get builds an authenticated GET request.
func (c *Client) Get(ctx context.Context, path string) (*http.Request, error) {
	return c.newAuthRequest(ctx, http.MethodGet, path, nil)
}

// Post builds an authenticated POST request.
func (c *Client) Post(ctx context.Context, path string, body any) (*http.Request, error) {
	return c.newAuthRequest(ctx, http.MethodPost, path, body)
}

// Put builds an authenticated PUT request.
func (c *Client) Put(ctx context.Context, path string, body any) (*http.Request, error) {
	return c.newAuthRequest(ctx, http.MethodPut, path, body)
}

// Delete builds an authenticated DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*http.Request, error) {
	return c.newAuthRequest(ctx, http.MethodDelete, path, nil)
}

// NewRequest builds an authenticated request for any method.
func (c *Client) NewRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	return c.newAuthRequest(ctx, strings.ToUpper(method), path, body)
}

// newAuthRequest is the single place authenticated requests are built. The
// session is checked before anything else, so an expired or missing session
// never reaches the network.
func (c *Client) newAuthRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	header, ok := c.store.AuthHeader()
	if !ok {
		return nil, ErrNotLoggedIn
	}

	req, err := c.NewRawRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", header)
	return req, nil
}

// =============================================================================
// EXECUTION
// =============================================================================

// Do sends the request. It stamps a request id and logs method, path,
// status and duration. Headers and bodies are never logged.
//
// Any failure to get a response wraps ErrTransport. The caller must close
// the response body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}

	log.Printf("API Request: %s %s [%s]", req.Method, req.URL.Path, req.Header.Get(RequestIDHeader))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		log.Printf("API Request failed: %s %s after %v", req.Method, req.URL.Path, duration)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, req.Method, req.URL.Path, err)
	}

	log.Printf("API Response: %d %s %s (%v)", resp.StatusCode, req.Method, req.URL.Path, duration)
	return resp, nil
}

// DoJSON sends the request and decodes the body into out, whatever the
// HTTP status. It returns the status code so callers can still inspect it.
func (c *Client) DoJSON(req *http.Request, out any) (int, error) {
	resp, err := c.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := ReadBody(resp)
	if err != nil {
		return resp.StatusCode, err
	}

	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: %s %s (HTTP %d): %w",
			ErrMalformedResponse, req.Method, req.URL.Path, resp.StatusCode, err)
	}
	return resp.StatusCode, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// resolve joins path onto the base URL. Absolute URLs pass through.
func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// encodeBody turns a request body value into a reader.
func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(b), nil
	case json.RawMessage:
		return bytes.NewReader(b), nil
	case string:
		return strings.NewReader(b), nil
	case io.Reader:
		return b, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		return bytes.NewReader(data), nil
	}
}

// ReadBody reads the response body, failing with ErrMalformedResponse if
// it is larger than MaxResponseSize.
func ReadBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrMalformedResponse, err)
	}

	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("%w: response exceeded maximum size of %d bytes", ErrMalformedResponse, MaxResponseSize)
	}

	return body, nil
}
