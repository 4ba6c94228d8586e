// Package rest is the REST transport of the cluster admin API: session
// login/logout and the clusterwide configuration document.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alnah/clusteradm/internal/apierr"
	"github.com/alnah/clusteradm/internal/logging"
)

// Endpoint paths relative to the cluster URL.
const (
	PathLogin  = "/login"
	PathLogout = "/logout"
	PathConfig = "/admin/config"
)

const (
	// Adapter is recorded on every RequestError this client produces.
	Adapter = "http"

	defaultTimeout  = 30 * time.Second
	maxResponseSize = 10 * 1024 * 1024
)

// ErrEmptyBaseURL indicates that no cluster URL was provided.
var ErrEmptyBaseURL = errors.New("cluster URL is required")

// httpDoer abstracts the HTTP client for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues REST calls against a cluster instance.
type Client struct {
	baseURL    string
	httpClient httpDoer
	timeout    time.Duration
	logger     logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c httpDoer) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// New creates a Client for the cluster at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: defaultTimeout,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

// Login posts the credentials as a form. The session cookie set by the
// server ends up in the HTTP client's jar. A 403 answer means the
// credentials were rejected and is reported as apierr.ErrAuthFailed.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	_, err := c.send(ctx, http.MethodPost, PathLogin, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		var te *apierr.TransportError
		var re *apierr.RequestError
		if (errors.As(err, &te) && te.Status == http.StatusForbidden) ||
			(errors.As(err, &re) && re.Response != nil && re.Response.Status == http.StatusForbidden) {
			return fmt.Errorf("login as %q: %w", username, apierr.ErrAuthFailed)
		}
		return err
	}
	return nil
}

// Logout ends the current session.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.send(ctx, http.MethodPost, PathLogout, "", nil)
	return err
}

// DownloadConfig returns the clusterwide configuration as YAML.
func (c *Client) DownloadConfig(ctx context.Context) ([]byte, error) {
	return c.send(ctx, http.MethodGet, PathConfig, "", nil)
}

// UploadConfig replaces the clusterwide configuration with doc.
func (c *Client) UploadConfig(ctx context.Context, doc []byte) error {
	_, err := c.send(ctx, http.MethodPut, PathConfig, "application/yaml", bytes.NewReader(doc))
	return err
}

func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader) (_ []byte, err error) {
	target := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		c.logger.Debug(ctx, "rest request failed", "method", method, "path", path, "err", err)
		return nil, &apierr.NetworkError{URL: target, Err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &apierr.NetworkError{URL: target, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	c.logger.Debug(ctx, "rest request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(method, target, resp.StatusCode, respBody)
	}
	return respBody, nil
}

// parseError turns a non-2xx answer into an apierr type: a structured
// {"class_name", "err"} body becomes a RequestError, anything else a
// TransportError.
func parseError(method, target string, status int, body []byte) error {
	var data apierr.ResponseData
	if json.Unmarshal(body, &data) == nil && (data.ClassName != "" || data.Err != "") {
		return &apierr.RequestError{
			Message:  fmt.Sprintf("Request failed with status code %d", status),
			Config:   &apierr.RequestConfig{Adapter: Adapter, Method: method, URL: target},
			Response: &apierr.Response{Status: status, Data: data},
		}
	}
	return &apierr.TransportError{Status: status, ResponseText: string(body)}
}
