// Package graphql is the GraphQL transport of the cluster admin API.
//
// Every failure is returned as one of the apierr types: a response with a
// non-empty "errors" array becomes *apierr.GraphQLError, a non-200 answer
// without GraphQL errors becomes *apierr.TransportError, and a request that
// never got an answer becomes *apierr.NetworkError.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alnah/clusteradm/internal/apierr"
	"github.com/alnah/clusteradm/internal/logging"
)

const (
	// Path of the GraphQL endpoint relative to the cluster URL.
	DefaultPath = "/admin/api"

	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 2
	defaultBaseDelay  = 500 * time.Millisecond
	defaultMaxDelay   = 5 * time.Second

	// Response size limit to prevent OOM from malformed responses (10MB)
	maxResponseSize = 10 * 1024 * 1024
)

// ErrEmptyEndpoint indicates that no endpoint URL was provided.
var ErrEmptyEndpoint = errors.New("GraphQL endpoint is required")

// httpDoer abstracts the HTTP client for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client sends GraphQL operations to a single endpoint.
type Client struct {
	endpoint   string
	httpClient httpDoer
	timeout    time.Duration
	retry      apierr.RetryPolicy
	logger     logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client. The CLI passes a client with a
// cookie jar shared with the REST client so both carry the session.
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

// WithRetry sets the retry policy used for queries. Mutations are never retried.
func WithRetry(p apierr.RetryPolicy) Option {
	return func(cl *Client) {
		cl.retry = p
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

// New creates a Client for endpoint, the full URL of the GraphQL handler.
func New(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, ErrEmptyEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		timeout:  defaultTimeout,
		retry: apierr.RetryPolicy{
			MaxRetries: defaultMaxRetries,
			BaseDelay:  defaultBaseDelay,
			MaxDelay:   defaultMaxDelay,
		},
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

// Endpoint returns the URL the client posts to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Request is a GraphQL operation.
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

type response struct {
	Data   json.RawMessage           `json:"data"`
	Errors []apierr.GraphQLErrorItem `json:"errors"`
}

// Do sends req and decodes the "data" member into out (which may be nil).
// Queries are retried on network errors according to the retry policy.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	policy := apierr.NoRetry
	if isQuery(req.Query) {
		policy = c.retry
		policy.OnRetry = func(attempt int, err error, delay time.Duration) {
			c.logger.Warn(ctx, "retrying graphql query", "op", req.OperationName, "attempt", attempt, "delay", delay, "err", err)
		}
	}

	_, err := apierr.RetryWithBackoff(ctx, policy, func() (struct{}, error) {
		return struct{}{}, c.do(ctx, req, out)
	}, apierr.IsNetworkError)
	return err
}

// isQuery reports whether the document is a read-only operation.
func isQuery(doc string) bool {
	d := strings.TrimSpace(doc)
	return !strings.HasPrefix(d, "mutation") && !strings.HasPrefix(d, "subscription")
}

func (c *Client) do(ctx context.Context, req Request, out any) (err error) {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		c.logger.Debug(ctx, "graphql request failed", "op", req.OperationName, "err", err)
		return &apierr.NetworkError{URL: c.endpoint, Err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &apierr.NetworkError{URL: c.endpoint, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	c.logger.Debug(ctx, "graphql request", "op", req.OperationName, "status", resp.StatusCode, "elapsed", time.Since(start))

	var parsed response
	if jsonErr := json.Unmarshal(respBody, &parsed); jsonErr != nil {
		if resp.StatusCode != http.StatusOK {
			return &apierr.TransportError{Status: resp.StatusCode, ResponseText: string(respBody)}
		}
		return fmt.Errorf("failed to parse response: %w", jsonErr)
	}

	if len(parsed.Errors) > 0 {
		return &apierr.GraphQLError{Errors: parsed.Errors}
	}
	if resp.StatusCode != http.StatusOK {
		return &apierr.TransportError{Status: resp.StatusCode, ResponseText: string(respBody)}
	}

	if out == nil || len(parsed.Data) == 0 || string(parsed.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(parsed.Data, out); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}
	return nil
}
