package pasqalcloud

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the Pasqal Cloud API base URL.
	DefaultBaseURL = "https://apis.pasqal.cloud"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the default maximum number of retries for
	// transient errors.
	DefaultMaxRetries = 5
)

// Client is the Pasqal Cloud API client.
type Client struct {
	// Batches provides batch submission and lifecycle operations.
	Batches *BatchService

	config *clientConfig
	http   *httpClient
}

// clientConfig holds the client configuration.
type clientConfig struct {
	token      string
	projectID  string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
}

// Option is a function that configures the client.
type Option func(*clientConfig)

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetry sets the maximum number of retries for transient errors.
func WithRetry(maxRetries int) Option {
	return func(c *clientConfig) {
		c.maxRetries = maxRetries
	}
}

// NewClient creates a new Pasqal Cloud API client. The token is sent
// as a bearer token; projectID scopes every created batch.
func NewClient(token, projectID string, opts ...Option) *Client {
	cfg := &clientConfig{
		token:      token,
		projectID:  projectID,
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{
			Timeout: cfg.timeout,
		}
	}

	c := &Client{
		config: cfg,
		http:   newHTTPClient(cfg),
	}

	c.Batches = &BatchService{client: c}

	return c
}

// ProjectID returns the configured project ID.
func (c *Client) ProjectID() string {
	return c.config.projectID
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.config.baseURL
}

// AuthInfo returns the account auth information document for the
// configured token.
func (c *Client) AuthInfo(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.http.request(ctx, http.MethodGet, "/account/api/v1/auth/info", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeviceSpecs returns the specifications of the devices available to
// the account, keyed by device type.
func (c *Client) DeviceSpecs(ctx context.Context) (map[string]json.RawMessage, error) {
	var out struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := c.http.request(ctx, http.MethodGet, "/core-fast/api/v1/devices/specs", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}
