package qiskitruntime

import (
	"net/http"
	"time"

	"github.com/qiskit-community/qrmi-go/pkg/ibmcloud/iam"
)

const (
	// DefaultAPIVersion is the IBM-API-Version header value sent with
	// every request.
	DefaultAPIVersion = "2025-05-01"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the default maximum number of retries for
	// transient errors.
	DefaultMaxRetries = 5
)

// Client is the Qiskit Runtime API client.
type Client struct {
	// Jobs provides job operations.
	Jobs *JobService

	// Sessions provides session operations.
	Sessions *SessionService

	// Backends provides backend discovery operations.
	Backends *BackendService

	// Usage provides account usage operations.
	Usage *UsageService

	config *clientConfig
	http   *httpClient
}

// clientConfig holds the client configuration.
type clientConfig struct {
	baseURL    string
	apiVersion string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
	tokens     *iam.TokenSource
	serviceCRN string
}

// Option is a function that configures the client.
type Option func(*clientConfig)

// WithIAM authenticates requests with an IBM Cloud IAM API key.
func WithIAM(apiKey, serviceCRN, iamEndpoint string) Option {
	return func(c *clientConfig) {
		c.tokens = iam.NewTokenSource(apiKey, iamEndpoint)
		c.serviceCRN = serviceCRN
	}
}

// WithTokenSource authenticates requests with a pre-built IAM token
// source.
func WithTokenSource(ts *iam.TokenSource, serviceCRN string) Option {
	return func(c *clientConfig) {
		c.tokens = ts
		c.serviceCRN = serviceCRN
	}
}

// WithAPIVersion overrides the IBM-API-Version header value.
func WithAPIVersion(version string) Option {
	return func(c *clientConfig) {
		c.apiVersion = version
	}
}

// WithHTTPClient sets a custom HTTP client. Authentication headers are
// still applied on top of it.
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

// NewClient creates a new Qiskit Runtime API client.
func NewClient(baseURL string, opts ...Option) *Client {
	cfg := &clientConfig{
		baseURL:    baseURL,
		apiVersion: DefaultAPIVersion,
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
	if cfg.tokens != nil {
		headers := map[string]string{}
		if cfg.serviceCRN != "" {
			headers["Service-CRN"] = cfg.serviceCRN
		}
		cfg.httpClient = &http.Client{
			Timeout: cfg.httpClient.Timeout,
			Transport: &iam.Transport{
				Source:  cfg.tokens,
				Base:    cfg.httpClient.Transport,
				Headers: headers,
			},
		}
	}

	c := &Client{
		config: cfg,
		http:   newHTTPClient(cfg),
	}

	c.Jobs = &JobService{client: c}
	c.Sessions = &SessionService{client: c}
	c.Backends = &BackendService{client: c}
	c.Usage = &UsageService{client: c}

	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.config.baseURL
}
