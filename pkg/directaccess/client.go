package directaccess

import (
	"context"
	"net/http"
	"time"

	"github.com/qiskit-community/qrmi-go/pkg/ibmcloud/iam"
	"github.com/qiskit-community/qrmi-go/pkg/objectstore"
)

const (
	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the default maximum number of retries for
	// transient errors.
	DefaultMaxRetries = 5
)

// Client is the Direct Access API client.
type Client struct {
	// Backends provides backend discovery operations.
	Backends *BackendService

	// Jobs provides job submission and lifecycle operations.
	Jobs *JobService

	// Sessions provides session operations.
	Sessions *SessionService

	config *clientConfig
	http   *httpClient
}

// clientConfig holds the client configuration.
type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
	tokens     *iam.TokenSource
	serviceCRN string
	store      *objectstore.Client
}

// Option is a function that configures the client.
type Option func(*clientConfig)

// WithIAM authenticates requests with an IBM Cloud IAM API key. Access
// tokens are fetched from iamEndpoint, cached and refreshed
// transparently; serviceCRN identifies the Direct Access service
// instance.
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

// WithObjectStore sets the S3 bucket client used by RunPrimitive to
// exchange job payloads with the service.
func WithObjectStore(store *objectstore.Client) Option {
	return func(c *clientConfig) {
		c.store = store
	}
}

// NewClient creates a new Direct Access API client.
//
// Example:
//
//	client := directaccess.NewClient("http://localhost:8290",
//	    directaccess.WithIAM(apiKey, serviceCRN, iam.DefaultEndpoint),
//	)
func NewClient(baseURL string, opts ...Option) *Client {
	cfg := &clientConfig{
		baseURL:    baseURL,
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

	c.Backends = &BackendService{client: c}
	c.Jobs = &JobService{client: c}
	c.Sessions = &SessionService{client: c}

	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.config.baseURL
}

// Version returns the Direct Access API service version.
func (c *Client) Version(ctx context.Context) (string, error) {
	var out struct {
		Version string `json:"version"`
	}
	if err := c.http.request(ctx, http.MethodGet, "/version", nil, &out); err != nil {
		return "", err
	}
	return out.Version, nil
}
