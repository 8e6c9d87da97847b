package iam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

const (
	// DefaultEndpoint is the public IBM Cloud IAM endpoint.
	DefaultEndpoint = "https://iam.cloud.ibm.com"

	// grantType is the IAM grant for API key to access token exchange.
	grantType = "urn:ibm:params:oauth:grant-type:apikey"
)

// expiryFraction shortens the advertised token lifetime so a refresh
// happens before the service starts rejecting the token.
const expiryFraction = 0.9

// Error is an IAM error response.
type Error struct {
	// Code is the IAM error code, e.g. "BXNIM0415E".
	Code string `json:"errorCode"`

	// Message is the error message.
	Message string `json:"errorMessage"`

	// Details carries additional context when present.
	Details string `json:"errorDetails"`

	// HTTPStatus is the HTTP status code of the token response.
	HTTPStatus int `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("iam: %s (%s)", e.Details, e.Code)
	}
	return fmt.Sprintf("iam: %s (%s)", e.Message, e.Code)
}

// tokenResponse is the body of a successful POST /identity/token.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Expiration  int64  `json:"expiration"`
}

// TokenSource fetches and caches IAM access tokens for an API key.
// It implements oauth2.TokenSource and is safe for concurrent use.
type TokenSource struct {
	apiKey   string
	endpoint string
	client   *http.Client

	mu    sync.Mutex
	token *oauth2.Token
}

// TokenSourceOption configures a TokenSource.
type TokenSourceOption func(*TokenSource)

// WithHTTPClient sets the HTTP client used for token requests.
func WithHTTPClient(client *http.Client) TokenSourceOption {
	return func(ts *TokenSource) {
		ts.client = client
	}
}

// NewTokenSource creates a TokenSource for the given API key.
// If endpoint is empty, DefaultEndpoint is used.
func NewTokenSource(apiKey, endpoint string, opts ...TokenSourceOption) *TokenSource {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	ts := &TokenSource{
		apiKey:   apiKey,
		endpoint: strings.TrimSuffix(endpoint, "/"),
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(ts)
	}
	return ts
}

// Token returns the cached token, fetching a new one if the cache is
// empty or the token is near expiry.
func (ts *TokenSource) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.token.Valid() {
		return ts.token, nil
	}
	return ts.fetchLocked(context.Background())
}

// Refresh discards the cached token and fetches a new one. It is used
// by Transport after a 401 response.
func (ts *TokenSource) Refresh(ctx context.Context) (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.token = nil
	return ts.fetchLocked(ctx)
}

// fetchLocked exchanges the API key for a token. Callers must hold mu.
func (ts *TokenSource) fetchLocked(ctx context.Context) (*oauth2.Token, error) {
	form := url.Values{
		"grant_type": {grantType},
		"apikey":     {ts.apiKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		ts.endpoint+"/identity/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var iamErr Error
		if err := json.Unmarshal(body, &iamErr); err == nil && iamErr.Code != "" {
			iamErr.HTTPStatus = resp.StatusCode
			return nil, &iamErr
		}
		return nil, fmt.Errorf("iam: token request failed: %s (%d)", body, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("unmarshal token response: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("iam: token response has no access_token")
	}

	lifetime := time.Duration(float64(tr.ExpiresIn)*expiryFraction) * time.Second
	ts.token = &oauth2.Token{
		AccessToken: tr.AccessToken,
		TokenType:   tr.TokenType,
		Expiry:      time.Now().Add(lifetime),
	}
	return ts.token, nil
}
