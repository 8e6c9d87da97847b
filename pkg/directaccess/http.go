package directaccess

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Transient failures are retried with exponential backoff bounded to
// [retryMinInterval, retryMaxInterval].
const (
	retryMinInterval = 1 * time.Second
	retryMaxInterval = 5 * time.Second
	retryMultiplier  = 2
)

// httpClient handles HTTP communication with the Direct Access API.
type httpClient struct {
	client     *http.Client
	baseURL    string
	maxRetries int
}

// newHTTPClient creates a new HTTP client.
func newHTTPClient(cfg *clientConfig) *httpClient {
	return &httpClient{
		client:     cfg.httpClient,
		baseURL:    cfg.baseURL,
		maxRetries: cfg.maxRetries,
	}
}

// request makes an HTTP request to the API, retrying transient errors.
func (h *httpClient) request(ctx context.Context, method, path string, body any, result any) error {
	var bodyData []byte
	if body != nil {
		var err error
		bodyData, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = retryMinInterval
	policy.MaxInterval = retryMaxInterval
	policy.Multiplier = retryMultiplier

	op := func() error {
		err := h.doRequest(ctx, method, path, bodyData, result)
		if err == nil {
			return nil
		}
		if apiErr, ok := AsError(err); ok && !apiErr.Retryable() {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(policy, uint64(h.maxRetries)), ctx))
}

// doRequest performs a single HTTP request.
func (h *httpClient) doRequest(ctx context.Context, method, path string, bodyData []byte, result any) error {
	url := h.baseURL + path

	var bodyReader io.Reader
	if bodyData != nil {
		bodyReader = bytes.NewReader(bodyData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if bodyData != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(respBody, resp.StatusCode)
	}

	// POST /v1/jobs and the DELETE endpoints reply 204 with no body.
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}
