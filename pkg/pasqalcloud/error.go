package pasqalcloud

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error represents a Pasqal Cloud API error response.
type Error struct {
	// Code is the service error code.
	Code int `json:"code"`

	// Message is the human-readable description.
	Message string `json:"message"`

	// Status is the envelope status, e.g. "fail" or "error".
	Status string `json:"status"`

	// HTTPStatus is the HTTP status code of the response.
	HTTPStatus int `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("pasqalcloud: %s (code=%d, http=%d)", e.Message, e.Code, e.HTTPStatus)
}

// IsRateLimit returns true if this is a rate limit error.
func (e *Error) IsRateLimit() bool {
	return e.HTTPStatus == http.StatusTooManyRequests
}

// IsServerError returns true if this is a server-side error.
func (e *Error) IsServerError() bool {
	return e.HTTPStatus >= 500
}

// Retryable returns true if the request can be retried.
func (e *Error) Retryable() bool {
	return e.IsRateLimit() || e.IsServerError()
}

// AsError extracts *Error from an error.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// parseError parses an error response body.
func parseError(body []byte, httpStatus int) error {
	var apiErr Error
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		apiErr.HTTPStatus = httpStatus
		return &apiErr
	}
	return &Error{
		Message:    string(body),
		HTTPStatus: httpStatus,
	}
}
