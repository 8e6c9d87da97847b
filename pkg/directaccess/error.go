package directaccess

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorDetail is a single entry of the API error envelope.
type ErrorDetail struct {
	// Code is the service error code, e.g. "1217".
	Code string `json:"code"`

	// Location points at the request element the error refers to.
	Location string `json:"location,omitempty"`

	// Message is the human-readable description.
	Message string `json:"message"`

	// MoreInfo is a URL with further documentation.
	MoreInfo string `json:"more_info"`

	// Value is the offending value, if any.
	Value string `json:"value,omitempty"`
}

// Error represents a Direct Access API error response.
type Error struct {
	// StatusCode is the status code echoed in the error envelope.
	StatusCode int `json:"status_code"`

	// Title is the error summary.
	Title string `json:"title"`

	// Trace is the request trace ID for support tickets.
	Trace string `json:"trace"`

	// Errors lists the individual error details.
	Errors []ErrorDetail `json:"errors"`

	// HTTPStatus is the HTTP status code of the response.
	HTTPStatus int `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "directaccess: %s (status=%d, trace=%s)", e.Title, e.StatusCode, e.Trace)
	for _, d := range e.Errors {
		fmt.Fprintf(&sb, "; %s: %s", d.Code, d.Message)
	}
	return sb.String()
}

// IsNotFound returns true if the requested resource does not exist.
func (e *Error) IsNotFound() bool {
	return e.HTTPStatus == http.StatusNotFound
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
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Title != "" {
		apiErr.HTTPStatus = httpStatus
		return &apiErr
	}
	return &Error{
		StatusCode: httpStatus,
		Title:      string(body),
		HTTPStatus: httpStatus,
	}
}
