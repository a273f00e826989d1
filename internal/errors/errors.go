// Package errors provides the API error model for the portfolio beta
// service: structured APIError values for handlers, RFC 7807 problem
// responses, and the sentinel errors the normalization pipeline reports
// per uploaded file.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// Sentinel errors for upload normalization. Both abort processing of a
// single uploaded file; the web layer decides whether one failing file
// fails the whole batch.
var (
	// ErrHeaderNotFound means no row in the scanned window qualified as
	// a header row.
	ErrHeaderNotFound = errors.New("could not detect table header row")
	// ErrISINColumnMissing means the header row carries no ISIN column.
	ErrISINColumnMissing = errors.New("ISIN column not found")
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error types for common scenarios
var (
	// 400 Bad Request
	ErrInvalidRequest   = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrMissingFiles     = New(http.StatusBadRequest, "MISSING_FILES", "At least one file is required")
	ErrUnsupportedFile  = New(http.StatusBadRequest, "UNSUPPORTED_FILE", "Unsupported file type")
	ErrInvalidDate      = New(http.StatusBadRequest, "INVALID_DATE", "Invalid valuation date, expected YYYY-MM-DD")

	// 404 Not Found
	ErrNotFound = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")

	// 413 Payload Too Large
	ErrPayloadTooLarge = New(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Upload exceeds the maximum allowed size")

	// 422 Unprocessable Entity
	ErrNoValidSecurities = New(http.StatusUnprocessableEntity, "NO_VALID_SECURITIES", "Unable to calculate portfolio beta")

	// 429 Too Many Requests
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")

	// 500 Internal Server Error
	ErrInternalServer = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")

	// 503 Service Unavailable
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Service temporarily unavailable")
)

// FileError creates an input-format error for one uploaded file. The
// filename is carried so multi-file uploads surface which file failed.
func FileError(filename string, err error) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		"INVALID_FILE",
		fmt.Sprintf("%s: %s", filename, err.Error()),
		map[string]string{"file": filename},
	)
}
