// Package errors provides the error taxonomy for the gateway. Every failure
// that leaves the service is expressed as an APIError with a stable HTTP
// status and a client-safe message; anything unclassified is lifted to an
// internal error at the interceptor boundary.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind is the closed set of distinguishable error kinds.
type Kind string

const (
	// KindValidation indicates malformed or missing input.
	KindValidation Kind = "VALIDATION_ERROR"
	// KindNotFound indicates a referenced resource or route does not exist.
	KindNotFound Kind = "NOT_FOUND_ERROR"
	// KindAuthentication indicates missing or invalid credentials, or
	// insufficient permission.
	KindAuthentication Kind = "AUTHENTICATION_ERROR"
	// KindInternal covers any uncaught or unclassified failure.
	KindInternal Kind = "INTERNAL_ERROR"
)

// ErrMalformedRequest signals a dispatch-level bad request (unparseable
// syntax, broken body). The interceptor maps it to the fixed 400 body rather
// than through the taxonomy.
var ErrMalformedRequest = stderrors.New("malformed request")

// APIError is a classified failure. It is immutable once constructed and
// request-scoped; InternalDetails is logged server-side and never placed in
// the client-visible message.
type APIError struct {
	Kind            Kind
	StatusCode      int
	Message         string
	InternalDetails string
	Cause           error
}

// Error returns the string representation of the error.
func (e *APIError) Error() string {
	if e.InternalDetails != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.InternalDetails)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *APIError) Unwrap() error { return e.Cause }

// WithDetails sets the server-side diagnostic string and returns the receiver.
func (e *APIError) WithDetails(details string) *APIError {
	e.InternalDetails = details
	return e
}

// --- Constructors ---

// Validation creates an APIError for malformed or missing input.
func Validation(message string) *APIError {
	return &APIError{
		Kind:       KindValidation,
		StatusCode: http.StatusBadRequest,
		Message:    message,
	}
}

// NotFound creates an APIError for a missing resource.
func NotFound(resource string) *APIError {
	return &APIError{
		Kind:       KindNotFound,
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("The requested %s was not found.", resource),
	}
}

// Unauthorized creates an APIError for missing or invalid credentials.
func Unauthorized(reason string) *APIError {
	if reason == "" {
		reason = "Authentication required."
	}
	return &APIError{
		Kind:       KindAuthentication,
		StatusCode: http.StatusUnauthorized,
		Message:    reason,
	}
}

// Forbidden creates an APIError for insufficient permission.
func Forbidden(reason string) *APIError {
	if reason == "" {
		reason = "You don't have permission to perform this action."
	}
	return &APIError{
		Kind:       KindAuthentication,
		StatusCode: http.StatusForbidden,
		Message:    reason,
	}
}

// Internal creates an APIError for an unclassified failure. The client sees
// only the generic message; the cause is kept in InternalDetails for logging.
func Internal(cause error) *APIError {
	e := &APIError{
		Kind:       KindInternal,
		StatusCode: http.StatusInternalServerError,
		Message:    "Server Error",
		Cause:      cause,
	}
	if cause != nil {
		e.InternalDetails = cause.Error()
	}
	return e
}

// Classify converts any failure into an APIError. Recognized errors
// (including wrapped ones) pass through unchanged; everything else is lifted
// to KindInternal. Classify never fails; it is the last line of defense.
func Classify(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}
	return Internal(err)
}

// IsAPIError reports whether err is (or wraps) an APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return stderrors.As(err, &apiErr)
}

// AsAPIError converts err to an APIError if possible.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
