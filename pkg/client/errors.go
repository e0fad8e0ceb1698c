package client

import (
	"errors"
	"fmt"
)

// TransportFailureMessage is surfaced when no HTTP response was received.
const TransportFailureMessage = "network error: could not reach the server"

// ErrNotAuthenticated is returned by authenticated calls when no token is present.
// No request is sent in that case.
var ErrNotAuthenticated = errors.New("not logged in")

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string

	// fromBody is set when Message was extracted from the response body
	// rather than derived from the status code.
	fromBody bool
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// TransportError represents a request that never produced an HTTP response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", TransportFailureMessage, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError is a client-side input check that failed before any request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// Message returns the human-readable part of err for display.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return TransportFailureMessage
	}
	if errors.Is(err, ErrNotAuthenticated) {
		return ErrNotAuthenticated.Error()
	}
	return err.Error()
}

// MessageOr returns Message(err) for HTTP failures that carried a body message,
// and fallback for everything else. Forms use it to mirror "server said X, else
// a generic sentence".
func MessageOr(err error, fallback string) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.fromBody {
		return httpErr.Message
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	return fallback
}
