package apiclient

import (
	"fmt"
	"net/http"
)

// TransportError is returned when the request never produced a usable response
// (connection refused, timeout, cancelled context, truncated body).
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is returned for any non-2xx answer. Body holds the response body as sent.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api returned status: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Unauthorized reports whether the backend rejected the credentials.
func (e *StatusError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
