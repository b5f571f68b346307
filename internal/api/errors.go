package api

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
)

// APIError is a rejection from the server: it answered, and said no.
// Distinct from network-class failures, which are candidates for queueing.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// IsNetworkError reports whether err is a connectivity-class failure (the
// request never got a server answer), as opposed to a server rejection.
// Detection is structural; error message strings are never inspected.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH)
}
