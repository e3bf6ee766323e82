package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrTimeout marks a request that was cut off by a client-side deadline.
// It is distinct from ordinary connectivity failures so callers can show
// a timeout-specific message.
var ErrTimeout = errors.New("request timed out")

// APIError is an application-level failure reported by the backend,
// carrying the server-supplied message when one was present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// IsTimeout reports whether err was caused by a client-side deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// IsNotFound reports whether the backend answered 404 for the request.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsAPIError reports whether err carries an application-level failure,
// as opposed to a transport problem.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
