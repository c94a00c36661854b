package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAuthRequired is returned when no usable session is present.
	ErrAuthRequired = errors.New("authentication required")
	// ErrForbidden is returned when the session role is not allowed the action.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned when the requested resource does not exist upstream.
	ErrNotFound = errors.New("not found")
	// ErrUpstream is returned when the courier API could not be reached at all.
	ErrUpstream = errors.New("courier service unavailable")
)

// GenericMessage is shown when the upstream error body carries no usable message.
const GenericMessage = "request failed"

// APIError is a non-2xx response from the courier API, carrying the
// server-provided message verbatim when one was present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("courier api: %d %s", e.Status, e.Message)
}

// IsNotFound reports whether err represents a missing upstream resource.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusNotFound
	}
	return errors.Is(err, ErrNotFound)
}

// IsAuthFailure reports whether err means the upstream rejected our credentials.
func IsAuthFailure(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
	}
	return errors.Is(err, ErrAuthRequired) || errors.Is(err, ErrForbidden)
}

// UserMessage extracts the message to surface for err, falling back to a
// generic message when the error carries nothing user-facing.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrUpstream) {
		return ErrUpstream.Error()
	}
	return GenericMessage
}
