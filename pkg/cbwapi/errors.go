package cbwapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ExitConfiguration is the process exit status for a client that cannot be
// built because its target address is missing or invalid.
const ExitConfiguration = -1

var (
	ErrConfiguration   = errors.New("cbwapi: configuration error")
	ErrUnauthorized    = errors.New("cbwapi: unauthorized")
	ErrNotFound        = errors.New("cbwapi: not found")
	ErrMissingID       = errors.New("cbwapi: missing identifier")
	ErrUnexpectedBody  = errors.New("cbwapi: unexpected response body")
	ErrUnknownResource = errors.New("cbwapi: unknown resource")
)

// ConfigurationError reports a client that can never issue a request.
type ConfigurationError struct {
	URL    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("cbwapi: invalid configuration: %s", e.Reason)
	}
	return fmt.Sprintf("cbwapi: invalid configuration %q: %s", e.URL, e.Reason)
}

// Is makes errors.Is(err, ErrConfiguration) match.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// APIError is a non-2xx answer from the API.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Unwrap maps authentication and lookup statuses onto sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// ExitCode converts an error returned by this package into a process status:
// 0 for nil, ExitConfiguration for configuration errors and 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrConfiguration):
		return ExitConfiguration
	default:
		return 1
	}
}
