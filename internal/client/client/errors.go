package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable covers transport failures and gateway statuses.
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized is returned for 401 and 403.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is returned for 404.
	ErrNotFound = errors.New("not found")
	// ErrRequestFailed matches every *StatusError.
	ErrRequestFailed = errors.New("request failed")
	// ErrMalformedResponse is returned when a 2xx body lacks what the call needs.
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError is a non-2xx answer that has no dedicated sentinel.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool { return target == ErrRequestFailed }
