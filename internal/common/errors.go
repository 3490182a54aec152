// Package common defines shared constants and sentinel errors used across
// client layers of Minuend. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Credential errors (malformed token, unexpected claims).
	ErrInvalidToken = errors.New("invalid token")

	// Credential lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
