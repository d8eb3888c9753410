// Package common defines shared constants and sentinel errors used across
// client and server layers of notekeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Key parameter errors.
	ErrUnsupportedSchemeVersion = errors.New("unsupported scheme version")

	// Feature item errors. A malformed payload is never surfaced to callers of
	// feature operations, it only turns them into no-ops.
	ErrMalformedFeaturePayload = errors.New("malformed feature payload")

	// Backup storage failures.
	ErrStorage = errors.New("storage error")
)
