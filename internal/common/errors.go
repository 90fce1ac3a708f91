// Package common defines shared sentinel errors used across the local store,
// the remote adapter and the sync engine. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound        = errors.New("not found")
	ErrMissingIdentifier = errors.New("missing identifier")

	// Validation errors.
	ErrInvalidData = errors.New("invalid data")

	// Session-level errors (no user identity bound).
	ErrorUnauthorized = errors.New("unauthorized")

	// Sync-path errors. ErrNetworkFailure wraps any remote store call
	// failure, ErrStorageFailure wraps a failed local commit.
	ErrNetworkFailure = errors.New("network failure")
	ErrStorageFailure = errors.New("storage failure")
)
