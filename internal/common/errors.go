package common

import "errors"

var (
	// Session state. Not being logged in is a state, callers branch on it.
	ErrNotAuthenticated = errors.New("not authenticated")

	// Transport error kinds (see client.APIError).
	ErrSessionExpired = errors.New("session expired")
	ErrForbidden      = errors.New("forbidden")
	ErrUnavailable    = errors.New("server unavailable")
	ErrValidation     = errors.New("validation error")

	// Resource-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// Local cache errors.
	ErrCorruptedCache = errors.New("corrupted cache entry")
)
