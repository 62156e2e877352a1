package common

import "errors"

// Sentinel errors. Callers match them with errors.Is.
var (
	// Transport / backend errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("server unavailable")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")

	// Client-side payload validation failed; nothing was sent.
	ErrValidation = errors.New("validation error")

	// Session errors.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbiddenRole    = errors.New("command not available for this role")
)
