package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotBound indicates no college has been confirmed for the session.
	ErrNotBound = errors.New("no college bound to session")

	// ErrBusy indicates a backend call is already in flight for the session.
	ErrBusy = errors.New("operation already in flight")

	// ErrBackendUnavailable indicates the backend gateway is not configured.
	ErrBackendUnavailable = errors.New("backend unavailable")
)
