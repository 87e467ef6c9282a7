package domain

import "errors"

var (
	// ErrCatalogUnavailable indicates the question catalog could not be loaded.
	ErrCatalogUnavailable = errors.New("question catalog unavailable")
	// ErrSessionNotFound is returned when a persistent store has no session
	// for the user.
	ErrSessionNotFound = errors.New("session not found")
)
