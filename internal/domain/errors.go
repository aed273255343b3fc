package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrLookupFailed = errors.New("lookup failed")

	// ErrGatewayUnavailable is returned when no text generator was configured.
	ErrGatewayUnavailable = errors.New("generation gateway unavailable")
	ErrEmptyCompletion    = errors.New("generation gateway returned no text")
)
