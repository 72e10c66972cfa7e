package event

import "errors"

// Sentinel errors for the event bus.
var (
	// ErrNilCallback is returned when a nil callback is supplied.
	ErrNilCallback = errors.New("callback cannot be nil")

	// ErrInvalidMatcher is returned when a zero-value matcher is supplied.
	ErrInvalidMatcher = errors.New("invalid matcher")

	// ErrBusClosed is returned for operations on a closed bus.
	ErrBusClosed = errors.New("event bus is closed")
)
