package handler

import "errors"

// ErrUnresolved is the sentinel matched by errors.Is for every failed
// handler resolution.
var ErrUnresolved = errors.New("handler not resolved")

// UnresolvedError reports a handler key that could not be resolved, either
// because nothing is registered for it or because the module loader failed
// to provide a factory.
type UnresolvedError struct {
	// Key is the handler key that failed to resolve.
	Key string

	// Err is the loader failure, when one occurred.
	Err error
}

// Error implements the error interface.
func (e *UnresolvedError) Error() string {
	if e.Err != nil {
		return "unresolved handler " + e.Key + ": " + e.Err.Error()
	}
	return "unresolved handler " + e.Key
}

// Unwrap returns the loader failure, if any.
func (e *UnresolvedError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is to match UnresolvedError with ErrUnresolved.
func (e *UnresolvedError) Is(target error) bool {
	return target == ErrUnresolved
}
