package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// stay does not exist in the store.
// Only GetByID reports it; mutations of a missing stay are silent no-ops.
var ErrNotFound = errors.New("not found")

// ErrInvalidID is returned when an identifier cannot be parsed into the
// store's native ID representation.
var ErrInvalidID = errors.New("invalid id")
