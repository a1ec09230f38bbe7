package repository

import "errors"

var (
	// ErrDataUnavailable indicates the backing store is unreachable or its
	// contents are malformed. Callers surface it; nothing retries it.
	ErrDataUnavailable = errors.New("flight data unavailable")

	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("not found")
)
