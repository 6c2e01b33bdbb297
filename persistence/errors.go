package persistence

import "errors"

var (
	// ErrArchiveNotFound is returned when no archive has been saved under a name.
	ErrArchiveNotFound = errors.New("persistence: archive not found")

	// ErrInvalidConfig is returned for configurations that cannot build a store.
	ErrInvalidConfig = errors.New("persistence: invalid config")
)
