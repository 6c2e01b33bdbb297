package geoattr

import (
	"errors"
	"fmt"

	"github.com/hupe1980/geoattr/archive"
	"github.com/hupe1980/geoattr/attribute"
	"github.com/hupe1980/geoattr/blobstore"
	"github.com/hupe1980/geoattr/persistence"
)

var (
	// ErrNotFound is returned when an archive or attribute does not exist.
	ErrNotFound = errors.New("not found")

	// ErrTypeMismatch is returned when an attribute is requested with the wrong
	// value type or strategy.
	ErrTypeMismatch = attribute.ErrTypeMismatch

	// ErrNotSupported is returned for generic access on non-numeric values and for
	// writes to non-assignable attributes.
	ErrNotSupported = attribute.ErrNotSupported

	// ErrCorruptData is returned when an archive cannot be decoded.
	ErrCorruptData = archive.ErrCorruptData

	// ErrUnregisteredType is returned when an attribute value type has no codec.
	ErrUnregisteredType = archive.ErrUnregisteredType

	// ErrInvalidConfig is returned for configurations that cannot build a repository.
	ErrInvalidConfig = persistence.ErrInvalidConfig
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Not found unification.
	if errors.Is(err, persistence.ErrArchiveNotFound) ||
		errors.Is(err, attribute.ErrNotFound) ||
		errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
