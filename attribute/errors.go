package attribute

import (
	"errors"
	"fmt"

	"github.com/hupe1980/geoattr/archive"
)

var (
	// ErrTypeMismatch is returned when an attribute is requested with a value type or
	// strategy that differs from the stored one.
	ErrTypeMismatch = errors.New("attribute type mismatch")

	// ErrNotFound is returned when a required attribute does not exist.
	ErrNotFound = errors.New("attribute not found")

	// ErrSizeMismatch is returned when a mask, permutation or interpolation has the
	// wrong length.
	ErrSizeMismatch = errors.New("size mismatch")

	// ErrInvalidPermutation is returned when a permutation maps two elements to the
	// same index or points outside the element range.
	ErrInvalidPermutation = errors.New("invalid permutation")

	// ErrNotSupported is returned for generic access on non-numeric value types and
	// for writes to non-assignable attributes.
	ErrNotSupported = errors.New("operation not supported")

	// ErrCorruptData is returned when a payload cannot be decoded.
	ErrCorruptData = archive.ErrCorruptData
)

// TypeMismatchError describes a lookup whose requested type or strategy does not
// match the stored attribute.
type TypeMismatchError struct {
	Name      string
	Stored    string
	Requested string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("attribute %q: stored as %s, requested as %s", e.Name, e.Stored, e.Requested)
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// SizeMismatchError indicates a bulk operation input whose length differs from the
// element count.
type SizeMismatchError struct {
	Op       string
	Expected int
	Actual   int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("%s: size mismatch: expected %d, got %d", e.Op, e.Expected, e.Actual)
}

// Is reports whether target is ErrSizeMismatch.
func (e *SizeMismatchError) Is(target error) bool { return target == ErrSizeMismatch }

// NotAssignableError is returned when a value is written to an attribute whose
// properties forbid assignment.
type NotAssignableError struct {
	Name string
}

func (e *NotAssignableError) Error() string {
	return fmt.Sprintf("attribute %q is not assignable", e.Name)
}

// Unwrap returns ErrNotSupported.
func (e *NotAssignableError) Unwrap() error { return ErrNotSupported }

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptData, fmt.Sprintf(format, args...))
}
