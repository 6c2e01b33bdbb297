package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptData is returned when a payload is truncated, carries an unknown
	// type or version tag, or fails its checksum.
	ErrCorruptData = errors.New("corrupt data")

	// ErrDuplicateName is returned when a type name is registered twice in one Context.
	ErrDuplicateName = errors.New("type name already registered")

	// ErrUnregisteredType is returned when a value is written whose Go type has no
	// entry in the Context.
	ErrUnregisteredType = errors.New("type not registered")

	// ErrFrameTooLarge is returned when a payload does not fit a frame's 32-bit
	// length fields.
	ErrFrameTooLarge = errors.New("frame too large")
)

// ChecksumMismatchError is returned when frame verification fails.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// Is reports ErrCorruptData so callers can match every corruption with one sentinel.
func (e *ChecksumMismatchError) Is(target error) bool { return target == ErrCorruptData }

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptData, fmt.Sprintf(format, args...))
}
