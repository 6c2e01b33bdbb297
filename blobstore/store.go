package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations return an error satisfying errors.Is(err, ErrNotFound).
var ErrNotFound = os.ErrNotExist

// ErrInvalidName is returned for blob names that are empty, absolute or escape the
// store root.
var ErrInvalidName = errors.New("blobstore: invalid blob name")

// BlobStore stores immutable attribute archives and their summaries.
// Implementations must be safe for concurrent use.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Create creates a blob for streaming writes. The blob becomes visible on Close.
	Create(ctx context.Context, name string) (WritableBlob, error)
	// Put writes a blob atomically.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names of all blobs with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a stored blob.
type Blob interface {
	io.Closer
	// ReadAt reads len(p) bytes at offset off.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// ReadRange returns a reader over at most length bytes starting at off.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
	// Size returns the size of the blob in bytes.
	Size() int64
}

// WritableBlob is a blob under construction.
type WritableBlob interface {
	io.WriteCloser
	// Sync flushes buffered data to durable storage where the backend supports it.
	Sync() error
}

// Mappable is implemented by blobs that expose their contents without copying.
type Mappable interface {
	// Bytes returns the underlying byte slice, valid until the blob is closed.
	Bytes() ([]byte, error)
}

// ReadAll returns the full contents of b. Mappable blobs are returned without a
// copy; the result is then only valid until b is closed.
func ReadAll(ctx context.Context, b Blob) ([]byte, error) {
	if m, ok := b.(Mappable); ok {
		return m.Bytes()
	}

	size := b.Size()
	if size == 0 {
		return []byte{}, nil
	}

	buf := make([]byte, size)
	n, err := b.ReadAt(ctx, buf, 0)
	if err != nil && !(errors.Is(err, io.EOF) && int64(n) == size) {
		return nil, err
	}
	if int64(n) != size {
		return nil, fmt.Errorf("blobstore: short read: %d of %d bytes", n, size)
	}
	return buf, nil
}

// ValidateName rejects names that are empty, absolute or step outside the store
// root.
func ValidateName(name string) error {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, `\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if clean := path.Clean(name); clean != name || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// CurrentPointer is the base name of the blob that names the live version of a
// versioned archive. Commit-coordinating stores treat writes to it specially.
const CurrentPointer = "CURRENT"
