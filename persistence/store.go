package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/geoattr/archive"
	"github.com/hupe1980/geoattr/attribute"
	"github.com/hupe1980/geoattr/blobstore"
	"github.com/hupe1980/geoattr/codec"
	"github.com/hupe1980/geoattr/geom"
)

// archiveExt is the extension of framed manager blobs.
const archiveExt = ".gattr"

// DefaultTypes returns a registry with the built-in and geom value types.
func DefaultTypes() (*archive.Context, error) {
	types := archive.NewContext()
	if err := attribute.RegisterBuiltinTypes(types); err != nil {
		return nil, err
	}
	if err := geom.RegisterTypes(types); err != nil {
		return nil, err
	}
	return types, nil
}

// Store keeps versioned attribute archives in a BlobStore.
type Store struct {
	blobs blobstore.BlobStore
	opts  options
}

// NewStore creates a Store over blobs.
func NewStore(blobs blobstore.BlobStore, optFns ...Option) (*Store, error) {
	opts, err := applyOptions(optFns)
	if err != nil {
		return nil, err
	}
	return &Store{blobs: blobs, opts: opts}, nil
}

// Blobs returns the underlying blob store.
func (s *Store) Blobs() blobstore.BlobStore {
	return s.blobs
}

// Types returns the registry archives are encoded with.
func (s *Store) Types() *archive.Context {
	return s.opts.types
}

func pointerName(name string) string {
	return name + "/" + blobstore.CurrentPointer
}

func validateArchiveName(name string) error {
	if err := blobstore.ValidateName(name); err != nil {
		return err
	}
	if path.Base(name) == blobstore.CurrentPointer {
		return fmt.Errorf("%w: %q is reserved", blobstore.ErrInvalidName, name)
	}
	return nil
}

// Save writes m as a new version of the named archive and makes it current.
func (s *Store) Save(ctx context.Context, name string, m *attribute.Manager) (Summary, error) {
	if err := validateArchiveName(name); err != nil {
		return Summary{}, err
	}

	e := archive.NewEncoder(s.opts.types)
	if err := attribute.Encode(e, m); err != nil {
		return Summary{}, err
	}
	var framed bytes.Buffer
	if err := archive.WriteFrame(&framed, e.Bytes(), s.opts.frame); err != nil {
		return Summary{}, err
	}

	id := uuid.New()
	summary := Summary{
		ID:          id,
		Name:        name,
		Blob:        name + "/" + id.String() + archiveExt,
		NbElements:  m.NbElements(),
		Attributes:  Describe(m),
		Compression: s.opts.frame.Compression.String(),
		RawBytes:    e.Len(),
		StoredBytes: framed.Len(),
		CreatedAt:   time.Now().UTC(),
	}
	encoded, err := s.opts.summaryCodec.Marshal(summary)
	if err != nil {
		return Summary{}, err
	}

	if err := s.put(ctx, summary.Blob, framed.Bytes()); err != nil {
		return Summary{}, err
	}
	if err := s.put(ctx, summaryName(summary.Blob, s.opts.summaryCodec.Name()), encoded); err != nil {
		return Summary{}, err
	}
	if err := s.put(ctx, pointerName(name), []byte(summary.Blob)); err != nil {
		return Summary{}, err
	}

	s.opts.logger.Info("archive saved",
		"name", name,
		"id", id.String(),
		"elements", summary.NbElements,
		"attributes", len(summary.Attributes),
		"bytes", summary.StoredBytes,
	)
	return summary, nil
}

// Load decodes the current version of the named archive.
func (s *Store) Load(ctx context.Context, name string, optFns ...attribute.Option) (*attribute.Manager, error) {
	target, err := s.current(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := s.opts.controller.AcquireIO(ctx); err != nil {
		return nil, err
	}
	defer s.opts.controller.ReleaseIO()

	blob, err := s.blobs.Open(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("persistence: open %s: %w", target, err)
	}
	defer blob.Close()

	size := blob.Size()
	if err := s.opts.controller.AcquireMemory(ctx, size); err != nil {
		return nil, err
	}
	defer s.opts.controller.ReleaseMemory(size)

	data, err := blobstore.ReadAll(ctx, blob)
	if err != nil {
		return nil, err
	}
	if err := s.opts.controller.WaitBytes(ctx, len(data)); err != nil {
		return nil, err
	}

	payload, err := archive.ParseFrame(data)
	if err != nil {
		return nil, fmt.Errorf("persistence: %s: %w", target, err)
	}
	m, err := attribute.Unmarshal(payload, s.opts.types, optFns...)
	if err != nil {
		return nil, fmt.Errorf("persistence: %s: %w", target, err)
	}

	s.opts.logger.Info("archive loaded",
		"name", name,
		"blob", target,
		"elements", m.NbElements(),
	)
	return m, nil
}

// Summary returns the summary of the current version of the named archive.
func (s *Store) Summary(ctx context.Context, name string) (Summary, error) {
	target, err := s.current(ctx, name)
	if err != nil {
		return Summary{}, err
	}

	prefix := strings.TrimSuffix(target, archiveExt) + "."
	names, err := s.blobs.List(ctx, prefix)
	if err != nil {
		return Summary{}, err
	}
	for _, candidate := range names {
		c, ok := codec.ByName(strings.TrimPrefix(candidate, prefix))
		if !ok {
			continue
		}
		data, err := s.get(ctx, candidate)
		if err != nil {
			return Summary{}, err
		}
		var summary Summary
		if err := c.Unmarshal(data, &summary); err != nil {
			return Summary{}, fmt.Errorf("persistence: decode %s: %w", candidate, err)
		}
		return summary, nil
	}
	return Summary{}, fmt.Errorf("%w: no summary for %s", ErrArchiveNotFound, target)
}

// List returns the sorted names of all archives with a current version.
func (s *Store) List(ctx context.Context) ([]string, error) {
	blobs, err := s.blobs.List(ctx, "")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, b := range blobs {
		if path.Base(b) == blobstore.CurrentPointer && b != blobstore.CurrentPointer {
			names = append(names, path.Dir(b))
		}
	}
	return names, nil
}

// Delete removes every version of the named archive. The pointer goes first so
// a concurrent Load sees either the whole archive or none of it.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := validateArchiveName(name); err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, pointerName(name)); err != nil {
		return err
	}

	blobs, err := s.blobs.List(ctx, name+"/")
	if err != nil {
		return err
	}
	var errs []error
	for _, b := range blobs {
		if strings.Contains(strings.TrimPrefix(b, name+"/"), "/") {
			continue
		}
		if err := s.blobs.Delete(ctx, b); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	s.opts.logger.Info("archive deleted", "name", name, "blobs", len(blobs))
	return nil
}

func (s *Store) current(ctx context.Context, name string) (string, error) {
	if err := validateArchiveName(name); err != nil {
		return "", err
	}
	data, err := s.get(ctx, pointerName(name))
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return "", fmt.Errorf("%w: %q", ErrArchiveNotFound, name)
		}
		return "", err
	}
	target := string(data)
	if !strings.HasPrefix(target, name+"/") || !strings.HasSuffix(target, archiveExt) {
		return "", fmt.Errorf("%w: pointer of %q names %q", archive.ErrCorruptData, name, target)
	}
	return target, nil
}

func (s *Store) put(ctx context.Context, name string, data []byte) error {
	if err := s.opts.controller.AcquireIO(ctx); err != nil {
		return err
	}
	defer s.opts.controller.ReleaseIO()

	if err := s.opts.controller.WaitBytes(ctx, len(data)); err != nil {
		return err
	}
	if err := s.blobs.Put(ctx, name, data); err != nil {
		return fmt.Errorf("persistence: put %s: %w", name, err)
	}
	return nil
}

// get reads a small blob completely and copies it out of any mapping.
func (s *Store) get(ctx context.Context, name string) ([]byte, error) {
	blob, err := s.blobs.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	data, err := blobstore.ReadAll(ctx, blob)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(data), nil
}

func summaryName(blob, codecName string) string {
	return strings.TrimSuffix(blob, archiveExt) + "." + codecName
}
