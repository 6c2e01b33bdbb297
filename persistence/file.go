package persistence

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/hupe1980/geoattr/archive"
	"github.com/hupe1980/geoattr/attribute"
	"github.com/hupe1980/geoattr/internal/mmap"
)

// SaveToFile writes through writeFunc into a temporary file in the target's
// directory and renames it over filename once it is synced.
func SaveToFile(filename string, writeFunc func(io.Writer) error) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	_ = tmp.Chmod(0o644)

	buf := bufio.NewWriterSize(tmp, 256*1024)
	if err := writeFunc(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}
	tmpName = ""

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

// SaveManagerFile atomically writes m to path as one frame.
func SaveManagerFile(path string, m *attribute.Manager, types *archive.Context, frame archive.FrameOptions) error {
	return SaveToFile(path, func(w io.Writer) error {
		return attribute.Save(w, m, types, frame)
	})
}

// LoadManagerFile maps path and decodes the manager it holds. The mapping is
// released before returning; decoded values never alias it.
func LoadManagerFile(path string, types *archive.Context, optFns ...attribute.Option) (*attribute.Manager, error) {
	mapping, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer mapping.Close()

	_ = mapping.Advise(mmap.AccessSequential)

	payload, err := archive.ParseFrame(mapping.Bytes())
	if err != nil {
		return nil, err
	}
	return attribute.Unmarshal(payload, types, optFns...)
}
