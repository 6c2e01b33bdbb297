// Package mmap maps attribute archives into memory for zero-copy loading.
//
//	m, err := mmap.Open("vertices.gattr")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	payload, err := archive.ParseFrame(m.Bytes())
//
// Unix platforms use mmap(2) and madvise(2); Windows uses
// CreateFileMapping/MapViewOfFile and treats Advise as a no-op.
//
// A Mapping is safe for concurrent reads. Close is idempotent, but callers must
// not touch slices returned by Bytes after Close returns.
package mmap
