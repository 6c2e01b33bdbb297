// Package blobstore abstracts where attribute archives live.
//
// A BlobStore holds immutable, named blobs. Writers either Put a complete
// payload or stream through Create and publish on Close. Readers Open a blob and
// read ranges from it; local blobs are memory mapped and implement Mappable so
// archives can be parsed without a copy.
//
// # Built-in Implementations
//
//   - LocalStore: local file system with mmap reads and rename-on-close writes
//   - MemoryStore: in-process map, for tests
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// Implementations must be safe for concurrent use.
package blobstore
