// Package persistence saves and loads attribute managers.
//
// SaveManagerFile and LoadManagerFile work on a single local file: saves go
// through a temporary file that is renamed into place, loads map the file and
// verify the frame checksum before decoding.
//
// Store keeps versioned archives in any blobstore.BlobStore. Every Save writes a
// new archive blob and a summary, then moves the archive's CURRENT pointer:
//
//	<name>/<uuid>.gattr       framed manager payload
//	<name>/<uuid>.<codec>     Summary encoded with the named codec
//	<name>/CURRENT            name of the live archive blob
//
// Transfers are throttled by a resource.Controller. Config describes a store in
// YAML and OpenStore builds it, including the S3, MinIO and DynamoDB backends.
package persistence
