// Package s3 stores attribute archives in Amazon S3.
//
//	store, err := s3.NewFromDefaultConfig(ctx, "my-bucket", "meshes/")
//	if err != nil { ... }
//	archives := persistence.NewStore(store)
//
// Reads use ranged GETs; Create streams through the SDK's multipart uploader and
// Put attaches a CRC32C checksum. DDBCommitStore adds DynamoDB conditional
// writes for CURRENT pointers so concurrent savers of one archive are detected.
package s3
