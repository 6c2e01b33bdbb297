// Package geoattr stores per-element attributes of geometric data sets and
// persists them as versioned archives.
//
// An attribute.Manager owns named attributes that share one element count.
// Each attribute picks a storage strategy:
//
//   - Constant: one value shared by every element
//   - Variable: one value per element
//   - Sparse: a default plus per-element overrides
//
// Structural operations (resize, delete, permute) go through the manager so all
// attributes stay aligned.
//
// # Quick Start
//
//	repo, _ := geoattr.New(blobstore.NewMemoryStore())
//
//	m := repo.NewManager()
//	m.Resize(3)
//	points, _ := attribute.FindOrCreateVariable(m, "points", geom.Point3{})
//	_ = points.SetValue(2, geom.Pt3(1, 2, 3))
//
//	_, _ = repo.Save(ctx, "scan/cloud", m)
//	loaded, _ := repo.Load(ctx, "scan/cloud")
//
// # Storage
//
// Repositories sit on a blobstore.BlobStore: in memory, a local directory,
// S3 (optionally with DynamoDB-coordinated commits) or MinIO. Open builds the
// backend from a persistence.Config, usually loaded from YAML.
//
// Archives are framed with a CRC32C checksum and optional LZ4 or Zstandard
// compression. Each save writes a new version and moves the archive's CURRENT
// pointer; a summary of every version is stored beside it.
package geoattr
