// Package fs abstracts the file system write path of the local blob store so
// tests can inject failures.
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: wraps a FileSystem and fails writes, syncs, closes or renames
//     of matching files
//
// Production code uses fs.Default:
//
//	f, err := fs.Default.CreateTemp(dir, "blob.*.tmp")
//
// Tests inject [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("CURRENT", fs.Fault{FailAfterBytes: -1, FailOnRename: true})
package fs
