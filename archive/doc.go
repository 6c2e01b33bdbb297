// Package archive provides the versioned binary format used to persist attribute
// managers and their value types.
//
// The format has three layers:
//
//   - Encoder/Decoder: little-endian primitives, uvarint lengths and strings.
//     Decoders carry a sticky error so layouts can be written as straight-line code.
//   - Growable: a per-type list of layout readers. The stored version tag selects the
//     reader, the last layout is always written. Old readers are never removed, only
//     appended to, so old payloads stay loadable after the in-memory layout evolves.
//   - Frame: a self-describing header (magic, version, compression, CRC32-C) around a
//     complete payload.
//
// Polymorphic values are written with a stable type name looked up in a Context.
// Contexts are filled explicitly by the embedding code; nothing registers itself at
// package load time.
//
//	ctx := archive.NewContext()
//	geoattr.RegisterTypes(ctx)
package archive
