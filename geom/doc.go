// Package geom provides the geometric value types stored in attributes (points,
// colors, identifiers) and PointSet, a vertex set built on an attribute manager.
//
// Points blend by weighted sum and colors by weight-normalized average when an
// attribute is interpolated. Call RegisterTypes once per archive context to make
// these types persistable.
package geom
