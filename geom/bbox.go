package geom

import "math"

// BoundingBox3 is an axis-aligned box. The zero value is not empty; use
// EmptyBoundingBox3 as the starting point for accumulation.
type BoundingBox3 struct {
	Min, Max Point3
}

// EmptyBoundingBox3 returns a box that contains nothing.
func EmptyBoundingBox3() BoundingBox3 {
	inf := math.Inf(1)
	return BoundingBox3{
		Min: Point3{X: inf, Y: inf, Z: inf},
		Max: Point3{X: -inf, Y: -inf, Z: -inf},
	}
}

// IsEmpty reports whether the box contains no point.
func (b BoundingBox3) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend returns the smallest box containing b and p.
func (b BoundingBox3) Extend(p Point3) BoundingBox3 {
	return BoundingBox3{
		Min: Point3{X: min(b.Min.X, p.X), Y: min(b.Min.Y, p.Y), Z: min(b.Min.Z, p.Z)},
		Max: Point3{X: max(b.Max.X, p.X), Y: max(b.Max.Y, p.Y), Z: max(b.Max.Z, p.Z)},
	}
}

// Contains reports whether p lies inside b, boundary included.
func (b BoundingBox3) Contains(p Point3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Center returns the midpoint of the box.
func (b BoundingBox3) Center() Point3 {
	return b.Min.Add(b.Max).Mul(0.5)
}
