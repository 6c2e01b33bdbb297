package geom

import "math"

// Point2 is a point or vector in the plane.
type Point2 struct {
	X, Y float64
}

// Add returns the sum of two points (vector addition).
func (p Point2) Add(q Point2) Point2 {
	return Point2{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point2) Sub(q Point2) Point2 {
	return Point2{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point2) Mul(s float64) Point2 {
	return Point2{X: p.X * s, Y: p.Y * s}
}

// Combine returns the weighted sum of values, or the first value when all are
// equal.
func (Point2) Combine(values []Point2, weights []float64) Point2 {
	if allSame(values) {
		return values[0]
	}
	var out Point2
	for i, v := range values {
		out = out.Add(v.Mul(weights[i]))
	}
	return out
}

// NbItems returns the number of coordinates.
func (Point2) NbItems() int { return 2 }

// GenericItem returns coordinate item as float32.
func (p Point2) GenericItem(item int) float32 {
	if item == 0 {
		return float32(p.X)
	}
	return float32(p.Y)
}

// Point3 is a point or vector in space.
type Point3 struct {
	X, Y, Z float64
}

// Pt3 is a convenience function to create a Point3.
func Pt3(x, y, z float64) Point3 {
	return Point3{X: x, Y: y, Z: z}
}

// Add returns the sum of two points (vector addition).
func (p Point3) Add(q Point3) Point3 {
	return Point3{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point3) Sub(q Point3) Point3 {
	return Point3{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Mul returns the point scaled by a scalar.
func (p Point3) Mul(s float64) Point3 {
	return Point3{X: p.X * s, Y: p.Y * s, Z: p.Z * s}
}

// Length returns the length of the vector.
func (p Point3) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Distance returns the distance between two points.
func (p Point3) Distance(q Point3) float64 {
	return p.Sub(q).Length()
}

// Combine returns the weighted sum of values, or the first value when all are
// equal.
func (Point3) Combine(values []Point3, weights []float64) Point3 {
	if allSame(values) {
		return values[0]
	}
	var out Point3
	for i, v := range values {
		out = out.Add(v.Mul(weights[i]))
	}
	return out
}

// NbItems returns the number of coordinates.
func (Point3) NbItems() int { return 3 }

// GenericItem returns coordinate item as float32.
func (p Point3) GenericItem(item int) float32 {
	switch item {
	case 0:
		return float32(p.X)
	case 1:
		return float32(p.Y)
	default:
		return float32(p.Z)
	}
}

func allSame[T comparable](values []T) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
