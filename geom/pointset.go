package geom

import (
	"github.com/hupe1980/geoattr/attribute"
	"github.com/hupe1980/geoattr/cached"
)

// PointsAttribute is the name of the vertex coordinate attribute of a PointSet.
const PointsAttribute = "points"

// PointSet is a set of vertices whose coordinates and any user data live in one
// attribute manager. It drives every structural change through that manager.
type PointSet struct {
	vertices *attribute.Manager
	points   *attribute.Variable[Point3]
	bbox     cached.Value[BoundingBox3]
}

// NewPointSet creates an empty point set.
func NewPointSet(optFns ...attribute.Option) *PointSet {
	vertices := attribute.NewManager(optFns...)
	points, err := attribute.FindOrCreateVariable(vertices, PointsAttribute, Point3{},
		attribute.Properties{Assignable: true, Interpolable: true, Transferable: true})
	if err != nil {
		// The manager is fresh, so the attribute cannot exist under another type.
		panic(err)
	}
	return &PointSet{vertices: vertices, points: points}
}

// NewPointSetFromManager wraps a manager that already holds a PointsAttribute, e.g.
// one loaded from disk. The points attribute must be assignable.
func NewPointSetFromManager(vertices *attribute.Manager) (*PointSet, error) {
	points, err := attribute.FindOrCreateVariable(vertices, PointsAttribute, Point3{},
		attribute.Properties{Assignable: true, Interpolable: true, Transferable: true})
	if err != nil {
		return nil, err
	}
	if !points.Properties().Assignable {
		return nil, &attribute.NotAssignableError{Name: PointsAttribute}
	}
	return &PointSet{vertices: vertices, points: points}, nil
}

// VertexAttributes returns the manager holding per-vertex attributes.
func (s *PointSet) VertexAttributes() *attribute.Manager { return s.vertices }

// NbVertices returns the number of vertices.
func (s *PointSet) NbVertices() attribute.Index { return s.vertices.NbElements() }

// Point returns the coordinates of vertex v.
func (s *PointSet) Point(v attribute.Index) Point3 { return s.points.Value(v) }

// CreatePoint appends a vertex and returns its index. If the coordinates cannot be
// written the vertex is removed again and NoID is returned with the error.
func (s *PointSet) CreatePoint(p Point3) (attribute.Index, error) {
	v := s.vertices.NbElements()
	s.vertices.Resize(v + 1)
	if err := s.points.SetValue(v, p); err != nil {
		s.vertices.Resize(v)
		return attribute.NoID, err
	}
	s.bbox.Reset()
	return v, nil
}

// CreatePoints appends n vertices at the origin and returns the first new index.
func (s *PointSet) CreatePoints(n attribute.Index) attribute.Index {
	first := s.vertices.NbElements()
	s.vertices.Resize(first + n)
	s.bbox.Reset()
	return first
}

// SetPoint moves vertex v.
func (s *PointSet) SetPoint(v attribute.Index, p Point3) error {
	if err := s.points.SetValue(v, p); err != nil {
		return err
	}
	s.bbox.Reset()
	return nil
}

// DeleteVertices removes the flagged vertices and returns the old to new mapping.
func (s *PointSet) DeleteVertices(mask []bool) ([]attribute.Index, error) {
	old2new, err := s.vertices.DeleteElements(mask)
	if err != nil {
		return nil, err
	}
	s.bbox.Reset()
	return old2new, nil
}

// PermuteVertices moves vertex i to perm[i].
func (s *PointSet) PermuteVertices(perm []attribute.Index) error {
	return s.vertices.PermuteElements(perm)
}

// BoundingBox returns the box around all vertices. It is computed once and kept
// until the next geometric change.
func (s *PointSet) BoundingBox() BoundingBox3 {
	return s.bbox.Get(func() BoundingBox3 {
		box := EmptyBoundingBox3()
		for v := range s.vertices.NbElements() {
			box = box.Extend(s.points.Value(v))
		}
		return box
	})
}
