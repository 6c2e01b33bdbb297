// Package attribute stores named, typed, per-element data for one element set
// (the vertices, edges or polygons of a mesh).
//
// A Manager owns the attributes of an element set and fans structural changes out
// to all of them, so every attribute always holds exactly NbElements values.
// Attributes come in three strategies:
//
//   - Constant: one value for every element.
//   - Variable: a dense slice, one value per element.
//   - Sparse: a default value plus overrides for the elements that differ.
//
// Handles are obtained with the generic constructors and used directly on the hot
// path:
//
//	m := attribute.NewManager()
//	m.Resize(5)
//	height, _ := attribute.FindOrCreateVariable(m, "height", 0.0)
//	_ = height.SetValue(2, 42)
//	mapping, _ := m.DeleteElements([]bool{false, false, true, false, false})
//
// Managers are persisted through an archive.Context in which every value type has
// been registered with RegisterType (see RegisterBuiltinTypes).
package attribute
