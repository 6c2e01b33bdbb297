package attribute

import (
	"maps"
	"slices"

	"github.com/hupe1980/geoattr/archive"
)

// Sparse stores a default value plus overrides for elements that differ from it.
//
// Overrides live in a hash map: Value and SetValue are O(1) amortized and space is
// O(k) for k overridden elements. An override equal to the default is never kept.
type Sparse[T comparable] struct {
	core[T]
	values map[Index]T
	size   Index
}

// NewSparse creates a detached sparse attribute of n elements, all equal to def.
func NewSparse[T comparable](name string, def T, n Index, props ...Properties) *Sparse[T] {
	return &Sparse[T]{
		core:   newCore(name, def, resolveProperties(props)),
		values: make(map[Index]T),
		size:   n,
	}
}

// Strategy returns StrategySparse.
func (a *Sparse[T]) Strategy() Strategy { return StrategySparse }

// Value returns the override for element i, or the default.
func (a *Sparse[T]) Value(i Index) T {
	checkIndex(i, a.size)
	if v, ok := a.values[i]; ok {
		return v
	}
	return a.def
}

// SetValue assigns element i. Assigning the default removes the override.
func (a *Sparse[T]) SetValue(i Index, v T) error {
	if err := a.checkAssignable(); err != nil {
		return err
	}
	checkIndex(i, a.size)
	a.set(i, v)
	return nil
}

// ModifyValue updates the value of element i through fn.
func (a *Sparse[T]) ModifyValue(i Index, fn func(v *T)) error {
	if err := a.checkAssignable(); err != nil {
		return err
	}
	v := a.Value(i)
	fn(&v)
	a.set(i, v)
	return nil
}

// NbOverrides returns the number of elements whose value differs from the default.
func (a *Sparse[T]) NbOverrides() int { return len(a.values) }

func (a *Sparse[T]) set(i Index, v T) {
	if v == a.def {
		delete(a.values, i)
		return
	}
	a.values[i] = v
}

// GenericValue implements Base.
func (a *Sparse[T]) GenericValue(i Index) (float32, error) {
	return a.GenericItemValue(i, 0)
}

// GenericItemValue implements Base.
func (a *Sparse[T]) GenericItemValue(i Index, item int) (float32, error) {
	return a.genericItem(a.Value(i), item)
}

func (a *Sparse[T]) bind(n Index) error {
	for i := range a.values {
		if i >= n {
			return corruptf("sparse attribute %q overrides element %d of %d", a.name, i, n)
		}
	}
	a.size = n
	return nil
}

func (a *Sparse[T]) resize(n Index) {
	if n < a.size {
		for i := range a.values {
			if i >= n {
				delete(a.values, i)
			}
		}
	}
	a.size = n
}

func (a *Sparse[T]) reserve(Index) {}

func (a *Sparse[T]) deleteElements(old2new []Index, n Index) {
	remapped := make(map[Index]T, len(a.values))
	for i, v := range a.values {
		if ni := old2new[i]; ni != NoID {
			remapped[ni] = v
		}
	}
	a.values = remapped
	a.size = n
}

func (a *Sparse[T]) permute(perm []Index) {
	permuted := make(map[Index]T, len(a.values))
	for i, v := range a.values {
		permuted[perm[i]] = v
	}
	a.values = permuted
}

func (a *Sparse[T]) copyValue(from, to Index) {
	a.set(to, a.Value(from))
}

func (a *Sparse[T]) interpolate(it Interpolation, to Index) {
	a.set(to, ComputeValue[T](it, a))
}

func (a *Sparse[T]) clone() Base {
	c := *a
	c.values = maps.Clone(a.values)
	return &c
}

func (a *Sparse[T]) copyFrom(src Base) bool {
	s, ok := src.(*Sparse[T])
	if !ok {
		return false
	}
	a.props = s.props
	a.def = s.def
	a.values = maps.Clone(s.values)
	a.size = s.size
	return true
}

func (a *Sparse[T]) emptyLike(n Index) Base {
	return NewSparse(a.name, a.def, n, a.props)
}

func (a *Sparse[T]) importValues(src Base, old2new []Index) bool {
	s, ok := src.(ReadOnly[T])
	if !ok {
		return false
	}
	for i, ni := range old2new {
		if ni != NoID {
			a.set(ni, s.Value(Index(i)))
		}
	}
	return true
}

// EncodeArchive writes layout v0: header, default, length-prefixed (index, value)
// overrides in ascending index order.
func (a *Sparse[T]) EncodeArchive(e *archive.Encoder) {
	codec, err := codecOf[T](e.Context(), a)
	if err != nil {
		e.Fail(err)
		return
	}
	sparseLayout(codec).Encode(e, a)
}

// DecodeArchive reads any known layout version.
func (a *Sparse[T]) DecodeArchive(d *archive.Decoder) {
	codec, err := codecOf[T](d.Context(), a)
	if err != nil {
		d.Fail(err)
		return
	}
	sparseLayout(codec).Decode(d, a)
}

func sparseLayout[T comparable](codec archive.Codec[T]) archive.Growable[Sparse[T]] {
	return archive.DefaultGrowable(
		func(d *archive.Decoder, a *Sparse[T]) {
			a.decodeCore(d, codec)
			n := d.Length(4 + codec.Size)
			a.values = make(map[Index]T, n)
			for range n {
				i := d.Uint32()
				v := codec.Decode(d)
				if d.Err() != nil {
					return
				}
				if _, dup := a.values[i]; dup {
					d.Fail(corruptf("sparse attribute %q overrides element %d twice", a.name, i))
					return
				}
				a.set(i, v)
			}
		},
		func(e *archive.Encoder, a *Sparse[T]) {
			a.encodeCore(e, codec)
			e.Uvarint(uint64(len(a.values)))
			for _, i := range slices.Sorted(maps.Keys(a.values)) {
				e.Uint32(i)
				codec.Encode(e, a.values[i])
			}
		},
	)
}
