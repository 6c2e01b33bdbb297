package attribute

import (
	"slices"

	"github.com/hupe1980/geoattr/archive"
)

// Variable stores one value per element in a dense slice.
type Variable[T comparable] struct {
	core[T]
	values []T
}

// NewVariable creates a detached variable attribute holding n copies of def.
func NewVariable[T comparable](name string, def T, n Index, props ...Properties) *Variable[T] {
	a := &Variable[T]{core: newCore(name, def, resolveProperties(props))}
	a.resize(n)
	return a
}

// Strategy returns StrategyVariable.
func (a *Variable[T]) Strategy() Strategy { return StrategyVariable }

// Value returns the value of element i.
func (a *Variable[T]) Value(i Index) T {
	checkIndex(i, Index(len(a.values)))
	return a.values[i]
}

// SetValue assigns the value of element i.
func (a *Variable[T]) SetValue(i Index, v T) error {
	if err := a.checkAssignable(); err != nil {
		return err
	}
	checkIndex(i, Index(len(a.values)))
	a.values[i] = v
	return nil
}

// ModifyValue updates the value of element i in place.
func (a *Variable[T]) ModifyValue(i Index, fn func(v *T)) error {
	if err := a.checkAssignable(); err != nil {
		return err
	}
	checkIndex(i, Index(len(a.values)))
	fn(&a.values[i])
	return nil
}

// Len returns the number of stored values.
func (a *Variable[T]) Len() int { return len(a.values) }

// GenericValue implements Base.
func (a *Variable[T]) GenericValue(i Index) (float32, error) {
	return a.GenericItemValue(i, 0)
}

// GenericItemValue implements Base.
func (a *Variable[T]) GenericItemValue(i Index, item int) (float32, error) {
	return a.genericItem(a.Value(i), item)
}

func (a *Variable[T]) bind(n Index) error {
	if Index(len(a.values)) != n {
		return corruptf("variable attribute %q holds %d values for %d elements", a.name, len(a.values), n)
	}
	return nil
}

func (a *Variable[T]) resize(n Index) {
	size := int(n)
	if size <= len(a.values) {
		clear(a.values[size:])
		a.values = a.values[:size]
		return
	}
	a.values = slices.Grow(a.values, size-len(a.values))
	for len(a.values) < size {
		a.values = append(a.values, a.def)
	}
}

func (a *Variable[T]) reserve(capacity Index) {
	if int(capacity) > cap(a.values) {
		a.values = slices.Grow(a.values, int(capacity)-len(a.values))
	}
}

// deleteElements compacts survivors in place. Targets never exceed sources, so a
// single forward pass preserves relative order.
func (a *Variable[T]) deleteElements(old2new []Index, n Index) {
	for i, ni := range old2new {
		if ni != NoID && ni != Index(i) {
			a.values[ni] = a.values[i]
		}
	}
	clear(a.values[n:])
	a.values = a.values[:n]
}

func (a *Variable[T]) permute(perm []Index) {
	permuted := make([]T, len(a.values))
	for i, v := range a.values {
		permuted[perm[i]] = v
	}
	a.values = permuted
}

func (a *Variable[T]) copyValue(from, to Index) {
	a.values[to] = a.values[from]
}

func (a *Variable[T]) interpolate(it Interpolation, to Index) {
	a.values[to] = ComputeValue[T](it, a)
}

func (a *Variable[T]) clone() Base {
	c := *a
	c.values = slices.Clone(a.values)
	return &c
}

func (a *Variable[T]) copyFrom(src Base) bool {
	s, ok := src.(*Variable[T])
	if !ok {
		return false
	}
	a.props = s.props
	a.def = s.def
	a.values = slices.Clone(s.values)
	return true
}

func (a *Variable[T]) emptyLike(n Index) Base {
	return NewVariable(a.name, a.def, n, a.props)
}

func (a *Variable[T]) importValues(src Base, old2new []Index) bool {
	s, ok := src.(ReadOnly[T])
	if !ok {
		return false
	}
	for i, ni := range old2new {
		if ni != NoID {
			a.values[ni] = s.Value(Index(i))
		}
	}
	return true
}

// EncodeArchive writes layout v0: header, default, length-prefixed values.
func (a *Variable[T]) EncodeArchive(e *archive.Encoder) {
	codec, err := codecOf[T](e.Context(), a)
	if err != nil {
		e.Fail(err)
		return
	}
	variableLayout(codec).Encode(e, a)
}

// DecodeArchive reads any known layout version.
func (a *Variable[T]) DecodeArchive(d *archive.Decoder) {
	codec, err := codecOf[T](d.Context(), a)
	if err != nil {
		d.Fail(err)
		return
	}
	variableLayout(codec).Decode(d, a)
}

func variableLayout[T comparable](codec archive.Codec[T]) archive.Growable[Variable[T]] {
	return archive.DefaultGrowable(
		func(d *archive.Decoder, a *Variable[T]) {
			a.decodeCore(d, codec)
			n := d.Length(codec.Size)
			a.values = make([]T, n)
			for i := range a.values {
				a.values[i] = codec.Decode(d)
			}
		},
		func(e *archive.Encoder, a *Variable[T]) {
			a.encodeCore(e, codec)
			e.Uvarint(uint64(len(a.values)))
			for _, v := range a.values {
				codec.Encode(e, v)
			}
		},
	)
}
