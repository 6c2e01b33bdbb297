package attribute

import (
	"github.com/hupe1980/geoattr/archive"
)

// Constant stores a single value shared by every element.
type Constant[T comparable] struct {
	core[T]
	value T
}

// NewConstant creates a detached constant attribute. Attributes are usually created
// through FindOrCreateConstant so that a Manager keeps them aligned.
func NewConstant[T comparable](name string, value T, props ...Properties) *Constant[T] {
	return &Constant[T]{
		core:  newCore(name, value, resolveProperties(props)),
		value: value,
	}
}

// Strategy returns StrategyConstant.
func (a *Constant[T]) Strategy() Strategy { return StrategyConstant }

// Value returns the shared value; i is ignored.
func (a *Constant[T]) Value(Index) T { return a.value }

// ConstantValue returns the shared value.
func (a *Constant[T]) ConstantValue() T { return a.value }

// SetValue overwrites the value of every element.
func (a *Constant[T]) SetValue(v T) error {
	if err := a.checkAssignable(); err != nil {
		return err
	}
	a.value = v
	return nil
}

// ModifyValue updates the shared value in place.
func (a *Constant[T]) ModifyValue(fn func(v *T)) error {
	if err := a.checkAssignable(); err != nil {
		return err
	}
	fn(&a.value)
	return nil
}

// GenericValue implements Base.
func (a *Constant[T]) GenericValue(i Index) (float32, error) {
	return a.GenericItemValue(i, 0)
}

// GenericItemValue implements Base.
func (a *Constant[T]) GenericItemValue(_ Index, item int) (float32, error) {
	return a.genericItem(a.value, item)
}

func (a *Constant[T]) bind(Index) error { return nil }

func (a *Constant[T]) resize(Index) {}

func (a *Constant[T]) reserve(Index) {}

func (a *Constant[T]) deleteElements([]Index, Index) {}

func (a *Constant[T]) permute([]Index) {}

func (a *Constant[T]) copyValue(Index, Index) {}

func (a *Constant[T]) interpolate(Interpolation, Index) {}

func (a *Constant[T]) clone() Base {
	c := *a
	return &c
}

func (a *Constant[T]) copyFrom(src Base) bool {
	s, ok := src.(*Constant[T])
	if !ok {
		return false
	}
	a.props = s.props
	a.def = s.def
	a.value = s.value
	return true
}

func (a *Constant[T]) emptyLike(Index) Base {
	return &Constant[T]{core: newCore(a.name, a.def, a.props), value: a.def}
}

func (a *Constant[T]) importValues(src Base, old2new []Index) bool {
	s, ok := src.(ReadOnly[T])
	if !ok {
		return false
	}
	for i, ni := range old2new {
		if ni != NoID {
			a.value = s.Value(Index(i))
			break
		}
	}
	return true
}

// EncodeArchive writes layout v0: header, default, value.
func (a *Constant[T]) EncodeArchive(e *archive.Encoder) {
	codec, err := codecOf[T](e.Context(), a)
	if err != nil {
		e.Fail(err)
		return
	}
	constantLayout(codec).Encode(e, a)
}

// DecodeArchive reads any known layout version.
func (a *Constant[T]) DecodeArchive(d *archive.Decoder) {
	codec, err := codecOf[T](d.Context(), a)
	if err != nil {
		d.Fail(err)
		return
	}
	constantLayout(codec).Decode(d, a)
}

func constantLayout[T comparable](codec archive.Codec[T]) archive.Growable[Constant[T]] {
	return archive.DefaultGrowable(
		func(d *archive.Decoder, a *Constant[T]) {
			a.decodeCore(d, codec)
			a.value = codec.Decode(d)
		},
		func(e *archive.Encoder, a *Constant[T]) {
			a.encodeCore(e, codec)
			codec.Encode(e, a.value)
		},
	)
}
