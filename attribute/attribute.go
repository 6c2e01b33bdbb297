package attribute

import (
	"fmt"
	"math"
	"reflect"

	"github.com/hupe1980/geoattr/archive"
)

// Index addresses one element of a manager's element set.
type Index = uint32

// NoID marks a removed element in a deletion mapping.
const NoID Index = math.MaxUint32

// Strategy identifies the storage backend of an attribute.
type Strategy uint8

const (
	// StrategyConstant stores one value broadcast to every element.
	StrategyConstant Strategy = iota
	// StrategyVariable stores one value per element.
	StrategyVariable
	// StrategySparse stores a default plus per-element overrides.
	StrategySparse
)

func (s Strategy) String() string {
	switch s {
	case StrategyConstant:
		return "Constant"
	case StrategyVariable:
		return "Variable"
	case StrategySparse:
		return "Sparse"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// Base is the type-erased surface shared by every attribute.
//
// Structural mutation (resize, deletion, permutation) is only reachable through the
// Manager that owns the attribute; Base cannot be implemented outside this package.
type Base interface {
	archive.Encodable

	// Name returns the name the attribute is registered under.
	Name() string
	// Type returns the Go type name of the stored values, e.g. "float64".
	Type() string
	Strategy() Strategy
	Properties() Properties
	SetProperties(p Properties)

	// IsGenericable reports whether values convert to float32 components.
	IsGenericable() bool
	// NbItems returns the number of float32 components per value.
	NbItems() int
	// GenericValue returns the first component of the value at i.
	GenericValue(i Index) (float32, error)
	// GenericItemValue returns component item of the value at i.
	GenericItemValue(i Index, item int) (float32, error)

	setName(name string)
	valueType() reflect.Type
	bind(nbElements Index) error
	resize(n Index)
	reserve(capacity Index)
	deleteElements(old2new []Index, n Index)
	permute(perm []Index)
	copyValue(from, to Index)
	interpolate(it Interpolation, to Index)
	clone() Base
	copyFrom(src Base) bool
	emptyLike(n Index) Base
	importValues(src Base, old2new []Index) bool
}

// ReadOnly is the typed read capability every strategy provides.
type ReadOnly[T any] interface {
	Base
	Value(i Index) T
	DefaultValue() T
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

func describe(s Strategy, typ string) string {
	return s.String() + "[" + typ + "]"
}

type header struct {
	name  string
	props Properties
}

// baseLayout: v0 stored only properties; v1 adds the attribute name.
var baseLayout = archive.Growable[header]{
	Versions: []func(*archive.Decoder, *header){
		func(d *archive.Decoder, h *header) {
			propertiesLayout.Decode(d, &h.props)
		},
		func(d *archive.Decoder, h *header) {
			propertiesLayout.Decode(d, &h.props)
			h.name = d.String()
		},
	},
	Write: func(e *archive.Encoder, h *header) {
		propertiesLayout.Encode(e, &h.props)
		e.String(h.name)
	},
}

// core holds the state shared by all strategies.
type core[T comparable] struct {
	header
	def     T
	generic generic[T]
}

func newCore[T comparable](name string, def T, props Properties) core[T] {
	return core[T]{
		header:  header{name: name, props: props},
		def:     def,
		generic: newGeneric[T](),
	}
}

func (c *core[T]) Name() string { return c.name }

func (c *core[T]) Type() string { return typeName[T]() }

func (c *core[T]) Properties() Properties { return c.props }

func (c *core[T]) SetProperties(p Properties) { c.props = p }

func (c *core[T]) IsGenericable() bool { return c.generic.ok() }

func (c *core[T]) NbItems() int { return c.generic.nbItems }

// DefaultValue returns the value new elements start with.
func (c *core[T]) DefaultValue() T { return c.def }

func (c *core[T]) setName(name string) { c.name = name }

func (c *core[T]) valueType() reflect.Type { return reflect.TypeFor[T]() }

func (c *core[T]) checkAssignable() error {
	if !c.props.Assignable {
		return &NotAssignableError{Name: c.name}
	}
	return nil
}

func (c *core[T]) genericItem(v T, item int) (float32, error) {
	if !c.generic.ok() {
		return 0, fmt.Errorf("%w: generic access to %s attribute %q", ErrNotSupported, c.Type(), c.name)
	}
	if item < 0 || item >= c.generic.nbItems {
		return 0, fmt.Errorf("attribute %q: item %d out of range [0, %d)", c.name, item, c.generic.nbItems)
	}
	return c.generic.item(v, item), nil
}

// decodeCore reads the header and default value and prepares generic access.
func (c *core[T]) decodeCore(d *archive.Decoder, codec archive.Codec[T]) {
	baseLayout.Decode(d, &c.header)
	c.def = codec.Decode(d)
	c.generic = newGeneric[T]()
}

func (c *core[T]) encodeCore(e *archive.Encoder, codec archive.Codec[T]) {
	baseLayout.Encode(e, &c.header)
	codec.Encode(e, c.def)
}

// codecOf resolves the value codec registered for the attribute type of v.
func codecOf[T any](ctx *archive.Context, v any) (archive.Codec[T], error) {
	if ctx == nil {
		return archive.Codec[T]{}, fmt.Errorf("%w: no context for %T", archive.ErrUnregisteredType, v)
	}
	entry, ok := ctx.ByType(reflect.TypeOf(v))
	if !ok {
		return archive.Codec[T]{}, fmt.Errorf("%w: %T", archive.ErrUnregisteredType, v)
	}
	codec, ok := entry.Data.(archive.Codec[T])
	if !ok || codec.Encode == nil || codec.Decode == nil {
		return archive.Codec[T]{}, fmt.Errorf("%w: entry %q has no %s codec", archive.ErrUnregisteredType, entry.Name, typeName[T]())
	}
	return codec, nil
}
