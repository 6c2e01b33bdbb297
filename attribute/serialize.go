package attribute

import (
	"fmt"
	"io"
	"maps"
	"reflect"
	"slices"

	"github.com/hupe1980/geoattr/archive"
)

// Type tag prefixes; the full tag is prefix + "[" + value type name + "]".
const (
	ConstantTagPrefix = "ConstantAttribute"
	VariableTagPrefix = "VariableAttribute"
	SparseTagPrefix   = "SparseAttribute"
)

// TypeTag returns the archive tag of a strategy and registered value type name.
func TypeTag(s Strategy, valueName string) string {
	var prefix string
	switch s {
	case StrategyConstant:
		prefix = ConstantTagPrefix
	case StrategyVariable:
		prefix = VariableTagPrefix
	default:
		prefix = SparseTagPrefix
	}
	return prefix + "[" + valueName + "]"
}

// RegisterType makes attributes of value type T persistable in ctx under name for
// all three strategies. Each name may be registered once per context.
func RegisterType[T comparable](ctx *archive.Context, name string, codec archive.Codec[T]) error {
	if codec.Encode == nil || codec.Decode == nil {
		return fmt.Errorf("attribute: incomplete codec for %q", name)
	}
	entries := []archive.Entry{
		{
			Name: TypeTag(StrategyConstant, name),
			Type: reflect.TypeFor[*Constant[T]](),
			New:  func() archive.Decodable { return &Constant[T]{} },
			Data: codec,
		},
		{
			Name: TypeTag(StrategyVariable, name),
			Type: reflect.TypeFor[*Variable[T]](),
			New:  func() archive.Decodable { return &Variable[T]{} },
			Data: codec,
		},
		{
			Name: TypeTag(StrategySparse, name),
			Type: reflect.TypeFor[*Sparse[T]](),
			New:  func() archive.Decodable { return &Sparse[T]{} },
			Data: codec,
		},
	}
	for _, entry := range entries {
		if err := ctx.Register(entry); err != nil {
			return err
		}
	}
	return nil
}

// managerLayout v0: u32 element count, then (name, tagged attribute) pairs in name
// order.
var managerLayout = archive.DefaultGrowable(
	func(d *archive.Decoder, m *Manager) {
		n := d.Uint32()
		count := d.Length(2)
		for range count {
			name := d.String()
			v := archive.DecodePolymorphic(d)
			if d.Err() != nil {
				return
			}
			a, ok := v.(Base)
			if !ok {
				d.Fail(corruptf("entry %q is not an attribute (%T)", name, v))
				return
			}
			if _, dup := m.attributes[name]; dup {
				d.Fail(corruptf("duplicate attribute %q", name))
				return
			}
			a.setName(name)
			if err := a.bind(n); err != nil {
				d.Fail(err)
				return
			}
			m.attributes[name] = a
		}
		m.nbElements = n
	},
	func(e *archive.Encoder, m *Manager) {
		e.Uint32(m.nbElements)
		e.Uvarint(uint64(len(m.attributes)))
		for _, name := range slices.Sorted(maps.Keys(m.attributes)) {
			e.String(name)
			archive.EncodePolymorphic(e, m.attributes[name])
		}
	},
)

// Encode writes m into e. Every attribute value type must be registered in the
// encoder's context.
func Encode(e *archive.Encoder, m *Manager) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	managerLayout.Encode(e, m)
	return e.Err()
}

// Decode reads a manager written by Encode. Any corruption fails the whole manager.
func Decode(d *archive.Decoder, optFns ...Option) (*Manager, error) {
	m := NewManager(optFns...)
	managerLayout.Decode(d, m)
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Save writes m to w as a single frame.
func Save(w io.Writer, m *Manager, ctx *archive.Context, frame archive.FrameOptions) error {
	e := archive.NewEncoder(ctx)
	if err := Encode(e, m); err != nil {
		return err
	}
	if err := archive.WriteFrame(w, e.Bytes(), frame); err != nil {
		return err
	}

	m.opts.logger.Debug("attributes saved",
		"bytes", e.Len(),
		"compression", frame.Compression.String(),
	)
	return nil
}

// Load reads a manager written by Save.
func Load(r io.Reader, ctx *archive.Context, optFns ...Option) (*Manager, error) {
	payload, err := archive.ReadFrame(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(payload, ctx, optFns...)
}

// Marshal encodes m without framing.
func Marshal(m *Manager, ctx *archive.Context) ([]byte, error) {
	e := archive.NewEncoder(ctx)
	if err := Encode(e, m); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// Unmarshal decodes a payload produced by Marshal. Trailing bytes are corrupt.
func Unmarshal(data []byte, ctx *archive.Context, optFns ...Option) (*Manager, error) {
	d := archive.NewDecoder(data, ctx)
	m, err := Decode(d, optFns...)
	if err != nil {
		return nil, err
	}
	if d.Remaining() != 0 {
		return nil, corruptf("%d trailing bytes after manager", d.Remaining())
	}
	return m, nil
}
