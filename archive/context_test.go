package archive

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type label struct{ text string }

func (l *label) EncodeArchive(e *Encoder) { e.String(l.text) }
func (l *label) DecodeArchive(d *Decoder) { l.text = d.String() }

type counter struct{ n uint32 }

func (c *counter) EncodeArchive(e *Encoder) { e.Uint32(c.n) }
func (c *counter) DecodeArchive(d *Decoder) { c.n = d.Uint32() }

func testContext(t *testing.T) *Context {
	t.Helper()

	ctx := NewContext()
	require.NoError(t, ctx.Register(Entry{
		Name: "label",
		Type: reflect.TypeFor[*label](),
		New:  func() Decodable { return &label{} },
	}))
	require.NoError(t, ctx.Register(Entry{
		Name: "counter",
		Type: reflect.TypeFor[*counter](),
		New:  func() Decodable { return &counter{} },
	}))
	return ctx
}

func TestContext_Register(t *testing.T) {
	ctx := testContext(t)
	assert.Equal(t, []string{"counter", "label"}, ctx.Names())

	err := ctx.Register(Entry{
		Name: "label",
		Type: reflect.TypeFor[*shape](),
		New:  func() Decodable { return &label{} },
	})
	require.ErrorIs(t, err, ErrDuplicateName)

	err = ctx.Register(Entry{
		Name: "other",
		Type: reflect.TypeFor[*label](),
		New:  func() Decodable { return &label{} },
	})
	require.ErrorIs(t, err, ErrDuplicateName)

	require.Error(t, ctx.Register(Entry{Name: "incomplete"}))
}

func TestPolymorphic_RoundTrip(t *testing.T) {
	ctx := testContext(t)

	e := NewEncoder(ctx)
	EncodePolymorphic(e, &label{text: "top"})
	EncodePolymorphic(e, &counter{n: 9})
	require.NoError(t, e.Err())

	d := NewDecoder(e.Bytes(), ctx)
	first := DecodePolymorphic(d)
	second := DecodePolymorphic(d)
	require.NoError(t, d.Err())

	assert.Equal(t, &label{text: "top"}, first)
	assert.Equal(t, &counter{n: 9}, second)
}

func TestPolymorphic_Unregistered(t *testing.T) {
	e := NewEncoder(NewContext())
	EncodePolymorphic(e, &label{text: "x"})
	require.ErrorIs(t, e.Err(), ErrUnregisteredType)

	e = NewEncoder(nil)
	EncodePolymorphic(e, &label{text: "x"})
	require.ErrorIs(t, e.Err(), ErrUnregisteredType)
}

func TestPolymorphic_UnknownTagIsCorrupt(t *testing.T) {
	e := NewEncoder(testContext(t))
	EncodePolymorphic(e, &label{text: "x"})

	d := NewDecoder(e.Bytes(), NewContext())
	assert.Nil(t, DecodePolymorphic(d))
	require.ErrorIs(t, d.Err(), ErrCorruptData)
}
