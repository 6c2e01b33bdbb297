package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shape evolves over three layouts: v0 stored only a count, v1 added a label and
// v2 added a scale.
type shape struct {
	count int32
	label string
	scale float64
}

var shapeV0 = Growable[shape]{
	Versions: []func(*Decoder, *shape){readShapeV0},
	Write: func(e *Encoder, s *shape) {
		e.Int32(s.count)
	},
}

var shapeV1 = Growable[shape]{
	Versions: []func(*Decoder, *shape){readShapeV0, readShapeV1},
	Write: func(e *Encoder, s *shape) {
		e.Int32(s.count)
		e.String(s.label)
	},
}

var shapeV2 = Growable[shape]{
	Versions: []func(*Decoder, *shape){readShapeV0, readShapeV1, readShapeV2},
	Write: func(e *Encoder, s *shape) {
		e.Int32(s.count)
		e.String(s.label)
		e.Float64(s.scale)
	},
}

func readShapeV0(d *Decoder, s *shape) {
	s.count = d.Int32()
	s.label = "unnamed"
	s.scale = 1
}

func readShapeV1(d *Decoder, s *shape) {
	s.count = d.Int32()
	s.label = d.String()
	s.scale = 1
}

func readShapeV2(d *Decoder, s *shape) {
	s.count = d.Int32()
	s.label = d.String()
	s.scale = d.Float64()
}

func TestGrowable_ReadsOlderVersions(t *testing.T) {
	tests := []struct {
		name   string
		writer Growable[shape]
		want   shape
	}{
		{"v0", shapeV0, shape{count: 7, label: "unnamed", scale: 1}},
		{"v1", shapeV1, shape{count: 7, label: "box", scale: 1}},
		{"v2", shapeV2, shape{count: 7, label: "box", scale: 2.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEncoder(nil)
			tt.writer.Encode(e, &shape{count: 7, label: "box", scale: 2.5})
			require.NoError(t, e.Err())

			d := NewDecoder(e.Bytes(), nil)
			var got shape
			shapeV2.Decode(d, &got)
			require.NoError(t, d.Err())
			assert.Equal(t, tt.want, got)
			assert.Zero(t, d.Remaining())
		})
	}
}

func TestGrowable_Version(t *testing.T) {
	assert.Equal(t, uint64(0), shapeV0.Version())
	assert.Equal(t, uint64(2), shapeV2.Version())
}

func TestGrowable_UnknownVersionIsCorrupt(t *testing.T) {
	e := NewEncoder(nil)
	shapeV2.Encode(e, &shape{count: 1, label: "x", scale: 3})

	d := NewDecoder(e.Bytes(), nil)
	var got shape
	shapeV1.Decode(d, &got)
	require.ErrorIs(t, d.Err(), ErrCorruptData)
}

func TestGrowable_TrailingBytesAreCorrupt(t *testing.T) {
	// A v1 body read by a reader that believes it is v0 leaves the label unread.
	e := NewEncoder(nil)
	shapeV1.Encode(e, &shape{count: 1, label: "x"})

	lying := Growable[shape]{Versions: []func(*Decoder, *shape){readShapeV0, readShapeV0}}
	d := NewDecoder(e.Bytes(), nil)
	var got shape
	lying.Decode(d, &got)
	require.ErrorIs(t, d.Err(), ErrCorruptData)
}

func TestGrowable_Truncated(t *testing.T) {
	e := NewEncoder(nil)
	shapeV2.Encode(e, &shape{count: 1, label: "label", scale: 3})
	data := e.Bytes()

	for cut := 0; cut < len(data); cut++ {
		d := NewDecoder(data[:cut], nil)
		var got shape
		shapeV2.Decode(d, &got)
		require.ErrorIs(t, d.Err(), ErrCorruptData, "cut at %d", cut)
	}
}
