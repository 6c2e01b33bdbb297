package archive

// Codec writes and reads single values of type T.
type Codec[T any] struct {
	Encode func(e *Encoder, v T)
	Decode func(d *Decoder) T
	// Size is the minimum encoded size in bytes, used to bound corrupt lengths.
	Size int
}

// Built-in codecs for the primitive attribute value types.
var (
	BoolCodec = Codec[bool]{
		Encode: func(e *Encoder, v bool) { e.Bool(v) },
		Decode: func(d *Decoder) bool { return d.Bool() },
		Size:   1,
	}
	Int8Codec = Codec[int8]{
		Encode: func(e *Encoder, v int8) { e.Int8(v) },
		Decode: func(d *Decoder) int8 { return d.Int8() },
		Size:   1,
	}
	Uint8Codec = Codec[uint8]{
		Encode: func(e *Encoder, v uint8) { e.Uint8(v) },
		Decode: func(d *Decoder) uint8 { return d.Uint8() },
		Size:   1,
	}
	Int16Codec = Codec[int16]{
		Encode: func(e *Encoder, v int16) { e.Int16(v) },
		Decode: func(d *Decoder) int16 { return d.Int16() },
		Size:   2,
	}
	Uint16Codec = Codec[uint16]{
		Encode: func(e *Encoder, v uint16) { e.Uint16(v) },
		Decode: func(d *Decoder) uint16 { return d.Uint16() },
		Size:   2,
	}
	Int32Codec = Codec[int32]{
		Encode: func(e *Encoder, v int32) { e.Int32(v) },
		Decode: func(d *Decoder) int32 { return d.Int32() },
		Size:   4,
	}
	Uint32Codec = Codec[uint32]{
		Encode: func(e *Encoder, v uint32) { e.Uint32(v) },
		Decode: func(d *Decoder) uint32 { return d.Uint32() },
		Size:   4,
	}
	Int64Codec = Codec[int64]{
		Encode: func(e *Encoder, v int64) { e.Int64(v) },
		Decode: func(d *Decoder) int64 { return d.Int64() },
		Size:   8,
	}
	Uint64Codec = Codec[uint64]{
		Encode: func(e *Encoder, v uint64) { e.Uint64(v) },
		Decode: func(d *Decoder) uint64 { return d.Uint64() },
		Size:   8,
	}
	// IntCodec stores int as 64 bits regardless of the platform word size.
	IntCodec = Codec[int]{
		Encode: func(e *Encoder, v int) { e.Int64(int64(v)) },
		Decode: func(d *Decoder) int { return int(d.Int64()) },
		Size:   8,
	}
	Float32Codec = Codec[float32]{
		Encode: func(e *Encoder, v float32) { e.Float32(v) },
		Decode: func(d *Decoder) float32 { return d.Float32() },
		Size:   4,
	}
	Float64Codec = Codec[float64]{
		Encode: func(e *Encoder, v float64) { e.Float64(v) },
		Decode: func(d *Decoder) float64 { return d.Float64() },
		Size:   8,
	}
	StringCodec = Codec[string]{
		Encode: func(e *Encoder, v string) { e.String(v) },
		Decode: func(d *Decoder) string { return d.String() },
		Size:   1,
	}
)

// Array2 builds a codec for [2]E from an element codec.
func Array2[E any](c Codec[E]) Codec[[2]E] {
	return Codec[[2]E]{
		Encode: func(e *Encoder, v [2]E) {
			c.Encode(e, v[0])
			c.Encode(e, v[1])
		},
		Decode: func(d *Decoder) (v [2]E) {
			v[0] = c.Decode(d)
			v[1] = c.Decode(d)
			return v
		},
		Size: 2 * c.Size,
	}
}

// Array3 builds a codec for [3]E from an element codec.
func Array3[E any](c Codec[E]) Codec[[3]E] {
	return Codec[[3]E]{
		Encode: func(e *Encoder, v [3]E) {
			for i := range v {
				c.Encode(e, v[i])
			}
		},
		Decode: func(d *Decoder) (v [3]E) {
			for i := range v {
				v[i] = c.Decode(d)
			}
			return v
		},
		Size: 3 * c.Size,
	}
}

// Array4 builds a codec for [4]E from an element codec.
func Array4[E any](c Codec[E]) Codec[[4]E] {
	return Codec[[4]E]{
		Encode: func(e *Encoder, v [4]E) {
			for i := range v {
				c.Encode(e, v[i])
			}
		},
		Decode: func(d *Decoder) (v [4]E) {
			for i := range v {
				v[i] = c.Decode(d)
			}
			return v
		},
		Size: 4 * c.Size,
	}
}
