package archive

import (
	"encoding/binary"
	"math"
)

// Encoder appends little-endian values to an in-memory buffer.
//
// Encoding into memory never fails; the only error source is a polymorphic value
// whose type is missing from the Context, which is recorded and reported by Err.
type Encoder struct {
	buf []byte
	ctx *Context
	err error
}

// NewEncoder creates an Encoder bound to ctx. ctx may be nil when no polymorphic
// values are written.
func NewEncoder(ctx *Context) *Encoder {
	return &Encoder{
		buf: make([]byte, 0, 256),
		ctx: ctx,
	}
}

// Context returns the registry used for polymorphic values.
func (e *Encoder) Context() *Context { return e.ctx }

// Bytes returns the encoded payload.
func (e *Encoder) Bytes() []byte { return e.buf }

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int { return len(e.buf) }

// Err returns the first error recorded while encoding.
func (e *Encoder) Err() error { return e.err }

// Fail records err unless an error is already recorded.
func (e *Encoder) Fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

// Bool writes a boolean as one byte.
func (e *Encoder) Bool(v bool) {
	if v {
		e.buf = append(e.buf, 1)
		return
	}
	e.buf = append(e.buf, 0)
}

// Uint8 writes one byte.
func (e *Encoder) Uint8(v uint8) { e.buf = append(e.buf, v) }

// Uint16 writes a little-endian uint16.
func (e *Encoder) Uint16(v uint16) { e.buf = binary.LittleEndian.AppendUint16(e.buf, v) }

// Uint32 writes a little-endian uint32.
func (e *Encoder) Uint32(v uint32) { e.buf = binary.LittleEndian.AppendUint32(e.buf, v) }

// Uint64 writes a little-endian uint64.
func (e *Encoder) Uint64(v uint64) { e.buf = binary.LittleEndian.AppendUint64(e.buf, v) }

// Int8 writes a signed byte.
func (e *Encoder) Int8(v int8) { e.Uint8(uint8(v)) }

// Int16 writes a little-endian int16.
func (e *Encoder) Int16(v int16) { e.Uint16(uint16(v)) }

// Int32 writes a little-endian int32.
func (e *Encoder) Int32(v int32) { e.Uint32(uint32(v)) }

// Int64 writes a little-endian int64.
func (e *Encoder) Int64(v int64) { e.Uint64(uint64(v)) }

// Float32 writes the IEEE-754 bits of v.
func (e *Encoder) Float32(v float32) { e.Uint32(math.Float32bits(v)) }

// Float64 writes the IEEE-754 bits of v.
func (e *Encoder) Float64(v float64) { e.Uint64(math.Float64bits(v)) }

// Uvarint writes an unsigned varint.
func (e *Encoder) Uvarint(v uint64) { e.buf = binary.AppendUvarint(e.buf, v) }

// String writes a uvarint length followed by the raw bytes.
func (e *Encoder) String(s string) {
	e.Uvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// ByteSlice writes a uvarint length followed by p.
func (e *Encoder) ByteSlice(p []byte) {
	e.Uvarint(uint64(len(p)))
	e.buf = append(e.buf, p...)
}

// Raw appends p without a length prefix.
func (e *Encoder) Raw(p []byte) { e.buf = append(e.buf, p...) }

// Nested encodes fn into a length-delimited section.
func (e *Encoder) Nested(fn func(*Encoder)) {
	sub := &Encoder{buf: make([]byte, 0, 64), ctx: e.ctx}
	fn(sub)
	if sub.err != nil {
		e.Fail(sub.err)
	}
	e.ByteSlice(sub.buf)
}
