package archive

import (
	"encoding/binary"
	"math"
)

// Decoder reads values written by an Encoder.
//
// The first failure (short buffer, bad varint, unknown tag) is kept and every later
// read returns a zero value, so callers check Err once after a layout is read.
type Decoder struct {
	data []byte
	off  int
	ctx  *Context
	err  error
}

// NewDecoder creates a Decoder over data bound to ctx.
func NewDecoder(data []byte, ctx *Context) *Decoder {
	return &Decoder{data: data, ctx: ctx}
}

// Context returns the registry used for polymorphic values.
func (d *Decoder) Context() *Context { return d.ctx }

// Err returns the first error recorded while decoding.
func (d *Decoder) Err() error { return d.err }

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return len(d.data) - d.off }

// Fail records err unless an error is already recorded.
func (d *Decoder) Fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *Decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.Remaining() < n {
		d.Fail(corruptf("short buffer: need %d bytes at offset %d, have %d", n, d.off, d.Remaining()))
		return nil
	}
	p := d.data[d.off : d.off+n]
	d.off += n
	return p
}

// Bool reads a one-byte boolean. Any value other than 0 or 1 is corrupt.
func (d *Decoder) Bool() bool {
	p := d.take(1)
	if p == nil {
		return false
	}
	switch p[0] {
	case 0:
		return false
	case 1:
		return true
	default:
		d.Fail(corruptf("invalid boolean byte 0x%02x", p[0]))
		return false
	}
}

// Uint8 reads one byte.
func (d *Decoder) Uint8() uint8 {
	p := d.take(1)
	if p == nil {
		return 0
	}
	return p[0]
}

// Uint16 reads a little-endian uint16.
func (d *Decoder) Uint16() uint16 {
	p := d.take(2)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(p)
}

// Uint32 reads a little-endian uint32.
func (d *Decoder) Uint32() uint32 {
	p := d.take(4)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(p)
}

// Uint64 reads a little-endian uint64.
func (d *Decoder) Uint64() uint64 {
	p := d.take(8)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(p)
}

// Int8 reads a signed byte.
func (d *Decoder) Int8() int8 { return int8(d.Uint8()) }

// Int16 reads a little-endian int16.
func (d *Decoder) Int16() int16 { return int16(d.Uint16()) }

// Int32 reads a little-endian int32.
func (d *Decoder) Int32() int32 { return int32(d.Uint32()) }

// Int64 reads a little-endian int64.
func (d *Decoder) Int64() int64 { return int64(d.Uint64()) }

// Float32 reads IEEE-754 bits.
func (d *Decoder) Float32() float32 { return math.Float32frombits(d.Uint32()) }

// Float64 reads IEEE-754 bits.
func (d *Decoder) Float64() float64 { return math.Float64frombits(d.Uint64()) }

// Uvarint reads an unsigned varint.
func (d *Decoder) Uvarint() uint64 {
	if d.err != nil {
		return 0
	}
	v, n := binary.Uvarint(d.data[d.off:])
	if n <= 0 {
		d.Fail(corruptf("invalid varint at offset %d", d.off))
		return 0
	}
	d.off += n
	return v
}

// Length reads a uvarint element count and checks that at least minSize bytes per
// element remain, so corrupt counts cannot trigger huge allocations.
func (d *Decoder) Length(minSize int) int {
	n := d.Uvarint()
	if d.err != nil {
		return 0
	}
	if minSize < 1 {
		minSize = 1
	}
	if n > uint64(d.Remaining()/minSize) {
		d.Fail(corruptf("length %d exceeds remaining payload", n))
		return 0
	}
	return int(n)
}

// String reads a length-prefixed string.
func (d *Decoder) String() string {
	n := d.Length(1)
	p := d.take(n)
	if p == nil {
		return ""
	}
	return string(p)
}

// ByteSlice reads a length-prefixed byte slice. The result aliases the input buffer.
func (d *Decoder) ByteSlice() []byte {
	n := d.Length(1)
	return d.take(n)
}

// Raw reads exactly n bytes without a length prefix.
func (d *Decoder) Raw(n int) []byte { return d.take(n) }

// Nested reads a length-delimited section written by Encoder.Nested and runs fn over
// it. The section must be consumed exactly.
func (d *Decoder) Nested(fn func(*Decoder)) {
	body := d.ByteSlice()
	if d.err != nil {
		return
	}
	sub := &Decoder{data: body, ctx: d.ctx}
	fn(sub)
	if sub.err != nil {
		d.Fail(sub.err)
		return
	}
	if sub.Remaining() != 0 {
		d.Fail(corruptf("%d trailing bytes in section", sub.Remaining()))
	}
}
