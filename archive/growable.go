package archive

// Growable is a versioned layout for values of type T.
//
// Versions[0] reads the oldest recognized layout and the last entry reads the
// current one. Write always produces the current layout. A reader for an older
// version is responsible for giving fields that did not exist yet a sensible value.
//
// Each value is stored as a uvarint version tag followed by a length-delimited body,
// so a reader that consumes too few or too many bytes is detected as corruption.
type Growable[T any] struct {
	Versions []func(d *Decoder, v *T)
	Write    func(e *Encoder, v *T)
}

// DefaultGrowable is a single-version layout whose reader and writer share fn.
func DefaultGrowable[T any](read func(d *Decoder, v *T), write func(e *Encoder, v *T)) Growable[T] {
	return Growable[T]{
		Versions: []func(*Decoder, *T){read},
		Write:    write,
	}
}

// Version returns the tag written by Encode.
func (g Growable[T]) Version() uint64 {
	return uint64(len(g.Versions) - 1)
}

// Encode writes v using the current layout.
func (g Growable[T]) Encode(e *Encoder, v *T) {
	e.Uvarint(g.Version())
	e.Nested(func(sub *Encoder) {
		g.Write(sub, v)
	})
}

// Decode reads v using the reader selected by the stored version tag.
func (g Growable[T]) Decode(d *Decoder, v *T) {
	version := d.Uvarint()
	if d.Err() != nil {
		return
	}
	if version >= uint64(len(g.Versions)) {
		d.Fail(corruptf("unknown layout version %d (known: %d)", version, len(g.Versions)))
		return
	}
	read := g.Versions[version]
	d.Nested(func(sub *Decoder) {
		read(sub, v)
	})
}
