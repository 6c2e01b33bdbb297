// Package codec encodes the self-describing summaries stored next to persisted
// attribute managers.
//
// Summaries record the codec name so they can be decoded by selecting the codec
// with ByName. Changing the default codec does not affect existing files.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	case "cbor":
		return CBOR{}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for tests and fixed, known-good values.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
