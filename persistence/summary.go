package persistence

import (
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/geoattr/attribute"
)

// Summary describes one saved archive without decoding it.
type Summary struct {
	ID          uuid.UUID          `json:"id" cbor:"id"`
	Name        string             `json:"name" cbor:"name"`
	Blob        string             `json:"blob" cbor:"blob"`
	NbElements  uint32             `json:"nb_elements" cbor:"nb_elements"`
	Attributes  []AttributeSummary `json:"attributes" cbor:"attributes"`
	Compression string             `json:"compression" cbor:"compression"`
	RawBytes    int                `json:"raw_bytes" cbor:"raw_bytes"`
	StoredBytes int                `json:"stored_bytes" cbor:"stored_bytes"`
	CreatedAt   time.Time          `json:"created_at" cbor:"created_at"`
}

// AttributeSummary describes one attribute of a saved manager.
type AttributeSummary struct {
	Name         string `json:"name" cbor:"name"`
	Type         string `json:"type" cbor:"type"`
	Strategy     string `json:"strategy" cbor:"strategy"`
	Assignable   bool   `json:"assignable" cbor:"assignable"`
	Interpolable bool   `json:"interpolable" cbor:"interpolable"`
	Transferable bool   `json:"transferable" cbor:"transferable"`
}

// Describe lists the attributes of m in name order.
func Describe(m *attribute.Manager) []AttributeSummary {
	names := m.AttributeNames()
	out := make([]AttributeSummary, 0, len(names))
	for _, name := range names {
		a, ok := m.FindGenericAttribute(name)
		if !ok {
			continue
		}
		p := a.Properties()
		out = append(out, AttributeSummary{
			Name:         name,
			Type:         a.Type(),
			Strategy:     a.Strategy().String(),
			Assignable:   p.Assignable,
			Interpolable: p.Interpolable,
			Transferable: p.Transferable,
		})
	}
	return out
}
