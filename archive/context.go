package archive

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Encodable is implemented by polymorphic values written through a Context.
type Encodable interface {
	EncodeArchive(e *Encoder)
}

// Decodable is implemented by polymorphic values read through a Context.
type Decodable interface {
	DecodeArchive(d *Decoder)
}

// Entry describes one registered type.
type Entry struct {
	// Name is the stable tag written to payloads.
	Name string
	// Type is the Go type of values produced by New.
	Type reflect.Type
	// New returns a fresh, empty value ready for DecodeArchive.
	New func() Decodable
	// Data carries registration data for the owning package (e.g. a value codec).
	Data any
}

// Context is a name-keyed type registry.
//
// A Context is filled once by explicit registration calls before first use and is
// then safe for concurrent reads.
type Context struct {
	mu     sync.RWMutex
	byName map[string]Entry
	byType map[reflect.Type]Entry
}

// NewContext creates an empty registry.
func NewContext() *Context {
	return &Context{
		byName: make(map[string]Entry),
		byType: make(map[reflect.Type]Entry),
	}
}

// Register adds an entry. Names and Go types must be unique within a Context.
func (c *Context) Register(entry Entry) error {
	if entry.Name == "" || entry.Type == nil || entry.New == nil {
		return fmt.Errorf("archive: incomplete entry %q", entry.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byName[entry.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, entry.Name)
	}
	if prev, ok := c.byType[entry.Type]; ok {
		return fmt.Errorf("%w: %s is already registered as %q", ErrDuplicateName, entry.Type, prev.Name)
	}
	c.byName[entry.Name] = entry
	c.byType[entry.Type] = entry
	return nil
}

// ByName looks up an entry by its stable tag.
func (c *Context) ByName(name string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.byName[name]
	return e, ok
}

// ByType looks up the entry registered for a Go type.
func (c *Context) ByType(t reflect.Type) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.byType[t]
	return e, ok
}

// Names returns all registered tags in sorted order.
func (c *Context) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EncodePolymorphic writes the registered tag of v followed by its payload.
func EncodePolymorphic(e *Encoder, v Encodable) {
	if e.ctx == nil {
		e.Fail(fmt.Errorf("%w: no context for %T", ErrUnregisteredType, v))
		return
	}
	entry, ok := e.ctx.ByType(reflect.TypeOf(v))
	if !ok {
		e.Fail(fmt.Errorf("%w: %T", ErrUnregisteredType, v))
		return
	}
	e.String(entry.Name)
	v.EncodeArchive(e)
}

// DecodePolymorphic reads a tag, creates the registered value and decodes it.
func DecodePolymorphic(d *Decoder) Decodable {
	name := d.String()
	if d.err != nil {
		return nil
	}
	if d.ctx == nil {
		d.Fail(corruptf("no context to resolve type tag %q", name))
		return nil
	}
	entry, ok := d.ctx.ByName(name)
	if !ok {
		d.Fail(corruptf("unknown type tag %q", name))
		return nil
	}
	v := entry.New()
	v.DecodeArchive(d)
	if d.err != nil {
		return nil
	}
	return v
}
