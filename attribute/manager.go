package attribute

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"
)

// Manager owns the named attributes of one element set and keeps every attribute
// sized to the shared element count.
//
// Creation and structural operations are synchronized. Typed reads and writes
// through attribute handles are not: callers must not access attributes while a
// structural operation is in progress.
//
// Handles stay valid after DeleteAttribute or ClearAttributes but are no longer
// resized, compacted or permuted by the manager.
type Manager struct {
	mu         sync.RWMutex
	attributes map[string]Base
	nbElements Index
	opts       options
}

// NewManager creates an empty manager with zero elements.
func NewManager(optFns ...Option) *Manager {
	return &Manager{
		attributes: make(map[string]Base),
		opts:       applyOptions(optFns),
	}
}

// FindOrCreateConstant returns the constant attribute called name, creating it
// with value when absent. props are only used on creation.
func FindOrCreateConstant[T comparable](m *Manager, name string, value T, props ...Properties) (*Constant[T], error) {
	return findOrCreate(m, name, StrategyConstant, typeName[T](), func(Index) *Constant[T] {
		return NewConstant(name, value, props...)
	})
}

// FindOrCreateVariable returns the variable attribute called name, creating it with
// every element set to def when absent. props are only used on creation.
func FindOrCreateVariable[T comparable](m *Manager, name string, def T, props ...Properties) (*Variable[T], error) {
	return findOrCreate(m, name, StrategyVariable, typeName[T](), func(n Index) *Variable[T] {
		return NewVariable(name, def, n, props...)
	})
}

// FindOrCreateSparse returns the sparse attribute called name, creating it with
// default def when absent. props are only used on creation.
func FindOrCreateSparse[T comparable](m *Manager, name string, def T, props ...Properties) (*Sparse[T], error) {
	return findOrCreate(m, name, StrategySparse, typeName[T](), func(n Index) *Sparse[T] {
		return NewSparse(name, def, n, props...)
	})
}

func findOrCreate[A Base](m *Manager, name string, strategy Strategy, typ string, create func(n Index) A) (A, error) {
	m.mu.RLock()
	existing, ok := m.attributes[name]
	m.mu.RUnlock()

	if !ok {
		m.mu.Lock()
		existing, ok = m.attributes[name]
		if !ok {
			created := create(m.nbElements)
			m.attributes[name] = created
			n := m.nbElements
			m.mu.Unlock()

			m.opts.metricsCollector.RecordCreate(strategy)
			m.opts.logger.Debug("attribute created",
				"name", name,
				"strategy", strategy.String(),
				"type", typ,
				"nb_elements", n,
			)
			return created, nil
		}
		m.mu.Unlock()
	}

	a, ok := existing.(A)
	if !ok {
		var zero A
		return zero, &TypeMismatchError{
			Name:      name,
			Stored:    describe(existing.Strategy(), existing.Type()),
			Requested: describe(strategy, typ),
		}
	}
	return a, nil
}

// FindAttribute returns a typed read handle for name, whatever its strategy.
func FindAttribute[T any](m *Manager, name string) (ReadOnly[T], error) {
	b, ok := m.FindGenericAttribute(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	a, ok := b.(ReadOnly[T])
	if !ok {
		return nil, &TypeMismatchError{
			Name:      name,
			Stored:    describe(b.Strategy(), b.Type()),
			Requested: typeName[T](),
		}
	}
	return a, nil
}

// FindGenericAttribute returns the type-erased handle for name.
func (m *Manager) FindGenericAttribute(name string) (Base, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.attributes[name]
	return a, ok
}

// AttributeNames returns the names of all attributes in sorted order.
func (m *Manager) AttributeNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.attributes))
}

// AttributeExists reports whether an attribute called name exists.
func (m *Manager) AttributeExists(name string) bool {
	_, ok := m.FindGenericAttribute(name)
	return ok
}

// AttributeType returns the value type name of the attribute, or "undefined".
func (m *Manager) AttributeType(name string) string {
	a, ok := m.FindGenericAttribute(name)
	if !ok {
		return "undefined"
	}
	return a.Type()
}

// NbElements returns the shared element count.
func (m *Manager) NbElements() Index {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.nbElements
}

// SetAttributeProperties replaces the properties of the attribute called name.
func (m *Manager) SetAttributeProperties(name string, p Properties) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.attributes[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	a.SetProperties(p)
	return nil
}

// HasAssignableAttributes reports whether any attribute is assignable.
func (m *Manager) HasAssignableAttributes() bool {
	return m.anyAttribute(func(p Properties) bool { return p.Assignable })
}

// HasInterpolableAttributes reports whether any attribute is interpolable.
func (m *Manager) HasInterpolableAttributes() bool {
	return m.anyAttribute(func(p Properties) bool { return p.Interpolable })
}

func (m *Manager) anyAttribute(pred func(Properties) bool) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.attributes {
		if pred(a.Properties()) {
			return true
		}
	}
	return false
}

// Reserve asks dense attributes to preallocate room for capacity elements.
func (m *Manager) Reserve(capacity Index) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.forEach(func(a Base) { a.reserve(capacity) })
}

// Resize grows or truncates every attribute to n elements. Growing fills new
// elements with each attribute's default.
func (m *Manager) Resize(n Index) {
	start := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if n == m.nbElements {
		return
	}
	m.forEach(func(a Base) { a.resize(n) })
	m.nbElements = n

	m.opts.metricsCollector.RecordResize(int(n), time.Since(start))
	m.opts.logger.Debug("attributes resized", "nb_elements", n, "attributes", len(m.attributes))
}

// DeleteElements removes every element flagged in mask and returns the mapping from
// old to new indices, with NoID for removed elements. len(mask) must equal
// NbElements.
func (m *Manager) DeleteElements(mask []bool) ([]Index, error) {
	start := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(mask) != int(m.nbElements) {
		err := &SizeMismatchError{Op: "delete elements", Expected: int(m.nbElements), Actual: len(mask)}
		m.opts.metricsCollector.RecordDelete(0, time.Since(start), err)
		return nil, err
	}

	old2new, removed := MappingAfterDeletion(mask)
	m.applyDeletion(old2new, removed)
	m.opts.metricsCollector.RecordDelete(removed, time.Since(start), nil)
	return old2new, nil
}

// DeleteElementsBitmap removes the elements in deleted and returns the mapping from
// old to new indices. Every index in deleted must be below NbElements.
func (m *Manager) DeleteElementsBitmap(deleted *roaring.Bitmap) ([]Index, error) {
	start := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if deleted == nil || deleted.IsEmpty() {
		return identityMapping(m.nbElements), nil
	}
	if maxIdx := deleted.Maximum(); maxIdx >= m.nbElements {
		err := &SizeMismatchError{Op: "delete elements", Expected: int(m.nbElements), Actual: int(maxIdx) + 1}
		m.opts.metricsCollector.RecordDelete(0, time.Since(start), err)
		return nil, err
	}

	removed := int(deleted.GetCardinality())
	old2new := mappingFromBitmap(deleted, m.nbElements)
	m.applyDeletion(old2new, removed)
	m.opts.metricsCollector.RecordDelete(removed, time.Since(start), nil)
	return old2new, nil
}

func (m *Manager) applyDeletion(old2new []Index, removed int) {
	if removed == 0 {
		return
	}
	n := m.nbElements - Index(removed)
	m.forEach(func(a Base) { a.deleteElements(old2new, n) })
	m.nbElements = n

	m.opts.logger.Debug("elements deleted", "removed", removed, "nb_elements", n)
}

// PermuteElements moves the value of every element i to perm[i] in every attribute.
// perm must be a permutation of [0, NbElements).
func (m *Manager) PermuteElements(perm []Index) error {
	start := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.permute(perm)
	m.opts.metricsCollector.RecordPermute(time.Since(start), err)
	return err
}

func (m *Manager) permute(perm []Index) error {
	if len(perm) != int(m.nbElements) {
		return &SizeMismatchError{Op: "permute elements", Expected: int(m.nbElements), Actual: len(perm)}
	}
	if err := validatePermutation(perm); err != nil {
		return err
	}
	m.forEach(func(a Base) { a.permute(perm) })
	return nil
}

// DeleteAttribute removes the attribute called name. Existing handles stay usable
// but are no longer kept aligned.
func (m *Manager) DeleteAttribute(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.attributes, name)
}

// ClearAttributes removes every attribute and keeps the element count.
func (m *Manager) ClearAttributes() {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.attributes)
}

// Clear removes every attribute and resets the element count to zero.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.attributes)
	m.nbElements = 0
}

// CopyAttributeValue sets element to to the value of element from in every
// assignable attribute.
func (m *Manager) CopyAttributeValue(from, to Index) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.attributes {
		if a.Properties().Assignable {
			a.copyValue(from, to)
		}
	}
}

// InterpolateAttributeValue computes element to from it in every interpolable
// attribute. Other attributes are left untouched.
func (m *Manager) InterpolateAttributeValue(it Interpolation, to Index) {
	if err := it.Validate(); err != nil {
		m.opts.logger.Error("interpolation skipped", "to", to, "error", err)
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.attributes {
		if a.Properties().Interpolable {
			a.interpolate(it, to)
		}
	}
}

// Copy makes m mirror from: the element count is taken over, same-named attributes
// are overwritten and missing ones are cloned. A same-named attribute of another
// type or strategy is logged and left unchanged.
func (m *Manager) Copy(from *Manager) {
	if from == m {
		return
	}
	attributes, nbElements := from.snapshot(func(Base) bool { return true })

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nbElements = nbElements
	for name, src := range attributes {
		dst, ok := m.attributes[name]
		if !ok {
			m.attributes[name] = src
			continue
		}
		if !dst.copyFrom(src) {
			m.opts.logger.Error("attribute cannot be copied",
				"name", name,
				"stored", describe(dst.Strategy(), dst.Type()),
				"source", describe(src.Strategy(), src.Type()),
			)
			dst.resize(m.nbElements)
		}
	}
	for name, a := range m.attributes {
		if _, ok := attributes[name]; !ok {
			a.resize(m.nbElements)
		}
	}
}

// snapshot deep-copies the attributes matching keep under m's read lock. Callers
// copy between managers from the snapshot so that no goroutine ever holds two
// manager locks at once.
func (m *Manager) snapshot(keep func(Base) bool) (map[string]Base, Index) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]Base, len(m.attributes))
	for name, a := range m.attributes {
		if keep(a) {
			out[name] = a.clone()
		}
	}
	return out, m.nbElements
}

// Clone returns an independent deep copy of m with the same options.
func (m *Manager) Clone() *Manager {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c := &Manager{
		attributes: make(map[string]Base, len(m.attributes)),
		nbElements: m.nbElements,
		opts:       m.opts,
	}
	for name, a := range m.attributes {
		c.attributes[name] = a.clone()
	}
	return c
}

// Import transfers the values of every transferable attribute of from into m.
// old2new maps each element of from to an element of m, or NoID to skip it.
// Missing attributes are created with the source default and properties; an
// existing attribute of another value type is logged and skipped.
func (m *Manager) Import(from *Manager, old2new []Index) error {
	if from == m {
		return fmt.Errorf("attribute: cannot import a manager into itself")
	}
	attributes, nbElements := from.snapshot(func(a Base) bool { return a.Properties().Transferable })
	if len(old2new) != int(nbElements) {
		return &SizeMismatchError{Op: "import", Expected: int(nbElements), Actual: len(old2new)}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, ni := range old2new {
		if ni != NoID && ni >= m.nbElements {
			return fmt.Errorf("%w: import maps element %d to %d, outside [0, %d)", ErrSizeMismatch, i, ni, m.nbElements)
		}
	}

	for name, src := range attributes {
		dst, ok := m.attributes[name]
		if !ok {
			dst = src.emptyLike(m.nbElements)
			m.attributes[name] = dst
		}
		if !dst.importValues(src, old2new) {
			m.opts.logger.Error("attribute cannot be imported",
				"name", name,
				"stored", describe(dst.Strategy(), dst.Type()),
				"source", describe(src.Strategy(), src.Type()),
			)
		}
	}
	return nil
}

// forEach runs fn on every attribute, in parallel when configured. Callers hold
// the write lock.
func (m *Manager) forEach(fn func(a Base)) {
	if m.opts.parallelism <= 1 || len(m.attributes) < 2 {
		for _, a := range m.attributes {
			fn(a)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(m.opts.parallelism)
	for _, a := range m.attributes {
		g.Go(func() error {
			fn(a)
			return nil
		})
	}
	_ = g.Wait()
}

// Logger returns the logger the manager reports to.
func (m *Manager) Logger() *slog.Logger { return m.opts.logger }
