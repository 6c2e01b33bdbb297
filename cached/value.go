// Package cached provides a lazily computed, memoized value that is safe for
// concurrent use.
package cached

import (
	"sync"
	"sync/atomic"
)

// Value memoizes the result of a computation.
//
// Get returns the stored value without locking once it has been computed. The first
// computation runs under a mutex with a second check of the flag, so concurrent
// callers compute at most once.
//
// Reset must not be called while a first computation is in flight.
// The zero Value is empty and ready to use.
type Value[T any] struct {
	computed atomic.Bool
	mu       sync.Mutex
	value    T
}

// Get returns the cached value, calling compute if it has not been computed yet.
func (v *Value[T]) Get(compute func() T) T {
	if v.computed.Load() {
		return v.value
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.computed.Load() {
		v.value = compute()
		v.computed.Store(true)
	}
	return v.value
}

// Computed reports whether a value is cached.
func (v *Value[T]) Computed() bool {
	return v.computed.Load()
}

// Reset discards the cached value.
func (v *Value[T]) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	var zero T
	v.value = zero
	v.computed.Store(false)
}
