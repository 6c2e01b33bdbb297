package attribute

import "slices"

// Interpolation describes a new value as a weighted combination of existing
// elements. Weights are not required to sum to one.
type Interpolation struct {
	Indices []Index
	Weights []float64
}

// NewInterpolation pairs indices with weights.
func NewInterpolation(indices []Index, weights []float64) (Interpolation, error) {
	it := Interpolation{Indices: indices, Weights: weights}
	if err := it.Validate(); err != nil {
		return Interpolation{}, err
	}
	return it, nil
}

// Validate reports whether every index has a weight.
func (it Interpolation) Validate() error {
	if len(it.Indices) != len(it.Weights) {
		return &SizeMismatchError{Op: "interpolation", Expected: len(it.Indices), Actual: len(it.Weights)}
	}
	return nil
}

// Combiner is implemented by value types with their own blending rule, e.g.
// colors that average instead of summing.
type Combiner[T any] interface {
	Combine(values []T, weights []float64) T
}

// ComputeValue evaluates it against attr without modifying attr.
//
// Types implementing Combiner use their own rule. Floating point scalars and fixed
// float arrays use the weighted sum, returning the first value unchanged when every
// input is equal. Any other type, and an empty or invalid interpolation, yields the
// attribute default.
func ComputeValue[T any](it Interpolation, attr ReadOnly[T]) T {
	if len(it.Indices) == 0 || it.Validate() != nil {
		return attr.DefaultValue()
	}
	values := make([]T, len(it.Indices))
	for i, idx := range it.Indices {
		values[i] = attr.Value(idx)
	}

	var zero T
	if c, ok := any(zero).(Combiner[T]); ok {
		return c.Combine(values, it.Weights)
	}

	switch vs := any(values).(type) {
	case []float32:
		return any(weightedScalar(vs, it.Weights)).(T)
	case []float64:
		return any(weightedScalar(vs, it.Weights)).(T)
	case [][2]float32:
		return any(weightedArray(vs, it.Weights, func(v *[2]float32) []float32 { return v[:] })).(T)
	case [][3]float32:
		return any(weightedArray(vs, it.Weights, func(v *[3]float32) []float32 { return v[:] })).(T)
	case [][4]float32:
		return any(weightedArray(vs, it.Weights, func(v *[4]float32) []float32 { return v[:] })).(T)
	case [][2]float64:
		return any(weightedArray(vs, it.Weights, func(v *[2]float64) []float64 { return v[:] })).(T)
	case [][3]float64:
		return any(weightedArray(vs, it.Weights, func(v *[3]float64) []float64 { return v[:] })).(T)
	case [][4]float64:
		return any(weightedArray(vs, it.Weights, func(v *[4]float64) []float64 { return v[:] })).(T)
	}
	return attr.DefaultValue()
}

func weightedScalar[F float32 | float64](values []F, weights []float64) F {
	if allEqual(values) {
		return values[0]
	}
	var sum F
	for i, v := range values {
		sum += F(weights[i]) * v
	}
	return sum
}

func weightedArray[A comparable, F float32 | float64](values []A, weights []float64, items func(*A) []F) A {
	if allEqual(values) {
		return values[0]
	}
	var out A
	dst := items(&out)
	for i := range values {
		w := F(weights[i])
		for k, v := range items(&values[i]) {
			dst[k] += w * v
		}
	}
	return out
}

func allEqual[T comparable](values []T) bool {
	return !slices.ContainsFunc(values[1:], func(v T) bool { return v != values[0] })
}
