package attribute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstant(t *testing.T) {
	c := NewConstant("c", 2.5)
	assert.Equal(t, 2.5, c.Value(0))
	assert.Equal(t, 2.5, c.Value(1000))

	require.NoError(t, c.SetValue(4))
	assert.Equal(t, 4.0, c.Value(7))
	assert.Equal(t, 2.5, c.DefaultValue())

	require.NoError(t, c.ModifyValue(func(v *float64) { *v *= 2 }))
	assert.Equal(t, 8.0, c.ConstantValue())

	c.SetProperties(Properties{})
	require.ErrorIs(t, c.SetValue(1), ErrNotSupported)
	require.ErrorIs(t, c.ModifyValue(func(*float64) {}), ErrNotSupported)
}

func TestVariable(t *testing.T) {
	v := NewVariable("v", int32(-1), 3)
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, StrategyVariable, v.Strategy())
	assert.Equal(t, "int32", v.Type())

	require.NoError(t, v.SetValue(1, 5))
	require.NoError(t, v.ModifyValue(1, func(x *int32) { *x++ }))
	assert.Equal(t, int32(6), v.Value(1))
	assert.Equal(t, int32(-1), v.Value(2))
}

func TestSparse_SetDefaultRemovesOverride(t *testing.T) {
	s := NewSparse("s", "none", 100)

	require.NoError(t, s.SetValue(42, "set"))
	assert.Equal(t, 1, s.NbOverrides())
	assert.Equal(t, "set", s.Value(42))
	assert.Equal(t, "none", s.Value(41))

	require.NoError(t, s.SetValue(42, "none"))
	assert.Equal(t, 0, s.NbOverrides())

	require.NoError(t, s.ModifyValue(7, func(v *string) { *v += "!" }))
	assert.Equal(t, "none!", s.Value(7))
}

func TestGenericAccess(t *testing.T) {
	t.Run("scalar", func(t *testing.T) {
		v := NewVariable("v", uint16(7), 2)
		require.True(t, v.IsGenericable())
		assert.Equal(t, 1, v.NbItems())

		got, err := v.GenericValue(1)
		require.NoError(t, err)
		assert.Equal(t, float32(7), got)
	})

	t.Run("bool", func(t *testing.T) {
		c := NewConstant("c", true)
		got, err := c.GenericValue(0)
		require.NoError(t, err)
		assert.Equal(t, float32(1), got)
	})

	t.Run("array", func(t *testing.T) {
		s := NewSparse("s", [3]float64{1, 2, 3}, 4)
		assert.Equal(t, 3, s.NbItems())

		got, err := s.GenericItemValue(2, 2)
		require.NoError(t, err)
		assert.Equal(t, float32(3), got)

		_, err = s.GenericItemValue(2, 3)
		require.Error(t, err)
	})

	t.Run("genericable", func(t *testing.T) {
		v := NewVariable("v", pair{a: 1, b: 2}, 1)
		assert.Equal(t, 2, v.NbItems())

		got, err := v.GenericItemValue(0, 1)
		require.NoError(t, err)
		assert.Equal(t, float32(2), got)
	})

	t.Run("not supported", func(t *testing.T) {
		v := NewVariable("v", "text", 1)
		assert.False(t, v.IsGenericable())
		assert.Zero(t, v.NbItems())

		_, err := v.GenericValue(0)
		require.ErrorIs(t, err, ErrNotSupported)
	})
}

type pair struct{ a, b float32 }

func (p pair) NbItems() int { return 2 }

func (p pair) GenericItem(i int) float32 {
	if i == 0 {
		return p.a
	}
	return p.b
}

// maxOf interpolates by keeping the largest input.
type maxOf int

func (maxOf) Combine(values []maxOf, _ []float64) maxOf {
	best := values[0]
	for _, v := range values[1:] {
		best = max(best, v)
	}
	return best
}

func TestComputeValue(t *testing.T) {
	it, err := NewInterpolation([]Index{0, 1}, []float64{0.5, 0.5})
	require.NoError(t, err)

	t.Run("float64", func(t *testing.T) {
		v := NewVariable("v", 0.0, 2)
		require.NoError(t, v.SetValue(0, 2))
		require.NoError(t, v.SetValue(1, 4))
		assert.Equal(t, 3.0, ComputeValue[float64](it, v))
	})

	t.Run("float32 array", func(t *testing.T) {
		v := NewVariable("v", [2]float32{}, 2)
		require.NoError(t, v.SetValue(0, [2]float32{0, 2}))
		require.NoError(t, v.SetValue(1, [2]float32{2, 4}))
		assert.Equal(t, [2]float32{1, 3}, ComputeValue[[2]float32](it, v))
	})

	t.Run("equal values are returned unchanged", func(t *testing.T) {
		v := NewVariable("v", 0.1, 2)
		uneven, err := NewInterpolation([]Index{0, 1}, []float64{0.3, 0.3})
		require.NoError(t, err)
		assert.Equal(t, 0.1, ComputeValue[float64](uneven, v))
	})

	t.Run("weights need not sum to one", func(t *testing.T) {
		v := NewVariable("v", float32(0), 2)
		require.NoError(t, v.SetValue(0, 1))
		require.NoError(t, v.SetValue(1, 2))
		heavy, err := NewInterpolation([]Index{0, 1}, []float64{2, 2})
		require.NoError(t, err)
		assert.Equal(t, float32(6), ComputeValue[float32](heavy, v))
	})

	t.Run("combiner", func(t *testing.T) {
		v := NewVariable("v", maxOf(0), 2)
		require.NoError(t, v.SetValue(0, 3))
		require.NoError(t, v.SetValue(1, 8))
		assert.Equal(t, maxOf(8), ComputeValue[maxOf](it, v))
	})

	t.Run("other types use the default", func(t *testing.T) {
		v := NewVariable("v", 5, 2)
		require.NoError(t, v.SetValue(0, 1))
		require.NoError(t, v.SetValue(1, 3))
		assert.Equal(t, 5, ComputeValue[int](it, v))
	})

	t.Run("source is not mutated", func(t *testing.T) {
		v := NewVariable("v", 0.0, 2)
		require.NoError(t, v.SetValue(0, 2))
		require.NoError(t, v.SetValue(1, 4))
		ComputeValue[float64](it, v)
		assert.Equal(t, 2.0, v.Value(0))
		assert.Equal(t, 4.0, v.Value(1))
	})

	_, err = NewInterpolation([]Index{0}, nil)
	require.ErrorIs(t, err, ErrSizeMismatch)
}

func TestMappingAfterDeletion(t *testing.T) {
	old2new, removed := MappingAfterDeletion([]bool{true, false, true, false})
	assert.Equal(t, []Index{NoID, 0, NoID, 1}, old2new)
	assert.Equal(t, 2, removed)
}
