package attribute

// Genericable is implemented by value types that expose numeric components for
// type-erased access, e.g. points or colors. NbItems must not depend on the value.
type Genericable interface {
	NbItems() int
	GenericItem(item int) float32
}

type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// generic converts values of T to float32 components. item is nil when T has no
// numeric representation.
type generic[T any] struct {
	nbItems int
	item    func(v T, item int) float32
}

func (g generic[T]) ok() bool { return g.item != nil }

func scalar[T any, S number]() generic[T] {
	return generic[T]{
		nbItems: 1,
		item:    func(v T, _ int) float32 { return float32(any(v).(S)) },
	}
}

func array2[T any, E number]() generic[T] {
	return generic[T]{
		nbItems: 2,
		item:    func(v T, i int) float32 { return float32(any(v).([2]E)[i]) },
	}
}

func array3[T any, E number]() generic[T] {
	return generic[T]{
		nbItems: 3,
		item:    func(v T, i int) float32 { return float32(any(v).([3]E)[i]) },
	}
}

func array4[T any, E number]() generic[T] {
	return generic[T]{
		nbItems: 4,
		item:    func(v T, i int) float32 { return float32(any(v).([4]E)[i]) },
	}
}

func newGeneric[T any]() generic[T] {
	var zero T
	switch any(zero).(type) {
	case bool:
		return generic[T]{
			nbItems: 1,
			item: func(v T, _ int) float32 {
				if any(v).(bool) {
					return 1
				}
				return 0
			},
		}
	case int:
		return scalar[T, int]()
	case int8:
		return scalar[T, int8]()
	case int16:
		return scalar[T, int16]()
	case int32:
		return scalar[T, int32]()
	case int64:
		return scalar[T, int64]()
	case uint:
		return scalar[T, uint]()
	case uint8:
		return scalar[T, uint8]()
	case uint16:
		return scalar[T, uint16]()
	case uint32:
		return scalar[T, uint32]()
	case uint64:
		return scalar[T, uint64]()
	case float32:
		return scalar[T, float32]()
	case float64:
		return scalar[T, float64]()
	case [2]float32:
		return array2[T, float32]()
	case [3]float32:
		return array3[T, float32]()
	case [4]float32:
		return array4[T, float32]()
	case [2]float64:
		return array2[T, float64]()
	case [3]float64:
		return array3[T, float64]()
	case [4]float64:
		return array4[T, float64]()
	case [2]int32:
		return array2[T, int32]()
	case [3]int32:
		return array3[T, int32]()
	case [4]int32:
		return array4[T, int32]()
	case [2]uint32:
		return array2[T, uint32]()
	case [3]uint32:
		return array3[T, uint32]()
	case [4]uint32:
		return array4[T, uint32]()
	case [2]int:
		return array2[T, int]()
	case [3]int:
		return array3[T, int]()
	case [4]int:
		return array4[T, int]()
	}

	if g, ok := any(zero).(Genericable); ok {
		return generic[T]{
			nbItems: g.NbItems(),
			item:    func(v T, i int) float32 { return any(v).(Genericable).GenericItem(i) },
		}
	}
	return generic[T]{}
}
