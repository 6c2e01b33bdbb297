package attribute

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// MappingAfterDeletion returns, for each element, its index after removing every
// element flagged in mask, or NoID for removed elements. removed counts the flags.
func MappingAfterDeletion(mask []bool) (old2new []Index, removed int) {
	old2new = make([]Index, len(mask))
	var next Index
	for i, del := range mask {
		if del {
			old2new[i] = NoID
			removed++
			continue
		}
		old2new[i] = next
		next++
	}
	return old2new, removed
}

// mappingFromBitmap is MappingAfterDeletion for a set of deleted indices. It walks
// the sorted bitmap once instead of probing each element.
func mappingFromBitmap(deleted *roaring.Bitmap, n Index) []Index {
	old2new := make([]Index, n)
	it := deleted.Iterator()
	nextDeleted := NoID
	if it.HasNext() {
		nextDeleted = it.Next()
	}

	var next Index
	for i := range n {
		if i == nextDeleted {
			old2new[i] = NoID
			nextDeleted = NoID
			if it.HasNext() {
				nextDeleted = it.Next()
			}
			continue
		}
		old2new[i] = next
		next++
	}
	return old2new
}

func identityMapping(n Index) []Index {
	old2new := make([]Index, n)
	for i := range n {
		old2new[i] = i
	}
	return old2new
}

// validatePermutation checks that perm is a bijection on [0, len(perm)).
func validatePermutation(perm []Index) error {
	seen := roaring.New()
	for i, p := range perm {
		if int(p) >= len(perm) {
			return fmt.Errorf("%w: element %d moves to %d, outside [0, %d)", ErrInvalidPermutation, i, p, len(perm))
		}
		if !seen.CheckedAdd(p) {
			return fmt.Errorf("%w: index %d is targeted twice", ErrInvalidPermutation, p)
		}
	}
	return nil
}
