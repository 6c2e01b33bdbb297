//go:build geoattr_debug

package attribute

import "fmt"

const debugChecks = true

func checkIndex(i, n Index) {
	if i >= n {
		panic(fmt.Sprintf("attribute: index %d out of range [0, %d)", i, n))
	}
}
