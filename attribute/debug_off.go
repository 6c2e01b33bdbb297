//go:build !geoattr_debug

package attribute

const debugChecks = false

func checkIndex(Index, Index) {}
