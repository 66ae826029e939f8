package helpers

import "golang.org/x/exp/slices"

// CopyOf returns a shallow copy of a slice.
func CopyOf[V any](slice []V) []V {
	if slice == nil {
		return nil
	}
	return append(make([]V, 0, len(slice)), slice...)
}

// Sorted returns a sorted copy of a slice, leaving the original alone.
func Sorted[V ~string | ~int](slice []V) []V {
	ret := CopyOf(slice)
	slices.Sort(ret)
	return ret
}
