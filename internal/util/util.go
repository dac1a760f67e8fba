// Package util holds small generic helpers shared across the rbql packages.
package util

import (
	"iter"
	"sort"
)

// TransformSlice applies converter to each element of in and returns the results.
func TransformSlice[T any, R any](in []T, converter func(T) R) []R {
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = converter(v)
	}
	return out
}

// CanonicalMapIter yields map entries in sorted key order, so that warning
// flushing and group emission can be made deterministic where the spec
// requires "first-seen" order is tracked separately via an explicit slice.
func CanonicalMapIter[T any](m map[string]T) iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if !yield(k, m[k]) {
				return
			}
		}
	}
}

// IndexOf returns the position of needle in haystack, or -1.
func IndexOf(haystack []string, needle string) int {
	for i, v := range haystack {
		if v == needle {
			return i
		}
	}
	return -1
}
