package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformSlice(t *testing.T) {
	out := TransformSlice([]int{1, 2, 3}, func(n int) string {
		return string(rune('a' + n - 1))
	})
	assert.Equal(t, []string{"a", "b", "c"}, out)
}

func TestCanonicalMapIterYieldsSortedKeys(t *testing.T) {
	m := map[string]int{"c": 3, "a": 1, "b": 2}
	var keys []string
	for k := range CanonicalMapIter(m) {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestIndexOfReturnsMinusOneWhenAbsent(t *testing.T) {
	assert.Equal(t, 1, IndexOf([]string{"x", "y", "z"}, "y"))
	assert.Equal(t, -1, IndexOf([]string{"x", "y", "z"}, "q"))
}
