package utils

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
)

// SortKeys returns the keys of m in ascending order.
func SortKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}
