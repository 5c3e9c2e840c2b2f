// Package relops provides the small set of relational primitives the
// derivation stages share: keep-latest-per-key dedup and partition+rank.
// Every ordering here is total so repeated runs over identical inputs yield
// identical output.
package relops

import (
	"math"
	"sort"
)

// LatestPerKey groups items by key and keeps, per key, the single item that
// wins every newer comparison. newer must be a strict total order over items
// sharing a key; callers encode their tie-breaks inside it.
func LatestPerKey[K comparable, T any](items []T, key func(T) K, newer func(candidate, current T) bool) map[K]T {
	out := make(map[K]T, len(items))
	for _, item := range items {
		k := key(item)
		current, ok := out[k]
		if !ok || newer(item, current) {
			out[k] = item
		}
	}

	return out
}

// GroupBy partitions items by key, preserving input order inside each group.
func GroupBy[K comparable, T any](items []T, key func(T) K) map[K][]T {
	out := make(map[K][]T)
	for _, item := range items {
		out[key(item)] = append(out[key(item)], item)
	}

	return out
}

// Ranked pairs an item with its 1-based ordinal inside its partition.
type Ranked[T any] struct {
	Item T
	Rank int
}

// Rank stable-sorts items by less and assigns ordinals 1..N. less must break
// every tie deterministically so the ranks form a gap-free permutation that
// does not depend on input order.
func Rank[T any](items []T, less func(a, b T) bool) []Ranked[T] {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	out := make([]Ranked[T], len(sorted))
	for i, item := range sorted {
		out[i] = Ranked[T]{Item: item, Rank: i + 1}
	}

	return out
}

// Mean returns the arithmetic mean, ok=false for an empty slice.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values)), true
}

// SampleStdDev returns the sample standard deviation, ok=false when fewer
// than two values exist (the statistic is undefined, not zero).
func SampleStdDev(values []float64) (float64, bool) {
	if len(values) < 2 {
		return 0, false
	}

	mean, _ := Mean(values)
	sumSquares := 0.0
	for _, v := range values {
		d := v - mean
		sumSquares += d * d
	}

	return math.Sqrt(sumSquares / float64(len(values)-1)), true
}
