// Package reorder implements the single generic move-and-renumber operation
// used at every level of the sheet tree (topics, subtopics, questions).
//
// A move is a standard single-element array move, not a swap: the active
// item is removed from its source index and reinserted at the index its
// target occupied. Afterwards every element's order field is reassigned to
// its positional index, making this the only operation that re-densifies
// order values.
package reorder

import "slices"

// Move returns a new slice with the element identified by activeID moved to
// the position of the element identified by overID, then renumbered 0..n-1
// via setOrder.
//
// When either id is absent from items, or the two ids are equal, the input
// slice is returned unchanged with its original identity, so callers that
// diff by reference can detect the no-op cheaply.
func Move[T any](items []T, id func(T) string, setOrder func(*T, int), activeID, overID string) []T {
	if activeID == overID {
		return items
	}

	src, dst := -1, -1
	for i := range items {
		switch id(items[i]) {
		case activeID:
			src = i
		case overID:
			dst = i
		}
	}
	if src < 0 || dst < 0 {
		return items
	}

	out := make([]T, len(items))
	copy(out, items)
	moved := out[src]
	out = append(out[:src], out[src+1:]...)
	out = slices.Insert(out, dst, moved)

	for i := range out {
		setOrder(&out[i], i)
	}
	return out
}

// Moved reports whether after is a different sequence than before, using
// the slice-identity contract of Move: a no-op returns the input slice
// itself, so callers can diff by reference instead of comparing elements.
func Moved[T any](before, after []T) bool {
	if len(before) != len(after) {
		return true
	}
	if len(before) == 0 {
		return false
	}
	return &before[0] != &after[0]
}
