// Package zipper implements a k-way ordered merge queue: the "zipper".
//
// MergedQueue is a heap-ordered multiset of nodes with per-stream occupancy
// counters. Merge wraps MergedQueue with real-time bookkeeping, tardy
// rejection, and the three drain disciplines (full, waiting, prompt).
package zipper

import (
	"cmp"
	"time"
)

// Node is the unit element merged by a MergedQueue/Merge: an opaque payload
// tagged with an ordering key, a stream identity, and the real-time
// timepoint ("debut") at which it entered the merge's time horizon.
//
// Two nodes compare by Ordering; ties break by Identity. Equal ordering
// keys on distinct streams may legitimately coexist.
type Node[P any, O cmp.Ordered, I cmp.Ordered] struct {
	Payload  P
	Ordering O
	Identity I
	Debut    time.Duration
}

// Less is the default comparator: ascending by Ordering, ties broken by
// Identity. Passed to NewMergedQueue unless overridden with WithLess.
func Less[P any, O cmp.Ordered, I cmp.Ordered](a, b Node[P, O, I]) bool {
	if a.Ordering != b.Ordering {
		return a.Ordering < b.Ordering
	}
	return a.Identity < b.Identity
}
