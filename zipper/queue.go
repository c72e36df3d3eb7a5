package zipper

import (
	"cmp"
	"container/heap"
	"errors"
)

// ErrEmpty is returned by Peek and Drain when the queue has no resident
// nodes. Callers that don't want to handle it should check Empty()/Size()
// first.
var ErrEmpty = errors.New("zipper: queue is empty")

// nodeHeap is the container/heap.Interface backing a MergedQueue's waiting
// set. The comparator is injected rather than fixed, so MergedQueue can
// support non-default orderings (see WithLess).
type nodeHeap[P any, O cmp.Ordered, I cmp.Ordered] struct {
	nodes []Node[P, O, I]
	less  func(a, b Node[P, O, I]) bool
}

func (h *nodeHeap[P, O, I]) Len() int { return len(h.nodes) }
func (h *nodeHeap[P, O, I]) Less(i, j int) bool {
	return h.less(h.nodes[i], h.nodes[j])
}
func (h *nodeHeap[P, O, I]) Swap(i, j int) { h.nodes[i], h.nodes[j] = h.nodes[j], h.nodes[i] }
func (h *nodeHeap[P, O, I]) Push(x any)    { h.nodes = append(h.nodes, x.(Node[P, O, I])) }
func (h *nodeHeap[P, O, I]) Pop() any {
	old := h.nodes
	n := len(old)
	x := old[n-1]
	h.nodes = old[:n-1]
	return x
}

// MergedQueue is a heap-ordered multiset of nodes with an O(k) completeness
// check (where k is cardinality), per the occupancy map.
type MergedQueue[P any, O cmp.Ordered, I cmp.Ordered] struct {
	waiting     nodeHeap[P, O, I]
	occupancy   map[I]int
	cardinality int
}

// Option configures a MergedQueue at construction.
type Option[P any, O cmp.Ordered, I cmp.Ordered] func(*MergedQueue[P, O, I])

// WithLess overrides the default ascending-by-ordering comparator.
func WithLess[P any, O cmp.Ordered, I cmp.Ordered](less func(a, b Node[P, O, I]) bool) Option[P, O, I] {
	return func(q *MergedQueue[P, O, I]) {
		q.waiting.less = less
	}
}

// NewMergedQueue builds a queue expecting cardinality distinct streams.
// cardinality == 0 disables completeness gating entirely (see Complete).
func NewMergedQueue[P any, O cmp.Ordered, I cmp.Ordered](cardinality int, opts ...Option[P, O, I]) *MergedQueue[P, O, I] {
	q := &MergedQueue[P, O, I]{
		cardinality: cardinality,
		occupancy:   make(map[I]int),
	}
	q.waiting.less = Less[P, O, I]
	for _, opt := range opts {
		opt(q)
	}
	heap.Init(&q.waiting)
	return q
}

// Feed inserts node into the waiting set. O(log n).
func (q *MergedQueue[P, O, I]) Feed(node Node[P, O, I]) {
	heap.Push(&q.waiting, node)
	q.occupancy[node.Identity]++
}

// Peek returns the smallest-ordering resident node without removing it.
func (q *MergedQueue[P, O, I]) Peek() (Node[P, O, I], error) {
	if q.Empty() {
		var zero Node[P, O, I]
		return zero, ErrEmpty
	}
	return q.waiting.nodes[0], nil
}

// Drain removes and returns the smallest-ordering resident node.
func (q *MergedQueue[P, O, I]) Drain() (Node[P, O, I], error) {
	if q.Empty() {
		var zero Node[P, O, I]
		return zero, ErrEmpty
	}
	node := heap.Pop(&q.waiting).(Node[P, O, I])
	q.occupancy[node.Identity]--
	return node, nil
}

// Complete reports whether every stream has at least one node resident
// besides the current peek candidate, i.e. whether the peek is guaranteed
// the global minimum. cardinality == 0 makes Complete trivially true
// whenever the queue is non-empty (no gating).
func (q *MergedQueue[P, O, I]) Complete() bool {
	if q.cardinality == 0 {
		return !q.Empty()
	}
	if q.Empty() {
		return false
	}
	s := q.waiting.nodes[0].Identity
	have := 0
	for ident, count := range q.occupancy {
		h := count
		if ident == s {
			h--
		}
		if h > 0 {
			have++
		}
	}
	return have >= q.cardinality-1
}

// Size returns the number of resident nodes.
func (q *MergedQueue[P, O, I]) Size() int { return q.waiting.Len() }

// Empty reports whether the queue holds no resident nodes.
func (q *MergedQueue[P, O, I]) Empty() bool { return q.waiting.Len() == 0 }

// Clear discards all resident nodes and resets occupancy.
func (q *MergedQueue[P, O, I]) Clear() {
	q.waiting.nodes = nil
	q.occupancy = make(map[I]int)
}

// SetCardinality changes the expected stream count. Idempotent; takes
// effect immediately for the next Complete() call and any subsequent
// drain.
func (q *MergedQueue[P, O, I]) SetCardinality(k int) {
	q.cardinality = k
}

// Cardinality returns the currently configured stream count.
func (q *MergedQueue[P, O, I]) Cardinality() int { return q.cardinality }
