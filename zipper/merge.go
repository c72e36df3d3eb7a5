package zipper

import (
	"cmp"
	"time"
)

// Merge wraps MergedQueue with real-time bookkeeping (origin), tardy
// rejection, and the three drain disciplines: DrainFull, DrainWaiting,
// DrainPrompt.
type Merge[P any, O cmp.Ordered, I cmp.Ordered] struct {
	queue      *MergedQueue[P, O, I]
	origin     O
	maxLatency time.Duration
}

// NewMerge constructs a Merge expecting cardinality distinct streams.
// maxLatency <= 0 disables DrainPrompt's bounded-latency release (it then
// behaves exactly as DrainWaiting).
func NewMerge[P any, O cmp.Ordered, I cmp.Ordered](cardinality int, maxLatency time.Duration, opts ...Option[P, O, I]) *Merge[P, O, I] {
	return &Merge[P, O, I]{
		queue:      NewMergedQueue[P, O, I](cardinality, opts...),
		maxLatency: maxLatency,
	}
}

// Origin returns the ordering key of the most recently emitted node (or the
// zero value if nothing has been emitted yet). Further feeds below Origin
// are rejected as tardy.
func (m *Merge[P, O, I]) Origin() O { return m.origin }

// SetCardinality changes the expected stream count; see MergedQueue.
func (m *Merge[P, O, I]) SetCardinality(k int) { m.queue.SetCardinality(k) }

// Cardinality returns the currently configured stream count.
func (m *Merge[P, O, I]) Cardinality() int { return m.queue.Cardinality() }

// Size returns the number of resident nodes.
func (m *Merge[P, O, I]) Size() int { return m.queue.Size() }

// Empty reports whether no nodes are resident.
func (m *Merge[P, O, I]) Empty() bool { return m.queue.Empty() }

// Clear discards all resident nodes. Origin is left untouched: tardy
// rejection still applies to feeds below the last-emitted ordering.
func (m *Merge[P, O, I]) Clear() { m.queue.Clear() }

// Complete reports whether the queue is currently gated-open for lossless
// drain; see MergedQueue.Complete.
func (m *Merge[P, O, I]) Complete() bool { return m.queue.Complete() }

// Peek returns the smallest-ordering resident node without removing it.
func (m *Merge[P, O, I]) Peek() (Node[P, O, I], error) { return m.queue.Peek() }

// Feed admits a node built from its constituent fields. Returns false
// (without mutating the queue) if ordering is tardy, i.e. less than
// Origin().
func (m *Merge[P, O, I]) Feed(payload P, ordering O, identity I, debut time.Duration) bool {
	return m.FeedNode(Node[P, O, I]{Payload: payload, Ordering: ordering, Identity: identity, Debut: debut})
}

// FeedNode admits a pre-built node. See Feed.
func (m *Merge[P, O, I]) FeedNode(node Node[P, O, I]) bool {
	if node.Ordering < m.origin {
		return false
	}
	m.queue.Feed(node)
	return true
}

// DrainFull emits every resident node in ascending order, without a
// completeness check. Not lossless: use to flush a merge that will receive
// no further feeds (e.g. all upstream producers closed).
func (m *Merge[P, O, I]) DrainFull(emit func(Node[P, O, I])) int {
	n := 0
	for !m.queue.Empty() {
		node, _ := m.queue.Drain()
		m.origin = node.Ordering
		emit(node)
		n++
	}
	return n
}

// DrainWaiting emits the currently complete prefix: it stops as soon as the
// queue is empty or becomes incomplete. Lossless: every emitted node is
// guaranteed the true global minimum at the time of emission.
func (m *Merge[P, O, I]) DrainWaiting(emit func(Node[P, O, I])) int {
	n := 0
	for !m.queue.Empty() && m.queue.Complete() {
		node, _ := m.queue.Drain()
		m.origin = node.Ordering
		emit(node)
		n++
	}
	return n
}

// DrainPrompt emits the complete prefix like DrainWaiting, but additionally
// releases the peek once it has aged past maxLatency, even while the queue
// remains incomplete. now is the caller-supplied current real-time
// reference; DrainPrompt never reads a clock itself, so it stays testable
// under simulated time. maxLatency <= 0 makes this identical to
// DrainWaiting (the latency check is skipped entirely, not merely a no-op
// comparison).
func (m *Merge[P, O, I]) DrainPrompt(now time.Duration, emit func(Node[P, O, I])) int {
	n := 0
	for !m.queue.Empty() {
		if m.queue.Complete() {
			node, _ := m.queue.Drain()
			m.origin = node.Ordering
			emit(node)
			n++
			continue
		}
		if m.maxLatency <= 0 {
			break
		}
		top, _ := m.queue.Peek()
		if now-top.Debut > m.maxLatency {
			node, _ := m.queue.Drain()
			m.origin = node.Ordering
			emit(node)
			n++
			continue
		}
		break
	}
	return n
}
