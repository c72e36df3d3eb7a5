package zipper

import (
	"testing"
	"time"
)

func us(n int) time.Duration { return time.Duration(n) * time.Microsecond }

// TestMergeBasicThreeStream is scenario S1 from spec.md. DrainWaiting stops
// at (3,2): once (2,0) is out, stream 0 has no resident node, so the queue is
// incomplete. DrainFull then flushes the remaining two nodes.
func TestMergeBasicThreeStream(t *testing.T) {
	m := NewMerge[string, int, int](3, 0)

	feeds := []struct {
		ord, id int
	}{
		{1, 0}, {2, 1}, {0, 2}, {2, 0}, {4, 1}, {3, 2},
	}
	for _, f := range feeds {
		if ok := m.Feed("x", f.ord, f.id, 0); !ok {
			t.Fatalf("feed(%d,%d) rejected unexpectedly", f.ord, f.id)
		}
	}
	if !m.Complete() {
		t.Fatal("expected complete after sixth feed")
	}
	top, _ := m.Peek()
	if top.Ordering != 0 || top.Identity != 2 {
		t.Fatalf("peek = %+v, want ordering=0 identity=2", top)
	}

	var got []Node[string, int, int]
	n := m.DrainWaiting(func(node Node[string, int, int]) { got = append(got, node) })
	if n != 4 {
		t.Fatalf("drained %d, want 4", n)
	}
	m.DrainFull(func(node Node[string, int, int]) { got = append(got, node) })
	wantOrd := []int{0, 1, 2, 2, 3, 4}
	wantID := []int{2, 0, 0, 1, 2, 1}
	for i := range wantOrd {
		if got[i].Ordering != wantOrd[i] || got[i].Identity != wantID[i] {
			t.Fatalf("got[%d] = %+v, want ordering=%d identity=%d", i, got[i], wantOrd[i], wantID[i])
		}
	}
	if m.Origin() != 4 {
		t.Fatalf("origin = %d, want 4", m.Origin())
	}
}

// TestMergeLosslessStringMerge is scenario S2 from spec.md.
func TestMergeLosslessStringMerge(t *testing.T) {
	m := NewMerge[byte, int, int](3, 0)
	streams := []string{"abcd", "efgh", "ijkl"}
	for id, s := range streams {
		for _, c := range []byte(s) {
			m.Feed(c, int(c), id, 0)
		}
	}
	var out []byte
	m.DrainFull(func(n Node[byte, int, int]) { out = append(out, n.Payload) })
	if string(out) != "abcdefghijkl" {
		t.Fatalf("drain_full = %q, want %q", out, "abcdefghijkl")
	}
}

// TestMergePromptLatencyBound is scenario S3 from spec.md.
func TestMergePromptLatencyBound(t *testing.T) {
	m := NewMerge[int, int, int](2, us(10))

	if ok := m.Feed(0, 1, 1, us(1)); !ok {
		t.Fatal("feed(ord=1,id=1) rejected")
	}
	var got []Node[int, int, int]
	drain := func(now time.Duration) []Node[int, int, int] {
		got = nil
		m.DrainPrompt(now, func(n Node[int, int, int]) { got = append(got, n) })
		return got
	}

	if out := drain(us(1)); len(out) != 0 {
		t.Fatalf("drain_prompt(1us) = %v, want empty", out)
	}

	if ok := m.Feed(0, 11, 1, us(11)); !ok {
		t.Fatal("feed(ord=11,id=1) rejected")
	}
	out := drain(us(11))
	if len(out) != 1 || out[0].Ordering != 1 {
		t.Fatalf("drain_prompt(11us) = %v, want [ordering=1]", out)
	}
	if m.Origin() != 1 {
		t.Fatalf("origin = %d, want 1", m.Origin())
	}

	if ok := m.Feed(0, 0, 2, us(0)); ok {
		t.Fatal("feed(ord=0,id=2) should be tardy")
	}
	if ok := m.Feed(0, 1, 2, us(1)); !ok {
		t.Fatal("feed(ord=1,id=2) should be accepted")
	}

	out = drain(us(12))
	if len(out) != 1 || out[0].Identity != 2 {
		t.Fatalf("drain_prompt(12us) = %v, want [identity=2]", out)
	}

	out = drain(us(22))
	if len(out) != 1 || out[0].Identity != 1 || out[0].Ordering != 11 {
		t.Fatalf("drain_prompt(22us) = %v, want [identity=1 ordering=11]", out)
	}
}

// TestMergeAbsentStream is scenario S4 from spec.md: only one of two
// expected streams ever feeds. drain_prompt relies purely on the latency
// budget since completeness never gates (cardinality 2, one stream silent).
func TestMergeAbsentStream(t *testing.T) {
	m := NewMerge[int, int, int](2, time.Second)

	const total = 100
	var promptEmitted int
	for i := 0; i < total; i++ {
		debut := time.Duration(i) * 100 * time.Millisecond
		if ok := m.Feed(i, i, 0, debut); !ok {
			t.Fatalf("feed(%d) unexpectedly tardy", i)
		}
		promptEmitted += m.DrainPrompt(debut, func(Node[int, int, int]) {})
	}
	if promptEmitted == 0 {
		t.Fatal("expected some nodes released on latency alone")
	}
	if promptEmitted >= total {
		t.Fatalf("prompt emitted %d, want < %d (some left for the final flush)", promptEmitted, total)
	}

	final := m.DrainFull(func(Node[int, int, int]) {})
	if final == 0 {
		t.Fatal("expected a nonzero remainder on final flush")
	}
	if promptEmitted+final != total {
		t.Fatalf("prompt(%d)+final(%d) = %d, want %d", promptEmitted, final, promptEmitted+final, total)
	}
}

// TestMergeCardinalityChange is scenario S5 from spec.md.
func TestMergeCardinalityChange(t *testing.T) {
	m := NewMerge[int, int, int](2, 0)
	m.Feed(0, 0, 0, 0)
	m.Feed(0, 0, 1, 0)
	if n := m.DrainWaiting(func(Node[int, int, int]) {}); n != 1 {
		t.Fatalf("drain_waiting = %d, want 1 (peek (0,0) is gated open by stream 1, then incomplete)", n)
	}

	m.Feed(0, 1, 1, 0)
	m.SetCardinality(0)
	if n := m.DrainWaiting(func(Node[int, int, int]) {}); n != 2 {
		t.Fatalf("drain_waiting = %d, want 2 (cardinality 0 drains all that remain)", n)
	}

	m.SetCardinality(2)
	if !m.Empty() {
		t.Fatal("expected empty queue")
	}
	if m.Complete() {
		t.Fatal("expected incomplete: queue is empty")
	}
}

func TestMergeTardyRejectionIdempotent(t *testing.T) {
	m := NewMerge[int, int, int](2, 0)
	m.Feed(0, 5, 0, 0)
	m.Feed(0, 5, 1, 0)
	m.DrainWaiting(func(Node[int, int, int]) {})
	origin := m.Origin()
	size := m.Size()

	if ok := m.Feed(0, origin-1, 0, 0); ok {
		t.Fatal("expected tardy rejection")
	}
	if m.Origin() != origin {
		t.Fatalf("origin mutated by rejected feed: %d != %d", m.Origin(), origin)
	}
	if m.Size() != size {
		t.Fatalf("size mutated by rejected feed: %d != %d", m.Size(), size)
	}
}

func TestMergeMonotoneEmission(t *testing.T) {
	m := NewMerge[int, int, int](3, 0)
	seqs := [][]int{{0, 3, 6, 9}, {1, 4, 7}, {2, 5, 8, 10}}
	for id, seq := range seqs {
		for _, ord := range seq {
			m.Feed(ord, ord, id, 0)
		}
	}
	var last int
	first := true
	m.DrainFull(func(n Node[int, int, int]) {
		if !first && n.Ordering < last {
			t.Fatalf("emission out of order: %d after %d", n.Ordering, last)
		}
		last = n.Ordering
		first = false
	})
}
