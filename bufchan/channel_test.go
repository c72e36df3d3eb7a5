package bufchan

import (
	"fmt"
	"testing"
	"time"
)

func mustTrigger[T any](t *testing.T, ticket *Ticket[T], label string) T {
	t.Helper()
	select {
	case <-ticket.Done():
	case <-time.After(time.Second):
		t.Fatalf("%s: ticket never completed", label)
	}
	if ticket.Aborted() {
		t.Fatalf("%s: ticket aborted, want triggered", label)
	}
	return ticket.Value()
}

func TestChannelRoundTrip(t *testing.T) {
	for _, cap := range []int{1, 2, 5} {
		for _, n := range []int{0, 1, 3, 17} {
			c := NewChannel[int](cap)
			pushed := make([]*Ticket[struct{}], n)
			for i := 0; i < n; i++ {
				pushed[i] = c.Push(i)
			}
			for i := 0; i < n; i++ {
				got := mustTrigger(t, c.Pop(), fmt.Sprintf("pop %d", i))
				if got != i {
					t.Fatalf("cap=%d n=%d: pop[%d] = %d, want %d", cap, n, i, got, i)
				}
			}
			for i := 0; i < n; i++ {
				mustTrigger(t, pushed[i], fmt.Sprintf("push %d", i))
			}
			if c.Size() != 0 {
				t.Fatalf("cap=%d n=%d: residual size %d", cap, n, c.Size())
			}
		}
	}
}

func TestChannelBackpressureBlocksPastCapacity(t *testing.T) {
	c := NewChannel[int](2)
	t0 := c.Push(0)
	t1 := c.Push(1)
	t2 := c.Push(2)

	mustTrigger(t, t0, "push 0")
	mustTrigger(t, t1, "push 1")
	select {
	case <-t2.Done():
		t.Fatal("push 2 completed despite full buffer")
	default:
	}
	if c.InboxSize() != 1 {
		t.Fatalf("inbox size = %d, want 1", c.InboxSize())
	}

	mustTrigger(t, c.Pop(), "pop 0")
	mustTrigger(t, t2, "push 2 after a slot freed")
}

func TestChannelAbortSafety(t *testing.T) {
	c := NewChannel[string](1)
	full := c.Push("a")
	mustTrigger(t, full, "push a")

	blocked := c.Push("b")
	select {
	case <-blocked.Done():
		t.Fatal("push b completed against a full buffer")
	default:
	}
	c.AbortPush(blocked)
	if !blocked.Aborted() {
		t.Fatal("expected push b aborted")
	}

	if c.Size() != 1 {
		t.Fatalf("size = %d, want 1 (the one stored element, undisturbed)", c.Size())
	}
	got := mustTrigger(t, c.Pop(), "pop a")
	if got != "a" {
		t.Fatalf("pop = %q, want %q", got, "a")
	}

	waiting := c.Pop()
	select {
	case <-waiting.Done():
		t.Fatal("pop completed before a value was available")
	default:
	}
	c.AbortPop(waiting)
	if !waiting.Aborted() {
		t.Fatal("expected pop aborted")
	}
}

func TestChannelAbortedPopDoesNotConsumeBuffer(t *testing.T) {
	c := NewChannel[int](1)
	p1 := c.Pop()
	p2 := c.Pop()
	c.AbortPop(p1)

	mustTrigger(t, c.Push(7), "push 7")
	got := mustTrigger(t, p2, "pop after abort of the earlier waiter")
	if got != 7 {
		t.Fatalf("pop = %d, want 7", got)
	}
}

// TestChannelBackpressureScenario is scenario S6 from spec.md: capacity 2,
// five pushes of "foo"-tagged values, then two pops, then three pushes of
// "bar"-tagged values, then four pops; the two values still buffered after
// that are popped last. Every value surfaces in push order.
func TestChannelBackpressureScenario(t *testing.T) {
	c := NewChannel[string](2)

	var pushTickets []*Ticket[struct{}]
	push := func(label string, n int) {
		for i := 0; i < n; i++ {
			pushTickets = append(pushTickets, c.Push(fmt.Sprintf("%s%d", label, i)))
		}
	}
	pop := func(n int) []string {
		out := make([]string, n)
		for i := 0; i < n; i++ {
			out[i] = mustTrigger(t, c.Pop(), fmt.Sprintf("pop %d", i))
		}
		return out
	}

	push("foo", 5)
	first := pop(2)
	push("bar", 3)
	rest := pop(4)
	buffered := pop(2)

	got := append(append(first, rest...), buffered...)
	want := []string{"foo0", "foo1", "foo2", "foo3", "foo4", "bar0", "bar1", "bar2"}
	if len(got) != len(want) {
		t.Fatalf("popped %d values, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("pop[%d] = %q, want %q (full sequence %v)", i, got[i], w, got)
		}
	}

	for i, pt := range pushTickets {
		if !pt.Triggered() {
			t.Fatalf("push ticket %d never completed", i)
		}
	}
}

func TestChannelPanicsOnNonPositiveCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on capacity 0")
		}
	}()
	NewChannel[int](0)
}
