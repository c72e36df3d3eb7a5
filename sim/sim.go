// Package sim implements a single-threaded, cooperative discrete-event
// scheduler. Tasks are not goroutines-per-task; they are explicit state
// machines (see the graph package) that suspend by obtaining a
// bufchan.Ticket — from a Simulation timer (After) or from a bufchan.Channel
// — and resume when the scheduler triggers it in timestamp order.
//
// Grounded on original_source/simzip.cpp's simcpp20-based event loop
// (sim_t, context_t.run, "main/run_time"), adapted from simcpp20's
// coroutine-driven model to Go's ticket/callback style used throughout
// this module.
package sim

import (
	"container/heap"
	"time"

	"github.com/brettviren/simzip/bufchan"
)

// NewTicket constructs a standalone ticket a task can complete itself,
// independent of any timer or channel (e.g. to model an externally-awaited
// condition). The scheduler's wait handle is bufchan.Ticket, shared with
// bufchan.Channel.
func NewTicket[T any]() *bufchan.Ticket[T] { return bufchan.NewTicket[T]() }

type timerEntry struct {
	at     time.Duration
	seq    uint64
	ticket *bufchan.Ticket[struct{}]
}

type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)   { *h = append(*h, x.(*timerEntry)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Simulation is the cooperative scheduler. It owns simulated time and a
// priority queue of pending timers; it never touches a wall clock.
type Simulation struct {
	now    time.Duration
	timers timerHeap
	seq    uint64
}

// New constructs a Simulation starting at time zero.
func New() *Simulation {
	return &Simulation{}
}

// Now returns the current simulated time.
func (s *Simulation) Now() time.Duration { return s.now }

// After schedules a timer d in the future and returns a ticket that
// triggers (with an empty value) when the scheduler reaches that time.
// d <= 0 fires at the current time, after any already-due timers.
func (s *Simulation) After(d time.Duration) *bufchan.Ticket[struct{}] {
	if d < 0 {
		d = 0
	}
	t := NewTicket[struct{}]()
	s.seq++
	heap.Push(&s.timers, &timerEntry{at: s.now + d, seq: s.seq, ticket: t})
	return t
}

// Pending reports whether any timer remains scheduled.
func (s *Simulation) Pending() bool { return len(s.timers) > 0 }

// Step advances to the next scheduled timer, triggers it, and reports
// whether it did. Aborted timers are discarded without advancing time on
// their own account; Step keeps popping until it triggers a live one or the
// queue empties. Returns false if there was nothing to step.
func (s *Simulation) Step() bool {
	for len(s.timers) > 0 {
		e := heap.Pop(&s.timers).(*timerEntry)
		if e.ticket.Aborted() {
			continue
		}
		s.now = e.at
		e.ticket.Trigger(struct{}{})
		return true
	}
	return false
}

// RunUntil drives the scheduler forward, triggering every timer due at or
// before horizon in timestamp order, then advances Now() to horizon itself
// (even if the last timer fired earlier). Grounded on
// original_source/simzip.cpp's context_t::run / sim.run_until(run_time).
func (s *Simulation) RunUntil(horizon time.Duration) {
	for len(s.timers) > 0 && s.timers[0].at <= horizon {
		s.Step()
	}
	if horizon > s.now {
		s.now = horizon
	}
}

// Run drains every scheduled timer, including ones newly scheduled as a
// side effect of triggering earlier ones. It never returns on its own if a
// task reschedules itself forever (e.g. an unbounded source) — callers
// driving such graphs must use RunUntil with a horizon instead.
func (s *Simulation) Run() {
	for s.Step() {
	}
}

// Race resolves whichever of ticket or a timeout of d completes first,
// entirely through callbacks: it never blocks a goroutine, keeping a task's
// state machine cooperative and driven solely by Simulation.Step/Run.
// Exactly one of onValue, onTimeout runs, synchronously from within
// whichever of ticket or the internal deadline timer triggers first. The
// loser is aborted: a losing ticket is abandoned (e.g. a channel pop is
// released back to bufchan's waiter queue), a losing deadline is simply
// never triggered. timeout <= 0 disables the race: onValue runs whenever
// ticket eventually completes.
//
// Grounded on original_source/simzip.cpp's node_t::recv, which races a
// channel pop against a recv_timeout via simzip::any_of.
func Race[T any](s *Simulation, ticket *bufchan.Ticket[T], timeout time.Duration, onValue func(T), onTimeout func()) {
	if timeout <= 0 {
		ticket.OnComplete(onValue)
		return
	}
	deadline := s.After(timeout)
	var fired bool
	ticket.OnComplete(func(v T) {
		if fired {
			return
		}
		fired = true
		deadline.Abort()
		onValue(v)
	})
	deadline.OnComplete(func(struct{}) {
		if fired {
			return
		}
		fired = true
		ticket.Abort()
		onTimeout()
	})
}
