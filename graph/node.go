package graph

import (
	"time"

	"github.com/brettviren/simzip/bufchan"
	"github.com/brettviren/simzip/sim"
	"github.com/brettviren/simzip/stats"
)

// nodeIO is the common machinery every task kind shares: a single input
// and/or output port, message creation, and the recv/send primitives with
// their optional timeout racing. Grounded on
// original_source/simzip.cpp's node_t, whose recv/send/creat methods are
// reused by every coroutine (source, burst, sink, transfer, zipit).
type nodeIO struct {
	ctx   *Context
	ident int

	iports []*bufchan.Channel[Message]
	oports []*bufchan.Channel[Message]

	recvTimeout time.Duration
	sendTimeout time.Duration

	recorder     *stats.Recorder
	recvCount    *stats.Stats
	sendCount    *stats.Stats
	sendTimeouts *stats.Stats
	recvTimeouts *stats.Stats
}

func newNodeIO(ctx *Context, cfg NodeConfig, iports, oports []*bufchan.Channel[Message]) *nodeIO {
	n := &nodeIO{
		ctx:         ctx,
		ident:       cfg.Data.Int("ident", 0),
		iports:      iports,
		oports:      oports,
		recvTimeout: durationOf(cfg.Data.Float64("recv_timeout", 0)),
		sendTimeout: durationOf(cfg.Data.Float64("send_timeout", 0)),
		recorder:    stats.NewRecorder(),
	}
	n.recvCount = n.recorder.Series("recv")
	n.sendCount = n.recorder.Series("send")
	n.sendTimeouts = n.recorder.Series("send_timeout")
	n.recvTimeouts = n.recorder.Series("recv_timeout")
	return n
}

func durationOf(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// create mints a new message stamped with the current simulated time.
func (n *nodeIO) create() Message {
	now := n.ctx.Sim.Now()
	return Message{
		Payload:  now.Seconds(),
		Ordering: toOrdering(now),
		Identity: n.ident,
		Debut:    now,
	}
}

// redebut re-stamps msg's debut to the current simulated time: every
// message is re-timestamped at arrival, not carried from creation. See
// SPEC_FULL.md's resolved Open Question on debut assignment.
func (n *nodeIO) redebut(msg Message) Message {
	msg.Debut = n.ctx.Sim.Now()
	return msg
}

// recv pops port 0's input, racing it against recvTimeout if set, and
// invokes exactly one of onMessage/onTimeout. Grounded on node_t::recv.
func (n *nodeIO) recv(onMessage func(Message), onTimeout func()) {
	ticket := n.iports[0].Pop()
	sim.Race(n.ctx.Sim, ticket, n.recvTimeout,
		func(msg Message) {
			n.recvCount.Observe(1)
			onMessage(n.redebut(msg))
		},
		func() {
			n.recvTimeouts.Observe(1)
			if onTimeout != nil {
				onTimeout()
			}
		},
	)
}

// send pushes msg to port 0's output, racing against sendTimeout if set,
// and invokes exactly one of onSent/onTimeout. Grounded on node_t::send.
func (n *nodeIO) send(msg Message, onSent func(), onTimeout func()) {
	msg = n.redebut(msg)
	ticket := n.oports[0].Push(msg)
	sim.Race(n.ctx.Sim, ticket, n.sendTimeout,
		func(struct{}) {
			n.sendCount.Observe(1)
			if onSent != nil {
				onSent()
			}
		},
		func() {
			n.sendTimeouts.Observe(1)
			if onTimeout != nil {
				onTimeout()
			}
		},
	)
}

// Stats returns the recorder holding this node's recv/send/timeout
// counters, merged into the graph's post-run output.
func (n *nodeIO) Stats() *stats.Recorder { return n.recorder }
