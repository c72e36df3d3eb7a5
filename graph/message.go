package graph

import (
	"time"

	"github.com/brettviren/simzip/zipper"
)

// Message is the unit element flowing through this graph: a mock
// TP/TA/TC-style record, "anything that may be subject to a zipper", per
// original_source/simzip.cpp's message_t. Payload carries the simulated
// time of creation (seconds, as a float64, matching the original's
// payload_t); Ordering is a monotone tick count derived from that time;
// Identity is the producing node's configured "ident".
type Message = zipper.Node[float64, int64, int]

// tickPeriod converts simulated time to the zipper's integer ordering
// ticks. original_source/simzip.cpp fixes this at 1 microsecond assuming a
// simulation clock in seconds; this repository's sim.Simulation operates in
// time.Duration, so the tick stays one microsecond and toOrdering divides a
// duration by it.
const tickPeriod = time.Microsecond

func toOrdering(t time.Duration) int64 { return int64(t / tickPeriod) }
