package graph

import "github.com/brettviren/simzip/bufchan"

// Task is a running graph node's cooperative state machine. Start arms its
// first suspension point (a sim timer or a bufchan ticket); the task then
// re-arms itself from within that ticket's completion callback, forming a
// self-perpetuating loop entirely driven by sim.Simulation.Run/RunUntil —
// no goroutine is dedicated to a task. Grounded on
// original_source/simzip.cpp's node coroutines (source, burst, sink,
// transfer, zipit), each an infinite `while(true) { co_await ... }` loop;
// here the loop is a chain of callbacks instead of a suspended stack.
type Task interface {
	Start()
}

// TaskFactory constructs a Task for a node configuration, given its wired
// input and output ports.
type TaskFactory func(ctx *Context, cfg NodeConfig, iports, oports []*bufchan.Channel[Message]) (Task, error)

// Kinds is the closed registry of dispatchable node types, keyed by
// NodeConfig.Type. Grounded on original_source/simzip.cpp's node_types_t,
// replacing its unordered_map<string, node_function> with the same
// string-keyed dispatch over a typed factory signature (Design Note §9).
var Kinds = map[string]TaskFactory{
	"source":   newSourceTaskFactory(false),
	"burst":    newSourceTaskFactory(true),
	"sink":     newSinkTask,
	"transfer": newTransferTask,
	"zipit":    newZipitTask,
}

func isRandom(cfg NodeConfig) bool { return cfg.Type == "random" }

// isService reports whether a node configuration is a declarative service
// (currently only "random") rather than a dispatched task: services don't
// run, they're looked up by name. Grounded on is_service in
// original_source/simzip.cpp.
func isService(cfg NodeConfig) bool { return isRandom(cfg) }
