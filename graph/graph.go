package graph

import (
	"time"

	"github.com/brettviren/simzip/bufchan"
	"github.com/brettviren/simzip/sim"
	"github.com/brettviren/simzip/stats"
)

// node is a built, running instance of one NodeConfig: its ports and its
// dispatched Task.
type node struct {
	cfg    NodeConfig
	iports []*bufchan.Channel[Message]
	oports []*bufchan.Channel[Message]
	task   Task
}

// edge is a built, running instance of one EdgeConfig: a transferTask
// bridging the tail node's output port to the head node's input port.
// Grounded on original_source/simzip.cpp's node_store_t::set_edge, which
// wires an edge's node_t to reference (not own) the endpoints' ports.
type edge struct {
	cfg  EdgeConfig
	task Task
}

// Graph is a built, runnable instance of a Config: every declared node
// dispatched to its Task, every edge wired as a transfer between two
// existing ports, ready to Run.
type Graph struct {
	cfg *Config
	ctx *Context

	nodes map[string]*node
	edges map[string]*edge
	order []string // node keys in declaration order, for deterministic Start/output
}

// Build constructs a Graph from cfg: declares random services, allocates
// every node's ports and dispatches its Task, then wires every edge.
// Configuration errors (undeclared reference, out-of-bounds port,
// unsupported node type) are returned as *ConfigError before anything
// runs. Grounded on original_source/simzip.cpp's context_t constructor.
func Build(cfg *Config) (*Graph, error) {
	seed := cfg.Main.Seed
	if seed == 0 {
		seed = 123456
	}
	ctx := &Context{
		Sim: sim.New(),
		Rnd: NewRegistry(seed),
	}

	g := &Graph{
		cfg:   cfg,
		ctx:   ctx,
		nodes: make(map[string]*node),
		edges: make(map[string]*edge),
	}

	// First pass: declare random services, build ports + dispatch tasks
	// for regular nodes. Grounded on context_t's two-pass node loop.
	for _, nc := range cfg.Nodes {
		if isRandom(nc) {
			if err := ctx.Rnd.Declare(nc); err != nil {
				return nil, err
			}
			continue
		}
		factory, ok := Kinds[nc.Type]
		if !ok {
			return nil, configErrorf("graph: unknown node type %q", nc.Type)
		}
		iports := makePorts(nc, "ibox")
		oports := makePorts(nc, "obox")
		if len(iports) == 0 && len(oports) == 0 {
			return nil, configErrorf("graph: node %q declares no ports", nc.Key())
		}
		task, err := factory(ctx, nc, iports, oports)
		if err != nil {
			return nil, err
		}
		key := nc.Key()
		if _, dup := g.nodes[key]; dup {
			return nil, configErrorf("graph: duplicate node key %q", key)
		}
		g.nodes[key] = &node{cfg: nc, iports: iports, oports: oports, task: task}
		g.order = append(g.order, key)
	}

	// Second pass: wire edges as transfer tasks between existing ports.
	for _, ec := range cfg.Edges {
		tail, ok := g.nodes[ec.Tail.Node]
		if !ok {
			return nil, configErrorf("graph: edge references undeclared node %q", ec.Tail.Node)
		}
		head, ok := g.nodes[ec.Head.Node]
		if !ok {
			return nil, configErrorf("graph: edge references undeclared node %q", ec.Head.Node)
		}
		if ec.Tail.Port < 0 || ec.Tail.Port >= len(tail.oports) {
			return nil, configErrorf("graph: edge tail port %d out of bounds for node %q (%d output ports)",
				ec.Tail.Port, ec.Tail.Node, len(tail.oports))
		}
		if ec.Head.Port < 0 || ec.Head.Port >= len(head.iports) {
			return nil, configErrorf("graph: edge head port %d out of bounds for node %q (%d input ports)",
				ec.Head.Port, ec.Head.Node, len(head.iports))
		}

		tport := tail.oports[ec.Tail.Port]
		hport := head.iports[ec.Head.Port]
		edgeNode := NodeConfig{Type: "transfer", Name: ec.Key(), Data: ec.Data}
		task, err := newTransferTask(ctx, edgeNode,
			[]*bufchan.Channel[Message]{tport}, []*bufchan.Channel[Message]{hport})
		if err != nil {
			return nil, err
		}
		g.edges[ec.Key()] = &edge{cfg: ec, task: task}
	}

	return g, nil
}

// Run starts every node and edge task, then drives the simulation to
// main.run_time. Grounded on original_source/simzip.cpp's
// context_t::run (`sim.run_until(run_time)`).
func (g *Graph) Run() {
	for _, key := range g.order {
		g.nodes[key].task.Start()
	}
	for _, e := range g.edges {
		e.task.Start()
	}
	horizon := durationOf(g.cfg.Main.RunTime)
	if horizon <= 0 {
		horizon = time.Second
	}
	g.ctx.Sim.RunUntil(horizon)
}

// State renders the post-run configuration: every node and edge's config,
// merged with its recv/send/timeout statistics, matching
// original_source/simzip.cpp's context_t::state.
func (g *Graph) State() *Config {
	out := &Config{Main: g.cfg.Main}

	for _, nc := range g.cfg.Nodes {
		if isService(nc) {
			out.Nodes = append(out.Nodes, nc)
			continue
		}
		n := g.nodes[nc.Key()]
		out.Nodes = append(out.Nodes, mergeStats(nc, n.task))
	}
	for _, ec := range g.cfg.Edges {
		e := g.edges[ec.Key()]
		merged := mergeStats(NodeConfig{Type: "transfer", Name: ec.Key(), Data: ec.Data}, e.task)
		ec.Data = merged.Data
		out.Edges = append(out.Edges, ec)
	}
	return out
}

func mergeStats(cfg NodeConfig, task Task) NodeConfig {
	recorder, ok := task.(interface{ Stats() *stats.Recorder })
	if !ok {
		return cfg
	}
	data := Data{}
	for k, v := range cfg.Data {
		data[k] = v
	}
	msgs := map[string]stats.Summary{}
	for _, name := range []string{"recv", "send", "send_timeout", "recv_timeout"} {
		s := recorder.Stats().Series(name)
		if s.Count() > 0 {
			msgs[name] = s.Snapshot()
		}
	}
	if len(msgs) > 0 {
		data["msgs"] = msgs
	}
	if z, ok := task.(interface {
		ZipSize() int
		ZipComplete() bool
	}); ok {
		data["zipsize"] = z.ZipSize()
		data["zipcomplete"] = z.ZipComplete()
	}
	cfg.Data = data
	return cfg
}
