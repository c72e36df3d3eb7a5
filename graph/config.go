// Package graph builds and runs a message-passing graph of source, sink,
// transfer, and zipit nodes over a sim.Simulation, from a JSON
// configuration document.
//
// Grounded on original_source/simzip.cpp's context_t/node_store_t/
// node_types_t and the client/server JSON config pattern in
// xtaci-kcptun/server/config.go (encoding/json struct tags, a
// parseJSONConfig-style loader).
package graph

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Port identifies one endpoint of an edge: a node name and the index of
// one of its input or output ports.
type Port struct {
	Node string `json:"node"`
	Port int    `json:"port"`
}

// Main carries the simulation's global run parameters.
type Main struct {
	Seed    int64   `json:"seed"`
	RunTime float64 `json:"run_time"`
}

// NodeConfig describes one graph node: its dispatch type, an optional
// name (disambiguating multiple nodes of the same type), and its
// type-specific data.
type NodeConfig struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	Data Data   `json:"data,omitempty"`
}

// Key returns the node's store key: "type" alone, or "type:name" when
// named. Grounded on original_source/simzip.cpp's make_key.
func (n NodeConfig) Key() string { return makeKey(n.Type, n.Name) }

func makeKey(typ, name string) string {
	if name == "" {
		return typ
	}
	return typ + ":" + name
}

// EdgeConfig describes a transfer binding one output port to one input
// port, with its own (optional) data such as a transmission delay
// distribution.
type EdgeConfig struct {
	Tail Port `json:"tail"`
	Head Port `json:"head"`
	Data Data `json:"data,omitempty"`
}

// Key returns the edge's store key, grounded on
// original_source/simzip.cpp's make_edge_key.
func (e EdgeConfig) Key() string {
	return e.Tail.Node + ":" + strconv.Itoa(e.Tail.Port) + "->" + e.Head.Node + ":" + strconv.Itoa(e.Head.Port)
}

// Config is the root JSON document: main run parameters, the node list
// (including "random" service declarations), and the edge list.
type Config struct {
	Main  Main         `json:"main"`
	Nodes []NodeConfig `json:"nodes"`
	Edges []EdgeConfig `json:"edges"`
}

// Load parses a graph configuration document from r.
func Load(r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "graph: reading config")
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrap(err, "graph: parsing config")
	}
	return &cfg, nil
}

// Encode writes the configuration as indented JSON to w.
func (c *Config) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
