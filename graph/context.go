package graph

import "github.com/brettviren/simzip/sim"

// Context threads the running simulation and the named-distribution
// registry through every task constructor. Grounded on
// original_source/simzip.cpp's context_t, which bundles a
// simcpp20::simulation<> and an rnd_t and hands both to every node_t by
// reference — reproduced here as an explicit struct passed by pointer,
// never a package-level variable (Design Note §9, "Global-ish state").
type Context struct {
	Sim *sim.Simulation
	Rnd *Registry
}
