package effectchain

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/core"
)

// ErrUnknownEffect is returned when a node references an unregistered effect type.
var ErrUnknownEffect = errors.New("unknown effect type")

type nodeRuntime struct {
	params   Params
	runtime  Runtime
	prepared bool
}

// Chain runs its nodes one after another on the same block. It implements
// core.Processor, so chains nest.
//
// LoadChain and Prepare allocate and must not run concurrently with
// Process. Parameter setters on the node runtimes are safe to call from
// another goroutine.
type Chain struct {
	registry *Registry
	cfg      core.ProcessorConfig
	ready    bool
	nodes    []*nodeRuntime
}

var _ core.Processor = (*Chain)(nil)

// New creates an empty Chain that resolves node types through registry.
func New(registry *Registry) *Chain {
	return &Chain{registry: registry}
}

// LoadChain parses a chain document and synchronizes node runtimes. Nodes
// whose id and type are unchanged keep their runtime and state and are only
// reconfigured. An empty string clears the chain.
func (c *Chain) LoadChain(raw string) error {
	params, err := parseGraph(raw)
	if err != nil {
		return err
	}

	existing := make(map[string]*nodeRuntime, len(c.nodes))
	for _, n := range c.nodes {
		existing[n.params.ID] = n
	}

	nodes := make([]*nodeRuntime, 0, len(params))
	for _, p := range params {
		n := existing[p.ID]
		if n == nil || n.params.Type != p.Type {
			n, err = c.newNode(p)
			if err != nil {
				return err
			}
		}

		if err := n.runtime.Configure(p); err != nil {
			return fmt.Errorf("configure %s: %w", p.ID, err)
		}
		n.params = p

		if c.ready && !n.prepared {
			if err := n.runtime.Prepare(c.cfg); err != nil {
				return fmt.Errorf("prepare %s: %w", p.ID, err)
			}
			n.prepared = true
		}
		nodes = append(nodes, n)
	}

	c.nodes = nodes
	return nil
}

func (c *Chain) newNode(p Params) (*nodeRuntime, error) {
	factory := c.registry.Lookup(p.Type)
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEffect, p.Type)
	}

	rt, err := factory(p)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", p.ID, err)
	}
	return &nodeRuntime{params: p, runtime: rt}, nil
}

// Prepare prepares every node for cfg.
func (c *Chain) Prepare(cfg core.ProcessorConfig) error {
	if err := core.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("effect chain: %w", err)
	}

	for _, n := range c.nodes {
		if err := n.runtime.Prepare(cfg); err != nil {
			return fmt.Errorf("prepare %s: %w", n.params.ID, err)
		}
		n.prepared = true
	}

	c.cfg = cfg
	c.ready = true
	return nil
}

// Process runs every non-bypassed node on block in order.
func (c *Chain) Process(block [][]float64) {
	for _, n := range c.nodes {
		if n.params.Bypassed || !n.prepared {
			continue
		}
		n.runtime.Process(block)
	}
}

// Reset clears the state of every node.
func (c *Chain) Reset() {
	for _, n := range c.nodes {
		n.runtime.Reset()
	}
}

// Len returns the number of nodes.
func (c *Chain) Len() int { return len(c.nodes) }

// IDs returns the node ids in processing order.
func (c *Chain) IDs() []string {
	ids := make([]string, len(c.nodes))
	for i, n := range c.nodes {
		ids[i] = n.params.ID
	}
	return ids
}

// NodeRuntime returns the runtime of node id, or nil.
func (c *Chain) NodeRuntime(id string) Runtime {
	for _, n := range c.nodes {
		if n.params.ID == id {
			return n.runtime
		}
	}
	return nil
}

// SetBypassed toggles a node without reloading the chain.
func (c *Chain) SetBypassed(id string, bypassed bool) error {
	for _, n := range c.nodes {
		if n.params.ID == id {
			n.params.Bypassed = bypassed
			return nil
		}
	}
	return fmt.Errorf("effect chain: no node %q", id)
}
