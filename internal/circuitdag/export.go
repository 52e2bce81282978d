// internal/circuitdag/export.go
package circuitdag

import (
	"context"
	"fmt"

	"github.com/vk/circuitgrid/internal/ctxlog"
	"github.com/vk/circuitgrid/internal/dagnode"
	"github.com/vk/circuitgrid/internal/wire"
)

// Export serializes the graph into per-node snapshots and the edge set.
// Both are ordered by graph index, so repeated exports of the same graph
// are byte-identical.
func (d *DAG) Export() ([]dagnode.Snapshot, [][2]int, error) {
	nodes := d.Nodes()
	snaps := make([]dagnode.Snapshot, 0, len(nodes))
	for _, n := range nodes {
		s, err := n.Snapshot()
		if err != nil {
			return nil, nil, fmt.Errorf("circuitdag: export node %d: %w", n.Handle().Index(), err)
		}
		snaps = append(snaps, s)
	}

	var edges [][2]int
	for _, n := range nodes {
		from := n.Handle().Index()
		for _, to := range sortedKeys(d.succs[from]) {
			edges = append(edges, [2]int{from, to})
		}
	}
	return snaps, edges, nil
}

// Import rebuilds a DAG from exported snapshots and edges. Restored nodes
// keep their original indices; each wire's operation chain is recovered by
// walking the edges from its input boundary. The graph is validated before
// being returned.
func Import(ctx context.Context, snaps []dagnode.Snapshot, edges [][2]int) (*DAG, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Import: Restoring graph.", "nodes", len(snaps), "edges", len(edges))
	d := New()

	type boundaryPair struct {
		in, out int
	}
	pairs := make(map[wire.Wire]*boundaryPair)
	pair := func(w wire.Wire) *boundaryPair {
		p, ok := pairs[w]
		if !ok {
			p = &boundaryPair{in: -1, out: -1}
			pairs[w] = p
		}
		return p
	}

	for _, s := range snaps {
		n, err := dagnode.Restore(s)
		if err != nil {
			return nil, fmt.Errorf("circuitdag: import: %w", err)
		}
		idx := n.Handle().Index()
		if idx == dagnode.Detached {
			return nil, fmt.Errorf("circuitdag: import: snapshot of kind %s is detached", s.Kind)
		}
		if _, dup := d.nodes[idx]; dup {
			return nil, fmt.Errorf("circuitdag: import: duplicate index %d", idx)
		}
		d.nodes[idx] = n
		d.succs[idx] = make(map[int]struct{})
		d.preds[idx] = make(map[int]struct{})
		if idx >= d.next {
			d.next = idx + 1
		}

		switch b := n.(type) {
		case *dagnode.InNode:
			p := pair(b.Wire())
			if p.in >= 0 {
				return nil, fmt.Errorf("circuitdag: import: wire %s has two input boundaries", b.Wire())
			}
			p.in = idx
		case *dagnode.OutNode:
			p := pair(b.Wire())
			if p.out >= 0 {
				return nil, fmt.Errorf("circuitdag: import: wire %s has two output boundaries", b.Wire())
			}
			p.out = idx
		}
	}

	for _, e := range edges {
		if _, ok := d.nodes[e[0]]; !ok {
			return nil, fmt.Errorf("%w: edge source %d", ErrNodeNotFound, e[0])
		}
		if _, ok := d.nodes[e[1]]; !ok {
			return nil, fmt.Errorf("%w: edge target %d", ErrNodeNotFound, e[1])
		}
		d.addEdge(e[0], e[1])
	}

	order, err := d.TopologicalOrder()
	if err != nil {
		return nil, fmt.Errorf("circuitdag: import: %w", err)
	}

	// A wire's chain is a path through the graph, so any topological order
	// restricted to the wire's nodes reproduces the chain.
	for w, p := range pairs {
		if p.in < 0 || p.out < 0 {
			return nil, fmt.Errorf("circuitdag: import: wire %s has an incomplete boundary pair", w)
		}
		var chain []int
		for _, n := range order {
			if idx := n.Handle().Index(); d.touchesWire(idx, w) {
				chain = append(chain, idx)
			}
		}
		if chain[0] != p.in || chain[len(chain)-1] != p.out {
			return nil, fmt.Errorf("circuitdag: import: wire %s is not bounded by its boundary pair", w)
		}
		d.wires[w] = &wireChain{nodes: chain}
	}

	logger.Debug("Import: Graph restored.", "wires", len(d.wires))
	return d, nil
}

// touchesWire reports whether the node at idx lies on w.
func (d *DAG) touchesWire(idx int, w wire.Wire) bool {
	switch n := d.nodes[idx].(type) {
	case *dagnode.InNode:
		return n.Wire().Equal(w)
	case *dagnode.OutNode:
		return n.Wire().Equal(w)
	case *dagnode.OpNode:
		return wireIn(n.Qargs(), w) || wireIn(n.Cargs(), w)
	default:
		return false
	}
}

func wireIn(ws []wire.Wire, w wire.Wire) bool {
	for _, x := range ws {
		if x.Equal(w) {
			return true
		}
	}
	return false
}
