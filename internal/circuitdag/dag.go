// internal/circuitdag/dag.go
package circuitdag

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/vk/circuitgrid/internal/ctxlog"
	"github.com/vk/circuitgrid/internal/dagnode"
	"github.com/vk/circuitgrid/internal/wire"
)

var (
	// ErrAlreadyAttached reports an insertion of a node that is bound to a
	// graph position already.
	ErrAlreadyAttached = errors.New("circuitdag: node is already attached")
	// ErrNodeNotFound reports an index with no live node behind it.
	ErrNodeNotFound = errors.New("circuitdag: node not found")
	// ErrUnknownWire reports an operation targeting a wire the graph does
	// not carry.
	ErrUnknownWire = errors.New("circuitdag: unknown wire")
	// ErrDuplicateWire reports an operation naming the same wire more than
	// once across its target tuples. Splicing such a node would self-loop
	// the wire's chain.
	ErrDuplicateWire = errors.New("circuitdag: operation targets a wire more than once")
	// ErrCycle reports that the edge structure is not acyclic.
	ErrCycle = errors.New("circuitdag: cycle detected")
)

// wireChain is one wire's node sequence, from its input boundary through
// every operation touching the wire to its output boundary. Every edge in
// the graph is a consecutive pair of some chain, so splicing and removal
// are per-wire list operations.
type wireChain struct {
	nodes []int // chain[0] is the in boundary, chain[len-1] the out boundary
}

func (c *wireChain) in() int  { return c.nodes[0] }
func (c *wireChain) out() int { return c.nodes[len(c.nodes)-1] }

// frontier is the most recent non-output vertex, onto which the next
// operation is spliced.
func (c *wireChain) frontier() int { return c.nodes[len(c.nodes)-2] }

// splice inserts idx just before the output boundary.
func (c *wireChain) splice(idx int) (prev int) {
	prev = c.frontier()
	out := c.out()
	c.nodes = append(c.nodes[:len(c.nodes)-1], idx, out)
	return prev
}

// drop removes idx from the chain, returning its former neighbours.
// ok is false when idx is not on the chain.
func (c *wireChain) drop(idx int) (prev, next int, ok bool) {
	for i := 1; i < len(c.nodes)-1; i++ {
		if c.nodes[i] == idx {
			prev, next = c.nodes[i-1], c.nodes[i+1]
			c.nodes = append(c.nodes[:i], c.nodes[i+1:]...)
			return prev, next, true
		}
	}
	return 0, 0, false
}

// DAG is a circuit dependency graph. The zero value is not usable; call New.
type DAG struct {
	nodes map[int]dagnode.Node
	succs map[int]map[int]struct{}
	preds map[int]map[int]struct{}
	wires map[wire.Wire]*wireChain
	next  int
}

// New creates and returns an initialized, empty DAG.
func New() *DAG {
	return &DAG{
		nodes: make(map[int]dagnode.Node),
		succs: make(map[int]map[int]struct{}),
		preds: make(map[int]map[int]struct{}),
		wires: make(map[wire.Wire]*wireChain),
	}
}

// Insert attaches a detached node, assigning it the next free index. It is
// the single point where a node transitions from detached to attached.
func (d *DAG) Insert(n dagnode.Node) (int, error) {
	if n.Handle().Attached() {
		return 0, fmt.Errorf("%w: index %d", ErrAlreadyAttached, n.Handle().Index())
	}
	idx := d.next
	d.next++
	if err := n.Handle().SetIndex(idx); err != nil {
		return 0, err
	}
	d.nodes[idx] = n
	d.succs[idx] = make(map[int]struct{})
	d.preds[idx] = make(map[int]struct{})
	return idx, nil
}

// AddWire registers a wire and inserts its boundary pair, connected by a
// direct edge until operations are spliced in between.
func (d *DAG) AddWire(w wire.Wire) (*dagnode.InNode, *dagnode.OutNode, error) {
	if _, ok := d.wires[w]; ok {
		return nil, nil, fmt.Errorf("circuitdag: wire %s already present", w)
	}
	in := dagnode.NewInNode(w)
	out := dagnode.NewOutNode(w)
	inIdx, err := d.Insert(in)
	if err != nil {
		return nil, nil, err
	}
	outIdx, err := d.Insert(out)
	if err != nil {
		return nil, nil, err
	}
	d.addEdge(inIdx, outIdx)
	d.wires[w] = &wireChain{nodes: []int{inIdx, outIdx}}
	return in, out, nil
}

// Wires returns the registered wires in deterministic (string) order.
func (d *DAG) Wires() []wire.Wire {
	out := make([]wire.Wire, 0, len(d.wires))
	for w := range d.wires {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Apply inserts a detached operation node and splices it onto the frontier
// of every wire it targets, keeping each wire's output boundary the sink of
// the wire's operation chain. Every target wire must be registered and may
// appear only once across both tuples.
func (d *DAG) Apply(ctx context.Context, n *dagnode.OpNode) (int, error) {
	logger := ctxlog.FromContext(ctx)

	targets := make([]wire.Wire, 0, len(n.Qargs())+len(n.Cargs()))
	targets = append(targets, n.Qargs()...)
	targets = append(targets, n.Cargs()...)
	seen := make(map[wire.Wire]struct{}, len(targets))
	for _, w := range targets {
		if _, ok := d.wires[w]; !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownWire, w)
		}
		if _, dup := seen[w]; dup {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateWire, w)
		}
		seen[w] = struct{}{}
	}

	idx, err := d.Insert(n)
	if err != nil {
		return 0, err
	}
	for _, w := range targets {
		c := d.wires[w]
		out := c.out()
		prev := c.splice(idx)
		d.removeEdge(prev, out)
		d.addEdge(prev, idx)
		d.addEdge(idx, out)
	}
	logger.Debug("Apply: Operation spliced.", "op", n.Name(), "index", idx, "wires", len(targets))
	return idx, nil
}

// Remove deletes the node at index, reconnecting its chain neighbours on
// every wire it touches so per-wire ordering survives. The node's handle
// is detached. Boundary nodes cannot be removed while their wire is
// registered.
func (d *DAG) Remove(index int) error {
	n, ok := d.nodes[index]
	if !ok {
		return fmt.Errorf("%w: index %d", ErrNodeNotFound, index)
	}
	for _, c := range d.wires {
		if c.in() == index || c.out() == index {
			return fmt.Errorf("circuitdag: cannot remove boundary node %d of a live wire", index)
		}
	}

	for _, c := range d.wires {
		prev, next, onChain := c.drop(index)
		if !onChain {
			continue
		}
		d.removeEdge(prev, index)
		d.removeEdge(index, next)
		d.addEdge(prev, next)
	}

	delete(d.nodes, index)
	delete(d.succs, index)
	delete(d.preds, index)

	n.Handle().Detach()
	return nil
}

// Node returns the node at index.
func (d *DAG) Node(index int) (dagnode.Node, error) {
	n, ok := d.nodes[index]
	if !ok {
		return nil, fmt.Errorf("%w: index %d", ErrNodeNotFound, index)
	}
	return n, nil
}

// Nodes returns every live node ordered by graph index.
func (d *DAG) Nodes() []dagnode.Node {
	out := make([]dagnode.Node, 0, len(d.nodes))
	for _, n := range d.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Handle().Less(*out[j].Handle())
	})
	return out
}

// OpNodes returns the operation nodes ordered by graph index.
func (d *DAG) OpNodes() []*dagnode.OpNode {
	var out []*dagnode.OpNode
	for _, n := range d.Nodes() {
		if op, ok := n.(*dagnode.OpNode); ok {
			out = append(out, op)
		}
	}
	return out
}

// Size returns the number of live nodes.
func (d *DAG) Size() int { return len(d.nodes) }

// Successors returns the direct successor indices of a node, sorted.
func (d *DAG) Successors(index int) ([]int, error) {
	if _, ok := d.nodes[index]; !ok {
		return nil, fmt.Errorf("%w: index %d", ErrNodeNotFound, index)
	}
	return sortedKeys(d.succs[index]), nil
}

// Predecessors returns the direct predecessor indices of a node, sorted.
func (d *DAG) Predecessors(index int) ([]int, error) {
	if _, ok := d.nodes[index]; !ok {
		return nil, fmt.Errorf("%w: index %d", ErrNodeNotFound, index)
	}
	return sortedKeys(d.preds[index]), nil
}

func (d *DAG) addEdge(from, to int) {
	d.succs[from][to] = struct{}{}
	d.preds[to][from] = struct{}{}
}

func (d *DAG) removeEdge(from, to int) {
	delete(d.succs[from], to)
	delete(d.preds[to], from)
}

func sortedKeys(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
