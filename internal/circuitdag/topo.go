// internal/circuitdag/topo.go
package circuitdag

import (
	"container/heap"
	"context"
	"fmt"

	"github.com/vk/circuitgrid/internal/ctxlog"
	"github.com/vk/circuitgrid/internal/dagnode"
)

// Validate checks the edge structure for cycles. It returns a non-nil error
// wrapping ErrCycle if one is found, naming the first node involved.
func (d *DAG) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	// Classic depth-first search with three sets of nodes:
	// permanent: fully visited, known not to be part of a cycle.
	// temporary: currently on the recursion stack.
	// unvisited: everything else.
	permanent := make(map[int]bool)
	temporary := make(map[int]bool)

	var visit func(idx int) error
	visit = func(idx int) error {
		if permanent[idx] {
			return nil
		}
		if temporary[idx] {
			return fmt.Errorf("%w: involving node %d", ErrCycle, idx)
		}
		temporary[idx] = true
		for succ := range d.succs[idx] {
			if err := visit(succ); err != nil {
				return err
			}
		}
		delete(temporary, idx)
		permanent[idx] = true
		return nil
	}

	for idx := range d.nodes {
		if !permanent[idx] {
			if err := visit(idx); err != nil {
				return err
			}
		}
	}
	logger.Debug("Validate: Cycle detection passed.", "nodes", len(d.nodes))
	return nil
}

// intHeap is a min-heap of node indices, giving TopologicalOrder its
// deterministic smallest-index-first tie-break.
type intHeap []int

func (h intHeap) Len() int           { return len(h) }
func (h intHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// TopologicalOrder returns all nodes in a deterministic topological order
// (Kahn's algorithm, ready set drained smallest index first), or an error
// wrapping ErrCycle if the graph is not acyclic.
func (d *DAG) TopologicalOrder() ([]dagnode.Node, error) {
	indegree := make(map[int]int, len(d.nodes))
	for idx := range d.nodes {
		indegree[idx] = len(d.preds[idx])
	}

	ready := &intHeap{}
	heap.Init(ready)
	for idx, deg := range indegree {
		if deg == 0 {
			heap.Push(ready, idx)
		}
	}

	out := make([]dagnode.Node, 0, len(d.nodes))
	for ready.Len() > 0 {
		idx := heap.Pop(ready).(int)
		out = append(out, d.nodes[idx])
		for succ := range d.succs[idx] {
			indegree[succ]--
			if indegree[succ] == 0 {
				heap.Push(ready, succ)
			}
		}
	}

	if len(out) != len(d.nodes) {
		return nil, fmt.Errorf("%w: %d of %d nodes unreachable from the ready set",
			ErrCycle, len(d.nodes)-len(out), len(d.nodes))
	}
	return out, nil
}

// TopologicalOpOrder returns only the operation nodes of TopologicalOrder.
func (d *DAG) TopologicalOpOrder() ([]*dagnode.OpNode, error) {
	all, err := d.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	var out []*dagnode.OpNode
	for _, n := range all {
		if op, ok := n.(*dagnode.OpNode); ok {
			out = append(out, op)
		}
	}
	return out, nil
}
