// internal/dagnode/boundary.go
package dagnode

import (
	"fmt"

	"github.com/vk/circuitgrid/internal/wire"
)

// InNode is the source boundary vertex of one wire: every operation on the
// wire is downstream of it.
type InNode struct {
	handle Handle
	wire   wire.Wire
}

// NewInNode builds a detached input boundary for w.
func NewInNode(w wire.Wire) *InNode {
	return &InNode{handle: NewHandle(), wire: w}
}

// NewInNodeAt builds an already-attached input boundary. It exists for the
// graph engine's insertion path; external callers construct detached nodes.
func NewInNodeAt(index int, w wire.Wire) (*InNode, error) {
	h, err := HandleAt(index)
	if err != nil {
		return nil, err
	}
	return &InNode{handle: h, wire: w}, nil
}

func (n *InNode) Handle() *Handle { return &n.handle }

func (n *InNode) Kind() Kind { return KindIn }

func (n *InNode) isNode() {}

// Wire returns the wire whose lifetime this node opens.
func (n *InNode) Wire() wire.Wire { return n.wire }

// Equal compares index and wire. The in/out role does not participate: an
// input and an output boundary with matching index and wire are equal. See
// the package doc.
func (n *InNode) Equal(other Node) bool {
	return boundaryEqual(n.handle, n.wire, other)
}

// Hash digests the index and the wire's own hash.
func (n *InNode) Hash() uint64 {
	return hashIndexedU64(n.handle.Index(), n.wire.Hash())
}

func (n *InNode) String() string {
	return fmt.Sprintf("InNode(wire=%s)", n.wire)
}

// OutNode is the sink boundary vertex of one wire: every operation on the
// wire is upstream of it.
type OutNode struct {
	handle Handle
	wire   wire.Wire
}

// NewOutNode builds a detached output boundary for w.
func NewOutNode(w wire.Wire) *OutNode {
	return &OutNode{handle: NewHandle(), wire: w}
}

// NewOutNodeAt builds an already-attached output boundary. It exists for
// the graph engine's insertion path; external callers construct detached
// nodes.
func NewOutNodeAt(index int, w wire.Wire) (*OutNode, error) {
	h, err := HandleAt(index)
	if err != nil {
		return nil, err
	}
	return &OutNode{handle: h, wire: w}, nil
}

func (n *OutNode) Handle() *Handle { return &n.handle }

func (n *OutNode) Kind() Kind { return KindOut }

func (n *OutNode) isNode() {}

// Wire returns the wire whose lifetime this node closes.
func (n *OutNode) Wire() wire.Wire { return n.wire }

// Equal compares index and wire; the in/out role does not participate. See
// the package doc.
func (n *OutNode) Equal(other Node) bool {
	return boundaryEqual(n.handle, n.wire, other)
}

// Hash digests the index and the wire's own hash.
func (n *OutNode) Hash() uint64 {
	return hashIndexedU64(n.handle.Index(), n.wire.Hash())
}

func (n *OutNode) String() string {
	return fmt.Sprintf("OutNode(wire=%s)", n.wire)
}

// boundaryEqual is the shared boundary-node rule: other must be a boundary
// node of either role with the same index and an equal wire.
func boundaryEqual(h Handle, w wire.Wire, other Node) bool {
	var oh Handle
	var ow wire.Wire
	switch o := other.(type) {
	case *InNode:
		oh, ow = o.handle, o.wire
	case *OutNode:
		oh, ow = o.handle, o.wire
	default:
		return false
	}
	return h.Index() == oh.Index() && w.Equal(ow)
}
