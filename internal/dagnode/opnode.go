// internal/dagnode/opnode.go
package dagnode

import (
	"fmt"
	"math"

	"github.com/vk/circuitgrid/internal/operation"
	"github.com/vk/circuitgrid/internal/wire"
)

// paramRelTol is the maximum relative difference under which two bound
// float parameters of a standard gate still compare equal.
const paramRelTol = 1e-10

// OpNode is an operation vertex: an instruction applied to ordered tuples
// of quantum and classical wires.
type OpNode struct {
	handle Handle
	inst   operation.Instruction
	qargs  []wire.Wire
	cargs  []wire.Wire

	// matrix is the lazily materialized unitary of the instruction. It is
	// reset on every operation-mutating path and on deep copies so a stale
	// matrix can never alias a replaced descriptor.
	matrix *operation.Matrix
}

// NewOpNode builds a detached operation node. op crosses the operation
// conversion boundary and may be rejected with operation.ErrBadShape; nil
// target tuples default to empty.
func NewOpNode(op any, qargs, cargs []wire.Wire) (*OpNode, error) {
	inst, err := operation.FromAny(op)
	if err != nil {
		return nil, err
	}
	if qargs == nil {
		qargs = []wire.Wire{}
	}
	if cargs == nil {
		cargs = []wire.Wire{}
	}
	return &OpNode{handle: NewHandle(), inst: inst, qargs: qargs, cargs: cargs}, nil
}

// FromInstruction builds a detached operation node over inst with empty
// target tuples. With deep set, the instruction's descriptor is rebuilt per
// its kind-specific duplication rule so the node shares no mutable state
// with the caller's copy.
func FromInstruction(inst operation.Instruction, deep bool) *OpNode {
	if deep {
		inst = inst.DeepCopy()
	}
	return &OpNode{handle: NewHandle(), inst: inst, qargs: []wire.Wire{}, cargs: []wire.Wire{}}
}

func (n *OpNode) Handle() *Handle { return &n.handle }

func (n *OpNode) Kind() Kind { return KindOp }

func (n *OpNode) isNode() {}

// Instruction returns the node's payload. With deep set, the returned copy
// shares no mutable state with the node.
func (n *OpNode) Instruction(deep bool) operation.Instruction {
	if deep {
		return n.inst.DeepCopy()
	}
	return n.inst
}

// Op returns the operation descriptor.
func (n *OpNode) Op() operation.Descriptor { return n.inst.Desc }

// SetOp replaces the operation descriptor, crossing the conversion boundary
// again. Derived parameters and label are refreshed from the new value, and
// the materialized-matrix cache is dropped.
func (n *OpNode) SetOp(op any) error {
	inst, err := operation.FromAny(op)
	if err != nil {
		return err
	}
	n.inst = inst
	n.matrix = nil
	return nil
}

// Qargs returns the primary (quantum) target tuple.
func (n *OpNode) Qargs() []wire.Wire { return n.qargs }

// SetQargs replaces the primary target tuple.
func (n *OpNode) SetQargs(qargs []wire.Wire) {
	if qargs == nil {
		qargs = []wire.Wire{}
	}
	n.qargs = qargs
}

// Cargs returns the secondary (classical) target tuple.
func (n *OpNode) Cargs() []wire.Wire { return n.cargs }

// SetCargs replaces the secondary target tuple.
func (n *OpNode) SetCargs(cargs []wire.Wire) {
	if cargs == nil {
		cargs = []wire.Wire{}
	}
	n.cargs = cargs
}

// Params returns the instruction-level parameter tuple.
func (n *OpNode) Params() []operation.Param { return n.inst.Params }

// SetParams replaces the parameter tuple and drops the matrix cache.
func (n *OpNode) SetParams(params []operation.Param) {
	n.inst.Params = params
	n.matrix = nil
}

// Label returns the instruction's display label.
func (n *OpNode) Label() string { return n.inst.Label }

// SetLabel replaces the instruction's display label.
func (n *OpNode) SetLabel(label string) { n.inst.Label = label }

// Name returns the operation name from the live descriptor.
func (n *OpNode) Name() string { return n.inst.Name() }

// SetName renames the operation. The name is not stored independently of
// the descriptor, so the rename round-trips through the descriptor mutation
// interface and re-derives it; a renamed standard gate loses its native
// representation.
func (n *OpNode) SetName(name string) {
	n.inst = n.inst.Renamed(name)
	n.matrix = nil
}

// NumQubits returns the operation's quantum arity.
func (n *OpNode) NumQubits() int { return n.inst.NumQubits() }

// NumClbits returns the operation's classical arity.
func (n *OpNode) NumClbits() int { return n.inst.NumClbits() }

// IsStandardGate reports whether the descriptor is a native-catalog member.
func (n *OpNode) IsStandardGate() bool { return n.inst.IsStandardGate() }

// IsDirective reports whether the operation is a compiler directive.
func (n *OpNode) IsDirective() bool { return n.inst.IsDirective() }

// IsParameterized reports whether any parameter is still symbolic.
func (n *OpNode) IsParameterized() bool { return n.inst.IsParameterized() }

// Matrix returns the operation's unitary, or nil when undefined. The result
// is materialized once and cached until an operation-mutating call drops it.
func (n *OpNode) Matrix() *operation.Matrix {
	if n.matrix == nil {
		n.matrix = n.inst.Matrix()
	}
	return n.matrix
}

// Equal implements the identity-biased node equality rule. This check is
// more restrictive than semantic equivalence by design: it replaces object
// identity for set/map membership during graph rewrites. A whole-graph
// equivalence check lives with the graph engine, not here.
func (n *OpNode) Equal(other Node) bool {
	o, ok := other.(*OpNode)
	if !ok {
		return false
	}
	if n.handle.Index() != o.handle.Index() {
		return false
	}
	if !n.inst.Desc.Equal(o.inst.Desc) {
		return false
	}
	if n.inst.IsStandardGate() {
		if !paramsTolerantEqual(n.inst.Params, o.inst.Params) {
			return false
		}
	}
	// For non-standard descriptors parameter equality was already
	// established by the descriptor comparison above.
	return wiresEqual(n.qargs, o.qargs) && wiresEqual(n.cargs, o.cargs)
}

// Hash digests the index and operation name only. Coarser than Equal on
// purpose; see the package doc before extending it.
func (n *OpNode) Hash() uint64 {
	return hashIndexed(n.handle.Index(), []byte(n.inst.Name()))
}

func (n *OpNode) String() string {
	return fmt.Sprintf("OpNode(op=%s, qargs=%v, cargs=%v)", n.inst.Name(), n.qargs, n.cargs)
}

// paramsTolerantEqual compares parameter tuples pairwise under the
// standard-gate rule: floats within relative tolerance, expressions and
// opaque values by their own equality, mixed kinds never equal.
func paramsTolerantEqual(a, b []operation.Param) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !paramTolerantEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func paramTolerantEqual(a, b operation.Param) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case operation.ParamFloat:
		fa, _ := a.Float()
		fb, _ := b.Float()
		return relativeEq(fa, fb, paramRelTol)
	default:
		return a.Equal(b)
	}
}

// relativeEq reports |a-b| <= maxRelative * max(|a|, |b|), with exact
// equality short-circuiting so identical infinities compare equal.
func relativeEq(a, b, maxRelative float64) bool {
	if a == b {
		return true
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return false
	}
	diff := math.Abs(a - b)
	return diff <= maxRelative*math.Max(math.Abs(a), math.Abs(b))
}

// wiresEqual compares wire tuples element-wise in order.
func wiresEqual(a, b []wire.Wire) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
