// internal/dagnode/node.go
package dagnode

import "hash/fnv"

// Kind enumerates the vertex kinds of the circuit graph.
type Kind int

const (
	// KindOp is an operation vertex.
	KindOp Kind = iota
	// KindIn is the source boundary of a wire's lifetime in the graph.
	KindIn
	// KindOut is the sink boundary of a wire's lifetime in the graph.
	KindOut
)

func (k Kind) String() string {
	switch k {
	case KindOp:
		return "op"
	case KindIn:
		return "in"
	case KindOut:
		return "out"
	default:
		return "unknown"
	}
}

// Node is the closed capability interface implemented by the three vertex
// kinds: OpNode, InNode and OutNode.
type Node interface {
	// Handle exposes the node's positional identity for the graph engine.
	Handle() *Handle
	// Kind reports the vertex kind.
	Kind() Kind
	// Equal is identity-biased node equality; see the package doc.
	Equal(other Node) bool
	// Hash is consistent with Equal but deliberately coarser; see the
	// package doc.
	Hash() uint64
	// Snapshot produces the node's portable representation.
	Snapshot() (Snapshot, error)
	// String returns a debugging representation.
	String() string

	isNode()
}

// hashIndexed digests a node's index plus a payload tag, the shared shape
// of every node-kind hash.
func hashIndexed(index int, payload []byte) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	v := uint64(int64(index))
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	h.Write(buf[:])
	h.Write(payload)
	return h.Sum64()
}

// hashIndexedU64 is hashIndexed over a numeric payload digest.
func hashIndexedU64(index int, payload uint64) uint64 {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(payload >> (8 * i))
	}
	return hashIndexed(index, buf[:])
}
