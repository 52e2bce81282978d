// internal/operation/descriptor.go
package operation

// DescKind tags the closed set of descriptor representations.
type DescKind int

const (
	KindStandardGate DescKind = iota
	KindGate
	KindInstruction
	KindUnitary
	KindOpaque
)

func (k DescKind) String() string {
	switch k {
	case KindStandardGate:
		return "standard_gate"
	case KindGate:
		return "gate"
	case KindInstruction:
		return "instruction"
	case KindUnitary:
		return "unitary"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Descriptor is the polymorphic representation of an operation. The
// interface is sealed; the implementations are StandardGate, Gate, Instr,
// Unitary and Opaque.
//
// A descriptor is a shared-ownership value: many nodes across many graphs
// may reference the same descriptor. Mutation therefore always goes through
// copy-producing methods (DeepCopy, Renamed), never in place.
type Descriptor interface {
	// Name is the operation's tag, e.g. "h", "cx", or a user-chosen name.
	Name() string
	// Kind reports the representation.
	Kind() DescKind
	// NumQubits is the number of quantum wires the operation acts on.
	NumQubits() int
	// NumClbits is the number of classical wires the operation acts on.
	NumClbits() int
	// Params returns the parameters the descriptor itself carries. Standard
	// gates carry none here; their angles travel on the instruction.
	Params() []Param
	// Label returns the descriptor's own display label, if any.
	Label() string
	// Equal is descriptor-level equality, payload-shape-aware. Descriptors
	// of different kinds are never equal.
	Equal(other Descriptor) bool
	// DeepCopy returns a descriptor sharing no mutable state with the
	// receiver.
	DeepCopy() Descriptor
	// Renamed returns a descriptor with the given name. Standard gates and
	// unitaries cannot keep their representation under a foreign name and
	// re-derive as a generic descriptor of the same shape.
	Renamed(name string) Descriptor
	// Matrix materializes the operation's unitary for the given instruction
	// parameters, or nil when the operation has no defined matrix.
	Matrix(params []Param) *Matrix
	// IsDirective reports whether the operation is a compiler directive
	// (e.g. a barrier) rather than an executable operation.
	IsDirective() bool

	isDescriptor()
}
