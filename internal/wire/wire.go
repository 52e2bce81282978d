// internal/wire/wire.go
package wire

import (
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
)

// Kind distinguishes quantum and classical wires.
type Kind int

const (
	// Quantum wires carry qubit state between operations.
	Quantum Kind = iota
	// Classical wires carry measurement outcomes and conditions.
	Classical
)

func (k Kind) String() string {
	switch k {
	case Quantum:
		return "quantum"
	case Classical:
		return "classical"
	default:
		return "unknown"
	}
}

// Wire is the opaque identity of a single data line in a circuit graph.
//
// The interface is sealed: the only implementations are Qubit, Clbit and
// Ancilla. Wires compare by identity, and Hash is consistent with Equal.
type Wire interface {
	// Kind reports whether this is a quantum or classical line.
	Kind() Kind
	// Equal reports whether other names the same line.
	Equal(other Wire) bool
	// Hash returns a 64-bit digest of the wire identity, consistent with Equal.
	Hash() uint64
	// String returns the canonical `name[index]` form.
	String() string

	isWire()
}

// Qubit identifies one quantum line: a named register position.
type Qubit struct {
	Register string
	Index    int
}

func (q Qubit) Kind() Kind { return Quantum }

func (q Qubit) Equal(other Wire) bool {
	o, ok := other.(Qubit)
	return ok && o == q
}

func (q Qubit) Hash() uint64 { return hashIdentity("q", q.Register, q.Index) }

func (q Qubit) String() string { return fmt.Sprintf("%s[%d]", q.Register, q.Index) }

func (q Qubit) isWire() {}

// Clbit identifies one classical line: a named register position.
type Clbit struct {
	Register string
	Index    int
}

func (c Clbit) Kind() Kind { return Classical }

func (c Clbit) Equal(other Wire) bool {
	o, ok := other.(Clbit)
	return ok && o == c
}

func (c Clbit) Hash() uint64 { return hashIdentity("c", c.Register, c.Index) }

func (c Clbit) String() string { return fmt.Sprintf("%s[%d]", c.Register, c.Index) }

func (c Clbit) isWire() {}

// Ancilla identifies a loose bit that belongs to no register. Each ancilla
// is minted with a fresh UUID, so two ancillas are equal only if one was
// copied from the other.
type Ancilla struct {
	ID   uuid.UUID
	Line Kind
}

// NewAncilla mints a loose wire of the given kind with a fresh identity.
func NewAncilla(kind Kind) Ancilla {
	return Ancilla{ID: uuid.New(), Line: kind}
}

func (a Ancilla) Kind() Kind { return a.Line }

func (a Ancilla) Equal(other Wire) bool {
	o, ok := other.(Ancilla)
	return ok && o == a
}

func (a Ancilla) Hash() uint64 { return hashIdentity("a", a.ID.String(), int(a.Line)) }

func (a Ancilla) String() string { return "ancilla[" + a.ID.String() + "]" }

func (a Ancilla) isWire() {}

// hashIdentity digests a (tag, name, index) identity triple with FNV-1a.
func hashIdentity(tag, name string, index int) uint64 {
	h := fnv.New64a()
	h.Write([]byte(tag))
	h.Write([]byte{0})
	h.Write([]byte(name))
	h.Write([]byte{0})
	var buf [8]byte
	v := uint64(int64(index))
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	h.Write(buf[:])
	return h.Sum64()
}
