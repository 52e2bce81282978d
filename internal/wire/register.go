// internal/wire/register.go
package wire

import "fmt"

// Register is a named, fixed-size block of wires of one kind. It exists to
// mint bits; the register itself is never referenced by graph nodes.
type Register struct {
	Name string
	Size int
	Kind Kind
}

// NewQuantumRegister returns a quantum register with the given name and size.
func NewQuantumRegister(name string, size int) Register {
	return Register{Name: name, Size: size, Kind: Quantum}
}

// NewClassicalRegister returns a classical register with the given name and size.
func NewClassicalRegister(name string, size int) Register {
	return Register{Name: name, Size: size, Kind: Classical}
}

// Bit returns the wire at position i, or an error if i is out of range.
func (r Register) Bit(i int) (Wire, error) {
	if i < 0 || i >= r.Size {
		return nil, fmt.Errorf("wire: index %d out of range for register %s of size %d", i, r.Name, r.Size)
	}
	if r.Kind == Classical {
		return Clbit{Register: r.Name, Index: i}, nil
	}
	return Qubit{Register: r.Name, Index: i}, nil
}

// Bits returns all wires of the register in position order.
func (r Register) Bits() []Wire {
	out := make([]Wire, r.Size)
	for i := range out {
		out[i], _ = r.Bit(i)
	}
	return out
}
