// internal/operation/unitary.go
package operation

import "math/bits"

// unitaryEqTol is the absolute element-wise tolerance for comparing raw
// unitary payloads.
const unitaryEqTol = 1e-12

// Unitary is a raw unitary matrix with no higher-level name. The wrapped
// matrix is treated as immutable; DeepCopy still clones it so a duplicated
// node cannot alias the original's backing array.
type Unitary struct {
	Mat      *Matrix
	UniLabel string
}

// NewUnitary wraps a matrix descriptor. The matrix dimension must be a
// power of two; callers get nil otherwise.
func NewUnitary(mat *Matrix) *Unitary {
	if mat == nil || mat.Dim == 0 || mat.Dim&(mat.Dim-1) != 0 {
		return nil
	}
	return &Unitary{Mat: mat}
}

func (u *Unitary) Name() string { return "unitary" }

func (u *Unitary) Kind() DescKind { return KindUnitary }

func (u *Unitary) NumQubits() int { return bits.TrailingZeros(uint(u.Mat.Dim)) }

func (u *Unitary) NumClbits() int { return 0 }

func (u *Unitary) Params() []Param { return nil }

func (u *Unitary) Label() string { return u.UniLabel }

func (u *Unitary) Equal(other Descriptor) bool {
	o, ok := other.(*Unitary)
	if !ok {
		return false
	}
	return u.Mat.Equal(o.Mat, unitaryEqTol)
}

func (u *Unitary) DeepCopy() Descriptor {
	return &Unitary{Mat: u.Mat.Clone(), UniLabel: u.UniLabel}
}

// Renamed re-derives as a generic gate: a raw matrix cannot carry a name.
func (u *Unitary) Renamed(name string) Descriptor {
	return &Gate{GateName: name, Qubits: u.NumQubits()}
}

func (u *Unitary) Matrix(params []Param) *Matrix { return u.Mat.Clone() }

func (u *Unitary) IsDirective() bool { return false }

func (u *Unitary) isDescriptor() {}
