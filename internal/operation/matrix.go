// internal/operation/matrix.go
package operation

import "math/cmplx"

// Matrix is a dense square complex matrix in row-major order, used for the
// unitary materialization pass-through. Dim is the side length (2^n for an
// n-qubit operation).
type Matrix struct {
	Dim  int
	Data []complex128
}

// NewMatrix wraps row-major data of the given dimension. It returns nil if
// the data length does not match Dim*Dim.
func NewMatrix(dim int, data []complex128) *Matrix {
	if dim <= 0 || len(data) != dim*dim {
		return nil
	}
	return &Matrix{Dim: dim, Data: data}
}

// At returns the element at row r, column c.
func (m *Matrix) At(r, c int) complex128 {
	return m.Data[r*m.Dim+c]
}

// Clone returns an independent copy of the matrix.
func (m *Matrix) Clone() *Matrix {
	if m == nil {
		return nil
	}
	data := make([]complex128, len(m.Data))
	copy(data, m.Data)
	return &Matrix{Dim: m.Dim, Data: data}
}

// Equal compares two matrices element-wise within the given absolute
// tolerance. A nil matrix equals only another nil matrix.
func (m *Matrix) Equal(other *Matrix, tol float64) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.Dim != other.Dim {
		return false
	}
	for i := range m.Data {
		if cmplx.Abs(m.Data[i]-other.Data[i]) > tol {
			return false
		}
	}
	return true
}
