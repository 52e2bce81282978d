// internal/wire/codec.go
package wire

import (
	"fmt"

	"github.com/google/uuid"
)

// Envelope is the stable, kind-tagged serialized form of a Wire. It is the
// representation embedded in node snapshots and persisted by snapshot stores,
// so field names must stay stable across releases.
type Envelope struct {
	Type     string `json:"type"`
	Register string `json:"register,omitempty"`
	Index    int    `json:"index,omitempty"`
	ID       string `json:"id,omitempty"`
	Line     string `json:"line,omitempty"`
}

const (
	typeQubit   = "qubit"
	typeClbit   = "clbit"
	typeAncilla = "ancilla"
)

// Wrap converts a live wire into its portable envelope.
func Wrap(w Wire) Envelope {
	switch v := w.(type) {
	case Qubit:
		return Envelope{Type: typeQubit, Register: v.Register, Index: v.Index}
	case Clbit:
		return Envelope{Type: typeClbit, Register: v.Register, Index: v.Index}
	case Ancilla:
		return Envelope{Type: typeAncilla, ID: v.ID.String(), Line: v.Line.String()}
	default:
		// The Wire interface is sealed; this is unreachable.
		panic(fmt.Sprintf("wire: unknown wire type %T", w))
	}
}

// Unwrap reconstructs the live wire named by the envelope.
func (e Envelope) Unwrap() (Wire, error) {
	switch e.Type {
	case typeQubit:
		return Qubit{Register: e.Register, Index: e.Index}, nil
	case typeClbit:
		return Clbit{Register: e.Register, Index: e.Index}, nil
	case typeAncilla:
		id, err := uuid.Parse(e.ID)
		if err != nil {
			return nil, fmt.Errorf("wire: bad ancilla id %q: %w", e.ID, err)
		}
		line := Quantum
		if e.Line == Classical.String() {
			line = Classical
		}
		return Ancilla{ID: id, Line: line}, nil
	default:
		return nil, fmt.Errorf("wire: unknown envelope type %q", e.Type)
	}
}

// WrapAll converts a wire tuple, preserving order.
func WrapAll(ws []Wire) []Envelope {
	out := make([]Envelope, len(ws))
	for i, w := range ws {
		out[i] = Wrap(w)
	}
	return out
}

// UnwrapAll reconstructs a wire tuple, preserving order.
func UnwrapAll(es []Envelope) ([]Wire, error) {
	out := make([]Wire, len(es))
	for i, e := range es {
		w, err := e.Unwrap()
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}
