// internal/operation/instruction.go
package operation

import (
	"errors"
	"fmt"
)

// ErrBadShape reports that a value handed across the conversion boundary is
// not a recognized operation shape. It is the TypeError class of this
// package: surfaced immediately at construction, never recovered internally.
var ErrBadShape = errors.New("operation: value is not a recognized operation shape")

// Instruction is one concrete application of an operation: the descriptor
// plus the instruction-level parameter tuple and display label.
//
// For standard gates the descriptor is parameter-free and the angles live
// here; for every other kind Params mirrors the descriptor's own parameters
// and is refreshed whenever the descriptor is replaced.
type Instruction struct {
	Desc   Descriptor
	Params []Param
	Label  string
}

// NewStandard builds an instruction over a native-catalog gate.
func NewStandard(id GateID, params ...Param) Instruction {
	return Instruction{Desc: NewStandardGate(id), Params: params}
}

// FromDescriptor derives an instruction from a descriptor, pulling the
// parameter tuple and label down from the descriptor itself.
func FromDescriptor(d Descriptor) Instruction {
	return Instruction{Desc: d, Params: d.Params(), Label: d.Label()}
}

// FromAny is the conversion boundary for operation values arriving from
// callers. It accepts a Descriptor or an Instruction (by value or pointer)
// and rejects everything else with ErrBadShape.
func FromAny(v any) (Instruction, error) {
	switch op := v.(type) {
	case Descriptor:
		return FromDescriptor(op), nil
	case Instruction:
		return op, nil
	case *Instruction:
		if op == nil {
			return Instruction{}, fmt.Errorf("%w: nil instruction", ErrBadShape)
		}
		return *op, nil
	default:
		return Instruction{}, fmt.Errorf("%w: %T", ErrBadShape, v)
	}
}

// Name returns the operation name from the descriptor.
func (in Instruction) Name() string { return in.Desc.Name() }

// NumQubits returns the quantum arity from the descriptor.
func (in Instruction) NumQubits() int { return in.Desc.NumQubits() }

// NumClbits returns the classical arity from the descriptor.
func (in Instruction) NumClbits() int { return in.Desc.NumClbits() }

// IsStandardGate reports whether the descriptor is a native-catalog member.
func (in Instruction) IsStandardGate() bool {
	return in.Desc.Kind() == KindStandardGate
}

// IsDirective reports whether the instruction is a compiler directive.
func (in Instruction) IsDirective() bool { return in.Desc.IsDirective() }

// IsParameterized reports whether any parameter is still symbolic.
func (in Instruction) IsParameterized() bool {
	for _, p := range in.Params {
		if p.Kind() == ParamExpr {
			return true
		}
	}
	return false
}

// Matrix materializes the instruction's unitary, or nil when undefined.
func (in Instruction) Matrix() *Matrix {
	return in.Desc.Matrix(in.Params)
}

// DeepCopy returns an instruction sharing no mutable state with the
// receiver: the descriptor is rebuilt per its kind-specific rule and the
// parameter tuple is cloned.
func (in Instruction) DeepCopy() Instruction {
	return Instruction{
		Desc:   in.Desc.DeepCopy(),
		Params: CopyParams(in.Params),
		Label:  in.Label,
	}
}

// Renamed applies a new name through the descriptor mutation interface and
// re-derives the descriptor, which may change its representation (a renamed
// standard gate becomes a generic gate).
func (in Instruction) Renamed(name string) Instruction {
	return Instruction{
		Desc:   in.Desc.Renamed(name),
		Params: in.Params,
		Label:  in.Label,
	}
}

func (in Instruction) String() string {
	return fmt.Sprintf("%s(%d params)", in.Name(), len(in.Params))
}
