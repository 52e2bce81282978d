// internal/operation/codec.go
package operation

import (
	"encoding/json"
	"fmt"

	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// ParamEnvelope is the stable serialized form of a Param. Opaque cty values
// are carried as cty's JSON encoding with their implied type.
type ParamEnvelope struct {
	Type   string          `json:"type"`
	Float  float64         `json:"float,omitempty"`
	Symbol string          `json:"symbol,omitempty"`
	Scale  float64         `json:"scale,omitempty"`
	Offset float64         `json:"offset,omitempty"`
	Value  json.RawMessage `json:"value,omitempty"`
}

// WrapParam converts a live parameter into its portable envelope.
func WrapParam(p Param) (ParamEnvelope, error) {
	switch p.Kind() {
	case ParamFloat:
		v, _ := p.Float()
		return ParamEnvelope{Type: "float", Float: v}, nil
	case ParamExpr:
		e, _ := p.Expr()
		return ParamEnvelope{Type: "expr", Symbol: e.Symbol, Scale: e.Scale, Offset: e.Offset}, nil
	case ParamValue:
		v, _ := p.Value()
		raw, err := ctyjson.Marshal(v, v.Type())
		if err != nil {
			return ParamEnvelope{}, fmt.Errorf("operation: encode opaque param: %w", err)
		}
		return ParamEnvelope{Type: "value", Value: raw}, nil
	default:
		return ParamEnvelope{}, fmt.Errorf("operation: unknown param kind %d", int(p.Kind()))
	}
}

// UnwrapParam reconstructs the live parameter named by the envelope.
func (e ParamEnvelope) UnwrapParam() (Param, error) {
	switch e.Type {
	case "float":
		return Float(e.Float), nil
	case "expr":
		return Expression(&Expr{Symbol: e.Symbol, Scale: e.Scale, Offset: e.Offset}), nil
	case "value":
		ty, err := ctyjson.ImpliedType(e.Value)
		if err != nil {
			return Param{}, fmt.Errorf("operation: decode opaque param type: %w", err)
		}
		v, err := ctyjson.Unmarshal(e.Value, ty)
		if err != nil {
			return Param{}, fmt.Errorf("operation: decode opaque param: %w", err)
		}
		return Value(v), nil
	default:
		return Param{}, fmt.Errorf("operation: unknown param envelope type %q", e.Type)
	}
}

// matrixEnvelope flattens a complex matrix into (re, im) pairs.
type matrixEnvelope struct {
	Dim  int          `json:"dim"`
	Data [][2]float64 `json:"data"`
}

func wrapMatrix(m *Matrix) *matrixEnvelope {
	if m == nil {
		return nil
	}
	data := make([][2]float64, len(m.Data))
	for i, c := range m.Data {
		data[i] = [2]float64{real(c), imag(c)}
	}
	return &matrixEnvelope{Dim: m.Dim, Data: data}
}

func (e *matrixEnvelope) unwrap() *Matrix {
	if e == nil {
		return nil
	}
	data := make([]complex128, len(e.Data))
	for i, p := range e.Data {
		data[i] = complex(p[0], p[1])
	}
	return NewMatrix(e.Dim, data)
}

// DescEnvelope is the stable serialized form of a Descriptor. Field names
// must stay stable: snapshot stores persist this layout.
type DescEnvelope struct {
	Kind      string          `json:"kind"`
	Name      string          `json:"name,omitempty"`
	Qubits    int             `json:"qubits,omitempty"`
	Clbits    int             `json:"clbits,omitempty"`
	Params    []ParamEnvelope `json:"params,omitempty"`
	Label     string          `json:"label,omitempty"`
	Directive bool            `json:"directive,omitempty"`
	Matrix    *matrixEnvelope `json:"matrix,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// WrapDescriptor converts a live descriptor into its portable envelope.
func WrapDescriptor(d Descriptor) (DescEnvelope, error) {
	switch v := d.(type) {
	case StandardGate:
		return DescEnvelope{Kind: v.Kind().String(), Name: v.Name()}, nil
	case *Gate:
		params, err := wrapParams(v.GateParam)
		if err != nil {
			return DescEnvelope{}, err
		}
		return DescEnvelope{
			Kind: v.Kind().String(), Name: v.GateName, Qubits: v.Qubits,
			Params: params, Label: v.GateLabel,
		}, nil
	case *Instr:
		params, err := wrapParams(v.InstrParam)
		if err != nil {
			return DescEnvelope{}, err
		}
		return DescEnvelope{
			Kind: v.Kind().String(), Name: v.InstrName, Qubits: v.Qubits,
			Clbits: v.Clbits, Params: params, Label: v.InstrLabel,
			Directive: v.Directive,
		}, nil
	case *Unitary:
		return DescEnvelope{
			Kind: v.Kind().String(), Matrix: wrapMatrix(v.Mat), Label: v.UniLabel,
		}, nil
	case *Opaque:
		raw, err := ctyjson.Marshal(v.Payload, v.Payload.Type())
		if err != nil {
			return DescEnvelope{}, fmt.Errorf("operation: encode opaque payload: %w", err)
		}
		return DescEnvelope{
			Kind: v.Kind().String(), Name: v.OpName, Qubits: v.Qubits,
			Clbits: v.Clbits, Label: v.OpaqueLabel, Payload: raw,
		}, nil
	default:
		return DescEnvelope{}, fmt.Errorf("operation: unknown descriptor type %T", d)
	}
}

// UnwrapDescriptor reconstructs the live descriptor named by the envelope.
func (e DescEnvelope) UnwrapDescriptor() (Descriptor, error) {
	switch e.Kind {
	case KindStandardGate.String():
		g, ok := StandardGateByName(e.Name)
		if !ok {
			return nil, fmt.Errorf("operation: unknown standard gate %q", e.Name)
		}
		return g, nil
	case KindGate.String():
		params, err := unwrapParams(e.Params)
		if err != nil {
			return nil, err
		}
		return &Gate{GateName: e.Name, Qubits: e.Qubits, GateParam: params, GateLabel: e.Label}, nil
	case KindInstruction.String():
		params, err := unwrapParams(e.Params)
		if err != nil {
			return nil, err
		}
		return &Instr{
			InstrName: e.Name, Qubits: e.Qubits, Clbits: e.Clbits,
			InstrParam: params, InstrLabel: e.Label, Directive: e.Directive,
		}, nil
	case KindUnitary.String():
		u := NewUnitary(e.Matrix.unwrap())
		if u == nil {
			return nil, fmt.Errorf("operation: malformed unitary envelope")
		}
		u.UniLabel = e.Label
		return u, nil
	case KindOpaque.String():
		ty, err := ctyjson.ImpliedType(e.Payload)
		if err != nil {
			return nil, fmt.Errorf("operation: decode opaque payload type: %w", err)
		}
		payload, err := ctyjson.Unmarshal(e.Payload, ty)
		if err != nil {
			return nil, fmt.Errorf("operation: decode opaque payload: %w", err)
		}
		return &Opaque{
			OpName: e.Name, Qubits: e.Qubits, Clbits: e.Clbits,
			Payload: payload, OpaqueLabel: e.Label,
		}, nil
	default:
		return nil, fmt.Errorf("operation: unknown descriptor kind %q", e.Kind)
	}
}

// InstrEnvelope is the stable serialized form of an Instruction.
type InstrEnvelope struct {
	Op     DescEnvelope    `json:"op"`
	Params []ParamEnvelope `json:"params,omitempty"`
	Label  string          `json:"label,omitempty"`
}

// WrapInstruction converts a live instruction into its portable envelope.
func WrapInstruction(in Instruction) (InstrEnvelope, error) {
	op, err := WrapDescriptor(in.Desc)
	if err != nil {
		return InstrEnvelope{}, err
	}
	params, err := wrapParams(in.Params)
	if err != nil {
		return InstrEnvelope{}, err
	}
	return InstrEnvelope{Op: op, Params: params, Label: in.Label}, nil
}

// UnwrapInstruction reconstructs the live instruction named by the envelope.
func (e InstrEnvelope) UnwrapInstruction() (Instruction, error) {
	desc, err := e.Op.UnwrapDescriptor()
	if err != nil {
		return Instruction{}, err
	}
	params, err := unwrapParams(e.Params)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{Desc: desc, Params: params, Label: e.Label}, nil
}

func wrapParams(ps []Param) ([]ParamEnvelope, error) {
	if ps == nil {
		return nil, nil
	}
	out := make([]ParamEnvelope, len(ps))
	for i, p := range ps {
		e, err := WrapParam(p)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func unwrapParams(es []ParamEnvelope) ([]Param, error) {
	if es == nil {
		return nil, nil
	}
	out := make([]Param, len(es))
	for i, e := range es {
		p, err := e.UnwrapParam()
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
