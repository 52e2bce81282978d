// internal/operation/standard.go
package operation

import (
	"math"
	"math/cmplx"
)

// GateID identifies a member of the native gate catalog.
type GateID int

const (
	GateH GateID = iota
	GateX
	GateY
	GateZ
	GateS
	GateSdg
	GateT
	GateTdg
	GateSX
	GateRX
	GateRY
	GateRZ
	GatePhase
	GateU
	GateCX
	GateCY
	GateCZ
	GateCH
	GateSwap
	GateCPhase
	GateCCX
	GateCSwap

	numStandardGates int = iota
)

// gateSpec is one catalog row: canonical name, wire arity, parameter count.
type gateSpec struct {
	name      string
	numQubits int
	numParams int
}

var gateSpecs = [numStandardGates]gateSpec{
	GateH:      {name: "h", numQubits: 1},
	GateX:      {name: "x", numQubits: 1},
	GateY:      {name: "y", numQubits: 1},
	GateZ:      {name: "z", numQubits: 1},
	GateS:      {name: "s", numQubits: 1},
	GateSdg:    {name: "sdg", numQubits: 1},
	GateT:      {name: "t", numQubits: 1},
	GateTdg:    {name: "tdg", numQubits: 1},
	GateSX:     {name: "sx", numQubits: 1},
	GateRX:     {name: "rx", numQubits: 1, numParams: 1},
	GateRY:     {name: "ry", numQubits: 1, numParams: 1},
	GateRZ:     {name: "rz", numQubits: 1, numParams: 1},
	GatePhase:  {name: "p", numQubits: 1, numParams: 1},
	GateU:      {name: "u", numQubits: 1, numParams: 3},
	GateCX:     {name: "cx", numQubits: 2},
	GateCY:     {name: "cy", numQubits: 2},
	GateCZ:     {name: "cz", numQubits: 2},
	GateCH:     {name: "ch", numQubits: 2},
	GateSwap:   {name: "swap", numQubits: 2},
	GateCPhase: {name: "cp", numQubits: 2, numParams: 1},
	GateCCX:    {name: "ccx", numQubits: 3},
	GateCSwap:  {name: "cswap", numQubits: 3},
}

var gateByName = func() map[string]GateID {
	m := make(map[string]GateID, numStandardGates)
	for id := GateID(0); int(id) < numStandardGates; id++ {
		m[gateSpecs[id].name] = id
	}
	return m
}()

// StandardGate is a native-catalog operation descriptor. It is a pure value:
// the gate identity is the whole state, and instruction parameters (rotation
// angles) travel on the Instruction, not here.
type StandardGate struct {
	id GateID
}

// NewStandardGate returns the catalog descriptor for id.
func NewStandardGate(id GateID) StandardGate {
	return StandardGate{id: id}
}

// StandardGateByName looks up a catalog member by its canonical name.
func StandardGateByName(name string) (StandardGate, bool) {
	id, ok := gateByName[name]
	return StandardGate{id: id}, ok
}

// ID returns the catalog identity.
func (g StandardGate) ID() GateID { return g.id }

func (g StandardGate) Name() string { return gateSpecs[g.id].name }

func (g StandardGate) Kind() DescKind { return KindStandardGate }

func (g StandardGate) NumQubits() int { return gateSpecs[g.id].numQubits }

func (g StandardGate) NumClbits() int { return 0 }

// NumParams is the catalog-defined parameter count for this gate.
func (g StandardGate) NumParams() int { return gateSpecs[g.id].numParams }

func (g StandardGate) Params() []Param { return nil }

func (g StandardGate) Label() string { return "" }

func (g StandardGate) Equal(other Descriptor) bool {
	o, ok := other.(StandardGate)
	return ok && o.id == g.id
}

// DeepCopy is the identity: a standard gate has no mutable state.
func (g StandardGate) DeepCopy() Descriptor { return g }

// Renamed re-derives the gate as a generic Gate of the same shape, since a
// catalog member cannot carry a foreign name.
func (g StandardGate) Renamed(name string) Descriptor {
	return &Gate{GateName: name, Qubits: g.NumQubits()}
}

func (g StandardGate) IsDirective() bool { return false }

func (g StandardGate) isDescriptor() {}

// Matrix synthesizes the gate's unitary for the given instruction
// parameters. It returns nil when a required parameter is symbolic or the
// parameter count does not match the catalog arity.
func (g StandardGate) Matrix(params []Param) *Matrix {
	angles, ok := floatAngles(params, g.NumParams())
	if !ok {
		return nil
	}
	switch g.id {
	case GateH:
		s := complex(1/math.Sqrt2, 0)
		return NewMatrix(2, []complex128{s, s, s, -s})
	case GateX:
		return NewMatrix(2, []complex128{0, 1, 1, 0})
	case GateY:
		return NewMatrix(2, []complex128{0, -1i, 1i, 0})
	case GateZ:
		return NewMatrix(2, []complex128{1, 0, 0, -1})
	case GateS:
		return NewMatrix(2, []complex128{1, 0, 0, 1i})
	case GateSdg:
		return NewMatrix(2, []complex128{1, 0, 0, -1i})
	case GateT:
		return NewMatrix(2, []complex128{1, 0, 0, cmplx.Exp(1i * math.Pi / 4)})
	case GateTdg:
		return NewMatrix(2, []complex128{1, 0, 0, cmplx.Exp(-1i * math.Pi / 4)})
	case GateSX:
		return NewMatrix(2, []complex128{
			0.5 + 0.5i, 0.5 - 0.5i,
			0.5 - 0.5i, 0.5 + 0.5i,
		})
	case GateRX:
		c := complex(math.Cos(angles[0]/2), 0)
		s := complex(0, -math.Sin(angles[0]/2))
		return NewMatrix(2, []complex128{c, s, s, c})
	case GateRY:
		c := complex(math.Cos(angles[0]/2), 0)
		s := complex(math.Sin(angles[0]/2), 0)
		return NewMatrix(2, []complex128{c, -s, s, c})
	case GateRZ:
		return NewMatrix(2, []complex128{
			cmplx.Exp(complex(0, -angles[0]/2)), 0,
			0, cmplx.Exp(complex(0, angles[0]/2)),
		})
	case GatePhase:
		return NewMatrix(2, []complex128{1, 0, 0, cmplx.Exp(complex(0, angles[0]))})
	case GateU:
		theta, phi, lam := angles[0], angles[1], angles[2]
		c := complex(math.Cos(theta/2), 0)
		s := complex(math.Sin(theta/2), 0)
		return NewMatrix(2, []complex128{
			c, -cmplx.Exp(complex(0, lam)) * s,
			cmplx.Exp(complex(0, phi)) * s, cmplx.Exp(complex(0, phi+lam)) * c,
		})
	case GateCX:
		return NewMatrix(4, []complex128{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 0, 1,
			0, 0, 1, 0,
		})
	case GateCZ:
		return NewMatrix(4, []complex128{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, -1,
		})
	case GateSwap:
		return NewMatrix(4, []complex128{
			1, 0, 0, 0,
			0, 0, 1, 0,
			0, 1, 0, 0,
			0, 0, 0, 1,
		})
	default:
		// Remaining multi-qubit members have no built-in synthesis.
		return nil
	}
}

// floatAngles extracts exactly want bound float parameters, or reports that
// synthesis is not possible.
func floatAngles(params []Param, want int) ([]float64, bool) {
	if len(params) != want {
		return nil, false
	}
	out := make([]float64, want)
	for i, p := range params {
		v, ok := p.Float()
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
