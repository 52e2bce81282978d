// internal/operation/generic.go
package operation

// Gate is a generic named unitary gate defined outside the native catalog.
// Unlike a StandardGate it owns its parameters: descriptor equality covers
// them, so node equality never re-examines them.
type Gate struct {
	GateName  string
	Qubits    int
	GateParam []Param
	GateLabel string
}

func (g *Gate) Name() string { return g.GateName }

func (g *Gate) Kind() DescKind { return KindGate }

func (g *Gate) NumQubits() int { return g.Qubits }

func (g *Gate) NumClbits() int { return 0 }

func (g *Gate) Params() []Param { return g.GateParam }

func (g *Gate) Label() string { return g.GateLabel }

func (g *Gate) Equal(other Descriptor) bool {
	o, ok := other.(*Gate)
	if !ok {
		return false
	}
	return g.GateName == o.GateName &&
		g.Qubits == o.Qubits &&
		ParamsEqual(g.GateParam, o.GateParam)
}

func (g *Gate) DeepCopy() Descriptor {
	return &Gate{
		GateName:  g.GateName,
		Qubits:    g.Qubits,
		GateParam: CopyParams(g.GateParam),
		GateLabel: g.GateLabel,
	}
}

func (g *Gate) Renamed(name string) Descriptor {
	c := g.DeepCopy().(*Gate)
	c.GateName = name
	return c
}

func (g *Gate) Matrix(params []Param) *Matrix { return nil }

func (g *Gate) IsDirective() bool { return false }

func (g *Gate) isDescriptor() {}

// Instr is a generic, possibly non-unitary instruction. Measures, resets and
// directives such as barriers are Instrs.
type Instr struct {
	InstrName  string
	Qubits     int
	Clbits     int
	InstrParam []Param
	InstrLabel string
	Directive  bool
}

// NewMeasure returns a single-qubit measurement instruction.
func NewMeasure() *Instr {
	return &Instr{InstrName: "measure", Qubits: 1, Clbits: 1}
}

// NewReset returns a single-qubit reset instruction.
func NewReset() *Instr {
	return &Instr{InstrName: "reset", Qubits: 1}
}

// NewBarrier returns a directive spanning n qubits.
func NewBarrier(n int) *Instr {
	return &Instr{InstrName: "barrier", Qubits: n, Directive: true}
}

func (in *Instr) Name() string { return in.InstrName }

func (in *Instr) Kind() DescKind { return KindInstruction }

func (in *Instr) NumQubits() int { return in.Qubits }

func (in *Instr) NumClbits() int { return in.Clbits }

func (in *Instr) Params() []Param { return in.InstrParam }

func (in *Instr) Label() string { return in.InstrLabel }

func (in *Instr) Equal(other Descriptor) bool {
	o, ok := other.(*Instr)
	if !ok {
		return false
	}
	return in.InstrName == o.InstrName &&
		in.Qubits == o.Qubits &&
		in.Clbits == o.Clbits &&
		in.Directive == o.Directive &&
		ParamsEqual(in.InstrParam, o.InstrParam)
}

func (in *Instr) DeepCopy() Descriptor {
	return &Instr{
		InstrName:  in.InstrName,
		Qubits:     in.Qubits,
		Clbits:     in.Clbits,
		InstrParam: CopyParams(in.InstrParam),
		InstrLabel: in.InstrLabel,
		Directive:  in.Directive,
	}
}

func (in *Instr) Renamed(name string) Descriptor {
	c := in.DeepCopy().(*Instr)
	c.InstrName = name
	return c
}

func (in *Instr) Matrix(params []Param) *Matrix { return nil }

func (in *Instr) IsDirective() bool { return in.Directive }

func (in *Instr) isDescriptor() {}
