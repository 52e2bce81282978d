// This file defines the HCL block structures a circuit file decodes into.
// They are parsing-level types only; Build translates them into the
// operation and circuitdag domain types.

package circuitfile

// hclCircuitFile is the top-level structure of a circuit file.
type hclCircuitFile struct {
	Circuits []*hclCircuit `hcl:"circuit,block"`
}

// hclCircuit is one named circuit block.
type hclCircuit struct {
	Name  string     `hcl:"name,label"`
	Qregs []*hclReg  `hcl:"qreg,block"`
	Cregs []*hclReg  `hcl:"creg,block"`
	Gates []*hclGate `hcl:"gate,block"`
}

// hclReg declares a register of the given size.
type hclReg struct {
	Name string `hcl:"name,label"`
	Size int    `hcl:"size"`
}

// hclGate is one gate application. On lists qubit references like
// "q[0]"; Into lists classical targets for measurements.
type hclGate struct {
	Name   string    `hcl:"name,label"`
	On     []string  `hcl:"on"`
	Into   []string  `hcl:"into,optional"`
	Params []float64 `hcl:"params,optional"`
	Label  string    `hcl:"label,optional"`
}
