// internal/circuitfile/load.go
package circuitfile

import (
	"context"
	"fmt"
	"math"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/circuitgrid/internal/circuitdag"
	"github.com/vk/circuitgrid/internal/ctxlog"
	"github.com/vk/circuitgrid/internal/dagnode"
	"github.com/vk/circuitgrid/internal/operation"
	"github.com/vk/circuitgrid/internal/wire"
)

// Circuit is a fully built circuit: its registers and the live DAG.
type Circuit struct {
	Name      string
	Registers []wire.Register
	DAG       *circuitdag.DAG
}

// evalContext returns the expression scope available to circuit files.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"pi":  cty.NumberFloatVal(math.Pi),
			"tau": cty.NumberFloatVal(2 * math.Pi),
		},
	}
}

// Load parses an HCL circuit file and builds every circuit it declares.
func Load(ctx context.Context, filePath string) ([]*Circuit, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading circuit file", "path", filePath)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse circuit file %s: %w", filePath, diags)
	}
	return buildFile(ctx, hclFile.Body)
}

// LoadBytes parses circuit source held in memory. The name is used only
// in diagnostics.
func LoadBytes(ctx context.Context, name string, src []byte) ([]*Circuit, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, name)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse circuit source %s: %w", name, diags)
	}
	return buildFile(ctx, hclFile.Body)
}

func buildFile(ctx context.Context, body hcl.Body) ([]*Circuit, error) {
	var parsed hclCircuitFile
	diags := gohcl.DecodeBody(body, evalContext(), &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode circuit file: %w", diags)
	}

	circuits := make([]*Circuit, 0, len(parsed.Circuits))
	for _, c := range parsed.Circuits {
		built, err := build(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("circuit %q: %w", c.Name, err)
		}
		circuits = append(circuits, built)
	}
	return circuits, nil
}

// build translates one parsed circuit block into a live DAG.
func build(ctx context.Context, c *hclCircuit) (*Circuit, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building circuit", "name", c.Name,
		"qregs", len(c.Qregs), "cregs", len(c.Cregs), "gates", len(c.Gates))

	var registers []wire.Register
	seen := make(map[string]bool)
	for _, r := range c.Qregs {
		if seen[r.Name] {
			return nil, fmt.Errorf("duplicate register %q", r.Name)
		}
		seen[r.Name] = true
		registers = append(registers, wire.NewQuantumRegister(r.Name, r.Size))
	}
	for _, r := range c.Cregs {
		if seen[r.Name] {
			return nil, fmt.Errorf("duplicate register %q", r.Name)
		}
		seen[r.Name] = true
		registers = append(registers, wire.NewClassicalRegister(r.Name, r.Size))
	}

	d := circuitdag.New()
	for _, r := range registers {
		for _, w := range r.Bits() {
			if _, _, err := d.AddWire(w); err != nil {
				return nil, fmt.Errorf("register %q: %w", r.Name, err)
			}
		}
	}

	for i, g := range c.Gates {
		node, err := buildGate(g, registers)
		if err != nil {
			return nil, fmt.Errorf("gate %d (%s): %w", i, g.Name, err)
		}
		if _, err := d.Apply(ctx, node); err != nil {
			return nil, fmt.Errorf("gate %d (%s): %w", i, g.Name, err)
		}
	}

	logger.Debug("Circuit built", "name", c.Name, "nodes", d.Size())
	return &Circuit{Name: c.Name, Registers: registers, DAG: d}, nil
}

// buildGate resolves one gate block into a detached op node.
func buildGate(g *hclGate, registers []wire.Register) (*dagnode.OpNode, error) {
	qargs, err := resolveRefs(g.On, registers)
	if err != nil {
		return nil, err
	}
	cargs, err := resolveRefs(g.Into, registers)
	if err != nil {
		return nil, err
	}

	inst, err := resolveOperation(g, len(qargs))
	if err != nil {
		return nil, err
	}
	// Whether a gate takes classical targets is the resolved descriptor's
	// call, not a property of its name.
	if len(cargs) > 0 && inst.NumClbits() == 0 {
		return nil, fmt.Errorf("%q does not take classical targets", g.Name)
	}
	return dagnode.NewOpNode(inst, qargs, cargs)
}

func resolveRefs(refs []string, registers []wire.Register) ([]wire.Wire, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	out := make([]wire.Wire, 0, len(refs))
	for _, ref := range refs {
		w, err := wire.Parse(ref, registers)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// resolveOperation maps a gate block to an operation. Catalog names win;
// measure, reset and barrier map to their instruction forms; anything
// else becomes a generic gate with the declared shape.
func resolveOperation(g *hclGate, numQubits int) (operation.Instruction, error) {
	params := make([]operation.Param, len(g.Params))
	for i, v := range g.Params {
		params[i] = operation.Float(v)
	}

	switch g.Name {
	case "measure":
		if numQubits != 1 || len(g.Into) != 1 {
			return operation.Instruction{}, fmt.Errorf("measure takes one qubit and one classical target")
		}
		inst := operation.FromDescriptor(operation.NewMeasure())
		inst.Label = g.Label
		return inst, nil
	case "reset":
		if numQubits != 1 {
			return operation.Instruction{}, fmt.Errorf("reset takes one qubit")
		}
		inst := operation.FromDescriptor(operation.NewReset())
		inst.Label = g.Label
		return inst, nil
	case "barrier":
		inst := operation.FromDescriptor(operation.NewBarrier(numQubits))
		inst.Label = g.Label
		return inst, nil
	}

	if sg, ok := operation.StandardGateByName(g.Name); ok {
		if numQubits != sg.NumQubits() {
			return operation.Instruction{}, fmt.Errorf("%q takes %d qubits, got %d",
				g.Name, sg.NumQubits(), numQubits)
		}
		if len(params) != sg.NumParams() {
			return operation.Instruction{}, fmt.Errorf("%q takes %d params, got %d",
				g.Name, sg.NumParams(), len(params))
		}
		inst := operation.NewStandard(sg.ID(), params...)
		inst.Label = g.Label
		return inst, nil
	}

	// Unknown names become generic gates; downstream tooling decides
	// whether it can do anything with them.
	return operation.FromDescriptor(&operation.Gate{
		GateName:  g.Name,
		Qubits:    numQubits,
		GateParam: params,
		GateLabel: g.Label,
	}), nil
}
