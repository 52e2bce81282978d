// internal/dagnode/opnode_test.go
package dagnode

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/circuitgrid/internal/operation"
	"github.com/vk/circuitgrid/internal/wire"
)

func qubits(indices ...int) []wire.Wire {
	out := make([]wire.Wire, len(indices))
	for i, idx := range indices {
		out[i] = wire.Qubit{Register: "q", Index: idx}
	}
	return out
}

func clbits(indices ...int) []wire.Wire {
	out := make([]wire.Wire, len(indices))
	for i, idx := range indices {
		out[i] = wire.Clbit{Register: "c", Index: idx}
	}
	return out
}

// mustOpNode builds a detached standard-gate node for tests.
func mustOpNode(t *testing.T, id operation.GateID, qargs []wire.Wire, params ...operation.Param) *OpNode {
	t.Helper()
	n, err := NewOpNode(operation.NewStandard(id, params...), qargs, nil)
	require.NoError(t, err)
	return n
}

func TestNewOpNode(t *testing.T) {
	n, err := NewOpNode(operation.NewStandardGate(operation.GateH), qubits(0), nil)
	require.NoError(t, err)
	assert.False(t, n.Handle().Attached(), "constructed nodes are detached")
	assert.Equal(t, "h", n.Name())
	assert.Equal(t, KindOp, n.Kind())
	assert.NotNil(t, n.Cargs(), "omitted targets default to an empty tuple")
	assert.Empty(t, n.Cargs())

	_, err = NewOpNode("h", qubits(0), nil)
	require.ErrorIs(t, err, operation.ErrBadShape)
}

func TestOpNode_Equal(t *testing.T) {
	attach := func(n *OpNode, i int) *OpNode {
		require.NoError(t, n.Handle().SetIndex(i))
		return n
	}

	testCases := []struct {
		name     string
		a, b     Node
		expected bool
	}{
		{
			name:     "detached twins with tolerant angle drift",
			a:        mustOpNode(t, operation.GateRZ, qubits(0), operation.Float(0.5)),
			b:        mustOpNode(t, operation.GateRZ, qubits(0), operation.Float(0.5000000000001)),
			expected: true,
		},
		{
			name:     "angle drift beyond tolerance",
			a:        mustOpNode(t, operation.GateRZ, qubits(0), operation.Float(0.1)),
			b:        mustOpNode(t, operation.GateRZ, qubits(0), operation.Float(0.1001)),
			expected: false,
		},
		{
			name:     "same targets tolerant, different target tuple breaks equality",
			a:        mustOpNode(t, operation.GateRZ, qubits(0), operation.Float(0.5)),
			b:        mustOpNode(t, operation.GateRZ, qubits(1), operation.Float(0.5000000000001)),
			expected: false,
		},
		{
			name:     "detached never equals attached",
			a:        mustOpNode(t, operation.GateH, qubits(0)),
			b:        attach(mustOpNode(t, operation.GateH, qubits(0)), 0),
			expected: false,
		},
		{
			name:     "different indices",
			a:        attach(mustOpNode(t, operation.GateH, qubits(0)), 1),
			b:        attach(mustOpNode(t, operation.GateH, qubits(0)), 2),
			expected: false,
		},
		{
			name:     "same index same payload",
			a:        attach(mustOpNode(t, operation.GateCX, qubits(0, 1)), 4),
			b:        attach(mustOpNode(t, operation.GateCX, qubits(0, 1)), 4),
			expected: true,
		},
		{
			name:     "different gates",
			a:        mustOpNode(t, operation.GateX, qubits(0)),
			b:        mustOpNode(t, operation.GateY, qubits(0)),
			expected: false,
		},
		{
			name:     "op node never equals a boundary node",
			a:        mustOpNode(t, operation.GateH, qubits(0)),
			b:        NewInNode(wire.Qubit{Register: "q", Index: 0}),
			expected: false,
		},
		{
			name: "float param never equals expression param",
			a:    mustOpNode(t, operation.GateRZ, qubits(0), operation.Float(0.5)),
			b: mustOpNode(t, operation.GateRZ, qubits(0),
				operation.Expression(&operation.Expr{Symbol: "t", Scale: 1, Offset: 0.5})),
			expected: false,
		},
		{
			name: "matching expression params",
			a: mustOpNode(t, operation.GateRZ, qubits(0),
				operation.Expression(&operation.Expr{Symbol: "t", Scale: 1})),
			b: mustOpNode(t, operation.GateRZ, qubits(0),
				operation.Expression(&operation.Expr{Symbol: "t", Scale: 1})),
			expected: true,
		},
		{
			name: "non-standard descriptors skip the tolerant pass",
			a: func() Node {
				n, err := NewOpNode(&operation.Gate{
					GateName: "g", Qubits: 1, GateParam: []operation.Param{operation.Float(0.5)},
				}, qubits(0), nil)
				require.NoError(t, err)
				return n
			}(),
			b: func() Node {
				n, err := NewOpNode(&operation.Gate{
					GateName: "g", Qubits: 1, GateParam: []operation.Param{operation.Float(0.5000000000001)},
				}, qubits(0), nil)
				require.NoError(t, err)
				return n
			}(),
			// Generic descriptors compare exactly at the descriptor level,
			// so the drifted angle is unequal.
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.a.Equal(tc.b))
			assert.Equal(t, tc.expected, tc.b.Equal(tc.a), "Equal must be symmetric")
			assert.True(t, tc.a.Equal(tc.a), "Equal must be reflexive")
			if tc.expected {
				assert.Equal(t, tc.a.Hash(), tc.b.Hash(), "equal nodes must hash equal")
			}
		})
	}
}

func TestOpNode_MeasureWithClassicalTargets(t *testing.T) {
	a, err := NewOpNode(operation.NewMeasure(), qubits(0), clbits(0))
	require.NoError(t, err)
	b, err := NewOpNode(operation.NewMeasure(), qubits(0), clbits(0))
	require.NoError(t, err)
	c, err := NewOpNode(operation.NewMeasure(), qubits(0), clbits(1))
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c), "secondary target tuple participates in equality")
}

// TestOpNode_HashConsistency drives random index/name/parameter
// combinations through the equality rule and checks the hash contract:
// whenever two nodes compare equal their hashes agree.
func TestOpNode_HashConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	gates := []operation.GateID{operation.GateH, operation.GateX, operation.GateRZ, operation.GateRX}

	randomNode := func() *OpNode {
		id := gates[rng.Intn(len(gates))]
		var params []operation.Param
		if id == operation.GateRZ || id == operation.GateRX {
			// Small angle set so collisions actually happen.
			angles := []float64{0, 0.5, 0.5 + 1e-13, math.Pi}
			params = []operation.Param{operation.Float(angles[rng.Intn(len(angles))])}
		}
		n := mustOpNode(t, id, qubits(rng.Intn(2)), params...)
		if idx := rng.Intn(4) - 1; idx >= 0 {
			require.NoError(t, n.Handle().SetIndex(idx))
		}
		return n
	}

	equalSeen := 0
	for i := 0; i < 2000; i++ {
		a, b := randomNode(), randomNode()
		if a.Equal(b) {
			equalSeen++
			assert.Equal(t, a.Hash(), b.Hash(),
				"equal nodes must hash equal: %s vs %s", a, b)
		}
	}
	require.NotZero(t, equalSeen, "generator never produced equal pairs; test is vacuous")
}

func TestOpNode_DeepDuplicationIndependence(t *testing.T) {
	orig, err := NewOpNode(&operation.Gate{
		GateName:  "g",
		Qubits:    1,
		GateParam: []operation.Param{operation.Expression(operation.Symbolic("a"))},
	}, qubits(0), nil)
	require.NoError(t, err)

	dup := FromInstruction(orig.Instruction(false), true)
	dup.SetQargs(orig.Qargs())

	// Mutating the duplicate's descriptor must not affect the original.
	dup.Op().(*operation.Gate).GateName = "mutated"
	expr, ok := dup.Params()[0].Expr()
	require.True(t, ok)
	expr.Offset = 1

	assert.Equal(t, "g", orig.Name())
	origExpr, _ := orig.Params()[0].Expr()
	assert.Equal(t, 0.0, origExpr.Offset)

	// A shallow copy, by contrast, aliases the descriptor.
	shallow := FromInstruction(orig.Instruction(false), false)
	shallow.Op().(*operation.Gate).GateName = "aliased"
	assert.Equal(t, "aliased", orig.Name())
}

func TestOpNode_MatrixCache(t *testing.T) {
	n := mustOpNode(t, operation.GateX, qubits(0))

	m1 := n.Matrix()
	require.NotNil(t, m1)
	assert.Same(t, m1, n.Matrix(), "matrix is materialized once and cached")

	// Replacing the operation drops the cache.
	require.NoError(t, n.SetOp(operation.NewStandardGate(operation.GateZ)))
	m2 := n.Matrix()
	require.NotNil(t, m2)
	assert.NotSame(t, m1, m2)
	assert.Equal(t, complex128(-1), m2.At(1, 1))

	// A deep instruction copy resets the cache on the new node.
	dup := FromInstruction(n.Instruction(true), true)
	m3 := dup.Matrix()
	require.NotNil(t, m3)
	assert.NotSame(t, m2, m3)
}

func TestOpNode_SetOp_RefreshesDerivedState(t *testing.T) {
	n := mustOpNode(t, operation.GateRZ, qubits(0), operation.Float(0.5))

	replacement := operation.FromDescriptor(&operation.Gate{
		GateName:  "custom",
		Qubits:    1,
		GateParam: []operation.Param{operation.Float(1.5)},
		GateLabel: "fancy",
	})
	require.NoError(t, n.SetOp(replacement))

	assert.Equal(t, "custom", n.Name())
	assert.Equal(t, "fancy", n.Label())
	require.Len(t, n.Params(), 1)
	got, _ := n.Params()[0].Float()
	assert.Equal(t, 1.5, got)

	require.ErrorIs(t, n.SetOp(123), operation.ErrBadShape)
	// A failed replacement leaves the node untouched.
	assert.Equal(t, "custom", n.Name())
}

func TestOpNode_SetName_RoundTripsThroughDescriptor(t *testing.T) {
	n := mustOpNode(t, operation.GateH, qubits(0))
	require.True(t, n.IsStandardGate())

	n.SetName("h_prime")

	assert.Equal(t, "h_prime", n.Name())
	// The rename re-derived the descriptor; it is no longer the native
	// representation.
	assert.False(t, n.IsStandardGate())
	assert.Equal(t, 1, n.NumQubits())
}

func TestOpNode_Predicates(t *testing.T) {
	barrier, err := NewOpNode(operation.NewBarrier(2), qubits(0, 1), nil)
	require.NoError(t, err)
	assert.True(t, barrier.IsDirective())
	assert.Nil(t, barrier.Matrix())

	parameterized := mustOpNode(t, operation.GateRZ, qubits(0),
		operation.Expression(operation.Symbolic("theta")))
	assert.True(t, parameterized.IsParameterized())
	assert.Nil(t, parameterized.Matrix())

	bound := mustOpNode(t, operation.GateRZ, qubits(0), operation.Float(0.5))
	assert.False(t, bound.IsParameterized())
	assert.NotNil(t, bound.Matrix())
}

func TestOpNode_OpaqueParams(t *testing.T) {
	mk := func(v cty.Value) *OpNode {
		return mustOpNode(t, operation.GateRZ, qubits(0), operation.Value(v))
	}

	assert.True(t, mk(cty.StringVal("x")).Equal(mk(cty.StringVal("x"))))
	assert.False(t, mk(cty.StringVal("x")).Equal(mk(cty.StringVal("y"))))
}
