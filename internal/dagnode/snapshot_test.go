// internal/dagnode/snapshot_test.go
package dagnode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/circuitgrid/internal/operation"
	"github.com/vk/circuitgrid/internal/wire"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	q0 := wire.Qubit{Register: "q", Index: 0}

	attachedOp := mustOpNode(t, operation.GateRZ, qubits(0), operation.Float(0.5))
	require.NoError(t, attachedOp.Handle().SetIndex(7))

	opaqueOp, err := NewOpNode(&operation.Opaque{
		OpName: "ext", Qubits: 1, Payload: cty.StringVal("pulse"),
	}, qubits(1), nil)
	require.NoError(t, err)

	measure, err := NewOpNode(operation.NewMeasure(), qubits(0), clbits(0))
	require.NoError(t, err)

	attachedIn, err := NewInNodeAt(0, q0)
	require.NoError(t, err)

	testCases := []struct {
		name string
		node Node
	}{
		{name: "attached op node", node: attachedOp},
		{name: "detached op node with opaque descriptor", node: opaqueOp},
		{name: "measure with classical targets", node: measure},
		{name: "attached input boundary", node: attachedIn},
		{name: "detached output boundary", node: NewOutNode(q0)},
		{name: "ancilla boundary", node: NewInNode(wire.NewAncilla(wire.Quantum))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			snap, err := tc.node.Snapshot()
			require.NoError(t, err)

			// Through the JSON layer, as a store would persist it.
			data, err := snap.Marshal()
			require.NoError(t, err)
			decoded, err := UnmarshalSnapshot(data)
			require.NoError(t, err)

			restored, err := Restore(decoded)
			require.NoError(t, err)

			assert.True(t, tc.node.Equal(restored), "restore must reproduce an equal node")
			assert.Equal(t, tc.node.Kind(), restored.Kind())
			assert.Equal(t, tc.node.Handle().Index(), restored.Handle().Index(),
				"the raw index is data and must survive, sentinel included")
		})
	}
}

func TestSnapshot_RestoredNodeIsNotGraphBound(t *testing.T) {
	n := mustOpNode(t, operation.GateH, qubits(0))
	require.NoError(t, n.Handle().SetIndex(12))

	snap, err := n.Snapshot()
	require.NoError(t, err)
	restored, err := Restore(snap)
	require.NoError(t, err)

	// Attached-by-index, but free to be re-pointed: no graph owns it.
	assert.True(t, restored.Handle().Attached())
	require.NoError(t, restored.Handle().SetIndex(99))
	assert.Equal(t, 99, restored.Handle().Index())
	assert.Equal(t, 12, n.Handle().Index(), "the source node is untouched")
}

func TestRestore_Errors(t *testing.T) {
	testCases := []struct {
		name string
		snap Snapshot
	}{
		{name: "unknown kind", snap: Snapshot{Kind: "loop", Index: Detached}},
		{name: "op without payload", snap: Snapshot{Kind: KindOp.String(), Index: Detached}},
		{name: "boundary without wire", snap: Snapshot{Kind: KindIn.String(), Index: Detached}},
		{
			name: "negative non-sentinel index",
			snap: func() Snapshot {
				s, err := NewInNode(wire.Qubit{Register: "q", Index: 0}).Snapshot()
				require.NoError(t, err)
				s.Index = -4
				return s
			}(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Restore(tc.snap)
			require.Error(t, err)
		})
	}
}
