package circuitfile

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bellSource = `
circuit "bell" {
  qreg "q" { size = 2 }
  creg "c" { size = 2 }

  gate "h"  { on = ["q[0]"] }
  gate "cx" { on = ["q[0]", "q[1]"] }
  gate "measure" {
    on   = ["q[0]"]
    into = ["c[0]"]
  }
  gate "measure" {
    on   = ["q[1]"]
    into = ["c[1]"]
  }
}
`

func TestLoadBytes_Bell(t *testing.T) {
	circuits, err := LoadBytes(context.Background(), "bell.hcl", []byte(bellSource))
	require.NoError(t, err)
	require.Len(t, circuits, 1)

	c := circuits[0]
	assert.Equal(t, "bell", c.Name)
	require.Len(t, c.Registers, 2)

	// 2 qubits + 2 clbits give 8 boundary nodes, plus 4 ops.
	assert.Equal(t, 12, c.DAG.Size())
	require.NoError(t, c.DAG.Validate(context.Background()))

	ops, err := c.DAG.TopologicalOpOrder()
	require.NoError(t, err)
	require.Len(t, ops, 4)
	assert.Equal(t, "h", ops[0].Name())
	assert.Equal(t, "cx", ops[1].Name())
}

func TestLoadBytes_ParamExpressions(t *testing.T) {
	src := `
circuit "rot" {
  qreg "q" { size = 1 }
  gate "rz" {
    on     = ["q[0]"]
    params = [pi / 2]
  }
  gate "u" {
    on     = ["q[0]"]
    params = [pi, 0, tau / 4]
  }
}
`
	circuits, err := LoadBytes(context.Background(), "rot.hcl", []byte(src))
	require.NoError(t, err)
	require.Len(t, circuits, 1)

	ops, err := circuits[0].DAG.TopologicalOpOrder()
	require.NoError(t, err)
	require.Len(t, ops, 2)

	rz := ops[0]
	require.Len(t, rz.Params(), 1)
	angle, ok := rz.Params()[0].Float()
	require.True(t, ok)
	assert.InDelta(t, math.Pi/2, angle, 1e-15)
}

func TestLoadBytes_UnknownGateBecomesGeneric(t *testing.T) {
	src := `
circuit "custom" {
  qreg "q" { size = 2 }
  gate "my_fusion" {
    on     = ["q[0]", "q[1]"]
    params = [0.25]
    label  = "fused"
  }
}
`
	circuits, err := LoadBytes(context.Background(), "custom.hcl", []byte(src))
	require.NoError(t, err)

	ops, err := circuits[0].DAG.TopologicalOpOrder()
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "my_fusion", ops[0].Name())
	assert.False(t, ops[0].IsStandardGate())
	assert.Equal(t, "fused", ops[0].Label())
}

func TestLoadBytes_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name: "arity mismatch",
			src: `
circuit "bad" {
  qreg "q" { size = 2 }
  gate "cx" { on = ["q[0]"] }
}`,
			wantErr: "takes 2 qubits",
		},
		{
			name: "param count mismatch",
			src: `
circuit "bad" {
  qreg "q" { size = 1 }
  gate "rz" { on = ["q[0]"] }
}`,
			wantErr: "takes 1 params",
		},
		{
			name: "unknown wire",
			src: `
circuit "bad" {
  qreg "q" { size = 1 }
  gate "h" { on = ["q[5]"] }
}`,
			wantErr: "out of range",
		},
		{
			name: "classical target on a unitary",
			src: `
circuit "bad" {
  qreg "q" { size = 1 }
  creg "c" { size = 1 }
  gate "h" {
    on   = ["q[0]"]
    into = ["c[0]"]
  }
}`,
			wantErr: "does not take classical targets",
		},
		{
			name: "same qubit twice",
			src: `
circuit "bad" {
  qreg "q" { size = 1 }
  gate "cx" { on = ["q[0]", "q[0]"] }
}`,
			wantErr: "targets a wire more than once",
		},
		{
			name: "duplicate register",
			src: `
circuit "bad" {
  qreg "q" { size = 1 }
  creg "q" { size = 1 }
}`,
			wantErr: "duplicate register",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadBytes(context.Background(), "bad.hcl", []byte(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bell.hcl")
	require.NoError(t, os.WriteFile(path, []byte(bellSource), 0o644))

	circuits, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, circuits, 1)
	assert.Equal(t, "bell", circuits[0].Name)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))
	require.Error(t, err)
}
