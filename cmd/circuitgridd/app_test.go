package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/circuitgrid/internal/dagnode"
	"github.com/vk/circuitgrid/internal/inmemorysnapstore"
	"github.com/vk/circuitgrid/internal/snapstore"
)

const bellSource = `
circuit "bell" {
  qreg "q" { size = 2 }
  gate "h"  { on = ["q[0]"] }
  gate "cx" { on = ["q[0]", "q[1]"] }
}
`

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	return req
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

// buildBell posts the bell source and returns the stored snapshot ID.
func buildBell(t *testing.T, app *fiber.App) uuid.UUID {
	t.Helper()
	resp, err := app.Test(jsonRequest(t, "POST", "/circuits/build", buildRequest{Source: bellSource}))
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode)

	var result struct {
		IDs []uuid.UUID `json:"ids"`
	}
	decodeJSON(t, resp, &result)
	require.Len(t, result.IDs, 1)
	return result.IDs[0]
}

func TestBuildAndFetch(t *testing.T) {
	app := newApp(inmemorysnapstore.New())
	id := buildBell(t, app)

	resp, err := app.Test(httptest.NewRequest("GET", "/circuits/"+id.String(), nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var snap snapstore.CircuitSnapshot
	decodeJSON(t, resp, &snap)
	assert.Equal(t, "bell", snap.Name)
	assert.Len(t, snap.Nodes, 6)

	// The stored snapshot rebuilds into a live graph.
	d, err := snapstore.Rebuild(context.Background(), snap)
	require.NoError(t, err)
	assert.Len(t, d.OpNodes(), 2)
}

func TestBuildRejectsBadSource(t *testing.T) {
	app := newApp(inmemorysnapstore.New())

	resp, err := app.Test(jsonRequest(t, "POST", "/circuits/build", buildRequest{Source: `
circuit "bad" {
  qreg "q" { size = 1 }
  gate "cx" { on = ["q[0]"] }
}
`}))
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)
}

func TestPostSnapshot(t *testing.T) {
	store := inmemorysnapstore.New()
	app := newApp(store)
	id := buildBell(t, app)

	resp, err := app.Test(httptest.NewRequest("GET", "/circuits/"+id.String(), nil))
	require.NoError(t, err)
	var snap snapstore.CircuitSnapshot
	decodeJSON(t, resp, &snap)

	// Re-post under a fresh ID.
	snap.ID = uuid.New()
	resp, err = app.Test(jsonRequest(t, "POST", "/circuits", snap))
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	// Re-posting the same ID conflicts.
	resp, err = app.Test(jsonRequest(t, "POST", "/circuits", snap))
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)
}

func TestPostSnapshotRejectsBrokenGraph(t *testing.T) {
	app := newApp(inmemorysnapstore.New())
	id := buildBell(t, app)

	resp, err := app.Test(httptest.NewRequest("GET", "/circuits/"+id.String(), nil))
	require.NoError(t, err)
	var snap snapstore.CircuitSnapshot
	decodeJSON(t, resp, &snap)

	// A self-edge makes the graph cyclic; the server must refuse it.
	snap.ID = uuid.New()
	snap.Edges = append(snap.Edges, [2]int{snap.Nodes[0].Index, snap.Nodes[0].Index})
	resp, err = app.Test(jsonRequest(t, "POST", "/circuits", snap))
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)
}

func TestListAndDelete(t *testing.T) {
	app := newApp(inmemorysnapstore.New())
	id := buildBell(t, app)

	resp, err := app.Test(httptest.NewRequest("GET", "/circuits", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	var snaps []snapstore.CircuitSnapshot
	decodeJSON(t, resp, &snaps)
	require.Len(t, snaps, 1)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/circuits/"+id.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/circuits/"+id.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/circuits/"+id.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestProgramListing(t *testing.T) {
	app := newApp(inmemorysnapstore.New())
	id := buildBell(t, app)

	resp, err := app.Test(httptest.NewRequest("GET", fmt.Sprintf("/circuits/%s/program", id), nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var result struct {
		Name    string        `json:"name"`
		Program []programLine `json:"program"`
	}
	decodeJSON(t, resp, &result)
	assert.Equal(t, "bell", result.Name)
	require.Len(t, result.Program, 2)
	assert.Equal(t, "h", result.Program[0].Name)
	assert.Equal(t, []string{"q[0]"}, result.Program[0].Qargs)
	assert.Equal(t, "cx", result.Program[1].Name)
}

func TestNodeLookup(t *testing.T) {
	app := newApp(inmemorysnapstore.New())
	id := buildBell(t, app)

	resp, err := app.Test(httptest.NewRequest("GET", fmt.Sprintf("/circuits/%s/nodes/0", id), nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var node dagnode.Snapshot
	decodeJSON(t, resp, &node)
	assert.Equal(t, 0, node.Index)
	assert.Equal(t, dagnode.KindIn.String(), node.Kind)

	resp, err = app.Test(httptest.NewRequest("GET", fmt.Sprintf("/circuits/%s/nodes/99", id), nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", fmt.Sprintf("/circuits/%s/nodes/zero", id), nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestInvalidID(t *testing.T) {
	app := newApp(inmemorysnapstore.New())

	resp, err := app.Test(httptest.NewRequest("GET", "/circuits/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
