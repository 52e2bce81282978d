// internal/snapstore/store.go
package snapstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vk/circuitgrid/internal/circuitdag"
	"github.com/vk/circuitgrid/internal/dagnode"
)

var (
	// ErrNotFound reports that no snapshot exists under the requested ID.
	ErrNotFound = errors.New("snapstore: snapshot not found")

	// ErrDuplicateID reports a save that would overwrite an existing
	// snapshot without replace semantics.
	ErrDuplicateID = errors.New("snapstore: snapshot ID already exists")
)

// CircuitSnapshot is the persisted form of a circuit DAG. Nodes carries
// the per-node envelopes produced by dagnode, and Edges the index pairs
// of the graph's edge set. The pair (Nodes, Edges) is exactly what
// circuitdag.Import needs to rebuild a live graph.
type CircuitSnapshot struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Nodes     []dagnode.Snapshot `json:"nodes"`
	Edges     [][2]int           `json:"edges"`
	CreatedAt time.Time          `json:"created_at"`
}

// Capture serializes a live DAG into a snapshot with a fresh ID.
func Capture(name string, d *circuitdag.DAG) (CircuitSnapshot, error) {
	nodes, edges, err := d.Export()
	if err != nil {
		return CircuitSnapshot{}, fmt.Errorf("snapstore: capture %q: %w", name, err)
	}
	return CircuitSnapshot{
		ID:        uuid.New(),
		Name:      name,
		Nodes:     nodes,
		Edges:     edges,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Rebuild restores a live DAG from a snapshot's nodes and edges.
func Rebuild(ctx context.Context, s CircuitSnapshot) (*circuitdag.DAG, error) {
	d, err := circuitdag.Import(ctx, s.Nodes, s.Edges)
	if err != nil {
		return nil, fmt.Errorf("snapstore: rebuild %s: %w", s.ID, err)
	}
	return d, nil
}

// Store is the interface for snapshot persistence. All methods take a
// context for cancellation; implementations must be safe for concurrent
// use.
type Store interface {
	// Save persists a snapshot under its ID. Saving an ID that already
	// exists returns ErrDuplicateID.
	Save(ctx context.Context, snap CircuitSnapshot) error

	// Get retrieves a snapshot by ID, or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (CircuitSnapshot, error)

	// GetNode retrieves one node envelope of a stored snapshot by its
	// graph index. A missing snapshot and a missing index both report
	// ErrNotFound.
	GetNode(ctx context.Context, id uuid.UUID, index int) (dagnode.Snapshot, error)

	// List returns the stored snapshots ordered by creation time. The
	// returned snapshots include their node and edge payloads.
	List(ctx context.Context) ([]CircuitSnapshot, error)

	// Delete removes a snapshot by ID, or ErrNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error
}
