// Package inmemorysnapstore provides an ephemeral, thread-safe, in-memory
// implementation of the snapstore.Store interface.
//
// Snapshots live in a sync.Map keyed by their UUID string, so concurrent
// saves and reads of different circuits never contend. The store is
// created fresh per process and discarded with it; nothing survives a
// restart. It is the default backend for the CLI and for tests, with
// pgsnapstore covering the durable case.
package inmemorysnapstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vk/circuitgrid/internal/dagnode"
	"github.com/vk/circuitgrid/internal/snapstore"
)

// Store is an in-memory implementation of snapstore.Store backed by a
// sync.Map keyed by UUID string.
type Store struct {
	snaps sync.Map // Key: uuid string, Value: snapstore.CircuitSnapshot
}

// New creates a new, empty in-memory snapshot store.
func New() snapstore.Store {
	return &Store{}
}

// Save persists a snapshot, rejecting duplicate IDs.
func (s *Store) Save(ctx context.Context, snap snapstore.CircuitSnapshot) error {
	if _, loaded := s.snaps.LoadOrStore(snap.ID.String(), snap); loaded {
		return fmt.Errorf("%w: %s", snapstore.ErrDuplicateID, snap.ID)
	}
	return nil
}

// Get retrieves a snapshot by ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (snapstore.CircuitSnapshot, error) {
	v, ok := s.snaps.Load(id.String())
	if !ok {
		return snapstore.CircuitSnapshot{}, fmt.Errorf("%w: %s", snapstore.ErrNotFound, id)
	}
	return v.(snapstore.CircuitSnapshot), nil
}

// GetNode retrieves one node envelope of a stored snapshot by index.
func (s *Store) GetNode(ctx context.Context, id uuid.UUID, index int) (dagnode.Snapshot, error) {
	snap, err := s.Get(ctx, id)
	if err != nil {
		return dagnode.Snapshot{}, err
	}
	for _, n := range snap.Nodes {
		if n.Index == index {
			return n, nil
		}
	}
	return dagnode.Snapshot{}, fmt.Errorf("%w: %s node %d", snapstore.ErrNotFound, id, index)
}

// List returns all snapshots ordered by creation time, then ID for ties.
func (s *Store) List(ctx context.Context) ([]snapstore.CircuitSnapshot, error) {
	var out []snapstore.CircuitSnapshot
	s.snaps.Range(func(_, v any) bool {
		out = append(out, v.(snapstore.CircuitSnapshot))
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// Delete removes a snapshot by ID.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if _, loaded := s.snaps.LoadAndDelete(id.String()); !loaded {
		return fmt.Errorf("%w: %s", snapstore.ErrNotFound, id)
	}
	return nil
}
