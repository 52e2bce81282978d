package inmemorysnapstore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/circuitgrid/internal/circuitdag"
	"github.com/vk/circuitgrid/internal/dagnode"
	"github.com/vk/circuitgrid/internal/operation"
	"github.com/vk/circuitgrid/internal/snapstore"
	"github.com/vk/circuitgrid/internal/wire"
)

func sampleSnapshot(t *testing.T, name string) snapstore.CircuitSnapshot {
	t.Helper()
	d := circuitdag.New()
	q0 := wire.Qubit{Register: "q", Index: 0}
	_, _, err := d.AddWire(q0)
	require.NoError(t, err)
	h, err := dagnode.NewOpNode(operation.NewStandard(operation.GateH), []wire.Wire{q0}, nil)
	require.NoError(t, err)
	_, err = d.Apply(context.Background(), h)
	require.NoError(t, err)

	snap, err := snapstore.Capture(name, d)
	require.NoError(t, err)
	return snap
}

func TestSaveAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()
	snap := sampleSnapshot(t, "single-h")

	require.NoError(t, s.Save(ctx, snap))

	got, err := s.Get(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.Name, got.Name)
	require.Len(t, got.Nodes, 3)

	// The retrieved snapshot rebuilds into a working graph.
	d, err := snapstore.Rebuild(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Size())
	assert.Len(t, d.OpNodes(), 1)
}

func TestSaveDuplicate(t *testing.T) {
	s := New()
	ctx := context.Background()
	snap := sampleSnapshot(t, "dup")

	require.NoError(t, s.Save(ctx, snap))
	err := s.Save(ctx, snap)
	require.ErrorIs(t, err, snapstore.ErrDuplicateID)
}

func TestGetNode(t *testing.T) {
	s := New()
	ctx := context.Background()
	snap := sampleSnapshot(t, "node-lookup")
	require.NoError(t, s.Save(ctx, snap))

	// The sample circuit holds one op node among the boundaries.
	var opIndex int
	for _, n := range snap.Nodes {
		if n.Kind == dagnode.KindOp.String() {
			opIndex = n.Index
		}
	}

	n, err := s.GetNode(ctx, snap.ID, opIndex)
	require.NoError(t, err)
	assert.Equal(t, dagnode.KindOp.String(), n.Kind)
	assert.Equal(t, opIndex, n.Index)

	_, err = s.GetNode(ctx, snap.ID, 99)
	require.ErrorIs(t, err, snapstore.ErrNotFound)

	_, err = s.GetNode(ctx, uuid.New(), 0)
	require.ErrorIs(t, err, snapstore.ErrNotFound)
}

func TestGetMissing(t *testing.T) {
	s := New()
	_, err := s.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, snapstore.ErrNotFound)
}

func TestListOrdering(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		snap := sampleSnapshot(t, fmt.Sprintf("circuit-%d", i))
		snap.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, s.Save(ctx, snap))
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, snap := range list {
		assert.Equal(t, fmt.Sprintf("circuit-%d", i), snap.Name)
	}
}

func TestDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	snap := sampleSnapshot(t, "doomed")

	require.NoError(t, s.Save(ctx, snap))
	require.NoError(t, s.Delete(ctx, snap.ID))

	_, err := s.Get(ctx, snap.ID)
	require.ErrorIs(t, err, snapstore.ErrNotFound)

	err = s.Delete(ctx, snap.ID)
	require.ErrorIs(t, err, snapstore.ErrNotFound)
}

func TestConcurrentSaves(t *testing.T) {
	s := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap := sampleSnapshot(t, fmt.Sprintf("parallel-%d", i))
			assert.NoError(t, s.Save(ctx, snap))
		}(i)
	}
	wg.Wait()

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 16)
}
