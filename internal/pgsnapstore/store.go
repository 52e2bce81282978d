// Package pgsnapstore provides a PostgreSQL-backed implementation of the
// snapstore.Store interface using pgx.
//
// Snapshot metadata lives in circuit_snapshots; the node envelopes and
// edge pairs are stored as JSONB in circuit_nodes and circuit_edges,
// one row per node and per edge, so a circuit can be inspected with
// plain SQL. All writes for one snapshot happen in a single
// transaction.
package pgsnapstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vk/circuitgrid/internal/dagnode"
	"github.com/vk/circuitgrid/internal/snapstore"
)

// Store implements snapstore.Store on top of a pgx connection pool.
type Store struct {
	db *pgxpool.Pool
}

// New creates a Store backed by the given pgx connection pool.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Connect opens a pgx pool for the given connection string and verifies
// it with a ping.
func Connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("pgsnapstore: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgsnapstore: ping: %w", err)
	}
	return pool, nil
}

// Save persists a snapshot in one transaction, rejecting duplicate IDs.
func (s *Store) Save(ctx context.Context, snap snapstore.CircuitSnapshot) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pgsnapstore: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO circuit_snapshots (id, name, created_at) VALUES ($1, $2, $3)`,
		snap.ID, snap.Name, snap.CreatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", snapstore.ErrDuplicateID, snap.ID)
		}
		return fmt.Errorf("pgsnapstore: insert snapshot %s: %w", snap.ID, err)
	}

	for i, n := range snap.Nodes {
		payload, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("pgsnapstore: encode node %d: %w", i, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO circuit_nodes (snapshot_id, node_index, data) VALUES ($1, $2, $3)`,
			snap.ID, n.Index, payload,
		); err != nil {
			return fmt.Errorf("pgsnapstore: insert node %d: %w", n.Index, err)
		}
	}

	for _, e := range snap.Edges {
		if _, err := tx.Exec(ctx,
			`INSERT INTO circuit_edges (snapshot_id, from_index, to_index) VALUES ($1, $2, $3)`,
			snap.ID, e[0], e[1],
		); err != nil {
			return fmt.Errorf("pgsnapstore: insert edge %d->%d: %w", e[0], e[1], err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("pgsnapstore: commit: %w", err)
	}
	return nil
}

// Get retrieves a snapshot by ID, including its nodes and edges.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (snapstore.CircuitSnapshot, error) {
	var snap snapstore.CircuitSnapshot
	err := s.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM circuit_snapshots WHERE id = $1`, id,
	).Scan(&snap.ID, &snap.Name, &snap.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return snapstore.CircuitSnapshot{}, fmt.Errorf("%w: %s", snapstore.ErrNotFound, id)
	}
	if err != nil {
		return snapstore.CircuitSnapshot{}, fmt.Errorf("pgsnapstore: query snapshot: %w", err)
	}

	snap.Nodes, err = s.loadNodes(ctx, id)
	if err != nil {
		return snapstore.CircuitSnapshot{}, err
	}
	snap.Edges, err = s.loadEdges(ctx, id)
	if err != nil {
		return snapstore.CircuitSnapshot{}, err
	}
	return snap, nil
}

// GetNode retrieves one node envelope of a stored snapshot by index. A
// single-row select, so a large circuit is not pulled in whole.
func (s *Store) GetNode(ctx context.Context, id uuid.UUID, index int) (dagnode.Snapshot, error) {
	var payload []byte
	err := s.db.QueryRow(ctx,
		`SELECT data FROM circuit_nodes WHERE snapshot_id = $1 AND node_index = $2`,
		id, index,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return dagnode.Snapshot{}, fmt.Errorf("%w: %s node %d", snapstore.ErrNotFound, id, index)
	}
	if err != nil {
		return dagnode.Snapshot{}, fmt.Errorf("pgsnapstore: query node: %w", err)
	}
	var n dagnode.Snapshot
	if err := json.Unmarshal(payload, &n); err != nil {
		return dagnode.Snapshot{}, fmt.Errorf("pgsnapstore: decode node: %w", err)
	}
	return n, nil
}

func (s *Store) loadNodes(ctx context.Context, id uuid.UUID) ([]dagnode.Snapshot, error) {
	rows, err := s.db.Query(ctx,
		`SELECT data FROM circuit_nodes WHERE snapshot_id = $1 ORDER BY node_index`, id)
	if err != nil {
		return nil, fmt.Errorf("pgsnapstore: query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []dagnode.Snapshot
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("pgsnapstore: scan node: %w", err)
		}
		var n dagnode.Snapshot
		if err := json.Unmarshal(payload, &n); err != nil {
			return nil, fmt.Errorf("pgsnapstore: decode node: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgsnapstore: rows nodes: %w", err)
	}
	return nodes, nil
}

func (s *Store) loadEdges(ctx context.Context, id uuid.UUID) ([][2]int, error) {
	rows, err := s.db.Query(ctx,
		`SELECT from_index, to_index FROM circuit_edges WHERE snapshot_id = $1 ORDER BY from_index, to_index`, id)
	if err != nil {
		return nil, fmt.Errorf("pgsnapstore: query edges: %w", err)
	}
	defer rows.Close()

	var edges [][2]int
	for rows.Next() {
		var from, to int
		if err := rows.Scan(&from, &to); err != nil {
			return nil, fmt.Errorf("pgsnapstore: scan edge: %w", err)
		}
		edges = append(edges, [2]int{from, to})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgsnapstore: rows edges: %w", err)
	}
	return edges, nil
}

// List returns every stored snapshot ordered by creation time. Node and
// edge payloads are loaded per snapshot.
func (s *Store) List(ctx context.Context) ([]snapstore.CircuitSnapshot, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id FROM circuit_snapshots ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("pgsnapstore: query snapshots: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("pgsnapstore: scan snapshot id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgsnapstore: rows snapshots: %w", err)
	}

	var out []snapstore.CircuitSnapshot
	for _, id := range ids {
		snap, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

// Delete removes a snapshot and its rows; cascade handles the children.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM circuit_snapshots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgsnapstore: delete snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", snapstore.ErrNotFound, id)
	}
	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
