// internal/pgsnapstore/schema.go
package pgsnapstore

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS circuit_snapshots (
    id         UUID PRIMARY KEY,
    name       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS circuit_nodes (
    snapshot_id UUID NOT NULL REFERENCES circuit_snapshots(id) ON DELETE CASCADE,
    node_index  INTEGER NOT NULL,
    data        JSONB NOT NULL,
    PRIMARY KEY (snapshot_id, node_index)
);

CREATE TABLE IF NOT EXISTS circuit_edges (
    snapshot_id UUID NOT NULL REFERENCES circuit_snapshots(id) ON DELETE CASCADE,
    from_index  INTEGER NOT NULL,
    to_index    INTEGER NOT NULL,
    PRIMARY KEY (snapshot_id, from_index, to_index)
);

CREATE INDEX IF NOT EXISTS idx_circuit_nodes_snapshot ON circuit_nodes(snapshot_id);
CREATE INDEX IF NOT EXISTS idx_circuit_edges_snapshot ON circuit_edges(snapshot_id);
`

// CreateSchema creates the snapshot tables if they don't exist.
func (s *Store) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the snapshot tables.
func (s *Store) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS circuit_edges, circuit_nodes, circuit_snapshots CASCADE;`)
	return err
}
