// Package snapstore defines the interface for persisting and retrieving
// circuit snapshots: the serialized form of a circuit DAG's nodes and
// edges, keyed by an identifier.
//
// # Why Snapshot Store Exists
//
// The snapshot store separates **persistence** from the **live graph
// structure** managed by circuitdag. A DAG is mutated in memory; when a
// caller wants to keep a circuit across process restarts, share it over
// the wire, or hand it to another tool, it captures a CircuitSnapshot and
// saves it here. The store never interprets the circuit, it only moves
// the snapshot payload.
//
// This separation keeps the responsibilities narrow:
//   - circuitdag owns graph invariants (acyclicity, wire frontiers)
//   - dagnode owns per-node serialization (the Snapshot envelope)
//   - snapstore owns durability and lookup
//
// # Implementations
//
// Two implementations ship with the repository:
//   - internal/inmemorysnapstore: ephemeral, suitable for tests and
//     single-process use
//   - internal/pgsnapstore: PostgreSQL-backed, for durable storage
//
// Implementations MUST be safe for concurrent use.
package snapstore
