// internal/wire/doc.go

/*
Package wire provides the identity types for the data lines threading through
a circuit graph: qubits, classical bits, and loose ancilla bits.

A wire is an opaque identity, not a value carrier. Nodes hold non-owning
references to wires; the same wire value may appear in many nodes and many
graphs. Equality and hashing are therefore defined on the identity alone
(register name + index, or the ancilla UUID), never on any runtime state.

The canonical string form is `name[index]`, e.g. `q[3]` or `c[0]`, matching
the form accepted by Parse and emitted by the circuitfile loader.
*/
package wire
