// internal/dagnode/doc.go

/*
Package dagnode is the node-representation layer of the circuit dependency
graph: the three vertex kinds (operation nodes and the input/output boundary
nodes of each wire), their shared positional identity, and the equality,
hashing, snapshot and duplication rules that graph passes rely on.

# Identity vs. equality

Every node embeds a Handle: an optional index into the live graph. A node is
born detached (index -1) and becomes attached exactly once, when a graph
inserts it. Node equality is identity-biased on purpose — it exists so nodes
can serve as set and map keys during rewrites, not as a semantic-equivalence
oracle. Two nodes are equal only when their indices match exactly AND their
payloads match; a detached node never equals an attached one.

For operation nodes over standard gates, payload comparison applies a
numerically tolerant rule to plain-float parameters (relative 1e-10), since
optimizer passes must treat near-identical angles as the same gate. This
makes equality non-transitive across chains of barely-different floats; that
is a documented relaxation, not a bug.

# Hash contract

OpNode.Hash covers the index and the operation name only — deliberately
coarser than Equal, which also compares parameters and targets. Equal nodes
always share index and name, so the contract (equal implies same hash)
holds. Do not "fix" the hash to cover more fields: tolerant float equality
cannot be bucketed consistently, and the extra hashing is pure overhead.

# Boundary tags

InNode and OutNode equality compares index and wire only; the input/output
role does not participate. Within one graph two vertices never share an
index, so the roles can only collide when comparing across graphs, where the
wire's lifetime endpoints are interchangeable for membership purposes. This
is pinned by a test; change it only deliberately.

# Snapshots

Snapshot produces a portable (kind, constructor payload, raw index) record.
Restore replays the ordinary detached constructor and then writes the raw
index back directly — the restored node is attached-by-index but belongs to
no live graph until a caller reconciles it with one.
*/
package dagnode
