// internal/circuitdag/doc.go

/*
Package circuitdag is the graph engine hosting the node layer: it owns index
assignment, the dependency edges between vertices, and the per-wire
input/output boundary bookkeeping.

The engine is the only code that attaches nodes. A node enters the graph
detached, receives the next free index on insertion, and is detached again
on removal. Edges relate indices, never payloads; the node layer makes no
assumption about edge structure beyond that.

The package has no internal concurrency: a DAG is manipulated by one caller
at a time, and callers that share a DAG across goroutines must serialize
access themselves.
*/
package circuitdag
