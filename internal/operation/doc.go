// internal/operation/doc.go

/*
Package operation models "what a node does": the polymorphic operation
descriptor attached to every operation vertex of a circuit graph, plus the
parameter values those operations carry.

# Descriptor kinds

The Descriptor interface is a closed union over five representations:

  - StandardGate: a member of the small native gate catalog (h, cx, rz, ...).
    These are the only descriptors whose parameters get numerically tolerant
    treatment in node equality, and the only ones with built-in matrix
    synthesis.
  - Gate: a generic named unitary gate defined outside the catalog.
  - Instr: a generic (possibly non-unitary) instruction; measures, resets and
    directives such as barriers live here.
  - Unitary: a raw unitary matrix with no higher-level name.
  - Opaque: an externally defined operation carried as a cty value; equality
    delegates to cty's own value equality.

# Parameters

Param is a tagged union of a plain float, a minimal symbolic expression
(scale*symbol + offset), and an opaque cty value. Param.Equal is exact;
tolerant comparison is a node-equality concern and deliberately does not
live here.
*/
package operation
