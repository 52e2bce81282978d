// internal/operation/opaque.go
package operation

import "github.com/zclconf/go-cty/cty"

// Opaque is an externally defined operation the graph layer does not
// interpret. Its payload is an arbitrary cty value; equality delegates to
// the value's own equality, matching the payload owner's notion of
// sameness.
type Opaque struct {
	OpName      string
	Qubits      int
	Clbits      int
	Payload     cty.Value
	OpaqueLabel string
}

func (o *Opaque) Name() string { return o.OpName }

func (o *Opaque) Kind() DescKind { return KindOpaque }

func (o *Opaque) NumQubits() int { return o.Qubits }

func (o *Opaque) NumClbits() int { return o.Clbits }

func (o *Opaque) Params() []Param { return nil }

func (o *Opaque) Label() string { return o.OpaqueLabel }

func (o *Opaque) Equal(other Descriptor) bool {
	ot, ok := other.(*Opaque)
	if !ok {
		return false
	}
	return o.OpName == ot.OpName &&
		o.Qubits == ot.Qubits &&
		o.Clbits == ot.Clbits &&
		o.Payload.RawEquals(ot.Payload)
}

// DeepCopy copies the envelope; cty values are immutable and safe to share.
func (o *Opaque) DeepCopy() Descriptor {
	c := *o
	return &c
}

func (o *Opaque) Renamed(name string) Descriptor {
	c := *o
	c.OpName = name
	return &c
}

func (o *Opaque) Matrix(params []Param) *Matrix { return nil }

func (o *Opaque) IsDirective() bool { return false }

func (o *Opaque) isDescriptor() {}
