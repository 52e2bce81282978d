// internal/dagnode/snapshot.go
package dagnode

import (
	"encoding/json"
	"fmt"

	"github.com/vk/circuitgrid/internal/operation"
	"github.com/vk/circuitgrid/internal/wire"
)

// Snapshot is the portable representation of a node: the variant tag, the
// payload needed to replay the detached constructor, and the raw index (the
// detached sentinel when unbound). It is independent of any live graph and
// stable across process boundaries as long as the operation and wire
// encodings are.
type Snapshot struct {
	Kind  string                   `json:"kind"`
	Op    *operation.InstrEnvelope `json:"op,omitempty"`
	Qargs []wire.Envelope          `json:"qargs,omitempty"`
	Cargs []wire.Envelope          `json:"cargs,omitempty"`
	Wire  *wire.Envelope           `json:"wire,omitempty"`
	Index int                      `json:"index"`
}

// Snapshot implements Node.
func (n *OpNode) Snapshot() (Snapshot, error) {
	op, err := operation.WrapInstruction(n.inst)
	if err != nil {
		return Snapshot{}, fmt.Errorf("dagnode: snapshot op node: %w", err)
	}
	return Snapshot{
		Kind:  KindOp.String(),
		Op:    &op,
		Qargs: wire.WrapAll(n.qargs),
		Cargs: wire.WrapAll(n.cargs),
		Index: n.handle.Index(),
	}, nil
}

// Snapshot implements Node.
func (n *InNode) Snapshot() (Snapshot, error) {
	env := wire.Wrap(n.wire)
	return Snapshot{Kind: KindIn.String(), Wire: &env, Index: n.handle.Index()}, nil
}

// Snapshot implements Node.
func (n *OutNode) Snapshot() (Snapshot, error) {
	env := wire.Wrap(n.wire)
	return Snapshot{Kind: KindOut.String(), Wire: &env, Index: n.handle.Index()}, nil
}

// Restore rebuilds the node a snapshot describes: it replays the detached
// constructor for the recorded kind, then writes the raw index back
// directly, bypassing graph attachment. The restored index is trusted; only
// the sentinel/negative validation that every index write gets is applied.
func Restore(s Snapshot) (Node, error) {
	switch s.Kind {
	case KindOp.String():
		if s.Op == nil {
			return nil, fmt.Errorf("dagnode: op snapshot missing operation payload")
		}
		inst, err := s.Op.UnwrapInstruction()
		if err != nil {
			return nil, fmt.Errorf("dagnode: restore op node: %w", err)
		}
		qargs, err := wire.UnwrapAll(s.Qargs)
		if err != nil {
			return nil, fmt.Errorf("dagnode: restore op node qargs: %w", err)
		}
		cargs, err := wire.UnwrapAll(s.Cargs)
		if err != nil {
			return nil, fmt.Errorf("dagnode: restore op node cargs: %w", err)
		}
		n := FromInstruction(inst, false)
		n.SetQargs(qargs)
		n.SetCargs(cargs)
		if err := n.handle.SetIndex(s.Index); err != nil {
			return nil, err
		}
		return n, nil
	case KindIn.String(), KindOut.String():
		if s.Wire == nil {
			return nil, fmt.Errorf("dagnode: boundary snapshot missing wire payload")
		}
		w, err := s.Wire.Unwrap()
		if err != nil {
			return nil, fmt.Errorf("dagnode: restore boundary node: %w", err)
		}
		var n Node
		if s.Kind == KindIn.String() {
			n = NewInNode(w)
		} else {
			n = NewOutNode(w)
		}
		if err := n.Handle().SetIndex(s.Index); err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("dagnode: unknown snapshot kind %q", s.Kind)
	}
}

// Marshal encodes a snapshot as JSON.
func (s Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSnapshot decodes a JSON snapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("dagnode: decode snapshot: %w", err)
	}
	return s, nil
}
