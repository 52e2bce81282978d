// internal/dagnode/handle.go
package dagnode

import (
	"errors"
	"fmt"
)

// Detached is the sentinel index of a node not yet placed in any graph.
const Detached = -1

// ErrBadIndex reports an index that is neither the detached sentinel nor a
// valid graph position.
var ErrBadIndex = errors.New("dagnode: invalid node index, must be -1 or a non-negative integer")

// Handle is a node's positional identity: an optional index into the owning
// graph. The zero Handle is detached.
type Handle struct {
	// pos is the biased index: 0 means detached, i+1 means index i. The
	// bias makes the zero value detached instead of position 0.
	pos int
}

// NewHandle returns a detached handle.
func NewHandle() Handle {
	return Handle{}
}

// HandleAt returns a handle already bound to index i. It is intended for
// the graph engine's insertion path and for snapshot restoration; external
// callers construct detached nodes.
func HandleAt(i int) (Handle, error) {
	if i < Detached {
		return Handle{}, fmt.Errorf("%w: %d", ErrBadIndex, i)
	}
	return Handle{pos: i + 1}, nil
}

// Index returns the raw index value, Detached when unbound.
func (h Handle) Index() int {
	return h.pos - 1
}

// Attached reports whether the handle is bound to a graph position.
func (h Handle) Attached() bool { return h.pos != 0 }

// SetIndex binds the handle to i, or detaches it when i is the sentinel.
// Negative non-sentinel values are rejected.
func (h *Handle) SetIndex(i int) error {
	if i < Detached {
		return fmt.Errorf("%w: %d", ErrBadIndex, i)
	}
	h.pos = i + 1
	return nil
}

// Detach resets the handle to the unbound state.
func (h *Handle) Detach() { h.pos = 0 }

// Less orders handles by raw index, detached before every attached index.
// The ordering exists only for deterministic container iteration; it
// carries no semantic meaning.
func (h Handle) Less(other Handle) bool {
	return h.Index() < other.Index()
}

// Hash is the bare identity digest: the raw index value.
func (h Handle) Hash() uint64 {
	return uint64(int64(h.Index()))
}
