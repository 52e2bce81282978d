// internal/wire/parser.go
package wire

import (
	"fmt"
	"regexp"
	"strconv"
)

// bitRefRegex parses a single wire reference, e.g. `q[0]`.
var bitRefRegex = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_]*)\[(\d+)\]$`)

// Parse resolves the canonical `name[index]` form of a register bit against
// the provided registers. Ancilla wires have no parseable form; they only
// round-trip through the snapshot codec.
func Parse(ref string, registers []Register) (Wire, error) {
	matches := bitRefRegex.FindStringSubmatch(ref)
	if matches == nil {
		return nil, fmt.Errorf("wire: invalid reference format: %q", ref)
	}

	name := matches[1]
	index, err := strconv.Atoi(matches[2])
	if err != nil {
		// Unreachable due to regex `\d+`
		return nil, fmt.Errorf("wire: internal error parsing index: %w", err)
	}

	for _, r := range registers {
		if r.Name == name {
			return r.Bit(index)
		}
	}
	return nil, fmt.Errorf("wire: unknown register %q in reference %q", name, ref)
}
