package definition

import (
	"fmt"

	"github.com/hashicorp/go-version"
)

// Gate generalizes the teacher's checkRPCHeader exact-match compare
// (protocol.go: header.ProtocolVersion != u.configuration.Version) into
// a semantic-range acceptance test, so a node can be configured to
// accept a range of compatible peer versions instead of only an exact
// match.
type Gate struct {
	constraint version.Constraints
}

// NewGate builds a Gate that accepts any version satisfying the given
// constraint string (e.g. ">= 1.0.0, < 2.0.0").
func NewGate(constraint string) (*Gate, error) {
	c, err := version.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("gossip: invalid version constraint %q: %w", constraint, err)
	}
	return &Gate{constraint: c}, nil
}

// Accepts reports whether peerVersion satisfies the configured
// constraint. An empty peerVersion is treated as compatible, matching
// the wire shapes of spec.md 6, where ProtocolVersion is optional and
// absent on peers that predate this gate.
func (g *Gate) Accepts(peerVersion string) bool {
	if peerVersion == "" {
		return true
	}
	v, err := version.NewVersion(peerVersion)
	if err != nil {
		return false
	}
	return g.constraint.Check(v)
}
