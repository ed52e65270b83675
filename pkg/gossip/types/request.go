// Package types holds the tagged request/response shapes exchanged on
// the wire between gossip nodes, and the two opaque identifiers
// (MessageID, PeerID) the rest of the engine is built on.
package types

// MessageID is an opaque value to be disseminated. Equality is
// bitwise; no ordering is defined over it.
type MessageID uint64

// PeerID is a short printable identifier assigned by the runtime,
// e.g. "n1".
type PeerID string

// Tag values recognised on the wire. snake_case is authoritative.
const (
	TagInit         = "init"
	TagRead         = "read"
	TagReadOk       = "read_ok"
	TagBroadcast    = "broadcast"
	TagBroadcastOk  = "broadcast_ok"
	TagTopology     = "topology"
	TagTopologyOk   = "topology_ok"
)

// CurrentProtocolVersion is embedded in outbound bodies; inbound
// bodies without the field are accepted by any gate, whatever its
// constraint, for compatibility with peers that predate the gate (see
// definition.Gate).
const CurrentProtocolVersion = "1.0.0"

// ReadRequest carries no payload beyond its tag.
type ReadRequest struct {
	Type string `json:"type"`
}

// ReadOk is the reply to ReadRequest: a faithful copy of the seen set.
type ReadOk struct {
	Type     string      `json:"type"`
	Messages []MessageID `json:"messages"`
}

// BroadcastRequest is received both from external clients and, as an
// outbound fire-and-forget RPC, from the retry scheduler of a peer.
type BroadcastRequest struct {
	Type            string    `json:"type"`
	Message         MessageID `json:"message"`
	ProtocolVersion string    `json:"protocol_version,omitempty"`
}

// BroadcastOk is an empty body beyond the runtime's reply envelope.
type BroadcastOk struct {
	Type string `json:"type"`
}

// TopologyRequest replaces a node's neighbour list wholesale.
type TopologyRequest struct {
	Type     string               `json:"type"`
	Topology map[PeerID][]PeerID `json:"topology"`
}

// TopologyOk is the empty reply to TopologyRequest.
type TopologyOk struct {
	Type string `json:"type"`
}

func NewBroadcastRequest(m MessageID) BroadcastRequest {
	return BroadcastRequest{
		Type:            TagBroadcast,
		Message:         m,
		ProtocolVersion: CurrentProtocolVersion,
	}
}

func NewReadOk(messages []MessageID) ReadOk {
	return ReadOk{Type: TagReadOk, Messages: messages}
}
