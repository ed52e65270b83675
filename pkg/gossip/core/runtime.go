package core

import (
	"github.com/ripplewave/gossip-broadcast/pkg/gossip/types"
)

// Envelope is the minimal shape the Handler needs out of an inbound
// message, independent of how the runtime frames it on the wire.
type Envelope struct {
	Src  types.PeerID
	Dest types.PeerID
	Body []byte

	// Native carries the runtime's own message representation
	// (e.g. a maelstrom.Message) through the round trip from Handle
	// to Reply/ReplyOK/Exit, so a concrete Runtime can correlate a
	// reply without re-deriving wire-framing details the core has no
	// business knowing about.
	Native interface{}
}

// Runtime is the contract the gossip engine depends on from the
// external messaging runtime. It is the trait-object boundary the
// teacher's core/transport.go Transport interface plays in go-mcast:
// the engine is written entirely against this interface so it can be
// driven, in tests, by an in-memory fake instead of a real Maelstrom
// node.
type Runtime interface {
	// Reply sends a typed reply body for the given inbound envelope.
	Reply(request Envelope, body interface{}) error

	// ReplyOK sends the protocol's empty-OK reply for the given
	// inbound envelope.
	ReplyOK(request Envelope) error

	// ExecuteRPC is a non-blocking fire-and-forget send to dest; any
	// failure is absorbed by the runtime, never surfaced to the
	// caller.
	ExecuteRPC(dest types.PeerID, body interface{})

	// Neighbours iterates the runtime's own notion of immediate
	// peers. Nothing in the Handler or Scheduler calls it: the engine
	// fans out from its own neighbour table only.
	Neighbours() []types.PeerID

	// NodeID returns this node's identity. Under the Maelstrom
	// binding it is empty until the runtime has processed init and
	// does not change after that.
	NodeID() types.PeerID

	// Exit transfers control to the runtime's terminate path for an
	// unrecognised or malformed inbound message.
	Exit(request Envelope, cause error)
}
