// Package maelstrom binds core.Runtime to the real Maelstrom Go demo
// client, github.com/jepsen-io/maelstrom/demo/go. This is the concrete
// expression of spec.md's Runtime Adapter (C5): the wire transport and
// JSON framing are entirely the demo client's responsibility, matching
// spec.md 1's "out of scope" boundary.
package maelstrom

import (
	maelstrom "github.com/jepsen-io/maelstrom/demo/go"

	"github.com/ripplewave/gossip-broadcast/pkg/gossip/core"
	"github.com/ripplewave/gossip-broadcast/pkg/gossip/definition"
	"github.com/ripplewave/gossip-broadcast/pkg/gossip/types"
)

// Adapter implements core.Runtime over a *maelstrom.Node.
type Adapter struct {
	node *maelstrom.Node
	log  definition.Logger
}

// NewAdapter wraps an already-constructed maelstrom.Node. Callers
// register handlers with Bind before calling Run.
func NewAdapter(node *maelstrom.Node, log definition.Logger) *Adapter {
	return &Adapter{node: node, log: log}
}

// Bind registers the three inbound tags the core engine understands
// with the underlying Maelstrom node, translating each
// maelstrom.Message into a core.Envelope (carrying the original
// message in Native so Reply/ReplyOK can answer it) and handing it to
// handle. "init" is never bound: it is answered by the Maelstrom
// runtime itself before any user handler runs (spec.md 9).
func (a *Adapter) Bind(handle func(core.Envelope) error) {
	for _, tag := range []string{types.TagRead, types.TagBroadcast, types.TagTopology} {
		a.node.Handle(tag, func(msg maelstrom.Message) error {
			return handle(core.Envelope{
				Src:    types.PeerID(msg.Src),
				Dest:   types.PeerID(msg.Dest),
				Body:   msg.Body,
				Native: msg,
			})
		})
	}
}

// Reply implements core.Runtime.
func (a *Adapter) Reply(request core.Envelope, body interface{}) error {
	return a.node.Reply(request.Native.(maelstrom.Message), body)
}

// ReplyOK implements core.Runtime with an empty-OK body whose type is
// always broadcast_ok, whatever the request's tag.
func (a *Adapter) ReplyOK(request core.Envelope) error {
	return a.node.Reply(request.Native.(maelstrom.Message), map[string]string{"type": "broadcast_ok"})
}

// ExecuteRPC implements core.Runtime: fire-and-forget, any failure is
// absorbed and only logged, never surfaced to the retry scheduler.
func (a *Adapter) ExecuteRPC(dest types.PeerID, body interface{}) {
	if err := a.node.Send(string(dest), body); err != nil {
		a.log.Warnf("suppressed send failure to %s: %v", dest, err)
	}
}

// Neighbours implements core.Runtime. Returns nil: the demo client
// exposes no neighbour iteration of its own before a Topology
// arrives, so this engine relies entirely on its own Neighbours table
// and the bootstrap-phase empty-neighbours behaviour of spec.md 3.
func (a *Adapter) Neighbours() []types.PeerID {
	return nil
}

// NodeID implements core.Runtime.
func (a *Adapter) NodeID() types.PeerID {
	return types.PeerID(a.node.ID())
}

// Exit implements core.Runtime: logs the cause. The handler func
// bound in Bind returns this same cause to the demo client's Run
// loop, which is what actually transfers control to the terminate
// path (spec.md 7).
func (a *Adapter) Exit(request core.Envelope, cause error) {
	a.log.Errorf("terminating on message from %s: %v", request.Src, cause)
}

// Run starts the underlying Maelstrom node's blocking read loop.
func (a *Adapter) Run() error {
	return a.node.Run()
}
