package core

import (
	"encoding/json"

	"github.com/ripplewave/gossip-broadcast/pkg/gossip/definition"
	"github.com/ripplewave/gossip-broadcast/pkg/gossip/types"
)

// tagPeek extracts just the discriminator field, the way the teacher
// peeks WithRPCHeader before committing to a concrete request type in
// protocol.go's checkRPCHeader.
type tagPeek struct {
	Type string `json:"type"`
}

// Handler is the single entry point invoked by the Runtime for every
// inbound message. It mutates State through State's single lock, emits
// exactly one reply, and for a newly observed broadcast launches a
// Scheduler task — never blocking the reply on that launch. Each State
// call takes that lock on its own: for a broadcast, the dedup check,
// the target computation and the arm are three separate critical
// sections, not one.
type Handler struct {
	state     *State
	runtime   Runtime
	scheduler *Scheduler
	log       definition.Logger
	gate      *definition.Gate
}

// NewHandler wires a Handler against the given State, Runtime and
// Scheduler. The Scheduler is expected to already be bound to the
// same State and Runtime.
func NewHandler(state *State, runtime Runtime, scheduler *Scheduler, log definition.Logger) *Handler {
	return &Handler{
		state:     state,
		runtime:   runtime,
		scheduler: scheduler,
		log:       log,
	}
}

// WithGate attaches a protocol version Gate, generalizing the
// teacher's checkRPCHeader: a broadcast carrying a ProtocolVersion the
// gate rejects is routed to the terminate path instead of being
// accepted. A nil or never-set gate accepts every version.
func (h *Handler) WithGate(gate *definition.Gate) *Handler {
	h.gate = gate
	return h
}

// Handle dispatches one inbound envelope. On parse failure or unknown
// tag it calls Runtime.Exit and returns the terminal cause so the
// caller (the Runtime Adapter) can transfer control to its own
// terminate path; on a handled request it returns nil.
//
// The node's own identity is re-resolved from the Runtime on every
// call rather than trusted from construction time: under the real
// Maelstrom binding, Runtime.NodeID() is only valid once Run() has
// processed the init message, which happens strictly before any other
// message is dispatched but after gossip.NewNode has already built
// State. Consulting it here, live, is what keeps State.Self() correct
// for topology lookups and self-exclusion.
func (h *Handler) Handle(request Envelope) error {
	h.state.SetSelf(h.runtime.NodeID())

	var peek tagPeek
	if err := json.Unmarshal(request.Body, &peek); err != nil {
		h.log.Warnf("failed decoding body from %s: %v", request.Src, err)
		h.runtime.Exit(request, ErrUnrecognized)
		return ErrUnrecognized
	}

	switch peek.Type {
	case types.TagRead:
		h.handleRead(request)
		return nil
	case types.TagBroadcast:
		return h.handleBroadcast(request)
	case types.TagTopology:
		return h.handleTopology(request)
	default:
		h.log.Warnf("unrecognized tag %q from %s", peek.Type, request.Src)
		h.runtime.Exit(request, ErrUnrecognized)
		return ErrUnrecognized
	}
}

func (h *Handler) handleRead(request Envelope) {
	snapshot := h.state.Snapshot()
	if err := h.runtime.Reply(request, types.NewReadOk(snapshot)); err != nil {
		h.log.Warnf("failed replying read_ok to %s: %v", request.Src, err)
	}
}

// handleBroadcast implements the dedup-gate-then-arm-then-reply
// sequence of spec.md 4.3. The reply is emitted regardless of
// whether m was new. The scheduler task (if any) is launched before
// the reply is sent, so its first RPC may go out before or after the
// reply; the reply never waits on it.
func (h *Handler) handleBroadcast(request Envelope) error {
	var body types.BroadcastRequest
	if err := json.Unmarshal(request.Body, &body); err != nil {
		h.log.Warnf("failed decoding broadcast body from %s: %v", request.Src, err)
		h.runtime.Exit(request, ErrUnrecognized)
		return ErrUnrecognized
	}

	if h.gate != nil && !h.gate.Accepts(body.ProtocolVersion) {
		h.log.Warnf("rejecting broadcast from %s: unsupported protocol version %q", request.Src, body.ProtocolVersion)
		h.runtime.Exit(request, ErrUnsupportedProtocol)
		return ErrUnsupportedProtocol
	}

	sender := request.Src
	if h.state.Observe(body.Message) {
		targets := h.state.NeighboursExcept(sender)
		h.state.Arm(body.Message, targets)
		h.scheduler.Launch(body.Message)
	}

	if err := h.runtime.Reply(request, types.BroadcastOk{Type: types.TagBroadcastOk}); err != nil {
		h.log.Warnf("failed replying broadcast_ok to %s: %v", request.Src, err)
	}
	return nil
}

func (h *Handler) handleTopology(request Envelope) error {
	var body types.TopologyRequest
	if err := json.Unmarshal(request.Body, &body); err != nil {
		h.log.Warnf("failed decoding topology body from %s: %v", request.Src, err)
		h.runtime.Exit(request, ErrUnrecognized)
		return ErrUnrecognized
	}

	peers, ok := body.Topology[h.state.Self()]
	if !ok {
		h.log.Errorf("topology map missing self %s", h.state.Self())
		h.runtime.Exit(request, ErrMissingSelf)
		return ErrMissingSelf
	}

	h.state.ReplaceNeighbours(peers)
	if err := h.runtime.Reply(request, types.TopologyOk{Type: types.TagTopologyOk}); err != nil {
		h.log.Warnf("failed replying topology_ok to %s: %v", request.Src, err)
	}
	return nil
}
