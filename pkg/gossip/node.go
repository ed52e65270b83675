// Package gossip wires the Node State, Handler, Retry Scheduler and a
// Runtime Adapter into a single per-node gossip dissemination engine.
package gossip

import (
	"time"

	"github.com/ripplewave/gossip-broadcast/pkg/gossip/core"
	"github.com/ripplewave/gossip-broadcast/pkg/gossip/definition"
	"github.com/ripplewave/gossip-broadcast/pkg/gossip/types"
)

// Node composes the core engine pieces the way the teacher's Unity
// (protocol.go) composes state, configuration, transport and logger
// behind a single constructor.
type Node struct {
	State     *core.State
	Handler   *core.Handler
	Scheduler *core.Scheduler
	Gate      *definition.Gate
	Log       definition.Logger

	runtime core.Runtime
}

// Options configure a Node at construction time; all fields are
// optional and fall back to spec defaults.
type Options struct {
	RetryPeriod       *int // milliseconds; nil keeps the spec default of 1000ms
	Fanout            *int // nil keeps the spec default of 3
	VersionConstraint string
	Logger            definition.Logger
}

// NewNode builds a Node bound to the given runtime, taking its initial
// identity from runtime.NodeID(). The
// neighbour table starts empty (the bootstrap phase of spec.md 3)
// until the first Topology request is handled.
func NewNode(runtime core.Runtime, opts Options) (*Node, error) {
	log := opts.Logger
	if log == nil {
		log = definition.NewDefaultLogger(string(runtime.NodeID()))
	}

	constraint := opts.VersionConstraint
	if constraint == "" {
		constraint = ">= " + types.CurrentProtocolVersion
	}
	gate, err := definition.NewGate(constraint)
	if err != nil {
		return nil, err
	}

	state := core.NewState(runtime.NodeID())
	scheduler := core.NewScheduler(state, runtime, log)
	if opts.RetryPeriod != nil {
		scheduler.WithPeriod(time.Duration(*opts.RetryPeriod) * time.Millisecond)
	}
	if opts.Fanout != nil {
		scheduler.WithFanout(*opts.Fanout)
	}
	handler := core.NewHandler(state, runtime, scheduler, log).WithGate(gate)

	return &Node{
		State:     state,
		Handler:   handler,
		Scheduler: scheduler,
		Gate:      gate,
		Log:       log,
		runtime:   runtime,
	}, nil
}

// Handle dispatches one inbound envelope to the Handler. Exposed so
// the Maelstrom adapter (or a test fake) can drive the Node without
// reaching into its internals.
func (n *Node) Handle(request core.Envelope) error {
	return n.Handler.Handle(request)
}

// Shutdown waits for every currently-running retry task to drain.
// There is no persisted state to flush (spec.md 6); this only gives a
// caller a way to wait for outstanding goroutines before exiting.
func (n *Node) Shutdown() {
	n.Scheduler.Wait()
}
