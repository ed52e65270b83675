// Command gossipnode bootstraps a single gossip-broadcast node on top
// of the Maelstrom demo runtime. It contains no dissemination logic:
// it parses flags, builds the logger and runtime adapter, wires them
// into a gossip.Node, and runs. Process bootstrap, logging
// configuration and CLI parsing are explicitly out of the core's
// behavioural contract (spec.md 1) but are still built against the
// teacher's ambient stack rather than bare stdlib.
package main

import (
	"os"

	maelstrom "github.com/jepsen-io/maelstrom/demo/go"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/ripplewave/gossip-broadcast/pkg/gossip"
	"github.com/ripplewave/gossip-broadcast/pkg/gossip/definition"
	gmaelstrom "github.com/ripplewave/gossip-broadcast/pkg/gossip/maelstrom"
)

var (
	debug             = kingpin.Flag("debug", "enable debug-level logging").Bool()
	retryPeriodMillis = kingpin.Flag("retry-period", "retry scheduler inter-attempt delay, in milliseconds").Default("1000").Int()
	fanout            = kingpin.Flag("fanout", "maximum peers contacted per retry attempt").Default("3").Int()
	minPeerVersion    = kingpin.Flag("min-peer-version", "lowest protocol version this node accepts from peers").Default("1.0.0").String()
)

func main() {
	kingpin.Parse()

	defer func() {
		if r := recover(); r != nil {
			os.Stderr.WriteString("fatal: gossip node panicked, shared state cannot be trusted, aborting\n")
			os.Exit(1)
		}
	}()

	node := maelstrom.NewNode()

	log := definition.NewDefaultLogger(node.ID())
	log.ToggleDebug(*debug)

	adapter := gmaelstrom.NewAdapter(node, log)

	n, err := gossip.NewNode(adapter, gossip.Options{
		RetryPeriod:       retryPeriodMillis,
		Fanout:            fanout,
		VersionConstraint: ">= " + *minPeerVersion,
		Logger:            log,
	})
	if err != nil {
		log.Fatalf("failed constructing gossip node: %v", err)
	}

	adapter.Bind(n.Handle)

	if err := adapter.Run(); err != nil {
		log.Fatalf("node exited with error: %v", err)
	}
}
