package core_test

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/ripplewave/gossip-broadcast/pkg/gossip/core"
	"github.com/ripplewave/gossip-broadcast/pkg/gossip/definition"
	"github.com/ripplewave/gossip-broadcast/pkg/gossip/types"
)

// Adapted from the teacher's fuzzy/commit_test.go: many goroutines
// hammer the same handler with duplicate broadcasts of the same
// message plus concurrent reads, then every spawned retry goroutine
// must have drained before the process ends.
func Test_ConcurrentDuplicateBroadcastsLeaveNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	rt := newFakeRuntime("n1")
	state := core.NewState("n1")
	state.ReplaceNeighbours([]types.PeerID{"n2", "n3"})
	log := definition.NewDefaultLogger("n1")
	scheduler := core.NewScheduler(state, rt, log).WithPeriod(5 * time.Millisecond)
	handler := core.NewHandler(state, rt, scheduler, log)

	body, _ := json.Marshal(types.BroadcastRequest{Type: types.TagBroadcast, Message: 99})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handler.Handle(envelope("c1", string(body)))
		}()
	}

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			readBody, _ := json.Marshal(types.ReadRequest{Type: types.TagRead})
			handler.Handle(envelope("c1", string(readBody)))
		}()
	}

	wg.Wait()

	if got := state.Snapshot(); len(got) != 1 || got[0] != 99 {
		t.Fatalf("expected exactly one observed message, got %v", got)
	}

	// Nothing shrinks the pending set on its own in this design
	// (DESIGN.md open question 1); clear it so the single spawned
	// retry goroutine can drain before goleak checks for survivors.
	state.Clear(99)
	scheduler.Wait()
}
