package gossip_test

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/ripplewave/gossip-broadcast/pkg/gossip"
	"github.com/ripplewave/gossip-broadcast/pkg/gossip/core"
	"github.com/ripplewave/gossip-broadcast/pkg/gossip/types"
)

type fakeRuntime struct {
	self  types.PeerID
	mutex sync.Mutex
	rpcs  int
}

func (f *fakeRuntime) Reply(request core.Envelope, body interface{}) error { return nil }
func (f *fakeRuntime) ReplyOK(request core.Envelope) error                 { return nil }
func (f *fakeRuntime) ExecuteRPC(dest types.PeerID, body interface{}) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.rpcs++
}
func (f *fakeRuntime) Neighbours() []types.PeerID  { return nil }
func (f *fakeRuntime) NodeID() types.PeerID        { return f.self }
func (f *fakeRuntime) Exit(core.Envelope, error)   {}

func TestNewNode_WiresDefaultsAndAcceptsBroadcast(t *testing.T) {
	rt := &fakeRuntime{self: "n1"}
	n, err := gossip.NewNode(rt, gossip.Options{})
	if err != nil {
		t.Fatalf("unexpected error constructing node: %v", err)
	}

	n.State.ReplaceNeighbours([]types.PeerID{"n2"})

	body, _ := json.Marshal(types.BroadcastRequest{Type: types.TagBroadcast, Message: 1})
	if err := n.Handle(core.Envelope{Src: "c1", Dest: "n1", Body: body}); err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		rt.mutex.Lock()
		count := rt.rpcs
		rt.mutex.Unlock()
		if count > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	n.State.Clear(1)
	n.Shutdown()
}

func TestNewNode_RejectsInvalidVersionConstraint(t *testing.T) {
	rt := &fakeRuntime{self: "n1"}
	if _, err := gossip.NewNode(rt, gossip.Options{VersionConstraint: "not a constraint"}); err == nil {
		t.Fatalf("expected an error for an invalid version constraint")
	}
}
