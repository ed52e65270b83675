package core_test

import (
	"sync"

	"github.com/ripplewave/gossip-broadcast/pkg/gossip/core"
	"github.com/ripplewave/gossip-broadcast/pkg/gossip/types"
)

// fakeRuntime is an in-memory core.Runtime used to exercise the
// engine without a real Maelstrom process, the way the teacher's
// test.TestInvoker/test.UnityCluster stand in for a real transport in
// test/testing.go.
type fakeRuntime struct {
	self types.PeerID

	mutex sync.Mutex

	replies    []sentReply
	rpcs       []sentRPC
	exits      []exitCall
	neighbours []types.PeerID
}

type sentReply struct {
	dest types.PeerID
	body interface{}
}

type sentRPC struct {
	dest types.PeerID
	body interface{}
}

type exitCall struct {
	src   types.PeerID
	cause error
}

func newFakeRuntime(self types.PeerID) *fakeRuntime {
	return &fakeRuntime{self: self}
}

func (f *fakeRuntime) Reply(request core.Envelope, body interface{}) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.replies = append(f.replies, sentReply{dest: request.Src, body: body})
	return nil
}

func (f *fakeRuntime) ReplyOK(request core.Envelope) error {
	return f.Reply(request, types.BroadcastOk{Type: types.TagBroadcastOk})
}

func (f *fakeRuntime) ExecuteRPC(dest types.PeerID, body interface{}) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.rpcs = append(f.rpcs, sentRPC{dest: dest, body: body})
}

func (f *fakeRuntime) Neighbours() []types.PeerID {
	return f.neighbours
}

func (f *fakeRuntime) NodeID() types.PeerID {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.self
}

// setSelf simulates the Maelstrom runtime learning its own identity
// only once Run() processes the init message: newFakeRuntime stands in
// for construction time (identity unknown), setSelf stands in for the
// moment init is handled, strictly before any other message reaches
// the node.
func (f *fakeRuntime) setSelf(self types.PeerID) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.self = self
}

func (f *fakeRuntime) Exit(request core.Envelope, cause error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.exits = append(f.exits, exitCall{src: request.Src, cause: cause})
}

func (f *fakeRuntime) repliesSnapshot() []sentReply {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	out := make([]sentReply, len(f.replies))
	copy(out, f.replies)
	return out
}

func (f *fakeRuntime) rpcsSnapshot() []sentRPC {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	out := make([]sentRPC, len(f.rpcs))
	copy(out, f.rpcs)
	return out
}

func (f *fakeRuntime) exitsSnapshot() []exitCall {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	out := make([]exitCall, len(f.exits))
	copy(out, f.exits)
	return out
}

func envelope(src types.PeerID, body string) core.Envelope {
	return core.Envelope{Src: src, Dest: "n1", Body: []byte(body)}
}
