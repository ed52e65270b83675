package core

import (
	"sync"

	"github.com/ripplewave/gossip-broadcast/pkg/gossip/types"
)

// State co-owns the three mutable structures the protocol needs: the
// seen set, the neighbour table and the unacked-delivery map. All
// three are acquired as a single unit, mirroring the teacher's single
// *sync.Mutex guarding every co-owned field on Peer.
type State struct {
	mutex *sync.Mutex

	self types.PeerID

	seen map[types.MessageID]struct{}

	neighbours []types.PeerID

	unacked map[types.MessageID]map[types.PeerID]struct{}
}

// NewState creates an empty State for the given node identity. The
// neighbour table starts empty; it stays that way until the first
// Topology request arrives. self is only a bootstrap value: under the
// real Maelstrom runtime the identity is not known until Run() has
// processed the init message, so callers should keep it current with
// SetSelf rather than trust this initial value for the life of the
// process.
func NewState(self types.PeerID) *State {
	return &State{
		mutex:   &sync.Mutex{},
		self:    self,
		seen:    make(map[types.MessageID]struct{}),
		unacked: make(map[types.MessageID]map[types.PeerID]struct{}),
	}
}

// Observe is the atomic dedup gate. It returns true iff m was not
// already present in the seen set, inserting it on true. Only a true
// return authorises arming a retry task; every other caller must
// treat false as "nothing further to do".
func (s *State) Observe(m types.MessageID) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.seen[m]; ok {
		return false
	}
	s.seen[m] = struct{}{}
	return true
}

// ReplaceNeighbours overwrites the neighbour table wholesale. Atomic
// with respect to any reader holding the lock; a retry task that
// already copied a target list before this call may keep sending to
// now-stale peers until its next iteration, which is acceptable per
// spec.
func (s *State) ReplaceNeighbours(peers []types.PeerID) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cp := make([]types.PeerID, len(peers))
	copy(cp, peers)
	s.neighbours = cp
}

// Snapshot returns a copy of the seen set at the moment of the call.
func (s *State) Snapshot() []types.MessageID {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	out := make([]types.MessageID, 0, len(s.seen))
	for m := range s.seen {
		out = append(out, m)
	}
	return out
}

// Arm inserts m -> targets into the unacked map, overwriting any
// prior entry. Called exactly once per message, at the site that won
// the Observe race.
func (s *State) Arm(m types.MessageID, targets []types.PeerID) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	set := make(map[types.PeerID]struct{}, len(targets))
	for _, t := range targets {
		set[t] = struct{}{}
	}
	s.unacked[m] = set
}

// Pending returns a snapshot copy of the current unacked targets for
// m, or nil if m has no entry.
func (s *State) Pending(m types.MessageID) []types.PeerID {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	set, ok := s.unacked[m]
	if !ok {
		return nil
	}
	out := make([]types.PeerID, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	return out
}

// Clear removes m from the unacked map. It never touches the seen
// set, so invariant 1 (UnackedMap membership implies SeenSet
// membership) cannot be broken by it.
func (s *State) Clear(m types.MessageID) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.unacked, m)
}

// NeighboursExcept returns the current neighbour table with sender
// removed, used to compute the initial pending set at acceptance
// time. self is always excluded too, satisfying invariant 2 even for
// a pathological self-addressed broadcast.
func (s *State) NeighboursExcept(sender types.PeerID) []types.PeerID {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	out := make([]types.PeerID, 0, len(s.neighbours))
	for _, n := range s.neighbours {
		if n == sender || n == s.self {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Self returns this node's own identity.
func (s *State) Self() types.PeerID {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.self
}

// SetSelf refreshes this node's own identity. The Handler calls this
// at the top of every Handle, consulting the live Runtime.NodeID()
// instead of trusting the value captured at NewState time — under the
// real Maelstrom binding, NodeID() only becomes valid once Run() has
// processed the init message, which happens after construction but
// before any other message is dispatched.
func (s *State) SetSelf(self types.PeerID) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.self = self
}
