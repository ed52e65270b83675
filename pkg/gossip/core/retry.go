package core

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ripplewave/gossip-broadcast/pkg/gossip/definition"
	"github.com/ripplewave/gossip-broadcast/pkg/gossip/types"
)

// RandomPeerCount is the fan-out cap per retry attempt (spec.md 4.4).
const RandomPeerCount = 3

// RetryPeriod is the fixed inter-attempt delay (spec.md 4.4).
const RetryPeriod = time.Second

// Scheduler launches and tracks at most one retry task per MessageID,
// the way the teacher keys its reprocessMessage loop by UID rather
// than sweeping the whole map on a poll interval (see DESIGN.md).
type Scheduler struct {
	state   *State
	runtime Runtime
	log     definition.Logger

	period  time.Duration
	fanout  int

	mutex   sync.Mutex
	running map[types.MessageID]struct{}

	wg sync.WaitGroup
}

// NewScheduler creates a Scheduler bound to the given State and
// Runtime, using the spec's default period and fan-out cap.
func NewScheduler(state *State, runtime Runtime, log definition.Logger) *Scheduler {
	return &Scheduler{
		state:   state,
		runtime: runtime,
		log:     log,
		period:  RetryPeriod,
		fanout:  RandomPeerCount,
		running: make(map[types.MessageID]struct{}),
	}
}

// WithPeriod overrides the retry period, used by the CLI's
// --retry-period flag. Returns the Scheduler for chaining.
func (s *Scheduler) WithPeriod(d time.Duration) *Scheduler {
	s.period = d
	return s
}

// WithFanout overrides the per-attempt fan-out cap, used by the CLI's
// --fanout flag.
func (s *Scheduler) WithFanout(n int) *Scheduler {
	s.fanout = n
	return s
}

// Launch starts a retry task for m, unless one is already running.
// This is the unique spawn site in the engine (invariant 4): the
// Handler calls it only immediately after winning the Observe race.
func (s *Scheduler) Launch(m types.MessageID) {
	s.mutex.Lock()
	if _, ok := s.running[m]; ok {
		s.mutex.Unlock()
		return
	}
	s.running[m] = struct{}{}
	s.mutex.Unlock()

	s.wg.Add(1)
	go s.run(m)
}

// Wait blocks until every currently-running retry task has drained.
// Used by tests and by graceful shutdown.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// run is the ARMED/DRAIN state machine of spec.md 4.4. It never holds
// the state lock across an RPC or the sleep: Pending takes a snapshot
// copy under the lock, the lock is released, and only then are RPCs
// issued.
func (s *Scheduler) run(m types.MessageID) {
	defer s.wg.Done()
	defer func() {
		s.mutex.Lock()
		delete(s.running, m)
		s.mutex.Unlock()
	}()
	defer s.state.Clear(m)

	for {
		pending := s.state.Pending(m)
		if len(pending) == 0 {
			s.log.Debugf("message %d drained, stopping retry task", m)
			return
		}

		targets := shuffle(pending)
		if len(targets) > s.fanout {
			targets = targets[:s.fanout]
		}

		s.log.Debugf("resending message %d to %v", m, targets)
		for _, peer := range targets {
			s.runtime.ExecuteRPC(peer, types.NewBroadcastRequest(m))
		}

		time.Sleep(s.period)
	}
}

// shuffle returns a copy of peers in a uniformly random permutation,
// using math/rand/v2's package-level generator, which is safe for
// concurrent use by many retry tasks and is not seeded per call.
func shuffle(peers []types.PeerID) []types.PeerID {
	out := make([]types.PeerID, len(peers))
	copy(out, peers)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
