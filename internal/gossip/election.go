package gossip

import (
	"sync"

	"go.uber.org/zap"

	"rumormill/internal/election"
	"rumormill/internal/rumor"
	"rumormill/internal/storage"
)

// electionBook runs the election protocol for one purpose. Leader and update
// elections share the logic and differ only in the rumor kind they store.
type electionBook[T rumor.ElectionRumor[T]] struct {
	s       *Server
	purpose string
	store   *storage.Store[T]
	wrap    func(*rumor.Election) T

	mu sync.Mutex
	// suitability per group this member stands in.
	suitability map[string]uint64
}

func newElectionBook[T rumor.ElectionRumor[T]](s *Server, purpose string, wrap func(*rumor.Election) T) *electionBook[T] {
	return &electionBook[T]{
		s:           s,
		purpose:     purpose,
		store:       storage.New[T](),
		wrap:        wrap,
		suitability: make(map[string]uint64),
	}
}

func (b *electionBook[T]) participant(group string) (uint64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	suit, ok := b.suitability[group]
	return suit, ok
}

func (b *electionBook[T]) get(group string) (*rumor.Election, bool) {
	r, ok := b.store.Get(group, rumor.ElectionID)
	if !ok {
		return nil, false
	}
	return r.Core(), true
}

func (b *electionBook[T]) logger(group string) *zap.Logger {
	return b.s.log.With(zap.String("election", b.purpose), zap.String("service_group", group))
}

// start enters this member as a candidate for group.
func (b *electionBook[T]) start(group string, suitability, term uint64) error {
	if _, err := rumor.ParseServiceGroup(group); err != nil {
		return err
	}
	b.mu.Lock()
	b.suitability[group] = suitability
	b.mu.Unlock()

	e := rumor.NewElection(b.s.MemberID(), group, term, suitability)
	if !b.s.CheckQuorum(group) {
		e.Status = rumor.NoQuorum
	}
	b.logger(group).Info("starting election", zap.Uint64("term", term), zap.Uint64("suitability", suitability))
	b.s.metrics.Elections.WithLabelValues(b.purpose, "started").Inc()
	b.insert(b.wrap(e))
	return nil
}

// insert merges an election rumor, then lets this member join a newer term,
// cast its vote and, as favourite, decide the outcome.
func (b *electionBook[T]) insert(r T) bool {
	core := r.Core()
	group := core.ServiceGroup
	if _, err := rumor.ParseServiceGroup(group); err != nil {
		b.s.log.Error("discarding election rumor", zap.String("election", b.purpose), zap.Error(err))
		b.s.metrics.Dropped.WithLabelValues("invalid_service_group").Inc()
		return false
	}

	self := b.s.MemberID()
	prev, had := b.get(group)
	changed := b.store.Insert(r)

	// A newer term from someone else: stand again in it.
	if suit, ok := b.participant(group); ok && core.MemberID != self && (!had || core.Term > prev.Term) {
		own := rumor.NewElection(self, group, core.Term, suit)
		if b.store.Insert(b.wrap(own)) {
			changed = true
		}
	}

	if b.reconcile(group) {
		changed = true
	}
	if changed {
		b.s.heat.StartHotRumor(rumor.KeyOf(r))
	}
	return changed
}

// reconcile casts this member's vote in the group's election and, if this
// member is the favourite, stamps the status the tally calls for.
func (b *electionBook[T]) reconcile(group string) bool {
	e, ok := b.get(group)
	if !ok {
		return false
	}
	self := b.s.MemberID()
	changed := false

	if _, participant := b.participant(group); participant && e.Status != rumor.Finished && !e.HasVote(self) {
		e.Vote(self)
		if b.store.Insert(b.wrap(e)) {
			changed = true
		}
		if e, ok = b.get(group); !ok {
			return changed
		}
	}

	if e.MemberID == self && e.Status != rumor.Finished {
		status := election.Evaluate(e, self, b.s.GetElectorate(group), b.s.CheckQuorum(group))
		if status != e.Status {
			e.Status = status
			if b.store.Insert(b.wrap(e)) {
				changed = true
				if status == rumor.Finished {
					b.logger(group).Info("won election", zap.Uint64("term", e.Term), zap.Strings("votes", e.Votes))
					b.s.metrics.Elections.WithLabelValues(b.purpose, "won").Inc()
				} else {
					b.logger(group).Warn("election lost quorum", zap.Uint64("term", e.Term))
					b.s.metrics.Elections.WithLabelValues(b.purpose, "no_quorum").Inc()
				}
			}
		}
	}

	if changed {
		b.s.heat.StartHotRumor(rumor.KeyOf(b.wrap(e)))
	}
	return changed
}

// restart opens a new term for every group whose election can no longer
// stand, and re-evaluates the rest. It returns the number of restarts.
func (b *electionBook[T]) restart() int {
	self := b.s.MemberID()
	restarted := 0
	for _, group := range b.store.Keys() {
		suit, ok := b.participant(group)
		if !ok {
			continue
		}
		e, ok := b.get(group)
		if !ok {
			continue
		}
		hasQuorum := b.s.CheckQuorum(group)
		if !election.NeedsRestart(e, self, hasQuorum, b.leaderDead(e.MemberID)) {
			b.reconcile(group)
			continue
		}
		next := election.Restart(e, self, suit, hasQuorum)
		if b.insert(b.wrap(next)) {
			restarted++
			b.logger(group).Info("restarting election", zap.Uint64("term", next.Term), zap.Stringer("previous", e.Status))
			b.s.metrics.Elections.WithLabelValues(b.purpose, "restarted").Inc()
		}
	}
	return restarted
}

func (b *electionBook[T]) leaderDead(id string) bool {
	h, ok := b.s.members.HealthOf(id)
	if !ok {
		return false
	}
	return h == rumor.Confirmed || h == rumor.Departed
}

// StartElection enters this member as a leader candidate for group.
func (s *Server) StartElection(group string, suitability, term uint64) error {
	return s.elections.start(group, suitability, term)
}

// StartUpdateElection enters this member as an update leader candidate.
func (s *Server) StartUpdateElection(group string, suitability, term uint64) error {
	return s.updates.start(group, suitability, term)
}

// InsertElection merges a leader election rumor.
func (s *Server) InsertElection(e *rumor.Election) bool {
	return s.elections.insert(e)
}

// InsertUpdateElection merges an update election rumor.
func (s *Server) InsertUpdateElection(e *rumor.ElectionUpdate) bool {
	return s.updates.insert(e)
}

// ElectionFor returns a copy of the leader election of group.
func (s *Server) ElectionFor(group string) (*rumor.Election, bool) {
	return s.elections.get(group)
}

// UpdateElectionFor returns a copy of the update election of group.
func (s *Server) UpdateElectionFor(group string) (*rumor.Election, bool) {
	return s.updates.get(group)
}

// ElectionState returns this member's view of the leader election of group.
func (s *Server) ElectionState(group string) election.LocalState {
	e, _ := s.elections.get(group)
	return election.StateFor(e, s.MemberID())
}

// UpdateElectionState returns this member's view of the update election.
func (s *Server) UpdateElectionState(group string) election.LocalState {
	e, _ := s.updates.get(group)
	return election.StateFor(e, s.MemberID())
}

// RestartElections restarts every election that can no longer stand and
// returns how many were restarted.
func (s *Server) RestartElections() int {
	return s.elections.restart() + s.updates.restart()
}
