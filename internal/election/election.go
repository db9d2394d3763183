package election

import (
	"rumormill/internal/rumor"
)

// LocalState is how a member sees an election it takes part in.
type LocalState int

const (
	AwaitingElection LocalState = iota
	InElection
	Leader
	Follower
)

// String returns the string representation of LocalState.
func (s LocalState) String() string {
	switch s {
	case AwaitingElection:
		return "AWAITING_ELECTION"
	case InElection:
		return "IN_ELECTION"
	case Leader:
		return "LEADER"
	case Follower:
		return "FOLLOWER"
	default:
		return "UNKNOWN"
	}
}

// StateFor derives the local view of e for selfID. A nil election means no
// election has been seen yet.
func StateFor(e *rumor.Election, selfID string) LocalState {
	switch {
	case e == nil:
		return AwaitingElection
	case e.Status != rumor.Finished:
		return InElection
	case e.MemberID == selfID:
		return Leader
	default:
		return Follower
	}
}

// Tally counts the votes cast by members of the electorate.
func Tally(e *rumor.Election, electorate []string) int {
	n := 0
	for _, id := range electorate {
		if e.HasVote(id) {
			n++
		}
	}
	return n
}

// Evaluate returns the status the candidate selfID should stamp on e.
// Only the favourite decides; for anyone else the status is unchanged.
func Evaluate(e *rumor.Election, selfID string, electorate []string, hasQuorum bool) rumor.ElectionStatus {
	if e.Status == rumor.Finished || e.MemberID != selfID {
		return e.Status
	}
	if !hasQuorum {
		return rumor.NoQuorum
	}
	if len(electorate) > 0 && Tally(e, electorate) == len(electorate) {
		return rumor.Finished
	}
	return e.Status
}

// NeedsRestart reports whether e must be restarted at a new term: any
// election whose favourite is confirmed dead or departed, a finished
// election whose leader is selfID and has lost quorum, or a no-quorum
// election that regained it.
func NeedsRestart(e *rumor.Election, selfID string, hasQuorum, leaderDead bool) bool {
	if leaderDead && e.MemberID != selfID {
		return true
	}
	switch e.Status {
	case rumor.Finished:
		return e.MemberID == selfID && !hasQuorum
	case rumor.NoQuorum:
		return hasQuorum
	default:
		return false
	}
}

// Restart returns a fresh election one term after e naming selfID as the
// candidate.
func Restart(e *rumor.Election, selfID string, suitability uint64, hasQuorum bool) *rumor.Election {
	next := rumor.NewElection(selfID, e.ServiceGroup, e.Term+1, suitability)
	if !hasQuorum {
		next.Status = rumor.NoQuorum
	}
	return next
}
