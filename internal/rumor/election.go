package rumor

import (
	"slices"
)

// ElectionStatus is the status carried by an election rumor.
// Running < NoQuorum < Finished.
type ElectionStatus int

const (
	Running ElectionStatus = iota
	NoQuorum
	Finished
)

// String returns the string representation of ElectionStatus.
func (s ElectionStatus) String() string {
	switch s {
	case Running:
		return "RUNNING"
	case NoQuorum:
		return "NO_QUORUM"
	case Finished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// Election is the leader election record of one service group.
// MemberID is the current favourite; Votes holds the members that have
// acknowledged it, kept sorted and free of duplicates.
type Election struct {
	MemberID     string
	ServiceGroup string
	Term         uint64
	Suitability  uint64
	Status       ElectionStatus
	Votes        []string
}

// NewElection returns a running election naming memberID as candidate with
// its own vote.
func NewElection(memberID, group string, term, suitability uint64) *Election {
	return &Election{
		MemberID:     memberID,
		ServiceGroup: group,
		Term:         term,
		Suitability:  suitability,
		Status:       Running,
		Votes:        []string{memberID},
	}
}

func (e *Election) Kind() Kind  { return KindElection }
func (e *Election) Key() string { return e.ServiceGroup }
func (e *Election) ID() string  { return ElectionID }

// Core returns the election itself.
func (e *Election) Core() *Election { return e }

// Clone returns a deep copy.
func (e *Election) Clone() *Election {
	c := *e
	c.Votes = slices.Clone(e.Votes)
	return &c
}

// BetterThan reports whether e's candidate beats other's: lower suitability
// wins, ties go to the lexicographically lower member id.
func (e *Election) BetterThan(other *Election) bool {
	if e.Suitability != other.Suitability {
		return e.Suitability < other.Suitability
	}
	return e.MemberID < other.MemberID
}

// HasVote reports whether memberID has voted.
func (e *Election) HasVote(memberID string) bool {
	_, found := slices.BinarySearch(e.Votes, memberID)
	return found
}

// Vote adds memberID to the votes. It reports whether the set grew.
func (e *Election) Vote(memberID string) bool {
	i, found := slices.BinarySearch(e.Votes, memberID)
	if found {
		return false
	}
	e.Votes = slices.Insert(e.Votes, i, memberID)
	return true
}

// Equal reports whether two elections hold the same state.
func (e *Election) Equal(other *Election) bool {
	return e.MemberID == other.MemberID &&
		e.ServiceGroup == other.ServiceGroup &&
		e.Term == other.Term &&
		e.Suitability == other.Suitability &&
		e.Status == other.Status &&
		slices.Equal(e.Votes, other.Votes)
}

// Merge folds other into e.
//
// A higher term replaces the whole record. Within a term a finished election
// beats an unfinished one; between two finished records the better candidate
// wins, and between two unfinished records the better candidate becomes the
// favourite, votes are unioned and the more severe status is kept.
func (e *Election) Merge(other *Election) bool {
	if e.Equal(other) {
		return false
	}
	if other.Term != e.Term {
		if other.Term > e.Term {
			*e = *other.Clone()
			return true
		}
		return false
	}

	ef, of := e.Status == Finished, other.Status == Finished
	switch {
	case ef && !of:
		return false
	case of && !ef:
		*e = *other.Clone()
		return true
	case ef && of:
		if other.BetterThan(e) {
			*e = *other.Clone()
			return true
		}
		if other.MemberID != e.MemberID || other.Suitability != e.Suitability {
			return false
		}
	}

	before := e.Clone()
	if other.BetterThan(e) {
		e.MemberID = other.MemberID
		e.Suitability = other.Suitability
	}
	for _, v := range other.Votes {
		e.Vote(v)
	}
	if other.Status > e.Status {
		e.Status = other.Status
	}
	return !before.Equal(e)
}

// ElectionUpdate is an election for the update leader of a service group.
// It merges like Election but lives in its own namespace.
type ElectionUpdate struct {
	Election
}

// NewElectionUpdate wraps an election as an update election.
func NewElectionUpdate(e *Election) *ElectionUpdate {
	return &ElectionUpdate{Election: *e.Clone()}
}

func (u *ElectionUpdate) Kind() Kind { return KindElectionUpdate }

// Core returns the embedded election.
func (u *ElectionUpdate) Core() *Election { return &u.Election }

// Clone returns a deep copy.
func (u *ElectionUpdate) Clone() *ElectionUpdate {
	return &ElectionUpdate{Election: *u.Election.Clone()}
}

// Merge folds other into u using the election merge rules.
func (u *ElectionUpdate) Merge(other *ElectionUpdate) bool {
	return u.Election.Merge(&other.Election)
}

// ElectionRumor is satisfied by both election kinds so the protocol can be
// written once for either purpose.
type ElectionRumor[T any] interface {
	Mergeable[T]
	Core() *Election
}
