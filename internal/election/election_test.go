package election

import (
	"testing"

	"rumormill/internal/rumor"
)

func TestStateFor(t *testing.T) {
	running := rumor.NewElection("a", "redis.default", 0, 1)
	finished := running.Clone()
	finished.Status = rumor.Finished

	tests := []struct {
		name string
		e    *rumor.Election
		self string
		want LocalState
	}{
		{"no election", nil, "a", AwaitingElection},
		{"running", running, "a", InElection},
		{"finished as leader", finished, "a", Leader},
		{"finished as follower", finished, "b", Follower},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateFor(tt.e, tt.self); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	electorate := []string{"a", "b", "c"}

	e := rumor.NewElection("a", "redis.default", 0, 1)
	if got := Evaluate(e, "a", electorate, true); got != rumor.Running {
		t.Errorf("Expected Running with one vote, got %s", got)
	}

	e.Vote("b")
	e.Vote("c")
	if got := Evaluate(e, "a", electorate, true); got != rumor.Finished {
		t.Errorf("Expected Finished once all electors voted, got %s", got)
	}
	if got := Evaluate(e, "b", electorate, true); got != rumor.Running {
		t.Errorf("Only the candidate may finish, got %s", got)
	}
	if got := Evaluate(e, "a", electorate, false); got != rumor.NoQuorum {
		t.Errorf("Expected NoQuorum without quorum, got %s", got)
	}

	e.Vote("z")
	if Tally(e, electorate) != 3 {
		t.Errorf("Votes outside the electorate must not count, got %d", Tally(e, electorate))
	}
}

func TestNeedsRestart(t *testing.T) {
	finished := rumor.NewElection("a", "redis.default", 4, 1)
	finished.Status = rumor.Finished
	noQuorum := rumor.NewElection("a", "redis.default", 4, 1)
	noQuorum.Status = rumor.NoQuorum
	running := rumor.NewElection("a", "redis.default", 4, 1)

	tests := []struct {
		name       string
		e          *rumor.Election
		self       string
		quorum     bool
		leaderDead bool
		want       bool
	}{
		{"leader lost quorum", finished, "a", false, false, true},
		{"follower lost quorum", finished, "b", false, false, false},
		{"leader confirmed dead", finished, "b", true, true, true},
		{"healthy finished", finished, "a", true, false, false},
		{"no quorum regained", noQuorum, "b", true, false, true},
		{"no quorum still", noQuorum, "b", false, false, false},
		{"running with live favourite", running, "b", true, false, false},
		{"running favourite confirmed dead", running, "b", true, true, true},
		{"no quorum favourite dead", noQuorum, "b", false, true, true},
		{"self is never dead", running, "a", true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsRestart(tt.e, tt.self, tt.quorum, tt.leaderDead); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRestart(t *testing.T) {
	old := rumor.NewElection("a", "redis.default", 4, 1)
	old.Status = rumor.Finished

	next := Restart(old, "b", 7, true)
	if next.Term != 5 || next.MemberID != "b" || next.Suitability != 7 || next.Status != rumor.Running {
		t.Errorf("Unexpected restarted election %+v", next)
	}
	if !next.HasVote("b") || len(next.Votes) != 1 {
		t.Errorf("Expected only the candidate's vote, got %v", next.Votes)
	}

	if Restart(old, "b", 7, false).Status != rumor.NoQuorum {
		t.Error("Expected NoQuorum restart without quorum")
	}
}
