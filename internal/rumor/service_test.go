package rumor

import (
	"errors"
	"testing"
)

func TestParseServiceGroup(t *testing.T) {
	tests := []struct {
		input   string
		want    ServiceGroup
		wantErr bool
	}{
		{"redis.default", ServiceGroup{Service: "redis", Group: "default"}, false},
		{"redis.prod@acme", ServiceGroup{Service: "redis", Group: "prod", Organization: "acme"}, false},
		{"redis.blue.green", ServiceGroup{Service: "redis", Group: "blue.green"}, false},
		{"redis", ServiceGroup{}, true},
		{".default", ServiceGroup{}, true},
		{"redis.", ServiceGroup{}, true},
		{"redis.default@", ServiceGroup{}, true},
		{"", ServiceGroup{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseServiceGroup(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidServiceGroup) {
					t.Errorf("Expected ErrInvalidServiceGroup, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
			if got.String() != tt.input {
				t.Errorf("Expected round trip to %q, got %q", tt.input, got.String())
			}
		})
	}
}

func TestService_MergeHigherIncarnationWins(t *testing.T) {
	s := &Service{MemberID: "a", ServiceGroup: "redis.default", Incarnation: 1, Pkg: "core/redis/1"}

	if s.Merge(&Service{MemberID: "a", ServiceGroup: "redis.default", Incarnation: 1, Pkg: "core/redis/2"}) {
		t.Error("Equal incarnation must not replace the stored service")
	}
	if !s.Merge(&Service{MemberID: "a", ServiceGroup: "redis.default", Incarnation: 2, Pkg: "core/redis/2", Cfg: []byte("x")}) {
		t.Fatal("Expected higher incarnation to win")
	}
	if s.Pkg != "core/redis/2" || string(s.Cfg) != "x" {
		t.Errorf("Unexpected merged service %+v", s)
	}
}

func TestServiceFile_CloneIsDeep(t *testing.T) {
	f := &ServiceFile{ServiceGroup: "redis.default", Filename: "a.conf", Incarnation: 1, Body: []byte("one")}
	c := f.Clone()
	c.Body[0] = 'X'
	if string(f.Body) != "one" {
		t.Errorf("Clone shares body with original: %q", f.Body)
	}
	if f.Equal(c) {
		t.Error("Expected modified clone to differ")
	}
}

func TestIdentities(t *testing.T) {
	tests := []struct {
		name string
		r    Rumor
		want Key
	}{
		{"membership", membership("a", 1, Alive), Key{KindMember, MembershipKey, "a"}},
		{"service", &Service{MemberID: "a", ServiceGroup: "redis.default"}, Key{KindService, "redis.default", "a"}},
		{"service config", &ServiceConfig{ServiceGroup: "redis.default"}, Key{KindServiceConfig, "redis.default", ServiceConfigID}},
		{"service file", &ServiceFile{ServiceGroup: "redis.default", Filename: "a.conf"}, Key{KindServiceFile, "redis.default", "a.conf"}},
		{"election", NewElection("a", "redis.default", 0, 1), Key{KindElection, "redis.default", ElectionID}},
		{"election update", NewElectionUpdate(NewElection("a", "redis.default", 0, 1)), Key{KindElectionUpdate, "redis.default", ElectionID}},
		{"departure", &Departure{MemberID: "a"}, Key{KindDeparture, DepartureKey, "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyOf(tt.r); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestElection_VoteKeepsSortedSet(t *testing.T) {
	e := NewElection("b", "redis.default", 0, 5)
	e.Vote("c")
	e.Vote("a")
	if e.Vote("a") {
		t.Error("Duplicate vote must not grow the set")
	}
	want := []string{"a", "b", "c"}
	for i, v := range want {
		if e.Votes[i] != v {
			t.Fatalf("Expected votes %v, got %v", want, e.Votes)
		}
	}
	if !e.HasVote("c") || e.HasVote("d") {
		t.Error("HasVote disagrees with the vote set")
	}
}

func TestElection_MergeRules(t *testing.T) {
	t.Run("higher term replaces", func(t *testing.T) {
		e := NewElection("a", "g.d", 1, 1)
		e.Status = Finished
		other := NewElection("b", "g.d", 2, 9)
		if !e.Merge(other) || !e.Equal(other) {
			t.Errorf("Expected newer term to replace, got %+v", e)
		}
	})

	t.Run("lower term ignored", func(t *testing.T) {
		e := NewElection("b", "g.d", 2, 9)
		if e.Merge(NewElection("a", "g.d", 1, 1)) {
			t.Error("Expected older term to be ignored")
		}
	})

	t.Run("better candidate takes the votes", func(t *testing.T) {
		e := NewElection("b", "g.d", 0, 9)
		e.Vote("c")
		if !e.Merge(NewElection("a", "g.d", 0, 1)) {
			t.Fatal("Expected change")
		}
		if e.MemberID != "a" || e.Suitability != 1 {
			t.Errorf("Expected a to be favourite, got %s", e.MemberID)
		}
		if len(e.Votes) != 3 {
			t.Errorf("Expected union of votes, got %v", e.Votes)
		}
	})

	t.Run("finished beats running", func(t *testing.T) {
		e := NewElection("a", "g.d", 0, 1)
		done := NewElection("b", "g.d", 0, 5)
		done.Status = Finished
		if !e.Merge(done) || e.Status != Finished || e.MemberID != "b" {
			t.Errorf("Expected finished election to win, got %+v", e)
		}
		if e.Merge(NewElection("a", "g.d", 0, 1)) {
			t.Error("Running election must not disturb a finished one")
		}
	})

	t.Run("no quorum is kept over running", func(t *testing.T) {
		e := NewElection("a", "g.d", 0, 1)
		nq := NewElection("b", "g.d", 0, 5)
		nq.Status = NoQuorum
		e.Merge(nq)
		if e.Status != NoQuorum || e.MemberID != "a" {
			t.Errorf("Expected a with NoQuorum, got %+v", e)
		}
	})
}
