package gossip

import (
	"bytes"
	"testing"

	"rumormill/internal/election"
	"rumormill/internal/rumor"
	"rumormill/internal/wire"
)

func newTestServer(t *testing.T, id string) *Server {
	t.Helper()
	s, err := New(Config{MemberID: id, SwimListen: "127.0.0.1:0", GossipListen: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("New(%s): %v", id, err)
	}
	return s
}

func TestNew_RequiresMemberID(t *testing.T) {
	if _, err := New(Config{SwimListen: "127.0.0.1:0", GossipListen: "127.0.0.1:0"}); err == nil {
		t.Error("Expected error for empty member id")
	}
	if _, err := New(Config{MemberID: "a", SwimListen: "nope", GossipListen: "127.0.0.1:0"}); err == nil {
		t.Error("Expected error for malformed listen address")
	}
}

func TestNew_InsertsSelfAlive(t *testing.T) {
	s := newTestServer(t, "a")
	h, ok := s.HealthOf("a")
	if !ok || h != rumor.Alive {
		t.Fatalf("Expected self Alive, got %v (known=%v)", h, ok)
	}
	if s.Self().Incarnation != 1 {
		t.Errorf("Expected incarnation 1, got %d", s.Self().Incarnation)
	}
	if s.Self().Address != "127.0.0.1" {
		t.Errorf("Expected advertise address 127.0.0.1, got %s", s.Self().Address)
	}
}

func TestAdvertiseHost(t *testing.T) {
	tests := []struct {
		advertise, listen, want string
	}{
		{"10.0.0.9", "0.0.0.0:9638", "10.0.0.9"},
		{"", "192.168.1.4:9638", "192.168.1.4"},
		{"", "0.0.0.0:9638", "127.0.0.1"},
		{"", ":9638", "127.0.0.1"},
	}
	for _, tt := range tests {
		if got := advertiseHost(tt.advertise, tt.listen); got != tt.want {
			t.Errorf("advertiseHost(%q, %q) = %q, want %q", tt.advertise, tt.listen, got, tt.want)
		}
	}
}

func TestInsertMemberFromRumor_RefutesSuspicion(t *testing.T) {
	s := newTestServer(t, "a")
	self := s.Self()

	rumored := &rumor.Membership{Member: self, Health: rumor.Suspect}
	rumored.Member.Incarnation = 4
	if !s.InsertMemberFromRumor(rumored) {
		t.Fatal("Expected refutation to be a change")
	}
	if got := s.Self().Incarnation; got != 5 {
		t.Errorf("Expected incarnation 5, got %d", got)
	}
	if h, _ := s.HealthOf("a"); h != rumor.Alive {
		t.Errorf("Expected self to stay Alive, got %s", h)
	}
	if hot := s.heat.CurrentlyHotRumors("b"); len(hot) == 0 || hot[0] != memberKey("a") {
		t.Errorf("Expected own membership to be hot, got %v", hot)
	}
}

func TestInsertMemberFromRumor_StaleSuspicionIgnored(t *testing.T) {
	s := newTestServer(t, "a")
	s.InsertMemberFromRumor(&rumor.Membership{Member: rumor.Member{ID: "a", Incarnation: 3}, Health: rumor.Confirmed})
	before := s.Self().Incarnation

	if s.InsertMemberFromRumor(&rumor.Membership{Member: rumor.Member{ID: "a", Incarnation: 1}, Health: rumor.Confirmed}) {
		t.Error("Stale rumor must not be a change")
	}
	if s.Self().Incarnation != before {
		t.Errorf("Expected incarnation %d, got %d", before, s.Self().Incarnation)
	}
	if s.InsertMemberFromRumor(&rumor.Membership{Member: rumor.Member{ID: "a", Incarnation: 99}, Health: rumor.Alive}) {
		t.Error("Alive claims about self are never stored")
	}
}

func TestInsertMemberFromRumor_DepartedPauses(t *testing.T) {
	s := newTestServer(t, "a")
	s.InsertMemberFromRumor(&rumor.Membership{Member: s.Self(), Health: rumor.Departed})
	if !s.Paused() {
		t.Error("Expected departure of self to pause the server")
	}
	if h, _ := s.HealthOf("a"); h != rumor.Departed {
		t.Errorf("Expected self Departed, got %s", h)
	}
}

func TestInsertDeparture(t *testing.T) {
	s := newTestServer(t, "a")
	s.InsertMember(rumor.Member{ID: "b", Incarnation: 1}, rumor.Alive)

	if !s.InsertDeparture(&rumor.Departure{MemberID: "b"}) {
		t.Fatal("Expected departure to be a change")
	}
	if h, _ := s.HealthOf("b"); h != rumor.Departed {
		t.Errorf("Expected b Departed, got %s", h)
	}
	if s.InsertDeparture(&rumor.Departure{MemberID: "b"}) {
		t.Error("Repeated departure must not be a change")
	}
	if s.Paused() {
		t.Error("Departing another member must not pause")
	}
}

func TestUpdateCounter_MovesOnEveryStore(t *testing.T) {
	s := newTestServer(t, "a")
	c0 := s.UpdateCounter()

	s.InsertServiceConfig(&rumor.ServiceConfig{ServiceGroup: "redis.default", Incarnation: 1, Config: []byte("x")})
	c1 := s.UpdateCounter()
	if c1 <= c0 {
		t.Errorf("Expected counter to grow, %d -> %d", c0, c1)
	}
	s.InsertServiceConfig(&rumor.ServiceConfig{ServiceGroup: "redis.default", Incarnation: 1, Config: []byte("x")})
	if s.UpdateCounter() != c1 {
		t.Error("Unchanged insert must not move the counter")
	}
	s.InsertServiceFile(&rumor.ServiceFile{ServiceGroup: "redis.default", Incarnation: 1, Filename: "a.conf"})
	if s.UpdateCounter() <= c1 {
		t.Error("Expected file insert to move the counter")
	}
}

func TestServiceQueries(t *testing.T) {
	s := newTestServer(t, "a")
	s.InsertServiceFile(&rumor.ServiceFile{ServiceGroup: "redis.default", Incarnation: 1, Filename: "b.conf"})
	s.InsertServiceFile(&rumor.ServiceFile{ServiceGroup: "redis.default", Incarnation: 1, Filename: "a.conf"})
	s.InsertServiceConfig(&rumor.ServiceConfig{ServiceGroup: "redis.default", Incarnation: 2, Config: []byte("port=1")})

	files := s.ServiceFilesFor("redis.default")
	if len(files) != 2 || files[0].Filename != "a.conf" {
		t.Errorf("Expected files sorted by name, got %+v", files)
	}
	cfg, ok := s.ServiceConfigFor("redis.default")
	if !ok || !bytes.Equal(cfg.Config, []byte("port=1")) {
		t.Errorf("Unexpected config %+v", cfg)
	}
	if _, ok := s.ServiceConfigFor("other.default"); ok {
		t.Error("Expected no config for unknown group")
	}
}

func addMembers(s *Server, ids ...string) {
	for _, id := range ids {
		if id != s.MemberID() {
			s.InsertMember(rumor.Member{ID: id, Incarnation: 1}, rumor.Alive)
		}
		s.InsertService(&rumor.Service{MemberID: id, ServiceGroup: "redis.default", Incarnation: 1})
	}
}

func TestCheckQuorumAndElectorate(t *testing.T) {
	s := newTestServer(t, "a")
	addMembers(s, "a", "b")
	if s.CheckQuorum("redis.default") {
		t.Error("Two members are below the minimum population")
	}

	addMembers(s, "c", "d")
	if !s.CheckQuorum("redis.default") {
		t.Error("Expected quorum with 4 of 4 alive")
	}
	s.InsertHealth("c", rumor.Suspect)
	s.InsertHealth("d", rumor.Confirmed)
	if s.CheckQuorum("redis.default") {
		t.Error("2 of 4 alive is not a majority")
	}
	s.InsertDeparture(&rumor.Departure{MemberID: "d"})
	if !s.CheckQuorum("redis.default") {
		t.Error("Departed members leave the population, 2 of 3 alive is a majority")
	}

	got := s.GetElectorate("redis.default")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Expected electorate [a b], got %v", got)
	}
}

// exchange hands every server's election to every other one until no
// insert changes anything.
func exchange(t *testing.T, servers []*Server, group string) {
	t.Helper()
	for round := 0; round < 20; round++ {
		changed := false
		for _, from := range servers {
			e, ok := from.ElectionFor(group)
			if !ok {
				continue
			}
			for _, to := range servers {
				if to != from && to.InsertElection(e.Clone()) {
					changed = true
				}
			}
		}
		if !changed {
			return
		}
	}
	t.Fatal("Elections did not settle")
}

func TestElection_ConvergesOnMostSuitable(t *testing.T) {
	ids := []string{"a", "b", "c"}
	servers := make([]*Server, len(ids))
	for i, id := range ids {
		servers[i] = newTestServer(t, id)
		addMembers(servers[i], ids...)
	}
	for i, s := range servers {
		if err := s.StartElection("redis.default", uint64(10-i), 0); err != nil {
			t.Fatalf("StartElection: %v", err)
		}
	}

	exchange(t, servers, "redis.default")

	for _, s := range servers {
		e, ok := s.ElectionFor("redis.default")
		if !ok {
			t.Fatalf("%s has no election", s.MemberID())
		}
		if e.Status != rumor.Finished || e.MemberID != "c" {
			t.Errorf("%s: expected c to win, got %+v", s.MemberID(), e)
		}
		if len(e.Votes) != 3 {
			t.Errorf("%s: expected 3 votes, got %v", s.MemberID(), e.Votes)
		}
	}
	if servers[2].ElectionState("redis.default") != election.Leader {
		t.Error("Expected c to see itself as leader")
	}
	if servers[0].ElectionState("redis.default") != election.Follower {
		t.Error("Expected a to follow")
	}
}

func TestElection_NoQuorum(t *testing.T) {
	s := newTestServer(t, "a")
	addMembers(s, "a", "b")
	if err := s.StartElection("redis.default", 1, 0); err != nil {
		t.Fatal(err)
	}
	e, _ := s.ElectionFor("redis.default")
	if e.Status != rumor.NoQuorum {
		t.Errorf("Expected NoQuorum, got %s", e.Status)
	}

	addMembers(s, "c")
	if n := s.RestartElections(); n != 1 {
		t.Fatalf("Expected 1 restart, got %d", n)
	}
	e, _ = s.ElectionFor("redis.default")
	if e.Term != 1 || e.Status != rumor.Running {
		t.Errorf("Expected running election at term 1, got %+v", e)
	}
}

func TestElection_RestartsWhenLeaderDies(t *testing.T) {
	s := newTestServer(t, "a")
	addMembers(s, "a", "b", "c", "d")
	if err := s.StartElection("redis.default", 5, 0); err != nil {
		t.Fatal(err)
	}
	won := rumor.NewElection("b", "redis.default", 0, 1)
	won.Vote("a")
	won.Vote("c")
	won.Vote("d")
	won.Status = rumor.Finished
	s.InsertElection(won)
	if s.ElectionState("redis.default") != election.Follower {
		t.Fatalf("Expected follower, got %s", s.ElectionState("redis.default"))
	}

	s.InsertHealth("b", rumor.Confirmed)
	if s.RestartElections() != 1 {
		t.Fatal("Expected a restart after the leader was confirmed dead")
	}
	e, _ := s.ElectionFor("redis.default")
	if e.Term != 1 || e.MemberID != "a" {
		t.Errorf("Expected a to stand at term 1, got %+v", e)
	}
}

func TestElection_RestartsWhenRunningFavouriteDies(t *testing.T) {
	ids := []string{"a", "b", "c"}
	a, b := newTestServer(t, "a"), newTestServer(t, "b")
	servers := []*Server{a, b}
	for i, s := range servers {
		addMembers(s, ids...)
		if err := s.StartElection("redis.default", uint64(10-i), 0); err != nil {
			t.Fatal(err)
		}
		// c stands as the best candidate and dies before stamping Finished.
		s.InsertElection(rumor.NewElection("c", "redis.default", 0, 8))
	}
	exchange(t, servers, "redis.default")
	for _, s := range servers {
		if e, _ := s.ElectionFor("redis.default"); e.MemberID != "c" || e.Status != rumor.Running {
			t.Fatalf("%s: expected c to be favourite of a running election, got %+v", s.MemberID(), e)
		}
	}

	for _, s := range servers {
		s.InsertHealth("c", rumor.Confirmed)
		if !s.CheckQuorum("redis.default") {
			t.Fatalf("%s: expected quorum with 2 of 3 alive", s.MemberID())
		}
		if n := s.RestartElections(); n != 1 {
			t.Fatalf("%s: expected 1 restart, got %d", s.MemberID(), n)
		}
	}
	exchange(t, servers, "redis.default")

	for _, s := range servers {
		e, _ := s.ElectionFor("redis.default")
		if e.MemberID != "b" || e.Status != rumor.Finished || e.Term != 1 {
			t.Errorf("%s: expected b to win term 1, got %+v", s.MemberID(), e)
		}
		if n := s.RestartElections(); n != 0 {
			t.Errorf("%s: expected a settled election, got %d restarts", s.MemberID(), n)
		}
	}
}

func TestElection_JoinsNewerTerm(t *testing.T) {
	s := newTestServer(t, "a")
	addMembers(s, "a", "b", "c")
	if err := s.StartElection("redis.default", 1, 0); err != nil {
		t.Fatal(err)
	}
	s.InsertElection(rumor.NewElection("b", "redis.default", 3, 9))

	e, _ := s.ElectionFor("redis.default")
	if e.Term != 3 || e.MemberID != "a" {
		t.Errorf("Expected a to stand again at term 3, got %+v", e)
	}
	if !e.HasVote("a") || !e.HasVote("b") {
		t.Errorf("Expected votes from a and b, got %v", e.Votes)
	}
}

func TestElection_UpdateElectionsAreSeparate(t *testing.T) {
	s := newTestServer(t, "a")
	addMembers(s, "a", "b", "c")
	if err := s.StartUpdateElection("redis.default", 1, 0); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.ElectionFor("redis.default"); ok {
		t.Error("Update election leaked into leader elections")
	}
	if _, ok := s.UpdateElectionFor("redis.default"); !ok {
		t.Error("Expected update election")
	}
}

func TestProcessRumors_InvalidElectionGroupDropped(t *testing.T) {
	s := newTestServer(t, "a")
	s.ProcessRumors([]wire.Rumor{{FromID: "b", Payload: rumor.NewElection("b", "nogroup", 0, 1)}})
	if _, ok := s.ElectionFor("nogroup"); ok {
		t.Error("Election with invalid group must be discarded")
	}
	if err := s.StartElection("nogroup", 1, 0); err == nil {
		t.Error("Expected StartElection to reject an invalid group")
	}
}

func TestProcessRumors_Dispatch(t *testing.T) {
	s := newTestServer(t, "a")
	s.ProcessRumors([]wire.Rumor{
		{FromID: "b", Payload: &rumor.Membership{Member: rumor.Member{ID: "b", Incarnation: 1}, Health: rumor.Alive}},
		{FromID: "b", Payload: &rumor.Service{MemberID: "b", ServiceGroup: "redis.default", Incarnation: 1}},
		{FromID: "b", Payload: &rumor.ServiceConfig{ServiceGroup: "redis.default", Incarnation: 1}},
		{FromID: "b", Payload: &rumor.Departure{MemberID: "c"}},
	})
	if _, ok := s.HealthOf("b"); !ok {
		t.Error("Expected b to be known")
	}
	if len(s.ServicesFor("redis.default")) != 1 {
		t.Error("Expected b's service")
	}
	if _, ok := s.ServiceConfigFor("redis.default"); !ok {
		t.Error("Expected service config")
	}
	if !s.departures.ContainsRumor(rumor.DepartureKey, "c") {
		t.Error("Expected departure of c")
	}
}

func TestHotRumors_BudgetAndCooling(t *testing.T) {
	s := newTestServer(t, "a")
	for _, name := range []string{"a.conf", "b.conf", "c.conf"} {
		s.InsertServiceFile(&rumor.ServiceFile{
			ServiceGroup: "redis.default",
			Incarnation:  1,
			Filename:     name,
			Body:         bytes.Repeat([]byte("x"), 400),
		})
	}

	rs, keys := s.hotRumors("b", wire.SwimRumorBudget, rumor.KindServiceFile)
	if len(rs) != 2 || len(keys) != 2 {
		t.Fatalf("Expected 2 files to fit the budget, got %d", len(rs))
	}
	size := 0
	for _, r := range rs {
		size += wire.RumorSize(r)
	}
	if size > wire.SwimRumorBudget {
		t.Errorf("Encoded size %d exceeds budget", size)
	}

	s.heat.CoolRumors("b", keys)
	s.heat.CoolRumors("b", keys)
	rs, _ = s.hotRumors("b", wire.SwimRumorBudget, rumor.KindServiceFile)
	if len(rs) != 1 || rs[0].Payload.(*rumor.ServiceFile).Filename != "c.conf" {
		t.Errorf("Expected only c.conf left hot, got %v", rs)
	}
}

func TestBlacklist(t *testing.T) {
	s := newTestServer(t, "a")
	s.AddToBlacklist("b")
	if !s.IsBlacklisted("b") {
		t.Error("Expected b blacklisted")
	}
	s.RemoveFromBlacklist("b")
	if s.IsBlacklisted("b") {
		t.Error("Expected b cleared")
	}
}
