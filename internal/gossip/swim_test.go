package gossip

import (
	"context"
	"slices"
	"testing"
	"time"

	"go.uber.org/zap"

	"rumormill/internal/detector"
	"rumormill/internal/rumor"
	"rumormill/internal/wire"
)

// startQuietServer starts a loopback server whose own loops never ping or
// push, so a test drives every exchange itself.
func startQuietServer(t *testing.T, id string, heatLimit int) *Server {
	t.Helper()
	s, err := New(Config{
		MemberID:         id,
		SwimListen:       "127.0.0.1:0",
		GossipListen:     "127.0.0.1:0",
		ProbeInterval:    time.Hour,
		PushInterval:     time.Hour,
		ElectionInterval: time.Hour,
		ReadTimeout:      20 * time.Millisecond,
		Timeouts:         detector.Timeouts{Ping: 10 * time.Second, PingReq: 10 * time.Second, Suspicion: time.Minute},
		HeatLimit:        heatLimit,
	})
	if err != nil {
		t.Fatalf("New(%s): %v", id, err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start(%s): %v", id, err)
	}
	t.Cleanup(s.Stop)
	return s
}

func waitUntil(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestPingReq_RelayedAckClearsDetector(t *testing.T) {
	a := startQuietServer(t, "a", 0)
	b := startQuietServer(t, "b", 0)
	c := startQuietServer(t, "c", 1)

	a.InsertMember(b.Self(), rumor.Alive)
	a.InsertMember(c.Self(), rumor.Alive)

	if !a.detector.Start("c") {
		t.Fatal("Expected to start tracking c")
	}
	a.detector.Escalate("c")
	a.pingReq(zap.NewNop(), c.Self())

	ok := waitUntil(2*time.Second, func() bool {
		_, tracked := a.detector.State("c")
		return !tracked
	})
	if !ok {
		st, _ := a.detector.State("c")
		t.Fatalf("Expected the relayed ack to clear the detector entry for c, still %s", st)
	}
	if h, _ := a.HealthOf("c"); h != rumor.Alive {
		t.Errorf("Expected c to stay Alive, got %s", h)
	}
	if _, known := b.HealthOf("a"); !known {
		t.Error("Expected the relay to learn about the requester")
	}

	// The ack travelled through b but was delivered to a.
	cooled := waitUntil(time.Second, func() bool {
		return !slices.Contains(c.heat.CurrentlyHotRumors("a"), memberKey("c"))
	})
	if !cooled {
		t.Error("Expected c's membership to be cooled for the requester")
	}
	if !slices.Contains(c.heat.CurrentlyHotRumors("b"), memberKey("c")) {
		t.Error("Expected c's membership to stay hot for the relay")
	}
}

func TestHandleSwim_DropsSenderWithoutID(t *testing.T) {
	s := newTestServer(t, "a")
	before := len(s.Members())

	s.handleSwim(zap.NewNop(), &wire.Message{Type: wire.TypePing, From: &rumor.Member{Address: "10.0.0.9", SwimPort: 9638}}, nil)

	if _, known := s.HealthOf(""); known {
		t.Error("Expected no member with an empty id")
	}
	if got := len(s.Members()); got != before {
		t.Errorf("Expected %d members, got %d", before, got)
	}
}
