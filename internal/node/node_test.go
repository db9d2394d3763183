package node

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"rumormill/internal/config"
	"rumormill/internal/rumor"
)

func newTestNode(t *testing.T) *Node {
	t.Helper()
	cfg := config.Default()
	cfg.MemberID = "n1"
	cfg.ListenAddr = "127.0.0.1"
	cfg.SwimPort = 0
	cfg.GossipPort = 0
	level := zap.NewAtomicLevel()
	n, err := New(cfg, zap.NewNop(), &level)
	require.NoError(t, err)
	return n
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestNew_RejectsBadRingKey(t *testing.T) {
	cfg := config.Default()
	cfg.MemberID = "n1"
	cfg.RingKey = "nope"
	_, err := New(cfg, nil, nil)
	assert.Error(t, err)
}

func TestWeb_Healthz(t *testing.T) {
	n := newTestNode(t)
	h := n.routes()

	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)
	n.server.Pause()
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/healthz").Code)
}

func TestWeb_Members(t *testing.T) {
	n := newTestNode(t)
	n.server.InsertMember(rumor.Member{ID: "n2", Incarnation: 3, Address: "10.0.0.2", SwimPort: 9638}, rumor.Suspect)

	rec := get(t, n.routes(), "/members")
	require.Equal(t, http.StatusOK, rec.Code)

	var members []MemberView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &members))
	require.Len(t, members, 2)
	assert.Equal(t, "n1", members[0].ID)
	assert.Equal(t, "ALIVE", members[0].Health)
	assert.Equal(t, "n2", members[1].ID)
	assert.Equal(t, "SUSPECT", members[1].Health)
	assert.Equal(t, uint64(3), members[1].Incarnation)
}

func TestWeb_Census(t *testing.T) {
	n := newTestNode(t)
	for _, id := range []string{"n1", "n2", "n3"} {
		if id != "n1" {
			n.server.InsertMember(rumor.Member{ID: id, Incarnation: 1}, rumor.Alive)
		}
		n.server.InsertService(&rumor.Service{MemberID: id, ServiceGroup: "redis.default", Incarnation: 1})
	}
	require.NoError(t, n.server.StartElection("redis.default", 1, 0))

	rec := get(t, n.routes(), "/census")
	require.Equal(t, http.StatusOK, rec.Code)

	var c Census
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, "n1", c.MemberID)
	require.Len(t, c.Groups, 1)
	g := c.Groups[0]
	assert.Equal(t, "redis.default", g.ServiceGroup)
	assert.Equal(t, []string{"n1", "n2", "n3"}, g.Members)
	assert.True(t, g.Quorum)
	require.NotNil(t, g.Election)
	assert.Equal(t, "n1", g.Election.Leader)
	assert.Equal(t, "RUNNING", g.Election.Status)
	assert.Equal(t, "IN_ELECTION", g.Election.LocalState)
	assert.Nil(t, g.UpdateElection)
}

func TestWeb_Metrics(t *testing.T) {
	n := newTestNode(t)
	rec := get(t, n.routes(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "rumormill_members_count"))
}

func TestWeb_LogLevel(t *testing.T) {
	n := newTestNode(t)
	h := n.routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/log/level", strings.NewReader(`{"level":"debug"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, zap.DebugLevel, n.logLevel.Level())
}

func TestHealth_FollowsPause(t *testing.T) {
	n := newTestNode(t)
	check := func() healthpb.HealthCheckResponse_ServingStatus {
		resp, err := n.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: healthService})
		require.NoError(t, err)
		return resp.Status
	}

	n.syncHealth()
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check())

	n.server.Pause()
	n.syncHealth()
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check())
}

func TestStop_LogsWebShutdownFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cfg := config.Default()
	cfg.MemberID = "n1"
	cfg.WebAddr = "127.0.0.1:0"
	level := zap.NewAtomicLevel()
	n, err := New(cfg, zap.New(core), &level)
	require.NoError(t, err)
	require.NoError(t, n.startWeb())

	// A half-sent request keeps the connection busy past the deadline.
	conn, err := net.Dial("tcp", n.webAddr)
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte("GET /healthz HTTP/1.1\r\n"))
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n.stopWeb(ctx)

	assert.Equal(t, 1, logs.FilterMessage("web server shutdown failed").Len())
}
