package node

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"rumormill/internal/election"
	"rumormill/internal/rumor"
)

// MemberView is one member as shown by the web API.
type MemberView struct {
	ID          string `json:"id"`
	Incarnation uint64 `json:"incarnation"`
	Address     string `json:"address"`
	SwimPort    int    `json:"swim_port"`
	GossipPort  int    `json:"gossip_port"`
	Permanent   bool   `json:"permanent"`
	Health      string `json:"health"`
}

// ElectionView summarises an election as seen by this member.
type ElectionView struct {
	Leader     string   `json:"leader"`
	Term       uint64   `json:"term"`
	Status     string   `json:"status"`
	Votes      []string `json:"votes"`
	LocalState string   `json:"local_state"`
}

// GroupView is a service group and its elections.
type GroupView struct {
	ServiceGroup   string        `json:"service_group"`
	Members        []string      `json:"members"`
	Quorum         bool          `json:"quorum"`
	Election       *ElectionView `json:"election,omitempty"`
	UpdateElection *ElectionView `json:"update_election,omitempty"`
}

// Census is this member's view of the whole network.
type Census struct {
	MemberID      string       `json:"member_id"`
	Incarnation   uint64       `json:"incarnation"`
	Paused        bool         `json:"paused"`
	UpdateCounter uint64       `json:"update_counter"`
	Members       []MemberView `json:"members"`
	Groups        []GroupView  `json:"service_groups"`
}

func (n *Node) routes() http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", n.metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", n.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/members", n.handleMembers).Methods(http.MethodGet)
	r.HandleFunc("/census", n.handleCensus).Methods(http.MethodGet)
	if n.logLevel != nil {
		r.Handle("/log/level", n.logLevel).Methods(http.MethodGet, http.MethodPut)
	}
	return r
}

func (n *Node) handleHealthz(rw http.ResponseWriter, r *http.Request) {
	if n.server.Paused() {
		http.Error(rw, "paused", http.StatusServiceUnavailable)
		return
	}
	rw.WriteHeader(http.StatusOK)
	if _, err := rw.Write([]byte("ok")); err != nil {
		n.log.Debug("failed to write health response", zap.Error(err))
	}
}

func (n *Node) handleMembers(rw http.ResponseWriter, r *http.Request) {
	n.writeJSON(rw, n.memberViews())
}

func (n *Node) handleCensus(rw http.ResponseWriter, r *http.Request) {
	n.writeJSON(rw, n.Census())
}

func (n *Node) writeJSON(rw http.ResponseWriter, v any) {
	rw.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(rw).Encode(v); err != nil {
		n.log.Debug("failed to write json response", zap.Error(err))
	}
}

func (n *Node) memberViews() []MemberView {
	members := n.server.Members()
	out := make([]MemberView, 0, len(members))
	for _, m := range members {
		out = append(out, MemberView{
			ID:          m.Member.ID,
			Incarnation: m.Member.Incarnation,
			Address:     m.Member.Address,
			SwimPort:    m.Member.SwimPort,
			GossipPort:  m.Member.GossipPort,
			Permanent:   m.Member.Permanent,
			Health:      m.Health.String(),
		})
	}
	return out
}

func electionView(e *rumor.Election, ok bool, state election.LocalState) *ElectionView {
	if !ok {
		return nil
	}
	return &ElectionView{
		Leader:     e.MemberID,
		Term:       e.Term,
		Status:     e.Status.String(),
		Votes:      e.Votes,
		LocalState: state.String(),
	}
}

// Census returns this member's view of the network.
func (n *Node) Census() Census {
	s := n.server
	c := Census{
		MemberID:      s.MemberID(),
		Incarnation:   s.Self().Incarnation,
		Paused:        s.Paused(),
		UpdateCounter: s.UpdateCounter(),
		Members:       n.memberViews(),
		Groups:        []GroupView{},
	}
	for _, group := range s.ServiceGroups() {
		g := GroupView{ServiceGroup: group, Quorum: s.CheckQuorum(group)}
		for _, svc := range s.ServicesFor(group) {
			g.Members = append(g.Members, svc.MemberID)
		}
		e, ok := s.ElectionFor(group)
		g.Election = electionView(e, ok, s.ElectionState(group))
		u, ok := s.UpdateElectionFor(group)
		g.UpdateElection = electionView(u, ok, s.UpdateElectionState(group))
		c.Groups = append(c.Groups, g)
	}
	return c
}
