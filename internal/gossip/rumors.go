package gossip

import (
	"sort"

	"go.uber.org/zap"

	"rumormill/internal/clock"
	"rumormill/internal/quorum"
	"rumormill/internal/rumor"
	"rumormill/internal/wire"
)

// InsertMember merges a member record at the given health. A change heats
// the membership rumor.
func (s *Server) InsertMember(m rumor.Member, health rumor.Health) bool {
	if !s.members.Insert(m, health) {
		return false
	}
	s.heat.StartHotRumor(memberKey(m.ID))
	s.refreshMemberGauge()
	return true
}

// InsertHealth applies a health change to a known member at its current
// incarnation.
func (s *Server) InsertHealth(id string, health rumor.Health) bool {
	if !s.members.InsertHealth(id, health) {
		return false
	}
	s.heat.StartHotRumor(memberKey(id))
	s.refreshMemberGauge()
	return true
}

// InsertMemberFromRumor merges a membership rumor received from a peer.
// Rumors about this member are never stored as is: a suspicion or
// confirmation at or above our incarnation is refuted by announcing a higher
// one, and a departure pauses the server.
func (s *Server) InsertMemberFromRumor(m *rumor.Membership) bool {
	if m.Member.ID != s.MemberID() {
		if !s.members.InsertMembership(m) {
			return false
		}
		s.heat.StartHotRumor(memberKey(m.Member.ID))
		s.refreshMemberGauge()
		return true
	}
	return s.refute(m)
}

func (s *Server) refute(m *rumor.Membership) bool {
	if m.Health == rumor.Departed {
		changed := s.members.InsertMembership(m)
		if changed {
			s.heat.StartHotRumor(memberKey(m.Member.ID))
			s.refreshMemberGauge()
		}
		if !s.Paused() {
			s.log.Warn("this member has been departed from the network, pausing")
			s.Pause()
		}
		return changed
	}

	s.selfMu.Lock()
	self := s.self
	stale := m.Health == rumor.Alive || m.Member.Incarnation < self.Incarnation
	if !stale {
		self.Incarnation = clock.NextIncarnation(self.Incarnation, m.Member.Incarnation)
		s.self = self
	}
	s.selfMu.Unlock()

	if stale {
		// Let the fresher record reach whoever still gossips the old one.
		if m.Health != rumor.Alive {
			s.heat.StartHotRumor(memberKey(self.ID))
		}
		return false
	}

	s.members.Insert(self, rumor.Alive)
	s.heat.StartHotRumor(memberKey(self.ID))
	s.log.Info("refuting rumor about this member",
		zap.Stringer("health", m.Health),
		zap.Uint64("incarnation", self.Incarnation))
	return true
}

// InsertService merges a service rumor.
func (s *Server) InsertService(svc *rumor.Service) bool {
	if !s.services.Insert(svc) {
		return false
	}
	s.heat.StartHotRumor(rumor.KeyOf(svc))
	// The electorate of the group may have changed.
	s.elections.reconcile(svc.ServiceGroup)
	s.updates.reconcile(svc.ServiceGroup)
	return true
}

// InsertServiceConfig merges a service configuration rumor.
func (s *Server) InsertServiceConfig(c *rumor.ServiceConfig) bool {
	if !s.serviceConfigs.Insert(c) {
		return false
	}
	s.heat.StartHotRumor(rumor.KeyOf(c))
	return true
}

// InsertServiceFile merges a service file rumor.
func (s *Server) InsertServiceFile(f *rumor.ServiceFile) bool {
	if !s.serviceFiles.Insert(f) {
		return false
	}
	s.heat.StartHotRumor(rumor.KeyOf(f))
	return true
}

// InsertDeparture records that a member left for good and marks it
// Departed. Departing this member pauses the server.
func (s *Server) InsertDeparture(d *rumor.Departure) bool {
	changed := s.departures.Insert(d)
	if changed {
		s.heat.StartHotRumor(rumor.KeyOf(d))
	}
	if s.members.Depart(d.MemberID) {
		s.heat.StartHotRumor(memberKey(d.MemberID))
		s.refreshMemberGauge()
		changed = true
	}
	if d.MemberID == s.MemberID() && !s.Paused() {
		s.log.Warn("this member has been departed from the network, pausing")
		s.Pause()
	}
	return changed
}

// ServiceConfigFor returns the configuration rumor of a service group.
func (s *Server) ServiceConfigFor(group string) (*rumor.ServiceConfig, bool) {
	return s.serviceConfigs.Get(group, rumor.ServiceConfigID)
}

// ServiceFilesFor returns the file rumors of a service group, by filename.
func (s *Server) ServiceFilesFor(group string) []*rumor.ServiceFile {
	var out []*rumor.ServiceFile
	s.serviceFiles.WithRumors(group, func(f *rumor.ServiceFile) {
		out = append(out, f.Clone())
	})
	return out
}

// ServicesFor returns the service rumors of a group, by member id.
func (s *Server) ServicesFor(group string) []*rumor.Service {
	var out []*rumor.Service
	s.services.WithRumors(group, func(svc *rumor.Service) {
		out = append(out, svc.Clone())
	})
	return out
}

// ServiceGroups returns every group with at least one service rumor.
func (s *Server) ServiceGroups() []string {
	return s.services.Keys()
}

// GetElectorate returns the Alive members running a service in group, sorted.
func (s *Server) GetElectorate(group string) []string {
	var out []string
	s.services.WithRumors(group, func(svc *rumor.Service) {
		if h, ok := s.members.HealthOf(svc.MemberID); ok && h == rumor.Alive {
			out = append(out, svc.MemberID)
		}
	})
	sort.Strings(out)
	return out
}

// CheckQuorum reports whether enough of the group's population is alive to
// hold an election. Departed members no longer count towards the population.
func (s *Server) CheckQuorum(group string) bool {
	total, alive := 0, 0
	s.services.WithRumors(group, func(svc *rumor.Service) {
		h, ok := s.members.HealthOf(svc.MemberID)
		if !ok {
			return
		}
		switch h {
		case rumor.Departed:
		case rumor.Alive:
			total++
			alive++
		default:
			total++
		}
	})
	return quorum.Check(alive, total)
}

// ProcessRumors merges every rumor of an incoming message into its store.
func (s *Server) ProcessRumors(rs []wire.Rumor) {
	for _, r := range rs {
		s.metrics.RumorsReceived.WithLabelValues(r.Payload.Kind().String()).Inc()
		switch p := r.Payload.(type) {
		case *rumor.Membership:
			s.InsertMemberFromRumor(p)
		case *rumor.Service:
			s.InsertService(p)
		case *rumor.ServiceConfig:
			s.InsertServiceConfig(p)
		case *rumor.ServiceFile:
			s.InsertServiceFile(p)
		case *rumor.Election:
			s.elections.insert(p)
		case *rumor.ElectionUpdate:
			s.updates.insert(p)
		case *rumor.Departure:
			s.InsertDeparture(p)
		default:
			s.metrics.Dropped.WithLabelValues("unknown_rumor").Inc()
		}
	}
}

func (s *Server) rumorFor(k rumor.Key) (rumor.Rumor, bool) {
	switch k.Kind {
	case rumor.KindMember:
		return s.members.Store().Get(k.Key, k.ID)
	case rumor.KindService:
		return s.services.Get(k.Key, k.ID)
	case rumor.KindServiceConfig:
		return s.serviceConfigs.Get(k.Key, k.ID)
	case rumor.KindServiceFile:
		return s.serviceFiles.Get(k.Key, k.ID)
	case rumor.KindElection:
		return s.elections.store.Get(k.Key, k.ID)
	case rumor.KindElectionUpdate:
		return s.updates.store.Get(k.Key, k.ID)
	case rumor.KindDeparture:
		return s.departures.Get(k.Key, k.ID)
	default:
		return nil, false
	}
}

// hotRumors collects the rumors still hot for memberID, hottest first, until
// the encoded size would exceed budget. It returns the keys that made it in
// so the caller can cool them once the message is sent.
func (s *Server) hotRumors(memberID string, budget int, kinds ...rumor.Kind) ([]wire.Rumor, []rumor.Key) {
	self := s.MemberID()
	var (
		out  []wire.Rumor
		keys []rumor.Key
		used int
	)
	for _, k := range s.heat.CurrentlyHotRumors(memberID, kinds...) {
		payload, ok := s.rumorFor(k)
		if !ok {
			s.heat.Forget(k)
			continue
		}
		r := wire.Rumor{FromID: self, Payload: payload}
		size := wire.RumorSize(r)
		if size == 0 || used+size > budget {
			continue
		}
		used += size
		out = append(out, r)
		keys = append(keys, k)
	}
	return out, keys
}

func (s *Server) countSent(rs []wire.Rumor) {
	for _, r := range rs {
		s.metrics.RumorsSent.WithLabelValues(r.Payload.Kind().String()).Inc()
	}
}
