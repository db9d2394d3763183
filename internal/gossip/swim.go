package gossip

import (
	"context"
	"errors"
	"net"
	"time"

	"go.uber.org/zap"

	"rumormill/internal/detector"
	"rumormill/internal/quorum"
	"rumormill/internal/rumor"
	"rumormill/internal/wire"
)

var swimKinds = []rumor.Kind{rumor.KindMember, rumor.KindDeparture}

// read waits up to the read timeout for one datagram.
func (s *Server) read(conn *net.UDPConn, buf []byte) (int, *net.UDPAddr, error) {
	if err := conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
		return 0, nil, err
	}
	return conn.ReadFromUDP(buf)
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// idle sleeps for d unless the server is stopping. It reports whether the
// caller should keep going.
func (s *Server) idle(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-s.ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (s *Server) sendTo(conn *net.UDPConn, addr *net.UDPAddr, msg *wire.Message) error {
	b, err := s.codec.Encode(msg)
	if err != nil {
		return err
	}
	_, err = conn.WriteToUDP(b, addr)
	return err
}

func (s *Server) sendToAddr(conn *net.UDPConn, addr string, msg *wire.Message) error {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return err
	}
	return s.sendTo(conn, udpAddr, msg)
}

// sendSwim sends a failure detection message to a member. Traffic to a
// blacklisted member is dropped silently so its probe times out as if the
// network had lost it.
func (s *Server) sendSwim(to rumor.Member, msg *wire.Message) error {
	if s.IsBlacklisted(to.ID) {
		s.metrics.Dropped.WithLabelValues("blacklisted").Inc()
		return nil
	}
	if err := s.sendToAddr(s.swimConn, to.SwimAddr(), msg); err != nil {
		return err
	}
	s.metrics.SwimSent.WithLabelValues(msg.Type.String()).Inc()
	s.countSent(msg.Rumors)
	return nil
}

func (s *Server) inbound() {
	defer s.wg.Done()
	log := s.log.Named("inbound")
	buf := make([]byte, wire.MaxDatagramSize)

	for s.ctx.Err() == nil {
		if s.Paused() {
			if !s.idle(s.cfg.ReadTimeout) {
				return
			}
			continue
		}
		n, addr, err := s.read(s.swimConn, buf)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			if s.ctx.Err() != nil {
				return
			}
			log.Debug("read failed", zap.Error(err))
			continue
		}
		msg, err := s.codec.Decode(buf[:n])
		if err != nil {
			s.metrics.Dropped.WithLabelValues("decode").Inc()
			log.Debug("dropping undecodable datagram", zap.Stringer("from", addr), zap.Error(err))
			continue
		}
		s.metrics.SwimReceived.WithLabelValues(msg.Type.String()).Inc()
		s.handleSwim(log, msg, addr)
	}
}

func (s *Server) handleSwim(log *zap.Logger, msg *wire.Message, addr *net.UDPAddr) {
	if (msg.From == nil && msg.Type != wire.TypeInject) || (msg.From != nil && msg.From.ID == "") {
		s.metrics.Dropped.WithLabelValues("no_sender").Inc()
		return
	}
	if msg.From != nil && s.IsBlacklisted(msg.From.ID) {
		s.metrics.Dropped.WithLabelValues("blacklisted").Inc()
		return
	}

	switch msg.Type {
	case wire.TypePing:
		s.handlePing(log, msg, addr)
	case wire.TypeAck:
		s.handleAck(log, msg)
	case wire.TypePingReq:
		s.handlePingReq(log, msg)
	case wire.TypeInject:
		s.ProcessRumors(msg.Rumors)
	default:
		s.metrics.Dropped.WithLabelValues("unexpected_type").Inc()
	}
}

// heard records a message from a live sender. A suspicion or confirmation
// the sender has not refuted yet is heated again so the sender learns of it.
func (s *Server) heard(from rumor.Member) {
	if from.ID == s.MemberID() || s.InsertMember(from, rumor.Alive) {
		return
	}
	if m, ok := s.members.Get(from.ID); ok && (m.Health == rumor.Suspect || m.Health == rumor.Confirmed) {
		s.heat.StartHotRumor(memberKey(from.ID))
	}
}

func (s *Server) handlePing(log *zap.Logger, msg *wire.Message, addr *net.UDPAddr) {
	s.ProcessRumors(msg.Rumors)
	from := *msg.From
	s.heard(from)

	// A relayed ack is delivered untouched to the member that asked for
	// the indirect probe, so its rumors are chosen and cooled for that member.
	recipient := from.ID
	if msg.ForwardTo != nil {
		recipient = msg.ForwardTo.ID
	}

	self := s.Self()
	rumors, keys := s.hotRumors(recipient, wire.SwimRumorBudget, swimKinds...)
	ack := &wire.Message{Type: wire.TypeAck, From: &self, ForwardTo: msg.ForwardTo, Rumors: rumors}
	if err := s.sendTo(s.swimConn, addr, ack); err != nil {
		log.Debug("ack failed", zap.String("to", from.ID), zap.Error(err))
		return
	}
	s.metrics.SwimSent.WithLabelValues(ack.Type.String()).Inc()
	s.countSent(rumors)
	s.heat.CoolRumors(recipient, keys)
}

func (s *Server) handleAck(log *zap.Logger, msg *wire.Message) {
	if fwd := msg.ForwardTo; fwd != nil && fwd.ID != s.MemberID() {
		if err := s.sendSwim(*fwd, msg); err != nil {
			log.Debug("relaying ack failed", zap.String("to", fwd.ID), zap.Error(err))
		}
		return
	}

	s.ProcessRumors(msg.Rumors)
	from := *msg.From
	s.heard(from)
	if s.detector.Ack(from.ID) {
		if sent, ok := s.probeSent.LoadAndDelete(from.ID); ok && msg.ForwardTo == nil {
			s.metrics.ObserveProbe(time.Since(sent.(time.Time)))
		}
	}
}

func (s *Server) handlePingReq(log *zap.Logger, msg *wire.Message) {
	if msg.Target == nil {
		s.metrics.Dropped.WithLabelValues("no_target").Inc()
		return
	}
	s.ProcessRumors(msg.Rumors)
	s.heard(*msg.From)

	target := *msg.Target
	self := s.Self()
	rumors, keys := s.hotRumors(target.ID, wire.SwimRumorBudget, swimKinds...)
	ping := &wire.Message{Type: wire.TypePing, From: &self, ForwardTo: msg.From, Rumors: rumors}
	if err := s.sendSwim(target, ping); err != nil {
		log.Debug("indirect ping failed", zap.String("target", target.ID), zap.Error(err))
		return
	}
	s.heat.CoolRumors(target.ID, keys)
}

func (s *Server) outbound() {
	defer s.wg.Done()
	log := s.log.Named("outbound")
	ticker := time.NewTicker(s.cfg.ProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if s.Paused() {
				continue
			}
			s.probeNext(log)
		}
	}
}

// probeNext pings the next member in probe order, falling back to indirect
// probes when the ping cannot be sent.
func (s *Server) probeNext(log *zap.Logger) {
	m, ok := s.members.NextProbeTarget(s.MemberID(), func(m *rumor.Membership) bool {
		st, tracked := s.detector.State(m.Member.ID)
		return tracked && st != detector.Confirmed
	})
	if !ok {
		return
	}
	target := m.Member
	if !s.detector.Start(target.ID) {
		return
	}

	self := s.Self()
	rumors, keys := s.hotRumors(target.ID, wire.SwimRumorBudget, swimKinds...)
	ping := &wire.Message{Type: wire.TypePing, From: &self, Rumors: rumors}
	s.probeSent.Store(target.ID, time.Now())
	if err := s.sendSwim(target, ping); err != nil {
		log.Debug("ping failed, probing indirectly", zap.String("target", target.ID), zap.Error(err))
		s.detector.Escalate(target.ID)
		s.pingReq(log, target)
		return
	}
	s.detector.Sent(target.ID)
	s.heat.CoolRumors(target.ID, keys)
}

// pingReq asks up to PingReqRelays alive members to probe target for us.
func (s *Server) pingReq(log *zap.Logger, target rumor.Member) {
	relays := s.members.PingReqTargets(s.MemberID(), target.ID, s.cfg.PingReqRelays)
	if len(relays) == 0 {
		log.Debug("no relays for indirect probe", zap.String("target", target.ID))
		return
	}
	byID := make(map[string]rumor.Member, len(relays))
	ids := make([]string, 0, len(relays))
	for _, r := range relays {
		byID[r.Member.ID] = r.Member
		ids = append(ids, r.Member.ID)
	}

	self := s.Self()
	res := quorum.Fanout(s.ctx, ids, 0, func(_ context.Context, id string) (bool, error) {
		rumors, keys := s.hotRumors(id, wire.SwimRumorBudget, swimKinds...)
		req := &wire.Message{Type: wire.TypePingReq, From: &self, Target: &target, Rumors: rumors}
		if err := s.sendSwim(byID[id], req); err != nil {
			return false, err
		}
		s.heat.CoolRumors(id, keys)
		return true, nil
	})
	log.Debug("indirect probe requested",
		zap.String("target", target.ID),
		zap.Int("relays", res.Acks),
		zap.String("error", res.ErrorMessage))
}

func (s *Server) expire() {
	defer s.wg.Done()
	log := s.log.Named("expire")
	ticker := time.NewTicker(s.cfg.ExpireInterval)
	defer ticker.Stop()
	elections := time.NewTicker(s.cfg.ElectionInterval)
	defer elections.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if s.Paused() {
				continue
			}
			s.expireOnce(log)
		case <-elections.C:
			if s.Paused() {
				continue
			}
			s.RestartElections()
		}
	}
}

// expireOnce applies due detector deadlines to the member list and keeps
// the detector in step with health learned from rumors.
func (s *Server) expireOnce(log *zap.Logger) {
	tr := s.detector.Tick()
	for _, id := range tr.PingReq {
		if m, ok := s.members.Get(id); ok {
			s.pingReq(log, m.Member)
		}
	}
	for _, id := range tr.Suspect {
		if s.InsertHealth(id, rumor.Suspect) {
			s.metrics.HealthTransitions.WithLabelValues(rumor.Suspect.String()).Inc()
			log.Info("member is suspect", zap.String("id", id))
		}
	}
	for _, id := range tr.Confirm {
		if s.InsertHealth(id, rumor.Confirmed) {
			s.metrics.HealthTransitions.WithLabelValues(rumor.Confirmed.String()).Inc()
			log.Warn("member is confirmed dead", zap.String("id", id))
		}
	}

	self := s.MemberID()
	for _, m := range s.members.Members() {
		id := m.Member.ID
		if id == self {
			continue
		}
		st, tracked := s.detector.State(id)
		switch m.Health {
		case rumor.Suspect:
			if !tracked {
				s.detector.Track(id)
			}
		case rumor.Alive:
			if tracked && (st == detector.Failed || st == detector.Confirmed) {
				s.detector.Forget(id)
			}
		case rumor.Departed:
			if tracked {
				s.detector.Forget(id)
			}
		}
	}
}
