package gossip

import (
	"context"
	"math/rand"
	"net"
	"time"

	"go.uber.org/zap"

	"rumormill/internal/quorum"
	"rumormill/internal/rumor"
	"rumormill/internal/wire"
)

func (s *Server) push() {
	defer s.wg.Done()
	log := s.log.Named("push")
	ticker := time.NewTicker(s.cfg.PushInterval)
	defer ticker.Stop()

	var (
		lastCounter uint64
		lastSent    = true
	)
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if s.Paused() {
				continue
			}
			counter := s.UpdateCounter()
			if counter == lastCounter && !lastSent {
				continue
			}
			lastCounter = counter
			lastSent = s.pushOnce(log) > 0
		}
	}
}

// pushTargets picks up to PushFanout reachable members at random.
func (s *Server) pushTargets() []rumor.Member {
	self := s.MemberID()
	var candidates []rumor.Member
	for _, m := range s.members.Members() {
		if m.Member.ID == self || m.Member.GossipPort <= 0 || s.IsBlacklisted(m.Member.ID) {
			continue
		}
		switch {
		case m.Health == rumor.Alive, m.Health == rumor.Suspect:
		case m.Health == rumor.Confirmed && m.Member.Permanent:
		default:
			continue
		}
		candidates = append(candidates, m.Member)
	}
	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > s.cfg.PushFanout {
		candidates = candidates[:s.cfg.PushFanout]
	}
	return candidates
}

// pushOnce sends every target the rumors still hot for it and returns how
// many targets received something.
func (s *Server) pushOnce(log *zap.Logger) int {
	targets := s.pushTargets()
	if len(targets) == 0 {
		return 0
	}
	byID := make(map[string]rumor.Member, len(targets))
	ids := make([]string, 0, len(targets))
	for _, m := range targets {
		byID[m.ID] = m
		ids = append(ids, m.ID)
	}

	self := s.Self()
	res := quorum.Fanout(s.ctx, ids, 0, func(_ context.Context, id string) (bool, error) {
		rumors, keys := s.hotRumors(id, wire.GossipRumorBudget)
		if len(rumors) == 0 {
			return false, nil
		}
		msg := &wire.Message{Type: wire.TypePush, From: &self, Rumors: rumors}
		if err := s.sendToAddr(s.gossipConn, byID[id].GossipAddr(), msg); err != nil {
			return false, err
		}
		s.countSent(rumors)
		s.heat.CoolRumors(id, keys)
		return true, nil
	})
	if res.ErrorMessage != "" {
		log.Debug("push round had failures", zap.String("error", res.ErrorMessage))
	}
	if res.Acks > 0 {
		s.metrics.PushRounds.Inc()
	}
	return res.Acks
}

func (s *Server) pull() {
	defer s.wg.Done()
	log := s.log.Named("pull")
	buf := make([]byte, wire.MaxDatagramSize)

	for s.ctx.Err() == nil {
		if s.Paused() {
			if !s.idle(s.cfg.ReadTimeout) {
				return
			}
			continue
		}
		n, addr, err := s.read(s.gossipConn, buf)
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
		if msg.Type != wire.TypePush {
			s.metrics.Dropped.WithLabelValues("unexpected_type").Inc()
			continue
		}
		if msg.From != nil && s.IsBlacklisted(msg.From.ID) {
			s.metrics.Dropped.WithLabelValues("blacklisted").Inc()
			continue
		}
		s.ProcessRumors(msg.Rumors)
	}
}

// Inject sends rumors straight to a member's failure detection socket,
// bypassing membership. It is how operators publish configuration and files
// into a running network.
func Inject(ctx context.Context, addr string, codec *wire.Codec, rumors []wire.Rumor) error {
	b, err := codec.Encode(&wire.Message{Type: wire.TypeInject, Rumors: rumors})
	if err != nil {
		return err
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()
	_, err = conn.Write(b)
	return err
}
