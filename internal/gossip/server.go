package gossip

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"rumormill/internal/clock"
	"rumormill/internal/crypto"
	"rumormill/internal/detector"
	"rumormill/internal/heat"
	"rumormill/internal/member"
	"rumormill/internal/metrics"
	"rumormill/internal/rumor"
	"rumormill/internal/storage"
	"rumormill/internal/wire"
)

// ErrAlreadyStarted is returned by Start on a running server.
var ErrAlreadyStarted = errors.New("server already started")

// Config configures a Server.
type Config struct {
	MemberID string
	// AdvertiseAddress is the host peers use to reach this member. Empty
	// means the host of SwimListen, or 127.0.0.1 when that is unspecified.
	AdvertiseAddress string
	SwimListen       string
	GossipListen     string

	ProbeInterval    time.Duration
	Timeouts         detector.Timeouts
	ExpireInterval   time.Duration
	PushInterval     time.Duration
	ElectionInterval time.Duration
	ReadTimeout      time.Duration

	PingReqRelays int
	PushFanout    int
	HeatLimit     int

	Crypter crypto.Crypter
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

func (c *Config) setDefaults() {
	if c.ProbeInterval <= 0 {
		c.ProbeInterval = 1 * time.Second
	}
	if c.ExpireInterval <= 0 {
		c.ExpireInterval = 100 * time.Millisecond
	}
	if c.PushInterval <= 0 {
		c.PushInterval = 1 * time.Second
	}
	if c.ElectionInterval <= 0 {
		c.ElectionInterval = 1 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 200 * time.Millisecond
	}
	if c.PingReqRelays <= 0 {
		c.PingReqRelays = 3
	}
	if c.PushFanout <= 0 {
		c.PushFanout = 5
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Metrics == nil {
		c.Metrics = metrics.New()
	}
}

// Server owns every store, the member list and the election state, and runs
// the protocol loops against them.
type Server struct {
	cfg     Config
	log     *zap.Logger
	metrics *metrics.Metrics
	codec   *wire.Codec

	selfMu sync.RWMutex
	self   rumor.Member

	members        *member.List
	detector       *detector.Detector
	heat           *heat.Heat
	services       *storage.Store[*rumor.Service]
	serviceConfigs *storage.Store[*rumor.ServiceConfig]
	serviceFiles   *storage.Store[*rumor.ServiceFile]
	departures     *storage.Store[*rumor.Departure]
	elections      *electionBook[*rumor.Election]
	updates        *electionBook[*rumor.ElectionUpdate]

	blacklistMu sync.RWMutex
	blacklist   map[string]struct{}
	paused      atomic.Bool

	probeSent sync.Map // member id -> time.Time of the last direct ping

	swimConn   *net.UDPConn
	gossipConn *net.UDPConn

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started atomic.Bool
}

// New creates a server. Sockets are not bound until Start.
func New(cfg Config) (*Server, error) {
	if cfg.MemberID == "" {
		return nil, errors.New("member id is required")
	}
	cfg.setDefaults()

	swimPort, err := portOf(cfg.SwimListen)
	if err != nil {
		return nil, fmt.Errorf("swim listen address: %w", err)
	}
	gossipPort, err := portOf(cfg.GossipListen)
	if err != nil {
		return nil, fmt.Errorf("gossip listen address: %w", err)
	}

	s := &Server{
		cfg:     cfg,
		log:     cfg.Logger.With(zap.String("member", cfg.MemberID)),
		metrics: cfg.Metrics,
		codec:   wire.NewCodec(cfg.Crypter),
		self: rumor.Member{
			ID:          cfg.MemberID,
			Incarnation: 1,
			Address:     advertiseHost(cfg.AdvertiseAddress, cfg.SwimListen),
			SwimPort:    swimPort,
			GossipPort:  gossipPort,
		},
		members:        member.NewList(),
		detector:       detector.New(cfg.Timeouts, nil),
		heat:           heat.New(cfg.HeatLimit),
		services:       storage.New[*rumor.Service](),
		serviceConfigs: storage.New[*rumor.ServiceConfig](),
		serviceFiles:   storage.New[*rumor.ServiceFile](),
		departures:     storage.New[*rumor.Departure](),
		blacklist:      make(map[string]struct{}),
	}
	s.elections = newElectionBook(s, "leader", func(e *rumor.Election) *rumor.Election { return e })
	s.updates = newElectionBook(s, "update", rumor.NewElectionUpdate)

	s.InsertMember(s.self, rumor.Alive)
	return s, nil
}

// Start binds both sockets and spawns the protocol loops. Failing to resolve
// or bind an address, or to set a socket deadline, is returned as an error.
func (s *Server) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	swimConn, err := listen(s.cfg.SwimListen, s.cfg.ReadTimeout)
	if err != nil {
		s.started.Store(false)
		return fmt.Errorf("swim socket: %w", err)
	}
	gossipConn, err := listen(s.cfg.GossipListen, s.cfg.ReadTimeout)
	if err != nil {
		swimConn.Close()
		s.started.Store(false)
		return fmt.Errorf("gossip socket: %w", err)
	}
	s.swimConn = swimConn
	s.gossipConn = gossipConn

	s.selfMu.Lock()
	s.self.SwimPort = swimConn.LocalAddr().(*net.UDPAddr).Port
	s.self.GossipPort = gossipConn.LocalAddr().(*net.UDPAddr).Port
	self := s.self
	s.selfMu.Unlock()
	s.members.Replace(self, rumor.Alive)
	s.heat.StartHotRumor(memberKey(self.ID))

	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(5)
	go s.inbound()
	go s.outbound()
	go s.expire()
	go s.push()
	go s.pull()

	s.log.Info("gossip server started",
		zap.String("swim", self.SwimAddr()),
		zap.String("gossip", self.GossipAddr()),
		zap.Bool("encrypted", s.codec.Encrypted()))
	return nil
}

// Stop cancels the loops, closes the sockets and waits for the loops to exit.
func (s *Server) Stop() {
	if !s.started.CompareAndSwap(true, false) {
		return
	}
	s.cancel()
	s.swimConn.Close()
	s.gossipConn.Close()
	s.wg.Wait()
	s.log.Info("gossip server stopped")
}

func listen(addr string, readTimeout time.Duration) (*net.UDPConn, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", addr, err)
	}
	if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set read deadline on %s: %w", addr, err)
	}
	return conn, nil
}

func portOf(addr string) (int, error) {
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, err
	}
	if p == "" {
		return 0, nil
	}
	return strconv.Atoi(p)
}

func advertiseHost(advertise, listen string) string {
	if advertise != "" {
		return advertise
	}
	host, _, err := net.SplitHostPort(listen)
	if err != nil || host == "" {
		return "127.0.0.1"
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsUnspecified() {
		return "127.0.0.1"
	}
	return host
}

// MemberID returns this member's id.
func (s *Server) MemberID() string {
	return s.cfg.MemberID
}

// Self returns this member's current record.
func (s *Server) Self() rumor.Member {
	s.selfMu.RLock()
	defer s.selfMu.RUnlock()
	return s.self
}

// SwimAddr returns the advertised failure detection address.
func (s *Server) SwimAddr() string { return s.Self().SwimAddr() }

// SwimPort returns the bound failure detection port.
func (s *Server) SwimPort() int { return s.Self().SwimPort }

// GossipAddr returns the advertised gossip address.
func (s *Server) GossipAddr() string { return s.Self().GossipAddr() }

// GossipPort returns the bound gossip port.
func (s *Server) GossipPort() int { return s.Self().GossipPort }

// Metrics returns the server's metrics handle.
func (s *Server) Metrics() *metrics.Metrics { return s.metrics }

// Members returns a snapshot of the member list.
func (s *Server) Members() []*rumor.Membership {
	return s.members.Members()
}

// HealthOf returns the health of a member.
func (s *Server) HealthOf(id string) (rumor.Health, bool) {
	return s.members.HealthOf(id)
}

// Membership returns a copy of the membership rumor for id.
func (s *Server) Membership(id string) (*rumor.Membership, bool) {
	return s.members.Get(id)
}

// UpdateCounter sums the update counters of every store. It changes
// whenever any stored rumor does.
func (s *Server) UpdateCounter() uint64 {
	return clock.Sum(
		s.members.Store().UpdateCounter(),
		s.services.UpdateCounter(),
		s.serviceConfigs.UpdateCounter(),
		s.serviceFiles.UpdateCounter(),
		s.departures.UpdateCounter(),
		s.elections.store.UpdateCounter(),
		s.updates.store.UpdateCounter(),
	)
}

// Pause stops the loops from doing work until Unpause.
func (s *Server) Pause() { s.paused.Store(true) }

// Unpause resumes the loops.
func (s *Server) Unpause() { s.paused.Store(false) }

// Paused reports whether the loops are paused.
func (s *Server) Paused() bool { return s.paused.Load() }

// AddToBlacklist drops all traffic to and from id.
func (s *Server) AddToBlacklist(id string) {
	s.blacklistMu.Lock()
	defer s.blacklistMu.Unlock()
	s.blacklist[id] = struct{}{}
}

// RemoveFromBlacklist restores traffic with id.
func (s *Server) RemoveFromBlacklist(id string) {
	s.blacklistMu.Lock()
	defer s.blacklistMu.Unlock()
	delete(s.blacklist, id)
}

// IsBlacklisted reports whether traffic with id is dropped.
func (s *Server) IsBlacklisted(id string) bool {
	s.blacklistMu.RLock()
	defer s.blacklistMu.RUnlock()
	_, ok := s.blacklist[id]
	return ok
}

func (s *Server) refreshMemberGauge() {
	counts := s.members.CountByHealth()
	for _, h := range []rumor.Health{rumor.Alive, rumor.Suspect, rumor.Confirmed, rumor.Departed} {
		s.metrics.Members.WithLabelValues(h.String()).Set(float64(counts[h]))
	}
}

func memberKey(id string) rumor.Key {
	return rumor.Key{Kind: rumor.KindMember, Key: rumor.MembershipKey, ID: id}
}
