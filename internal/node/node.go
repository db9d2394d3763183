// Package node runs a rumormill member: the gossip server plus its admin
// surfaces and optional etcd discovery.
package node

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"rumormill/internal/config"
	"rumormill/internal/detector"
	"rumormill/internal/discovery"
	"rumormill/internal/gossip"
	"rumormill/internal/metrics"
	"rumormill/internal/rumor"
)

// healthInterval is how often the admin health status follows the server.
const healthInterval = 1 * time.Second

// Node represents a single member of the network.
type Node struct {
	cfg      *config.Config
	log      *zap.Logger
	logLevel *zap.AtomicLevel
	metrics  *metrics.Metrics
	server   *gossip.Server

	grpcServer *grpc.Server
	health     *health.Server
	httpServer *http.Server
	webAddr    string
	discovery  *discovery.Discovery

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a node from cfg. Nothing is bound until Start.
func New(cfg *config.Config, logger *zap.Logger, logLevel *zap.AtomicLevel) (*Node, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	crypter, err := cfg.Crypter()
	if err != nil {
		return nil, fmt.Errorf("ring key: %w", err)
	}
	m := metrics.New().WithProcessCollectors()

	srv, err := gossip.New(gossip.Config{
		MemberID:         cfg.MemberID,
		AdvertiseAddress: cfg.AdvertiseAddr,
		SwimListen:       cfg.SwimListen(),
		GossipListen:     cfg.GossipListen(),
		ProbeInterval:    cfg.ProbeInterval,
		Timeouts: detector.Timeouts{
			Ping:      cfg.PingTimeout,
			PingReq:   cfg.PingReqTimeout,
			Suspicion: cfg.SuspicionTimeout,
		},
		PushInterval:     cfg.PushInterval,
		ElectionInterval: cfg.ElectionInterval,
		Crypter:          crypter,
		Logger:           logger.Named("gossip"),
		Metrics:          m,
	})
	if err != nil {
		return nil, err
	}

	return &Node{
		cfg:      cfg,
		log:      logger.With(zap.String("member", cfg.MemberID)),
		logLevel: logLevel,
		metrics:  m,
		server:   srv,
		health:   health.NewServer(),
	}, nil
}

// Server returns the gossip server.
func (n *Node) Server() *gossip.Server {
	return n.server
}

// Start starts the gossip server, joins the seeds and brings up the admin
// surfaces. It returns once everything is listening.
func (n *Node) Start(ctx context.Context) error {
	ctx, n.cancel = context.WithCancel(ctx)

	if err := n.server.Start(ctx); err != nil {
		return err
	}

	seeds, err := n.cfg.Seeds()
	if err != nil {
		return err
	}
	for _, s := range seeds {
		n.server.InsertMember(s, rumor.Alive)
	}
	n.log.Info("joined seeds", zap.Int("seeds", len(seeds)))

	if n.cfg.AdminAddr != "" {
		if err := n.startAdmin(); err != nil {
			return err
		}
	}
	if n.cfg.WebAddr != "" {
		if err := n.startWeb(); err != nil {
			return err
		}
	}
	if len(n.cfg.EtcdEndpoints) > 0 {
		if err := n.startDiscovery(ctx); err != nil {
			return err
		}
	}

	n.wg.Add(1)
	go n.followHealth(ctx)
	return nil
}

// Stop shuts everything down, leaving etcd first so peers stop dialing us.
func (n *Node) Stop() {
	if n.cancel != nil {
		n.cancel()
	}
	if n.discovery != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := n.discovery.Leave(ctx, n.cfg.MemberID); err != nil {
			n.log.Warn("failed to leave etcd", zap.Error(err))
		}
		cancel()
		n.discovery.Close()
	}
	if n.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		n.stopWeb(ctx)
		cancel()
	}
	if n.grpcServer != nil {
		n.health.Shutdown()
		n.grpcServer.GracefulStop()
	}
	n.server.Stop()
	n.wg.Wait()
	n.log.Info("node stopped")
}

func (n *Node) startAdmin() error {
	lis, err := net.Listen("tcp", n.cfg.AdminAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", n.cfg.AdminAddr, err)
	}

	n.grpcServer = grpc.NewServer()
	healthpb.RegisterHealthServer(n.grpcServer, n.health)
	// Enable gRPC reflection for grpcurl
	reflection.Register(n.grpcServer)
	n.syncHealth()

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.log.Info("admin server listening", zap.String("addr", lis.Addr().String()))
		if err := n.grpcServer.Serve(lis); err != nil {
			n.log.Error("admin server failed", zap.Error(err))
		}
	}()
	return nil
}

func (n *Node) startWeb() error {
	lis, err := net.Listen("tcp", n.cfg.WebAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", n.cfg.WebAddr, err)
	}
	n.httpServer = &http.Server{
		Handler:      n.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	n.webAddr = lis.Addr().String()

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.log.Info("web server listening", zap.String("addr", n.webAddr))
		if err := n.httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			n.log.Error("web server failed", zap.Error(err))
		}
	}()
	return nil
}

func (n *Node) stopWeb(ctx context.Context) {
	if err := n.httpServer.Shutdown(ctx); err != nil {
		n.log.Warn("web server shutdown failed", zap.Error(err))
	}
}

func (n *Node) startDiscovery(ctx context.Context) error {
	d, err := discovery.Connect(ctx, discovery.Options{
		Endpoints: n.cfg.EtcdEndpoints,
		Prefix:    n.cfg.EtcdPrefix,
		Logger:    n.log.Named("discovery"),
	})
	if err != nil {
		return err
	}
	n.discovery = d

	self := n.server.Self()
	if err := d.Register(ctx, self); err != nil {
		return err
	}
	seeds, rev, err := d.Seeds(ctx)
	if err != nil {
		return err
	}
	join := func(m rumor.Member) {
		if m.ID == self.ID {
			return
		}
		if n.server.InsertMember(m, rumor.Alive) {
			n.log.Info("discovered member", zap.String("id", m.ID), zap.String("addr", m.SwimAddr()))
		}
	}
	for _, m := range seeds {
		join(m)
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		d.Watch(ctx, rev, join)
	}()
	return nil
}

// syncHealth reports NOT_SERVING while the server is paused or departed.
func (n *Node) syncHealth() {
	status := healthpb.HealthCheckResponse_SERVING
	if h, ok := n.server.HealthOf(n.cfg.MemberID); n.server.Paused() || (ok && h == rumor.Departed) {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	n.health.SetServingStatus("", status)
	n.health.SetServingStatus(healthService, status)
}

// healthService is the service name reported alongside the overall status.
const healthService = "rumormill.Gossip"

func (n *Node) followHealth(ctx context.Context) {
	defer n.wg.Done()
	ticker := time.NewTicker(healthInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.syncHealth()
		}
	}
}
