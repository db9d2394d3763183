package it

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"rumormill/internal/crypto"
	"rumormill/internal/detector"
	"rumormill/internal/gossip"
	"rumormill/internal/rumor"
)

// FastTimings shrinks every protocol interval so a cluster converges within
// a few seconds on loopback.
var FastTimings = gossip.Config{
	ProbeInterval: 50 * time.Millisecond,
	Timeouts: detector.Timeouts{
		Ping:      100 * time.Millisecond,
		PingReq:   200 * time.Millisecond,
		Suspicion: 500 * time.Millisecond,
	},
	ExpireInterval:   20 * time.Millisecond,
	PushInterval:     50 * time.Millisecond,
	ElectionInterval: 100 * time.Millisecond,
	ReadTimeout:      20 * time.Millisecond,
}

// Cluster is a set of gossip servers running in this process on loopback.
type Cluster struct {
	// Crypter, when set, encrypts every node's traffic.
	Crypter crypto.Crypter

	t     zaptest.TestingT
	nodes []*Node
	mu    sync.Mutex
}

// Node is one member of a test cluster.
type Node struct {
	ID     string
	Server *gossip.Server
}

// NewCluster creates an empty cluster logging through t.
func NewCluster(t zaptest.TestingT) *Cluster {
	return &Cluster{t: t}
}

// StartNode starts a member on ephemeral loopback ports and introduces it to
// every node already running.
func (c *Cluster) StartNode(ctx context.Context, nodeID string) (*Node, error) {
	cfg := FastTimings
	cfg.MemberID = nodeID
	cfg.SwimListen = "127.0.0.1:0"
	cfg.GossipListen = "127.0.0.1:0"
	cfg.Crypter = c.Crypter
	cfg.Logger = zaptest.NewLogger(c.t, zaptest.Level(zap.InfoLevel)).Named(nodeID)

	srv, err := gossip.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create node %s: %w", nodeID, err)
	}
	if err := srv.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start node %s: %w", nodeID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	node := &Node{ID: nodeID, Server: srv}
	for _, peer := range c.nodes {
		peer.Server.InsertMember(srv.Self(), rumor.Alive)
		srv.InsertMember(peer.Server.Self(), rumor.Alive)
	}
	c.nodes = append(c.nodes, node)
	return node, nil
}

// StartCluster starts n nodes named n1..nN.
func (c *Cluster) StartCluster(ctx context.Context, n int) error {
	for i := 1; i <= n; i++ {
		if _, err := c.StartNode(ctx, fmt.Sprintf("n%d", i)); err != nil {
			return err
		}
	}
	return nil
}

// GetNode returns a node by id, or nil.
func (c *Cluster) GetNode(nodeID string) *Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.nodes {
		if n.ID == nodeID {
			return n
		}
	}
	return nil
}

// Nodes returns every node in start order.
func (c *Cluster) Nodes() []*Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Node(nil), c.nodes...)
}

// Stop stops every node.
func (c *Cluster) Stop() {
	for _, n := range c.Nodes() {
		n.Stop()
	}
}

// Stop stops the node's server. Stopping twice is harmless.
func (n *Node) Stop() {
	n.Server.Stop()
}

// HealthOf returns how n sees member id.
func (n *Node) HealthOf(id string) rumor.Health {
	h, ok := n.Server.HealthOf(id)
	if !ok {
		return rumor.Health(-1)
	}
	return h
}
