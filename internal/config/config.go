package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"rumormill/internal/crypto"
	"rumormill/internal/rumor"
)

var (
	ErrInvalidPort     = errors.New("port must be between 0 and 65535")
	ErrInvalidInterval = errors.New("interval must be positive")
	ErrInvalidTimeouts = errors.New("ping timeout must be shorter than the ping request timeout")
	ErrNoEtcdPrefix    = errors.New("etcd prefix is required when etcd endpoints are set")
)

// Peer represents a seed member, reachable on its failure detection address.
type Peer struct {
	ID   string
	Addr string
}

// Member returns the seed as a permanent member at incarnation 0, so any
// record the peer announces itself replaces it. The gossip port is learned
// from that record.
func (p Peer) Member() (rumor.Member, error) {
	host, portStr, err := net.SplitHostPort(p.Addr)
	if err != nil {
		return rumor.Member{}, fmt.Errorf("peer %s: %w", p.ID, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return rumor.Member{}, fmt.Errorf("peer %s: %w", p.ID, ErrInvalidPort)
	}
	return rumor.Member{ID: p.ID, Address: host, SwimPort: port, Permanent: true}, nil
}

// Config holds the daemon configuration.
type Config struct {
	MemberID      string
	ListenAddr    string
	SwimPort      int
	GossipPort    int
	AdvertiseAddr string
	Peers         []Peer
	// RingKey is a "name:base64" symmetric key. Empty disables encryption.
	RingKey string

	ProbeInterval    time.Duration
	PingTimeout      time.Duration
	PingReqTimeout   time.Duration
	SuspicionTimeout time.Duration
	PushInterval     time.Duration
	ElectionInterval time.Duration

	// AdminAddr serves gRPC health and reflection; empty disables it.
	AdminAddr string
	// WebAddr serves metrics and the census; empty disables it.
	WebAddr string

	EtcdEndpoints []string
	EtcdPrefix    string

	LogLevel string
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		ListenAddr:       "0.0.0.0",
		SwimPort:         9638,
		GossipPort:       9639,
		ProbeInterval:    1 * time.Second,
		PingTimeout:      1 * time.Second,
		PingReqTimeout:   2 * time.Second,
		SuspicionTimeout: 5 * time.Second,
		PushInterval:     1 * time.Second,
		ElectionInterval: 1 * time.Second,
		AdminAddr:        "127.0.0.1:9631",
		WebAddr:          "127.0.0.1:9632",
		EtcdPrefix:       "/rumormill/members",
		LogLevel:         "info",
	}
}

// Validate checks the configuration for values the daemon cannot run with.
func (c *Config) Validate() error {
	for _, p := range []int{c.SwimPort, c.GossipPort} {
		if p < 0 || p > 65535 {
			return fmt.Errorf("%w: %d", ErrInvalidPort, p)
		}
	}
	intervals := map[string]time.Duration{
		"probe-interval":    c.ProbeInterval,
		"ping-timeout":      c.PingTimeout,
		"pingreq-timeout":   c.PingReqTimeout,
		"suspicion-timeout": c.SuspicionTimeout,
		"push-interval":     c.PushInterval,
		"election-interval": c.ElectionInterval,
	}
	for name, d := range intervals {
		if d <= 0 {
			return fmt.Errorf("%w: %s=%s", ErrInvalidInterval, name, d)
		}
	}
	if c.PingTimeout >= c.PingReqTimeout {
		return ErrInvalidTimeouts
	}
	for _, p := range c.Peers {
		if _, err := p.Member(); err != nil {
			return err
		}
	}
	if c.RingKey != "" {
		if _, err := crypto.ParseSymKey(c.RingKey); err != nil {
			return err
		}
	}
	if len(c.EtcdEndpoints) > 0 && c.EtcdPrefix == "" {
		return ErrNoEtcdPrefix
	}
	return nil
}

// SwimListen returns the failure detection bind address.
func (c *Config) SwimListen() string {
	return net.JoinHostPort(c.ListenAddr, strconv.Itoa(c.SwimPort))
}

// GossipListen returns the gossip bind address.
func (c *Config) GossipListen() string {
	return net.JoinHostPort(c.ListenAddr, strconv.Itoa(c.GossipPort))
}

// Crypter returns the ring key, or nil when traffic is not encrypted.
func (c *Config) Crypter() (crypto.Crypter, error) {
	if c.RingKey == "" {
		return nil, nil
	}
	key, err := crypto.ParseSymKey(c.RingKey)
	if err != nil {
		return nil, err
	}
	return key, nil
}

// Seeds converts the configured peers to permanent members, skipping self.
func (c *Config) Seeds() ([]rumor.Member, error) {
	seeds := make([]rumor.Member, 0, len(c.Peers))
	for _, p := range c.Peers {
		if p.ID == c.MemberID {
			continue
		}
		m, err := p.Member()
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, m)
	}
	return seeds, nil
}

// FromViper reads the configuration from v, falling back to Default for
// unset keys. A missing member id is replaced by a random one.
func FromViper(v *viper.Viper) (*Config, error) {
	c := Default()
	c.MemberID = v.GetString("member-id")
	if c.MemberID == "" {
		c.MemberID = uuid.NewString()
	}
	if v.IsSet("listen") {
		c.ListenAddr = v.GetString("listen")
	}
	if v.IsSet("swim-port") {
		c.SwimPort = v.GetInt("swim-port")
	}
	if v.IsSet("gossip-port") {
		c.GossipPort = v.GetInt("gossip-port")
	}
	c.AdvertiseAddr = v.GetString("advertise")
	c.RingKey = v.GetString("ring-key")

	peers, err := ParsePeers(v.GetString("peers"))
	if err != nil {
		return nil, err
	}
	c.Peers = peers

	durations := map[string]*time.Duration{
		"probe-interval":    &c.ProbeInterval,
		"ping-timeout":      &c.PingTimeout,
		"pingreq-timeout":   &c.PingReqTimeout,
		"suspicion-timeout": &c.SuspicionTimeout,
		"push-interval":     &c.PushInterval,
		"election-interval": &c.ElectionInterval,
	}
	for key, dst := range durations {
		if v.IsSet(key) {
			*dst = v.GetDuration(key)
		}
	}

	if v.IsSet("admin-listen") {
		c.AdminAddr = v.GetString("admin-listen")
	}
	if v.IsSet("web-listen") {
		c.WebAddr = v.GetString("web-listen")
	}
	if eps := strings.TrimSpace(v.GetString("etcd-endpoints")); eps != "" {
		for _, ep := range strings.Split(eps, ",") {
			if ep = strings.TrimSpace(ep); ep != "" {
				c.EtcdEndpoints = append(c.EtcdEndpoints, ep)
			}
		}
	}
	if v.IsSet("etcd-prefix") {
		c.EtcdPrefix = v.GetString("etcd-prefix")
	}
	if v.IsSet("log-level") {
		c.LogLevel = v.GetString("log-level")
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ParsePeers parses a comma-separated list of peers in the format:
// "id1=host1:port1,id2=host2:port2"
func ParsePeers(peersStr string) ([]Peer, error) {
	if peersStr == "" {
		return []Peer{}, nil
	}

	parts := strings.Split(peersStr, ",")
	peers := make([]Peer, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid peer format: %s (expected id=host:port)", part)
		}

		id := strings.TrimSpace(kv[0])
		addr := strings.TrimSpace(kv[1])

		if id == "" || addr == "" {
			return nil, fmt.Errorf("peer ID and address cannot be empty: %s", part)
		}

		peers = append(peers, Peer{
			ID:   id,
			Addr: addr,
		})
	}

	return peers, nil
}
