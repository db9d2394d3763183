package rumor

import (
	"net"
	"strconv"
)

// Health represents the state of a cluster member, ordered by severity.
type Health int

const (
	Alive Health = iota
	Suspect
	Confirmed
	Departed
)

// String returns the string representation of Health.
func (h Health) String() string {
	switch h {
	case Alive:
		return "ALIVE"
	case Suspect:
		return "SUSPECT"
	case Confirmed:
		return "CONFIRMED"
	case Departed:
		return "DEPARTED"
	default:
		return "UNKNOWN"
	}
}

// Member is the identity and addressing of one cluster participant.
// Only the member itself may raise its Incarnation.
type Member struct {
	ID          string
	Incarnation uint64
	Address     string
	SwimPort    int
	GossipPort  int
	Permanent   bool
}

// SwimAddr returns host:port of the failure detection socket.
func (m Member) SwimAddr() string {
	return net.JoinHostPort(m.Address, strconv.Itoa(m.SwimPort))
}

// GossipAddr returns host:port of the gossip socket.
func (m Member) GossipAddr() string {
	return net.JoinHostPort(m.Address, strconv.Itoa(m.GossipPort))
}

// Membership is a Member together with the health the cluster believes it has.
type Membership struct {
	Member Member
	Health Health
}

func (m *Membership) Kind() Kind  { return KindMember }
func (m *Membership) Key() string { return MembershipKey }
func (m *Membership) ID() string  { return m.Member.ID }

// Clone returns a copy of the membership.
func (m *Membership) Clone() *Membership {
	c := *m
	return &c
}

// Merge folds other into m.
//
// A higher incarnation wins outright. At equal incarnation the more severe
// health wins, so a suspicion can only be cleared by the member announcing a
// fresher incarnation. Departed is absorbing: once either side is Departed
// the result is Departed carrying the freshest member record.
// Permanence is sticky and never counts as a change.
func (m *Membership) Merge(other *Membership) bool {
	permanent := m.Member.Permanent || other.Member.Permanent
	defer func() { m.Member.Permanent = permanent }()

	if m.Health == Departed || other.Health == Departed {
		changed := false
		if other.Member.Incarnation > m.Member.Incarnation {
			m.Member = other.Member
			changed = true
		}
		if m.Health != Departed {
			m.Health = Departed
			changed = true
		}
		return changed
	}

	switch {
	case other.Member.Incarnation > m.Member.Incarnation:
		m.Member = other.Member
		m.Health = other.Health
		return true
	case other.Member.Incarnation == m.Member.Incarnation && other.Health > m.Health:
		m.Health = other.Health
		return true
	}
	return false
}
