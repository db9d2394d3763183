package wire

import (
	"rumormill/internal/rumor"
)

const (
	// MaxDatagramSize is the largest UDP payload we ever read.
	MaxDatagramSize = 65507

	// MaxDecodedSize bounds a decompressed datagram.
	MaxDecodedSize = 4 * MaxDatagramSize

	// SwimRumorBudget caps the encoded rumors piggybacked on a probe.
	SwimRumorBudget = 1024

	// GossipRumorBudget caps the encoded rumors in one push datagram.
	GossipRumorBudget = 48 * 1024
)

// MessageType discriminates datagrams.
type MessageType int32

const (
	TypePing MessageType = iota + 1
	TypeAck
	TypePingReq
	TypeInject
	TypePush
)

// String returns the string representation of MessageType.
func (t MessageType) String() string {
	switch t {
	case TypePing:
		return "ping"
	case TypeAck:
		return "ack"
	case TypePingReq:
		return "pingreq"
	case TypeInject:
		return "inject"
	case TypePush:
		return "push"
	default:
		return "unknown"
	}
}

// Message is one datagram.
//
// From describes the sender. On a PingReq, Target is the member to probe on
// the sender's behalf. On a relayed Ping and its Ack, ForwardTo names the
// member that asked for the indirect probe, so the Ack can be routed back.
type Message struct {
	Type      MessageType
	From      *rumor.Member
	Target    *rumor.Member
	ForwardTo *rumor.Member
	Rumors    []Rumor
}

// Rumor wraps one rumor payload with its origin.
type Rumor struct {
	FromID  string
	Tags    []string
	Payload rumor.Rumor
}
