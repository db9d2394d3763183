package rumor

import "fmt"

// Kind discriminates the rumor variants.
type Kind int

const (
	KindMember Kind = iota + 1
	KindService
	KindServiceConfig
	KindServiceFile
	KindElection
	KindElectionUpdate
	KindDeparture
)

// AllKinds lists every rumor kind in wire order.
var AllKinds = []Kind{
	KindMember,
	KindService,
	KindServiceConfig,
	KindServiceFile,
	KindElection,
	KindElectionUpdate,
	KindDeparture,
}

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindMember:
		return "member"
	case KindService:
		return "service"
	case KindServiceConfig:
		return "service_config"
	case KindServiceFile:
		return "service_file"
	case KindElection:
		return "election"
	case KindElectionUpdate:
		return "election_update"
	case KindDeparture:
		return "departure"
	default:
		return "unknown"
	}
}

// Constant keys and ids for the rumor kinds that are not partitioned by
// service group or not identified by member.
const (
	MembershipKey   = "membership"
	DepartureKey    = "departure"
	ElectionID      = "election"
	ServiceConfigID = "service_config"
)

// Rumor is the identity every rumor kind exposes.
type Rumor interface {
	Kind() Kind
	Key() string
	ID() string
}

// Mergeable is a rumor that can fold another value of its own kind into
// itself. Merge reports whether the receiver observably changed; Clone
// returns a deep copy that shares no mutable state with the receiver.
type Mergeable[T any] interface {
	Rumor
	Merge(other T) bool
	Clone() T
}

// Key addresses a rumor for heat tracking and deduplication.
type Key struct {
	Kind Kind
	Key  string
	ID   string
}

// KeyOf builds the Key for a rumor.
func KeyOf(r Rumor) Key {
	return Key{Kind: r.Kind(), Key: r.Key(), ID: r.ID()}
}

// String returns "kind/key/id".
func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Kind, k.Key, k.ID)
}
