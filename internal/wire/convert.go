package wire

import (
	"errors"
	"fmt"
	"math"

	rumormillpb "rumormill/internal/gen/api"
	"rumormill/internal/rumor"
)

// ErrMalformed is returned for datagrams that do not decode into a valid
// message.
var ErrMalformed = errors.New("malformed message")

// ToProto converts m to its wire representation.
func ToProto(m *Message) (*rumormillpb.Message, error) {
	pb := &rumormillpb.Message{
		Type:      rumormillpb.MessageType(m.Type),
		From:      memberToProto(m.From),
		Target:    memberToProto(m.Target),
		ForwardTo: memberToProto(m.ForwardTo),
	}
	if len(m.Rumors) > 0 {
		pb.Rumors = make([]*rumormillpb.Rumor, 0, len(m.Rumors))
	}
	for _, r := range m.Rumors {
		pr, err := RumorToProto(r)
		if err != nil {
			return nil, err
		}
		pb.Rumors = append(pb.Rumors, pr)
	}
	return pb, nil
}

// FromProto converts a decoded message and validates it. Every member it
// names must carry an id.
func FromProto(pb *rumormillpb.Message) (*Message, error) {
	m := &Message{Type: MessageType(pb.GetType())}
	if m.Type < TypePing || m.Type > TypePush {
		return nil, fmt.Errorf("%w: unknown message type %d", ErrMalformed, m.Type)
	}

	var err error
	if m.From, err = memberFromProto("from", pb.GetFrom()); err != nil {
		return nil, err
	}
	if m.Target, err = memberFromProto("target", pb.GetTarget()); err != nil {
		return nil, err
	}
	if m.ForwardTo, err = memberFromProto("forward_to", pb.GetForwardTo()); err != nil {
		return nil, err
	}

	for _, pr := range pb.GetRumors() {
		r, err := RumorFromProto(pr)
		if err != nil {
			return nil, err
		}
		m.Rumors = append(m.Rumors, r)
	}
	return m, nil
}

// RumorToProto converts one rumor envelope.
func RumorToProto(r Rumor) (*rumormillpb.Rumor, error) {
	if r.Payload == nil {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformed)
	}
	pb := &rumormillpb.Rumor{
		Type:   rumormillpb.RumorType(r.Payload.Kind()),
		FromId: r.FromID,
		Tag:    r.Tags,
	}

	switch p := r.Payload.(type) {
	case *rumor.Membership:
		pb.Payload = &rumormillpb.Rumor_Member{Member: &rumormillpb.Membership{
			Member: memberToProto(&p.Member),
			Health: rumormillpb.Health(p.Health),
		}}
	case *rumor.Service:
		svc := &rumormillpb.Service{
			MemberId:     p.MemberID,
			ServiceGroup: p.ServiceGroup,
			Incarnation:  p.Incarnation,
			Initialized:  p.Initialized,
			Pkg:          p.Pkg,
			Cfg:          p.Cfg,
		}
		if p.SysInfo != (rumor.SysInfo{}) {
			svc.Sys = &rumormillpb.SysInfo{Ip: p.SysInfo.IP, Hostname: p.SysInfo.Hostname}
		}
		pb.Payload = &rumormillpb.Rumor_Service{Service: svc}
	case *rumor.ServiceConfig:
		pb.Payload = &rumormillpb.Rumor_ServiceConfig{ServiceConfig: &rumormillpb.ServiceConfig{
			ServiceGroup: p.ServiceGroup,
			Incarnation:  p.Incarnation,
			Encrypted:    p.Encrypted,
			Config:       p.Config,
		}}
	case *rumor.ServiceFile:
		pb.Payload = &rumormillpb.Rumor_ServiceFile{ServiceFile: &rumormillpb.ServiceFile{
			ServiceGroup: p.ServiceGroup,
			Incarnation:  p.Incarnation,
			Encrypted:    p.Encrypted,
			Filename:     p.Filename,
			Body:         p.Body,
		}}
	case *rumor.Election:
		pb.Payload = &rumormillpb.Rumor_Election{Election: electionToProto(p)}
	case *rumor.ElectionUpdate:
		pb.Payload = &rumormillpb.Rumor_ElectionUpdate{ElectionUpdate: electionToProto(&p.Election)}
	case *rumor.Departure:
		pb.Payload = &rumormillpb.Rumor_Departure{Departure: &rumormillpb.Departure{MemberId: p.MemberID}}
	default:
		return nil, fmt.Errorf("%w: unsupported payload %T", ErrMalformed, r.Payload)
	}
	return pb, nil
}

// RumorFromProto converts and validates one rumor envelope. The declared
// type must match the payload.
func RumorFromProto(pb *rumormillpb.Rumor) (Rumor, error) {
	if pb == nil {
		return Rumor{}, fmt.Errorf("%w: nil rumor", ErrMalformed)
	}
	r := Rumor{FromID: pb.GetFromId(), Tags: pb.GetTag()}

	var err error
	switch p := pb.GetPayload().(type) {
	case *rumormillpb.Rumor_Member:
		r.Payload, err = membershipFromProto(p.Member)
	case *rumormillpb.Rumor_Service:
		r.Payload, err = serviceFromProto(p.Service)
	case *rumormillpb.Rumor_ServiceConfig:
		c := p.ServiceConfig
		if c.GetServiceGroup() == "" {
			return Rumor{}, fmt.Errorf("%w: service config without service group", ErrMalformed)
		}
		r.Payload = &rumor.ServiceConfig{
			ServiceGroup: c.GetServiceGroup(),
			Incarnation:  c.GetIncarnation(),
			Encrypted:    c.GetEncrypted(),
			Config:       c.GetConfig(),
		}
	case *rumormillpb.Rumor_ServiceFile:
		f := p.ServiceFile
		if f.GetServiceGroup() == "" || f.GetFilename() == "" {
			return Rumor{}, fmt.Errorf("%w: service file without service group or filename", ErrMalformed)
		}
		r.Payload = &rumor.ServiceFile{
			ServiceGroup: f.GetServiceGroup(),
			Incarnation:  f.GetIncarnation(),
			Encrypted:    f.GetEncrypted(),
			Filename:     f.GetFilename(),
			Body:         f.GetBody(),
		}
	case *rumormillpb.Rumor_Election:
		r.Payload, err = electionFromProto(p.Election)
	case *rumormillpb.Rumor_ElectionUpdate:
		var e *rumor.Election
		if e, err = electionFromProto(p.ElectionUpdate); err == nil {
			r.Payload = &rumor.ElectionUpdate{Election: *e}
		}
	case *rumormillpb.Rumor_Departure:
		if p.Departure.GetMemberId() == "" {
			return Rumor{}, fmt.Errorf("%w: departure without member id", ErrMalformed)
		}
		r.Payload = &rumor.Departure{MemberID: p.Departure.GetMemberId()}
	default:
		return Rumor{}, fmt.Errorf("%w: rumor without payload", ErrMalformed)
	}
	if err != nil {
		return Rumor{}, err
	}

	if kind := rumor.Kind(pb.GetType()); r.Payload.Kind() != kind {
		return Rumor{}, fmt.Errorf("%w: rumor declares %s but carries %s", ErrMalformed, kind, r.Payload.Kind())
	}
	return r, nil
}

func memberToProto(m *rumor.Member) *rumormillpb.Member {
	if m == nil {
		return nil
	}
	return &rumormillpb.Member{
		Id:          m.ID,
		Incarnation: m.Incarnation,
		Address:     m.Address,
		SwimPort:    uint32(m.SwimPort),
		GossipPort:  uint32(m.GossipPort),
		Permanent:   m.Permanent,
	}
}

// memberFromProto returns nil for an absent member.
func memberFromProto(field string, pb *rumormillpb.Member) (*rumor.Member, error) {
	if pb == nil {
		return nil, nil
	}
	if pb.GetId() == "" {
		return nil, fmt.Errorf("%w: %s member without id", ErrMalformed, field)
	}
	if pb.GetSwimPort() > math.MaxUint16 || pb.GetGossipPort() > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %s member %s has a port out of range", ErrMalformed, field, pb.GetId())
	}
	return &rumor.Member{
		ID:          pb.GetId(),
		Incarnation: pb.GetIncarnation(),
		Address:     pb.GetAddress(),
		SwimPort:    int(pb.GetSwimPort()),
		GossipPort:  int(pb.GetGossipPort()),
		Permanent:   pb.GetPermanent(),
	}, nil
}

func membershipFromProto(pb *rumormillpb.Membership) (*rumor.Membership, error) {
	if pb.GetMember() == nil {
		return nil, fmt.Errorf("%w: membership without member", ErrMalformed)
	}
	m, err := memberFromProto("membership", pb.GetMember())
	if err != nil {
		return nil, err
	}
	h := rumor.Health(pb.GetHealth())
	if h < rumor.Alive || h > rumor.Departed {
		return nil, fmt.Errorf("%w: unknown health %d", ErrMalformed, pb.GetHealth())
	}
	return &rumor.Membership{Member: *m, Health: h}, nil
}

func serviceFromProto(pb *rumormillpb.Service) (*rumor.Service, error) {
	if pb.GetMemberId() == "" || pb.GetServiceGroup() == "" {
		return nil, fmt.Errorf("%w: service without member id or service group", ErrMalformed)
	}
	return &rumor.Service{
		MemberID:     pb.GetMemberId(),
		ServiceGroup: pb.GetServiceGroup(),
		Incarnation:  pb.GetIncarnation(),
		Initialized:  pb.GetInitialized(),
		Pkg:          pb.GetPkg(),
		Cfg:          pb.GetCfg(),
		SysInfo: rumor.SysInfo{
			IP:       pb.GetSys().GetIp(),
			Hostname: pb.GetSys().GetHostname(),
		},
	}, nil
}

func electionToProto(e *rumor.Election) *rumormillpb.Election {
	return &rumormillpb.Election{
		MemberId:     e.MemberID,
		ServiceGroup: e.ServiceGroup,
		Term:         e.Term,
		Suitability:  e.Suitability,
		Status:       rumormillpb.Election_Status(e.Status),
		Votes:        e.Votes,
	}
}

func electionFromProto(pb *rumormillpb.Election) (*rumor.Election, error) {
	if pb.GetMemberId() == "" || pb.GetServiceGroup() == "" {
		return nil, fmt.Errorf("%w: election without member id or service group", ErrMalformed)
	}
	status := rumor.ElectionStatus(pb.GetStatus())
	if status < rumor.Running || status > rumor.Finished {
		return nil, fmt.Errorf("%w: unknown election status %d", ErrMalformed, pb.GetStatus())
	}
	e := &rumor.Election{
		MemberID:     pb.GetMemberId(),
		ServiceGroup: pb.GetServiceGroup(),
		Term:         pb.GetTerm(),
		Suitability:  pb.GetSuitability(),
		Status:       status,
	}
	for _, v := range pb.GetVotes() {
		if v != "" {
			e.Vote(v)
		}
	}
	return e, nil
}
