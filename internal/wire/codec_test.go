package wire

import (
	"errors"
	"testing"

	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"rumormill/internal/crypto"
	rumormillpb "rumormill/internal/gen/api"
	"rumormill/internal/rumor"
)

func sampleMessage() *Message {
	from := rumor.Member{ID: "a", Incarnation: 3, Address: "10.0.0.1", SwimPort: 9638, GossipPort: 9639}
	target := rumor.Member{ID: "b", Incarnation: 1, Address: "10.0.0.2", SwimPort: 9638, GossipPort: 9639, Permanent: true}
	election := rumor.NewElection("a", "redis.default", 2, 10)
	election.Vote("c")

	return &Message{
		Type:   TypePingReq,
		From:   &from,
		Target: &target,
		Rumors: []Rumor{
			{FromID: "a", Payload: &rumor.Membership{Member: target, Health: rumor.Suspect}},
			{FromID: "a", Tags: []string{"x", "y"}, Payload: &rumor.Service{
				MemberID: "a", ServiceGroup: "redis.default", Incarnation: 4, Initialized: true,
				Pkg: "core/redis/4.0.0", Cfg: []byte("port = 6379"),
				SysInfo: rumor.SysInfo{IP: "10.0.0.1", Hostname: "host-a"},
			}},
			{FromID: "a", Payload: &rumor.ServiceConfig{ServiceGroup: "redis.default", Incarnation: 2, Encrypted: true, Config: []byte{1, 2, 3}}},
			{FromID: "a", Payload: &rumor.ServiceFile{ServiceGroup: "redis.default", Incarnation: 1, Filename: "a.conf", Body: []byte("body")}},
			{FromID: "a", Payload: election},
			{FromID: "a", Payload: rumor.NewElectionUpdate(election)},
			{FromID: "a", Payload: &rumor.Departure{MemberID: "z"}},
		},
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	key, err := crypto.GenerateSymKey("ring")
	require.NoError(t, err)

	for name, codec := range map[string]*Codec{"plain": NewCodec(nil), "encrypted": NewCodec(key)} {
		t.Run(name, func(t *testing.T) {
			in := sampleMessage()
			b, err := codec.Encode(in)
			require.NoError(t, err)

			out, err := codec.Decode(b)
			require.NoError(t, err)
			assert.Equal(t, in, out)
		})
	}
}

func TestCodec_ForwardTo(t *testing.T) {
	codec := NewCodec(nil)
	fwd := rumor.Member{ID: "requester", Address: "10.0.0.9", SwimPort: 1}
	b, err := codec.Encode(&Message{Type: TypeAck, From: &rumor.Member{ID: "b"}, ForwardTo: &fwd})
	require.NoError(t, err)

	out, err := codec.Decode(b)
	require.NoError(t, err)
	require.NotNil(t, out.ForwardTo)
	assert.Equal(t, "requester", out.ForwardTo.ID)
	assert.Nil(t, out.Target)
	assert.Empty(t, out.Rumors)
}

func TestCodec_DropsGarbage(t *testing.T) {
	key, err := crypto.GenerateSymKey("ring")
	require.NoError(t, err)
	plain := NewCodec(nil)
	encrypted := NewCodec(key)

	b, err := plain.Encode(sampleMessage())
	require.NoError(t, err)

	_, err = encrypted.Decode(b)
	assert.True(t, errors.Is(err, crypto.ErrDecrypt), "plaintext must not pass an encrypted codec: %v", err)

	_, err = plain.Decode([]byte("definitely not snappy"))
	assert.Error(t, err)

	_, err = plain.Decode(nil)
	assert.Error(t, err)
}

func TestCodec_RejectsOversizedDecompression(t *testing.T) {
	// A snappy header claiming a 4 GiB block.
	_, err := NewCodec(nil).Decode([]byte{0xfe, 0xff, 0xff, 0xff, 0x0f})
	assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
}

func TestUnmarshal_Malformed(t *testing.T) {
	good, err := Marshal(sampleMessage())
	require.NoError(t, err)

	tests := map[string][]byte{
		"truncated":    good[:len(good)-3],
		"no type":      {},
		"unknown type": {0x08, 0x09},
		"bad tag":      {0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01},
	}
	for name, b := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Unmarshal(b)
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
		})
	}
}

func TestFromProto_RejectsMissingIDs(t *testing.T) {
	anon := &rumormillpb.Member{Address: "10.0.0.1", SwimPort: 9638}
	named := &rumormillpb.Member{Id: "a"}
	withRumor := func(r *rumormillpb.Rumor) *rumormillpb.Message {
		return &rumormillpb.Message{Type: rumormillpb.MessageType_INJECT, Rumors: []*rumormillpb.Rumor{r}}
	}

	tests := map[string]*rumormillpb.Message{
		"from without id":       {Type: rumormillpb.MessageType_PING, From: anon},
		"target without id":     {Type: rumormillpb.MessageType_PINGREQ, From: named, Target: anon},
		"forward_to without id": {Type: rumormillpb.MessageType_ACK, From: named, ForwardTo: anon},
		"port out of range":     {Type: rumormillpb.MessageType_PING, From: &rumormillpb.Member{Id: "a", SwimPort: 70000}},
		"membership without id": withRumor(&rumormillpb.Rumor{
			Type:    rumormillpb.RumorType_MEMBER,
			Payload: &rumormillpb.Rumor_Member{Member: &rumormillpb.Membership{Member: anon}},
		}),
		"membership without member": withRumor(&rumormillpb.Rumor{
			Type:    rumormillpb.RumorType_MEMBER,
			Payload: &rumormillpb.Rumor_Member{Member: &rumormillpb.Membership{}},
		}),
		"service without member id": withRumor(&rumormillpb.Rumor{
			Type:    rumormillpb.RumorType_SERVICE,
			Payload: &rumormillpb.Rumor_Service{Service: &rumormillpb.Service{ServiceGroup: "redis.default"}},
		}),
		"service without group": withRumor(&rumormillpb.Rumor{
			Type:    rumormillpb.RumorType_SERVICE,
			Payload: &rumormillpb.Rumor_Service{Service: &rumormillpb.Service{MemberId: "a"}},
		}),
		"config without group": withRumor(&rumormillpb.Rumor{
			Type:    rumormillpb.RumorType_SERVICE_CONFIG,
			Payload: &rumormillpb.Rumor_ServiceConfig{ServiceConfig: &rumormillpb.ServiceConfig{}},
		}),
		"file without filename": withRumor(&rumormillpb.Rumor{
			Type:    rumormillpb.RumorType_SERVICE_FILE,
			Payload: &rumormillpb.Rumor_ServiceFile{ServiceFile: &rumormillpb.ServiceFile{ServiceGroup: "redis.default"}},
		}),
		"election without member id": withRumor(&rumormillpb.Rumor{
			Type:    rumormillpb.RumorType_ELECTION,
			Payload: &rumormillpb.Rumor_Election{Election: &rumormillpb.Election{ServiceGroup: "redis.default"}},
		}),
		"update without group": withRumor(&rumormillpb.Rumor{
			Type:    rumormillpb.RumorType_ELECTION_UPDATE,
			Payload: &rumormillpb.Rumor_ElectionUpdate{ElectionUpdate: &rumormillpb.Election{MemberId: "a"}},
		}),
		"departure without member id": withRumor(&rumormillpb.Rumor{
			Type:    rumormillpb.RumorType_DEPARTURE,
			Payload: &rumormillpb.Rumor_Departure{Departure: &rumormillpb.Departure{}},
		}),
		"rumor without payload": withRumor(&rumormillpb.Rumor{Type: rumormillpb.RumorType_DEPARTURE}),
	}
	for name, pb := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromProto(pb)
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
		})
	}
}

func TestCodec_DropsPingFromAnonymousMember(t *testing.T) {
	codec := NewCodec(nil)
	b, err := proto.Marshal(&rumormillpb.Message{Type: rumormillpb.MessageType_PING, From: &rumormillpb.Member{}})
	require.NoError(t, err)

	_, err = codec.Decode(snappy.Encode(nil, b))
	assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
}

func TestRumorFromProto_KindMismatch(t *testing.T) {
	pb, err := RumorToProto(Rumor{Payload: &rumor.Departure{MemberID: "a"}})
	require.NoError(t, err)
	pb.Type = rumormillpb.RumorType_MEMBER

	_, err = RumorFromProto(pb)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestMarshal_RejectsEmptyPayload(t *testing.T) {
	_, err := Marshal(&Message{Type: TypeInject, Rumors: []Rumor{{FromID: "a"}}})
	assert.Error(t, err)
}

func TestUnmarshal_SkipsUnknownFields(t *testing.T) {
	b, err := Marshal(&Message{Type: TypePing, From: &rumor.Member{ID: "a"}})
	require.NoError(t, err)
	// field 99, varint 7
	b = append(b, 0x98, 0x06, 0x07)

	m, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, "a", m.From.ID)
}

func TestRumorSize(t *testing.T) {
	r := Rumor{FromID: "a", Payload: &rumor.Departure{MemberID: "b"}}
	one, err := Marshal(&Message{Type: TypeInject, Rumors: []Rumor{r}})
	require.NoError(t, err)
	two, err := Marshal(&Message{Type: TypeInject, Rumors: []Rumor{r, r}})
	require.NoError(t, err)
	assert.Equal(t, len(two)-len(one), RumorSize(r))
}
