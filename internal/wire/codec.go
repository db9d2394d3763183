package wire

import (
	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"

	rumormillpb "rumormill/internal/gen/api"
	"rumormill/internal/crypto"
)

// Codec turns messages into datagrams and back.
type Codec struct {
	crypter crypto.Crypter
}

// NewCodec creates a codec. A nil crypter sends plaintext.
func NewCodec(crypter crypto.Crypter) *Codec {
	return &Codec{crypter: crypter}
}

// Encrypted reports whether datagrams are encrypted.
func (c *Codec) Encrypted() bool {
	return c.crypter != nil
}

// Marshal encodes m without compression or encryption.
func Marshal(m *Message) ([]byte, error) {
	pb, err := ToProto(m)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(pb)
}

// Unmarshal decodes a message produced by Marshal.
func Unmarshal(b []byte) (*Message, error) {
	pb := &rumormillpb.Message{}
	if err := proto.Unmarshal(b, pb); err != nil {
		return nil, errors.Wrapf(ErrMalformed, "%v", err)
	}
	return FromProto(pb)
}

// RumorSize returns how many bytes r adds to a message.
func RumorSize(r Rumor) int {
	pb, err := RumorToProto(r)
	if err != nil {
		return 0
	}
	return protowire.SizeTag(5) + protowire.SizeBytes(proto.Size(pb))
}

// Encode marshals, compresses and optionally encrypts m.
func (c *Codec) Encode(m *Message) ([]byte, error) {
	raw, err := Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "marshal")
	}
	if len(raw) > MaxDecodedSize {
		return nil, errors.Errorf("%s message is %d bytes, above the %d byte limit", m.Type, len(raw), MaxDecodedSize)
	}
	out := snappy.Encode(make([]byte, snappy.MaxEncodedLen(len(raw))), raw)
	if c.crypter != nil {
		out, err = c.crypter.Encrypt(out)
		if err != nil {
			return nil, errors.Wrap(err, "encrypt")
		}
	}
	if len(out) > MaxDatagramSize {
		return nil, errors.Errorf("encoded %s message is %d bytes, above the %d byte datagram limit", m.Type, len(out), MaxDatagramSize)
	}
	return out, nil
}

// Decode reverses Encode. Any failure means the datagram must be dropped.
// The decompressed length is checked before anything is allocated.
func (c *Codec) Decode(b []byte) (*Message, error) {
	var err error
	if c.crypter != nil {
		b, err = c.crypter.Decrypt(b)
		if err != nil {
			return nil, errors.Wrap(err, "decrypt")
		}
	}
	n, err := snappy.DecodedLen(b)
	if err != nil {
		return nil, errors.Wrap(err, "decompress")
	}
	if n > MaxDecodedSize {
		return nil, errors.Wrapf(ErrMalformed, "decompressed length %d above %d", n, MaxDecodedSize)
	}
	raw, err := snappy.Decode(make([]byte, n), b)
	if err != nil {
		return nil, errors.Wrap(err, "decompress")
	}
	m, err := Unmarshal(raw)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshal")
	}
	return m, nil
}
