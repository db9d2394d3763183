// Package crypto provides the symmetric ring key used to encrypt gossip
// traffic end to end.
package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
)

// ErrDecrypt is returned for ciphertext that cannot be opened with the key.
var ErrDecrypt = errors.New("unable to decrypt message")

// Crypter encrypts and decrypts datagrams.
type Crypter interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// SymKey is a named NaCl secretbox key shared by every member of a ring.
type SymKey struct {
	Name string
	key  [keySize]byte
}

// GenerateSymKey creates a random key.
func GenerateSymKey(name string) (*SymKey, error) {
	k := &SymKey{Name: name}
	if _, err := io.ReadFull(rand.Reader, k.key[:]); err != nil {
		return nil, errors.Wrap(err, "failed to generate key")
	}
	return k, nil
}

// ParseSymKey parses "name:base64key".
func ParseSymKey(s string) (*SymKey, error) {
	name, encoded, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || name == "" {
		return nil, errors.Errorf("invalid ring key %q (expected name:base64)", name)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid ring key %s", name)
	}
	if len(raw) != keySize {
		return nil, errors.Errorf("invalid ring key %s: got %d bytes, want %d", name, len(raw), keySize)
	}
	k := &SymKey{Name: name}
	copy(k.key[:], raw)
	return k, nil
}

// String renders the key in the form ParseSymKey accepts.
func (k *SymKey) String() string {
	return k.Name + ":" + base64.StdEncoding.EncodeToString(k.key[:])
}

// Encrypt seals plaintext behind a random nonce prefix.
func (k *SymKey) Encrypt(plaintext []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, errors.Wrap(err, "failed to generate nonce")
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, &k.key), nil
}

// Decrypt opens a message produced by Encrypt.
func (k *SymKey) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < nonceSize+secretbox.Overhead {
		return nil, errors.Wrapf(ErrDecrypt, "message too short (%d bytes)", len(ciphertext))
	}
	var nonce [nonceSize]byte
	copy(nonce[:], ciphertext[:nonceSize])
	out, ok := secretbox.Open(nil, ciphertext[nonceSize:], &nonce, &k.key)
	if !ok {
		return nil, ErrDecrypt
	}
	return out, nil
}
