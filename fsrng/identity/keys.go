package identity

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"

	harpocrates "github.com/agilira/harpocrates"

	"github.com/TheusHen/fsrng/fsrng/drbg"
)

var (
	ErrInvalidPublicKey  = errors.New("identity: invalid Ed25519 public key size")
	ErrInvalidPrivateKey = errors.New("identity: invalid Ed25519 private key size")
	ErrInvalidKeyID      = errors.New("identity: invalid KeyID length")
	ErrInvalidCount      = errors.New("identity: key count must not be negative")
)

// keyIDLabel separates key IDs from any other SHA-256 of the public key.
const keyIDLabel = "fsrng-keyid-v1"

// KeyPair holds an Ed25519 signing keypair.
type KeyPair struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// KeyID names a public key: SHA-256(label || PublicKey).
type KeyID [32]byte

// GenerateKeyPair draws a 32-byte Ed25519 seed from rand. Passing a
// drbg.Generator makes the keypair a pure function of the generator state.
func GenerateKeyPair(rand io.Reader) (KeyPair, error) {
	var seed [ed25519.SeedSize]byte
	defer harpocrates.Zeroize(seed[:])
	if _, err := io.ReadFull(rand, seed[:]); err != nil {
		return KeyPair{}, err
	}
	priv := ed25519.NewKeyFromSeed(seed[:])
	return KeyPair{PublicKey: priv.Public().(ed25519.PublicKey), PrivateKey: priv}, nil
}

// DeriveKeyPairs derives n keypairs from parent, each from its own forked
// child. Key i depends only on the parent state and i, so asking for more keys
// later never changes the earlier ones. The children are wiped after use.
func DeriveKeyPairs(parent *drbg.Generator, n int) ([]KeyPair, error) {
	if n < 0 {
		return nil, ErrInvalidCount
	}
	out := make([]KeyPair, 0, n)
	var child drbg.Generator
	defer child.Wipe()
	for i := 0; i < n; i++ {
		parent.Fork(&child)
		kp, err := GenerateKeyPair(&child)
		if err != nil {
			return nil, err
		}
		out = append(out, kp)
	}
	return out, nil
}

func NewKeyPair(publicKey, privateKey []byte) (KeyPair, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return KeyPair{}, ErrInvalidPublicKey
	}
	if len(privateKey) != ed25519.PrivateKeySize {
		return KeyPair{}, ErrInvalidPrivateKey
	}
	return KeyPair{PublicKey: ed25519.PublicKey(publicKey), PrivateKey: ed25519.PrivateKey(privateKey)}, nil
}

func (kp KeyPair) KeyID() KeyID {
	return KeyIDFromPublicKey(kp.PublicKey)
}

func (kp KeyPair) Sign(message []byte) []byte {
	return ed25519.Sign(kp.PrivateKey, message)
}

// Wipe zeroes the private key in place.
func (kp KeyPair) Wipe() {
	harpocrates.Zeroize(kp.PrivateKey)
}

func Verify(publicKey ed25519.PublicKey, message, signature []byte) bool {
	return ed25519.Verify(publicKey, message, signature)
}

func KeyIDFromPublicKey(publicKey []byte) KeyID {
	h := sha256.New()
	h.Write([]byte(keyIDLabel))
	h.Write(publicKey)
	var id KeyID
	copy(id[:], h.Sum(nil))
	return id
}

func ParseKeyIDHex(s string) (KeyID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return KeyID{}, err
	}
	if len(b) != len(KeyID{}) {
		return KeyID{}, ErrInvalidKeyID
	}
	var id KeyID
	copy(id[:], b)
	return id, nil
}

func (id KeyID) String() string {
	return hex.EncodeToString(id[:])
}
