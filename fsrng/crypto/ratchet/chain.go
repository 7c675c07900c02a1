package ratchet

import (
	"encoding/binary"
	"errors"
	"sync"

	harpocrates "github.com/agilira/harpocrates"

	"github.com/TheusHen/fsrng/fsrng/crypto"
	"github.com/TheusHen/fsrng/fsrng/drbg"
)

var (
	ErrRatchetExhausted  = errors.New("ratchet: maximum generation reached")
	ErrInvalidGeneration = errors.New("ratchet: invalid generation number")
	ErrInvalidKey        = errors.New("ratchet: initial key must be 32 bytes")
	ErrMessageTooShort   = errors.New("ratchet: message too short")
	ErrInvalidMaxSkip    = errors.New("ratchet: maxSkip must not be negative")
)

const (
	// MaxGeneration is the maximum number of ratchet steps before re-keying is required.
	MaxGeneration = 1 << 32

	messageKeySize = 32
)

var chainInfo = []byte("fsrng-ratchet-chain")

func newKeyStream(initialKey []byte, keys *drbg.Generator) error {
	if len(initialKey) != messageKeySize {
		return ErrInvalidKey
	}
	seed, err := crypto.DeriveSeed(initialKey, nil, chainInfo)
	if err != nil {
		return err
	}
	keys.Init(&seed)
	return nil
}

func openWith(key *[messageKeySize]byte, msg EncryptedMessage, ad []byte) ([]byte, error) {
	aead, err := crypto.NewAEAD(key[:], nil)
	if err != nil {
		return nil, err
	}
	return aead.Open(msg.Ciphertext, ad)
}

func wipeKey(key *[messageKeySize]byte) {
	harpocrates.Zeroize(key[:])
}

// Chain is the sending half of a ratchet.
type Chain struct {
	mu         sync.Mutex
	keys       drbg.Generator
	generation uint64
}

// NewChain creates a new ratchet chain from an initial 32-byte key.
func NewChain(initialKey []byte) (*Chain, error) {
	c := &Chain{}
	if err := newKeyStream(initialKey, &c.keys); err != nil {
		return nil, err
	}
	return c, nil
}

// Step advances the ratchet and returns an AEAD for the current message.
func (c *Chain) Step() (*crypto.AEAD, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation >= MaxGeneration {
		return nil, 0, ErrRatchetExhausted
	}

	var msgKey [messageKeySize]byte
	c.keys.Fill(msgKey[:])
	defer wipeKey(&msgKey)
	gen := c.generation
	c.generation++

	aead, err := crypto.NewAEAD(msgKey[:], nil)
	if err != nil {
		return nil, 0, err
	}
	return aead, gen, nil
}

// Generation returns the current generation number.
func (c *Chain) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// EncryptedMessage represents a ratcheted encrypted message.
type EncryptedMessage struct {
	Generation uint64
	Ciphertext []byte
}

// Seal encrypts plaintext, advances the ratchet, and returns the encrypted message.
func (c *Chain) Seal(plaintext, ad []byte) (EncryptedMessage, error) {
	aead, gen, err := c.Step()
	if err != nil {
		return EncryptedMessage{}, err
	}
	ct := aead.Seal(plaintext, ad)
	return EncryptedMessage{Generation: gen, Ciphertext: ct}, nil
}

// Receiver manages decryption with out-of-order tolerance.
// Its key stream only advances when a message authenticates.
type Receiver struct {
	mu         sync.Mutex
	keys       drbg.Generator
	skipped    map[uint64][messageKeySize]byte
	currentGen uint64
	maxSkip    int
}

// NewReceiver creates a receiver ratchet from the initial key.
// maxSkip bounds how far ahead of the next expected generation a message may be.
func NewReceiver(initialKey []byte, maxSkip int) (*Receiver, error) {
	if maxSkip < 0 {
		return nil, ErrInvalidMaxSkip
	}
	r := &Receiver{
		skipped: make(map[uint64][messageKeySize]byte),
		maxSkip: maxSkip,
	}
	if err := newKeyStream(initialKey, &r.keys); err != nil {
		return nil, err
	}
	return r, nil
}

// Open decrypts an encrypted message, handling out-of-order delivery.
func (r *Receiver) Open(msg EncryptedMessage, ad []byte) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	gen := msg.Generation

	if key, ok := r.skipped[gen]; ok {
		pt, err := openWith(&key, msg, ad)
		if err != nil {
			return nil, err
		}
		delete(r.skipped, gen)
		wipeKey(&key)
		return pt, nil
	}

	if gen < r.currentGen || gen-r.currentGen > uint64(r.maxSkip) {
		return nil, ErrInvalidGeneration
	}

	// Work on a copy so a forged message cannot advance the stream.
	next := r.keys
	defer next.Wipe()

	skipped := make([][messageKeySize]byte, gen-r.currentGen)
	for i := range skipped {
		next.Fill(skipped[i][:])
	}
	var msgKey [messageKeySize]byte
	next.Fill(msgKey[:])
	defer wipeKey(&msgKey)

	pt, err := openWith(&msgKey, msg, ad)
	if err != nil {
		for i := range skipped {
			wipeKey(&skipped[i])
		}
		return nil, err
	}

	for i, key := range skipped {
		r.skipped[r.currentGen+uint64(i)] = key
	}
	r.keys = next
	r.currentGen = gen + 1
	return pt, nil
}

// Pending returns the number of skipped message keys still cached.
func (r *Receiver) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.skipped)
}

// Encode serializes an EncryptedMessage for wire transmission.
func (m EncryptedMessage) Encode() []byte {
	out := make([]byte, 8+len(m.Ciphertext))
	binary.BigEndian.PutUint64(out[:8], m.Generation)
	copy(out[8:], m.Ciphertext)
	return out
}

// DecodeEncryptedMessage deserializes an EncryptedMessage.
func DecodeEncryptedMessage(data []byte) (EncryptedMessage, error) {
	if len(data) < 8 {
		return EncryptedMessage{}, ErrMessageTooShort
	}
	return EncryptedMessage{
		Generation: binary.BigEndian.Uint64(data[:8]),
		Ciphertext: data[8:],
	}, nil
}
