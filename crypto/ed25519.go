package crypto

import (
	"crypto/rand"

	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/errors"
	"golang.org/x/crypto/ed25519"
)

// PublicKey is an ed25519 public key used to verify signatures
type PublicKey struct {
	Data []byte
}

// PrivateKey is an ed25519 private key used to create signatures
type PrivateKey struct {
	Data []byte
}

// Signature is a detached ed25519 signature
type Signature struct {
	Data []byte
}

// Signer is the functionality we use from a private key
type Signer interface {
	Sign(msg []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// Verify returns true iff this signature was produced by the matching
// private key over this message
func (p *PublicKey) Verify(msg []byte, sig *Signature) bool {
	if p == nil || sig == nil {
		return false
	}
	if len(p.Data) != ed25519.PublicKeySize || len(sig.Data) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Data), msg, sig.Data)
}

// Condition generates a Condition object to represent
// a valid signature.
func (p *PublicKey) Condition() lifeline.Condition {
	if p == nil || len(p.Data) != ed25519.PublicKeySize {
		return nil
	}
	return lifeline.NewCondition("sigs", "ed25519", p.Data)
}

// Address is a convenience method for Condition().Address()
func (p *PublicKey) Address() lifeline.Address {
	return p.Condition().Address()
}

// Validate ensures the key has the proper size
func (p *PublicKey) Validate() error {
	if p == nil || len(p.Data) != ed25519.PublicKeySize {
		return errors.Wrap(errors.ErrInput, "invalid ed25519 public key")
	}
	return nil
}

// Sign generates a signature over the given message
func (p *PrivateKey) Sign(msg []byte) (*Signature, error) {
	if p == nil || len(p.Data) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInput, "invalid ed25519 private key")
	}
	bz := ed25519.Sign(ed25519.PrivateKey(p.Data), msg)
	return &Signature{Data: bz}, nil
}

// PublicKey returns the public key matching this private key
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(p.Data).Public().(ed25519.PublicKey)
	return &PublicKey{Data: pub}
}

// GenPrivKeyEd25519 creates a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Data: priv}
}

// PrivKeyEd25519FromSeed deterministically creates a private key
// from a 32 byte seed. Used mainly in tests.
func PrivKeyEd25519FromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInput, "seed must be %d bytes", ed25519.SeedSize)
	}
	return &PrivateKey{Data: ed25519.NewKeyFromSeed(seed)}, nil
}
