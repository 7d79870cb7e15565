package sigs

import (
	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/crypto"
	"github.com/dielemma/lifeline/errors"
)

// SignedTx represents a transaction that carries signatures
// alongside the raw message bytes
type SignedTx interface {
	lifeline.Tx

	// GetSignBytes returns the canonical byte representation of the Msg.
	// Equivalent to tx.GetMsg().Marshal() with the signatures excluded.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signature of signers who signed the Msg.
	GetSignatures() []StdSignature
}

// StdSignature represents the signature and the identity of the signer
type StdSignature struct {
	Pubkey    *crypto.PublicKey
	Signature *crypto.Signature
}

// Validate ensures the signature carries both parts
func (s StdSignature) Validate() error {
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrEmpty, "missing public key")
	}
	if err := s.Pubkey.Validate(); err != nil {
		return err
	}
	if s.Signature == nil || len(s.Signature.Data) == 0 {
		return errors.Wrap(errors.ErrEmpty, "missing signature")
	}
	return nil
}

// BuildSignBytes combines the message with the chain id to prevent
// the signature being replayed on another network
func BuildSignBytes(signBytes []byte, chainID string) ([]byte, error) {
	if len(signBytes) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "empty sign bytes")
	}
	if !lifeline.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	return append(signBytes, []byte(chainID)...), nil
}

// BuildSignBytesTx calculates the sign bytes given a tx
func BuildSignBytesTx(tx SignedTx, chainID string) ([]byte, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(signBytes, chainID)
}
