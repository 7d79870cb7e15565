package sigs

import (
	"github.com/dielemma/lifeline/crypto"
)

// SignTx creates a signature for the given tx, to be appended
// to the tx before submission
func SignTx(signer crypto.Signer, tx SignedTx, chainID string) (*StdSignature, error) {
	toSign, err := BuildSignBytesTx(tx, chainID)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(toSign)
	if err != nil {
		return nil, err
	}
	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
	}, nil
}
