package sigs

import (
	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/errors"
)

// VerifyTxSignatures checks all the signatures on the tx,
// returning the conditions for all of those who signed it
func VerifyTxSignatures(tx SignedTx, chainID string) ([]lifeline.Condition, error) {
	bz, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "get sign bytes")
	}

	sigs := tx.GetSignatures()
	signers := make([]lifeline.Condition, 0, len(sigs))
	for _, sig := range sigs {
		signer, err := VerifySignature(sig, bz, chainID)
		if err != nil {
			return nil, err
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature checks one signature against the sign bytes,
// returning the signer condition on success
func VerifySignature(sig StdSignature, signBytes []byte, chainID string) (lifeline.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}

	toSign, err := BuildSignBytes(signBytes, chainID)
	if err != nil {
		return nil, err
	}
	if !sig.Pubkey.Verify(toSign, sig.Signature) {
		return nil, errors.Wrap(ErrInvalidSignature, "signature mismatch")
	}
	return sig.Pubkey.Condition(), nil
}
