package deposit

import (
	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/errors"
	"github.com/dielemma/lifeline/x/token"
)

// LivenessPolicy decides what counts as fresh liveness evidence.
// Exact-repeat and zero-token replays are already rejected by the
// renew handler before the policy runs; a policy adds whatever
// verification the deployment requires on top.
type LivenessPolicy interface {
	// VerifyProof may mutate state (eg. burn an auxiliary asset).
	// Any error aborts the renewal.
	VerifyProof(db lifeline.KVStore, rec *Record, proof []byte) error
}

// TokenPolicy accepts any non-replayed opaque proof token. This is
// the default: the token is externally obtained evidence and carries
// no further on-ledger meaning.
type TokenPolicy struct{}

var _ LivenessPolicy = TokenPolicy{}

// VerifyProof requires a token to be present
func (TokenPolicy) VerifyProof(db lifeline.KVStore, rec *Record, proof []byte) error {
	if proof == nil {
		return errors.Wrap(errors.ErrEmpty, "liveness proof required")
	}
	return nil
}

// BurnPolicy requires every renewal to destroy a fixed amount of an
// auxiliary asset, so asserting liveness has a real cost
type BurnPolicy struct {
	Ctrl token.Controller
	// Asset is the auxiliary asset burned per proof
	Asset token.AssetID
	// Cost is how much each renewal burns
	Cost uint64
}

var _ LivenessPolicy = BurnPolicy{}

// VerifyProof burns Cost units of the auxiliary asset from the account
// held at the record owner's address
func (p BurnPolicy) VerifyProof(db lifeline.KVStore, rec *Record, proof []byte) error {
	err := p.Ctrl.Move(db, rec.Owner, rec.Owner, token.BurnAddress(), p.Asset, p.Cost)
	return errors.Wrap(err, "burn liveness cost")
}
