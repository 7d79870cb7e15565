package sigs

import (
	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/errors"
)

// Decorator verifies the signatures and adds them to the context
type Decorator struct {
	allowMissingSigs bool
}

var _ lifeline.Decorator = Decorator{}

// NewDecorator returns a default authentication decorator,
// which appends the chainID before checking the signature,
// and requires at least one signature to be present
func NewDecorator() Decorator {
	return Decorator{
		allowMissingSigs: false,
	}
}

// AllowMissingSigs allows us to pass along items with no signatures
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

// Check verifies signatures before calling down the stack
func (d Decorator) Check(ctx lifeline.Context, store lifeline.KVStore, tx lifeline.Tx, next lifeline.Checker) (*lifeline.CheckResult, error) {
	newCtx, err := d.authenticate(ctx, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(newCtx, store, tx)
}

// Deliver verifies signatures before calling down the stack
func (d Decorator) Deliver(ctx lifeline.Context, store lifeline.KVStore, tx lifeline.Tx, next lifeline.Deliverer) (*lifeline.DeliverResult, error) {
	newCtx, err := d.authenticate(ctx, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(newCtx, store, tx)
}

func (d Decorator) authenticate(ctx lifeline.Context, tx lifeline.Tx) (lifeline.Context, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		// if it doesn't support signing, just skip so other
		// decorators can authenticate
		return ctx, nil
	}

	chainID := lifeline.GetChainID(ctx)
	signers, err := VerifyTxSignatures(stx, chainID)
	if err != nil {
		return nil, errors.Wrap(err, "verify tx signatures")
	}
	if len(signers) == 0 && !d.allowMissingSigs {
		return nil, errors.Wrap(ErrMissingSignature, "no signatures on tx")
	}
	return withSigners(ctx, signers), nil
}
