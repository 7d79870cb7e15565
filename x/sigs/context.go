package sigs

import (
	"context"

	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/x"
)

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx lifeline.Context, signers []lifeline.Condition) lifeline.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate implements x.Authenticator and provides
// authentication based on public-key signatures.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who signed the current Context.
// May be empty
func (a Authenticate) GetConditions(ctx lifeline.Context) []lifeline.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]lifeline.Condition)
	return val
}

// HasAddress returns true iff the given address signed this tx
func (a Authenticate) HasAddress(ctx lifeline.Context, addr lifeline.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
