package lifetest

import (
	"context"

	"github.com/dielemma/lifeline"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any requests with the same conditions.
// The contexts are ignored.
type Auth struct {
	// Signer is the main signer. Can be empty.
	Signer lifeline.Condition

	// Signers are additional signers. Can be empty.
	Signers []lifeline.Condition
}

// GetConditions returns all conditions this instance was created with
func (a *Auth) GetConditions(lifeline.Context) []lifeline.Condition {
	conds := a.Signers
	if a.Signer != nil {
		conds = append(conds, a.Signer)
	}
	return conds
}

// HasAddress checks against all conditions this instance was
// created with
func (a *Auth) HasAddress(ctx lifeline.Context, addr lifeline.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is an x.Authenticator implementation that reads conditions
// from the context, stored there under a given key. Unlike Auth, this
// lets a test vary who signed between calls sharing one authenticator.
type CtxAuth struct {
	Key string
}

type ctxAuthKey struct{ key string }

// SetConditions stores conditions in the context
func (a *CtxAuth) SetConditions(ctx lifeline.Context, conds ...lifeline.Condition) lifeline.Context {
	return context.WithValue(ctx, ctxAuthKey{a.Key}, conds)
}

// GetConditions returns the conditions stored in the context
func (a *CtxAuth) GetConditions(ctx lifeline.Context) []lifeline.Condition {
	conds, _ := ctx.Value(ctxAuthKey{a.Key}).([]lifeline.Condition)
	return conds
}

// HasAddress checks the conditions stored in the context
func (a *CtxAuth) HasAddress(ctx lifeline.Context, addr lifeline.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
