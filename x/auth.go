/*
Package x contains some standard extensions

Extensions implement common functionality (auth, tokens, deposits)
and can be combined together to construct an application.

All sub-packages are various extensions, useful to build applications,
but not necessary to use the framework. This top-level package
contains some utilities shared between the extensions.
*/
package x

import (
	"github.com/dielemma/lifeline"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hardcoding x/sigs for all extensions.
type Authenticator interface {
	// GetConditions reveals all conditions fulfilled,
	// you may want GetAddresses helper instead
	GetConditions(lifeline.Context) []lifeline.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(lifeline.Context, lifeline.Address) bool
}

// MultiAuth chains together many authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of authenticators
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all conditions from all chained authenticators
func (m MultiAuth) GetConditions(ctx lifeline.Context) []lifeline.Condition {
	var res []lifeline.Condition
	for _, impl := range m.impls {
		add := impl.GetConditions(ctx)
		if len(add) > 0 {
			res = append(res, add...)
		}
	}
	// TODO: remove duplicates (don't sort?)
	return res
}

// HasAddress returns true iff any of the chained authenticators
// can authorize this address
func (m MultiAuth) HasAddress(ctx lifeline.Context, addr lifeline.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any authenticator
func GetAddresses(ctx lifeline.Context, auth Authenticator) []lifeline.Address {
	perms := auth.GetConditions(ctx)
	addrs := make([]lifeline.Address, len(perms))
	for i, p := range perms {
		addrs[i] = p.Address()
	}
	return addrs
}

// MainSigner returns the first authorized condition, or nil if none
func MainSigner(ctx lifeline.Context, auth Authenticator) lifeline.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all required addresses are
// authenticated in the context
func HasAllAddresses(ctx lifeline.Context, auth Authenticator, required []lifeline.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}
