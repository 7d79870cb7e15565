package token

import (
	"github.com/dielemma/lifeline/errors"
)

var (
	// ErrInsufficientFunds is when the account balance cannot cover a move
	ErrInsufficientFunds = errors.Register(1200, "insufficient funds")
	// ErrAssetMismatch is when two accounts hold different assets
	ErrAssetMismatch = errors.Register(1201, "asset mismatch")
	// ErrInvalidAccount is when the referenced account is missing or malformed
	ErrInvalidAccount = errors.Register(1202, "invalid account")
)
