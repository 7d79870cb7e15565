package deposit

import (
	"github.com/dielemma/lifeline/errors"
)

var (
	// ErrAddressMismatch is when a supplied record or vault address does
	// not match the derivation
	ErrAddressMismatch = errors.Register(1010, "address mismatch")
	// ErrAlreadyInitialized is when the record address is occupied
	ErrAlreadyInitialized = errors.Register(1011, "already initialized")
	// ErrAlreadyClosed is when the record was already settled
	ErrAlreadyClosed = errors.Register(1012, "already closed")
	// ErrNotSettled is when teardown is attempted on a live record
	ErrNotSettled = errors.Register(1013, "not yet settled")
	// ErrNotExpired is when the liveness timeout has not elapsed
	ErrNotExpired = errors.Register(1014, "not yet expired")
	// ErrReplayedProof is when a liveness proof token is reused
	ErrReplayedProof = errors.Register(1015, "replayed liveness proof")
	// ErrInvalidTimeout is when the timeout is outside configured bounds
	ErrInvalidTimeout = errors.Register(1016, "invalid timeout")
	// ErrInvalidTimestamp is when a timestamp fails the sanity bounds
	ErrInvalidTimestamp = errors.Register(1017, "invalid timestamp")
	// ErrInvalidSeed is when the seed is empty or exceeds the bound
	ErrInvalidSeed = errors.Register(1018, "invalid seed")
	// ErrInvalidFunding is when the funding account is missing, not owned
	// by the opener, or cannot cover the deposit
	ErrInvalidFunding = errors.Register(1019, "invalid funding account")
)
