package sigs

import (
	"github.com/dielemma/lifeline/errors"
)

var (
	// ErrInvalidSignature is when the signature does not match the message
	ErrInvalidSignature = errors.Register(1100, "invalid signature")
	// ErrMissingSignature is when no signature is present on a tx that needs one
	ErrMissingSignature = errors.Register(1101, "missing signature")
)
