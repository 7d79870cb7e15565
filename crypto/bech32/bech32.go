// Package bech32 provides bech32 encoding of arbitrary binary data,
// wrapping the btcutil implementation with the 8-to-5 bit conversion
// it expects.
package bech32

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/pkg/errors"
)

// Encode converts raw bytes to a bech32 string with the given
// human readable part
func Encode(hrp string, payload []byte) (string, error) {
	conv, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(err, "convert bits")
	}
	return bech32.Encode(hrp, conv)
}

// Decode parses a bech32 string back into the human readable part
// and the raw payload
func Decode(enc string) (string, []byte, error) {
	hrp, conv, err := bech32.Decode(enc)
	if err != nil {
		return "", nil, errors.Wrap(err, "decode bech32")
	}
	payload, err := bech32.ConvertBits(conv, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrap(err, "convert bits")
	}
	return hrp, payload, nil
}
