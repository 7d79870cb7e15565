package deposit

import (
	"encoding/binary"

	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/errors"
	"github.com/dielemma/lifeline/x/token"
)

// Operation discriminants, the first 4 bytes (little endian) of every
// wire payload.
const (
	OpOpen uint32 = iota
	OpRenewLiveness
	OpWithdraw
	OpClaim
	OpTeardown
)

// recordSize is the fixed serialized width of a record: owner +
// receiver + asset + amount + lastLiveness + timeout + nonce + closed +
// seedLen + padded seed + token presence tag + padded token.
const recordSize = 3*lifeline.AddressLength + 3*8 + 1 + 1 + 4 + MaxSeedLength + 1 + ProofTokenLength

// Marshal encodes the record into its fixed binary layout. The token
// section stays zeroed until a proof token is stored.
func (r *Record) Marshal() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	out := make([]byte, recordSize)

	off := 0
	off += copy(out[off:], r.Owner)
	off += copy(out[off:], r.Receiver)
	off += copy(out[off:], r.Asset)
	binary.LittleEndian.PutUint64(out[off:], r.Amount)
	off += 8
	binary.LittleEndian.PutUint64(out[off:], uint64(r.LastLiveness))
	off += 8
	binary.LittleEndian.PutUint64(out[off:], uint64(r.Timeout))
	off += 8
	out[off] = r.Nonce
	off++
	if r.Closed {
		out[off] = 1
	}
	off++
	binary.LittleEndian.PutUint32(out[off:], uint32(len(r.Seed)))
	off += 4
	copy(out[off:off+MaxSeedLength], r.Seed) // zero padded
	off += MaxSeedLength
	if r.Token != nil {
		out[off] = 1
		copy(out[off+1:], r.Token)
	}
	return out, nil
}

// Unmarshal parses the fixed binary layout
func (r *Record) Unmarshal(bz []byte) error {
	if len(bz) != recordSize {
		return errors.Wrapf(errors.ErrInput, "record data of %d bytes", len(bz))
	}

	off := 0
	r.Owner = append(lifeline.Address(nil), bz[off:off+lifeline.AddressLength]...)
	off += lifeline.AddressLength
	r.Receiver = append(lifeline.Address(nil), bz[off:off+lifeline.AddressLength]...)
	off += lifeline.AddressLength
	r.Asset = append(token.AssetID(nil), bz[off:off+token.AssetIDLength]...)
	off += token.AssetIDLength
	r.Amount = binary.LittleEndian.Uint64(bz[off:])
	off += 8
	r.LastLiveness = lifeline.UnixTime(binary.LittleEndian.Uint64(bz[off:]))
	off += 8
	r.Timeout = lifeline.UnixDuration(binary.LittleEndian.Uint64(bz[off:]))
	off += 8
	r.Nonce = bz[off]
	off++
	switch bz[off] {
	case 0:
		r.Closed = false
	case 1:
		r.Closed = true
	default:
		return errors.Wrapf(errors.ErrInput, "closed flag %d", bz[off])
	}
	off++
	seedLen := binary.LittleEndian.Uint32(bz[off:])
	off += 4
	if seedLen == 0 || seedLen > MaxSeedLength {
		return errors.Wrapf(ErrInvalidSeed, "stored seed length %d", seedLen)
	}
	r.Seed = append([]byte(nil), bz[off:off+int(seedLen)]...)
	off += MaxSeedLength

	switch bz[off] {
	case 0:
		if !isZeroToken(bz[off+1:]) {
			return errors.Wrap(errors.ErrInput, "untagged token section not zeroed")
		}
		r.Token = nil
	case 1:
		r.Token = append([]byte(nil), bz[off+1:]...)
	default:
		return errors.Wrapf(errors.ErrInput, "token tag %d", bz[off])
	}
	return nil
}

// ParseOperation decodes one wire operation and binds the supplied
// ordered resource handles, rejecting any payload that is truncated,
// carries trailing bytes, or whose handle set disagrees with the
// declared shape in count or order.
func ParseOperation(raw []byte, handles []lifeline.Address) (lifeline.Msg, error) {
	msg, rest, err := parseOperation(raw)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, errors.Wrapf(errors.ErrInput, "%d trailing bytes", len(rest))
	}
	if err := bindHandles(msg, handles); err != nil {
		return nil, err
	}
	return msg, nil
}

// EncodeOperation is the inverse of ParseOperation for client tooling.
// It emits the discriminant and payload; resource handles travel
// separately.
func EncodeOperation(msg lifeline.Msg) ([]byte, error) {
	switch m := msg.(type) {
	case *OpenMsg:
		out := encodeHeader(OpOpen, m.Seed, lifeline.AddressLength+16)
		out = append(out, m.Receiver...)
		out = appendUint64(out, m.Amount)
		out = appendUint64(out, uint64(m.Timeout))
		return out, nil
	case *RenewLivenessMsg:
		out := encodeHeader(OpRenewLiveness, m.Seed, len(m.Token))
		return append(out, m.Token...), nil
	case *WithdrawMsg:
		return encodeHeader(OpWithdraw, m.Seed, 0), nil
	case *ClaimMsg:
		return encodeHeader(OpClaim, m.Seed, 0), nil
	case *TeardownMsg:
		return encodeHeader(OpTeardown, m.Seed, 0), nil
	default:
		return nil, errors.Wrapf(errors.ErrType, "cannot encode %T", msg)
	}
}

func encodeHeader(op uint32, seed []byte, extra int) []byte {
	out := make([]byte, 8, 8+len(seed)+extra)
	binary.LittleEndian.PutUint32(out, op)
	binary.LittleEndian.PutUint32(out[4:], uint32(len(seed)))
	return append(out, seed...)
}

func appendUint64(out []byte, v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return append(out, buf[:]...)
}

// parseOperation decodes the discriminant and payload, returning any
// unconsumed bytes for the caller to interpret
func parseOperation(raw []byte) (lifeline.Msg, []byte, error) {
	if len(raw) < 4 {
		return nil, nil, errors.Wrap(errors.ErrInput, "payload shorter than discriminant")
	}
	op := binary.LittleEndian.Uint32(raw)
	rest := raw[4:]

	seed, rest, err := parseSeed(rest)
	if err != nil {
		return nil, nil, err
	}

	switch op {
	case OpOpen:
		if len(rest) < lifeline.AddressLength+16 {
			return nil, nil, errors.Wrap(errors.ErrInput, "truncated open payload")
		}
		msg := &OpenMsg{
			Seed:     seed,
			Receiver: append(lifeline.Address(nil), rest[:lifeline.AddressLength]...),
			Amount:   binary.LittleEndian.Uint64(rest[lifeline.AddressLength:]),
			Timeout:  lifeline.UnixDuration(binary.LittleEndian.Uint64(rest[lifeline.AddressLength+8:])),
		}
		return msg, rest[lifeline.AddressLength+16:], nil
	case OpRenewLiveness:
		msg := &RenewLivenessMsg{Seed: seed}
		// the proof token is optional, presence is by length
		if len(rest) >= ProofTokenLength {
			msg.Token = append([]byte(nil), rest[:ProofTokenLength]...)
			rest = rest[ProofTokenLength:]
		}
		return msg, rest, nil
	case OpWithdraw:
		return &WithdrawMsg{Seed: seed}, rest, nil
	case OpClaim:
		return &ClaimMsg{Seed: seed}, rest, nil
	case OpTeardown:
		return &TeardownMsg{Seed: seed}, rest, nil
	default:
		return nil, nil, errors.Wrapf(errors.ErrInput, "unknown operation %d", op)
	}
}

// parseSeed reads a length-prefixed seed, checking the declared length
// against both the remaining buffer and the fixed maximum before any
// semantic processing
func parseSeed(raw []byte) ([]byte, []byte, error) {
	if len(raw) < 4 {
		return nil, nil, errors.Wrap(errors.ErrInput, "truncated seed length")
	}
	n := binary.LittleEndian.Uint32(raw)
	raw = raw[4:]
	if n > MaxSeedLength {
		return nil, nil, errors.Wrapf(ErrInvalidSeed, "declared seed length %d", n)
	}
	if int(n) > len(raw) {
		return nil, nil, errors.Wrapf(errors.ErrInput, "seed length %d exceeds buffer", n)
	}
	return append([]byte(nil), raw[:n]...), raw[n:], nil
}

// bindHandles assigns the ordered resource handles into the message,
// validating the count matches the operation's declared shape
func bindHandles(msg lifeline.Msg, handles []lifeline.Address) error {
	var dst []*lifeline.Address
	switch m := msg.(type) {
	case *OpenMsg:
		dst = []*lifeline.Address{&m.Owner, &m.Record, &m.Vault, &m.Funding}
	case *RenewLivenessMsg:
		dst = []*lifeline.Address{&m.Owner, &m.Record}
	case *WithdrawMsg:
		dst = []*lifeline.Address{&m.Owner, &m.Record, &m.Vault, &m.Receiving}
	case *ClaimMsg:
		dst = []*lifeline.Address{&m.Receiver, &m.Record, &m.Vault, &m.Receiving}
	case *TeardownMsg:
		dst = []*lifeline.Address{&m.Caller, &m.Record, &m.Refund}
	default:
		return errors.Wrapf(errors.ErrType, "cannot bind handles for %T", msg)
	}

	if len(handles) != len(dst) {
		return errors.Wrapf(errors.ErrInput, "want %d handles, got %d", len(dst), len(handles))
	}
	for i, h := range handles {
		if err := h.Validate(); err != nil {
			return errors.Wrapf(err, "handle #%d", i)
		}
		*dst[i] = h
	}
	return nil
}
