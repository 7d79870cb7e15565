package deposit

import (
	"encoding/binary"

	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/errors"
)

// Path constants to register the handlers under
const (
	pathOpen          = "deposit/open"
	pathRenewLiveness = "deposit/renew"
	pathWithdraw      = "deposit/withdraw"
	pathClaim         = "deposit/claim"
	pathTeardown      = "deposit/teardown"
)

var (
	_ lifeline.Msg = (*OpenMsg)(nil)
	_ lifeline.Msg = (*RenewLivenessMsg)(nil)
	_ lifeline.Msg = (*WithdrawMsg)(nil)
	_ lifeline.Msg = (*ClaimMsg)(nil)
	_ lifeline.Msg = (*TeardownMsg)(nil)
)

// OpenMsg creates a new escrow record and funds its vault.
// Resource handles, in order: owner, record, vault, funding.
type OpenMsg struct {
	Owner    lifeline.Address
	Record   lifeline.Address
	Vault    lifeline.Address
	Funding  lifeline.Address
	Seed     []byte
	Receiver lifeline.Address
	Amount   uint64
	Timeout  lifeline.UnixDuration
}

func (OpenMsg) Path() string { return pathOpen }

// Handles returns the ordered resource handle list of this operation
func (m *OpenMsg) Handles() []lifeline.Address {
	return []lifeline.Address{m.Owner, m.Record, m.Vault, m.Funding}
}

// Validate checks the stateless preconditions
func (m *OpenMsg) Validate() error {
	if err := validateSeed(m.Seed); err != nil {
		return err
	}
	if err := m.Receiver.Validate(); err != nil {
		return errors.Wrap(err, "receiver")
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "amount must be positive")
	}
	if m.Timeout <= 0 {
		return errors.Wrap(ErrInvalidTimeout, "timeout must be positive")
	}
	return validateHandles(m.Handles())
}

func (m *OpenMsg) Marshal() ([]byte, error)  { return marshalMsg(m, m.Handles()) }
func (m *OpenMsg) Unmarshal(bz []byte) error { return unmarshalMsg(m, bz) }

// RenewLivenessMsg resets the expiry clock with fresh liveness
// evidence. Resource handles, in order: owner, record.
type RenewLivenessMsg struct {
	Owner  lifeline.Address
	Record lifeline.Address
	Seed   []byte
	// Token is the optional liveness proof, nil or ProofTokenLength bytes
	Token []byte
}

func (RenewLivenessMsg) Path() string { return pathRenewLiveness }

// Handles returns the ordered resource handle list of this operation
func (m *RenewLivenessMsg) Handles() []lifeline.Address {
	return []lifeline.Address{m.Owner, m.Record}
}

// Validate checks the stateless preconditions
func (m *RenewLivenessMsg) Validate() error {
	if err := validateSeed(m.Seed); err != nil {
		return err
	}
	if m.Token != nil && len(m.Token) != ProofTokenLength {
		return errors.Wrapf(errors.ErrInput, "proof token must be %d bytes", ProofTokenLength)
	}
	return validateHandles(m.Handles())
}

func (m *RenewLivenessMsg) Marshal() ([]byte, error)  { return marshalMsg(m, m.Handles()) }
func (m *RenewLivenessMsg) Unmarshal(bz []byte) error { return unmarshalMsg(m, bz) }

// WithdrawMsg settles the escrow back to its owner.
// Resource handles, in order: owner, record, vault, receiving.
type WithdrawMsg struct {
	Owner     lifeline.Address
	Record    lifeline.Address
	Vault     lifeline.Address
	Receiving lifeline.Address
	Seed      []byte
}

func (WithdrawMsg) Path() string { return pathWithdraw }

// Handles returns the ordered resource handle list of this operation
func (m *WithdrawMsg) Handles() []lifeline.Address {
	return []lifeline.Address{m.Owner, m.Record, m.Vault, m.Receiving}
}

// Validate checks the stateless preconditions
func (m *WithdrawMsg) Validate() error {
	if err := validateSeed(m.Seed); err != nil {
		return err
	}
	return validateHandles(m.Handles())
}

func (m *WithdrawMsg) Marshal() ([]byte, error)  { return marshalMsg(m, m.Handles()) }
func (m *WithdrawMsg) Unmarshal(bz []byte) error { return unmarshalMsg(m, bz) }

// ClaimMsg settles an expired escrow to the named receiver.
// Resource handles, in order: receiver, record, vault, receiving.
type ClaimMsg struct {
	Receiver  lifeline.Address
	Record    lifeline.Address
	Vault     lifeline.Address
	Receiving lifeline.Address
	Seed      []byte
}

func (ClaimMsg) Path() string { return pathClaim }

// Handles returns the ordered resource handle list of this operation
func (m *ClaimMsg) Handles() []lifeline.Address {
	return []lifeline.Address{m.Receiver, m.Record, m.Vault, m.Receiving}
}

// Validate checks the stateless preconditions
func (m *ClaimMsg) Validate() error {
	if err := validateSeed(m.Seed); err != nil {
		return err
	}
	return validateHandles(m.Handles())
}

func (m *ClaimMsg) Marshal() ([]byte, error)  { return marshalMsg(m, m.Handles()) }
func (m *ClaimMsg) Unmarshal(bz []byte) error { return unmarshalMsg(m, bz) }

// TeardownMsg destroys a settled record and refunds its storage
// reserve. Resource handles, in order: caller, record, refund.
type TeardownMsg struct {
	Caller lifeline.Address
	Record lifeline.Address
	Refund lifeline.Address
	Seed   []byte
}

func (TeardownMsg) Path() string { return pathTeardown }

// Handles returns the ordered resource handle list of this operation
func (m *TeardownMsg) Handles() []lifeline.Address {
	return []lifeline.Address{m.Caller, m.Record, m.Refund}
}

// Validate checks the stateless preconditions
func (m *TeardownMsg) Validate() error {
	if err := validateSeed(m.Seed); err != nil {
		return err
	}
	return validateHandles(m.Handles())
}

func (m *TeardownMsg) Marshal() ([]byte, error)  { return marshalMsg(m, m.Handles()) }
func (m *TeardownMsg) Unmarshal(bz []byte) error { return unmarshalMsg(m, bz) }

func validateSeed(seed []byte) error {
	if len(seed) == 0 || len(seed) > MaxSeedLength {
		return errors.Wrapf(ErrInvalidSeed, "seed length %d", len(seed))
	}
	return nil
}

func validateHandles(handles []lifeline.Address) error {
	for i, h := range handles {
		if err := h.Validate(); err != nil {
			return errors.Wrapf(err, "handle #%d", i)
		}
	}
	return nil
}

// marshalMsg emits the wire payload followed by the ordered handles,
// so a message round-trips through a single byte string
func marshalMsg(msg lifeline.Msg, handles []lifeline.Address) ([]byte, error) {
	out, err := EncodeOperation(msg)
	if err != nil {
		return nil, err
	}
	for _, h := range handles {
		out = append(out, h...)
	}
	return out, nil
}

func unmarshalMsg(msg lifeline.Msg, bz []byte) error {
	// the handle count is fixed per operation, so the handle section
	// can be split off the tail before the variable-length payload is
	// parsed (the optional renew token is presence-by-length and would
	// otherwise swallow the handles)
	n, err := handleCount(bz)
	if err != nil {
		return err
	}
	tail := n * lifeline.AddressLength
	if len(bz) < 4+tail {
		return errors.Wrap(errors.ErrInput, "truncated handle section")
	}
	payload, rest := bz[:len(bz)-tail], bz[len(bz)-tail:]

	parsed, extra, err := parseOperation(payload)
	if err != nil {
		return err
	}
	if len(extra) != 0 {
		return errors.Wrapf(errors.ErrInput, "%d trailing bytes", len(extra))
	}
	handles := make([]lifeline.Address, 0, n)
	for len(rest) > 0 {
		handles = append(handles, lifeline.Address(rest[:lifeline.AddressLength]).Clone())
		rest = rest[lifeline.AddressLength:]
	}
	if err := bindHandles(parsed, handles); err != nil {
		return err
	}
	return copyMsg(msg, parsed)
}

func handleCount(bz []byte) (int, error) {
	if len(bz) < 4 {
		return 0, errors.Wrap(errors.ErrInput, "payload shorter than discriminant")
	}
	switch op := binary.LittleEndian.Uint32(bz); op {
	case OpOpen, OpWithdraw, OpClaim:
		return 4, nil
	case OpRenewLiveness:
		return 2, nil
	case OpTeardown:
		return 3, nil
	default:
		return 0, errors.Wrapf(errors.ErrInput, "unknown operation %d", op)
	}
}

// copyMsg loads the parsed message into the destination of the same type
func copyMsg(dst, src lifeline.Msg) error {
	switch d := dst.(type) {
	case *OpenMsg:
		s, ok := src.(*OpenMsg)
		if !ok {
			return errors.Wrapf(errors.ErrType, "want %T, got %T", dst, src)
		}
		*d = *s
	case *RenewLivenessMsg:
		s, ok := src.(*RenewLivenessMsg)
		if !ok {
			return errors.Wrapf(errors.ErrType, "want %T, got %T", dst, src)
		}
		*d = *s
	case *WithdrawMsg:
		s, ok := src.(*WithdrawMsg)
		if !ok {
			return errors.Wrapf(errors.ErrType, "want %T, got %T", dst, src)
		}
		*d = *s
	case *ClaimMsg:
		s, ok := src.(*ClaimMsg)
		if !ok {
			return errors.Wrapf(errors.ErrType, "want %T, got %T", dst, src)
		}
		*d = *s
	case *TeardownMsg:
		s, ok := src.(*TeardownMsg)
		if !ok {
			return errors.Wrapf(errors.ErrType, "want %T, got %T", dst, src)
		}
		*d = *s
	default:
		return errors.Wrapf(errors.ErrType, "cannot unmarshal into %T", dst)
	}
	return nil
}
