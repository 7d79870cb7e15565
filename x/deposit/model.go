package deposit

import (
	"crypto/sha256"

	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/errors"
	"github.com/dielemma/lifeline/orm"
	"github.com/dielemma/lifeline/x/token"
)

const (
	// MaxSeedLength bounds the caller-chosen seed
	MaxSeedLength = 32
	// ProofTokenLength is the fixed width of a liveness proof token
	ProofTokenLength = 64
)

// Record is the persisted state of one escrow. One record exists per
// (owner, seed) pair and is stored at the address derived from it.
type Record struct {
	// Owner is the party that opened the escrow. Sole authority to
	// renew liveness or withdraw.
	Owner lifeline.Address
	// Receiver is the sole party authorized to claim after expiry.
	Receiver lifeline.Address
	// Asset is the escrowed asset class. Must match the vault.
	Asset token.AssetID
	// Amount is the quantity locked at open time. The vault balance,
	// not this field, reflects the actual outflow on settlement.
	Amount uint64
	// LastLiveness is the time of the last renewal (or open).
	LastLiveness lifeline.UnixTime
	// Timeout is how long the receiver must wait after LastLiveness.
	Timeout lifeline.UnixDuration
	// Nonce makes the record address reproducible from on-record data.
	Nonce byte
	// Closed is monotone false to true, set on settlement.
	Closed bool
	// Seed is the caller-chosen uniqueness token, stored to allow
	// re-derivation of the address from record fields.
	Seed []byte
	// Token is the last consumed liveness proof, nil before the
	// first renewal that supplies one.
	Token []byte
}

var _ orm.CloneableData = (*Record)(nil)

// Validate enforces the field bounds of a stored record
func (r *Record) Validate() error {
	if err := r.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := r.Receiver.Validate(); err != nil {
		return errors.Wrap(err, "receiver")
	}
	if err := r.Asset.Validate(); err != nil {
		return errors.Wrap(err, "asset")
	}
	if r.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "amount must be positive")
	}
	if len(r.Seed) == 0 || len(r.Seed) > MaxSeedLength {
		return errors.Wrapf(ErrInvalidSeed, "seed length %d", len(r.Seed))
	}
	if r.Timeout <= 0 {
		return errors.Wrap(ErrInvalidTimeout, "timeout must be positive")
	}
	if r.Token != nil && len(r.Token) != ProofTokenLength {
		return errors.Wrapf(errors.ErrInput, "proof token must be %d bytes", ProofTokenLength)
	}
	return nil
}

// Copy makes a deep copy of the record
func (r *Record) Copy() orm.CloneableData {
	return &Record{
		Owner:        r.Owner.Clone(),
		Receiver:     r.Receiver.Clone(),
		Asset:        r.Asset.Clone(),
		Amount:       r.Amount,
		LastLiveness: r.LastLiveness,
		Timeout:      r.Timeout,
		Nonce:        r.Nonce,
		Closed:       r.Closed,
		Seed:         append([]byte(nil), r.Seed...),
		Token:        append([]byte(nil), r.Token...),
	}
}

// RecordCondition binds an owner and seed to the record identity
func RecordCondition(owner lifeline.Address, seed []byte) lifeline.Condition {
	data := make([]byte, 0, len(owner)+1+len(seed))
	data = append(data, owner...)
	data = append(data, '|')
	data = append(data, seed...)
	return lifeline.NewCondition("deposit", "record", data)
}

// Derive computes the deterministic record address for an (owner, seed)
// pair, along with the verification nonce stored in the record.
func Derive(owner lifeline.Address, seed []byte) (lifeline.Address, byte) {
	cond := RecordCondition(owner, seed)
	addr := cond.Address()
	check := sha256.Sum256(append(addr.Clone(), cond...))
	return addr, check[0]
}

// VaultCondition derives the vault identity from the record address,
// not from the owner, so the vault authority is exactly "whoever
// controls this record".
func VaultCondition(record lifeline.Address) lifeline.Condition {
	return lifeline.NewCondition("deposit", "vault", record)
}

// VaultAddress is a shortcut for VaultCondition(record).Address()
func VaultAddress(record lifeline.Address) lifeline.Address {
	return VaultCondition(record).Address()
}

// Bucket is a type-safe wrapper around orm.Bucket for records,
// keyed by the derived record address
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes the record bucket
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket("dep", orm.NewSimpleObj(nil, &Record{})),
	}
}

// GetRecord loads the record stored at this address, or nil
func (b Bucket) GetRecord(db lifeline.ReadOnlyKVStore, addr lifeline.Address) (*Record, error) {
	obj, err := b.Get(db, addr)
	if err != nil || obj == nil {
		return nil, err
	}
	rec, ok := obj.(*orm.SimpleObj).Value().(*Record)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid object stored at %s", addr)
	}
	return rec, nil
}

// Save persists the record under the given address
func (b Bucket) Save(db lifeline.KVStore, addr lifeline.Address, rec *Record) error {
	return b.Bucket.Save(db, orm.NewSimpleObj(addr, rec))
}
