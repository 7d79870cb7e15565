package token

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"

	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/errors"
	"github.com/dielemma/lifeline/orm"
)

// AssetIDLength is the width of an asset identifier
const AssetIDLength = 32

// accountSize is the fixed serialized width of an Account:
// owner + asset + balance
const accountSize = lifeline.AddressLength + AssetIDLength + 8

// AssetID identifies one fungible asset class
type AssetID []byte

// Validate ensures the asset id has the proper width
func (a AssetID) Validate() error {
	if len(a) != AssetIDLength {
		return errors.Wrapf(errors.ErrInput, "asset id must be %d bytes", AssetIDLength)
	}
	return nil
}

// MarshalJSON encodes the asset id as a hex string
func (a AssetID) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(a))
}

// UnmarshalJSON parses a hex string asset id
func (a *AssetID) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return err
	}
	bz, err := hex.DecodeString(enc)
	if err != nil {
		return errors.Wrap(errors.ErrInput, "asset id must be hex")
	}
	*a = bz
	return nil
}

// Equals checks if two asset ids are the same
func (a AssetID) Equals(b AssetID) bool {
	return bytes.Equal(a, b)
}

// Clone returns a copy that can be safely mutated
func (a AssetID) Clone() AssetID {
	return append(AssetID(nil), a...)
}

// Account is the balance of one asset held under an account address.
// Owner is the condition address that may authorize moves out of it.
type Account struct {
	Owner   lifeline.Address
	Asset   AssetID
	Balance uint64
}

var _ orm.CloneableData = (*Account)(nil)

// Validate requires a well formed owner and asset
func (a *Account) Validate() error {
	if err := a.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return a.Asset.Validate()
}

// Copy makes a new account with the same data
func (a *Account) Copy() orm.CloneableData {
	return &Account{
		Owner:   a.Owner.Clone(),
		Asset:   a.Asset.Clone(),
		Balance: a.Balance,
	}
}

// Marshal encodes the account into its fixed binary layout
func (a *Account) Marshal() ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	out := make([]byte, accountSize)
	copy(out, a.Owner)
	copy(out[lifeline.AddressLength:], a.Asset)
	binary.LittleEndian.PutUint64(out[lifeline.AddressLength+AssetIDLength:], a.Balance)
	return out, nil
}

// Unmarshal parses the fixed binary layout
func (a *Account) Unmarshal(bz []byte) error {
	if len(bz) != accountSize {
		return errors.Wrapf(errors.ErrInput, "account data must be %d bytes", accountSize)
	}
	a.Owner = append(lifeline.Address(nil), bz[:lifeline.AddressLength]...)
	a.Asset = append(AssetID(nil), bz[lifeline.AddressLength:lifeline.AddressLength+AssetIDLength]...)
	a.Balance = binary.LittleEndian.Uint64(bz[lifeline.AddressLength+AssetIDLength:])
	return nil
}

// Bucket is a type-safe wrapper around orm.Bucket for accounts
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes the account bucket
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket("tok", orm.NewSimpleObj(nil, &Account{})),
	}
}

// GetAccount loads the account stored under this address, or nil
func (b Bucket) GetAccount(db lifeline.ReadOnlyKVStore, addr lifeline.Address) (*Account, error) {
	obj, err := b.Get(db, addr)
	if err != nil || obj == nil {
		return nil, err
	}
	acct, ok := obj.(*orm.SimpleObj).Value().(*Account)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid object stored at %s", addr)
	}
	return acct, nil
}

// Save persists the account under the given address
func (b Bucket) Save(db lifeline.KVStore, addr lifeline.Address, acct *Account) error {
	return b.Bucket.Save(db, orm.NewSimpleObj(addr, acct))
}
