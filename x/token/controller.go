package token

import (
	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/errors"
)

// Controller is the functionality needed by other extensions to
// operate on the account ledger. This can be passed into handler
// constructors to avoid hardcoding this implementation.
type Controller interface {
	// Move transfers amount from src to dst. Authority must be the
	// owner of the src account.
	Move(db lifeline.KVStore, authority lifeline.Address, src, dst lifeline.Address, asset AssetID, amount uint64) error
	// Balance returns the current balance of the account, along
	// with its asset. Errors if the account does not exist.
	Balance(db lifeline.ReadOnlyKVStore, addr lifeline.Address) (AssetID, uint64, error)
	// Account returns the full account stored at addr, or nil if
	// none exists.
	Account(db lifeline.ReadOnlyKVStore, addr lifeline.Address) (*Account, error)
	// CreateAccount initializes an empty account for the asset.
	CreateAccount(db lifeline.KVStore, addr, owner lifeline.Address, asset AssetID) error
	// CloseAccount removes an emptied account. Authority must be
	// the owner and the balance must be zero.
	CloseAccount(db lifeline.KVStore, authority, addr lifeline.Address) error
}

// BurnAddress is the sink for destroyed tokens. Nothing can move
// funds out of it, as no condition hashes to the zero address.
func BurnAddress() lifeline.Address {
	return make(lifeline.Address, lifeline.AddressLength)
}

// CtrlController is the standard implementation of Controller,
// backed by the account bucket
type CtrlController struct {
	bucket Bucket
}

var _ Controller = CtrlController{}

// NewController returns a controller over the standard account bucket
func NewController() CtrlController {
	return CtrlController{bucket: NewBucket()}
}

// Move transfers tokens between accounts.
//
// Moving to the burn address destroys the tokens without requiring a
// destination account. Any other destination must already hold an
// account for the same asset.
func (c CtrlController) Move(db lifeline.KVStore, authority lifeline.Address, src, dst lifeline.Address, asset AssetID, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "cannot move a zero amount")
	}

	sender, err := c.bucket.GetAccount(db, src)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(ErrInvalidAccount, "source %s", src)
	}
	if !sender.Owner.Equals(authority) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s does not own source account", authority)
	}
	if !sender.Asset.Equals(asset) {
		return errors.Wrap(ErrAssetMismatch, "source account")
	}
	if sender.Balance < amount {
		return errors.Wrapf(ErrInsufficientFunds, "balance %d, need %d", sender.Balance, amount)
	}

	if dst.Equals(BurnAddress()) {
		sender.Balance -= amount
		return c.bucket.Save(db, src, sender)
	}

	receiver, err := c.bucket.GetAccount(db, dst)
	if err != nil {
		return err
	}
	if receiver == nil {
		return errors.Wrapf(ErrInvalidAccount, "destination %s", dst)
	}
	if !receiver.Asset.Equals(asset) {
		return errors.Wrap(ErrAssetMismatch, "destination account")
	}
	if receiver.Balance+amount < receiver.Balance {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}

	sender.Balance -= amount
	receiver.Balance += amount
	if err := c.bucket.Save(db, src, sender); err != nil {
		return err
	}
	return c.bucket.Save(db, dst, receiver)
}

// Balance returns the asset and balance stored under an address
func (c CtrlController) Balance(db lifeline.ReadOnlyKVStore, addr lifeline.Address) (AssetID, uint64, error) {
	acct, err := c.bucket.GetAccount(db, addr)
	if err != nil {
		return nil, 0, err
	}
	if acct == nil {
		return nil, 0, errors.Wrapf(ErrInvalidAccount, "no account at %s", addr)
	}
	return acct.Asset, acct.Balance, nil
}

// Account returns the account stored at addr, or nil
func (c CtrlController) Account(db lifeline.ReadOnlyKVStore, addr lifeline.Address) (*Account, error) {
	return c.bucket.GetAccount(db, addr)
}

// CreateAccount initializes an empty account under addr
func (c CtrlController) CreateAccount(db lifeline.KVStore, addr, owner lifeline.Address, asset AssetID) error {
	if c.bucket.Has(db, addr) {
		return errors.Wrapf(errors.ErrDuplicate, "account exists at %s", addr)
	}
	acct := &Account{Owner: owner, Asset: asset, Balance: 0}
	return c.bucket.Save(db, addr, acct)
}

// CloseAccount deletes an account once it is emptied
func (c CtrlController) CloseAccount(db lifeline.KVStore, authority, addr lifeline.Address) error {
	acct, err := c.bucket.GetAccount(db, addr)
	if err != nil {
		return err
	}
	if acct == nil {
		return errors.Wrapf(ErrInvalidAccount, "no account at %s", addr)
	}
	if !acct.Owner.Equals(authority) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s does not own account", authority)
	}
	if acct.Balance != 0 {
		return errors.Wrapf(errors.ErrState, "cannot close account with balance %d", acct.Balance)
	}
	return c.bucket.Delete(db, addr)
}

// Issue mints new tokens into an existing account. Used by genesis
// initialization and tests, there is no tx path to reach it.
func (c CtrlController) Issue(db lifeline.KVStore, addr lifeline.Address, amount uint64) error {
	acct, err := c.bucket.GetAccount(db, addr)
	if err != nil {
		return err
	}
	if acct == nil {
		return errors.Wrapf(ErrInvalidAccount, "no account at %s", addr)
	}
	if acct.Balance+amount < acct.Balance {
		return errors.Wrap(errors.ErrOverflow, "balance")
	}
	acct.Balance += amount
	return c.bucket.Save(db, addr, acct)
}
