package deposit

import (
	"bytes"

	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/errors"
	"github.com/dielemma/lifeline/x"
	"github.com/dielemma/lifeline/x/token"
)

// RegisterRoutes will instantiate and register all handlers in this
// package
func RegisterRoutes(r lifeline.Registry, auth x.Authenticator, ctrl token.Controller, policy LivenessPolicy) {
	bucket := NewBucket()
	r.Handle(pathOpen, OpenHandler{auth: auth, bucket: bucket, ctrl: ctrl})
	r.Handle(pathRenewLiveness, RenewLivenessHandler{auth: auth, bucket: bucket, policy: policy})
	r.Handle(pathWithdraw, WithdrawHandler{auth: auth, bucket: bucket, ctrl: ctrl})
	r.Handle(pathClaim, ClaimHandler{auth: auth, bucket: bucket, ctrl: ctrl})
	r.Handle(pathTeardown, TeardownHandler{auth: auth, bucket: bucket, ctrl: ctrl})
}

// OpenHandler creates a record and commits the deposit to custody
type OpenHandler struct {
	auth   x.Authenticator
	bucket Bucket
	ctrl   token.Controller
}

var _ lifeline.Handler = OpenHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h OpenHandler) Check(ctx lifeline.Context, db lifeline.KVStore, tx lifeline.Tx) (*lifeline.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lifeline.CheckResult{GasAllocated: 300}, nil
}

// Deliver moves the amount from the funding account into the vault and
// persists the new record
func (h OpenHandler) Deliver(ctx lifeline.Context, db lifeline.KVStore, tx lifeline.Tx) (*lifeline.DeliverResult, error) {
	msg, conf, funding, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	now, err := currentTime(ctx, conf)
	if err != nil {
		return nil, err
	}

	asset := funding.Asset
	if err := h.ctrl.CreateAccount(db, msg.Vault, msg.Record, asset); err != nil {
		return nil, errors.Wrap(err, "create vault")
	}
	if err := h.ctrl.Move(db, msg.Owner, msg.Funding, msg.Vault, asset, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "fund vault")
	}
	if conf.StorageReserve > 0 {
		if err := h.ctrl.CreateAccount(db, msg.Record, msg.Record, asset); err != nil {
			return nil, errors.Wrap(err, "create reserve account")
		}
		if err := h.ctrl.Move(db, msg.Owner, msg.Funding, msg.Record, asset, conf.StorageReserve); err != nil {
			return nil, errors.Wrap(err, "charge storage reserve")
		}
	}

	_, nonce := Derive(msg.Owner, msg.Seed)
	rec := &Record{
		Owner:        msg.Owner,
		Receiver:     msg.Receiver,
		Asset:        asset,
		Amount:       msg.Amount,
		LastLiveness: now,
		Timeout:      msg.Timeout,
		Nonce:        nonce,
		Closed:       false,
		Seed:         msg.Seed,
	}
	if err := h.bucket.Save(db, msg.Record, rec); err != nil {
		return nil, err
	}
	return &lifeline.DeliverResult{Data: msg.Record}, nil
}

// validate does all common pre-processing between Check and Deliver
func (h OpenHandler) validate(ctx lifeline.Context, db lifeline.KVStore, tx lifeline.Tx) (*OpenMsg, Config, *token.Account, error) {
	var msg OpenMsg
	var conf Config
	if err := lifeline.LoadMsg(tx, &msg); err != nil {
		return nil, conf, nil, err
	}
	conf, err := loadConfig(db)
	if err != nil {
		return nil, conf, nil, err
	}

	if msg.Timeout < conf.MinTimeout || msg.Timeout > conf.MaxTimeout {
		return nil, conf, nil, errors.Wrapf(ErrInvalidTimeout, "%d outside [%d, %d]", msg.Timeout, conf.MinTimeout, conf.MaxTimeout)
	}
	if err := checkDerivation(msg.Owner, msg.Seed, msg.Record, msg.Vault); err != nil {
		return nil, conf, nil, err
	}
	if !h.auth.HasAddress(ctx, msg.Owner) {
		return nil, conf, nil, errors.Wrap(errors.ErrUnauthorized, "owner did not sign")
	}
	if h.bucket.Has(db, msg.Record) {
		return nil, conf, nil, errors.Wrapf(ErrAlreadyInitialized, "record %s", msg.Record)
	}

	funding, err := h.ctrl.Account(db, msg.Funding)
	if err != nil {
		return nil, conf, nil, err
	}
	if funding == nil {
		return nil, conf, nil, errors.Wrapf(ErrInvalidFunding, "no account at %s", msg.Funding)
	}
	if !funding.Owner.Equals(msg.Owner) {
		return nil, conf, nil, errors.Wrap(ErrInvalidFunding, "not owned by opener")
	}
	total := msg.Amount + conf.StorageReserve
	if total < msg.Amount {
		return nil, conf, nil, errors.Wrap(errors.ErrOverflow, "amount plus reserve")
	}
	if funding.Balance < total {
		return nil, conf, nil, errors.Wrapf(ErrInvalidFunding, "balance %d cannot cover %d", funding.Balance, total)
	}
	return &msg, conf, funding, nil
}

// RenewLivenessHandler resets the expiry clock on fresh evidence
type RenewLivenessHandler struct {
	auth   x.Authenticator
	bucket Bucket
	policy LivenessPolicy
}

var _ lifeline.Handler = RenewLivenessHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h RenewLivenessHandler) Check(ctx lifeline.Context, db lifeline.KVStore, tx lifeline.Tx) (*lifeline.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lifeline.CheckResult{GasAllocated: 100}, nil
}

// Deliver runs the liveness policy, stores the consumed proof token
// and moves the liveness timestamp forward
func (h RenewLivenessHandler) Deliver(ctx lifeline.Context, db lifeline.KVStore, tx lifeline.Tx) (*lifeline.DeliverResult, error) {
	msg, conf, rec, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	now, err := currentTime(ctx, conf)
	if err != nil {
		return nil, err
	}
	if now < rec.LastLiveness {
		return nil, errors.Wrapf(ErrInvalidTimestamp, "liveness cannot move backwards (%d < %d)", now, rec.LastLiveness)
	}

	if err := h.policy.VerifyProof(db, rec, msg.Token); err != nil {
		return nil, err
	}

	rec.LastLiveness = now
	if msg.Token != nil {
		rec.Token = msg.Token
	}
	if err := h.bucket.Save(db, msg.Record, rec); err != nil {
		return nil, err
	}
	return &lifeline.DeliverResult{Data: msg.Record}, nil
}

func (h RenewLivenessHandler) validate(ctx lifeline.Context, db lifeline.KVStore, tx lifeline.Tx) (*RenewLivenessMsg, Config, *Record, error) {
	var msg RenewLivenessMsg
	var conf Config
	if err := lifeline.LoadMsg(tx, &msg); err != nil {
		return nil, conf, nil, err
	}
	conf, err := loadConfig(db)
	if err != nil {
		return nil, conf, nil, err
	}

	if err := checkDerivation(msg.Owner, msg.Seed, msg.Record, nil); err != nil {
		return nil, conf, nil, err
	}
	if !h.auth.HasAddress(ctx, msg.Owner) {
		return nil, conf, nil, errors.Wrap(errors.ErrUnauthorized, "owner did not sign")
	}
	rec, err := h.bucket.GetRecord(db, msg.Record)
	if err != nil {
		return nil, conf, nil, err
	}
	if rec == nil {
		return nil, conf, nil, errors.Wrapf(errors.ErrNotFound, "record %s", msg.Record)
	}
	if rec.Closed {
		return nil, conf, nil, errors.Wrap(ErrAlreadyClosed, "cannot renew settled record")
	}
	if msg.Token != nil {
		if isZeroToken(msg.Token) {
			return nil, conf, nil, errors.Wrap(ErrReplayedProof, "zero proof token")
		}
		if rec.Token != nil && bytes.Equal(msg.Token, rec.Token) {
			return nil, conf, nil, errors.Wrap(ErrReplayedProof, "proof token already consumed")
		}
	}
	return &msg, conf, rec, nil
}

// WithdrawHandler settles the escrow back to its owner
type WithdrawHandler struct {
	auth   x.Authenticator
	bucket Bucket
	ctrl   token.Controller
}

var _ lifeline.Handler = WithdrawHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h WithdrawHandler) Check(ctx lifeline.Context, db lifeline.KVStore, tx lifeline.Tx) (*lifeline.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lifeline.CheckResult{GasAllocated: 200}, nil
}

// Deliver marks the record settled and drains the vault to the
// owner's receiving account
func (h WithdrawHandler) Deliver(ctx lifeline.Context, db lifeline.KVStore, tx lifeline.Tx) (*lifeline.DeliverResult, error) {
	msg, rec, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := settle(db, h.bucket, h.ctrl, rec, msg.Record, msg.Vault, msg.Receiving); err != nil {
		return nil, err
	}
	return &lifeline.DeliverResult{Data: msg.Record}, nil
}

func (h WithdrawHandler) validate(ctx lifeline.Context, db lifeline.KVStore, tx lifeline.Tx) (*WithdrawMsg, *Record, error) {
	var msg WithdrawMsg
	if err := lifeline.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}

	if err := checkDerivation(msg.Owner, msg.Seed, msg.Record, msg.Vault); err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, msg.Owner) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "owner did not sign")
	}
	rec, err := h.bucket.GetRecord(db, msg.Record)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, errors.Wrapf(errors.ErrNotFound, "record %s", msg.Record)
	}
	if rec.Closed {
		return nil, nil, errors.Wrap(ErrAlreadyClosed, "already settled")
	}
	return &msg, rec, nil
}

// ClaimHandler settles an expired escrow to the named receiver
type ClaimHandler struct {
	auth   x.Authenticator
	bucket Bucket
	ctrl   token.Controller
}

var _ lifeline.Handler = ClaimHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h ClaimHandler) Check(ctx lifeline.Context, db lifeline.KVStore, tx lifeline.Tx) (*lifeline.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lifeline.CheckResult{GasAllocated: 200}, nil
}

// Deliver marks the record settled and drains the vault to the
// receiver's receiving account
func (h ClaimHandler) Deliver(ctx lifeline.Context, db lifeline.KVStore, tx lifeline.Tx) (*lifeline.DeliverResult, error) {
	msg, rec, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := settle(db, h.bucket, h.ctrl, rec, msg.Record, msg.Vault, msg.Receiving); err != nil {
		return nil, err
	}
	return &lifeline.DeliverResult{Data: msg.Record}, nil
}

func (h ClaimHandler) validate(ctx lifeline.Context, db lifeline.KVStore, tx lifeline.Tx) (*ClaimMsg, *Record, error) {
	var msg ClaimMsg
	if err := lifeline.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	conf, err := loadConfig(db)
	if err != nil {
		return nil, nil, err
	}

	rec, err := h.bucket.GetRecord(db, msg.Record)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, errors.Wrapf(errors.ErrNotFound, "record %s", msg.Record)
	}
	// the claimer proves knowledge of the seed, the owner comes from
	// the record itself
	if !bytes.Equal(msg.Seed, rec.Seed) {
		return nil, nil, errors.Wrap(ErrAddressMismatch, "seed does not match record")
	}
	if err := checkDerivation(rec.Owner, rec.Seed, msg.Record, msg.Vault); err != nil {
		return nil, nil, err
	}
	if !rec.Receiver.Equals(msg.Receiver) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "not the named receiver")
	}
	if !h.auth.HasAddress(ctx, msg.Receiver) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "receiver did not sign")
	}
	if rec.Closed {
		return nil, nil, errors.Wrap(ErrAlreadyClosed, "already settled")
	}

	now, err := currentTime(ctx, conf)
	if err != nil {
		return nil, nil, err
	}
	expired, err := isExpired(rec.LastLiveness, rec.Timeout, now, conf.MinValidTime)
	if err != nil {
		return nil, nil, err
	}
	if !expired {
		return nil, nil, errors.Wrapf(ErrNotExpired, "%d seconds remain", int64(rec.LastLiveness)+int64(rec.Timeout)-int64(now))
	}
	return &msg, rec, nil
}

// TeardownHandler destroys a settled record and refunds its reserve
type TeardownHandler struct {
	auth   x.Authenticator
	bucket Bucket
	ctrl   token.Controller
}

var _ lifeline.Handler = TeardownHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h TeardownHandler) Check(ctx lifeline.Context, db lifeline.KVStore, tx lifeline.Tx) (*lifeline.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lifeline.CheckResult{GasAllocated: 100}, nil
}

// Deliver refunds the storage reserve to the chosen recipient and
// deletes the record
func (h TeardownHandler) Deliver(ctx lifeline.Context, db lifeline.KVStore, tx lifeline.Tx) (*lifeline.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	reserve, err := h.ctrl.Account(db, msg.Record)
	if err != nil {
		return nil, err
	}
	if reserve != nil {
		if reserve.Balance > 0 {
			if err := h.ctrl.Move(db, msg.Record, msg.Record, msg.Refund, reserve.Asset, reserve.Balance); err != nil {
				return nil, errors.Wrap(err, "refund storage reserve")
			}
		}
		if err := h.ctrl.CloseAccount(db, msg.Record, msg.Record); err != nil {
			return nil, errors.Wrap(err, "close reserve account")
		}
	}

	if err := h.bucket.Delete(db, msg.Record); err != nil {
		return nil, err
	}
	return &lifeline.DeliverResult{Data: msg.Record}, nil
}

func (h TeardownHandler) validate(ctx lifeline.Context, db lifeline.KVStore, tx lifeline.Tx) (*TeardownMsg, error) {
	var msg TeardownMsg
	if err := lifeline.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}

	rec, err := h.bucket.GetRecord(db, msg.Record)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "record %s", msg.Record)
	}
	if !bytes.Equal(msg.Seed, rec.Seed) {
		return nil, errors.Wrap(ErrAddressMismatch, "seed does not match record")
	}
	if err := checkDerivation(rec.Owner, rec.Seed, msg.Record, nil); err != nil {
		return nil, err
	}
	if !msg.Caller.Equals(rec.Owner) && !msg.Caller.Equals(rec.Receiver) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "caller is neither owner nor receiver")
	}
	if !h.auth.HasAddress(ctx, msg.Caller) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "caller did not sign")
	}
	if !rec.Closed {
		return nil, errors.Wrap(ErrNotSettled, "record still custodies funds")
	}
	return &msg, nil
}

// settle persists the closed flag BEFORE the vault transfer is issued,
// so any racing settlement observes a settled record even if the
// transfer sub-step could independently fail
func settle(db lifeline.KVStore, bucket Bucket, ctrl token.Controller, rec *Record, record, vault, receiving lifeline.Address) error {
	rec.Closed = true
	if err := bucket.Save(db, record, rec); err != nil {
		return err
	}

	asset, balance, err := ctrl.Balance(db, vault)
	if err != nil {
		return err
	}
	if balance > 0 {
		// acting as the record: the vault is owned by the record
		// address, which no key controls
		if err := ctrl.Move(db, record, vault, receiving, asset, balance); err != nil {
			return errors.Wrap(err, "drain vault")
		}
	}
	return errors.Wrap(ctrl.CloseAccount(db, record, vault), "close vault")
}

// checkDerivation recomputes the record (and optionally vault) address
// and rejects the operation if the caller-supplied handles disagree
func checkDerivation(owner lifeline.Address, seed []byte, record, vault lifeline.Address) error {
	derived, _ := Derive(owner, seed)
	if !derived.Equals(record) {
		return errors.Wrapf(ErrAddressMismatch, "record %s is not derived from owner and seed", record)
	}
	if vault != nil && !VaultAddress(record).Equals(vault) {
		return errors.Wrapf(ErrAddressMismatch, "vault %s is not derived from record", vault)
	}
	return nil
}

// currentTime reads the block time and applies the floor sanity bound
func currentTime(ctx lifeline.Context, conf Config) (lifeline.UnixTime, error) {
	blockTime, err := lifeline.BlockTime(ctx)
	if err != nil {
		return 0, err
	}
	now := lifeline.AsUnixTime(blockTime)
	if now < conf.MinValidTime {
		return 0, errors.Wrapf(ErrInvalidTimestamp, "%d precedes floor %d", now, conf.MinValidTime)
	}
	return now, nil
}

func isZeroToken(token []byte) bool {
	for _, b := range token {
		if b != 0 {
			return false
		}
	}
	return true
}
