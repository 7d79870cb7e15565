package sigs

import (
	"context"
	"testing"

	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/crypto"
	"github.com/dielemma/lifeline/errors"
	"github.com/dielemma/lifeline/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signedTx is a test double carrying raw bytes and signatures
type signedTx struct {
	payload []byte
	sigs    []StdSignature
}

var _ SignedTx = (*signedTx)(nil)

func (tx *signedTx) GetMsg() (lifeline.Msg, error)    { return nil, nil }
func (tx *signedTx) Marshal() ([]byte, error)         { return tx.payload, nil }
func (tx *signedTx) Unmarshal(bz []byte) error        { tx.payload = bz; return nil }
func (tx *signedTx) GetSignBytes() ([]byte, error)    { return tx.payload, nil }
func (tx *signedTx) GetSignatures() []StdSignature    { return tx.sigs }

// okHandler reports the signers it sees in the context
type okHandler struct {
	signers []lifeline.Condition
}

func (h *okHandler) Check(ctx lifeline.Context, db lifeline.KVStore, tx lifeline.Tx) (*lifeline.CheckResult, error) {
	h.signers = Authenticate{}.GetConditions(ctx)
	return &lifeline.CheckResult{}, nil
}

func (h *okHandler) Deliver(ctx lifeline.Context, db lifeline.KVStore, tx lifeline.Tx) (*lifeline.DeliverResult, error) {
	h.signers = Authenticate{}.GetConditions(ctx)
	return &lifeline.DeliverResult{}, nil
}

const chainID = "test-chain-abc"

func sigContext() lifeline.Context {
	return lifeline.WithChainID(context.Background(), chainID)
}

func TestDecoratorValidSignature(t *testing.T) {
	priv := crypto.GenPrivKeyEd25519()
	tx := &signedTx{payload: []byte("prove you are alive")}
	sig, err := SignTx(priv, tx, chainID)
	require.NoError(t, err)
	tx.sigs = []StdSignature{*sig}

	h := new(okHandler)
	d := NewDecorator()
	db := store.MemStore()

	_, err = d.Check(sigContext(), db, tx, h)
	require.NoError(t, err)
	require.Len(t, h.signers, 1)
	assert.Equal(t, priv.PublicKey().Condition(), h.signers[0])

	_, err = d.Deliver(sigContext(), db, tx, h)
	require.NoError(t, err)
	require.Len(t, h.signers, 1)
}

func TestDecoratorWrongChain(t *testing.T) {
	priv := crypto.GenPrivKeyEd25519()
	tx := &signedTx{payload: []byte("payload")}
	sig, err := SignTx(priv, tx, "other-chain-xyz")
	require.NoError(t, err)
	tx.sigs = []StdSignature{*sig}

	d := NewDecorator()
	_, err = d.Check(sigContext(), store.MemStore(), tx, new(okHandler))
	assert.True(t, ErrInvalidSignature.Is(err))
}

func TestDecoratorTamperedPayload(t *testing.T) {
	priv := crypto.GenPrivKeyEd25519()
	tx := &signedTx{payload: []byte("original")}
	sig, err := SignTx(priv, tx, chainID)
	require.NoError(t, err)
	tx.sigs = []StdSignature{*sig}
	tx.payload = []byte("tampered")

	d := NewDecorator()
	_, err = d.Deliver(sigContext(), store.MemStore(), tx, new(okHandler))
	assert.True(t, ErrInvalidSignature.Is(err))
}

func TestDecoratorMissingSignature(t *testing.T) {
	tx := &signedTx{payload: []byte("unsigned")}

	d := NewDecorator()
	_, err := d.Check(sigContext(), store.MemStore(), tx, new(okHandler))
	assert.True(t, ErrMissingSignature.Is(err))

	h := new(okHandler)
	_, err = d.AllowMissingSigs().Check(sigContext(), store.MemStore(), tx, h)
	require.NoError(t, err)
	assert.Empty(t, h.signers)
}

func TestVerifySignatureRejectsEmpty(t *testing.T) {
	_, err := VerifySignature(StdSignature{}, []byte("bz"), chainID)
	assert.True(t, errors.ErrEmpty.Is(err))
}
