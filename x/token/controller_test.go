package token

import (
	"encoding/json"
	"testing"

	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/errors"
	"github.com/dielemma/lifeline/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAsset(b byte) AssetID {
	a := make(AssetID, AssetIDLength)
	a[0] = b
	return a
}

func testAddr(b byte) lifeline.Address {
	a := make(lifeline.Address, lifeline.AddressLength)
	a[0] = b
	return a
}

func TestMove(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	asset := testAsset(1)
	alice, bob := testAddr(0xa), testAddr(0xb)

	require.NoError(t, ctrl.CreateAccount(db, alice, alice, asset))
	require.NoError(t, ctrl.CreateAccount(db, bob, bob, asset))
	require.NoError(t, ctrl.Issue(db, alice, 100))

	// only the owner can move funds
	err := ctrl.Move(db, bob, alice, bob, asset, 10)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	require.NoError(t, ctrl.Move(db, alice, alice, bob, asset, 30))
	_, got, err := ctrl.Balance(db, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(70), got)
	_, got, err = ctrl.Balance(db, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), got)

	// cannot overdraw
	err = ctrl.Move(db, alice, alice, bob, asset, 71)
	assert.True(t, ErrInsufficientFunds.Is(err))

	// zero moves are rejected
	err = ctrl.Move(db, alice, alice, bob, asset, 0)
	assert.True(t, errors.ErrAmount.Is(err))

	// wrong asset is rejected
	err = ctrl.Move(db, alice, alice, bob, testAsset(2), 1)
	assert.True(t, ErrAssetMismatch.Is(err))
}

func TestMoveToBurnAddress(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	asset := testAsset(1)
	alice := testAddr(0xa)

	require.NoError(t, ctrl.CreateAccount(db, alice, alice, asset))
	require.NoError(t, ctrl.Issue(db, alice, 5))

	// burning does not require a destination account
	require.NoError(t, ctrl.Move(db, alice, alice, BurnAddress(), asset, 2))
	_, got, err := ctrl.Balance(db, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got)

	// but a regular destination must exist
	err = ctrl.Move(db, alice, alice, testAddr(0xc), asset, 1)
	assert.True(t, ErrInvalidAccount.Is(err))
}

func TestCloseAccount(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	asset := testAsset(1)
	alice := testAddr(0xa)

	require.NoError(t, ctrl.CreateAccount(db, alice, alice, asset))
	require.NoError(t, ctrl.Issue(db, alice, 1))

	// cannot close with a balance
	err := ctrl.CloseAccount(db, alice, alice)
	assert.True(t, errors.ErrState.Is(err))

	require.NoError(t, ctrl.Move(db, alice, alice, BurnAddress(), asset, 1))
	require.NoError(t, ctrl.CloseAccount(db, alice, alice))

	_, _, err = ctrl.Balance(db, alice)
	assert.True(t, ErrInvalidAccount.Is(err))
}

func TestCreateAccountDuplicate(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	alice := testAddr(0xa)

	require.NoError(t, ctrl.CreateAccount(db, alice, alice, testAsset(1)))
	err := ctrl.CreateAccount(db, alice, alice, testAsset(1))
	assert.True(t, errors.ErrDuplicate.Is(err))
}

func TestAccountRoundTrip(t *testing.T) {
	acct := &Account{
		Owner:   testAddr(0xa),
		Asset:   testAsset(7),
		Balance: 12345,
	}
	bz, err := acct.Marshal()
	require.NoError(t, err)
	require.Len(t, bz, accountSize)

	var loaded Account
	require.NoError(t, loaded.Unmarshal(bz))
	assert.Equal(t, acct.Owner, loaded.Owner)
	assert.Equal(t, acct.Asset, loaded.Asset)
	assert.Equal(t, acct.Balance, loaded.Balance)

	assert.Error(t, loaded.Unmarshal(bz[:accountSize-1]))
}

func TestGenesisAccounts(t *testing.T) {
	db := store.MemStore()
	addr, owner := testAddr(0x1), testAddr(0x2)
	asset := testAsset(9)

	genesis := map[string]interface{}{
		"token": []genesisAccount{
			{Address: addr, Owner: owner, Asset: asset, Balance: 42},
		},
	}
	raw, err := json.Marshal(genesis)
	require.NoError(t, err)
	var opts lifeline.Options
	require.NoError(t, json.Unmarshal(raw, &opts))

	require.NoError(t, Initializer{}.FromGenesis(opts, db))

	ctrl := NewController()
	gotAsset, balance, err := ctrl.Balance(db, addr)
	require.NoError(t, err)
	assert.Equal(t, asset, gotAsset)
	assert.Equal(t, uint64(42), balance)
}
