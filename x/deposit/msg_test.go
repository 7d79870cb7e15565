package deposit_test

import (
	"bytes"
	"testing"

	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/errors"
	"github.com/dielemma/lifeline/lifetest"
	"github.com/dielemma/lifeline/x/deposit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMsgValidate(t *testing.T) {
	owner := lifetest.NewCondition().Address()
	seed := []byte("valid seed")
	record, _ := deposit.Derive(owner, seed)
	vault := deposit.VaultAddress(record)

	valid := func() *deposit.OpenMsg {
		return &deposit.OpenMsg{
			Owner: owner, Record: record, Vault: vault, Funding: addr(0xf0),
			Seed: seed, Receiver: addr(0xee), Amount: 100, Timeout: 3600,
		}
	}
	require.NoError(t, valid().Validate())

	msg := valid()
	msg.Seed = nil
	assert.True(t, deposit.ErrInvalidSeed.Is(msg.Validate()))

	msg = valid()
	msg.Seed = bytes.Repeat([]byte("x"), deposit.MaxSeedLength+1)
	assert.True(t, deposit.ErrInvalidSeed.Is(msg.Validate()))

	msg = valid()
	msg.Amount = 0
	assert.True(t, errors.ErrAmount.Is(msg.Validate()))

	msg = valid()
	msg.Timeout = 0
	assert.True(t, deposit.ErrInvalidTimeout.Is(msg.Validate()))

	msg = valid()
	msg.Funding = lifeline.Address{1, 2}
	assert.True(t, errors.ErrInput.Is(msg.Validate()))
}

func TestRenewMsgValidate(t *testing.T) {
	owner := lifetest.NewCondition().Address()
	seed := []byte("s")
	record, _ := deposit.Derive(owner, seed)

	msg := &deposit.RenewLivenessMsg{Owner: owner, Record: record, Seed: seed}
	require.NoError(t, msg.Validate())

	msg.Token = proofToken(1)
	require.NoError(t, msg.Validate())

	msg.Token = []byte("short token")
	assert.True(t, errors.ErrInput.Is(msg.Validate()))
}

func TestMsgRoundTrip(t *testing.T) {
	owner := lifetest.NewCondition().Address()
	seed := []byte("round trip")
	record, _ := deposit.Derive(owner, seed)
	vault := deposit.VaultAddress(record)

	t.Run("open", func(t *testing.T) {
		msg := &deposit.OpenMsg{
			Owner: owner, Record: record, Vault: vault, Funding: addr(0xf0),
			Seed: seed, Receiver: addr(0xee), Amount: 5, Timeout: 60,
		}
		bz, err := msg.Marshal()
		require.NoError(t, err)
		var loaded deposit.OpenMsg
		require.NoError(t, loaded.Unmarshal(bz))
		assert.Equal(t, *msg, loaded)
	})

	t.Run("renew without token", func(t *testing.T) {
		msg := &deposit.RenewLivenessMsg{Owner: owner, Record: record, Seed: seed}
		bz, err := msg.Marshal()
		require.NoError(t, err)
		var loaded deposit.RenewLivenessMsg
		require.NoError(t, loaded.Unmarshal(bz))
		assert.Equal(t, *msg, loaded)
		assert.Nil(t, loaded.Token)
	})

	t.Run("renew with token", func(t *testing.T) {
		msg := &deposit.RenewLivenessMsg{
			Owner: owner, Record: record, Seed: seed, Token: proofToken(3),
		}
		bz, err := msg.Marshal()
		require.NoError(t, err)
		var loaded deposit.RenewLivenessMsg
		require.NoError(t, loaded.Unmarshal(bz))
		assert.Equal(t, msg.Token, loaded.Token)
	})

	t.Run("teardown", func(t *testing.T) {
		msg := &deposit.TeardownMsg{
			Caller: owner, Record: record, Refund: addr(0xf2), Seed: seed,
		}
		bz, err := msg.Marshal()
		require.NoError(t, err)
		var loaded deposit.TeardownMsg
		require.NoError(t, loaded.Unmarshal(bz))
		assert.Equal(t, *msg, loaded)
	})
}

func TestMsgPaths(t *testing.T) {
	assert.Equal(t, "deposit/open", (&deposit.OpenMsg{}).Path())
	assert.Equal(t, "deposit/renew", (&deposit.RenewLivenessMsg{}).Path())
	assert.Equal(t, "deposit/withdraw", (&deposit.WithdrawMsg{}).Path())
	assert.Equal(t, "deposit/claim", (&deposit.ClaimMsg{}).Path())
	assert.Equal(t, "deposit/teardown", (&deposit.TeardownMsg{}).Path())
}
