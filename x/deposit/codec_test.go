package deposit_test

import (
	"encoding/binary"
	"testing"

	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/errors"
	"github.com/dielemma/lifeline/lifetest"
	"github.com/dielemma/lifeline/x/deposit"
	"github.com/dielemma/lifeline/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addr(b byte) lifeline.Address {
	a := make(lifeline.Address, lifeline.AddressLength)
	a[0] = b
	return a
}

func asset(b byte) token.AssetID {
	a := make(token.AssetID, token.AssetIDLength)
	a[0] = b
	return a
}

func proofToken(b byte) []byte {
	tok := make([]byte, deposit.ProofTokenLength)
	tok[0] = b
	return tok
}

func TestRecordLayout(t *testing.T) {
	rec := &deposit.Record{
		Owner:        addr(1),
		Receiver:     addr(2),
		Asset:        asset(3),
		Amount:       1000,
		LastLiveness: 1600000000,
		Timeout:      86400,
		Nonce:        7,
		Closed:       true,
		Seed:         []byte("s1"),
	}

	bz, err := rec.Marshal()
	require.NoError(t, err)
	// the record always occupies the full fixed layout
	require.Len(t, bz, 223)
	assert.Equal(t, uint64(1000), binary.LittleEndian.Uint64(bz[96:]))
	assert.Equal(t, byte(7), bz[120])
	assert.Equal(t, byte(1), bz[121])
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(bz[122:]))
	// seed is zero padded to its full capacity
	assert.Equal(t, []byte("s1"), bz[126:128])
	assert.Equal(t, byte(0), bz[128])
	// token section stays zeroed until a proof is stored
	assert.Equal(t, byte(0), bz[158])
	assert.Equal(t, make([]byte, deposit.ProofTokenLength), bz[159:])

	var loaded deposit.Record
	require.NoError(t, loaded.Unmarshal(bz))
	assert.Equal(t, rec.Owner, loaded.Owner)
	assert.Equal(t, rec.Seed, loaded.Seed)
	assert.True(t, loaded.Closed)
	assert.Nil(t, loaded.Token)

	// a stored proof token sets the tag, the size never changes
	rec.Token = proofToken(9)
	bz, err = rec.Marshal()
	require.NoError(t, err)
	require.Len(t, bz, 223)
	assert.Equal(t, byte(1), bz[158])

	require.NoError(t, loaded.Unmarshal(bz))
	assert.Equal(t, rec.Token, loaded.Token)

	// truncated or oversized data is rejected
	assert.Error(t, loaded.Unmarshal(bz[:222]))
	assert.Error(t, loaded.Unmarshal(append(bz, 0)))

	// an untagged token section must be zeroed
	bad := append([]byte(nil), bz...)
	bad[158] = 0
	assert.True(t, errors.ErrInput.Is(loaded.Unmarshal(bad)), "corrupt token section accepted")
}

func TestParseOperationBounds(t *testing.T) {
	handles := []lifeline.Address{addr(1), addr(2)}

	cases := map[string]struct {
		raw     []byte
		handles []lifeline.Address
		wantErr *errors.Error
	}{
		"shorter than discriminant": {
			raw: []byte{1, 0}, handles: handles,
			wantErr: errors.ErrInput,
		},
		"unknown discriminant": {
			raw: []byte{9, 0, 0, 0, 1, 0, 0, 0, 'x'}, handles: handles,
			wantErr: errors.ErrInput,
		},
		"seed length over the maximum": {
			raw: []byte{1, 0, 0, 0, 33, 0, 0, 0}, handles: handles,
			wantErr: deposit.ErrInvalidSeed,
		},
		"declared seed length exceeds buffer": {
			raw: []byte{1, 0, 0, 0, 5, 0, 0, 0, 'a', 'b'}, handles: handles,
			wantErr: errors.ErrInput,
		},
		"trailing bytes": {
			raw: []byte{2, 0, 0, 0, 1, 0, 0, 0, 's', 0xff}, handles: handles,
			wantErr: errors.ErrInput,
		},
		"wrong handle count": {
			raw:     []byte{1, 0, 0, 0, 1, 0, 0, 0, 's'},
			handles: []lifeline.Address{addr(1)},
			wantErr: errors.ErrInput,
		},
		"malformed handle": {
			raw:     []byte{1, 0, 0, 0, 1, 0, 0, 0, 's'},
			handles: []lifeline.Address{addr(1), {0x01}},
			wantErr: errors.ErrInput,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := deposit.ParseOperation(tc.raw, tc.handles)
			assert.True(t, tc.wantErr.Is(err), "got %+v", err)
		})
	}
}

func TestParseOperationShapes(t *testing.T) {
	owner := lifetest.NewCondition().Address()
	seed := []byte("shape test")
	record, _ := deposit.Derive(owner, seed)
	vault := deposit.VaultAddress(record)
	funding, receiving := addr(0xf0), addr(0xf1)

	open := &deposit.OpenMsg{
		Owner: owner, Record: record, Vault: vault, Funding: funding,
		Seed: seed, Receiver: addr(0xee), Amount: 1000, Timeout: 86400,
	}
	raw, err := deposit.EncodeOperation(open)
	require.NoError(t, err)

	msg, err := deposit.ParseOperation(raw, []lifeline.Address{owner, record, vault, funding})
	require.NoError(t, err)
	parsed, ok := msg.(*deposit.OpenMsg)
	require.True(t, ok)
	assert.Equal(t, open, parsed)

	// renew with no token parses with the two-handle shape
	renew := &deposit.RenewLivenessMsg{Owner: owner, Record: record, Seed: seed}
	raw, err = deposit.EncodeOperation(renew)
	require.NoError(t, err)
	msg, err = deposit.ParseOperation(raw, []lifeline.Address{owner, record})
	require.NoError(t, err)
	assert.Nil(t, msg.(*deposit.RenewLivenessMsg).Token)

	// and with a token
	renew.Token = proofToken(1)
	raw, err = deposit.EncodeOperation(renew)
	require.NoError(t, err)
	msg, err = deposit.ParseOperation(raw, []lifeline.Address{owner, record})
	require.NoError(t, err)
	assert.Equal(t, renew.Token, msg.(*deposit.RenewLivenessMsg).Token)

	claim := &deposit.ClaimMsg{
		Receiver: addr(0xee), Record: record, Vault: vault, Receiving: receiving, Seed: seed,
	}
	raw, err = deposit.EncodeOperation(claim)
	require.NoError(t, err)
	msg, err = deposit.ParseOperation(raw, []lifeline.Address{addr(0xee), record, vault, receiving})
	require.NoError(t, err)
	assert.Equal(t, claim, msg)
}

func TestDeriveDeterministic(t *testing.T) {
	owner := lifetest.NewCondition().Address()
	other := lifetest.NewCondition().Address()

	a1, n1 := deposit.Derive(owner, []byte("s1"))
	a2, n2 := deposit.Derive(owner, []byte("s1"))
	assert.Equal(t, a1, a2)
	assert.Equal(t, n1, n2)
	require.NoError(t, a1.Validate())

	// distinct pairs give distinct addresses
	b1, _ := deposit.Derive(owner, []byte("s2"))
	c1, _ := deposit.Derive(other, []byte("s1"))
	assert.False(t, a1.Equals(b1))
	assert.False(t, a1.Equals(c1))

	// the vault is derived from the record, not the owner
	v1 := deposit.VaultAddress(a1)
	v2 := deposit.VaultAddress(b1)
	assert.False(t, v1.Equals(v2))
	assert.False(t, v1.Equals(a1))
}
