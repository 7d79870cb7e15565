package lifeline

import (
	"encoding/json"
	"testing"

	"github.com/dielemma/lifeline/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixed-width layouts declare arrays of this size, so the address
// width must stay a constant expression
var _ [AddressLength]byte

func TestNewCondition(t *testing.T) {
	cond := NewCondition("deposit", "record", []byte("some data"))
	require.NoError(t, cond.Validate())

	ext, typ, data, err := cond.Parse()
	require.NoError(t, err)
	assert.Equal(t, "deposit", ext)
	assert.Equal(t, "record", typ)
	assert.Equal(t, []byte("some data"), data)

	// data may contain any bytes, including separators and newlines
	tricky := NewCondition("aaa", "bbb", []byte("dling/dong\nding"))
	_, _, data, err = tricky.Parse()
	require.NoError(t, err)
	assert.Equal(t, []byte("dling/dong\nding"), data)
}

func TestConditionValidate(t *testing.T) {
	cases := map[string]struct {
		cond  Condition
		valid bool
	}{
		"good":             {NewCondition("foo", "bar", []byte("data")), true},
		"nil":              {nil, false},
		"empty data":       {NewCondition("foo", "bar", nil), false},
		"short extension":  {NewCondition("f", "bar", []byte("d")), false},
		"long type":        {NewCondition("foo", "waytoolongtype", []byte("d")), false},
		"invalid rune":     {Condition("foo/bar!/data"), false},
		"missing sections": {Condition("foo/bar"), false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.cond.Validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestConditionAddress(t *testing.T) {
	a := NewCondition("foo", "bar", []byte("one"))
	b := NewCondition("foo", "bar", []byte("two"))

	require.NoError(t, a.Address().Validate())
	assert.Len(t, []byte(a.Address()), AddressLength)
	// deterministic, and distinct per condition
	assert.Equal(t, a.Address(), a.Address())
	assert.False(t, a.Address().Equals(b.Address()))
}

func TestAddressValidate(t *testing.T) {
	assert.Error(t, Address(nil).Validate())
	assert.Error(t, Address{1, 2, 3}.Validate())
	assert.NoError(t, make(Address, AddressLength).Validate())
}

func TestAddressJSONRoundTrip(t *testing.T) {
	addr := NewCondition("foo", "bar", []byte("payload")).Address()
	bz, err := json.Marshal(addr)
	require.NoError(t, err)

	var loaded Address
	require.NoError(t, json.Unmarshal(bz, &loaded))
	assert.Equal(t, addr, loaded)
}

func TestParseAddress(t *testing.T) {
	cond := NewCondition("foo", "bar", []byte("payload"))
	addr := cond.Address()

	hex := addr.String()
	got, err := ParseAddress(hex)
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	got, err = ParseAddress("hex:" + hex)
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	got, err = ParseAddress("cond:foo/bar/7061796C6F6164")
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	enc, err := addr.Bech32("life")
	require.NoError(t, err)
	got, err = ParseAddress("bech32:" + enc)
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	_, err = ParseAddress("base64:AAAA")
	assert.True(t, errors.ErrType.Is(err))
	_, err = ParseAddress("hex:zzzz")
	assert.Error(t, err)
}
