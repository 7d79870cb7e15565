package orm

import (
	"encoding/binary"
	"testing"

	"github.com/dielemma/lifeline/errors"
	"github.com/dielemma/lifeline/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter is a minimal CloneableData for bucket tests
type counter struct {
	Count uint64
}

var _ CloneableData = (*counter)(nil)

func (c *counter) Marshal() ([]byte, error) {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, c.Count)
	return bz, nil
}

func (c *counter) Unmarshal(bz []byte) error {
	if len(bz) != 8 {
		return errors.Wrap(errors.ErrInput, "invalid counter length")
	}
	c.Count = binary.BigEndian.Uint64(bz)
	return nil
}

func (c *counter) Copy() CloneableData {
	return &counter{Count: c.Count}
}

func (c *counter) Validate() error {
	return nil
}

func newCounterBucket() Bucket {
	return NewBucket("cntr", NewSimpleObj(nil, &counter{}))
}

func TestBucketSaveGet(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()

	key := []byte("some-key")
	obj, err := b.Get(db, key)
	require.NoError(t, err)
	assert.Nil(t, obj)
	assert.False(t, b.Has(db, key))

	err = b.Save(db, NewSimpleObj(key, &counter{Count: 33}))
	require.NoError(t, err)
	assert.True(t, b.Has(db, key))

	obj, err = b.Get(db, key)
	require.NoError(t, err)
	require.NotNil(t, obj)
	assert.Equal(t, key, obj.GetKey())
	cnt, ok := obj.(*SimpleObj).Value().(*counter)
	require.True(t, ok)
	assert.Equal(t, uint64(33), cnt.Count)

	require.NoError(t, b.Delete(db, key))
	obj, err = b.Get(db, key)
	require.NoError(t, err)
	assert.Nil(t, obj)
}

func TestBucketRejectsMissingKey(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()

	err := b.Save(db, NewSimpleObj(nil, &counter{Count: 1}))
	assert.True(t, errors.ErrEmpty.Is(err))
}

func TestBucketPrefixIsolation(t *testing.T) {
	db := store.MemStore()
	a := NewBucket("aaa", NewSimpleObj(nil, &counter{}))
	z := NewBucket("zzz", NewSimpleObj(nil, &counter{}))

	key := []byte("shared")
	require.NoError(t, a.Save(db, NewSimpleObj(key, &counter{Count: 1})))
	assert.False(t, z.Has(db, key))
}

func TestBucketNameValidation(t *testing.T) {
	assert.Panics(t, func() { NewBucket("UPPER", NewSimpleObj(nil, &counter{})) })
	assert.Panics(t, func() { NewBucket("ab", NewSimpleObj(nil, &counter{})) })
}
