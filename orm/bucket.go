package orm

import (
	"fmt"
	"regexp"

	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is a prefixed subspace of the DB holding objects of one type.
//
// This is a generic building block that should generally
// be embedded in a type-safe wrapper to ensure all data
// is the same type.
// proto defines the default Model, all elements of this type
type Bucket struct {
	name   string
	prefix []byte
	proto  Cloneable
}

// NewBucket creates a bucket to store data
func NewBucket(name string, proto Cloneable) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

// Name returns the name of the bucket
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	// Long story: annoying bug... storing with keys "ABC" and "LED"
	// would overwrite each other, also affecting queries over all objects
	// in one bucket, so we copy the prefix here.
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get one element
func (b Bucket) Get(db lifeline.ReadOnlyKVStore, key []byte) (Object, error) {
	dbkey := b.DBKey(key)
	bz := db.Get(dbkey)
	if bz == nil {
		return nil, nil
	}
	return b.Parse(key, bz)
}

// Has returns true if there is data stored under the given key
func (b Bucket) Has(db lifeline.ReadOnlyKVStore, key []byte) bool {
	return db.Has(b.DBKey(key))
}

// Parse takes a key and value data (weirdly encoded like we store
// in the db) and reconstructs the original object
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Unmarshal(value); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", b.name)
	}
	obj.SetKey(key)
	return obj, nil
}

// Save will write the object, if it validates
func (b Bucket) Save(db lifeline.KVStore, model Object) error {
	err := model.Validate()
	if err != nil {
		return errors.Wrapf(err, "saving %s", b.name)
	}

	bz, err := model.Marshal()
	if err != nil {
		return err
	}
	db.Set(b.DBKey(model.GetKey()), bz)
	return nil
}

// Delete removes the object stored under the given key, if any
func (b Bucket) Delete(db lifeline.KVStore, key []byte) error {
	db.Delete(b.DBKey(key))
	return nil
}
