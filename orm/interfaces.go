/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* It has a primary key index
*/
package orm

import (
	"github.com/dielemma/lifeline"
)

// Object is what is stored in the bucket
// Key is joined with the prefix to set the full key
// Value is the data stored
type Object interface {
	// Validate returns error if the object is not in a valid
	// state to save to the db
	Validate() error
	Keyed
	lifeline.Persistent
}

// Keyed is an object with a key
type Keyed interface {
	GetKey() []byte
	SetKey([]byte)
}

// Cloneable can be cloned
type Cloneable interface {
	Clone() Object
}

// CloneableData is an intelligent Value that can be embedded
// in a simple object to handle much of the bucket interface.
type CloneableData interface {
	Copy() CloneableData
	lifeline.Persistent
	Validate() error
}

// Reader defines an interface that allows reading objects from the db
type Reader interface {
	Get(db lifeline.ReadOnlyKVStore, key []byte) (Object, error)
}
