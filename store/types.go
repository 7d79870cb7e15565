//nolint
package store

import "github.com/dielemma/lifeline"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = lifeline.ReadOnlyKVStore
type KVStore = lifeline.KVStore
type SetDeleter = lifeline.SetDeleter
type Batch = lifeline.Batch
type Iterator = lifeline.Iterator
type CacheableKVStore = lifeline.CacheableKVStore
type KVCacheWrap = lifeline.KVCacheWrap

// Model groups a key-value pair, for iteration over preloaded data.
type Model struct {
	Key   []byte
	Value []byte
}
