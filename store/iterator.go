package store

import (
	"bytes"

	"github.com/google/btree"
)

// ascendBtree collects all cache items in [start, end) in
// ascending order. btree snapshots the range up front so the
// iterator stays valid if the cache is modified afterwards.
func ascendBtree(bt *btree.BTree, start, end []byte) []btree.Item {
	var res []btree.Item
	insert := func(item btree.Item) bool {
		res = append(res, item)
		return true
	}

	if start == nil && end == nil {
		bt.Ascend(insert)
	} else if start == nil { // end != nil
		bt.AscendLessThan(bkey{end}, insert)
	} else if end == nil { // start != nil
		bt.AscendGreaterOrEqual(bkey{start}, insert)
	} else { // both != nil
		bt.AscendRange(bkey{start}, bkey{end}, insert)
	}
	return res
}

// descendBtree collects all cache items in [start, end) in
// descending order.
func descendBtree(bt *btree.BTree, start, end []byte) []btree.Item {
	var res []btree.Item
	insert := func(item btree.Item) bool {
		res = append(res, item)
		return true
	}

	if start == nil && end == nil {
		bt.Descend(insert)
	} else if start == nil { // end != nil
		bt.DescendLessOrEqual(bkeyLess{end}, insert)
	} else if end == nil { // start != nil
		bt.DescendGreaterThan(bkeyLess{start}, insert)
	} else { // both != nil
		bt.DescendRange(bkeyLess{end}, bkeyLess{start}, insert)
	}
	return res
}

// bkeyLess is a query key that sorts just below the same key in the
// tree, so Descend ranges treat start as exclusive and end as
// inclusive of everything strictly below it.
type bkeyLess struct {
	key []byte
}

var _ btree.Item = bkeyLess{}

func (k bkeyLess) Less(item btree.Item) bool {
	cmp := item.(keyer).Key()
	return bytes.Compare(k.key, cmp) <= 0
}

// itemIter merges an in-memory list of cache items with the iterator
// of the backing store. Cache items shadow parent entries with the
// same key, and deletedItems suppress them entirely.
type itemIter struct {
	items   []btree.Item
	idx     int
	parent  Iterator
	reverse bool
	// cached next state
	key   []byte
	value []byte
	valid bool
}

var _ Iterator = (*itemIter)(nil)

func newItemIter(items []btree.Item, parent Iterator, reverse bool) *itemIter {
	iter := &itemIter{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
	iter.advance()
	return iter
}

// Valid implements Iterator and returns true iff it can be read
func (i *itemIter) Valid() bool {
	return i.valid
}

// Next moves the iterator to the next sequential key
func (i *itemIter) Next() {
	i.assertValid()
	i.advance()
}

// Key returns the key of the cursor.
func (i *itemIter) Key() (key []byte) {
	i.assertValid()
	return i.key
}

// Value returns the value of the cursor.
func (i *itemIter) Value() (value []byte) {
	i.assertValid()
	return i.value
}

// Close releases the parent iterator
func (i *itemIter) Close() {
	i.items = nil
	i.valid = false
	i.parent.Close()
}

func (i *itemIter) assertValid() {
	if !i.valid {
		panic("Got an invalid iterator, check for Valid() before reading")
	}
}

// skipAllowed returns true if we can skip ahead of the parent,
// meaning our cached item comes before (or equal to) the parent key.
func (i *itemIter) skipAllowed(parentKey []byte) bool {
	cmp := bytes.Compare(i.items[i.idx].(keyer).Key(), parentKey)
	if i.reverse {
		return cmp >= 0
	}
	return cmp <= 0
}

// advance sets key/value to the next merged entry, resolving
// shadowing and delete markers, or marks the iterator invalid.
func (i *itemIter) advance() {
	for {
		haveCache := i.idx < len(i.items)
		haveParent := i.parent.Valid()

		switch {
		case !haveCache && !haveParent:
			i.valid = false
			return

		case haveCache && (!haveParent || i.skipAllowed(i.parent.Key())):
			item := i.items[i.idx]
			i.idx++
			// same key in parent is shadowed, consume it
			if haveParent && bytes.Equal(item.(keyer).Key(), i.parent.Key()) {
				i.parent.Next()
			}
			switch t := item.(type) {
			case setItem:
				i.key, i.value, i.valid = t.key, t.value, true
				return
			case deletedItem:
				// skip and look at the next entry
			}

		default:
			i.key, i.value, i.valid = i.parent.Key(), i.parent.Value(), true
			i.parent.Next()
			return
		}
	}
}
