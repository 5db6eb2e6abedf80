/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package item

import (
	"strconv"

	"devt.de/krotik/common/datautil"
	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/jsoniqdb/config"
)

/*
Shared boolean items
*/
var (
	trueItem  = NewBoolean(true)
	falseItem = NewBoolean(false)
)

/*
Factory constructs items. Strings, integers and node items are interned so
repeated construction of the same value returns the same item. A Factory
can be shared by concurrent evaluations.
*/
type Factory struct {
	cache *datautil.MapCache // Cache for interned items
}

/*
NewFactory creates a new item factory. The cache is bounded by a maximum
number of entries and a maximum age in seconds (0 means unbounded).
*/
func NewFactory(maxSize uint64, maxAge int64) *Factory {
	return &Factory{datautil.NewMapCache(maxSize, maxAge)}
}

/*
NewDefaultFactory creates a new item factory using the configured cache settings.
*/
func NewDefaultFactory() *Factory {
	return NewFactory(uint64(config.Int(config.ItemCacheMaxSize)),
		config.Int(config.ItemCacheMaxAgeSeconds))
}

/*
intern returns a cached item or stores a newly created one.
*/
func (f *Factory) intern(key string, create func() *Item) *Item {
	if it, ok := f.cache.Get(key); ok {
		return it.(*Item)
	}

	it := create()
	f.cache.Put(key, it)

	return it
}

/*
Null returns the null item.
*/
func (f *Factory) Null() *Item {
	return nullItem
}

/*
Boolean returns a boolean item.
*/
func (f *Factory) Boolean(b bool) *Item {
	if b {
		return trueItem
	}
	return falseItem
}

/*
Integer returns an integer item.
*/
func (f *Factory) Integer(i int64) *Item {
	return f.intern("i:"+strconv.FormatInt(i, 10), func() *Item {
		return NewInteger(i)
	})
}

/*
Decimal returns a decimal item.
*/
func (f *Factory) Decimal(d float64) *Item {
	return NewDecimal(d)
}

/*
String returns a string item.
*/
func (f *Factory) String(s string) *Item {
	return f.intern("s:"+s, func() *Item {
		return NewString(s)
	})
}

/*
Duration returns a duration item.
*/
func (f *Factory) Duration(d Duration) *Item {
	return NewDuration(d)
}

/*
Node returns the item which wraps a given node.
*/
func (f *Factory) Node(n *Node) *Item {

	// Document order and duplicate removal rely on numbered trees

	errorutil.AssertTrue(n.Order() != 0, "Node of an unnumbered tree: "+n.String())

	return f.intern("n:"+n.ID().String(), func() *Item {
		return NewNode(n)
	})
}
