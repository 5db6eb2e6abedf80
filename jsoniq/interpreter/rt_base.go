/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package interpreter

import (
	"devt.de/krotik/jsoniqdb/item"
)

/*
sliceFetch returns a fetch function which produces the items of a sequence.
*/
func sliceFetch(seq item.Sequence) func() (*item.Item, error) {
	var ptr int

	return func() (*item.Item, error) {
		if ptr >= len(seq) {
			return nil, nil
		}

		ptr++

		return seq[ptr-1], nil
	}
}

/*
lazyFetch returns a fetch function which computes a sequence on the first
fetch and then produces its items.
*/
func lazyFetch(compute func() (item.Sequence, error)) func() (*item.Item, error) {
	var next func() (*item.Item, error)

	return func() (*item.Item, error) {
		if next == nil {
			seq, err := compute()
			if err != nil {
				return nil, err
			}
			next = sliceFetch(seq)
		}

		return next()
	}
}

/*
delegate streams the items of a child cursor. The child cursor is opened by
the given function on the first fetch.
*/
type delegate struct {
	open func() (Cursor, error) // Function to open the child cursor
	cur  Cursor                 // Open child cursor
}

/*
fetch produces the next item of the child cursor.
*/
func (d *delegate) fetch() (*item.Item, error) {
	var err error

	if d.cur == nil {
		if d.open == nil {
			return nil, nil
		}

		if d.cur, err = d.open(); err != nil {
			d.open = nil
			return nil, err
		}

		d.open = nil
	}

	if d.cur.HasNext() {
		return d.cur.Next()
	}

	return nil, nil
}

/*
release closes the child cursor.
*/
func (d *delegate) release() error {
	if d.cur != nil {
		cur := d.cur
		d.cur = nil
		return cur.Close()
	}

	return nil
}

// Literals and references
// =======================

/*
literalIterator produces a constant item.
*/
type literalIterator struct {
	baseIterator
	value *item.Item
}

func newLiteralIterator(sctx *StaticContext, value *item.Item) *literalIterator {
	sctx.Cardinality = CardinalityAtMostOne
	return &literalIterator{newBaseIterator(sctx, 0, 0), value}
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (rt *literalIterator) Open(dc *DynamicContext) (Cursor, error) {
	return openAtMostOne(rt, dc)
}

/*
MaterializeFirstItemOrNull returns the constant.
*/
func (rt *literalIterator) MaterializeFirstItemOrNull(dc *DynamicContext) (*item.Item, error) {
	return rt.value, nil
}

/*
varRefIterator produces the value of a variable.
*/
type varRefIterator struct {
	baseIterator
}

func newVarRefIterator(sctx *StaticContext) *varRefIterator {
	return &varRefIterator{newBaseIterator(sctx, 0, 0)}
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (rt *varRefIterator) Open(dc *DynamicContext) (Cursor, error) {
	seq, ok := dc.Lookup(rt.sctx.Var)
	if !ok {
		return nil, newRuntimeError(ErrUndeclaredVariable, "$"+rt.sctx.Var.String(), rt.sctx.Meta)
	}

	return openCursor(dc, rt.sctx, sliceFetch(seq), nil)
}

/*
contextItemIterator produces the context item.
*/
type contextItemIterator struct {
	baseIterator
}

func newContextItemIterator(sctx *StaticContext) *contextItemIterator {
	sctx.Cardinality = CardinalityAtMostOne
	return &contextItemIterator{newBaseIterator(sctx, 0, 0)}
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (rt *contextItemIterator) Open(dc *DynamicContext) (Cursor, error) {
	return openAtMostOne(rt, dc)
}

/*
MaterializeFirstItemOrNull returns the context item.
*/
func (rt *contextItemIterator) MaterializeFirstItemOrNull(dc *DynamicContext) (*item.Item, error) {
	ci := dc.ContextItem()

	if ci == nil {
		return nil, newRuntimeError(ErrAbsentContextItem, "$$", rt.sctx.Meta)
	}

	return ci, nil
}

// Sequences
// =========

/*
sequenceIterator concatenates the results of its operands.
*/
type sequenceIterator struct {
	baseIterator
}

func newSequenceIterator(sctx *StaticContext, items ...RuntimeIterator) *sequenceIterator {
	return &sequenceIterator{newBaseIterator(sctx, 0, -1, items...)}
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (rt *sequenceIterator) Open(dc *DynamicContext) (Cursor, error) {
	var ptr int
	var cur delegate

	return openCursor(dc, rt.sctx, func() (*item.Item, error) {
		for ptr < len(rt.children) {

			if cur.cur == nil && cur.open == nil {
				child := rt.children[ptr]
				cur.open = func() (Cursor, error) {
					return child.Open(dc)
				}
			}

			i, err := cur.fetch()
			if i != nil || err != nil {
				return i, err
			}

			if err := cur.release(); err != nil {
				return nil, err
			}

			ptr++
		}

		return nil, nil

	}, cur.release)
}

/*
rangeIterator produces the integers between two bounds.
*/
type rangeIterator struct {
	baseIterator
}

func newRangeIterator(sctx *StaticContext, from RuntimeIterator, to RuntimeIterator) *rangeIterator {
	return &rangeIterator{newBaseIterator(sctx, 2, 2, from, to)}
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (rt *rangeIterator) Open(dc *DynamicContext) (Cursor, error) {
	var from, to, cur int64

	bounds, err := rt.integerOperands(dc)
	if err != nil {
		return nil, err
	}

	if bounds != nil {
		from, to = bounds[0], bounds[1]
		cur = from
	}

	done := bounds == nil || from > to

	return openCursor(dc, rt.sctx, func() (*item.Item, error) {
		if done {
			return nil, nil
		}

		ret := cur

		// The upper bound may be the largest integer so stop before incrementing

		if cur == to {
			done = true
		} else {
			cur++
		}

		return dc.Factory().Integer(ret), nil
	}, nil)
}

/*
integerOperands evaluates the bounds of the range. Returns nil if one of
the bounds is empty.
*/
func (rt *rangeIterator) integerOperands(dc *DynamicContext) ([]int64, error) {
	var ret []int64

	for _, c := range rt.children {
		i, err := materializeAtMostOne(c, dc)
		if err != nil || i == nil {
			return nil, err
		}

		i = item.Atomize(i)

		if i.Kind() != item.KindInteger {
			return nil, newRuntimeError(ErrUnexpectedType,
				"range bound must be an integer not "+i.TypeName(), rt.sctx.Meta)
		}

		ret = append(ret, i.Int())
	}

	return ret, nil
}
