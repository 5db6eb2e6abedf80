/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package interpreter contains the JSONiq runtime.

Runtime iterators

A compiled program is a tree of runtime iterators. The tree is immutable:
every iterator holds its child iterators and its static context. Opening an
iterator against a dynamic context returns a cursor which holds all mutable
state of this evaluation. Cursors produce items one at a time and must be
closed after use.

Iterators which produce at most one item also offer a fast path
(MaterializeFirstItemOrNull) which returns the item directly.

Statements

Statements are iterators which are executed for their effects. Execute
returns a control result which signals break, continue and exit to the
enclosing constructs.

Compiler

The Compiler visits a syntax tree and produces the iterator tree.
*/
package interpreter

import (
	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/common/logutil"
	"devt.de/krotik/jsoniqdb/item"
)

/*
RuntimeIterator is an operator of a compiled program.
*/
type RuntimeIterator interface {

	/*
	   Children returns the operands of this iterator.
	*/
	Children() []RuntimeIterator

	/*
	   StaticContext returns the compile time information of this iterator.
	*/
	StaticContext() *StaticContext

	/*
	   Open starts an evaluation of this iterator against a dynamic context.
	*/
	Open(dc *DynamicContext) (Cursor, error)
}

/*
Cursor holds the state of a single evaluation of an iterator.
*/
type Cursor interface {

	/*
	   HasNext returns true if another item is available. It does not consume
	   the item. A pending failure is reported as an available item so the
	   following call to Next returns the error.
	*/
	HasNext() bool

	/*
	   Next returns the next item.
	*/
	Next() (*item.Item, error)

	/*
	   Close releases all resources of this cursor. Closing a cursor more than
	   once has no effect.
	*/
	Close() error
}

/*
AtMostOneIterator is an iterator which produces zero or one item.
*/
type AtMostOneIterator interface {
	RuntimeIterator

	/*
	   MaterializeFirstItemOrNull evaluates this iterator and returns its item
	   or nil if it produces no item.
	*/
	MaterializeFirstItemOrNull(dc *DynamicContext) (*item.Item, error)
}

// Evaluation
// ==========

/*
Evaluation holds the state shared by all cursors of a single evaluation of a
compiled program.
*/
type Evaluation struct {
	Name    string         // Name of the evaluation
	Factory *item.Factory  // Item factory
	Logger  logutil.Logger // Logger for this evaluation
	open    map[int]bool   // Operators with an open cursor (by static ID)
}

/*
NewEvaluation creates a new evaluation.
*/
func NewEvaluation(name string, factory *item.Factory) *Evaluation {
	return &Evaluation{name, factory, logutil.GetLogger("jsoniq.interpreter"), make(map[int]bool)}
}

/*
acquire marks an operator as open. An operator can only have one open cursor
per evaluation.
*/
func (e *Evaluation) acquire(sctx *StaticContext) error {
	if e.open[sctx.ID] {
		return newRuntimeError(ErrIteratorReopened, sctx.Name, sctx.Meta)
	}

	e.open[sctx.ID] = true

	return nil
}

/*
release marks an operator as closed.
*/
func (e *Evaluation) release(sctx *StaticContext) {
	delete(e.open, sctx.ID)
}

/*
OpenCursors returns the number of currently open cursors.
*/
func (e *Evaluation) OpenCursors() int {
	return len(e.open)
}

// Base iterator
// =============

/*
baseIterator holds the immutable shape of an iterator.
*/
type baseIterator struct {
	children []RuntimeIterator // Operands of this iterator
	sctx     *StaticContext    // Compile time information
}

/*
newBaseIterator creates a new base iterator. The number of children must be
within the given bounds (-1 for no upper bound).
*/
func newBaseIterator(sctx *StaticContext, min int, max int, children ...RuntimeIterator) baseIterator {
	errorutil.AssertTrue(len(children) >= min && (max == -1 || len(children) <= max),
		"Invalid number of operands for "+sctx.Name)

	for _, c := range children {
		errorutil.AssertTrue(c != nil, "Missing operand for "+sctx.Name)
	}

	return baseIterator{children, sctx}
}

/*
Children returns the operands of this iterator.
*/
func (b *baseIterator) Children() []RuntimeIterator {
	return b.children
}

/*
StaticContext returns the compile time information of this iterator.
*/
func (b *baseIterator) StaticContext() *StaticContext {
	return b.sctx
}

// Cursors
// =======

/*
cursor is the generic cursor implementation. Items are produced by a fetch
function which returns nil when the sequence is exhausted. The next item is
fetched ahead on demand.
*/
type cursor struct {
	eval    *Evaluation                // Evaluation which owns this cursor
	sctx    *StaticContext             // Operator of this cursor
	fetch   func() (*item.Item, error) // Function producing the next item
	release func() error               // Function releasing held resources

	next    *item.Item // Fetched item
	err     error      // Pending failure
	fetched bool       // Flag if next and err hold a fetch result
	done    bool       // Flag if the sequence is exhausted
	closed  bool       // Flag if the cursor was closed
}

/*
openCursor registers a new cursor for an operator.
*/
func openCursor(dc *DynamicContext, sctx *StaticContext, fetch func() (*item.Item, error),
	release func() error) (Cursor, error) {

	if err := dc.eval.acquire(sctx); err != nil {
		if release != nil {
			release()
		}
		return nil, err
	}

	return &cursor{eval: dc.eval, sctx: sctx, fetch: fetch, release: release}, nil
}

/*
prefetch fetches the next item if required.
*/
func (c *cursor) prefetch() {
	if c.fetched || c.done || c.closed {
		return
	}

	c.next, c.err = c.fetch()
	c.fetched = true

	if c.next == nil && c.err == nil {
		c.done = true
	}
}

/*
HasNext returns true if another item is available.
*/
func (c *cursor) HasNext() bool {
	c.prefetch()
	return !c.closed && (c.next != nil || c.err != nil)
}

/*
Next returns the next item.
*/
func (c *cursor) Next() (*item.Item, error) {
	if c.closed {
		return nil, newRuntimeError(ErrIteratorClosed, c.sctx.Name, c.sctx.Meta)
	}

	c.prefetch()

	if err := c.err; err != nil {
		c.err = nil
		c.done = true
		return nil, err
	}

	if c.next == nil {
		return nil, newRuntimeError(ErrIteratorExhausted, c.sctx.Name, c.sctx.Meta)
	}

	ret := c.next
	c.next = nil
	c.fetched = false

	return ret, nil
}

/*
Close releases all resources of this cursor.
*/
func (c *cursor) Close() error {
	var err error

	if c.closed {
		return nil
	}

	c.closed = true
	c.next = nil

	if c.release != nil {
		err = c.release()
	}

	c.eval.release(c.sctx)

	return err
}

/*
openAtMostOne opens a cursor which produces the result of the fast path of
an at-most-one iterator. The cursor never produces a second item.
*/
func openAtMostOne(it AtMostOneIterator, dc *DynamicContext) (Cursor, error) {
	pulled := false

	return openCursor(dc, it.StaticContext(), func() (*item.Item, error) {
		if pulled {
			return nil, nil
		}
		pulled = true
		return it.MaterializeFirstItemOrNull(dc)
	}, nil)
}

/*
cursorSet collects child cursors so they can be closed together.
*/
type cursorSet []Cursor

/*
closeAll closes all cursors of this set. All cursors are closed even if some
fail; the failures are combined into one error.
*/
func (cs *cursorSet) closeAll() error {
	ce := errorutil.NewCompositeError()

	for _, c := range *cs {
		if err := c.Close(); err != nil {
			ce.Add(err)
		}
	}

	*cs = nil

	if ce.HasErrors() {
		return ce
	}

	return nil
}

// Materialization helpers
// =======================

/*
Materialize evaluates an iterator and returns all its items.
*/
func Materialize(it RuntimeIterator, dc *DynamicContext) (item.Sequence, error) {
	var ret item.Sequence

	c, err := it.Open(dc)
	if err != nil {
		return nil, err
	}

	for err == nil && c.HasNext() {
		var i *item.Item

		if i, err = c.Next(); err == nil {
			ret = append(ret, i)
		}
	}

	if cerr := c.Close(); err == nil {
		err = cerr
	}

	return ret, err
}

/*
MaterializeFirstItemOrNull evaluates an iterator and returns its first item
or nil if it produces no item. The fast path of at-most-one iterators is
used if available.
*/
func MaterializeFirstItemOrNull(it RuntimeIterator, dc *DynamicContext) (*item.Item, error) {
	var ret *item.Item

	if amo, ok := it.(AtMostOneIterator); ok {
		return amo.MaterializeFirstItemOrNull(dc)
	}

	c, err := it.Open(dc)
	if err != nil {
		return nil, err
	}

	if c.HasNext() {
		ret, err = c.Next()
	}

	if cerr := c.Close(); err == nil {
		err = cerr
	}

	return ret, err
}

/*
materializeAtMostOne evaluates an iterator which must produce at most one
item.
*/
func materializeAtMostOne(it RuntimeIterator, dc *DynamicContext) (*item.Item, error) {
	if amo, ok := it.(AtMostOneIterator); ok {
		return amo.MaterializeFirstItemOrNull(dc)
	}

	seq, err := Materialize(it, dc)
	if err != nil {
		return nil, err
	} else if len(seq) > 1 {
		return nil, newRuntimeError(ErrCardinality, seq.String(), it.StaticContext().Meta)
	} else if len(seq) == 0 {
		return nil, nil
	}

	return seq[0], nil
}

/*
effectiveBooleanValue evaluates an iterator and computes the effective
boolean value of its result.
*/
func effectiveBooleanValue(it RuntimeIterator, dc *DynamicContext) (bool, error) {
	var seq item.Sequence

	// Only the first two items can influence the result

	c, err := it.Open(dc)
	if err != nil {
		return false, err
	}

	for err == nil && len(seq) < 2 && c.HasNext() {
		var i *item.Item

		if i, err = c.Next(); err == nil {
			seq = append(seq, i)
		}
	}

	if cerr := c.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return false, err
	}

	res, err := item.EffectiveBooleanValue(seq)

	return res, wrapItemError(err, it.StaticContext().Meta)
}
