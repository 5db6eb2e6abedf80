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
	"sort"

	"devt.de/krotik/jsoniqdb/item"
)

/*
tupleStream produces the binding tuples of a FLWOR expression. Each tuple
is a dynamic context holding the variables bound so far.
*/
type tupleStream interface {

	/*
	   next returns the next tuple or nil if the stream is exhausted.
	*/
	next() (*DynamicContext, error)

	/*
	   close releases all resources of the stream.
	*/
	close() error
}

/*
FLWORClause is a clause of a FLWOR expression. A clause transforms an input
tuple stream into an output tuple stream.
*/
type FLWORClause interface {

	/*
	   StaticContext returns the compile time information of this clause.
	*/
	StaticContext() *StaticContext

	/*
	   Operands returns the iterators evaluated by this clause.
	*/
	Operands() []RuntimeIterator

	/*
	   stream creates the output stream of this clause.
	*/
	stream(in tupleStream) tupleStream
}

/*
singleTuple is the input stream of the first clause.
*/
type singleTuple struct {
	dc *DynamicContext
}

func (s *singleTuple) next() (*DynamicContext, error) {
	dc := s.dc
	s.dc = nil
	return dc, nil
}

func (s *singleTuple) close() error {
	s.dc = nil
	return nil
}

// For clause
// ==========

/*
forClause binds a variable to each item of a sequence.
*/
type forClause struct {
	sctx   *StaticContext
	posVar *item.Name
	in     RuntimeIterator
}

func newForClause(sctx *StaticContext, posVar *item.Name, in RuntimeIterator) *forClause {
	return &forClause{sctx, posVar, in}
}

/*
StaticContext returns the compile time information of this clause.
*/
func (c *forClause) StaticContext() *StaticContext {
	return c.sctx
}

/*
Operands returns the iterators evaluated by this clause.
*/
func (c *forClause) Operands() []RuntimeIterator {
	return []RuntimeIterator{c.in}
}

func (c *forClause) stream(in tupleStream) tupleStream {
	return &forStream{c, in, nil, nil, 0}
}

/*
forStream produces one tuple for each item of each input tuple.
*/
type forStream struct {
	clause *forClause
	in     tupleStream
	tuple  *DynamicContext // Current input tuple
	cur    Cursor          // Cursor over the sequence of the current tuple
	pos    int64           // Position in the current sequence
}

func (s *forStream) next() (*DynamicContext, error) {
	for {
		if s.cur == nil {
			tuple, err := s.in.next()
			if err != nil || tuple == nil {
				return nil, err
			}

			if s.cur, err = s.clause.in.Open(tuple); err != nil {
				return nil, err
			}

			s.tuple = tuple
			s.pos = 0
		}

		if s.cur.HasNext() {
			i, err := s.cur.Next()
			if err != nil {
				return nil, err
			}

			s.pos++

			out := s.tuple.NewChild()
			out.Declare(s.clause.sctx.Var, item.Sequence{i})

			if s.clause.posVar != nil {
				out.Declare(*s.clause.posVar, item.Sequence{out.Factory().Integer(s.pos)})
			}

			return out, nil
		}

		err := s.cur.Close()
		s.cur = nil

		if err != nil {
			return nil, err
		}
	}
}

func (s *forStream) close() error {
	cs := cursorSet{}

	if s.cur != nil {
		cs = append(cs, s.cur)
		s.cur = nil
	}

	err := cs.closeAll()

	if ierr := s.in.close(); err == nil {
		err = ierr
	}

	return err
}

// Let clause
// ==========

/*
letClause binds a variable to a whole sequence.
*/
type letClause struct {
	sctx  *StaticContext
	value RuntimeIterator
}

/*
StaticContext returns the compile time information of this clause.
*/
func (c *letClause) StaticContext() *StaticContext {
	return c.sctx
}

/*
Operands returns the iterators evaluated by this clause.
*/
func (c *letClause) Operands() []RuntimeIterator {
	return []RuntimeIterator{c.value}
}

func (c *letClause) stream(in tupleStream) tupleStream {
	return &mapStream{in, func(tuple *DynamicContext) (*DynamicContext, error) {
		return tuple.DeriveWithBinding(c.sctx.Var, c.value)
	}}
}

/*
mapStream transforms or drops each tuple of its input. A transformation
returning nil drops the tuple.
*/
type mapStream struct {
	in tupleStream
	f  func(tuple *DynamicContext) (*DynamicContext, error)
}

func (s *mapStream) next() (*DynamicContext, error) {
	for {
		tuple, err := s.in.next()
		if err != nil || tuple == nil {
			return nil, err
		}

		if tuple, err = s.f(tuple); err != nil || tuple != nil {
			return tuple, err
		}
	}
}

func (s *mapStream) close() error {
	return s.in.close()
}

// Where clause
// ============

/*
whereClause drops tuples for which a condition does not hold.
*/
type whereClause struct {
	sctx      *StaticContext
	condition RuntimeIterator
}

/*
StaticContext returns the compile time information of this clause.
*/
func (c *whereClause) StaticContext() *StaticContext {
	return c.sctx
}

/*
Operands returns the iterators evaluated by this clause.
*/
func (c *whereClause) Operands() []RuntimeIterator {
	return []RuntimeIterator{c.condition}
}

func (c *whereClause) stream(in tupleStream) tupleStream {
	return &mapStream{in, func(tuple *DynamicContext) (*DynamicContext, error) {
		ok, err := effectiveBooleanValue(c.condition, tuple)
		if err != nil || !ok {
			return nil, err
		}
		return tuple, nil
	}}
}

// Count clause
// ============

/*
countClause binds a variable to the number of each tuple.
*/
type countClause struct {
	sctx *StaticContext
}

/*
StaticContext returns the compile time information of this clause.
*/
func (c *countClause) StaticContext() *StaticContext {
	return c.sctx
}

/*
Operands returns the iterators evaluated by this clause.
*/
func (c *countClause) Operands() []RuntimeIterator {
	return nil
}

func (c *countClause) stream(in tupleStream) tupleStream {
	var count int64

	return &mapStream{in, func(tuple *DynamicContext) (*DynamicContext, error) {
		count++
		out := tuple.NewChild()
		out.Declare(c.sctx.Var, item.Sequence{out.Factory().Integer(count)})
		return out, nil
	}}
}

// Order by clause
// ===============

/*
orderSpec is a single ordering key.
*/
type orderSpec struct {
	key           RuntimeIterator
	descending    bool
	emptyGreatest bool
}

/*
orderByClause sorts all tuples of its input. The sort is stable.
*/
type orderByClause struct {
	sctx  *StaticContext
	specs []orderSpec
}

/*
StaticContext returns the compile time information of this clause.
*/
func (c *orderByClause) StaticContext() *StaticContext {
	return c.sctx
}

/*
Operands returns the iterators evaluated by this clause.
*/
func (c *orderByClause) Operands() []RuntimeIterator {
	var ret []RuntimeIterator

	for _, s := range c.specs {
		ret = append(ret, s.key)
	}

	return ret
}

func (c *orderByClause) stream(in tupleStream) tupleStream {
	return &orderStream{clause: c, in: in}
}

/*
orderStream collects all input tuples on the first fetch.
*/
type orderStream struct {
	clause *orderByClause
	in     tupleStream
	tuples []*DynamicContext
	ptr    int
	sorted bool
}

func (s *orderStream) next() (*DynamicContext, error) {
	if !s.sorted {
		if err := s.sort(); err != nil {
			return nil, err
		}
		s.sorted = true
	}

	if s.ptr >= len(s.tuples) {
		return nil, nil
	}

	s.ptr++

	return s.tuples[s.ptr-1], nil
}

/*
sort reads and sorts all input tuples.
*/
func (s *orderStream) sort() error {
	var keys [][]*item.Item
	var sortErr error

	for {
		tuple, err := s.in.next()
		if err != nil {
			return err
		} else if tuple == nil {
			break
		}

		var tkeys []*item.Item

		for _, spec := range s.clause.specs {
			k, err := materializeAtMostOne(spec.key, tuple)
			if err != nil {
				return err
			}
			tkeys = append(tkeys, k)
		}

		s.tuples = append(s.tuples, tuple)
		keys = append(keys, tkeys)
	}

	idx := make([]int, len(s.tuples))
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(i, j int) bool {
		for k, spec := range s.clause.specs {
			c, err := compareOrderKeys(keys[idx[i]][k], keys[idx[j]][k], spec.emptyGreatest)
			if err != nil {
				if sortErr == nil {
					sortErr = wrapItemError(err, s.clause.sctx.Meta)
				}
				return false
			}

			if spec.descending {
				c = -c
			}

			if c != 0 {
				return c < 0
			}
		}
		return false
	})

	sorted := make([]*DynamicContext, len(idx))
	for i, j := range idx {
		sorted[i] = s.tuples[j]
	}
	s.tuples = sorted

	return sortErr
}

/*
compareOrderKeys compares two ordering keys. Empty keys are smaller than
all other keys unless emptyGreatest is set.
*/
func compareOrderKeys(a, b *item.Item, emptyGreatest bool) (int, error) {
	if a == nil || b == nil {
		if a == nil && b == nil {
			return 0, nil
		}

		c := 1
		if a == nil {
			c = -1
		}
		if emptyGreatest {
			c = -c
		}

		return c, nil
	}

	return item.Compare(a, b)
}

func (s *orderStream) close() error {
	s.tuples = nil
	return s.in.close()
}

// FLWOR expression
// ================

/*
flworIterator evaluates the return expression for each tuple produced by
its clauses.
*/
type flworIterator struct {
	baseIterator
	clauses []FLWORClause
	ret     RuntimeIterator
}

func newFLWORIterator(sctx *StaticContext, clauses []FLWORClause, ret RuntimeIterator) *flworIterator {
	var children []RuntimeIterator

	for _, c := range clauses {
		children = append(children, c.Operands()...)
	}

	return &flworIterator{newBaseIterator(sctx, 1, -1, append(children, ret)...), clauses, ret}
}

/*
Clauses returns the clauses of this FLWOR expression.
*/
func (rt *flworIterator) Clauses() []FLWORClause {
	return rt.clauses
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (rt *flworIterator) Open(dc *DynamicContext) (Cursor, error) {
	var tuples tupleStream = &singleTuple{dc}
	var cur delegate

	for _, c := range rt.clauses {
		tuples = c.stream(tuples)
	}

	fetch := func() (*item.Item, error) {
		for {
			i, err := cur.fetch()
			if i != nil || err != nil {
				return i, err
			}

			if err := cur.release(); err != nil {
				return nil, err
			}

			tuple, err := tuples.next()
			if err != nil || tuple == nil {
				return nil, err
			}

			cur.open = func() (Cursor, error) {
				return rt.ret.Open(tuple)
			}
		}
	}

	release := func() error {
		cs := cursorSet{}
		if cur.cur != nil {
			cs = append(cs, cur.cur)
			cur.cur = nil
		}

		err := cs.closeAll()

		if terr := tuples.close(); err == nil {
			err = terr
		}

		return err
	}

	return openCursor(dc, rt.sctx, fetch, release)
}
