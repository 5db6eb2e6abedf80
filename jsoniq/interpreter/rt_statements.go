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
	"fmt"

	"devt.de/krotik/jsoniqdb/item"
	"devt.de/krotik/jsoniqdb/jsoniq/ast"
)

/*
ControlKind is the kind of a control signal
*/
type ControlKind int

/*
Known control signals
*/
const (
	ControlNone ControlKind = iota
	ControlBreak
	ControlContinue
	ControlExit
)

var controlKindNames = []string{"none", "break", "continue", "exit"}

/*
String returns the name of the control signal.
*/
func (k ControlKind) String() string {
	return controlKindNames[k]
}

/*
Control is the result of executing a statement. A statement which completed
normally returns a control of kind ControlNone. Any other kind must be
handled by an enclosing construct.
*/
type Control struct {
	Kind   ControlKind   // Kind of the signal
	Origin ast.Metadata  // Location of the statement which raised the signal
	Result item.Sequence // Result of an exit statement
}

/*
normal is the result of a statement which completed normally.
*/
var normal = Control{}

/*
String returns a string representation of this control result.
*/
func (c Control) String() string {
	if c.Kind == ControlExit {
		return fmt.Sprintf("exit %v (%v)", c.Result, c.Origin)
	}
	return fmt.Sprintf("%v (%v)", c.Kind, c.Origin)
}

/*
StatementIterator is an iterator which is executed for its effects.
*/
type StatementIterator interface {
	AtMostOneIterator

	/*
	   Execute executes the statement. Control signals are reported through
	   the returned control result.
	*/
	Execute(dc *DynamicContext) (Control, error)
}

/*
execute executes an iterator. Statements report their control result, all
other iterators are evaluated completely and their items are discarded.
*/
func execute(it RuntimeIterator, dc *DynamicContext) (Control, error) {
	if st, ok := it.(StatementIterator); ok {
		return st.Execute(dc)
	}

	_, err := Materialize(it, dc)

	return normal, err
}

/*
leakedControl converts a control signal which left its valid scope into an
error.
*/
func leakedControl(ctrl Control) error {
	switch ctrl.Kind {
	case ControlBreak:
		return newRuntimeError(ErrBreakOutsideLoop, "break loop", ctrl.Origin)
	case ControlContinue:
		return newRuntimeError(ErrContinueOutsideLoop, "continue loop", ctrl.Origin)
	case ControlExit:
		return newRuntimeError(ErrExitOutsideProgram, "exit returning", ctrl.Origin)
	}

	return nil
}

/*
baseStatement provides the iterator protocol for statements. A statement
used as an expression is executed and produces no item.
*/
type baseStatement struct {
	baseIterator
	self StatementIterator
}

func newBaseStatement(sctx *StaticContext, min int, max int, children ...RuntimeIterator) baseStatement {
	sctx.Cardinality = CardinalityAtMostOne
	return baseStatement{newBaseIterator(sctx, min, max, children...), nil}
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (st *baseStatement) Open(dc *DynamicContext) (Cursor, error) {
	return openAtMostOne(st.self, dc)
}

/*
MaterializeFirstItemOrNull executes the statement. It never produces an item.
*/
func (st *baseStatement) MaterializeFirstItemOrNull(dc *DynamicContext) (*item.Item, error) {
	ctrl, err := st.self.Execute(dc)
	if err == nil {
		err = leakedControl(ctrl)
	}
	return nil, err
}

// Program
// =======

/*
programIterator executes a list of statements followed by an optional result
expression. An exit statement ends the program; its value becomes the result
of the program.
*/
type programIterator struct {
	baseIterator
	statements []RuntimeIterator
	result     RuntimeIterator
}

func newProgramIterator(sctx *StaticContext, statements []RuntimeIterator, result RuntimeIterator) *programIterator {
	children := statements
	if result != nil {
		children = append(append([]RuntimeIterator{}, statements...), result)
	}

	return &programIterator{newBaseIterator(sctx, 0, -1, children...), statements, result}
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (rt *programIterator) Open(dc *DynamicContext) (Cursor, error) {
	var res delegate
	var exitFetch func() (*item.Item, error)
	var started bool

	pdc := dc.NewChild()

	fetch := func() (*item.Item, error) {
		if !started {
			started = true

			ctrl, err := rt.executeStatements(pdc)
			if err != nil {
				return nil, err
			}

			if ctrl.Kind == ControlExit {
				exitFetch = sliceFetch(ctrl.Result)

			} else if rt.result != nil {
				res.open = func() (Cursor, error) {
					return rt.result.Open(pdc)
				}
			}
		}

		if exitFetch != nil {
			return exitFetch()
		}

		return res.fetch()
	}

	return openCursor(dc, rt.sctx, fetch, res.release)
}

/*
executeStatements executes all statements of the program. Returns the exit
signal if the program was ended by an exit statement.
*/
func (rt *programIterator) executeStatements(dc *DynamicContext) (Control, error) {

	for _, s := range rt.statements {
		ctrl, err := execute(s, dc)
		if err != nil {
			return normal, err
		}

		if ctrl.Kind == ControlExit {
			dc.Evaluation().Logger.Debug(fmt.Sprintf("%v: exit at %v",
				dc.Evaluation().Name, ctrl.Origin))
			return ctrl, nil

		} else if ctrl.Kind != ControlNone {
			return normal, leakedControl(ctrl)
		}
	}

	return normal, nil
}

// Blocks
// ======

/*
blockStatement executes statements in a new scope. A control signal stops
the block immediately and is passed on.
*/
type blockStatement struct {
	baseStatement
}

func newBlockStatement(sctx *StaticContext, statements ...RuntimeIterator) *blockStatement {
	st := &blockStatement{newBaseStatement(sctx, 0, -1, statements...)}
	st.self = st
	return st
}

/*
Execute executes the statement.
*/
func (st *blockStatement) Execute(dc *DynamicContext) (Control, error) {
	bdc := dc.NewChild()

	for _, s := range st.children {
		ctrl, err := execute(s, bdc)
		if err != nil || ctrl.Kind != ControlNone {
			return ctrl, err
		}
	}

	return normal, nil
}

// Variables
// =========

/*
varDeclStatement declares a variable in the current scope. Without an
initializer the variable is bound to the null item.
*/
type varDeclStatement struct {
	baseStatement
}

func newVarDeclStatement(sctx *StaticContext, init RuntimeIterator) *varDeclStatement {
	var st *varDeclStatement

	if init == nil {
		st = &varDeclStatement{newBaseStatement(sctx, 0, 0)}
	} else {
		st = &varDeclStatement{newBaseStatement(sctx, 1, 1, init)}
	}

	st.self = st

	return st
}

/*
Execute executes the statement.
*/
func (st *varDeclStatement) Execute(dc *DynamicContext) (Control, error) {
	if len(st.children) == 0 {
		dc.Declare(st.sctx.Var, nil)
		return normal, nil
	}

	return normal, dc.BindIterator(st.sctx.Var, st.children[0])
}

/*
assignStatement assigns a new value to a declared variable.
*/
type assignStatement struct {
	baseStatement
}

func newAssignStatement(sctx *StaticContext, value RuntimeIterator) *assignStatement {
	st := &assignStatement{newBaseStatement(sctx, 1, 1, value)}
	st.self = st
	return st
}

/*
Execute executes the statement.
*/
func (st *assignStatement) Execute(dc *DynamicContext) (Control, error) {
	if _, ok := dc.Lookup(st.sctx.Var); !ok {
		return normal, newRuntimeError(ErrUndeclaredVariable, "$"+st.sctx.Var.String(), st.sctx.Meta)
	}

	seq, err := Materialize(st.children[0], dc)
	if err != nil {
		return normal, err
	}

	if seq == nil {
		seq = item.Sequence{}
	}

	return normal, dc.Assign(st.sctx.Var, seq)
}

// Loops
// =====

/*
whileStatement executes its body as long as its condition holds. Break and
continue signals raised by the body are handled by the nearest loop; all
other signals are passed on.
*/
type whileStatement struct {
	baseStatement
}

func newWhileStatement(sctx *StaticContext, condition RuntimeIterator, body RuntimeIterator) *whileStatement {
	st := &whileStatement{newBaseStatement(sctx, 2, 2, condition, body)}
	st.self = st
	return st
}

/*
Execute executes the statement.
*/
func (st *whileStatement) Execute(dc *DynamicContext) (Control, error) {
	var passes int

	for {
		ok, err := effectiveBooleanValue(st.children[0], dc)
		if err != nil || !ok {
			return normal, err
		}

		passes++

		ctrl, err := execute(st.children[1], dc)
		if err != nil {
			return ctrl, err
		}

		switch ctrl.Kind {
		case ControlBreak:
			dc.Evaluation().Logger.Debug(fmt.Sprintf("%v: loop at %v left after %v",
				dc.Evaluation().Name, st.sctx.Meta, passes))
			return normal, nil
		case ControlExit:
			return ctrl, nil
		}
	}
}

/*
breakStatement leaves the nearest enclosing loop.
*/
type breakStatement struct {
	baseStatement
}

func newBreakStatement(sctx *StaticContext) *breakStatement {
	st := &breakStatement{newBaseStatement(sctx, 0, 0)}
	st.self = st
	return st
}

/*
Execute executes the statement.
*/
func (st *breakStatement) Execute(dc *DynamicContext) (Control, error) {
	return Control{Kind: ControlBreak, Origin: st.sctx.Meta}, nil
}

/*
continueStatement starts the next pass of the nearest enclosing loop.
*/
type continueStatement struct {
	baseStatement
}

func newContinueStatement(sctx *StaticContext) *continueStatement {
	st := &continueStatement{newBaseStatement(sctx, 0, 0)}
	st.self = st
	return st
}

/*
Execute executes the statement.
*/
func (st *continueStatement) Execute(dc *DynamicContext) (Control, error) {
	return Control{Kind: ControlContinue, Origin: st.sctx.Meta}, nil
}

/*
exitStatement ends the program with a result.
*/
type exitStatement struct {
	baseStatement
}

func newExitStatement(sctx *StaticContext, value RuntimeIterator) *exitStatement {
	st := &exitStatement{newBaseStatement(sctx, 1, 1, value)}
	st.self = st
	return st
}

/*
Execute executes the statement.
*/
func (st *exitStatement) Execute(dc *DynamicContext) (Control, error) {
	seq, err := Materialize(st.children[0], dc)
	if err != nil {
		return normal, err
	}

	return Control{Kind: ControlExit, Origin: st.sctx.Meta, Result: seq}, nil
}

// Other statements
// ================

/*
exprStatement evaluates an expression for its effects.
*/
type exprStatement struct {
	baseStatement
}

func newExprStatement(sctx *StaticContext, expr RuntimeIterator) *exprStatement {
	st := &exprStatement{newBaseStatement(sctx, 1, 1, expr)}
	st.self = st
	return st
}

/*
Execute executes the statement.
*/
func (st *exprStatement) Execute(dc *DynamicContext) (Control, error) {
	_, err := Materialize(st.children[0], dc)
	return normal, err
}

/*
ifStatement executes one of two statements. The else branch is optional.
*/
type ifStatement struct {
	baseStatement
}

func newIfStatement(sctx *StaticContext, condition RuntimeIterator, then RuntimeIterator,
	els RuntimeIterator) *ifStatement {
	var st *ifStatement

	if els == nil {
		st = &ifStatement{newBaseStatement(sctx, 2, 2, condition, then)}
	} else {
		st = &ifStatement{newBaseStatement(sctx, 3, 3, condition, then, els)}
	}

	st.self = st

	return st
}

/*
Execute executes the statement.
*/
func (st *ifStatement) Execute(dc *DynamicContext) (Control, error) {
	ok, err := effectiveBooleanValue(st.children[0], dc)
	if err != nil {
		return normal, err
	}

	if ok {
		return execute(st.children[1], dc)
	} else if len(st.children) == 3 {
		return execute(st.children[2], dc)
	}

	return normal, nil
}
