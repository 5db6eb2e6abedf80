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
	"errors"
	"fmt"

	"devt.de/krotik/jsoniqdb/item"
	"devt.de/krotik/jsoniqdb/jsoniq/ast"
)

/*
newRuntimeError creates a new RuntimeError object.
*/
func newRuntimeError(t error, d string, meta ast.Metadata) error {
	return &RuntimeError{meta.Source, t, d, meta.Line, meta.Pos}
}

/*
wrapItemError attaches a location to errors of the item model. Other errors
are returned unchanged.
*/
func wrapItemError(err error, meta ast.Metadata) error {
	var ie *item.Error

	if errors.As(err, &ie) {
		return newRuntimeError(ie.Type, ie.Detail, meta)
	}

	return err
}

/*
RuntimeError is a runtime related error
*/
type RuntimeError struct {
	Source string // Name of the source which was given to the parser
	Type   error  // Error type (to be used for equal checks)
	Detail string // Details of this error
	Line   int    // Line of the error
	Pos    int    // Position of the error
}

/*
Error returns a human-readable string representation of this error.
*/
func (re *RuntimeError) Error() string {
	ret := fmt.Sprintf("JSONiq error in %s: %v (%v)", re.Source, re.Type, re.Detail)

	if re.Line != 0 {
		return fmt.Sprintf("%s (Line:%d Pos:%d)", ret, re.Line, re.Pos)
	}

	return ret
}

/*
Unwrap returns the error type.
*/
func (re *RuntimeError) Unwrap() error {
	return re.Type
}

/*
Iterator protocol violations. These errors indicate a bug in the runtime
and not a problem of the evaluated program.
*/
var (
	ErrIteratorExhausted = errors.New("Pulled item from exhausted iterator")
	ErrIteratorClosed    = errors.New("Pulled item from closed iterator")
	ErrIteratorReopened  = errors.New("Iterator opened again before it was closed")
)

/*
Runtime related error types
*/
var (
	ErrInvalidConstruct    = errors.New("Invalid construct")
	ErrUnknownFunction     = errors.New("Unknown function")
	ErrUndeclaredVariable  = errors.New("Undeclared variable")
	ErrAbsentContextItem   = errors.New("Context item is absent")
	ErrNodeExpected        = errors.New("Context item is not a node")
	ErrUnexpectedType      = errors.New("Unexpected type")
	ErrCardinality         = errors.New("Sequence has more than one item")
	ErrDivisionByZero      = errors.New("Division by zero")
	ErrArithmeticOverflow  = errors.New("Integer overflow")
	ErrBreakOutsideLoop    = errors.New("Break outside of a loop")
	ErrContinueOutsideLoop = errors.New("Continue outside of a loop")
	ErrExitOutsideProgram  = errors.New("Exit outside of a program")
)

/*
IsProtocolViolation returns true if the given error is caused by a misuse of
the iterator protocol.
*/
func IsProtocolViolation(err error) bool {
	return errors.Is(err, ErrIteratorExhausted) || errors.Is(err, ErrIteratorClosed) ||
		errors.Is(err, ErrIteratorReopened)
}
