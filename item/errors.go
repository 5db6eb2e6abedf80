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
	"errors"
	"fmt"
)

/*
Error is an item related error
*/
type Error struct {
	Type   error  // Error type (to be used for equal checks)
	Detail string // Details of this error
}

/*
Error returns a human-readable string representation of this error.
*/
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("ItemError: %v (%v)", e.Type, e.Detail)
	}

	return fmt.Sprintf("ItemError: %v", e.Type)
}

/*
Unwrap returns the error type.
*/
func (e *Error) Unwrap() error {
	return e.Type
}

/*
Item related error types
*/
var (
	ErrInvalidLexicalForm = errors.New("Invalid lexical form")
	ErrInvalidEBV         = errors.New("Effective boolean value is not defined")
	ErrInvalidName        = errors.New("Invalid qualified name")
	ErrNotComparable      = errors.New("Values are not comparable")
)
