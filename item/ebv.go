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
	"fmt"
	"math"
	"strconv"
	"strings"
)

/*
EffectiveBooleanValue computes the effective boolean value of a sequence.
*/
func EffectiveBooleanValue(seq Sequence) (bool, error) {
	if len(seq) == 0 {
		return false, nil
	}

	first := seq[0]

	if first.IsNode() {
		return true, nil
	} else if len(seq) > 1 {
		return false, &Error{ErrInvalidEBV, fmt.Sprintf("sequence of %v atomic items", len(seq))}
	}

	switch first.Kind() {
	case KindNull:
		return false, nil
	case KindBoolean:
		return first.Bool(), nil
	case KindString:
		return first.StringValue() != "", nil
	case KindInteger:
		return first.Int() != 0, nil
	case KindDecimal:
		f := first.Float()
		return f != 0 && !math.IsNaN(f), nil
	}

	return false, &Error{ErrInvalidEBV, first.TypeName()}
}

/*
Atomize returns the typed value of an item. Nodes are atomized to their
string value.
*/
func Atomize(it *Item) *Item {
	if it.IsNode() {
		return NewString(it.Node().StringValue())
	}
	return it
}

/*
Compare compares two atomic items. Returns a negative number, zero or a
positive number. The null item is smaller than any other value. Strings
taken from nodes are compared numerically against numbers.
*/
func Compare(a, b *Item) (int, error) {
	a, b = Atomize(a), Atomize(b)

	if a.IsNull() || b.IsNull() {
		switch {
		case a.IsNull() && b.IsNull():
			return 0, nil
		case a.IsNull():
			return -1, nil
		}
		return 1, nil
	}

	if a.IsNumeric() && b.Kind() == KindString {
		if f, err := strconv.ParseFloat(strings.TrimSpace(b.StringValue()), 64); err == nil {
			b = NewDecimal(f)
		}
	} else if b.IsNumeric() && a.Kind() == KindString {
		if f, err := strconv.ParseFloat(strings.TrimSpace(a.StringValue()), 64); err == nil {
			a = NewDecimal(f)
		}
	}

	if a.IsNumeric() && b.IsNumeric() {
		return compareFloat(a.Float(), b.Float()), nil
	}

	if a.Kind() != b.Kind() {
		return 0, &Error{ErrNotComparable, fmt.Sprintf("%v and %v", a.TypeName(), b.TypeName())}
	}

	switch a.Kind() {
	case KindBoolean:
		if a.Bool() == b.Bool() {
			return 0, nil
		} else if !a.Bool() {
			return -1, nil
		}
		return 1, nil

	case KindString:
		return strings.Compare(a.StringValue(), b.StringValue()), nil

	case KindDuration:
		da, db := a.Duration(), b.Duration()
		if da.months != db.months {
			return compareFloat(float64(da.months), float64(db.months)), nil
		}
		return compareFloat(da.seconds, db.seconds), nil

	case KindDate, KindDateTime:
		ta, tb := a.Time(), b.Time()
		switch {
		case ta.Before(tb):
			return -1, nil
		case ta.After(tb):
			return 1, nil
		}
		return 0, nil
	}

	return 0, &Error{ErrNotComparable, a.TypeName()}
}

/*
compareFloat compares two float values.
*/
func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
