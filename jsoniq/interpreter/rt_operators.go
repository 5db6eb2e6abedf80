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
	"math"
	"strconv"
	"strings"

	"devt.de/krotik/jsoniqdb/item"
	"devt.de/krotik/jsoniqdb/jsoniq/ast"
)

/*
numericOperand evaluates an operand which must be empty or a single numeric
item. Untyped values taken from nodes are converted to decimals.
*/
func numericOperand(it RuntimeIterator, dc *DynamicContext, meta ast.Metadata) (*item.Item, error) {
	i, err := materializeAtMostOne(it, dc)
	if err != nil || i == nil {
		return nil, err
	}

	if i.IsNode() {
		f, err := strconv.ParseFloat(strings.TrimSpace(i.StringValue()), 64)
		if err != nil {
			return nil, newRuntimeError(ErrUnexpectedType,
				fmt.Sprintf("value %q is not a number", i.StringValue()), meta)
		}
		return dc.Factory().Decimal(f), nil
	}

	if !i.IsNumeric() {
		return nil, newRuntimeError(ErrUnexpectedType,
			"expected a number not "+i.TypeName(), meta)
	}

	return i, nil
}

// Arithmetic
// ==========

/*
integerArithmetic adds, subtracts or multiplies two integers. Returns false
if the result does not fit into an xs:integer.
*/
func integerArithmetic(op ast.ArithmeticOp, x int64, y int64) (int64, bool) {
	switch op {
	case ast.OpAdd:
		r := x + y
		return r, (x >= 0) != (y >= 0) || (r >= 0) == (x >= 0)
	case ast.OpSubtract:
		r := x - y
		return r, (x >= 0) == (y >= 0) || (r >= 0) == (x >= 0)
	}

	if x == 0 || y == 0 {
		return 0, true
	}

	r := x * y

	if (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
		return r, false
	}

	return r, r/y == x
}

/*
arithmeticIterator applies an arithmetic operator to two numeric operands.
*/
type arithmeticIterator struct {
	baseIterator
	op ast.ArithmeticOp
}

func newArithmeticIterator(sctx *StaticContext, op ast.ArithmeticOp, left RuntimeIterator,
	right RuntimeIterator) *arithmeticIterator {
	sctx.Cardinality = CardinalityAtMostOne
	return &arithmeticIterator{newBaseIterator(sctx, 2, 2, left, right), op}
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (rt *arithmeticIterator) Open(dc *DynamicContext) (Cursor, error) {
	return openAtMostOne(rt, dc)
}

/*
MaterializeFirstItemOrNull computes the result of the operation.
*/
func (rt *arithmeticIterator) MaterializeFirstItemOrNull(dc *DynamicContext) (*item.Item, error) {
	a, err := numericOperand(rt.children[0], dc, rt.sctx.Meta)
	if err != nil || a == nil {
		return nil, err
	}

	b, err := numericOperand(rt.children[1], dc, rt.sctx.Meta)
	if err != nil || b == nil {
		return nil, err
	}

	f := dc.Factory()

	if a.Kind() == item.KindInteger && b.Kind() == item.KindInteger {
		x, y := a.Int(), b.Int()

		switch rt.op {
		case ast.OpAdd, ast.OpSubtract, ast.OpMultiply:
			r, ok := integerArithmetic(rt.op, x, y)
			if !ok {
				return nil, newRuntimeError(ErrArithmeticOverflow,
					fmt.Sprintf("%v %v %v", x, rt.op, y), rt.sctx.Meta)
			}
			return f.Integer(r), nil
		}

		if y == 0 {
			return nil, newRuntimeError(ErrDivisionByZero,
				fmt.Sprintf("%v %v %v", x, rt.op, y), rt.sctx.Meta)
		}

		switch rt.op {
		case ast.OpDivide:
			if x%y == 0 && !(x == math.MinInt64 && y == -1) {
				return f.Integer(x / y), nil
			}
			return f.Decimal(float64(x) / float64(y)), nil
		case ast.OpIntegerDivide:
			if x == math.MinInt64 && y == -1 {
				return nil, newRuntimeError(ErrArithmeticOverflow,
					fmt.Sprintf("%v %v %v", x, rt.op, y), rt.sctx.Meta)
			}
			return f.Integer(x / y), nil
		}

		return f.Integer(x % y), nil
	}

	x, y := a.Float(), b.Float()

	switch rt.op {
	case ast.OpAdd:
		return f.Decimal(x + y), nil
	case ast.OpSubtract:
		return f.Decimal(x - y), nil
	case ast.OpMultiply:
		return f.Decimal(x * y), nil
	}

	if y == 0 {
		return nil, newRuntimeError(ErrDivisionByZero,
			fmt.Sprintf("%v %v %v", a.StringValue(), rt.op, b.StringValue()), rt.sctx.Meta)
	}

	switch rt.op {
	case ast.OpDivide:
		return f.Decimal(x / y), nil
	case ast.OpIntegerDivide:
		return f.Integer(int64(math.Trunc(x / y))), nil
	}

	return f.Decimal(math.Mod(x, y)), nil
}

/*
unaryMinusIterator negates a numeric operand.
*/
type unaryMinusIterator struct {
	baseIterator
}

func newUnaryMinusIterator(sctx *StaticContext, operand RuntimeIterator) *unaryMinusIterator {
	sctx.Cardinality = CardinalityAtMostOne
	return &unaryMinusIterator{newBaseIterator(sctx, 1, 1, operand)}
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (rt *unaryMinusIterator) Open(dc *DynamicContext) (Cursor, error) {
	return openAtMostOne(rt, dc)
}

/*
MaterializeFirstItemOrNull computes the negated operand.
*/
func (rt *unaryMinusIterator) MaterializeFirstItemOrNull(dc *DynamicContext) (*item.Item, error) {
	a, err := numericOperand(rt.children[0], dc, rt.sctx.Meta)
	if err != nil || a == nil {
		return nil, err
	}

	if a.Kind() == item.KindInteger {
		if a.Int() == math.MinInt64 {
			return nil, newRuntimeError(ErrArithmeticOverflow,
				fmt.Sprintf("-(%v)", a.Int()), rt.sctx.Meta)
		}
		return dc.Factory().Integer(-a.Int()), nil
	}

	return dc.Factory().Decimal(-a.Float()), nil
}

// Comparisons
// ===========

/*
comparisonIterator compares two operands.
*/
type comparisonIterator struct {
	baseIterator
	op ast.ComparisonOp
}

func newComparisonIterator(sctx *StaticContext, op ast.ComparisonOp, left RuntimeIterator,
	right RuntimeIterator) *comparisonIterator {
	sctx.Cardinality = CardinalityAtMostOne
	return &comparisonIterator{newBaseIterator(sctx, 2, 2, left, right), op}
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (rt *comparisonIterator) Open(dc *DynamicContext) (Cursor, error) {
	return openAtMostOne(rt, dc)
}

/*
MaterializeFirstItemOrNull computes the result of the comparison. Value
comparisons produce no item if one of the operands is empty. General
comparisons are true if any pair of operand items satisfies the comparison.
*/
func (rt *comparisonIterator) MaterializeFirstItemOrNull(dc *DynamicContext) (*item.Item, error) {

	if !rt.op.IsGeneral() {
		a, err := materializeAtMostOne(rt.children[0], dc)
		if err != nil || a == nil {
			return nil, err
		}

		b, err := materializeAtMostOne(rt.children[1], dc)
		if err != nil || b == nil {
			return nil, err
		}

		res, err := rt.compare(a, b)

		return dc.Factory().Boolean(res), err
	}

	left, err := Materialize(rt.children[0], dc)
	if err != nil {
		return nil, err
	}

	right, err := Materialize(rt.children[1], dc)
	if err != nil {
		return nil, err
	}

	for _, a := range left {
		for _, b := range right {
			res, err := rt.compare(a, b)
			if err != nil || res {
				return dc.Factory().Boolean(res), err
			}
		}
	}

	return dc.Factory().Boolean(false), nil
}

/*
compare applies the comparison operator to two items.
*/
func (rt *comparisonIterator) compare(a, b *item.Item) (bool, error) {
	c, err := item.Compare(a, b)
	if err != nil {
		return false, wrapItemError(err, rt.sctx.Meta)
	}

	switch rt.op {
	case ast.OpValueEq, ast.OpGeneralEq:
		return c == 0, nil
	case ast.OpValueNe, ast.OpGeneralNe:
		return c != 0, nil
	case ast.OpValueLt, ast.OpGeneralLt:
		return c < 0, nil
	case ast.OpValueLe, ast.OpGeneralLe:
		return c <= 0, nil
	case ast.OpValueGt, ast.OpGeneralGt:
		return c > 0, nil
	}

	return c >= 0, nil
}

// Logical operators
// =================

/*
logicalIterator combines the effective boolean values of its operands. The
right operand is only evaluated if required.
*/
type logicalIterator struct {
	baseIterator
	op ast.LogicalOp
}

func newLogicalIterator(sctx *StaticContext, op ast.LogicalOp, left RuntimeIterator,
	right RuntimeIterator) *logicalIterator {
	sctx.Cardinality = CardinalityAtMostOne
	return &logicalIterator{newBaseIterator(sctx, 2, 2, left, right), op}
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (rt *logicalIterator) Open(dc *DynamicContext) (Cursor, error) {
	return openAtMostOne(rt, dc)
}

/*
MaterializeFirstItemOrNull computes the result of the operation.
*/
func (rt *logicalIterator) MaterializeFirstItemOrNull(dc *DynamicContext) (*item.Item, error) {
	a, err := effectiveBooleanValue(rt.children[0], dc)
	if err != nil {
		return nil, err
	}

	if rt.op == ast.OpAnd && !a || rt.op == ast.OpOr && a {
		return dc.Factory().Boolean(a), nil
	}

	b, err := effectiveBooleanValue(rt.children[1], dc)

	return dc.Factory().Boolean(b), err
}

// Conditionals and strings
// ========================

/*
conditionalIterator produces the result of one of two branches.
*/
type conditionalIterator struct {
	baseIterator
}

func newConditionalIterator(sctx *StaticContext, cond RuntimeIterator, then RuntimeIterator,
	els RuntimeIterator) *conditionalIterator {
	return &conditionalIterator{newBaseIterator(sctx, 3, 3, cond, then, els)}
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (rt *conditionalIterator) Open(dc *DynamicContext) (Cursor, error) {
	var branch delegate

	cond, err := effectiveBooleanValue(rt.children[0], dc)
	if err != nil {
		return nil, err
	}

	chosen := rt.children[2]
	if cond {
		chosen = rt.children[1]
	}

	branch.open = func() (Cursor, error) {
		return chosen.Open(dc)
	}

	return openCursor(dc, rt.sctx, branch.fetch, branch.release)
}

/*
stringConcatIterator concatenates the string values of its operands. Empty
operands count as empty strings.
*/
type stringConcatIterator struct {
	baseIterator
}

func newStringConcatIterator(sctx *StaticContext, operands ...RuntimeIterator) *stringConcatIterator {
	sctx.Cardinality = CardinalityAtMostOne
	return &stringConcatIterator{newBaseIterator(sctx, 1, -1, operands...)}
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (rt *stringConcatIterator) Open(dc *DynamicContext) (Cursor, error) {
	return openAtMostOne(rt, dc)
}

/*
MaterializeFirstItemOrNull computes the concatenated string.
*/
func (rt *stringConcatIterator) MaterializeFirstItemOrNull(dc *DynamicContext) (*item.Item, error) {
	var buf strings.Builder

	for _, c := range rt.children {
		i, err := materializeAtMostOne(c, dc)
		if err != nil {
			return nil, err
		}

		if i != nil {
			buf.WriteString(i.StringValue())
		}
	}

	return dc.Factory().String(buf.String()), nil
}

// Filters
// =======

/*
filterIterator filters the result of a primary expression with predicates.
*/
type filterIterator struct {
	baseIterator
}

func newFilterIterator(sctx *StaticContext, primary RuntimeIterator, predicates ...RuntimeIterator) *filterIterator {
	return &filterIterator{newBaseIterator(sctx, 1, -1, append([]RuntimeIterator{primary}, predicates...)...)}
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (rt *filterIterator) Open(dc *DynamicContext) (Cursor, error) {
	return openCursor(dc, rt.sctx, lazyFetch(func() (item.Sequence, error) {
		seq, err := Materialize(rt.children[0], dc)
		if err != nil {
			return nil, err
		}

		return applyPredicates(rt.children[1:], seq, dc)
	}), nil)
}

/*
applyPredicates filters a sequence with a list of predicates. Each predicate
is evaluated with the filtered item as context item. A numeric predicate
value selects the item at this position, any other value is converted to its
effective boolean value.
*/
func applyPredicates(predicates []RuntimeIterator, seq item.Sequence, dc *DynamicContext) (item.Sequence, error) {

	for _, pred := range predicates {
		var res item.Sequence

		size := int64(len(seq))

		for i, it := range seq {
			pos := int64(i + 1)
			pdc := dc.WithContextItem(it, pos, size)

			val, err := Materialize(pred, pdc)
			if err != nil {
				return nil, err
			}

			keep := false

			if len(val) == 1 && val[0].IsNumeric() {
				keep = val[0].Float() == float64(pos)

			} else if keep, err = item.EffectiveBooleanValue(val); err != nil {
				return nil, wrapItemError(err, pred.StaticContext().Meta)
			}

			if keep {
				res = append(res, it)
			}
		}

		seq = res
	}

	return seq, nil
}
