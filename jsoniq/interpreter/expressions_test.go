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
	"math"
	"strings"
	"testing"

	"devt.de/krotik/jsoniqdb/item"
	"devt.de/krotik/jsoniqdb/jsoniq/ast"
)

func decLit(f float64) ast.Node {
	return &ast.Literal{Value: item.NewDecimal(f)}
}

func forC(name string, in ast.Node) ast.Node {
	return &ast.ForClause{Var: item.LocalName(name), In: in}
}

func letC(name string, value ast.Node) ast.Node {
	return &ast.LetClause{Var: item.LocalName(name), Value: value}
}

func flwor(ret ast.Node, clauses ...ast.Node) ast.Node {
	return &ast.FLWORExpr{Clauses: clauses, Return: ret}
}

func rangeExpr(from int64, to int64) ast.Node {
	return &ast.RangeExpr{From: intLit(from), To: intLit(to)}
}

func TestArithmetic(t *testing.T) {

	for _, test := range []struct {
		expr ast.Node
		res  string
	}{
		{arith(ast.OpAdd, intLit(1), intLit(2)), "[3]"},
		{arith(ast.OpSubtract, intLit(1), intLit(2)), "[-1]"},
		{arith(ast.OpMultiply, intLit(3), intLit(4)), "[12]"},
		{arith(ast.OpDivide, intLit(8), intLit(4)), "[2]"},
		{arith(ast.OpDivide, intLit(1), intLit(4)), "[0.25]"},
		{arith(ast.OpIntegerDivide, intLit(7), intLit(2)), "[3]"},
		{arith(ast.OpModulo, intLit(7), intLit(2)), "[1]"},
		{arith(ast.OpAdd, intLit(1), decLit(0.5)), "[1.5]"},
		{arith(ast.OpIntegerDivide, decLit(7.5), intLit(2)), "[3]"},
		{arith(ast.OpModulo, decLit(7.5), intLit(2)), "[1.5]"},
		{arith(ast.OpAdd, seq(), intLit(2)), "[]"},
		{arith(ast.OpAdd, intLit(2), seq()), "[]"},
		{&ast.UnaryExpr{Operand: intLit(2)}, "[-2]"},
		{&ast.UnaryExpr{Operand: decLit(2.5)}, "[-2.5]"},
		{&ast.UnaryExpr{Operand: seq()}, "[]"},
	} {
		res, err := eval(test.expr, nil)

		if err != nil || res.String() != test.res {
			t.Error("Unexpected result:", res, err, "expected:", test.res)
			return
		}
	}

	// Untyped node values are used as numbers

	nodes := testDocument()
	nodes["foo"].Parent().AppendChild(item.NewElementNode(item.LocalName("n"))).
		AppendChild(item.NewTextNode(" 4 "))
	nodes["doc"].Renumber()

	res, err := eval(arith(ast.OpMultiply,
		path(step(ast.AxisDescendant, nameTest("n"))), intLit(2)), item.NewNode(nodes["doc"]))

	if err != nil || res.String() != "[8]" {
		t.Error("Unexpected result:", res, err)
		return
	}

	_, err = eval(arith(ast.OpMultiply,
		path(step(ast.AxisDescendant, nameTest("b"))), intLit(2)), item.NewNode(nodes["doc"]))

	if err == nil || err.Error() != `JSONiq error in test: Unexpected type (value "foo 4 " is not a number)` {
		t.Error("Unexpected result:", err)
		return
	}

	for _, test := range []struct {
		expr ast.Node
		err  string
	}{
		{&ast.ArithmeticExpr{Metadata: at(1, 3), Op: ast.OpDivide, Left: intLit(1), Right: intLit(0)},
			"JSONiq error in test: Division by zero (1 div 0) (Line:1 Pos:3)"},
		{arith(ast.OpModulo, intLit(1), intLit(0)), "JSONiq error in test: Division by zero (1 mod 0)"},
		{arith(ast.OpDivide, decLit(1.5), decLit(0)), "JSONiq error in test: Division by zero (1.5 div 0)"},
		{arith(ast.OpAdd, strLit("a"), intLit(1)), "JSONiq error in test: Unexpected type (expected a number not xs:string)"},
		{arith(ast.OpAdd, seq(intLit(1), intLit(2)), intLit(1)), "JSONiq error in test: Sequence has more than one item ([1 2])"},
	} {
		_, err := eval(test.expr, nil)

		if err == nil || err.Error() != test.err {
			t.Error("Unexpected result:", err, "expected:", test.err)
			return
		}
	}
}

func TestComparisons(t *testing.T) {

	for _, test := range []struct {
		expr ast.Node
		res  string
	}{
		{cmp(ast.OpValueEq, intLit(1), intLit(1)), "[true]"},
		{cmp(ast.OpValueEq, intLit(1), decLit(1)), "[true]"},
		{cmp(ast.OpValueNe, intLit(1), intLit(1)), "[false]"},
		{cmp(ast.OpValueLt, strLit("a"), strLit("b")), "[true]"},
		{cmp(ast.OpValueLe, intLit(2), intLit(2)), "[true]"},
		{cmp(ast.OpValueGt, intLit(2), intLit(3)), "[false]"},
		{cmp(ast.OpValueGe, intLit(3), intLit(3)), "[true]"},
		{cmp(ast.OpValueEq, seq(), intLit(1)), "[]"},
		{cmp(ast.OpValueLt, &ast.Literal{Value: item.Null()}, intLit(1)), "[true]"},
		{cmp(ast.OpGeneralEq, seq(intLit(1), intLit(2)), seq(intLit(2), intLit(3))), "[true]"},
		{cmp(ast.OpGeneralEq, seq(intLit(1), intLit(2)), seq(intLit(3), intLit(4))), "[false]"},
		{cmp(ast.OpGeneralNe, seq(intLit(1), intLit(1)), intLit(1)), "[false]"},
		{cmp(ast.OpGeneralLt, seq(intLit(5), intLit(1)), intLit(2)), "[true]"},
		{cmp(ast.OpGeneralLe, seq(), intLit(2)), "[false]"},
		{cmp(ast.OpGeneralGt, rangeExpr(1, 3), intLit(2)), "[true]"},
		{cmp(ast.OpGeneralGe, intLit(1), rangeExpr(2, 3)), "[false]"},
	} {
		res, err := eval(test.expr, nil)

		if err != nil || res.String() != test.res {
			t.Error("Unexpected result:", res, err, "expected:", test.res)
			return
		}
	}

	_, err := eval(cmp(ast.OpValueEq, strLit("a"), intLit(1)), nil)

	if err == nil || err.Error() != "JSONiq error in test: Values are not comparable (xs:string and xs:integer)" {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err = eval(cmp(ast.OpValueEq, rangeExpr(1, 2), intLit(1)), nil); !errors.Is(err, ErrCardinality) {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestLogicalAndConditional(t *testing.T) {

	failing := varRef("undeclared")

	for _, test := range []struct {
		expr ast.Node
		res  string
	}{
		{&ast.LogicalExpr{Op: ast.OpAnd, Left: boolLit(true), Right: intLit(1)}, "[true]"},
		{&ast.LogicalExpr{Op: ast.OpAnd, Left: boolLit(false), Right: failing}, "[false]"},
		{&ast.LogicalExpr{Op: ast.OpOr, Left: strLit("x"), Right: failing}, "[true]"},
		{&ast.LogicalExpr{Op: ast.OpOr, Left: seq(), Right: strLit("")}, "[false]"},
		{&ast.ConditionalExpr{Condition: boolLit(true), Then: intLit(1), Else: failing}, "[1]"},
		{&ast.ConditionalExpr{Condition: seq(), Then: failing, Else: rangeExpr(1, 3)}, "[1 2 3]"},
		{&ast.StringConcatExpr{Operands: []ast.Node{strLit("a"), intLit(1), seq(), strLit("b")}}, `["a1b"]`},
	} {
		res, err := eval(test.expr, nil)

		if err != nil || res.String() != test.res {
			t.Error("Unexpected result:", res, err, "expected:", test.res)
			return
		}
	}

	_, err := eval(&ast.LogicalExpr{Op: ast.OpAnd, Left: boolLit(true), Right: failing}, nil)

	if !errors.Is(err, ErrUndeclaredVariable) {
		t.Error("Unexpected result:", err)
		return
	}

	_, err = eval(&ast.ConditionalExpr{Condition: rangeExpr(1, 2), Then: intLit(1), Else: intLit(2)}, nil)

	if !errors.Is(err, item.ErrInvalidEBV) {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestIntegerOverflow(t *testing.T) {
	maxInt, minInt := intLit(math.MaxInt64), intLit(math.MinInt64)

	for _, test := range []ast.Node{
		arith(ast.OpAdd, maxInt, intLit(1)),
		arith(ast.OpAdd, minInt, intLit(-1)),
		arith(ast.OpSubtract, minInt, intLit(1)),
		arith(ast.OpSubtract, intLit(0), minInt),
		arith(ast.OpMultiply, maxInt, intLit(2)),
		arith(ast.OpMultiply, minInt, intLit(-1)),
		arith(ast.OpMultiply, intLit(-1), minInt),
		arith(ast.OpIntegerDivide, minInt, intLit(-1)),
		&ast.UnaryExpr{Operand: minInt},
		call("sum", seq(maxInt, intLit(1))),
	} {
		if _, err := eval(test, nil); !errors.Is(err, ErrArithmeticOverflow) {
			t.Error("Unexpected result:", err)
			return
		}
	}

	// Results at the bounds are still integers

	for _, test := range []struct {
		expr ast.Node
		res  string
	}{
		{arith(ast.OpAdd, intLit(math.MaxInt64-1), intLit(1)), "[9223372036854775807]"},
		{arith(ast.OpSubtract, intLit(math.MinInt64+1), intLit(1)), "[-9223372036854775808]"},
		{arith(ast.OpSubtract, intLit(-1), maxInt), "[-9223372036854775808]"},
		{arith(ast.OpMultiply, intLit(-1), maxInt), "[-9223372036854775807]"},
		{arith(ast.OpMultiply, minInt, intLit(1)), "[-9223372036854775808]"},
		{arith(ast.OpMultiply, minInt, intLit(0)), "[0]"},
		{call("sum", seq(maxInt, intLit(-1), intLit(1))), "[9223372036854775807]"},
	} {
		res, err := eval(test.expr, nil)

		if err != nil || res.String() != test.res {
			t.Error("Unexpected result:", res, err, "expected:", test.res)
			return
		}
	}

	_, err := eval(arith(ast.OpAdd, maxInt, intLit(1)), nil)

	if err == nil || !strings.HasPrefix(err.Error(), "JSONiq error in test: Integer overflow (9223372036854775807 ") {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestSequencesAndRanges(t *testing.T) {

	for _, test := range []struct {
		expr ast.Node
		res  string
	}{
		{seq(intLit(1), seq(intLit(2), intLit(3)), seq(), strLit("a")), `[1 2 3 "a"]`},
		{rangeExpr(1, 5), "[1 2 3 4 5]"},
		{rangeExpr(3, 3), "[3]"},
		{rangeExpr(5, 1), "[]"},
		{rangeExpr(math.MaxInt64-1, math.MaxInt64), "[9223372036854775806 9223372036854775807]"},
		{rangeExpr(math.MinInt64, math.MinInt64+1), "[-9223372036854775808 -9223372036854775807]"},
		{call("count", rangeExpr(math.MaxInt64-2, math.MaxInt64)), "[3]"},
		{&ast.RangeExpr{From: seq(), To: intLit(3)}, "[]"},
		{&ast.ContextItemExpr{}, "[42]"},
	} {
		res, err := eval(test.expr, item.NewInteger(42))

		if err != nil || res.String() != test.res {
			t.Error("Unexpected result:", res, err, "expected:", test.res)
			return
		}
	}

	_, err := eval(&ast.RangeExpr{From: intLit(1), To: strLit("3")}, nil)

	if err == nil || err.Error() != "JSONiq error in test: Unexpected type (range bound must be an integer not xs:string)" {
		t.Error("Unexpected result:", err)
		return
	}

	_, err = eval(&ast.ContextItemExpr{Metadata: at(1, 1)}, nil)

	if err == nil || err.Error() != "JSONiq error in test: Context item is absent ($$) (Line:1 Pos:1)" {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestFilter(t *testing.T) {

	filter := func(primary ast.Node, predicates ...ast.Node) ast.Node {
		return &ast.FilterExpr{Primary: primary, Predicates: predicates}
	}

	ctx := &ast.ContextItemExpr{}

	for _, test := range []struct {
		expr ast.Node
		res  string
	}{
		{filter(rangeExpr(1, 10), intLit(3)), "[3]"},
		{filter(rangeExpr(1, 10), intLit(11)), "[]"},
		{filter(rangeExpr(1, 10), cmp(ast.OpValueGt, ctx, intLit(7))), "[8 9 10]"},
		{filter(rangeExpr(1, 10), cmp(ast.OpValueEq,
			arith(ast.OpModulo, ctx, intLit(2)), intLit(0)), intLit(2)), "[4]"},
		{filter(rangeExpr(1, 5), call("last")), "[5]"},
		{filter(rangeExpr(1, 5), call("position")), "[1 2 3 4 5]"},
		{filter(seq(strLit("a"), strLit(""), strLit("b")), ctx), `["a" "b"]`},
	} {
		res, err := eval(test.expr, nil)

		if err != nil || res.String() != test.res {
			t.Error("Unexpected result:", res, err, "expected:", test.res)
			return
		}
	}

	_, err := eval(filter(rangeExpr(1, 3), seq(strLit("a"), strLit("b"))), nil)

	if !errors.Is(err, item.ErrInvalidEBV) {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestFLWOR(t *testing.T) {

	x := varRef("x")

	for _, test := range []struct {
		expr ast.Node
		res  string
	}{
		{flwor(arith(ast.OpMultiply, x, intLit(2)), forC("x", rangeExpr(1, 3))), "[2 4 6]"},
		{flwor(x, forC("x", seq())), "[]"},
		{flwor(seq(x, varRef("y")),
			forC("x", rangeExpr(1, 2)),
			forC("y", seq(strLit("a"), strLit("b")))), `[1 "a" 1 "b" 2 "a" 2 "b"]`},
		{flwor(call("count", x), letC("x", rangeExpr(1, 4))), "[4]"},
		{flwor(seq(x, varRef("i")),
			&ast.ForClause{Var: item.LocalName("x"), PosVar: &item.Name{Local: "i"},
				In: seq(strLit("a"), strLit("b"))}), `["a" 1 "b" 2]`},
		{flwor(x,
			forC("x", rangeExpr(1, 10)),
			&ast.WhereClause{Condition: cmp(ast.OpValueEq, arith(ast.OpModulo, x, intLit(3)), intLit(0))}),
			"[3 6 9]"},
		{flwor(seq(x, varRef("c")),
			forC("x", seq(strLit("a"), strLit("b"))),
			&ast.CountClause{Var: item.LocalName("c")}), `["a" 1 "b" 2]`},
		{flwor(x,
			forC("x", seq(intLit(3), intLit(1), intLit(2))),
			&ast.OrderByClause{Specs: []ast.OrderSpec{{Expr: x}}}), "[1 2 3]"},
		{flwor(x,
			forC("x", seq(intLit(3), intLit(1), intLit(2))),
			&ast.OrderByClause{Specs: []ast.OrderSpec{{Expr: x, Descending: true}}}), "[3 2 1]"},
		{flwor(x,
			letC("x", intLit(1)),
			letC("x", arith(ast.OpAdd, x, intLit(1)))), "[2]"},
	} {
		res, err := eval(test.expr, nil)

		if err != nil || res.String() != test.res {
			t.Error("Unexpected result:", res, err, "expected:", test.res)
			return
		}
	}

	// Order by with empty keys and a secondary key

	key := call("string-length", varRef("s"))

	res, err := eval(flwor(varRef("s"),
		forC("s", seq(strLit("bb"), strLit("a"), strLit("ccc"), strLit("dd"))),
		letC("k", &ast.ConditionalExpr{
			Condition: cmp(ast.OpValueEq, key, intLit(1)), Then: seq(), Else: key}),
		&ast.OrderByClause{Specs: []ast.OrderSpec{
			{Expr: varRef("k"), Descending: true},
			{Expr: varRef("s"), Descending: true},
		}}), nil)

	if err != nil || res.String() != `["ccc" "dd" "bb" "a"]` {
		t.Error("Unexpected result:", res, err)
		return
	}

	res, err = eval(flwor(varRef("s"),
		forC("s", seq(strLit("bb"), strLit("a"), strLit("ccc"))),
		letC("k", &ast.ConditionalExpr{
			Condition: cmp(ast.OpValueEq, key, intLit(1)), Then: seq(), Else: key}),
		&ast.OrderByClause{Specs: []ast.OrderSpec{
			{Expr: varRef("k"), EmptyGreatest: true},
		}}), nil)

	if err != nil || res.String() != `["bb" "ccc" "a"]` {
		t.Error("Unexpected result:", res, err)
		return
	}

	// Errors

	_, err = eval(flwor(x,
		forC("x", seq(intLit(1), strLit("a"))),
		&ast.OrderByClause{Specs: []ast.OrderSpec{{Expr: x}}}), nil)

	if !errors.Is(err, item.ErrNotComparable) {
		t.Error("Unexpected result:", err)
		return
	}

	_, err = eval(flwor(x, &ast.WhereClause{Condition: boolLit(true)}), nil)

	if err == nil || err.Error() != "JSONiq error in test: Invalid construct (FLWOR expression must start with a for or let clause)" {
		t.Error("Unexpected result:", err)
		return
	}

	_, err = eval(flwor(varRef("y"), forC("x", rangeExpr(1, 3))), nil)

	if !errors.Is(err, ErrUndeclaredVariable) {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestFLWORStreaming(t *testing.T) {

	it, err := compile(flwor(arith(ast.OpMultiply, varRef("x"), intLit(2)),
		forC("x", rangeExpr(1, 1000000000))))
	if err != nil {
		t.Error(err)
		return
	}

	dc := newTestContext()

	c, err := it.Open(dc)
	if err != nil {
		t.Error(err)
		return
	}

	var res item.Sequence

	for i := 0; i < 3 && c.HasNext(); i++ {
		v, err := c.Next()
		if err != nil {
			t.Error(err)
			return
		}
		res = append(res, v)
	}

	if res.String() != "[2 4 6]" {
		t.Error("Unexpected result:", res)
		return
	}

	if err := c.Close(); err != nil {
		t.Error(err)
		return
	}

	if dc.Evaluation().OpenCursors() != 0 {
		t.Error("Unexpected number of open cursors:", dc.Evaluation().OpenCursors())
		return
	}
}
