/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package ast

import (
	"testing"

	"devt.de/krotik/jsoniqdb/item"
)

func TestPrettyPrintExpressions(t *testing.T) {
	x := &VarRef{Name: item.LocalName("x")}
	one := &Literal{Value: item.NewInteger(1)}

	for _, test := range []struct {
		node Node
		res  string
	}{
		{&Literal{Value: item.NewString("a")}, `"a"`},
		{&Literal{Value: item.NewDecimal(2)}, "2.0"},
		{&Literal{Value: item.NewDecimal(2.5)}, "2.5"},
		{&ContextItemExpr{}, "$$"},
		{&SequenceExpr{}, "()"},
		{&SequenceExpr{Items: []Node{one, x}}, "(1, $x)"},
		{&RangeExpr{From: one, To: x}, "(1 to $x)"},
		{&ArithmeticExpr{Op: OpIntegerDivide, Left: x, Right: &UnaryExpr{Operand: one}}, "($x idiv -1)"},
		{&ComparisonExpr{Op: OpGeneralLe, Left: x, Right: one}, "($x <= 1)"},
		{&LogicalExpr{Op: OpAnd, Left: x, Right: &LogicalExpr{Op: OpOr, Left: one, Right: x}}, "($x and (1 or $x))"},
		{&ConditionalExpr{Condition: x, Then: one, Else: &SequenceExpr{}}, "if ($x) then 1 else ()"},
		{&StringConcatExpr{Operands: []Node{x, one}}, "($x || 1)"},
		{&FilterExpr{Primary: x, Predicates: []Node{one, x}}, "$x[1][$x]"},
		{&FunctionCall{Name: "fn:count", Args: []Node{x}}, "fn:count($x)"},
		{&PathExpr{Root: true}, "/"},
		{&PathExpr{Root: true, Steps: []*StepExpr{
			{Axis: AxisChild, Test: NodeTest{Kind: TestName, Name: "a"}},
			{Axis: AxisAttribute, Test: NodeTest{Kind: TestName, Name: "*"}, Predicates: []Node{one}},
		}}, "/child::a/attribute::*[1]"},
		{&PathExpr{Start: x, Steps: []*StepExpr{{Axis: AxisAncestorOrSelf, Test: NodeTest{Kind: TestText}}}},
			"$x/ancestor-or-self::text()"},
		{&PathExpr{Steps: []*StepExpr{{Axis: AxisParent, Test: NodeTest{Kind: TestAnyNode}}}}, "parent::node()"},
	} {
		res, err := PrettyPrint(test.node)

		if err != nil || res != test.res {
			t.Error("Unexpected result:", res, err, "expected:", test.res)
			return
		}
	}
}

func TestPrettyPrintFLWOR(t *testing.T) {
	x := &VarRef{Name: item.LocalName("x")}
	i := item.LocalName("i")

	res, err := PrettyPrint(&FLWORExpr{
		Clauses: []Node{
			&ForClause{Var: item.LocalName("x"), PosVar: &i, In: &VarRef{Name: item.LocalName("input")}},
			&LetClause{Var: item.LocalName("y"), Value: x},
			&WhereClause{Condition: &ComparisonExpr{Op: OpValueGt, Left: x, Right: &Literal{Value: item.NewInteger(1)}}},
			&OrderByClause{Specs: []OrderSpec{{Expr: x, Descending: true}, {Expr: &VarRef{Name: i}, EmptyGreatest: true}}},
			&CountClause{Var: item.LocalName("c")},
		},
		Return: x,
	})

	if expected := "for $x at $i in $input let $y := $x where ($x gt 1) " +
		"order by $x descending, $i empty greatest count $c return $x"; err != nil || res != expected {
		t.Error("Unexpected result:", res, err)
		return
	}
}

func TestPrettyPrintStatements(t *testing.T) {
	s := item.LocalName("s")

	res, err := PrettyPrint(&Program{
		Statements: []Node{
			&VarDeclStatement{Name: s, Init: &Literal{Value: item.NewInteger(0)}},
			&VarDeclStatement{Name: item.LocalName("t")},
			&WhileStatement{
				Condition: &Literal{Value: item.NewBoolean(true)},
				Body: &BlockStatement{Statements: []Node{
					&AssignStatement{Name: s, Value: &ArithmeticExpr{Op: OpAdd,
						Left: &VarRef{Name: s}, Right: &Literal{Value: item.NewInteger(1)}}},
					&IfStatement{
						Condition: &ComparisonExpr{Op: OpValueEq, Left: &VarRef{Name: s},
							Right: &Literal{Value: item.NewInteger(3)}},
						Then: &BreakStatement{},
						Else: &ContinueStatement{},
					},
				}},
			},
			&ExprStatement{Expr: &VarRef{Name: s}},
			&ExitStatement{Value: &VarRef{Name: s}},
		},
		Result: &SequenceExpr{},
	})

	expected := `variable $s := 0;
variable $t;
while (true) {
  $s := ($s + 1);
  if (($s eq 3)) then break loop; else continue loop;
}
$s;
exit returning $s;
()`

	if err != nil || res != expected {
		t.Error("Unexpected result:", res, err)
		return
	}

	res, err = PrettyPrint(&Program{Statements: []Node{&BlockStatement{}}})

	if err != nil || res != "{\n}\n" {
		t.Error("Unexpected result:", res, err)
		return
	}
}
