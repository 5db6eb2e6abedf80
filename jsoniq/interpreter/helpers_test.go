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
	"devt.de/krotik/jsoniqdb/jsoniq/ast"
)

// Syntax tree helpers
// ===================

func at(line int, pos int) ast.Metadata {
	return ast.At("", line, pos)
}

func intLit(i int64) ast.Node {
	return &ast.Literal{Value: item.NewInteger(i)}
}

func strLit(s string) ast.Node {
	return &ast.Literal{Value: item.NewString(s)}
}

func boolLit(b bool) ast.Node {
	return &ast.Literal{Value: item.NewBoolean(b)}
}

func varRef(name string) ast.Node {
	return &ast.VarRef{Name: item.LocalName(name)}
}

func seq(items ...ast.Node) ast.Node {
	return &ast.SequenceExpr{Items: items}
}

func call(name string, args ...ast.Node) ast.Node {
	return &ast.FunctionCall{Name: name, Args: args}
}

func arith(op ast.ArithmeticOp, left ast.Node, right ast.Node) ast.Node {
	return &ast.ArithmeticExpr{Op: op, Left: left, Right: right}
}

func cmp(op ast.ComparisonOp, left ast.Node, right ast.Node) ast.Node {
	return &ast.ComparisonExpr{Op: op, Left: left, Right: right}
}

func step(axis ast.Axis, test ast.NodeTest, predicates ...ast.Node) *ast.StepExpr {
	return &ast.StepExpr{Axis: axis, Test: test, Predicates: predicates}
}

func nameTest(name string) ast.NodeTest {
	return ast.NodeTest{Kind: ast.TestName, Name: name}
}

var anyNode = ast.NodeTest{Kind: ast.TestAnyNode}

func path(steps ...*ast.StepExpr) ast.Node {
	return &ast.PathExpr{Steps: steps}
}

func block(statements ...ast.Node) ast.Node {
	return &ast.BlockStatement{Statements: statements}
}

func declare(name string, init ast.Node) ast.Node {
	return &ast.VarDeclStatement{Name: item.LocalName(name), Init: init}
}

func assign(name string, value ast.Node) ast.Node {
	return &ast.AssignStatement{Name: item.LocalName(name), Value: value}
}

func while(cond ast.Node, body ast.Node) ast.Node {
	return &ast.WhileStatement{Condition: cond, Body: body}
}

func program(result ast.Node, statements ...ast.Node) *ast.Program {
	return &ast.Program{Statements: statements, Result: result}
}

// Evaluation helpers
// ==================

/*
compile compiles a syntax tree.
*/
func compile(root ast.Node) (RuntimeIterator, error) {
	return NewCompiler("test").Compile(root)
}

/*
newTestContext creates a new dynamic context with a fresh evaluation.
*/
func newTestContext() *DynamicContext {
	return NewDynamicContext(NewEvaluation("test", item.NewFactory(100, 0)))
}

/*
eval compiles and evaluates a syntax tree with an optional context item.
*/
func eval(root ast.Node, ctxItem *item.Item) (item.Sequence, error) {
	it, err := compile(root)
	if err != nil {
		return nil, err
	}

	dc := newTestContext()

	if ctxItem != nil {
		dc = dc.WithContextItem(ctxItem, 1, 1)
	}

	res, err := Materialize(it, dc)

	if dc.Evaluation().OpenCursors() != 0 {
		panic("Cursors were not closed")
	}

	return res, err
}

/*
testDocument creates the following tree:

	document
	  a (id="1")
	    b
	      "foo"
	    c
	      d
	        "bar"
	      e
	    f
*/
func testDocument() map[string]*item.Node {
	doc := item.NewDocumentNode()
	a := doc.AppendChild(item.NewElementNode(item.LocalName("a")))
	id := a.AddAttribute(item.NewAttributeNode(item.LocalName("id"), "1"))
	b := a.AppendChild(item.NewElementNode(item.LocalName("b")))
	foo := b.AppendChild(item.NewTextNode("foo"))
	c := a.AppendChild(item.NewElementNode(item.LocalName("c")))
	d := c.AppendChild(item.NewElementNode(item.LocalName("d")))
	bar := d.AppendChild(item.NewTextNode("bar"))
	e := c.AppendChild(item.NewElementNode(item.LocalName("e")))
	f := a.AppendChild(item.NewElementNode(item.LocalName("f")))

	doc.Renumber()

	return map[string]*item.Node{"doc": doc, "a": a, "id": id, "b": b, "foo": foo,
		"c": c, "d": d, "bar": bar, "e": e, "f": f}
}
