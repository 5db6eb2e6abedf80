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
	"strings"

	"devt.de/krotik/common/stringutil"
	"devt.de/krotik/jsoniqdb/item"
	"devt.de/krotik/jsoniqdb/jsoniq/ast"
)

/*
DefaultNamespaces are the namespace prefixes which are always declared
*/
var DefaultNamespaces = map[string]string{
	"fn": FunctionNamespace,
	"xs": "http://www.w3.org/2001/XMLSchema",
	"jn": "http://jsoniq.org/functions",
}

/*
reservedPrefixes cannot be declared by a program
*/
var reservedPrefixes = []string{"xml", "xmlns"}

/*
Compiler translates a syntax tree into a tree of runtime iterators.
*/
type Compiler struct {
	name        string            // Name of the compiled source
	namespaces  map[string]string // Declared namespace prefixes
	loopDepth   int               // Number of enclosing loop statements
	sideEffects int               // Number of compiled constructs with effects
}

/*
NewCompiler creates a new compiler for a named source.
*/
func NewCompiler(name string) *Compiler {
	ns := make(map[string]string)

	for p, u := range DefaultNamespaces {
		ns[p] = u
	}

	return &Compiler{name, ns, 0, 0}
}

/*
Compile translates a syntax tree into a tree of runtime iterators.
*/
func (c *Compiler) Compile(root ast.Node) (RuntimeIterator, error) {
	if root == nil {
		return nil, newRuntimeError(ErrInvalidConstruct, "empty syntax tree", ast.Metadata{Source: c.name})
	}

	return c.expr(root)
}

/*
sctx creates a new static context for a syntax tree node.
*/
func (c *Compiler) sctx(name string, n ast.Node) *StaticContext {
	meta := n.Meta()

	if meta.Source == "" {
		meta.Source = c.name
	}

	return NewStaticContext(name, meta)
}

/*
compileError creates a new compile time error.
*/
func (c *Compiler) compileError(t error, d string, n ast.Node) error {
	meta := n.Meta()

	if meta.Source == "" {
		meta.Source = c.name
	}

	return newRuntimeError(t, d, meta)
}

/*
expr compiles a node in expression position. Loop statements cannot be left
from within an expression.
*/
func (c *Compiler) expr(n ast.Node) (RuntimeIterator, error) {
	if n == nil {
		return nil, nil
	}

	depth := c.loopDepth
	c.loopDepth = 0

	res, err := n.Accept(c)

	c.loopDepth = depth

	if err != nil {
		return nil, err
	}

	it, ok := res.(RuntimeIterator)
	if !ok {
		return nil, c.compileError(ErrInvalidConstruct, "not an expression", n)
	}

	return it, nil
}

/*
exprs compiles a list of nodes in expression position.
*/
func (c *Compiler) exprs(nodes []ast.Node) ([]RuntimeIterator, error) {
	var ret []RuntimeIterator

	for _, n := range nodes {
		it, err := c.expr(n)
		if err != nil {
			return nil, err
		}
		ret = append(ret, it)
	}

	return ret, nil
}

/*
statement compiles a node in statement position. Expressions are wrapped
into expression statements.
*/
func (c *Compiler) statement(n ast.Node) (RuntimeIterator, error) {
	if n == nil {
		return nil, nil
	}

	switch n.(type) {
	case *ast.Program, *ast.BlockStatement, *ast.VarDeclStatement, *ast.AssignStatement,
		*ast.WhileStatement, *ast.BreakStatement, *ast.ContinueStatement, *ast.ExitStatement,
		*ast.ExprStatement, *ast.IfStatement:

		res, err := n.Accept(c)
		if err != nil {
			return nil, err
		}
		return res.(RuntimeIterator), nil
	}

	expr, err := c.expr(n)
	if err != nil {
		return nil, err
	}

	return newExprStatement(c.sctx("expression statement", n), expr), nil
}

/*
statements compiles a list of nodes in statement position.
*/
func (c *Compiler) statements(nodes []ast.Node) ([]RuntimeIterator, error) {
	var ret []RuntimeIterator

	for _, n := range nodes {
		it, err := c.statement(n)
		if err != nil {
			return nil, err
		}
		ret = append(ret, it)
	}

	return ret, nil
}

// Expressions
// ===========

func (c *Compiler) VisitLiteral(n *ast.Literal) (interface{}, error) {
	if n.Value == nil {
		return nil, c.compileError(ErrInvalidConstruct, "literal without value", n)
	}
	return newLiteralIterator(c.sctx("literal", n), n.Value), nil
}

func (c *Compiler) VisitVarRef(n *ast.VarRef) (interface{}, error) {
	sctx := c.sctx("variable reference", n)
	sctx.Var = n.Name
	return newVarRefIterator(sctx), nil
}

func (c *Compiler) VisitContextItem(n *ast.ContextItemExpr) (interface{}, error) {
	return newContextItemIterator(c.sctx("context item", n)), nil
}

func (c *Compiler) VisitSequence(n *ast.SequenceExpr) (interface{}, error) {
	items, err := c.exprs(n.Items)
	if err != nil {
		return nil, err
	}
	return newSequenceIterator(c.sctx("sequence", n), items...), nil
}

func (c *Compiler) VisitRange(n *ast.RangeExpr) (interface{}, error) {
	from, to, err := c.binary(n, n.From, n.To)
	if err != nil {
		return nil, err
	}
	return newRangeIterator(c.sctx("range", n), from, to), nil
}

/*
binary compiles the two operands of a binary expression.
*/
func (c *Compiler) binary(n ast.Node, left ast.Node, right ast.Node) (RuntimeIterator, RuntimeIterator, error) {
	if left == nil || right == nil {
		return nil, nil, c.compileError(ErrInvalidConstruct, "missing operand", n)
	}

	ops, err := c.exprs([]ast.Node{left, right})
	if err != nil {
		return nil, nil, err
	}

	return ops[0], ops[1], nil
}

func (c *Compiler) VisitArithmetic(n *ast.ArithmeticExpr) (interface{}, error) {
	l, r, err := c.binary(n, n.Left, n.Right)
	if err != nil {
		return nil, err
	}
	return newArithmeticIterator(c.sctx("arithmetic "+n.Op.String(), n), n.Op, l, r), nil
}

func (c *Compiler) VisitUnary(n *ast.UnaryExpr) (interface{}, error) {
	op, err := c.expr(n.Operand)
	if err != nil {
		return nil, err
	} else if op == nil {
		return nil, c.compileError(ErrInvalidConstruct, "missing operand", n)
	}
	return newUnaryMinusIterator(c.sctx("unary minus", n), op), nil
}

func (c *Compiler) VisitComparison(n *ast.ComparisonExpr) (interface{}, error) {
	l, r, err := c.binary(n, n.Left, n.Right)
	if err != nil {
		return nil, err
	}
	return newComparisonIterator(c.sctx("comparison "+n.Op.String(), n), n.Op, l, r), nil
}

func (c *Compiler) VisitLogical(n *ast.LogicalExpr) (interface{}, error) {
	l, r, err := c.binary(n, n.Left, n.Right)
	if err != nil {
		return nil, err
	}
	return newLogicalIterator(c.sctx(n.Op.String(), n), n.Op, l, r), nil
}

func (c *Compiler) VisitConditional(n *ast.ConditionalExpr) (interface{}, error) {
	if n.Condition == nil || n.Then == nil || n.Else == nil {
		return nil, c.compileError(ErrInvalidConstruct, "incomplete conditional", n)
	}

	ops, err := c.exprs([]ast.Node{n.Condition, n.Then, n.Else})
	if err != nil {
		return nil, err
	}

	return newConditionalIterator(c.sctx("conditional", n), ops[0], ops[1], ops[2]), nil
}

func (c *Compiler) VisitStringConcat(n *ast.StringConcatExpr) (interface{}, error) {
	ops, err := c.exprs(n.Operands)
	if err != nil {
		return nil, err
	} else if len(ops) == 0 {
		return nil, c.compileError(ErrInvalidConstruct, "missing operand", n)
	}
	return newStringConcatIterator(c.sctx("string concatenation", n), ops...), nil
}

func (c *Compiler) VisitFilter(n *ast.FilterExpr) (interface{}, error) {
	primary, err := c.expr(n.Primary)
	if err != nil {
		return nil, err
	} else if primary == nil {
		return nil, c.compileError(ErrInvalidConstruct, "filter without primary expression", n)
	}

	preds, err := c.exprs(n.Predicates)
	if err != nil {
		return nil, err
	}

	return newFilterIterator(c.sctx("filter", n), primary, preds...), nil
}

func (c *Compiler) VisitFunctionCall(n *ast.FunctionCall) (interface{}, error) {
	lexical := n.Name
	if !strings.Contains(lexical, ":") {
		lexical = "fn:" + lexical
	}

	name, err := item.ParseName(lexical, c.namespaces)
	if err != nil {
		return nil, c.compileError(ErrUnknownFunction, err.Error(), n)
	}

	def, detail := lookupFunction(name, len(n.Args))
	if def == nil {
		return nil, c.compileError(ErrUnknownFunction, detail, n)
	}

	args, err := c.exprs(n.Args)
	if err != nil {
		return nil, err
	}

	return newFunctionIterator(c.sctx("function "+name.Local, n), name, def, args...), nil
}

func (c *Compiler) VisitPath(n *ast.PathExpr) (interface{}, error) {
	var start RuntimeIterator
	var err error

	if n.Start != nil {
		if start, err = c.expr(n.Start); err != nil {
			return nil, err
		}
	} else if n.Root {
		start = newRootIterator(c.sctx("root", n))
	}

	if len(n.Steps) == 0 {
		if start == nil {
			return nil, c.compileError(ErrInvalidConstruct, "path without steps", n)
		}
		return start, nil
	}

	steps := make([]RuntimeIterator, 0, len(n.Steps))

	for _, s := range n.Steps {
		step, err := c.expr(s)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	return newPathIterator(c.sctx("path", n), start, steps...), nil
}

func (c *Compiler) VisitStep(n *ast.StepExpr) (interface{}, error) {
	test, err := c.nodeTest(n)
	if err != nil {
		return nil, err
	}

	preds, err := c.exprs(n.Predicates)
	if err != nil {
		return nil, err
	}

	axis := newAxisIterator(c.sctx(n.Axis.String()+" axis", n), n.Axis, test)

	return newStepIterator(c.sctx("step "+n.Axis.String()+"::"+n.Test.String(), n), axis, preds...), nil
}

/*
nodeTest resolves the node test of a step.
*/
func (c *Compiler) nodeTest(n *ast.StepExpr) (*nodeTest, error) {
	test := &nodeTest{kind: n.Test.Kind, principal: item.ElementNode}

	if n.Axis == ast.AxisAttribute {
		test.principal = item.AttributeNode
	}

	if n.Test.Kind != ast.TestName {
		return test, nil
	}

	prefix, local := "", n.Test.Name
	if i := strings.Index(local, ":"); i != -1 {
		prefix, local = local[:i], local[i+1:]
	}

	if local == "" {
		return nil, c.compileError(ErrInvalidConstruct, "invalid name test "+n.Test.Name, n)
	}

	test.anyLocal = local == "*"
	test.name.Local = local

	switch prefix {
	case "":
		test.anyNS = local == "*"
	case "*":
		test.anyNS = true
	default:
		ns, ok := c.namespaces[prefix]
		if !ok {
			return nil, c.compileError(ErrInvalidConstruct,
				fmt.Sprintf("unbound prefix %v in %v", prefix, n.Test.Name), n)
		}
		test.name.Namespace = ns
	}

	return test, nil
}

// FLWOR expressions
// =================

func (c *Compiler) VisitFLWOR(n *ast.FLWORExpr) (interface{}, error) {
	var clauses []FLWORClause
	var effects []int

	if len(n.Clauses) == 0 || n.Return == nil {
		return nil, c.compileError(ErrInvalidConstruct, "incomplete FLWOR expression", n)
	}

	switch n.Clauses[0].(type) {
	case *ast.ForClause, *ast.LetClause:
	default:
		return nil, c.compileError(ErrInvalidConstruct,
			"FLWOR expression must start with a for or let clause", n)
	}

	for _, cn := range n.Clauses {
		effects = append(effects, c.sideEffects)

		res, err := cn.Accept(c)
		if err != nil {
			return nil, err
		}

		clause, ok := res.(FLWORClause)
		if !ok {
			return nil, c.compileError(ErrInvalidConstruct, "invalid FLWOR clause", cn)
		}

		clauses = append(clauses, clause)
	}

	ret, err := c.expr(n.Return)
	if err != nil {
		return nil, err
	}

	// A for clause which is followed by constructs with effects must be
	// evaluated locally

	for i, clause := range clauses {
		if fc, ok := clause.(*forClause); ok {
			if c.sideEffects > effects[i] {
				fc.sctx.Mode = ModeLocal
			}
		}
	}

	return newFLWORIterator(c.sctx("flwor", n), clauses, ret), nil
}

func (c *Compiler) VisitForClause(n *ast.ForClause) (interface{}, error) {
	in, err := c.expr(n.In)
	if err != nil {
		return nil, err
	} else if in == nil {
		return nil, c.compileError(ErrInvalidConstruct, "for clause without sequence", n)
	}

	sctx := c.sctx("for $"+n.Var.String(), n)
	sctx.Var = n.Var

	return newForClause(sctx, n.PosVar, in), nil
}

func (c *Compiler) VisitLetClause(n *ast.LetClause) (interface{}, error) {
	value, err := c.expr(n.Value)
	if err != nil {
		return nil, err
	} else if value == nil {
		return nil, c.compileError(ErrInvalidConstruct, "let clause without value", n)
	}

	sctx := c.sctx("let $"+n.Var.String(), n)
	sctx.Var = n.Var

	return &letClause{sctx, value}, nil
}

func (c *Compiler) VisitWhereClause(n *ast.WhereClause) (interface{}, error) {
	cond, err := c.expr(n.Condition)
	if err != nil {
		return nil, err
	} else if cond == nil {
		return nil, c.compileError(ErrInvalidConstruct, "where clause without condition", n)
	}

	return &whereClause{c.sctx("where", n), cond}, nil
}

func (c *Compiler) VisitOrderByClause(n *ast.OrderByClause) (interface{}, error) {
	var specs []orderSpec

	for _, s := range n.Specs {
		key, err := c.expr(s.Expr)
		if err != nil {
			return nil, err
		} else if key == nil {
			return nil, c.compileError(ErrInvalidConstruct, "order by without key", n)
		}

		specs = append(specs, orderSpec{key, s.Descending, s.EmptyGreatest})
	}

	return &orderByClause{c.sctx("order by", n), specs}, nil
}

func (c *Compiler) VisitCountClause(n *ast.CountClause) (interface{}, error) {
	sctx := c.sctx("count $"+n.Var.String(), n)
	sctx.Var = n.Var

	return &countClause{sctx}, nil
}

// Statements
// ==========

func (c *Compiler) VisitProgram(n *ast.Program) (interface{}, error) {

	for prefix, uri := range n.Namespaces {
		if stringutil.IndexOf(prefix, reservedPrefixes) != -1 {
			return nil, c.compileError(ErrInvalidConstruct, "reserved prefix "+prefix, n)
		}
		c.namespaces[prefix] = uri
	}

	statements, err := c.statements(n.Statements)
	if err != nil {
		return nil, err
	}

	result, err := c.expr(n.Result)
	if err != nil {
		return nil, err
	}

	return newProgramIterator(c.sctx("program", n), statements, result), nil
}

func (c *Compiler) VisitBlock(n *ast.BlockStatement) (interface{}, error) {
	statements, err := c.statements(n.Statements)
	if err != nil {
		return nil, err
	}
	return newBlockStatement(c.sctx("block", n), statements...), nil
}

func (c *Compiler) VisitVarDecl(n *ast.VarDeclStatement) (interface{}, error) {
	init, err := c.expr(n.Init)
	if err != nil {
		return nil, err
	}

	sctx := c.sctx("variable $"+n.Name.String(), n)
	sctx.Var = n.Name

	return newVarDeclStatement(sctx, init), nil
}

func (c *Compiler) VisitAssign(n *ast.AssignStatement) (interface{}, error) {
	value, err := c.expr(n.Value)
	if err != nil {
		return nil, err
	} else if value == nil {
		return nil, c.compileError(ErrInvalidConstruct, "assignment without value", n)
	}

	c.sideEffects++

	sctx := c.sctx("assign $"+n.Name.String(), n)
	sctx.Var = n.Name

	return newAssignStatement(sctx, value), nil
}

func (c *Compiler) VisitWhile(n *ast.WhileStatement) (interface{}, error) {
	cond, err := c.expr(n.Condition)
	if err != nil {
		return nil, err
	} else if cond == nil || n.Body == nil {
		return nil, c.compileError(ErrInvalidConstruct, "incomplete while statement", n)
	}

	c.sideEffects++
	c.loopDepth++

	body, err := c.statement(n.Body)

	c.loopDepth--

	if err != nil {
		return nil, err
	}

	return newWhileStatement(c.sctx("while", n), cond, body), nil
}

func (c *Compiler) VisitBreak(n *ast.BreakStatement) (interface{}, error) {
	if c.loopDepth == 0 {
		return nil, c.compileError(ErrBreakOutsideLoop, "break loop", n)
	}
	return newBreakStatement(c.sctx("break", n)), nil
}

func (c *Compiler) VisitContinue(n *ast.ContinueStatement) (interface{}, error) {
	if c.loopDepth == 0 {
		return nil, c.compileError(ErrContinueOutsideLoop, "continue loop", n)
	}
	return newContinueStatement(c.sctx("continue", n)), nil
}

func (c *Compiler) VisitExit(n *ast.ExitStatement) (interface{}, error) {
	value, err := c.expr(n.Value)
	if err != nil {
		return nil, err
	} else if value == nil {
		return nil, c.compileError(ErrInvalidConstruct, "exit without value", n)
	}

	c.sideEffects++

	return newExitStatement(c.sctx("exit", n), value), nil
}

func (c *Compiler) VisitExprStatement(n *ast.ExprStatement) (interface{}, error) {
	expr, err := c.expr(n.Expr)
	if err != nil {
		return nil, err
	} else if expr == nil {
		return nil, c.compileError(ErrInvalidConstruct, "empty expression statement", n)
	}
	return newExprStatement(c.sctx("expression statement", n), expr), nil
}

func (c *Compiler) VisitIf(n *ast.IfStatement) (interface{}, error) {
	cond, err := c.expr(n.Condition)
	if err != nil {
		return nil, err
	} else if cond == nil || n.Then == nil {
		return nil, c.compileError(ErrInvalidConstruct, "incomplete if statement", n)
	}

	then, err := c.statement(n.Then)
	if err != nil {
		return nil, err
	}

	els, err := c.statement(n.Else)
	if err != nil {
		return nil, err
	}

	return newIfStatement(c.sctx("if", n), cond, then, els), nil
}
