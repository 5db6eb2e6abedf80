/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package ast contains the syntax tree of JSONiq programs.

The syntax tree is produced by an external parser. It consists of a closed
set of node types, one per language construct. Behaviour which depends on
the construct is implemented as a Visitor: every node dispatches itself to
the visitor method for its type.

PrettyPrint() renders a syntax tree back into program text.
*/
package ast

import "fmt"

/*
Metadata is the source location of a syntax tree node.
*/
type Metadata struct {
	Source string // Name of the source which was given to the parser
	Line   int    // Line of the construct
	Pos    int    // Position of the construct
}

/*
Meta returns the source location.
*/
func (m Metadata) Meta() Metadata {
	return m
}

/*
String returns a string representation of this location.
*/
func (m Metadata) String() string {
	return fmt.Sprintf("Line:%d Pos:%d", m.Line, m.Pos)
}

/*
At creates a location in a given source.
*/
func At(source string, line int, pos int) Metadata {
	return Metadata{source, line, pos}
}

/*
Node is a node of the syntax tree.
*/
type Node interface {

	/*
	   Meta returns the source location of this node.
	*/
	Meta() Metadata

	/*
	   Accept dispatches this node to the visitor method for its type.
	*/
	Accept(v Visitor) (interface{}, error)
}

/*
Visitor has one method for each syntax tree node type.
*/
type Visitor interface {

	// Expressions

	VisitLiteral(n *Literal) (interface{}, error)
	VisitVarRef(n *VarRef) (interface{}, error)
	VisitContextItem(n *ContextItemExpr) (interface{}, error)
	VisitSequence(n *SequenceExpr) (interface{}, error)
	VisitRange(n *RangeExpr) (interface{}, error)
	VisitArithmetic(n *ArithmeticExpr) (interface{}, error)
	VisitUnary(n *UnaryExpr) (interface{}, error)
	VisitComparison(n *ComparisonExpr) (interface{}, error)
	VisitLogical(n *LogicalExpr) (interface{}, error)
	VisitConditional(n *ConditionalExpr) (interface{}, error)
	VisitStringConcat(n *StringConcatExpr) (interface{}, error)
	VisitFilter(n *FilterExpr) (interface{}, error)
	VisitFunctionCall(n *FunctionCall) (interface{}, error)
	VisitPath(n *PathExpr) (interface{}, error)
	VisitStep(n *StepExpr) (interface{}, error)

	// FLWOR expressions

	VisitFLWOR(n *FLWORExpr) (interface{}, error)
	VisitForClause(n *ForClause) (interface{}, error)
	VisitLetClause(n *LetClause) (interface{}, error)
	VisitWhereClause(n *WhereClause) (interface{}, error)
	VisitOrderByClause(n *OrderByClause) (interface{}, error)
	VisitCountClause(n *CountClause) (interface{}, error)

	// Statements

	VisitProgram(n *Program) (interface{}, error)
	VisitBlock(n *BlockStatement) (interface{}, error)
	VisitVarDecl(n *VarDeclStatement) (interface{}, error)
	VisitAssign(n *AssignStatement) (interface{}, error)
	VisitWhile(n *WhileStatement) (interface{}, error)
	VisitBreak(n *BreakStatement) (interface{}, error)
	VisitContinue(n *ContinueStatement) (interface{}, error)
	VisitExit(n *ExitStatement) (interface{}, error)
	VisitExprStatement(n *ExprStatement) (interface{}, error)
	VisitIf(n *IfStatement) (interface{}, error)
}
