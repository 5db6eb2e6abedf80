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

import "devt.de/krotik/jsoniqdb/item"

/*
Program is a main module. Its statements are executed in order, after that
the result expression (if any) produces the program result.
*/
type Program struct {
	Metadata
	Namespaces map[string]string // Declared namespace prefixes
	Statements []Node
	Result     Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *Program) Accept(v Visitor) (interface{}, error) { return v.VisitProgram(n) }

/*
BlockStatement executes statements in a new variable scope.
*/
type BlockStatement struct {
	Metadata
	Statements []Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *BlockStatement) Accept(v Visitor) (interface{}, error) { return v.VisitBlock(n) }

/*
VarDeclStatement declares a variable. Init is optional.
*/
type VarDeclStatement struct {
	Metadata
	Name item.Name
	Init Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *VarDeclStatement) Accept(v Visitor) (interface{}, error) { return v.VisitVarDecl(n) }

/*
AssignStatement assigns a new value to a declared variable.
*/
type AssignStatement struct {
	Metadata
	Name  item.Name
	Value Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *AssignStatement) Accept(v Visitor) (interface{}, error) { return v.VisitAssign(n) }

/*
WhileStatement executes its body while the condition holds.
*/
type WhileStatement struct {
	Metadata
	Condition Node
	Body      Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *WhileStatement) Accept(v Visitor) (interface{}, error) { return v.VisitWhile(n) }

/*
BreakStatement leaves the nearest enclosing loop.
*/
type BreakStatement struct {
	Metadata
}

/*
Accept dispatches this node to the visitor.
*/
func (n *BreakStatement) Accept(v Visitor) (interface{}, error) { return v.VisitBreak(n) }

/*
ContinueStatement starts the next pass of the nearest enclosing loop.
*/
type ContinueStatement struct {
	Metadata
}

/*
Accept dispatches this node to the visitor.
*/
func (n *ContinueStatement) Accept(v Visitor) (interface{}, error) { return v.VisitContinue(n) }

/*
ExitStatement stops the program and returns a value.
*/
type ExitStatement struct {
	Metadata
	Value Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *ExitStatement) Accept(v Visitor) (interface{}, error) { return v.VisitExit(n) }

/*
ExprStatement evaluates an expression for its effects.
*/
type ExprStatement struct {
	Metadata
	Expr Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *ExprStatement) Accept(v Visitor) (interface{}, error) { return v.VisitExprStatement(n) }

/*
IfStatement executes one of two statements. Else is optional.
*/
type IfStatement struct {
	Metadata
	Condition Node
	Then      Node
	Else      Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *IfStatement) Accept(v Visitor) (interface{}, error) { return v.VisitIf(n) }
