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

// Operators
// =========

/*
ArithmeticOp is an arithmetic operator
*/
type ArithmeticOp int

/*
Arithmetic operators
*/
const (
	OpAdd ArithmeticOp = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpIntegerDivide
	OpModulo
)

var arithmeticOpSymbols = []string{"+", "-", "*", "div", "idiv", "mod"}

/*
String returns the symbol of the operator.
*/
func (op ArithmeticOp) String() string {
	return arithmeticOpSymbols[op]
}

/*
ComparisonOp is a comparison operator
*/
type ComparisonOp int

/*
Comparison operators. Value comparisons compare single items, general
comparisons are existentially quantified over both operand sequences.
*/
const (
	OpValueEq ComparisonOp = iota
	OpValueNe
	OpValueLt
	OpValueLe
	OpValueGt
	OpValueGe
	OpGeneralEq
	OpGeneralNe
	OpGeneralLt
	OpGeneralLe
	OpGeneralGt
	OpGeneralGe
)

var comparisonOpSymbols = []string{"eq", "ne", "lt", "le", "gt", "ge",
	"=", "!=", "<", "<=", ">", ">="}

/*
String returns the symbol of the operator.
*/
func (op ComparisonOp) String() string {
	return comparisonOpSymbols[op]
}

/*
IsGeneral returns true for general comparisons.
*/
func (op ComparisonOp) IsGeneral() bool {
	return op >= OpGeneralEq
}

/*
LogicalOp is a logical operator
*/
type LogicalOp int

/*
Logical operators
*/
const (
	OpAnd LogicalOp = iota
	OpOr
)

/*
String returns the symbol of the operator.
*/
func (op LogicalOp) String() string {
	if op == OpAnd {
		return "and"
	}
	return "or"
}

// Axes and node tests
// ===================

/*
Axis is a navigation axis
*/
type Axis int

/*
Known axes
*/
const (
	AxisChild Axis = iota
	AxisDescendant
	AxisAttribute
	AxisSelf
	AxisDescendantOrSelf
	AxisFollowingSibling
	AxisFollowing
	AxisParent
	AxisAncestor
	AxisPrecedingSibling
	AxisPreceding
	AxisAncestorOrSelf
)

var axisNames = []string{"child", "descendant", "attribute", "self",
	"descendant-or-self", "following-sibling", "following", "parent",
	"ancestor", "preceding-sibling", "preceding", "ancestor-or-self"}

/*
String returns the name of the axis.
*/
func (a Axis) String() string {
	return axisNames[a]
}

/*
IsReverse returns true if the axis enumerates nodes in reverse document order.
*/
func (a Axis) IsReverse() bool {
	return a >= AxisParent
}

/*
NodeTestKind is the kind of a node test
*/
type NodeTestKind int

/*
Known node test kinds
*/
const (
	TestName NodeTestKind = iota // Name test, the name may contain * wildcards
	TestAnyNode
	TestText
	TestElement
	TestAttribute
	TestDocument
)

/*
NodeTest selects nodes of an axis by kind or name.
*/
type NodeTest struct {
	Kind NodeTestKind // Kind of the test
	Name string       // Lexical name for name tests (e.g. foo, p:foo, *, p:*, *:foo)
}

/*
String returns a string representation of this node test.
*/
func (t NodeTest) String() string {
	switch t.Kind {
	case TestAnyNode:
		return "node()"
	case TestText:
		return "text()"
	case TestElement:
		return "element()"
	case TestAttribute:
		return "attribute()"
	case TestDocument:
		return "document-node()"
	}
	return t.Name
}

// Expressions
// ===========

/*
Literal is a constant item.
*/
type Literal struct {
	Metadata
	Value *item.Item
}

/*
Accept dispatches this node to the visitor.
*/
func (n *Literal) Accept(v Visitor) (interface{}, error) { return v.VisitLiteral(n) }

/*
VarRef references a variable.
*/
type VarRef struct {
	Metadata
	Name item.Name
}

/*
Accept dispatches this node to the visitor.
*/
func (n *VarRef) Accept(v Visitor) (interface{}, error) { return v.VisitVarRef(n) }

/*
ContextItemExpr references the context item.
*/
type ContextItemExpr struct {
	Metadata
}

/*
Accept dispatches this node to the visitor.
*/
func (n *ContextItemExpr) Accept(v Visitor) (interface{}, error) { return v.VisitContextItem(n) }

/*
SequenceExpr concatenates the results of its expressions.
*/
type SequenceExpr struct {
	Metadata
	Items []Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *SequenceExpr) Accept(v Visitor) (interface{}, error) { return v.VisitSequence(n) }

/*
RangeExpr produces the integers between two bounds.
*/
type RangeExpr struct {
	Metadata
	From Node
	To   Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *RangeExpr) Accept(v Visitor) (interface{}, error) { return v.VisitRange(n) }

/*
ArithmeticExpr applies an arithmetic operator.
*/
type ArithmeticExpr struct {
	Metadata
	Op    ArithmeticOp
	Left  Node
	Right Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *ArithmeticExpr) Accept(v Visitor) (interface{}, error) { return v.VisitArithmetic(n) }

/*
UnaryExpr negates a numeric operand.
*/
type UnaryExpr struct {
	Metadata
	Operand Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *UnaryExpr) Accept(v Visitor) (interface{}, error) { return v.VisitUnary(n) }

/*
ComparisonExpr compares two operands.
*/
type ComparisonExpr struct {
	Metadata
	Op    ComparisonOp
	Left  Node
	Right Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *ComparisonExpr) Accept(v Visitor) (interface{}, error) { return v.VisitComparison(n) }

/*
LogicalExpr combines the effective boolean values of two operands.
*/
type LogicalExpr struct {
	Metadata
	Op    LogicalOp
	Left  Node
	Right Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *LogicalExpr) Accept(v Visitor) (interface{}, error) { return v.VisitLogical(n) }

/*
ConditionalExpr is an if-then-else expression.
*/
type ConditionalExpr struct {
	Metadata
	Condition Node
	Then      Node
	Else      Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *ConditionalExpr) Accept(v Visitor) (interface{}, error) { return v.VisitConditional(n) }

/*
StringConcatExpr concatenates the string values of its operands.
*/
type StringConcatExpr struct {
	Metadata
	Operands []Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *StringConcatExpr) Accept(v Visitor) (interface{}, error) { return v.VisitStringConcat(n) }

/*
FilterExpr filters the result of a primary expression with predicates.
*/
type FilterExpr struct {
	Metadata
	Primary    Node
	Predicates []Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *FilterExpr) Accept(v Visitor) (interface{}, error) { return v.VisitFilter(n) }

/*
FunctionCall calls a library function.
*/
type FunctionCall struct {
	Metadata
	Name string // Lexical function name
	Args []Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *FunctionCall) Accept(v Visitor) (interface{}, error) { return v.VisitFunctionCall(n) }

/*
PathExpr navigates from a start sequence through a list of steps. Without
a start expression the path starts at the context item, or at the root of
the context item if Root is set.
*/
type PathExpr struct {
	Metadata
	Root  bool
	Start Node
	Steps []*StepExpr
}

/*
Accept dispatches this node to the visitor.
*/
func (n *PathExpr) Accept(v Visitor) (interface{}, error) { return v.VisitPath(n) }

/*
StepExpr is a single axis step of a path.
*/
type StepExpr struct {
	Metadata
	Axis       Axis
	Test       NodeTest
	Predicates []Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *StepExpr) Accept(v Visitor) (interface{}, error) { return v.VisitStep(n) }

// FLWOR expressions
// =================

/*
FLWORExpr is a FLWOR expression. The first clause must be a for or a let clause.
*/
type FLWORExpr struct {
	Metadata
	Clauses []Node
	Return  Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *FLWORExpr) Accept(v Visitor) (interface{}, error) { return v.VisitFLWOR(n) }

/*
ForClause binds a variable to each item of a sequence. PosVar is optional.
*/
type ForClause struct {
	Metadata
	Var    item.Name
	PosVar *item.Name
	In     Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *ForClause) Accept(v Visitor) (interface{}, error) { return v.VisitForClause(n) }

/*
LetClause binds a variable to a whole sequence.
*/
type LetClause struct {
	Metadata
	Var   item.Name
	Value Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *LetClause) Accept(v Visitor) (interface{}, error) { return v.VisitLetClause(n) }

/*
WhereClause filters tuples.
*/
type WhereClause struct {
	Metadata
	Condition Node
}

/*
Accept dispatches this node to the visitor.
*/
func (n *WhereClause) Accept(v Visitor) (interface{}, error) { return v.VisitWhereClause(n) }

/*
OrderSpec is a single ordering key of an order by clause.
*/
type OrderSpec struct {
	Expr          Node
	Descending    bool
	EmptyGreatest bool
}

/*
OrderByClause sorts tuples.
*/
type OrderByClause struct {
	Metadata
	Specs []OrderSpec
}

/*
Accept dispatches this node to the visitor.
*/
func (n *OrderByClause) Accept(v Visitor) (interface{}, error) { return v.VisitOrderByClause(n) }

/*
CountClause binds a variable to the tuple number.
*/
type CountClause struct {
	Metadata
	Var item.Name
}

/*
Accept dispatches this node to the visitor.
*/
func (n *CountClause) Accept(v Visitor) (interface{}, error) { return v.VisitCountClause(n) }
