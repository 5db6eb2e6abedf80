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
	"bytes"
	"fmt"
	"strings"

	"devt.de/krotik/jsoniqdb/item"
)

/*
PrettyPrint produces program text from a given syntax tree. Binary
expressions are always put in parentheses.
*/
func PrettyPrint(n Node) (string, error) {
	res, err := n.Accept(&prettyPrinter{})
	if err != nil {
		return "", err
	}
	return res.(string), nil
}

/*
prettyPrinter renders syntax tree nodes.
*/
type prettyPrinter struct {
	level int // Indentation level of statements
}

/*
print renders a child node.
*/
func (p *prettyPrinter) print(n Node) (string, error) {
	res, err := n.Accept(p)
	if err != nil {
		return "", err
	}
	return res.(string), nil
}

/*
printList renders a list of child nodes joined by a separator.
*/
func (p *prettyPrinter) printList(nodes []Node, sep string) (string, error) {
	parts := make([]string, 0, len(nodes))

	for _, n := range nodes {
		s, err := p.print(n)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}

	return strings.Join(parts, sep), nil
}

/*
printf renders child nodes into a format string.
*/
func (p *prettyPrinter) printf(format string, nodes ...Node) (interface{}, error) {
	args := make([]interface{}, 0, len(nodes))

	for _, n := range nodes {
		s, err := p.print(n)
		if err != nil {
			return nil, err
		}
		args = append(args, s)
	}

	return fmt.Sprintf(format, args...), nil
}

/*
varName renders a variable name.
*/
func varName(n item.Name) string {
	return "$" + n.String()
}

func (p *prettyPrinter) VisitLiteral(n *Literal) (interface{}, error) {
	if n.Value.Kind() == item.KindDecimal && !strings.ContainsAny(n.Value.StringValue(), ".eE") {
		return n.Value.StringValue() + ".0", nil
	}
	return n.Value.String(), nil
}

func (p *prettyPrinter) VisitVarRef(n *VarRef) (interface{}, error) {
	return varName(n.Name), nil
}

func (p *prettyPrinter) VisitContextItem(n *ContextItemExpr) (interface{}, error) {
	return "$$", nil
}

func (p *prettyPrinter) VisitSequence(n *SequenceExpr) (interface{}, error) {
	s, err := p.printList(n.Items, ", ")
	return "(" + s + ")", err
}

func (p *prettyPrinter) VisitRange(n *RangeExpr) (interface{}, error) {
	return p.printf("(%v to %v)", n.From, n.To)
}

func (p *prettyPrinter) VisitArithmetic(n *ArithmeticExpr) (interface{}, error) {
	return p.printf("(%v "+n.Op.String()+" %v)", n.Left, n.Right)
}

func (p *prettyPrinter) VisitUnary(n *UnaryExpr) (interface{}, error) {
	return p.printf("-%v", n.Operand)
}

func (p *prettyPrinter) VisitComparison(n *ComparisonExpr) (interface{}, error) {
	return p.printf("(%v "+n.Op.String()+" %v)", n.Left, n.Right)
}

func (p *prettyPrinter) VisitLogical(n *LogicalExpr) (interface{}, error) {
	return p.printf("(%v "+n.Op.String()+" %v)", n.Left, n.Right)
}

func (p *prettyPrinter) VisitConditional(n *ConditionalExpr) (interface{}, error) {
	return p.printf("if (%v) then %v else %v", n.Condition, n.Then, n.Else)
}

func (p *prettyPrinter) VisitStringConcat(n *StringConcatExpr) (interface{}, error) {
	s, err := p.printList(n.Operands, " || ")
	return "(" + s + ")", err
}

func (p *prettyPrinter) VisitFilter(n *FilterExpr) (interface{}, error) {
	s, err := p.print(n.Primary)
	if err != nil {
		return nil, err
	}

	preds, err := p.predicates(n.Predicates)

	return s + preds, err
}

/*
predicates renders a list of predicates.
*/
func (p *prettyPrinter) predicates(nodes []Node) (string, error) {
	var buf bytes.Buffer

	for _, pred := range nodes {
		s, err := p.print(pred)
		if err != nil {
			return "", err
		}
		buf.WriteString("[" + s + "]")
	}

	return buf.String(), nil
}

func (p *prettyPrinter) VisitFunctionCall(n *FunctionCall) (interface{}, error) {
	s, err := p.printList(n.Args, ", ")
	return n.Name + "(" + s + ")", err
}

func (p *prettyPrinter) VisitPath(n *PathExpr) (interface{}, error) {
	var buf bytes.Buffer

	if n.Start != nil {
		s, err := p.print(n.Start)
		if err != nil {
			return nil, err
		}
		buf.WriteString(s)
	}

	for i, step := range n.Steps {
		if i > 0 || n.Root || n.Start != nil {
			buf.WriteString("/")
		}

		s, err := p.print(step)
		if err != nil {
			return nil, err
		}
		buf.WriteString(s)
	}

	if buf.Len() == 0 && n.Root {
		buf.WriteString("/")
	}

	return buf.String(), nil
}

func (p *prettyPrinter) VisitStep(n *StepExpr) (interface{}, error) {
	preds, err := p.predicates(n.Predicates)
	return n.Axis.String() + "::" + n.Test.String() + preds, err
}

func (p *prettyPrinter) VisitFLWOR(n *FLWORExpr) (interface{}, error) {
	s, err := p.printList(n.Clauses, " ")
	if err != nil {
		return nil, err
	}

	ret, err := p.print(n.Return)

	return s + " return " + ret, err
}

func (p *prettyPrinter) VisitForClause(n *ForClause) (interface{}, error) {
	pos := ""
	if n.PosVar != nil {
		pos = " at " + varName(*n.PosVar)
	}
	return p.printf("for "+varName(n.Var)+pos+" in %v", n.In)
}

func (p *prettyPrinter) VisitLetClause(n *LetClause) (interface{}, error) {
	return p.printf("let "+varName(n.Var)+" := %v", n.Value)
}

func (p *prettyPrinter) VisitWhereClause(n *WhereClause) (interface{}, error) {
	return p.printf("where %v", n.Condition)
}

func (p *prettyPrinter) VisitOrderByClause(n *OrderByClause) (interface{}, error) {
	specs := make([]string, 0, len(n.Specs))

	for _, spec := range n.Specs {
		s, err := p.print(spec.Expr)
		if err != nil {
			return nil, err
		}

		if spec.Descending {
			s += " descending"
		}
		if spec.EmptyGreatest {
			s += " empty greatest"
		}

		specs = append(specs, s)
	}

	return "order by " + strings.Join(specs, ", "), nil
}

func (p *prettyPrinter) VisitCountClause(n *CountClause) (interface{}, error) {
	return "count " + varName(n.Var), nil
}

/*
statements renders a list of statements on separate lines.
*/
func (p *prettyPrinter) statements(nodes []Node) (string, error) {
	var buf bytes.Buffer

	for _, n := range nodes {
		s, err := p.print(n)
		if err != nil {
			return "", err
		}
		buf.WriteString(strings.Repeat("  ", p.level) + s + "\n")
	}

	return buf.String(), nil
}

func (p *prettyPrinter) VisitProgram(n *Program) (interface{}, error) {
	s, err := p.statements(n.Statements)
	if err != nil || n.Result == nil {
		return s, err
	}

	res, err := p.print(n.Result)

	return s + res, err
}

func (p *prettyPrinter) VisitBlock(n *BlockStatement) (interface{}, error) {
	p.level++
	s, err := p.statements(n.Statements)
	p.level--

	return "{\n" + s + strings.Repeat("  ", p.level) + "}", err
}

func (p *prettyPrinter) VisitVarDecl(n *VarDeclStatement) (interface{}, error) {
	if n.Init == nil {
		return "variable " + varName(n.Name) + ";", nil
	}
	return p.printf("variable "+varName(n.Name)+" := %v;", n.Init)
}

func (p *prettyPrinter) VisitAssign(n *AssignStatement) (interface{}, error) {
	return p.printf(varName(n.Name)+" := %v;", n.Value)
}

func (p *prettyPrinter) VisitWhile(n *WhileStatement) (interface{}, error) {
	return p.printf("while (%v) %v", n.Condition, n.Body)
}

func (p *prettyPrinter) VisitBreak(n *BreakStatement) (interface{}, error) {
	return "break loop;", nil
}

func (p *prettyPrinter) VisitContinue(n *ContinueStatement) (interface{}, error) {
	return "continue loop;", nil
}

func (p *prettyPrinter) VisitExit(n *ExitStatement) (interface{}, error) {
	return p.printf("exit returning %v;", n.Value)
}

func (p *prettyPrinter) VisitExprStatement(n *ExprStatement) (interface{}, error) {
	return p.printf("%v;", n.Expr)
}

func (p *prettyPrinter) VisitIf(n *IfStatement) (interface{}, error) {
	if n.Else == nil {
		return p.printf("if (%v) then %v", n.Condition, n.Then)
	}
	return p.printf("if (%v) then %v else %v", n.Condition, n.Then, n.Else)
}
