/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package console

import (
	"fmt"
	"strconv"
	"strings"

	"devt.de/krotik/jsoniqdb/item"
	"devt.de/krotik/jsoniqdb/jsoniq/ast"
)

/*
kindTests maps node test notations to node test kinds
*/
var kindTests = map[string]ast.NodeTestKind{
	"node()":          ast.TestAnyNode,
	"text()":          ast.TestText,
	"element()":       ast.TestElement,
	"attribute()":     ast.TestAttribute,
	"document-node()": ast.TestDocument,
}

/*
ParsePath builds a path expression from the console path notation. A path
is a list of steps separated by /. A step is either axis::test with an
optional numeric predicate (e.g. ancestor::*[1]) or one of the
abbreviations name, @name, . and .. . A leading / starts the path at the
root of the context node and an empty step (//) stands for
descendant-or-self::node().
*/
func ParsePath(path string) (*ast.PathExpr, error) {
	path = strings.TrimSpace(path)

	if path == "" {
		return nil, fmt.Errorf("Empty path")
	}

	res := &ast.PathExpr{Metadata: ast.At("console", 1, 1)}

	if strings.HasPrefix(path, "/") {
		res.Root = true
		path = path[1:]

		if path == "" {
			return res, nil
		}
	}

	pos := 1
	if res.Root {
		pos = 2
	}

	parts := strings.Split(path, "/")

	for i, part := range parts {
		if part == "" {

			// Empty steps are only allowed between two steps

			if i == 0 && !res.Root || i == len(parts)-1 {
				return nil, fmt.Errorf("Invalid path step at position %v", pos)
			}

			res.Steps = append(res.Steps, &ast.StepExpr{Metadata: ast.At("console", 1, pos),
				Axis: ast.AxisDescendantOrSelf, Test: ast.NodeTest{Kind: ast.TestAnyNode}})

		} else {
			step, err := parseStep(part, pos)
			if err != nil {
				return nil, err
			}

			res.Steps = append(res.Steps, step)
		}

		pos += len(part) + 1
	}

	return res, nil
}

/*
parseStep parses a single step.
*/
func parseStep(s string, pos int) (*ast.StepExpr, error) {
	step := &ast.StepExpr{Metadata: ast.At("console", 1, pos)}

	// Numeric predicate

	if i := strings.Index(s, "["); i != -1 {
		if !strings.HasSuffix(s, "]") {
			return nil, fmt.Errorf("Invalid predicate in step %v", s)
		}

		n, err := strconv.ParseInt(s[i+1:len(s)-1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("Invalid predicate in step %v", s)
		}

		step.Predicates = []ast.Node{&ast.Literal{Metadata: ast.At("console", 1, pos+i+1),
			Value: item.NewInteger(n)}}

		s = s[:i]
	}

	switch {
	case s == ".":
		step.Axis, step.Test = ast.AxisSelf, ast.NodeTest{Kind: ast.TestAnyNode}
		return step, nil

	case s == "..":
		step.Axis, step.Test = ast.AxisParent, ast.NodeTest{Kind: ast.TestAnyNode}
		return step, nil

	case strings.HasPrefix(s, "@"):
		step.Axis, s = ast.AxisAttribute, s[1:]

	case strings.Contains(s, "::"):
		i := strings.Index(s, "::")

		axis, ok := axisByName(s[:i])
		if !ok {
			return nil, fmt.Errorf("Unknown axis: %v", s[:i])
		}

		step.Axis, s = axis, s[i+2:]

	default:
		step.Axis = ast.AxisChild
	}

	if kind, ok := kindTests[s]; ok {
		step.Test = ast.NodeTest{Kind: kind}
	} else if s != "" && !strings.ContainsAny(s, "()") {
		step.Test = ast.NodeTest{Kind: ast.TestName, Name: s}
	} else {
		return nil, fmt.Errorf("Invalid node test: %v", s)
	}

	return step, nil
}

/*
axisByName looks up an axis by its name.
*/
func axisByName(name string) (ast.Axis, bool) {
	for a := ast.AxisChild; a <= ast.AxisAncestorOrSelf; a++ {
		if a.String() == name {
			return a, true
		}
	}
	return 0, false
}
