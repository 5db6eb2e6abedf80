/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package jsoniq

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"devt.de/krotik/jsoniqdb/item"
	"devt.de/krotik/jsoniqdb/jsoniq/ast"
	"devt.de/krotik/jsoniqdb/jsoniq/interpreter"
)

/*
doubleQuery is: for $x in $input where $x gt $min return $x * 2
*/
func doubleQuery() ast.Node {
	x := &ast.VarRef{Name: item.LocalName("x")}

	return &ast.FLWORExpr{
		Clauses: []ast.Node{
			&ast.ForClause{Var: item.LocalName("x"), In: &ast.VarRef{Name: item.LocalName("input")}},
			&ast.WhereClause{Condition: &ast.ComparisonExpr{Op: ast.OpValueGt, Left: x,
				Right: &ast.VarRef{Name: item.LocalName("min")}}},
		},
		Return: &ast.ArithmeticExpr{Op: ast.OpMultiply, Left: x,
			Right: &ast.Literal{Value: item.NewInteger(2)}},
	}
}

func ints(is ...int64) item.Sequence {
	var res item.Sequence
	for _, i := range is {
		res = append(res, item.NewInteger(i))
	}
	return res
}

func TestQueryRun(t *testing.T) {
	q, err := Compile("double", doubleQuery())
	if err != nil {
		t.Error(err)
		return
	}

	res, err := q.Run(map[item.Name]item.Sequence{
		item.LocalName("input"): ints(1, 2, 3, 4),
		item.LocalName("min"):   ints(2),
	}, nil)

	if err != nil || res.String() != "[6 8]" {
		t.Error("Unexpected result:", res, err)
		return
	}

	// Empty results are empty sequences

	res, err = q.Run(map[item.Name]item.Sequence{
		item.LocalName("input"): nil,
		item.LocalName("min"):   ints(2),
	}, nil)

	if err != nil || res == nil || len(res) != 0 {
		t.Error("Unexpected result:", res, err)
		return
	}

	// Missing variables are reported

	_, err = q.Run(map[item.Name]item.Sequence{item.LocalName("input"): ints(1)}, nil)

	if !errors.Is(err, interpreter.ErrUndeclaredVariable) {
		t.Error("Unexpected result:", err)
		return
	}

	if res := q.String(); !strings.HasPrefix(res, "Query double (flwor#") {
		t.Error("Unexpected result:", res)
		return
	}

	if !q.Parallelizable(item.LocalName("input")) || q.Parallelizable(item.LocalName("min")) {
		t.Error("Unexpected parallelizable result")
		return
	}

	if q.Root() == nil || q.Factory == nil {
		t.Error("Query should have a root and a factory")
		return
	}
}

func TestQueryContextItem(t *testing.T) {
	doc := item.NewDocumentNode()
	a := doc.AppendChild(item.NewElementNode(item.LocalName("a")))
	a.AppendChild(item.NewTextNode("foo"))
	doc.Renumber()

	q, err := CompileWithFactory("ctx", &ast.FunctionCall{Name: "string"}, item.NewFactory(10, 0))
	if err != nil {
		t.Error(err)
		return
	}

	res, err := q.Run(nil, item.NewNode(doc))

	if err != nil || res.String() != `["foo"]` {
		t.Error("Unexpected result:", res, err)
		return
	}

	_, err = q.Run(nil, nil)

	if !errors.Is(err, interpreter.ErrAbsentContextItem) {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestQueryCompileError(t *testing.T) {
	_, err := Compile("broken", &ast.FunctionCall{Name: "nosuchfunction"})

	if err == nil || err.Error() != "JSONiq error in broken: Unknown function (fn:nosuchfunction)" {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestQueryConcurrentRuns(t *testing.T) {
	var wg sync.WaitGroup

	q, err := Compile("double", doubleQuery())
	if err != nil {
		t.Error(err)
		return
	}

	results := make([]string, 10)
	errs := make([]error, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			res, err := q.Run(map[item.Name]item.Sequence{
				item.LocalName("input"): ints(int64(i), int64(i+1)),
				item.LocalName("min"):   ints(0),
			}, nil)

			results[i] = res.String()
			errs[i] = err
		}(i)
	}

	wg.Wait()

	for i := 1; i < 10; i++ {
		if expected := fmt.Sprintf("[%v %v]", 2*i, 2*(i+1)); errs[i] != nil || results[i] != expected {
			t.Error("Unexpected result:", results[i], errs[i], "expected:", expected)
			return
		}
	}

	if errs[0] != nil || results[0] != "[2]" {
		t.Error("Unexpected result:", results[0], errs[0])
		return
	}
}
