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
Package jsoniq contains the main API for JSONiq queries.

A syntax tree is compiled once into a Query. A Query can be run any number of
times; every run uses a fresh evaluation state. Different runs of the same
Query can be executed concurrently.
*/
package jsoniq

import (
	"fmt"

	"devt.de/krotik/common/logutil"
	"devt.de/krotik/jsoniqdb/item"
	"devt.de/krotik/jsoniqdb/jsoniq/ast"
	"devt.de/krotik/jsoniqdb/jsoniq/interpreter"
)

/*
logger is the logger of this package
*/
var logger = logutil.GetLogger("jsoniq")

/*
Query is a compiled query.
*/
type Query struct {
	Name    string                      // Name of the query
	Factory *item.Factory               // Item factory used by all runs
	root    interpreter.RuntimeIterator // Compiled iterator tree
}

/*
Compile compiles a syntax tree into a query. The query uses an item factory
with the configured cache settings.
*/
func Compile(name string, root ast.Node) (*Query, error) {
	return CompileWithFactory(name, root, item.NewDefaultFactory())
}

/*
CompileWithFactory compiles a syntax tree into a query which uses a given
item factory.
*/
func CompileWithFactory(name string, root ast.Node, factory *item.Factory) (*Query, error) {
	it, err := interpreter.NewCompiler(name).Compile(root)
	if err != nil {
		return nil, err
	}

	return &Query{name, factory, it}, nil
}

/*
Root returns the compiled iterator tree.
*/
func (q *Query) Root() interpreter.RuntimeIterator {
	return q.root
}

/*
Run evaluates the query. The given variables are declared before the
evaluation starts; the context item is optional.
*/
func (q *Query) Run(vars map[item.Name]item.Sequence, contextItem *item.Item) (item.Sequence, error) {
	eval := interpreter.NewEvaluation(q.Name, q.Factory)
	dc := interpreter.NewDynamicContext(eval)

	for n, v := range vars {
		if v == nil {
			v = item.Sequence{}
		}
		dc.Declare(n, v)
	}

	if contextItem != nil {
		dc = dc.WithContextItem(contextItem, 1, 1)
	}

	res, err := interpreter.Materialize(q.root, dc)

	if open := eval.OpenCursors(); open != 0 {
		logger.Error(fmt.Sprintf("Query %v left %v open cursors", q.Name, open))
	}

	if err != nil {
		logger.Debug(fmt.Sprintf("Query %v failed: %v", q.Name, err))
		return nil, err
	}

	if res == nil {
		res = item.Sequence{}
	}

	return res, nil
}

/*
Parallelizable returns true if the query can be run independently on parts
of the value of an input variable and the concatenated results equal the
result of a single run on the whole value.
*/
func (q *Query) Parallelizable(inputVar item.Name) bool {
	return interpreter.Parallelizable(q.root, inputVar)
}

/*
String returns a string representation of this query.
*/
func (q *Query) String() string {
	return fmt.Sprintf("Query %v (%v)", q.Name, q.root.StaticContext())
}
