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

import "devt.de/krotik/jsoniqdb/item"

/*
Parallelizable checks if a compiled tree can be evaluated independently for
parts of the value of an input variable. This is the case if the tree is a
FLWOR expression starting with a for clause in parallel mode over the input
variable, the input variable is not used anywhere else and no clause depends
on all tuples (order by, count).
*/
func Parallelizable(root RuntimeIterator, inputVar item.Name) bool {

	if p, ok := root.(*programIterator); ok {
		if len(p.statements) > 0 || p.result == nil {
			return false
		}
		root = p.result
	}

	flwor, ok := root.(*flworIterator)
	if !ok {
		return false
	}

	first, ok := flwor.clauses[0].(*forClause)
	if !ok || first.sctx.Mode != ModeParallel || first.posVar != nil {
		return false
	}

	if ref, ok := first.in.(*varRefIterator); !ok || ref.sctx.Var != inputVar {
		return false
	}

	for _, c := range flwor.clauses {
		switch c.(type) {
		case *orderByClause, *countClause:
			return false
		}
	}

	return countVarRefs(root, inputVar) == 1
}

/*
countVarRefs counts the references to a variable in a tree.
*/
func countVarRefs(it RuntimeIterator, name item.Name) int {
	var count int

	if ref, ok := it.(*varRefIterator); ok && ref.sctx.Var == name {
		count++
	}

	for _, c := range it.Children() {
		count += countVarRefs(c, name)
	}

	return count
}
