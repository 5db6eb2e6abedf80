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
	"devt.de/krotik/common/sortutil"
	"devt.de/krotik/jsoniqdb/item"
	"devt.de/krotik/jsoniqdb/jsoniq/ast"
)

// Node tests
// ==========

/*
nodeTest selects nodes by kind or name. Name tests match nodes of the
principal node kind of the axis (attributes for the attribute axis,
elements otherwise).
*/
type nodeTest struct {
	kind      ast.NodeTestKind
	name      item.Name // Name for name tests
	anyNS     bool      // Flag if any namespace matches
	anyLocal  bool      // Flag if any local name matches
	principal item.NodeKind
}

/*
matches checks if a node passes this test.
*/
func (t *nodeTest) matches(n *item.Node) bool {
	switch t.kind {
	case ast.TestAnyNode:
		return true
	case ast.TestText:
		return n.Kind() == item.TextNode
	case ast.TestElement:
		return n.Kind() == item.ElementNode
	case ast.TestAttribute:
		return n.Kind() == item.AttributeNode
	case ast.TestDocument:
		return n.Kind() == item.DocumentNode
	}

	if n.Kind() != t.principal {
		return false
	}

	name := n.Name()

	return (t.anyNS || name.Namespace == t.name.Namespace) &&
		(t.anyLocal || name.Local == t.name.Local)
}

// Axes
// ====

/*
axisFunc enumerates the nodes of an axis in axis order.
*/
type axisFunc func(n *item.Node) []*item.Node

/*
axisFuncs maps axes to their enumeration functions
*/
var axisFuncs = map[ast.Axis]axisFunc{
	ast.AxisSelf: func(n *item.Node) []*item.Node {
		return []*item.Node{n}
	},
	ast.AxisChild: func(n *item.Node) []*item.Node {
		return n.Children()
	},
	ast.AxisAttribute: func(n *item.Node) []*item.Node {
		return n.Attributes()
	},
	ast.AxisParent: func(n *item.Node) []*item.Node {
		if p := n.Parent(); p != nil {
			return []*item.Node{p}
		}
		return nil
	},
	ast.AxisDescendant: func(n *item.Node) []*item.Node {
		return descendants(n, nil)
	},
	ast.AxisDescendantOrSelf: func(n *item.Node) []*item.Node {
		return descendants(n, []*item.Node{n})
	},
	ast.AxisAncestor: func(n *item.Node) []*item.Node {
		return ancestors(n, nil)
	},
	ast.AxisAncestorOrSelf: func(n *item.Node) []*item.Node {
		return ancestors(n, []*item.Node{n})
	},
	ast.AxisFollowingSibling: func(n *item.Node) []*item.Node {
		return n.FollowingSiblings()
	},
	ast.AxisPrecedingSibling: func(n *item.Node) []*item.Node {
		return n.PrecedingSiblings()
	},
	ast.AxisFollowing: following,
	ast.AxisPreceding: preceding,
}

/*
descendants appends all descendants of a node in document order.
*/
func descendants(n *item.Node, res []*item.Node) []*item.Node {
	for _, c := range n.Children() {
		res = append(res, c)
		res = descendants(c, res)
	}
	return res
}

/*
ancestors appends all ancestors of a node starting with the parent.
*/
func ancestors(n *item.Node, res []*item.Node) []*item.Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		res = append(res, p)
	}
	return res
}

/*
following returns all nodes after a node in document order which are not
descendants of the node. Attributes are never part of the result.
*/
func following(n *item.Node) []*item.Node {
	var res []*item.Node

	if n.Kind() == item.AttributeNode {
		if n = n.Parent(); n == nil {
			return nil
		}
		res = descendants(n, res)
	}

	for a := n; a != nil; a = a.Parent() {
		for _, s := range a.FollowingSiblings() {
			res = append(res, s)
			res = descendants(s, res)
		}
	}

	return res
}

/*
preceding returns all nodes before a node in document order which are not
ancestors of the node. The nodes are returned in reverse document order.
*/
func preceding(n *item.Node) []*item.Node {
	var res []*item.Node

	if n.Kind() == item.AttributeNode {
		if n = n.Parent(); n == nil {
			return nil
		}
	}

	for a := n; a != nil; a = a.Parent() {
		for _, s := range a.PrecedingSiblings() {
			sub := descendants(s, []*item.Node{s})
			for i := len(sub) - 1; i >= 0; i-- {
				res = append(res, sub[i])
			}
		}
	}

	return res
}

/*
axisIterator enumerates the nodes of an axis starting at the context item.
The enumeration is computed on the first fetch and cached until the cursor
is closed. Nodes are produced in axis order (reverse axes produce the
nearest node first).
*/
type axisIterator struct {
	baseIterator
	axis ast.Axis
	test *nodeTest
}

func newAxisIterator(sctx *StaticContext, axis ast.Axis, test *nodeTest) *axisIterator {
	return &axisIterator{newBaseIterator(sctx, 0, 0), axis, test}
}

/*
Axis returns the axis of this iterator.
*/
func (rt *axisIterator) Axis() ast.Axis {
	return rt.axis
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (rt *axisIterator) Open(dc *DynamicContext) (Cursor, error) {
	return openCursor(dc, rt.sctx, lazyFetch(func() (item.Sequence, error) {
		return rt.nodes(dc)
	}), nil)
}

/*
nodes computes the enumeration of this axis.
*/
func (rt *axisIterator) nodes(dc *DynamicContext) (item.Sequence, error) {
	var res item.Sequence

	ci := dc.ContextItem()

	if ci == nil {
		return nil, newRuntimeError(ErrNodeExpected, "context item is absent", rt.sctx.Meta)
	} else if !ci.IsNode() {
		return nil, newRuntimeError(ErrNodeExpected, "context item is "+ci.TypeName(), rt.sctx.Meta)
	}

	f := dc.Factory()

	for _, n := range axisFuncs[rt.axis](ci.Node()) {
		if rt.test.matches(n) {
			res = append(res, f.Node(n))
		}
	}

	return res, nil
}

// Path expressions
// ================

/*
stepIterator applies an axis with predicates to the context item. The
predicates see the nodes in axis order.
*/
type stepIterator struct {
	baseIterator
}

func newStepIterator(sctx *StaticContext, axis *axisIterator, predicates ...RuntimeIterator) *stepIterator {
	return &stepIterator{newBaseIterator(sctx, 1, -1, append([]RuntimeIterator{axis}, predicates...)...)}
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (rt *stepIterator) Open(dc *DynamicContext) (Cursor, error) {
	return openCursor(dc, rt.sctx, lazyFetch(func() (item.Sequence, error) {
		seq, err := Materialize(rt.children[0], dc)
		if err != nil {
			return nil, err
		}

		return applyPredicates(rt.children[1:], seq, dc)
	}), nil)
}

/*
rootIterator produces the root of the tree containing the context item.
*/
type rootIterator struct {
	baseIterator
}

func newRootIterator(sctx *StaticContext) *rootIterator {
	sctx.Cardinality = CardinalityAtMostOne
	return &rootIterator{newBaseIterator(sctx, 0, 0)}
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (rt *rootIterator) Open(dc *DynamicContext) (Cursor, error) {
	return openAtMostOne(rt, dc)
}

/*
MaterializeFirstItemOrNull returns the root node.
*/
func (rt *rootIterator) MaterializeFirstItemOrNull(dc *DynamicContext) (*item.Item, error) {
	ci := dc.ContextItem()

	if ci == nil {
		return nil, newRuntimeError(ErrNodeExpected, "context item is absent", rt.sctx.Meta)
	} else if !ci.IsNode() {
		return nil, newRuntimeError(ErrNodeExpected, "context item is "+ci.TypeName(), rt.sctx.Meta)
	}

	return dc.Factory().Node(ci.Node().Root()), nil
}

/*
pathIterator applies a list of steps to the result of a start expression.
Each step is applied to every item of its input; the union of the results
is passed on in document order without duplicates. Without a start
expression the first step is applied to the context item.
*/
type pathIterator struct {
	baseIterator
	hasStart bool
}

func newPathIterator(sctx *StaticContext, start RuntimeIterator, steps ...RuntimeIterator) *pathIterator {
	if start == nil {
		return &pathIterator{newBaseIterator(sctx, 1, -1, steps...), false}
	}
	return &pathIterator{newBaseIterator(sctx, 2, -1, append([]RuntimeIterator{start}, steps...)...), true}
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (rt *pathIterator) Open(dc *DynamicContext) (Cursor, error) {
	return openCursor(dc, rt.sctx, lazyFetch(func() (item.Sequence, error) {
		seq, err := Materialize(rt.children[0], dc)
		if err != nil {
			return nil, err
		}

		steps := rt.children[1:]

		if !rt.hasStart {
			seq = documentOrder(seq)
		}

		for _, step := range steps {
			if seq, err = rt.applyStep(step, seq, dc); err != nil {
				return nil, err
			}
		}

		return seq, nil
	}), nil)
}

/*
applyStep applies a step to every item of an input sequence.
*/
func (rt *pathIterator) applyStep(step RuntimeIterator, seq item.Sequence, dc *DynamicContext) (item.Sequence, error) {
	var res item.Sequence

	size := int64(len(seq))

	for i, it := range seq {
		if !it.IsNode() {
			return nil, newRuntimeError(ErrNodeExpected,
				"path step applied to "+it.TypeName(), step.StaticContext().Meta)
		}

		sres, err := Materialize(step, dc.WithContextItem(it, int64(i+1), size))
		if err != nil {
			return nil, err
		}

		res = append(res, sres...)
	}

	return documentOrder(res), nil
}

/*
documentOrder sorts nodes into document order and removes duplicates. Nodes
of different trees are grouped by tree in order of first appearance.
*/
func documentOrder(seq item.Sequence) item.Sequence {
	var roots []*item.Node
	var res item.Sequence

	orders := make(map[*item.Node][]int64)
	nodes := make(map[*item.Node]map[int64]*item.Item)

	for _, it := range seq {
		n := it.Node()
		r := n.Root()

		if _, ok := nodes[r]; !ok {
			roots = append(roots, r)
			nodes[r] = make(map[int64]*item.Item)
		}

		if _, ok := nodes[r][n.Order()]; !ok {
			nodes[r][n.Order()] = it
			orders[r] = append(orders[r], n.Order())
		}
	}

	for _, r := range roots {
		o := orders[r]
		sortutil.Int64s(o)

		for _, k := range o {
			res = append(res, nodes[r][k])
		}
	}

	return res
}
