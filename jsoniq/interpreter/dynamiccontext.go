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
	"bytes"
	"fmt"
	"sort"

	"devt.de/krotik/jsoniqdb/item"
	"devt.de/krotik/jsoniqdb/jsoniq/ast"
)

/*
DynamicContext holds variable bindings and the context item of an
evaluation. Contexts form a chain; lookups walk from the innermost context
to the outermost one.
*/
type DynamicContext struct {
	parent *DynamicContext             // Enclosing context
	eval   *Evaluation                 // Evaluation which owns this context
	vars   map[item.Name]item.Sequence // Local bindings

	ctxItem *item.Item // Context item (nil if not set in this context)
	pos     int64      // Context position
	size    int64      // Context size
}

/*
NewDynamicContext creates a new root context for an evaluation.
*/
func NewDynamicContext(eval *Evaluation) *DynamicContext {
	return &DynamicContext{nil, eval, make(map[item.Name]item.Sequence), nil, 0, 0}
}

/*
NewChild creates a new nested context.
*/
func (dc *DynamicContext) NewChild() *DynamicContext {
	return &DynamicContext{dc, dc.eval, make(map[item.Name]item.Sequence), nil, 0, 0}
}

/*
Evaluation returns the evaluation which owns this context.
*/
func (dc *DynamicContext) Evaluation() *Evaluation {
	return dc.eval
}

/*
Factory returns the item factory of the evaluation.
*/
func (dc *DynamicContext) Factory() *item.Factory {
	return dc.eval.Factory
}

/*
Declare binds a variable in this context. A nil sequence declares the
variable with the null item.
*/
func (dc *DynamicContext) Declare(name item.Name, seq item.Sequence) {
	if seq == nil {
		seq = item.Sequence{item.Null()}
	}
	dc.vars[name] = seq
}

/*
Assign updates the innermost binding of a variable.
*/
func (dc *DynamicContext) Assign(name item.Name, seq item.Sequence) error {
	for c := dc; c != nil; c = c.parent {
		if _, ok := c.vars[name]; ok {
			c.vars[name] = seq
			return nil
		}
	}

	return newRuntimeError(ErrUndeclaredVariable, "$"+name.String(), ast.Metadata{})
}

/*
Lookup returns the value of a variable.
*/
func (dc *DynamicContext) Lookup(name item.Name) (item.Sequence, bool) {
	for c := dc; c != nil; c = c.parent {
		if seq, ok := c.vars[name]; ok {
			return seq, true
		}
	}

	return nil, false
}

/*
WithContextItem creates a nested context with a given context item,
context position and context size.
*/
func (dc *DynamicContext) WithContextItem(it *item.Item, pos int64, size int64) *DynamicContext {
	child := dc.NewChild()

	child.ctxItem = it
	child.pos = pos
	child.size = size

	return child
}

/*
focus returns the innermost context which has a context item.
*/
func (dc *DynamicContext) focus() *DynamicContext {
	for c := dc; c != nil; c = c.parent {
		if c.ctxItem != nil {
			return c
		}
	}
	return nil
}

/*
ContextItem returns the context item or nil if it is absent.
*/
func (dc *DynamicContext) ContextItem() *item.Item {
	if f := dc.focus(); f != nil {
		return f.ctxItem
	}
	return nil
}

/*
Position returns the context position (0 if the context item is absent).
*/
func (dc *DynamicContext) Position() int64 {
	if f := dc.focus(); f != nil {
		return f.pos
	}
	return 0
}

/*
Size returns the context size (0 if the context item is absent).
*/
func (dc *DynamicContext) Size() int64 {
	if f := dc.focus(); f != nil {
		return f.size
	}
	return 0
}

/*
BindIterator evaluates an iterator in this context and binds its complete
result to a variable of this context.
*/
func (dc *DynamicContext) BindIterator(name item.Name, it RuntimeIterator) error {
	seq, err := Materialize(it, dc)

	if err == nil {
		if seq == nil {
			seq = item.Sequence{}
		}
		dc.vars[name] = seq
	}

	return err
}

/*
DeriveWithBinding evaluates an iterator in this context and returns a nested
context in which a variable is bound to the result.
*/
func (dc *DynamicContext) DeriveWithBinding(name item.Name, it RuntimeIterator) (*DynamicContext, error) {
	child := dc.NewChild()

	if err := child.BindIterator(name, it); err != nil {
		return nil, err
	}

	return child, nil
}

/*
String returns a string representation of all visible bindings.
*/
func (dc *DynamicContext) String() string {
	var buf bytes.Buffer

	seen := make(map[item.Name]bool)
	var names []string
	values := make(map[string]item.Sequence)

	for c := dc; c != nil; c = c.parent {
		for n, v := range c.vars {
			if !seen[n] {
				seen[n] = true
				names = append(names, n.String())
				values[n.String()] = v
			}
		}
	}

	sort.Strings(names)

	for _, n := range names {
		buf.WriteString(fmt.Sprintf("$%v: %v\n", n, values[n]))
	}

	if ci := dc.ContextItem(); ci != nil {
		buf.WriteString(fmt.Sprintf("$$: %v (%v of %v)\n", ci, dc.Position(), dc.Size()))
	}

	return buf.String()
}
