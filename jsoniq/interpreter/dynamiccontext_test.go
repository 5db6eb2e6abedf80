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
	"errors"
	"testing"

	"devt.de/krotik/jsoniqdb/item"
)

func TestDynamicContextScoping(t *testing.T) {

	x := item.LocalName("x")
	y := item.LocalName("y")

	dc := newTestContext()

	dc.Declare(x, item.Sequence{item.NewInteger(1)})

	child := dc.NewChild()
	child.Declare(y, item.Sequence{item.NewString("a")})

	if res, ok := child.Lookup(x); !ok || res.String() != "[1]" {
		t.Error("Unexpected result:", res, ok)
		return
	}

	if _, ok := dc.Lookup(y); ok {
		t.Error("Variable of nested context should not be visible")
		return
	}

	// Assignment updates the innermost binding

	if err := child.Assign(x, item.Sequence{item.NewInteger(2)}); err != nil {
		t.Error(err)
		return
	}

	if res, _ := dc.Lookup(x); res.String() != "[2]" {
		t.Error("Unexpected result:", res)
		return
	}

	child.Declare(x, item.Sequence{item.NewInteger(3)})
	child.Assign(x, item.Sequence{item.NewInteger(4)})

	if res, _ := dc.Lookup(x); res.String() != "[2]" {
		t.Error("Unexpected result:", res)
		return
	}

	if res, _ := child.Lookup(x); res.String() != "[4]" {
		t.Error("Unexpected result:", res)
		return
	}

	if err := dc.Assign(y, nil); !errors.Is(err, ErrUndeclaredVariable) {
		t.Error("Unexpected result:", err)
		return
	}

	// Declaration without a value binds null

	dc.Declare(y, nil)

	if res, _ := dc.Lookup(y); res.String() != "[null]" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := child.String(); res != `$x: [4]
$y: ["a"]
` {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestDynamicContextFocus(t *testing.T) {

	dc := newTestContext()

	if dc.ContextItem() != nil || dc.Position() != 0 || dc.Size() != 0 {
		t.Error("Context item should be absent")
		return
	}

	fdc := dc.WithContextItem(item.NewString("foo"), 2, 5)
	child := fdc.NewChild()

	if ci := child.ContextItem(); ci == nil || ci.String() != `"foo"` ||
		child.Position() != 2 || child.Size() != 5 {
		t.Error("Unexpected result:", ci, child.Position(), child.Size())
		return
	}

	if dc.ContextItem() != nil {
		t.Error("Context item should not leak into the enclosing context")
		return
	}

	if res := child.String(); res != "$$: \"foo\" (2 of 5)\n" {
		t.Error("Unexpected result:", res)
		return
	}

	if child.Evaluation() != dc.Evaluation() || child.Factory() != dc.Evaluation().Factory {
		t.Error("Nested contexts should share the evaluation")
		return
	}
}

func TestDynamicContextBinding(t *testing.T) {

	x := item.LocalName("x")

	dc := newTestContext()

	it, _ := compile(seq(intLit(1), intLit(2)))

	bdc, err := dc.DeriveWithBinding(x, it)
	if err != nil {
		t.Error(err)
		return
	}

	if res, _ := bdc.Lookup(x); res.String() != "[1 2]" {
		t.Error("Unexpected result:", res)
		return
	}

	if _, ok := dc.Lookup(x); ok {
		t.Error("Binding should only exist in the derived context")
		return
	}

	// An empty result binds the empty sequence

	it, _ = compile(seq())

	if err := dc.BindIterator(x, it); err != nil {
		t.Error(err)
		return
	}

	if res, ok := dc.Lookup(x); !ok || res == nil || len(res) != 0 {
		t.Error("Unexpected result:", res, ok)
		return
	}

	it, _ = compile(varRef("y"))

	if _, err := dc.DeriveWithBinding(x, it); !errors.Is(err, ErrUndeclaredVariable) {
		t.Error("Unexpected result:", err)
		return
	}
}
