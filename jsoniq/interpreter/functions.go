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
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"devt.de/krotik/common/stringutil"
	"devt.de/krotik/jsoniqdb/item"
	"devt.de/krotik/jsoniqdb/jsoniq/ast"
)

/*
FunctionNamespace is the namespace of the built-in functions
*/
const FunctionNamespace = "http://www.w3.org/2005/xpath-functions"

/*
scalarFunc computes the result of a scalar function. Arguments which
produced no item are nil.
*/
type scalarFunc func(f *item.Factory, args []*item.Item) (*item.Item, error)

/*
sequenceFunc computes the result of a function over complete sequences.
*/
type sequenceFunc func(f *item.Factory, args []item.Sequence) (item.Sequence, error)

/*
focusFunc computes the result of a function from the focus of a dynamic
context.
*/
type focusFunc func(dc *DynamicContext) *item.Item

/*
functionDef describes a built-in function.
*/
type functionDef struct {
	minArgs        int          // Minimum number of arguments
	maxArgs        int          // Maximum number of arguments
	scalar         scalarFunc   // Implementation for scalar functions
	sequence       sequenceFunc // Implementation for sequence functions
	absentIsAbsent bool         // Flag if an absent argument produces no item
	contextDefault bool         // Flag if a missing argument is the context item
	nodeArgs       bool         // Flag if node arguments are passed without atomization
	focus          focusFunc    // Implementation for functions which read the focus
}

/*
functions is the library of built-in functions
*/
var functions = map[string]*functionDef{

	// Durations

	"years-from-duration":   durationComponent(func(d item.Duration) interface{} { return d.Years() }),
	"months-from-duration":  durationComponent(func(d item.Duration) interface{} { return d.Months() }),
	"days-from-duration":    durationComponent(func(d item.Duration) interface{} { return d.Days() }),
	"hours-from-duration":   durationComponent(func(d item.Duration) interface{} { return d.Hours() }),
	"minutes-from-duration": durationComponent(func(d item.Duration) interface{} { return d.Minutes() }),
	"seconds-from-duration": durationComponent(func(d item.Duration) interface{} { return d.Seconds() }),
	"duration": {1, 1, func(f *item.Factory, args []*item.Item) (*item.Item, error) {
		d, err := item.ParseDuration(args[0].StringValue())
		if err != nil {
			return nil, err
		}
		return f.Duration(d), nil
	}, nil, true, false, false, nil},

	// Dates

	"year-from-date":  dateComponent(func(y, m, d int) int { return y }),
	"month-from-date": dateComponent(func(y, m, d int) int { return m }),
	"day-from-date":   dateComponent(func(y, m, d int) int { return d }),
	"date": {1, 1, func(f *item.Factory, args []*item.Item) (*item.Item, error) {
		if k := args[0].Kind(); k == item.KindDate || k == item.KindDateTime {
			return item.NewDate(args[0].Time()), nil
		}
		return item.ParseDate(args[0].StringValue())
	}, nil, true, false, false, nil},

	// Strings

	"string": {0, 1, func(f *item.Factory, args []*item.Item) (*item.Item, error) {
		if args[0] == nil {
			return f.String(""), nil
		}
		return f.String(args[0].StringValue()), nil
	}, nil, false, true, false, nil},
	"string-length": {0, 1, func(f *item.Factory, args []*item.Item) (*item.Item, error) {
		if args[0] == nil {
			return f.Integer(0), nil
		}
		return f.Integer(int64(utf8.RuneCountInString(args[0].StringValue()))), nil
	}, nil, false, true, false, nil},
	"upper-case": stringFunction(strings.ToUpper),
	"lower-case": stringFunction(strings.ToLower),

	// Booleans

	"boolean": {1, 1, nil, func(f *item.Factory, args []item.Sequence) (item.Sequence, error) {
		b, err := item.EffectiveBooleanValue(args[0])
		return item.Sequence{f.Boolean(b)}, err
	}, false, false, false, nil},
	"not": {1, 1, nil, func(f *item.Factory, args []item.Sequence) (item.Sequence, error) {
		b, err := item.EffectiveBooleanValue(args[0])
		return item.Sequence{f.Boolean(!b)}, err
	}, false, false, false, nil},

	// Numbers

	"abs": {1, 1, func(f *item.Factory, args []*item.Item) (*item.Item, error) {
		a := args[0]
		if a.Kind() == item.KindInteger {
			if a.Int() < 0 {
				return f.Integer(-a.Int()), nil
			}
			return a, nil
		} else if a.IsNumeric() {
			return f.Decimal(math.Abs(a.Float())), nil
		}
		return nil, &item.Error{Type: ErrUnexpectedType, Detail: "abs of " + a.TypeName()}
	}, nil, true, false, false, nil},

	// Nodes

	"name": {0, 1, func(f *item.Factory, args []*item.Item) (*item.Item, error) {
		n, err := nodeArgument("name", args[0])
		if err != nil || n == nil {
			return f.String(""), err
		}
		return f.String(n.Name().String()), nil
	}, nil, false, true, true, nil},
	"local-name": {0, 1, func(f *item.Factory, args []*item.Item) (*item.Item, error) {
		n, err := nodeArgument("local-name", args[0])
		if err != nil || n == nil {
			return f.String(""), err
		}
		return f.String(n.Name().Local), nil
	}, nil, false, true, true, nil},
	"root": {0, 1, func(f *item.Factory, args []*item.Item) (*item.Item, error) {
		n, err := nodeArgument("root", args[0])
		if err != nil {
			return nil, err
		}
		return f.Node(n.Root()), nil
	}, nil, true, true, true, nil},

	// Sequences

	"count": {1, 1, nil, func(f *item.Factory, args []item.Sequence) (item.Sequence, error) {
		return item.Sequence{f.Integer(int64(len(args[0])))}, nil
	}, false, false, false, nil},
	"empty": {1, 1, nil, func(f *item.Factory, args []item.Sequence) (item.Sequence, error) {
		return item.Sequence{f.Boolean(len(args[0]) == 0)}, nil
	}, false, false, false, nil},
	"exists": {1, 1, nil, func(f *item.Factory, args []item.Sequence) (item.Sequence, error) {
		return item.Sequence{f.Boolean(len(args[0]) != 0)}, nil
	}, false, false, false, nil},
	"sum":  {1, 1, nil, sum, false, false, false, nil},
	"data": {1, 1, nil, data, false, false, false, nil},

	// Focus

	"position": {maxArgs: 0, focus: func(dc *DynamicContext) *item.Item {
		return dc.Factory().Integer(dc.Position())
	}},
	"last": {maxArgs: 0, focus: func(dc *DynamicContext) *item.Item {
		return dc.Factory().Integer(dc.Size())
	}},
}

/*
durationComponent creates a function which extracts a component of a
duration.
*/
func durationComponent(component func(d item.Duration) interface{}) *functionDef {
	return &functionDef{1, 1, func(f *item.Factory, args []*item.Item) (*item.Item, error) {
		var d item.Duration
		var err error

		switch args[0].Kind() {
		case item.KindDuration:
			d = args[0].Duration()
		case item.KindString:
			if d, err = item.ParseDuration(args[0].StringValue()); err != nil {
				return nil, err
			}
		default:
			return nil, &item.Error{Type: ErrUnexpectedType,
				Detail: "expected a duration not " + args[0].TypeName()}
		}

		switch v := component(d).(type) {
		case int64:
			return f.Integer(v), nil
		case float64:
			return f.Decimal(v), nil
		}

		return nil, nil
	}, nil, true, false, false, nil}
}

/*
dateComponent creates a function which extracts a component of a date.
*/
func dateComponent(component func(y, m, d int) int) *functionDef {
	return &functionDef{1, 1, func(f *item.Factory, args []*item.Item) (*item.Item, error) {
		a := args[0]

		if k := a.Kind(); k != item.KindDate && k != item.KindDateTime {
			var err error

			if a, err = item.ParseDate(a.StringValue()); err != nil {
				return nil, &item.Error{Type: ErrUnexpectedType,
					Detail: "expected a date not " + args[0].TypeName()}
			}
		}

		t := a.Time()

		return f.Integer(int64(component(t.Year(), int(t.Month()), t.Day()))), nil
	}, nil, true, false, false, nil}
}

/*
stringFunction creates a function which transforms a string value.
*/
func stringFunction(transform func(string) string) *functionDef {
	return &functionDef{1, 1, func(f *item.Factory, args []*item.Item) (*item.Item, error) {
		if args[0] == nil {
			return f.String(""), nil
		}
		return f.String(transform(args[0].StringValue())), nil
	}, nil, false, false, false, nil}
}

/*
nodeArgument checks that a function argument is a node.
*/
func nodeArgument(name string, a *item.Item) (*item.Node, error) {
	if a == nil {
		return nil, nil
	} else if !a.IsNode() {
		return nil, &item.Error{Type: ErrNodeExpected, Detail: name + " of " + a.TypeName()}
	}
	return a.Node(), nil
}

/*
sum adds all items of a sequence. The sum of an empty sequence is 0.
*/
func sum(f *item.Factory, args []item.Sequence) (item.Sequence, error) {
	var isum int64
	var fsum float64

	decimal := false
	overflow := false

	for _, a := range args[0] {
		a = item.Atomize(a)

		if !a.IsNumeric() {
			return nil, &item.Error{Type: ErrUnexpectedType, Detail: "sum of " + a.TypeName()}
		}

		if a.Kind() == item.KindDecimal {
			decimal = true
		}

		if !decimal && !overflow {
			var ok bool
			isum, ok = integerArithmetic(ast.OpAdd, isum, a.Int())
			overflow = !ok
		}

		fsum += a.Float()
	}

	if decimal {
		return item.Sequence{f.Decimal(fsum)}, nil
	}

	if overflow {
		return nil, &item.Error{Type: ErrArithmeticOverflow, Detail: "sum of integers"}
	}

	return item.Sequence{f.Integer(isum)}, nil
}

/*
data atomizes all items of a sequence.
*/
func data(f *item.Factory, args []item.Sequence) (item.Sequence, error) {
	res := make(item.Sequence, 0, len(args[0]))

	for _, a := range args[0] {
		res = append(res, item.Atomize(a))
	}

	return res, nil
}

/*
lookupFunction looks up a built-in function and checks the number of
arguments.
*/
func lookupFunction(name item.Name, nargs int) (*functionDef, string) {
	if name.Namespace == FunctionNamespace {
		if def, ok := functions[name.Local]; ok {

			if nargs < def.minArgs || nargs > def.maxArgs {
				if def.minArgs == def.maxArgs {
					return nil, fmt.Sprintf("%v takes %v argument%v not %v", name.Local,
						def.maxArgs, stringutil.Plural(def.maxArgs), nargs)
				}
				return nil, fmt.Sprintf("%v takes %v to %v arguments not %v", name.Local,
					def.minArgs, def.maxArgs, nargs)
			}

			return def, ""
		}

		return nil, "fn:" + name.Local + suggestFunction(name.Local)
	}

	return nil, name.String()
}

/*
suggestFunction suggests a known function for a misspelled name.
*/
func suggestFunction(local string) string {
	var names []string

	for n := range functions {
		if stringutil.LevenshteinDistance(n, local) <= 2 {
			names = append(names, n)
		}
	}

	if len(names) == 0 {
		return ""
	}

	sort.Strings(names)

	return fmt.Sprintf(" (did you mean %v?)", strings.Join(names, " or "))
}

// Function iterators
// ==================

/*
newFunctionIterator creates the iterator for a call of a built-in function.
*/
func newFunctionIterator(sctx *StaticContext, name item.Name, def *functionDef,
	args ...RuntimeIterator) RuntimeIterator {

	base := newBaseIterator(sctx, def.minArgs, def.maxArgs, args...)

	if def.focus != nil {
		sctx.Cardinality = CardinalityAtMostOne
		return &focusFunctionIterator{base, name, def}
	}

	if def.scalar != nil {
		sctx.Cardinality = CardinalityAtMostOne
		return &functionIterator{base, name, def}
	}

	return &sequenceFunctionIterator{base, name, def}
}

/*
functionIterator evaluates a scalar function. Each argument is pulled with
MaterializeFirstItemOrNull; an absent argument produces no item unless the
function handles absent arguments itself.
*/
type functionIterator struct {
	baseIterator
	name item.Name
	def  *functionDef
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (rt *functionIterator) Open(dc *DynamicContext) (Cursor, error) {
	return openAtMostOne(rt, dc)
}

/*
MaterializeFirstItemOrNull evaluates the function.
*/
func (rt *functionIterator) MaterializeFirstItemOrNull(dc *DynamicContext) (*item.Item, error) {
	var args []*item.Item

	if len(rt.children) == 0 && rt.def.contextDefault {
		ci := dc.ContextItem()
		if ci == nil {
			return nil, newRuntimeError(ErrAbsentContextItem, rt.name.Local+"()", rt.sctx.Meta)
		}
		args = append(args, ci)
	}

	for _, c := range rt.children {
		a, err := materializeAtMostOne(c, dc)
		if err != nil {
			return nil, err
		}

		if a == nil && rt.def.absentIsAbsent {
			return nil, nil
		}

		if a != nil && !rt.def.nodeArgs {
			a = item.Atomize(a)
		}

		args = append(args, a)
	}

	res, err := rt.def.scalar(dc.Factory(), args)

	return res, wrapItemError(err, rt.sctx.Meta)
}

/*
sequenceFunctionIterator evaluates a function over complete argument
sequences.
*/
type sequenceFunctionIterator struct {
	baseIterator
	name item.Name
	def  *functionDef
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (rt *sequenceFunctionIterator) Open(dc *DynamicContext) (Cursor, error) {
	return openCursor(dc, rt.sctx, lazyFetch(func() (item.Sequence, error) {
		var args []item.Sequence

		for _, c := range rt.children {
			seq, err := Materialize(c, dc)
			if err != nil {
				return nil, err
			}
			args = append(args, seq)
		}

		res, err := rt.def.sequence(dc.Factory(), args)

		return res, wrapItemError(err, rt.sctx.Meta)
	}), nil)
}

/*
focusFunctionIterator evaluates a function which reads the focus of the
dynamic context.
*/
type focusFunctionIterator struct {
	baseIterator
	name item.Name
	def  *functionDef
}

/*
Open starts an evaluation of this iterator against a dynamic context.
*/
func (rt *focusFunctionIterator) Open(dc *DynamicContext) (Cursor, error) {
	return openAtMostOne(rt, dc)
}

/*
MaterializeFirstItemOrNull evaluates the function.
*/
func (rt *focusFunctionIterator) MaterializeFirstItemOrNull(dc *DynamicContext) (*item.Item, error) {
	if dc.ContextItem() == nil {
		return nil, newRuntimeError(ErrAbsentContextItem, rt.name.Local+"()", rt.sctx.Meta)
	}

	return rt.def.focus(dc), nil
}
