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
Package item contains the item model of the JSONiq runtime.

Item

An item is an immutable tagged value which flows through every runtime
iterator. It is either an atomic value (boolean, integer, decimal, string,
duration, date, dateTime), a hierarchical node or the null item.

Sequence

A sequence is an ordered list of items. The absence of an item is expressed
as a nil item pointer which is different from the null item.

Factory

The Factory constructs items and interns frequently used atomic values. It
is passed explicitly to every evaluation.
*/
package item

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"time"
)

/*
Kind is the type tag of an item
*/
type Kind int

/*
Known item kinds
*/
const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindDecimal
	KindString
	KindDuration
	KindDate
	KindDateTime
	KindNode
)

/*
kindNames maps item kinds to type names
*/
var kindNames = map[Kind]string{
	KindNull:     "js:null",
	KindBoolean:  "xs:boolean",
	KindInteger:  "xs:integer",
	KindDecimal:  "xs:decimal",
	KindString:   "xs:string",
	KindDuration: "xs:duration",
	KindDate:     "xs:date",
	KindDateTime: "xs:dateTime",
	KindNode:     "node()",
}

/*
String returns the type name of a kind.
*/
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

/*
Item models a single value.
*/
type Item struct {
	kind  Kind        // Type tag
	value interface{} // Typed payload
}

/*
nullItem is the only null item
*/
var nullItem = &Item{KindNull, nil}

/*
Null returns the null item.
*/
func Null() *Item {
	return nullItem
}

/*
NewBoolean creates a new boolean item.
*/
func NewBoolean(b bool) *Item {
	return &Item{KindBoolean, b}
}

/*
NewInteger creates a new integer item.
*/
func NewInteger(i int64) *Item {
	return &Item{KindInteger, i}
}

/*
NewDecimal creates a new decimal item.
*/
func NewDecimal(f float64) *Item {
	return &Item{KindDecimal, f}
}

/*
NewString creates a new string item.
*/
func NewString(s string) *Item {
	return &Item{KindString, s}
}

/*
NewDuration creates a new duration item.
*/
func NewDuration(d Duration) *Item {
	return &Item{KindDuration, d}
}

/*
NewDate creates a new date item. The time of day is dropped.
*/
func NewDate(t time.Time) *Item {
	y, m, d := t.Date()
	return &Item{KindDate, time.Date(y, m, d, 0, 0, 0, 0, t.Location())}
}

/*
NewDateTime creates a new dateTime item.
*/
func NewDateTime(t time.Time) *Item {
	return &Item{KindDateTime, t}
}

/*
NewNode creates a new node item.
*/
func NewNode(n *Node) *Item {
	return &Item{KindNode, n}
}

/*
ParseDate parses a date in the form YYYY-MM-DD.
*/
func ParseDate(s string) (*Item, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, &Error{ErrInvalidLexicalForm, fmt.Sprintf("date %q", s)}
	}
	return NewDate(t), nil
}

/*
ParseDateTime parses a RFC3339 dateTime.
*/
func ParseDateTime(s string) (*Item, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, &Error{ErrInvalidLexicalForm, fmt.Sprintf("dateTime %q", s)}
	}
	return NewDateTime(t), nil
}

/*
Kind returns the type tag of this item.
*/
func (i *Item) Kind() Kind {
	return i.kind
}

/*
TypeName returns the type name of this item.
*/
func (i *Item) TypeName() string {
	return i.kind.String()
}

/*
IsNull returns true if this is the null item.
*/
func (i *Item) IsNull() bool {
	return i.kind == KindNull
}

/*
IsNode returns true if this item is a node.
*/
func (i *Item) IsNode() bool {
	return i.kind == KindNode
}

/*
IsAtomic returns true if this item is an atomic value.
*/
func (i *Item) IsAtomic() bool {
	return i.kind != KindNode && i.kind != KindNull
}

/*
IsNumeric returns true if this item is an integer or a decimal.
*/
func (i *Item) IsNumeric() bool {
	return i.kind == KindInteger || i.kind == KindDecimal
}

/*
Bool returns the payload of a boolean item.
*/
func (i *Item) Bool() bool {
	b, _ := i.value.(bool)
	return b
}

/*
Int returns the payload of an integer item. Decimals are truncated.
*/
func (i *Item) Int() int64 {
	switch v := i.value.(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

/*
Float returns the numeric payload of an integer or decimal item.
*/
func (i *Item) Float() float64 {
	switch v := i.value.(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	}
	return math.NaN()
}

/*
Duration returns the payload of a duration item.
*/
func (i *Item) Duration() Duration {
	d, _ := i.value.(Duration)
	return d
}

/*
Time returns the payload of a date or dateTime item.
*/
func (i *Item) Time() time.Time {
	t, _ := i.value.(time.Time)
	return t
}

/*
Node returns the payload of a node item.
*/
func (i *Item) Node() *Node {
	n, _ := i.value.(*Node)
	return n
}

/*
StringValue returns the string value of this item.
*/
func (i *Item) StringValue() string {
	switch i.kind {
	case KindNull:
		return "null"
	case KindBoolean:
		return strconv.FormatBool(i.Bool())
	case KindInteger:
		return strconv.FormatInt(i.Int(), 10)
	case KindDecimal:
		return strconv.FormatFloat(i.Float(), 'f', -1, 64)
	case KindString:
		return i.value.(string)
	case KindDuration:
		return i.Duration().String()
	case KindDate:
		return i.Time().Format("2006-01-02")
	case KindDateTime:
		return i.Time().Format(time.RFC3339Nano)
	case KindNode:
		return i.Node().StringValue()
	}
	return ""
}

/*
String returns a string representation of this item.
*/
func (i *Item) String() string {
	switch i.kind {
	case KindString:
		return strconv.Quote(i.value.(string))
	case KindDuration:
		return fmt.Sprintf("duration(%q)", i.StringValue())
	case KindDate:
		return fmt.Sprintf("date(%q)", i.StringValue())
	case KindDateTime:
		return fmt.Sprintf("dateTime(%q)", i.StringValue())
	case KindNode:
		return i.Node().String()
	}
	return i.StringValue()
}

/*
Equals returns true if two items are identical atomic values or the same node.
*/
func (i *Item) Equals(other *Item) bool {
	if i == other {
		return true
	} else if other == nil {
		return false
	}

	if i.IsNumeric() && other.IsNumeric() {
		return i.Float() == other.Float()
	} else if i.kind != other.kind {
		return false
	}

	switch i.kind {
	case KindNode:
		return i.Node() == other.Node()
	case KindDuration:
		return i.Duration() == other.Duration()
	case KindDate, KindDateTime:
		return i.Time().Equal(other.Time())
	}

	return i.value == other.value
}

/*
Sequence is an ordered list of items.
*/
type Sequence []*Item

/*
String returns a string representation of this sequence.
*/
func (s Sequence) String() string {
	var buf bytes.Buffer

	buf.WriteString("[")
	for i, it := range s {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(it.String())
	}
	buf.WriteString("]")

	return buf.String()
}

/*
Equals returns true if two sequences contain equal items in the same order.
*/
func (s Sequence) Equals(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i, it := range s {
		if !it.Equals(other[i]) {
			return false
		}
	}
	return true
}
