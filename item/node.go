/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package item

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
)

/*
NodeKind is the kind of a hierarchical node
*/
type NodeKind int

/*
Known node kinds
*/
const (
	DocumentNode NodeKind = iota
	ElementNode
	AttributeNode
	TextNode
)

/*
String returns the kind test name of a node kind.
*/
func (k NodeKind) String() string {
	switch k {
	case DocumentNode:
		return "document-node"
	case ElementNode:
		return "element"
	case AttributeNode:
		return "attribute"
	}
	return "text"
}

/*
Node models a hierarchical node. A node tree is assembled with AppendChild
and AddAttribute and becomes immutable once Renumber has been called on its
root. Nodes are only wrapped into items after that.
*/
type Node struct {
	id         uuid.UUID // Unique node identity
	kind       NodeKind  // Kind of this node
	name       Name      // Name of elements and attributes
	value      string    // Value of text and attribute nodes
	parent     *Node     // Parent node (nil for the root)
	children   []*Node   // Child nodes in document order
	attributes []*Node   // Attribute nodes
	order      int64     // Position in document order
}

/*
newNode creates a new unattached node.
*/
func newNode(kind NodeKind, name Name, value string) *Node {
	return &Node{uuid.New(), kind, name, value, nil, nil, nil, 0}
}

/*
NewDocumentNode creates a new document node.
*/
func NewDocumentNode() *Node {
	return newNode(DocumentNode, Name{}, "")
}

/*
NewElementNode creates a new element node.
*/
func NewElementNode(name Name) *Node {
	return newNode(ElementNode, name, "")
}

/*
NewAttributeNode creates a new attribute node.
*/
func NewAttributeNode(name Name, value string) *Node {
	return newNode(AttributeNode, name, value)
}

/*
NewTextNode creates a new text node.
*/
func NewTextNode(value string) *Node {
	return newNode(TextNode, Name{}, value)
}

/*
AppendChild adds a child node. Returns the child.
*/
func (n *Node) AppendChild(child *Node) *Node {
	child.parent = n
	n.children = append(n.children, child)
	return child
}

/*
AddAttribute adds an attribute node. Returns the attribute.
*/
func (n *Node) AddAttribute(attr *Node) *Node {
	attr.parent = n
	n.attributes = append(n.attributes, attr)
	return attr
}

/*
Renumber assigns document order positions to all nodes of the tree which
contains this node. Attributes come after their element and before its
children.
*/
func (n *Node) Renumber() {
	var counter int64

	var visit func(*Node)
	visit = func(c *Node) {
		counter++
		c.order = counter

		for _, a := range c.attributes {
			counter++
			a.order = counter
		}
		for _, child := range c.children {
			visit(child)
		}
	}

	visit(n.Root())
}

/*
ID returns the unique identity of this node.
*/
func (n *Node) ID() uuid.UUID {
	return n.id
}

/*
Kind returns the kind of this node.
*/
func (n *Node) Kind() NodeKind {
	return n.kind
}

/*
Name returns the name of this node.
*/
func (n *Node) Name() Name {
	return n.name
}

/*
Order returns the document order position of this node.
*/
func (n *Node) Order() int64 {
	return n.order
}

/*
Parent returns the parent of this node or nil.
*/
func (n *Node) Parent() *Node {
	return n.parent
}

/*
Children returns the children of this node. The returned slice must not be
modified.
*/
func (n *Node) Children() []*Node {
	return n.children
}

/*
Attributes returns the attributes of this node. The returned slice must not
be modified.
*/
func (n *Node) Attributes() []*Node {
	return n.attributes
}

/*
Root returns the root of the tree which contains this node.
*/
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

/*
siblings returns the sibling list which contains this node and its index.
*/
func (n *Node) siblings() ([]*Node, int) {
	if n.parent == nil || n.kind == AttributeNode {
		return nil, -1
	}

	sibs := n.parent.children
	for i, s := range sibs {
		if s == n {
			return sibs, i
		}
	}

	return nil, -1
}

/*
FollowingSiblings returns all following siblings in document order.
*/
func (n *Node) FollowingSiblings() []*Node {
	sibs, i := n.siblings()
	if i == -1 {
		return nil
	}
	return sibs[i+1:]
}

/*
PrecedingSiblings returns all preceding siblings, nearest first.
*/
func (n *Node) PrecedingSiblings() []*Node {
	sibs, i := n.siblings()
	if i == -1 {
		return nil
	}

	ret := make([]*Node, 0, i)
	for j := i - 1; j >= 0; j-- {
		ret = append(ret, sibs[j])
	}

	return ret
}

/*
StringValue returns the string value of this node. The string value of
documents and elements is the concatenation of all descendant text nodes.
*/
func (n *Node) StringValue() string {
	if n.kind == TextNode || n.kind == AttributeNode {
		return n.value
	}

	var buf bytes.Buffer

	var visit func(*Node)
	visit = func(c *Node) {
		for _, child := range c.children {
			if child.kind == TextNode {
				buf.WriteString(child.value)
			} else {
				visit(child)
			}
		}
	}
	visit(n)

	return buf.String()
}

/*
String returns a string representation of this node.
*/
func (n *Node) String() string {
	switch n.kind {
	case DocumentNode:
		return "document-node()"
	case ElementNode:
		return fmt.Sprintf("element(%v)", n.name)
	case AttributeNode:
		return fmt.Sprintf("attribute(%v=%q)", n.name, n.value)
	}
	return fmt.Sprintf("text(%q)", n.value)
}
