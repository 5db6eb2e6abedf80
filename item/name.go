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
	"fmt"
	"strings"
)

/*
InternalNamespace is the namespace of runtime internal names
*/
const InternalNamespace = "http://jsoniq.org/runtime/internal"

/*
ContextItemName is the name of the context item binding
*/
var ContextItemName = Name{InternalNamespace, "$$"}

/*
Name is a qualified name. Names are comparable and can be used as map keys.
*/
type Name struct {
	Namespace string // Namespace URI
	Local     string // Local part
}

/*
NewName creates a new qualified name.
*/
func NewName(namespace string, local string) Name {
	return Name{namespace, local}
}

/*
LocalName creates a name without a namespace.
*/
func LocalName(local string) Name {
	return Name{"", local}
}

/*
ParseName parses a lexical name of the form prefix:local or local. The prefix
is resolved with the given namespace bindings.
*/
func ParseName(qname string, namespaces map[string]string) (Name, error) {
	prefix, local := "", qname

	if i := strings.Index(qname, ":"); i != -1 {
		prefix, local = qname[:i], qname[i+1:]
	}

	if local == "" || strings.Contains(local, ":") {
		return Name{}, &Error{ErrInvalidName, qname}
	}

	if prefix == "" {
		return LocalName(local), nil
	}

	ns, ok := namespaces[prefix]
	if !ok {
		return Name{}, &Error{ErrInvalidName, fmt.Sprintf("unbound prefix %v in %v", prefix, qname)}
	}

	return Name{ns, local}, nil
}

/*
String returns the name in Clark notation.
*/
func (n Name) String() string {
	if n.Namespace == "" {
		return n.Local
	}
	return fmt.Sprintf("Q{%v}%v", n.Namespace, n.Local)
}
