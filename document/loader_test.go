/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package document

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"testing"

	"devt.de/krotik/jsoniqdb/item"
)

/*
dump renders a node tree as an indented outline.
*/
func dump(n *item.Node, indent string, buf *bytes.Buffer) {
	fmt.Fprintf(buf, "%v%v %v\n", indent, n, n.Order())
	for _, c := range n.Children() {
		dump(c, indent+"  ", buf)
	}
}

func TestLoadJSON(t *testing.T) {
	f := item.NewFactory(100, 0)

	doc, err := LoadJSON(strings.NewReader(`{
  "name": "foo",
  "tags": ["a", "b"],
  "nested": { "x": 1.5, "y": null }
}`), f)
	if err != nil {
		t.Error(err)
		return
	}

	var buf bytes.Buffer
	dump(doc.Node(), "", &buf)

	if res := buf.String(); res != `
document-node() 1
  element(name) 2
    text("foo") 3
  element(nested) 4
    element(x) 5
      text("1.5") 6
    element(y) 7
  element(tags) 8
    text("a") 9
  element(tags) 10
    text("b") 11
`[1:] {
		t.Error("Unexpected result:", res)
		return
	}

	if _, err := LoadJSON(strings.NewReader(`{"a":`), f); err == nil {
		t.Error("Invalid JSON should not load")
		return
	}

	doc, _ = LoadJSON(strings.NewReader(`[1, 2]`), f)
	if res := len(doc.Node().Children()); res != 2 || doc.Node().Children()[0].Name().Local != ArrayMemberName {
		t.Error("Unexpected result:", res)
		return
	}

	doc, _ = LoadJSON(strings.NewReader(`"text"`), f)
	if res := doc.Node().StringValue(); res != "text" {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestLoadTOMLFile(t *testing.T) {
	f := item.NewFactory(100, 0)

	ioutil.WriteFile("test.toml", []byte(`
title = "conf"

[server]
port = 8080

[[users]]
name = "a"

[[users]]
name = "b"
`), 0644)

	defer os.Remove("test.toml")

	doc, err := LoadFile("test.toml", f)
	if err != nil {
		t.Error(err)
		return
	}

	var buf bytes.Buffer
	dump(doc.Node(), "", &buf)

	if res := buf.String(); res != `
document-node() 1
  element(server) 2
    element(port) 3
      text("8080") 4
  element(title) 5
    text("conf") 6
  element(users) 7
    element(name) 8
      text("a") 9
  element(users) 10
    element(name) 11
      text("b") 12
`[1:] {
		t.Error("Unexpected result:", res)
		return
	}

	if _, err := LoadFile("test.yaml", f); err == nil || err.Error() != "Unknown document type: test.yaml" {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := LoadFile("missing.json", f); err == nil {
		t.Error("Missing files should not load")
		return
	}
}
