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
Package document loads external JSON and TOML data into node trees which
can be navigated with axis steps.

Objects become elements with one child element per key (keys in sorted
order), arrays become repeated elements with the name of their key and
scalar values become text nodes. The root of every loaded tree is a
document node.
*/
package document

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"devt.de/krotik/jsoniqdb/item"
)

/*
ArrayMemberName is the element name for members of top-level arrays
*/
const ArrayMemberName = "member"

/*
LoadJSON loads a JSON document from a reader.
*/
func LoadJSON(r io.Reader, f *item.Factory) (*item.Item, error) {
	var data interface{}

	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("Could not decode JSON document: %v", err)
	}

	return build(data, f), nil
}

/*
LoadTOML loads a TOML document from a reader.
*/
func LoadTOML(r io.Reader, f *item.Factory) (*item.Item, error) {
	var data map[string]interface{}

	if _, err := toml.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("Could not decode TOML document: %v", err)
	}

	return build(data, f), nil
}

/*
LoadFile loads a document from a file. The decoder is chosen by the file
extension (.json or .toml).
*/
func LoadFile(path string, f *item.Factory) (*item.Item, error) {
	var load func(io.Reader, *item.Factory) (*item.Item, error)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		load = LoadJSON
	case ".toml":
		load = LoadTOML
	default:
		return nil, fmt.Errorf("Unknown document type: %v", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return load(file, f)
}

/*
build creates a document node for some decoded data.
*/
func build(data interface{}, f *item.Factory) *item.Item {
	doc := item.NewDocumentNode()

	if l, ok := data.([]interface{}); ok {
		for _, v := range l {
			addValue(doc, ArrayMemberName, v)
		}
	} else if m, ok := data.(map[string]interface{}); ok {
		addMembers(doc, m)
	} else {
		addScalar(doc, data)
	}

	doc.Renumber()

	return f.Node(doc)
}

/*
addMembers adds one element per map key to a parent node.
*/
func addMembers(parent *item.Node, m map[string]interface{}) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		addValue(parent, k, m[k])
	}
}

/*
addValue adds a value under a given name to a parent node.
*/
func addValue(parent *item.Node, name string, v interface{}) {

	switch val := v.(type) {
	case []interface{}:
		for _, lv := range val {
			addValue(parent, name, lv)
		}

	case []map[string]interface{}:
		for _, lv := range val {
			addValue(parent, name, lv)
		}

	case map[string]interface{}:
		addMembers(parent.AppendChild(item.NewElementNode(item.LocalName(name))), val)

	default:
		addScalar(parent.AppendChild(item.NewElementNode(item.LocalName(name))), val)
	}
}

/*
addScalar adds a text node for a scalar value. Null values produce no text.
*/
func addScalar(parent *item.Node, v interface{}) {
	if v != nil {
		parent.AppendChild(item.NewTextNode(fmt.Sprint(v)))
	}
}
