/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package console

import (
	"fmt"

	"devt.de/krotik/jsoniqdb/jsoniq"
	"devt.de/krotik/jsoniqdb/jsoniq/ast"
)

// Path Console
// ============

/*
PathConsole evaluates path expressions against the current document.
*/
type PathConsole struct {
	parent CommandConsoleAPI // Parent console API
}

/*
pathConsoleKeywords are all keywords which this console can process.
*/
var pathConsoleKeywords = []string{"/", ".", "@"}

func init() {
	for a := ast.AxisChild; a <= ast.AxisAncestorOrSelf; a++ {
		pathConsoleKeywords = append(pathConsoleKeywords, a.String()+"::")
	}
}

/*
Run executes one or more commands. It returns an error if the command
had an unexpected result and a flag if the command was handled.
*/
func (c *PathConsole) Run(cmd string) (bool, error) {

	if !cmdStartsWithKeyword(cmd, pathConsoleKeywords) {
		return false, nil
	}

	doc, ok := c.parent.Document(c.parent.Current())
	if !ok {
		return true, fmt.Errorf("No document loaded")
	}

	p, err := ParsePath(cmd)
	if err != nil {
		return true, err
	}

	q, err := jsoniq.CompileWithFactory("console", p, c.parent.Factory())
	if err != nil {
		return true, err
	}

	res, err := q.Run(nil, doc)

	if err == nil {
		printSequence(c.parent, res)
	}

	return true, err
}

/*
Commands returns an empty list. The command line is interpreted as a path.
*/
func (c *PathConsole) Commands() []Command {
	return nil
}
