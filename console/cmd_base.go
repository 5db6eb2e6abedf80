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
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"devt.de/krotik/common/stringutil"
	"devt.de/krotik/jsoniqdb/config"
	"devt.de/krotik/jsoniqdb/document"
	"devt.de/krotik/jsoniqdb/item"
	"devt.de/krotik/jsoniqdb/jsoniq"
	"devt.de/krotik/jsoniqdb/jsoniq/ast"
)

// Command: ver
// ============

/*
CommandVer is a command name.
*/
const CommandVer = "ver"

/*
CmdVer displays version information.
*/
type CmdVer struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdVer) Name() string {
	return CommandVer
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdVer) ShortDescription() string {
	return "Displays version information."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdVer) LongDescription() string {
	return "Displays version information."
}

/*
Run executes the command.
*/
func (c *CmdVer) Run(args []string, capi CommandConsoleAPI) error {
	fmt.Fprintln(capi.Out(), fmt.Sprintf("JSONiqDB %v", config.ProductVersion))
	return nil
}

// Command: export
// ===============

/*
CommandExport is a command name.
*/
const CommandExport = "export"

/*
CmdExport exports the data which is currently in the export buffer.
*/
type CmdExport struct {
	exportFunc func([]string, *bytes.Buffer) error
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdExport) Name() string {
	return CommandExport
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdExport) ShortDescription() string {
	return "Exports the last output."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdExport) LongDescription() string {
	return "Exports the data which is currently in the export buffer. The export " +
		"buffer is filled with the previous command output in a machine readable form."
}

/*
Run executes the command.
*/
func (c *CmdExport) Run(args []string, capi CommandConsoleAPI) error {
	return c.exportFunc(args, capi.ExportBuffer())
}

// Command: load
// =============

/*
CommandLoad is a command name.
*/
const CommandLoad = "load"

/*
CmdLoad loads a document.
*/
type CmdLoad struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdLoad) Name() string {
	return CommandLoad
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdLoad) ShortDescription() string {
	return "Loads a JSON or TOML document."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdLoad) LongDescription() string {
	return "Loads a JSON or TOML document: load <file> [name]. The document name " +
		"defaults to the file name without extension."
}

/*
Run executes the command.
*/
func (c *CmdLoad) Run(args []string, capi CommandConsoleAPI) error {

	if len(args) == 0 {
		return fmt.Errorf("Please specify a file to load")
	}

	file := args[0]
	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))

	if len(args) > 1 {
		name = args[1]
	}

	doc, err := document.LoadFile(file, capi.Factory())

	if err == nil {
		capi.AddDocument(name, file, doc)
		fmt.Fprintln(capi.Out(), fmt.Sprintf("Loaded %v from %v", name, file))
	}

	return err
}

// Command: docs
// =============

/*
CommandDocs is a command name.
*/
const CommandDocs = "docs"

/*
CmdDocs lists all loaded documents.
*/
type CmdDocs struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdDocs) Name() string {
	return CommandDocs
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdDocs) ShortDescription() string {
	return "Lists all loaded documents."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdDocs) LongDescription() string {
	return "Lists all loaded documents. The current document is marked with *."
}

/*
Run executes the command.
*/
func (c *CmdDocs) Run(args []string, capi CommandConsoleAPI) error {
	var tab []string

	tab = append(tab, "Document")
	tab = append(tab, "File")

	names, files := capi.Documents()

	for i, n := range names {
		if n == capi.Current() {
			n += " *"
		}
		tab = append(tab, n)
		tab = append(tab, files[i])
	}

	capi.ExportBuffer().WriteString(stringutil.PrintCSVTable(tab, 2))
	fmt.Fprint(capi.Out(), stringutil.PrintStringTable(tab, 2))

	return nil
}

// Command: use
// ============

/*
CommandUse is a command name.
*/
const CommandUse = "use"

/*
CmdUse displays or sets the current document.
*/
type CmdUse struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdUse) Name() string {
	return CommandUse
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdUse) ShortDescription() string {
	return "Displays or sets the current document."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdUse) LongDescription() string {
	return "Displays or sets the current document. Path expressions are evaluated " +
		"against the current document."
}

/*
Run executes the command.
*/
func (c *CmdUse) Run(args []string, capi CommandConsoleAPI) error {

	if len(args) > 0 {
		if err := capi.SetCurrent(args[0]); err != nil {
			return err
		}
		fmt.Fprintln(capi.Out(), fmt.Sprintf("Current document is now: %s", args[0]))
		return nil
	}

	fmt.Fprintln(capi.Out(), capi.Current())

	return nil
}

// Command: find
// =============

/*
CommandFind is a command name.
*/
const CommandFind = "find"

/*
Variable names of the find query
*/
var (
	findInputVar = item.LocalName("input")
	findDocVar   = item.LocalName("doc")
)

/*
CmdFind evaluates a path against all loaded documents.
*/
type CmdFind struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdFind) Name() string {
	return CommandFind
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdFind) ShortDescription() string {
	return "Evaluates a path against all loaded documents."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdFind) LongDescription() string {
	return "Evaluates a path against all loaded documents: find <path>. Every " +
		"document is evaluated concurrently. The results are ordered by document name."
}

/*
Run executes the command.
*/
func (c *CmdFind) Run(args []string, capi CommandConsoleAPI) error {
	var partitions []item.Sequence

	if len(args) == 0 {
		return fmt.Errorf("Please specify a path")
	}

	p, err := ParsePath(strings.Join(args, " "))
	if err != nil {
		return err
	}

	q, err := jsoniq.CompileWithFactory(CommandFind, &ast.FLWORExpr{
		Clauses: []ast.Node{&ast.ForClause{Var: findDocVar, In: &ast.VarRef{Name: findInputVar}}},
		Return:  &ast.PathExpr{Metadata: p.Metadata, Start: &ast.VarRef{Name: findDocVar}, Steps: p.Steps},
	}, capi.Factory())
	if err != nil {
		return err
	}

	names, _ := capi.Documents()

	for _, n := range names {
		doc, _ := capi.Document(n)
		partitions = append(partitions, item.Sequence{doc})
	}

	res, err := capi.Executor().Run(q, findInputVar, partitions)

	if err == nil {
		printSequence(capi, res)
	}

	return err
}

// Command: log
// ============

/*
CommandLog is a command name.
*/
const CommandLog = "log"

/*
CmdLog displays the log of the partition executor.
*/
type CmdLog struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdLog) Name() string {
	return CommandLog
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdLog) ShortDescription() string {
	return "Displays the log of recent find runs."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdLog) LongDescription() string {
	return "Displays the log of recent find runs."
}

/*
Run executes the command.
*/
func (c *CmdLog) Run(args []string, capi CommandConsoleAPI) error {

	for _, l := range capi.Executor().Log() {
		fmt.Fprintln(capi.Out(), l)
	}

	return nil
}

// Command: loglevel
// =================

/*
CommandLogLevel is a command name.
*/
const CommandLogLevel = "loglevel"

/*
CmdLogLevel sets the log level of the console.
*/
type CmdLogLevel struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdLogLevel) Name() string {
	return CommandLogLevel
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdLogLevel) ShortDescription() string {
	return "Sets the log level."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdLogLevel) LongDescription() string {
	return "Sets the log level of the runtime log: loglevel <Debug|Info|Warning|Error>."
}

/*
Run executes the command.
*/
func (c *CmdLogLevel) Run(args []string, capi CommandConsoleAPI) error {

	if len(args) == 0 {
		return fmt.Errorf("Please specify a log level")
	}

	err := SetupLogging(args[0], capi.Out())

	if err == nil {
		fmt.Fprintln(capi.Out(), fmt.Sprintf("Log level is now: %v", args[0]))
	}

	return err
}

// Command: help
// =============

/*
CommandHelp is a command name.
*/
const CommandHelp = "help"

/*
CmdHelp displays descriptions of other commands.
*/
type CmdHelp struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdHelp) Name() string {
	return CommandHelp
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdHelp) ShortDescription() string {
	return "Display descriptions for all available commands."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdHelp) LongDescription() string {
	return "Display descriptions for all available commands."
}

/*
Run executes the command.
*/
func (c *CmdHelp) Run(args []string, capi CommandConsoleAPI) error {

	cmds := capi.Commands()

	if len(args) > 0 {
		name := args[0]

		for _, cmd := range cmds {
			if cmd.Name() == name {
				capi.ExportBuffer().WriteString(cmd.LongDescription())
				fmt.Fprintln(capi.Out(), cmd.LongDescription())
				return nil
			}
		}

		return fmt.Errorf("Unknown command: %s", name)
	}

	var tab []string

	tab = append(tab, "Command")
	tab = append(tab, "Description")

	for _, cmd := range cmds {
		tab = append(tab, cmd.Name())
		tab = append(tab, cmd.ShortDescription())
	}

	capi.ExportBuffer().WriteString(stringutil.PrintCSVTable(tab, 2))

	fmt.Fprint(capi.Out(), stringutil.PrintStringTable(tab, 2))

	return nil
}

// Util functions
// ==============

/*
printSequence writes a result sequence to the console and the export buffer.
*/
func printSequence(capi CommandConsoleAPI, res item.Sequence) {

	if len(res) == 0 {
		fmt.Fprintln(capi.Out(), "Empty sequence")
		return
	}

	for _, it := range res {
		capi.ExportBuffer().WriteString(it.String() + "\n")
		fmt.Fprintln(capi.Out(), it)
	}
}
