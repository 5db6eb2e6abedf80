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
Package console contains the console command processor of the JSONiq runtime.

The console keeps a set of loaded documents. Path expressions typed into the
console are evaluated against the current document. The find command
evaluates a path against all loaded documents using the partition executor.
*/
package console

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"devt.de/krotik/common/logutil"
	"devt.de/krotik/jsoniqdb/config"
	"devt.de/krotik/jsoniqdb/item"
	"devt.de/krotik/jsoniqdb/partition"
)

/*
NewConsole creates a new Console object which executes given commands and
outputs the result to the Writer. It optionally exports data with the given
export function via the export command. Export is disabled if no export
function is defined.
*/
func NewConsole(out io.Writer, exportFunc func([]string, *bytes.Buffer) error) CommandConsole {

	cmdMap := make(map[string]Command)

	cmdMap[CommandHelp] = &CmdHelp{}
	cmdMap[CommandVer] = &CmdVer{}
	cmdMap[CommandLoad] = &CmdLoad{}
	cmdMap[CommandDocs] = &CmdDocs{}
	cmdMap[CommandUse] = &CmdUse{}
	cmdMap[CommandFind] = &CmdFind{}
	cmdMap[CommandLog] = &CmdLog{}
	cmdMap[CommandLogLevel] = &CmdLogLevel{}

	// Add export if we got an export function

	if exportFunc != nil {
		cmdMap[CommandExport] = &CmdExport{exportFunc}
	}

	c := &JSONiqConsole{"", out, bytes.NewBuffer(nil), nil,
		make(map[string]*loadedDocument), item.NewDefaultFactory(),
		partition.NewDefaultExecutor(), cmdMap}

	c.childConsoles = []CommandConsole{&PathConsole{c}}

	return c
}

/*
CommandConsole is the main interface for command processors.
*/
type CommandConsole interface {

	/*
		Run executes one or more commands. It returns an error if the command
		had an unexpected result and a flag if the command was handled.
	*/
	Run(cmd string) (bool, error)

	/*
	   Commands returns a sorted list of all available commands.
	*/
	Commands() []Command
}

/*
CommandConsoleAPI is the console interface which commands can use to access
the loaded documents and the runtime.
*/
type CommandConsoleAPI interface {
	CommandConsole

	/*
	   Current returns the name of the current document.
	*/
	Current() string

	/*
	   SetCurrent sets the current document.
	*/
	SetCurrent(string) error

	/*
	   Document returns a loaded document.
	*/
	Document(name string) (*item.Item, bool)

	/*
	   AddDocument adds a loaded document. The first loaded document becomes
	   the current document.
	*/
	AddDocument(name string, file string, doc *item.Item)

	/*
	   Documents returns the names and files of all loaded documents sorted by name.
	*/
	Documents() ([]string, []string)

	/*
	   Factory returns the item factory of the console.
	*/
	Factory() *item.Factory

	/*
	   Executor returns the partition executor of the console.
	*/
	Executor() *partition.Executor

	/*
		Out returns a writer which can be used to write to the console.
	*/
	Out() io.Writer

	/*
	   ExportBuffer returns a buffer which can be used to write exportable data.
	*/
	ExportBuffer() *bytes.Buffer
}

/*
Command describes an available command.
*/
type Command interface {
	/*
	   Name returns the command name (as it should be typed).
	*/
	Name() string

	/*
	   ShortDescription returns a short description of the command (single line).
	*/
	ShortDescription() string

	/*
	   LongDescription returns an extensive description of the command (can be multiple lines).
	*/
	LongDescription() string

	/*
		Run executes the command.
	*/
	Run(args []string, capi CommandConsoleAPI) error
}

// JSONiq Console
// ==============

/*
loadedDocument is a document which was loaded into the console.
*/
type loadedDocument struct {
	file string     // File the document was loaded from
	doc  *item.Item // Document node
}

/*
JSONiqConsole implements the basic console functionality.
*/
type JSONiqConsole struct {
	current       string           // Current document
	out           io.Writer        // Output for this console
	export        *bytes.Buffer    // Export buffer
	childConsoles []CommandConsole // List of child consoles

	docs     map[string]*loadedDocument // Loaded documents
	factory  *item.Factory              // Item factory for documents and queries
	executor *partition.Executor        // Executor for runs over all documents

	CommandMap map[string]Command // Map of registered commands
}

/*
Current returns the name of the current document.
*/
func (c *JSONiqConsole) Current() string {
	return c.current
}

/*
SetCurrent sets the current document.
*/
func (c *JSONiqConsole) SetCurrent(name string) error {
	if _, ok := c.docs[name]; !ok {
		return fmt.Errorf("Unknown document: %v", name)
	}
	c.current = name
	return nil
}

/*
Document returns a loaded document.
*/
func (c *JSONiqConsole) Document(name string) (*item.Item, bool) {
	d, ok := c.docs[name]
	if !ok {
		return nil, false
	}
	return d.doc, true
}

/*
AddDocument adds a loaded document. The first loaded document becomes the
current document.
*/
func (c *JSONiqConsole) AddDocument(name string, file string, doc *item.Item) {
	c.docs[name] = &loadedDocument{file, doc}

	if c.current == "" {
		c.current = name
	}
}

/*
Documents returns the names and files of all loaded documents sorted by name.
*/
func (c *JSONiqConsole) Documents() ([]string, []string) {
	var names, files []string

	for n := range c.docs {
		names = append(names, n)
	}

	sort.Strings(names)

	for _, n := range names {
		files = append(files, c.docs[n].file)
	}

	return names, files
}

/*
Factory returns the item factory of the console.
*/
func (c *JSONiqConsole) Factory() *item.Factory {
	return c.factory
}

/*
Executor returns the partition executor of the console.
*/
func (c *JSONiqConsole) Executor() *partition.Executor {
	return c.executor
}

/*
Out returns a writer which can be used to write to the console.
*/
func (c *JSONiqConsole) Out() io.Writer {
	return c.out
}

/*
ExportBuffer returns a buffer which can be used to write exportable data.
*/
func (c *JSONiqConsole) ExportBuffer() *bytes.Buffer {
	return c.export
}

/*
Run executes one or more commands. It returns an error if the command
had an unexpected result and a flag if the command was handled.
*/
func (c *JSONiqConsole) Run(cmd string) (bool, error) {

	// First split a line with multiple commands

	cmds := strings.Split(cmd, ";")

	for _, cmd := range cmds {

		// Run the command and return if there is an error

		if ok, err := c.RunCommand(cmd); err != nil {

			// Return if there was an unexpected error

			return false, err

		} else if !ok {

			// Try child consoles

			handled := false

			for _, c := range c.childConsoles {

				if ok, err := c.Run(cmd); err != nil {
					return ok, err
				} else if ok {
					handled = true
					break
				}
			}

			if !handled {
				return false, fmt.Errorf("Unknown command")
			}
		}
	}

	// Everything was handled

	return true, nil
}

/*
RunCommand executes a single command. It returns an error for unexpected results and
a flag if the command was handled.
*/
func (c *JSONiqConsole) RunCommand(cmdString string) (bool, error) {
	cmdSplit := strings.Fields(cmdString)

	if len(cmdSplit) == 0 {
		return true, nil
	}

	cmd := cmdSplit[0]
	args := cmdSplit[1:]

	// Reset the export buffer if we are not exporting

	if cmd != CommandExport {
		c.export.Reset()
	}

	if cmdObj, ok := c.CommandMap[cmd]; ok {
		return true, cmdObj.Run(args, c)
	} else if cmd == "?" {
		return true, c.CommandMap[CommandHelp].Run(args, c)
	}

	return false, nil
}

/*
Commands returns a sorted list of all available commands.
*/
func (c *JSONiqConsole) Commands() []Command {
	var res []Command

	for _, c := range c.CommandMap {
		res = append(res, c)
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].Name() < res[j].Name()
	})

	return res
}

// Logging
// =======

/*
SetupLogging replaces all log sinks with a single console sink of a given
level. An empty level uses the configured log level.
*/
func SetupLogging(level string, out io.Writer) error {
	if level == "" {
		level = config.Str(config.LogLevel)
	}

	l := logutil.StringToLoglevel(level)
	if l == "" {
		return fmt.Errorf("Unknown log level: %v", level)
	}

	logutil.ClearLogSinks()
	logutil.GetLogger("").AddLogSink(l, logutil.ConsoleFormatter(), out)

	return nil
}

// Util functions
// ==============

/*
cmdStartsWithKeyword checks if a given command line starts with a given list
of keywords.
*/
func cmdStartsWithKeyword(cmd string, keywords []string) bool {
	ss := strings.Fields(strings.ToLower(cmd))

	if len(ss) > 0 {
		firstCmd := strings.ToLower(ss[0])

		for _, k := range keywords {
			if k == firstCmd || strings.HasPrefix(firstCmd, k) {
				return true
			}
		}
	}

	return false
}
