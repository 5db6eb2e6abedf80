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
JSONiqDB is a command line console for the JSONiq runtime.

On startup the console loads its configuration, sets up logging and loads
all JSON and TOML documents of the configured document directory. Commands
are read line by line from stdin.
*/
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"devt.de/krotik/common/fileutil"
	"devt.de/krotik/common/stringutil"
	"devt.de/krotik/jsoniqdb/config"
	"devt.de/krotik/jsoniqdb/console"
)

/*
Using custom consolelogger type so we can test log.Fatal calls with unit tests. Overwrite
these if the console should not call os.Exit on a fatal error.
*/
type consolelogger func(v ...interface{})

var fatal = consolelogger(log.Fatal)
var print = consolelogger(log.Print)

/*
Base path for all files (used by unit tests)
*/
var basepath = ""

/*
Commands which end the console
*/
var quitCommands = []string{"q", "quit", "exit"}

func main() {
	configFile := flag.String("config", "", "Configuration file (defaults are used if not given)")
	level := flag.String("loglevel", "", "Log level (overrides the configured log level)")

	flag.Parse()

	if *configFile != "" {
		if err := config.LoadConfigFile(*configFile); err != nil {
			fatal(fmt.Sprintf("Could not load config file %v: %v", *configFile, err))
			return
		}
	}

	runConsole(*level, os.Stdin, os.Stdout)
}

/*
runConsole runs the console until the input ends or a quit command was given.
*/
func runConsole(level string, in io.Reader, out io.Writer) {

	print(fmt.Sprintf("JSONiqDB %v", config.ProductVersion))

	// Ensure we have a configuration - use the default configuration if nothing was set

	if config.Config == nil {
		config.LoadDefaultConfig()
	}

	if err := console.SetupLogging(level, out); err != nil {
		fatal(err)
		return
	}

	c := console.NewConsole(out, exportToFile)

	// Load all documents of the document directory

	docs := filepath.Join(basepath, config.Str(config.LocationDocuments))

	if ok, _ := fileutil.PathExists(docs); ok {
		print("Loading documents from: ", docs)

		if err := loadDocuments(c, docs); err != nil {
			fatal(err)
			return
		}
	}

	scanner := bufio.NewScanner(in)

	fmt.Fprint(out, "jsoniq> ")

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if stringutil.IndexOf(line, quitCommands) != -1 {
			break
		}

		if line != "" {
			if _, err := c.Run(line); err != nil {
				fmt.Fprintln(out, err.Error())
			}
		}

		fmt.Fprint(out, "jsoniq> ")
	}

	if err := scanner.Err(); err != nil {
		fatal(err)
	}
}

/*
loadDocuments loads all documents of a directory into a console.
*/
func loadDocuments(c console.CommandConsole, dir string) error {
	var files []string

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, e := range entries {
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".toml":
			if !e.IsDir() {
				files = append(files, filepath.Join(dir, e.Name()))
			}
		}
	}

	sort.Strings(files)

	for _, f := range files {
		if _, err := c.Run("load " + f); err != nil {
			return fmt.Errorf("Could not load %v: %v", f, err)
		}
	}

	return nil
}

/*
exportToFile writes the export buffer of the console to a file.
*/
func exportToFile(args []string, exportBuf *bytes.Buffer) error {

	if len(args) == 0 {
		return fmt.Errorf("Please specify a file to export to")
	}

	return os.WriteFile(filepath.Join(basepath, args[0]), exportBuf.Bytes(), 0666)
}
