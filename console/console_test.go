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
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"devt.de/krotik/common/logutil"
	"devt.de/krotik/jsoniqdb/config"
)

const testdocs = "consoletest"

func TestMain(m *testing.M) {
	flag.Parse()

	config.LoadDefaultConfig()

	if err := os.MkdirAll(testdocs, 0770); err != nil {
		fmt.Print("Could not create test directory:", err.Error())
		os.Exit(1)
	}

	os.WriteFile(filepath.Join(testdocs, "city.json"), []byte(`{
  "library": {
    "book": [
      { "title": "Go", "year": 2015 },
      { "title": "JSONiq", "year": 2013 }
    ],
    "name": "city"
  }
}`), 0660)

	os.WriteFile(filepath.Join(testdocs, "town.toml"), []byte(`
[library]
name = "town"
`), 0660)

	os.WriteFile(filepath.Join(testdocs, "notes.txt"), []byte("notes"), 0660)

	res := m.Run()

	if err := os.RemoveAll(testdocs); err != nil {
		fmt.Print("Could not remove test directory:", err.Error())
	}

	os.Exit(res)
}

/*
testConsole creates a console with both test documents loaded.
*/
func testConsole(t *testing.T) (CommandConsole, *bytes.Buffer) {
	var out bytes.Buffer

	c := NewConsole(&out, nil)

	if ok, err := c.Run("load " + filepath.Join(testdocs, "city.json") +
		";load " + filepath.Join(testdocs, "town.toml")); !ok || err != nil {
		t.Fatal("Could not load test documents:", ok, err)
	}

	return c, &out
}

func TestDocumentCommands(t *testing.T) {
	c, out := testConsole(t)

	if res := out.String(); res != fmt.Sprintf("Loaded city from %v\nLoaded town from %v\n",
		filepath.Join(testdocs, "city.json"), filepath.Join(testdocs, "town.toml")) {
		t.Error("Unexpected result:", res)
		return
	}

	out.Reset()

	if ok, err := c.Run("load " + filepath.Join(testdocs, "city.json") + " other"); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	out.Reset()

	if ok, err := c.Run("docs"); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	if res := out.String(); !strings.Contains(res, "city *") ||
		!strings.Contains(res, "other") || !strings.Contains(res, "town.toml") {
		t.Error("Unexpected result:", res)
		return
	}

	out.Reset()

	if ok, err := c.Run("use"); !ok || err != nil || out.String() != "city\n" {
		t.Error("Unexpected result:", out.String(), ok, err)
		return
	}

	out.Reset()

	if ok, err := c.Run("use town"); !ok || err != nil || out.String() != "Current document is now: town\n" {
		t.Error("Unexpected result:", out.String(), ok, err)
		return
	}

	if _, err := c.Run("use foo"); err == nil || err.Error() != "Unknown document: foo" {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := c.Run("load"); err == nil || err.Error() != "Please specify a file to load" {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := c.Run("load " + filepath.Join(testdocs, "notes.txt")); err == nil ||
		!strings.HasPrefix(err.Error(), "Unknown document type") {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := c.Run("load " + filepath.Join(testdocs, "missing.json")); err == nil {
		t.Error("Loading a missing file should fail")
		return
	}
}

func TestPathConsole(t *testing.T) {
	var out bytes.Buffer

	c := NewConsole(&out, nil)

	if ok, err := c.Run("/"); !ok || err == nil || err.Error() != "No document loaded" {
		t.Error("Unexpected result:", ok, err)
		return
	}

	c, o := testConsole(t)
	o.Reset()

	for _, test := range []struct {
		cmd string
		res string
	}{
		{"/", "document-node()\n"},
		{"/library/book/title", "element(title)\nelement(title)\n"},
		{"/library/book[2]/title/text()", "text(\"JSONiq\")\n"},
		{"//year/text()", "text(\"2015\")\ntext(\"2013\")\n"},
		{"/library/name/text()/ancestor::*[1]", "element(name)\n"},
		{"descendant::title/..", "element(book)\nelement(book)\n"},
		{"..", "Empty sequence\n"},
		{"./library/nothing", "Empty sequence\n"},
		{"use town; /library/name/text()", "Current document is now: town\ntext(\"town\")\n"},
	} {
		if ok, err := c.Run(test.cmd); !ok || err != nil || o.String() != test.res {
			t.Error("Unexpected result for", test.cmd, ":", o.String(), ok, err)
			return
		}

		o.Reset()
	}

	for _, test := range []struct {
		cmd string
		err string
	}{
		{"/foo::bar", "Unknown axis: foo"},
		{"/library[x]", "Invalid predicate in step library[x]"},
		{"/library/", "Invalid path step at position 10"},
		{"/library/foo()", "Invalid node test: foo()"},
		{"blabla", "Unknown command"},
	} {
		if _, err := c.Run(test.cmd); err == nil || err.Error() != test.err {
			t.Error("Unexpected result for", test.cmd, ":", err)
			return
		}
	}
}

func TestFindAndLog(t *testing.T) {
	c, out := testConsole(t)
	out.Reset()

	if ok, err := c.Run("find /library/name/text()"); !ok || err != nil ||
		out.String() != "text(\"city\")\ntext(\"town\")\n" {
		t.Error("Unexpected result:", out.String(), ok, err)
		return
	}

	out.Reset()

	if ok, err := c.Run("log"); !ok || err != nil ||
		!strings.HasPrefix(out.String(), "find: 2 partitions produced 2 items in ") {
		t.Error("Unexpected result:", out.String(), ok, err)
		return
	}

	if _, err := c.Run("find"); err == nil || err.Error() != "Please specify a path" {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := c.Run("find /a[b]"); err == nil || err.Error() != "Invalid predicate in step a[b]" {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestHelpAndExport(t *testing.T) {
	var out bytes.Buffer
	var exported string

	c := NewConsole(&out, func(args []string, buf *bytes.Buffer) error {
		exported = fmt.Sprint(args, ":", buf.String())
		return nil
	})

	if ok, err := c.Run("ver"); !ok || err != nil || out.String() != "JSONiqDB "+config.ProductVersion+"\n" {
		t.Error("Unexpected result:", out.String(), ok, err)
		return
	}

	out.Reset()

	if ok, err := c.Run("help"); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	for _, cmd := range c.Commands() {
		if !strings.Contains(out.String(), cmd.Name()) ||
			!strings.Contains(out.String(), cmd.ShortDescription()) {
			t.Error("Help should list all commands:", out.String())
			return
		}
	}

	out.Reset()

	if ok, err := c.Run("? find"); !ok || err != nil || !strings.HasPrefix(out.String(),
		"Evaluates a path against all loaded documents: find <path>.") {
		t.Error("Unexpected result:", out.String(), ok, err)
		return
	}

	if _, err := c.Run("help foo"); err == nil || err.Error() != "Unknown command: foo" {
		t.Error("Unexpected result:", err)
		return
	}

	if ok, err := c.Run("load " + filepath.Join(testdocs, "town.toml") + "; /library/name/text(); export out.txt"); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	if exported != "[out.txt]:text(\"town\")\n" {
		t.Error("Unexpected result:", exported)
		return
	}

	if c.Commands()[0].Name() != CommandDocs {
		t.Error("Commands should be sorted:", c.Commands()[0].Name())
		return
	}
}

func TestLogLevel(t *testing.T) {
	var out bytes.Buffer

	defer logutil.ClearLogSinks()

	c := NewConsole(&out, nil)

	if ok, err := c.Run("loglevel Error"); !ok || err != nil || out.String() != "Log level is now: Error\n" {
		t.Error("Unexpected result:", out.String(), ok, err)
		return
	}

	out.Reset()

	logutil.GetLogger("test").Info("foo")
	logutil.GetLogger("test").Error("bar")

	if res := out.String(); res != "Error: bar\n" {
		t.Error("Unexpected result:", res)
		return
	}

	if _, err := c.Run("loglevel foo"); err == nil || err.Error() != "Unknown log level: foo" {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := c.Run("loglevel"); err == nil || err.Error() != "Please specify a log level" {
		t.Error("Unexpected result:", err)
		return
	}

	// The configured log level is used by default

	out.Reset()

	config.Config[config.LogLevel] = "Warning"
	defer config.LoadDefaultConfig()

	if err := SetupLogging("", &out); err != nil {
		t.Error(err)
		return
	}

	logutil.GetLogger("test").Info("foo")
	logutil.GetLogger("test").Warning("bar")

	if res := out.String(); res != "Warning: bar\n" {
		t.Error("Unexpected result:", res)
		return
	}
}
