package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/npillmayer/cee/cdecl"
	"github.com/npillmayer/cee/diag"
	"github.com/npillmayer/cee/intern"
	"github.com/npillmayer/cee/symtab"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

// tracer traces with key 'cee.repl'.
func tracer() tracing.Trace {
	return tracing.Select("cee.repl")
}

// main() starts an interactive CLI where users may enter C declarations
// and watch what the symbol table makes of them. It is intended as a
// sandbox for experimenting with scoping, linkage and tentative
// definition behavior.
func main() {
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	strict := flag.Bool("strict", false, "terminate on the first semantic error, like a batch compiler")
	flag.Parse()
	setTraceLevel(*tlevel)
	pterm.Info.Println("Welcome to the cee symbol table REPL")
	pterm.Info.Println("Enter declarations, or :help for commands; quit with <ctrl>D")
	//
	var reporter diag.Reporter = diag.NewCollector()
	if *strict {
		reporter = diag.NewStrict()
	}
	table := symtab.NewTable(intern.NewPool(), reporter)
	reader := cdecl.NewReader(table)
	reader.Open()
	//
	repl, err := readline.New("cee> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{table: table, reader: reader, repl: repl}
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF on <ctrl>D
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if intp.execute(line) {
			break
		}
	}
	if err := reader.Close(); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

// Intp is the REPL's interpreter state.
type Intp struct {
	table  *symtab.Table
	reader *cdecl.Reader
	repl   *readline.Instance
}

// execute runs one REPL line. Lines starting with ':' are commands,
// everything else is declaration input. Returns true to quit.
func (intp *Intp) execute(line string) bool {
	if !strings.HasPrefix(line, ":") {
		if err := intp.reader.ReadString(line); err != nil {
			pterm.Error.Println(err.Error())
		}
		return false
	}
	cmd := strings.Fields(line[1:])
	if len(cmd) == 0 {
		return false
	}
	switch cmd[0] {
	case "quit", "q":
		return true
	case "help", "h":
		intp.help()
	case "dump":
		intp.dump(cmd[1:])
	case "yield":
		intp.yield()
	case "push":
		intp.table.PushScope(intp.table.Idents)
		intp.table.PushScope(intp.table.Tags)
	case "pop":
		if err := intp.table.PopScope(intp.table.Tags); err != nil {
			pterm.Error.Println(err.Error())
		}
		if err := intp.table.PopScope(intp.table.Idents); err != nil {
			pterm.Error.Println(err.Error())
		}
	case "check":
		intp.check()
	default:
		pterm.Error.Printf("unknown command ':%s'\n", cmd[0])
	}
	return false
}

func (intp *Intp) help() {
	pterm.Info.Println(`commands:
  :dump [ident|tags|labels]   dump a namespace
  :yield                      drain the emit cursor of the identifier namespace
  :push / :pop                open / close a block scope
  :check                      verify namespace consistency
  :quit                       leave (also <ctrl>D)`)
}

func (intp *Intp) namespace(arg []string) *symtab.Namespace {
	if len(arg) == 0 {
		return intp.table.Idents
	}
	switch arg[0] {
	case "tags":
		return intp.table.Tags
	case "labels":
		return intp.table.Labels
	}
	return intp.table.Idents
}

func (intp *Intp) dump(arg []string) {
	ns := intp.namespace(arg)
	intp.table.Dump(ns, os.Stdout)
	pterm.Debug.Printf("checksum %s\n", ns.Checksum())
}

func (intp *Intp) yield() {
	n := 0
	for sym := intp.table.YieldDeclaration(intp.table.Idents); sym != nil; sym = intp.table.YieldDeclaration(intp.table.Idents) {
		fmt.Printf("emit %-11s %-16s :: %s\n", sym.Kind, sym.EffectiveName(), sym.Type)
		n++
	}
	pterm.Info.Printf("%d symbol(s) to emit\n", n)
}

func (intp *Intp) check() {
	v := intp.table.Idents.CheckConsistency()
	v += intp.table.Tags.CheckConsistency()
	v += intp.table.Labels.CheckConsistency()
	if v == 0 {
		pterm.Success.Println("namespaces are consistent")
	} else {
		pterm.Error.Printf("%d violation(s), see trace\n", v)
	}
}

func setTraceLevel(l string) {
	level := tracing.LevelError
	switch strings.ToLower(l) {
	case "debug":
		level = tracing.LevelDebug
	case "info":
		level = tracing.LevelInfo
	}
	tracing.Select("cee.symtab").SetTraceLevel(level)
	tracing.Select("cee.cdecl").SetTraceLevel(level)
	tracing.Select("cee.diag").SetTraceLevel(level)
	tracing.Select("cee.repl").SetTraceLevel(level)
}
