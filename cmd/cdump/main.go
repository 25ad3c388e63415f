package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

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

var (
	dumpTags  bool
	withEmit  bool
	checksums bool
	strict    bool
)

var rootCmd = &cobra.Command{
	Use:   "cdump [file ...]",
	Short: "Read C declarations and dump the resulting symbol tables",
	Long: `cdump feeds declaration files through the cee symbol table and prints
the namespace contents, the way a compiler back-end would see them.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().BoolVar(&dumpTags, "tags", false, "dump the tag namespace, too")
	rootCmd.Flags().BoolVar(&withEmit, "emit", false, "list the symbols the back-end would emit")
	rootCmd.Flags().BoolVar(&checksums, "checksum", false, "print namespace checksums")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "terminate on the first semantic error")
}

func run(cmd *cobra.Command, args []string) error {
	var reporter diag.Reporter = diag.NewCollector()
	if strict {
		reporter = diag.NewStrict()
	}
	table := symtab.NewTable(intern.NewPool(), reporter)
	reader := cdecl.NewReader(table)
	reader.Open()
	for _, path := range args {
		input, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := reader.ReadString(string(input)); err != nil {
			pterm.Error.Printf("%s: %s\n", path, err.Error())
			return err
		}
	}
	table.Dump(table.Idents, os.Stdout)
	if dumpTags {
		table.Dump(table.Tags, os.Stdout)
	}
	if checksums {
		fmt.Printf("identifiers checksum %s\n", table.Idents.Checksum())
		fmt.Printf("tags        checksum %s\n", table.Tags.Checksum())
	}
	if withEmit {
		for sym := table.YieldDeclaration(table.Idents); sym != nil; sym = table.YieldDeclaration(table.Idents) {
			fmt.Printf("emit %-11s %-16s :: %s\n", sym.Kind, sym.EffectiveName(), sym.Type)
		}
	}
	return reader.Close()
}

func main() {
	gtrace.SyntaxTracer = gologadapter.New()
	tracing.Select("cee.symtab").SetTraceLevel(tracing.LevelError)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
