package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	compiler "auc-go/packages/compiler/src"
	"auc-go/packages/compiler/src/util"
)

var compileCmd = &cobra.Command{
	Use:   "compile <file>",
	Short: "Compile a template and report diagnostics",
	Long:  "Run the full pipeline over a template file and list every diagnostic with its position",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

// severityStyles colors diagnostic severities for terminal output.
var severityStyles = map[util.Severity]*color.Color{
	util.SeverityInfo:    color.New(color.FgHiBlue),
	util.SeverityWarning: color.New(color.FgYellow),
	util.SeverityError:   color.New(color.FgHiRed, color.Bold),
}

func runCompile(cmd *cobra.Command, args []string) error {
	result, err := compileFile(args[0])
	if err != nil {
		return err
	}

	diags := result.Diagnostics()
	if len(diags) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no diagnostics")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, d := range diags {
		line, col := result.File.LineCol(d.Span.Start)
		fmt.Fprintf(w, "%s\t%s\t%d:%d\t%s\n",
			severityStyles[d.Severity].Sprint(d.Severity),
			d.Code, line+1, col+1, d.Message)
	}
	return w.Flush()
}

// compileFile runs the pipeline over one file with the root flags applied.
func compileFile(path string) (*compiler.Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	catalog, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	c := compiler.NewCompiler(catalog, compiler.Options{
		PickFirstAlias:    pickFirstAlias,
		DedupeExpressions: dedupe,
	})
	return c.Compile(string(source), path), nil
}
