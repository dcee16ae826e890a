package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var showMapping bool

var overlayCmd = &cobra.Command{
	Use:   "overlay <file>",
	Short: "Emit the type-check overlay for a template",
	Long:  "Compile a template file and print the synthesized overlay text, optionally with its span mapping table",
	Args:  cobra.ExactArgs(1),
	RunE:  runOverlay,
}

func init() {
	overlayCmd.Flags().BoolVar(&showMapping, "mapping", false, "Also print the overlay-to-markup mapping table")
}

func runOverlay(cmd *cobra.Command, args []string) error {
	result, err := compileFile(args[0])
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), result.Overlay.Text)
	if !showMapping {
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout())
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EXPR\tFRAME\tOVERLAY\tORIGINAL")
	for _, entry := range result.Overlay.Mapping {
		frame := result.Scopes.Frame(entry.FrameID)
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			entry.ExprID, frame.Kind, entry.OverlaySpan, entry.OriginalSpan)
	}
	return w.Flush()
}
