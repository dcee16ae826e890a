package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"auc-go/packages/compiler/src/resources"
)

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List the resource catalog",
	Long:  "Display every element, attribute and binding command the compiler resolves against",
	RunE:  runResources,
}

func runResources(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tNAME\tDETAIL")
	for _, name := range catalog.ElementNames() {
		def := catalog.Element(name)
		fmt.Fprintf(w, "element\t%s\tbindables: %s\n", def.Name, bindableNames(def.Bindables))
	}
	for _, name := range catalog.AttributeNames() {
		def := catalog.Attribute(name)
		detail := "custom attribute"
		if def.IsTemplateController {
			detail = fmt.Sprintf("template controller (%s)", def.ControllerKind)
		}
		fmt.Fprintf(w, "attribute\t%s\t%s\n", def.Name, detail)
	}
	for _, name := range catalog.CommandNames() {
		def := catalog.Command(name)
		fmt.Fprintf(w, "command\t%s\t%s\n", def.Name, def.Kind)
	}
	return w.Flush()
}

func bindableNames(bindables []*resources.BindableDef) string {
	if len(bindables) == 0 {
		return "none"
	}
	names := make([]string, len(bindables))
	for i, b := range bindables {
		names[i] = b.Name
	}
	return strings.Join(names, ", ")
}
