package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"auc-go/packages/compiler/src/resources"
)

var (
	resourcesPath  string
	pickFirstAlias bool
	dedupe         bool
)

var rootCmd = &cobra.Command{
	Use:   "auc-go",
	Short: "Declarative template compiler",
	Long: `auc-go compiles declarative UI templates: it lowers markup to an
instruction IR, links resource names against a catalog, resolves the lexical
scopes controllers introduce, and emits a type-checkable overlay with exact
span mapping back to the markup.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&resourcesPath, "resources", "", "Path to a YAML file declaring extra elements and attributes")
	rootCmd.PersistentFlags().BoolVar(&pickFirstAlias, "pick-first-alias", false, "Resolve ambiguous aliases to the first candidate instead of reporting them")
	rootCmd.PersistentFlags().BoolVar(&dedupe, "dedupe-expressions", false, "Reuse expression entries with identical text and position")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(overlayCmd)
	rootCmd.AddCommand(resourcesCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadCatalog builds the catalog the subcommands compile against: the
// built-ins plus any user declarations from --resources.
func loadCatalog() (*resources.Catalog, error) {
	catalog := resources.DefaultCatalog()
	if resourcesPath == "" {
		return catalog, nil
	}
	merged, err := resources.NewLoader().LoadFile(catalog, resourcesPath)
	if err != nil {
		return nil, fmt.Errorf("loading resources from %s: %w", resourcesPath, err)
	}
	return merged, nil
}
