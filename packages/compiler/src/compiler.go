package compiler

import (
	"auc-go/packages/compiler/src/expression_parser"
	"auc-go/packages/compiler/src/linking"
	"auc-go/packages/compiler/src/lowering"
	"auc-go/packages/compiler/src/ml_parser"
	"auc-go/packages/compiler/src/overlay"
	"auc-go/packages/compiler/src/resources"
	"auc-go/packages/compiler/src/scope"
	"auc-go/packages/compiler/src/util"
)

// Options configures a compilation pipeline.
type Options struct {
	// PickFirstAlias resolves ambiguous resource aliases to the first
	// candidate instead of reporting them.
	PickFirstAlias bool
	// DedupeExpressions reuses expression-table entries with identical
	// kind, text and position.
	DedupeExpressions bool
}

// Result carries every artifact of one compilation. Diagnostics accumulate
// across stages; no stage aborts on malformed input.
type Result struct {
	File    *util.SourceFile
	Module  *lowering.Module
	Linked  *linking.LinkedModule
	Scopes  *scope.Graph
	Overlay *overlay.Overlay
}

// Diagnostics returns every diagnostic the pipeline produced, in stage
// order.
func (r *Result) Diagnostics() []*util.Diagnostic {
	if r.Linked != nil {
		return r.Linked.Diagnostics
	}
	if r.Module != nil {
		return r.Module.Diagnostics
	}
	return nil
}

// Compiler runs the full pipeline over one template source. The zero value
// is not usable; construct with NewCompiler. A Compiler is stateless across
// calls and safe for reuse.
type Compiler struct {
	exprParser *expression_parser.Parser
	catalog    *resources.Catalog
	options    Options
}

// NewCompiler creates a compiler over the given catalog. A nil catalog means
// the default built-in catalog.
func NewCompiler(catalog *resources.Catalog, options Options) *Compiler {
	if catalog == nil {
		catalog = resources.DefaultCatalog()
	}
	return &Compiler{
		exprParser: expression_parser.NewParser(),
		catalog:    catalog,
		options:    options,
	}
}

// Catalog returns the catalog the compiler resolves against.
func (c *Compiler) Catalog() *resources.Catalog {
	return c.catalog
}

// Compile runs lowering, linking, scope resolution and overlay emission over
// the source and returns all artifacts. Each stage is a pure function of the
// previous artifact; Compile only sequences them.
func (c *Compiler) Compile(source, name string) *Result {
	file := util.NewSourceFile(source, name)

	module := c.Lower(file)
	linked := c.Link(module)
	graph := c.ResolveScopes(linked)
	text := c.EmitOverlay(linked, graph)

	return &Result{
		File:    file,
		Module:  module,
		Linked:  linked,
		Scopes:  graph,
		Overlay: text,
	}
}

// Lower parses the markup and lowers it to IR.
func (c *Compiler) Lower(file *util.SourceFile) *lowering.Module {
	parsed := ml_parser.NewParser().Parse(file)
	lowerer := lowering.NewLowerer(c.exprParser, lowering.NewSyntaxTable(c.catalog), lowering.Options{
		DedupeExpressions: c.options.DedupeExpressions,
	})
	return lowerer.Lower(file, parsed)
}

// Link resolves an IR module against the compiler's catalog.
func (c *Compiler) Link(module *lowering.Module) *linking.LinkedModule {
	linker := linking.NewLinker(c.catalog, linking.Options{PickFirstAlias: c.options.PickFirstAlias})
	return linker.Link(module)
}

// ResolveScopes builds the scope graph for a linked module.
func (c *Compiler) ResolveScopes(linked *linking.LinkedModule) *scope.Graph {
	return scope.NewResolver().Resolve(linked)
}

// EmitOverlay plans and emits the overlay for a linked module.
func (c *Compiler) EmitOverlay(linked *linking.LinkedModule, graph *scope.Graph) *overlay.Overlay {
	plan := overlay.NewPlanner().BuildPlan(linked, graph)
	return overlay.NewEmitter().Emit(plan)
}
