package lowering_test

import (
	"strings"
	"testing"

	"auc-go/packages/compiler/src/expression_parser"
	"auc-go/packages/compiler/src/lowering"
	"auc-go/packages/compiler/src/ml_parser"
	"auc-go/packages/compiler/src/resources"
	"auc-go/packages/compiler/src/util"
)

func lower(t *testing.T, source string) *lowering.Module {
	t.Helper()
	return lowerWith(t, source, lowering.Options{})
}

func lowerWith(t *testing.T, source string, options lowering.Options) *lowering.Module {
	t.Helper()
	file := util.NewSourceFile(source, "test.html")
	parsed := ml_parser.NewParser().Parse(file)
	syntax := lowering.NewSyntaxTable(resources.DefaultCatalog())
	return lowering.NewLowerer(expression_parser.NewParser(), syntax, options).Lower(file, parsed)
}

func TestLowerPlainElements(t *testing.T) {
	t.Run("should compile a property binding and drop static attributes", func(t *testing.T) {
		module := lower(t, `<div id="app" title.bind="name"></div>`)
		if len(module.Templates) != 1 {
			t.Fatalf("Expected 1 template, got %d", len(module.Templates))
		}
		rows := module.Template(0).Rows
		if len(rows) != 1 || len(rows[0].Instructions) != 1 {
			t.Fatalf("Expected one row with one instruction, got %#v", rows)
		}
		binding, ok := rows[0].Instructions[0].(*lowering.PropertyBinding)
		if !ok {
			t.Fatalf("Expected a PropertyBinding, got %T", rows[0].Instructions[0])
		}
		if binding.To != "title" || binding.Command != "bind" {
			t.Errorf("Expected title via bind, got %q via %q", binding.To, binding.Command)
		}
		if binding.Mode != resources.ModeDefault {
			t.Errorf("Expected bind to leave the mode open, got %s", binding.Mode)
		}
	})

	t.Run("should emit a text row only for interpolated text", func(t *testing.T) {
		module := lower(t, `<p>plain</p><p>${msg}</p>`)
		rows := module.Template(0).Rows
		if len(rows) != 3 {
			t.Fatalf("Expected 3 rows, got %d", len(rows))
		}
		text, ok := rows[2].Instructions[0].(*lowering.TextBinding)
		if !ok {
			t.Fatalf("Expected a TextBinding, got %T", rows[2].Instructions[0])
		}
		entry := module.Expressions.Entry(text.From)
		if entry == nil || entry.Kind != expression_parser.KindInterpolation {
			t.Errorf("Expected an interpolation entry, got %#v", entry)
		}
		if entry.Text != "${msg}" {
			t.Errorf("Expected the raw source slice, got %q", entry.Text)
		}
	})

	t.Run("should record the attribute value span on expressions", func(t *testing.T) {
		source := `<div title.bind="name"></div>`
		module := lower(t, source)
		entry := module.Expressions.Entries()[0]
		if got := source[entry.Span.Start:entry.Span.End]; got != "name" {
			t.Errorf("Expected the span to cover the value, got %q", got)
		}
	})

	t.Run("should expand shorthand patterns", func(t *testing.T) {
		module := lower(t, `<input :value="name" @change="save()">`)
		instructions := module.Template(0).Rows[0].Instructions
		if len(instructions) != 2 {
			t.Fatalf("Expected 2 instructions, got %d", len(instructions))
		}
		binding := instructions[0].(*lowering.PropertyBinding)
		if binding.To != "value" || binding.Command != "bind" {
			t.Errorf("Expected :value to mean value.bind, got %q via %q", binding.To, binding.Command)
		}
		listener := instructions[1].(*lowering.Listener)
		if listener.To != "change" || listener.Capture {
			t.Errorf("Expected a bubbling change listener, got %#v", listener)
		}
	})

	t.Run("should mark capture listeners", func(t *testing.T) {
		module := lower(t, `<div keydown.capture="onKey($event)"></div>`)
		listener := module.Template(0).Rows[0].Instructions[0].(*lowering.Listener)
		if !listener.Capture {
			t.Errorf("Expected a capturing listener")
		}
	})

	t.Run("should compile ref attributes", func(t *testing.T) {
		module := lower(t, `<div ref="el" view-model.ref="vm"></div>`)
		instructions := module.Template(0).Rows[0].Instructions
		bare := instructions[0].(*lowering.RefBinding)
		if bare.To != "element" {
			t.Errorf("Expected a bare ref to capture the element, got %q", bare.To)
		}
		commanded := instructions[1].(*lowering.RefBinding)
		if commanded.To != "view-model" {
			t.Errorf("Expected view-model.ref, got %q", commanded.To)
		}
	})

	t.Run("should compile attr, class and style commands", func(t *testing.T) {
		module := lower(t, `<div aria-label.attr="label" active.class="isActive" width.style="w"></div>`)
		instructions := module.Template(0).Rows[0].Instructions
		attr := instructions[0].(*lowering.AttributeBinding)
		if attr.Target != "aria-label" || attr.Part != "" {
			t.Errorf("Expected a direct attribute binding, got %#v", attr)
		}
		class := instructions[1].(*lowering.AttributeBinding)
		if class.Target != "class" || class.Part != "active" {
			t.Errorf("Expected a class toggle, got %#v", class)
		}
		style := instructions[2].(*lowering.AttributeBinding)
		if style.Target != "style" || style.Part != "width" {
			t.Errorf("Expected a style binding, got %#v", style)
		}
	})

	t.Run("should default an empty binding value to the property-cased target", func(t *testing.T) {
		module := lower(t, `<input my-value.bind="">`)
		binding := module.Template(0).Rows[0].Instructions[0].(*lowering.PropertyBinding)
		entry := module.Expressions.Entry(binding.From)
		if entry.Text != "myValue" {
			t.Errorf("Expected the camel-cased target as the expression, got %q", entry.Text)
		}
	})

	t.Run("should compile the spread capture attribute", func(t *testing.T) {
		module := lower(t, `<input ...$attrs>`)
		if _, ok := module.Template(0).Rows[0].Instructions[0].(*lowering.SpreadBinding); !ok {
			t.Errorf("Expected a SpreadBinding")
		}
	})
}

func TestLowerControllers(t *testing.T) {
	t.Run("should rewrite a controller attribute into a nested template", func(t *testing.T) {
		module := lower(t, `<div if.bind="isOpen" class.bind="cls"></div>`)
		if len(module.Templates) != 2 {
			t.Fatalf("Expected 2 templates, got %d", len(module.Templates))
		}

		root := module.Template(0).Rows
		if len(root) != 1 {
			t.Fatalf("Expected one root row, got %d", len(root))
		}
		controller := root[0].Instructions[0].(*lowering.HydrateTemplateController)
		if controller.Res != "if" || controller.TemplateIndex != 1 {
			t.Errorf("Expected if over template 1, got %q over %d", controller.Res, controller.TemplateIndex)
		}
		prop := controller.Props[0].(*lowering.PropertyBinding)
		if prop.To != "value" {
			t.Errorf("Expected the primary bindable, got %q", prop.To)
		}

		nested := module.Template(1).Rows
		if len(nested) != 1 || len(nested[0].Instructions) != 1 {
			t.Fatalf("Expected the remaining attribute inside the nested template")
		}
		if nested[0].NodeID != 0 {
			t.Errorf("Expected node numbering to restart per template, got %d", nested[0].NodeID)
		}
	})

	t.Run("should nest controllers in declaration order", func(t *testing.T) {
		module := lower(t, `<li repeat.for="item of items" if.bind="item.ok">${item.name}</li>`)
		if len(module.Templates) != 3 {
			t.Fatalf("Expected 3 templates, got %d", len(module.Templates))
		}

		repeat := module.Template(0).Rows[0].Instructions[0].(*lowering.HydrateTemplateController)
		if repeat.Res != "repeat" || repeat.TemplateIndex != 1 {
			t.Fatalf("Expected repeat as the outermost controller, got %q", repeat.Res)
		}
		iterator := repeat.Props[0].(*lowering.IteratorBinding)
		if iterator.To != "items" {
			t.Errorf("Expected the iteration property, got %q", iterator.To)
		}
		if module.Expressions.Entry(iterator.ForOf).Kind != expression_parser.KindIteratorHeader {
			t.Errorf("Expected an iterator-header expression")
		}

		inner := module.Template(1).Rows[0].Instructions[0].(*lowering.HydrateTemplateController)
		if inner.Res != "if" || inner.TemplateIndex != 2 {
			t.Errorf("Expected if to wrap the innermost template, got %q over %d", inner.Res, inner.TemplateIndex)
		}

		leaf := module.Template(2).Rows
		if len(leaf) != 2 {
			t.Fatalf("Expected the element and its text row, got %d rows", len(leaf))
		}
		if _, ok := leaf[1].Instructions[0].(*lowering.TextBinding); !ok {
			t.Errorf("Expected the interpolated text in the innermost template")
		}
	})

	t.Run("should repeat only the children of a template wrapper", func(t *testing.T) {
		module := lower(t, `<template repeat.for="i of items"><span>${i}</span></template>`)
		nested := module.Template(1).Rows
		if len(nested) != 2 {
			t.Fatalf("Expected span and text rows, got %d", len(nested))
		}
		el, ok := nested[0].Node.(*ml_parser.Element)
		if !ok || el.Name != "span" {
			t.Errorf("Expected the wrapper tag itself to vanish, got %#v", nested[0].Node)
		}
	})

	t.Run("should keep a controller without a value propless", func(t *testing.T) {
		module := lower(t, `<div if.bind="cond"></div><div else></div>`)
		rows := module.Template(0).Rows
		controller := rows[1].Instructions[0].(*lowering.HydrateTemplateController)
		if controller.Res != "else" || len(controller.Props) != 0 {
			t.Errorf("Expected a propless else, got %#v", controller)
		}
	})

	t.Run("should pass a static controller value as a set-property", func(t *testing.T) {
		module := lower(t, `<div promise.bind="p"></div><template then="data">${data}</template>`)
		rows := module.Template(0).Rows
		then := rows[1].Instructions[0].(*lowering.HydrateTemplateController)
		set := then.Props[0].(*lowering.SetProperty)
		if set.To != "value" || set.Value != "data" {
			t.Errorf("Expected value=data, got %#v", set)
		}
	})

	t.Run("should warn about a for command outside a controller", func(t *testing.T) {
		module := lower(t, `<div thing.for="x of xs"></div>`)
		if len(module.Template(0).Rows[0].Instructions) != 0 {
			t.Errorf("Expected the misplaced binding to be dropped")
		}
		if len(module.Diagnostics) != 1 || module.Diagnostics[0].Code != lowering.CodeMisplacedFor {
			t.Fatalf("Expected a single %s diagnostic, got %#v", lowering.CodeMisplacedFor, module.Diagnostics)
		}
		if module.Diagnostics[0].Severity != util.SeverityWarning {
			t.Errorf("Expected a warning, got %s", module.Diagnostics[0].Severity)
		}
	})
}

func TestLowerLet(t *testing.T) {
	t.Run("should declare camel-cased locals", func(t *testing.T) {
		module := lower(t, `<let full-name.bind="first + last" greeting="${'hi ' + name}"></let>`)
		let := module.Template(0).Rows[0].Instructions[0].(*lowering.HydrateLetElement)
		if len(let.Instructions) != 2 {
			t.Fatalf("Expected 2 let bindings, got %d", len(let.Instructions))
		}
		if let.Instructions[0].To != "fullName" || let.Instructions[1].To != "greeting" {
			t.Errorf("Expected fullName and greeting, got %q and %q", let.Instructions[0].To, let.Instructions[1].To)
		}
		if let.ToBindingContext {
			t.Errorf("Expected binding to the override context by default")
		}
	})

	t.Run("should honor to-binding-context", func(t *testing.T) {
		module := lower(t, `<let to-binding-context count.bind="items.length"></let>`)
		let := module.Template(0).Rows[0].Instructions[0].(*lowering.HydrateLetElement)
		if !let.ToBindingContext || len(let.Instructions) != 1 {
			t.Errorf("Expected one binding on the binding context, got %#v", let)
		}
	})

	t.Run("should silently drop non-property commands", func(t *testing.T) {
		module := lower(t, `<let name.trigger="boom()"></let>`)
		let := module.Template(0).Rows[0].Instructions[0].(*lowering.HydrateLetElement)
		if len(let.Instructions) != 0 {
			t.Errorf("Expected the trigger binding to be dropped, got %#v", let.Instructions)
		}
		if len(module.Diagnostics) != 0 {
			t.Errorf("Expected no diagnostics, got %#v", module.Diagnostics)
		}
	})
}

func TestLowerProjections(t *testing.T) {
	t.Run("should divert slotted children into projection templates", func(t *testing.T) {
		module := lower(t, `<my-card><div au-slot="header">H</div><span>rest</span></my-card>`)
		if len(module.Templates) != 2 {
			t.Fatalf("Expected a projection template, got %d templates", len(module.Templates))
		}

		host := module.Template(0).Rows[0]
		if host.Projections["header"] != 1 {
			t.Errorf("Expected header to map to template 1, got %#v", host.Projections)
		}
		if len(host.ProjectionOrder) != 1 || host.ProjectionOrder[0] != "header" {
			t.Errorf("Expected authored slot order, got %#v", host.ProjectionOrder)
		}

		// The non-slotted span stays in the host template, after the host row.
		rows := module.Template(0).Rows
		if len(rows) != 2 {
			t.Fatalf("Expected the host and the span rows, got %d", len(rows))
		}
		if el := rows[1].Node.(*ml_parser.Element); el.Name != "span" {
			t.Errorf("Expected the span to stay put, got %q", el.Name)
		}
	})

	t.Run("should name a bare au-slot default", func(t *testing.T) {
		module := lower(t, `<my-card><div au-slot>x</div></my-card>`)
		host := module.Template(0).Rows[0]
		if _, ok := host.Projections["default"]; !ok {
			t.Errorf("Expected the default slot, got %#v", host.Projections)
		}
	})

	t.Run("should group repeated slot names into one template", func(t *testing.T) {
		module := lower(t, `<my-card><b au-slot="x">1</b><i au-slot="x">2</i></my-card>`)
		host := module.Template(0).Rows[0]
		if len(host.ProjectionOrder) != 1 {
			t.Fatalf("Expected one projection entry, got %#v", host.ProjectionOrder)
		}
		projected := module.Template(host.Projections["x"]).Rows
		if len(projected) != 2 {
			t.Errorf("Expected both children in the shared template, got %d rows", len(projected))
		}
	})
}

func TestLowerLocalElements(t *testing.T) {
	t.Run("should walk a local-element wrapper without instructions", func(t *testing.T) {
		module := lower(t, `<template as-custom-element="my-el"><div title.bind="t"></div></template>`)
		if len(module.Templates) != 1 {
			t.Fatalf("Expected no synthetic template, got %d", len(module.Templates))
		}
		rows := module.Template(0).Rows
		if len(rows) != 1 {
			t.Fatalf("Expected only the inner div row, got %d", len(rows))
		}
		if _, ok := rows[0].Instructions[0].(*lowering.PropertyBinding); !ok {
			t.Errorf("Expected the inner binding to survive")
		}
	})
}

func TestLowerDiagnostics(t *testing.T) {
	t.Run("should turn a parse failure into a diagnostic and drop the binding", func(t *testing.T) {
		module := lower(t, `<div title.bind="a +"></div>`)
		if len(module.Template(0).Rows[0].Instructions) != 0 {
			t.Errorf("Expected the broken binding to be dropped")
		}
		if len(module.Diagnostics) != 1 {
			t.Fatalf("Expected one diagnostic, got %d", len(module.Diagnostics))
		}
		diag := module.Diagnostics[0]
		if diag.Code != lowering.CodeBadExpression || diag.Severity != util.SeverityError {
			t.Errorf("Expected a %s error, got %#v", lowering.CodeBadExpression, diag)
		}
	})

	t.Run("should carry markup recovery diagnostics onto the module", func(t *testing.T) {
		module := lower(t, `<div><b>text</div>`)
		if len(module.Diagnostics) == 0 {
			t.Errorf("Expected the parser's recovery diagnostics to surface")
		}
		for _, diag := range module.Diagnostics {
			if !strings.HasPrefix(diag.Code, "AUM") {
				t.Errorf("Expected markup codes, got %q", diag.Code)
			}
		}
	})
}

func TestNodeAt(t *testing.T) {
	t.Run("should resolve tag-name offsets through controller rewrites", func(t *testing.T) {
		source := `<div if.bind="isOpen"><template repeat.for="item of items"><status-badge></status-badge></template></div>`
		module := lower(t, source)
		offset := strings.Index(source, "status-badge") + 3
		el := module.NodeAt(offset)
		if el == nil || el.Name != "status-badge" {
			t.Fatalf("Expected status-badge, got %#v", el)
		}
		closing := strings.LastIndex(source, "status-badge")
		if el2 := module.NodeAt(closing); el2 != el {
			t.Errorf("Expected the closing tag to resolve to the same element")
		}
	})
}

func TestExpressionTable(t *testing.T) {
	t.Run("should reuse entries only when deduplication is on", func(t *testing.T) {
		parser := expression_parser.NewParser()
		span := util.NewSpan(5, 9)

		table := lowering.NewExpressionTable()
		first, err := table.Add(parser, "name", expression_parser.KindGeneralBinding, span, true)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		second, _ := table.Add(parser, "name", expression_parser.KindGeneralBinding, span, true)
		if first != second || table.Len() != 1 {
			t.Errorf("Expected the duplicate to be reused, got ids %d and %d", first, second)
		}

		plain := lowering.NewExpressionTable()
		a, _ := plain.Add(parser, "name", expression_parser.KindGeneralBinding, span, false)
		b, _ := plain.Add(parser, "name", expression_parser.KindGeneralBinding, span, false)
		if a == b || plain.Len() != 2 {
			t.Errorf("Expected distinct entries without deduplication")
		}
	})

	t.Run("should not conflate identical text at different positions", func(t *testing.T) {
		parser := expression_parser.NewParser()
		table := lowering.NewExpressionTable()
		a, _ := table.Add(parser, "name", expression_parser.KindGeneralBinding, util.NewSpan(5, 9), true)
		b, _ := table.Add(parser, "name", expression_parser.KindGeneralBinding, util.NewSpan(20, 24), true)
		if a == b {
			t.Errorf("Expected position to distinguish entries")
		}
	})
}
