package resources_test

import (
	"testing"

	"auc-go/packages/compiler/src/resources"
)

func TestNameCasing(t *testing.T) {
	t.Run("should camel-case kebab names", func(t *testing.T) {
		cases := map[string]string{
			"in-stock":  "inStock",
			"foo-bar":   "fooBar",
			"value":     "value",
			"a-b-c":     "aBC",
			"fooBar":    "fooBar",
			"trailing-": "trailing",
		}
		for input, expected := range cases {
			if got := resources.CamelCase(input); got != expected {
				t.Errorf("CamelCase(%q): expected %q, got %q", input, expected, got)
			}
		}
	})

	t.Run("should kebab-case camel names", func(t *testing.T) {
		cases := map[string]string{
			"inStock": "in-stock",
			"fooBar":  "foo-bar",
			"value":   "value",
		}
		for input, expected := range cases {
			if got := resources.KebabCase(input); got != expected {
				t.Errorf("KebabCase(%q): expected %q, got %q", input, expected, got)
			}
		}
	})
}

func TestBindableDef(t *testing.T) {
	t.Run("should prefer the declared attribute spelling", func(t *testing.T) {
		b := &resources.BindableDef{Name: "inStock", Attribute: "stocked"}
		if b.AttributeName() != "stocked" {
			t.Errorf("Expected stocked, got %q", b.AttributeName())
		}
	})

	t.Run("should default to the kebab-cased property name", func(t *testing.T) {
		b := &resources.BindableDef{Name: "inStock"}
		if b.AttributeName() != "in-stock" {
			t.Errorf("Expected in-stock, got %q", b.AttributeName())
		}
	})
}

func TestCatalogLookups(t *testing.T) {
	catalog := resources.NewCatalog()
	catalog.AddElement(&resources.ElementDef{
		Name:    "status-badge",
		Aliases: []string{"badge"},
		Bindables: []*resources.BindableDef{
			{Name: "status", Primary: true},
			{Name: "inStock", Attribute: "in-stock"},
		},
		Origin: resources.Builtin(),
	})
	catalog.AddElement(&resources.ElementDef{
		Name:    "score-badge",
		Aliases: []string{"badge"},
		Origin:  resources.Builtin(),
	})

	t.Run("should resolve canonical names case-insensitively", func(t *testing.T) {
		if catalog.Element("STATUS-BADGE") == nil {
			t.Errorf("Expected case-insensitive canonical lookup")
		}
	})

	t.Run("should return alias candidates in name order", func(t *testing.T) {
		candidates := catalog.ElementsByAlias("badge")
		if len(candidates) != 2 {
			t.Fatalf("Expected 2 candidates, got %d", len(candidates))
		}
		if candidates[0].Name != "score-badge" || candidates[1].Name != "status-badge" {
			t.Errorf("Expected deterministic name order, got %s then %s", candidates[0].Name, candidates[1].Name)
		}
	})

	t.Run("should resolve bindables by property and by attribute", func(t *testing.T) {
		def := catalog.Element("status-badge")
		if def.Bindable("inStock") == nil {
			t.Errorf("Expected a bindable under its property name")
		}
		if def.BindableForAttribute("in-stock") == nil {
			t.Errorf("Expected a bindable under its attribute spelling")
		}
		if primary := def.Primary(); primary == nil || primary.Name != "status" {
			t.Errorf("Expected status as the primary bindable, got %#v", primary)
		}
	})
}

func TestDefaultCatalog(t *testing.T) {
	catalog := resources.DefaultCatalog()

	t.Run("should declare the built-in controllers", func(t *testing.T) {
		for name, kind := range map[string]resources.ControllerKind{
			"repeat":       resources.ControllerIterator,
			"if":           resources.ControllerCondition,
			"else":         resources.ControllerCondition,
			"with":         resources.ControllerWith,
			"promise":      resources.ControllerPromise,
			"then":         resources.ControllerPromise,
			"catch":        resources.ControllerPromise,
			"switch":       resources.ControllerSwitchCase,
			"case":         resources.ControllerSwitchCase,
			"default-case": resources.ControllerSwitchCase,
		} {
			def := catalog.Attribute(name)
			if def == nil || !def.IsTemplateController {
				t.Errorf("Expected %q to be a template controller", name)
				continue
			}
			if def.ControllerKind != kind {
				t.Errorf("Expected %q kind %s, got %s", name, kind, def.ControllerKind)
			}
		}
	})

	t.Run("should give repeat an iteration property", func(t *testing.T) {
		repeat := catalog.Attribute("repeat")
		if repeat.IterationProperty != "items" {
			t.Errorf("Expected items, got %q", repeat.IterationProperty)
		}
	})

	t.Run("should carry command modes", func(t *testing.T) {
		if catalog.Command("two-way").Mode != resources.ModeTwoWay {
			t.Errorf("Expected two-way to force two-way mode")
		}
		if catalog.Command("bind").Mode != resources.ModeDefault {
			t.Errorf("Expected bind to defer to the target's default mode")
		}
	})

	t.Run("should match shorthand patterns", func(t *testing.T) {
		target, command, ok := catalog.MatchPattern(":value")
		if !ok || target != "value" || command.Name != "bind" {
			t.Errorf("Expected :value to mean value.bind, got %q %v %v", target, command, ok)
		}
		target, command, ok = catalog.MatchPattern("@click")
		if !ok || target != "click" || command.Name != "trigger" {
			t.Errorf("Expected @click to mean click.trigger")
		}
	})
}

func TestProvenance(t *testing.T) {
	t.Run("should unwrap known values and treat source-unknown as absent", func(t *testing.T) {
		if value, ok := resources.FromSource("badge", "app.ts").Unwrap(); !ok || value != "badge" {
			t.Errorf("Expected source-known provenance to unwrap its value")
		}
		if _, ok := resources.FromSourceUnknown("app.ts").Unwrap(); ok {
			t.Errorf("Expected source-unknown to unwrap as absent")
		}
		if _, ok := resources.Builtin().Unwrap(); ok {
			t.Errorf("Expected builtin provenance to carry no value")
		}
	})
}
