package scope_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"auc-go/packages/compiler/src/expression_parser"
	"auc-go/packages/compiler/src/linking"
	"auc-go/packages/compiler/src/lowering"
	"auc-go/packages/compiler/src/ml_parser"
	"auc-go/packages/compiler/src/resources"
	"auc-go/packages/compiler/src/scope"
	"auc-go/packages/compiler/src/util"
)

func resolve(t *testing.T, source string) (*scope.Graph, *linking.LinkedModule) {
	t.Helper()
	catalog := resources.DefaultCatalog()
	file := util.NewSourceFile(source, "test.html")
	parsed := ml_parser.NewParser().Parse(file)
	lowerer := lowering.NewLowerer(expression_parser.NewParser(), lowering.NewSyntaxTable(catalog), lowering.Options{})
	linked := linking.NewLinker(catalog, linking.Options{}).Link(lowerer.Lower(file, parsed))
	return scope.NewResolver().Resolve(linked), linked
}

// entryByText finds the expression entry with the given source text.
func entryByText(t *testing.T, module *linking.LinkedModule, text string) *lowering.ExpressionEntry {
	t.Helper()
	for _, entry := range module.Expressions().Entries() {
		if entry.Text == text {
			return entry
		}
	}
	t.Fatalf("No expression %q in the table", text)
	return nil
}

func localNames(f *scope.Frame) []string {
	names := make([]string, 0, len(f.Locals))
	for _, l := range f.Locals {
		names = append(names, l.Name)
	}
	return names
}

func TestResolveRoot(t *testing.T) {
	t.Run("should place plain bindings in the root frame", func(t *testing.T) {
		graph, module := resolve(t, `<div title.bind="name"></div>`)
		if graph.Root == nil || graph.Root.ID != 0 || graph.Root.Kind != scope.FrameRoot {
			t.Fatalf("Expected a root frame with id 0, got %#v", graph.Root)
		}
		if len(graph.Frames()) != 1 {
			t.Errorf("Expected only the root frame, got %d", len(graph.Frames()))
		}
		entry := entryByText(t, module, "name")
		if graph.FrameFor(entry.ID) != graph.Root {
			t.Errorf("Expected the expression in the root frame")
		}
	})

	t.Run("should fall back to the root for unplaced expressions", func(t *testing.T) {
		graph, _ := resolve(t, `<div></div>`)
		if graph.FrameFor(lowering.ExprID(999)) != graph.Root {
			t.Errorf("Expected the root fallback")
		}
	})
}

func TestResolveIterators(t *testing.T) {
	t.Run("should declare header names and contextuals", func(t *testing.T) {
		graph, module := resolve(t, `<li repeat.for="item of items">${item.name}</li>`)
		frame := graph.FrameFor(entryByText(t, module, "${item.name}").ID)
		if frame.Kind != scope.FrameIterator {
			t.Fatalf("Expected an iterator frame, got %s", frame.Kind)
		}
		expected := []string{"item", "$index", "$first", "$last", "$even", "$odd", "$length"}
		if diff := cmp.Diff(expected, localNames(frame)); diff != "" {
			t.Errorf("Unexpected locals (-want +got):\n%s", diff)
		}
		if frame.IterationExpr != entryByText(t, module, "item of items").ID {
			t.Errorf("Expected the frame to record its header expression")
		}
	})

	t.Run("should evaluate the header in the enclosing frame", func(t *testing.T) {
		graph, module := resolve(t, `<li repeat.for="item of items">${item}</li>`)
		header := entryByText(t, module, "item of items")
		if graph.FrameFor(header.ID) != graph.Root {
			t.Errorf("Expected the header outside the frame it introduces")
		}
	})

	t.Run("should declare destructured header names", func(t *testing.T) {
		graph, module := resolve(t, `<li repeat.for="[key, value] of pairs">${key}</li>`)
		frame := graph.FrameFor(entryByText(t, module, "${key}").ID)
		names := localNames(frame)
		if names[0] != "key" || names[1] != "value" {
			t.Errorf("Expected both destructured names, got %v", names)
		}
	})

	t.Run("should resolve outer locals through ancestor hops", func(t *testing.T) {
		graph, module := resolve(t, `<li repeat.for="group of groups"><span repeat.for="item of group.items">${item}</span></li>`)
		inner := graph.FrameFor(entryByText(t, module, "${item}").ID)
		outer := inner.Parent

		if got := inner.Resolve("group", 0); got != outer {
			t.Errorf("Expected group to resolve in the outer iteration, got %#v", got)
		}
		if got := inner.Resolve("$index", 0); got != inner {
			t.Errorf("Expected the inner $index by default")
		}
		if got := inner.Resolve("$index", 1); got != outer {
			t.Errorf("Expected one hop to reach the outer $index")
		}
		if got := inner.Resolve("missing", 0); got != nil {
			t.Errorf("Expected an undeclared name to fall through to the root context")
		}
	})
}

func TestResolveConditionals(t *testing.T) {
	t.Run("should push a local-free condition frame", func(t *testing.T) {
		graph, module := resolve(t, `<div if.bind="isOpen">${detail}</div>`)
		frame := graph.FrameFor(entryByText(t, module, "${detail}").ID)
		if frame.Kind != scope.FrameCondition || len(frame.Locals) != 0 {
			t.Errorf("Expected a bare condition frame, got %#v", frame)
		}
		condition := entryByText(t, module, "isOpen")
		if graph.FrameFor(condition.ID) != graph.Root {
			t.Errorf("Expected the condition in the enclosing frame")
		}
	})

	t.Run("should classify switch and case frames", func(t *testing.T) {
		graph, module := resolve(t, `<div switch.bind="status"><span case.bind="ok">fine</span></div>`)
		frame := graph.FrameFor(entryByText(t, module, "ok").ID)
		if frame.Kind != scope.FrameSwitchCase {
			t.Errorf("Expected the case binding inside the switch frame, got %s", frame.Kind)
		}
	})
}

func TestResolveWith(t *testing.T) {
	t.Run("should substitute the bound context", func(t *testing.T) {
		graph, module := resolve(t, `<div with.bind="person">${name}</div>`)
		frame := graph.FrameFor(entryByText(t, module, "${name}").ID)
		if frame.Kind != scope.FrameWith {
			t.Fatalf("Expected a with frame, got %s", frame.Kind)
		}
		if frame.ContextExpr != entryByText(t, module, "person").ID {
			t.Errorf("Expected the context expression to be recorded")
		}
	})
}

func TestResolvePromises(t *testing.T) {
	t.Run("should name the settled value after the bound receiver", func(t *testing.T) {
		source := `<div promise.bind="load()"><template then.from-view="data">${data}</template></div>`
		graph, module := resolve(t, source)
		frame := graph.FrameFor(entryByText(t, module, "${data}").ID)
		if frame.Kind != scope.FramePromise || frame.ControllerName != "then" {
			t.Fatalf("Expected a then frame, got %s %q", frame.Kind, frame.ControllerName)
		}
		local := frame.Local("data")
		if local == nil {
			t.Fatalf("Expected data declared, got %v", localNames(frame))
		}
		if local.Expr != entryByText(t, module, "data").ID {
			t.Errorf("Expected the local to carry its receiver expression")
		}
	})

	t.Run("should retrace the controller nesting from the innermost frame", func(t *testing.T) {
		source := `<div promise.bind="load()"><template then.from-view="data">${data}</template></div>`
		graph, module := resolve(t, source)
		frame := graph.FrameFor(entryByText(t, module, "${data}").ID)
		if diff := cmp.Diff([]string{"promise", "then"}, frame.ControllerPath()); diff != "" {
			t.Errorf("Unexpected controller path (-want +got):\n%s", diff)
		}
	})
}

func TestResolveLet(t *testing.T) {
	t.Run("should extend the frame for the remainder of the template", func(t *testing.T) {
		graph, module := resolve(t, `<p>${nick}</p><let nick.bind="name"></let><p>${nick}</p>`)
		before := graph.FrameFor(module.Expressions().Entries()[0].ID)
		if before != graph.Root {
			t.Errorf("Expected text before the let to stay in the root frame")
		}
		after := graph.FrameFor(module.Expressions().Entries()[2].ID)
		if after.Kind != scope.FrameLet || after.Local("nick") == nil {
			t.Errorf("Expected the later text inside the let extension, got %#v", after)
		}
	})

	t.Run("should evaluate initializers in the pre-let frame", func(t *testing.T) {
		graph, module := resolve(t, `<let nick.bind="name"></let>`)
		init := entryByText(t, module, "name")
		if graph.FrameFor(init.ID) != graph.Root {
			t.Errorf("Expected the initializer outside its own declaration")
		}
	})

	t.Run("should keep let extensions out of the controller path", func(t *testing.T) {
		graph, module := resolve(t, `<div if.bind="ok"><let x.bind="1"></let><span>${x}</span></div>`)
		frame := graph.FrameFor(entryByText(t, module, "${x}").ID)
		if frame.Kind != scope.FrameLet {
			t.Fatalf("Expected the text in the let extension, got %s", frame.Kind)
		}
		if diff := cmp.Diff([]string{"if"}, frame.ControllerPath()); diff != "" {
			t.Errorf("Unexpected controller path (-want +got):\n%s", diff)
		}
	})
}

func TestResolveProjections(t *testing.T) {
	t.Run("should evaluate projected content in the projecting frame", func(t *testing.T) {
		source := `<div repeat.for="item of items"><my-card><span au-slot="x">${item}</span></my-card></div>`
		graph, module := resolve(t, source)
		frame := graph.FrameFor(entryByText(t, module, "${item}").ID)
		if frame.Kind != scope.FrameIterator {
			t.Errorf("Expected the projected text in the iteration frame, got %s", frame.Kind)
		}
	})
}

func TestGraphAccessors(t *testing.T) {
	t.Run("should hand out frames by id in allocation order", func(t *testing.T) {
		graph, _ := resolve(t, `<div if.bind="a"><span repeat.for="x of xs"></span></div>`)
		frames := graph.Frames()
		if len(frames) != 3 {
			t.Fatalf("Expected 3 frames, got %d", len(frames))
		}
		for i, f := range frames {
			if f.ID != i || graph.Frame(i) != f {
				t.Errorf("Expected frame %d to be addressable by id", i)
			}
		}
		if graph.Frame(99) != nil {
			t.Errorf("Expected nil for an out-of-range id")
		}
	})
}
