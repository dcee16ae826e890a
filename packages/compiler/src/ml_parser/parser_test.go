package ml_parser_test

import (
	"testing"

	"auc-go/packages/compiler/src/ml_parser"
	"auc-go/packages/compiler/src/util"
)

func parse(t *testing.T, source string) *ml_parser.Result {
	t.Helper()
	return ml_parser.NewParser().Parse(util.NewSourceFile(source, "test.html"))
}

func rootElement(t *testing.T, result *ml_parser.Result) *ml_parser.Element {
	t.Helper()
	if len(result.Nodes) == 0 {
		t.Fatalf("Expected at least one root node")
	}
	el, ok := result.Nodes[0].(*ml_parser.Element)
	if !ok {
		t.Fatalf("Expected an element, got %T", result.Nodes[0])
	}
	return el
}

func TestParseElements(t *testing.T) {
	t.Run("should parse a nested tree with exact name spans", func(t *testing.T) {
		source := `<div><span>hi</span></div>`
		div := rootElement(t, parse(t, source))

		if div.Name != "div" {
			t.Errorf("Expected div, got %q", div.Name)
		}
		if got := source[div.NameSpan.Start:div.NameSpan.End]; got != "div" {
			t.Errorf("Expected name span to cover div, got %q", got)
		}
		if got := source[div.CloseNameSpan.Start:div.CloseNameSpan.End]; got != "div" {
			t.Errorf("Expected close name span to cover div, got %q", got)
		}

		span, ok := div.Children[0].(*ml_parser.Element)
		if !ok {
			t.Fatalf("Expected a span child, got %T", div.Children[0])
		}
		if got := source[span.NameSpan.Start:span.NameSpan.End]; got != "span" {
			t.Errorf("Expected name span to cover span, got %q", got)
		}
		text, ok := span.Children[0].(*ml_parser.Text)
		if !ok || text.Value != "hi" {
			t.Errorf("Expected text child hi, got %#v", span.Children[0])
		}
	})

	t.Run("should parse self-closing and void elements", func(t *testing.T) {
		result := parse(t, `<input><br/><img src="a.png">`)
		if len(result.Nodes) != 3 {
			t.Fatalf("Expected 3 roots, got %d", len(result.Nodes))
		}
		br := result.Nodes[1].(*ml_parser.Element)
		if br.Name != "br" || !br.IsSelfClosing {
			t.Errorf("Expected self-closing br, got %#v", br)
		}
	})

	t.Run("should parse comments", func(t *testing.T) {
		result := parse(t, `<!-- note --><div></div>`)
		comment, ok := result.Nodes[0].(*ml_parser.Comment)
		if !ok {
			t.Fatalf("Expected a comment, got %T", result.Nodes[0])
		}
		if comment.Value != " note " {
			t.Errorf("Expected %q, got %q", " note ", comment.Value)
		}
	})
}

func TestParseAttributes(t *testing.T) {
	t.Run("should record key and value spans", func(t *testing.T) {
		source := `<div title="hello" hidden></div>`
		div := rootElement(t, parse(t, source))

		title := div.Attr("title")
		if title == nil {
			t.Fatalf("Expected a title attribute")
		}
		if got := source[title.KeySpan.Start:title.KeySpan.End]; got != "title" {
			t.Errorf("Expected key span to cover title, got %q", got)
		}
		if got := source[title.ValueSpan.Start:title.ValueSpan.End]; got != "hello" {
			t.Errorf("Expected value span to cover hello, got %q", got)
		}

		hidden := div.Attr("hidden")
		if hidden == nil || hidden.HasValue {
			t.Errorf("Expected a value-less hidden attribute, got %#v", hidden)
		}
	})

	t.Run("should parse unquoted values", func(t *testing.T) {
		div := rootElement(t, parse(t, `<div id=app></div>`))
		id := div.Attr("id")
		if id == nil || id.Value != "app" {
			t.Errorf("Expected id=app, got %#v", id)
		}
	})

	t.Run("should end an unquoted value at a self-closing tag", func(t *testing.T) {
		result := parse(t, `<input value.bind=name/>`)
		input := rootElement(t, result)
		attr := input.Attr("value.bind")
		if attr == nil || attr.Value != "name" {
			t.Errorf("Expected value.bind=name, got %#v", attr)
		}
		if !input.IsSelfClosing {
			t.Errorf("Expected the tag to close itself")
		}
		if len(result.Errors) != 0 {
			t.Errorf("Expected no diagnostics, got %#v", result.Errors)
		}

		href := rootElement(t, parse(t, `<a href=/docs/intro>x</a>`)).Attr("href")
		if href == nil || href.Value != "/docs/intro" {
			t.Errorf("Expected a bare slash kept in the value, got %#v", href)
		}
	})

	t.Run("should keep binding punctuation in attribute names", func(t *testing.T) {
		div := rootElement(t, parse(t, `<div value.bind="name" :title="t" @click="go()"></div>`))
		if div.Attr("value.bind") == nil || div.Attr(":title") == nil || div.Attr("@click") == nil {
			t.Errorf("Expected punctuated attribute names to survive parsing")
		}
	})
}

func TestParseRecovery(t *testing.T) {
	t.Run("should close dangling elements at EOF", func(t *testing.T) {
		result := parse(t, `<div><span>`)
		div := rootElement(t, result)
		if len(div.Children) != 1 {
			t.Fatalf("Expected span child under div, got %d children", len(div.Children))
		}
		if len(result.Errors) == 0 {
			t.Errorf("Expected recovery diagnostics for unclosed elements")
		}
	})

	t.Run("should unwind the stack on a mismatched close tag", func(t *testing.T) {
		result := parse(t, `<div><b>text</div>`)
		div := rootElement(t, result)
		if div.Name != "div" {
			t.Errorf("Expected div root, got %q", div.Name)
		}
		if len(result.Errors) == 0 {
			t.Errorf("Expected a diagnostic for the implicitly closed b")
		}
	})

	t.Run("should never panic on malformed input", func(t *testing.T) {
		for _, source := range []string{"<", "<div", "</", "</x>", "<div a=", `<div a="`, "<!--", "<a><b></a></b>"} {
			parse(t, source)
		}
	})
}
