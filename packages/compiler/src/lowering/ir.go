package lowering

import (
	"auc-go/packages/compiler/src/expression_parser"
	"auc-go/packages/compiler/src/ml_parser"
	"auc-go/packages/compiler/src/resources"
	"auc-go/packages/compiler/src/util"
)

// NodeID identifies a DOM-tree position within one template. Allocation is
// scoped per template: counters reset when a controller spawns a nested
// template.
type NodeID int

// ExprID identifies one parsed expression in the module's expression table.
type ExprID int

// Instruction is one compiled instruction attached to a node. The set of
// implementations is closed.
type Instruction interface {
	// SourceSpan returns the authored-markup span the instruction came from.
	SourceSpan() util.Span
	isInstruction()
}

type instructionBase struct {
	span util.Span
}

// SourceSpan returns the authored-markup span the instruction came from.
func (b *instructionBase) SourceSpan() util.Span {
	return b.span
}

func (b *instructionBase) isInstruction() {}

// PropertyBinding binds an expression (or interpolation) to a target
// property.
type PropertyBinding struct {
	instructionBase
	// To is the raw attribute target before linking normalizes it to a
	// property name.
	To string
	// ToSpan covers the target part of the attribute name.
	ToSpan util.Span
	From   ExprID
	// Mode is the mode forced by the command; ModeDefault defers to the
	// resolved target.
	Mode resources.BindingMode
	// Command is the binding command name; empty for bare interpolated
	// attributes.
	Command string
}

// AttributeBinding binds an expression to a DOM attribute, a class toggle or
// a style property rather than to a property.
type AttributeBinding struct {
	instructionBase
	// Target is the attribute ("class"/"style" for part bindings).
	Target string
	// Part is the class name or style property for class/style commands.
	Part string
	From ExprID
}

// TextBinding renders an interpolated text node.
type TextBinding struct {
	instructionBase
	From ExprID
}

// Listener attaches an expression as an event handler.
type Listener struct {
	instructionBase
	To      string
	ToSpan  util.Span
	From    ExprID
	Capture bool
}

// RefBinding captures the target node or view-model into the expression.
type RefBinding struct {
	instructionBase
	To   string
	From ExprID
}

// SetProperty assigns a literal value to a property.
type SetProperty struct {
	instructionBase
	To    string
	Value string
}

// NewSetProperty creates a SetProperty instruction. Later stages use it to
// promote static attributes onto recognized properties.
func NewSetProperty(to, value string, span util.Span) *SetProperty {
	return &SetProperty{instructionBase: instructionBase{span: span}, To: to, Value: value}
}

// SetAttribute assigns a literal value to a DOM attribute.
type SetAttribute struct {
	instructionBase
	To    string
	Value string
}

// SetClassAttribute assigns the static class attribute.
type SetClassAttribute struct {
	instructionBase
	Value string
}

// SetStyleAttribute assigns the static style attribute.
type SetStyleAttribute struct {
	instructionBase
	Value string
}

// SpreadBinding captures the host's surplus attributes onto the target.
type SpreadBinding struct {
	instructionBase
}

// LetBinding is one declaration on a `<let>` element.
type LetBinding struct {
	// To is the declared name, in property case.
	To     string
	ToSpan util.Span
	From   ExprID
}

// HydrateLetElement declares scope locals from a `<let>` element.
type HydrateLetElement struct {
	instructionBase
	Instructions     []*LetBinding
	ToBindingContext bool
}

// IteratorBinding binds an iteration header to a controller's iteration
// property.
type IteratorBinding struct {
	instructionBase
	To     string
	ToSpan util.Span
	ForOf  ExprID
}

// HydrateTemplateController instantiates a template controller around a
// nested template.
type HydrateTemplateController struct {
	instructionBase
	// Res is the controller's resource name, e.g. "repeat" or "if".
	Res string
	// ResSpan covers the controller name inside the attribute.
	ResSpan util.Span
	// TemplateIndex is the module index of the spawned nested template.
	TemplateIndex int
	// Props are the controller's own bindings.
	Props []Instruction
}

// Row represents the compiled instructions attached to one node.
type Row struct {
	NodeID NodeID
	// Node is the DOM node the row targets.
	Node ml_parser.Node
	// Instructions in authored order.
	Instructions []Instruction
	// Projections maps slot names to module template indices for content
	// destined to a named projection target.
	Projections map[string]int
	// ProjectionOrder keeps the slot names in authored order.
	ProjectionOrder []string
}

// TemplateIR represents one template's DOM and instruction rows. Index 0 is
// the authored root; higher indices are synthetic templates spawned by
// template controllers or projections.
type TemplateIR struct {
	Index int
	// Root holds the template's top-level nodes.
	Root []ml_parser.Node
	Rows []*Row
}

// Module is the IR produced by lowering: the canonical per-template tree and
// instruction rows, independent of any specific resource catalog. A Module
// is immutable once produced.
type Module struct {
	File        *util.SourceFile
	Templates   []*TemplateIR
	Expressions *ExpressionTable
	Diagnostics []*util.Diagnostic
}

// Template returns the template at the given module index.
func (m *Module) Template(index int) *TemplateIR {
	return m.Templates[index]
}

// NodeAt resolves the element owning the open- or close-tag name span
// containing the given offset, searching every template including synthetic
// nested ones.
func (m *Module) NodeAt(offset int) *ml_parser.Element {
	if len(m.Templates) == 0 {
		return nil
	}
	return elementAt(m.Templates[0].Root, offset)
}

func elementAt(nodes []ml_parser.Node, offset int) *ml_parser.Element {
	for _, node := range nodes {
		el, ok := node.(*ml_parser.Element)
		if !ok {
			continue
		}
		if el.NameSpan.Contains(offset) || el.CloseNameSpan.Contains(offset) {
			return el
		}
		if found := elementAt(el.Children, offset); found != nil {
			return found
		}
	}
	return nil
}

// exprKey implements the content+position deduplication policy.
type exprKey struct {
	kind  expression_parser.ExpressionKind
	text  string
	start int
}

// ExpressionEntry is one parsed expression in the table.
type ExpressionEntry struct {
	ID   ExprID
	Kind expression_parser.ExpressionKind
	Text string
	// Span is the expression text's span in the authored markup.
	Span util.Span
	AST  expression_parser.AST
}

// ExpressionTable holds every expression parsed for a module, optionally
// deduplicated by content and position.
type ExpressionTable struct {
	entries []*ExpressionEntry
	index   map[exprKey]ExprID
}

// NewExpressionTable creates a new ExpressionTable
func NewExpressionTable() *ExpressionTable {
	return &ExpressionTable{index: make(map[exprKey]ExprID)}
}

// Add parses expression text and records it, returning its id. When dedupe
// is set, an entry with identical kind, text and position is reused.
func (t *ExpressionTable) Add(parser *expression_parser.Parser, text string, kind expression_parser.ExpressionKind, span util.Span, dedupe bool) (ExprID, error) {
	key := exprKey{kind: kind, text: text, start: span.Start}
	if dedupe {
		if id, ok := t.index[key]; ok {
			return id, nil
		}
	}
	ast, err := parser.Parse(text, kind, &expression_parser.Context{BaseOffset: span.Start})
	if err != nil {
		return 0, err
	}
	id := ExprID(len(t.entries) + 1)
	t.entries = append(t.entries, &ExpressionEntry{ID: id, Kind: kind, Text: text, Span: span, AST: ast})
	if dedupe {
		t.index[key] = id
	}
	return id, nil
}

// Entry returns the entry for an id, or nil.
func (t *ExpressionTable) Entry(id ExprID) *ExpressionEntry {
	i := int(id) - 1
	if i < 0 || i >= len(t.entries) {
		return nil
	}
	return t.entries[i]
}

// Entries returns all entries in allocation order.
func (t *ExpressionTable) Entries() []*ExpressionEntry {
	return t.entries
}

// Len returns the number of entries.
func (t *ExpressionTable) Len() int {
	return len(t.entries)
}
