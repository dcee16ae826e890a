package lowering

import (
	"auc-go/packages/compiler/src/expression_parser"
	"auc-go/packages/compiler/src/ml_parser"
	"auc-go/packages/compiler/src/resources"
	"auc-go/packages/compiler/src/util"
)

// Diagnostic codes emitted by lowering.
const (
	CodeBadExpression = "AUC101"
	CodeMisplacedFor  = "AUC102"
)

// Options configures a Lowerer.
type Options struct {
	// DedupeExpressions reuses expression-table entries with identical
	// kind, text and position.
	DedupeExpressions bool
}

// Lowerer turns a parsed node tree into the IR: stable node ids, instruction
// rows and a deduplicated expression table. A Lowerer holds no state across
// calls.
type Lowerer struct {
	exprParser *expression_parser.Parser
	syntax     *SyntaxTable
	options    Options
}

// NewLowerer creates a new Lowerer
func NewLowerer(exprParser *expression_parser.Parser, syntax *SyntaxTable, options Options) *Lowerer {
	return &Lowerer{exprParser: exprParser, syntax: syntax, options: options}
}

// Lower lowers a parsed markup tree into an IR module. Lowering is total:
// problems become diagnostics on the module, never failures.
func (l *Lowerer) Lower(file *util.SourceFile, parsed *ml_parser.Result) *Module {
	st := &lowerState{
		lowerer: l,
		file:    file,
		module: &Module{
			File:        file,
			Expressions: NewExpressionTable(),
		},
		alloc: newNodeIDAllocator(),
	}
	st.module.Diagnostics = append(st.module.Diagnostics, parsed.Errors...)
	st.lowerTemplate(parsed.Nodes)
	return st.module
}

type lowerState struct {
	lowerer *Lowerer
	file    *util.SourceFile
	module  *Module
	alloc   *nodeIDAllocator
}

func (st *lowerState) syntax() *SyntaxTable {
	return st.lowerer.syntax
}

// lowerTemplate creates a template, reserves its module slot and walks its
// nodes under a fresh NodeID scope. Nested templates created during the walk
// are appended after it.
func (st *lowerState) lowerTemplate(nodes []ml_parser.Node) int {
	tpl := &TemplateIR{Index: len(st.module.Templates), Root: nodes}
	st.module.Templates = append(st.module.Templates, tpl)
	st.alloc.Push()
	st.walkNodes(tpl, nodes)
	st.alloc.Pop()
	return tpl.Index
}

func (st *lowerState) walkNodes(tpl *TemplateIR, nodes []ml_parser.Node) {
	for _, node := range nodes {
		switch n := node.(type) {
		case *ml_parser.Text:
			st.lowerText(tpl, n)
		case *ml_parser.Element:
			st.lowerElement(tpl, n, n.Attrs)
		}
	}
}

// lowerText emits a text-binding row only when the text carries an
// interpolation marker. The original source is re-sliced through the node's
// recorded offsets so spans stay exact even when the parser normalized the
// materialized value.
func (st *lowerState) lowerText(tpl *TemplateIR, text *ml_parser.Text) {
	id := st.alloc.Next()
	value := st.file.Text(text.SourceSpan())
	if !expression_parser.HasInterpolation(value) {
		return
	}
	exprID, ok := st.addExpression(value, expression_parser.KindInterpolation, text.SourceSpan())
	if !ok {
		return
	}
	row := st.row(tpl, id, text)
	row.Instructions = append(row.Instructions, &TextBinding{
		instructionBase: instructionBase{span: text.SourceSpan()},
		From:            exprID,
	})
}

func (st *lowerState) lowerElement(tpl *TemplateIR, el *ml_parser.Element, attrs []*ml_parser.Attribute) {
	if el.Name == "let" {
		st.lowerLet(tpl, el, attrs)
		return
	}
	if el.Name == "template" && el.Attr("as-custom-element") != nil {
		// A local-element wrapper contributes no instructions.
		st.walkNodes(tpl, el.Children)
		return
	}

	// The first template-controller attribute, in declaration order, becomes
	// the outermost controller; the element is rewritten into a synthetic
	// nested template carrying the remaining attributes.
	for i, attr := range attrs {
		syntax := st.syntax().Split(attr)
		def := st.syntax().Controller(syntax.Target)
		if def == nil {
			continue
		}
		st.lowerController(tpl, el, attr, syntax, def, removeAttr(attrs, i))
		return
	}

	st.lowerPlainElement(tpl, el, attrs)
}

// lowerController compiles one controller attribute into a
// hydrate-controller row whose nested template re-processes the element with
// the controller attribute removed.
func (st *lowerState) lowerController(tpl *TemplateIR, el *ml_parser.Element, attr *ml_parser.Attribute, syntax AttrSyntax, def *resources.AttributeDef, rest []*ml_parser.Attribute) {
	id := st.alloc.Next()
	props := st.controllerProps(attr, syntax, def)

	nested := &TemplateIR{Index: len(st.module.Templates), Root: []ml_parser.Node{el}}
	st.module.Templates = append(st.module.Templates, nested)
	st.alloc.Push()
	if el.Name == "template" {
		// The wrapper tag itself renders nothing; the controller repeats
		// its children.
		st.walkNodes(nested, el.Children)
	} else {
		st.lowerElement(nested, el, rest)
	}
	st.alloc.Pop()

	row := st.row(tpl, id, el)
	row.Instructions = append(row.Instructions, &HydrateTemplateController{
		instructionBase: instructionBase{span: attr.SourceSpan()},
		Res:             def.Name,
		ResSpan:         syntax.TargetSpan,
		TemplateIndex:   nested.Index,
		Props:           props,
	})
}

// controllerProps compiles the controller attribute's own value into the
// controller's property instructions.
func (st *lowerState) controllerProps(attr *ml_parser.Attribute, syntax AttrSyntax, def *resources.AttributeDef) []Instruction {
	property := "value"
	if primary := def.Primary(); primary != nil {
		property = primary.Name
	}

	if syntax.Command != nil && syntax.Command.Kind == resources.CommandIterator {
		if def.IterationProperty != "" {
			property = def.IterationProperty
		}
		exprID, ok := st.addExpression(attr.Value, expression_parser.KindIteratorHeader, attr.ValueSpan)
		if !ok {
			return nil
		}
		return []Instruction{&IteratorBinding{
			instructionBase: instructionBase{span: attr.SourceSpan()},
			To:              property,
			ToSpan:          syntax.TargetSpan,
			ForOf:           exprID,
		}}
	}

	if syntax.Command != nil && syntax.Command.IsPropertyFamily() {
		exprID, ok := st.addExpression(attr.Value, expression_parser.KindGeneralBinding, attr.ValueSpan)
		if !ok {
			return nil
		}
		return []Instruction{&PropertyBinding{
			instructionBase: instructionBase{span: attr.SourceSpan()},
			To:              property,
			ToSpan:          syntax.TargetSpan,
			From:            exprID,
			Mode:            syntax.Command.Mode,
			Command:         syntax.Command.Name,
		}}
	}

	if !attr.HasValue || attr.Value == "" {
		return nil
	}
	if expression_parser.HasInterpolation(attr.Value) {
		exprID, ok := st.addExpression(attr.Value, expression_parser.KindInterpolation, attr.ValueSpan)
		if !ok {
			return nil
		}
		return []Instruction{&PropertyBinding{
			instructionBase: instructionBase{span: attr.SourceSpan()},
			To:              property,
			ToSpan:          syntax.TargetSpan,
			From:            exprID,
		}}
	}
	return []Instruction{&SetProperty{
		instructionBase: instructionBase{span: attr.SourceSpan()},
		To:              property,
		Value:           attr.Value,
	}}
}

func (st *lowerState) lowerPlainElement(tpl *TemplateIR, el *ml_parser.Element, attrs []*ml_parser.Attribute) {
	if el.Name == "template" {
		// A plain wrapper template renders only its children.
		st.walkNodes(tpl, el.Children)
		return
	}

	// Every element gets a row, even an instruction-free one, so linking can
	// attach element-level typing where the catalog recognizes the tag.
	row := st.row(tpl, st.alloc.Next(), el)

	for _, attr := range attrs {
		if attr.Name == "au-slot" || attr.Name == "as-element" {
			// au-slot is consumed by the projecting parent; as-element is
			// resolved during linking.
			continue
		}
		if inst := st.lowerAttribute(attr); inst != nil {
			row.Instructions = append(row.Instructions, inst)
		}
	}

	st.walkChildren(tpl, row, el)
}

// lowerAttribute compiles one non-controller attribute into an instruction,
// or nil for static attributes.
func (st *lowerState) lowerAttribute(attr *ml_parser.Attribute) Instruction {
	syntax := st.syntax().Split(attr)
	base := instructionBase{span: attr.SourceSpan()}

	if syntax.IsSpread {
		return &SpreadBinding{instructionBase: base}
	}

	if syntax.Command == nil {
		if attr.Name == "ref" {
			exprID, ok := st.addExpression(attr.Value, expression_parser.KindGeneralBinding, attr.ValueSpan)
			if !ok {
				return nil
			}
			return &RefBinding{instructionBase: base, To: "element", From: exprID}
		}
		if attr.HasValue && expression_parser.HasInterpolation(attr.Value) {
			exprID, ok := st.addExpression(attr.Value, expression_parser.KindInterpolation, attr.ValueSpan)
			if !ok {
				return nil
			}
			return &PropertyBinding{instructionBase: base, To: syntax.Target, ToSpan: syntax.TargetSpan, From: exprID}
		}
		// Neither command nor interpolation: the attribute stays static.
		return nil
	}

	text, span := attr.Value, attr.ValueSpan
	if text == "" {
		// An empty binding value defaults to the property-cased target.
		text, span = resources.CamelCase(syntax.Target), syntax.TargetSpan
	}

	switch syntax.Command.Kind {
	case resources.CommandProperty:
		exprID, ok := st.addExpression(text, expression_parser.KindGeneralBinding, span)
		if !ok {
			return nil
		}
		return &PropertyBinding{
			instructionBase: base,
			To:              syntax.Target,
			ToSpan:          syntax.TargetSpan,
			From:            exprID,
			Mode:            syntax.Command.Mode,
			Command:         syntax.Command.Name,
		}
	case resources.CommandEvent:
		exprID, ok := st.addExpression(text, expression_parser.KindGeneralBinding, span)
		if !ok {
			return nil
		}
		return &Listener{
			instructionBase: base,
			To:              syntax.Target,
			ToSpan:          syntax.TargetSpan,
			From:            exprID,
			Capture:         syntax.Command.Name == "capture",
		}
	case resources.CommandRef:
		exprID, ok := st.addExpression(text, expression_parser.KindGeneralBinding, span)
		if !ok {
			return nil
		}
		return &RefBinding{instructionBase: base, To: syntax.Target, From: exprID}
	case resources.CommandAttr:
		exprID, ok := st.addExpression(text, expression_parser.KindGeneralBinding, span)
		if !ok {
			return nil
		}
		return &AttributeBinding{instructionBase: base, Target: syntax.Target, From: exprID}
	case resources.CommandClass:
		exprID, ok := st.addExpression(text, expression_parser.KindGeneralBinding, span)
		if !ok {
			return nil
		}
		return &AttributeBinding{instructionBase: base, Target: "class", Part: syntax.Target, From: exprID}
	case resources.CommandStyle:
		exprID, ok := st.addExpression(text, expression_parser.KindGeneralBinding, span)
		if !ok {
			return nil
		}
		return &AttributeBinding{instructionBase: base, Target: "style", Part: syntax.Target, From: exprID}
	case resources.CommandIterator:
		st.diagnose(CodeMisplacedFor, "\"for\" command used outside a template controller", attr.SourceSpan(), util.SeverityWarning)
		return nil
	}
	return nil
}

// walkChildren walks an element's children, diverting subtrees destined for
// a named projection target into synthetic templates recorded on the host's
// projection map.
func (st *lowerState) walkChildren(tpl *TemplateIR, row *Row, el *ml_parser.Element) {
	var regular []ml_parser.Node
	slotNodes := make(map[string][]ml_parser.Node)
	var slotOrder []string

	for _, child := range el.Children {
		childEl, ok := child.(*ml_parser.Element)
		if !ok {
			regular = append(regular, child)
			continue
		}
		slotAttr := childEl.Attr("au-slot")
		if slotAttr == nil {
			regular = append(regular, child)
			continue
		}
		slot := slotAttr.Value
		if slot == "" {
			slot = "default"
		}
		if _, seen := slotNodes[slot]; !seen {
			slotOrder = append(slotOrder, slot)
		}
		slotNodes[slot] = append(slotNodes[slot], child)
	}

	for _, slot := range slotOrder {
		index := st.lowerTemplate(slotNodes[slot])
		if row.Projections == nil {
			row.Projections = make(map[string]int)
		}
		row.Projections[slot] = index
		row.ProjectionOrder = append(row.ProjectionOrder, slot)
	}

	st.walkNodes(tpl, regular)
}

// lowerLet compiles a `<let>` element. Only property-mode commands and bare
// interpolated attributes declare bindings; any other command combination is
// dropped without diagnosis.
func (st *lowerState) lowerLet(tpl *TemplateIR, el *ml_parser.Element, attrs []*ml_parser.Attribute) {
	id := st.alloc.Next()
	toBindingContext := false
	var bindings []*LetBinding

	for _, attr := range attrs {
		if attr.Name == "to-binding-context" {
			toBindingContext = true
			continue
		}
		syntax := st.syntax().Split(attr)
		if syntax.Command != nil {
			if !syntax.Command.IsPropertyFamily() {
				continue
			}
			exprID, ok := st.addExpression(attr.Value, expression_parser.KindGeneralBinding, attr.ValueSpan)
			if !ok {
				continue
			}
			bindings = append(bindings, &LetBinding{
				To:     resources.CamelCase(syntax.Target),
				ToSpan: syntax.TargetSpan,
				From:   exprID,
			})
			continue
		}
		if attr.HasValue && expression_parser.HasInterpolation(attr.Value) {
			exprID, ok := st.addExpression(attr.Value, expression_parser.KindInterpolation, attr.ValueSpan)
			if !ok {
				continue
			}
			bindings = append(bindings, &LetBinding{
				To:     resources.CamelCase(attr.Name),
				ToSpan: attr.KeySpan,
				From:   exprID,
			})
		}
	}

	row := st.row(tpl, id, el)
	row.Instructions = append(row.Instructions, &HydrateLetElement{
		instructionBase:  instructionBase{span: el.StartSourceSpan},
		Instructions:     bindings,
		ToBindingContext: toBindingContext,
	})
}

func (st *lowerState) row(tpl *TemplateIR, id NodeID, node ml_parser.Node) *Row {
	row := &Row{NodeID: id, Node: node}
	tpl.Rows = append(tpl.Rows, row)
	return row
}

// addExpression parses and records an expression; a parse failure becomes a
// diagnostic and the instruction is dropped.
func (st *lowerState) addExpression(text string, kind expression_parser.ExpressionKind, span util.Span) (ExprID, bool) {
	id, err := st.module.Expressions.Add(st.lowerer.exprParser, text, kind, span, st.lowerer.options.DedupeExpressions)
	if err != nil {
		diagSpan := span
		if parseErr, ok := err.(*expression_parser.ParseError); ok {
			diagSpan = parseErr.Span
		}
		st.diagnose(CodeBadExpression, err.Error(), diagSpan, util.SeverityError)
		return 0, false
	}
	return id, true
}

func (st *lowerState) diagnose(code, message string, span util.Span, severity util.Severity) {
	st.module.Diagnostics = append(st.module.Diagnostics, util.NewDiagnostic(code, message, span, severity))
}

func removeAttr(attrs []*ml_parser.Attribute, index int) []*ml_parser.Attribute {
	rest := make([]*ml_parser.Attribute, 0, len(attrs)-1)
	rest = append(rest, attrs[:index]...)
	return append(rest, attrs[index+1:]...)
}
