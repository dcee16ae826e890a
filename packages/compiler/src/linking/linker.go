package linking

import (
	"fmt"
	"strings"

	"auc-go/packages/compiler/src/expression_parser"
	"auc-go/packages/compiler/src/lowering"
	"auc-go/packages/compiler/src/ml_parser"
	"auc-go/packages/compiler/src/resources"
	"auc-go/packages/compiler/src/util"
)

const (
	// CodeUnknownElement reports a tag that matched neither the catalog nor
	// the native element set.
	CodeUnknownElement = "AUC201"
	// CodeUnknownTarget reports a bound target that resolved to nothing.
	CodeUnknownTarget = "AUC202"
	// CodeAmbiguousAlias reports an alias claimed by several definitions.
	CodeAmbiguousAlias = "AUC203"
	// CodeUnknownConverter reports a value converter missing from the catalog.
	CodeUnknownConverter = "AUC204"
	// CodeUnknownBehavior reports a binding behavior missing from the catalog.
	CodeUnknownBehavior = "AUC205"
	// CodeUnexpectedProjection reports a projection into a custom element
	// that declares no slots.
	CodeUnexpectedProjection = "AUC206"
)

// Options configures resolution policy.
type Options struct {
	// PickFirstAlias resolves an ambiguous alias to its first candidate in
	// name order instead of reporting it.
	PickFirstAlias bool
}

// Linker resolves an IR module's names against a resource catalog. Resolution
// never fails: unresolved names classify as unknown and append a diagnostic.
type Linker struct {
	catalog *resources.Catalog
	mapper  *AttrMapper
	syntax  *lowering.SyntaxTable
	options Options
}

// NewLinker creates a new Linker over the given catalog.
func NewLinker(catalog *resources.Catalog, options Options) *Linker {
	return &Linker{
		catalog: catalog,
		mapper:  NewAttrMapper(),
		syntax:  lowering.NewSyntaxTable(catalog),
		options: options,
	}
}

// Link resolves every template of the module. The input module is left
// untouched.
func (l *Linker) Link(module *lowering.Module) *LinkedModule {
	st := &linkState{
		linker: l,
		module: module,
		sink:   util.NewDiagnosticSink(module.File.Name),
		linked: make([]*LinkedTemplate, len(module.Templates)),
	}
	for i := range module.Templates {
		st.template(i)
	}
	st.checkExpressions()

	diags := make([]*util.Diagnostic, 0, len(module.Diagnostics)+len(st.sink.Diagnostics()))
	diags = append(diags, module.Diagnostics...)
	diags = append(diags, st.sink.Diagnostics()...)

	return &LinkedModule{
		File:        module.File,
		Source:      module,
		Templates:   st.linked,
		Diagnostics: diags,
	}
}

type linkState struct {
	linker *Linker
	module *lowering.Module
	sink   *util.DiagnosticSink
	linked []*LinkedTemplate
}

// template links the template at the given index once, linking nested
// controller and projection templates through the same resolution path.
func (st *linkState) template(index int) *LinkedTemplate {
	if st.linked[index] != nil {
		return st.linked[index]
	}
	ir := st.module.Template(index)
	lt := &LinkedTemplate{Index: index, IR: ir, Rows: make([]*LinkedRow, 0, len(ir.Rows))}
	st.linked[index] = lt
	for _, row := range ir.Rows {
		lt.Rows = append(lt.Rows, st.row(row))
	}
	return lt
}

func (st *linkState) row(row *lowering.Row) *LinkedRow {
	lr := &LinkedRow{
		NodeID:          row.NodeID,
		Node:            row.Node,
		Projections:     row.Projections,
		ProjectionOrder: row.ProjectionOrder,
	}

	el, _ := row.Node.(*ml_parser.Element)
	if el != nil {
		st.resolveElement(lr, el)
	}
	if len(row.ProjectionOrder) > 0 && lr.ElementDef != nil && !lr.ElementDef.ContainsProjection {
		message := fmt.Sprintf("element %q declares no projection slots", lr.TagName)
		st.sink.Report(CodeUnexpectedProjection, message, el.NameSpan, util.SeverityWarning)
	}
	for _, slot := range row.ProjectionOrder {
		st.template(row.Projections[slot])
	}

	for _, inst := range row.Instructions {
		lr.Instructions = append(lr.Instructions, st.instruction(lr, inst))
	}
	if lr.ElementDef != nil && el != nil {
		lr.Instructions = append(lr.Instructions, st.staticBindables(lr.ElementDef, el)...)
	}
	return lr
}

// resolveElement fills a row's tag classification. An as-element attribute
// overrides the authored tag name before any catalog lookup.
func (st *linkState) resolveElement(lr *LinkedRow, el *ml_parser.Element) {
	tag := el.Name
	if override := el.Attr("as-element"); override != nil && override.Value != "" {
		tag = override.Value
	}
	lr.TagName = tag

	if def := st.linker.catalog.Element(tag); def != nil {
		lr.ElementKind = ElementCustom
		lr.ElementDef = def
		return
	}
	if candidates := st.linker.catalog.ElementsByAlias(tag); len(candidates) > 0 {
		if len(candidates) > 1 && !st.linker.options.PickFirstAlias {
			st.ambiguous(tag, elementNames(candidates), el.NameSpan)
			lr.ElementKind = ElementUnknown
			return
		}
		lr.ElementKind = ElementCustom
		lr.ElementDef = candidates[0]
		return
	}
	if IsNativeTag(tag) {
		lr.ElementKind = ElementNative
		return
	}
	lr.ElementKind = ElementUnknown
	st.sink.Report(CodeUnknownElement, fmt.Sprintf("unknown element %q", tag), el.NameSpan, util.SeverityInfo)
}

// staticBindables promotes static attributes matching a custom element's
// declared bindables into property assignments.
func (st *linkState) staticBindables(def *resources.ElementDef, el *ml_parser.Element) []*LinkedInstruction {
	var out []*LinkedInstruction
	for _, attr := range el.Attrs {
		if attr.Name == "au-slot" || attr.Name == "as-element" || attr.Name == "ref" {
			continue
		}
		syntax := st.linker.syntax.Split(attr)
		if syntax.Command != nil || syntax.IsSpread {
			continue
		}
		if attr.HasValue && expression_parser.HasInterpolation(attr.Value) {
			continue
		}
		b := def.BindableForAttribute(attr.Name)
		if b == nil {
			continue
		}
		out = append(out, &LinkedInstruction{
			Source:        lowering.NewSetProperty(b.Name, attr.Value, attr.SourceSpan()),
			Target:        TargetElementBindable,
			Property:      b.Name,
			Mode:          effectiveMode(resources.ModeDefault, b.Mode),
			Bindable:      b,
			TemplateIndex: -1,
		})
	}
	return out
}

func (st *linkState) instruction(host *LinkedRow, inst lowering.Instruction) *LinkedInstruction {
	switch v := inst.(type) {
	case *lowering.PropertyBinding:
		return st.propertyBinding(host, v)
	case *lowering.AttributeBinding:
		prop := v.Target
		if v.Part != "" {
			prop = v.Part
		}
		return &LinkedInstruction{Source: v, Target: TargetAttribute, Property: prop, Mode: resources.ModeToView, TemplateIndex: -1}
	case *lowering.TextBinding:
		return &LinkedInstruction{Source: v, Target: TargetNativeProperty, Property: "textContent", Mode: resources.ModeToView, TemplateIndex: -1}
	case *lowering.Listener:
		return &LinkedInstruction{Source: v, Target: TargetNativeProperty, Property: v.To, TemplateIndex: -1}
	case *lowering.RefBinding:
		return &LinkedInstruction{Source: v, Target: TargetNativeProperty, Property: v.To, Mode: resources.ModeFromView, TemplateIndex: -1}
	case *lowering.SetProperty:
		return &LinkedInstruction{Source: v, Target: TargetNativeProperty, Property: v.To, TemplateIndex: -1}
	case *lowering.SetAttribute:
		return &LinkedInstruction{Source: v, Target: TargetAttribute, Property: v.To, TemplateIndex: -1}
	case *lowering.SetClassAttribute:
		return &LinkedInstruction{Source: v, Target: TargetAttribute, Property: "class", TemplateIndex: -1}
	case *lowering.SetStyleAttribute:
		return &LinkedInstruction{Source: v, Target: TargetAttribute, Property: "style", TemplateIndex: -1}
	case *lowering.SpreadBinding:
		return &LinkedInstruction{Source: v, Target: TargetUnknown, TemplateIndex: -1}
	case *lowering.HydrateLetElement:
		return &LinkedInstruction{Source: v, Target: TargetControllerProperty, Mode: resources.ModeToView, TemplateIndex: -1}
	case *lowering.IteratorBinding:
		return &LinkedInstruction{Source: v, Target: TargetControllerProperty, Property: v.To, Mode: resources.ModeToView, TemplateIndex: -1}
	case *lowering.HydrateTemplateController:
		return st.controller(v)
	}
	return &LinkedInstruction{Source: inst, Target: TargetUnknown, TemplateIndex: -1}
}

// propertyBinding resolves a property-family binding: first against custom
// attribute resources, then through the attribute-to-property normalizer
// against the host element.
func (st *linkState) propertyBinding(host *LinkedRow, v *lowering.PropertyBinding) *LinkedInstruction {
	if def := st.attributeDef(v.To, v.ToSpan); def != nil && !def.IsTemplateController {
		prop := "value"
		b := def.Primary()
		if b != nil {
			prop = b.Name
		}
		mode := effectiveMode(v.Mode, resources.ModeDefault)
		if b != nil {
			mode = effectiveMode(v.Mode, b.Mode)
		}
		return &LinkedInstruction{
			Source:        v,
			Target:        TargetControllerProperty,
			Property:      prop,
			Mode:          mode,
			AttributeDef:  def,
			Bindable:      b,
			TemplateIndex: -1,
		}
	}

	prop := st.linker.mapper.Property(host.TagName, v.To, host.ElementDef)
	if host.ElementDef != nil {
		if b := host.ElementDef.Bindable(prop); b != nil {
			return &LinkedInstruction{
				Source:        v,
				Target:        TargetElementBindable,
				Property:      prop,
				Mode:          effectiveMode(v.Mode, b.Mode),
				Bindable:      b,
				TemplateIndex: -1,
			}
		}
	}
	if st.linker.mapper.IsNativeProperty(prop) {
		return &LinkedInstruction{
			Source:        v,
			Target:        TargetNativeProperty,
			Property:      prop,
			Mode:          effectiveMode(v.Mode, resources.ModeDefault),
			TemplateIndex: -1,
		}
	}
	st.sink.Report(CodeUnknownTarget, fmt.Sprintf("unknown binding target %q", v.To), v.ToSpan, util.SeverityWarning)
	return &LinkedInstruction{
		Source:        v,
		Target:        TargetUnknown,
		Property:      prop,
		Mode:          effectiveMode(v.Mode, resources.ModeDefault),
		TemplateIndex: -1,
	}
}

// controller resolves a template controller instruction and links its nested
// template body.
func (st *linkState) controller(v *lowering.HydrateTemplateController) *LinkedInstruction {
	def := st.attributeDef(v.Res, v.ResSpan)
	if def == nil {
		st.sink.Report(CodeUnknownTarget, fmt.Sprintf("unknown template controller %q", v.Res), v.ResSpan, util.SeverityWarning)
	}
	st.template(v.TemplateIndex)

	li := &LinkedInstruction{
		Source:        v,
		Target:        TargetControllerProperty,
		Property:      v.Res,
		AttributeDef:  def,
		TemplateIndex: v.TemplateIndex,
	}
	for _, prop := range v.Props {
		li.Props = append(li.Props, st.controllerProp(def, prop))
	}
	return li
}

// controllerProp resolves one of a controller's own bindings. Lowering
// already names these in property case, so resolution is a direct bindable
// lookup.
func (st *linkState) controllerProp(def *resources.AttributeDef, inst lowering.Instruction) *LinkedInstruction {
	property := func(name string) (*resources.BindableDef, string) {
		if def == nil {
			return nil, name
		}
		if b := def.Bindable(name); b != nil {
			return b, b.Name
		}
		return nil, name
	}

	switch v := inst.(type) {
	case *lowering.PropertyBinding:
		b, prop := property(v.To)
		mode := effectiveMode(v.Mode, resources.ModeDefault)
		if b != nil {
			mode = effectiveMode(v.Mode, b.Mode)
		}
		return &LinkedInstruction{
			Source:        v,
			Target:        TargetControllerProperty,
			Property:      prop,
			Mode:          mode,
			AttributeDef:  def,
			Bindable:      b,
			TemplateIndex: -1,
		}
	case *lowering.IteratorBinding:
		b, prop := property(v.To)
		return &LinkedInstruction{
			Source:        v,
			Target:        TargetControllerProperty,
			Property:      prop,
			Mode:          resources.ModeToView,
			AttributeDef:  def,
			Bindable:      b,
			TemplateIndex: -1,
		}
	case *lowering.SetProperty:
		b, prop := property(v.To)
		return &LinkedInstruction{
			Source:        v,
			Target:        TargetControllerProperty,
			Property:      prop,
			Mode:          resources.ModeOneTime,
			AttributeDef:  def,
			Bindable:      b,
			TemplateIndex: -1,
		}
	}
	return st.instruction(&LinkedRow{}, inst)
}

// attributeDef resolves an attribute resource name through exact match then
// alias scan, applying the ambiguity policy.
func (st *linkState) attributeDef(name string, span util.Span) *resources.AttributeDef {
	if def := st.linker.catalog.Attribute(name); def != nil {
		return def
	}
	candidates := st.linker.catalog.AttributesByAlias(name)
	switch {
	case len(candidates) == 0:
		return nil
	case len(candidates) == 1 || st.linker.options.PickFirstAlias:
		return candidates[0]
	default:
		st.ambiguous(name, attributeNames(candidates), span)
		return nil
	}
}

// checkExpressions walks every parsed expression for value converter and
// binding behavior references missing from the catalog.
func (st *linkState) checkExpressions() {
	for _, entry := range st.module.Expressions.Entries() {
		expression_parser.Walk(entry.AST, func(node expression_parser.AST) bool {
			switch n := node.(type) {
			case *expression_parser.ValueConverter:
				if st.linker.catalog.Converter(n.Name) == nil {
					st.sink.Report(CodeUnknownConverter, fmt.Sprintf("unknown value converter %q", n.Name), n.NameSpan, util.SeverityWarning)
				}
			case *expression_parser.BindingBehavior:
				if st.linker.catalog.Behavior(n.Name) == nil {
					st.sink.Report(CodeUnknownBehavior, fmt.Sprintf("unknown binding behavior %q", n.Name), n.NameSpan, util.SeverityWarning)
				}
			}
			return true
		})
	}
}

func (st *linkState) ambiguous(alias string, candidates []string, span util.Span) {
	message := fmt.Sprintf("alias %q is ambiguous between %s", alias, strings.Join(candidates, ", "))
	st.sink.Report(CodeAmbiguousAlias, message, span, util.SeverityWarning)
}

// effectiveMode applies an explicit command mode over the target's declared
// default.
func effectiveMode(forced, declared resources.BindingMode) resources.BindingMode {
	if forced != resources.ModeDefault {
		return forced
	}
	if declared != resources.ModeDefault {
		return declared
	}
	return resources.ModeToView
}

func elementNames(defs []*resources.ElementDef) []string {
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
	}
	return names
}

func attributeNames(defs []*resources.AttributeDef) []string {
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
	}
	return names
}
