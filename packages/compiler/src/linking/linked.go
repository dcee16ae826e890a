package linking

import (
	"auc-go/packages/compiler/src/lowering"
	"auc-go/packages/compiler/src/ml_parser"
	"auc-go/packages/compiler/src/resources"
	"auc-go/packages/compiler/src/util"
)

// ElementKind classifies how a row's tag name resolved against the catalog.
type ElementKind int

const (
	// ElementNative is a recognized plain markup element.
	ElementNative ElementKind = iota
	// ElementCustom resolved to a catalog element definition.
	ElementCustom
	// ElementUnknown matched neither the catalog nor the native tag set.
	ElementUnknown
)

// String returns a string representation of the kind
func (k ElementKind) String() string {
	switch k {
	case ElementCustom:
		return "custom"
	case ElementUnknown:
		return "unknown"
	default:
		return "native"
	}
}

// TargetKind classifies what a linked instruction's target resolved to.
type TargetKind int

const (
	// TargetUnknown could not be resolved to any declared target.
	TargetUnknown TargetKind = iota
	// TargetElementBindable is a declared bindable of a custom element.
	TargetElementBindable
	// TargetNativeProperty is a property of a native element.
	TargetNativeProperty
	// TargetControllerProperty is a property of a template controller or
	// custom attribute resource.
	TargetControllerProperty
	// TargetAttribute is a DOM attribute, class or style binding.
	TargetAttribute
)

// String returns a string representation of the kind
func (k TargetKind) String() string {
	switch k {
	case TargetElementBindable:
		return "element-bindable"
	case TargetNativeProperty:
		return "native-property"
	case TargetControllerProperty:
		return "controller-property"
	case TargetAttribute:
		return "attribute"
	default:
		return "unknown"
	}
}

// LinkedInstruction is one instruction re-typed with its resolved target and
// effective binding mode.
type LinkedInstruction struct {
	// Source is the IR instruction this resolution wraps. Instructions
	// synthesized during linking (static bindable assignments) own a fresh
	// IR value; upstream artifacts are never mutated.
	Source lowering.Instruction
	// Target classifies the resolved target.
	Target TargetKind
	// Property is the normalized target property name.
	Property string
	// Mode is the effective binding mode: the catalog default for the
	// resolved target unless the command forces one.
	Mode resources.BindingMode
	// AttributeDef is the custom attribute or controller the instruction
	// targets, when any.
	AttributeDef *resources.AttributeDef
	// Bindable is the resolved bindable definition, when any.
	Bindable *resources.BindableDef
	// TemplateIndex points at the linked nested template for controller
	// instructions; -1 otherwise.
	TemplateIndex int
	// Props holds a controller's own re-typed bindings.
	Props []*LinkedInstruction
}

// LinkedRow is one node's resolved instructions.
type LinkedRow struct {
	NodeID lowering.NodeID
	Node   ml_parser.Node
	// ElementKind and ElementDef describe the row's tag resolution; only
	// meaningful for element rows.
	ElementKind ElementKind
	ElementDef  *resources.ElementDef
	// TagName is the effective tag after any as-element override.
	TagName         string
	Instructions    []*LinkedInstruction
	Projections     map[string]int
	ProjectionOrder []string
}

// LinkedTemplate is one template with resolved rows.
type LinkedTemplate struct {
	Index int
	IR    *lowering.TemplateIR
	Rows  []*LinkedRow
}

// LinkedModule is the immutable result of resolving an IR module against a
// resource catalog.
type LinkedModule struct {
	File        *util.SourceFile
	Source      *lowering.Module
	Templates   []*LinkedTemplate
	Diagnostics []*util.Diagnostic
}

// Template returns the linked template at the given module index.
func (m *LinkedModule) Template(index int) *LinkedTemplate {
	return m.Templates[index]
}

// Expressions returns the source module's expression table.
func (m *LinkedModule) Expressions() *lowering.ExpressionTable {
	return m.Source.Expressions
}
