package lowering

import (
	"strings"

	"auc-go/packages/compiler/src/ml_parser"
	"auc-go/packages/compiler/src/resources"
	"auc-go/packages/compiler/src/util"
)

// AttrSyntax is the result of splitting one attribute name into a binding
// target and an optional binding command.
type AttrSyntax struct {
	// Target is the attribute text left of the command, or the rewritten
	// target for shorthand patterns.
	Target string
	// TargetSpan covers the target inside the attribute name.
	TargetSpan util.Span
	// Command is the recognized binding command, or nil.
	Command *resources.CommandDef
	// CommandSpan covers the command suffix when present.
	CommandSpan util.Span
	// IsSpread is true for the `...$attrs` capture attribute.
	IsSpread bool
}

// SyntaxTable is the attribute-syntax table consumed by lowering: binding
// commands and shorthand patterns, plus the set of controller names needed
// to rewrite controller-carrying elements into nested templates. The IR it
// helps produce stays independent of the catalog's definitions.
type SyntaxTable struct {
	catalog *resources.Catalog
}

// NewSyntaxTable creates a syntax table over the given catalog.
func NewSyntaxTable(catalog *resources.Catalog) *SyntaxTable {
	return &SyntaxTable{catalog: catalog}
}

// Split splits an attribute into target and command using the command suffix
// or a recognized shorthand pattern. Attributes matching neither come back
// with a nil Command and their full name as target.
func (t *SyntaxTable) Split(attr *ml_parser.Attribute) AttrSyntax {
	name := attr.Name
	keySpan := attr.KeySpan

	if strings.HasPrefix(name, "...") {
		return AttrSyntax{Target: name, TargetSpan: keySpan, IsSpread: name == "...$attrs"}
	}

	if target, command, ok := t.catalog.MatchPattern(name); ok {
		return AttrSyntax{
			Target:     target,
			TargetSpan: util.NewSpan(keySpan.Start+len(name)-len(target), keySpan.End),
			Command:    command,
		}
	}

	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return AttrSyntax{Target: name, TargetSpan: keySpan}
	}
	target, suffix := name[:idx], name[idx+1:]
	command := t.catalog.Command(suffix)
	if command == nil {
		// An unrecognized suffix is part of the target name.
		return AttrSyntax{Target: name, TargetSpan: keySpan}
	}
	return AttrSyntax{
		Target:      target,
		TargetSpan:  util.NewSpan(keySpan.Start, keySpan.Start+idx),
		Command:     command,
		CommandSpan: util.NewSpan(keySpan.Start+idx+1, keySpan.End),
	}
}

// Controller returns the controller definition for a binding target, or nil
// when the target does not name a template controller.
func (t *SyntaxTable) Controller(target string) *resources.AttributeDef {
	def := t.catalog.Attribute(target)
	if def != nil && def.IsTemplateController {
		return def
	}
	return nil
}
