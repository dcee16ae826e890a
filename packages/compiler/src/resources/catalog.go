package resources

import (
	"sort"
	"strings"
)

// BindingMode represents how data flows through a binding
type BindingMode int

const (
	// ModeDefault defers to the target's declared default mode.
	ModeDefault BindingMode = iota
	ModeOneTime
	ModeToView
	ModeFromView
	ModeTwoWay
)

// String returns a string representation of the mode
func (m BindingMode) String() string {
	switch m {
	case ModeOneTime:
		return "one-time"
	case ModeToView:
		return "to-view"
	case ModeFromView:
		return "from-view"
	case ModeTwoWay:
		return "two-way"
	default:
		return "default"
	}
}

// ParseMode parses a mode name; unknown names map to ModeDefault.
func ParseMode(name string) BindingMode {
	switch name {
	case "one-time":
		return ModeOneTime
	case "to-view":
		return ModeToView
	case "from-view":
		return ModeFromView
	case "two-way":
		return ModeTwoWay
	default:
		return ModeDefault
	}
}

// ControllerKind classifies what a template controller does to the scope of
// its nested template.
type ControllerKind int

const (
	// ControllerNone marks attributes that are not template controllers.
	ControllerNone ControllerKind = iota
	// ControllerIterator repeats its template once per collection element.
	ControllerIterator
	// ControllerCondition renders its template conditionally without
	// changing the scope.
	ControllerCondition
	// ControllerWith substitutes the bound value as the nested context.
	ControllerWith
	// ControllerPromise renders a branch of a promise and exposes the
	// settled value under a declared local.
	ControllerPromise
	// ControllerSwitchCase renders one case of a switch.
	ControllerSwitchCase
)

// String returns a string representation of the kind
func (k ControllerKind) String() string {
	switch k {
	case ControllerIterator:
		return "iterator"
	case ControllerCondition:
		return "condition"
	case ControllerWith:
		return "with"
	case ControllerPromise:
		return "promise"
	case ControllerSwitchCase:
		return "switchCase"
	default:
		return "none"
	}
}

// BindableDef describes one bindable property declared by an element or
// attribute resource.
type BindableDef struct {
	// Name is the property name.
	Name string
	// Attribute overrides the attribute spelling; empty means the
	// kebab-cased property name.
	Attribute string
	// Mode is the bindable's default binding mode.
	Mode BindingMode
	// Primary marks the bindable targeted by a bare binding on the
	// resource itself.
	Primary bool
}

// AttributeName returns the attribute spelling for this bindable.
func (b *BindableDef) AttributeName() string {
	if b.Attribute != "" {
		return b.Attribute
	}
	return KebabCase(b.Name)
}

// ElementDef describes a custom element known to the catalog.
type ElementDef struct {
	Name      string
	Aliases   []string
	Bindables []*BindableDef
	// ContainsProjection is true when the element declares named slots.
	ContainsProjection bool
	Origin             Provenance
}

// Bindable returns the bindable declared under the given property name, or nil.
func (e *ElementDef) Bindable(property string) *BindableDef {
	for _, b := range e.Bindables {
		if b.Name == property {
			return b
		}
	}
	return nil
}

// BindableForAttribute resolves an attribute spelling to a bindable, or nil.
func (e *ElementDef) BindableForAttribute(attr string) *BindableDef {
	for _, b := range e.Bindables {
		if b.AttributeName() == attr {
			return b
		}
	}
	return nil
}

// Primary returns the element's primary bindable, or nil.
func (e *ElementDef) Primary() *BindableDef {
	for _, b := range e.Bindables {
		if b.Primary {
			return b
		}
	}
	return nil
}

// AttributeDef describes a custom attribute or template controller.
type AttributeDef struct {
	Name                 string
	Aliases              []string
	Bindables            []*BindableDef
	IsTemplateController bool
	ControllerKind       ControllerKind
	// IterationProperty names the bindable receiving the iteration header
	// on iterator controllers.
	IterationProperty string
	// ContextProperty names the bindable whose value becomes (or names)
	// the nested context on context-rename controllers.
	ContextProperty string
	Origin          Provenance
}

// Bindable returns the bindable declared under the given property name, or nil.
func (a *AttributeDef) Bindable(property string) *BindableDef {
	for _, b := range a.Bindables {
		if b.Name == property {
			return b
		}
	}
	return nil
}

// Primary returns the attribute's primary bindable, or nil.
func (a *AttributeDef) Primary() *BindableDef {
	for _, b := range a.Bindables {
		if b.Primary {
			return b
		}
	}
	return nil
}

// CommandKind classifies what a binding command does with its expression.
type CommandKind int

const (
	// CommandProperty binds the expression to a property.
	CommandProperty CommandKind = iota
	// CommandEvent attaches the expression as an event listener.
	CommandEvent
	// CommandRef captures the target into the expression.
	CommandRef
	// CommandAttr binds to the DOM attribute instead of a property.
	CommandAttr
	// CommandClass toggles a class from the expression.
	CommandClass
	// CommandStyle binds one style property.
	CommandStyle
	// CommandIterator introduces an iteration header.
	CommandIterator
)

// String returns a string representation of the kind
func (k CommandKind) String() string {
	switch k {
	case CommandEvent:
		return "event"
	case CommandRef:
		return "ref"
	case CommandAttr:
		return "attr"
	case CommandClass:
		return "class"
	case CommandStyle:
		return "style"
	case CommandIterator:
		return "iterator"
	default:
		return "property"
	}
}

// CommandDef describes a binding command recognized after the `.` separator
// in an attribute name.
type CommandDef struct {
	Name string
	Kind CommandKind
	// Mode is the binding mode the command forces; ModeDefault commands
	// defer to the resolved target's default.
	Mode   BindingMode
	Origin Provenance
}

// IsPropertyFamily reports whether the command belongs to the property-mode
// family valid on `<let>` bindings.
func (c *CommandDef) IsPropertyFamily() bool {
	return c.Kind == CommandProperty
}

// PatternDef describes a shorthand attribute pattern such as `:target` or
// `@event`, mapping a leading token to a binding command.
type PatternDef struct {
	Prefix  string
	Command string
	Origin  Provenance
}

// ConverterDef describes a value converter usable in expressions.
type ConverterDef struct {
	Name   string
	Origin Provenance
}

// BehaviorDef describes a binding behavior usable in expressions.
type BehaviorDef struct {
	Name   string
	Origin Provenance
}

// Catalog maps canonical lowercase names to resource definitions. A Catalog
// is immutable once built and safe to share across pipelines.
type Catalog struct {
	elements   map[string]*ElementDef
	attributes map[string]*AttributeDef
	commands   map[string]*CommandDef
	patterns   []*PatternDef
	converters map[string]*ConverterDef
	behaviors  map[string]*BehaviorDef
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		elements:   make(map[string]*ElementDef),
		attributes: make(map[string]*AttributeDef),
		commands:   make(map[string]*CommandDef),
		converters: make(map[string]*ConverterDef),
		behaviors:  make(map[string]*BehaviorDef),
	}
}

// AddElement registers an element definition under its canonical name.
func (c *Catalog) AddElement(def *ElementDef) {
	c.elements[strings.ToLower(def.Name)] = def
}

// AddAttribute registers an attribute or controller definition.
func (c *Catalog) AddAttribute(def *AttributeDef) {
	c.attributes[strings.ToLower(def.Name)] = def
}

// AddCommand registers a binding command definition.
func (c *Catalog) AddCommand(def *CommandDef) {
	c.commands[def.Name] = def
}

// AddPattern registers an attribute pattern definition.
func (c *Catalog) AddPattern(def *PatternDef) {
	c.patterns = append(c.patterns, def)
}

// AddConverter registers a value converter definition.
func (c *Catalog) AddConverter(def *ConverterDef) {
	c.converters[def.Name] = def
}

// AddBehavior registers a binding behavior definition.
func (c *Catalog) AddBehavior(def *BehaviorDef) {
	c.behaviors[def.Name] = def
}

// Element returns the element definition for an exact canonical name.
func (c *Catalog) Element(name string) *ElementDef {
	return c.elements[strings.ToLower(name)]
}

// Attribute returns the attribute definition for an exact canonical name.
func (c *Catalog) Attribute(name string) *AttributeDef {
	return c.attributes[strings.ToLower(name)]
}

// Command returns the command definition for a command name.
func (c *Catalog) Command(name string) *CommandDef {
	return c.commands[name]
}

// Converter returns the value converter definition for a name.
func (c *Catalog) Converter(name string) *ConverterDef {
	return c.converters[name]
}

// Behavior returns the binding behavior definition for a name.
func (c *Catalog) Behavior(name string) *BehaviorDef {
	return c.behaviors[name]
}

// MatchPattern matches an attribute name against the registered shorthand
// patterns, returning the rewritten target and the command it implies.
func (c *Catalog) MatchPattern(attrName string) (target string, command *CommandDef, ok bool) {
	for _, pattern := range c.patterns {
		if strings.HasPrefix(attrName, pattern.Prefix) && len(attrName) > len(pattern.Prefix) {
			cmd := c.commands[pattern.Command]
			if cmd == nil {
				continue
			}
			return attrName[len(pattern.Prefix):], cmd, true
		}
	}
	return "", nil, false
}

// ElementsByAlias performs a linear alias scan across element definitions and
// returns every definition carrying the alias. Catalogs are small enough for
// a scan per lookup; an alias index would only pay off for much larger sets.
func (c *Catalog) ElementsByAlias(alias string) []*ElementDef {
	lower := strings.ToLower(alias)
	var matches []*ElementDef
	for _, name := range sortedKeys(c.elements) {
		def := c.elements[name]
		for _, a := range def.Aliases {
			if strings.ToLower(a) == lower {
				matches = append(matches, def)
				break
			}
		}
	}
	return matches
}

// AttributesByAlias performs a linear alias scan across attribute definitions.
func (c *Catalog) AttributesByAlias(alias string) []*AttributeDef {
	lower := strings.ToLower(alias)
	var matches []*AttributeDef
	for _, name := range sortedKeys(c.attributes) {
		def := c.attributes[name]
		for _, a := range def.Aliases {
			if strings.ToLower(a) == lower {
				matches = append(matches, def)
				break
			}
		}
	}
	return matches
}

// ElementNames returns the canonical element names in sorted order.
func (c *Catalog) ElementNames() []string {
	return sortedKeys(c.elements)
}

// AttributeNames returns the canonical attribute names in sorted order.
func (c *Catalog) AttributeNames() []string {
	return sortedKeys(c.attributes)
}

// CommandNames returns the command names in sorted order.
func (c *Catalog) CommandNames() []string {
	return sortedKeys(c.commands)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CamelCase converts a kebab-case name to camelCase.
func CamelCase(name string) string {
	var sb strings.Builder
	upper := false
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if ch == '-' {
			upper = true
			continue
		}
		if upper && ch >= 'a' && ch <= 'z' {
			ch = ch - 'a' + 'A'
		}
		upper = false
		sb.WriteByte(ch)
	}
	return sb.String()
}

// KebabCase converts a camelCase name to kebab-case.
func KebabCase(name string) string {
	var sb strings.Builder
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if ch >= 'A' && ch <= 'Z' {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteByte(ch - 'A' + 'a')
		} else {
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}
