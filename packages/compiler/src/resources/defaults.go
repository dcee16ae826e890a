package resources

// DefaultCatalog builds the catalog of built-in template controllers, binding
// commands and attribute patterns. User resources are merged on top by the
// config loader.
func DefaultCatalog() *Catalog {
	c := NewCatalog()

	// Template controllers.
	c.AddAttribute(&AttributeDef{
		Name:                 "repeat",
		IsTemplateController: true,
		ControllerKind:       ControllerIterator,
		IterationProperty:    "items",
		Bindables: []*BindableDef{
			{Name: "items", Mode: ModeToView, Primary: true},
		},
		Origin: Builtin(),
	})
	c.AddAttribute(&AttributeDef{
		Name:                 "if",
		IsTemplateController: true,
		ControllerKind:       ControllerCondition,
		Bindables: []*BindableDef{
			{Name: "value", Mode: ModeToView, Primary: true},
			{Name: "cache", Mode: ModeToView},
		},
		Origin: Builtin(),
	})
	c.AddAttribute(&AttributeDef{
		Name:                 "else",
		IsTemplateController: true,
		ControllerKind:       ControllerCondition,
		Origin:               Builtin(),
	})
	c.AddAttribute(&AttributeDef{
		Name:                 "with",
		IsTemplateController: true,
		ControllerKind:       ControllerWith,
		ContextProperty:      "value",
		Bindables: []*BindableDef{
			{Name: "value", Mode: ModeToView, Primary: true},
		},
		Origin: Builtin(),
	})
	c.AddAttribute(&AttributeDef{
		Name:                 "promise",
		IsTemplateController: true,
		ControllerKind:       ControllerPromise,
		Bindables: []*BindableDef{
			{Name: "value", Mode: ModeToView, Primary: true},
		},
		Origin: Builtin(),
	})
	c.AddAttribute(&AttributeDef{
		Name:                 "then",
		IsTemplateController: true,
		ControllerKind:       ControllerPromise,
		ContextProperty:      "value",
		Bindables: []*BindableDef{
			{Name: "value", Mode: ModeFromView, Primary: true},
		},
		Origin: Builtin(),
	})
	c.AddAttribute(&AttributeDef{
		Name:                 "catch",
		IsTemplateController: true,
		ControllerKind:       ControllerPromise,
		ContextProperty:      "value",
		Bindables: []*BindableDef{
			{Name: "value", Mode: ModeFromView, Primary: true},
		},
		Origin: Builtin(),
	})
	c.AddAttribute(&AttributeDef{
		Name:                 "switch",
		IsTemplateController: true,
		ControllerKind:       ControllerSwitchCase,
		Bindables: []*BindableDef{
			{Name: "value", Mode: ModeToView, Primary: true},
		},
		Origin: Builtin(),
	})
	c.AddAttribute(&AttributeDef{
		Name:                 "case",
		IsTemplateController: true,
		ControllerKind:       ControllerSwitchCase,
		Bindables: []*BindableDef{
			{Name: "value", Mode: ModeToView, Primary: true},
		},
		Origin: Builtin(),
	})
	c.AddAttribute(&AttributeDef{
		Name:                 "default-case",
		IsTemplateController: true,
		ControllerKind:       ControllerSwitchCase,
		Origin:               Builtin(),
	})

	// Binding commands.
	c.AddCommand(&CommandDef{Name: "bind", Kind: CommandProperty, Mode: ModeDefault, Origin: Builtin()})
	c.AddCommand(&CommandDef{Name: "one-time", Kind: CommandProperty, Mode: ModeOneTime, Origin: Builtin()})
	c.AddCommand(&CommandDef{Name: "to-view", Kind: CommandProperty, Mode: ModeToView, Origin: Builtin()})
	c.AddCommand(&CommandDef{Name: "from-view", Kind: CommandProperty, Mode: ModeFromView, Origin: Builtin()})
	c.AddCommand(&CommandDef{Name: "two-way", Kind: CommandProperty, Mode: ModeTwoWay, Origin: Builtin()})
	c.AddCommand(&CommandDef{Name: "trigger", Kind: CommandEvent, Origin: Builtin()})
	c.AddCommand(&CommandDef{Name: "capture", Kind: CommandEvent, Origin: Builtin()})
	c.AddCommand(&CommandDef{Name: "ref", Kind: CommandRef, Origin: Builtin()})
	c.AddCommand(&CommandDef{Name: "attr", Kind: CommandAttr, Origin: Builtin()})
	c.AddCommand(&CommandDef{Name: "class", Kind: CommandClass, Origin: Builtin()})
	c.AddCommand(&CommandDef{Name: "style", Kind: CommandStyle, Origin: Builtin()})
	c.AddCommand(&CommandDef{Name: "for", Kind: CommandIterator, Origin: Builtin()})

	// Shorthand attribute patterns.
	c.AddPattern(&PatternDef{Prefix: ":", Command: "bind", Origin: Builtin()})
	c.AddPattern(&PatternDef{Prefix: "@", Command: "trigger", Origin: Builtin()})

	return c
}
