package resources

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogFile is the YAML shape of a user resource declaration file.
type catalogFile struct {
	Elements   []elementDecl   `yaml:"elements"`
	Attributes []attributeDecl `yaml:"attributes"`
	Converters []string        `yaml:"converters"`
	Behaviors  []string        `yaml:"behaviors"`
}

type elementDecl struct {
	Name               string         `yaml:"name"`
	Aliases            []string       `yaml:"aliases,omitempty"`
	Bindables          []bindableDecl `yaml:"bindables,omitempty"`
	ContainsProjection bool           `yaml:"contains_projection,omitempty"`
}

type attributeDecl struct {
	Name               string         `yaml:"name"`
	Aliases            []string       `yaml:"aliases,omitempty"`
	Bindables          []bindableDecl `yaml:"bindables,omitempty"`
	TemplateController bool           `yaml:"template_controller,omitempty"`
}

type bindableDecl struct {
	Name      string `yaml:"name"`
	Attribute string `yaml:"attribute,omitempty"`
	Mode      string `yaml:"mode,omitempty"`
	Primary   bool   `yaml:"primary,omitempty"`
}

// Loader merges user-declared resources into a catalog. A malformed file is
// a configuration error and is returned as such; this is the one place the
// compiler is allowed to fail hard instead of emitting diagnostics.
type Loader struct{}

// NewLoader creates a new Loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile reads a YAML resource declaration file and merges it into a copy
// of the base catalog. Merged entries carry config provenance pointing at the
// file.
func (l *Loader) LoadFile(base *Catalog, path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading resource file %s: %w", path, err)
	}
	return l.Load(base, data, path)
}

// Load merges YAML resource declarations into a copy of the base catalog.
func (l *Loader) Load(base *Catalog, data []byte, location string) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing resource file %s: %w", location, err)
	}

	merged := l.clone(base)
	origin := FromConfig(location)

	for _, decl := range file.Elements {
		if decl.Name == "" {
			return nil, fmt.Errorf("resource file %s: element with empty name", location)
		}
		merged.AddElement(&ElementDef{
			Name:               decl.Name,
			Aliases:            decl.Aliases,
			Bindables:          l.bindables(decl.Bindables),
			ContainsProjection: decl.ContainsProjection,
			Origin:             origin,
		})
	}
	for _, decl := range file.Attributes {
		if decl.Name == "" {
			return nil, fmt.Errorf("resource file %s: attribute with empty name", location)
		}
		kind := ControllerNone
		if decl.TemplateController {
			kind = ControllerCondition
		}
		merged.AddAttribute(&AttributeDef{
			Name:                 decl.Name,
			Aliases:              decl.Aliases,
			Bindables:            l.bindables(decl.Bindables),
			IsTemplateController: decl.TemplateController,
			ControllerKind:       kind,
			Origin:               origin,
		})
	}
	for _, name := range file.Converters {
		merged.AddConverter(&ConverterDef{Name: name, Origin: origin})
	}
	for _, name := range file.Behaviors {
		merged.AddBehavior(&BehaviorDef{Name: name, Origin: origin})
	}
	return merged, nil
}

func (l *Loader) bindables(decls []bindableDecl) []*BindableDef {
	var defs []*BindableDef
	for _, d := range decls {
		defs = append(defs, &BindableDef{
			Name:      d.Name,
			Attribute: d.Attribute,
			Mode:      ParseMode(d.Mode),
			Primary:   d.Primary,
		})
	}
	return defs
}

// clone copies the catalog maps so the merged catalog never aliases the
// base's storage.
func (l *Loader) clone(base *Catalog) *Catalog {
	c := NewCatalog()
	for _, name := range base.ElementNames() {
		c.AddElement(base.Element(name))
	}
	for _, name := range base.AttributeNames() {
		c.AddAttribute(base.Attribute(name))
	}
	for _, name := range base.CommandNames() {
		c.AddCommand(base.Command(name))
	}
	for _, p := range base.patterns {
		c.AddPattern(p)
	}
	for name, def := range base.converters {
		c.converters[name] = def
	}
	for name, def := range base.behaviors {
		c.behaviors[name] = def
	}
	return c
}
