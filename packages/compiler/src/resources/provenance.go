package resources

// ProvenanceKind represents where a catalog fact came from
type ProvenanceKind int

const (
	// ProvenanceBuiltin marks facts shipped with the compiler.
	ProvenanceBuiltin ProvenanceKind = iota
	// ProvenanceConfig marks facts declared in user configuration.
	ProvenanceConfig
	// ProvenanceSourceKnown marks facts recovered from source analysis with
	// a known value.
	ProvenanceSourceKnown
	// ProvenanceSourceUnknown marks facts whose declaration site was found
	// but whose value could not be resolved.
	ProvenanceSourceUnknown
)

// Provenance records where a catalog value came from and, for source-derived
// facts, whether the value could actually be resolved.
type Provenance struct {
	Kind ProvenanceKind
	// Location names the config file or source position the fact came from;
	// empty for builtins.
	Location string
	// Value is the resolved value for SourceKnown facts.
	Value string
}

// Builtin returns the builtin provenance.
func Builtin() Provenance {
	return Provenance{Kind: ProvenanceBuiltin}
}

// FromConfig returns a config-file provenance.
func FromConfig(location string) Provenance {
	return Provenance{Kind: ProvenanceConfig, Location: location}
}

// FromSource returns a source-derived provenance with a known value.
func FromSource(value, location string) Provenance {
	return Provenance{Kind: ProvenanceSourceKnown, Location: location, Value: value}
}

// FromSourceUnknown returns a source-derived provenance whose value could not
// be resolved.
func FromSourceUnknown(location string) Provenance {
	return Provenance{Kind: ProvenanceSourceUnknown, Location: location}
}

// Unwrap returns the provenance's value. A SourceUnknown provenance is
// treated as absent.
func (p Provenance) Unwrap() (string, bool) {
	switch p.Kind {
	case ProvenanceSourceKnown:
		return p.Value, true
	case ProvenanceSourceUnknown:
		return "", false
	default:
		return p.Value, p.Value != ""
	}
}
