package cleaner

// Config defines the class vocabularies and tag whitelist used by the
// canonicalizer. The defaults match the markup published in the chamber
// transcripts; callers only override them when the source changes shape.
type Config struct {
	// === Removal ===

	// RemoveSelectors are deleted outright, contents included.
	// Speaker metadata that the walker already consumed lives here.
	RemoveSelectors []string `json:"remove_selectors" yaml:"remove_selectors"`

	// MetadataSelectors are speech metadata spans left behind once a
	// no-speech motion container has been unwrapped.
	MetadataSelectors []string `json:"metadata_selectors" yaml:"metadata_selectors"`

	// === Paragraph classes ===

	// LayoutClasses are paragraph classes with no meaning beyond layout.
	// The class attribute is dropped from paragraphs carrying one of them.
	LayoutClasses []string `json:"layout_classes" yaml:"layout_classes"`

	// ItalicAliases are paragraph classes rewritten to ItalicClass.
	ItalicAliases []string `json:"italic_aliases" yaml:"italic_aliases"`

	// BoldClass marks paragraphs that are wrapped in <b> instead of keeping a class.
	BoldClass string `json:"bold_class" yaml:"bold_class"`

	// ItalicClass is the only class a paragraph may carry in canonical output.
	ItalicClass string `json:"italic_class" yaml:"italic_class"`

	// === Validation ===

	// AllowedTags is the closed set of element names permitted in output.
	// Paragraphs are checked separately: bare or ItalicClass only.
	AllowedTags []string `json:"allowed_tags" yaml:"allowed_tags"`

	// WarnNonASCII records a warning when non-ASCII text survives cleanup.
	WarnNonASCII bool `json:"warn_non_ascii" yaml:"warn_non_ascii"`
}

// DefaultConfig returns the vocabulary used by the published transcripts.
func DefaultConfig() *Config {
	return &Config{
		RemoveSelectors: []string{
			"div.speechType",
			"span.talkername",
			"span.talkerelectorate",
			"span.talkerrole",
			"hr",
		},
		MetadataSelectors: []string{
			"span.speechname",
			"span.speechelectorate",
			"span.speechrole",
			"span.speechtime",
		},
		LayoutClasses: []string{
			"block",
			"parablock",
			"parasmalltablejustified",
			"parasmalltableleft",
			"parabold",
			"paraheading",
		},
		ItalicAliases: []string{"paraitalic"},
		BoldClass:     "parabold",
		ItalicClass:   "italic",
		AllowedTags: []string{
			"b", "i", "dl", "dt", "dd", "ul", "li", "a", "table", "td", "tr", "img",
		},
		WarnNonASCII: true,
	}
}

// Merge returns a copy of c with non-empty values from other applied.
// Lists are replaced, not appended, since they describe closed vocabularies.
func (c *Config) Merge(other *Config) *Config {
	merged := *c
	if other == nil {
		return &merged
	}

	if len(other.RemoveSelectors) > 0 {
		merged.RemoveSelectors = other.RemoveSelectors
	}
	if len(other.MetadataSelectors) > 0 {
		merged.MetadataSelectors = other.MetadataSelectors
	}
	if len(other.LayoutClasses) > 0 {
		merged.LayoutClasses = other.LayoutClasses
	}
	if len(other.ItalicAliases) > 0 {
		merged.ItalicAliases = other.ItalicAliases
	}
	if other.BoldClass != "" {
		merged.BoldClass = other.BoldClass
	}
	if other.ItalicClass != "" {
		merged.ItalicClass = other.ItalicClass
	}
	if len(other.AllowedTags) > 0 {
		merged.AllowedTags = other.AllowedTags
	}
	if other.WarnNonASCII {
		merged.WarnNonASCII = true
	}

	return &merged
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
