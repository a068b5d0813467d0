package html2md

import "strings"

// PropertyDataType controls how a front-matter value is rendered.
type PropertyDataType string

// Supported front-matter data types.
const (
	DataTypeText PropertyDataType = "text"
	DataTypeDate PropertyDataType = "date"
)

// Options configures a conversion run. It is built once and shared,
// read-only, by every document of a batch.
type Options struct {
	// IncludeTags restricts output to nodes matching one of these tag names
	// or path expressions. Empty means the whole body.
	IncludeTags []string

	// ExcludeTags suppresses matching nodes and their subtrees.
	// Exclusion always wins over inclusion.
	ExcludeTags []string

	// DefaultCodeLanguage tags fenced code blocks that have no mapped class.
	DefaultCodeLanguage string

	// CodeLanguageClassMap maps HTML class tokens to fenced-code languages.
	CodeLanguageClassMap map[string]string

	FrontMatter FrontMatterOptions
}

// FrontMatterOptions configures the metadata preamble.
type FrontMatterOptions struct {
	Enabled bool

	// Properties are rendered in slice order.
	Properties []FrontMatterProperty
}

// FrontMatterProperty captures a single value from the page.
type FrontMatterProperty struct {
	Name     string
	Path     string
	DataType PropertyDataType
}

// Validate returns an error if the options contain invalid fields.
// Path expression syntax is checked by the renderer that compiles them.
func (o *Options) Validate() error {
	for _, tag := range o.IncludeTags {
		if strings.TrimSpace(tag) == "" {
			return Errorf(EINVALID, "include tag must not be empty")
		}
	}
	for _, tag := range o.ExcludeTags {
		if strings.TrimSpace(tag) == "" {
			return Errorf(EINVALID, "exclude tag must not be empty")
		}
	}
	for class, lang := range o.CodeLanguageClassMap {
		if class == "" || lang == "" {
			return Errorf(EINVALID, "code language mapping %q=%q must have both class and language", class, lang)
		}
	}

	seen := make(map[string]bool)
	for _, p := range o.FrontMatter.Properties {
		if p.Name == "" {
			return Errorf(EINVALID, "front matter property name required")
		}
		if p.Path == "" {
			return Errorf(EINVALID, "front matter property %q requires a path", p.Name)
		}
		switch p.DataType {
		case "", DataTypeText, DataTypeDate:
		default:
			return Errorf(EINVALID, "front matter property %q has unknown data type %q", p.Name, p.DataType)
		}
		if seen[p.Name] {
			return Errorf(EINVALID, "duplicate front matter property %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}
