package html

import (
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"github.com/fwojciec/html2md"
	dps "github.com/markusmobius/go-dateparser"
	"golang.org/x/net/html"
)

// DateFormat is the layout of date-typed front-matter values.
const DateFormat = "2006-01-02T15:04:05.0000000"

// dateLayouts are tried before falling back to natural-language parsing.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Monday, January 2, 2006 3:04:05 PM",
	"January 2, 2006 3:04:05 PM",
	"January 2, 2006",
	time.RFC1123Z,
	time.RFC1123,
}

type frontMatterProperty struct {
	name     string
	selector *Selector
	dataType html2md.PropertyDataType
}

// FrontMatter renders the metadata preamble of a document.
type FrontMatter struct {
	properties []frontMatterProperty
}

// NewFrontMatter compiles the configured property paths.
// Returns nil if front matter is disabled or has no properties.
func NewFrontMatter(opts html2md.FrontMatterOptions) (*FrontMatter, error) {
	if !opts.Enabled || len(opts.Properties) == 0 {
		return nil, nil
	}
	fm := &FrontMatter{}
	for _, p := range opts.Properties {
		sel, err := CompileSelector(p.Path)
		if err != nil {
			return nil, err
		}
		fm.properties = append(fm.properties, frontMatterProperty{
			name:     p.Name,
			selector: sel,
			dataType: p.DataType,
		})
	}
	return fm, nil
}

// Render returns the preamble for the document rooted at root. Properties
// without a match are omitted, and so is the preamble when nothing matches.
// A date value that cannot be parsed fails with EDATEFORMAT.
func (fm *FrontMatter) Render(root *html.Node) (string, error) {
	var b strings.Builder
	for _, p := range fm.properties {
		matches := p.selector.Select(root)
		if len(matches) == 0 {
			continue
		}
		value := strings.TrimSpace(htmlquery.InnerText(matches[0]))
		if p.dataType == html2md.DataTypeDate {
			t, err := ParseDate(value)
			if err != nil {
				return "", html2md.Errorf(html2md.EDATEFORMAT, "front matter property %q: cannot parse %q as a date", p.name, value)
			}
			value = t.Format(DateFormat)
		}
		b.WriteString(p.name + ": " + strconv.Quote(value) + "\n")
	}
	if b.Len() == 0 {
		return "", nil
	}
	return "---\n" + b.String() + "---\n", nil
}

// ParseDate interprets s as a date and time.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	d, err := dps.Parse(nil, s)
	if err != nil {
		return time.Time{}, err
	}
	if d.Time.IsZero() {
		return time.Time{}, html2md.Errorf(html2md.EDATEFORMAT, "no date in %q", s)
	}
	return d.Time, nil
}
