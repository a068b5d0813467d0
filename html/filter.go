package html

import "golang.org/x/net/html"

// Filter decides which nodes of one document contribute to the output.
// Path rules are evaluated once against the document root; tag rules are
// checked per node.
type Filter struct {
	include  []*Selector
	exclude  []*Selector
	included map[*html.Node]bool
	excluded map[*html.Node]bool
}

// NewFilter builds a filter for the document rooted at root.
func NewFilter(root *html.Node, include, exclude []*Selector) *Filter {
	return &Filter{
		include:  include,
		exclude:  exclude,
		included: nodeSet(root, include),
		excluded: nodeSet(root, exclude),
	}
}

// HasIncludes reports whether output is restricted to included nodes.
func (f *Filter) HasIncludes() bool {
	return len(f.include) > 0
}

// Excluded reports whether n and its whole subtree are suppressed.
func (f *Filter) Excluded(n *html.Node) bool {
	return matches(n, f.exclude, f.excluded)
}

// Included reports whether n starts a visible subtree. Every node is
// included when no include rules are configured.
func (f *Filter) Included(n *html.Node) bool {
	if !f.HasIncludes() {
		return true
	}
	return matches(n, f.include, f.included)
}

func matches(n *html.Node, selectors []*Selector, set map[*html.Node]bool) bool {
	if set[n] {
		return true
	}
	for _, s := range selectors {
		if s.MatchesTag(n) {
			return true
		}
	}
	return false
}

func nodeSet(root *html.Node, selectors []*Selector) map[*html.Node]bool {
	set := make(map[*html.Node]bool)
	for _, s := range selectors {
		if s.IsTag() {
			continue
		}
		for _, n := range s.Select(root) {
			set[n] = true
		}
	}
	return set
}
