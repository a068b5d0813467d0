package html

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"github.com/fwojciec/html2md"
	"golang.org/x/net/html"
)

var tagNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)

type selectorKind int

const (
	selectorTag selectorKind = iota
	selectorXPath
	selectorCSS
)

// Selector is a compiled include/exclude rule or front-matter path.
// A bare name matches elements by tag, case-insensitively. Expressions
// starting with "/", "./" or "(" are XPath; anything else is a CSS selector.
type Selector struct {
	expr  string
	kind  selectorKind
	tag   string
	xpath *xpath.Expr
	css   cascadia.Selector
}

// CompileSelector parses expr. Returns EINVALID if it is neither a tag name
// nor a valid XPath or CSS expression.
func CompileSelector(expr string) (*Selector, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, html2md.Errorf(html2md.EINVALID, "empty selector")
	}

	s := &Selector{expr: expr}
	switch {
	case tagNamePattern.MatchString(expr):
		s.kind = selectorTag
		s.tag = strings.ToLower(expr)
	case strings.HasPrefix(expr, "/") || strings.HasPrefix(expr, "./") || strings.HasPrefix(expr, "("):
		compiled, err := xpath.Compile(expr)
		if err != nil {
			return nil, html2md.Errorf(html2md.EINVALID, "invalid XPath %q: %v", expr, err)
		}
		s.kind = selectorXPath
		s.xpath = compiled
	default:
		compiled, err := cascadia.Compile(expr)
		if err != nil {
			return nil, html2md.Errorf(html2md.EINVALID, "invalid CSS selector %q: %v", expr, err)
		}
		s.kind = selectorCSS
		s.css = compiled
	}
	return s, nil
}

// String returns the expression the selector was compiled from.
func (s *Selector) String() string {
	return s.expr
}

// IsTag reports whether the selector matches by tag name alone.
func (s *Selector) IsTag() bool {
	return s.kind == selectorTag
}

// MatchesTag reports whether n is an element with the selector's tag name.
// Always false for path selectors.
func (s *Selector) MatchesTag(n *html.Node) bool {
	return s.kind == selectorTag && n.Type == html.ElementNode && strings.EqualFold(n.Data, s.tag)
}

// Select evaluates the selector against root and returns the matches in
// document order.
func (s *Selector) Select(root *html.Node) []*html.Node {
	switch s.kind {
	case selectorXPath:
		return htmlquery.QuerySelectorAll(root, s.xpath)
	case selectorCSS:
		return goquery.NewDocumentFromNode(root).FindMatcher(s.css).Nodes
	default:
		var nodes []*html.Node
		var walk func(*html.Node)
		walk = func(n *html.Node) {
			if s.MatchesTag(n) {
				nodes = append(nodes, n)
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
		walk(root)
		return nodes
	}
}

// compileSelectors compiles every expression, stopping at the first error.
func compileSelectors(exprs []string) ([]*Selector, error) {
	selectors := make([]*Selector, 0, len(exprs))
	for _, expr := range exprs {
		s, err := CompileSelector(expr)
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, s)
	}
	return selectors, nil
}
