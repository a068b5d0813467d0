package html

import (
	"context"
	"net/url"
	"strings"

	"github.com/fwojciec/html2md"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// conversion holds the output of one document walk. It is never shared
// between documents.
type conversion struct {
	ctx      context.Context
	renderer *Renderer
	filter   *Filter
	images   html2md.ImageResolver
	pageURL  *url.URL
	out      *strings.Builder
}

// node renders n and its subtree.
func (c *conversion) node(st State, n *html.Node) error {
	switch n.Type {
	case html.TextNode:
		c.text(st, n)
		return nil
	case html.ElementNode:
	default:
		return nil
	}

	if c.filter.Excluded(n) {
		return nil
	}
	if c.filter.Included(n) {
		st = st.WithRenderingEnabled()
	}

	if h, ok := handlers[n.DataAtom]; ok {
		return h(c, st, n)
	}
	return c.children(st, n)
}

// children renders every child of n in order.
func (c *conversion) children(st State, n *html.Node) error {
	if err := c.ctx.Err(); err != nil {
		return err
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if err := c.node(st, child); err != nil {
			return err
		}
	}
	return nil
}

func (c *conversion) text(st State, n *html.Node) {
	s := n.Data
	if st.verbatim {
		c.write(st, s)
		return
	}

	if isBlank(s) {
		if isInline(prevSibling(n)) && isInline(nextSibling(n)) {
			c.write(st, " ")
		}
		return
	}

	if n.Parent != nil && blockTags[n.Parent.DataAtom] {
		if prevSibling(n) == nil {
			s = strings.TrimLeft(s, asciiSpace)
		}
		if nextSibling(n) == nil {
			s = strings.TrimRight(s, asciiSpace)
		}
	}
	c.write(st, Escape(s))
}

// write emits s, following every line break with the state's line prefix.
func (c *conversion) write(st State, s string) {
	if !st.renderingEnabled || s == "" {
		return
	}
	if st.linePrefix != "" {
		s = strings.ReplaceAll(s, "\n", "\n"+st.linePrefix)
	}
	c.out.WriteString(s)
}

// writeRaw emits already prefixed content, such as captured output.
func (c *conversion) writeRaw(st State, s string) {
	if !st.renderingEnabled {
		return
	}
	c.out.WriteString(s)
}

// capture renders fn into a separate buffer and returns what it wrote.
func (c *conversion) capture(fn func() error) (string, error) {
	saved := c.out
	c.out = &strings.Builder{}
	defer func() { c.out = saved }()

	if err := fn(); err != nil {
		return "", err
	}
	return c.out.String(), nil
}

// trailingBreaks counts the line breaks, each followed by the line prefix
// of st, that end the output.
func (c *conversion) trailingBreaks(st State) int {
	s := c.out.String()
	unit := "\n" + st.linePrefix
	n := 0
	for strings.HasSuffix(s, unit) {
		n++
		s = s[:len(s)-len(unit)]
	}
	return n
}

// atLineStart reports whether the next write starts a new line.
func (c *conversion) atLineStart(st State) bool {
	return c.out.Len() == 0 || c.trailingBreaks(st) > 0
}

// openBlock starts a block on a fresh line unless the output already ends
// with a blank line.
func (c *conversion) openBlock(st State) {
	if c.trailingBreaks(st) < 2 {
		c.write(st, "\n")
	}
}

// closeBlock writes up to n line breaks, never leaving more than one blank
// line at the end of the output.
func (c *conversion) closeBlock(st State, n int) {
	for have := c.trailingBreaks(st); have < 2 && n > 0; have++ {
		c.write(st, "\n")
		n--
	}
}

// blankLine ensures a blank line separates what follows from prior output.
func (c *conversion) blankLine(st State) {
	if c.out.Len() == 0 {
		return
	}
	c.closeBlock(st, 2)
}

// resolveLink returns the Markdown target for an anchor href.
func (c *conversion) resolveLink(href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || isNonHTTPLink(href) {
		return href, nil
	}

	ref, err := url.Parse(href)
	if err != nil {
		return href, nil
	}
	resolved := c.pageURL.ResolveReference(ref)
	if isImagePath(resolved.Path) {
		return c.resolveImage(href)
	}
	if ref.IsAbs() {
		return href, nil
	}
	return resolved.String(), nil
}

// resolveImage returns the Markdown target for an image source.
func (c *conversion) resolveImage(src string) (string, error) {
	src = strings.TrimSpace(src)
	if src == "" || isNonHTTPLink(src) {
		return src, nil
	}
	if c.images == nil {
		ref, err := url.Parse(src)
		if err != nil {
			return src, nil
		}
		return c.pageURL.ResolveReference(ref).String(), nil
	}
	return c.images.Resolve(c.ctx, src, c.pageURL.String())
}

const asciiSpace = " \t\n\r\f"

func isBlank(s string) bool {
	return strings.Trim(s, asciiSpace) == ""
}

// prevSibling returns the nearest preceding sibling that is not a comment.
func prevSibling(n *html.Node) *html.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type != html.CommentNode {
			return s
		}
	}
	return nil
}

// nextSibling returns the nearest following sibling that is not a comment.
func nextSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type != html.CommentNode {
			return s
		}
	}
	return nil
}

// isInline reports whether n flows within a line of text.
func isInline(n *html.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type {
	case html.TextNode:
		return true
	case html.ElementNode:
		return !blockTags[n.DataAtom] && !skippedTags[n.DataAtom]
	}
	return false
}

// hasFollowingContent reports whether a sibling after n produces output.
func hasFollowingContent(n *html.Node) bool {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		switch s.Type {
		case html.TextNode:
			if !isBlank(s.Data) {
				return true
			}
		case html.ElementNode:
			if !skippedTags[s.DataAtom] {
				return true
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func classes(n *html.Node) []string {
	v, _ := attr(n, "class")
	return strings.Fields(v)
}

// isNonHTTPLink checks if a href is a non-HTTP link that is emitted as written.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".bmp", ".ico", ".tif", ".tiff", ".avif"}

func isImagePath(p string) bool {
	p = strings.ToLower(p)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

// blockTags start a new block of output.
var blockTags = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Body: true, atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Figure: true, atom.Footer: true, atom.Form: true, atom.H1: true, atom.H2: true,
	atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true, atom.Header: true,
	atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true, atom.Ol: true,
	atom.P: true, atom.Pre: true, atom.Section: true, atom.Table: true, atom.Tbody: true,
	atom.Td: true, atom.Tfoot: true, atom.Th: true, atom.Thead: true, atom.Tr: true,
	atom.Ul: true,
}

// skippedTags never produce output.
var skippedTags = map[atom.Atom]bool{
	atom.Head: true, atom.Link: true, atom.Meta: true, atom.Noscript: true,
	atom.Script: true, atom.Style: true, atom.Template: true, atom.Title: true,
}
