package html

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type handler func(c *conversion, st State, n *html.Node) error

// handlers maps elements with dedicated Markdown output to their renderer.
// Elements without an entry contribute their children only.
var handlers map[atom.Atom]handler

func init() {
	handlers = map[atom.Atom]handler{
		atom.H1: heading, atom.H2: heading, atom.H3: heading,
		atom.H4: heading, atom.H5: heading, atom.H6: heading,

		atom.P: paragraph,

		atom.Div: container, atom.Article: container, atom.Section: container,
		atom.Main: container, atom.Header: container, atom.Footer: container,
		atom.Nav: container, atom.Aside: container, atom.Figure: container,
		atom.Form: container, atom.Dl: container, atom.Dt: container,
		atom.Dd: container, atom.Address: container,

		atom.Ul: list, atom.Ol: list, atom.Li: listItem,

		atom.Pre: preformatted, atom.Code: inlineCode,
		atom.Blockquote: blockquote,

		atom.Em: emphasis("*"), atom.I: emphasis("*"),
		atom.Strong: emphasis("**"), atom.B: emphasis("**"),

		atom.A: anchor, atom.Img: image,
		atom.Br: lineBreak, atom.Hr: rule,
		atom.Table: table,
	}
	for a := range skippedTags {
		handlers[a] = skip
	}
}

func skip(*conversion, State, *html.Node) error { return nil }

func heading(c *conversion, st State, n *html.Node) error {
	level := int(n.Data[1] - '0')
	c.openBlock(st)
	c.write(st, strings.Repeat("#", level)+" ")
	if err := c.children(st, n); err != nil {
		return err
	}
	c.closeBlock(st, 2)
	return nil
}

func paragraph(c *conversion, st State, n *html.Node) error {
	before := c.out.Len()
	if err := c.children(st, n); err != nil {
		return err
	}
	if c.out.Len() > before {
		c.closeBlock(st, 2)
	}
	return nil
}

// container renders generic block elements. A blank line follows only when
// the element produced output and more content follows it.
func container(c *conversion, st State, n *html.Node) error {
	before := c.out.Len()
	if err := c.children(st, n); err != nil {
		return err
	}
	if c.out.Len() > before && hasFollowingContent(n) {
		c.closeBlock(st, 2)
	}
	return nil
}

func list(c *conversion, st State, n *html.Node) error {
	inner := st.StartUnorderedList()
	if n.DataAtom == atom.Ol {
		inner = st.StartOrderedList()
	}

	if st.listDepth > 0 {
		c.startLine(st)
		return c.children(inner, n)
	}

	c.openBlock(st)
	if err := c.children(inner, n); err != nil {
		return err
	}
	c.closeBlock(st, 1)
	return nil
}

func listItem(c *conversion, st State, n *html.Node) error {
	if st.listDepth == 0 {
		st = st.StartUnorderedList()
	}
	if !st.renderingEnabled {
		return c.children(st, n)
	}

	content, err := c.capture(func() error {
		return c.children(st.inListItem(), n)
	})
	if err != nil {
		return err
	}

	c.startLine(st)
	c.write(st, strings.Repeat(listIndent, max(st.listDepth-1-st.itemIndent, 0))+st.listItemPrefix+" ")
	c.write(st, indentItem(content, startsWithList(n)))
	c.startLine(st)
	return nil
}

const listIndent = "    "

// indentItem indents every continuation line of a list item's content so
// that paragraphs and nested blocks stay inside the item. A leading nested
// list starts on its own line.
func indentItem(content string, leadingList bool) string {
	content = strings.TrimRight(strings.TrimLeft(content, "\n"), "\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if line != "" && (i > 0 || leadingList) {
			lines[i] = listIndent + line
		}
	}
	content = strings.Join(lines, "\n")
	if leadingList && content != "" {
		return "\n" + content
	}
	return content
}

// startsWithList reports whether the first child of n with content is a
// list.
func startsWithList(n *html.Node) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.TextNode:
			if !isBlank(child.Data) {
				return false
			}
		case html.ElementNode:
			return child.DataAtom == atom.Ul || child.DataAtom == atom.Ol
		}
	}
	return false
}

// startLine ends the current line unless the output already sits at the
// start of one.
func (c *conversion) startLine(st State) {
	if !c.atLineStart(st) {
		c.write(st, "\n")
	}
}

func preformatted(c *conversion, st State, n *html.Node) error {
	inner := st.StartPreformattedTextBlock().detached()
	content, err := c.capture(func() error {
		return c.children(inner, n)
	})
	if err != nil {
		return err
	}
	// A hidden pre is fenced only around included descendants.
	if !st.renderingEnabled {
		if content == "" {
			return nil
		}
		st = st.WithRenderingEnabled()
	}
	content = trimBlankLines(content)

	fence := "```"
	if lang := c.codeLanguage(n); lang != "" {
		fence += " " + lang
	}
	c.openBlock(st)
	c.write(st, fence+"\n"+content+"\n```\n")
	return nil
}

// trimBlankLines drops leading and trailing lines holding only ASCII
// whitespace.
func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	start, end := 0, len(lines)
	for start < end && isBlank(lines[start]) {
		start++
	}
	for end > start && isBlank(lines[end-1]) {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

// codeLanguage returns the fence language for a pre element: the first
// mapped class on the element or on a direct code child, else the default.
func (c *conversion) codeLanguage(pre *html.Node) string {
	langs := c.renderer.codeLanguages
	candidates := classes(pre)
	for child := pre.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.DataAtom == atom.Code {
			candidates = append(candidates, classes(child)...)
		}
	}
	for _, class := range candidates {
		if lang, ok := langs[class]; ok {
			return lang
		}
	}
	return c.renderer.defaultLanguage
}

func inlineCode(c *conversion, st State, n *html.Node) error {
	if !st.emitStyles || !st.renderingEnabled {
		return c.children(st, n)
	}
	content, err := c.capture(func() error {
		return c.children(st.StartPreformattedTextBlock(), n)
	})
	if err != nil {
		return err
	}
	if content == "" {
		return nil
	}
	if strings.Contains(content, "`") {
		c.writeRaw(st, "`` "+content+" ``")
		return nil
	}
	c.writeRaw(st, "`"+content+"`")
	return nil
}

func blockquote(c *conversion, st State, n *html.Node) error {
	c.openBlock(st)
	c.write(st, "> ")
	if err := c.children(st.WithLinePrefix("> "), n); err != nil {
		return err
	}
	c.closeBlock(st, 2)
	return nil
}

// emphasis wraps non-empty content in marker. Spaces at the edges of the
// content are moved outside the markers.
func emphasis(marker string) handler {
	return func(c *conversion, st State, n *html.Node) error {
		if !st.emitStyles || !st.renderingEnabled {
			return c.children(st, n)
		}
		content, err := c.capture(func() error {
			return c.children(st, n)
		})
		if err != nil {
			return err
		}
		trimmed := strings.TrimSpace(content)
		if trimmed == "" {
			c.writeRaw(st, content)
			return nil
		}
		start := strings.Index(content, trimmed)
		c.writeRaw(st, content[:start]+marker+trimmed+marker+content[start+len(trimmed):])
		return nil
	}
}

func anchor(c *conversion, st State, n *html.Node) error {
	if !st.renderingEnabled {
		return c.children(st, n)
	}
	href, ok := attr(n, "href")
	if !ok {
		return c.children(st, n)
	}
	text, err := c.capture(func() error {
		return c.children(st, n)
	})
	if err != nil {
		return err
	}
	target, err := c.resolveLink(href)
	if err != nil {
		return err
	}
	c.writeRaw(st, "["+text+"]")
	c.write(st, "("+target+")")
	return nil
}

func image(c *conversion, st State, n *html.Node) error {
	if !st.renderingEnabled {
		return nil
	}
	src, ok := attr(n, "src")
	if !ok || strings.TrimSpace(src) == "" {
		return nil
	}
	target, err := c.resolveImage(src)
	if err != nil {
		return err
	}
	alt, _ := attr(n, "alt")
	c.write(st, "!["+Escape(alt)+"]("+target+")")
	return nil
}

func lineBreak(c *conversion, st State, _ *html.Node) error {
	if st.verbatim {
		c.write(st, "\n")
		return nil
	}
	c.write(st, "  \n")
	return nil
}

func rule(c *conversion, st State, _ *html.Node) error {
	c.blankLine(st)
	c.write(st, "---")
	c.closeBlock(st, 2)
	return nil
}
