package html

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var cellBreaks = regexp.MustCompile(`\s*\n\s*`)

// table renders a pipe table. The header is the first row of thead, or the
// first body row when there is no thead. Rows of every tbody and tfoot form
// a single body. The header's cell count fixes the column count; shorter
// rows are padded and longer ones cut.
func table(c *conversion, st State, n *html.Node) error {
	if !st.renderingEnabled {
		return c.children(st, n)
	}

	header, body := tableRows(n)
	if header == nil && len(body) > 0 {
		header, body = body[0], body[1:]
	}
	if header == nil {
		return nil
	}

	head, err := c.row(st, header)
	if err != nil {
		return err
	}
	cols := len(head)
	if cols == 0 {
		return nil
	}

	var b strings.Builder
	writeRow(&b, head, cols)
	b.WriteString("|" + strings.Repeat("-|", cols) + "\n")
	for _, tr := range body {
		cells, err := c.row(st, tr)
		if err != nil {
			return err
		}
		writeRow(&b, cells, cols)
	}

	c.openBlock(st)
	c.write(st, b.String())
	c.closeBlock(st, 1)
	return nil
}

// tableRows returns the first thead row and all other rows of t in
// document order. Nested tables are left to their cells.
func tableRows(t *html.Node) (header *html.Node, body []*html.Node) {
	for sec := t.FirstChild; sec != nil; sec = sec.NextSibling {
		if sec.Type != html.ElementNode {
			continue
		}
		switch sec.DataAtom {
		case atom.Tr:
			body = append(body, sec)
		case atom.Thead, atom.Tbody, atom.Tfoot:
			for tr := sec.FirstChild; tr != nil; tr = tr.NextSibling {
				if tr.Type != html.ElementNode || tr.DataAtom != atom.Tr {
					continue
				}
				if sec.DataAtom == atom.Thead && header == nil {
					header = tr
					continue
				}
				body = append(body, tr)
			}
		}
	}
	return header, body
}

// row renders the cells of tr on a single line each. Excluded cells are
// dropped.
func (c *conversion) row(st State, tr *html.Node) ([]string, error) {
	var cells []string
	for cell := tr.FirstChild; cell != nil; cell = cell.NextSibling {
		if cell.Type != html.ElementNode || (cell.DataAtom != atom.Td && cell.DataAtom != atom.Th) {
			continue
		}
		if c.filter.Excluded(cell) {
			continue
		}
		content, err := c.capture(func() error {
			return c.node(st.detached(), cell)
		})
		if err != nil {
			return nil, err
		}
		content = cellBreaks.ReplaceAllString(content, " ")
		cells = append(cells, strings.ReplaceAll(content, "|", `\|`))
	}
	return cells, nil
}

// writeRow writes cells padded or cut to cols columns.
func writeRow(b *strings.Builder, cells []string, cols int) {
	if len(cells) > cols {
		cells = cells[:cols]
	}
	b.WriteString("|")
	for _, cell := range cells {
		b.WriteString(cell + "|")
	}
	for i := len(cells); i < cols; i++ {
		b.WriteString("|")
	}
	b.WriteString("\n")
}
