package html

// State is the traversal state threaded through a conversion. It is a value:
// every transition returns a new State and leaves the receiver untouched, so
// a frame restores its parent's state simply by returning.
type State struct {
	renderingEnabled bool
	listDepth        int
	listItemPrefix   string
	emitStyles       bool
	linePrefix       string
	verbatim         bool

	// itemIndent counts enclosing list items whose content is indented
	// by the item itself.
	itemIndent int
}

// InitialState returns the state a document walk starts from: styles on,
// rendering off, no list, no line prefix.
func InitialState() State {
	return State{emitStyles: true}
}

// RenderingEnabled reports whether output is produced for the current subtree.
func (s State) RenderingEnabled() bool { return s.renderingEnabled }

// ListDepth is the number of enclosing lists.
func (s State) ListDepth() int { return s.listDepth }

// ListItemPrefix is the marker for items of the innermost list ("1." or "-").
func (s State) ListItemPrefix() string { return s.listItemPrefix }

// EmitMarkdownStyles reports whether emphasis markup is written.
func (s State) EmitMarkdownStyles() bool { return s.emitStyles }

// LinePrefix is written after every line break, e.g. "> " inside a blockquote.
func (s State) LinePrefix() string { return s.linePrefix }

// EmitDecodedTextVerbatim reports whether text is written without escaping.
func (s State) EmitDecodedTextVerbatim() bool { return s.verbatim }

// WithRenderingEnabled enables output for the subtree. Once enabled it
// stays enabled for every descendant.
func (s State) WithRenderingEnabled() State {
	if s.renderingEnabled {
		return s
	}
	s.renderingEnabled = true
	return s
}

// StartPreformattedTextBlock turns off styling and escaping.
func (s State) StartPreformattedTextBlock() State {
	s.emitStyles = false
	s.verbatim = true
	return s
}

// StartOrderedList enters an ordered list one level deeper.
func (s State) StartOrderedList() State {
	s.listDepth++
	s.listItemPrefix = "1."
	return s
}

// StartUnorderedList enters an unordered list one level deeper.
func (s State) StartUnorderedList() State {
	s.listDepth++
	s.listItemPrefix = "-"
	return s
}

// WithLinePrefix appends prefix to the current line prefix, so nested
// blockquotes compose to "> > ".
func (s State) WithLinePrefix(prefix string) State {
	s.linePrefix += prefix
	return s
}

// detached drops the line prefix for content captured into a buffer and
// rewritten by its caller, such as table cells and code blocks.
func (s State) detached() State {
	s.linePrefix = ""
	return s
}

// inListItem prepares the state for the content of a list item, which is
// captured and indented by the item.
func (s State) inListItem() State {
	s.itemIndent++
	return s.detached()
}
