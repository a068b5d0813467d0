package html

import "strings"

// markdownEscaper prefixes every character with meaning in Markdown with a
// backslash. Replacement is single-pass, so inserted backslashes are never
// escaped again.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`[`, `\[`,
	`]`, `\]`,
	`(`, `\(`,
	`)`, `\)`,
	`#`, `\#`,
	`+`, `\+`,
	`-`, `\-`,
	`.`, `\.`,
	`!`, `\!`,
)

// Escape returns s with Markdown control characters escaped.
func Escape(s string) string {
	return markdownEscaper.Replace(s)
}
