package html_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/html2md/html"
	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	t.Parallel()

	t.Run("escapes every control character once", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "\\\\\\`\\*\\_\\{\\}\\[\\]\\(\\)\\#\\+\\-\\.\\!", html.Escape("\\`*_{}[]()#+-.!"))
	})

	t.Run("leaves plain text alone", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "test's text, with: punctuation?", html.Escape("test's text, with: punctuation?"))
	})

	t.Run("adds exactly one backslash per control character", func(t *testing.T) {
		t.Parallel()

		in := "a-b.c!d"
		out := html.Escape(in)

		assert.Equal(t, "a\\-b\\.c\\!d", out)
		assert.Equal(t, len(in)+3, len(out))
	})

	t.Run("escaping twice escapes the inserted backslashes", func(t *testing.T) {
		t.Parallel()

		once := html.Escape("*")
		twice := html.Escape(once)

		assert.Equal(t, "\\*", once)
		assert.Equal(t, "\\\\\\*", twice)
		assert.Equal(t, 2*strings.Count(once, "\\")+1, strings.Count(twice, "\\"))
	})
}
