package html2md_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/html2md"
	"github.com/stretchr/testify/assert"
)

func TestFormatFailures(t *testing.T) {
	t.Parallel()

	t.Run("formats application error message", func(t *testing.T) {
		t.Parallel()

		failures := []*html2md.DocumentFailure{
			{SourceURL: "https://example.com/a", Err: html2md.Errorf(html2md.ENOTFOUND, "HTTP 404 for https://example.com/a")},
		}

		result := html2md.FormatFailures(failures)

		assert.Equal(t, "failed https://example.com/a: HTTP 404 for https://example.com/a", result)
	})

	t.Run("unwraps wrapped application errors", func(t *testing.T) {
		t.Parallel()

		failures := []*html2md.DocumentFailure{
			{SourceURL: "https://example.com/a", Err: fmt.Errorf("rendering: %w", html2md.Errorf(html2md.EDATEFORMAT, "bad date"))},
		}

		result := html2md.FormatFailures(failures)

		assert.Equal(t, "failed https://example.com/a: bad date", result)
	})

	t.Run("uses full text for other errors", func(t *testing.T) {
		t.Parallel()

		failures := []*html2md.DocumentFailure{
			{SourceURL: "https://example.com/a", Err: errors.New("connection reset")},
			{SourceURL: "https://example.com/b", Err: errors.New("timeout")},
		}

		result := html2md.FormatFailures(failures)

		assert.Equal(t, "failed https://example.com/a: connection reset\nfailed https://example.com/b: timeout", result)
	})

	t.Run("returns empty string for no failures", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, html2md.FormatFailures(nil))
	})
}
