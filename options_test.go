package html2md_test

import (
	"testing"

	"github.com/fwojciec/html2md"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts zero value", func(t *testing.T) {
		t.Parallel()

		opts := &html2md.Options{}

		require.NoError(t, opts.Validate())
	})

	t.Run("accepts full configuration", func(t *testing.T) {
		t.Parallel()

		opts := &html2md.Options{
			IncludeTags:          []string{"article", "//main"},
			ExcludeTags:          []string{"aside"},
			DefaultCodeLanguage:  "powershell",
			CodeLanguageClassMap: map[string]string{"cl-vb": "vbnet"},
			FrontMatter: html2md.FrontMatterOptions{
				Enabled: true,
				Properties: []html2md.FrontMatterProperty{
					{Name: "Title", Path: "//h1"},
					{Name: "Date", Path: "//time", DataType: html2md.DataTypeDate},
				},
			},
		}

		require.NoError(t, opts.Validate())
	})

	t.Run("rejects empty include tag", func(t *testing.T) {
		t.Parallel()

		opts := &html2md.Options{IncludeTags: []string{" "}}

		err := opts.Validate()
		assert.Equal(t, html2md.EINVALID, html2md.ErrorCode(err))
	})

	t.Run("rejects empty exclude tag", func(t *testing.T) {
		t.Parallel()

		opts := &html2md.Options{ExcludeTags: []string{""}}

		err := opts.Validate()
		assert.Equal(t, html2md.EINVALID, html2md.ErrorCode(err))
	})

	t.Run("rejects incomplete code language mapping", func(t *testing.T) {
		t.Parallel()

		opts := &html2md.Options{CodeLanguageClassMap: map[string]string{"cl-vb": ""}}

		err := opts.Validate()
		assert.Equal(t, html2md.EINVALID, html2md.ErrorCode(err))
	})

	t.Run("rejects property without path", func(t *testing.T) {
		t.Parallel()

		opts := &html2md.Options{FrontMatter: html2md.FrontMatterOptions{
			Properties: []html2md.FrontMatterProperty{{Name: "Title"}},
		}}

		err := opts.Validate()
		assert.Equal(t, html2md.EINVALID, html2md.ErrorCode(err))
		assert.Contains(t, html2md.ErrorMessage(err), "Title")
	})

	t.Run("rejects unknown data type", func(t *testing.T) {
		t.Parallel()

		opts := &html2md.Options{FrontMatter: html2md.FrontMatterOptions{
			Properties: []html2md.FrontMatterProperty{{Name: "Title", Path: "//h1", DataType: "number"}},
		}}

		err := opts.Validate()
		assert.Equal(t, html2md.EINVALID, html2md.ErrorCode(err))
	})

	t.Run("rejects duplicate property names", func(t *testing.T) {
		t.Parallel()

		opts := &html2md.Options{FrontMatter: html2md.FrontMatterOptions{
			Properties: []html2md.FrontMatterProperty{
				{Name: "Title", Path: "//h1"},
				{Name: "Title", Path: "//h2"},
			},
		}}

		err := opts.Validate()
		assert.Equal(t, html2md.EINVALID, html2md.ErrorCode(err))
	})
}
