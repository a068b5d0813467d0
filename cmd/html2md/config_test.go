package main_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/html2md"
	main "github.com/fwojciec/html2md/cmd/html2md"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("reads options from YAML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "html2md.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
includeTags: [article]
excludeTags: ["//nav", ".ads"]
defaultCodeLanguage: powershell
codeLanguages:
  cl-vb: vbnet
frontMatter:
  enabled: true
  properties:
    - name: Title
      path: //h1
    - name: Date
      path: //time
      type: date
`), 0644))

		cfg, err := main.LoadConfig(path)
		require.NoError(t, err)

		opts := cfg.Options()
		assert.Equal(t, []string{"article"}, opts.IncludeTags)
		assert.Equal(t, []string{"//nav", ".ads"}, opts.ExcludeTags)
		assert.Equal(t, "powershell", opts.DefaultCodeLanguage)
		assert.Equal(t, map[string]string{"cl-vb": "vbnet"}, opts.CodeLanguageClassMap)
		assert.True(t, opts.FrontMatter.Enabled)
		assert.Equal(t, []html2md.FrontMatterProperty{
			{Name: "Title", Path: "//h1", DataType: ""},
			{Name: "Date", Path: "//time", DataType: html2md.DataTypeDate},
		}, opts.FrontMatter.Properties)
		require.NoError(t, opts.Validate())
	})

	t.Run("rejects malformed YAML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("includeTags: [unclosed"), 0644))

		_, err := main.LoadConfig(path)
		assert.Equal(t, html2md.EINVALID, html2md.ErrorCode(err))
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestParseFrontMatterProperty(t *testing.T) {
	t.Parallel()

	t.Run("text by default", func(t *testing.T) {
		t.Parallel()
		p, err := main.ParseFrontMatterProperty("Title=//h1")
		require.NoError(t, err)
		assert.Equal(t, html2md.FrontMatterProperty{Name: "Title", Path: "//h1", DataType: html2md.DataTypeText}, p)
	})

	t.Run("date suffix", func(t *testing.T) {
		t.Parallel()
		p, err := main.ParseFrontMatterProperty("Published=//time:date")
		require.NoError(t, err)
		assert.Equal(t, "//time", p.Path)
		assert.Equal(t, html2md.DataTypeDate, p.DataType)
	})

	t.Run("keeps axis colons in the path", func(t *testing.T) {
		t.Parallel()
		p, err := main.ParseFrontMatterProperty("Author=//h1/following-sibling::p")
		require.NoError(t, err)
		assert.Equal(t, "//h1/following-sibling::p", p.Path)
		assert.Equal(t, html2md.DataTypeText, p.DataType)
	})

	t.Run("requires name and path", func(t *testing.T) {
		t.Parallel()
		for _, raw := range []string{"Title", "=//h1", "Title="} {
			_, err := main.ParseFrontMatterProperty(raw)
			assert.Equal(t, html2md.EINVALID, html2md.ErrorCode(err), raw)
		}
	})
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	t.Run("nil without patterns", func(t *testing.T) {
		t.Parallel()
		f, err := main.ParseFilter(nil)
		require.NoError(t, err)
		assert.Nil(t, f)
	})

	t.Run("compiles include patterns", func(t *testing.T) {
		t.Parallel()
		f, err := main.ParseFilter([]string{"/docs/"})
		require.NoError(t, err)
		assert.True(t, f.Match("https://example.com/docs/a"))
		assert.False(t, f.Match("https://example.com/blog/a"))
	})

	t.Run("rejects invalid regex", func(t *testing.T) {
		t.Parallel()
		_, err := main.ParseFilter([]string{"("})
		assert.Equal(t, html2md.EINVALID, html2md.ErrorCode(err))
	})
}

func TestSplitRules(t *testing.T) {
	t.Parallel()

	t.Run("splits on top-level commas", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"nav", "footer", ".ads"}, main.SplitRules([]string{"nav, footer,.ads"}))
	})

	t.Run("keeps commas inside expressions", func(t *testing.T) {
		t.Parallel()
		got := main.SplitRules([]string{"h1,//div[contains(@class,'a,b')],p", `a[title="x,y"]`})
		assert.Equal(t, []string{"h1", "//div[contains(@class,'a,b')]", "p", `a[title="x,y"]`}, got)
	})

	t.Run("drops empty entries", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, main.SplitRules([]string{" , ", ""}))
	})
}
