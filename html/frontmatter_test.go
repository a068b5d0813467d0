package html_test

import (
	"testing"
	"time"

	"github.com/fwojciec/html2md"
	"github.com/fwojciec/html2md/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontMatter_Render(t *testing.T) {
	t.Parallel()

	const markup = `<body><h1>Title "quoted"</h1><p class="author">Jane</p><time>2020-01-02</time></body>`

	t.Run("disabled yields no extractor", func(t *testing.T) {
		t.Parallel()

		fm, err := html.NewFrontMatter(html2md.FrontMatterOptions{
			Properties: []html2md.FrontMatterProperty{{Name: "Title", Path: "//h1"}},
		})

		require.NoError(t, err)
		assert.Nil(t, fm)
	})

	t.Run("properties keep configured order", func(t *testing.T) {
		t.Parallel()

		fm, err := html.NewFrontMatter(html2md.FrontMatterOptions{
			Enabled: true,
			Properties: []html2md.FrontMatterProperty{
				{Name: "Author", Path: "p.author"},
				{Name: "Title", Path: "//h1"},
			},
		})
		require.NoError(t, err)

		out, err := fm.Render(parse(t, markup))

		require.NoError(t, err)
		assert.Equal(t, "---\nAuthor: \"Jane\"\nTitle: \"Title \\\"quoted\\\"\"\n---\n", out)
	})

	t.Run("omits properties without a match", func(t *testing.T) {
		t.Parallel()

		fm, err := html.NewFrontMatter(html2md.FrontMatterOptions{
			Enabled: true,
			Properties: []html2md.FrontMatterProperty{
				{Name: "Missing", Path: "//nav"},
				{Name: "Date", Path: "time", DataType: html2md.DataTypeDate},
			},
		})
		require.NoError(t, err)

		out, err := fm.Render(parse(t, markup))

		require.NoError(t, err)
		assert.Equal(t, "---\nDate: \"2020-01-02T00:00:00.0000000\"\n---\n", out)
	})

	t.Run("no preamble when nothing matches", func(t *testing.T) {
		t.Parallel()

		fm, err := html.NewFrontMatter(html2md.FrontMatterOptions{
			Enabled:    true,
			Properties: []html2md.FrontMatterProperty{{Name: "Missing", Path: "//nav"}},
		})
		require.NoError(t, err)

		out, err := fm.Render(parse(t, markup))

		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	t.Run("long English form", func(t *testing.T) {
		t.Parallel()

		got, err := html.ParseDate("Thursday, August 7, 2014 11:55:08 AM")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2014, 8, 7, 11, 55, 8, 0, time.UTC), got)
	})

	t.Run("ISO form", func(t *testing.T) {
		t.Parallel()

		got, err := html.ParseDate("2014-08-07T11:55:08")

		require.NoError(t, err)
		assert.Equal(t, "2014-08-07T11:55:08.0000000", got.Format(html.DateFormat))
	})
}
