package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"regexp"
	"testing"

	"github.com/fwojciec/html2md"
	"github.com/fwojciec/html2md/mock"
	mdslog "github.com/fwojciec/html2md/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("logs filter size and page count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		filter := &html2md.URLFilter{
			Include: []*regexp.Regexp{regexp.MustCompile(`/docs/`), regexp.MustCompile(`/guide/`)},
			Exclude: []*regexp.Regexp{regexp.MustCompile(`/v1/`)},
		}
		var got *html2md.URLFilter
		svc := mdslog.NewLoggingSitemapService(&mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *html2md.URLFilter) ([]string, error) {
				got = filter
				return []string{"https://example.com/docs/a", "https://example.com/docs/b", "https://example.com/guide/c"}, nil
			},
		}, slog.New(slog.NewTextHandler(&buf, nil)))

		urls, err := svc.DiscoverURLs(context.Background(), "https://example.com/", filter)

		require.NoError(t, err)
		assert.Len(t, urls, 3)
		assert.Same(t, filter, got)
		out := buf.String()
		assert.Contains(t, out, `msg="discover pages"`)
		assert.Contains(t, out, "base=https://example.com/")
		assert.Contains(t, out, "include=2")
		assert.Contains(t, out, "exclude=1")
		assert.Contains(t, out, "pages=3")
		assert.Contains(t, out, "duration=")
	})

	t.Run("nil filter logs zero patterns", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		svc := mdslog.NewLoggingSitemapService(&mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *html2md.URLFilter) ([]string, error) {
				return nil, errors.New("no sitemap found")
			},
		}, slog.New(slog.NewTextHandler(&buf, nil)))

		_, err := svc.DiscoverURLs(context.Background(), "https://example.com/", nil)

		require.EqualError(t, err, "no sitemap found")
		out := buf.String()
		assert.Contains(t, out, "include=0")
		assert.Contains(t, out, "exclude=0")
		assert.Contains(t, out, "pages=0")
		assert.Contains(t, out, `err="no sitemap found"`)
	})
}
