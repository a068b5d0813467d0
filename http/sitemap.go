package http

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/html2md"
)

// maxSitemapDepth bounds how deeply sitemap indexes may nest.
const maxSitemapDepth = 5

// Ensure SitemapService implements html2md.SitemapService.
var _ html2md.SitemapService = (*SitemapService)(nil)

// SitemapService discovers batch URLs from website sitemaps.
type SitemapService struct {
	fetcher html2md.ResourceFetcher
}

// NewSitemapService returns a SitemapService that downloads robots.txt and
// sitemaps through fetcher. If fetcher is nil, a default Fetcher is used.
func NewSitemapService(fetcher html2md.ResourceFetcher) *SitemapService {
	if fetcher == nil {
		fetcher = NewFetcher()
	}
	return &SitemapService{fetcher: fetcher}
}

// DiscoverURLs returns the page URLs listed in the sitemaps of baseURL's
// site, in sitemap order and without duplicates. Returns an empty slice
// (not nil) if the site has no sitemap.
//
// When baseURL has a non-root path (e.g., https://example.com/docs/),
// only URLs under that path are returned.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *html2md.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || !base.IsAbs() {
		return nil, html2md.Errorf(html2md.EINVALID, "invalid base URL %q", baseURL)
	}
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sitemaps, err := s.sitemapLocations(ctx, root)
	if err != nil {
		return nil, err
	}

	w := &sitemapWalk{
		service: s,
		visited: make(map[string]bool),
		seen:    make(map[string]bool),
		urls:    []string{},
		keep: func(u string) bool {
			return underPath(u, base.Path) && filter.Match(u)
		},
	}
	for _, loc := range sitemaps {
		if err := w.visit(ctx, loc, 0); err != nil {
			return nil, err
		}
	}
	return w.urls, nil
}

// sitemapLocations reads Sitemap directives from robots.txt, falling back
// to /sitemap.xml. Returns nothing if neither exists.
func (s *SitemapService) sitemapLocations(ctx context.Context, root *url.URL) ([]string, error) {
	robots, err := s.fetcher.FetchBytes(ctx, root.JoinPath("robots.txt").String())
	if err == nil {
		if locs := parseRobots(robots); len(locs) > 0 {
			return locs, nil
		}
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	fallback := root.JoinPath("sitemap.xml").String()
	if _, err := s.fetcher.FetchBytes(ctx, fallback); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	return []string{fallback}, nil
}

// parseRobots extracts Sitemap directives from a robots.txt body.
func parseRobots(body []byte) []string {
	var locs []string
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "sitemap") {
			continue
		}
		if loc := strings.TrimSpace(value); loc != "" {
			locs = append(locs, loc)
		}
	}
	return locs
}

// sitemapWalk collects URLs from a tree of sitemaps.
type sitemapWalk struct {
	service *SitemapService
	visited map[string]bool
	seen    map[string]bool
	keep    func(string) bool
	urls    []string
}

func (w *sitemapWalk) visit(ctx context.Context, loc string, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.visited[loc] || depth > maxSitemapDepth {
		return nil
	}
	w.visited[loc] = true

	body, err := w.service.fetcher.FetchBytes(ctx, loc)
	if err != nil {
		return fmt.Errorf("sitemap %s: %w", loc, err)
	}
	doc, err := readSitemap(body)
	if err != nil {
		return html2md.Errorf(html2md.EPARSE, "sitemap %s: %v", loc, err)
	}

	root := doc.Root()
	if root == nil {
		return html2md.Errorf(html2md.EPARSE, "sitemap %s: empty document", loc)
	}

	switch root.Tag {
	case "sitemapindex":
		for _, child := range locs(root, "sitemap") {
			if err := w.visit(ctx, child, depth+1); err != nil {
				return err
			}
		}
	default:
		for _, u := range locs(root, "url") {
			if w.seen[u] || !w.keep(u) {
				continue
			}
			w.seen[u] = true
			w.urls = append(w.urls, u)
		}
	}
	return nil
}

// readSitemap parses a sitemap body, gunzipping it first if needed.
func readSitemap(body []byte) (*etree.Document, error) {
	var r io.Reader = bytes.NewReader(body)
	if len(body) > 2 && body[0] == 0x1f && body[1] == 0x8b {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, err
	}
	return doc, nil
}

// locs returns the trimmed <loc> text of every entry element under root.
func locs(root *etree.Element, entry string) []string {
	var out []string
	for _, el := range root.SelectElements(entry) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// underPath reports whether rawURL's path lies under prefix, respecting
// segment boundaries: /docs matches /docs and /docs/intro but not
// /documentation.
func underPath(rawURL, prefix string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Path == prefix || strings.HasPrefix(u.Path, prefix+"/")
}
