package html2md

import (
	"context"
	"regexp"
)

// SitemapService discovers page URLs from website sitemaps so that a whole
// site section can be converted as one batch.
type SitemapService interface {
	// DiscoverURLs finds all page URLs listed in a site's sitemap.
	// It checks robots.txt for sitemap directives, then falls back to
	// /sitemap.xml. Sitemap indexes are resolved recursively.
	//
	// URLs outside the path of baseURL are dropped. If filter is nil,
	// all remaining URLs are returned.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter selects batch URLs by pattern.
type URLFilter struct {
	// Include patterns - if set, a URL must match at least one.
	Include []*regexp.Regexp

	// Exclude patterns - a URL matching any of them is dropped,
	// even if it matched an include pattern.
	Exclude []*regexp.Regexp
}

// Match returns true if the URL passes the filter.
// A nil filter passes every URL.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	if len(f.Include) == 0 {
		return true
	}
	for _, re := range f.Include {
		if re.MatchString(url) {
			return true
		}
	}
	return false
}
