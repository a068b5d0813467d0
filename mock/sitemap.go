package mock

import (
	"context"

	"github.com/fwojciec/html2md"
)

var _ html2md.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of html2md.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *html2md.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *html2md.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
