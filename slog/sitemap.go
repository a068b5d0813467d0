package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/html2md"
)

var _ html2md.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService logs each batch URL discovery with the filter it
// applied and the number of pages it found.
type LoggingSitemapService struct {
	next   html2md.SitemapService
	logger *slog.Logger
}

func NewLoggingSitemapService(next html2md.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *html2md.URLFilter) (urls []string, err error) {
	var include, exclude int
	if filter != nil {
		include, exclude = len(filter.Include), len(filter.Exclude)
	}
	begin := time.Now()
	defer func() {
		s.logger.Info("discover pages",
			"base", baseURL,
			"include", include,
			"exclude", exclude,
			"pages", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}()
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
