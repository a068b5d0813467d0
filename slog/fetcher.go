// Package slog decorates html2md services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/html2md"
)

// Ensure LoggingFetcher implements html2md.Fetcher.
var _ html2md.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   html2md.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next html2md.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// FetchText delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) FetchText(ctx context.Context, url string) (text string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch page",
			"url", url,
			"bytes", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchText(ctx, url)
}

// FetchBytes delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) FetchBytes(ctx context.Context, url string) (data []byte, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch resource",
			"url", url,
			"bytes", len(data),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchBytes(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
