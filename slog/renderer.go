package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/html2md"
)

// Ensure LoggingRenderer implements html2md.Renderer.
var _ html2md.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with debug logging.
type LoggingRenderer struct {
	next   html2md.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next html2md.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render delegates to the wrapped renderer and logs the operation.
func (r *LoggingRenderer) Render(ctx context.Context, page *html2md.Page, images html2md.ImageResolver) (markdown string, err error) {
	defer func(begin time.Time) {
		r.logger.Info("render",
			"url", page.URL,
			"html", len(page.HTML),
			"markdown", len(markdown),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, page, images)
}
