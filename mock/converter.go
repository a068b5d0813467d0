package mock

import (
	"context"

	"github.com/fwojciec/html2md"
)

var _ html2md.Converter = (*Converter)(nil)

// Converter is a mock implementation of html2md.Converter.
type Converter struct {
	ConvertFn      func(ctx context.Context, pageURL string) (*html2md.ConvertedDocument, error)
	ConvertBatchFn func(ctx context.Context, pageURLs []string) (*html2md.ConversionResult, error)
}

func (c *Converter) Convert(ctx context.Context, pageURL string) (*html2md.ConvertedDocument, error) {
	return c.ConvertFn(ctx, pageURL)
}

func (c *Converter) ConvertBatch(ctx context.Context, pageURLs []string) (*html2md.ConversionResult, error) {
	return c.ConvertBatchFn(ctx, pageURLs)
}

var _ html2md.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of html2md.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, page *html2md.Page, images html2md.ImageResolver) (string, error)
}

func (r *Renderer) Render(ctx context.Context, page *html2md.Page, images html2md.ImageResolver) (string, error) {
	return r.RenderFn(ctx, page, images)
}

var _ html2md.ImageResolver = (*ImageResolver)(nil)

// ImageResolver is a mock implementation of html2md.ImageResolver.
type ImageResolver struct {
	ResolveFn func(ctx context.Context, raw string, pageURL string) (string, error)
}

func (r *ImageResolver) Resolve(ctx context.Context, raw string, pageURL string) (string, error) {
	return r.ResolveFn(ctx, raw, pageURL)
}
