package html2md

import "context"

// Page is fetched markup awaiting conversion.
type Page struct {
	URL  string
	HTML string
}

// Renderer converts a single page into Markdown.
type Renderer interface {
	// Render parses the page and returns its Markdown, including any
	// front-matter preamble. Image and link targets are resolved through
	// images. Returns EPARSE if the markup cannot be parsed.
	Render(ctx context.Context, page *Page, images ImageResolver) (string, error)
}

// ImageResolver maps image references found in a page to the targets
// emitted in Markdown.
type ImageResolver interface {
	// Resolve returns the Markdown target for raw, a src or href as written
	// in the page served at pageURL. Fetch failures are not errors; the only
	// errors are context cancellations.
	Resolve(ctx context.Context, raw string, pageURL string) (string, error)
}
