// Package rod provides a Chrome-based page fetcher for sites that render
// their content with JavaScript.
package rod

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/html2md"
)

// DefaultFetchTimeout bounds navigation and load of a single page.
// Kept consistent with http.DefaultFetchTimeout.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements html2md.PageFetcher at compile time.
var _ html2md.PageFetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation. It only
// fetches pages; images are plain resources and come from an HTTP fetcher.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser *Browser
	timeout time.Duration
}

type config struct {
	timeout  time.Duration
	maxPages int
}

// Option configures a Fetcher.
type Option func(*config)

// WithFetchTimeout sets the per-page timeout.
// Defaults to DefaultFetchTimeout if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithMaxPages sets how many pages one Chrome process renders before it is
// replaced. Defaults to DefaultMaxPages if not specified.
func WithMaxPages(n int) Option {
	return func(c *config) {
		c.maxPages = n
	}
}

// NewFetcher launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	cfg := config{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	browser, err := NewBrowser(cfg.maxPages)
	if err != nil {
		return nil, err
	}
	return &Fetcher{browser: browser, timeout: cfg.timeout}, nil
}

// FetchText navigates to url and returns the HTML after the page's scripts
// have run. Navigation failures are EFETCH.
func (f *Fetcher) FetchText(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page, release, err := f.browser.Page()
	if err != nil {
		return "", html2md.Errorf(html2md.EFETCH, "render %s: %v", url, err)
	}
	defer release()

	page = page.Context(ctx).Timeout(f.timeout)

	if err := page.Navigate(url); err != nil {
		return "", fetchError(ctx, url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fetchError(ctx, url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fetchError(ctx, url, err)
	}
	return html, nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.browser.Close()
}

func fetchError(ctx context.Context, url string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return html2md.Errorf(html2md.EFETCH, "render %s: timed out", url)
	}
	return html2md.Errorf(html2md.EFETCH, "render %s: %v", url, err)
}
