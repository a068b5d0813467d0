// Package crawl provides batch conversion orchestration.
// It coordinates fetching, rendering and image harvesting for a set of
// pages that share one image cache.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/html2md"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages converted at once when
// Converter.Concurrency is not set.
const DefaultConcurrency = 4

// Ensure Converter implements html2md.Converter at compile time.
var _ html2md.Converter = (*Converter)(nil)

// Converter fetches pages and converts them to Markdown.
type Converter struct {
	Pages       html2md.PageFetcher
	Resources   html2md.ResourceFetcher
	Renderer    html2md.Renderer
	RateLimiter html2md.DomainLimiter
	Concurrency int
	Progress    ProgressFunc
}

// ProgressEvent reports progress during a batch conversion.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting conversion progress.
type ProgressFunc func(event ProgressEvent)

// convertResult holds the outcome of converting a single page.
type convertResult struct {
	position int
	url      string
	doc      *html2md.ConvertedDocument
	err      error
}

// Convert fetches and converts a single page. Images are harvested as in a
// batch of one; use ConvertBatch to collect them.
func (c *Converter) Convert(ctx context.Context, pageURL string) (*html2md.ConvertedDocument, error) {
	h := NewHarvester(c.Resources, c.RateLimiter)
	return c.convert(ctx, h, 0, pageURL)
}

// ConvertBatch converts pageURLs concurrently. Documents and failures are
// reported in input order; a failing page never aborts its siblings.
// Canceling ctx fails the whole batch and no result is returned.
func (c *Converter) ConvertBatch(ctx context.Context, pageURLs []string) (*html2md.ConversionResult, error) {
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	h := NewHarvester(c.Resources, c.RateLimiter)
	resultCh := make(chan convertResult, len(pageURLs))
	total := len(pageURLs)

	c.report(ProgressEvent{Type: ProgressStarted, Total: total})

	var g errgroup.Group
	g.SetLimit(concurrency)

	go func() {
		for i, pageURL := range pageURLs {
			g.Go(func() error {
				if ctx.Err() != nil {
					resultCh <- convertResult{position: i, url: pageURL, err: ctx.Err()}
					return nil
				}
				doc, err := c.convert(ctx, h, i, pageURL)
				resultCh <- convertResult{position: i, url: pageURL, doc: doc, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]convertResult, total)
	var completed atomic.Int64
	for result := range resultCh {
		n := int(completed.Add(1))
		results[result.position] = result

		if result.err != nil {
			c.report(ProgressEvent{Type: ProgressFailed, Completed: n, Total: total, URL: result.url, Error: result.err})
			continue
		}
		c.report(ProgressEvent{Type: ProgressCompleted, Completed: n, Total: total, URL: result.url})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &html2md.ConversionResult{
		Documents: []*html2md.ConvertedDocument{},
		Failures:  []*html2md.DocumentFailure{},
	}
	for _, result := range results {
		if result.err != nil {
			out.Failures = append(out.Failures, &html2md.DocumentFailure{
				SourceURL: result.url,
				Position:  result.position,
				Err:       result.err,
			})
			continue
		}
		out.Documents = append(out.Documents, result.doc)
	}
	out.Images = h.Images()

	c.report(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})

	return out, nil
}

// convert fetches and renders one page, resolving images through h.
func (c *Converter) convert(ctx context.Context, h *Harvester, position int, pageURL string) (*html2md.ConvertedDocument, error) {
	u, err := url.Parse(pageURL)
	if err != nil || !u.IsAbs() {
		return nil, html2md.Errorf(html2md.EINVALID, "invalid page URL %q", pageURL)
	}

	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
	}

	markup, err := c.Pages.FetchText(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}

	markdown, err := c.Renderer.Render(ctx, &html2md.Page{URL: pageURL, HTML: markup}, h)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", pageURL, err)
	}

	return &html2md.ConvertedDocument{
		SourceURL:   pageURL,
		Markdown:    markdown,
		ContentHash: ComputeHash(markdown),
		Position:    position,
	}, nil
}

func (c *Converter) report(event ProgressEvent) {
	if c.Progress != nil {
		c.Progress(event)
	}
}

// ComputeHash computes a hash of the content using xxhash.
func ComputeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}
