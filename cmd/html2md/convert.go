package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/html2md"
)

// Run executes the convert command.
func (c *ConvertCmd) Run(deps *Dependencies) error {
	urls, err := c.pageURLs(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", html2md.ErrorMessage(err))
		return err
	}
	if len(urls) == 0 {
		fmt.Fprintln(deps.Stderr, "No pages to convert")
		return nil
	}

	result, err := deps.Converter.ConvertBatch(deps.Ctx, urls)
	if err != nil {
		if deps.Store != nil {
			_ = deps.Store.Abort()
		}
		return fmt.Errorf("conversion interrupted: %w", err)
	}

	if c.DryRun {
		c.print(deps, result)
	} else if err := c.save(deps, result); err != nil {
		return err
	}

	if len(result.Failures) > 0 {
		fmt.Fprintln(deps.Stderr, html2md.FormatFailures(result.Failures))
		return fmt.Errorf("%d of %d pages failed", len(result.Failures), len(urls))
	}
	return nil
}

// pageURLs returns the explicit URIs followed by any sitemap URLs not
// already listed.
func (c *ConvertCmd) pageURLs(deps *Dependencies) ([]string, error) {
	urls := make([]string, 0, len(c.URIs))
	seen := make(map[string]bool)
	for _, u := range c.URIs {
		if !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}

	if c.Sitemap == "" {
		return urls, nil
	}

	discovered, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, c.Sitemap, c.Filter)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(deps.Stderr, "Found %d URLs in sitemap\n", len(discovered))
	for _, u := range discovered {
		if !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	return urls, nil
}

func (c *ConvertCmd) print(deps *Dependencies, result *html2md.ConversionResult) {
	for i, doc := range result.Documents {
		if len(result.Documents) > 1 {
			if i > 0 {
				fmt.Fprintln(deps.Stdout)
			}
			fmt.Fprintf(deps.Stdout, "<!-- %s -->\n", doc.SourceURL)
		}
		fmt.Fprint(deps.Stdout, doc.Markdown)
		if !strings.HasSuffix(doc.Markdown, "\n") {
			fmt.Fprintln(deps.Stdout)
		}
	}
}

func (c *ConvertCmd) save(deps *Dependencies, result *html2md.ConversionResult) error {
	for _, doc := range result.Documents {
		if err := deps.Store.Save(deps.Ctx, doc); err != nil {
			_ = deps.Store.Abort()
			fmt.Fprintf(deps.Stderr, "error saving %s: %v\n", doc.SourceURL, err)
			return err
		}
	}
	var imageBytes int
	for _, img := range result.Images {
		if err := deps.Store.SaveImage(deps.Ctx, img); err != nil {
			_ = deps.Store.Abort()
			fmt.Fprintf(deps.Stderr, "error saving %s: %v\n", img.SourceURL, err)
			return err
		}
		imageBytes += len(img.Data)
	}

	if len(result.Documents) == 0 && len(result.Images) == 0 {
		_ = deps.Store.Abort()
		fmt.Fprintln(deps.Stdout, "No pages saved")
		return nil
	}

	if err := deps.Store.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error committing: %v\n", err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Saved %d pages and %d images (%s)\n",
		len(result.Documents), len(result.Images), formatBytes(imageBytes))
	return nil
}
