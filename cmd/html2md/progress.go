package main

import (
	"fmt"
	"io"
	"net/url"

	"github.com/fwojciec/html2md/crawl"
)

// progressPrinter reports batch progress on a single rewritten line.
func progressPrinter(w io.Writer) crawl.ProgressFunc {
	return func(e crawl.ProgressEvent) {
		switch e.Type {
		case crawl.ProgressCompleted, crawl.ProgressFailed:
			fmt.Fprintf(w, "\r[%d/%d] %-40s", e.Completed, e.Total, truncateURL(e.URL, 40))
		case crawl.ProgressFinished:
			if e.Total > 0 {
				fmt.Fprintf(w, "\r%80s\r", "")
			}
		}
	}
}

// truncateURL shortens a URL for display by showing only the path.
func truncateURL(rawURL string, maxLen int) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		if len(rawURL) <= maxLen {
			return rawURL
		}
		return rawURL[:maxLen-3] + "..."
	}

	path := parsed.Path
	if path == "" {
		path = "/"
	}

	if len(path) <= maxLen {
		return path
	}

	// Keep the unique suffix.
	return "..." + path[len(path)-maxLen+3:]
}

// formatBytes renders n as a human-readable size.
func formatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}
