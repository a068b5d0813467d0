package html2md

import "context"

// PageFetcher retrieves page markup.
type PageFetcher interface {
	// FetchText returns the HTML served at url.
	// Returns ENOTFOUND if the page does not exist and EFETCH for other failures.
	FetchText(ctx context.Context, url string) (html string, err error)
}

// ResourceFetcher retrieves binary resources such as images.
type ResourceFetcher interface {
	// FetchBytes returns the body served at url.
	// Returns ENOTFOUND if the resource does not exist and EFETCH for other failures.
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Fetcher retrieves both pages and resources.
type Fetcher interface {
	PageFetcher
	ResourceFetcher

	// Close releases transport resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
