package mock

import (
	"context"

	"github.com/fwojciec/html2md"
)

var _ html2md.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of html2md.Fetcher.
type Fetcher struct {
	FetchTextFn  func(ctx context.Context, url string) (string, error)
	FetchBytesFn func(ctx context.Context, url string) ([]byte, error)
	CloseFn      func() error
}

func (f *Fetcher) FetchText(ctx context.Context, url string) (string, error) {
	return f.FetchTextFn(ctx, url)
}

func (f *Fetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	return f.FetchBytesFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ html2md.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of html2md.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
