package crawl

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/html2md"
	"golang.org/x/sync/singleflight"
)

// Ensure Harvester implements html2md.ImageResolver at compile time.
var _ html2md.ImageResolver = (*Harvester)(nil)

// Harvester fetches the images referenced by a batch of pages, each
// distinct URL at most once, and remembers the outcome so that every page
// referencing the same image gets the same Markdown target.
//
// Only images on the same host as the referencing page are fetched. A failed
// fetch is remembered too: the image is not collected and pages keep the
// reference as written.
type Harvester struct {
	resources html2md.ResourceFetcher
	limiter   html2md.DomainLimiter

	flight singleflight.Group

	mu      sync.Mutex
	entries map[string]*harvestEntry
	images  []*html2md.ReferencedImage
}

type harvestEntry struct {
	fileName string
	failed   bool
}

// NewHarvester returns a Harvester for one batch. The limiter may be nil.
func NewHarvester(resources html2md.ResourceFetcher, limiter html2md.DomainLimiter) *Harvester {
	return &Harvester{
		resources: resources,
		limiter:   limiter,
		entries:   make(map[string]*harvestEntry),
	}
}

// Resolve returns the Markdown target for raw as written in the page at
// pageURL: the image's file name once fetched, the absolute URL for images
// on other hosts, or raw itself when the image could not be fetched.
// The only errors are context errors.
func (h *Harvester) Resolve(ctx context.Context, raw string, pageURL string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return raw, nil
	}
	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw, nil
	}
	abs := base.ResolveReference(ref)
	abs.Fragment = ""
	key := abs.String()

	if e, ok := h.lookup(key); ok {
		return e.target(raw), nil
	}

	if !strings.EqualFold(abs.Host, base.Host) {
		return key, nil
	}

	ch := h.flight.DoChan(key, func() (any, error) {
		if e, ok := h.lookup(key); ok {
			return e, nil
		}
		return h.fetch(ctx, abs)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(*harvestEntry).target(raw), nil
	}
}

// Images returns the images fetched so far in first-registration order.
func (h *Harvester) Images() []*html2md.ReferencedImage {
	h.mu.Lock()
	defer h.mu.Unlock()

	images := make([]*html2md.ReferencedImage, len(h.images))
	copy(images, h.images)
	return images
}

func (h *Harvester) lookup(key string) (*harvestEntry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, ok := h.entries[key]
	return e, ok
}

// fetch downloads the image at abs and records the outcome. Context errors
// are returned and not recorded so a later caller may retry.
func (h *Harvester) fetch(ctx context.Context, abs *url.URL) (*harvestEntry, error) {
	key := abs.String()

	if h.limiter != nil {
		if err := h.limiter.Wait(ctx, abs.Host); err != nil {
			return nil, err
		}
	}

	data, err := h.resources.FetchBytes(ctx, key)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return h.record(key, &harvestEntry{failed: true}, nil), nil
	}

	img := &html2md.ReferencedImage{
		SourceURL: key,
		FileName:  imageFileName(abs),
		Data:      data,
	}
	return h.record(key, &harvestEntry{fileName: img.FileName}, img), nil
}

func (h *Harvester) record(key string, e *harvestEntry, img *html2md.ReferencedImage) *harvestEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.entries[key]; ok {
		return existing
	}
	h.entries[key] = e
	if img != nil {
		h.images = append(h.images, img)
	}
	return e
}

func (e *harvestEntry) target(raw string) string {
	if e.failed {
		return raw
	}
	return e.fileName
}

// imageFileName returns the last path segment of u, or a name derived from
// a hash of the URL when the path has none.
func imageFileName(u *url.URL) string {
	if u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return fmt.Sprintf("image-%x", xxhash.Sum64String(u.String()))
	}
	return path.Base(u.Path)
}
