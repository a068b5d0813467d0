package crawl_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/html2md"
	"github.com/fwojciec/html2md/crawl"
	"github.com/fwojciec/html2md/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageURL = "https://converttest.goatly.net/page/name"

// imageServer serves fixed bytes per URL and counts fetches.
type imageServer struct {
	mu     sync.Mutex
	data   map[string][]byte
	counts map[string]int
	delay  time.Duration
}

func newImageServer(data map[string][]byte) *imageServer {
	return &imageServer{data: data, counts: make(map[string]int)}
}

func (s *imageServer) fetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchBytesFn: func(ctx context.Context, url string) ([]byte, error) {
			s.mu.Lock()
			s.counts[url]++
			s.mu.Unlock()

			if s.delay > 0 {
				select {
				case <-time.After(s.delay):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			if b, ok := s.data[url]; ok {
				return b, nil
			}
			return nil, html2md.Errorf(html2md.ENOTFOUND, "not found: %s", url)
		},
	}
}

func (s *imageServer) count(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[url]
}

func TestHarvester_Resolve(t *testing.T) {
	t.Parallel()

	data := map[string][]byte{
		"https://converttest.goatly.net/static/images/img.png": {4},
		"https://converttest.goatly.net/img.png":               {3},
		"https://converttest.goatly.net/images/img.png":        {1},
		"https://converttest.goatly.net/gallery/":              {5},
		"https://other.goatly.net/images/img.png":              {2},
	}

	t.Run("fetches same-host images and returns their file name", func(t *testing.T) {
		t.Parallel()

		srv := newImageServer(data)
		h := crawl.NewHarvester(srv.fetcher(), nil)

		got, err := h.Resolve(context.Background(), "/static/images/img.png", pageURL)

		require.NoError(t, err)
		assert.Equal(t, "img.png", got)
		assert.Equal(t, []*html2md.ReferencedImage{{
			SourceURL: "https://converttest.goatly.net/static/images/img.png",
			FileName:  "img.png",
			Data:      []byte{4},
		}}, h.Images())
	})

	t.Run("resolves relative and absolute references", func(t *testing.T) {
		t.Parallel()

		srv := newImageServer(data)
		h := crawl.NewHarvester(srv.fetcher(), nil)

		rel, err := h.Resolve(context.Background(), "../img.png", pageURL)
		require.NoError(t, err)
		abs, err := h.Resolve(context.Background(), "https://converttest.goatly.net/images/img.png", pageURL)
		require.NoError(t, err)

		assert.Equal(t, "img.png", rel)
		assert.Equal(t, "img.png", abs)
		require.Len(t, h.Images(), 2)
		assert.Equal(t, "https://converttest.goatly.net/img.png", h.Images()[0].SourceURL)
		assert.Equal(t, "https://converttest.goatly.net/images/img.png", h.Images()[1].SourceURL)
	})

	t.Run("returns other-host images as absolute URLs without fetching", func(t *testing.T) {
		t.Parallel()

		srv := newImageServer(data)
		h := crawl.NewHarvester(srv.fetcher(), nil)

		got, err := h.Resolve(context.Background(), "https://other.goatly.net/images/img.png", pageURL)

		require.NoError(t, err)
		assert.Equal(t, "https://other.goatly.net/images/img.png", got)
		assert.Zero(t, srv.count("https://other.goatly.net/images/img.png"))
		assert.Empty(t, h.Images())
	})

	t.Run("missing images keep the reference as written and are not retried", func(t *testing.T) {
		t.Parallel()

		srv := newImageServer(data)
		h := crawl.NewHarvester(srv.fetcher(), nil)

		first, err := h.Resolve(context.Background(), "/static/images/missing.png", pageURL)
		require.NoError(t, err)
		second, err := h.Resolve(context.Background(), "../static/images/missing.png", pageURL)
		require.NoError(t, err)

		assert.Equal(t, "/static/images/missing.png", first)
		assert.Equal(t, "../static/images/missing.png", second)
		assert.Equal(t, 1, srv.count("https://converttest.goatly.net/static/images/missing.png"))
		assert.Empty(t, h.Images())
	})

	t.Run("fetches each image once under concurrent callers", func(t *testing.T) {
		t.Parallel()

		srv := newImageServer(data)
		srv.delay = 20 * time.Millisecond
		h := crawl.NewHarvester(srv.fetcher(), nil)

		var wg sync.WaitGroup
		var names sync.Map
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := h.Resolve(context.Background(), "/static/images/img.png", pageURL)
				if err == nil {
					names.Store(i, got)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, srv.count("https://converttest.goatly.net/static/images/img.png"))
		assert.Len(t, h.Images(), 1)
		names.Range(func(_, v any) bool {
			assert.Equal(t, "img.png", v)
			return true
		})
	})

	t.Run("fragments do not create distinct images", func(t *testing.T) {
		t.Parallel()

		srv := newImageServer(data)
		h := crawl.NewHarvester(srv.fetcher(), nil)

		_, err := h.Resolve(context.Background(), "/img.png#a", pageURL)
		require.NoError(t, err)
		_, err = h.Resolve(context.Background(), "/img.png#b", pageURL)
		require.NoError(t, err)

		assert.Equal(t, 1, srv.count("https://converttest.goatly.net/img.png"))
		assert.Len(t, h.Images(), 1)
	})

	t.Run("derives a name when the path has no last segment", func(t *testing.T) {
		t.Parallel()

		srv := newImageServer(data)
		h := crawl.NewHarvester(srv.fetcher(), nil)

		got, err := h.Resolve(context.Background(), "/gallery/", pageURL)

		require.NoError(t, err)
		assert.Regexp(t, `^image-[0-9a-f]+$`, got)
		require.Len(t, h.Images(), 1)
		assert.Equal(t, got, h.Images()[0].FileName)
	})

	t.Run("waits on the limiter for the image host", func(t *testing.T) {
		t.Parallel()

		var hosts []string
		limiter := &mock.DomainLimiter{
			WaitFn: func(_ context.Context, domain string) error {
				hosts = append(hosts, domain)
				return nil
			},
		}
		h := crawl.NewHarvester(newImageServer(data).fetcher(), limiter)

		_, err := h.Resolve(context.Background(), "/img.png", pageURL)

		require.NoError(t, err)
		assert.Equal(t, []string{"converttest.goatly.net"}, hosts)
	})

	t.Run("context errors are returned and not remembered", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		fetcher := &mock.Fetcher{
			FetchBytesFn: func(ctx context.Context, _ string) ([]byte, error) {
				if calls.Add(1) == 1 {
					return nil, context.Canceled
				}
				return []byte{9}, nil
			},
		}
		h := crawl.NewHarvester(fetcher, nil)

		_, err := h.Resolve(context.Background(), "/img.png", pageURL)
		assert.ErrorIs(t, err, context.Canceled)

		got, err := h.Resolve(context.Background(), "/img.png", pageURL)
		require.NoError(t, err)
		assert.Equal(t, "img.png", got)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("canceled caller returns promptly", func(t *testing.T) {
		t.Parallel()

		srv := newImageServer(data)
		srv.delay = time.Second
		h := crawl.NewHarvester(srv.fetcher(), nil)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := h.Resolve(ctx, "/img.png", pageURL)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})
}
