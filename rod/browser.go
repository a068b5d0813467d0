package rod

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is the default number of pages opened in one Chrome
// process before a fresh process takes over.
const DefaultMaxPages = 75

var errBrowserClosed = errors.New("browser closed")

// Browser hands out pages from a headless Chrome process. Chrome's memory
// grows with every page it renders, so after maxPages pages the process is
// retired: new pages come from a fresh process and the old one is shut
// down once its last page is released.
//
// Browser is safe for concurrent use.
type Browser struct {
	maxPages int

	mu      sync.Mutex
	current *chrome
	closed  bool
}

// chrome is one launched Chrome process.
type chrome struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	opened   int
	active   int
	retired  bool
}

// NewBrowser launches Chrome. Close must be called when the Browser is no
// longer needed.
func NewBrowser(maxPages int) (*Browser, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	c, err := launchChrome()
	if err != nil {
		return nil, err
	}
	return &Browser{maxPages: maxPages, current: c}, nil
}

// Page opens a blank page. The returned release func closes it and must be
// called exactly once.
func (b *Browser) Page() (*rod.Page, func(), error) {
	c, err := b.acquire()
	if err != nil {
		return nil, nil, err
	}

	page, err := c.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		b.release(c)
		return nil, nil, fmt.Errorf("opening page: %w", err)
	}

	return page, func() {
		_ = page.Close()
		b.release(c)
	}, nil
}

// Close shuts down Chrome. Pages still open keep their process alive until
// released. Close is safe to call multiple times.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	c := b.current
	b.current = nil
	c.retired = true
	if c.active == 0 {
		return c.shutdown()
	}
	return nil
}

// acquire returns the process to open the next page in, replacing the
// current one when it has served maxPages pages. If a replacement cannot be
// launched the current process keeps serving.
func (b *Browser) acquire() (*chrome, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, errBrowserClosed
	}

	if b.current.opened >= b.maxPages {
		if fresh, err := launchChrome(); err == nil {
			old := b.current
			old.retired = true
			if old.active == 0 {
				_ = old.shutdown()
			}
			b.current = fresh
		}
	}

	b.current.opened++
	b.current.active++
	return b.current, nil
}

func (b *Browser) release(c *chrome) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c.active--
	if c.retired && c.active == 0 {
		_ = c.shutdown()
	}
}

// launchChrome starts a headless Chrome with flags that keep it stable
// under sustained load.
func launchChrome() (*chrome, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &chrome{browser: browser, launcher: l}, nil
}

func (c *chrome) shutdown() error {
	err := c.browser.Close()
	c.launcher.Kill()
	return err
}
