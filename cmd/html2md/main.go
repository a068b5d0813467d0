package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/html2md"
	"github.com/fwojciec/html2md/crawl"
	"github.com/fwojciec/html2md/fs"
	"github.com/fwojciec/html2md/html"
	mdhttp "github.com/fwojciec/html2md/http"
	"github.com/fwojciec/html2md/rod"
	mdslog "github.com/fwojciec/html2md/slog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("html2md"),
		kong.Description("Convert HTML pages to Markdown"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	if len(cli.URIs) == 0 && cli.Sitemap == "" {
		return fmt.Errorf("at least one --uri or a --sitemap is required")
	}

	opts, err := cli.options()
	if err != nil {
		return fmt.Errorf("invalid options: %s", html2md.ErrorMessage(err))
	}
	filter, err := ParseFilter(cli.Filter)
	if err != nil {
		return fmt.Errorf("invalid options: %s", html2md.ErrorMessage(err))
	}
	renderer, err := html.NewRenderer(opts)
	if err != nil {
		return fmt.Errorf("invalid options: %s", html2md.ErrorMessage(err))
	}

	logger := slog.New(slog.DiscardHandler)
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
	}

	httpFetcher := mdhttp.NewFetcher(
		mdhttp.WithTimeout(cli.Timeout),
		mdhttp.WithRetryDelays(mdhttp.RetryDelays(cli.Retries)),
	)

	var fetcher html2md.Fetcher = httpFetcher
	if cli.RenderJS {
		rodFetcher, err := rod.NewFetcher(rod.WithFetchTimeout(cli.Timeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = &renderedFetcher{Fetcher: rodFetcher, resources: httpFetcher}
	}
	fetcher = mdslog.NewLoggingFetcher(fetcher, logger)
	defer fetcher.Close()

	deps := &Dependencies{
		Ctx:      ctx,
		Stdout:   stdout,
		Stderr:   stderr,
		Sitemaps: mdslog.NewLoggingSitemapService(mdhttp.NewSitemapService(fetcher), logger),
		Converter: &crawl.Converter{
			Pages:       fetcher,
			Resources:   fetcher,
			Renderer:    mdslog.NewLoggingRenderer(renderer, logger),
			RateLimiter: crawl.NewDomainLimiter(cli.Rate),
			Concurrency: cli.Concurrency,
			Progress:    progressPrinter(stderr),
		},
	}
	if !cli.DryRun {
		deps.Store = mdslog.NewLoggingDocumentStore(fs.NewFileStore(cli.Output, cli.ImageOutput), logger)
	}

	cmd := &ConvertCmd{
		URIs:    cli.URIs,
		Sitemap: cli.Sitemap,
		Filter:  filter,
		DryRun:  cli.DryRun,
	}

	return cmd.Run(deps)
}

// renderedFetcher fetches pages through Chrome and every other resource
// over plain HTTP.
type renderedFetcher struct {
	*rod.Fetcher
	resources *mdhttp.Fetcher
}

func (f *renderedFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	return f.resources.FetchBytes(ctx, url)
}

func (f *renderedFetcher) Close() error {
	return errors.Join(f.Fetcher.Close(), f.resources.Close())
}
