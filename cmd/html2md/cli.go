package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/html2md"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Sitemaps  html2md.SitemapService
	Converter html2md.Converter

	// Store is nil in dry-run mode.
	Store html2md.DocumentStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URIs        []string `name:"uri" short:"u" sep:"none" help:"Page URL to convert (repeatable)"`
	Output      string   `short:"o" default:"." type:"path" help:"Directory for Markdown files"`
	ImageOutput string   `short:"i" type:"path" help:"Directory for images (default: output directory)"`

	IncludeTags         []string          `short:"t" sep:"none" help:"Tags, XPath or CSS selectors to include (comma separated, repeatable). XPath starts at the document root, e.g. /html/body/article"`
	ExcludeTags         []string          `short:"e" sep:"none" help:"Tags, XPath or CSS selectors to exclude (comma separated, repeatable). XPath starts at the document root, e.g. /html/body/nav"`
	DefaultCodeLanguage string            `help:"Language for code blocks without a mapped class"`
	CodeLanguage        map[string]string `name:"code-language" help:"Map a code block class to a language, as class=lang (repeatable)"`
	FrontMatter         []string          `sep:"none" help:"Front matter property as Name=path or Name=path:date (repeatable), e.g. Title=/html/body/h1"`
	Config              string            `short:"c" type:"existingfile" help:"YAML file with conversion options"`

	Sitemap string   `help:"Convert every page listed in this site's sitemap"`
	Filter  []string `sep:"none" help:"Only convert sitemap URLs matching this regex (repeatable)"`

	Concurrency int           `default:"4" help:"Pages converted at once"`
	Timeout     time.Duration `default:"30s" help:"Fetch timeout per request"`
	Rate        float64       `default:"0" help:"Requests per second per host (0 for unlimited)"`
	Retries     int           `default:"2" help:"Retries for transient fetch failures"`
	RenderJS    bool          `name:"render-js" help:"Render pages in headless Chrome before converting"`
	Verbose     bool          `short:"v" help:"Log fetches and renders to stderr"`
	DryRun      bool          `short:"n" help:"Print Markdown to stdout without writing files"`
}

// ConvertCmd handles the conversion of a set of pages.
type ConvertCmd struct {
	URIs    []string
	Sitemap string
	Filter  *html2md.URLFilter
	DryRun  bool
}
