package html

import (
	"context"
	"net/url"
	"strings"

	"github.com/fwojciec/html2md"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Renderer implements html2md.Renderer at compile time.
var _ html2md.Renderer = (*Renderer)(nil)

// Renderer converts HTML documents to Markdown. It is immutable after
// construction and safe for concurrent use.
type Renderer struct {
	include         []*Selector
	exclude         []*Selector
	defaultLanguage string
	codeLanguages   map[string]string
	frontMatter     *FrontMatter
}

// NewRenderer validates opts and compiles its rules.
func NewRenderer(opts html2md.Options) (*Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	include, err := compileSelectors(opts.IncludeTags)
	if err != nil {
		return nil, err
	}
	exclude, err := compileSelectors(opts.ExcludeTags)
	if err != nil {
		return nil, err
	}
	fm, err := NewFrontMatter(opts.FrontMatter)
	if err != nil {
		return nil, err
	}

	langs := make(map[string]string, len(opts.CodeLanguageClassMap))
	for class, lang := range opts.CodeLanguageClassMap {
		langs[class] = lang
	}

	return &Renderer{
		include:         include,
		exclude:         exclude,
		defaultLanguage: opts.DefaultCodeLanguage,
		codeLanguages:   langs,
		frontMatter:     fm,
	}, nil
}

// Render converts page to Markdown. Image and link targets go through
// images; a nil resolver absolutizes them against the page URL.
func (r *Renderer) Render(ctx context.Context, page *html2md.Page, images html2md.ImageResolver) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pageURL, err := url.Parse(page.URL)
	if err != nil {
		return "", html2md.Errorf(html2md.EINVALID, "invalid page URL %q: %v", page.URL, err)
	}

	root, err := html.Parse(strings.NewReader(page.HTML))
	if err != nil {
		return "", html2md.Errorf(html2md.EPARSE, "parse %s: %v", page.URL, err)
	}

	var preamble string
	if r.frontMatter != nil {
		preamble, err = r.frontMatter.Render(root)
		if err != nil {
			return "", err
		}
	}

	c := &conversion{
		ctx:      ctx,
		renderer: r,
		filter:   NewFilter(root, r.include, r.exclude),
		images:   images,
		pageURL:  pageURL,
		out:      &strings.Builder{},
	}

	st := InitialState()
	if !c.filter.HasIncludes() {
		st = st.WithRenderingEnabled()
	}
	if body := findBody(root); body != nil {
		err = c.node(st, body)
	} else {
		err = c.children(st, root)
	}
	if err != nil {
		return "", err
	}

	return preamble + c.out.String(), nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}
