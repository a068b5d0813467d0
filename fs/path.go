// Package fs provides file-based storage for converted documents.
package fs

import (
	"net/url"
	"path"
	"strings"

	"github.com/fwojciec/html2md"
)

// DocumentFileName returns the output file name for a page URL.
// Example: https://example.com/docs/intro.html → intro.md
func DocumentFileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", html2md.Errorf(html2md.EINVALID, "invalid document URL %q", rawURL)
	}

	p := strings.TrimRight(u.Path, "/")
	if p == "" {
		return "index.md", nil
	}

	base := path.Base(p)
	stem := strings.TrimSuffix(base, path.Ext(base))
	if stem == "" || stem == "." || stem == ".." {
		return "index.md", nil
	}
	return stem + ".md", nil
}

// validFileName reports whether name is a plain file name with no
// directory components.
func validFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
