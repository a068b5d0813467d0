package html2md

import "context"

// ConvertedDocument is the Markdown produced for one page.
type ConvertedDocument struct {
	SourceURL   string `json:"sourceUrl"`
	Markdown    string `json:"markdown"`
	ContentHash string `json:"contentHash"`
	Position    int    `json:"position"`
}

// Validate returns an error if the document contains invalid fields.
func (d *ConvertedDocument) Validate() error {
	if d.SourceURL == "" {
		return Errorf(EINVALID, "document source URL required")
	}
	return nil
}

// ReferencedImage is an image fetched while converting a batch.
// Identity is the absolute SourceURL.
type ReferencedImage struct {
	SourceURL string `json:"sourceUrl"`
	FileName  string `json:"fileName"`
	Data      []byte `json:"-"`
}

// Validate returns an error if the image contains invalid fields.
func (i *ReferencedImage) Validate() error {
	if i.SourceURL == "" {
		return Errorf(EINVALID, "image source URL required")
	}
	if i.FileName == "" {
		return Errorf(EINVALID, "image file name required")
	}
	return nil
}

// DocumentFailure records a page that could not be converted.
type DocumentFailure struct {
	SourceURL string
	Position  int
	Err       error
}

// ConversionResult is the outcome of a batch conversion.
type ConversionResult struct {
	// Documents are the successfully converted pages in input order.
	Documents []*ConvertedDocument

	// Failures are the pages that could not be converted, in input order.
	Failures []*DocumentFailure

	// Images holds every distinct image fetched during the batch.
	// No two entries share a SourceURL.
	Images []*ReferencedImage
}

// Converter converts pages into Markdown.
type Converter interface {
	// Convert fetches and converts a single page.
	Convert(ctx context.Context, pageURL string) (*ConvertedDocument, error)

	// ConvertBatch converts pages in order, sharing one image cache.
	// A failing page is reported in the result without aborting its siblings.
	// Returns an error only if the batch as a whole could not complete,
	// e.g. when the context is canceled.
	ConvertBatch(ctx context.Context, pageURLs []string) (*ConversionResult, error)
}

// DocumentStore persists converted documents and images with atomic
// semantics. Save and SaveImage stage content; Commit makes it permanent;
// Abort discards anything staged.
type DocumentStore interface {
	Save(ctx context.Context, doc *ConvertedDocument) error
	SaveImage(ctx context.Context, img *ReferencedImage) error
	Commit() error
	Abort() error
}
