package mock

import (
	"context"

	"github.com/fwojciec/html2md"
)

var _ html2md.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is a mock implementation of html2md.DocumentStore.
type DocumentStore struct {
	SaveFn      func(ctx context.Context, doc *html2md.ConvertedDocument) error
	SaveImageFn func(ctx context.Context, img *html2md.ReferencedImage) error
	CommitFn    func() error
	AbortFn     func() error
}

func (s *DocumentStore) Save(ctx context.Context, doc *html2md.ConvertedDocument) error {
	return s.SaveFn(ctx, doc)
}

func (s *DocumentStore) SaveImage(ctx context.Context, img *html2md.ReferencedImage) error {
	return s.SaveImageFn(ctx, img)
}

func (s *DocumentStore) Commit() error {
	return s.CommitFn()
}

func (s *DocumentStore) Abort() error {
	return s.AbortFn()
}
