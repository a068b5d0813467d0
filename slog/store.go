package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/html2md"
)

// Ensure LoggingDocumentStore implements html2md.DocumentStore.
var _ html2md.DocumentStore = (*LoggingDocumentStore)(nil)

// LoggingDocumentStore wraps a DocumentStore with debug logging.
type LoggingDocumentStore struct {
	next   html2md.DocumentStore
	logger *slog.Logger
}

// NewLoggingDocumentStore creates a new LoggingDocumentStore.
func NewLoggingDocumentStore(next html2md.DocumentStore, logger *slog.Logger) *LoggingDocumentStore {
	return &LoggingDocumentStore{next: next, logger: logger}
}

func (s *LoggingDocumentStore) Save(ctx context.Context, doc *html2md.ConvertedDocument) (err error) {
	defer func() {
		s.logger.Info("save document", "url", doc.SourceURL, "bytes", len(doc.Markdown), "err", err)
	}()
	return s.next.Save(ctx, doc)
}

func (s *LoggingDocumentStore) SaveImage(ctx context.Context, img *html2md.ReferencedImage) (err error) {
	defer func() {
		s.logger.Info("save image", "url", img.SourceURL, "file", img.FileName, "bytes", len(img.Data), "err", err)
	}()
	return s.next.SaveImage(ctx, img)
}

func (s *LoggingDocumentStore) Commit() (err error) {
	defer func() { s.logger.Info("commit", "err", err) }()
	return s.next.Commit()
}

func (s *LoggingDocumentStore) Abort() (err error) {
	defer func() { s.logger.Info("abort", "err", err) }()
	return s.next.Abort()
}
