package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/html2md"
	"github.com/fwojciec/html2md/mock"
	mdslog "github.com/fwojciec/html2md/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingDocumentStore(t *testing.T) {
	t.Parallel()

	t.Run("logs saves and commit", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		var saved []string
		inner := &mock.DocumentStore{
			SaveFn: func(ctx context.Context, doc *html2md.ConvertedDocument) error {
				saved = append(saved, doc.SourceURL)
				return nil
			},
			SaveImageFn: func(ctx context.Context, img *html2md.ReferencedImage) error {
				saved = append(saved, img.SourceURL)
				return nil
			},
			CommitFn: func() error { return nil },
		}

		store := mdslog.NewLoggingDocumentStore(inner, logger)
		ctx := context.Background()
		require.NoError(t, store.Save(ctx, &html2md.ConvertedDocument{SourceURL: "https://example.com/a", Markdown: "abc"}))
		require.NoError(t, store.SaveImage(ctx, &html2md.ReferencedImage{SourceURL: "https://example.com/b.png", FileName: "b.png"}))
		require.NoError(t, store.Commit())

		assert.Equal(t, []string{"https://example.com/a", "https://example.com/b.png"}, saved)
		output := buf.String()
		assert.Contains(t, output, "save document")
		assert.Contains(t, output, "bytes=3")
		assert.Contains(t, output, "save image")
		assert.Contains(t, output, "file=b.png")
		assert.Contains(t, output, "commit")
	})

	t.Run("logs abort error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.DocumentStore{
			AbortFn: func() error { return errors.New("busy") },
		}

		store := mdslog.NewLoggingDocumentStore(inner, logger)
		err := store.Abort()

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=busy")
	})
}
