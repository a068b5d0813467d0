package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/html2md"
	"github.com/google/uuid"
)

// Ensure FileStore implements html2md.DocumentStore at compile time.
var _ html2md.DocumentStore = (*FileStore)(nil)

// FileStore implements html2md.DocumentStore with atomic update semantics.
// Files are written to hidden staging directories inside the output
// directories and moved into place on Commit.
type FileStore struct {
	docDir   string
	imageDir string
	id       string

	mu     sync.Mutex
	staged []stagedFile
}

type stagedFile struct {
	temp  string
	final string
}

// NewFileStore creates a new FileStore writing documents to docDir and
// images to imageDir. An empty imageDir means docDir.
func NewFileStore(docDir, imageDir string) *FileStore {
	if imageDir == "" {
		imageDir = docDir
	}
	return &FileStore{
		docDir:   docDir,
		imageDir: imageDir,
		id:       uuid.NewString(),
	}
}

func (s *FileStore) stagingDir(dir string) string {
	return filepath.Join(dir, ".html2md-"+s.id)
}

// Save stages a document under its DocumentFileName.
func (s *FileStore) Save(ctx context.Context, doc *html2md.ConvertedDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	name, err := DocumentFileName(doc.SourceURL)
	if err != nil {
		return err
	}
	return s.stage(s.docDir, name, []byte(doc.Markdown))
}

// SaveImage stages an image under its harvested file name.
func (s *FileStore) SaveImage(ctx context.Context, img *html2md.ReferencedImage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := img.Validate(); err != nil {
		return err
	}
	if !validFileName(img.FileName) {
		return html2md.Errorf(html2md.EINVALID, "invalid image file name %q", img.FileName)
	}
	return s.stage(s.imageDir, img.FileName, img.Data)
}

func (s *FileStore) stage(dir, name string, data []byte) error {
	staging := s.stagingDir(dir)
	if err := os.MkdirAll(staging, 0755); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	temp := filepath.Join(staging, name)
	if err := os.WriteFile(temp, data, 0644); err != nil {
		return err
	}
	for _, f := range s.staged {
		if f.temp == temp {
			return nil
		}
	}
	s.staged = append(s.staged, stagedFile{temp: temp, final: filepath.Join(dir, name)})
	return nil
}

// Commit moves every staged file into its output directory, replacing
// existing files, and removes the staging directories.
func (s *FileStore) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.staged {
		if err := os.Rename(f.temp, f.final); err != nil {
			return err
		}
	}
	s.staged = nil
	return s.removeStaging()
}

// Abort discards everything staged.
func (s *FileStore) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.staged = nil
	return s.removeStaging()
}

func (s *FileStore) removeStaging() error {
	return errors.Join(
		os.RemoveAll(s.stagingDir(s.docDir)),
		os.RemoveAll(s.stagingDir(s.imageDir)),
	)
}
