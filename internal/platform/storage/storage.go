// Package storage persists medical record attachments on the local
// filesystem. Files are stored under a flat directory with UUID names so
// user-supplied file names never touch the disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidFileType = errors.New("file type is not allowed")
)

// DefaultMaxBytes caps uploads at 10 MB.
const DefaultMaxBytes = 10 * 1024 * 1024

// allowedTypes maps permitted MIME types to the extension stored on disk.
var allowedTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

// AllowedType reports whether the MIME type may be uploaded.
func AllowedType(contentType string) bool {
	_, ok := allowedTypes[contentType]
	return ok
}

// LocalStore writes attachment payloads under a base directory.
type LocalStore struct {
	dir      string
	maxBytes int64
}

func NewLocalStore(dir string, maxBytes int64) (*LocalStore, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, maxBytes: maxBytes}, nil
}

// MaxBytes returns the configured upload size limit.
func (s *LocalStore) MaxBytes() int64 { return s.maxBytes }

// Path returns the slash-separated path of a stored file under the base
// directory, suitable for client-facing records.
func (s *LocalStore) Path(name string) string {
	return filepath.ToSlash(filepath.Join(s.dir, filepath.Base(name)))
}

// Save streams the payload to disk under a fresh UUID name and returns the
// stored name and the byte count. Payloads over the size limit or with a
// disallowed content type are rejected.
func (s *LocalStore) Save(contentType string, size int64, r io.Reader) (string, int64, error) {
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", 0, ErrInvalidFileType
	}
	if size > s.maxBytes {
		return "", 0, ErrFileTooLarge
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create file: %w", err)
	}

	// limit one past the cap so oversized streams are detected
	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("write file: %w", err)
	}
	if written > s.maxBytes {
		os.Remove(path)
		return "", 0, ErrFileTooLarge
	}
	return name, written, nil
}

// Open returns a reader over a stored file. The caller closes it.
func (s *LocalStore) Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return f, nil
}

// Remove deletes a stored file. Removing a missing file is not an error.
func (s *LocalStore) Remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
