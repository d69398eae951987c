package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("media file not found")

// LocalStore writes uploaded media under Dir with random file names.
// Stored paths are Dir-relative names prefixed with Prefix, the form
// clients fetch them under.
type LocalStore struct {
	Dir    string
	Prefix string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{Dir: dir, Prefix: "uploads/"}, nil
}

// Save copies the upload to disk and returns its stored path.
func (s *LocalStore) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write media file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close media file: %w", err)
	}
	return s.Prefix + name, nil
}

// Path maps a stored path back to the file on disk. Paths that would leave
// Dir, or files that no longer exist, report ErrNotFound.
func (s *LocalStore) Path(stored string) (string, error) {
	name := strings.TrimPrefix(stored, s.Prefix)
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", ErrNotFound
	}
	full := filepath.Join(s.Dir, name)
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", ErrNotFound
	}
	return full, nil
}

// Remove deletes a stored file; missing files are ignored.
func (s *LocalStore) Remove(stored string) error {
	full, err := s.Path(stored)
	if err != nil {
		return nil
	}
	return os.Remove(full)
}
