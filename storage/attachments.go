// Package storage keeps motif attachments on the local filesystem under
// <root>/<motifID>/<filename>.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strconv"
)

const defaultContentType = "application/octet-stream"

var (
	ErrNotFound    = errors.New("attachment not found")
	ErrInvalidName = errors.New("invalid attachment name")
)

type AttachmentStore struct {
	root string
}

func NewAttachmentStore(root string) *AttachmentStore {
	return &AttachmentStore{root: root}
}

// CleanName reduces an uploaded filename to its base name.
func CleanName(name string) (string, error) {
	base := filepath.Base(filepath.Clean("/" + filepath.ToSlash(name)))
	if base == "" || base == "." || base == ".." || base == string(filepath.Separator) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return base, nil
}

// ContentType infers the MIME type from the filename extension.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return defaultContentType
}

func (s *AttachmentStore) Dir(motifID uint) string {
	return filepath.Join(s.root, strconv.FormatUint(uint64(motifID), 10))
}

func (s *AttachmentStore) path(motifID uint, name string) (string, error) {
	clean, err := CleanName(name)
	if err != nil {
		return "", err
	}
	if clean != name {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.Dir(motifID), clean), nil
}

// Exists reports whether the attachment file is present.
func (s *AttachmentStore) Exists(motifID uint, name string) (bool, error) {
	p, err := s.path(motifID, name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Save writes r to the attachment file, replacing any previous content.
func (s *AttachmentStore) Save(motifID uint, name string, r io.Reader) error {
	p, err := s.path(motifID, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir(motifID), 0o755); err != nil {
		return fmt.Errorf("create attachment dir: %w", err)
	}

	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("create attachment %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write attachment %s: %w", name, err)
	}
	return f.Close()
}

// Open returns the attachment file and its size. The caller closes it.
func (s *AttachmentStore) Open(motifID uint, name string) (*os.File, int64, error) {
	p, err := s.path(motifID, name)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	if info.IsDir() {
		f.Close()
		return nil, 0, ErrNotFound
	}
	return f, info.Size(), nil
}

// Remove deletes one attachment file. A missing file returns ErrNotFound.
func (s *AttachmentStore) Remove(motifID uint, name string) error {
	p, err := s.path(motifID, name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("remove attachment %s: %w", name, err)
	}
	return nil
}

// RemoveAll deletes the motif's directory. A missing directory is not an error.
func (s *AttachmentStore) RemoveAll(motifID uint) error {
	if err := os.RemoveAll(s.Dir(motifID)); err != nil {
		return fmt.Errorf("remove attachment dir: %w", err)
	}
	return nil
}
