package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedImageType is returned for uploads that are not a known image format
var ErrUnsupportedImageType = errors.New("unsupported image type")

// ErrInvalidImageRef is returned when a reference does not belong to the store
var ErrInvalidImageRef = errors.New("invalid image reference")

// ImageStore persists uploaded meal photos and hands back an opaque reference
type ImageStore interface {
	// Save stores the image under prefix and returns its reference
	Save(ctx context.Context, prefix, contentType string, body io.Reader) (string, error)
	// Delete removes a previously saved image; deleting a missing image is not an error
	Delete(ctx context.Context, ref string) error
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/heic": ".heic",
}

// ExtensionFor returns the file extension for an image content type
func ExtensionFor(contentType string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := imageExtensions[ct]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedImageType, contentType)
	}
	return ext, nil
}

// objectKey builds "<prefix>/<uuid><ext>" with a sanitized prefix
func objectKey(prefix, ext string) string {
	clean := strings.Trim(path.Clean("/"+prefix), "/")
	if clean == "" || clean == "." {
		return uuid.New().String() + ext
	}
	return clean + "/" + uuid.New().String() + ext
}

// LocalImageStore keeps images on the local filesystem
type LocalImageStore struct {
	root string
}

// NewLocalImageStore creates the upload directory if needed
func NewLocalImageStore(root string) (*LocalImageStore, error) {
	if root == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalImageStore{root: root}, nil
}

// Root returns the directory images are written under
func (s *LocalImageStore) Root() string {
	return s.root
}

// Save writes the image to disk and returns its path relative to the store root
func (s *LocalImageStore) Save(ctx context.Context, prefix, contentType string, body io.Reader) (string, error) {
	ext, err := ExtensionFor(contentType)
	if err != nil {
		return "", err
	}

	key := objectKey(prefix, ext)
	full := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("failed to close image file: %w", err)
	}

	return key, nil
}

// Delete removes an image previously returned by Save
func (s *LocalImageStore) Delete(ctx context.Context, ref string) error {
	full, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// resolve maps a reference to a path inside the store root
func (s *LocalImageStore) resolve(ref string) (string, error) {
	if ref == "" || strings.Contains(ref, "..") || path.IsAbs(ref) {
		return "", fmt.Errorf("%w: %q", ErrInvalidImageRef, ref)
	}
	return filepath.Join(s.root, filepath.FromSlash(ref)), nil
}
