package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskStore persists blobs under a local directory and serves them through
// a public base URL (the HTTP layer mounts the directory as static files).
type DiskStore struct {
	dir     string
	baseURL string
}

// NewDiskStore prepares the backing directory.
func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Put writes the upload to disk under folder/<uuid><ext>.
func (s *DiskStore) Put(ctx context.Context, folder string, upload Upload) (*Object, error) {
	ext := path.Ext(upload.Filename)
	key := path.Join(folder, uuid.NewString()+ext)

	target := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(target)
	if err != nil {
		return nil, err
	}
	written, err := io.Copy(f, upload.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(target)
		return nil, err
	}
	return &Object{
		URL:  s.baseURL + "/" + key,
		Key:  key,
		Size: written,
	}, nil
}

// Delete removes the object file; a missing file is not an error.
func (s *DiskStore) Delete(ctx context.Context, key string) error {
	target := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir exposes the backing directory for static mounting.
func (s *DiskStore) Dir() string {
	return s.dir
}
