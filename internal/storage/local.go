package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local stores blobs under a directory on disk and serves them through a
// static route mounted at baseURL.
type Local struct {
	dir     string
	baseURL string
}

// NewLocal creates the upload directory if needed.
func NewLocal(dir, baseURL string) (*Local, error) {
	if dir == "" {
		return nil, errors.New("upload dir is required for local storage")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *Local) Save(ctx context.Context, in UploadInput) (*Object, error) {
	key := objectKey(in.Folder, in.Filename)
	dst := filepath.Join(l.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, fmt.Errorf("creating folder: %w", err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, in.Reader); err != nil {
		_ = os.Remove(dst)
		return nil, fmt.Errorf("writing file: %w", err)
	}
	return &Object{URL: l.baseURL + "/" + key, Key: key}, nil
}

// Delete removes the file behind a key. Keys are normalized so a crafted
// key cannot escape the upload directory; unknown keys are a no-op.
func (l *Local) Delete(ctx context.Context, key string) error {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(key, "/")))
	if clean == "." || strings.HasPrefix(clean, "..") {
		return errors.New("invalid storage key")
	}
	err := os.Remove(filepath.Join(l.dir, clean))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
