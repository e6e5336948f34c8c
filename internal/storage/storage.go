// Package storage abstracts where uploaded listing media lives. Two
// drivers exist: local disk for development and single-host deploys, and
// S3 (or any S3-compatible endpoint) for production.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/iwacu250/landplots/internal/config"
)

// UploadInput describes one file to store.
type UploadInput struct {
	Reader      io.Reader
	Filename    string // original client filename, used only for its extension
	ContentType string
	Size        int64
	Folder      string // logical folder, e.g. "plots", "houses", "videos"
}

// Object is the stored result: the public URL clients render and the key
// needed to delete the file later.
type Object struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// Store saves and deletes media blobs.
type Store interface {
	Save(ctx context.Context, in UploadInput) (*Object, error)
	Delete(ctx context.Context, key string) error
}

// New builds the store selected by STORAGE_DRIVER.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "local":
		return NewLocal(cfg.UploadDir, cfg.PublicBaseURL)
	case "s3":
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// objectKey builds a collision-free key: folder/uuid.ext. The original
// filename contributes only its extension; everything else is discarded.
func objectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	folder = strings.Trim(path.Clean("/"+folder), "/")
	if folder == "" {
		folder = "misc"
	}
	return folder + "/" + uuid.NewString() + ext
}
