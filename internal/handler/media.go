package handler

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/iwacu250/landplots/internal/model"
	"github.com/iwacu250/landplots/internal/repository"
	"github.com/iwacu250/landplots/internal/storage"
)

// Upload limits. Videos are larger but capped too; anything above is
// rejected before it touches the blob store.
const (
	maxImageBytes = 10 << 20  // 10 MiB
	maxVideoBytes = 200 << 20 // 200 MiB
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var allowedVideoTypes = map[string]bool{
	"video/mp4":  true,
	"video/webm": true,
}

// saveImages stores every file of a multipart upload and records a row
// per image. Files already stored are kept even if a later one fails;
// the caller gets the rows that made it plus the error.
func saveImages(ctx context.Context, store storage.Store, images *repository.ImageRepo,
	ownerID uint64, folder string, files []*multipart.FileHeader, startOrder int) ([]model.Image, error) {

	var saved []model.Image
	for i, fh := range files {
		if fh.Size > maxImageBytes {
			return saved, fmt.Errorf("file %q exceeds the size limit", fh.Filename)
		}
		ct := fh.Header.Get("Content-Type")
		if !allowedImageTypes[ct] {
			return saved, fmt.Errorf("file %q has unsupported type %q", fh.Filename, ct)
		}
		src, err := fh.Open()
		if err != nil {
			return saved, fmt.Errorf("opening upload %q: %w", fh.Filename, err)
		}
		obj, err := store.Save(ctx, storage.UploadInput{
			Reader:      src,
			Filename:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
			Folder:      folder,
		})
		src.Close()
		if err != nil {
			return saved, fmt.Errorf("storing %q: %w", fh.Filename, err)
		}

		img := model.Image{
			OwnerID:      ownerID,
			URL:          obj.URL,
			StorageKey:   obj.Key,
			ContentType:  ct,
			FileSize:     fh.Size,
			DisplayOrder: startOrder + i,
		}
		if err := images.Insert(ctx, &img); err != nil {
			// best effort: drop the orphaned blob
			_ = store.Delete(ctx, obj.Key)
			return saved, fmt.Errorf("recording %q: %w", fh.Filename, err)
		}
		saved = append(saved, img)
	}
	return saved, nil
}

// saveVideo stores a single video file and returns its public URL.
func saveVideo(ctx context.Context, store storage.Store, fh *multipart.FileHeader) (string, error) {
	if fh.Size > maxVideoBytes {
		return "", fmt.Errorf("video exceeds the size limit")
	}
	ct := fh.Header.Get("Content-Type")
	if !allowedVideoTypes[ct] {
		return "", fmt.Errorf("unsupported video type %q", ct)
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	obj, err := store.Save(ctx, storage.UploadInput{
		Reader:      src,
		Filename:    fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
		Folder:      "videos",
	})
	if err != nil {
		return "", fmt.Errorf("storing video: %w", err)
	}
	return obj.URL, nil
}

// formFiles pulls the "files" part out of a multipart request.
func formFiles(r *http.Request) ([]*multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, err
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		return nil, fmt.Errorf("no files attached")
	}
	return r.MultipartForm.File["files"], nil
}
