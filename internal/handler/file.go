package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iwacu250/landplots/internal/storage"
)

// FileHandler is the generic admin upload surface for media that is not
// bound to a listing row (site banners, documents).
type FileHandler struct {
	Store storage.Store
}

func NewFileHandler(store storage.Store) *FileHandler {
	return &FileHandler{Store: store}
}

// Upload stores a single file and returns its URL and key.
func (h *FileHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no file attached"})
	}
	if fh.Size > maxImageBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file exceeds the size limit"})
	}
	folder := strings.TrimSpace(c.FormValue("folder"))
	if folder == "" {
		folder = "misc"
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable upload"})
	}
	defer src.Close()

	ctx, cancel := reqCtx(c)
	defer cancel()

	obj, err := h.Store.Save(ctx, storage.UploadInput{
		Reader:      src,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Folder:      folder,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	return c.JSON(http.StatusCreated, obj)
}

type deleteFileReq struct {
	Key string `json:"key"`
}

// Delete removes a stored file by its object key.
func (h *FileHandler) Delete(c echo.Context) error {
	var req deleteFileReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Key) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "key is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Store.Delete(ctx, req.Key); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
