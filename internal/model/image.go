package model

import "time"

// Image is an uploaded media attachment. The same table layout serves
// plot images (`images`, keyed by plot_id) and house images
// (`house_images`, keyed by house_id); OwnerID holds whichever parent
// applies.
//
// StorageKey is the blob-store object key needed to delete the file
// later; URL is what clients render.
type Image struct {
	ID           uint64    `json:"id"`
	OwnerID      uint64    `json:"-"`
	URL          string    `json:"url"`
	StorageKey   string    `json:"-"`
	ContentType  string    `json:"content_type"`
	FileSize     int64     `json:"file_size"`
	DisplayOrder int       `json:"display_order"`
	IsFeatured   bool      `json:"is_featured"`
	AltText      string    `json:"alt_text,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
