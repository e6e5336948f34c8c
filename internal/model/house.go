package model

import "time"

// House is a built-property listing as stored in the `houses` table. It
// shares the plot fields and adds building attributes.
type House struct {
	ID               uint64         `json:"id"`
	Title            string         `json:"title"`
	Location         string         `json:"location"`
	Size             float64        `json:"size"`
	SizeUnit         string         `json:"size_unit"`
	Price            float64        `json:"price"`
	Currency         string         `json:"currency"`
	Description      string         `json:"description"`
	Type             PropertyType   `json:"type"`
	Bedrooms         int            `json:"bedrooms"`
	Bathrooms        int            `json:"bathrooms"`
	YearBuilt        int            `json:"year_built"`
	Floors           int            `json:"floors"`
	Status           PropertyStatus `json:"status"`
	FeaturedImageURL string         `json:"featured_image_url"`
	VideoURL         string         `json:"video_url"`
	Images           []Image        `json:"images,omitempty"`
	Features         []Feature      `json:"features,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}
