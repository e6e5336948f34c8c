package model

import "time"

// Setting is a key-value row in the `settings` table used for site-wide
// configuration editable from the admin panel.
type Setting struct {
	ID        uint64    `json:"id"`
	Key       string    `json:"key"` // unique, max 100
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
