package model

import "time"

// Inquiry statuses. Inquiries arrive as NEW and are moved along by staff.
const (
	InquiryStatusNew      = "NEW"
	InquiryStatusRead     = "READ"
	InquiryStatusArchived = "ARCHIVED"
)

// Inquiry is a contact request submitted from the public site, optionally
// bound to a specific plot.
type Inquiry struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	PlotID    *uint64   `json:"plot_id,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
