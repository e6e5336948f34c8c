// Package queue defines message payloads exchanged over the message broker.
package queue

// InquiryReceivedEvent is published when a visitor submits the contact
// form. It carries enough for downstream consumers to log or notify
// agents without querying the primary database.
type InquiryReceivedEvent struct {
	InquiryID    uint64  `json:"inquiry_id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Message      string  `json:"message"`
	PlotID       *uint64 `json:"plot_id,omitempty"`
	PropertyName string  `json:"property_name,omitempty"`
	ReceivedAt   string  `json:"received_at"`
}
