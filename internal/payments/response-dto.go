package payments

import "github.com/google/uuid"

type CheckoutResponse struct {
	BookingID uuid.UUID `json:"booking_id"`
	SessionID string    `json:"session_id"`
	URL       string    `json:"url"`
}

type WebhookResponse struct {
	EventID   string     `json:"event_id"`
	EventType string     `json:"event_type"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
	Outcome   string     `json:"outcome"`
	Duplicate bool       `json:"duplicate"`
}
