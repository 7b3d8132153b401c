package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType names a booking lifecycle event
type EventType string

const (
	EventBookingCreated       EventType = "booking.created"
	EventBookingConfirmed     EventType = "booking.confirmed"
	EventBookingCompleted     EventType = "booking.completed"
	EventBookingCancelled     EventType = "booking.cancelled"
	EventBookingPaymentFailed EventType = "booking.payment_failed"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventBookingCreated, EventBookingConfirmed, EventBookingCompleted,
		EventBookingCancelled, EventBookingPaymentFailed:
		return true
	}
	return false
}

// BookingEvent is the message published for every booking creation and
// status change. Messages for one booking share a partition key.
type BookingEvent struct {
	ID            uuid.UUID `json:"id"`
	Type          EventType `json:"type"`
	BookingID     uuid.UUID `json:"booking_id"`
	UserID        uuid.UUID `json:"user_id"`
	TourID        uuid.UUID `json:"tour_id"`
	GuideID       uuid.UUID `json:"guide_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Date          string    `json:"date"`
	Guests        int       `json:"guests"`
	TotalPrice    float64   `json:"total_price"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType EventType, bookingID uuid.UUID) BookingEvent {
	return BookingEvent{
		ID:         uuid.New(),
		Type:       eventType,
		BookingID:  bookingID,
		OccurredAt: time.Now().UTC(),
	}
}

func (e *BookingEvent) PartitionKey() string {
	return e.BookingID.String()
}

func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ParseBookingEvent(data []byte) (BookingEvent, error) {
	var event BookingEvent
	err := json.Unmarshal(data, &event)
	return event, err
}
