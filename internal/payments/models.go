package payments

import (
	"time"

	"github.com/google/uuid"
)

// ProcessedPaymentEvent marks a processor event as applied. The row is
// written in the same transaction as the booking changes it caused.
type ProcessedPaymentEvent struct {
	EventID     string     `json:"event_id" gorm:"primaryKey;size:255"`
	EventType   string     `json:"event_type" gorm:"size:100;not null"`
	BookingID   *uuid.UUID `json:"booking_id,omitempty" gorm:"type:uuid;index"`
	Outcome     string     `json:"outcome" gorm:"size:50"`
	ProcessedAt time.Time  `json:"processed_at" gorm:"not null"`
}

func (ProcessedPaymentEvent) TableName() string {
	return "processed_payment_events"
}
