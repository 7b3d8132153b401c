package bookings

import (
	"time"

	"tourbook/internal/tours"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CancelReasonPaymentFailed is recorded when the processor reports a failed payment
const CancelReasonPaymentFailed = "payment failed"

// Booking is a reservation of Guests spots on a tour. The pricing columns
// are fixed at creation and never recomputed. Rows are never deleted.
type Booking struct {
	ID             uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	UserID         uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	TourID         uuid.UUID  `json:"tour_id" gorm:"type:uuid;not null;index"`
	GuideID        uuid.UUID  `json:"guide_id" gorm:"type:uuid;not null;index"`
	AvailabilityID *uuid.UUID `json:"availability_id,omitempty" gorm:"type:uuid;index"`
	Date           time.Time  `json:"date" gorm:"type:date;not null"`
	Guests         int        `json:"guests" gorm:"not null"`

	Subtotal         float64 `json:"subtotal" gorm:"not null"`
	CommissionRate   float64 `json:"commission_rate" gorm:"not null"`
	CommissionAmount float64 `json:"commission_amount" gorm:"not null"`
	GuideEarnings    float64 `json:"guide_earnings" gorm:"not null"`
	TotalPrice       float64 `json:"total_price" gorm:"not null"`

	Status            Status        `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus     PaymentStatus `json:"payment_status" gorm:"type:varchar(20);not null;default:'pending'"`
	CheckoutSessionID *string       `json:"checkout_session_id,omitempty" gorm:"size:255;uniqueIndex"`
	PaymentIntentID   *string       `json:"payment_intent_id,omitempty" gorm:"size:255;uniqueIndex"`

	CancelReason *string    `json:"cancel_reason,omitempty" gorm:"size:500"`
	CancelledBy  *uuid.UUID `json:"cancelled_by,omitempty" gorm:"type:uuid"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	PayoutID     *uuid.UUID `json:"payout_id,omitempty" gorm:"type:uuid;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tour *tours.Tour `json:"-" gorm:"foreignKey:TourID"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.UserID == userID
}

// AwaitingPayment reports whether a checkout may still be started
func (b *Booking) AwaitingPayment() bool {
	return b.Status == StatusPending && b.PaymentStatus != PaymentPaid
}
