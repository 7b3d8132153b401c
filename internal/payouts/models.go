package payouts

import (
	"time"

	"tourbook/internal/shared/utils/response"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// CommissionPayout settles a guide's earnings for a batch of completed,
// paid bookings. Amount is what the guide receives.
type CommissionPayout struct {
	ID              uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	GuideID         uuid.UUID  `json:"guide_id" gorm:"type:uuid;not null;index"`
	Amount          float64    `json:"amount" gorm:"not null"`
	CommissionTotal float64    `json:"commission_total" gorm:"not null"`
	GrossTotal      float64    `json:"gross_total" gorm:"not null"`
	BookingCount    int        `json:"booking_count" gorm:"not null"`
	Status          Status     `json:"status" gorm:"type:varchar(16);not null;default:'pending';index"`
	CreatedBy       uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (CommissionPayout) TableName() string {
	return "commission_payouts"
}

func (p *CommissionPayout) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = StatusPending
	}
	return nil
}

type CreatePayoutRequest struct {
	GuideID uuid.UUID `json:"guide_id" validate:"required"`
}

type ListQuery struct {
	Page    int    `form:"page"`
	Limit   int    `form:"limit"`
	Status  string `form:"status"`
	GuideID string `form:"guide_id"`
}

type PayoutListResponse struct {
	Payouts    []CommissionPayout  `json:"payouts"`
	Pagination response.Pagination `json:"pagination"`
}
