package bookings

import (
	"time"

	"tourbook/internal/shared/utils/response"

	"github.com/google/uuid"
)

// TourSummary is the slice of the tour shown next to a booking
type TourSummary struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Location string    `json:"location"`
	GuideID  uuid.UUID `json:"guide_id"`
}

type BookingResponse struct {
	ID               uuid.UUID     `json:"id"`
	UserID           uuid.UUID     `json:"user_id"`
	TourID           uuid.UUID     `json:"tour_id"`
	GuideID          uuid.UUID     `json:"guide_id"`
	AvailabilityID   *uuid.UUID    `json:"availability_id,omitempty"`
	Date             string        `json:"date"`
	Guests           int           `json:"guests"`
	Subtotal         float64       `json:"subtotal"`
	CommissionRate   float64       `json:"commission_rate"`
	CommissionAmount float64       `json:"commission_amount"`
	GuideEarnings    float64       `json:"guide_earnings"`
	TotalPrice       float64       `json:"total_price"`
	Status           Status        `json:"status"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	CancelReason     *string       `json:"cancel_reason,omitempty"`
	CancelledBy      *uuid.UUID    `json:"cancelled_by,omitempty"`
	CancelledAt      *time.Time    `json:"cancelled_at,omitempty"`
	CompletedAt      *time.Time    `json:"completed_at,omitempty"`
	PayoutID         *uuid.UUID    `json:"payout_id,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	Tour             *TourSummary  `json:"tour,omitempty"`
}

type BookingListResponse struct {
	Bookings   []BookingResponse   `json:"bookings"`
	Pagination response.Pagination `json:"pagination"`
}

func ToBookingResponse(b *Booking) BookingResponse {
	resp := BookingResponse{
		ID:               b.ID,
		UserID:           b.UserID,
		TourID:           b.TourID,
		GuideID:          b.GuideID,
		AvailabilityID:   b.AvailabilityID,
		Date:             b.Date.Format(dateLayout),
		Guests:           b.Guests,
		Subtotal:         b.Subtotal,
		CommissionRate:   b.CommissionRate,
		CommissionAmount: b.CommissionAmount,
		GuideEarnings:    b.GuideEarnings,
		TotalPrice:       b.TotalPrice,
		Status:           b.Status,
		PaymentStatus:    b.PaymentStatus,
		CancelReason:     b.CancelReason,
		CancelledBy:      b.CancelledBy,
		CancelledAt:      b.CancelledAt,
		CompletedAt:      b.CompletedAt,
		PayoutID:         b.PayoutID,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
	if b.Tour != nil {
		resp.Tour = &TourSummary{
			ID:       b.Tour.ID,
			Title:    b.Tour.Title,
			Location: b.Tour.Location,
			GuideID:  b.Tour.GuideID,
		}
	}
	return resp
}

func toBookingResponses(list []Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(list))
	for i := range list {
		out = append(out, ToBookingResponse(&list[i]))
	}
	return out
}
