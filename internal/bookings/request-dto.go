package bookings

import "github.com/google/uuid"

const dateLayout = "2006-01-02"

type CreateBookingRequest struct {
	TourID         uuid.UUID  `json:"tour_id" validate:"required"`
	AvailabilityID *uuid.UUID `json:"availability_id"`
	// Date is required without AvailabilityID; a slot's own date wins otherwise
	Date   string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Guests int    `json:"guests" validate:"required,min=1"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
	Reason string `json:"reason" validate:"max=500"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type ListQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status"`
}

type AdminListQuery struct {
	ListQuery
	TourID   string `form:"tour_id"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}
