package tours

import (
	"time"

	"tourbook/internal/shared/utils/response"

	"github.com/google/uuid"
)

type TourResponse struct {
	ID            uuid.UUID `json:"id"`
	GuideID       uuid.UUID `json:"guide_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	DurationHours float64   `json:"duration_hours"`
	Price         float64   `json:"price"`
	MaxGroupSize  int       `json:"max_group_size"`
	IsActive      bool      `json:"is_active"`
	IsFeatured    bool      `json:"is_featured"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type TourListResponse struct {
	Tours      []TourResponse      `json:"tours"`
	Pagination response.Pagination `json:"pagination"`
}

func ToTourResponse(t *Tour) TourResponse {
	return TourResponse{
		ID:            t.ID,
		GuideID:       t.GuideID,
		Title:         t.Title,
		Description:   t.Description,
		Location:      t.Location,
		DurationHours: t.DurationHours,
		Price:         t.Price,
		MaxGroupSize:  t.MaxGroupSize,
		IsActive:      t.IsActive,
		IsFeatured:    t.IsFeatured,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toTourResponses(list []Tour) []TourResponse {
	out := make([]TourResponse, 0, len(list))
	for i := range list {
		out = append(out, ToTourResponse(&list[i]))
	}
	return out
}
