package availability

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Slot is a bookable date of a tour with finite capacity.
// 0 <= BookedSpots <= AvailableSpots holds after every write.
type Slot struct {
	ID             uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	TourID         uuid.UUID `json:"tour_id" gorm:"type:uuid;not null;index:idx_slots_tour_date"`
	Date           time.Time `json:"date" gorm:"type:date;not null;index:idx_slots_tour_date"`
	StartTime      *string   `json:"start_time,omitempty" gorm:"size:5"`
	AvailableSpots int       `json:"available_spots" gorm:"not null"`
	BookedSpots    int       `json:"booked_spots" gorm:"not null;default:0"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Slot) TableName() string {
	return "availability_slots"
}

func (s *Slot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Remaining is the number of spots still free
func (s *Slot) Remaining() int {
	if r := s.AvailableSpots - s.BookedSpots; r > 0 {
		return r
	}
	return 0
}

type CreateSlotRequest struct {
	Date           string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime      *string `json:"start_time" validate:"omitempty,datetime=15:04"`
	AvailableSpots int     `json:"available_spots" validate:"required,min=1"`
}

type SlotResponse struct {
	ID             uuid.UUID `json:"id"`
	TourID         uuid.UUID `json:"tour_id"`
	Date           string    `json:"date"`
	StartTime      *string   `json:"start_time,omitempty"`
	AvailableSpots int       `json:"available_spots"`
	BookedSpots    int       `json:"booked_spots"`
	RemainingSpots int       `json:"remaining_spots"`
}

func ToSlotResponse(s *Slot) SlotResponse {
	return SlotResponse{
		ID:             s.ID,
		TourID:         s.TourID,
		Date:           s.Date.Format(dateLayout),
		StartTime:      s.StartTime,
		AvailableSpots: s.AvailableSpots,
		BookedSpots:    s.BookedSpots,
		RemainingSpots: s.Remaining(),
	}
}
