package tours

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tour is a bookable offering owned by one guide
type Tour struct {
	ID            uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	GuideID       uuid.UUID `json:"guide_id" gorm:"type:uuid;not null;index"`
	Title         string    `json:"title" gorm:"size:200;not null"`
	Description   string    `json:"description" gorm:"type:text"`
	Location      string    `json:"location" gorm:"size:200;not null;index"`
	DurationHours float64   `json:"duration_hours" gorm:"not null"`
	Price         float64   `json:"price" gorm:"not null"`
	MaxGroupSize  int       `json:"max_group_size" gorm:"not null"`
	IsActive      bool      `json:"is_active" gorm:"not null;index"`
	IsFeatured    bool      `json:"is_featured" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (t *Tour) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsOwnedBy reports whether guideID owns the tour
func (t *Tour) IsOwnedBy(guideID uuid.UUID) bool {
	return t.GuideID == guideID
}
