package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourbook/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, slot *Slot) error
	GetByID(ctx context.Context, id uuid.UUID) (*Slot, error)
	ListByTour(ctx context.Context, tourID uuid.UUID, from time.Time) ([]Slot, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// MaxAvailableSpots is the largest slot size offered for the tour, 0 without slots
	MaxAvailableSpots(ctx context.Context, tourID uuid.UUID) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, slot *Slot) error {
	return database.Conn(ctx, r.db).Create(slot).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Slot, error) {
	var slot Slot
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to load slot: %w", err)
	}
	return &slot, nil
}

func (r *repository) ListByTour(ctx context.Context, tourID uuid.UUID, from time.Time) ([]Slot, error) {
	var slots []Slot
	err := database.Conn(ctx, r.db).
		Where("tour_id = ? AND date >= ?", tourID, from).
		Order("date ASC, start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}

// Delete removes the slot row; bookings keep their reference to it
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := database.Conn(ctx, r.db).Where("id = ?", id).Delete(&Slot{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete slot: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSlotNotFound
	}
	return nil
}

func (r *repository) MaxAvailableSpots(ctx context.Context, tourID uuid.UUID) (int, error) {
	var largest int
	err := database.Conn(ctx, r.db).Model(&Slot{}).
		Where("tour_id = ?", tourID).
		Select("COALESCE(MAX(available_spots), 0)").
		Scan(&largest).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read slot sizes: %w", err)
	}
	return largest, nil
}
