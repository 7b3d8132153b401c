package availability

import (
	"context"
	"fmt"

	"tourbook/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ledger moves slot capacity. Both operations are single conditional
// statements, so concurrent callers cannot oversell a slot; they join the
// caller's transaction when ctx carries one.
type Ledger interface {
	Reserve(ctx context.Context, slotID uuid.UUID, guests int) error
	Release(ctx context.Context, slotID uuid.UUID, guests int) error
}

type ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) Ledger {
	return &ledger{db: db}
}

func (l *ledger) Reserve(ctx context.Context, slotID uuid.UUID, guests int) error {
	if guests < 1 {
		return ErrInvalidGuests
	}

	result := database.Conn(ctx, l.db).Model(&Slot{}).
		Where("id = ? AND booked_spots + ? <= available_spots", slotID, guests).
		Updates(map[string]interface{}{
			"booked_spots": gorm.Expr("booked_spots + ?", guests),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to reserve slot capacity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return l.missOrFull(ctx, slotID)
	}
	return nil
}

func (l *ledger) Release(ctx context.Context, slotID uuid.UUID, guests int) error {
	if guests < 1 {
		return ErrInvalidGuests
	}

	result := database.Conn(ctx, l.db).Model(&Slot{}).
		Where("id = ?", slotID).
		Updates(map[string]interface{}{
			"booked_spots": gorm.Expr("CASE WHEN booked_spots > ? THEN booked_spots - ? ELSE 0 END", guests, guests),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to release slot capacity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// missOrFull explains a reservation that matched no row
func (l *ledger) missOrFull(ctx context.Context, slotID uuid.UUID) error {
	var count int64
	if err := database.Conn(ctx, l.db).Model(&Slot{}).Where("id = ?", slotID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check slot: %w", err)
	}
	if count == 0 {
		return ErrSlotNotFound
	}
	return ErrInsufficientCapacity
}
