package payments

import (
	"context"
	"errors"
	"fmt"

	"tourbook/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrEventNotFound = errors.New("payment event not found")

type Repository interface {
	// Claim inserts the event row and reports false when it already exists
	Claim(ctx context.Context, event *ProcessedPaymentEvent) (bool, error)
	RecordOutcome(ctx context.Context, eventID string, bookingID *uuid.UUID, outcome string) error
	GetByEventID(ctx context.Context, eventID string) (*ProcessedPaymentEvent, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Claim(ctx context.Context, event *ProcessedPaymentEvent) (bool, error) {
	result := database.Conn(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(event)
	if result.Error != nil {
		return false, fmt.Errorf("failed to claim payment event: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) RecordOutcome(ctx context.Context, eventID string, bookingID *uuid.UUID, outcome string) error {
	fields := map[string]interface{}{"outcome": outcome}
	if bookingID != nil {
		fields["booking_id"] = *bookingID
	}
	err := database.Conn(ctx, r.db).
		Model(&ProcessedPaymentEvent{}).
		Where("event_id = ?", eventID).
		Updates(fields).Error
	if err != nil {
		return fmt.Errorf("failed to record payment event outcome: %w", err)
	}
	return nil
}

func (r *repository) GetByEventID(ctx context.Context, eventID string) (*ProcessedPaymentEvent, error) {
	var event ProcessedPaymentEvent
	err := database.Conn(ctx, r.db).Where("event_id = ?", eventID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}
