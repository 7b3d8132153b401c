package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourbook/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListFilter narrows a booking listing; nil fields are ignored
type ListFilter struct {
	UserID   *uuid.UUID
	GuideID  *uuid.UUID
	TourID   *uuid.UUID
	Status   *Status
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Limit    int
}

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*Booking, error)
	// UpdateStatus writes fields only while the booking is still in status from
	UpdateStatus(ctx context.Context, id uuid.UUID, from Status, fields map[string]interface{}) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	List(ctx context.Context, filter ListFilter) ([]Booking, int64, error)
	// ListPayable returns the guide's completed, paid bookings not yet in a payout
	ListPayable(ctx context.Context, guideID uuid.UUID) ([]Booking, error)
	// AssignPayout links bookings that are still unassigned and reports how many were linked
	AssignPayout(ctx context.Context, bookingIDs []uuid.UUID, payoutID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	if err := database.Conn(ctx, r.db).Omit("Tour").Create(booking).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*Booking, error) {
	return r.first(ctx, "payment_intent_id = ?", paymentIntentID)
}

func (r *repository) first(ctx context.Context, query string, args ...interface{}) (*Booking, error) {
	var booking Booking
	err := database.Conn(ctx, r.db).Preload("Tour").Where(query, args...).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	return &booking, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from Status, fields map[string]interface{}) error {
	res := database.Conn(ctx, r.db).Model(&Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update booking status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := database.Conn(ctx, r.db).Model(&Booking{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update booking: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Booking, int64, error) {
	q := database.Conn(ctx, r.db).Model(&Booking{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.GuideID != nil {
		q = q.Where("guide_id = ?", *filter.GuideID)
	}
	if filter.TourID != nil {
		q = q.Where("tour_id = ?", *filter.TourID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.DateFrom != nil {
		q = q.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("date <= ?", *filter.DateTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var list []Booking
	err := q.Preload("Tour").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return list, total, nil
}

func (r *repository) ListPayable(ctx context.Context, guideID uuid.UUID) ([]Booking, error) {
	var list []Booking
	err := database.Conn(ctx, r.db).
		Where("guide_id = ? AND status = ? AND payment_status = ? AND payout_id IS NULL", guideID, StatusCompleted, PaymentPaid).
		Order("date ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payable bookings: %w", err)
	}
	return list, nil
}

func (r *repository) AssignPayout(ctx context.Context, bookingIDs []uuid.UUID, payoutID uuid.UUID) (int64, error) {
	if len(bookingIDs) == 0 {
		return 0, nil
	}
	res := database.Conn(ctx, r.db).Model(&Booking{}).
		Where("id IN ? AND payout_id IS NULL", bookingIDs).
		Update("payout_id", payoutID)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to assign payout: %w", res.Error)
	}
	return res.RowsAffected, nil
}
