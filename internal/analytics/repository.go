package analytics

import (
	"context"
	"fmt"

	"tourbook/internal/bookings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// BookingStats aggregates every booking, or one guide's when guideID is set
	BookingStats(ctx context.Context, guideID *uuid.UUID) (*BookingStats, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) bookings(ctx context.Context, guideID *uuid.UUID) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&bookings.Booking{})
	if guideID != nil {
		q = q.Where("guide_id = ?", *guideID)
	}
	return q
}

func (r *repository) BookingStats(ctx context.Context, guideID *uuid.UUID) (*BookingStats, error) {
	stats := &BookingStats{ByStatus: map[string]int64{}}

	var counts []groupCount
	err := r.bookings(ctx, guideID).
		Select("status AS name, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings by status: %w", err)
	}
	for _, s := range []bookings.Status{bookings.StatusPending, bookings.StatusConfirmed, bookings.StatusCompleted, bookings.StatusCancelled} {
		stats.ByStatus[string(s)] = 0
	}
	for _, c := range counts {
		stats.ByStatus[c.Name] = c.Count
		stats.TotalBookings += c.Count
	}

	var money moneyTotals
	err = r.bookings(ctx, guideID).
		Select("COALESCE(SUM(subtotal), 0) AS gross, COALESCE(SUM(commission_amount), 0) AS commission, COALESCE(SUM(guide_earnings), 0) AS earnings").
		Where("payment_status = ? AND status <> ?", bookings.PaymentPaid, bookings.StatusCancelled).
		Scan(&money).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	stats.GrossRevenue = money.Gross
	stats.CommissionTotal = money.Commission
	stats.GuideEarnings = money.Earnings

	err = r.bookings(ctx, guideID).
		Select("COALESCE(SUM(guide_earnings), 0)").
		Where("status = ? AND payment_status = ? AND payout_id IS NULL", bookings.StatusCompleted, bookings.PaymentPaid).
		Scan(&stats.UnpaidEarnings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum unpaid earnings: %w", err)
	}

	return stats, nil
}
