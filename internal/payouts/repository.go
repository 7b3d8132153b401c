package payouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourbook/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListFilter struct {
	GuideID *uuid.UUID
	Status  *Status
	Page    int
	Limit   int
}

type Repository interface {
	Create(ctx context.Context, payout *CommissionPayout) error
	GetByID(ctx context.Context, id uuid.UUID) (*CommissionPayout, error)
	// MarkPaid flips a pending payout to paid; a payout in any other state is left alone
	MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) error
	List(ctx context.Context, filter ListFilter) ([]CommissionPayout, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, payout *CommissionPayout) error {
	if err := database.Conn(ctx, r.db).Create(payout).Error; err != nil {
		return fmt.Errorf("failed to create payout: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*CommissionPayout, error) {
	var payout CommissionPayout
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&payout).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, fmt.Errorf("failed to load payout: %w", err)
	}
	return &payout, nil
}

func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := database.Conn(ctx, r.db).Model(&CommissionPayout{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]interface{}{"status": StatusPaid, "paid_at": at})
	if res.Error != nil {
		return fmt.Errorf("failed to mark payout paid: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyPaid
	}
	return nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]CommissionPayout, int64, error) {
	q := database.Conn(ctx, r.db).Model(&CommissionPayout{})
	if filter.GuideID != nil {
		q = q.Where("guide_id = ?", *filter.GuideID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payouts: %w", err)
	}

	var list []CommissionPayout
	err := q.Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payouts: %w", err)
	}
	return list, total, nil
}
