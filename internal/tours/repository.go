package tours

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tourbook/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, tour *Tour) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tour, error)
	Save(ctx context.Context, tour *Tour) error
	ListActive(ctx context.Context, query TourListQuery) ([]Tour, int64, error)
	ListByGuide(ctx context.Context, guideID uuid.UUID) ([]Tour, error)
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	CountActive(ctx context.Context, guideID *uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, tour *Tour) error {
	return database.Conn(ctx, r.db).Create(tour).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Tour, error) {
	var tour Tour
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&tour).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, fmt.Errorf("failed to load tour: %w", err)
	}
	return &tour, nil
}

func (r *repository) Save(ctx context.Context, tour *Tour) error {
	return database.Conn(ctx, r.db).Save(tour).Error
}

func (r *repository) ListActive(ctx context.Context, query TourListQuery) ([]Tour, int64, error) {
	var list []Tour
	var total int64

	q := r.applyFilters(database.Conn(ctx, r.db).Model(&Tour{}).Where("is_active = ?", true), query)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tours: %w", err)
	}

	err := q.Order("is_featured DESC, created_at DESC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tours: %w", err)
	}
	return list, total, nil
}

func (r *repository) applyFilters(q *gorm.DB, query TourListQuery) *gorm.DB {
	if s := strings.TrimSpace(query.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}
	if loc := strings.TrimSpace(query.Location); loc != "" {
		q = q.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(loc)+"%")
	}
	if query.Featured != nil {
		q = q.Where("is_featured = ?", *query.Featured)
	}
	if query.MinPrice != nil {
		q = q.Where("price >= ?", *query.MinPrice)
	}
	if query.MaxPrice != nil {
		q = q.Where("price <= ?", *query.MaxPrice)
	}
	return q
}

func (r *repository) ListByGuide(ctx context.Context, guideID uuid.UUID) ([]Tour, error) {
	var list []Tour
	err := database.Conn(ctx, r.db).Where("guide_id = ?", guideID).Order("created_at DESC").Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list guide tours: %w", err)
	}
	return list, nil
}

func (r *repository) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	return r.updateFlag(ctx, id, "is_featured", featured)
}

func (r *repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.updateFlag(ctx, id, "is_active", active)
}

func (r *repository) updateFlag(ctx context.Context, id uuid.UUID, column string, value bool) error {
	result := database.Conn(ctx, r.db).Model(&Tour{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return fmt.Errorf("failed to update tour %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTourNotFound
	}
	return nil
}

func (r *repository) CountActive(ctx context.Context, guideID *uuid.UUID) (int64, error) {
	var count int64
	q := database.Conn(ctx, r.db).Model(&Tour{}).Where("is_active = ?", true)
	if guideID != nil {
		q = q.Where("guide_id = ?", *guideID)
	}
	err := q.Count(&count).Error
	return count, err
}
