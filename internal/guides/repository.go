package guides

import (
	"context"
	"errors"
	"fmt"

	"tourbook/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, profile *GuideProfile) error
	GetByID(ctx context.Context, id uuid.UUID) (*GuideProfile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*GuideProfile, error)
	Save(ctx context.Context, profile *GuideProfile) error
	List(ctx context.Context, query ListQuery) ([]GuideProfile, int64, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, profile *GuideProfile) error {
	return database.Conn(ctx, r.db).Create(profile).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*GuideProfile, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*GuideProfile, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *repository) first(ctx context.Context, cond string, arg interface{}) (*GuideProfile, error) {
	var profile GuideProfile
	err := database.Conn(ctx, r.db).Preload("User").Where(cond, arg).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load guide profile: %w", err)
	}
	return &profile, nil
}

func (r *repository) Save(ctx context.Context, profile *GuideProfile) error {
	return database.Conn(ctx, r.db).Omit("User").Save(profile).Error
}

func (r *repository) List(ctx context.Context, query ListQuery) ([]GuideProfile, int64, error) {
	var profiles []GuideProfile
	var total int64

	q := database.Conn(ctx, r.db).Model(&GuideProfile{})
	if query.Status != "" {
		q = q.Where("status = ?", query.Status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count guide profiles: %w", err)
	}

	err := q.Preload("User").
		Order("created_at ASC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list guide profiles: %w", err)
	}
	return profiles, total, nil
}

func (r *repository) CountByStatus(ctx context.Context, status Status) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&GuideProfile{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
