package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"tourbook/internal/shared/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Get returns nil when the key is unset
	Get(ctx context.Context, key string) (*PlatformSetting, error)
	Set(ctx context.Context, key, value string) (*PlatformSetting, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, key string) (*PlatformSetting, error) {
	var setting PlatformSetting
	err := database.Conn(ctx, r.db).Where("key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load setting %s: %w", key, err)
	}
	return &setting, nil
}

func (r *repository) Set(ctx context.Context, key, value string) (*PlatformSetting, error) {
	setting := &PlatformSetting{Key: key, Value: value}
	err := database.Conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return setting, nil
}

func parseRate(value string) (float64, error) {
	rate, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("stored commission rate %q is not a number: %w", value, err)
	}
	return rate, nil
}
