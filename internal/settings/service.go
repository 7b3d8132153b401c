package settings

import (
	"context"
	"strconv"

	"tourbook/internal/pricing"
)

// CommissionSource hands out the platform commission rate. Every call hits
// the store so a rate change applies to the very next booking.
type CommissionSource interface {
	CommissionRate(ctx context.Context) (float64, error)
}

type Service interface {
	CommissionSource
	GetCommission(ctx context.Context) (*CommissionResponse, error)
	SetCommission(ctx context.Context, rate float64) (*CommissionResponse, error)
}

type service struct {
	repo        Repository
	defaultRate float64
}

func NewService(repo Repository, defaultRate float64) Service {
	return &service{repo: repo, defaultRate: defaultRate}
}

func (s *service) CommissionRate(ctx context.Context) (float64, error) {
	resp, err := s.GetCommission(ctx)
	if err != nil {
		return 0, err
	}
	return resp.Rate, nil
}

func (s *service) GetCommission(ctx context.Context) (*CommissionResponse, error) {
	setting, err := s.repo.Get(ctx, KeyCommissionRate)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return &CommissionResponse{Rate: s.defaultRate, IsDefault: true}, nil
	}

	rate, err := parseRate(setting.Value)
	if err != nil {
		return nil, err
	}
	updatedAt := setting.UpdatedAt
	return &CommissionResponse{Rate: rate, UpdatedAt: &updatedAt}, nil
}

func (s *service) SetCommission(ctx context.Context, rate float64) (*CommissionResponse, error) {
	if err := pricing.ValidateCommissionRate(rate); err != nil {
		return nil, err
	}

	setting, err := s.repo.Set(ctx, KeyCommissionRate, strconv.FormatFloat(rate, 'f', -1, 64))
	if err != nil {
		return nil, err
	}
	updatedAt := setting.UpdatedAt
	return &CommissionResponse{Rate: rate, UpdatedAt: &updatedAt}, nil
}
