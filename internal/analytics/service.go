package analytics

import (
	"context"
	"fmt"

	"tourbook/internal/guides"
	"tourbook/internal/pricing"
	"tourbook/internal/shared/constants"
	"tourbook/internal/users"
	"tourbook/pkg/cache"
	"tourbook/pkg/logger"

	"github.com/google/uuid"
)

// UserCounter is satisfied by the auth repository
type UserCounter interface {
	CountByRole(ctx context.Context) (map[users.Role]int64, error)
}

// GuideCounter is satisfied by the guides repository
type GuideCounter interface {
	CountByStatus(ctx context.Context, status guides.Status) (int64, error)
}

// TourCounter is satisfied by the tours repository
type TourCounter interface {
	CountActive(ctx context.Context, guideID *uuid.UUID) (int64, error)
}

type Service interface {
	GuideStats(ctx context.Context, guideID uuid.UUID) (*GuideStats, error)
	// PlatformStats is served from cache and may lag by up to TTL_PLATFORM_STATS
	PlatformStats(ctx context.Context) (*PlatformStats, error)
}

type service struct {
	repo   Repository
	users  UserCounter
	guides GuideCounter
	tours  TourCounter
	cache  cache.Service
	log    *logger.Logger
}

func NewService(repo Repository, userCounter UserCounter, guideCounter GuideCounter, tourCounter TourCounter, cacheService cache.Service) Service {
	if cacheService == nil {
		cacheService = cache.NewService(nil)
	}
	return &service{
		repo:   repo,
		users:  userCounter,
		guides: guideCounter,
		tours:  tourCounter,
		cache:  cacheService,
		log:    logger.GetDefault(),
	}
}

func (s *service) GuideStats(ctx context.Context, guideID uuid.UUID) (*GuideStats, error) {
	bookingStats, err := s.repo.BookingStats(ctx, &guideID)
	if err != nil {
		return nil, err
	}
	active, err := s.activeTours(ctx, &guideID)
	if err != nil {
		return nil, err
	}
	return &GuideStats{BookingStats: rounded(*bookingStats), ActiveTours: active}, nil
}

func (s *service) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	var stats PlatformStats
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_PLATFORM_STATS, constants.TTL_PLATFORM_STATS, func() (interface{}, error) {
		return s.loadPlatformStats(ctx)
	}, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *service) loadPlatformStats(ctx context.Context) (*PlatformStats, error) {
	bookingStats, err := s.repo.BookingStats(ctx, nil)
	if err != nil {
		return nil, err
	}
	byRole, err := s.usersByRole(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.guides.CountByStatus(ctx, guides.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending guides: %w", err)
	}
	active, err := s.activeTours(ctx, nil)
	if err != nil {
		return nil, err
	}

	s.log.DebugWithContext(ctx, "Platform stats recomputed", map[string]interface{}{
		"bookings": bookingStats.TotalBookings,
	})
	return &PlatformStats{
		BookingStats:          rounded(*bookingStats),
		UsersByRole:           byRole,
		PendingGuideApprovals: pending,
		ActiveTours:           active,
	}, nil
}

func (s *service) activeTours(ctx context.Context, guideID *uuid.UUID) (int64, error) {
	count, err := s.tours.CountActive(ctx, guideID)
	if err != nil {
		return 0, fmt.Errorf("failed to count active tours: %w", err)
	}
	return count, nil
}

// usersByRole reports every role, including those with no users yet
func (s *service) usersByRole(ctx context.Context) (map[string]int64, error) {
	counts, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	out := map[string]int64{}
	for _, role := range []users.Role{users.RoleUser, users.RoleGuide, users.RoleAdmin} {
		out[string(role)] = counts[role]
	}
	return out, nil
}

// SQL sums of float columns drift; report whole cents
func rounded(stats BookingStats) BookingStats {
	stats.GrossRevenue = pricing.RoundCents(stats.GrossRevenue)
	stats.CommissionTotal = pricing.RoundCents(stats.CommissionTotal)
	stats.GuideEarnings = pricing.RoundCents(stats.GuideEarnings)
	stats.UnpaidEarnings = pricing.RoundCents(stats.UnpaidEarnings)
	return stats
}
