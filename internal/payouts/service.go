package payouts

import (
	"context"
	"time"

	"tourbook/internal/bookings"
	"tourbook/internal/pricing"
	"tourbook/internal/shared/apperrors"
	"tourbook/internal/shared/constants"
	"tourbook/internal/shared/database"
	"tourbook/internal/shared/utils/response"
	"tourbook/internal/users"
	"tourbook/pkg/cache"
	"tourbook/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrPayoutNotFound = apperrors.NotFound("payout not found")
	ErrNothingToPay   = apperrors.Validation("guide has no completed, paid bookings awaiting payout")
	ErrAlreadyPaid    = apperrors.Conflict("payout is already marked paid")
	ErrPayoutRace     = apperrors.Conflict("bookings were assigned to another payout, retry")
	ErrInvalidStatus  = apperrors.Validation("status must be pending or paid")
	ErrInvalidGuideID = apperrors.Validation("guide_id must be a UUID")
)

// PayableBookings is the slice of the booking store payouts need
type PayableBookings interface {
	ListPayable(ctx context.Context, guideID uuid.UUID) ([]bookings.Booking, error)
	AssignPayout(ctx context.Context, bookingIDs []uuid.UUID, payoutID uuid.UUID) (int64, error)
}

type Service interface {
	Create(ctx context.Context, admin users.Actor, req *CreatePayoutRequest) (*CommissionPayout, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*CommissionPayout, error)
	List(ctx context.Context, query ListQuery) (*PayoutListResponse, error)
	ListForGuide(ctx context.Context, guideID uuid.UUID, query ListQuery) (*PayoutListResponse, error)
}

type service struct {
	repo     Repository
	bookings PayableBookings
	tx       database.Transactor
	cache    cache.Service
	log      *logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, payable PayableBookings, tx database.Transactor, cacheService cache.Service) Service {
	if cacheService == nil {
		cacheService = cache.NewService(nil)
	}
	return &service{
		repo:     repo,
		bookings: payable,
		tx:       tx,
		cache:    cacheService,
		log:      logger.GetDefault(),
		now:      time.Now,
	}
}

// Create batches every payable booking of the guide into one pending payout
func (s *service) Create(ctx context.Context, admin users.Actor, req *CreatePayoutRequest) (*CommissionPayout, error) {
	var payout *CommissionPayout

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		payable, err := s.bookings.ListPayable(ctx, req.GuideID)
		if err != nil {
			return err
		}
		if len(payable) == 0 {
			return ErrNothingToPay
		}

		payout = &CommissionPayout{GuideID: req.GuideID, CreatedBy: admin.ID, BookingCount: len(payable)}
		ids := make([]uuid.UUID, 0, len(payable))
		for _, b := range payable {
			payout.Amount += b.GuideEarnings
			payout.CommissionTotal += b.CommissionAmount
			payout.GrossTotal += b.Subtotal
			ids = append(ids, b.ID)
		}
		payout.Amount = pricing.RoundCents(payout.Amount)
		payout.CommissionTotal = pricing.RoundCents(payout.CommissionTotal)
		payout.GrossTotal = pricing.RoundCents(payout.GrossTotal)

		if err := s.repo.Create(ctx, payout); err != nil {
			return err
		}
		linked, err := s.bookings.AssignPayout(ctx, ids, payout.ID)
		if err != nil {
			return err
		}
		if linked != int64(len(ids)) {
			return ErrPayoutRace
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoWithContext(ctx, "Payout created", map[string]interface{}{
		"payout_id": payout.ID.String(),
		"guide_id":  payout.GuideID.String(),
		"amount":    payout.Amount,
		"bookings":  payout.BookingCount,
	})
	s.invalidateStats(ctx)
	return payout, nil
}

func (s *service) MarkPaid(ctx context.Context, id uuid.UUID) (*CommissionPayout, error) {
	if err := s.repo.MarkPaid(ctx, id, s.now().UTC()); err != nil {
		return nil, err
	}
	s.log.InfoWithContext(ctx, "Payout marked paid", map[string]interface{}{"payout_id": id.String()})
	s.invalidateStats(ctx)
	return s.repo.GetByID(ctx, id)
}

// platform stats report unpaid guide earnings
func (s *service) invalidateStats(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_ANALYTICS); err != nil {
		s.log.WarnWithContext(ctx, "Failed to invalidate stats cache", map[string]interface{}{"error": err.Error()})
	}
}

func (s *service) List(ctx context.Context, query ListQuery) (*PayoutListResponse, error) {
	filter, err := toFilter(query)
	if err != nil {
		return nil, err
	}
	if query.GuideID != "" {
		guideID, err := uuid.Parse(query.GuideID)
		if err != nil {
			return nil, ErrInvalidGuideID
		}
		filter.GuideID = &guideID
	}
	return s.list(ctx, filter)
}

func (s *service) ListForGuide(ctx context.Context, guideID uuid.UUID, query ListQuery) (*PayoutListResponse, error) {
	filter, err := toFilter(query)
	if err != nil {
		return nil, err
	}
	filter.GuideID = &guideID
	return s.list(ctx, filter)
}

func (s *service) list(ctx context.Context, filter ListFilter) (*PayoutListResponse, error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []CommissionPayout{}
	}
	return &PayoutListResponse{
		Payouts:    list,
		Pagination: response.NewPagination(filter.Page, filter.Limit, total),
	}, nil
}

func toFilter(query ListQuery) (ListFilter, error) {
	filter := ListFilter{}
	filter.Page, filter.Limit = response.NormalizePage(query.Page, query.Limit)
	if query.Status != "" {
		status := Status(query.Status)
		if status != StatusPending && status != StatusPaid {
			return filter, ErrInvalidStatus
		}
		filter.Status = &status
	}
	return filter, nil
}
