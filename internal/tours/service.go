package tours

import (
	"context"
	"fmt"
	"strings"

	"tourbook/internal/shared/apperrors"
	"tourbook/internal/shared/constants"
	"tourbook/internal/shared/utils/response"
	"tourbook/internal/users"
	"tourbook/pkg/cache"
	"tourbook/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrTourNotFound        = apperrors.NotFound("tour not found")
	ErrNotTourOwner        = apperrors.Forbidden("you do not own this tour")
	ErrGuideNotApproved    = apperrors.Forbidden("guide account is not approved yet")
	ErrInvalidPrice        = apperrors.Validation("min_price cannot exceed max_price")
	ErrGroupSizeBelowSlots = apperrors.Validation("max_group_size cannot be lower than an existing slot's available spots")
)

// GuideApproval answers whether a guide may publish tours
type GuideApproval interface {
	IsApproved(ctx context.Context, userID uuid.UUID) (bool, error)
}

// SlotCapacity reports the largest slot already offered for a tour
type SlotCapacity interface {
	MaxAvailableSpots(ctx context.Context, tourID uuid.UUID) (int, error)
}

type Service interface {
	Create(ctx context.Context, actor users.Actor, req *CreateTourRequest) (*TourResponse, error)
	Update(ctx context.Context, actor users.Actor, id uuid.UUID, req *UpdateTourRequest) (*TourResponse, error)
	Deactivate(ctx context.Context, actor users.Actor, id uuid.UUID) error
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*TourResponse, error)

	// GetPublic returns an active tour from the cache-backed catalogue
	GetPublic(ctx context.Context, id uuid.UUID) (*TourResponse, error)
	List(ctx context.Context, query TourListQuery) (*TourListResponse, error)
	ListByGuide(ctx context.Context, guideID uuid.UUID) ([]TourResponse, error)

	// Get loads a tour in any state, bypassing the cache
	Get(ctx context.Context, id uuid.UUID) (*Tour, error)
	// AuthorizeManage loads a tour the actor may manage (owner guide or admin)
	AuthorizeManage(ctx context.Context, actor users.Actor, id uuid.UUID) (*Tour, error)
}

type service struct {
	repo     Repository
	approval GuideApproval
	slots    SlotCapacity
	cache    cache.Service
	log      *logger.Logger
}

func NewService(repo Repository, approval GuideApproval, slots SlotCapacity, cacheService cache.Service) Service {
	if cacheService == nil {
		cacheService = cache.NewService(nil)
	}
	return &service{
		repo:     repo,
		approval: approval,
		slots:    slots,
		cache:    cacheService,
		log:      logger.GetDefault(),
	}
}

func (s *service) Create(ctx context.Context, actor users.Actor, req *CreateTourRequest) (*TourResponse, error) {
	switch actor.Role {
	case users.RoleAdmin:
	case users.RoleGuide:
		approved, err := s.approval.IsApproved(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if !approved {
			return nil, ErrGuideNotApproved
		}
	case users.RoleUser:
		return nil, ErrNotTourOwner
	default:
		return nil, ErrNotTourOwner
	}

	tour := &Tour{
		GuideID:       actor.ID,
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Location:      strings.TrimSpace(req.Location),
		DurationHours: req.DurationHours,
		Price:         req.Price,
		MaxGroupSize:  req.MaxGroupSize,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, tour); err != nil {
		return nil, fmt.Errorf("failed to create tour: %w", err)
	}

	s.invalidate(ctx, nil)
	s.log.InfoWithContext(ctx, "Tour Created", map[string]interface{}{
		"tour_id":  tour.ID.String(),
		"guide_id": tour.GuideID.String(),
	})

	resp := ToTourResponse(tour)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, actor users.Actor, id uuid.UUID, req *UpdateTourRequest) (*TourResponse, error) {
	tour, err := s.AuthorizeManage(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		tour.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		tour.Description = *req.Description
	}
	if req.Location != nil {
		tour.Location = strings.TrimSpace(*req.Location)
	}
	if req.DurationHours != nil {
		tour.DurationHours = *req.DurationHours
	}
	if req.Price != nil {
		tour.Price = *req.Price
	}
	if req.MaxGroupSize != nil {
		if *req.MaxGroupSize < tour.MaxGroupSize && s.slots != nil {
			largest, err := s.slots.MaxAvailableSpots(ctx, tour.ID)
			if err != nil {
				return nil, err
			}
			if *req.MaxGroupSize < largest {
				return nil, ErrGroupSizeBelowSlots
			}
		}
		tour.MaxGroupSize = *req.MaxGroupSize
	}
	if req.IsActive != nil {
		tour.IsActive = *req.IsActive
	}

	if err := s.repo.Save(ctx, tour); err != nil {
		return nil, fmt.Errorf("failed to update tour: %w", err)
	}
	s.invalidate(ctx, &id)

	resp := ToTourResponse(tour)
	return &resp, nil
}

func (s *service) Deactivate(ctx context.Context, actor users.Actor, id uuid.UUID) error {
	if _, err := s.AuthorizeManage(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.invalidate(ctx, &id)
	return nil
}

func (s *service) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*TourResponse, error) {
	if err := s.repo.SetFeatured(ctx, id, featured); err != nil {
		return nil, err
	}
	s.invalidate(ctx, &id)

	tour, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTourResponse(tour)
	return &resp, nil
}

func (s *service) GetPublic(ctx context.Context, id uuid.UUID) (*TourResponse, error) {
	var resp TourResponse
	err := s.cache.GetOrSet(ctx, constants.BuildTourDetailKey(id.String()), constants.TTL_TOUR_DETAIL, func() (interface{}, error) {
		tour, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !tour.IsActive {
			return nil, ErrTourNotFound
		}
		return ToTourResponse(tour), nil
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *service) List(ctx context.Context, query TourListQuery) (*TourListResponse, error) {
	if query.MinPrice != nil && query.MaxPrice != nil && *query.MinPrice > *query.MaxPrice {
		return nil, ErrInvalidPrice
	}
	query.Page, query.Limit = response.NormalizePage(query.Page, query.Limit)

	var resp TourListResponse
	err := s.cache.GetOrSet(ctx, listCacheKey(query), constants.TTL_TOUR_LIST, func() (interface{}, error) {
		list, total, err := s.repo.ListActive(ctx, query)
		if err != nil {
			return nil, err
		}
		return TourListResponse{
			Tours:      toTourResponses(list),
			Pagination: response.NewPagination(query.Page, query.Limit, total),
		}, nil
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *service) ListByGuide(ctx context.Context, guideID uuid.UUID) ([]TourResponse, error) {
	list, err := s.repo.ListByGuide(ctx, guideID)
	if err != nil {
		return nil, err
	}
	return toTourResponses(list), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Tour, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) AuthorizeManage(ctx context.Context, actor users.Actor, id uuid.UUID) (*Tour, error) {
	tour, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case users.RoleAdmin:
		return tour, nil
	case users.RoleGuide:
		if tour.IsOwnedBy(actor.ID) {
			return tour, nil
		}
		return nil, ErrNotTourOwner
	case users.RoleUser:
		return nil, ErrNotTourOwner
	default:
		return nil, ErrNotTourOwner
	}
}

// invalidate drops listing pages and, when given, one tour's detail entry
func (s *service) invalidate(ctx context.Context, id *uuid.UUID) {
	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_TOURS_LIST); err != nil {
		s.log.WarnWithContext(ctx, "Failed to invalidate tour listings", map[string]interface{}{"error": err.Error()})
	}
	if id != nil {
		if err := s.cache.Delete(ctx, constants.BuildTourDetailKey(id.String())); err != nil {
			s.log.WarnWithContext(ctx, "Failed to invalidate tour detail", map[string]interface{}{"error": err.Error()})
		}
	}
}

// listCacheKey folds every filter into the key so distinct queries never share an entry
func listCacheKey(q TourListQuery) string {
	var parts []string
	if q.Search != "" {
		parts = append(parts, "s="+strings.ToLower(strings.TrimSpace(q.Search)))
	}
	if q.Location != "" {
		parts = append(parts, "l="+strings.ToLower(strings.TrimSpace(q.Location)))
	}
	if q.Featured != nil {
		parts = append(parts, fmt.Sprintf("f=%t", *q.Featured))
	}
	if q.MinPrice != nil {
		parts = append(parts, fmt.Sprintf("min=%g", *q.MinPrice))
	}
	if q.MaxPrice != nil {
		parts = append(parts, fmt.Sprintf("max=%g", *q.MaxPrice))
	}
	return constants.BuildTourListKey(q.Page, q.Limit, strings.Join(parts, "&"))
}
