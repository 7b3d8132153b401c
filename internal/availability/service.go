package availability

import (
	"context"
	"fmt"
	"time"

	"tourbook/internal/shared/apperrors"
	"tourbook/internal/tours"
	"tourbook/internal/users"
	"tourbook/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrSlotNotFound         = apperrors.NotFound("availability slot not found")
	ErrInsufficientCapacity = apperrors.Validation("not enough spots left on this date")
	ErrInvalidGuests        = apperrors.Validation("guests must be at least 1")
	ErrSlotNotInTour        = apperrors.Validation("availability slot does not belong to this tour")
	ErrSpotsExceedGroupSize = apperrors.Validation("available spots cannot exceed the tour's maximum group size")
	ErrDateInPast           = apperrors.Validation("date cannot be in the past")
)

// TourManager is the part of the tour catalogue slot management relies on
type TourManager interface {
	Get(ctx context.Context, id uuid.UUID) (*tours.Tour, error)
	AuthorizeManage(ctx context.Context, actor users.Actor, id uuid.UUID) (*tours.Tour, error)
}

type Service interface {
	List(ctx context.Context, tourID uuid.UUID) ([]SlotResponse, error)
	Create(ctx context.Context, actor users.Actor, tourID uuid.UUID, req *CreateSlotRequest) (*SlotResponse, error)
	Delete(ctx context.Context, actor users.Actor, tourID, slotID uuid.UUID) error
	Get(ctx context.Context, slotID uuid.UUID) (*Slot, error)
}

type service struct {
	repo  Repository
	tours TourManager
	now   func() time.Time
	log   *logger.Logger
}

func NewService(repo Repository, tourManager TourManager) Service {
	return &service{
		repo:  repo,
		tours: tourManager,
		now:   time.Now,
		log:   logger.GetDefault(),
	}
}

func (s *service) List(ctx context.Context, tourID uuid.UUID) ([]SlotResponse, error) {
	if _, err := s.tours.Get(ctx, tourID); err != nil {
		return nil, err
	}

	slots, err := s.repo.ListByTour(ctx, tourID, s.today())
	if err != nil {
		return nil, err
	}

	out := make([]SlotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, ToSlotResponse(&slots[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, actor users.Actor, tourID uuid.UUID, req *CreateSlotRequest) (*SlotResponse, error) {
	tour, err := s.tours.AuthorizeManage(ctx, actor, tourID)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, apperrors.Validation("date must be formatted as YYYY-MM-DD")
	}
	if date.Before(s.today()) {
		return nil, ErrDateInPast
	}
	if req.AvailableSpots < 1 {
		return nil, ErrInvalidGuests
	}
	if req.AvailableSpots > tour.MaxGroupSize {
		return nil, ErrSpotsExceedGroupSize
	}

	slot := &Slot{
		TourID:         tour.ID,
		Date:           date,
		StartTime:      req.StartTime,
		AvailableSpots: req.AvailableSpots,
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to create slot: %w", err)
	}

	resp := ToSlotResponse(slot)
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, actor users.Actor, tourID, slotID uuid.UUID) error {
	if _, err := s.tours.AuthorizeManage(ctx, actor, tourID); err != nil {
		return err
	}

	slot, err := s.repo.GetByID(ctx, slotID)
	if err != nil {
		return err
	}
	if slot.TourID != tourID {
		return ErrSlotNotFound
	}

	if err := s.repo.Delete(ctx, slotID); err != nil {
		return err
	}
	if slot.BookedSpots > 0 {
		s.log.WarnWithContext(ctx, "Deleted slot still had bookings", map[string]interface{}{
			"slot_id":      slotID.String(),
			"booked_spots": slot.BookedSpots,
		})
	}
	return nil
}

func (s *service) Get(ctx context.Context, slotID uuid.UUID) (*Slot, error) {
	return s.repo.GetByID(ctx, slotID)
}

func (s *service) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
