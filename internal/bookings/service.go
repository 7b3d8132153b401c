package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourbook/internal/availability"
	"tourbook/internal/notifications"
	"tourbook/internal/pricing"
	"tourbook/internal/settings"
	"tourbook/internal/shared/apperrors"
	"tourbook/internal/shared/database"
	"tourbook/internal/shared/utils/response"
	"tourbook/internal/tours"
	"tourbook/internal/users"
	"tourbook/pkg/logger"
	"tourbook/pkg/metrics"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound     = apperrors.NotFound("booking not found")
	ErrTravelersOnly       = apperrors.Forbidden("only travelers can book tours")
	ErrTourInactive        = apperrors.Validation("tour is not available for booking")
	ErrDateRequired        = apperrors.Validation("date is required when no availability slot is given")
	ErrNoAccess            = apperrors.Forbidden("you do not have access to this booking")
	ErrInvalidTransition   = apperrors.Validation("invalid booking status transition")
	ErrTransitionForbidden = apperrors.Forbidden("you may not make this status change")
	ErrStatusConflict      = apperrors.Conflict("booking was modified concurrently, reload and retry")
	ErrInvalidStatus       = apperrors.Validation("unknown booking status")
	ErrNotPayable          = apperrors.Validation("booking is not awaiting payment")
	ErrInvalidFilter       = apperrors.Validation("invalid booking filter")
)

// TourCatalog loads tours regardless of their active flag
type TourCatalog interface {
	Get(ctx context.Context, id uuid.UUID) (*tours.Tour, error)
}

// SlotLookup loads availability slots
type SlotLookup interface {
	Get(ctx context.Context, slotID uuid.UUID) (*availability.Slot, error)
}

type Service interface {
	Create(ctx context.Context, actor users.Actor, req *CreateBookingRequest) (*BookingResponse, error)
	Get(ctx context.Context, actor users.Actor, id uuid.UUID) (*BookingResponse, error)
	ListMine(ctx context.Context, actor users.Actor, query ListQuery) (*BookingListResponse, error)
	ListForGuide(ctx context.Context, guideID uuid.UUID, query ListQuery) (*BookingListResponse, error)
	ListAll(ctx context.Context, query AdminListQuery) (*BookingListResponse, error)
	UpdateStatus(ctx context.Context, actor users.Actor, id uuid.UUID, req *UpdateStatusRequest) (*BookingResponse, error)
	Cancel(ctx context.Context, actor users.Actor, id uuid.UUID, reason string) (*BookingResponse, error)

	PaymentLedger
}

type service struct {
	repo       Repository
	tx         database.Transactor
	tours      TourCatalog
	slots      SlotLookup
	ledger     availability.Ledger
	commission settings.CommissionSource
	publisher  notifications.Publisher
	log        *logger.Logger
	now        func() time.Time
}

func NewService(
	repo Repository,
	tx database.Transactor,
	tourCatalog TourCatalog,
	slots SlotLookup,
	ledger availability.Ledger,
	commission settings.CommissionSource,
	publisher notifications.Publisher,
) Service {
	if publisher == nil {
		publisher = notifications.NoopPublisher{}
	}
	return &service{
		repo:       repo,
		tx:         tx,
		tours:      tourCatalog,
		slots:      slots,
		ledger:     ledger,
		commission: commission,
		publisher:  publisher,
		log:        logger.GetDefault(),
		now:        time.Now,
	}
}

func (s *service) Create(ctx context.Context, actor users.Actor, req *CreateBookingRequest) (*BookingResponse, error) {
	if actor.Role != users.RoleUser {
		return nil, ErrTravelersOnly
	}

	tour, err := s.tours.Get(ctx, req.TourID)
	if err != nil {
		return nil, err
	}
	if !tour.IsActive {
		return nil, ErrTourInactive
	}

	// read per booking; a rate change applies to the very next request
	rate, err := s.commission.CommissionRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read commission rate: %w", err)
	}
	quote, err := pricing.Calculate(tour.Price, req.Guests, tour.MaxGroupSize, rate)
	if err != nil {
		return nil, err
	}

	date, slot, err := s.resolveDate(ctx, tour, req)
	if err != nil {
		return nil, err
	}

	booking := &Booking{
		UserID:           actor.ID,
		TourID:           tour.ID,
		GuideID:          tour.GuideID,
		Date:             date,
		Guests:           req.Guests,
		Subtotal:         quote.Subtotal,
		CommissionRate:   quote.CommissionRate,
		CommissionAmount: quote.CommissionAmount,
		GuideEarnings:    quote.GuideEarnings,
		TotalPrice:       quote.TotalPrice,
		Status:           StatusPending,
		PaymentStatus:    PaymentPending,
	}
	if slot != nil {
		booking.AvailabilityID = &slot.ID
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if slot != nil {
			if err := s.ledger.Reserve(ctx, slot.ID, req.Guests); err != nil {
				return err
			}
		}
		return s.repo.Create(ctx, booking)
	})
	if err != nil {
		if errors.Is(err, availability.ErrInsufficientCapacity) {
			metrics.CapacityRejections.Inc()
			return nil, apperrors.Wrap(availability.ErrInsufficientCapacity,
				fmt.Sprintf("only %d spots left on this date", slot.Remaining()))
		}
		return nil, err
	}

	booking.Tour = tour
	metrics.BookingsCreated.Inc()
	s.log.LogBookingCreated(ctx, booking.ID.String(), tour.ID.String(), actor.ID.String(), booking.Guests, booking.TotalPrice)
	s.publish(ctx, notifications.EventBookingCreated, booking)

	resp := ToBookingResponse(booking)
	return &resp, nil
}

// resolveDate takes the date from the slot when one is given
func (s *service) resolveDate(ctx context.Context, tour *tours.Tour, req *CreateBookingRequest) (time.Time, *availability.Slot, error) {
	today := s.today()

	if req.AvailabilityID != nil {
		slot, err := s.slots.Get(ctx, *req.AvailabilityID)
		if err != nil {
			return time.Time{}, nil, err
		}
		if slot.TourID != tour.ID {
			return time.Time{}, nil, availability.ErrSlotNotInTour
		}
		if slot.Date.Before(today) {
			return time.Time{}, nil, availability.ErrDateInPast
		}
		return slot.Date, slot, nil
	}

	if req.Date == "" {
		return time.Time{}, nil, ErrDateRequired
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return time.Time{}, nil, apperrors.Validation("date must be formatted as YYYY-MM-DD")
	}
	if date.Before(today) {
		return time.Time{}, nil, availability.ErrDateInPast
	}
	return date, nil, nil
}

func (s *service) Get(ctx context.Context, actor users.Actor, id uuid.UUID) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !booking.IsOwnedBy(actor.ID) {
		return nil, ErrNoAccess
	}
	resp := ToBookingResponse(booking)
	return &resp, nil
}

func (s *service) ListMine(ctx context.Context, actor users.Actor, query ListQuery) (*BookingListResponse, error) {
	filter, err := baseFilter(query)
	if err != nil {
		return nil, err
	}
	filter.UserID = &actor.ID
	return s.list(ctx, filter)
}

func (s *service) ListForGuide(ctx context.Context, guideID uuid.UUID, query ListQuery) (*BookingListResponse, error) {
	filter, err := baseFilter(query)
	if err != nil {
		return nil, err
	}
	filter.GuideID = &guideID
	return s.list(ctx, filter)
}

func (s *service) ListAll(ctx context.Context, query AdminListQuery) (*BookingListResponse, error) {
	filter, err := baseFilter(query.ListQuery)
	if err != nil {
		return nil, err
	}
	if query.TourID != "" {
		tourID, err := uuid.Parse(query.TourID)
		if err != nil {
			return nil, apperrors.Wrap(ErrInvalidFilter, "tour_id must be a UUID")
		}
		filter.TourID = &tourID
	}
	if filter.DateFrom, err = parseDateFilter(query.DateFrom, "date_from"); err != nil {
		return nil, err
	}
	if filter.DateTo, err = parseDateFilter(query.DateTo, "date_to"); err != nil {
		return nil, err
	}
	return s.list(ctx, filter)
}

func (s *service) list(ctx context.Context, filter ListFilter) (*BookingListResponse, error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &BookingListResponse{
		Bookings:   toBookingResponses(list),
		Pagination: response.NewPagination(filter.Page, filter.Limit, total),
	}, nil
}

func baseFilter(query ListQuery) (ListFilter, error) {
	filter := ListFilter{}
	filter.Page, filter.Limit = response.NormalizePage(query.Page, query.Limit)
	if query.Status != "" {
		status, err := ParseStatus(query.Status)
		if err != nil {
			return filter, ErrInvalidStatus
		}
		filter.Status = &status
	}
	return filter, nil
}

func parseDateFilter(value, name string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, apperrors.Wrap(ErrInvalidFilter, name+" must be formatted as YYYY-MM-DD")
	}
	return &t, nil
}

func (s *service) UpdateStatus(ctx context.Context, actor users.Actor, id uuid.UUID, req *UpdateStatusRequest) (*BookingResponse, error) {
	to, err := ParseStatus(req.Status)
	if err != nil {
		return nil, ErrInvalidStatus
	}

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var party Actor
	switch actor.Role {
	case users.RoleAdmin:
		party = ActorAdmin
	case users.RoleGuide:
		if booking.GuideID != actor.ID {
			return nil, ErrNoAccess
		}
		party = ActorGuide
	case users.RoleUser:
		return nil, ErrTransitionForbidden
	default:
		return nil, ErrNoAccess
	}

	updated, err := s.transition(ctx, booking, to, party, &actor.ID, req.Reason, nil)
	if err != nil {
		return nil, err
	}
	s.recordTransition(ctx, booking.ID, booking.Status, to, party)
	s.publish(ctx, eventFor(to), updated)

	resp := ToBookingResponse(updated)
	return &resp, nil
}

func (s *service) Cancel(ctx context.Context, actor users.Actor, id uuid.UUID, reason string) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var party Actor
	switch actor.Role {
	case users.RoleAdmin:
		party = ActorAdmin
	case users.RoleGuide:
		if booking.GuideID != actor.ID {
			return nil, ErrNoAccess
		}
		party = ActorGuide
	case users.RoleUser:
		if !booking.IsOwnedBy(actor.ID) {
			return nil, ErrNoAccess
		}
		party = ActorTraveler
	default:
		return nil, ErrNoAccess
	}

	updated, err := s.transition(ctx, booking, StatusCancelled, party, &actor.ID, reason, nil)
	if err != nil {
		return nil, err
	}
	s.recordTransition(ctx, booking.ID, booking.Status, StatusCancelled, party)
	s.publish(ctx, notifications.EventBookingCancelled, updated)

	resp := ToBookingResponse(updated)
	return &resp, nil
}

// transition moves booking to status to with a compare-and-set on its
// current status, releasing slot capacity on cancellation in the same
// transaction. extra columns are written alongside the status. It joins
// the caller's transaction, so callers record the change once committed.
func (s *service) transition(ctx context.Context, booking *Booking, to Status, party Actor, by *uuid.UUID, reason string, extra map[string]interface{}) (*Booking, error) {
	from := booking.Status
	if err := CheckTransition(from, to, party); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	fields := map[string]interface{}{"status": to}
	for k, v := range extra {
		fields[k] = v
	}
	switch to {
	case StatusCancelled:
		fields["cancelled_at"] = now
		if by != nil {
			fields["cancelled_by"] = *by
		}
		if reason != "" {
			fields["cancel_reason"] = reason
		}
	case StatusCompleted:
		fields["completed_at"] = now
	case StatusPending, StatusConfirmed:
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.UpdateStatus(ctx, booking.ID, from, fields); err != nil {
			return err
		}
		if to == StatusCancelled && booking.AvailabilityID != nil {
			if err := s.ledger.Release(ctx, *booking.AvailabilityID, booking.Guests); err != nil {
				if !errors.Is(err, availability.ErrSlotNotFound) {
					return err
				}
				s.log.WarnWithContext(ctx, "Cancelled booking references a deleted slot", map[string]interface{}{
					"booking_id": booking.ID.String(),
					"slot_id":    booking.AvailabilityID.String(),
				})
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStatusConflict) {
			metrics.StatusConflicts.Inc()
		}
		return nil, err
	}

	return s.repo.GetByID(ctx, booking.ID)
}

// recordTransition counts and logs a committed status change
func (s *service) recordTransition(ctx context.Context, id uuid.UUID, from, to Status, party Actor) {
	metrics.BookingTransitions.WithLabelValues(string(to), string(party)).Inc()
	s.log.LogBookingTransition(ctx, id.String(), string(from), string(to), string(party))
}

func (s *service) publish(ctx context.Context, eventType notifications.EventType, booking *Booking) {
	if eventType == "" {
		return
	}
	event := notifications.NewBookingEvent(eventType, booking.ID)
	event.UserID = booking.UserID
	event.TourID = booking.TourID
	event.GuideID = booking.GuideID
	event.Status = string(booking.Status)
	event.PaymentStatus = string(booking.PaymentStatus)
	event.Date = booking.Date.Format(dateLayout)
	event.Guests = booking.Guests
	event.TotalPrice = booking.TotalPrice
	if booking.CancelReason != nil {
		event.Reason = *booking.CancelReason
	}

	// the booking is already committed; a lost event only costs an email
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.ErrorWithContext(ctx, "Failed to publish booking event", err, map[string]interface{}{
			"booking_id": booking.ID.String(),
			"event_type": string(eventType),
		})
	}
}

func eventFor(to Status) notifications.EventType {
	switch to {
	case StatusConfirmed:
		return notifications.EventBookingConfirmed
	case StatusCompleted:
		return notifications.EventBookingCompleted
	case StatusCancelled:
		return notifications.EventBookingCancelled
	case StatusPending:
		return ""
	default:
		return ""
	}
}

func (s *service) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
