package payments

import (
	"context"
	"time"

	"tourbook/internal/bookings"
	"tourbook/internal/pricing"
	"tourbook/internal/shared/apperrors"
	"tourbook/internal/shared/database"
	"tourbook/internal/users"
	"tourbook/pkg/logger"
	"tourbook/pkg/metrics"

	"github.com/google/uuid"
)

const outcomeDuplicate = "duplicate"

type Service interface {
	Checkout(ctx context.Context, actor users.Actor, email string, bookingID uuid.UUID) (*CheckoutResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResponse, error)
}

type service struct {
	repo     Repository
	tx       database.Transactor
	bookings bookings.PaymentLedger
	gateway  Gateway
	log      *logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, tx database.Transactor, ledger bookings.PaymentLedger, gateway Gateway) Service {
	return &service{
		repo:     repo,
		tx:       tx,
		bookings: ledger,
		gateway:  gateway,
		log:      logger.GetDefault(),
		now:      time.Now,
	}
}

func (s *service) Checkout(ctx context.Context, actor users.Actor, email string, bookingID uuid.UUID) (*CheckoutResponse, error) {
	booking, err := s.bookings.PrepareCheckout(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	description := "Tour booking"
	if booking.Tour != nil {
		description = booking.Tour.Title
	}
	description += " (" + booking.Date.Format("2006-01-02") + ")"

	session, err := s.gateway.CreateCheckoutSession(ctx, CheckoutRequest{
		BookingID:   booking.ID,
		Description: description,
		AmountCents: pricing.ToMinorUnits(booking.TotalPrice),
		Email:       email,
	})
	if err != nil {
		return nil, apperrors.Internal("failed to start checkout", err)
	}

	if err := s.bookings.AttachCheckoutSession(ctx, booking.ID, session.ID); err != nil {
		return nil, err
	}

	s.log.InfoWithContext(ctx, "Checkout session created", map[string]interface{}{
		"booking_id": booking.ID.String(),
		"session_id": session.ID,
	})

	return &CheckoutResponse{BookingID: booking.ID, SessionID: session.ID, URL: session.URL}, nil
}

// HandleWebhook applies a verified processor event exactly once. The
// processed-event row and the booking changes commit together; on error
// both roll back and the processor's retry is applied from scratch.
func (s *service) HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResponse, error) {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return nil, err
	}

	resp := &WebhookResponse{EventID: event.ID, EventType: event.Type, BookingID: event.BookingID}
	var outcome *bookings.PaymentOutcome

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		claimed, err := s.repo.Claim(ctx, &ProcessedPaymentEvent{
			EventID:     event.ID,
			EventType:   event.Type,
			BookingID:   event.BookingID,
			ProcessedAt: s.now().UTC(),
		})
		if err != nil {
			return err
		}
		if !claimed {
			resp.Duplicate = true
			return nil
		}

		outcome, err = s.apply(ctx, event)
		if err != nil {
			return err
		}
		if outcome.Booking != nil {
			resp.BookingID = &outcome.Booking.ID
		}
		return s.repo.RecordOutcome(ctx, event.ID, resp.BookingID, string(outcome.Result))
	})
	if err != nil {
		s.log.ErrorWithContext(ctx, "Failed to apply payment event", err, map[string]interface{}{
			"event_id":   event.ID,
			"event_type": event.Type,
		})
		return nil, apperrors.Internal("failed to process payment event", err)
	}

	if resp.Duplicate {
		resp.Outcome = outcomeDuplicate
	} else {
		resp.Outcome = string(outcome.Result)
		s.bookings.Announce(ctx, outcome)
	}

	bookingID := ""
	if resp.BookingID != nil {
		bookingID = resp.BookingID.String()
	}
	metrics.PaymentEvents.WithLabelValues(event.Type, resp.Outcome).Inc()
	s.log.LogPaymentEvent(ctx, event.ID, event.Type, bookingID, resp.Outcome)

	return resp, nil
}

func (s *service) apply(ctx context.Context, event *WebhookEvent) (*bookings.PaymentOutcome, error) {
	switch event.Kind {
	case KindPaymentSucceeded:
		if event.BookingID == nil {
			return &bookings.PaymentOutcome{Result: bookings.PaymentResultUnmatched}, nil
		}
		return s.bookings.ApplyPaymentSucceeded(ctx, *event.BookingID, event.PaymentIntentID)
	case KindPaymentFailed:
		return s.bookings.ApplyPaymentFailed(ctx, event.PaymentIntentID, event.BookingID)
	case KindIgnored:
		return &bookings.PaymentOutcome{Result: bookings.PaymentResultIgnored}, nil
	default:
		return &bookings.PaymentOutcome{Result: bookings.PaymentResultIgnored}, nil
	}
}
