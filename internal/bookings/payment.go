package bookings

import (
	"context"
	"errors"

	"tourbook/internal/notifications"
	"tourbook/internal/users"

	"github.com/google/uuid"
)

// PaymentResult says what a processor event did to its booking
type PaymentResult string

const (
	PaymentResultConfirmed        PaymentResult = "confirmed"
	PaymentResultAlreadyConfirmed PaymentResult = "already_confirmed"
	PaymentResultRefundRequired   PaymentResult = "refund_required"
	PaymentResultCancelled        PaymentResult = "cancelled"
	PaymentResultIgnored          PaymentResult = "ignored"
	PaymentResultUnmatched        PaymentResult = "unmatched"
)

// PaymentOutcome is returned by the processor-facing operations. They run
// inside the caller's transaction, so the event is announced separately
// once that transaction has committed.
type PaymentOutcome struct {
	Booking *Booking
	Result  PaymentResult
	Event   notifications.EventType

	// From is the status the event moved the booking out of, empty when
	// the status did not change
	From Status
}

// PaymentLedger is the surface the payment reconciliation drives
type PaymentLedger interface {
	// PrepareCheckout returns the caller's booking if it still awaits payment
	PrepareCheckout(ctx context.Context, actor users.Actor, id uuid.UUID) (*Booking, error)
	AttachCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) error
	ApplyPaymentSucceeded(ctx context.Context, bookingID uuid.UUID, paymentIntentID string) (*PaymentOutcome, error)
	// ApplyPaymentFailed matches by payment intent first, then by bookingID when given
	ApplyPaymentFailed(ctx context.Context, paymentIntentID string, bookingID *uuid.UUID) (*PaymentOutcome, error)
	Announce(ctx context.Context, outcome *PaymentOutcome)
}

func (s *service) PrepareCheckout(ctx context.Context, actor users.Actor, id uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.IsOwnedBy(actor.ID) {
		return nil, ErrNoAccess
	}
	if !booking.AwaitingPayment() {
		return nil, ErrNotPayable
	}
	return booking, nil
}

func (s *service) AttachCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) error {
	return s.repo.UpdateFields(ctx, id, map[string]interface{}{"checkout_session_id": sessionID})
}

func (s *service) ApplyPaymentSucceeded(ctx context.Context, bookingID uuid.UUID, paymentIntentID string) (*PaymentOutcome, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return &PaymentOutcome{Result: PaymentResultUnmatched}, nil
		}
		return nil, err
	}

	fields := map[string]interface{}{"payment_status": PaymentPaid}
	if paymentIntentID != "" {
		fields["payment_intent_id"] = paymentIntentID
	}

	switch booking.Status {
	case StatusPending:
		// capacity was reserved at creation; confirming does not reserve again
		updated, err := s.transition(ctx, booking, StatusConfirmed, ActorPaymentProcessor, nil, "", fields)
		if err != nil {
			return nil, err
		}
		return &PaymentOutcome{Booking: updated, Result: PaymentResultConfirmed, Event: notifications.EventBookingConfirmed, From: booking.Status}, nil

	case StatusConfirmed, StatusCompleted:
		updated, err := s.updatePayment(ctx, booking.ID, fields)
		if err != nil {
			return nil, err
		}
		return &PaymentOutcome{Booking: updated, Result: PaymentResultAlreadyConfirmed}, nil

	case StatusCancelled:
		// cancelled is terminal; the money has to go back by hand
		updated, err := s.updatePayment(ctx, booking.ID, fields)
		if err != nil {
			return nil, err
		}
		s.log.LogRefundRequired(ctx, booking.ID.String(), paymentIntentID, "payment completed for a cancelled booking")
		return &PaymentOutcome{Booking: updated, Result: PaymentResultRefundRequired}, nil

	default:
		return &PaymentOutcome{Booking: booking, Result: PaymentResultIgnored}, nil
	}
}

func (s *service) ApplyPaymentFailed(ctx context.Context, paymentIntentID string, bookingID *uuid.UUID) (*PaymentOutcome, error) {
	booking, err := s.findForFailure(ctx, paymentIntentID, bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return &PaymentOutcome{Result: PaymentResultUnmatched}, nil
		}
		return nil, err
	}

	// a failed attempt reported after a successful one changes nothing
	if booking.PaymentStatus == PaymentPaid {
		return &PaymentOutcome{Booking: booking, Result: PaymentResultIgnored}, nil
	}

	fields := map[string]interface{}{"payment_status": PaymentFailed}
	if paymentIntentID != "" {
		fields["payment_intent_id"] = paymentIntentID
	}

	switch booking.Status {
	case StatusPending, StatusConfirmed:
		updated, err := s.transition(ctx, booking, StatusCancelled, ActorPaymentProcessor, nil, CancelReasonPaymentFailed, fields)
		if err != nil {
			return nil, err
		}
		return &PaymentOutcome{Booking: updated, Result: PaymentResultCancelled, Event: notifications.EventBookingPaymentFailed, From: booking.Status}, nil

	case StatusCompleted, StatusCancelled:
		updated, err := s.updatePayment(ctx, booking.ID, fields)
		if err != nil {
			return nil, err
		}
		return &PaymentOutcome{Booking: updated, Result: PaymentResultIgnored}, nil

	default:
		return &PaymentOutcome{Booking: booking, Result: PaymentResultIgnored}, nil
	}
}

func (s *service) findForFailure(ctx context.Context, paymentIntentID string, bookingID *uuid.UUID) (*Booking, error) {
	if paymentIntentID != "" {
		booking, err := s.repo.GetByPaymentIntent(ctx, paymentIntentID)
		if err == nil || !errors.Is(err, ErrBookingNotFound) {
			return booking, err
		}
	}
	if bookingID != nil {
		return s.repo.GetByID(ctx, *bookingID)
	}
	return nil, ErrBookingNotFound
}

func (s *service) updatePayment(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*Booking, error) {
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Announce records and publishes an outcome after its transaction committed
func (s *service) Announce(ctx context.Context, outcome *PaymentOutcome) {
	if outcome == nil || outcome.Booking == nil {
		return
	}
	if outcome.From != "" {
		s.recordTransition(ctx, outcome.Booking.ID, outcome.From, outcome.Booking.Status, ActorPaymentProcessor)
	}
	if outcome.Event != "" {
		s.publish(ctx, outcome.Event, outcome.Booking)
	}
}
