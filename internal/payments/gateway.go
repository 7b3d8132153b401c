package payments

import (
	"context"

	"tourbook/internal/shared/apperrors"

	"github.com/google/uuid"
)

var (
	ErrInvalidSignature = apperrors.Validation("invalid webhook signature")
	ErrMalformedEvent   = apperrors.Validation("malformed webhook event")
)

// EventKind is what a processor event means for a booking
type EventKind string

const (
	KindPaymentSucceeded EventKind = "payment_succeeded"
	KindPaymentFailed    EventKind = "payment_failed"
	KindIgnored          EventKind = "ignored"
)

type CheckoutRequest struct {
	BookingID   uuid.UUID
	Description string
	AmountCents int64
	Email       string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// WebhookEvent is a verified processor notification reduced to the fields
// reconciliation needs
type WebhookEvent struct {
	ID              string
	Type            string
	Kind            EventKind
	BookingID       *uuid.UUID
	SessionID       string
	PaymentIntentID string
	FailureMessage  string
}

// Gateway is the payment processor
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	// ParseWebhook verifies the signature header against payload before decoding
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
