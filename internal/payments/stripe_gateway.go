package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"tourbook/internal/shared/apperrors"
	"tourbook/internal/shared/config"
	"tourbook/pkg/logger"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

const metadataBookingID = "booking_id"

const (
	eventCheckoutCompleted      = "checkout.session.completed"
	eventCheckoutAsyncSucceeded = "checkout.session.async_payment_succeeded"
	eventCheckoutAsyncFailed    = "checkout.session.async_payment_failed"
	eventPaymentIntentFailed    = "payment_intent.payment_failed"
)

type StripeGateway struct {
	api           *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
	currency      string
	log           *logger.Logger
}

func NewStripeGateway(cfg config.StripeConfig) *StripeGateway {
	return &StripeGateway{
		api:           client.New(cfg.SecretKey, nil),
		webhookSecret: cfg.WebhookSecret,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
		currency:      cfg.Currency,
		log:           logger.GetDefault(),
	}
}

// CreateCheckoutSession opens a hosted checkout for one booking. The booking
// id travels as metadata on both the session and its payment intent.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	bookingID := req.BookingID.String()

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(g.successURL),
		CancelURL:         stripe.String(g.cancelURL),
		ClientReferenceID: stripe.String(bookingID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(g.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(req.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{metadataBookingID: bookingID},
		},
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.AddMetadata(metadataBookingID, bookingID)
	params.Context = ctx

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}
	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		g.log.Warn("Rejected webhook", "error", err.Error())
		return nil, ErrInvalidSignature
	}

	out := &WebhookEvent{ID: event.ID, Type: string(event.Type), Kind: KindIgnored}
	if event.Data == nil {
		return out, nil
	}

	switch out.Type {
	case eventCheckoutCompleted, eventCheckoutAsyncSucceeded, eventCheckoutAsyncFailed:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, apperrors.Wrap(ErrMalformedEvent, "checkout session: "+err.Error())
		}
		out.SessionID = session.ID
		if session.PaymentIntent != nil {
			out.PaymentIntentID = session.PaymentIntent.ID
		}
		out.BookingID = bookingIDFrom(session.Metadata, session.ClientReferenceID)

		switch {
		case out.Type == eventCheckoutAsyncFailed:
			out.Kind = KindPaymentFailed
		case session.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid:
			// delayed methods settle later through async_payment_succeeded
		default:
			out.Kind = KindPaymentSucceeded
		}

	case eventPaymentIntentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, apperrors.Wrap(ErrMalformedEvent, "payment intent: "+err.Error())
		}
		out.Kind = KindPaymentFailed
		out.PaymentIntentID = intent.ID
		out.BookingID = bookingIDFrom(intent.Metadata, "")
		if intent.LastPaymentError != nil {
			out.FailureMessage = intent.LastPaymentError.Msg
		}
	}

	return out, nil
}

func bookingIDFrom(metadata map[string]string, fallback string) *uuid.UUID {
	raw := metadata[metadataBookingID]
	if raw == "" {
		raw = fallback
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
