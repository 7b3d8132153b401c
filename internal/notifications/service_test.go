package notifications

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecipients map[uuid.UUID]*Recipient

func (s stubRecipients) GetRecipient(_ context.Context, id uuid.UUID) (*Recipient, error) {
	if r, ok := s[id]; ok {
		return r, nil
	}
	return nil, errors.New("user not found")
}

type recordingSender struct {
	sent  []Email
	fails int
}

func (s *recordingSender) Send(_ context.Context, email Email) error {
	if s.fails > 0 {
		s.fails--
		return errors.New("smtp unavailable")
	}
	s.sent = append(s.sent, email)
	return nil
}

func TestNotifier_RendersEmail(t *testing.T) {
	userID := uuid.New()
	sender := &recordingSender{}
	n := NewNotifier(stubRecipients{userID: {Email: "ana@example.com", FirstName: "Ana"}}, sender)

	event := NewBookingEvent(EventBookingCancelled, uuid.New())
	event.UserID = userID
	event.Date = "2030-02-01"
	event.Guests = 2
	event.TotalPrice = 200
	event.Reason = "payment failed"

	require.NoError(t, n.Handle(context.Background(), event))
	require.Len(t, sender.sent, 1)

	email := sender.sent[0]
	assert.Equal(t, "ana@example.com", email.To)
	assert.Equal(t, "Booking cancelled", email.Subject)
	assert.Contains(t, email.TextBody, "Hi Ana")
	assert.Contains(t, email.TextBody, "Reason: payment failed")
	assert.Contains(t, email.HTMLBody, "200.00")
}

func TestNotifier_UnknownRecipient(t *testing.T) {
	n := NewNotifier(stubRecipients{}, &recordingSender{})
	event := NewBookingEvent(EventBookingCreated, uuid.New())
	assert.Error(t, n.Handle(context.Background(), event))
}

func TestGroupHandler_RetriesThenSucceeds(t *testing.T) {
	userID := uuid.New()
	sender := &recordingSender{fails: 2}
	h := &groupHandler{
		handler:    NewNotifier(stubRecipients{userID: {Email: "ana@example.com"}}, sender),
		maxRetries: 3,
		backoff:    time.Millisecond,
	}

	event := NewBookingEvent(EventBookingConfirmed, uuid.New())
	event.UserID = userID
	payload, err := event.ToJSON()
	require.NoError(t, err)

	require.NoError(t, h.processMessage(context.Background(), &sarama.ConsumerMessage{Value: payload}))
	assert.Len(t, sender.sent, 1)
}

func TestGroupHandler_RejectsMalformed(t *testing.T) {
	h := &groupHandler{handler: NewNotifier(stubRecipients{}, &recordingSender{}), backoff: time.Millisecond}

	err := h.processMessage(context.Background(), &sarama.ConsumerMessage{Value: []byte("{not json")})
	assert.Error(t, err)

	err = h.processMessage(context.Background(), &sarama.ConsumerMessage{Value: []byte(`{"type":"booking.unknown"}`)})
	assert.Error(t, err)
}

func TestBuildMessage(t *testing.T) {
	cfg := &SMTPConfig{FromEmail: "noreply@tourbook.local", FromName: "Tourbook"}
	msg := string(buildMessage(cfg, Email{To: "ana@example.com", Subject: "Hi", TextBody: "plain", HTMLBody: "<p>html</p>"}, time.Unix(0, 42)))

	assert.True(t, strings.HasPrefix(msg, "From: Tourbook <noreply@tourbook.local>\r\n"))
	assert.Contains(t, msg, "boundary=boundary_42")
	assert.Contains(t, msg, "text/plain")
	assert.Contains(t, msg, "text/html")
	assert.True(t, strings.HasSuffix(msg, "--boundary_42--\r\n"))
}
