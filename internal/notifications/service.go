package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/google/uuid"
)

// Recipient is the contact data of the traveler a booking belongs to
type Recipient struct {
	Email     string
	FirstName string
	LastName  string
}

// RecipientLookup resolves a user id to contact details
type RecipientLookup interface {
	GetRecipient(ctx context.Context, userID uuid.UUID) (*Recipient, error)
}

// Notifier turns booking events into traveler emails
type Notifier struct {
	recipients RecipientLookup
	sender     EmailSender
	templates  *template.Template
}

func NewNotifier(recipients RecipientLookup, sender EmailSender) *Notifier {
	return &Notifier{
		recipients: recipients,
		sender:     sender,
		templates:  template.Must(template.New("email").Parse(emailTemplate)),
	}
}

type emailData struct {
	Name    string
	Heading string
	Event   BookingEvent
}

func (n *Notifier) Handle(ctx context.Context, event BookingEvent) error {
	recipient, err := n.recipients.GetRecipient(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient %s: %w", event.UserID, err)
	}

	subject, heading := describe(event)
	data := emailData{Name: recipient.FirstName, Heading: heading, Event: event}

	var html bytes.Buffer
	if err := n.templates.Execute(&html, data); err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}

	return n.sender.Send(ctx, Email{
		To:       recipient.Email,
		Subject:  subject,
		TextBody: textBody(data),
		HTMLBody: html.String(),
	})
}

func describe(event BookingEvent) (subject, heading string) {
	switch event.Type {
	case EventBookingCreated:
		return "Booking received", "We have received your booking request."
	case EventBookingConfirmed:
		return "Booking confirmed", "Your booking is confirmed."
	case EventBookingCompleted:
		return "Thanks for touring with us", "Your tour is complete."
	case EventBookingCancelled:
		return "Booking cancelled", "Your booking has been cancelled."
	case EventBookingPaymentFailed:
		return "Payment failed", "Your payment could not be processed and the booking was cancelled."
	default:
		return "Booking update", "There is an update on your booking."
	}
}

func textBody(d emailData) string {
	body := fmt.Sprintf("Hi %s,\n\n%s\n\nBooking: %s\nDate: %s\nGuests: %d\nTotal: %.2f\n",
		d.Name, d.Heading, d.Event.BookingID, d.Event.Date, d.Event.Guests, d.Event.TotalPrice)
	if d.Event.Reason != "" {
		body += "Reason: " + d.Event.Reason + "\n"
	}
	return body
}

const emailTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <p>Hi {{.Name}},</p>
  <p>{{.Heading}}</p>
  <table>
    <tr><td>Booking</td><td>{{.Event.BookingID}}</td></tr>
    <tr><td>Date</td><td>{{.Event.Date}}</td></tr>
    <tr><td>Guests</td><td>{{.Event.Guests}}</td></tr>
    <tr><td>Total</td><td>{{printf "%.2f" .Event.TotalPrice}}</td></tr>
    {{if .Event.Reason}}<tr><td>Reason</td><td>{{.Event.Reason}}</td></tr>{{end}}
  </table>
  <p>The Tourbook team</p>
</body>
</html>`
