package bookings

import (
	"fmt"

	"tourbook/internal/shared/apperrors"
)

// Status is the lifecycle state of a booking
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown booking status %q", s)
	}
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no transition leaves s
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// PaymentStatus tracks the hosted checkout independently of Status
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Actor is the party requesting a status change
type Actor string

const (
	ActorTraveler         Actor = "traveler"
	ActorGuide            Actor = "guide"
	ActorAdmin            Actor = "admin"
	ActorPaymentProcessor Actor = "payment_processor"
)

// transitions lists, per edge, the actors allowed to take it
var transitions = map[Status]map[Status][]Actor{
	StatusPending: {
		StatusConfirmed: {ActorGuide, ActorAdmin, ActorPaymentProcessor},
		StatusCancelled: {ActorTraveler, ActorGuide, ActorAdmin, ActorPaymentProcessor},
	},
	StatusConfirmed: {
		StatusCompleted: {ActorGuide, ActorAdmin},
		StatusCancelled: {ActorGuide, ActorAdmin, ActorPaymentProcessor},
	},
}

// CanTransition reports whether actor may move a booking from one status to another
func CanTransition(from, to Status, actor Actor) bool {
	return CheckTransition(from, to, actor) == nil
}

// CheckTransition tells an impossible edge (400) apart from an edge the
// actor may not take (403).
func CheckTransition(from, to Status, actor Actor) error {
	allowed, ok := transitions[from][to]
	if !ok {
		return apperrors.Wrap(ErrInvalidTransition, fmt.Sprintf("booking cannot move from %s to %s", from, to))
	}
	for _, a := range allowed {
		if a == actor {
			return nil
		}
	}
	return ErrTransitionForbidden
}
