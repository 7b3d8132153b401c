package bookings

import (
	"testing"

	"tourbook/internal/shared/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		actor    Actor
		want     bool
	}{
		{StatusPending, StatusConfirmed, ActorGuide, true},
		{StatusPending, StatusConfirmed, ActorAdmin, true},
		{StatusPending, StatusConfirmed, ActorPaymentProcessor, true},
		{StatusPending, StatusConfirmed, ActorTraveler, false},
		{StatusPending, StatusCancelled, ActorTraveler, true},
		{StatusPending, StatusCancelled, ActorGuide, true},
		{StatusPending, StatusCancelled, ActorPaymentProcessor, true},
		{StatusPending, StatusCompleted, ActorAdmin, false},
		{StatusConfirmed, StatusCompleted, ActorGuide, true},
		{StatusConfirmed, StatusCompleted, ActorAdmin, true},
		{StatusConfirmed, StatusCompleted, ActorPaymentProcessor, false},
		{StatusConfirmed, StatusCancelled, ActorGuide, true},
		{StatusConfirmed, StatusCancelled, ActorPaymentProcessor, true},
		{StatusConfirmed, StatusCancelled, ActorTraveler, false},
		{StatusConfirmed, StatusPending, ActorAdmin, false},
		{StatusCancelled, StatusPending, ActorAdmin, false},
		{StatusCancelled, StatusConfirmed, ActorPaymentProcessor, false},
		{StatusCompleted, StatusCancelled, ActorAdmin, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to)+"/"+string(tt.actor), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to, tt.actor))
		})
	}
}

func TestCheckTransition_ErrorKinds(t *testing.T) {
	err := CheckTransition(StatusCompleted, StatusPending, ActorAdmin)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Contains(t, apperrors.PublicMessage(err), "completed to pending")

	err = CheckTransition(StatusConfirmed, StatusCancelled, ActorTraveler)
	assert.ErrorIs(t, err, ErrTransitionForbidden)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled} {
		for _, to := range []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled} {
			for _, a := range []Actor{ActorTraveler, ActorGuide, ActorAdmin, ActorPaymentProcessor} {
				if s.IsTerminal() {
					assert.False(t, CanTransition(s, to, a), "%s must be terminal", s)
				}
			}
		}
	}

	_, err := ParseStatus("refunded")
	assert.Error(t, err)
}
