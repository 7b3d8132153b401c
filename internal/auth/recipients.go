package auth

import (
	"context"
	"fmt"

	"tourbook/internal/notifications"

	"github.com/google/uuid"
)

// RecipientLookup resolves notification recipients from user accounts
type RecipientLookup struct {
	repo Repository
}

func NewRecipientLookup(repo Repository) *RecipientLookup {
	return &RecipientLookup{repo: repo}
}

func (l *RecipientLookup) GetRecipient(ctx context.Context, userID uuid.UUID) (*notifications.Recipient, error) {
	user, err := l.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}
	return &notifications.Recipient{
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}
