package users

import "github.com/google/uuid"

// Actor identifies who performs an operation
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
