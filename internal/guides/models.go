package guides

import (
	"time"

	"tourbook/internal/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is the approval state of a guide profile
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// GuideProfile extends a guide account with business details and approval state
type GuideProfile struct {
	ID              uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	UserID          uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	Status          Status     `json:"status" gorm:"type:varchar(16);not null;default:'pending';index"`
	BusinessName    string     `json:"business_name" gorm:"size:200"`
	Bio             string     `json:"bio" gorm:"type:text"`
	Phone           string     `json:"phone" gorm:"size:40"`
	Website         string     `json:"website" gorm:"size:255"`
	Rating          float64    `json:"rating" gorm:"not null;default:0"`
	ReviewCount     int        `json:"review_count" gorm:"not null;default:0"`
	ReviewedBy      *uuid.UUID `json:"reviewed_by,omitempty" gorm:"type:uuid"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty" gorm:"type:text"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	User *users.User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (g *GuideProfile) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.Status == "" {
		g.Status = StatusPending
	}
	return nil
}

func (g *GuideProfile) IsApproved() bool {
	return g.Status == StatusApproved
}

// request / response payloads

type UpdateProfileRequest struct {
	BusinessName *string `json:"business_name" validate:"omitempty,max=200"`
	Bio          *string `json:"bio" validate:"omitempty,max=5000"`
	Phone        *string `json:"phone" validate:"omitempty,max=40"`
	Website      *string `json:"website" validate:"omitempty,url,max=255"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

type ListQuery struct {
	Status Status `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type ProfileResponse struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	Name            string     `json:"name,omitempty"`
	Email           string     `json:"email,omitempty"`
	Status          Status     `json:"status"`
	BusinessName    string     `json:"business_name"`
	Bio             string     `json:"bio"`
	Phone           string     `json:"phone"`
	Website         string     `json:"website"`
	Rating          float64    `json:"rating"`
	ReviewCount     int        `json:"review_count"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func ToProfileResponse(g *GuideProfile) ProfileResponse {
	resp := ProfileResponse{
		ID:              g.ID,
		UserID:          g.UserID,
		Status:          g.Status,
		BusinessName:    g.BusinessName,
		Bio:             g.Bio,
		Phone:           g.Phone,
		Website:         g.Website,
		Rating:          g.Rating,
		ReviewCount:     g.ReviewCount,
		ReviewedAt:      g.ReviewedAt,
		RejectionReason: g.RejectionReason,
		CreatedAt:       g.CreatedAt,
	}
	if g.User != nil {
		resp.Name = g.User.FullName()
		resp.Email = g.User.Email
	}
	return resp
}
