package guides

import (
	"context"
	"time"

	"tourbook/internal/shared/apperrors"
	"tourbook/internal/shared/utils/response"
	"tourbook/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrProfileNotFound = apperrors.NotFound("guide profile not found")
	ErrInvalidStatus   = apperrors.Validation("status must be one of pending, approved, rejected")
)

type Service interface {
	// CreateProfile opens a pending profile; it joins the caller's transaction
	CreateProfile(ctx context.Context, userID uuid.UUID) (*GuideProfile, error)
	GetMine(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error)
	UpdateMine(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*ProfileResponse, error)
	List(ctx context.Context, query ListQuery) ([]ProfileResponse, response.Pagination, error)
	Approve(ctx context.Context, adminID, profileID uuid.UUID) (*ProfileResponse, error)
	Reject(ctx context.Context, adminID, profileID uuid.UUID, reason string) (*ProfileResponse, error)
	IsApproved(ctx context.Context, userID uuid.UUID) (bool, error)
}

type service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{repo: repo, log: logger.GetDefault()}
}

func (s *service) CreateProfile(ctx context.Context, userID uuid.UUID) (*GuideProfile, error) {
	profile := &GuideProfile{UserID: userID, Status: StatusPending}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *service) GetMine(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToProfileResponse(profile)
	return &resp, nil
}

func (s *service) UpdateMine(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*ProfileResponse, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.BusinessName != nil {
		profile.BusinessName = *req.BusinessName
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.Website != nil {
		profile.Website = *req.Website
	}

	if err := s.repo.Save(ctx, profile); err != nil {
		return nil, err
	}
	resp := ToProfileResponse(profile)
	return &resp, nil
}

func (s *service) List(ctx context.Context, query ListQuery) ([]ProfileResponse, response.Pagination, error) {
	if query.Status != "" && !query.Status.IsValid() {
		return nil, response.Pagination{}, ErrInvalidStatus
	}
	query.Page, query.Limit = response.NormalizePage(query.Page, query.Limit)

	profiles, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, response.Pagination{}, err
	}

	out := make([]ProfileResponse, 0, len(profiles))
	for i := range profiles {
		out = append(out, ToProfileResponse(&profiles[i]))
	}
	return out, response.NewPagination(query.Page, query.Limit, total), nil
}

func (s *service) Approve(ctx context.Context, adminID, profileID uuid.UUID) (*ProfileResponse, error) {
	return s.review(ctx, adminID, profileID, StatusApproved, "")
}

func (s *service) Reject(ctx context.Context, adminID, profileID uuid.UUID, reason string) (*ProfileResponse, error) {
	return s.review(ctx, adminID, profileID, StatusRejected, reason)
}

func (s *service) review(ctx context.Context, adminID, profileID uuid.UUID, status Status, reason string) (*ProfileResponse, error) {
	profile, err := s.repo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	profile.Status = status
	profile.ReviewedBy = &adminID
	profile.ReviewedAt = &now
	profile.RejectionReason = reason

	if err := s.repo.Save(ctx, profile); err != nil {
		return nil, err
	}

	s.log.InfoWithContext(ctx, "Guide profile reviewed", map[string]interface{}{
		"profile_id": profile.ID.String(),
		"guide_id":   profile.UserID.String(),
		"status":     status.String(),
		"admin_id":   adminID.String(),
	})

	resp := ToProfileResponse(profile)
	return &resp, nil
}

func (s *service) IsApproved(ctx context.Context, userID uuid.UUID) (bool, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if err == ErrProfileNotFound {
			return false, nil
		}
		return false, err
	}
	return profile.IsApproved(), nil
}
