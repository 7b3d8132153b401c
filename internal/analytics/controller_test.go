package analytics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tourbook/internal/shared/middleware"
	"tourbook/internal/shared/testutil"
	"tourbook/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GuideStats(ctx context.Context, guideID uuid.UUID) (*GuideStats, error) {
	args := m.Called(ctx, guideID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GuideStats), args.Error(1)
}

func (m *mockService) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PlatformStats), args.Error(1)
}

func serve(svc Service, userID uuid.UUID, path, role string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	auth := testutil.FakeAuth(userID)
	guideMe := api.Group("/guides/me", auth, middleware.RequireRoles(users.RoleGuide))
	admin := api.Group("/admin", auth, middleware.RequireAdmin())
	SetupAnalyticsRoutes(guideMe, admin, NewController(svc))

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(testutil.RoleHeader, role)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStatsRoutes(t *testing.T) {
	guideID := uuid.New()
	svc := new(mockService)
	svc.On("GuideStats", mock.Anything, guideID).Return(&GuideStats{}, nil)
	svc.On("PlatformStats", mock.Anything).Return(nil, errors.New("db down")).Once()

	assert.Equal(t, http.StatusOK, serve(svc, guideID, "/api/guides/me/stats", "guide").Code)
	assert.Equal(t, http.StatusForbidden, serve(svc, guideID, "/api/guides/me/stats", "user").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(svc, uuid.New(), "/api/admin/stats", "admin").Code)
	assert.Equal(t, http.StatusForbidden, serve(svc, guideID, "/api/admin/stats", "guide").Code)
	svc.AssertExpectations(t)
}
