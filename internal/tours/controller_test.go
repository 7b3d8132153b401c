package tours

import (
	"bytes"
	"context"
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

func (m *mockService) Create(ctx context.Context, actor users.Actor, req *CreateTourRequest) (*TourResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TourResponse), args.Error(1)
}

func (m *mockService) Update(ctx context.Context, actor users.Actor, id uuid.UUID, req *UpdateTourRequest) (*TourResponse, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TourResponse), args.Error(1)
}

func (m *mockService) Deactivate(ctx context.Context, actor users.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *mockService) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*TourResponse, error) {
	args := m.Called(ctx, id, featured)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TourResponse), args.Error(1)
}

func (m *mockService) GetPublic(ctx context.Context, id uuid.UUID) (*TourResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TourResponse), args.Error(1)
}

func (m *mockService) List(ctx context.Context, query TourListQuery) (*TourListResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TourListResponse), args.Error(1)
}

func (m *mockService) ListByGuide(ctx context.Context, guideID uuid.UUID) ([]TourResponse, error) {
	args := m.Called(ctx, guideID)
	return args.Get(0).([]TourResponse), args.Error(1)
}

func (m *mockService) Get(ctx context.Context, id uuid.UUID) (*Tour, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Tour), args.Error(1)
}

func (m *mockService) AuthorizeManage(ctx context.Context, actor users.Actor, id uuid.UUID) (*Tour, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Tour), args.Error(1)
}

func setupRouter(svc Service, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	auth := testutil.FakeAuth(userID)
	guideMe := api.Group("/guides/me", auth, middleware.RequireRoles(users.RoleGuide))
	admin := api.Group("/admin", auth, middleware.RequireAdmin())
	SetupTourRoutes(api, guideMe, admin, NewController(svc), auth)
	return r
}

func TestCreateTour(t *testing.T) {
	userID := uuid.New()
	validBody := `{"title":"Alfama Food Walk","location":"Lisbon","duration_hours":3,"price":100,"max_group_size":12}`

	tests := []struct {
		name       string
		role       string
		body       string
		setupMock  func(*mockService)
		wantStatus int
	}{
		{
			name: "approved guide",
			role: "guide",
			body: validBody,
			setupMock: func(m *mockService) {
				m.On("Create", mock.Anything, users.Actor{ID: userID, Role: users.RoleGuide}, mock.Anything).
					Return(&TourResponse{ID: uuid.New()}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "unapproved guide",
			role: "guide",
			body: validBody,
			setupMock: func(m *mockService) {
				m.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil, ErrGuideNotApproved)
			},
			wantStatus: http.StatusForbidden,
		},
		{name: "traveler blocked by role", role: "user", body: validBody, setupMock: func(*mockService) {}, wantStatus: http.StatusForbidden},
		{name: "zero price", role: "admin", body: `{"title":"Tour","location":"X","duration_hours":1,"price":0,"max_group_size":2}`, setupMock: func(*mockService) {}, wantStatus: http.StatusBadRequest},
		{name: "zero group size", role: "admin", body: `{"title":"Tour","location":"X","duration_hours":1,"price":5,"max_group_size":0}`, setupMock: func(*mockService) {}, wantStatus: http.StatusBadRequest},
		{name: "unauthenticated", role: "", body: validBody, setupMock: func(*mockService) {}, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/tours", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set(testutil.RoleHeader, tt.role)
			w := httptest.NewRecorder()
			setupRouter(svc, userID).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestGetTour(t *testing.T) {
	id := uuid.New()
	svc := new(mockService)
	svc.On("GetPublic", mock.Anything, id).Return(nil, ErrTourNotFound)

	w := httptest.NewRecorder()
	setupRouter(svc, uuid.New()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tours/"+id.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	setupRouter(svc, uuid.New()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tours/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetFeatured_AdminOnly(t *testing.T) {
	id := uuid.New()
	svc := new(mockService)
	svc.On("SetFeatured", mock.Anything, id, true).Return(&TourResponse{ID: id, IsFeatured: true}, nil).Once()

	for role, want := range map[string]int{"guide": http.StatusForbidden, "admin": http.StatusOK} {
		req := httptest.NewRequest(http.MethodPatch, "/api/admin/tours/"+id.String()+"/featured", bytes.NewBufferString(`{"featured":true}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(testutil.RoleHeader, role)
		w := httptest.NewRecorder()
		setupRouter(svc, uuid.New()).ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, role)
	}
	svc.AssertExpectations(t)
}
