package bookings

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tourbook/internal/availability"
	"tourbook/internal/shared/apperrors"
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

func (m *mockService) bookingResult(args mock.Arguments) (*BookingResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BookingResponse), args.Error(1)
}

func (m *mockService) listResult(args mock.Arguments) (*BookingListResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BookingListResponse), args.Error(1)
}

func (m *mockService) Create(ctx context.Context, actor users.Actor, req *CreateBookingRequest) (*BookingResponse, error) {
	return m.bookingResult(m.Called(ctx, actor, req))
}

func (m *mockService) Get(ctx context.Context, actor users.Actor, id uuid.UUID) (*BookingResponse, error) {
	return m.bookingResult(m.Called(ctx, actor, id))
}

func (m *mockService) ListMine(ctx context.Context, actor users.Actor, query ListQuery) (*BookingListResponse, error) {
	return m.listResult(m.Called(ctx, actor, query))
}

func (m *mockService) ListForGuide(ctx context.Context, guideID uuid.UUID, query ListQuery) (*BookingListResponse, error) {
	return m.listResult(m.Called(ctx, guideID, query))
}

func (m *mockService) ListAll(ctx context.Context, query AdminListQuery) (*BookingListResponse, error) {
	return m.listResult(m.Called(ctx, query))
}

func (m *mockService) UpdateStatus(ctx context.Context, actor users.Actor, id uuid.UUID, req *UpdateStatusRequest) (*BookingResponse, error) {
	return m.bookingResult(m.Called(ctx, actor, id, req))
}

func (m *mockService) Cancel(ctx context.Context, actor users.Actor, id uuid.UUID, reason string) (*BookingResponse, error) {
	return m.bookingResult(m.Called(ctx, actor, id, reason))
}

func (m *mockService) PrepareCheckout(ctx context.Context, actor users.Actor, id uuid.UUID) (*Booking, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *mockService) AttachCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) error {
	return m.Called(ctx, id, sessionID).Error(0)
}

func (m *mockService) ApplyPaymentSucceeded(ctx context.Context, bookingID uuid.UUID, paymentIntentID string) (*PaymentOutcome, error) {
	args := m.Called(ctx, bookingID, paymentIntentID)
	return args.Get(0).(*PaymentOutcome), args.Error(1)
}

func (m *mockService) ApplyPaymentFailed(ctx context.Context, paymentIntentID string, bookingID *uuid.UUID) (*PaymentOutcome, error) {
	args := m.Called(ctx, paymentIntentID, bookingID)
	return args.Get(0).(*PaymentOutcome), args.Error(1)
}

func (m *mockService) Announce(ctx context.Context, outcome *PaymentOutcome) {
	m.Called(ctx, outcome)
}

func setupRouter(svc Service, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	auth := testutil.FakeAuth(userID)
	guideMe := api.Group("/guides/me", auth, middleware.RequireRoles(users.RoleGuide))
	admin := api.Group("/admin", auth, middleware.RequireAdmin())
	SetupBookingRoutes(api, guideMe, admin, NewController(svc), auth)
	return r
}

func serve(svc Service, userID uuid.UUID, method, path, role, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(testutil.RoleHeader, role)
	w := httptest.NewRecorder()
	setupRouter(svc, userID).ServeHTTP(w, req)
	return w
}

func TestCreateBooking(t *testing.T) {
	userID := uuid.New()
	tourID := uuid.New()
	validBody := `{"tour_id":"` + tourID.String() + `","guests":2,"date":"2030-06-01"}`

	tests := []struct {
		name       string
		role       string
		body       string
		setupMock  func(*mockService)
		wantStatus int
	}{
		{
			name: "traveler",
			role: "user",
			body: validBody,
			setupMock: func(m *mockService) {
				m.On("Create", mock.Anything, users.Actor{ID: userID, Role: users.RoleUser}, mock.MatchedBy(func(req *CreateBookingRequest) bool {
					return req.TourID == tourID && req.Guests == 2
				})).Return(&BookingResponse{ID: uuid.New(), Status: StatusPending}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "not enough spots",
			role: "user",
			body: validBody,
			setupMock: func(m *mockService) {
				m.On("Create", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, apperrors.Wrap(availability.ErrInsufficientCapacity, "only 1 spots left on this date"))
			},
			wantStatus: http.StatusBadRequest,
		},
		{name: "guide blocked by role", role: "guide", body: validBody, setupMock: func(*mockService) {}, wantStatus: http.StatusForbidden},
		{name: "zero guests", role: "user", body: `{"tour_id":"` + tourID.String() + `","guests":0}`, setupMock: func(*mockService) {}, wantStatus: http.StatusBadRequest},
		{name: "missing tour", role: "user", body: `{"guests":1}`, setupMock: func(*mockService) {}, wantStatus: http.StatusBadRequest},
		{name: "bad date", role: "user", body: `{"tour_id":"` + tourID.String() + `","guests":1,"date":"01/06/2030"}`, setupMock: func(*mockService) {}, wantStatus: http.StatusBadRequest},
		{name: "malformed json", role: "user", body: `{"tour_id":`, setupMock: func(*mockService) {}, wantStatus: http.StatusBadRequest},
		{name: "unauthenticated", role: "", body: validBody, setupMock: func(*mockService) {}, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			tt.setupMock(svc)

			w := serve(svc, userID, http.MethodPost, "/api/bookings", tt.role, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestGetBooking(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()
	svc := new(mockService)
	svc.On("Get", mock.Anything, users.Actor{ID: userID, Role: users.RoleUser}, id).Return(nil, ErrNoAccess)

	w := serve(svc, userID, http.MethodGet, "/api/bookings/"+id.String(), "user", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(svc, userID, http.MethodGet, "/api/bookings/nope", "user", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}

func TestUpdateStatus(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()

	tests := []struct {
		name       string
		role       string
		body       string
		setupMock  func(*mockService)
		wantStatus int
	}{
		{
			name: "guide confirms",
			role: "guide",
			body: `{"status":"confirmed"}`,
			setupMock: func(m *mockService) {
				m.On("UpdateStatus", mock.Anything, users.Actor{ID: userID, Role: users.RoleGuide}, id, &UpdateStatusRequest{Status: "confirmed"}).
					Return(&BookingResponse{ID: id, Status: StatusConfirmed}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "invalid transition",
			role: "admin",
			body: `{"status":"pending"}`,
			setupMock: func(m *mockService) {
				m.On("UpdateStatus", mock.Anything, mock.Anything, id, mock.Anything).Return(nil, ErrInvalidTransition)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "concurrent change",
			role: "admin",
			body: `{"status":"cancelled"}`,
			setupMock: func(m *mockService) {
				m.On("UpdateStatus", mock.Anything, mock.Anything, id, mock.Anything).Return(nil, ErrStatusConflict)
			},
			wantStatus: http.StatusConflict,
		},
		{name: "unknown status", role: "admin", body: `{"status":"refunded"}`, setupMock: func(*mockService) {}, wantStatus: http.StatusBadRequest},
		{name: "traveler blocked by role", role: "user", body: `{"status":"confirmed"}`, setupMock: func(*mockService) {}, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			tt.setupMock(svc)

			w := serve(svc, userID, http.MethodPatch, "/api/bookings/"+id.String()+"/status", tt.role, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestCancelBooking(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()
	actor := users.Actor{ID: userID, Role: users.RoleUser}

	svc := new(mockService)
	svc.On("Cancel", mock.Anything, actor, id, "").Return(&BookingResponse{ID: id, Status: StatusCancelled}, nil).Once()
	svc.On("Cancel", mock.Anything, actor, id, "sick").Return(nil, ErrTransitionForbidden).Once()

	w := serve(svc, userID, http.MethodDelete, "/api/bookings/"+id.String(), "user", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(svc, userID, http.MethodDelete, "/api/bookings/"+id.String(), "user", `{"reason":"sick"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(svc, userID, http.MethodDelete, "/api/bookings/"+id.String(), "guide", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	svc.AssertExpectations(t)
}

func TestListRoutes(t *testing.T) {
	userID := uuid.New()
	empty := &BookingListResponse{Bookings: []BookingResponse{}}

	svc := new(mockService)
	svc.On("ListMine", mock.Anything, users.Actor{ID: userID, Role: users.RoleUser}, ListQuery{Page: 2, Limit: 5, Status: "pending"}).Return(empty, nil)
	svc.On("ListForGuide", mock.Anything, userID, ListQuery{}).Return(empty, nil)
	svc.On("ListAll", mock.Anything, AdminListQuery{TourID: "x"}).Return(nil, ErrInvalidFilter)

	w := serve(svc, userID, http.MethodGet, "/api/bookings?page=2&limit=5&status=pending", "user", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(svc, userID, http.MethodGet, "/api/guides/me/bookings", "guide", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(svc, userID, http.MethodGet, "/api/guides/me/bookings", "user", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(svc, userID, http.MethodGet, "/api/admin/bookings?tour_id=x", "admin", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(svc, userID, http.MethodGet, "/api/admin/bookings", "guide", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	svc.AssertExpectations(t)
}
