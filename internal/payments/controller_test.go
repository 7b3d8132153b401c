package payments

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tourbook/internal/bookings"
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

func (m *mockService) Checkout(ctx context.Context, actor users.Actor, email string, bookingID uuid.UUID) (*CheckoutResponse, error) {
	args := m.Called(ctx, actor, email, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckoutResponse), args.Error(1)
}

func (m *mockService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResponse, error) {
	args := m.Called(ctx, payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*WebhookResponse), args.Error(1)
}

func setupRouter(svc Service, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupPaymentRoutes(r.Group("/api"), NewController(svc), testutil.FakeAuth(userID))
	return r
}

func TestCreateCheckout(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()

	tests := []struct {
		name       string
		role       string
		path       string
		setupMock  func(*mockService)
		wantStatus int
	}{
		{
			name: "owner",
			role: "user",
			path: "/api/bookings/" + id.String() + "/checkout",
			setupMock: func(m *mockService) {
				m.On("Checkout", mock.Anything, users.Actor{ID: userID, Role: users.RoleUser}, "", id).
					Return(&CheckoutResponse{BookingID: id, SessionID: "cs_1", URL: "https://checkout.example"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "already paid",
			role: "user",
			path: "/api/bookings/" + id.String() + "/checkout",
			setupMock: func(m *mockService) {
				m.On("Checkout", mock.Anything, mock.Anything, mock.Anything, id).Return(nil, bookings.ErrNotPayable)
			},
			wantStatus: http.StatusBadRequest,
		},
		{name: "guide blocked by role", role: "guide", path: "/api/bookings/" + id.String() + "/checkout", setupMock: func(*mockService) {}, wantStatus: http.StatusForbidden},
		{name: "bad id", role: "user", path: "/api/bookings/nope/checkout", setupMock: func(*mockService) {}, wantStatus: http.StatusBadRequest},
		{name: "unauthenticated", role: "", path: "/api/bookings/" + id.String() + "/checkout", setupMock: func(*mockService) {}, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			req.Header.Set(testutil.RoleHeader, tt.role)
			w := httptest.NewRecorder()
			setupRouter(svc, userID).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestWebhookPassesRawBody(t *testing.T) {
	body := []byte(`{"id":"evt_1",  "type":"checkout.session.completed"}`)

	svc := new(mockService)
	svc.On("HandleWebhook", mock.Anything, body, "t=1,v1=abc").
		Return(&WebhookResponse{EventID: "evt_1", Outcome: "confirmed"}, nil).Once()
	svc.On("HandleWebhook", mock.Anything, body, "").Return(nil, ErrInvalidSignature).Once()

	for sig, want := range map[string]int{"t=1,v1=abc": http.StatusOK, "": http.StatusBadRequest} {
		req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if sig != "" {
			req.Header.Set("Stripe-Signature", sig)
		}
		w := httptest.NewRecorder()
		setupRouter(svc, uuid.New()).ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, sig)
	}
	svc.AssertExpectations(t)
}

func TestWebhookRejectsOversizedBody(t *testing.T) {
	svc := new(mockService)
	body := bytes.Repeat([]byte("a"), maxWebhookBodyBytes+1)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader(body))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	w := httptest.NewRecorder()
	setupRouter(svc, uuid.New()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	svc.AssertNotCalled(t, "HandleWebhook", mock.Anything, mock.Anything, mock.Anything)
}
