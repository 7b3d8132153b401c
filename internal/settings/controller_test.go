package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) CommissionRate(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockService) GetCommission(ctx context.Context) (*CommissionResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CommissionResponse), args.Error(1)
}

func (m *mockService) SetCommission(ctx context.Context, rate float64) (*CommissionResponse, error) {
	args := m.Called(ctx, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CommissionResponse), args.Error(1)
}

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupSettingsRoutes(r.Group("/api/admin"), NewController(svc))
	return r
}

func TestUpdateCommission(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(*mockService)
		wantStatus int
	}{
		{
			name: "valid rate",
			body: `{"rate": 12}`,
			setupMock: func(m *mockService) {
				m.On("SetCommission", mock.Anything, 12.0).Return(&CommissionResponse{Rate: 12}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "zero is allowed",
			body:       `{"rate": 0}`,
			setupMock:  func(m *mockService) { m.On("SetCommission", mock.Anything, 0.0).Return(&CommissionResponse{}, nil) },
			wantStatus: http.StatusOK,
		},
		{name: "missing rate", body: `{}`, setupMock: func(*mockService) {}, wantStatus: http.StatusBadRequest},
		{name: "too high", body: `{"rate": 150}`, setupMock: func(*mockService) {}, wantStatus: http.StatusBadRequest},
		{name: "malformed", body: `{"rate":`, setupMock: func(*mockService) {}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPut, "/api/admin/settings/commission", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			setupRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestGetCommission(t *testing.T) {
	svc := new(mockService)
	svc.On("GetCommission", mock.Anything).Return(&CommissionResponse{Rate: 10, IsDefault: true}, nil)

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/settings/commission", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data CommissionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 10.0, body.Data.Rate)
	assert.True(t, body.Data.IsDefault)
}
