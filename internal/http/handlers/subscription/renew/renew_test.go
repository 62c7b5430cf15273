package renew

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	subsvc "github.com/magabrotheeeer/repair-crm/internal/services/subscription"
)

// MockService реализует интерфейс renew.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) PaidFor(ctx context.Context, subscriptionID, months int, startNow bool) error {
	return m.Called(ctx, subscriptionID, months, startNow).Error(0)
}

func TestRenewHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное продление с текущим сроком",
			body: `{"start_now":true}`,
			setupMock: func(m *MockService) {
				m.On("PaidFor", mock.Anything, 5, 0, true).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"renewed_id":5`,
		},
		{
			name: "нет действующего платежа",
			body: `{"months":6}`,
			setupMock: func(m *MockService) {
				m.On("PaidFor", mock.Anything, 5, 6, false).Return(subsvc.ErrNoActivePayment)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"subscription has no active payment"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{months:}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "недопустимая длительность",
			body:           `{"months":5}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/subscriptions/5/renew", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "5")
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
