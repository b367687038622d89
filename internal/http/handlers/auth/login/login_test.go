package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HarshG200/neuron-edtech/internal/models"
	authsvc "github.com/HarshG200/neuron-edtech/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, email, rawPassword string) (string, models.UserProfile, error) {
	args := m.Called(ctx, email, rawPassword)
	return args.String(0), args.Get(1).(models.UserProfile), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	profile := models.UserProfile{Email: "user@example.com", Name: "Asha"}

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMocks     func(*ServiceMock)
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:        "valid login",
			requestBody: Request{Email: "user@example.com", Password: "secret123"},
			setupMocks: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "user@example.com", "secret123").
					Return("tok", profile, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - missing password",
			requestBody:    Request{Email: "user@example.com"},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "field Password is a required field",
		},
		{
			name:        "wrong credentials",
			requestBody: Request{Email: "user@example.com", Password: "nope"},
			setupMocks: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "user@example.com", "nope").
					Return("", models.UserProfile{}, authsvc.ErrInvalidCredentials).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "Invalid credentials",
		},
		{
			name:        "service failure",
			requestBody: Request{Email: "user@example.com", Password: "secret123"},
			setupMocks: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "user@example.com", "secret123").
					Return("", models.UserProfile{}, errors.New("db down")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "failed to log in",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.setupMocks != nil {
				tt.setupMocks(svc)
			}
			handler := New(newNoopLogger(), svc)

			body, err := json.Marshal(tt.requestBody)
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatusCode, rr.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp["status"])
			if tt.wantError != "" {
				assert.Contains(t, resp["error"], tt.wantError)
			} else {
				data := resp["data"].(map[string]any)
				assert.Equal(t, "tok", data["access_token"])
				assert.Equal(t, "bearer", data["token_type"])
			}
			svc.AssertExpectations(t)
		})
	}
}
