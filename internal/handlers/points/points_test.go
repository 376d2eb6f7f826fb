package points

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ilyakarev/gomarket/internal/domain"
	"github.com/ilyakarev/gomarket/internal/dto"
	pointservice "github.com/ilyakarev/gomarket/internal/service/pointservice"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*PointHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func withUserID(r *http.Request, userID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("userID", userID)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestChargeHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		userID       string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name:   "Points charged",
			userID: "10",
			body:   `{"amount": 5000}`,
			prepareMock: func() {
				service.EXPECT().Charge(gomock.Any(), int64(10), int64(5000)).
					Return(int64(15000), nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Invalid user id",
			userID:       "abc",
			body:         `{"amount": 5000}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:   "Amount below minimum",
			userID: "10",
			body:   `{"amount": 10}`,
			prepareMock: func() {
				service.EXPECT().Charge(gomock.Any(), int64(10), int64(10)).
					Return(int64(0), pointservice.ErrInvalidAmount)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:   "Unknown user",
			userID: "99",
			body:   `{"amount": 5000}`,
			prepareMock: func() {
				service.EXPECT().Charge(gomock.Any(), int64(99), int64(5000)).
					Return(int64(0), pointservice.ErrUserNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:   "Internal error",
			userID: "10",
			body:   `{"amount": 5000}`,
			prepareMock: func() {
				service.EXPECT().Charge(gomock.Any(), int64(10), int64(5000)).
					Return(int64(0), errors.New("some error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := httptest.NewRequest(http.MethodPost, "/api/users/"+tt.userID+"/points/charge", bytes.NewBufferString(tt.body))
			r = withUserID(r, tt.userID)
			w := httptest.NewRecorder()

			handler.Charge(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body dto.PointBalanceResponseDTO
				assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.Equal(t, int64(15000), body.Balance)
			}
		})
	}
}

func TestGetBalanceHandler(t *testing.T) {
	handler, service := NewMock(t)

	service.EXPECT().GetBalance(gomock.Any(), int64(10)).Return(int64(7000), nil)

	r := httptest.NewRequest(http.MethodGet, "/api/users/10/points", nil)
	r = withUserID(r, "10")
	w := httptest.NewRecorder()

	handler.GetBalance(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	var body dto.PointBalanceResponseDTO
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, int64(7000), body.Balance)

	service.EXPECT().GetBalance(gomock.Any(), int64(99)).
		Return(int64(0), pointservice.ErrUserNotFound)
	r = httptest.NewRequest(http.MethodGet, "/api/users/99/points", nil)
	r = withUserID(r, "99")
	w = httptest.NewRecorder()

	handler.GetBalance(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetHistoryHandler(t *testing.T) {
	handler, service := NewMock(t)

	history := []domain.PointHistory{
		{ID: 2, UserID: 10, Type: domain.PointTypeUse, Amount: 1000, BalanceAfter: 14000},
		{ID: 1, UserID: 10, Type: domain.PointTypeCharge, Amount: 5000, BalanceAfter: 15000},
	}

	service.EXPECT().GetHistory(gomock.Any(), int64(10), "").Return(history, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/users/10/points/history", nil)
	r = withUserID(r, "10")
	w := httptest.NewRecorder()

	handler.GetHistory(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	var body []dto.PointHistoryResponseDTO
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Len(t, body, 2)
	assert.Equal(t, domain.PointTypeUse, body[0].Type)

	service.EXPECT().GetHistory(gomock.Any(), int64(10), "REFUND").
		Return(nil, pointservice.ErrInvalidHistType)
	r = httptest.NewRequest(http.MethodGet, "/api/users/10/points/history?type=REFUND", nil)
	r = withUserID(r, "10")
	w = httptest.NewRecorder()

	handler.GetHistory(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
