package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ilyakarev/gomarket/internal/domain"
	"github.com/ilyakarev/gomarket/internal/dto"
	orderservice "github.com/ilyakarev/gomarket/internal/service/orderservice"
	paymentservice "github.com/ilyakarev/gomarket/internal/service/paymentservice"
	"github.com/ilyakarev/gomarket/pkg/ordernum"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*OrderHandler, *MockOrderService, *MockPaymentService) {
	ctrl := gomock.NewController(t)
	orderService := NewMockOrderService(ctrl)
	paymentService := NewMockPaymentService(ctrl)
	handler := New(orderService, paymentService)
	defer ctrl.Finish()
	return handler, orderService, paymentService
}

func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateOrderHandler(t *testing.T) {
	handler, orderService, _ := NewMock(t)

	order := &domain.Order{
		ID:          77,
		UserID:      10,
		OrderNumber: "ORD123",
		Status:      domain.OrderStatusPending,
		TotalAmount: 24000,
		FinalAmount: 24000,
	}

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Order created",
			body: `{"user_id": 10, "items": [{"product_option_id": 1, "quantity": 2}]}`,
			prepareMock: func() {
				orderService.EXPECT().
					CreateOrder(gomock.Any(), int64(10), []orderservice.OrderItemInput{{ProductOptionID: 1, Quantity: 2}}, nil, int64(0)).
					Return(order, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "Invalid body",
			body:         `{`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Missing user id",
			body:         `{"items": [{"product_option_id": 1, "quantity": 1}]}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "User not found",
			body: `{"user_id": 99, "items": [{"product_option_id": 1, "quantity": 1}]}`,
			prepareMock: func() {
				orderService.EXPECT().
					CreateOrder(gomock.Any(), int64(99), gomock.Any(), nil, int64(0)).
					Return(nil, orderservice.ErrUserNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "Insufficient stock",
			body: `{"user_id": 10, "items": [{"product_option_id": 1, "quantity": 500}]}`,
			prepareMock: func() {
				orderService.EXPECT().
					CreateOrder(gomock.Any(), int64(10), gomock.Any(), nil, int64(0)).
					Return(nil, orderservice.ErrStockInsufficient)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Invalid points",
			body: `{"user_id": 10, "items": [{"product_option_id": 1, "quantity": 1}], "used_points": -5}`,
			prepareMock: func() {
				orderService.EXPECT().
					CreateOrder(gomock.Any(), int64(10), gomock.Any(), nil, int64(-5)).
					Return(nil, orderservice.ErrInvalidPointAmount)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Contended stock row",
			body: `{"user_id": 10, "items": [{"product_option_id": 1, "quantity": 1}]}`,
			prepareMock: func() {
				orderService.EXPECT().
					CreateOrder(gomock.Any(), int64(10), gomock.Any(), nil, int64(0)).
					Return(nil, orderservice.ErrContention)
			},
			expectedCode: http.StatusServiceUnavailable,
		},
		{
			name: "Internal error",
			body: `{"user_id": 10, "items": [{"product_option_id": 1, "quantity": 1}]}`,
			prepareMock: func() {
				orderService.EXPECT().
					CreateOrder(gomock.Any(), int64(10), gomock.Any(), nil, int64(0)).
					Return(nil, errors.New("some error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.CreateOrder(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusServiceUnavailable {
				assert.NotEmpty(t, w.Header().Get("Retry-After"))
			}
			if tt.expectedCode == http.StatusCreated {
				var body dto.OrderResponseDTO
				assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.Equal(t, "ORD123", body.OrderNumber)
				assert.Equal(t, domain.OrderStatusPending, body.Status)
			}
		})
	}
}

func TestGetOrderByNumberHandler(t *testing.T) {
	handler, orderService, _ := NewMock(t)

	number, err := ordernum.Generate()
	assert.NoError(t, err)

	order := &domain.Order{ID: 5, OrderNumber: number, Status: domain.OrderStatusPending}
	items := []domain.OrderItem{{ID: 1, OrderID: 5, ProductName: "widget", Quantity: 2}}

	tests := []struct {
		name         string
		number       string
		prepareMock  func()
		expectedCode int
	}{
		{
			name:   "Order found",
			number: number,
			prepareMock: func() {
				orderService.EXPECT().GetOrderByNumber(gomock.Any(), number).
					Return(order, items, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Invalid order number",
			number:       "not-an-order",
			prepareMock:  func() {},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name:   "Order missing",
			number: number,
			prepareMock: func() {
				orderService.EXPECT().GetOrderByNumber(gomock.Any(), number).
					Return(nil, nil, orderservice.ErrOrderNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := httptest.NewRequest(http.MethodGet, "/api/orders/number/"+tt.number, nil)
			r = withURLParams(r, map[string]string{"orderNumber": tt.number})
			w := httptest.NewRecorder()

			handler.GetOrderByNumber(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body dto.OrderResponseDTO
				assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.Len(t, body.Items, 1)
			}
		})
	}
}

func TestPayHandler(t *testing.T) {
	handler, _, paymentService := NewMock(t)

	result := &paymentservice.PaymentResult{
		OrderID:     7,
		OrderNumber: "ORD123",
		Status:      domain.OrderStatusPaid,
		FinalAmount: 20600,
		PaidAt:      time.Now(),
	}

	tests := []struct {
		name         string
		orderID      string
		prepareMock  func()
		expectedCode int
	}{
		{
			name:    "Order paid",
			orderID: "7",
			prepareMock: func() {
				paymentService.EXPECT().Pay(gomock.Any(), int64(7)).Return(result, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Invalid order id",
			orderID:      "abc",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:    "Order not found",
			orderID: "8",
			prepareMock: func() {
				paymentService.EXPECT().Pay(gomock.Any(), int64(8)).
					Return(nil, paymentservice.ErrOrderNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:    "Order not payable",
			orderID: "7",
			prepareMock: func() {
				paymentService.EXPECT().Pay(gomock.Any(), int64(7)).
					Return(nil, paymentservice.ErrInvalidOrderStatus)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:    "Insufficient points",
			orderID: "7",
			prepareMock: func() {
				paymentService.EXPECT().Pay(gomock.Any(), int64(7)).
					Return(nil, paymentservice.ErrPointInsufficient)
			},
			expectedCode: http.StatusPaymentRequired,
		},
		{
			name:    "Contention",
			orderID: "7",
			prepareMock: func() {
				paymentService.EXPECT().Pay(gomock.Any(), int64(7)).
					Return(nil, paymentservice.ErrContention)
			},
			expectedCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := httptest.NewRequest(http.MethodPost, "/api/orders/"+tt.orderID+"/pay", nil)
			r = withURLParams(r, map[string]string{"orderID": tt.orderID})
			w := httptest.NewRecorder()

			handler.Pay(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body dto.PaymentResponseDTO
				assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.Equal(t, domain.OrderStatusPaid, body.Status)
			}
		})
	}
}
