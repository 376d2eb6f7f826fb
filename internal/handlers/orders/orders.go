package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ilyakarev/gomarket/internal/domain"
	"github.com/ilyakarev/gomarket/internal/dto"
	orderservice "github.com/ilyakarev/gomarket/internal/service/orderservice"
	paymentservice "github.com/ilyakarev/gomarket/internal/service/paymentservice"
	"github.com/ilyakarev/gomarket/pkg/ordernum"
	"github.com/ilyakarev/gomarket/pkg/utils"
	"github.com/go-chi/chi/v5"
)

type OrderService interface {
	CreateOrder(ctx context.Context, userID int64, items []orderservice.OrderItemInput, couponID *int64, usedPoints int64) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*domain.Order, []domain.OrderItem, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, []domain.OrderItem, error)
}

type PaymentService interface {
	Pay(ctx context.Context, orderID int64) (*paymentservice.PaymentResult, error)
}

type OrderHandler struct {
	orderService   OrderService
	paymentService PaymentService
}

func New(orderService OrderService, paymentService PaymentService) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		paymentService: paymentService,
	}
}

// CreateOrder godoc
//
//	@Summary		Create an order
//	@Description	Reserve stock for every item and create a PENDING order with amounts settled. Reservation is all or nothing.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateOrderRequestDTO	true	"Order payload"
//	@Success		201		{object}	dto.OrderResponseDTO		"Created order"
//	@Failure		400		{object}	utils.Response				"Insufficient stock or invalid payload"
//	@Failure		404		{object}	utils.Response				"User or product option not found"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Failure		503		{object}	utils.Response				"Stock row contended, retry later"
//	@Router			/api/orders [post]
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	items := make([]orderservice.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = orderservice.OrderItemInput{
			ProductOptionID: item.ProductOptionID,
			Quantity:        item.Quantity,
		}
	}

	order, err := h.orderService.CreateOrder(r.Context(), req.UserID, items, req.CouponID, req.UsedPoints)
	if err != nil {
		switch {
		case errors.Is(err, orderservice.ErrUserNotFound),
			errors.Is(err, orderservice.ErrOptionNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, orderservice.ErrStockInsufficient),
			errors.Is(err, orderservice.ErrEmptyOrder),
			errors.Is(err, orderservice.ErrInvalidQuantity),
			errors.Is(err, orderservice.ErrInvalidPointAmount):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, orderservice.ErrContention):
			w.Header().Set("Retry-After", "1")
			utils.RespondWithError(w, http.StatusServiceUnavailable, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toOrderDTO(order, nil))
}

// GetOrder godoc
//
//	@Summary		Get an order
//	@Description	Retrieve an order and its items by ID.
//	@Tags			Orders
//	@Produce		json
//	@Param			orderID	path		int						true	"Order ID"
//	@Success		200		{object}	dto.OrderResponseDTO	"Order with items"
//	@Failure		404		{object}	utils.Response			"Order not found"
//	@Failure		500		{object}	utils.Response			"Internal server error"
//	@Router			/api/orders/{orderID} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, items, err := h.orderService.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, orderservice.ErrOrderNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toOrderDTO(order, items))
}

// GetOrderByNumber godoc
//
//	@Summary		Get an order by its number
//	@Description	Retrieve an order and its items by the ORD-prefixed order number.
//	@Tags			Orders
//	@Produce		json
//	@Param			orderNumber	path		string					true	"Order number"
//	@Success		200			{object}	dto.OrderResponseDTO	"Order with items"
//	@Failure		404			{object}	utils.Response			"Order not found"
//	@Failure		422			{object}	utils.Response			"Invalid order number"
//	@Failure		500			{object}	utils.Response			"Internal server error"
//	@Router			/api/orders/number/{orderNumber} [get]
func (h *OrderHandler) GetOrderByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "orderNumber")
	if !ordernum.IsValid(number) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Invalid order number")
		return
	}

	order, items, err := h.orderService.GetOrderByNumber(r.Context(), number)
	if err != nil {
		if errors.Is(err, orderservice.ErrOrderNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toOrderDTO(order, items))
}

// Pay godoc
//
//	@Summary		Pay for an order
//	@Description	Settle a PENDING order: debit earmarked points, consume the applied coupon, and mark the order PAID, all atomically.
//	@Tags			Orders
//	@Produce		json
//	@Param			orderID	path		int						true	"Order ID"
//	@Success		200		{object}	dto.PaymentResponseDTO	"Payment result"
//	@Failure		400		{object}	utils.Response			"Order is not payable"
//	@Failure		402		{object}	utils.Response			"Insufficient point balance"
//	@Failure		404		{object}	utils.Response			"Order not found"
//	@Failure		503		{object}	utils.Response			"Payment contended, retry later"
//	@Router			/api/orders/{orderID}/pay [post]
func (h *OrderHandler) Pay(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	result, err := h.paymentService.Pay(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, paymentservice.ErrOrderNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, paymentservice.ErrInvalidOrderStatus),
			errors.Is(err, paymentservice.ErrCouponUnusable):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, paymentservice.ErrPointInsufficient):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, paymentservice.ErrContention):
			w.Header().Set("Retry-After", "1")
			utils.RespondWithError(w, http.StatusServiceUnavailable, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.PaymentResponseDTO{
		OrderID:     result.OrderID,
		OrderNumber: result.OrderNumber,
		Status:      result.Status,
		FinalAmount: result.FinalAmount,
		PaidAt:      result.PaidAt,
	})
}

func toOrderDTO(order *domain.Order, items []domain.OrderItem) dto.OrderResponseDTO {
	resp := dto.OrderResponseDTO{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		UserID:         order.UserID,
		Status:         order.Status,
		TotalAmount:    order.TotalAmount,
		DiscountAmount: order.DiscountAmount,
		UsedPoints:     order.UsedPoints,
		FinalAmount:    order.FinalAmount,
		CouponID:       order.CouponID,
		CreatedAt:      order.CreatedAt,
		ExpiresAt:      order.ExpiresAt,
		PaidAt:         order.PaidAt,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.OrderItemResponseDTO{
			ProductID:       item.ProductID,
			ProductOptionID: item.ProductOptionID,
			ProductName:     item.ProductName,
			OptionName:      item.OptionName,
			UnitPrice:       item.UnitPrice,
			Quantity:        item.Quantity,
			Subtotal:        item.Subtotal,
		})
	}
	return resp
}
