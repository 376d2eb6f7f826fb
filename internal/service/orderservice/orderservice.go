package orderservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ilyakarev/gomarket/internal/domain"
	"github.com/ilyakarev/gomarket/internal/events"
	"github.com/ilyakarev/gomarket/internal/pg"
	"github.com/ilyakarev/gomarket/pkg/metrics"
	"github.com/ilyakarev/gomarket/pkg/ordernum"
	"go.uber.org/zap"
)

type OrderRepo interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	CreateItems(ctx context.Context, orderID int64, items []domain.OrderItem) error
	GetByID(ctx context.Context, orderID int64) (*domain.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	GetItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
}

type ProductRepo interface {
	GetOptionDetails(ctx context.Context, optionIDs []int64) ([]domain.ProductOptionDetail, error)
	ReserveStock(ctx context.Context, optionID int64, quantity int) (int64, error)
}

type UserRepo interface {
	GetByID(ctx context.Context, userID int64) (*domain.User, error)
}

type CouponRepo interface {
	GetByID(ctx context.Context, couponID int64) (*domain.Coupon, error)
	GetUnusedUserCoupon(ctx context.Context, userID, couponID int64) (*domain.UserCoupon, error)
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOptionNotFound     = errors.New("product option not found")
	ErrEmptyOrder         = errors.New("order has no items")
	ErrInvalidQuantity    = errors.New("item quantity must be positive")
	ErrStockInsufficient  = errors.New("insufficient stock")
	ErrInvalidPointAmount = errors.New("invalid point amount")
	// ErrContention marks a bounded lock wait that ran out; safe to retry.
	ErrContention = errors.New("order creation contended, retry later")
)

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductOptionID int64
	Quantity        int
}

type Service struct {
	orderRepo   OrderRepo
	productRepo ProductRepo
	userRepo    UserRepo
	couponRepo  CouponRepo
	txManager   pg.TXManager
	events      *events.Publisher
	orderTTL    time.Duration
}

func New(
	orderRepo OrderRepo,
	productRepo ProductRepo,
	userRepo UserRepo,
	couponRepo CouponRepo,
	txManager pg.TXManager,
	publisher *events.Publisher,
	orderTTL time.Duration,
) *Service {
	return &Service{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		couponRepo:  couponRepo,
		txManager:   txManager,
		events:      publisher,
		orderTTL:    orderTTL,
	}
}

// CreateOrder reserves stock for every requested item and records a
// PENDING order with its amounts settled. Reservation is all or nothing:
// any item short on stock rolls back every reservation made before it.
//
// A coupon that turns out to be unusable (expired, below the minimum
// order amount, or not held unused by the user) is ignored rather than
// failing the order; points are only earmarked here and debited at
// payment.
func (s *Service) CreateOrder(ctx context.Context, userID int64, items []OrderItemInput, couponID *int64, usedPoints int64) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}
	if usedPoints < 0 {
		return nil, ErrInvalidPointAmount
	}

	var order *domain.Order
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		details, err := s.loadOptions(ctx, items)
		if err != nil {
			return err
		}

		var totalAmount int64
		orderItems := make([]domain.OrderItem, 0, len(items))
		for _, item := range items {
			detail := details[item.ProductOptionID]
			rows, err := s.productRepo.ReserveStock(ctx, item.ProductOptionID, item.Quantity)
			if err != nil {
				return err
			}
			if rows == 0 {
				return fmt.Errorf("option %d: %w", item.ProductOptionID, ErrStockInsufficient)
			}

			subtotal := detail.UnitPrice() * int64(item.Quantity)
			totalAmount += subtotal
			orderItems = append(orderItems, domain.OrderItem{
				ProductID:       detail.Option.ProductID,
				ProductOptionID: item.ProductOptionID,
				ProductName:     detail.ProductName,
				OptionName:      detail.Option.OptionName,
				UnitPrice:       detail.UnitPrice(),
				Quantity:        item.Quantity,
				Subtotal:        subtotal,
			})
		}

		now := time.Now()
		discountAmount, appliedCouponID := s.applyCoupon(ctx, userID, couponID, totalAmount, now)

		finalAmount := totalAmount - discountAmount - usedPoints
		if finalAmount < 0 {
			return ErrInvalidPointAmount
		}

		number, err := ordernum.Generate()
		if err != nil {
			return fmt.Errorf("failed to generate order number: %w", err)
		}

		order, err = s.orderRepo.Create(ctx, &domain.Order{
			UserID:         userID,
			OrderNumber:    number,
			Status:         domain.OrderStatusPending,
			TotalAmount:    totalAmount,
			DiscountAmount: discountAmount,
			UsedPoints:     usedPoints,
			FinalAmount:    finalAmount,
			CouponID:       appliedCouponID,
			ExpiresAt:      now.Add(s.orderTTL),
		})
		if err != nil {
			return err
		}
		return s.orderRepo.CreateItems(ctx, order.ID, orderItems)
	})
	if err != nil {
		if pg.IsLockTimeout(err) {
			metrics.OrdersFailedTotal.WithLabelValues("contention").Inc()
			return nil, ErrContention
		}
		switch {
		case errors.Is(err, ErrStockInsufficient):
			metrics.OrdersFailedTotal.WithLabelValues("stock_insufficient").Inc()
		case errors.Is(err, ErrInvalidPointAmount):
			metrics.OrdersFailedTotal.WithLabelValues("invalid_points").Inc()
		}
		return nil, err
	}

	metrics.OrdersCreatedTotal.Inc()
	zap.L().Info("order created",
		zap.String("orderNumber", order.OrderNumber),
		zap.Int64("userID", userID),
		zap.Int64("finalAmount", order.FinalAmount))
	s.events.PublishOrderCreated(ctx, order.ID, order.OrderNumber, userID, order.TotalAmount, order.FinalAmount)

	return order, nil
}

// loadOptions resolves every distinct requested option and fails on the
// first one missing.
func (s *Service) loadOptions(ctx context.Context, items []OrderItemInput) (map[int64]domain.ProductOptionDetail, error) {
	optionIDs := make([]int64, 0, len(items))
	seen := make(map[int64]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductOptionID] {
			seen[item.ProductOptionID] = true
			optionIDs = append(optionIDs, item.ProductOptionID)
		}
	}

	details, err := s.productRepo.GetOptionDetails(ctx, optionIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.ProductOptionDetail, len(details))
	for _, detail := range details {
		byID[detail.Option.ID] = detail
	}
	for _, id := range optionIDs {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("option %d: %w", id, ErrOptionNotFound)
		}
	}
	return byID, nil
}

// applyCoupon resolves the requested coupon against what the user actually
// holds. Anything short of a usable, unused grant results in no discount.
func (s *Service) applyCoupon(ctx context.Context, userID int64, couponID *int64, totalAmount int64, now time.Time) (int64, *int64) {
	if couponID == nil {
		return 0, nil
	}

	userCoupon, err := s.couponRepo.GetUnusedUserCoupon(ctx, userID, *couponID)
	if err != nil || userCoupon == nil {
		if err != nil {
			zap.L().Warn("failed to look up user coupon", zap.Error(err))
		}
		return 0, nil
	}
	coupon, err := s.couponRepo.GetByID(ctx, *couponID)
	if err != nil || coupon == nil {
		if err != nil {
			zap.L().Warn("failed to look up coupon", zap.Error(err))
		}
		return 0, nil
	}
	if !coupon.Usable(totalAmount, now) {
		return 0, nil
	}
	return coupon.Discount(totalAmount), couponID
}

// GetOrder returns the order together with its items.
func (s *Service) GetOrder(ctx context.Context, orderID int64) (*domain.Order, []domain.OrderItem, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return s.withItems(ctx, order)
}

// GetOrderByNumber returns the order together with its items.
func (s *Service) GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, []domain.OrderItem, error) {
	order, err := s.orderRepo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, nil, err
	}
	return s.withItems(ctx, order)
}

func (s *Service) withItems(ctx context.Context, order *domain.Order) (*domain.Order, []domain.OrderItem, error) {
	if order == nil {
		return nil, nil, ErrOrderNotFound
	}
	items, err := s.orderRepo.GetItems(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}
