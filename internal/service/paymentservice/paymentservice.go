package paymentservice

import (
	"context"
	"errors"
	"time"

	"github.com/ilyakarev/gomarket/internal/domain"
	"github.com/ilyakarev/gomarket/internal/events"
	"github.com/ilyakarev/gomarket/internal/pg"
	"github.com/ilyakarev/gomarket/pkg/metrics"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OrderRepo interface {
	GetByIDForUpdate(ctx context.Context, orderID int64) (*domain.Order, error)
	MarkPaid(ctx context.Context, orderID int64, paidAt time.Time) (int64, error)
}

type UserRepo interface {
	DebitPoints(ctx context.Context, userID, amount int64) (int64, error)
	CreateHistory(ctx context.Context, history *domain.PointHistory) (*domain.PointHistory, error)
}

type CouponRepo interface {
	MarkUsed(ctx context.Context, userID, couponID, orderID int64, usedAt time.Time) (int64, error)
}

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidOrderStatus = errors.New("order is not payable")
	ErrPointInsufficient  = errors.New("insufficient point balance")
	ErrCouponUnusable     = errors.New("coupon already used or revoked")
	// ErrContention marks a bounded lock wait that ran out; safe to retry.
	ErrContention = errors.New("payment contended, retry later")
)

// PaymentResult is the settled state of a paid order.
type PaymentResult struct {
	OrderID     int64
	OrderNumber string
	Status      string
	FinalAmount int64
	PaidAt      time.Time
}

type Service struct {
	orderRepo  OrderRepo
	userRepo   UserRepo
	couponRepo CouponRepo
	txManager  pg.TXManager
	events     *events.Publisher
}

func New(orderRepo OrderRepo, userRepo UserRepo, couponRepo CouponRepo, txManager pg.TXManager, publisher *events.Publisher) *Service {
	return &Service{
		orderRepo:  orderRepo,
		userRepo:   userRepo,
		couponRepo: couponRepo,
		txManager:  txManager,
		events:     publisher,
	}
}

// Pay settles a PENDING order in one transaction: earmarked points are
// debited with a USE history entry, the applied coupon is consumed, and
// the order moves to PAID. Any step failing rolls the whole settlement
// back, so paying the same order twice can never double-debit.
func (s *Service) Pay(ctx context.Context, orderID int64) (*PaymentResult, error) {
	var result *PaymentResult
	var order *domain.Order

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orderRepo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status != domain.OrderStatusPending {
			return ErrInvalidOrderStatus
		}

		if order.UsedPoints > 0 {
			balanceAfter, err := s.userRepo.DebitPoints(ctx, order.UserID, order.UsedPoints)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return ErrPointInsufficient
				}
				return err
			}
			_, err = s.userRepo.CreateHistory(ctx, &domain.PointHistory{
				UserID:       order.UserID,
				Type:         domain.PointTypeUse,
				Amount:       order.UsedPoints,
				BalanceAfter: balanceAfter,
				OrderID:      &order.ID,
			})
			if err != nil {
				return err
			}
		}

		paidAt := time.Now()
		if order.CouponID != nil {
			rows, err := s.couponRepo.MarkUsed(ctx, order.UserID, *order.CouponID, order.ID, paidAt)
			if err != nil {
				return err
			}
			if rows == 0 {
				return ErrCouponUnusable
			}
		}

		rows, err := s.orderRepo.MarkPaid(ctx, order.ID, paidAt)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInvalidOrderStatus
		}

		result = &PaymentResult{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Status:      domain.OrderStatusPaid,
			FinalAmount: order.FinalAmount,
			PaidAt:      paidAt,
		}
		return nil
	})
	if err != nil {
		if pg.IsLockTimeout(err) {
			metrics.PaymentsFailedTotal.WithLabelValues("contention").Inc()
			return nil, ErrContention
		}
		switch {
		case errors.Is(err, ErrPointInsufficient):
			metrics.PaymentsFailedTotal.WithLabelValues("points_insufficient").Inc()
		case errors.Is(err, ErrInvalidOrderStatus):
			metrics.PaymentsFailedTotal.WithLabelValues("invalid_status").Inc()
		case errors.Is(err, ErrCouponUnusable):
			metrics.PaymentsFailedTotal.WithLabelValues("coupon_unusable").Inc()
		}
		return nil, err
	}

	metrics.PaymentsTotal.Inc()
	zap.L().Info("order paid",
		zap.String("orderNumber", result.OrderNumber),
		zap.Int64("userID", order.UserID),
		zap.Int64("finalAmount", result.FinalAmount))
	s.events.PublishOrderPaid(ctx, order.ID, order.OrderNumber, order.UserID, order.FinalAmount, order.UsedPoints, order.CouponID)

	return result, nil
}
