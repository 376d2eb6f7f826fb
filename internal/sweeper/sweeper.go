package sweeper

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ilyakarev/gomarket/internal/config"
	"github.com/ilyakarev/gomarket/internal/domain"
	"github.com/ilyakarev/gomarket/internal/pg"
	"github.com/ilyakarev/gomarket/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var sweepingOrders sync.Map

type OrderRepo interface {
	FindExpiredPending(ctx context.Context, now time.Time, limit uint32) ([]domain.Order, error)
	GetItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	MarkCancelled(ctx context.Context, orderID int64) (int64, error)
}

type ProductRepo interface {
	ReleaseStock(ctx context.Context, optionID int64, quantity int) error
}

type CouponRepo interface {
	ListActive(ctx context.Context, now time.Time) ([]domain.Coupon, error)
	UserIDsWithCoupon(ctx context.Context, couponID int64) ([]int64, error)
}

// FastCache is the slice of the cache client the reconciliation pass
// needs; nil disables that pass.
type FastCache interface {
	IssuedMembers(ctx context.Context, couponID int64) ([]int64, error)
	Revoke(ctx context.Context, couponID, userID int64) error
}

// Service periodically cancels PENDING orders past their expiry, giving
// their stock back, and reconciles the coupon fast cache against the
// ledger store.
type Service struct {
	orderRepo   OrderRepo
	productRepo ProductRepo
	couponRepo  CouponRepo
	cache       FastCache
	txManager   pg.TXManager
	limit       uint32
	workerPool  WorkerPoolI
	interval    time.Duration
}

func New(cfg *config.Config, orderRepo OrderRepo, productRepo ProductRepo, couponRepo CouponRepo, fastCache FastCache, txManager pg.TXManager) *Service {
	return &Service{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		cache:       fastCache,
		txManager:   txManager,
		limit:       1000,
		workerPool:  NewWorkerPool(10),
		interval:    cfg.SweepInterval,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Sweeper service started")
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping sweeper")
			s.workerPool.Close()
			return
		case <-ticker.C:
			s.expireOrders(ctx)
			if s.cache != nil {
				s.reconcileCache(ctx)
			}
		}
	}
}

func (s *Service) expireOrders(ctx context.Context) {
	orders, err := s.orderRepo.FindExpiredPending(ctx, time.Now(), atomic.LoadUint32(&s.limit))
	if err != nil {
		zap.L().Error("Failed to fetch expired orders", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, order := range orders {
		order := order

		if _, loaded := sweepingOrders.LoadOrStore(order.ID, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer sweepingOrders.Delete(order.ID)
				return s.expireOrder(ctx, order)
			})
			if err != nil {
				sweepingOrders.Delete(order.ID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error expiring orders", zap.Error(err))
	}
}

// expireOrder cancels one expired order and gives its reserved stock
// back, in a single transaction. A zero-row cancel means someone paid or
// cancelled the order since it was fetched, and the stock stays put.
func (s *Service) expireOrder(ctx context.Context, order domain.Order) error {
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		rows, err := s.orderRepo.MarkCancelled(ctx, order.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return nil
		}

		items, err := s.orderRepo.GetItems(ctx, order.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := s.productRepo.ReleaseStock(ctx, item.ProductOptionID, item.Quantity); err != nil {
				return err
			}
		}

		metrics.OrdersExpiredTotal.Inc()
		zap.L().Info("Expired order cancelled",
			zap.String("orderNumber", order.OrderNumber),
			zap.Int64("orderID", order.ID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to expire order %s: %w", order.OrderNumber, err)
	}
	return nil
}

// reconcileCache revokes cache members whose grant never made it to the
// ledger store, so a failed persist cannot lock a user out for good.
func (s *Service) reconcileCache(ctx context.Context) {
	coupons, err := s.couponRepo.ListActive(ctx, time.Now())
	if err != nil {
		zap.L().Error("Failed to list active coupons", zap.Error(err))
		return
	}

	for _, coupon := range coupons {
		members, err := s.cache.IssuedMembers(ctx, coupon.ID)
		if err != nil {
			zap.L().Error("Failed to read cache members", zap.Int64("couponID", coupon.ID), zap.Error(err))
			continue
		}
		if len(members) == 0 {
			continue
		}

		granted, err := s.couponRepo.UserIDsWithCoupon(ctx, coupon.ID)
		if err != nil {
			zap.L().Error("Failed to list granted users", zap.Int64("couponID", coupon.ID), zap.Error(err))
			continue
		}
		persisted := make(map[int64]bool, len(granted))
		for _, userID := range granted {
			persisted[userID] = true
		}

		for _, userID := range members {
			if persisted[userID] {
				continue
			}
			if err := s.cache.Revoke(ctx, coupon.ID, userID); err != nil {
				zap.L().Error("Failed to revoke orphan cache member",
					zap.Int64("couponID", coupon.ID),
					zap.Int64("userID", userID),
					zap.Error(err))
				continue
			}
			zap.L().Warn("Revoked orphan cache member",
				zap.Int64("couponID", coupon.ID),
				zap.Int64("userID", userID))
		}
	}
}
