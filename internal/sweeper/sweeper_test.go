package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ilyakarev/gomarket/internal/domain"
	"github.com/ilyakarev/gomarket/internal/pg"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

// inlinePool executes tasks synchronously so tests see every side effect
// before the assertion phase.
type inlinePool struct{}

func (inlinePool) AddTask(_ context.Context, task Task) error { return task() }
func (inlinePool) Close()                                     {}

type sweeperMocks struct {
	orderRepo   *MockOrderRepo
	productRepo *MockProductRepo
	couponRepo  *MockCouponRepo
	cache       *MockFastCache
	txManager   *pg.MockTXManager
}

func newTestService(t *testing.T, withCache bool) (*Service, sweeperMocks) {
	ctrl := gomock.NewController(t)
	m := sweeperMocks{
		orderRepo:   NewMockOrderRepo(ctrl),
		productRepo: NewMockProductRepo(ctrl),
		couponRepo:  NewMockCouponRepo(ctrl),
		cache:       NewMockFastCache(ctrl),
		txManager:   pg.NewMockTXManager(ctrl),
	}
	s := &Service{
		orderRepo:   m.orderRepo,
		productRepo: m.productRepo,
		couponRepo:  m.couponRepo,
		txManager:   m.txManager,
		limit:       1000,
		workerPool:  inlinePool{},
		interval:    time.Minute,
	}
	if withCache {
		s.cache = m.cache
	}
	return s, m
}

func passthroughTx(m *pg.MockTXManager) {
	m.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	).AnyTimes()
}

func TestExpireOrderReleasesStock(t *testing.T) {
	s, m := newTestService(t, false)
	passthroughTx(m.txManager)

	order := domain.Order{ID: 42, OrderNumber: "79927398713", Status: domain.OrderStatusPending}
	items := []domain.OrderItem{
		{ID: 1, OrderID: 42, ProductOptionID: 7, Quantity: 2},
		{ID: 2, OrderID: 42, ProductOptionID: 8, Quantity: 1},
	}

	m.orderRepo.EXPECT().MarkCancelled(gomock.Any(), int64(42)).Return(int64(1), nil)
	m.orderRepo.EXPECT().GetItems(gomock.Any(), int64(42)).Return(items, nil)
	m.productRepo.EXPECT().ReleaseStock(gomock.Any(), int64(7), 2).Return(nil)
	m.productRepo.EXPECT().ReleaseStock(gomock.Any(), int64(8), 1).Return(nil)

	assert.NoError(t, s.expireOrder(context.Background(), order))
}

func TestExpireOrderAlreadySettled(t *testing.T) {
	s, m := newTestService(t, false)
	passthroughTx(m.txManager)

	// Someone paid the order between the fetch and the sweep: the cancel
	// touches zero rows and no stock moves.
	m.orderRepo.EXPECT().MarkCancelled(gomock.Any(), int64(42)).Return(int64(0), nil)

	err := s.expireOrder(context.Background(), domain.Order{ID: 42, OrderNumber: "79927398713"})
	assert.NoError(t, err)
}

func TestExpireOrderReleaseFailure(t *testing.T) {
	s, m := newTestService(t, false)
	passthroughTx(m.txManager)

	m.orderRepo.EXPECT().MarkCancelled(gomock.Any(), int64(42)).Return(int64(1), nil)
	m.orderRepo.EXPECT().GetItems(gomock.Any(), int64(42)).
		Return([]domain.OrderItem{{ID: 1, OrderID: 42, ProductOptionID: 7, Quantity: 2}}, nil)
	m.productRepo.EXPECT().ReleaseStock(gomock.Any(), int64(7), 2).
		Return(errors.New("some error"))

	err := s.expireOrder(context.Background(), domain.Order{ID: 42, OrderNumber: "79927398713"})
	assert.Error(t, err)
}

func TestExpireOrdersSkipsInFlight(t *testing.T) {
	s, m := newTestService(t, false)
	passthroughTx(m.txManager)

	orders := []domain.Order{
		{ID: 42, OrderNumber: "79927398713", Status: domain.OrderStatusPending},
		{ID: 43, OrderNumber: "49927398716", Status: domain.OrderStatusPending},
	}
	m.orderRepo.EXPECT().FindExpiredPending(gomock.Any(), gomock.Any(), uint32(1000)).
		Return(orders, nil)

	// Order 43 is already being swept by another tick.
	sweepingOrders.Store(int64(43), struct{}{})
	defer sweepingOrders.Delete(int64(43))

	m.orderRepo.EXPECT().MarkCancelled(gomock.Any(), int64(42)).Return(int64(0), nil)

	s.expireOrders(context.Background())

	_, stillMarked := sweepingOrders.Load(int64(42))
	assert.False(t, stillMarked)
}

func TestReconcileCacheRevokesOrphans(t *testing.T) {
	s, m := newTestService(t, true)

	coupons := []domain.Coupon{{ID: 5, Name: "LAUNCH", MaxIssueCount: 100}}
	m.couponRepo.EXPECT().ListActive(gomock.Any(), gomock.Any()).Return(coupons, nil)
	m.cache.EXPECT().IssuedMembers(gomock.Any(), int64(5)).
		Return([]int64{10, 11, 12}, nil)
	m.couponRepo.EXPECT().UserIDsWithCoupon(gomock.Any(), int64(5)).
		Return([]int64{10, 12}, nil)

	// Only the member missing from the ledger gets revoked.
	m.cache.EXPECT().Revoke(gomock.Any(), int64(5), int64(11)).Return(nil)

	s.reconcileCache(context.Background())
}

func TestReconcileCacheEmptyMembers(t *testing.T) {
	s, m := newTestService(t, true)

	m.couponRepo.EXPECT().ListActive(gomock.Any(), gomock.Any()).
		Return([]domain.Coupon{{ID: 5}}, nil)
	m.cache.EXPECT().IssuedMembers(gomock.Any(), int64(5)).Return(nil, nil)

	s.reconcileCache(context.Background())
}

func TestReconcileCacheMemberReadFailure(t *testing.T) {
	s, m := newTestService(t, true)

	m.couponRepo.EXPECT().ListActive(gomock.Any(), gomock.Any()).
		Return([]domain.Coupon{{ID: 5}, {ID: 6}}, nil)

	// A failed read on one coupon must not stop the others.
	m.cache.EXPECT().IssuedMembers(gomock.Any(), int64(5)).
		Return(nil, errors.New("some error"))
	m.cache.EXPECT().IssuedMembers(gomock.Any(), int64(6)).
		Return([]int64{20}, nil)
	m.couponRepo.EXPECT().UserIDsWithCoupon(gomock.Any(), int64(6)).
		Return([]int64{20}, nil)

	s.reconcileCache(context.Background())
}
