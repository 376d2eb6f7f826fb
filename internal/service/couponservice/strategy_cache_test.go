package couponservice

import (
	"context"
	"errors"
	"testing"

	"github.com/ilyakarev/gomarket/internal/cache"
	"github.com/ilyakarev/gomarket/internal/domain"
	"github.com/ilyakarev/gomarket/internal/pg"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func newCacheStrategyMock(t *testing.T) (*CacheStrategy, *MockCouponRepo, *MockFastCache, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	repo := NewMockCouponRepo(ctrl)
	fastCache := NewMockFastCache(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	strategy := NewCacheStrategy(repo, txManager, fastCache)
	defer ctrl.Finish()
	return strategy, repo, fastCache, txManager
}

func TestCacheStrategyIssue(t *testing.T) {
	coupon := &domain.Coupon{ID: 1, Name: "flash-sale", MaxIssueCount: 500}

	tests := []struct {
		name          string
		prepareMock   func(repo *MockCouponRepo, fastCache *MockFastCache, txManager *pg.MockTXManager)
		expectedError error
	}{
		{
			name: "Win persists the grant",
			prepareMock: func(repo *MockCouponRepo, fastCache *MockFastCache, txManager *pg.MockTXManager) {
				fastCache.EXPECT().IsClosed(gomock.Any(), int64(1)).Return(false, nil)
				repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(coupon, nil)
				fastCache.EXPECT().TryIssue(gomock.Any(), int64(1), int64(10), 500).
					Return(cache.IssueWin, nil)
				passthroughTx(txManager)
				repo.EXPECT().IncrementIssued(gomock.Any(), int64(1)).Return(int64(1), nil)
				repo.EXPECT().CreateUserCoupon(gomock.Any(), gomock.Any()).
					Return(&domain.UserCoupon{ID: 100, UserID: 10, CouponID: 1}, nil)
			},
		},
		{
			name: "End flag sheds the request",
			prepareMock: func(repo *MockCouponRepo, fastCache *MockFastCache, txManager *pg.MockTXManager) {
				fastCache.EXPECT().IsClosed(gomock.Any(), int64(1)).Return(true, nil)
			},
			expectedError: ErrCouponExhausted,
		},
		{
			name: "Coupon not found",
			prepareMock: func(repo *MockCouponRepo, fastCache *MockFastCache, txManager *pg.MockTXManager) {
				fastCache.EXPECT().IsClosed(gomock.Any(), int64(1)).Return(false, nil)
				repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, nil)
			},
			expectedError: ErrCouponNotFound,
		},
		{
			name: "Duplicate membership",
			prepareMock: func(repo *MockCouponRepo, fastCache *MockFastCache, txManager *pg.MockTXManager) {
				fastCache.EXPECT().IsClosed(gomock.Any(), int64(1)).Return(false, nil)
				repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(coupon, nil)
				fastCache.EXPECT().TryIssue(gomock.Any(), int64(1), int64(10), 500).
					Return(cache.IssueDuplicate, nil)
			},
			expectedError: ErrCouponAlreadyIssued,
		},
		{
			name: "Cache cap reached closes the coupon",
			prepareMock: func(repo *MockCouponRepo, fastCache *MockFastCache, txManager *pg.MockTXManager) {
				fastCache.EXPECT().IsClosed(gomock.Any(), int64(1)).Return(false, nil)
				repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(coupon, nil)
				fastCache.EXPECT().TryIssue(gomock.Any(), int64(1), int64(10), 500).
					Return(cache.IssueExhausted, nil)
				fastCache.EXPECT().MarkClosed(gomock.Any(), int64(1)).Return(nil)
			},
			expectedError: ErrCouponExhausted,
		},
		{
			name: "Ledger cap beats a stale cache win",
			prepareMock: func(repo *MockCouponRepo, fastCache *MockFastCache, txManager *pg.MockTXManager) {
				fastCache.EXPECT().IsClosed(gomock.Any(), int64(1)).Return(false, nil)
				repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(coupon, nil)
				fastCache.EXPECT().TryIssue(gomock.Any(), int64(1), int64(10), 500).
					Return(cache.IssueWin, nil)
				passthroughTx(txManager)
				repo.EXPECT().IncrementIssued(gomock.Any(), int64(1)).Return(int64(0), nil)
				fastCache.EXPECT().Revoke(gomock.Any(), int64(1), int64(10)).Return(nil)
				fastCache.EXPECT().MarkClosed(gomock.Any(), int64(1)).Return(nil)
			},
			expectedError: ErrCouponExhausted,
		},
		{
			name: "Persist failure revokes the cache member",
			prepareMock: func(repo *MockCouponRepo, fastCache *MockFastCache, txManager *pg.MockTXManager) {
				fastCache.EXPECT().IsClosed(gomock.Any(), int64(1)).Return(false, nil)
				repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(coupon, nil)
				fastCache.EXPECT().TryIssue(gomock.Any(), int64(1), int64(10), 500).
					Return(cache.IssueWin, nil)
				passthroughTx(txManager)
				repo.EXPECT().IncrementIssued(gomock.Any(), int64(1)).Return(int64(1), nil)
				repo.EXPECT().CreateUserCoupon(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("some error"))
				fastCache.EXPECT().Revoke(gomock.Any(), int64(1), int64(10)).Return(nil)
			},
			expectedError: errors.New("some error"),
		},
		{
			name: "Unique violation on persist maps to already issued",
			prepareMock: func(repo *MockCouponRepo, fastCache *MockFastCache, txManager *pg.MockTXManager) {
				fastCache.EXPECT().IsClosed(gomock.Any(), int64(1)).Return(false, nil)
				repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(coupon, nil)
				fastCache.EXPECT().TryIssue(gomock.Any(), int64(1), int64(10), 500).
					Return(cache.IssueWin, nil)
				passthroughTx(txManager)
				repo.EXPECT().IncrementIssued(gomock.Any(), int64(1)).Return(int64(1), nil)
				repo.EXPECT().CreateUserCoupon(gomock.Any(), gomock.Any()).
					Return(nil, &pgconn.PgError{Code: "23505"})
				fastCache.EXPECT().Revoke(gomock.Any(), int64(1), int64(10)).Return(nil)
			},
			expectedError: ErrCouponAlreadyIssued,
		},
		{
			name: "Cache unavailable fails the request",
			prepareMock: func(repo *MockCouponRepo, fastCache *MockFastCache, txManager *pg.MockTXManager) {
				fastCache.EXPECT().IsClosed(gomock.Any(), int64(1)).Return(false, errors.New("connection refused"))
			},
			expectedError: errors.New("fast cache unavailable: connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy, repo, fastCache, txManager := newCacheStrategyMock(t)
			tt.prepareMock(repo, fastCache, txManager)

			userCoupon, err := strategy.Issue(context.Background(), 1, 10)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, userCoupon)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, userCoupon)
			}
		})
	}
}
