package couponservice

import (
	"context"
	"errors"

	"github.com/ilyakarev/gomarket/internal/cache"
	"github.com/ilyakarev/gomarket/internal/domain"
	"github.com/ilyakarev/gomarket/internal/events"
	"github.com/ilyakarev/gomarket/pkg/metrics"
	"go.uber.org/zap"
)

// CouponRepo is the ledger-store side of coupon issuance.
type CouponRepo interface {
	GetByID(ctx context.Context, couponID int64) (*domain.Coupon, error)
	GetByIDForUpdate(ctx context.Context, couponID int64) (*domain.Coupon, error)
	IncrementIssued(ctx context.Context, couponID int64) (int64, error)
	GetUserCoupon(ctx context.Context, userID, couponID int64) (*domain.UserCoupon, error)
	CreateUserCoupon(ctx context.Context, userCoupon *domain.UserCoupon) (*domain.UserCoupon, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.UserCoupon, error)
}

// FastCache is the atomic set layer in front of the ledger store, used by
// the cache strategy only.
type FastCache interface {
	TryIssue(ctx context.Context, couponID, userID int64, maxIssueCount int) (cache.IssueResult, error)
	Revoke(ctx context.Context, couponID, userID int64) error
	MarkClosed(ctx context.Context, couponID int64) error
	IsClosed(ctx context.Context, couponID int64) (bool, error)
}

// IssueStrategy is one way of enforcing the issuance policy: at most one
// grant per user, never more than max_issue_count grants in total.
type IssueStrategy interface {
	Issue(ctx context.Context, couponID, userID int64) (*domain.UserCoupon, error)
}

var (
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponExhausted     = errors.New("coupon issue limit exceeded")
	ErrCouponAlreadyIssued = errors.New("coupon already issued to user")
	// ErrContention marks a bounded lock wait that ran out. Unlike the
	// business failures above it is safe to retry.
	ErrContention = errors.New("coupon issuance contended, retry later")
)

type Service struct {
	strategy IssueStrategy
	repo     CouponRepo
	events   *events.Publisher
}

func New(strategy IssueStrategy, repo CouponRepo, publisher *events.Publisher) *Service {
	return &Service{
		strategy: strategy,
		repo:     repo,
		events:   publisher,
	}
}

// Issue grants the coupon to the user through the configured strategy.
func (s *Service) Issue(ctx context.Context, couponID, userID int64) (*domain.UserCoupon, error) {
	userCoupon, err := s.strategy.Issue(ctx, couponID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrCouponExhausted):
			metrics.CouponIssueRejectedTotal.WithLabelValues("exhausted").Inc()
		case errors.Is(err, ErrCouponAlreadyIssued):
			metrics.CouponIssueRejectedTotal.WithLabelValues("already_issued").Inc()
		case errors.Is(err, ErrContention):
			metrics.CouponIssueRejectedTotal.WithLabelValues("contention").Inc()
		}
		return nil, err
	}

	metrics.CouponsIssuedTotal.Inc()
	zap.L().Info("coupon issued",
		zap.Int64("couponID", couponID),
		zap.Int64("userID", userID))
	s.events.PublishCouponIssued(ctx, couponID, userID, userCoupon.ID)

	return userCoupon, nil
}

// GetCoupon returns the coupon definition.
func (s *Service) GetCoupon(ctx context.Context, couponID int64) (*domain.Coupon, error) {
	coupon, err := s.repo.GetByID(ctx, couponID)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// GetUserCoupons lists the user's issued coupons, newest first.
func (s *Service) GetUserCoupons(ctx context.Context, userID int64) ([]domain.UserCoupon, error) {
	coupons, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		zap.L().Error("failed to list user coupons", zap.Error(err))
		return nil, err
	}
	return coupons, nil
}
