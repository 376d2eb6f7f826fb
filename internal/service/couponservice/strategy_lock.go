package couponservice

import (
	"context"

	"github.com/ilyakarev/gomarket/internal/domain"
	"github.com/ilyakarev/gomarket/internal/pg"
	"go.uber.org/zap"
)

// LockStrategy enforces the issuance policy with a pessimistic row lock on
// the coupon: dedup check, cap check, grant insert and counter increment
// all happen while the lock is held, in one transaction.
type LockStrategy struct {
	repo      CouponRepo
	txManager pg.TXManager
}

func NewLockStrategy(repo CouponRepo, txManager pg.TXManager) *LockStrategy {
	return &LockStrategy{
		repo:      repo,
		txManager: txManager,
	}
}

func (s *LockStrategy) Issue(ctx context.Context, couponID, userID int64) (*domain.UserCoupon, error) {
	var userCoupon *domain.UserCoupon

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		coupon, err := s.repo.GetByIDForUpdate(ctx, couponID)
		if err != nil {
			return err
		}
		if coupon == nil {
			return ErrCouponNotFound
		}

		existing, err := s.repo.GetUserCoupon(ctx, userID, couponID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrCouponAlreadyIssued
		}

		if coupon.IssuedCount >= coupon.MaxIssueCount {
			return ErrCouponExhausted
		}

		rows, err := s.repo.IncrementIssued(ctx, couponID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrCouponExhausted
		}

		userCoupon, err = s.repo.CreateUserCoupon(ctx, &domain.UserCoupon{
			UserID:   userID,
			CouponID: couponID,
		})
		return err
	})
	if err != nil {
		if pg.IsLockTimeout(err) {
			zap.L().Warn("coupon row lock wait timed out",
				zap.Int64("couponID", couponID),
				zap.Int64("userID", userID))
			return nil, ErrContention
		}
		if pg.IsUniqueViolation(err) {
			return nil, ErrCouponAlreadyIssued
		}
		return nil, err
	}

	return userCoupon, nil
}
