package couponservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/ilyakarev/gomarket/internal/cache"
	"github.com/ilyakarev/gomarket/internal/domain"
	"github.com/ilyakarev/gomarket/internal/pg"
	"go.uber.org/zap"
)

// CacheStrategy enforces the issuance policy with a single atomic script
// against the fast cache: membership (dedup) and cardinality (cap) are
// checked and the member added in one round trip. A script win is only
// provisional; the grant still has to be persisted to the ledger store,
// and a failed persist revokes the cache member so the slot is freed.
//
// The cache is never authoritative: the unique index on user_coupons and
// the bounded issued_count increment back every cache decision.
type CacheStrategy struct {
	repo      CouponRepo
	txManager pg.TXManager
	cache     FastCache
}

func NewCacheStrategy(repo CouponRepo, txManager pg.TXManager, fastCache FastCache) *CacheStrategy {
	return &CacheStrategy{
		repo:      repo,
		txManager: txManager,
		cache:     fastCache,
	}
}

func (s *CacheStrategy) Issue(ctx context.Context, couponID, userID int64) (*domain.UserCoupon, error) {
	closed, err := s.cache.IsClosed(ctx, couponID)
	if err != nil {
		return nil, fmt.Errorf("fast cache unavailable: %w", err)
	}
	if closed {
		return nil, ErrCouponExhausted
	}

	coupon, err := s.repo.GetByID(ctx, couponID)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	result, err := s.cache.TryIssue(ctx, couponID, userID, coupon.MaxIssueCount)
	if err != nil {
		return nil, fmt.Errorf("fast cache unavailable: %w", err)
	}
	switch result {
	case cache.IssueDuplicate:
		return nil, ErrCouponAlreadyIssued
	case cache.IssueExhausted:
		if err := s.cache.MarkClosed(ctx, couponID); err != nil {
			zap.L().Error("failed to mark coupon closed", zap.Error(err))
		}
		return nil, ErrCouponExhausted
	}

	userCoupon, err := s.persist(ctx, couponID, userID)
	if err != nil {
		s.revoke(couponID, userID)
		if pg.IsUniqueViolation(err) {
			return nil, ErrCouponAlreadyIssued
		}
		if errors.Is(err, ErrCouponExhausted) {
			if markErr := s.cache.MarkClosed(ctx, couponID); markErr != nil {
				zap.L().Error("failed to mark coupon closed", zap.Error(markErr))
			}
			return nil, ErrCouponExhausted
		}
		return nil, err
	}
	return userCoupon, nil
}

// persist records the provisional win durably: counter increment and grant
// insert in one transaction.
func (s *CacheStrategy) persist(ctx context.Context, couponID, userID int64) (*domain.UserCoupon, error) {
	var userCoupon *domain.UserCoupon
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
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
		return nil, err
	}
	return userCoupon, nil
}

// revoke frees the provisional cache slot after a failed persist. A fresh
// context: the caller's may already be cancelled, and leaving the member
// behind would block the user until the reconciliation sweep.
func (s *CacheStrategy) revoke(couponID, userID int64) {
	if err := s.cache.Revoke(context.Background(), couponID, userID); err != nil {
		zap.L().Error("failed to revoke provisional issuance",
			zap.Int64("couponID", couponID),
			zap.Int64("userID", userID),
			zap.Error(err))
	}
}
