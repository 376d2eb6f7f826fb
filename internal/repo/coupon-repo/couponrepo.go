package couponrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ilyakarev/gomarket/internal/domain"
	"github.com/ilyakarev/gomarket/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db          pg.Database
	lockTimeout time.Duration
}

func New(db pg.Database, lockTimeout time.Duration) *Repository {
	return &Repository{
		db:          db,
		lockTimeout: lockTimeout,
	}
}

const couponColumns = `id, name, discount_type, discount_value, min_order_amount, max_issue_count, issued_count, valid_from, valid_to`

func (r *Repository) GetByID(ctx context.Context, couponID int64) (*domain.Coupon, error) {
	query := `
        SELECT ` + couponColumns + `
        FROM coupons
        WHERE id = $1
    `
	return r.scanCoupon(r.db.QueryRow(ctx, query, couponID))
}

// GetByIDForUpdate locks the coupon row for the rest of the transaction.
// The wait is bounded by lock_timeout; pg.IsLockTimeout identifies an
// expired wait on the returned error.
func (r *Repository) GetByIDForUpdate(ctx context.Context, couponID int64) (*domain.Coupon, error) {
	if _, err := r.db.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())); err != nil {
		zap.L().Error("failed to set lock timeout", zap.Error(err))
		return nil, err
	}
	query := `
        SELECT ` + couponColumns + `
        FROM coupons
        WHERE id = $1
        FOR UPDATE
    `
	return r.scanCoupon(r.db.QueryRow(ctx, query, couponID))
}

func (r *Repository) scanCoupon(row pgx.Row) (*domain.Coupon, error) {
	var c domain.Coupon
	err := row.Scan(&c.ID, &c.Name, &c.DiscountType, &c.DiscountValue, &c.MinOrderAmount,
		&c.MaxIssueCount, &c.IssuedCount, &c.ValidFrom, &c.ValidTo)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("failed to get coupon", zap.Error(err))
		return nil, err
	}
	return &c, nil
}

// IncrementIssued bumps issued_count, bounded by max_issue_count. Zero
// affected rows means the cap is already reached.
func (r *Repository) IncrementIssued(ctx context.Context, couponID int64) (int64, error) {
	query := `
        UPDATE coupons
        SET issued_count = issued_count + 1
        WHERE id = $1 AND issued_count < max_issue_count
    `
	tag, err := r.db.Exec(ctx, query, couponID)
	if err != nil {
		zap.L().Error("failed to increment issued count", zap.Error(err))
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) ListActive(ctx context.Context, now time.Time) ([]domain.Coupon, error) {
	query := `
        SELECT ` + couponColumns + `
        FROM coupons
        WHERE valid_to >= $1
    `
	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		zap.L().Error("failed to list active coupons", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var coupons []domain.Coupon
	for rows.Next() {
		var c domain.Coupon
		err := rows.Scan(&c.ID, &c.Name, &c.DiscountType, &c.DiscountValue, &c.MinOrderAmount,
			&c.MaxIssueCount, &c.IssuedCount, &c.ValidFrom, &c.ValidTo)
		if err != nil {
			zap.L().Error("failed to scan coupon row", zap.Error(err))
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

const userCouponColumns = `id, user_id, coupon_id, is_used, used_at, order_id, issued_at`

func (r *Repository) GetUserCoupon(ctx context.Context, userID, couponID int64) (*domain.UserCoupon, error) {
	query := `
        SELECT ` + userCouponColumns + `
        FROM user_coupons
        WHERE user_id = $1 AND coupon_id = $2
    `
	return r.scanUserCoupon(r.db.QueryRow(ctx, query, userID, couponID))
}

// GetUnusedUserCoupon returns the caller's unused coupon grant, or nil when
// there is none.
func (r *Repository) GetUnusedUserCoupon(ctx context.Context, userID, couponID int64) (*domain.UserCoupon, error) {
	query := `
        SELECT ` + userCouponColumns + `
        FROM user_coupons
        WHERE user_id = $1 AND coupon_id = $2 AND is_used = FALSE
    `
	return r.scanUserCoupon(r.db.QueryRow(ctx, query, userID, couponID))
}

func (r *Repository) scanUserCoupon(row pgx.Row) (*domain.UserCoupon, error) {
	var uc domain.UserCoupon
	err := row.Scan(&uc.ID, &uc.UserID, &uc.CouponID, &uc.IsUsed, &uc.UsedAt, &uc.OrderID, &uc.IssuedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("failed to get user coupon", zap.Error(err))
		return nil, err
	}
	return &uc, nil
}

func (r *Repository) CreateUserCoupon(ctx context.Context, userCoupon *domain.UserCoupon) (*domain.UserCoupon, error) {
	query := `
        INSERT INTO user_coupons (user_id, coupon_id)
        VALUES ($1, $2)
        RETURNING ` + userCouponColumns + `
	`
	row := r.db.QueryRow(ctx, query, userCoupon.UserID, userCoupon.CouponID)
	var uc domain.UserCoupon
	err := row.Scan(&uc.ID, &uc.UserID, &uc.CouponID, &uc.IsUsed, &uc.UsedAt, &uc.OrderID, &uc.IssuedAt)
	if err != nil {
		zap.L().Error("failed to create user coupon", zap.Error(err))
		return nil, err
	}
	return &uc, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]domain.UserCoupon, error) {
	query := `
        SELECT ` + userCouponColumns + `
        FROM user_coupons
        WHERE user_id = $1
        ORDER BY issued_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("failed to list user coupons", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var coupons []domain.UserCoupon
	for rows.Next() {
		var uc domain.UserCoupon
		err := rows.Scan(&uc.ID, &uc.UserID, &uc.CouponID, &uc.IsUsed, &uc.UsedAt, &uc.OrderID, &uc.IssuedAt)
		if err != nil {
			zap.L().Error("failed to scan user coupon row", zap.Error(err))
			return nil, err
		}
		coupons = append(coupons, uc)
	}
	return coupons, rows.Err()
}

// MarkUsed redeems an unused grant. Zero affected rows means the grant was
// missing or already redeemed.
func (r *Repository) MarkUsed(ctx context.Context, userID, couponID, orderID int64, usedAt time.Time) (int64, error) {
	query := `
        UPDATE user_coupons
        SET is_used = TRUE, used_at = $1, order_id = $2
        WHERE user_id = $3 AND coupon_id = $4 AND is_used = FALSE
    `
	tag, err := r.db.Exec(ctx, query, usedAt, orderID, userID, couponID)
	if err != nil {
		zap.L().Error("failed to mark user coupon used", zap.Error(err))
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UserIDsWithCoupon lists users holding a persisted grant for the coupon,
// used to reconcile the fast cache after a crash.
func (r *Repository) UserIDsWithCoupon(ctx context.Context, couponID int64) ([]int64, error) {
	query := `
        SELECT user_id
        FROM user_coupons
        WHERE coupon_id = $1
    `
	rows, err := r.db.Query(ctx, query, couponID)
	if err != nil {
		zap.L().Error("failed to list coupon holders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			zap.L().Error("failed to scan coupon holder row", zap.Error(err))
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
