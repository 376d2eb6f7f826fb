package productrepo

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

func (r *Repository) GetOption(ctx context.Context, optionID int64) (*domain.ProductOption, error) {
	query := `
        SELECT id, product_id, option_name, price_adjustment, stock_quantity, sold_out
        FROM product_options
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, optionID)
	var opt domain.ProductOption
	err := row.Scan(&opt.ID, &opt.ProductID, &opt.OptionName, &opt.PriceAdjustment, &opt.StockQuantity, &opt.SoldOut)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("failed to get product option", zap.Error(err))
		return nil, err
	}
	return &opt, nil
}

// GetOptionDetails resolves options together with their product name and
// base price in one round trip.
func (r *Repository) GetOptionDetails(ctx context.Context, optionIDs []int64) ([]domain.ProductOptionDetail, error) {
	query := `
        SELECT po.id, po.product_id, po.option_name, po.price_adjustment, po.stock_quantity, po.sold_out,
               p.name, p.price
        FROM product_options po
        JOIN products p ON p.id = po.product_id
        WHERE po.id = ANY($1)
    `
	rows, err := r.db.Query(ctx, query, optionIDs)
	if err != nil {
		zap.L().Error("failed to get product option details", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var details []domain.ProductOptionDetail
	for rows.Next() {
		var d domain.ProductOptionDetail
		err := rows.Scan(&d.Option.ID, &d.Option.ProductID, &d.Option.OptionName, &d.Option.PriceAdjustment,
			&d.Option.StockQuantity, &d.Option.SoldOut, &d.ProductName, &d.ProductPrice)
		if err != nil {
			zap.L().Error("failed to scan product option detail row", zap.Error(err))
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// ReserveStock decrements stock only when enough remains; sold_out is
// derived in the same statement. Zero affected rows means the option is
// missing or the stock is insufficient. The wait on a concurrently locked
// row is bounded by lock_timeout; pg.IsLockTimeout identifies an expired
// wait on the returned error.
func (r *Repository) ReserveStock(ctx context.Context, optionID int64, quantity int) (int64, error) {
	if _, err := r.db.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())); err != nil {
		zap.L().Error("failed to set lock timeout", zap.Error(err))
		return 0, err
	}
	query := `
        UPDATE product_options
        SET stock_quantity = stock_quantity - $1,
            sold_out = (stock_quantity - $1 = 0)
        WHERE id = $2 AND stock_quantity >= $1
    `
	tag, err := r.db.Exec(ctx, query, quantity, optionID)
	if err != nil {
		zap.L().Error("failed to reserve stock", zap.Error(err))
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ReleaseStock returns previously reserved stock to the option.
func (r *Repository) ReleaseStock(ctx context.Context, optionID int64, quantity int) error {
	query := `
        UPDATE product_options
        SET stock_quantity = stock_quantity + $1,
            sold_out = FALSE
        WHERE id = $2
    `
	if _, err := r.db.Exec(ctx, query, quantity, optionID); err != nil {
		zap.L().Error("failed to release stock", zap.Error(err))
		return err
	}
	return nil
}
