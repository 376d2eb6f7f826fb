package orderrepo

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

const orderColumns = `id, user_id, order_number, status, total_amount, discount_amount, used_points, final_amount, coupon_id, created_at, expires_at, paid_at`

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	query := `
        INSERT INTO orders (user_id, order_number, status, total_amount, discount_amount, used_points, final_amount, coupon_id, expires_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING ` + orderColumns + `
	`
	row := r.db.QueryRow(ctx, query, order.UserID, order.OrderNumber, order.Status,
		order.TotalAmount, order.DiscountAmount, order.UsedPoints, order.FinalAmount,
		order.CouponID, order.ExpiresAt)
	return r.scanOrder(row)
}

func (r *Repository) CreateItems(ctx context.Context, orderID int64, items []domain.OrderItem) error {
	query := `
        INSERT INTO order_items (order_id, product_id, product_option_id, product_name, option_name, unit_price, quantity, subtotal)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	for _, item := range items {
		_, err := r.db.Exec(ctx, query, orderID, item.ProductID, item.ProductOptionID,
			item.ProductName, item.OptionName, item.UnitPrice, item.Quantity, item.Subtotal)
		if err != nil {
			zap.L().Error("failed to create order item", zap.Error(err))
			return err
		}
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	query := `
        SELECT ` + orderColumns + `
        FROM orders
        WHERE id = $1
    `
	return r.scanOrder(r.db.QueryRow(ctx, query, orderID))
}

// GetByIDForUpdate locks the order row for the rest of the transaction,
// bounded by lock_timeout.
func (r *Repository) GetByIDForUpdate(ctx context.Context, orderID int64) (*domain.Order, error) {
	if _, err := r.db.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())); err != nil {
		zap.L().Error("failed to set lock timeout", zap.Error(err))
		return nil, err
	}
	query := `
        SELECT ` + orderColumns + `
        FROM orders
        WHERE id = $1
        FOR UPDATE
    `
	return r.scanOrder(r.db.QueryRow(ctx, query, orderID))
}

func (r *Repository) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	query := `
        SELECT ` + orderColumns + `
        FROM orders
        WHERE order_number = $1
    `
	return r.scanOrder(r.db.QueryRow(ctx, query, orderNumber))
}

func (r *Repository) scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.Status, &o.TotalAmount, &o.DiscountAmount,
		&o.UsedPoints, &o.FinalAmount, &o.CouponID, &o.CreatedAt, &o.ExpiresAt, &o.PaidAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("failed to get order", zap.Error(err))
		return nil, err
	}
	return &o, nil
}

func (r *Repository) GetItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	query := `
        SELECT id, order_id, product_id, product_option_id, product_name, option_name, unit_price, quantity, subtotal
        FROM order_items
        WHERE order_id = $1
    `
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		zap.L().Error("failed to get order items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductOptionID,
			&item.ProductName, &item.OptionName, &item.UnitPrice, &item.Quantity, &item.Subtotal)
		if err != nil {
			zap.L().Error("failed to scan order item row", zap.Error(err))
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// MarkPaid transitions PENDING to PAID. Zero affected rows means the order
// left the payable state.
func (r *Repository) MarkPaid(ctx context.Context, orderID int64, paidAt time.Time) (int64, error) {
	query := `
        UPDATE orders
        SET status = $1, paid_at = $2
        WHERE id = $3 AND status = $4
    `
	tag, err := r.db.Exec(ctx, query, domain.OrderStatusPaid, paidAt, orderID, domain.OrderStatusPending)
	if err != nil {
		zap.L().Error("failed to mark order paid", zap.Error(err))
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// MarkCancelled transitions PENDING to CANCELLED. Zero affected rows means
// the order was paid or already cancelled in the meantime.
func (r *Repository) MarkCancelled(ctx context.Context, orderID int64) (int64, error) {
	query := `
        UPDATE orders
        SET status = $1
        WHERE id = $2 AND status = $3
    `
	tag, err := r.db.Exec(ctx, query, domain.OrderStatusCancelled, orderID, domain.OrderStatusPending)
	if err != nil {
		zap.L().Error("failed to mark order cancelled", zap.Error(err))
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) FindExpiredPending(ctx context.Context, now time.Time, limit uint32) ([]domain.Order, error) {
	query := `
        SELECT ` + orderColumns + `
        FROM orders
        WHERE status = $1 AND expires_at < $2
        ORDER BY expires_at ASC
        LIMIT $3
    `
	rows, err := r.db.Query(ctx, query, domain.OrderStatusPending, now, int(limit))
	if err != nil {
		zap.L().Error("failed to find expired orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		err := rows.Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.Status, &o.TotalAmount, &o.DiscountAmount,
			&o.UsedPoints, &o.FinalAmount, &o.CouponID, &o.CreatedAt, &o.ExpiresAt, &o.PaidAt)
		if err != nil {
			zap.L().Error("failed to scan expired order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
