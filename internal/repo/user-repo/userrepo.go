package userrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/ilyakarev/gomarket/internal/domain"
	"github.com/ilyakarev/gomarket/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	query := `
        SELECT id, name, point_balance, created_at
        FROM users
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, userID)
	var user domain.User
	err := row.Scan(&user.ID, &user.Name, &user.PointBalance, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("failed to get user", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// DebitPoints subtracts amount from the balance only when enough remains,
// returning the resulting balance. pgx.ErrNoRows means the user is missing
// or the balance is insufficient.
func (r *Repository) DebitPoints(ctx context.Context, userID, amount int64) (int64, error) {
	query := `
        UPDATE users
        SET point_balance = point_balance - $1
        WHERE id = $2 AND point_balance >= $1
        RETURNING point_balance
    `
	var balance int64
	if err := r.db.QueryRow(ctx, query, amount, userID).Scan(&balance); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			zap.L().Error("failed to debit points", zap.Error(err))
		}
		return 0, err
	}
	return balance, nil
}

// CreditPoints adds amount to the balance, returning the resulting balance.
// pgx.ErrNoRows means the user is missing.
func (r *Repository) CreditPoints(ctx context.Context, userID, amount int64) (int64, error) {
	query := `
        UPDATE users
        SET point_balance = point_balance + $1
        WHERE id = $2
        RETURNING point_balance
    `
	var balance int64
	if err := r.db.QueryRow(ctx, query, amount, userID).Scan(&balance); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			zap.L().Error("failed to credit points", zap.Error(err))
		}
		return 0, err
	}
	return balance, nil
}

func (r *Repository) CreateHistory(ctx context.Context, history *domain.PointHistory) (*domain.PointHistory, error) {
	query := `
        INSERT INTO point_histories (user_id, type, amount, balance_after, order_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, user_id, type, amount, balance_after, order_id, created_at
    `
	row := r.db.QueryRow(ctx, query, history.UserID, history.Type, history.Amount,
		history.BalanceAfter, history.OrderID)
	var h domain.PointHistory
	err := row.Scan(&h.ID, &h.UserID, &h.Type, &h.Amount, &h.BalanceAfter, &h.OrderID, &h.CreatedAt)
	if err != nil {
		zap.L().Error("failed to create point history", zap.Error(err))
		return nil, err
	}
	return &h, nil
}

func (r *Repository) ListHistory(ctx context.Context, userID int64, historyType string) ([]domain.PointHistory, error) {
	query := `
        SELECT id, user_id, type, amount, balance_after, order_id, created_at
        FROM point_histories
        WHERE user_id = $1 AND ($2 = '' OR type = $2)
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID, historyType)
	if err != nil {
		zap.L().Error("failed to list point history", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var histories []domain.PointHistory
	for rows.Next() {
		var h domain.PointHistory
		err := rows.Scan(&h.ID, &h.UserID, &h.Type, &h.Amount, &h.BalanceAfter, &h.OrderID, &h.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan point history row", zap.Error(err))
			return nil, err
		}
		histories = append(histories, h)
	}
	return histories, rows.Err()
}
