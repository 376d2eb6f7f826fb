package userrepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ilyakarev/gomarket/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	tests := []struct {
		name      string
		userID    int64
		mockSetup func()
		expectErr bool
		result    *domain.User
	}{
		{
			name:   "User found",
			userID: 1,
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "name", "point_balance", "created_at"}).
					AddRow(int64(1), "alice", int64(15000), now)
				mock.ExpectQuery("FROM users").
					WithArgs(int64(1)).
					WillReturnRows(rows)
			},
			expectErr: false,
			result: &domain.User{
				ID:           1,
				Name:         "alice",
				PointBalance: 15000,
				CreatedAt:    now,
			},
		},
		{
			name:   "User not found",
			userID: 99,
			mockSetup: func() {
				mock.ExpectQuery("FROM users").
					WithArgs(int64(99)).
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: false,
			result:    nil,
		},
		{
			name:   "Query error",
			userID: 1,
			mockSetup: func() {
				mock.ExpectQuery("FROM users").
					WithArgs(int64(1)).
					WillReturnError(errors.New("some error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			user, err := repo.GetByID(context.Background(), tt.userID)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, user)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_DebitPoints(t *testing.T) {
	repo, mock := NewMock(t)

	tests := []struct {
		name      string
		amount    int64
		mockSetup func()
		expectErr error
		balance   int64
	}{
		{
			name:   "Points debited",
			amount: 1000,
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"point_balance"}).AddRow(int64(14000))
				mock.ExpectQuery("UPDATE users").
					WithArgs(int64(1000), int64(1)).
					WillReturnRows(rows)
			},
			balance: 14000,
		},
		{
			name:   "Insufficient balance",
			amount: 100000,
			mockSetup: func() {
				mock.ExpectQuery("UPDATE users").
					WithArgs(int64(100000), int64(1)).
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: pgx.ErrNoRows,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			balance, err := repo.DebitPoints(context.Background(), 1, tt.amount)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.balance, balance)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_CreditPoints(t *testing.T) {
	repo, mock := NewMock(t)

	rows := pgxmock.NewRows([]string{"point_balance"}).AddRow(int64(20000))
	mock.ExpectQuery("UPDATE users").
		WithArgs(int64(5000), int64(1)).
		WillReturnRows(rows)

	balance, err := repo.CreditPoints(context.Background(), 1, 5000)
	assert.NoError(t, err)
	assert.Equal(t, int64(20000), balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateHistory(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	orderID := int64(42)

	history := &domain.PointHistory{
		UserID:       1,
		Type:         domain.PointTypeUse,
		Amount:       1000,
		BalanceAfter: 14000,
		OrderID:      &orderID,
	}

	rows := pgxmock.NewRows([]string{"id", "user_id", "type", "amount", "balance_after", "order_id", "created_at"}).
		AddRow(int64(7), int64(1), domain.PointTypeUse, int64(1000), int64(14000), &orderID, now)
	mock.ExpectQuery("INSERT INTO point_histories").
		WithArgs(int64(1), domain.PointTypeUse, int64(1000), int64(14000), &orderID).
		WillReturnRows(rows)

	created, err := repo.CreateHistory(context.Background(), history)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, int64(14000), created.BalanceAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListHistory(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "user_id", "type", "amount", "balance_after", "order_id", "created_at"}).
		AddRow(int64(2), int64(1), domain.PointTypeUse, int64(1000), int64(14000), (*int64)(nil), now).
		AddRow(int64(1), int64(1), domain.PointTypeCharge, int64(5000), int64(15000), (*int64)(nil), now)
	mock.ExpectQuery("FROM point_histories").
		WithArgs(int64(1), "").
		WillReturnRows(rows)

	histories, err := repo.ListHistory(context.Background(), 1, "")
	assert.NoError(t, err)
	assert.Len(t, histories, 2)
	assert.Equal(t, domain.PointTypeUse, histories[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
