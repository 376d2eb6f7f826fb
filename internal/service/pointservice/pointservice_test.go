package pointservice

import (
	"context"
	"errors"
	"testing"

	"github.com/ilyakarev/gomarket/internal/domain"
	"github.com/ilyakarev/gomarket/internal/pg"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Service, *MockUserRepo, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	repo := NewMockUserRepo(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	service := New(repo, txManager)
	defer ctrl.Finish()
	return service, repo, txManager
}

func passthroughTx(txManager *pg.MockTXManager) {
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

func TestCharge(t *testing.T) {
	tests := []struct {
		name            string
		amount          int64
		prepareMock     func(repo *MockUserRepo, txManager *pg.MockTXManager)
		expectedBalance int64
		expectedError   error
	}{
		{
			name:   "Charge recorded with history",
			amount: 5000,
			prepareMock: func(repo *MockUserRepo, txManager *pg.MockTXManager) {
				passthroughTx(txManager)
				repo.EXPECT().CreditPoints(gomock.Any(), int64(10), int64(5000)).Return(int64(15000), nil)
				repo.EXPECT().CreateHistory(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, h *domain.PointHistory) (*domain.PointHistory, error) {
						assert.Equal(t, domain.PointTypeCharge, h.Type)
						assert.Equal(t, int64(5000), h.Amount)
						assert.Equal(t, int64(15000), h.BalanceAfter)
						return h, nil
					})
			},
			expectedBalance: 15000,
		},
		{
			name:          "Amount below minimum",
			amount:        MinChargeAmount - 1,
			prepareMock:   func(repo *MockUserRepo, txManager *pg.MockTXManager) {},
			expectedError: ErrInvalidAmount,
		},
		{
			name:   "Unknown user",
			amount: 5000,
			prepareMock: func(repo *MockUserRepo, txManager *pg.MockTXManager) {
				passthroughTx(txManager)
				repo.EXPECT().CreditPoints(gomock.Any(), int64(10), int64(5000)).
					Return(int64(0), pgx.ErrNoRows)
			},
			expectedError: ErrUserNotFound,
		},
		{
			name:   "History write failure fails the charge",
			amount: 5000,
			prepareMock: func(repo *MockUserRepo, txManager *pg.MockTXManager) {
				passthroughTx(txManager)
				repo.EXPECT().CreditPoints(gomock.Any(), int64(10), int64(5000)).Return(int64(15000), nil)
				repo.EXPECT().CreateHistory(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("some error"))
			},
			expectedError: errors.New("some error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, txManager := NewMock(t)
			tt.prepareMock(repo, txManager)

			balance, err := service.Charge(context.Background(), 10, tt.amount)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedBalance, balance)
			}
		})
	}
}

func TestGetBalance(t *testing.T) {
	service, repo, _ := NewMock(t)

	repo.EXPECT().GetByID(gomock.Any(), int64(10)).
		Return(&domain.User{ID: 10, PointBalance: 7000}, nil)
	balance, err := service.GetBalance(context.Background(), 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(7000), balance)

	repo.EXPECT().GetByID(gomock.Any(), int64(11)).Return(nil, nil)
	_, err = service.GetBalance(context.Background(), 11)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetHistory(t *testing.T) {
	service, repo, _ := NewMock(t)

	history := []domain.PointHistory{
		{ID: 2, UserID: 10, Type: domain.PointTypeUse, Amount: 1000},
		{ID: 1, UserID: 10, Type: domain.PointTypeCharge, Amount: 5000},
	}
	repo.EXPECT().ListHistory(gomock.Any(), int64(10), "").Return(history, nil)

	got, err := service.GetHistory(context.Background(), 10, "")
	assert.NoError(t, err)
	assert.Equal(t, history, got)

	repo.EXPECT().ListHistory(gomock.Any(), int64(10), domain.PointTypeUse).
		Return(history[:1], nil)
	got, err = service.GetHistory(context.Background(), 10, domain.PointTypeUse)
	assert.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = service.GetHistory(context.Background(), 10, "REFUND")
	assert.ErrorIs(t, err, ErrInvalidHistType)
}
