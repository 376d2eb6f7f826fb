package pointservice

import (
	"context"
	"errors"

	"github.com/ilyakarev/gomarket/internal/domain"
	"github.com/ilyakarev/gomarket/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// MinChargeAmount is the smallest top-up accepted.
const MinChargeAmount = 1000

type UserRepo interface {
	GetByID(ctx context.Context, userID int64) (*domain.User, error)
	CreditPoints(ctx context.Context, userID, amount int64) (int64, error)
	CreateHistory(ctx context.Context, history *domain.PointHistory) (*domain.PointHistory, error)
	ListHistory(ctx context.Context, userID int64, historyType string) ([]domain.PointHistory, error)
}

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidAmount   = errors.New("charge amount below minimum")
	ErrInvalidHistType = errors.New("unknown point history type")
)

type Service struct {
	userRepo  UserRepo
	txManager pg.TXManager
}

func New(userRepo UserRepo, txManager pg.TXManager) *Service {
	return &Service{userRepo: userRepo, txManager: txManager}
}

// Charge tops up the user's balance and records a CHARGE history entry in
// the same transaction. Returns the balance after the charge.
func (s *Service) Charge(ctx context.Context, userID, amount int64) (int64, error) {
	if amount < MinChargeAmount {
		return 0, ErrInvalidAmount
	}

	var balance int64
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		balance, err = s.userRepo.CreditPoints(ctx, userID, amount)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrUserNotFound
			}
			return err
		}
		_, err = s.userRepo.CreateHistory(ctx, &domain.PointHistory{
			UserID:       userID,
			Type:         domain.PointTypeCharge,
			Amount:       amount,
			BalanceAfter: balance,
		})
		return err
	})
	if err != nil {
		return 0, err
	}

	zap.L().Info("points charged",
		zap.Int64("userID", userID),
		zap.Int64("amount", amount),
		zap.Int64("balance", balance))
	return balance, nil
}

// GetBalance returns the user's current point balance.
func (s *Service) GetBalance(ctx context.Context, userID int64) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, ErrUserNotFound
	}
	return user.PointBalance, nil
}

// GetHistory lists the user's point movements, optionally filtered by
// type (CHARGE or USE); empty means all.
func (s *Service) GetHistory(ctx context.Context, userID int64, historyType string) ([]domain.PointHistory, error) {
	switch historyType {
	case "", domain.PointTypeCharge, domain.PointTypeUse:
	default:
		return nil, ErrInvalidHistType
	}
	return s.userRepo.ListHistory(ctx, userID, historyType)
}
