package deposit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/accountshop/internal/models"
	"github.com/nkiryanov/accountshop/internal/repository"
)

var ErrInvalidDeposit = errors.New("invalid deposit")

type DepositService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *DepositService {
	return &DepositService{storage: storage}
}

// Create pending deposit; the balance is credited once the payment provider approves it
func (s *DepositService) CreateDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, method string) (models.Deposit, error) {
	if !amount.IsPositive() {
		return models.Deposit{}, fmt.Errorf("%w: amount must be positive", ErrInvalidDeposit)
	}

	switch method {
	case models.DepositMethodMomo, models.DepositMethodATM, models.DepositMethodCard:
	default:
		return models.Deposit{}, fmt.Errorf("%w: unknown method %q", ErrInvalidDeposit, method)
	}

	return s.storage.Deposit().CreateDeposit(ctx, userID, amount, method)
}

// User deposits newest first
func (s *DepositService) ListDeposits(ctx context.Context, userID uuid.UUID) ([]models.Deposit, error) {
	return s.storage.Deposit().ListDeposits(ctx, repository.ListDepositsOpts{UserID: &userID})
}

// Oldest pending deposits of all users
func (s *DepositService) ListPending(ctx context.Context, limit int) ([]models.Deposit, error) {
	return s.storage.Deposit().ListDeposits(ctx, repository.ListDepositsOpts{
		Statuses: []string{models.DepositStatusPending},
		Limit:    limit,
	})
}

// Close pending deposit with the final status
// Approved deposit credits the balance in the same transaction
// Errors:
//   - apperrors.ErrDepositNotFound
//   - apperrors.ErrDepositAlreadyClosed if the deposit is not pending
func (s *DepositService) Settle(ctx context.Context, id uuid.UUID, status string) (models.Deposit, error) {
	var deposit models.Deposit

	switch status {
	case models.DepositStatusApproved, models.DepositStatusRejected:
	default:
		return deposit, fmt.Errorf("%w: can't settle with status %q", ErrInvalidDeposit, status)
	}

	err := s.storage.InTx(ctx, func(storage repository.Storage) error {
		var err error

		deposit, err = storage.Deposit().SetDepositStatus(ctx, id, status)
		if err != nil {
			return err
		}

		if status != models.DepositStatusApproved {
			return nil
		}

		_, err = storage.Balance().UpdateBalance(ctx, models.Transaction{
			UserID:    deposit.UserID,
			Reference: deposit.ID,
			Type:      models.TransactionTypeDeposit,
			Amount:    deposit.Amount,
		})
		return err
	})
	if err != nil {
		return deposit, fmt.Errorf("can't settle deposit. Err: %w", err)
	}

	return deposit, nil
}
