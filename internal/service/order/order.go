package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nkiryanov/accountshop/internal/apperrors"
	"github.com/nkiryanov/accountshop/internal/models"
	"github.com/nkiryanov/accountshop/internal/repository"
)

type OrderService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *OrderService {
	return &OrderService{storage: storage}
}

// Buy the account from the user balance
// Errors:
//   - apperrors.ErrAccountNotFound if there is no such account
//   - apperrors.ErrAccountNotAvailable if the account is sold already
//   - apperrors.ErrBalanceInsufficient if the user can't afford it
func (s *OrderService) Purchase(ctx context.Context, userID uuid.UUID, accountID int64) (models.Order, error) {
	var order models.Order

	err := s.storage.InTx(ctx, func(storage repository.Storage) error {
		// Lock the account so concurrent buyers wait here
		account, err := storage.Account().GetAccount(ctx, accountID, true)
		if err != nil {
			return err
		}

		if account.Status != models.AccountStatusAvailable {
			return apperrors.ErrAccountNotAvailable
		}

		orderID := uuid.New()

		if account.Price.IsPositive() {
			_, err = storage.Balance().UpdateBalance(ctx, models.Transaction{
				UserID:    userID,
				Reference: orderID,
				Type:      models.TransactionTypePurchase,
				Amount:    account.Price,
			})
			if err != nil {
				return err
			}
		}

		err = storage.Account().SetAccountStatus(ctx, account.ID, models.AccountStatusSold)
		if err != nil {
			return err
		}

		order, err = storage.Order().CreateOrder(ctx, models.Order{
			ID:        orderID,
			UserID:    userID,
			AccountID: account.ID,
			Amount:    account.Price,
			Status:    models.OrderStatusCompleted,
		})
		return err
	})
	if err != nil {
		return order, fmt.Errorf("purchase failed. Err: %w", err)
	}

	return order, nil
}

// User purchase history newest first
func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.storage.Order().ListOrders(ctx, userID)
}
