package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nkiryanov/accountshop/internal/models"
	"github.com/nkiryanov/accountshop/internal/repository"
)

type UserService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *UserService {
	return &UserService{storage: storage}
}

// Get the user together with the balance
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (models.User, models.Balance, error) {
	user, err := s.storage.User().GetUserByID(ctx, userID)
	if err != nil {
		return user, models.Balance{}, fmt.Errorf("can't get user. Err: %w", err)
	}

	balance, err := s.storage.Balance().GetBalance(ctx, userID, false)
	if err != nil {
		return user, balance, fmt.Errorf("can't get balance. Err: %w", err)
	}

	return user, balance, nil
}

func (s *UserService) ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	return s.storage.Balance().ListTransactions(ctx, userID)
}
