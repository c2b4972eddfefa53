package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/accountshop/internal/models"
)

// Storage gives access to every repository over one connection or transaction
type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo
	Balance() BalanceRepo
	Game() GameRepo
	Account() AccountRepo
	Order() OrderRepo
	Deposit() DepositRepo

	// Run fn in a transaction: committed if fn returns nil, rolled back otherwise
	InTx(ctx context.Context, fn func(Storage) error) error
}

// User repository interface
type UserRepo interface {
	// Create user
	// If user with the email exists already has to return error apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, email string, username string, hashedPassword string) (models.User, error)

	// Get user by it's id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

// RefreshToken repository interface
type RefreshTokenRepo interface {
	Save(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error)

	// Return the token even if it is expired or used
	// If not found must return apperrors.ErrRefreshTokenNotFound
	Get(ctx context.Context, tokenString string) (models.RefreshToken, error)

	// Mark token as used
	// If the token is already used, must not overwrite 'usedAt' and has to return apperrors.ErrRefreshTokenIsUsed
	MarkUsed(ctx context.Context, tokenString string) (usedAt time.Time, err error)
}

type BalanceRepo interface {
	CreateBalance(ctx context.Context, userID uuid.UUID) error

	// Get user balance; lock the row until the transaction ends if lock is true
	// If not found must return apperrors.ErrUserNotFound
	GetBalance(ctx context.Context, userID uuid.UUID, lock bool) (models.Balance, error)

	// Apply transaction to the balance and save it to the ledger
	// Purchase that exceeds current balance must return apperrors.ErrBalanceInsufficient
	UpdateBalance(ctx context.Context, t models.Transaction) (models.Balance, error)

	// Ledger entries newest first
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
}

type GameRepo interface {
	// Create game or update image of the game with the same name
	UpsertGame(ctx context.Context, name string, image string) (models.GameCategory, error)

	// If not found must return apperrors.ErrGameNotFound
	GetGame(ctx context.Context, id int64) (models.GameCategory, error)

	ListGames(ctx context.Context) ([]models.GameCategory, error)
}

type ListAccountsOpts struct {
	GameCategoryID int64
	Type           string
	Status         string
	MinPrice       *decimal.Decimal
	MaxPrice       *decimal.Decimal
	SortBy         string
	Limit          int
	Offset         int
}

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

type AccountRepo interface {
	// Create account or update the one with the same game and title; status of existing account is kept
	UpsertAccount(ctx context.Context, account models.Account) (models.Account, error)

	// Get account; lock the row until the transaction ends if lock is true
	// If not found must return apperrors.ErrAccountNotFound
	GetAccount(ctx context.Context, id int64, lock bool) (models.Account, error)

	// Return a page of accounts and the total count matching the filter
	ListAccounts(ctx context.Context, opts ListAccountsOpts) ([]models.Account, int, error)

	SetAccountStatus(ctx context.Context, id int64, status string) error
}

type OrderRepo interface {
	CreateOrder(ctx context.Context, order models.Order) (models.Order, error)

	// User orders newest first
	ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
}

type ListDepositsOpts struct {
	// Filter by user if set
	UserID *uuid.UUID

	// Filter by statuses if not empty
	Statuses []string

	// Limit the number of results, 0 means no limit
	Limit int
}

type DepositRepo interface {
	CreateDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, method string) (models.Deposit, error)

	// Get deposit; lock the row until the transaction ends if lock is true
	// If not found must return apperrors.ErrDepositNotFound
	GetDeposit(ctx context.Context, id uuid.UUID, lock bool) (models.Deposit, error)

	ListDeposits(ctx context.Context, opts ListDepositsOpts) ([]models.Deposit, error)

	// Move pending deposit to the final status
	// If deposit is not pending must return apperrors.ErrDepositAlreadyClosed
	SetDepositStatus(ctx context.Context, id uuid.UUID, status string) (models.Deposit, error)
}
