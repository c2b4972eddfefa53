package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/accountshop/internal/apperrors"
	"github.com/nkiryanov/accountshop/internal/models"
)

type BalanceRepo struct {
	DB DBTX
}

func (r *BalanceRepo) CreateBalance(ctx context.Context, userID uuid.UUID) error {
	const createBalance = `
	INSERT INTO balances (id, user_id, current, spent)
	VALUES ($1, $2, 0, 0)
	`

	_, err := r.DB.Exec(ctx, createBalance, uuid.New(), userID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("user balance already exists: %w", err)
		}

		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *BalanceRepo) GetBalance(ctx context.Context, userID uuid.UUID, lock bool) (models.Balance, error) {
	const getBalanceByUserID = `
	SELECT id, user_id, current, spent FROM balances
	WHERE user_id = $1
	`

	query := getBalanceByUserID
	if lock {
		query += " FOR UPDATE"
	}

	rows, _ := r.DB.Query(ctx, query, userID)
	balance, err := pgx.CollectOneRow(rows, rowToBalance)

	switch {
	case err == nil:
		return balance, nil
	case errors.Is(err, pgx.ErrNoRows):
		return balance, apperrors.ErrUserNotFound
	default:
		return balance, fmt.Errorf("db error: %w", err)
	}
}

const depositBalance = `-- name: DepositBalance
UPDATE balances
SET current = current + $2
WHERE user_id = $1
RETURNING id, user_id, current, spent
`

const purchaseFromBalance = `-- name: PurchaseFromBalance
UPDATE balances
SET current = current - $2, spent = spent + $2
WHERE user_id = $1 AND current >= $2
RETURNING id, user_id, current, spent
`

const insertTransaction = `-- name: InsertTransaction
INSERT INTO balance_transactions (id, processed_at, user_id, reference, type, amount)
VALUES ($1, now(), $2, $3, $4, $5)
`

// Update balance and write the ledger entry
// Has to be called in transaction, otherwise ledger and balance may diverge
func (r *BalanceRepo) UpdateBalance(ctx context.Context, t models.Transaction) (models.Balance, error) {
	var query string
	switch t.Type {
	case models.TransactionTypeDeposit:
		query = depositBalance
	case models.TransactionTypePurchase:
		query = purchaseFromBalance
	default:
		return models.Balance{}, fmt.Errorf("unknown transaction type %q", t.Type)
	}

	if !t.Amount.IsPositive() {
		return models.Balance{}, fmt.Errorf("transaction amount must be positive, got %s", t.Amount)
	}

	rows, _ := r.DB.Query(ctx, query, t.UserID, t.Amount)
	balance, err := pgx.CollectOneRow(rows, rowToBalance)

	switch {
	case err == nil:
	case errors.Is(err, pgx.ErrNoRows) && t.Type == models.TransactionTypePurchase:
		// Either no balance or not enough money; tell them apart
		if _, getErr := r.GetBalance(ctx, t.UserID, false); getErr != nil {
			return balance, getErr
		}
		return balance, apperrors.ErrBalanceInsufficient
	case errors.Is(err, pgx.ErrNoRows):
		return balance, apperrors.ErrUserNotFound
	default:
		return balance, fmt.Errorf("db error: %w", err)
	}

	id := t.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	_, err = r.DB.Exec(ctx, insertTransaction, id, t.UserID, t.Reference, t.Type, t.Amount)
	if err != nil {
		return balance, fmt.Errorf("db error: %w", err)
	}

	return balance, nil
}

const listTransactions = `-- name: ListTransactions
SELECT id, processed_at, user_id, reference, type, amount
FROM balance_transactions
WHERE user_id = $1
ORDER BY processed_at DESC, id
`

func (r *BalanceRepo) ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, listTransactions, userID)
	transactions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Transaction, error) {
		var t models.Transaction
		err := row.Scan(&t.ID, &t.ProcessedAt, &t.UserID, &t.Reference, &t.Type, &t.Amount)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return transactions, nil
}

func rowToBalance(row pgx.CollectableRow) (models.Balance, error) {
	var b models.Balance
	err := row.Scan(&b.ID, &b.UserID, &b.Current, &b.Spent)
	return b, err
}
