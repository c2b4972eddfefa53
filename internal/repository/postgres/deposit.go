package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/accountshop/internal/apperrors"
	"github.com/nkiryanov/accountshop/internal/models"
	"github.com/nkiryanov/accountshop/internal/repository"
)

type DepositRepo struct {
	DB DBTX
}

const depositColumns = `id, created_at, updated_at, user_id, amount, method, status`

const createDeposit = `-- name: CreateDeposit
INSERT INTO deposits (id, user_id, amount, method, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + depositColumns

func (r *DepositRepo) CreateDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, method string) (models.Deposit, error) {
	rows, _ := r.DB.Query(ctx, createDeposit, uuid.New(), userID, amount, method, models.DepositStatusPending)
	deposit, err := pgx.CollectOneRow(rows, rowToDeposit)
	if err != nil {
		return deposit, fmt.Errorf("db error: %w", err)
	}
	return deposit, nil
}

const getDeposit = `-- name: GetDeposit
SELECT ` + depositColumns + ` FROM deposits
WHERE id = $1
`

func (r *DepositRepo) GetDeposit(ctx context.Context, id uuid.UUID, lock bool) (models.Deposit, error) {
	query := getDeposit
	if lock {
		query += " FOR UPDATE"
	}

	rows, _ := r.DB.Query(ctx, query, id)
	deposit, err := pgx.CollectOneRow(rows, rowToDeposit)

	switch {
	case err == nil:
		return deposit, nil
	case errors.Is(err, pgx.ErrNoRows):
		return deposit, apperrors.ErrDepositNotFound
	default:
		return deposit, fmt.Errorf("db error: %w", err)
	}
}

// List deposits, newest first for user listing and oldest first otherwise so the settlement goes in order
func (r *DepositRepo) ListDeposits(ctx context.Context, opts repository.ListDepositsOpts) ([]models.Deposit, error) {
	var (
		where []string
		args  []any
	)

	if opts.UserID != nil {
		args = append(args, *opts.UserID)
		where = append(where, "user_id = $"+strconv.Itoa(len(args)))
	}
	if len(opts.Statuses) > 0 {
		args = append(args, opts.Statuses)
		where = append(where, "status = ANY($"+strconv.Itoa(len(args))+")")
	}

	query := "-- name: ListDeposits\nSELECT " + depositColumns + " FROM deposits"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	if opts.UserID != nil {
		query += " ORDER BY created_at DESC, id"
	} else {
		query += " ORDER BY created_at ASC, id"
	}

	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}

	rows, _ := r.DB.Query(ctx, query, args...)
	deposits, err := pgx.CollectRows(rows, rowToDeposit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return deposits, nil
}

const setDepositStatus = `-- name: SetDepositStatus
UPDATE deposits
SET status = $2, updated_at = now()
WHERE id = $1 AND status = '` + models.DepositStatusPending + `'
RETURNING ` + depositColumns

func (r *DepositRepo) SetDepositStatus(ctx context.Context, id uuid.UUID, status string) (models.Deposit, error) {
	rows, _ := r.DB.Query(ctx, setDepositStatus, id, status)
	deposit, err := pgx.CollectOneRow(rows, rowToDeposit)

	switch {
	case err == nil:
		return deposit, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Tell missing deposit from the closed one
		if _, getErr := r.GetDeposit(ctx, id, false); getErr != nil {
			return deposit, getErr
		}
		return deposit, apperrors.ErrDepositAlreadyClosed
	default:
		return deposit, fmt.Errorf("db error: %w", err)
	}
}

func rowToDeposit(row pgx.CollectableRow) (models.Deposit, error) {
	var d models.Deposit
	err := row.Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt, &d.UserID, &d.Amount, &d.Method, &d.Status)
	return d, err
}
