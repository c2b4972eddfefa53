package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/accountshop/internal/apperrors"
	"github.com/nkiryanov/accountshop/internal/models"
	"github.com/nkiryanov/accountshop/internal/repository"
)

type AccountRepo struct {
	DB DBTX
}

const accountColumns = `a.id, a.created_at, a.game_category_id, g.name, a.type, a.title, a.description, a.price, a.status`

// Existing account keeps its status, so a sold account never comes back to sale on re-import
const upsertAccount = `-- name: UpsertAccount
WITH upserted AS (
	INSERT INTO game_accounts (game_category_id, type, title, description, price, status)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (game_category_id, title) DO UPDATE
	SET type = EXCLUDED.type, description = EXCLUDED.description, price = EXCLUDED.price
	RETURNING *
)
SELECT ` + accountColumns + `
FROM upserted a
JOIN game_categories g ON g.id = a.game_category_id
`

func (r *AccountRepo) UpsertAccount(ctx context.Context, account models.Account) (models.Account, error) {
	status := account.Status
	if status == "" {
		status = models.AccountStatusAvailable
	}

	rows, _ := r.DB.Query(ctx, upsertAccount,
		account.GameCategoryID, account.Type, account.Title, account.Description, account.Price, status)
	saved, err := pgx.CollectOneRow(rows, rowToAccount)
	if err != nil {
		return saved, fmt.Errorf("db error: %w", err)
	}
	return saved, nil
}

const getAccount = `-- name: GetAccount
SELECT ` + accountColumns + `
FROM game_accounts a
JOIN game_categories g ON g.id = a.game_category_id
WHERE a.id = $1
`

func (r *AccountRepo) GetAccount(ctx context.Context, id int64, lock bool) (models.Account, error) {
	query := getAccount
	if lock {
		query += " FOR UPDATE OF a"
	}

	rows, _ := r.DB.Query(ctx, query, id)
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	switch {
	case err == nil:
		return account, nil
	case errors.Is(err, pgx.ErrNoRows):
		return account, apperrors.ErrAccountNotFound
	default:
		return account, fmt.Errorf("db error: %w", err)
	}
}

func (r *AccountRepo) ListAccounts(ctx context.Context, opts repository.ListAccountsOpts) ([]models.Account, int, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, value any) {
		args = append(args, value)
		where = append(where, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if opts.GameCategoryID != 0 {
		add("a.game_category_id = ?", opts.GameCategoryID)
	}
	if opts.Type != "" {
		add("a.type = ?", opts.Type)
	}
	if opts.Status != "" {
		add("a.status = ?", opts.Status)
	}
	if opts.MinPrice != nil {
		add("a.price >= ?", *opts.MinPrice)
	}
	if opts.MaxPrice != nil {
		add("a.price <= ?", *opts.MaxPrice)
	}

	from := `
FROM game_accounts a
JOIN game_categories g ON g.id = a.game_category_id
`
	if len(where) > 0 {
		from += "WHERE " + strings.Join(where, " AND ") + "\n"
	}

	var total int
	err := r.DB.QueryRow(ctx, "-- name: CountAccounts\nSELECT count(*)"+from, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	var order string
	switch opts.SortBy {
	case repository.SortPriceAsc:
		order = "a.price ASC, a.id ASC"
	case repository.SortPriceDesc:
		order = "a.price DESC, a.id DESC"
	default:
		order = "a.created_at DESC, a.id DESC"
	}

	query := "-- name: ListAccounts\nSELECT " + accountColumns + from + "ORDER BY " + order
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, _ := r.DB.Query(ctx, query, args...)
	accounts, err := pgx.CollectRows(rows, rowToAccount)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return accounts, total, nil
}

const setAccountStatus = `-- name: SetAccountStatus
UPDATE game_accounts SET status = $2
WHERE id = $1
`

func (r *AccountRepo) SetAccountStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.DB.Exec(ctx, setAccountStatus, id, status)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

func rowToAccount(row pgx.CollectableRow) (models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.CreatedAt, &a.GameCategoryID, &a.GameName, &a.Type, &a.Title, &a.Description, &a.Price, &a.Status)
	return a, err
}
