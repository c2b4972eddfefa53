package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/accountshop/internal/apperrors"
	"github.com/nkiryanov/accountshop/internal/models"
)

type OrderRepo struct {
	DB DBTX
}

const createOrder = `-- name: CreateOrder
INSERT INTO orders (id, created_at, user_id, account_id, amount, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, user_id, account_id, amount, status
`

// Create order; zero ID, CreatedAt and Status get defaults
// Account may be ordered only once, otherwise apperrors.ErrAccountNotAvailable returned
func (r *OrderRepo) CreateOrder(ctx context.Context, o models.Order) (models.Order, error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	if o.Status == "" {
		o.Status = models.OrderStatusCompleted
	}

	rows, _ := r.DB.Query(ctx, createOrder, o.ID, o.CreatedAt, o.UserID, o.AccountID, o.Amount, o.Status)
	order, err := pgx.CollectOneRow(rows, rowToOrder)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return order, apperrors.ErrAccountNotAvailable
		}

		return order, fmt.Errorf("db error: %w", err)
	}

	return order, nil
}

const listOrders = `-- name: ListOrders
SELECT id, created_at, user_id, account_id, amount, status
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC, id
`

func (r *OrderRepo) ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	rows, _ := r.DB.Query(ctx, listOrders, userID)
	orders, err := pgx.CollectRows(rows, rowToOrder)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return orders, nil
}

func rowToOrder(row pgx.CollectableRow) (models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.CreatedAt, &o.UserID, &o.AccountID, &o.Amount, &o.Status)
	return o, err
}
