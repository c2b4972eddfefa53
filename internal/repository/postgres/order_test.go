package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/accountshop/internal/apperrors"
	"github.com/nkiryanov/accountshop/internal/models"
	"github.com/nkiryanov/accountshop/internal/repository"
	"github.com/nkiryanov/accountshop/internal/testutil"
)

func TestOrder(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
		user := mustCreateUser(t, storage, "gamer@example.com")
		game, err := storage.Game().UpsertGame(t.Context(), "Genshin Impact", "")
		require.NoError(t, err)

		t.Run("create with defaults", func(t *testing.T) {
			inTx(t, tx, func(_ pgx.Tx, storage repository.Storage) {
				account := createAccount(t, storage, game, "AR 60", "10")

				order, err := storage.Order().CreateOrder(t.Context(), models.Order{
					UserID:    user.ID,
					AccountID: account.ID,
					Amount:    account.Price,
				})

				require.NoError(t, err)
				require.NotEqual(t, uuid.Nil, order.ID)
				require.Equal(t, models.OrderStatusCompleted, order.Status)
				require.Equal(t, "10", order.Amount.String())
				require.WithinDuration(t, time.Now(), order.CreatedAt, time.Minute)
			})
		})

		t.Run("account ordered twice", func(t *testing.T) {
			inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
				account := createAccount(t, storage, game, "AR 60", "10")
				_, err := storage.Order().CreateOrder(t.Context(), models.Order{UserID: user.ID, AccountID: account.ID, Amount: account.Price})
				require.NoError(t, err)

				inTx(t, ttx, func(_ pgx.Tx, storage repository.Storage) {
					_, err := storage.Order().CreateOrder(t.Context(), models.Order{UserID: user.ID, AccountID: account.ID, Amount: account.Price})

					require.ErrorIs(t, err, apperrors.ErrAccountNotAvailable)
				})
			})
		})

		t.Run("list newest first", func(t *testing.T) {
			inTx(t, tx, func(_ pgx.Tx, storage repository.Storage) {
				now := time.Now()
				first := createAccount(t, storage, game, "first", "10")
				second := createAccount(t, storage, game, "second", "20")

				older, err := storage.Order().CreateOrder(t.Context(), models.Order{
					CreatedAt: now.Add(-time.Hour), UserID: user.ID, AccountID: first.ID, Amount: first.Price,
				})
				require.NoError(t, err)
				newer, err := storage.Order().CreateOrder(t.Context(), models.Order{
					CreatedAt: now, UserID: user.ID, AccountID: second.ID, Amount: second.Price,
				})
				require.NoError(t, err)

				orders, err := storage.Order().ListOrders(t.Context(), user.ID)
				require.NoError(t, err)
				require.Equal(t, []uuid.UUID{newer.ID, older.ID}, []uuid.UUID{orders[0].ID, orders[1].ID})

				empty, err := storage.Order().ListOrders(t.Context(), uuid.New())
				require.NoError(t, err)
				require.Empty(t, empty)
			})
		})
	})
}
