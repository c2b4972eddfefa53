package user

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/accountshop/internal/apperrors"
	"github.com/nkiryanov/accountshop/internal/models"
	"github.com/nkiryanov/accountshop/internal/repository"
	"github.com/nkiryanov/accountshop/internal/repository/postgres"
	"github.com/nkiryanov/accountshop/internal/testutil"
)

func TestUser(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Create UserService within transaction and a user with balance
	inTx := func(t *testing.T, fn func(s *UserService, storage repository.Storage, user models.User)) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)

			user, err := storage.User().CreateUser(t.Context(), "gamer@example.com", "gamer", "hash")
			require.NoError(t, err)
			require.NoError(t, storage.Balance().CreateBalance(t.Context(), user.ID))

			fn(NewService(storage), storage, user)
		})
	}

	t.Run("GetProfile", func(t *testing.T) {
		t.Run("profile ok", func(t *testing.T) {
			inTx(t, func(s *UserService, storage repository.Storage, user models.User) {
				_, err := storage.Balance().UpdateBalance(t.Context(), models.Transaction{
					UserID:    user.ID,
					Reference: uuid.New(),
					Type:      models.TransactionTypeDeposit,
					Amount:    decimal.RequireFromString("150.50"),
				})
				require.NoError(t, err)

				got, balance, err := s.GetProfile(t.Context(), user.ID)

				require.NoError(t, err)
				require.Equal(t, user.Email, got.Email)
				require.Equal(t, "150.5", balance.Current.String())
				require.True(t, balance.Spent.IsZero())
			})
		})

		t.Run("unknown user", func(t *testing.T) {
			inTx(t, func(s *UserService, _ repository.Storage, _ models.User) {
				_, _, err := s.GetProfile(t.Context(), uuid.New())

				require.ErrorIs(t, err, apperrors.ErrUserNotFound)
			})
		})
	})

	t.Run("ListTransactions", func(t *testing.T) {
		inTx(t, func(s *UserService, storage repository.Storage, user models.User) {
			transactions, err := s.ListTransactions(t.Context(), user.ID)
			require.NoError(t, err)
			require.Empty(t, transactions)

			_, err = storage.Balance().UpdateBalance(t.Context(), models.Transaction{
				UserID:    user.ID,
				Reference: uuid.New(),
				Type:      models.TransactionTypeDeposit,
				Amount:    decimal.NewFromInt(10),
			})
			require.NoError(t, err)

			transactions, err = s.ListTransactions(t.Context(), user.ID)
			require.NoError(t, err)
			require.Len(t, transactions, 1)
			require.Equal(t, models.TransactionTypeDeposit, transactions[0].Type)
		})
	})
}
