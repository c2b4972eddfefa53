package deposit

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

func TestDeposit(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	withTx := func(t *testing.T, fn func(s *DepositService, storage repository.Storage, user models.User)) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)

			user, err := storage.User().CreateUser(t.Context(), "gamer@example.com", "gamer", "hash")
			require.NoError(t, err)
			require.NoError(t, storage.Balance().CreateBalance(t.Context(), user.ID))

			fn(NewService(storage), storage, user)
		})
	}

	t.Run("CreateDeposit", func(t *testing.T) {
		t.Run("create ok", func(t *testing.T) {
			withTx(t, func(s *DepositService, _ repository.Storage, user models.User) {
				deposit, err := s.CreateDeposit(t.Context(), user.ID, decimal.NewFromInt(100), models.DepositMethodMomo)

				require.NoError(t, err)
				require.Equal(t, models.DepositStatusPending, deposit.Status)
				require.Equal(t, user.ID, deposit.UserID)

				deposits, err := s.ListDeposits(t.Context(), user.ID)
				require.NoError(t, err)
				require.Len(t, deposits, 1)
			})
		})

		tests := []struct {
			name   string
			amount decimal.Decimal
			method string
		}{
			{name: "zero amount", amount: decimal.Zero, method: models.DepositMethodATM},
			{name: "negative amount", amount: decimal.NewFromInt(-5), method: models.DepositMethodATM},
			{name: "unknown method", amount: decimal.NewFromInt(5), method: "CASH"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				withTx(t, func(s *DepositService, _ repository.Storage, user models.User) {
					_, err := s.CreateDeposit(t.Context(), user.ID, tt.amount, tt.method)

					require.ErrorIs(t, err, ErrInvalidDeposit)
				})
			})
		}
	})

	t.Run("Settle", func(t *testing.T) {
		t.Run("approved credits balance", func(t *testing.T) {
			withTx(t, func(s *DepositService, storage repository.Storage, user models.User) {
				deposit, err := s.CreateDeposit(t.Context(), user.ID, decimal.RequireFromString("99.99"), models.DepositMethodCard)
				require.NoError(t, err)

				pending, err := s.ListPending(t.Context(), 10)
				require.NoError(t, err)
				require.Len(t, pending, 1)

				settled, err := s.Settle(t.Context(), deposit.ID, models.DepositStatusApproved)
				require.NoError(t, err)
				require.Equal(t, models.DepositStatusApproved, settled.Status)

				balance, err := storage.Balance().GetBalance(t.Context(), user.ID, false)
				require.NoError(t, err)
				require.Equal(t, "99.99", balance.Current.String())

				transactions, err := storage.Balance().ListTransactions(t.Context(), user.ID)
				require.NoError(t, err)
				require.Len(t, transactions, 1)
				require.Equal(t, deposit.ID, transactions[0].Reference)

				pending, err = s.ListPending(t.Context(), 10)
				require.NoError(t, err)
				require.Empty(t, pending, "settled deposit should not be pending")

				_, err = s.Settle(t.Context(), deposit.ID, models.DepositStatusApproved)
				require.ErrorIs(t, err, apperrors.ErrDepositAlreadyClosed, "deposit should be credited once")

				balance, err = storage.Balance().GetBalance(t.Context(), user.ID, false)
				require.NoError(t, err)
				require.Equal(t, "99.99", balance.Current.String())
			})
		})

		t.Run("rejected keeps balance", func(t *testing.T) {
			withTx(t, func(s *DepositService, storage repository.Storage, user models.User) {
				deposit, err := s.CreateDeposit(t.Context(), user.ID, decimal.NewFromInt(10), models.DepositMethodATM)
				require.NoError(t, err)

				settled, err := s.Settle(t.Context(), deposit.ID, models.DepositStatusRejected)
				require.NoError(t, err)
				require.Equal(t, models.DepositStatusRejected, settled.Status)

				balance, err := storage.Balance().GetBalance(t.Context(), user.ID, false)
				require.NoError(t, err)
				require.True(t, balance.Current.IsZero())
			})
		})

		t.Run("errors", func(t *testing.T) {
			withTx(t, func(s *DepositService, _ repository.Storage, user models.User) {
				deposit, err := s.CreateDeposit(t.Context(), user.ID, decimal.NewFromInt(10), models.DepositMethodATM)
				require.NoError(t, err)

				_, err = s.Settle(t.Context(), deposit.ID, models.DepositStatusPending)
				require.ErrorIs(t, err, ErrInvalidDeposit)

				_, err = s.Settle(t.Context(), uuid.New(), models.DepositStatusApproved)
				require.ErrorIs(t, err, apperrors.ErrDepositNotFound)
			})
		})
	})
}
