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

func TestRefreshToken(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
		user := mustCreateUser(t, storage, "gamer@example.com")
		now := time.Now().Truncate(time.Microsecond)

		newToken := func(token string) models.RefreshToken {
			return models.RefreshToken{
				ID:        uuid.New(),
				UserID:    user.ID,
				Token:     token,
				CreatedAt: now,
				ExpiresAt: now.Add(24 * time.Hour),
			}
		}

		t.Run("save and get", func(t *testing.T) {
			inTx(t, tx, func(_ pgx.Tx, storage repository.Storage) {
				saved, err := storage.Refresh().Save(t.Context(), newToken("token-1"))
				require.NoError(t, err)

				got, err := storage.Refresh().Get(t.Context(), "token-1")

				require.NoError(t, err)
				require.Equal(t, saved.ID, got.ID)
				require.Equal(t, user.ID, got.UserID)
				require.True(t, got.ExpiresAt.Equal(now.Add(24*time.Hour)))
				require.Nil(t, got.UsedAt)
			})
		})

		t.Run("get not existed", func(t *testing.T) {
			inTx(t, tx, func(_ pgx.Tx, storage repository.Storage) {
				_, err := storage.Refresh().Get(t.Context(), "missing")

				require.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
			})
		})

		t.Run("mark used", func(t *testing.T) {
			inTx(t, tx, func(_ pgx.Tx, storage repository.Storage) {
				_, err := storage.Refresh().Save(t.Context(), newToken("token-1"))
				require.NoError(t, err)

				usedAt, err := storage.Refresh().MarkUsed(t.Context(), "token-1")
				require.NoError(t, err)
				require.WithinDuration(t, time.Now(), usedAt, time.Minute)

				usedAgain, err := storage.Refresh().MarkUsed(t.Context(), "token-1")
				require.ErrorIs(t, err, apperrors.ErrRefreshTokenIsUsed)
				require.True(t, usedAt.Equal(usedAgain), "first usage time should be kept")
			})
		})

		t.Run("mark used not existed", func(t *testing.T) {
			inTx(t, tx, func(_ pgx.Tx, storage repository.Storage) {
				_, err := storage.Refresh().MarkUsed(t.Context(), "missing")

				require.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
			})
		})
	})
}
