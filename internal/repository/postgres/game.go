package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/accountshop/internal/apperrors"
	"github.com/nkiryanov/accountshop/internal/models"
)

type GameRepo struct {
	DB DBTX
}

const upsertGame = `-- name: UpsertGame
INSERT INTO game_categories (name, image)
VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET image = EXCLUDED.image
RETURNING id, created_at, name, image
`

func (r *GameRepo) UpsertGame(ctx context.Context, name string, image string) (models.GameCategory, error) {
	rows, _ := r.DB.Query(ctx, upsertGame, name, image)
	game, err := pgx.CollectOneRow(rows, rowToGame)
	if err != nil {
		return game, fmt.Errorf("db error: %w", err)
	}
	return game, nil
}

const getGame = `-- name: GetGame
SELECT id, created_at, name, image FROM game_categories
WHERE id = $1
`

func (r *GameRepo) GetGame(ctx context.Context, id int64) (models.GameCategory, error) {
	rows, _ := r.DB.Query(ctx, getGame, id)
	game, err := pgx.CollectOneRow(rows, rowToGame)

	switch {
	case err == nil:
		return game, nil
	case errors.Is(err, pgx.ErrNoRows):
		return game, apperrors.ErrGameNotFound
	default:
		return game, fmt.Errorf("db error: %w", err)
	}
}

const listGames = `-- name: ListGames
SELECT id, created_at, name, image FROM game_categories
ORDER BY name
`

func (r *GameRepo) ListGames(ctx context.Context) ([]models.GameCategory, error) {
	rows, _ := r.DB.Query(ctx, listGames)
	games, err := pgx.CollectRows(rows, rowToGame)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return games, nil
}

func rowToGame(row pgx.CollectableRow) (models.GameCategory, error) {
	var g models.GameCategory
	err := row.Scan(&g.ID, &g.CreatedAt, &g.Name, &g.Image)
	return g, err
}
