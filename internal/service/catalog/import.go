package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/nkiryanov/accountshop/internal/models"
	"github.com/nkiryanov/accountshop/internal/repository"
	"github.com/nkiryanov/accountshop/internal/slug"
)

// Catalog file layout:
//
//	games:
//	  - name: Genshin Impact
//	    image: https://cdn.example.com/genshin.png
//	    accounts:
//	      - title: AR 60 Raiden
//	        type: vip
//	        price: "49.50"
//	        description: 5 five-star characters
type catalogFile struct {
	Games []struct {
		Name     string `yaml:"name"`
		Image    string `yaml:"image"`
		Accounts []struct {
			Title       string `yaml:"title"`
			Type        string `yaml:"type"`
			Description string `yaml:"description"`
			Price       string `yaml:"price"`
		} `yaml:"accounts"`
	} `yaml:"games"`
}

type ImportStats struct {
	Games    int
	Accounts int
}

func (s *CatalogService) ImportFile(ctx context.Context, path string) (ImportStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportStats{}, fmt.Errorf("can't open catalog file. Err: %w", err)
	}
	defer f.Close() // nolint:errcheck

	return s.Import(ctx, f)
}

// Import upserts games by name and accounts by game and title in one transaction
// Accounts keep their sale status, so a sold account is not put on sale again
func (s *CatalogService) Import(ctx context.Context, r io.Reader) (ImportStats, error) {
	var (
		file  catalogFile
		stats ImportStats
	)

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return stats, fmt.Errorf("can't parse catalog. Err: %w", err)
	}

	err := s.storage.InTx(ctx, func(storage repository.Storage) error {
		for _, g := range file.Games {
			name := strings.TrimSpace(g.Name)
			if name == "" {
				return fmt.Errorf("game name must not be empty")
			}

			game, err := storage.Game().UpsertGame(ctx, name, g.Image)
			if err != nil {
				return err
			}
			stats.Games++

			for _, a := range g.Accounts {
				title := strings.TrimSpace(a.Title)
				if title == "" {
					return fmt.Errorf("account title must not be empty, game %q", name)
				}

				price, err := decimal.NewFromString(a.Price)
				if err != nil || price.IsNegative() {
					return fmt.Errorf("invalid price %q of account %q", a.Price, title)
				}

				_, err = storage.Account().UpsertAccount(ctx, models.Account{
					GameCategoryID: game.ID,
					Type:           slug.NormalizeType(a.Type).Key,
					Title:          title,
					Description:    a.Description,
					Price:          price,
				})
				if err != nil {
					return err
				}
				stats.Accounts++
			}
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, fmt.Errorf("catalog import failed. Err: %w", err)
	}

	return stats, nil
}
