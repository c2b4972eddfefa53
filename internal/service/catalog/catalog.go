package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nkiryanov/accountshop/internal/models"
	"github.com/nkiryanov/accountshop/internal/repository"
	"github.com/nkiryanov/accountshop/internal/slug"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Keeps the offset far from int overflow
	MaxPage = 100_000
)

var ErrInvalidFilter = errors.New("invalid account filter")

type CatalogService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *CatalogService {
	return &CatalogService{storage: storage}
}

func (s *CatalogService) ListGames(ctx context.Context) ([]models.GameCategory, error) {
	return s.storage.Game().ListGames(ctx)
}

func (s *CatalogService) GetGame(ctx context.Context, id int64) (models.GameCategory, error) {
	return s.storage.Game().GetGame(ctx, id)
}

func (s *CatalogService) GetAccount(ctx context.Context, id int64) (models.Account, error) {
	return s.storage.Account().GetAccount(ctx, id, false)
}

// Filter of the account listing. Zero values mean "any".
type Filter struct {
	GameCategoryID int64
	Type           string
	Status         string
	MinPrice       *decimal.Decimal
	MaxPrice       *decimal.Decimal
	SortBy         string

	// 1-based page number, 1 if zero
	Page int

	// Page size, DefaultPageSize if zero
	Limit int
}

type Page struct {
	Items []models.Account
	Page  int
	Limit int
	Total int
}

func (p Page) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

func (p Page) HasNext() bool {
	return p.Page < p.TotalPages()
}

func (p Page) HasPrevious() bool {
	return p.Page > 1
}

func (s *CatalogService) ListAccounts(ctx context.Context, f Filter) (Page, error) {
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = DefaultPageSize
	}

	switch {
	case f.Page < 0 || f.Page > MaxPage:
		return Page{}, fmt.Errorf("%w: page must be between 1 and %d", ErrInvalidFilter, MaxPage)
	case f.Limit < 0 || f.Limit > MaxPageSize:
		return Page{}, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidFilter, MaxPageSize)
	case f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice):
		return Page{}, fmt.Errorf("%w: minPrice is greater than maxPrice", ErrInvalidFilter)
	}

	switch f.SortBy {
	case "", repository.SortNewest, repository.SortPriceAsc, repository.SortPriceDesc:
	default:
		return Page{}, fmt.Errorf("%w: unknown sort %q", ErrInvalidFilter, f.SortBy)
	}

	accountType := f.Type
	if accountType != "" {
		t, ok := slug.LookupType(strings.ToLower(strings.TrimSpace(accountType)))
		if !ok {
			return Page{}, fmt.Errorf("%w: unknown account type %q", ErrInvalidFilter, accountType)
		}
		accountType = t.Key
	}

	items, total, err := s.storage.Account().ListAccounts(ctx, repository.ListAccountsOpts{
		GameCategoryID: f.GameCategoryID,
		Type:           accountType,
		Status:         f.Status,
		MinPrice:       f.MinPrice,
		MaxPrice:       f.MaxPrice,
		SortBy:         f.SortBy,
		Limit:          f.Limit,
		Offset:         (f.Page - 1) * f.Limit,
	})
	if err != nil {
		return Page{}, err
	}

	return Page{Items: items, Page: f.Page, Limit: f.Limit, Total: total}, nil
}
