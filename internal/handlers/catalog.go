package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/nkiryanov/accountshop/internal/apperrors"
	"github.com/nkiryanov/accountshop/internal/handlers/render"
	"github.com/nkiryanov/accountshop/internal/logger"
	"github.com/nkiryanov/accountshop/internal/service/catalog"
)

func handleListGames(catalogService catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		games, err := catalogService.ListGames(r.Context())
		if err != nil {
			l.Error("Failed to list games", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.Data(w, mapSlice(games, newGameResponse))
	})
}

func handleGetGame(catalogService catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			render.ServiceError(w, "Game category not found", http.StatusNotFound)
			return
		}

		game, err := catalogService.GetGame(r.Context(), id)
		switch {
		case err == nil:
			render.Data(w, newGameResponse(game))
		case errors.Is(err, apperrors.ErrGameNotFound):
			render.ServiceError(w, "Game category not found", http.StatusNotFound)
		default:
			l.Error("Failed to get game", "error", err, "id", id)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListAccounts(catalogService catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseAccountFilter(r.URL.Query())
		if err != nil {
			render.ServiceError(w, err.Error(), http.StatusBadRequest)
			return
		}

		page, err := catalogService.ListAccounts(r.Context(), filter)
		switch {
		case err == nil:
			render.Data(w, newAccountPageResponse(page))
		case errors.Is(err, catalog.ErrInvalidFilter):
			render.ServiceError(w, err.Error(), http.StatusBadRequest)
		default:
			l.Error("Failed to list accounts", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleGetAccount(catalogService catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			render.ServiceError(w, "Account not found", http.StatusNotFound)
			return
		}

		account, err := catalogService.GetAccount(r.Context(), id)
		switch {
		case err == nil:
			render.Data(w, newAccountResponse(account))
		case errors.Is(err, apperrors.ErrAccountNotFound):
			render.ServiceError(w, "Account not found", http.StatusNotFound)
		default:
			l.Error("Failed to get account", "error", err, "id", id)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

func parseAccountFilter(q url.Values) (catalog.Filter, error) {
	f := catalog.Filter{
		Type:   q.Get("type"),
		Status: q.Get("status"),
		SortBy: q.Get("sortBy"),
	}

	var err error

	if v := q.Get("gameCategoryId"); v != "" {
		if f.GameCategoryID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return f, invalidParam("gameCategoryId")
		}
	}
	if v := q.Get("page"); v != "" {
		if f.Page, err = strconv.Atoi(v); err != nil {
			return f, invalidParam("page")
		}
	}
	if v := q.Get("limit"); v != "" {
		if f.Limit, err = strconv.Atoi(v); err != nil {
			return f, invalidParam("limit")
		}
	}
	if f.MinPrice, err = decimalParam(q, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = decimalParam(q, "maxPrice"); err != nil {
		return f, err
	}

	return f, nil
}

func decimalParam(q url.Values, name string) (*decimal.Decimal, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, invalidParam(name)
	}
	return &d, nil
}

func invalidParam(name string) error {
	return fmt.Errorf("invalid query parameter '%s'", name)
}
