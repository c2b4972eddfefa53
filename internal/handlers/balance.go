package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nkiryanov/accountshop/internal/handlers/render"
	"github.com/nkiryanov/accountshop/internal/handlers/userctx"
	"github.com/nkiryanov/accountshop/internal/logger"
	"github.com/nkiryanov/accountshop/internal/models"
	"github.com/nkiryanov/accountshop/internal/service/deposit"
)

func handleCreateDeposit(depositService depositService, l logger.Logger) http.Handler {
	type request struct {
		Amount decimal.Decimal `json:"amount"`
		Method string          `json:"method" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		method := strings.ToUpper(strings.TrimSpace(data.Method))
		d, err := depositService.CreateDeposit(r.Context(), user.ID, data.Amount, method)
		switch {
		case err == nil:
			l.Info("Deposit created", "user", user.ID, "deposit", d.ID, "amount", d.Amount)
			render.DataWithStatus(w, newDepositResponse(d), http.StatusCreated)
		case errors.Is(err, deposit.ErrInvalidDeposit):
			render.ServiceError(w, err.Error(), http.StatusBadRequest)
		default:
			l.Error("Failed to create deposit", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListDeposits(depositService depositService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		deposits, err := depositService.ListDeposits(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to list deposits", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.Data(w, mapSlice(deposits, newDepositResponse))
	})
}

func handleListTransactions(userService userService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		transactions, err := userService.ListTransactions(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to list transactions", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.Data(w, mapSlice(transactions, func(t models.Transaction) transactionResponse {
			return transactionResponse{
				ID:          t.ID,
				Type:        t.Type,
				Amount:      t.Amount,
				Reference:   t.Reference,
				ProcessedAt: t.ProcessedAt,
			}
		}))
	})
}
