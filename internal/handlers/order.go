package handlers

import (
	"errors"
	"net/http"

	"github.com/nkiryanov/accountshop/internal/apperrors"
	"github.com/nkiryanov/accountshop/internal/handlers/render"
	"github.com/nkiryanov/accountshop/internal/handlers/userctx"
	"github.com/nkiryanov/accountshop/internal/logger"
)

func handlePurchase(orderService orderService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		accountID, err := pathID(r)
		if err != nil {
			render.ServiceError(w, "Account not found", http.StatusNotFound)
			return
		}

		order, err := orderService.Purchase(r.Context(), user.ID, accountID)
		switch {
		case err == nil:
			l.Info("Account purchased", "user", user.ID, "account", accountID, "order", order.ID)
			render.DataWithStatus(w, newOrderResponse(order), http.StatusCreated)
		case errors.Is(err, apperrors.ErrAccountNotFound):
			render.ServiceError(w, "Account not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrAccountNotAvailable):
			render.ServiceError(w, "Account is already sold", http.StatusConflict)
		case errors.Is(err, apperrors.ErrBalanceInsufficient):
			render.ServiceError(w, "Insufficient balance", http.StatusPaymentRequired)
		default:
			l.Error("Failed to purchase account", "error", err, "account", accountID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListOrders(orderService orderService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		orders, err := orderService.ListOrders(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to list orders", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.Data(w, mapSlice(orders, newOrderResponse))
	})
}
