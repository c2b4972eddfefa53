package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/accountshop/internal/handlers/middleware"
	"github.com/nkiryanov/accountshop/internal/logger"
	"github.com/nkiryanov/accountshop/internal/models"
	"github.com/nkiryanov/accountshop/internal/service/catalog"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

type Services struct {
	Auth    authService
	User    userService
	Catalog catalogService
	Order   orderService
	Deposit depositService
}

// NewRouter serves the storefront API under /api
func NewRouter(s Services, logger logger.Logger) http.Handler {
	withAuth := middleware.AuthMiddleware(s.Auth)

	api := http.NewServeMux()

	api.Handle("POST /auth/register", handleRegister(s.Auth, logger))
	api.Handle("POST /auth/login", handleLogin(s.Auth, logger))
	api.Handle("POST /auth/refresh", handleTokenRefresh(s.Auth, logger))
	api.Handle("POST /auth/logout", handleLogout(s.Auth, logger))
	api.Handle("GET /auth/profile", withAuth(handleProfile(s.User, logger)))

	api.Handle("GET /game-categories", handleListGames(s.Catalog, logger))
	api.Handle("GET /game-categories/{id}", handleGetGame(s.Catalog, logger))
	api.Handle("GET /accounts", handleListAccounts(s.Catalog, logger))
	api.Handle("GET /accounts/{id}", handleGetAccount(s.Catalog, logger))

	api.Handle("POST /accounts/{id}/purchase", withAuth(handlePurchase(s.Order, logger)))
	api.Handle("GET /orders", withAuth(handleListOrders(s.Order, logger)))
	api.Handle("POST /deposits", withAuth(handleCreateDeposit(s.Deposit, logger)))
	api.Handle("GET /deposits", withAuth(handleListDeposits(s.Deposit, logger)))
	api.Handle("GET /transactions", withAuth(handleListTransactions(s.User, logger)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type authService interface {
	// Register user and issue the first token pair
	// Has to return apperrors.ErrUserAlreadyExists if email is taken
	Register(ctx context.Context, email string, username string, password string) (models.User, models.TokenPair, error)

	// Has to return apperrors.ErrUserNotFound if user not found or password is wrong
	Login(ctx context.Context, email string, password string) (models.User, models.TokenPair, error)

	// Refresh tokens using refresh token
	// If token expired: has to return apperrors.ErrRefreshTokenExpired
	// If token not found: has to return apperrors.ErrRefreshTokenNotFound
	RefreshPair(ctx context.Context, refresh string) (models.TokenPair, error)

	// Revoke the refresh token
	Logout(ctx context.Context, refresh string) error

	// Set auth tokens (access, refresh) to response
	SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair)

	// Expire auth cookies
	ClearTokens(w http.ResponseWriter)

	// Get refresh token from request
	GetRefreshString(r *http.Request) (string, error)

	// Get request and return user if it authenticated or error
	GetUserFromRequest(ctx context.Context, r *http.Request) (models.User, error)
}

type userService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (models.User, models.Balance, error)
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
}

type catalogService interface {
	ListGames(ctx context.Context) ([]models.GameCategory, error)
	GetGame(ctx context.Context, id int64) (models.GameCategory, error)
	ListAccounts(ctx context.Context, f catalog.Filter) (catalog.Page, error)
	GetAccount(ctx context.Context, id int64) (models.Account, error)
}

type orderService interface {
	Purchase(ctx context.Context, userID uuid.UUID, accountID int64) (models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
}

type depositService interface {
	CreateDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, method string) (models.Deposit, error)
	ListDeposits(ctx context.Context, userID uuid.UUID) ([]models.Deposit, error)
}
