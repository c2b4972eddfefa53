package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/nkiryanov/accountshop/internal/db"
	"github.com/nkiryanov/accountshop/internal/handlers"
	"github.com/nkiryanov/accountshop/internal/logger"
	"github.com/nkiryanov/accountshop/internal/repository/postgres"
	"github.com/nkiryanov/accountshop/internal/service/auth"
	"github.com/nkiryanov/accountshop/internal/service/auth/tokenmanager"
	"github.com/nkiryanov/accountshop/internal/service/catalog"
	"github.com/nkiryanov/accountshop/internal/service/deposit"
	"github.com/nkiryanov/accountshop/internal/service/depositprocessor"
	"github.com/nkiryanov/accountshop/internal/service/order"
	"github.com/nkiryanov/accountshop/internal/service/payment"
	"github.com/nkiryanov/accountshop/internal/service/user"
)

const shutdownTimeout = 5 * time.Second

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	// nil if payment provider is not configured
	processor *depositprocessor.Processor

	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	l, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	app, err := newServerApp(ctx, c, pool, l)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return app, nil
}

func newServerApp(ctx context.Context, c *Config, pool *pgxpool.Pool, l logger.Logger) (*ServerApp, error) {
	storage := postgres.NewStorage(pool)

	// Initialize services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{
		SecretKey:  c.SecretKey,
		AccessTTL:  c.AccessTokenTTL,
		RefreshTTL: c.RefreshTokenTTL,
	}, storage.Refresh())
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}
	authService, err := auth.NewService(auth.Config{}, tokenManager, storage)
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	catalogService := catalog.NewService(storage)
	depositService := deposit.NewService(storage)

	if c.CatalogFile != "" {
		stats, err := catalogService.ImportFile(ctx, c.CatalogFile)
		if err != nil {
			return nil, fmt.Errorf("error while importing catalog. Err: %w", err)
		}
		l.Info("Catalog imported", "file", c.CatalogFile, "games", stats.Games, "accounts", stats.Accounts)
	}

	var processor *depositprocessor.Processor
	if c.PaymentAddr != "" {
		client, err := payment.NewClient(c.PaymentAddr, l.With("component", "payment"))
		if err != nil {
			return nil, err
		}
		processor = depositprocessor.New(
			depositprocessor.Config{Interval: c.PollInterval},
			client,
			depositService,
			l.With("component", "depositprocessor"),
		)
	} else {
		l.Warn("Payment provider address is not set, deposits stay pending")
	}

	router := handlers.NewRouter(handlers.Services{
		Auth:    authService,
		User:    user.NewService(storage),
		Catalog: catalogService,
		Order:   order.NewService(storage),
		Deposit: depositService,
	}, l)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    router,
		processor:  processor,
		pool:       pool,
		logger:     l,
	}, nil
}

// Run starts http server and deposit processor; both stop gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.ListenAddr,
		Handler:           s.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting server", "addr", s.ListenAddr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := httpServer.Shutdown(timeoutCtx)
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
			err = httpServer.Close()
		}
		s.logger.Info("HTTP server stopped")
		return err
	})

	if s.processor != nil {
		g.Go(func() error {
			<-s.processor.Process(gCtx)
			s.logger.Info("Deposit processor stopped")
			return nil
		})
	}

	return g.Wait()
}

func (s *ServerApp) Close() {
	s.pool.Close()
}
