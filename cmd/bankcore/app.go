package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/nkiryanov/bankcore/internal/db"
	"github.com/nkiryanov/bankcore/internal/events"
	"github.com/nkiryanov/bankcore/internal/handlers"
	"github.com/nkiryanov/bankcore/internal/logger"
	"github.com/nkiryanov/bankcore/internal/repository/postgres"
	"github.com/nkiryanov/bankcore/internal/service/account"
	"github.com/nkiryanov/bankcore/internal/service/customer"
	"github.com/nkiryanov/bankcore/internal/service/movement"
	"github.com/nkiryanov/bankcore/internal/service/report"
)

const shutdownTimeout = 5 * time.Second

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	pool      *pgxpool.Pool
	publisher *events.Publisher
	logger    logger.Logger
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

	storage := postgres.NewStorage(pool)

	// Outbound integrations
	customers := customer.NewClient(customer.Config{
		Addr:      c.CustomerAddr,
		Timeout:   c.CustomerTimeout,
		SecretKey: c.SecretKey,
	}, l.WithGroup("customer"))

	var transport events.Transport = &events.LogTransport{Logger: l.WithGroup("events")}
	if c.EventsWebhook != "" {
		transport = events.NewWebhookTransport(c.EventsWebhook)
	}
	publisher := events.NewPublisher(events.Config{CountWorkers: c.EventsWorkers}, transport, l.WithGroup("events"))

	// Initialize services
	accountService := account.NewService(storage, customers, publisher, l)
	movementService := movement.NewService(storage, publisher, l)
	reportService := report.NewService(storage, customers, l)

	mux := handlers.NewRouter(handlers.Services{
		Accounts:  accountService,
		Movements: movementService,
		Reports:   reportService,
		DB:        pool,
	}, l)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		pool:       pool,
		publisher:  publisher,
		logger:     l,
	}, nil
}

// Run starts http server and event publisher.
// Both are stopped gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	defer s.pool.Close()

	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-s.publisher.Run(gCtx)
		return nil
	})

	g.Go(func() error {
		s.logger.Info("Starting server", "address", s.ListenAddr)
		err := httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := httpServer.Shutdown(timeoutCtx)
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
			return httpServer.Close()
		}
		s.logger.Info("HTTP server stopped")
		return err
	})

	return g.Wait()
}
