// Package server wires configuration, storage, services and transports
// into a runnable application. The HTTP API and the gRPC health endpoint
// run side by side and stop together on SIGINT, SIGTERM or SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophledger/internal/logging"
	"github.com/dmitrijs2005/gophledger/internal/server/auth"
	"github.com/dmitrijs2005/gophledger/internal/server/config"
	"github.com/dmitrijs2005/gophledger/internal/server/currency"
	"github.com/dmitrijs2005/gophledger/internal/server/events"
	"github.com/dmitrijs2005/gophledger/internal/server/httpapi"
	"github.com/dmitrijs2005/gophledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophledger/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/gophledger/internal/server/grpc"
)

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	publisher events.Publisher
	servers   []runner
}

// NewApp opens the database, applies migrations and builds every service.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	db, rm, err := repomanager.Open(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	codec, err := auth.NewTokenCodec(auth.TokenConfig{
		Secret:    c.SecretKey,
		Algorithm: c.SigningAlgorithm,
		TTL:       c.AccessTokenValidityDuration,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	publisher, err := newPublisher(c, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	hasher := auth.NewPasswordHasher(c.BcryptCost)
	rates := currency.NewClient(c.CurrencyAPIURL, c.CurrencyAPIKey, c.CurrencyAPITimeout)

	router := httpapi.NewRouter(httpapi.Services{
		Auth:         auth.NewResolver(codec, rm.Users(db)),
		Users:        services.NewUserService(db, rm, hasher, codec, logger),
		Transactions: services.NewTransactionService(db, rm, publisher, logger),
		Budgets:      services.NewBudgetService(db, rm, publisher, logger),
		Analytics:    services.NewAnalyticsService(db, rm, rates, logger),
		Exports:      services.NewExportService(db, rm, c, logger),
	}, logger)

	return &App{
		config:    c,
		logger:    logger,
		db:        db,
		publisher: publisher,
		servers: []runner{
			httpapi.NewServer(c.EndpointAddrHTTP, router, logger),
			gs.NewGRPCServer(c.EndpointAddrGRPC, logger, db, gs.DefaultProbeInterval),
		},
	}, nil
}

// newPublisher connects to the broker when one is configured.
func newPublisher(c *config.Config, logger logging.Logger) (events.Publisher, error) {
	if c.AMQPURL == "" {
		return events.Nop{}, nil
	}
	p, err := events.NewAMQPPublisher(c.AMQPURL, c.AMQPExchange, logger)
	if err != nil {
		return nil, fmt.Errorf("amqp init error: %w", err)
	}
	return p, nil
}

// Run blocks until a termination signal arrives or a server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")
	err := app.serve(ctx)
	app.logger.Info(context.WithoutCancel(ctx), "App stopped")

	return errors.Join(err, app.publisher.Close(), app.db.Close())
}

func (app *App) serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range app.servers {
		g.Go(func() error { return s.Run(ctx) })
	}
	return g.Wait()
}
