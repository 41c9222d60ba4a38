// Package server wires configuration, storage and both transports into a
// runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"code.cloudfoundry.org/clock"
	"github.com/dmitrijs2005/trainpi/internal/common"
	"github.com/dmitrijs2005/trainpi/internal/logging"
	"github.com/dmitrijs2005/trainpi/internal/server/config"
	gs "github.com/dmitrijs2005/trainpi/internal/server/grpc"
	"github.com/dmitrijs2005/trainpi/internal/server/httpapi"
	"github.com/dmitrijs2005/trainpi/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/trainpi/internal/server/services"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	manager    repomanager.RepositoryManager
	users      *services.UserService
	exceptions *services.ExceptionService
}

// NewApp opens storage and builds the services. An empty DatabaseDSN keeps
// all data in memory.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, os.Stdout)
	if err != nil {
		return nil, err
	}

	app := &App{config: c, logger: logger}

	if c.SecretKey == "" {
		key, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("secret key: %w", err)
		}
		c.SecretKey = key
		logger.Warn(ctx, "no secret key configured, using a random one; tokens will not survive a restart")
	}

	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database configured, using in-memory storage")
		app.manager = repomanager.NewMemoryRepositoryManager()
	} else {
		db, err := sql.Open("pgx", c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db ping error: %w", err)
		}
		app.db = db
		app.manager = repomanager.NewPostgresRepositoryManager(db)
	}

	if err := app.manager.RunMigrations(ctx); err != nil {
		app.Close()
		return nil, err
	}

	app.users = services.NewUserService(app.manager, c.SecretKey, c.TokenTTL)
	app.exceptions = services.NewExceptionService(app.manager, clock.NewClock(), logger)
	return app, nil
}

// Run starts the HTTP and gRPC servers and blocks until a signal arrives
// or either server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	httpSrv := httpapi.NewServer(app.config.HTTPAddr, app.logger, app.users, app.exceptions, app.config.SecretKey)
	grpcSrv := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.users, app.exceptions, app.config.SecretKey)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpSrv.Run(ctx) })
	g.Go(func() error { return grpcSrv.Run(ctx) })

	err := g.Wait()
	app.Close()
	if err != nil {
		app.logger.Error(context.Background(), "server stopped with error", "error", err)
		return err
	}
	app.logger.Info(context.Background(), "App stopped")
	return nil
}

func (app *App) Close() {
	if app.db != nil {
		_ = app.db.Close()
		app.db = nil
	}
}
