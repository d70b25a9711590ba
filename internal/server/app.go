// Package server wires and runs the Credential Gateway server: storage,
// account and profile services, and the REST API.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/campuslink/internal/logging"
	"github.com/dmitrijs2005/campuslink/internal/server/config"
	"github.com/dmitrijs2005/campuslink/internal/server/httpapi"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/campuslink/internal/server/services"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	repos      repomanager.RepositoryManager
	httpServer *httpapi.HTTPServer
}

// NewApp opens storage, applies migrations and builds the HTTP server.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(os.Stdout, c.LogFormat, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	repos, err := repomanager.New(ctx, c.Storage, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	as := services.NewAccountService(repos, c, logger)
	ps := services.NewProfileService(repos, logger)
	hs := httpapi.NewHTTPServer(c.EndpointAddr, c.ProjectID, logger, as, ps)

	return &App{config: c, logger: logger, repos: repos, httpServer: hs}, nil
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.Storage)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.httpServer.Run(ctx)
	})

	err := g.Wait()
	if cerr := app.repos.Close(); cerr != nil {
		app.logger.Error(ctx, "closing storage", "error", cerr)
	}
	app.logger.Info(ctx, "App stopped")
	return err
}
