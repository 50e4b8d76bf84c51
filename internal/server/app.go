// Package server wires the karma leaderboard together: configuration,
// logging, the PostgreSQL store, upstream clients, the sync and read
// services, and the HTTP front end with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrijs2005/karmaboard/internal/client/gsheet"
	"github.com/dmitrijs2005/karmaboard/internal/client/mulearn"
	"github.com/dmitrijs2005/karmaboard/internal/common"
	"github.com/dmitrijs2005/karmaboard/internal/dbx"
	"github.com/dmitrijs2005/karmaboard/internal/logging"
	"github.com/dmitrijs2005/karmaboard/internal/server/archive"
	"github.com/dmitrijs2005/karmaboard/internal/server/config"
	"github.com/dmitrijs2005/karmaboard/internal/server/metrics"
	"github.com/dmitrijs2005/karmaboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/karmaboard/internal/server/secrets"
	"github.com/dmitrijs2005/karmaboard/internal/server/services"
	"github.com/dmitrijs2005/karmaboard/internal/server/web"
)

var (
	logOutput io.Writer = os.Stdout

	newSecretsClient = func(ctx context.Context, region string) (secrets.Getter, error) {
		return secrets.NewClient(ctx, region)
	}
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	registry    *prometheus.Registry
	repomanager repomanager.RepositoryManager
	syncService *services.SyncService
	leaderboard *services.LeaderboardService
}

// NewApp builds every component from c. Secrets Manager credentials are
// merged before validation; required lists the settings the caller needs.
// The database handle is opened lazily and nothing is contacted here.
func NewApp(ctx context.Context, c *config.Config, required ...config.Requirement) (*App, error) {
	logger, err := logging.New(logOutput, c.LogFormat, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	if c.CredentialsSecretID != "" {
		sc, err := newSecretsClient(ctx, c.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("secrets init error: %w", err)
		}
		if err := secrets.Apply(ctx, c, sc); err != nil {
			return nil, err
		}
	}

	if err := c.Validate(required...); err != nil {
		return nil, err
	}

	app := &App{
		config:      c,
		logger:      logger,
		registry:    prometheus.NewRegistry(),
		repomanager: repomanager.NewPostgresRepositoryManager(),
	}
	app.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(app.registry)

	var db dbx.DBTX
	if c.DatabaseDSN != "" {
		app.db, err = sql.Open("pgx", c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		db = app.db
	}

	httpClient := &http.Client{Timeout: c.HTTPTimeout}

	if app.db != nil {
		upstream, err := mulearn.New(c.MulearnBaseURL, c.TokenPath, httpClient)
		if err != nil {
			return nil, fmt.Errorf("%w: token_path: %v", common.ErrConfig, err)
		}

		run := dbx.Sequential(app.db)
		if c.Atomic {
			run = dbx.Transactional(app.db, nil)
		}
		app.syncService = services.NewSyncService(upstream, app.repomanager, run, c, m, logger)

		if c.ArchiveBucket != "" {
			a, err := archive.New(ctx, c)
			if err != nil {
				return nil, fmt.Errorf("archive init error: %w", err)
			}
			app.syncService.SetArchive(a)
		}
	}

	app.leaderboard, err = services.NewLeaderboardService(c, gsheet.New(gsheet.DefaultBaseURL, httpClient), db, app.repomanager, m, logger)
	if err != nil {
		return nil, err
	}

	return app, nil
}

// Logger returns the application logger.
func (app *App) Logger() logging.Logger { return app.logger }

// Leaderboard returns the read path.
func (app *App) Leaderboard() *services.LeaderboardService { return app.leaderboard }

// Get reads the leaderboard.
func (app *App) Get(ctx context.Context, q services.LeaderboardQuery) (services.Leaderboard, error) {
	return app.leaderboard.Get(ctx, q)
}

// Sync runs one sync pass. Without a database there is nothing to write to.
func (app *App) Sync(ctx context.Context) (services.SyncResult, error) {
	if app.syncService == nil {
		return services.SyncResult{}, &common.ConfigError{Key: "database_dsn"}
	}
	return app.syncService.Sync(ctx)
}

// Migrate applies the embedded schema migrations.
func (app *App) Migrate(ctx context.Context) error {
	if app.db == nil {
		return &common.ConfigError{Key: "database_dsn"}
	}
	return app.repomanager.RunMigrations(ctx, app.db)
}

// Close releases the database handle.
func (app *App) Close() error {
	if app.db == nil {
		return nil
	}
	return app.db.Close()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := web.NewServer(app.config.ListenAddr, app.logger, app, app, app.config.SyncToken, app.registry)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run migrates the schema when a database is configured and serves HTTP
// until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	if app.db != nil {
		if err := app.Migrate(ctx); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	return app.Close()
}
