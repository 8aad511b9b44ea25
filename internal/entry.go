package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/labkit/internal/index"
	"github.com/starford/labkit/internal/inventory"
	"github.com/starford/labkit/internal/notebook"
	"github.com/starford/labkit/internal/protocol"
	"github.com/starford/labkit/internal/report"
	"github.com/starford/labkit/internal/store"
)

// App bundles the initialized toolkit components: one store-backed
// manager per record kind, the report writer and the search index.
type App struct {
	Config    *Config
	Logger    *slog.Logger
	Protocols *protocol.Manager
	Notebook  *notebook.Notebook
	Inventory *inventory.Tracker
	Reports   *report.Writer
	Index     *index.DB

	sources index.Sources
}

// NewApp initializes logging, the record stores and the search index
// from cfg. The caller owns the returned App and must Close it.
func NewApp(cfg *Config) (*App, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("protocols_dir", cfg.Data.Protocols),
		slog.String("experiments_dir", cfg.Data.Experiments),
		slog.String("samples_ledger", cfg.Data.LedgerPath()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	protocols, err := store.NewDir(cfg.Data.Protocols)
	if err != nil {
		return nil, fmt.Errorf("init protocol store: %w", err)
	}
	templates, err := store.NewDir(cfg.Data.Templates)
	if err != nil {
		return nil, fmt.Errorf("init template store: %w", err)
	}
	experiments, err := store.NewDir(cfg.Data.Experiments)
	if err != nil {
		return nil, fmt.Errorf("init experiment store: %w", err)
	}
	ledger, err := store.NewLedger(cfg.Data.LedgerPath())
	if err != nil {
		return nil, fmt.Errorf("init samples ledger: %w", err)
	}
	reports, err := report.NewWriter(cfg.Data.Reports, logger)
	if err != nil {
		return nil, fmt.Errorf("init report writer: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		Protocols: protocol.NewManager(protocols, templates, logger),
		Notebook:  notebook.New(experiments, logger),
		Inventory: inventory.NewTracker(ledger, logger),
		Reports:   reports,
		Index:     db,
		sources: index.Sources{
			Protocols:   protocols,
			Experiments: experiments,
			Samples:     ledger,
		},
	}, nil
}

// Close releases the search index connection.
func (a *App) Close() error {
	return a.Index.Close()
}

// SyncIndex runs one full index sync against the stores.
func (a *App) SyncIndex() error {
	return index.Sync(a.Index, a.sources, a.Logger)
}

// Search queries the index, optionally restricted to one record kind.
func (a *App) Search(keyword, kind string, limit int) ([]index.SearchResult, error) {
	return a.Index.Search(keyword, kind, limit)
}

// Run starts watch mode: an initial index sync followed by a file
// watcher that keeps the index current until a shutdown signal or
// context cancellation.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	a, err := NewApp(app.config)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.SyncIndex(); err != nil {
		a.Logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	g, gCtx := errgroup.WithContext(ctx)
	watchCtx, stop := context.WithCancel(gCtx)
	defer stop()

	g.Go(func() error {
		return index.Watch(watchCtx, a.Index, a.sources, a.Logger)
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			a.Logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			a.Logger.Info("Context cancelled, initiating shutdown")
		}

		stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		a.Logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	a.Logger.Info("Watcher stopped successfully")
	return nil
}
