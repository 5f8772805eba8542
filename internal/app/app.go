// Package app wires configuration, storage, the browser and the exporter
// into one container shared by the server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"resume-builder/internal/adapter/repository"
	"resume-builder/internal/config"
	"resume-builder/internal/infrastructure/migration"
	"resume-builder/internal/surface"
	"resume-builder/internal/usecase"
	infra "resume-builder/pkg/infrastructure"

	"go.uber.org/zap"
)

var ErrNoStore = errors.New("no resume store configured (set store.driver)")

// App is the dependency container. The browser is only started when an
// export first needs it.
type App struct {
	Config   *config.Config
	Log      *zap.Logger
	Store    repository.Store
	Exporter *usecase.Exporter
	Gate     *usecase.Gate

	mu      sync.Mutex
	chrome  *infra.Chrome
	mounter *surface.Mounter
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	store, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Log: log, Store: store, Gate: usecase.NewGate()}
	opts := []usecase.ExporterOption{
		usecase.WithDefaults(cfg.PDF.Options),
		usecase.WithRetry(cfg.Render.Attempts, cfg.Render.RetryBackoff),
	}
	if store != nil {
		opts = append(opts, usecase.WithRecorder(store))
	}
	a.Exporter = usecase.NewExporter(a, usecase.DirSaver{Dir: cfg.Output.Dir}, log, opts...)
	return a, nil
}

func openStore(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (repository.Store, error) {
	switch cfg.Driver {
	case "postgres":
		pool, err := infra.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if cfg.Migrate {
			if err := migration.RunMigrations(ctx, pool, log); err != nil {
				pool.Close()
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		return repository.NewPostgresStore(pool), nil
	case "sqlite":
		s, err := repository.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("using sqlite store", zap.String("path", cfg.SQLitePath))
		return s, nil
	default:
		return nil, nil
	}
}

// Browser returns the shared headless browser, starting it on first use.
func (a *App) Browser() (*infra.Chrome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.browserLocked()
}

func (a *App) browserLocked() (*infra.Chrome, error) {
	if a.chrome != nil {
		return a.chrome, nil
	}
	c, err := infra.NewChrome(infra.ChromeConfig{
		ExecPath:     a.Config.Chrome.Path,
		NoSandbox:    a.Config.Chrome.NoSandbox,
		AutoDownload: a.Config.Chrome.AutoDownload,
		Timeout:      a.Config.Chrome.Timeout,
	}, a.Log)
	if err != nil {
		return nil, err
	}
	a.chrome = c
	return c, nil
}

// Settler is the configured settle strategy.
func (a *App) Settler() surface.Settler {
	return surface.ParseSettler(a.Config.Render.Settle, a.Config.Render.SettleDelay)
}

// Mount places html on a fresh off-screen surface of the shared browser.
func (a *App) Mount(ctx context.Context, html []byte) (*surface.Scoped, error) {
	a.mu.Lock()
	if a.mounter == nil {
		c, err := a.browserLocked()
		if err != nil {
			a.mu.Unlock()
			return nil, err
		}
		a.mounter = surface.NewMounter(c,
			surface.WithSettler(a.Settler()),
			surface.WithTempDir(a.Config.Render.TempDir),
			surface.WithLogger(a.Log),
		)
	}
	m := a.mounter
	a.mu.Unlock()
	return m.Mount(ctx, html)
}

// RequireStore returns the store or ErrNoStore.
func (a *App) RequireStore() (repository.Store, error) {
	if a.Store == nil {
		return nil, ErrNoStore
	}
	return a.Store, nil
}

func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var errs []error
	if a.chrome != nil {
		errs = append(errs, a.chrome.Close())
		a.chrome, a.mounter = nil, nil
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	_ = a.Log.Sync()
	return errors.Join(errs...)
}
