// Package cli wires configuration, logging and the artwork cache for the
// artcache commands.
package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bnema/artcache/internal/application/port"
	"github.com/bnema/artcache/internal/cli/styles"
	"github.com/bnema/artcache/internal/domain/build"
	"github.com/bnema/artcache/internal/infrastructure/artwork"
	"github.com/bnema/artcache/internal/infrastructure/cache"
	"github.com/bnema/artcache/internal/infrastructure/config"
	"github.com/bnema/artcache/internal/infrastructure/mainloop"
	"github.com/bnema/artcache/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	ConfigMgr *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info

	// Store is the one artwork cache of the process.
	Store *cache.AssetCache

	// Context with logger
	ctx        context.Context
	logCleanup func()
	reloads    *mainloop.Coalescer
}

// AppOptions tunes NewApp for the running command.
type AppOptions struct {
	// LogToStderr is false for full-screen commands, which would be
	// corrupted by log lines; file logging still applies.
	LogToStderr bool
}

// NewApp loads configuration through mgr and builds the shared cache.
func NewApp(mgr *config.Manager, opts AppOptions) (*App, error) {
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := mgr.Get()

	// The logger itself accepts every level; the configured one is applied
	// globally so a reload can lower it as well as raise it.
	level, _ := logging.ParseLevel(cfg.Logging.Level)
	logger, logCleanup, err := logging.NewWithFile(
		logging.Config{Level: zerolog.TraceLevel, Format: cfg.Logging.Format, TimeFormat: "15:04:05"},
		logging.FileConfig{
			Enabled: cfg.Logging.EnableFileLog,
			Rotator: logging.RotatorConfig{
				Dir:        cfg.Logging.LogDir,
				MaxSizeMB:  cfg.Logging.MaxSize,
				MaxBackups: cfg.Logging.MaxBackups,
				MaxAgeDays: cfg.Logging.MaxAge,
				Compress:   cfg.Logging.Compress,
			},
			WriteToStderr: opts.LogToStderr,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	zerolog.SetGlobalLevel(level)
	runID := logging.GenerateRunID()
	logger = logger.With().Str("run", logging.ShortRunID(runID)).Logger()
	ctx := logging.WithContext(context.Background(), logger)

	store := cache.NewAssetCache(cache.Limits{
		MaxCount:     cfg.Cache.MaxCount,
		MaxTotalCost: cfg.Cache.MaxTotalCost,
	})

	logging.FromContext(ctx).Debug().
		Int("max_count", store.Limits().MaxCount).
		Int64("max_total_cost", store.Limits().MaxTotalCost).
		Str("config", mgr.ConfigFilePath()).
		Msg("artwork cache ready")

	return &App{
		Config:     cfg,
		ConfigMgr:  mgr,
		Theme:      styles.NewTheme(),
		Store:      store,
		ctx:        ctx,
		logCleanup: logCleanup,
	}, nil
}

// Context returns the app context carrying the logger.
func (a *App) Context() context.Context {
	return a.ctx
}

// NewFetcher builds a fetcher feeding the shared cache and completing on d.
func (a *App) NewFetcher(d port.Dispatcher) *artwork.Fetcher {
	opts := []artwork.Option{
		artwork.WithTimeout(a.Config.Fetch.Timeout),
		artwork.WithMaxDecodedBytes(a.Store.Limits().MaxTotalCost),
		artwork.WithCoalescing(a.Config.Fetch.Coalesce),
		artwork.WithHeader("Accept", "image/*"),
	}
	if a.Config.Fetch.UserAgent != "" {
		opts = append(opts, artwork.WithUserAgent(a.Config.Fetch.UserAgent))
	}
	return artwork.NewFetcher(a.Store, d, opts...)
}

// WatchConfig applies log level changes from the config file while running.
// Editors emit several events per save; reloads are merged on d so the
// latest settings are applied once. Cache limits are fixed for the life of
// the process.
func (a *App) WatchConfig(d port.Dispatcher) error {
	a.reloads = mainloop.NewCoalescer(d)
	a.ConfigMgr.OnConfigChange(func(cfg *config.Config) {
		a.reloads.Post("config", func() { a.applyLogLevel(cfg) })
	})
	return a.ConfigMgr.Watch()
}

func (a *App) applyLogLevel(cfg *config.Config) {
	level, ok := logging.ParseLevel(cfg.Logging.Level)
	if !ok {
		return
	}
	zerolog.SetGlobalLevel(level)
	a.Config.Logging.Level = cfg.Logging.Level
	logging.FromContext(a.ctx).Info().Str("new_level", level.String()).Msg("log level reloaded")
}

// Close releases resources.
func (a *App) Close() error {
	if a.reloads != nil {
		a.reloads.Stop()
	}
	if a.logCleanup != nil {
		a.logCleanup()
	}
	return nil
}
