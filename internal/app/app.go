package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/five82/drova-launcher/internal/catalog"
	"github.com/five82/drova-launcher/internal/config"
	"github.com/five82/drova-launcher/internal/drova"
	"github.com/five82/drova-launcher/internal/imagecache"
	"github.com/five82/drova-launcher/internal/launch"
	"github.com/five82/drova-launcher/internal/logging"
	"github.com/five82/drova-launcher/internal/prefs"
	"github.com/five82/drova-launcher/internal/progress"
	"github.com/five82/drova-launcher/internal/state"
	"github.com/five82/drova-launcher/internal/station"
	"github.com/five82/drova-launcher/internal/ui"
)

// Options configure the launcher application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/drova-launcher/prefs.toml
	Debug      bool   // force debug logging

	// Station overrides the platform credential source.
	Station station.Provider
	// Logger overrides the file logger configured from the config.
	Logger *slog.Logger
}

// App holds the wired launcher components.
type App struct {
	cfg       config.Config
	prefsPath string
	prefs     prefs.Prefs
	log       *slog.Logger
	closer    io.Closer

	station    station.Provider
	client     *drova.Client
	store      *state.Store
	aggregator *catalog.Aggregator
}

// New loads configuration and wires every component. Call Close when done.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.Debug {
		cfg.Log.Level = slog.LevelDebug
	}

	logger, closer := opts.Logger, io.Closer(nopCloser{})
	if logger == nil {
		logger, closer, err = logging.Setup(logging.Options{
			File:       cfg.Log.File,
			Level:      cfg.Log.Level,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
		})
		if err != nil {
			return nil, fmt.Errorf("init logging: %w", err)
		}
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := drova.NewClient(drova.Options{
		BaseURL:   cfg.APIBase,
		Endpoints: cfg.Endpoints,
		Timeout:   cfg.HTTPTimeout,
		Logger:    logger,
	})
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init drova client: %w", err)
	}

	provider := opts.Station
	if provider == nil {
		provider = station.Default()
	}

	var images imagecache.Resolver = imagecache.Passthrough{}
	if cfg.Images.Cache {
		images = imagecache.New(imagecache.Options{
			Dir:    cfg.Images.Dir,
			TTL:    cfg.Images.TTL,
			HTTP:   client.HTTPClient(),
			Logger: logger,
		})
	}

	var source catalog.LaunchSource = catalog.InlineSource{}
	if cfg.Catalog.LaunchSource == catalog.SourceDetails {
		source = catalog.DetailsSource{Client: client}
	}

	store := &state.Store{}
	aggregator, err := catalog.New(catalog.Options{
		Station:      provider,
		Client:       client,
		Store:        store,
		Images:       images,
		LaunchSource: source,
		Desktop:      cfg.Catalog.Desktop,
		MetadataAuth: cfg.Catalog.MetadataAuth,
		Logger:       logger,
	})
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init catalog: %w", err)
	}

	logger.Info("launcher starting",
		"config", config.Path(opts.ConfigPath),
		"api_base", cfg.APIBase,
		"launch_source", cfg.Catalog.LaunchSource.String(),
		"desktop_policy", cfg.Catalog.Desktop.String(),
		"image_cache", cfg.Images.Cache,
		"args", cfg.Launch.Args.String(),
		"dry_run", cfg.Launch.DryRun)

	return &App{
		cfg:        cfg,
		prefsPath:  opts.PrefsPath,
		prefs:      userPrefs,
		log:        logger,
		closer:     closer,
		station:    provider,
		client:     client,
		store:      store,
		aggregator: aggregator,
	}, nil
}

// Close flushes the log file.
func (a *App) Close() error {
	if a == nil || a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// RunUI starts the kiosk screen and blocks until it exits. The returned code
// is the one requested through the shell.
func (a *App) RunUI(ctx context.Context) (int, error) {
	shell := ui.NewShell()
	resolver, err := a.resolver(shell)
	if err != nil {
		return 1, err
	}
	return ui.Run(ui.Options{
		Context:     ctx,
		Loader:      a.aggregator,
		Launcher:    resolver,
		Details:     a.stationDetails,
		Snapshot:    a.store.Snapshot,
		Shell:       shell,
		ThemeName:   a.prefs.Theme,
		PrefsPath:   a.prefsPath,
		LastProduct: a.prefs.LastProduct,
		LogPath:     a.cfg.Log.File,
		Logger:      a.log,
	})
}

// List loads the catalog once and writes the cards to w as JSON.
func (a *App) List(ctx context.Context, w io.Writer) error {
	cards, err := a.aggregator.Load(ctx, progress.Log(a.log))
	if err != nil {
		return err
	}
	a.logInstalled(len(cards))
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cards)
}

// Launch loads the catalog and runs the action for productID without the
// screen. A desktop entry yields its exit code.
func (a *App) Launch(ctx context.Context, productID string) (int, error) {
	cards, err := a.aggregator.Load(ctx, progress.Log(a.log))
	switch {
	case err == nil:
		a.logInstalled(len(cards))
	case productID != launch.DesktopID:
		return 1, err
	default:
		a.log.Warn("catalog unavailable, continuing to desktop", "error", err)
	}
	shell := ui.NewShell()
	resolver, err := a.resolver(shell)
	if err != nil {
		return 1, err
	}
	if err := resolver.Launch(productID); err != nil {
		return 1, err
	}
	code, _ := shell.ExitCode()
	return code, nil
}

func (a *App) logInstalled(cards int) {
	snap, err := a.store.Snapshot()
	if err != nil {
		a.log.Warn("read launch state", "error", err)
		return
	}
	a.log.Info("catalog installed",
		"cards", cards,
		"launches", len(snap.Launches),
		"desktop", len(snap.Desktop),
		"loads", snap.Loads,
		"updated", snap.LastUpdated.Format(time.RFC3339))
}

func (a *App) resolver(shell launch.Shell) (*launch.Resolver, error) {
	return launch.NewResolver(launch.Options{
		Table:          a.store,
		Shell:          shell,
		Spawner:        launch.NewExecSpawner(a.log),
		ArgMode:        a.cfg.Launch.Args,
		DryRun:         a.cfg.Launch.DryRun,
		ExitAfterSpawn: a.cfg.Launch.ExitAfterSpawn,
		Logger:         a.log,
	})
}

func (a *App) stationDetails(ctx context.Context) (drova.StationDetails, error) {
	st, err := a.station.Station(ctx)
	if err != nil {
		return drova.StationDetails{}, err
	}
	return a.client.FetchStationDetails(ctx, st.UUID)
}

// IsCanceled reports whether err comes from the process being interrupted.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
