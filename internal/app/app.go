package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/five82/partpick/internal/asset"
	"github.com/five82/partpick/internal/catalog"
	"github.com/five82/partpick/internal/config"
	"github.com/five82/partpick/internal/inventree"
	"github.com/five82/partpick/internal/logging"
	"github.com/five82/partpick/internal/prefs"
	"github.com/five82/partpick/internal/state"
	"github.com/five82/partpick/internal/ui"
)

// eventBuffer sizes the driver event channel. One select produces at most a
// handful of events, so the pump never falls far behind.
const eventBuffer = 64

// Options configure the partpick application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/partpick/prefs.toml
	DriverID   int    // zero uses the config value
	Debug      bool

	// Notifier receives driver events. Nil creates a channel notifier whose
	// events the TUI pumps into its store.
	Notifier catalog.Notifier
}

// Runtime is everything a front end needs to talk to the server.
type Runtime struct {
	Config   config.Config
	Logger   *zap.Logger
	Driver   *inventree.Driver
	Assets   *asset.Fetcher
	DriverID int

	events *catalog.ChannelNotifier
	close  func() error
}

// Events returns the driver event stream, or nil when a custom notifier was
// supplied.
func (r *Runtime) Events() <-chan catalog.Event {
	if r.events == nil {
		return nil
	}
	return r.events.Events()
}

// Connect logs in with the configured credentials.
func (r *Runtime) Connect(ctx context.Context) error {
	return r.Driver.Connect(ctx, r.Config.Credentials(), r.DriverID)
}

// Close flushes the logger.
func (r *Runtime) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// Bootstrap loads config, opens the log and builds the driver. It does not
// touch the network.
func Bootstrap(opts Options) (*Runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := logging.New(logging.Options{Path: cfg.LogFile, Debug: cfg.Debug || opts.Debug})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	fail := func(err error) (*Runtime, error) {
		_ = closeLog()
		return nil, err
	}

	fetcher, err := asset.New(asset.Options{Dir: cfg.ImageDir, Timeout: cfg.RequestTimeout, Logger: logger})
	if err != nil {
		return fail(fmt.Errorf("init asset fetcher: %w", err))
	}

	rt := &Runtime{
		Config:   cfg,
		Logger:   logger,
		Assets:   fetcher,
		DriverID: cfg.DriverID,
		close:    closeLog,
	}
	if opts.DriverID != 0 {
		rt.DriverID = opts.DriverID
	}

	notifier := opts.Notifier
	if notifier == nil {
		rt.events = catalog.NewChannelNotifier(eventBuffer)
		notifier = rt.events
	}

	driver, err := inventree.NewDriver(inventree.Options{
		ServerURL: cfg.ServerURL,
		Timeout:   cfg.RequestTimeout,
		Assets:    fetcher,
		Notifier:  notifier,
		Logger:    logger,
	})
	if err != nil {
		return fail(err)
	}
	rt.Driver = driver

	logger.Info("partpick starting",
		zap.String("config", cfg.Path),
		zap.String("server", driver.Session().ServerURL),
		zap.Int("driver_id", rt.DriverID),
		zap.Duration("request_timeout", cfg.RequestTimeout))
	return rt, nil
}

// Run boots the partpick TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	rt, err := Bootstrap(opts)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		rt.Logger.Warn("prefs unreadable, using defaults", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := &state.Store{}
	done := StartPump(ctx, store, rt.Events(), rt.Logger)

	err = ui.Run(ui.Options{
		Context:     ctx,
		Warehouse:   rt.Driver,
		Credentials: rt.Config.Credentials(),
		DriverID:    rt.DriverID,
		Store:       store,
		ServerURL:   rt.Driver.Session().ServerURL,
		LogFile:     rt.Config.LogFile,
		Prefs:       userPrefs,
		PrefsPath:   opts.PrefsPath,
		Logger:      rt.Logger,
		UITick:      uiTick,
	})

	cancel()
	<-done
	rt.Logger.Info("partpick stopped")
	return err
}

const uiTick = 250 * time.Millisecond
