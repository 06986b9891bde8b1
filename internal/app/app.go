package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/five82/encore/internal/actions"
	"github.com/five82/encore/internal/api"
	"github.com/five82/encore/internal/config"
	"github.com/five82/encore/internal/control"
	"github.com/five82/encore/internal/dispatch"
	"github.com/five82/encore/internal/prefs"
	"github.com/five82/encore/internal/realtime"
	"github.com/five82/encore/internal/state"
	"github.com/five82/encore/internal/storage"
	"github.com/five82/encore/internal/ui"
)

// Options configure the encore application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/encore/prefs.toml
	Strict     bool   // overrides the config file when set
	Headless   bool   // run without the TUI until the context ends
}

// Run boots encore until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	userPrefs := prefs.Load(opts.PrefsPath)

	logger, closeLog, err := newLogger(cfg.LogFile, cfg.LogLevel, opts.Headless)
	if err != nil {
		return err
	}
	defer closeLog()

	db, err := storage.Open(cfg.DatabaseDir())
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	client, err := api.NewClient(cfg.APIURL, cfg.APIToken)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	self := state.Signature(uuid.NewString())
	env := &actions.Env{
		Self:      self,
		Catalog:   client,
		Tracks:    client,
		Follower:  client,
		Artifacts: db,
		Pages:     db,
		Log:       logger.With().Str("component", "actions").Logger(),
	}
	acts := actions.New(env)

	var observers []func(prev, next state.AppState)
	d := dispatch.New(state.NewStore(state.Init(self)), dispatch.Options{
		Self:    self,
		Timeout: cfg.ActionTimeout,
		Strict:  cfg.Strict || opts.Strict,
		Logger:  logger,
		OnPublish: func(prev, next state.AppState) {
			for _, observe := range observers {
				observe(prev, next)
			}
		},
	})

	reporters := actions.Reporters{client}
	var syncClient *realtime.Client
	if cfg.SyncURL != "" {
		syncClient, err = realtime.NewClient(realtime.Options{
			URL:    cfg.SyncURL,
			Token:  cfg.APIToken,
			Self:   self,
			Sink:   d,
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("init sync client: %w", err)
		}
		reporters = append(reporters, syncClient)
		observers = append(observers, syncClient.Publish)
	}
	env.Reporter = reporters
	observers = append(observers, rememberSignIn(opts.PrefsPath, logger), persistSession(db, logger))
	restoreSession(ctx, db, d, acts, logger)

	logger.Info().
		Str("signature", string(self)).
		Str("api", cfg.APIURL).
		Bool("sync", syncClient != nil).
		Str("control", cfg.ControlBind).
		Msg("encore starting")

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		if err := d.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	StartClock(gctx, d, acts, defaultClockInterval)

	if syncClient != nil {
		g.Go(func() error { return syncClient.Run(gctx) })
	}
	if cfg.ControlBind != "" {
		g.Go(func() error {
			return control.Serve(gctx, cfg.ControlBind, control.NewRouter(d, acts, db, logger))
		})
	}

	g.Go(func() error {
		defer cancel()
		if opts.Headless {
			<-gctx.Done()
			return nil
		}
		return ui.Run(gctx, ui.Options{
			Dispatcher: d,
			Actions:    acts,
			ThemeName:  userPrefs.Theme,
			PrefsPath:  opts.PrefsPath,
		})
	})

	err = g.Wait()
	logger.Info().Err(err).Msg("encore stopped")
	return err
}

// rememberSignIn saves the email of each newly signed-in account.
func rememberSignIn(prefsPath string, logger zerolog.Logger) func(prev, next state.AppState) {
	return func(prev, next state.AppState) {
		if !next.User.IsAuthenticated() || next.User.Email == "" {
			return
		}
		if prev.User.IsAuthenticated() && prev.User.Email == next.User.Email {
			return
		}
		if _, err := prefs.RememberEmail(prefsPath, next.User.Email); err != nil {
			logger.Warn().Err(err).Msg("remember sign-in email")
		}
	}
}
