package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/five82/statsoverlay/internal/clock"
	"github.com/five82/statsoverlay/internal/config"
	"github.com/five82/statsoverlay/internal/hypixel"
	"github.com/five82/statsoverlay/internal/logtail"
	"github.com/five82/statsoverlay/internal/mojang"
	"github.com/five82/statsoverlay/internal/pipeline"
	"github.com/five82/statsoverlay/internal/prefs"
	"github.com/five82/statsoverlay/internal/roster"
	"github.com/five82/statsoverlay/internal/ui"
)

// Options configure the overlay.
type Options struct {
	Config     config.Config
	ConfigPath string // where adopted API keys are saved; empty uses the default
	PrefsPath  string // empty uses default ~/.config/statsoverlay/prefs.toml
	Headless   bool   // run without the TUI, logging only
	Logger     *slog.Logger
}

// Run boots the update loop and, unless headless, the TUI. It returns when
// ctx is cancelled, the user quits, or the update loop fails.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	cfg := opts.Config

	mojangClient, err := mojang.NewClient(cfg.MojangAPIURL, cfg.SessionURL)
	if err != nil {
		return fmt.Errorf("init mojang client: %w", err)
	}
	hypixelClient, err := hypixel.NewClient(cfg.HypixelAPIURL)
	if err != nil {
		return fmt.Errorf("init hypixel client: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cred := hypixel.NewCredential(cfg.APIKey, CheckKey(ctx, hypixelClient, cfg.APIKey, logger))
	pipe := pipeline.New(ctx, pipeline.Options{
		Mojang:     mojangClient,
		Hypixel:    hypixelClient,
		Credential: cred,
		Logger:     logger.With("component", "pipeline"),
	})
	players := roster.New(pipe, clock.New())

	worker := NewWorker(WorkerOptions{
		Tailer:    logtail.New(cfg.LogPath),
		Roster:    players,
		Pipeline:  pipe,
		Validator: hypixelClient,
		SaveKey: func(key string) error {
			return config.SaveAPIKey(opts.ConfigPath, key)
		},
		TTL:      cfg.CachePlayerTTL,
		Interval: cfg.PollInterval,
		Logger:   logger.With("component", "worker"),
	})

	if opts.Headless {
		return worker.Run(ctx)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return worker.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		return ui.Run(gctx, ui.Options{
			Roster:            players,
			Credential:        cred,
			DisplayMode:       userPrefs.Mode(cfg.DisplayMode),
			RenderHeadOverlay: cfg.RenderHeadOverlay,
			ThemeName:         userPrefs.Theme,
			PrefsPath:         opts.PrefsPath,
			LogPath:           cfg.LogPath,
			Logger:            logger.With("component", "ui"),
		})
	})
	return g.Wait()
}

// CheckKey reports whether key should be treated as usable at startup. An
// empty key is unusable. When the validation call itself fails the key is
// assumed usable; a later 403 will invalidate it.
func CheckKey(ctx context.Context, validator KeyValidator, key string, logger *slog.Logger) bool {
	if key == "" {
		logger.Warn("no hypixel api key configured; run /api new in game")
		return false
	}
	valid, err := validator.ValidateKey(ctx, key)
	if err != nil {
		logger.Warn("could not validate api key", "key", hypixel.Redact(key), slog.String("error", err.Error()))
		return true
	}
	if !valid {
		logger.Warn("invalid hypixel api key", "key", hypixel.Redact(key))
		return false
	}
	logger.Info("hypixel api key valid", "key", hypixel.Redact(key))
	return true
}
