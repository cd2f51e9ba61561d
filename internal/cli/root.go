package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/five82/statsoverlay/internal/app"
	"github.com/five82/statsoverlay/internal/config"
	"github.com/five82/statsoverlay/internal/stats"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// rootOptions holds the flag values shared by the commands.
type rootOptions struct {
	configPath string
	prefsPath  string
	logFile    string
	headless   bool
	debug      bool

	// Overrides applied on top of the config file when the flag is set.
	apiKey      string
	logPath     string
	displayMode string
	ttlSeconds  int
	pollMS      int
}

// NewRootCmd creates the root command. Running it without a subcommand
// starts the overlay.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "statsoverlay",
		Short: "Live Hypixel stats for the players in your lobby",
		Long: `statsoverlay follows the Minecraft client log, tracks who is in your
Hypixel lobby and shows their Bedwars or Mini Walls stats in the terminal.

Run /who in game to list the lobby and /api new to issue an API key; a key
announced in chat is validated and saved to the config file.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOverlay(cmd, opts)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&opts.apiKey, "api-key", "", "Hypixel API key (env: STATSOVERLAY_API_KEY)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Debug logging")

	// Overlay flags
	flags := rootCmd.Flags()
	flags.StringVar(&opts.prefsPath, "prefs", "", "UI preferences file (default ~/.config/statsoverlay/prefs.toml)")
	flags.StringVar(&opts.logFile, "log-file", defaultLogFile, "Where the overlay writes its own log in TUI mode")
	flags.BoolVar(&opts.headless, "headless", false, "Run without the TUI and log to stderr")
	flags.StringVar(&opts.logPath, "log-path", "", "Minecraft latest.log to follow (env: STATSOVERLAY_LOG_PATH)")
	flags.StringVar(&opts.displayMode, "display-mode", "", "bw_overall, bw_solos, bw_doubles, bw_threes, bw_fours or miniwalls")
	flags.IntVar(&opts.ttlSeconds, "ttl", 0, "Seconds a player is kept after last being seen")
	flags.IntVar(&opts.pollMS, "poll-ms", 0, "Log poll interval in milliseconds")

	rootCmd.AddCommand(newCheckKeyCmd(opts))
	rootCmd.AddCommand(newInitCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func runOverlay(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := applyOverrides(cmd, &cfg, opts); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()
	slog.SetDefault(logger)

	logger.Info("starting statsoverlay",
		"version", version,
		"log_path", cfg.LogPath,
		"display_mode", string(cfg.DisplayMode),
		"headless", opts.headless,
	)

	err = app.Run(cmd.Context(), app.Options{
		Config:     cfg,
		ConfigPath: opts.configPath,
		PrefsPath:  opts.prefsPath,
		Headless:   opts.headless,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("statsoverlay stopped", slog.String("error", err.Error()))
		return err
	}
	logger.Info("statsoverlay stopped")
	return nil
}

// applyOverrides copies explicitly set flags onto cfg.
func applyOverrides(cmd *cobra.Command, cfg *config.Config, opts *rootOptions) error {
	flags := cmd.Flags()

	if flags.Changed("api-key") {
		cfg.APIKey = opts.apiKey
	}
	if flags.Changed("log-path") {
		path, err := config.ExpandPath(opts.logPath)
		if err != nil {
			return fmt.Errorf("--log-path: %w", err)
		}
		cfg.LogPath = path
	}
	if flags.Changed("display-mode") {
		mode, err := stats.ParseDisplayMode(opts.displayMode)
		if err != nil {
			return fmt.Errorf("--display-mode: %w", err)
		}
		cfg.DisplayMode = mode
	}
	if flags.Changed("ttl") {
		if opts.ttlSeconds <= 0 {
			return fmt.Errorf("--ttl must be positive, got %d", opts.ttlSeconds)
		}
		cfg.CachePlayerTTL = seconds(opts.ttlSeconds)
	}
	if flags.Changed("poll-ms") {
		if opts.pollMS < 0 {
			return fmt.Errorf("--poll-ms must not be negative, got %d", opts.pollMS)
		}
		cfg.PollInterval = millis(opts.pollMS)
	}
	return nil
}
