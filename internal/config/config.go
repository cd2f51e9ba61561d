package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/statsoverlay/internal/stats"
)

// Config holds the overlay settings.
type Config struct {
	LogPath           string
	CachePlayerTTL    time.Duration
	PollInterval      time.Duration
	APIKey            string
	DisplayMode       stats.DisplayMode
	RenderHeadOverlay bool

	MojangAPIURL  string
	SessionURL    string
	HypixelAPIURL string
}

const (
	defaultConfigPath     = "~/.config/statsoverlay/config.toml"
	defaultLogPath        = "~/.minecraft/logs/latest.log"
	defaultCachePlayerTTL = 240
	defaultPollIntervalMS = 100

	// PlaceholderAPIKey is written into new config files and treated as unset.
	PlaceholderAPIKey = "YOUR-HYPIXEL-API-KEY-HERE"
)

// fileConfig is the on-disk TOML layout.
type fileConfig struct {
	LogPath           string `toml:"log_path"`
	CachePlayerTTL    *int   `toml:"cache_player_ttl"`
	PollIntervalMS    *int   `toml:"poll_interval_ms"`
	APIKey            string `toml:"api_key"`
	DisplayMode       string `toml:"display_mode"`
	RenderHeadOverlay *bool  `toml:"render_head_overlay"`
	MojangAPIURL      string `toml:"mojang_api_url,omitempty"`
	SessionURL        string `toml:"session_url,omitempty"`
	HypixelAPIURL     string `toml:"hypixel_api_url,omitempty"`
}

// envOverrides are applied on top of the file.
type envOverrides struct {
	APIKey      string `env:"STATSOVERLAY_API_KEY"`
	LogPath     string `env:"STATSOVERLAY_LOG_PATH"`
	DisplayMode string `env:"STATSOVERLAY_DISPLAY_MODE"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogPath:           mustExpand(defaultLogPath),
		CachePlayerTTL:    defaultCachePlayerTTL * time.Second,
		PollInterval:      defaultPollIntervalMS * time.Millisecond,
		DisplayMode:       stats.DisplayOverall,
		RenderHeadOverlay: true,
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config at path, falling back to defaults when the file is
// missing, then applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return Config{}, err
	}

	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}

	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if v := strings.TrimSpace(overrides.APIKey); v != "" {
		raw.APIKey = v
	}
	if v := strings.TrimSpace(overrides.LogPath); v != "" {
		raw.LogPath = v
	}
	if v := strings.TrimSpace(overrides.DisplayMode); v != "" {
		raw.DisplayMode = v
	}

	return fromFile(raw)
}

func fromFile(raw fileConfig) (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(raw.LogPath); v != "" {
		expanded, err := expandPath(v)
		if err != nil {
			return Config{}, fmt.Errorf("log_path: %w", err)
		}
		cfg.LogPath = expanded
	}
	if raw.CachePlayerTTL != nil {
		if *raw.CachePlayerTTL <= 0 {
			return Config{}, fmt.Errorf("cache_player_ttl must be positive, got %d", *raw.CachePlayerTTL)
		}
		cfg.CachePlayerTTL = time.Duration(*raw.CachePlayerTTL) * time.Second
	}
	if raw.PollIntervalMS != nil {
		if *raw.PollIntervalMS < 0 {
			return Config{}, fmt.Errorf("poll_interval_ms must not be negative, got %d", *raw.PollIntervalMS)
		}
		cfg.PollInterval = time.Duration(*raw.PollIntervalMS) * time.Millisecond
	}
	if key := strings.TrimSpace(raw.APIKey); key != PlaceholderAPIKey {
		cfg.APIKey = key
	}
	if v := strings.TrimSpace(raw.DisplayMode); v != "" {
		mode, err := stats.ParseDisplayMode(v)
		if err != nil {
			return Config{}, fmt.Errorf("display_mode: %w", err)
		}
		cfg.DisplayMode = mode
	}
	if raw.RenderHeadOverlay != nil {
		cfg.RenderHeadOverlay = *raw.RenderHeadOverlay
	}
	cfg.MojangAPIURL = strings.TrimSpace(raw.MojangAPIURL)
	cfg.SessionURL = strings.TrimSpace(raw.SessionURL)
	cfg.HypixelAPIURL = strings.TrimSpace(raw.HypixelAPIURL)
	return cfg, nil
}

// Save writes cfg to path, creating directories as needed.
func Save(path string, cfg Config) error {
	resolved, err := ResolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	ttl := int(cfg.CachePlayerTTL / time.Second)
	poll := int(cfg.PollInterval / time.Millisecond)
	overlay := cfg.RenderHeadOverlay
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = PlaceholderAPIKey
	}
	return writeFile(resolved, fileConfig{
		LogPath:           cfg.LogPath,
		CachePlayerTTL:    &ttl,
		PollIntervalMS:    &poll,
		APIKey:            apiKey,
		DisplayMode:       string(cfg.DisplayMode),
		RenderHeadOverlay: &overlay,
		MojangAPIURL:      cfg.MojangAPIURL,
		SessionURL:        cfg.SessionURL,
		HypixelAPIURL:     cfg.HypixelAPIURL,
	})
}

// SaveAPIKey replaces only the api_key entry of the file at path. Other
// entries are written back as they were read.
func SaveAPIKey(path, key string) error {
	resolved, err := ResolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	raw, err := readFile(resolved)
	if err != nil {
		return err
	}
	raw.APIKey = strings.TrimSpace(key)
	return writeFile(resolved, raw)
}

// ResolvePath expands path, or the default path when path is empty.
func ResolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func readFile(resolved string) (fileConfig, error) {
	var raw fileConfig

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return raw, nil
		}
		return raw, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return raw, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return raw, fmt.Errorf("parse config: %w", err)
	}
	return raw, nil
}

func writeFile(resolved string, raw fileConfig) error {
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	bytes, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(resolved, bytes, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
