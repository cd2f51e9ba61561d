package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/five82/statsoverlay/internal/config"
)

const defaultLogFile = "~/.local/state/statsoverlay/statsoverlay.log"

// newLogger builds the JSON logger. Headless runs log to stderr; the TUI
// owns the terminal, so otherwise the log goes to opts.logFile.
func newLogger(opts *rootOptions, stderr io.Writer) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	if opts.headless {
		return slog.New(slog.NewJSONHandler(stderr, handlerOpts)), func() error { return nil }, nil
	}

	path, err := config.ExpandPath(opts.logFile)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve log file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewJSONHandler(file, handlerOpts)), file.Close, nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func millis(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
