package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/five82/statsoverlay/internal/chat"
	"github.com/five82/statsoverlay/internal/hypixel"
	"github.com/five82/statsoverlay/internal/logtail"
	"github.com/five82/statsoverlay/internal/pipeline"
	"github.com/five82/statsoverlay/internal/roster"
)

const (
	defaultPollInterval = 100 * time.Millisecond
	minPollInterval     = time.Millisecond
)

// KeyValidator checks an API key announced in chat.
type KeyValidator interface {
	ValidateKey(ctx context.Context, key string) (bool, error)
}

// WorkerOptions configure a Worker.
type WorkerOptions struct {
	Tailer    *logtail.Tailer
	Roster    *roster.Roster
	Pipeline  *pipeline.Pipeline
	Validator KeyValidator
	SaveKey   func(key string) error // persists an adopted key; nil skips
	TTL       time.Duration
	Interval  time.Duration
	Logger    *slog.Logger
}

// Worker is the single writer of the roster. Each tick it reads new log
// lines, applies their events, evicts expired players and sweeps the fetch
// pipeline.
type Worker struct {
	tailer    *logtail.Tailer
	roster    *roster.Roster
	pipeline  *pipeline.Pipeline
	cred      *hypixel.Credential
	validator KeyValidator
	saveKey   func(key string) error
	ttl       time.Duration
	interval  time.Duration
	logger    *slog.Logger
}

// NewWorker builds a Worker from opts.
func NewWorker(opts WorkerOptions) *Worker {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	interval := opts.Interval
	if interval < minPollInterval {
		interval = minPollInterval
	}
	return &Worker{
		tailer:    opts.Tailer,
		roster:    opts.Roster,
		pipeline:  opts.Pipeline,
		cred:      opts.Pipeline.Credential(),
		validator: opts.Validator,
		saveKey:   opts.SaveKey,
		ttl:       opts.TTL,
		interval:  interval,
		logger:    logger,
	}
}

// Run skips existing log history, then ticks until ctx is cancelled. It
// returns nil on cancellation and the first tick error otherwise.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.tailer.Prime(); err != nil {
		return fmt.Errorf("prime log: %w", err)
	}
	w.logger.Info("watching log",
		"path", w.tailer.Path(),
		"interval", w.interval.String(),
		"ttl", w.ttl.String(),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.Tick(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.logger.Error("update loop stopped", slog.String("error", err.Error()))
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Tick performs one update cycle. A panic is logged with its stack and then
// re-raised.
func (w *Worker) Tick(ctx context.Context) error {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("panic in update loop",
				slog.Any("error", r),
				slog.String("stack", string(debug.Stack())),
			)
			panic(r)
		}
	}()

	lines, err := w.tailer.Poll()
	if err != nil {
		return fmt.Errorf("poll log: %w", err)
	}
	for _, line := range lines {
		if err := w.apply(ctx, chat.Classify(line)); err != nil {
			return err
		}
	}

	if n := w.roster.EvictExpired(w.ttl, w.roster.Now()); n > 0 {
		w.logger.Debug("evicted expired players", "count", n)
	}

	if err := w.pipeline.Sweep(ctx, w.roster); err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	return nil
}

func (w *Worker) apply(ctx context.Context, ev chat.Event) error {
	switch ev.Kind {
	case chat.ResetRoster:
		w.logger.Debug("lobby changed")
		w.roster.HideAll()
	case chat.PlayerJoined:
		w.roster.Add(ev.Username)
	case chat.PlayerQuit:
		w.roster.Remove(ev.Username)
	case chat.RosterList:
		w.logger.Debug("who listing", "count", len(ev.Usernames))
		w.roster.HideAll()
		for _, name := range ev.Usernames {
			w.roster.Add(name)
		}
	case chat.APIKeyIssued:
		return w.adoptKey(ctx, ev.Key)
	}
	return nil
}

// adoptKey validates a key announced in chat and, if valid, makes it the
// shared credential and persists it. Validation failures are logged only.
func (w *Worker) adoptKey(ctx context.Context, key string) error {
	if w.validator == nil {
		return nil
	}
	valid, err := w.validator.ValidateKey(ctx, key)
	if err != nil {
		w.logger.Warn("could not validate new api key",
			"key", hypixel.Redact(key),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if !valid {
		w.logger.Warn("new api key rejected", "key", hypixel.Redact(key))
		return nil
	}

	w.cred.Set(key, true)
	w.logger.Info("adopted new api key", "key", hypixel.Redact(key))
	if w.saveKey == nil {
		return nil
	}
	if err := w.saveKey(key); err != nil {
		return fmt.Errorf("persist api key: %w", err)
	}
	return nil
}
