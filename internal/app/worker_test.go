package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/statsoverlay/internal/clock"
	"github.com/five82/statsoverlay/internal/hypixel"
	"github.com/five82/statsoverlay/internal/logtail"
	"github.com/five82/statsoverlay/internal/pipeline"
	"github.com/five82/statsoverlay/internal/roster"
	"github.com/five82/statsoverlay/internal/testutil"
)

const chatPrefix = "[12:00:00] [Client thread/INFO]: [CHAT] "

type workerFixture struct {
	ctx     context.Context
	logPath string
	clock   *clock.Mock
	mojang  *testutil.Mojang
	hypixel *testutil.Hypixel
	cred    *hypixel.Credential
	roster  *roster.Roster
	worker  *Worker

	mu    sync.Mutex
	saved []string
}

// syncBuffer collects log output written from the worker goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newWorkerFixture(t *testing.T, saveErr error) *workerFixture {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	f := &workerFixture{
		ctx:     ctx,
		logPath: filepath.Join(t.TempDir(), "latest.log"),
		clock:   clock.NewMock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
		mojang:  testutil.NewMojang("Steve", "Alice", "Bob"),
		hypixel: testutil.NewHypixel("Steve", "Alice", "Bob"),
		cred:    hypixel.NewCredential("key-1", true),
	}
	pipe := pipeline.New(ctx, pipeline.Options{
		Mojang:     f.mojang,
		Hypixel:    f.hypixel,
		Credential: f.cred,
		Logger:     testutil.NopLogger(),
	})
	f.roster = roster.New(pipe, f.clock)
	f.worker = NewWorker(WorkerOptions{
		Tailer:    logtail.New(f.logPath),
		Roster:    f.roster,
		Pipeline:  pipe,
		Validator: f.hypixel,
		SaveKey: func(key string) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.saved = append(f.saved, key)
			return saveErr
		},
		TTL:      time.Minute,
		Interval: 5 * time.Millisecond,
		Logger:   testutil.NopLogger(),
	})
	return f
}

func (f *workerFixture) chat(t *testing.T, messages ...string) {
	t.Helper()
	file, err := os.OpenFile(f.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	for _, msg := range messages {
		_, err := file.WriteString(chatPrefix + msg + "\n")
		require.NoError(t, err)
	}
	require.NoError(t, file.Close())
}

func (f *workerFixture) tick(t *testing.T) {
	t.Helper()
	require.NoError(t, f.worker.Tick(f.ctx))
}

func (f *workerFixture) savedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.saved...)
}

func TestTick_JoinAndQuit(t *testing.T) {
	f := newWorkerFixture(t, nil)

	f.chat(t, "Steve has joined (1/16)!", "Alice has joined (2/16)!")
	f.tick(t)

	steve, ok := f.roster.Lookup("Steve")
	require.True(t, ok)
	assert.True(t, steve.Ready())
	assert.True(t, steve.Render)

	f.chat(t, "Steve has quit!")
	f.tick(t)

	steve, _ = f.roster.Lookup("Steve")
	assert.False(t, steve.Render)
	alice, _ := f.roster.Lookup("Alice")
	assert.True(t, alice.Render)
}

func TestTick_RosterListHidesThenAdds(t *testing.T) {
	f := newWorkerFixture(t, nil)
	f.chat(t, "Steve has joined (1/16)!")
	f.tick(t)

	f.chat(t, "ONLINE: Alice, Bob")
	f.tick(t)

	steve, _ := f.roster.Lookup("Steve")
	assert.False(t, steve.Render)
	for _, name := range []string{"Alice", "Bob"} {
		p, ok := f.roster.Lookup(name)
		require.True(t, ok, name)
		assert.True(t, p.Render, name)
		assert.True(t, p.Ready(), name)
	}
}

func TestTick_ResetHidesEveryone(t *testing.T) {
	f := newWorkerFixture(t, nil)
	f.chat(t, "Steve has joined (1/16)!", "Sending you to mini42A!")
	f.tick(t)

	steve, ok := f.roster.Lookup("Steve")
	require.True(t, ok)
	assert.False(t, steve.Render)
}

func TestTick_EvictsExpiredPlayers(t *testing.T) {
	f := newWorkerFixture(t, nil)
	f.chat(t, "Steve has joined (1/16)!")
	f.tick(t)
	require.Equal(t, 1, f.roster.Len())

	f.clock.Advance(2 * time.Minute)
	f.tick(t)

	assert.Zero(t, f.roster.Len())
}

func TestTick_AdoptsValidKey(t *testing.T) {
	f := newWorkerFixture(t, nil)
	f.hypixel.ValidKeys["new-key"] = true
	f.cred.Invalidate()

	f.chat(t, "Your new API key is new-key")
	f.tick(t)

	key, ok := f.cred.Get()
	assert.Equal(t, "new-key", key)
	assert.True(t, ok)
	assert.Equal(t, []string{"new-key"}, f.savedKeys())
}

func TestTick_IgnoresInvalidKey(t *testing.T) {
	f := newWorkerFixture(t, nil)

	f.chat(t, "Your new API key is bogus")
	f.tick(t)

	key, ok := f.cred.Get()
	assert.Equal(t, "key-1", key)
	assert.True(t, ok)
	assert.Empty(t, f.savedKeys())
}

func TestTick_PersistFailureIsFatal(t *testing.T) {
	f := newWorkerFixture(t, errors.New("disk full"))
	f.hypixel.ValidKeys["new-key"] = true

	f.chat(t, "Your new API key is new-key")
	err := f.worker.Tick(f.ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist api key")
}

type panickingValidator struct{}

func (panickingValidator) ValidateKey(context.Context, string) (bool, error) {
	panic("boom")
}

func TestTick_PanicIsReraised(t *testing.T) {
	f := newWorkerFixture(t, nil)
	f.worker.validator = panickingValidator{}
	f.chat(t, "Your new API key is anything")

	assert.PanicsWithValue(t, "boom", func() {
		_ = f.worker.Tick(f.ctx)
	})
}

func TestRun_SkipsHistoryAndStopsOnCancel(t *testing.T) {
	f := newWorkerFixture(t, nil)
	f.chat(t, "Bob has joined (1/16)!")

	logs := &syncBuffer{}
	f.worker.logger = slog.New(slog.NewJSONHandler(logs, nil))

	ctx, cancel := context.WithCancel(f.ctx)
	done := make(chan error, 1)
	go func() { done <- f.worker.Run(ctx) }()

	// Run logs once the log has been primed.
	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "watching log")
	}, 2*time.Second, 5*time.Millisecond)
	f.chat(t, "Steve has joined (2/16)!")

	require.Eventually(t, func() bool {
		p, ok := f.roster.Lookup("Steve")
		return ok && p.Ready()
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	_, ok := f.roster.Lookup("Bob")
	assert.False(t, ok, "history must not replay")
}

func TestCheckKey(t *testing.T) {
	h := testutil.NewHypixel()
	h.ValidKeys["good"] = true
	logger := testutil.NopLogger()
	ctx := context.Background()

	assert.False(t, CheckKey(ctx, h, "", logger))
	assert.False(t, CheckKey(ctx, h, "bad", logger))
	assert.True(t, CheckKey(ctx, h, "good", logger))
	assert.True(t, CheckKey(ctx, failingValidator{}, "unknown", logger))
}

type failingValidator struct{}

func (failingValidator) ValidateKey(context.Context, string) (bool, error) {
	return false, errors.New("network down")
}
