package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/statsoverlay/internal/hypixel"
	"github.com/five82/statsoverlay/internal/prefs"
	"github.com/five82/statsoverlay/internal/roster"
	"github.com/five82/statsoverlay/internal/stats"
)

// Options configures the UI.
type Options struct {
	Roster            *roster.Roster
	Credential        *hypixel.Credential
	DisplayMode       stats.DisplayMode
	RenderHeadOverlay bool
	ThemeName         string
	PrefsPath         string
	LogPath           string
	RefreshInterval   time.Duration
	Logger            *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	roster      *roster.Roster
	cred        *hypixel.Credential
	prefsPath   string
	logPath     string
	refresh     time.Duration
	headOverlay bool
	logger      *slog.Logger

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	mode     stats.DisplayMode
	width    int
	height   int
	ready    bool
	showHelp bool
	offset   int

	// Data state
	rows        []roster.Player
	tracked     int
	version     uint64
	keyUsable   bool
	heads       map[string]headEntry
	lastUpdated time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	refresh := opts.RefreshInterval
	if refresh <= 0 {
		refresh = DefaultRefreshInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	mode := opts.DisplayMode
	if mode == "" {
		mode = stats.DisplayOverall
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	return Model{
		roster:      opts.Roster,
		cred:        opts.Credential,
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		refresh:     refresh,
		headOverlay: opts.RenderHeadOverlay,
		logger:      logger,
		theme:       GetTheme(themeName),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		mode:        mode,
		heads:       make(map[string]headEntry),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.refresh),
		fetchSnapshotCmd(m.roster, m.cred, m.version),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.offset = minInt(m.offset, m.maxOffset())
		return m, nil

	case tickMsg:
		return m, tea.Batch(
			fetchSnapshotCmd(m.roster, m.cred, m.version),
			tickCmd(m.refresh),
		)

	case snapshotMsg:
		m.applySnapshot(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()

	case key.Matches(msg, m.keys.CycleMode):
		m.mode = m.mode.Next()
		m.savePrefs()

	case key.Matches(msg, m.keys.Up):
		if m.offset > 0 {
			m.offset--
		}

	case key.Matches(msg, m.keys.Down):
		if m.offset < m.maxOffset() {
			m.offset++
		}

	case key.Matches(msg, m.keys.Top):
		m.offset = 0

	case key.Matches(msg, m.keys.Bottom):
		m.offset = m.maxOffset()
	}

	return m, nil
}

func (m Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, DisplayMode: string(m.mode)}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs", slog.String("error", err.Error()))
	}
}

// applySnapshot replaces the displayed rows and refreshes the head cache.
func (m *Model) applySnapshot(msg snapshotMsg) {
	m.keyUsable = msg.keyUsable
	if !msg.changed {
		return
	}
	m.version = msg.version
	m.tracked = len(msg.players)
	m.rows = displayable(msg.players)
	m.lastUpdated = time.Now()

	seen := make(map[string]struct{}, len(m.rows))
	for _, p := range m.rows {
		k := headKey(p)
		seen[k] = struct{}{}
		if _, ok := m.heads[k]; ok || len(p.Skin) == 0 {
			continue
		}
		f, err := decodeFace(p.Skin, m.headOverlay)
		if err != nil {
			m.logger.Debug("skin not drawable", "player", p.Username, slog.String("error", err.Error()))
		}
		m.heads[k] = headEntry{face: f, ok: err == nil}
	}
	for k := range m.heads {
		if _, ok := seen[k]; !ok {
			delete(m.heads, k)
		}
	}

	m.offset = minInt(m.offset, m.maxOffset())
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderColumnHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Bar)
	bg := NewBgStyle(m.theme.Bar)

	keyStatus := bg.Render("API key ok", styles.SuccessText)
	if !m.keyUsable {
		keyStatus = bg.Render("API key missing, run /api new", styles.DangerText)
	}

	parts := []string{
		bg.Render("statsoverlay", styles.Logo),
		bg.Render(m.mode.Label(), styles.AccentText.Bold(true)),
		bg.Render(fmt.Sprintf("%d shown / %d tracked", len(m.rows), m.tracked), styles.Text),
		keyStatus,
	}
	if m.width >= LayoutPathWidth && m.logPath != "" {
		parts = append(parts,
			bg.Render("log", styles.FaintText)+bg.Space()+
				bg.Render(truncateMiddle(m.logPath, 50), styles.MutedText))
	}

	return bg.FillLine(bg.Join(parts, "  "), m.width)
}

// renderFooter renders the short key help.
func (m Model) renderFooter() string {
	bg := NewBgStyle(m.theme.Bar)
	return bg.FillLine(bg.Render(m.help.View(m.keys), m.theme.Styles().Footer), m.width)
}

// Messages

type tickMsg time.Time

type snapshotMsg struct {
	changed   bool
	version   uint64
	players   []roster.Player
	keyUsable bool
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchSnapshotCmd copies the roster when its version moved past since.
func fetchSnapshotCmd(r *roster.Roster, cred *hypixel.Credential, since uint64) tea.Cmd {
	return func() tea.Msg {
		var msg snapshotMsg
		if cred != nil {
			_, msg.keyUsable = cred.Get()
		}
		if r == nil {
			return msg
		}
		version := r.Version()
		if version == since && since != 0 {
			return msg
		}
		msg.changed = true
		msg.version = version
		msg.players = r.Snapshot()
		return msg
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
