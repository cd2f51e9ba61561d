package ui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/statsoverlay/internal/clock"
	"github.com/five82/statsoverlay/internal/hypixel"
	"github.com/five82/statsoverlay/internal/prefs"
	"github.com/five82/statsoverlay/internal/roster"
	"github.com/five82/statsoverlay/internal/stats"
)

func newTestModel(t *testing.T, r *roster.Roster) Model {
	t.Helper()
	m := New(Options{
		Roster:      r,
		Credential:  hypixel.NewCredential("key", true),
		DisplayMode: stats.DisplayOverall,
		PrefsPath:   filepath.Join(t.TempDir(), "prefs.toml"),
		LogPath:     "/tmp/latest.log",
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 20})
	return updated.(Model)
}

func press(t *testing.T, m Model, keys string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch keys {
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func refresh(t *testing.T, m Model) Model {
	t.Helper()
	msg := fetchSnapshotCmd(m.roster, m.cred, m.version)()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func TestModel_QuitKeys(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		m := newTestModel(t, nil)
		_, cmd := press(t, m, k)
		if cmd == nil {
			t.Fatalf("%s: no command returned", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s: command did not quit", k)
		}
	}
}

func TestModel_CycleModeSavesPrefs(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = press(t, m, "m")
	if m.mode != stats.DisplaySolos {
		t.Fatalf("mode = %q, want bw_solos", m.mode)
	}

	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Mode(stats.DisplayOverall) != stats.DisplaySolos {
		t.Fatalf("saved mode = %q, want bw_solos", saved.DisplayMode)
	}
	if saved.Theme != "Nightfox" {
		t.Fatalf("saved theme = %q, want Nightfox", saved.Theme)
	}
}

func TestModel_CycleThemeSavesPrefs(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = press(t, m, "T")
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	saved, _ := prefs.Load(m.prefsPath)
	if saved.Theme != "Kanagawa" {
		t.Fatalf("saved theme = %q, want Kanagawa", saved.Theme)
	}
}

func TestModel_HelpClosesOnAnyKey(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = press(t, m, "?")
	if !m.showHelp {
		t.Fatalf("help not shown")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help view missing title")
	}
	m, cmd := press(t, m, "q")
	if m.showHelp || cmd != nil {
		t.Fatalf("first key after help should only close it")
	}
}

func TestModel_SnapshotShowsReadyAndFailedPlayers(t *testing.T) {
	r := roster.New(nil, clock.NewMock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))
	for _, name := range []string{"Steve", "Alice", "Nick", "Hidden"} {
		r.Add(name)
	}
	r.Range(func(p *roster.Player) bool {
		switch p.Username {
		case "Steve", "Hidden":
			p.Stage = roster.Done
		case "Nick":
			p.Fail(&roster.FetchError{Kind: roster.NotFound, Message: "Invalid Username (player is nicked)"})
		}
		return true
	})
	r.Remove("Hidden")

	m := refresh(t, newTestModel(t, r))

	if len(m.rows) != 2 || m.rows[0].Username != "Steve" || m.rows[1].Username != "Nick" {
		t.Fatalf("rows = %+v, want Steve then Nick", m.rows)
	}
	if m.tracked != 4 {
		t.Fatalf("tracked = %d, want 4", m.tracked)
	}
	if !m.keyUsable {
		t.Fatalf("keyUsable = false, want true")
	}

	view := m.View()
	for _, want := range []string{"Steve", "Nick", "Invalid Username (player is nicked)", "BedWars Overall"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Alice") {
		t.Fatalf("view shows a player still fetching")
	}
}

func TestModel_SnapshotSkippedWhenVersionUnchanged(t *testing.T) {
	r := roster.New(nil, nil)
	r.Add("Steve")
	m := refresh(t, newTestModel(t, r))

	msg := fetchSnapshotCmd(m.roster, m.cred, m.version)().(snapshotMsg)
	if msg.changed {
		t.Fatalf("snapshot changed without a roster mutation")
	}

	r.Add("Alice")
	msg = fetchSnapshotCmd(m.roster, m.cred, m.version)().(snapshotMsg)
	if !msg.changed || len(msg.players) != 2 {
		t.Fatalf("snapshot after mutation = %+v, want two players", msg)
	}
}

func TestModel_ScrollIsClamped(t *testing.T) {
	r := roster.New(nil, nil)
	for i := 0; i < 30; i++ {
		r.Add("p" + string(rune('A'+i)))
	}
	r.Range(func(p *roster.Player) bool { p.Stage = roster.Done; return true })

	m := refresh(t, newTestModel(t, r))
	limit := m.maxOffset()
	if limit == 0 {
		t.Fatalf("maxOffset = 0, want scrolling room")
	}

	m, _ = press(t, m, "k")
	if m.offset != 0 {
		t.Fatalf("offset = %d after scrolling up at top", m.offset)
	}
	m, _ = press(t, m, "G")
	if m.offset != limit {
		t.Fatalf("offset = %d, want %d", m.offset, limit)
	}
	m, _ = press(t, m, "j")
	if m.offset != limit {
		t.Fatalf("offset = %d past bottom, want %d", m.offset, limit)
	}
	m, _ = press(t, m, "g")
	if m.offset != 0 {
		t.Fatalf("offset = %d after top, want 0", m.offset)
	}
}

func TestModel_MissingKeyShownInHeader(t *testing.T) {
	m := newTestModel(t, nil)
	m.cred.Invalidate()
	m = refresh(t, m)

	if !strings.Contains(m.renderHeader(), "API key missing") {
		t.Fatalf("header does not report the missing key")
	}
}
