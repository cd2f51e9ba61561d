package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	if names[0] != "Nightfox" || names[1] != "Kanagawa" || names[2] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Nightfox Kanagawa Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	cases := map[string]string{
		"Nightfox": "Kanagawa",
		"Kanagawa": "Slate",
		"Slate":    "Nightfox",
		"Unknown":  "Nightfox",
	}
	for current, want := range cases {
		if got := NextTheme(current); got != want {
			t.Fatalf("NextTheme(%s) = %q, want %q", current, got, want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := GetTheme(name); got.Name != name {
			t.Fatalf("GetTheme(%s).Name = %q", name, got.Name)
		}
	}
	if got := GetTheme("Dracula"); got.Name != "Nightfox" {
		t.Fatalf("GetTheme(Dracula).Name = %q, want Nightfox (fallback)", got.Name)
	}
}

func TestStylesWithBackground(t *testing.T) {
	theme := GetTheme("Nightfox")
	styles := theme.Styles().WithBackground(theme.Bar)
	for name, st := range map[string]lipgloss.Style{
		"Text":         styles.Text,
		"DangerText":   styles.DangerText,
		"Logo":         styles.Logo,
		"ColumnHeader": styles.ColumnHeader,
	} {
		if got := st.GetBackground(); got != lipgloss.Color(theme.Bar) {
			t.Fatalf("%s background = %v, want %s", name, got, theme.Bar)
		}
	}
	if !styles.DangerText.GetBold() {
		t.Fatalf("DangerText lost bold")
	}
}
