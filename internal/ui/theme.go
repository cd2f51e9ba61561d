package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is a palette mapped onto the overlay's roles.
type Theme struct {
	Name string

	Row       string // even player rows and empty space
	RowAlt    string // odd player rows
	Bar       string // status bar and key help
	HeaderRow string // column titles

	Text   string
	Muted  string
	Faint  string
	Accent string // levels and column titles
	Good   string // usable API key
	Bad    string // fetch errors and a missing key
	Gold   string // logo and help headings
}

// Styles holds the text styles the overlay renders with.
type Styles struct {
	Text         lipgloss.Style
	MutedText    lipgloss.Style
	FaintText    lipgloss.Style
	AccentText   lipgloss.Style
	SuccessText  lipgloss.Style
	DangerText   lipgloss.Style
	Logo         lipgloss.Style
	Footer       lipgloss.Style
	ColumnHeader lipgloss.Style
}

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:         fg(t.Text),
		MutedText:    fg(t.Muted),
		FaintText:    fg(t.Faint),
		AccentText:   fg(t.Accent),
		SuccessText:  fg(t.Good).Bold(true),
		DangerText:   fg(t.Bad).Bold(true),
		Logo:         fg(t.Gold).Bold(true),
		Footer:       fg(t.Muted).Background(lipgloss.Color(t.Bar)).Padding(0, 1),
		ColumnHeader: fg(t.Accent).Background(lipgloss.Color(t.HeaderRow)).Bold(true),
	}
}

// WithBackground returns a copy of s with every style painted on bgColor, so
// text in a bar never falls back to the terminal background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	for _, st := range []*lipgloss.Style{
		&s.Text, &s.MutedText, &s.FaintText, &s.AccentText, &s.SuccessText,
		&s.DangerText, &s.Logo, &s.Footer, &s.ColumnHeader,
	} {
		*st = st.Background(bg)
	}
	return s
}

// themes lists the palettes in cycle order. The first is the default.
var themes = []Theme{
	{
		Name:      "Nightfox",
		Row:       "#131a24",
		RowAlt:    "#212e3f",
		Bar:       "#192330",
		HeaderRow: "#29394f",
		Text:      "#cdcecf",
		Muted:     "#738091",
		Faint:     "#71839b",
		Accent:    "#719cd6",
		Good:      "#81b29a",
		Bad:       "#c94f6d",
		Gold:      "#dbc074",
	},
	{
		Name:      "Kanagawa",
		Row:       "#16161D",
		RowAlt:    "#2A2A37",
		Bar:       "#1F1F28",
		HeaderRow: "#2A2A37",
		Text:      "#DCD7BA",
		Muted:     "#C8C093",
		Faint:     "#727169",
		Accent:    "#7E9CD8",
		Good:      "#98BB6C",
		Bad:       "#E46876",
		Gold:      "#E6C384",
	},
	{
		// Closest to the in-game chat colors.
		Name:      "Slate",
		Row:       "#020617",
		RowAlt:    "#1e293b",
		Bar:       "#0f172a",
		HeaderRow: "#283548",
		Text:      "#f1f5f9",
		Muted:     "#94a3b8",
		Faint:     "#64748b",
		Accent:    "#55FFFF",
		Good:      "#55FF55",
		Bad:       "#FF5555",
		Gold:      "#FFAA00",
	},
}

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, t := range themes {
		if t.Name == current {
			return themes[(i+1)%len(themes)].Name
		}
	}
	return themes[0].Name
}

// ThemeNames returns available theme names in cycle order.
func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
