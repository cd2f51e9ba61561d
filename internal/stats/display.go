package stats

import (
	"fmt"
	"strings"
)

// DisplayMode selects which stat block the presentation layer shows.
type DisplayMode string

const (
	DisplayOverall   DisplayMode = "bw_overall"
	DisplaySolos     DisplayMode = "bw_solos"
	DisplayDoubles   DisplayMode = "bw_doubles"
	DisplayThrees    DisplayMode = "bw_threes"
	DisplayFours     DisplayMode = "bw_fours"
	DisplayMiniWalls DisplayMode = "miniwalls"
)

var displayModes = []DisplayMode{
	DisplayOverall, DisplaySolos, DisplayDoubles, DisplayThrees, DisplayFours, DisplayMiniWalls,
}

// DisplayModes returns every supported display mode in cycle order.
func DisplayModes() []DisplayMode {
	out := make([]DisplayMode, len(displayModes))
	copy(out, displayModes)
	return out
}

// ParseDisplayMode parses a case-insensitive display mode name.
func ParseDisplayMode(value string) (DisplayMode, error) {
	normalized := DisplayMode(strings.ToLower(strings.TrimSpace(value)))
	for _, m := range displayModes {
		if m == normalized {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown display mode %q", value)
}

// Next returns the mode after m in cycle order.
func (m DisplayMode) Next() DisplayMode {
	for i, mode := range displayModes {
		if mode == m {
			return displayModes[(i+1)%len(displayModes)]
		}
	}
	return displayModes[0]
}

// IsBedwars reports whether the mode shows a Bedwars block.
func (m DisplayMode) IsBedwars() bool {
	return strings.HasPrefix(string(m), "bw_")
}

// Label returns a short human readable name.
func (m DisplayMode) Label() string {
	switch m {
	case DisplaySolos:
		return "BedWars Solos"
	case DisplayDoubles:
		return "BedWars Doubles"
	case DisplayThrees:
		return "BedWars 3v3v3v3"
	case DisplayFours:
		return "BedWars 4v4v4v4"
	case DisplayMiniWalls:
		return "Mini Walls"
	default:
		return "BedWars Overall"
	}
}
