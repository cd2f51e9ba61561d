package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/statsoverlay/internal/stats"
)

// formatCount renders a counter with thousands separators.
func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

// formatRatio renders a ratio with two decimals.
func formatRatio(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// renderStars colors each digit of the star count by its prestige band and
// appends the band symbol.
func renderStars(bw stats.Bedwars, bg BgStyle) string {
	var b strings.Builder
	for i, r := range strconv.Itoa(bw.Stars) {
		b.WriteString(bg.Render(string(r), tierStyle(bw.Tier.DigitColor(i))))
	}
	b.WriteString(bg.Render(bw.Tier.Symbol, tierStyle(bw.Tier.SymbolColor)))
	return b.String()
}

func tierStyle(c stats.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
}
