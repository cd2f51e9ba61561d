package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle renders text segments that share one background color. Joining
// separately styled segments otherwise leaves unstyled gaps between them.
// See: https://github.com/charmbracelet/lipgloss/discussions/78
type BgStyle struct {
	bg    lipgloss.Color
	space string // cached styled space
}

// NewBgStyle creates a new background style helper for the given color.
func NewBgStyle(bgColor string) BgStyle {
	bg := lipgloss.Color(bgColor)
	return BgStyle{
		bg:    bg,
		space: lipgloss.NewStyle().Background(bg).Render(" "),
	}
}

// Render renders text with a style, ensuring every character including
// spaces carries the background color.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	return style.Background(b.bg).Render(text)
}

// Cell fits text into a fixed-width column and renders it with style.
func (b BgStyle) Cell(text string, width int, right bool, style lipgloss.Style) string {
	return b.Render(fitCell(text, width, right), style)
}

// Pad fills rendered content up to width with styled spaces. Content that is
// already wider is returned unchanged.
func (b BgStyle) Pad(rendered string, width int, right bool) string {
	gap := width - visibleWidth(rendered)
	if gap <= 0 {
		return rendered
	}
	if right {
		return b.Spaces(gap) + rendered
	}
	return rendered + b.Spaces(gap)
}

// Space returns a single styled space.
func (b BgStyle) Space() string {
	return b.space
}

// Spaces returns n styled spaces.
func (b BgStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Background(b.bg).Render(strings.Repeat(" ", n))
}

// Join joins parts with a styled separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, lipgloss.NewStyle().Background(b.bg).Render(sep))
}

// FillLine pads a rendered line to fill the specified width with the background color.
func (b BgStyle) FillLine(content string, width int) string {
	return b.Pad(content, width, false)
}
