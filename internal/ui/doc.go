// Package ui provides the terminal overlay for statsoverlay.
//
// # Architecture Overview
//
// The UI is a read-only Bubble Tea program. It never writes the roster: a
// tick every DefaultRefreshInterval copies the roster with Snapshot when its
// version moved, filters the copy and renders it.
//
// # Package Structure
//
//   - app.go: Model, Update loop, header and footer, and the Run entry point
//   - table.go: column layout, row filtering and per-player rows
//   - format.go: number formatting and tier-colored star rendering
//   - head.go: skin face extraction and half-block rendering
//   - theme.go: color palettes and Lipgloss styles
//   - keys.go, help.go: key bindings and the help overlay
//
// # Rows
//
// Only players whose Render flag is set and who either finished every fetch
// stage or failed are listed, in roster order. A failed player shows its
// error message in place of stats. Bedwars modes show level, colored stars,
// FK, FD, FKDR, W, L and WLR; Mini Walls shows kit, kills, deaths, KDR,
// final kills, wins, wither damage and kills, and the arrow hit ratio.
//
// When the terminal is at least LayoutHeadWidth columns wide each row is two
// lines tall and starts with the player's face, optionally with the hat
// layer composited on top.
//
// # Keys
//
//   - m: cycle display mode (saved to prefs)
//   - T: cycle theme (saved to prefs)
//   - j/k, g/G: scroll
//   - h/?: help
//   - q, ctrl+c: quit
package ui
