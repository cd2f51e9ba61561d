package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutHeadWidth is the minimum width to draw skin heads.
	LayoutHeadWidth = 90

	// LayoutPathWidth is the minimum width to show the log path in the header.
	LayoutPathWidth = 120
)

// Chrome rows around the roster table: header, column titles and footer.
const chromeRows = 3

// headPixels is the edge of the downsampled face drawn per row. Two pixel
// rows share one terminal line.
const headPixels = 4

// Timing constants.
const (
	// DefaultRefreshInterval is how often the roster snapshot is refreshed.
	DefaultRefreshInterval = 250 * time.Millisecond
)
