package ui

import (
	"strconv"
	"strings"

	"github.com/five82/statsoverlay/internal/roster"
	"github.com/five82/statsoverlay/internal/stats"
)

// column is one fixed-width table column.
type column struct {
	title string
	width int
	right bool
}

const (
	nameWidth  = 16
	levelWidth = 5
)

var bedwarsColumns = []column{
	{"Player", nameWidth, false},
	{"Lvl", levelWidth, true},
	{"Stars", 7, false},
	{"FK", 8, true},
	{"FD", 8, true},
	{"FKDR", 6, true},
	{"W", 7, true},
	{"L", 7, true},
	{"WLR", 6, true},
}

var miniWallsColumns = []column{
	{"Player", nameWidth, false},
	{"Lvl", levelWidth, true},
	{"Kit", 3, false},
	{"K", 7, true},
	{"D", 7, true},
	{"KDR", 6, true},
	{"FK", 6, true},
	{"W", 6, true},
	{"WDmg", 8, true},
	{"WK", 5, true},
	{"AHR", 5, true},
}

func columnsFor(mode stats.DisplayMode) []column {
	if mode == stats.DisplayMiniWalls {
		return miniWallsColumns
	}
	return bedwarsColumns
}

// displayable keeps the players the table shows: rendered and either
// finished or failed. Roster order is preserved.
func displayable(players []roster.Player) []roster.Player {
	out := make([]roster.Player, 0, len(players))
	for _, p := range players {
		if !p.Render {
			continue
		}
		if p.Ready() || !p.Healthy() {
			out = append(out, p)
		}
	}
	return out
}

// statCells returns the plain stat values for mode, excluding the player
// name and the styled stars column.
func statCells(p roster.Player, mode stats.DisplayMode) []string {
	level := strconv.Itoa(p.NetworkLevel)
	if mode == stats.DisplayMiniWalls {
		mw := p.MiniWalls
		return []string{
			level,
			mw.Kit,
			formatCount(mw.Kills),
			formatCount(mw.Deaths),
			formatRatio(mw.KDR),
			formatCount(mw.FinalKills),
			formatCount(mw.Wins),
			formatCount(mw.WitherDamage),
			formatCount(mw.WitherKills),
			formatRatio(mw.ArrowHitRatio),
		}
	}
	block := p.Bedwars.Mode(mode)
	return []string{
		level,
		formatCount(block.FinalKills),
		formatCount(block.FinalDeaths),
		formatRatio(block.FKDR),
		formatCount(block.Wins),
		formatCount(block.Losses),
		formatRatio(block.WLR),
	}
}

// renderColumnHeader renders the column titles line.
func (m Model) renderColumnHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.HeaderRow)

	var parts []string
	if m.showHeads() {
		parts = append(parts, bg.Spaces(headPixels))
	}
	for _, c := range columnsFor(m.mode) {
		parts = append(parts, bg.Cell(c.title, c.width, c.right, styles.ColumnHeader))
	}
	return bg.FillLine(bg.Join(parts, " "), m.width)
}

// renderRow renders one player. The row is two lines tall when heads are
// drawn and one line otherwise.
func (m Model) renderRow(p roster.Player, index int) []string {
	styles := m.theme.Styles()
	rowBg := m.theme.Row
	if index%2 == 1 {
		rowBg = m.theme.RowAlt
	}
	bg := NewBgStyle(rowBg)

	var head []string
	if m.showHeads() {
		head = m.headLines(p, bg)
	}

	cols := columnsFor(m.mode)
	parts := make([]string, 0, len(cols)+1)
	if head != nil {
		parts = append(parts, head[0])
	}
	parts = append(parts, bg.Cell(p.Username, cols[0].width, false, styles.Text))

	if !p.Healthy() {
		used := visibleWidth(bg.Join(parts, " ")) + 1
		parts = append(parts, bg.Render(truncate(p.ErrorMessage(), m.width-used), styles.DangerText))
	} else {
		values := statCells(p, m.mode)
		// Level is always the first value and the first stat column.
		parts = append(parts, bg.Cell(values[0], cols[1].width, true, styles.AccentText))
		rest := values[1:]
		restCols := cols[2:]
		if m.mode.IsBedwars() {
			parts = append(parts, bg.Pad(renderStars(p.Bedwars, bg), cols[2].width, false))
			restCols = cols[3:]
		}
		for i, v := range rest {
			parts = append(parts, bg.Cell(v, restCols[i].width, restCols[i].right, styles.Text))
		}
	}

	lines := []string{bg.FillLine(bg.Join(parts, " "), m.width)}
	for _, extra := range head[minInt(1, len(head)):] {
		lines = append(lines, bg.FillLine(extra, m.width))
	}
	return lines
}

// headLines returns the cached head for p, or blank cells when the player
// has no decodable skin.
func (m Model) headLines(p roster.Player, bg BgStyle) []string {
	rows := headPixels / 2
	if entry, ok := m.heads[headKey(p)]; ok && entry.ok {
		return entry.face.lines(headPixels)
	}
	blank := make([]string, rows)
	for i := range blank {
		blank[i] = bg.Spaces(headPixels)
	}
	return blank
}

func (m Model) showHeads() bool {
	return m.width >= LayoutHeadWidth
}

// rowHeight is the number of terminal lines one player occupies.
func (m Model) rowHeight() int {
	if m.showHeads() {
		return headPixels / 2
	}
	return 1
}

// bodyRows is how many players fit below the chrome.
func (m Model) bodyRows() int {
	lines := m.height - chromeRows
	if lines < 1 {
		return 0
	}
	return lines / m.rowHeight()
}

func (m Model) maxOffset() int {
	return maxInt(0, len(m.rows)-m.bodyRows())
}

// renderTable renders the visible slice of rows padded to the body height.
func (m Model) renderTable() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Row)
	height := maxInt(0, m.height-chromeRows)

	var lines []string
	if len(m.rows) == 0 {
		hint := "Waiting for players. Run /who in game to list the lobby."
		lines = append(lines, bg.FillLine(bg.Render(hint, styles.MutedText), m.width))
	}

	end := minInt(len(m.rows), m.offset+m.bodyRows())
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(m.rows[i], i)...)
	}

	for len(lines) < height {
		lines = append(lines, bg.Spaces(m.width))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// headKey identifies a cached face.
func headKey(p roster.Player) string {
	if p.UUID != "" {
		return p.UUID
	}
	return p.Username
}
