package stats

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Ratio divides num by den, treating a zero denominator as one, and truncates
// the result to two decimal places.
func Ratio(num, den int) float64 {
	if den == 0 {
		den = 1
	}
	if den < 0 {
		num, den = -num, -den
	}
	scaled := int64(num) * 100
	q := scaled / int64(den)
	if scaled%int64(den) != 0 && scaled < 0 {
		q--
	}
	return float64(q) / 100
}

// BedwarsMode identifies one Bedwars queue.
type BedwarsMode int

const (
	Solos BedwarsMode = iota
	Doubles
	Threes
	Fours
)

// BedwarsModes lists every queue in display order.
var BedwarsModes = []BedwarsMode{Solos, Doubles, Threes, Fours}

// Key returns the stat-field prefix used by the statistics service.
func (m BedwarsMode) Key() string {
	switch m {
	case Solos:
		return "eight_one"
	case Doubles:
		return "eight_two"
	case Threes:
		return "four_three"
	case Fours:
		return "four_four"
	default:
		return ""
	}
}

func (m BedwarsMode) String() string {
	switch m {
	case Solos:
		return "solos"
	case Doubles:
		return "doubles"
	case Threes:
		return "threes"
	case Fours:
		return "fours"
	default:
		return "unknown"
	}
}

// Counters are the raw per-mode counts reported by the statistics service.
type Counters struct {
	FinalKills  int
	FinalDeaths int
	Wins        int
	Losses      int
}

// ModeStats is a counter block with its derived ratios.
type ModeStats struct {
	Counters
	FKDR float64
	WLR  float64
}

func newModeStats(c Counters) ModeStats {
	return ModeStats{
		Counters: c,
		FKDR:     Ratio(c.FinalKills, c.FinalDeaths),
		WLR:      Ratio(c.Wins, c.Losses),
	}
}

// Bedwars holds derived Bedwars statistics for a player.
type Bedwars struct {
	Experience int
	Stars      int
	Tier       Tier

	Solos   ModeStats
	Doubles ModeStats
	Threes  ModeStats
	Fours   ModeStats
	Overall ModeStats
}

// ComputeBedwars derives stars, tier and per-mode ratios. Missing modes count
// as zero. Overall sums the counters and recomputes the ratios from the sums.
func ComputeBedwars(experience int, modes map[BedwarsMode]Counters) Bedwars {
	stars := BedwarsStars(experience)
	bw := Bedwars{
		Experience: experience,
		Stars:      stars,
		Tier:       TierFor(stars),
		Solos:      newModeStats(modes[Solos]),
		Doubles:    newModeStats(modes[Doubles]),
		Threes:     newModeStats(modes[Threes]),
		Fours:      newModeStats(modes[Fours]),
	}

	var total Counters
	for _, m := range BedwarsModes {
		c := modes[m]
		total.FinalKills += c.FinalKills
		total.FinalDeaths += c.FinalDeaths
		total.Wins += c.Wins
		total.Losses += c.Losses
	}
	bw.Overall = newModeStats(total)
	return bw
}

// Mode returns the stat block for a Bedwars display mode. Non-Bedwars modes
// fall back to the overall block.
func (b Bedwars) Mode(mode DisplayMode) ModeStats {
	switch mode {
	case DisplaySolos:
		return b.Solos
	case DisplayDoubles:
		return b.Doubles
	case DisplayThrees:
		return b.Threes
	case DisplayFours:
		return b.Fours
	default:
		return b.Overall
	}
}

// MiniWallsCounters are the raw Mini Walls counts.
type MiniWallsCounters struct {
	ActiveKit    string
	Kills        int
	Deaths       int
	FinalKills   int
	Wins         int
	WitherKills  int
	WitherDamage int
	ArrowsShot   int
	ArrowsHit    int
}

// MiniWalls holds derived Mini Walls statistics.
type MiniWalls struct {
	MiniWallsCounters
	Kit           string // upper-cased kit initial, "X" when unknown
	KDR           float64
	ArrowHitRatio float64
}

// ComputeMiniWalls derives the kit initial and ratios.
func ComputeMiniWalls(c MiniWallsCounters) MiniWalls {
	kit := "X"
	if trimmed := strings.TrimSpace(c.ActiveKit); trimmed != "" {
		r, _ := utf8.DecodeRuneInString(trimmed)
		kit = string(unicode.ToUpper(r))
	}
	return MiniWalls{
		MiniWallsCounters: c,
		Kit:               kit,
		KDR:               Ratio(c.Kills, c.Deaths),
		ArrowHitRatio:     Ratio(c.ArrowsHit, c.ArrowsShot),
	}
}
