package stats

import (
	"fmt"
	"math"
)

// Color is a 24-bit RGB value (0xRRGGBB).
type Color uint32

// Hex returns the color as a #RRGGBB string.
func (c Color) Hex() string {
	return fmt.Sprintf("#%06X", uint32(c)&0xFFFFFF)
}

// Prestige symbols.
const (
	SymbolStar       = "✫"
	SymbolCircleStar = "✪"
	SymbolFlower     = "❀"
)

// Tier is one 100-star band of the prestige table.
type Tier struct {
	Name string
	Min  int // inclusive
	Max  int // exclusive; math.MaxInt for the open-ended last band

	// Color is used when Multi is false; Colors cycles across the digits
	// otherwise.
	Color  Color
	Multi  bool
	Colors [4]Color

	SymbolColor Color
	Symbol      string
}

// Contains reports whether stars falls inside the band.
func (t Tier) Contains(stars int) bool {
	return stars >= t.Min && stars < t.Max
}

// DigitColor returns the color for the i-th character of the star count.
func (t Tier) DigitColor(i int) Color {
	if !t.Multi {
		return t.Color
	}
	return t.Colors[i%len(t.Colors)]
}

func single(name string, min int, color, symbol Color) Tier {
	return Tier{Name: name, Min: min, Max: min + 100, Color: color, SymbolColor: symbol}
}

func multi(name string, min int, colors [4]Color, symbol Color) Tier {
	return Tier{Name: name, Min: min, Max: min + 100, Multi: true, Colors: colors, SymbolColor: symbol}
}

// tiers is the literal prestige table. Thresholds and colors must not be
// interpolated.
var tiers = []Tier{
	single("stone", 0, 0xAAAAAA, 0xAAAAAA),
	single("iron", 100, 0xFFFFFF, 0xFFFFFF),
	single("gold", 200, 0xFFAA00, 0xFFAA00),
	single("diamond", 300, 0x55FFFF, 0x55FFFF),
	single("emerald", 400, 0x00AA00, 0x00AA00),
	single("sapphire", 500, 0x00AAAA, 0x00AAAA),
	single("ruby", 600, 0xAA0000, 0xAA0000),
	single("crystal", 700, 0xFF55FF, 0xFF55FF),
	single("opal", 800, 0x5555FF, 0x5555FF),
	single("amethyst", 900, 0xAA00AA, 0xAA00AA),
	multi("rainbow", 1000, [4]Color{0xFFAA00, 0xFFFF55, 0x55FF55, 0x55FFFF}, 0xFF55FF),
	single("iron prime", 1100, 0xFFFFFF, 0xAAAAAA),
	single("gold prime", 1200, 0xFFFF55, 0xFFAA00),
	single("diamond prime", 1300, 0x55FFFF, 0x00AAAA),
	single("emerald prime", 1400, 0x55FF55, 0x00AA00),
	single("sapphire prime", 1500, 0xAAAAAA, 0x5555FF),
	single("ruby prime", 1600, 0xFF5555, 0xAA0000),
	single("crystal prime", 1700, 0xFF55FF, 0xAA00AA),
	single("opal prime", 1800, 0x5555FF, 0x0000AA),
	single("amethyst prime", 1900, 0xAA00AA, 0xFF55FF),
	multi("mirror", 2000, [4]Color{0xAAAAAA, 0xFFFFFF, 0xFFFFFF, 0xAAAAAA}, 0xAAAAAA),
	multi("light", 2100, [4]Color{0xFFFFFF, 0xFFFF55, 0xFFFF55, 0xFFAA00}, 0xFFAA00),
	multi("dawn", 2200, [4]Color{0xFFAA00, 0xFFFFFF, 0xFFFFFF, 0x55FFFF}, 0x00AAAA),
	multi("dusk", 2300, [4]Color{0xAA00AA, 0xFF55FF, 0xFF55FF, 0xFFAA00}, 0xFFFF55),
	multi("air", 2400, [4]Color{0x55FFFF, 0xFFFFFF, 0xFFFFFF, 0xAAAAAA}, 0xAAAAAA),
	multi("wind", 2500, [4]Color{0xFFFFFF, 0x55FF55, 0x55FF55, 0x00AA00}, 0x00AA00),
	multi("nebula", 2600, [4]Color{0xAA0000, 0xFF5555, 0xFF5555, 0xFF55FF}, 0xFF55FF),
	multi("thunder", 2700, [4]Color{0xFFFF55, 0xFFFFFF, 0xFFFFFF, 0x555555}, 0x555555),
	multi("earth", 2800, [4]Color{0x55FF55, 0x00AA00, 0x00AA00, 0xFFAA00}, 0xFFAA00),
	multi("water", 2900, [4]Color{0x55FFFF, 0x00AAAA, 0x00AAAA, 0x5555FF}, 0x5555FF),
	multi("fire", 3000, [4]Color{0xFFFF55, 0xFFAA00, 0xFFAA00, 0xFF5555}, 0xFF5555),
}

func init() {
	tiers[len(tiers)-1].Max = math.MaxInt
	for i := range tiers {
		tiers[i].Symbol = symbolFor(tiers[i].Min)
	}
}

func symbolFor(stars int) string {
	switch {
	case stars < 1100:
		return SymbolStar
	case stars < 2100:
		return SymbolCircleStar
	default:
		return SymbolFlower
	}
}

// TierFor returns the prestige band for a star count. Negative counts map to
// the first band.
func TierFor(stars int) Tier {
	for i := len(tiers) - 1; i > 0; i-- {
		if stars >= tiers[i].Min {
			return tiers[i]
		}
	}
	return tiers[0]
}

// Tiers returns a copy of the full band table, lowest first.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}
