// Package stats derives display metrics from raw player counters.
//
// Everything here is a pure function of its inputs:
//
//   - NetworkLevel inverts the network experience curve.
//   - BedwarsStars converts Bedwars experience into stars using 487000-exp
//     prestige blocks whose first four levels have tabulated costs.
//   - TierFor maps a star count onto the fixed prestige band table (colors
//     and symbols are reproduced literally, not interpolated).
//   - Ratio divides with a zero denominator treated as one and truncates to
//     two decimal places.
//
// ComputeBedwars and ComputeMiniWalls bundle these into the per-mode blocks
// the UI renders.
package stats
