package stats

import "math"

// Network experience curve: each level costs growth more than the previous
// one, starting at base.
const (
	networkBase   = 10000.0
	networkGrowth = 2500.0

	reversePQPrefix  = -(networkBase - 0.5*networkGrowth) / networkGrowth
	reverseConst     = reversePQPrefix * reversePQPrefix
	growthDividesTwo = 2.0 / networkGrowth
)

// NetworkLevel converts total network experience into a level by inverting the
// quadratic experience curve. Negative experience clamps to level 1.
func NetworkLevel(experience float64) int {
	if experience < 0 {
		return 1
	}
	level := math.Floor(1 + reversePQPrefix + math.Sqrt(reverseConst+growthDividesTwo*experience) + 0.5)
	if level < 1 {
		return 1
	}
	return int(level)
}
