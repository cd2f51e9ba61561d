package stats

import "math"

const (
	prestigeExperience = 487000
	levelExperience    = 5000
)

// earlyLevelExperience lists the cost of the first four levels of every
// prestige; every later level costs levelExperience.
var earlyLevelExperience = [4]int{500, 1000, 2000, 3500}

// BedwarsStars returns the star count for the given Bedwars experience,
// rounded to the nearest whole star.
func BedwarsStars(experience int) int {
	if experience < 0 {
		experience = 0
	}
	prestiges := experience / prestigeExperience
	level := prestiges * 100
	remaining := experience - prestiges*prestigeExperience

	for _, cost := range earlyLevelExperience {
		if remaining < cost {
			break
		}
		level++
		remaining -= cost
	}

	return int(math.Floor(float64(level) + float64(remaining)/levelExperience + 0.5))
}
