package entities

import "math"

// BaseHP is the maximum HP of a level zero player.
const BaseHP = 40

// Level derives the player level from experience: floor(sqrt(xp/3)).
func Level(xp int64) int {
	if xp <= 0 {
		return 0
	}
	level := int(math.Sqrt(float64(xp) / 3))
	// guard against sqrt rounding just below an exact square
	for XPForLevel(level+1) <= xp {
		level++
	}
	return level
}

// MaxHP is the HP cap at a level.
func MaxHP(level int) int {
	return BaseHP + 2*level
}

// XPForLevel is the experience needed to reach a level.
func XPForLevel(level int) int64 {
	return 3 * int64(level) * int64(level)
}
