// Package economy holds the pure reward rules: the level table, the streak
// calculator and the mystery-box roller. Nothing here touches the store, so
// display code and the approval engine can never disagree about a result.
package economy

// Level is one tier of the progression table.
type Level struct {
	Number int
	MinXP  int
}

// levelTable is the single source of truth for XP thresholds. Display names
// and icons are a presentation lookup keyed by Number and live elsewhere.
var levelTable = []Level{
	{1, 0},
	{2, 100},
	{3, 250},
	{4, 500},
	{5, 1000},
	{6, 1750},
	{7, 2750},
	{8, 4000},
	{9, 5500},
	{10, 7500},
	{11, 10000},
	{12, 13000},
}

// LevelFor returns the highest level whose threshold is at or below xp.
// Negative xp clamps to the first level.
func LevelFor(xp int) Level {
	current := levelTable[0]
	for _, lvl := range levelTable {
		if xp < lvl.MinXP {
			break
		}
		current = lvl
	}
	return current
}

// MaxLevel returns the final level of the table.
func MaxLevel() Level {
	return levelTable[len(levelTable)-1]
}

// ProgressFraction returns the integer-truncated percentage of XP earned
// between the current level's threshold and the next. At the final level it
// returns 100 so nothing ever divides by zero.
func ProgressFraction(xp int) int {
	current := LevelFor(xp)
	if current.Number == MaxLevel().Number {
		return 100
	}

	next := levelTable[current.Number] // Number is 1-based, so this indexes the next entry
	span := next.MinXP - current.MinXP
	pct := (xp - current.MinXP) * 100 / span
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// ExperienceToNext returns the XP gap to the next level. ok is false at the
// final level.
func ExperienceToNext(xp int) (int, bool) {
	current := LevelFor(xp)
	if current.Number == MaxLevel().Number {
		return 0, false
	}

	next := levelTable[current.Number]
	gap := next.MinXP - xp
	if gap < 0 {
		gap = 0
	}
	return gap, true
}
