package economy

import "time"

// StreakResult is the outcome of one streak evaluation.
type StreakResult struct {
	NewStreak     int
	NewLongest    int
	IsConsecutive bool
}

// DateOnly truncates t to its calendar date in t's location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// calendarDaysApart counts whole calendar days from a to b. Both dates are
// rebuilt in UTC first so the count never depends on wall-clock duration:
// DST transitions and mixed UTC offsets between the stored date and the
// evaluation time must not shift the day boundary.
func calendarDaysApart(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	au := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bu := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}

// NextStreak computes the streak after one approved activity. Rules, in
// order, against today's calendar date:
//
//  1. no prior activity        → streak 1, consecutive
//  2. last activity today      → unchanged (same-day re-approval never double-counts)
//  3. last activity yesterday  → streak+1, consecutive
//  4. gap of 2+ days           → streak resets to 1, longest untouched
//
// Call at most once per approval and persist lastActivity = today right
// after, otherwise rule 2 stops protecting same-day approvals.
func NextStreak(lastActivity *time.Time, currentStreak, longestStreak int, today time.Time) StreakResult {
	if lastActivity == nil {
		return StreakResult{
			NewStreak:     1,
			NewLongest:    maxInt(longestStreak, 1),
			IsConsecutive: true,
		}
	}

	daysDiff := calendarDaysApart(*lastActivity, today)

	switch daysDiff {
	case 0:
		return StreakResult{
			NewStreak:     currentStreak,
			NewLongest:    maxInt(longestStreak, currentStreak),
			IsConsecutive: false,
		}
	case 1:
		newStreak := currentStreak + 1
		return StreakResult{
			NewStreak:     newStreak,
			NewLongest:    maxInt(longestStreak, newStreak),
			IsConsecutive: true,
		}
	default:
		return StreakResult{
			NewStreak:     1,
			NewLongest:    maxInt(longestStreak, 1),
			IsConsecutive: false,
		}
	}
}

// StreakMilestoneInterval is how often a consecutive streak earns a
// mystery-box roll.
const StreakMilestoneInterval = 7

// IsMilestone reports whether a freshly incremented streak just crossed a
// milestone. Only consecutive increments count; a same-day no-op or a reset
// never triggers a box.
func IsMilestone(res StreakResult) bool {
	return res.IsConsecutive && res.NewStreak > 0 && res.NewStreak%StreakMilestoneInterval == 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
